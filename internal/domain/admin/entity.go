// internal/domain/admin/entity.go
package admin

import (
	"time"

	"gorm.io/gorm"
)

// User represents a back-office administrator. Shoppers never have
// accounts; these credentials only guard the admin surface.
type User struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Email        string         `gorm:"uniqueIndex;not null;size:255" json:"email"`
	PasswordHash string         `gorm:"not null;size:255" json:"-"`
	DisplayName  string         `gorm:"size:100" json:"display_name"`
	IsActive     bool           `gorm:"default:true" json:"is_active"`
	LastLoginAt  *time.Time     `json:"last_login_at,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName overrides the table name
func (User) TableName() string { return "admin_users" }
