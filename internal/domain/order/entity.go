// internal/domain/order/entity.go
package order

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Status represents the order status
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusPreparing Status = "preparing"
	StatusInTransit Status = "in_transit"
	StatusDelivered Status = "delivered"
	StatusCancelled Status = "cancelled"
)

// Valid reports whether s is a known order status
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusPreparing,
		StatusInTransit, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// Order represents the order header. Orders are placed without an account;
// the customer is reached over the contact details captured at checkout.
type Order struct {
	ID               uint   `gorm:"primaryKey" json:"id"`
	OrderNumber      string `gorm:"uniqueIndex;not null;size:50" json:"order_number"`
	CustomerEmail    string `gorm:"not null;size:255" json:"customer_email"`
	CustomerWhatsApp string `gorm:"not null;size:30" json:"customer_whatsapp"`
	TotalAmount      int64  `gorm:"not null" json:"total_amount"` // In minor currency units
	Status           Status `gorm:"not null;default:'pending'" json:"status"`
	AdminNotes       string `gorm:"type:text" json:"admin_notes"`

	// One checkout attempt, one key. Duplicate submissions of the same
	// attempt hit the unique index instead of creating a second order.
	IdempotencyKey string `gorm:"uniqueIndex;size:36" json:"-"`

	StatusUpdatedAt time.Time      `json:"status_updated_at"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`

	Items []OrderItem `gorm:"foreignKey:OrderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"items"`
}

// OrderItem represents one line of an order. Price is the unit price at
// order time, never re-derived from the live product.
type OrderItem struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	OrderID     uint      `gorm:"not null;index" json:"order_id"`
	ProductID   uint      `gorm:"not null;index" json:"product_id"`
	ProductName string    `gorm:"not null;size:255" json:"product_name"`
	Quantity    int       `gorm:"not null" json:"quantity"`
	Price       int64     `gorm:"not null" json:"price"`       // Unit price in minor currency units
	TotalPrice  int64     `gorm:"not null" json:"total_price"` // Quantity * Price
	CreatedAt   time.Time `json:"created_at"`
}

// TableName overrides
func (Order) TableName() string     { return "orders" }
func (OrderItem) TableName() string { return "order_items" }

// GenerateOrderNumber generates a unique order number
func (o *Order) GenerateOrderNumber() string {
	// Format: ORD-YYYYMMDD-XXXXX
	return fmt.Sprintf("ORD-%s-%05d", time.Now().Format("20060102"), o.ID)
}

// GetFormattedTotal returns the total amount as a float in major units
func (o *Order) GetFormattedTotal() float64 {
	return float64(o.TotalAmount) / 100
}

// IsOpen reports whether the order is still being worked on
func (o *Order) IsOpen() bool {
	return o.Status != StatusDelivered && o.Status != StatusCancelled
}
