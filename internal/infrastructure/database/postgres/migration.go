// internal/infrastructure/database/postgres/migration.go
package postgres

import (
	"fmt"
	"log"

	"github.com/spicebazaar/marketplace-backend/internal/config"
	"github.com/spicebazaar/marketplace-backend/internal/domain/admin"
	"github.com/spicebazaar/marketplace-backend/internal/domain/order"
	"github.com/spicebazaar/marketplace-backend/internal/domain/product"
	"github.com/spicebazaar/marketplace-backend/internal/domain/upload"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Migration handles database migrations
type Migration struct {
	db *gorm.DB
}

// NewMigration creates a new migration instance
func NewMigration(db *gorm.DB) *Migration {
	return &Migration{
		db: db,
	}
}

// RunAutoMigrations runs GORM auto-migrations for all models
func (m *Migration) RunAutoMigrations() error {
	log.Println("🔄 Running database auto-migrations...")

	// Dependency order: categories before products, orders before items.
	models := []interface{}{
		&product.Category{},
		&product.Product{},
		&product.Review{},

		&order.Order{},
		&order.OrderItem{},

		&upload.UploadedFile{},

		&admin.User{},
	}

	for _, model := range models {
		log.Printf("Migrating model: %T", model)
		if err := m.db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate model %T: %w", model, err)
		}
	}

	log.Println("✅ Database auto-migrations completed successfully")
	return nil
}

// CreateIndexes creates additional indexes for common query paths
func (m *Migration) CreateIndexes() error {
	log.Println("🔄 Creating additional database indexes...")

	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_products_category_stock ON products(category_id, in_stock)",
		"CREATE INDEX IF NOT EXISTS idx_products_featured ON products(is_featured) WHERE is_featured = true",

		"CREATE INDEX IF NOT EXISTS idx_orders_status_created ON orders(status, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_orders_customer_email ON orders(customer_email)",

		"CREATE INDEX IF NOT EXISTS idx_reviews_product_approved ON reviews(product_id, is_approved)",
	}

	for _, index := range indexes {
		if err := m.db.Exec(index).Error; err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	log.Println("✅ Database indexes created successfully")
	return nil
}

// SeedDefaultAdmin creates the bootstrap admin account when none exists
func (m *Migration) SeedDefaultAdmin(cfg *config.Config) error {
	var count int64
	if err := m.db.Model(&admin.User{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count admin users: %w", err)
	}
	if count > 0 {
		return nil
	}

	email := cfg.App.DefaultAdminEmail
	password := cfg.App.DefaultAdminPassword
	if email == "" || password == "" {
		log.Println("No default admin credentials configured, skipping admin seed")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), cfg.Security.BcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash default admin password: %w", err)
	}

	u := admin.User{
		Email:        email,
		PasswordHash: string(hash),
		DisplayName:  "Administrator",
		IsActive:     true,
	}
	if err := m.db.Create(&u).Error; err != nil {
		return fmt.Errorf("failed to seed default admin: %w", err)
	}

	log.Printf("✅ Seeded default admin account: %s", email)
	return nil
}
