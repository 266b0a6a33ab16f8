// internal/domain/product/category_service.go
package product

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// ErrCategoryNotFound is returned when a category does not exist
var ErrCategoryNotFound = errors.New("category not found")

// CategoryService handles category business logic
type CategoryService struct {
	db *gorm.DB
}

// NewCategoryService creates a new category service
func NewCategoryService(db *gorm.DB) *CategoryService {
	return &CategoryService{db: db}
}

// CategoryCreateRequest represents category creation data
type CategoryCreateRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	SortOrder   int    `json:"sort_order"`
	IsActive    bool   `json:"is_active"`
}

// CategoryUpdateRequest represents category update data
type CategoryUpdateRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	SortOrder   *int    `json:"sort_order"`
	IsActive    *bool   `json:"is_active"`
}

// List retrieves all categories in storefront order
func (s *CategoryService) List(ctx context.Context, activeOnly bool) ([]Category, error) {
	var categories []Category
	query := s.db.WithContext(ctx).Order("sort_order ASC, name ASC")
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	if err := query.Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve categories: %w", err)
	}
	return categories, nil
}

// Get retrieves a single category by ID
func (s *CategoryService) Get(ctx context.Context, id uint) (*Category, error) {
	var c Category
	result := s.db.WithContext(ctx).Where("id = ?", id).First(&c)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to retrieve category: %w", result.Error)
	}
	return &c, nil
}

// Create creates a new category
func (s *CategoryService) Create(ctx context.Context, req *CategoryCreateRequest) (*Category, error) {
	c := Category{
		Name:        req.Name,
		Slug:        generateSlug(req.Name),
		Description: req.Description,
		SortOrder:   req.SortOrder,
		IsActive:    req.IsActive,
	}
	if err := s.db.WithContext(ctx).Create(&c).Error; err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}
	return &c, nil
}

// Update updates an existing category
func (s *CategoryService) Update(ctx context.Context, id uint, req *CategoryUpdateRequest) (*Category, error) {
	c, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["name"] = *req.Name
		updates["slug"] = generateSlug(*req.Name)
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.SortOrder != nil {
		updates["sort_order"] = *req.SortOrder
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	if err := s.db.WithContext(ctx).Model(c).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update category: %w", err)
	}
	return c, nil
}

// Delete soft deletes a category. Categories with products are protected.
func (s *CategoryService) Delete(ctx context.Context, id uint) error {
	var productCount int64
	if err := s.db.WithContext(ctx).Model(&Product{}).
		Where("category_id = ?", id).Count(&productCount).Error; err != nil {
		return fmt.Errorf("failed to check category products: %w", err)
	}
	if productCount > 0 {
		return fmt.Errorf("category has %d products and cannot be deleted", productCount)
	}

	result := s.db.WithContext(ctx).Where("id = ?", id).Delete(&Category{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete category: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrCategoryNotFound
	}
	return nil
}
