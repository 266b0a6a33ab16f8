// internal/domain/product/service.go
package product

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spicebazaar/marketplace-backend/internal/config"
	"gorm.io/gorm"
)

// ErrNotFound is returned when a product does not exist
var ErrNotFound = errors.New("product not found")

// Service handles catalog business logic
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new product service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// ListRequest represents product list query parameters
type ListRequest struct {
	Page       int    `form:"page,default=1"`
	Limit      int    `form:"limit,default=20"`
	CategoryID uint   `form:"category_id"`
	Search     string `form:"search"`
	SortBy     string `form:"sort_by,default=sort_order"`
	SortOrder  string `form:"sort_order,default=asc"`
	InStock    *bool  `form:"in_stock"`
	IsFeatured *bool  `form:"is_featured"`
}

// CreateRequest represents product creation data
type CreateRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Price       int64  `json:"price" binding:"required,gt=0"`
	ImageURL    string `json:"image_url"`
	CategoryID  uint   `json:"category_id" binding:"required"`
	Origin      string `json:"origin"`
	WeightGrams int    `json:"weight_grams"`
	InStock     bool   `json:"in_stock"`
	IsFeatured  bool   `json:"is_featured"`
	SortOrder   int    `json:"sort_order"`
}

// UpdateRequest represents product update data. Nil fields are left alone.
type UpdateRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Price       *int64  `json:"price"`
	ImageURL    *string `json:"image_url"`
	CategoryID  *uint   `json:"category_id"`
	Origin      *string `json:"origin"`
	WeightGrams *int    `json:"weight_grams"`
	InStock     *bool   `json:"in_stock"`
	IsFeatured  *bool   `json:"is_featured"`
	SortOrder   *int    `json:"sort_order"`
}

// ListResponse represents a product page with pagination info
type ListResponse struct {
	Products   []Product  `json:"products"`
	Pagination Pagination `json:"pagination"`
}

// Pagination represents pagination information
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
	HasPrev    bool  `json:"has_prev"`
}

// List retrieves products with filtering and pagination
func (s *Service) List(ctx context.Context, req *ListRequest) (*ListResponse, error) {
	var products []Product
	var total int64

	req.Page, req.Limit = normalizePagination(req.Page, req.Limit)

	query := s.db.WithContext(ctx).Model(&Product{}).Preload("Category")

	if req.CategoryID > 0 {
		query = query.Where("category_id = ?", req.CategoryID)
	}
	if req.Search != "" {
		search := "%" + strings.ToLower(req.Search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ? OR LOWER(origin) LIKE ?",
			search, search, search)
	}
	if req.InStock != nil {
		query = query.Where("in_stock = ?", *req.InStock)
	}
	if req.IsFeatured != nil {
		query = query.Where("is_featured = ?", *req.IsFeatured)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}

	query = query.Order(s.buildOrderClause(req.SortBy, req.SortOrder))

	offset := (req.Page - 1) * req.Limit
	if err := query.Offset(offset).Limit(req.Limit).Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve products: %w", err)
	}

	totalPages := int((total + int64(req.Limit) - 1) / int64(req.Limit))
	return &ListResponse{
		Products: products,
		Pagination: Pagination{
			Page:       req.Page,
			Limit:      req.Limit,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    req.Page < totalPages,
			HasPrev:    req.Page > 1,
		},
	}, nil
}

// Get retrieves a single product by ID
func (s *Service) Get(ctx context.Context, id uint) (*Product, error) {
	var p Product
	result := s.db.WithContext(ctx).
		Preload("Category").
		Preload("Reviews", "is_approved = ?", true).
		Where("id = ?", id).
		First(&p)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to retrieve product: %w", result.Error)
	}
	return &p, nil
}

// GetBySlug retrieves a single product by its storefront slug
func (s *Service) GetBySlug(ctx context.Context, slug string) (*Product, error) {
	var p Product
	result := s.db.WithContext(ctx).
		Preload("Category").
		Preload("Reviews", "is_approved = ?", true).
		Where("slug = ?", slug).
		First(&p)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to retrieve product: %w", result.Error)
	}
	return &p, nil
}

// Create creates a new product
func (s *Service) Create(ctx context.Context, req *CreateRequest) (*Product, error) {
	p := Product{
		Name:        req.Name,
		Slug:        generateSlug(req.Name),
		Description: req.Description,
		Price:       req.Price,
		ImageURL:    req.ImageURL,
		CategoryID:  req.CategoryID,
		Origin:      req.Origin,
		WeightGrams: req.WeightGrams,
		InStock:     req.InStock,
		IsFeatured:  req.IsFeatured,
		SortOrder:   req.SortOrder,
	}

	if err := s.db.WithContext(ctx).Create(&p).Error; err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	s.db.WithContext(ctx).Preload("Category").First(&p, p.ID)
	return &p, nil
}

// Update updates an existing product
func (s *Service) Update(ctx context.Context, id uint, req *UpdateRequest) (*Product, error) {
	p, err := s.Get(ctx, id)
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
	if req.Price != nil {
		updates["price"] = *req.Price
	}
	if req.ImageURL != nil {
		updates["image_url"] = *req.ImageURL
	}
	if req.CategoryID != nil {
		updates["category_id"] = *req.CategoryID
	}
	if req.Origin != nil {
		updates["origin"] = *req.Origin
	}
	if req.WeightGrams != nil {
		updates["weight_grams"] = *req.WeightGrams
	}
	if req.InStock != nil {
		updates["in_stock"] = *req.InStock
	}
	if req.IsFeatured != nil {
		updates["is_featured"] = *req.IsFeatured
	}
	if req.SortOrder != nil {
		updates["sort_order"] = *req.SortOrder
	}

	if err := s.db.WithContext(ctx).Model(p).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	s.db.WithContext(ctx).Preload("Category").First(p, p.ID)
	return p, nil
}

// Delete soft deletes a product. Existing carts keep their snapshot of it.
func (s *Service) Delete(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Where("id = ?", id).Delete(&Product{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete product: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// normalizePagination clamps page and limit to sane bounds. Query binding
// defaults only apply when the parameter is absent, so zero and negative
// values reach the service.
func normalizePagination(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return page, limit
}

func (s *Service) buildOrderClause(sortBy, sortOrder string) string {
	validSortFields := map[string]bool{
		"name":       true,
		"price":      true,
		"created_at": true,
		"sort_order": true,
	}

	if !validSortFields[sortBy] {
		sortBy = "sort_order"
	}
	if sortOrder != "asc" && sortOrder != "desc" {
		sortOrder = "asc"
	}
	return fmt.Sprintf("%s %s", sortBy, sortOrder)
}

// generateSlug generates a URL-friendly slug from a product name
func generateSlug(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = strings.ReplaceAll(slug, " ", "-")
	slug = strings.ReplaceAll(slug, "_", "-")

	var b strings.Builder
	for _, r := range slug {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' {
			b.WriteRune(r)
		}
	}
	return b.String() + "-" + fmt.Sprintf("%d", time.Now().Unix())
}
