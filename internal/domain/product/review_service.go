// internal/domain/product/review_service.go
package product

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// ErrReviewNotFound is returned when a review does not exist
var ErrReviewNotFound = errors.New("review not found")

// ReviewService handles review submission and moderation
type ReviewService struct {
	db *gorm.DB
}

// NewReviewService creates a new review service
func NewReviewService(db *gorm.DB) *ReviewService {
	return &ReviewService{db: db}
}

// ReviewCreateRequest represents a customer review submission
type ReviewCreateRequest struct {
	AuthorName string `json:"author_name" binding:"required,max=100"`
	Rating     int    `json:"rating" binding:"required,min=1,max=5"`
	Comment    string `json:"comment" binding:"max=2000"`
}

// ReviewSummary aggregates approved ratings for a product
type ReviewSummary struct {
	ProductID     uint    `json:"product_id"`
	ReviewCount   int64   `json:"review_count"`
	AverageRating float64 `json:"average_rating"`
}

// Submit records a customer review. It stays hidden until approved.
func (s *ReviewService) Submit(ctx context.Context, productID uint, req *ReviewCreateRequest) (*Review, error) {
	var exists int64
	if err := s.db.WithContext(ctx).Model(&Product{}).
		Where("id = ?", productID).Count(&exists).Error; err != nil {
		return nil, fmt.Errorf("failed to check product: %w", err)
	}
	if exists == 0 {
		return nil, ErrNotFound
	}

	r := Review{
		ProductID:  productID,
		AuthorName: strings.TrimSpace(req.AuthorName),
		Rating:     req.Rating,
		Comment:    strings.TrimSpace(req.Comment),
		IsApproved: false,
	}
	if r.AuthorName == "" {
		return nil, fmt.Errorf("author name is required")
	}
	if r.Rating < 1 || r.Rating > 5 {
		return nil, fmt.Errorf("rating must be between 1 and 5")
	}

	if err := s.db.WithContext(ctx).Create(&r).Error; err != nil {
		return nil, fmt.Errorf("failed to create review: %w", err)
	}
	return &r, nil
}

// ListApproved returns the approved reviews for a product, newest first
func (s *ReviewService) ListApproved(ctx context.Context, productID uint) ([]Review, error) {
	var reviews []Review
	err := s.db.WithContext(ctx).
		Where("product_id = ? AND is_approved = ?", productID, true).
		Order("created_at DESC").
		Find(&reviews).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve reviews: %w", err)
	}
	return reviews, nil
}

// ListPending returns reviews awaiting moderation, oldest first
func (s *ReviewService) ListPending(ctx context.Context) ([]Review, error) {
	var reviews []Review
	err := s.db.WithContext(ctx).
		Where("is_approved = ?", false).
		Order("created_at ASC").
		Find(&reviews).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve pending reviews: %w", err)
	}
	return reviews, nil
}

// Approve publishes a pending review
func (s *ReviewService) Approve(ctx context.Context, reviewID uint) (*Review, error) {
	var r Review
	result := s.db.WithContext(ctx).Where("id = ?", reviewID).First(&r)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, fmt.Errorf("failed to retrieve review: %w", result.Error)
	}

	if err := s.db.WithContext(ctx).Model(&r).Update("is_approved", true).Error; err != nil {
		return nil, fmt.Errorf("failed to approve review: %w", err)
	}
	r.IsApproved = true
	return &r, nil
}

// Delete removes a review
func (s *ReviewService) Delete(ctx context.Context, reviewID uint) error {
	result := s.db.WithContext(ctx).Where("id = ?", reviewID).Delete(&Review{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete review: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrReviewNotFound
	}
	return nil
}

// Summary computes the approved review count and average rating
func (s *ReviewService) Summary(ctx context.Context, productID uint) (*ReviewSummary, error) {
	summary := ReviewSummary{ProductID: productID}

	row := s.db.WithContext(ctx).Model(&Review{}).
		Select("COUNT(*), COALESCE(AVG(rating), 0)").
		Where("product_id = ? AND is_approved = ?", productID, true).
		Row()
	if err := row.Scan(&summary.ReviewCount, &summary.AverageRating); err != nil {
		return nil, fmt.Errorf("failed to compute review summary: %w", err)
	}
	return &summary, nil
}
