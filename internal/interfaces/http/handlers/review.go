// internal/interfaces/http/handlers/review.go
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/spicebazaar/marketplace-backend/internal/domain/product"
)

// ReviewHandler handles review endpoints
type ReviewHandler struct {
	reviewService *product.ReviewService
}

// NewReviewHandler creates a new review handler
func NewReviewHandler(reviewService *product.ReviewService) *ReviewHandler {
	return &ReviewHandler{
		reviewService: reviewService,
	}
}

// Submit handles POST /products/:id/reviews
func (h *ReviewHandler) Submit(c *gin.Context) {
	productID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid product ID",
		})
		return
	}

	var req product.ReviewCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	review, err := h.reviewService.Submit(c.Request.Context(), uint(productID), &req)
	if err != nil {
		if errors.Is(err, product.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Product not found",
			})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Review submitted for moderation",
		"data":    review,
	})
}

// ListForProduct handles GET /products/:id/reviews
func (h *ReviewHandler) ListForProduct(c *gin.Context) {
	productID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid product ID",
		})
		return
	}

	reviews, err := h.reviewService.ListApproved(c.Request.Context(), uint(productID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve reviews",
		})
		return
	}

	summary, err := h.reviewService.Summary(c.Request.Context(), uint(productID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to compute review summary",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Reviews retrieved successfully",
		"data": gin.H{
			"reviews": reviews,
			"summary": summary,
		},
	})
}

// ListPending handles GET /admin/reviews/pending
func (h *ReviewHandler) ListPending(c *gin.Context) {
	reviews, err := h.reviewService.ListPending(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve pending reviews",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Pending reviews retrieved successfully",
		"data":    reviews,
	})
}

// Approve handles POST /admin/reviews/:id/approve
func (h *ReviewHandler) Approve(c *gin.Context) {
	reviewID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid review ID",
		})
		return
	}

	review, err := h.reviewService.Approve(c.Request.Context(), uint(reviewID))
	if err != nil {
		if errors.Is(err, product.ErrReviewNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Review not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to approve review",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Review approved successfully",
		"data":    review,
	})
}

// Delete handles DELETE /admin/reviews/:id
func (h *ReviewHandler) Delete(c *gin.Context) {
	reviewID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid review ID",
		})
		return
	}

	if err := h.reviewService.Delete(c.Request.Context(), uint(reviewID)); err != nil {
		if errors.Is(err, product.ErrReviewNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Review not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to delete review",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Review deleted successfully",
	})
}
