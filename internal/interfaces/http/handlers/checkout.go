// internal/interfaces/http/handlers/checkout.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/spicebazaar/marketplace-backend/internal/domain/checkout"
	"github.com/spicebazaar/marketplace-backend/internal/interfaces/http/middleware"
)

// CheckoutHandler handles checkout endpoints
type CheckoutHandler struct {
	checkoutService *checkout.Service
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(checkoutService *checkout.Service) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutService: checkoutService,
	}
}

// Submit handles POST /checkout
func (h *CheckoutHandler) Submit(c *gin.Context) {
	sessionID, _ := middleware.GetSessionIDFromContext(c)

	var req checkout.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	result, err := h.checkoutService.Submit(c.Request.Context(), sessionID, &req)
	if err != nil {
		status := http.StatusInternalServerError
		message := "Checkout failed"

		var cerr *checkout.Error
		if errors.As(err, &cerr) && cerr.Kind == checkout.KindValidation {
			status = http.StatusBadRequest
			message = cerr.Err.Error()
		}

		c.JSON(status, gin.H{
			"error": message,
			"data":  result,
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Order placed successfully",
		"data": gin.H{
			"state":        result.State,
			"order_number": result.Order.OrderNumber,
			"total_amount": result.Order.TotalAmount,
			"order":        result.Order,
		},
	})
}
