// internal/interfaces/http/handlers/cart.go
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/spicebazaar/marketplace-backend/internal/domain/cart"
	"github.com/spicebazaar/marketplace-backend/internal/domain/product"
	"github.com/spicebazaar/marketplace-backend/internal/interfaces/http/middleware"
)

// CartHandler handles cart endpoints
type CartHandler struct {
	cartStore      *cart.Store
	productService *product.Service
}

// NewCartHandler creates a new cart handler
func NewCartHandler(cartStore *cart.Store, productService *product.Service) *CartHandler {
	return &CartHandler{
		cartStore:      cartStore,
		productService: productService,
	}
}

// AddItemRequest identifies the product to add
type AddItemRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
}

// UpdateQuantityRequest carries the new quantity for a line item
type UpdateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// GetCart handles GET /cart
func (h *CartHandler) GetCart(c *gin.Context) {
	sessionID, _ := middleware.GetSessionIDFromContext(c)

	cartData, err := h.cartStore.Get(c.Request.Context(), sessionID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve cart",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart retrieved successfully",
		"data":    h.cartResponse(cartData),
	})
}

// AddItem handles POST /cart/items. The product snapshot is taken from the
// live catalog at this moment and never refreshed.
func (h *CartHandler) AddItem(c *gin.Context) {
	sessionID, _ := middleware.GetSessionIDFromContext(c)

	var req AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	p, err := h.productService.Get(c.Request.Context(), req.ProductID)
	if err != nil {
		if errors.Is(err, product.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Product not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to look up product",
		})
		return
	}
	if !p.InStock {
		c.JSON(http.StatusConflict, gin.H{
			"error": "Product is out of stock",
		})
		return
	}

	id, name, price, imageURL := p.CartSnapshot()
	cartData, err := h.cartStore.AddItem(c.Request.Context(), sessionID, cart.Product{
		ID:       id,
		Name:     name,
		Price:    price,
		ImageURL: imageURL,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to add item to cart",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Item added to cart successfully",
		"data":    h.cartResponse(cartData),
	})
}

// UpdateItem handles PUT /cart/items/:id
func (h *CartHandler) UpdateItem(c *gin.Context) {
	sessionID, _ := middleware.GetSessionIDFromContext(c)

	productID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid product ID",
		})
		return
	}

	var req UpdateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	cartData, err := h.cartStore.UpdateQuantity(c.Request.Context(), sessionID, uint(productID), req.Quantity)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to update cart item",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart item updated successfully",
		"data":    h.cartResponse(cartData),
	})
}

// RemoveItem handles DELETE /cart/items/:id
func (h *CartHandler) RemoveItem(c *gin.Context) {
	sessionID, _ := middleware.GetSessionIDFromContext(c)

	productID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid product ID",
		})
		return
	}

	cartData, err := h.cartStore.RemoveItem(c.Request.Context(), sessionID, uint(productID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to remove cart item",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart item removed successfully",
		"data":    h.cartResponse(cartData),
	})
}

// ClearCart handles DELETE /cart
func (h *CartHandler) ClearCart(c *gin.Context) {
	sessionID, _ := middleware.GetSessionIDFromContext(c)

	if err := h.cartStore.Clear(c.Request.Context(), sessionID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to clear cart",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart cleared successfully",
	})
}

func (h *CartHandler) cartResponse(cartData *cart.Cart) gin.H {
	return gin.H{
		"cart":       cartData,
		"item_count": cartData.ItemCount(),
		"total":      cartData.Total(),
	}
}
