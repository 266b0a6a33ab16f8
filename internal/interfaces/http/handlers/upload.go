// internal/interfaces/http/handlers/upload.go
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/spicebazaar/marketplace-backend/internal/domain/upload"
	"github.com/spicebazaar/marketplace-backend/internal/interfaces/http/middleware"
)

// UploadHandler handles product image upload endpoints
type UploadHandler struct {
	uploadService *upload.Service
}

// NewUploadHandler creates a new upload handler
func NewUploadHandler(uploadService *upload.Service) *UploadHandler {
	return &UploadHandler{
		uploadService: uploadService,
	}
}

// UploadImage handles POST /admin/uploads
func (h *UploadHandler) UploadImage(c *gin.Context) {
	adminID, _ := middleware.GetAdminIDFromContext(c)

	file, header, err := c.Request.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Image file is required",
		})
		return
	}
	defer file.Close()

	uploadedFile, err := h.uploadService.UploadImage(&upload.ImageUploadRequest{
		File:       file,
		Header:     header,
		UploadedBy: adminID,
	})
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Image uploaded successfully",
		"data":    uploadedFile,
	})
}

// ListImages handles GET /admin/uploads
func (h *UploadHandler) ListImages(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	files, err := h.uploadService.ListImages(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to list images",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Images retrieved successfully",
		"data":    files,
	})
}

// DeleteImage handles DELETE /admin/uploads/:id
func (h *UploadHandler) DeleteImage(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid image ID",
		})
		return
	}

	if err := h.uploadService.DeleteImage(uint(id)); err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Image deleted successfully",
	})
}
