// internal/domain/upload/service.go
package upload

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spicebazaar/marketplace-backend/internal/config"
	"gorm.io/gorm"
)

// Service handles product image uploads to local storage
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new upload service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// ImageUploadRequest represents a product image upload
type ImageUploadRequest struct {
	File       multipart.File        `json:"-"`
	Header     *multipart.FileHeader `json:"-"`
	UploadedBy uint                  `json:"uploaded_by"`
}

var allowedExtensions = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
}

// UploadImage stores a product image and records it
func (s *Service) UploadImage(req *ImageUploadRequest) (*UploadedFile, error) {
	if err := s.validateImageFile(req.Header); err != nil {
		return nil, err
	}

	filename := generateFilename(req.Header.Filename)
	relativePath := filepath.Join("products", filename)
	fullPath := filepath.Join(s.config.Storage.LocalPath, relativePath)

	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}

	dst, err := os.Create(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, req.File); err != nil {
		return nil, fmt.Errorf("failed to save file: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(req.Header.Filename))
	uploadedFile := UploadedFile{
		OriginalName: req.Header.Filename,
		Filename:     filename,
		Path:         relativePath,
		URL:          s.getFileURL(relativePath),
		MimeType:     allowedExtensions[ext],
		Size:         req.Header.Size,
		UploadedBy:   req.UploadedBy,
	}

	if err := s.db.Create(&uploadedFile).Error; err != nil {
		// Keep storage and database consistent.
		os.Remove(fullPath)
		return nil, fmt.Errorf("failed to save file record: %w", err)
	}

	return &uploadedFile, nil
}

// DeleteImage removes a stored image and its record
func (s *Service) DeleteImage(imageID uint) error {
	var uploadedFile UploadedFile
	if err := s.db.First(&uploadedFile, imageID).Error; err != nil {
		return fmt.Errorf("image not found")
	}

	fullPath := filepath.Join(s.config.Storage.LocalPath, uploadedFile.Path)
	if err := os.Remove(fullPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}

	if err := s.db.Delete(&uploadedFile).Error; err != nil {
		return fmt.Errorf("failed to delete file record: %w", err)
	}
	return nil
}

// ListImages returns stored images, newest first
func (s *Service) ListImages(limit int) ([]UploadedFile, error) {
	if limit < 1 || limit > 100 {
		limit = 50
	}
	var files []UploadedFile
	if err := s.db.Order("created_at DESC").Limit(limit).Find(&files).Error; err != nil {
		return nil, fmt.Errorf("failed to list images: %w", err)
	}
	return files, nil
}

func (s *Service) validateImageFile(header *multipart.FileHeader) error {
	if header == nil {
		return fmt.Errorf("no file provided")
	}
	if header.Size > s.config.Storage.MaxSize {
		return fmt.Errorf("file exceeds maximum size of %d bytes", s.config.Storage.MaxSize)
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if _, ok := allowedExtensions[ext]; !ok {
		return fmt.Errorf("unsupported file type: %s", ext)
	}
	return nil
}

func (s *Service) getFileURL(relativePath string) string {
	base := strings.TrimSuffix(s.config.Storage.PublicBase, "/")
	return base + "/" + filepath.ToSlash(relativePath)
}

// generateFilename builds a collision-free name from the original:
// the sanitized base plus an upload timestamp.
func generateFilename(original string) string {
	ext := strings.ToLower(filepath.Ext(original))
	base := strings.TrimSuffix(filepath.Base(original), filepath.Ext(original))

	var b strings.Builder
	for _, r := range strings.ToLower(base) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			b.WriteRune(r)
		} else if r == ' ' {
			b.WriteRune('_')
		}
	}
	sanitized := b.String()
	if sanitized == "" {
		sanitized = "image"
	}

	return fmt.Sprintf("%s_%d%s", sanitized, time.Now().UnixNano(), ext)
}
