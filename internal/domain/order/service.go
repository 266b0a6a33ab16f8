// internal/domain/order/service.go
package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spicebazaar/marketplace-backend/internal/config"
	"gorm.io/gorm"
)

// PersistStage identifies which insert of an order write failed
type PersistStage string

const (
	StageHeader PersistStage = "header"
	StageItems  PersistStage = "items"
)

// PersistError reports a failed order write together with the stage that
// failed. Callers use it to distinguish a missing header from missing lines.
type PersistError struct {
	Stage PersistStage
	Err   error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("order %s insert failed: %v", e.Stage, e.Err)
}

func (e *PersistError) Unwrap() error { return e.Err }

// ErrNotFound is returned when an order does not exist
var ErrNotFound = errors.New("order not found")

// Service handles order business logic
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new order service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// ListRequest represents order list query parameters
type ListRequest struct {
	Page      int    `form:"page,default=1"`
	Limit     int    `form:"limit,default=20"`
	Status    Status `form:"status"`
	SortBy    string `form:"sort_by,default=created_at"`
	SortOrder string `form:"sort_order,default=desc"`
	DateFrom  string `form:"date_from"`
	DateTo    string `form:"date_to"`
}

// ListResponse represents an order page with pagination info
type ListResponse struct {
	Orders     []Order    `json:"orders"`
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

// StatusUpdateRequest represents an admin status change
type StatusUpdateRequest struct {
	Status     Status `json:"status" binding:"required"`
	AdminNotes string `json:"admin_notes"`
}

// Create persists an order header and its line items in a single
// transaction. Either everything lands or nothing does; the returned
// PersistError still reports which insert failed.
func (s *Service) Create(ctx context.Context, o *Order, items []OrderItem) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		o.Status = StatusPending
		o.StatusUpdatedAt = time.Now().UTC()

		if err := tx.Create(o).Error; err != nil {
			return &PersistError{Stage: StageHeader, Err: err}
		}

		o.OrderNumber = o.GenerateOrderNumber()
		if err := tx.Model(o).Update("order_number", o.OrderNumber).Error; err != nil {
			return &PersistError{Stage: StageHeader, Err: err}
		}

		for i := range items {
			items[i].OrderID = o.ID
			if err := tx.Create(&items[i]).Error; err != nil {
				return &PersistError{Stage: StageItems, Err: err}
			}
		}

		o.Items = items
		return nil
	})
}

// List retrieves orders with filtering and pagination
func (s *Service) List(ctx context.Context, req *ListRequest) (*ListResponse, error) {
	var orders []Order
	var total int64

	req.Page, req.Limit = normalizePagination(req.Page, req.Limit)

	query := s.db.WithContext(ctx).Model(&Order{}).Preload("Items")

	if req.Status != "" {
		query = query.Where("status = ?", req.Status)
	}
	if req.DateFrom != "" {
		query = query.Where("created_at >= ?", req.DateFrom)
	}
	if req.DateTo != "" {
		query = query.Where("created_at <= ?", req.DateTo)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count orders: %w", err)
	}

	query = query.Order(s.buildOrderClause(req.SortBy, req.SortOrder))

	offset := (req.Page - 1) * req.Limit
	if err := query.Offset(offset).Limit(req.Limit).Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve orders: %w", err)
	}

	totalPages := int((total + int64(req.Limit) - 1) / int64(req.Limit))
	return &ListResponse{
		Orders: orders,
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

// Get retrieves a single order by ID with its line items
func (s *Service) Get(ctx context.Context, id uint) (*Order, error) {
	var o Order
	result := s.db.WithContext(ctx).Preload("Items").Where("id = ?", id).First(&o)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to retrieve order: %w", result.Error)
	}
	return &o, nil
}

// UpdateStatus transitions an order to a new status and records the admin
// notes. Invalid transitions are rejected.
func (s *Service) UpdateStatus(ctx context.Context, orderID uint, req *StatusUpdateRequest) (*Order, error) {
	if !req.Status.Valid() {
		return nil, fmt.Errorf("unknown order status: %s", req.Status)
	}

	o, err := s.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if !isValidStatusTransition(o.Status, req.Status) {
		return nil, fmt.Errorf("invalid status transition from %s to %s", o.Status, req.Status)
	}

	now := time.Now().UTC()
	updates := map[string]interface{}{
		"status":            req.Status,
		"admin_notes":       req.AdminNotes,
		"status_updated_at": now,
	}
	if err := s.db.WithContext(ctx).Model(o).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}

	o.Status = req.Status
	o.AdminNotes = req.AdminNotes
	o.StatusUpdatedAt = now
	return o, nil
}

// isValidStatusTransition enforces the fulfilment flow:
// pending → confirmed → preparing → in_transit → delivered, with
// cancellation allowed any time before the parcel ships.
func isValidStatusTransition(from, to Status) bool {
	if from == to {
		return true // re-saving notes without moving the status
	}

	validTransitions := map[Status][]Status{
		StatusPending:   {StatusConfirmed, StatusCancelled},
		StatusConfirmed: {StatusPreparing, StatusCancelled},
		StatusPreparing: {StatusInTransit, StatusCancelled},
		StatusInTransit: {StatusDelivered},
	}

	for _, allowed := range validTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
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
		"created_at":   true,
		"updated_at":   true,
		"total_amount": true,
		"status":       true,
		"order_number": true,
	}

	if !validSortFields[sortBy] {
		sortBy = "created_at"
	}
	if sortOrder != "asc" && sortOrder != "desc" {
		sortOrder = "desc"
	}
	return fmt.Sprintf("%s %s", sortBy, sortOrder)
}
