// internal/domain/checkout/service.go
package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spicebazaar/marketplace-backend/internal/domain/cart"
	"github.com/spicebazaar/marketplace-backend/internal/domain/order"
	"github.com/spicebazaar/marketplace-backend/internal/pkg/notify"
)

// State tracks where a checkout attempt is in its lifecycle. A failed
// attempt keeps the state it failed in via Result.FailedAt.
type State string

const (
	StateIdle            State = "idle"
	StateValidating      State = "validating"
	StateSubmittingOrder State = "submitting_order"
	StateSubmittingItems State = "submitting_items"
	StateNotifying       State = "notifying"
	StateComplete        State = "complete"
	StateFailed          State = "failed"
)

// ErrorKind classifies what broke during a checkout attempt
type ErrorKind string

const (
	KindValidation          ErrorKind = "validation"
	KindCartPersistence     ErrorKind = "cart_persistence"
	KindOrderPersistence    ErrorKind = "order_persistence"
	KindLineItemPersistence ErrorKind = "line_item_persistence"
	KindNotification        ErrorKind = "notification"
)

// Error is a checkout failure tagged with its kind
type Error struct {
	Kind ErrorKind
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("checkout %s error: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Request carries the customer contact details for a checkout attempt.
// IdempotencyKey is optional; a client retrying a submit sends the same key
// so the unique index on the order header rejects the duplicate.
type Request struct {
	CustomerEmail    string `json:"customer_email" binding:"required"`
	CustomerWhatsApp string `json:"customer_whatsapp" binding:"required"`
	IdempotencyKey   string `json:"idempotency_key"`
}

// Result reports the outcome of a checkout attempt. On success Order is the
// persisted order; on failure Err carries the classified cause and FailedAt
// the state the attempt died in.
type Result struct {
	State    State        `json:"state"`
	FailedAt State        `json:"failed_at,omitempty"`
	Order    *order.Order `json:"order,omitempty"`
	Err      *Error       `json:"-"`
}

// CartStore is the slice of the cart service checkout needs
type CartStore interface {
	Get(ctx context.Context, sessionID string) (*cart.Cart, error)
	Clear(ctx context.Context, sessionID string) error
}

// OrderWriter persists an order header with its line items atomically
type OrderWriter interface {
	Create(ctx context.Context, o *order.Order, items []order.OrderItem) error
}

// Service coordinates a checkout: it validates contact details, turns the
// cart snapshot into an order, fires the notification and clears the cart.
type Service struct {
	carts    CartStore
	orders   OrderWriter
	notifier notify.Notifier
	logger   *logrus.Logger
}

// NewService creates a checkout service
func NewService(carts CartStore, orders OrderWriter, notifier notify.Notifier, logger *logrus.Logger) *Service {
	return &Service{
		carts:    carts,
		orders:   orders,
		notifier: notifier,
		logger:   logger,
	}
}

// Submit runs one checkout attempt for the session. The order header and its
// line items land in a single transaction, so a failure before completion
// leaves zero order rows and the cart untouched. The cart is cleared only
// once the order is fully persisted; from that point on the attempt cannot
// fail, a broken notification or cart clear is logged and swallowed.
func (s *Service) Submit(ctx context.Context, sessionID string, req *Request) (*Result, error) {
	if err := s.validate(req); err != nil {
		return s.fail(StateValidating, KindValidation, err)
	}

	c, err := s.carts.Get(ctx, sessionID)
	if err != nil {
		return s.fail(StateValidating, KindCartPersistence, fmt.Errorf("failed to load cart: %w", err))
	}
	if c.IsEmpty() {
		return s.fail(StateValidating, KindValidation, fmt.Errorf("cart is empty"))
	}

	// The total and every line price are fixed from the cart snapshot here.
	// Nothing downstream recomputes them.
	o := &order.Order{
		CustomerEmail:    strings.TrimSpace(req.CustomerEmail),
		CustomerWhatsApp: strings.TrimSpace(req.CustomerWhatsApp),
		TotalAmount:      c.Total(),
		IdempotencyKey:   idempotencyKey(req),
	}
	items := make([]order.OrderItem, 0, len(c.Items))
	for _, line := range c.Items {
		items = append(items, order.OrderItem{
			ProductID:   line.Product.ID,
			ProductName: line.Product.Name,
			Quantity:    line.Quantity,
			Price:       line.Product.Price,
			TotalPrice:  line.Product.Price * int64(line.Quantity),
		})
	}

	if err := s.orders.Create(ctx, o, items); err != nil {
		stage, kind := classifyPersistError(err)
		return s.fail(stage, kind, err)
	}

	s.notify(ctx, o)

	if err := s.carts.Clear(ctx, sessionID); err != nil {
		s.logger.WithError(err).WithField("order_number", o.OrderNumber).
			Warn("failed to clear cart after checkout")
	}

	s.logger.WithFields(logrus.Fields{
		"order_number": o.OrderNumber,
		"total_amount": o.TotalAmount,
		"item_count":   len(o.Items),
	}).Info("checkout complete")

	return &Result{State: StateComplete, Order: o}, nil
}

func (s *Service) validate(req *Request) error {
	if req == nil {
		return fmt.Errorf("checkout request required")
	}
	if strings.TrimSpace(req.CustomerEmail) == "" {
		return fmt.Errorf("customer email is required")
	}
	if !strings.Contains(req.CustomerEmail, "@") {
		return fmt.Errorf("customer email is invalid")
	}
	if strings.TrimSpace(req.CustomerWhatsApp) == "" {
		return fmt.Errorf("customer whatsapp number is required")
	}
	if len(strings.TrimSpace(req.IdempotencyKey)) > idempotencyKeyMaxLen {
		return fmt.Errorf("idempotency key must be at most %d characters", idempotencyKeyMaxLen)
	}
	return nil
}

// idempotencyKeyMaxLen matches the column size on the order header
const idempotencyKeyMaxLen = 36

// idempotencyKey returns the client-supplied key, or a fresh UUID when the
// client sent none.
func idempotencyKey(req *Request) string {
	if key := strings.TrimSpace(req.IdempotencyKey); key != "" {
		return key
	}
	return uuid.New().String()
}

// notify posts the order to the notification channel. Delivery is awaited so
// the outcome can be logged, but a failure never fails the checkout.
func (s *Service) notify(ctx context.Context, o *order.Order) {
	if s.notifier == nil {
		return
	}

	payload := notify.OrderPayload{
		OrderNumber:      o.OrderNumber,
		CustomerEmail:    o.CustomerEmail,
		CustomerWhatsApp: o.CustomerWhatsApp,
		TotalAmount:      o.TotalAmount,
		Items:            make([]notify.OrderItemPayload, 0, len(o.Items)),
	}
	for _, item := range o.Items {
		payload.Items = append(payload.Items, notify.OrderItemPayload{
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			Price:       item.Price,
		})
	}

	if err := s.notifier.OrderPlaced(ctx, payload); err != nil {
		s.logger.WithError(err).WithField("order_number", o.OrderNumber).
			Warn("order notification failed")
	}
}

// classifyPersistError maps an order write failure onto the checkout state
// and error kind it belongs to.
func classifyPersistError(err error) (State, ErrorKind) {
	var pe *order.PersistError
	if errors.As(err, &pe) && pe.Stage == order.StageItems {
		return StateSubmittingItems, KindLineItemPersistence
	}
	return StateSubmittingOrder, KindOrderPersistence
}

func (s *Service) fail(at State, kind ErrorKind, err error) (*Result, error) {
	cerr := &Error{Kind: kind, Err: err}
	s.logger.WithError(err).WithFields(logrus.Fields{
		"failed_at": at,
		"kind":      kind,
	}).Warn("checkout failed")
	return &Result{State: StateFailed, FailedAt: at, Err: cerr}, cerr
}
