package checkout

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/spicebazaar/marketplace-backend/internal/domain/cart"
	"github.com/spicebazaar/marketplace-backend/internal/domain/order"
	"github.com/spicebazaar/marketplace-backend/internal/pkg/notify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockCartStore struct {
	carts    map[string]*cart.Cart
	getErr   error
	clears   int
	clearErr error
}

func newMockCartStore() *mockCartStore {
	return &mockCartStore{carts: make(map[string]*cart.Cart)}
}

func (m *mockCartStore) Get(_ context.Context, sessionID string) (*cart.Cart, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	if c, ok := m.carts[sessionID]; ok {
		return c, nil
	}
	return cart.New(sessionID), nil
}

func (m *mockCartStore) Clear(_ context.Context, sessionID string) error {
	m.clears++
	if m.clearErr != nil {
		return m.clearErr
	}
	delete(m.carts, sessionID)
	return nil
}

type mockOrderWriter struct {
	created []*order.Order
	err     error
}

func (m *mockOrderWriter) Create(_ context.Context, o *order.Order, items []order.OrderItem) error {
	if m.err != nil {
		return m.err
	}
	o.ID = uint(len(m.created) + 1)
	o.OrderNumber = o.GenerateOrderNumber()
	o.Status = order.StatusPending
	o.Items = items
	m.created = append(m.created, o)
	return nil
}

type mockNotifier struct {
	payloads []notify.OrderPayload
	err      error
}

func (m *mockNotifier) OrderPlaced(_ context.Context, payload notify.OrderPayload) error {
	m.payloads = append(m.payloads, payload)
	return m.err
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func sessionWithCart(store *mockCartStore) string {
	c := cart.New("s1")
	c.AddItem(cart.Product{ID: 1, Name: "Smoked Paprika", Price: 100}, 5)
	c.AddItem(cart.Product{ID: 1, Name: "Smoked Paprika", Price: 100}, 5)
	c.AddItem(cart.Product{ID: 2, Name: "Sumac", Price: 50}, 5)
	store.carts["s1"] = c
	return "s1"
}

func validRequest() *Request {
	return &Request{
		CustomerEmail:    "shopper@example.com",
		CustomerWhatsApp: "+77011234567",
	}
}

func TestSubmitHappyPath(t *testing.T) {
	carts := newMockCartStore()
	orders := &mockOrderWriter{}
	notifier := &mockNotifier{}
	svc := NewService(carts, orders, notifier, testLogger())
	sessionID := sessionWithCart(carts)

	result, err := svc.Submit(context.Background(), sessionID, validRequest())

	require.NoError(t, err)
	assert.Equal(t, StateComplete, result.State)
	require.NotNil(t, result.Order)
	assert.Equal(t, int64(250), result.Order.TotalAmount)

	require.Len(t, result.Order.Items, 2)
	assert.Equal(t, uint(1), result.Order.Items[0].ProductID)
	assert.Equal(t, 2, result.Order.Items[0].Quantity)
	assert.Equal(t, int64(100), result.Order.Items[0].Price)
	assert.Equal(t, uint(2), result.Order.Items[1].ProductID)
	assert.Equal(t, 1, result.Order.Items[1].Quantity)
	assert.Equal(t, int64(50), result.Order.Items[1].Price)

	// Cart is gone, notification went out.
	c, _ := carts.Get(context.Background(), sessionID)
	assert.True(t, c.IsEmpty())
	require.Len(t, notifier.payloads, 1)
	assert.Equal(t, int64(250), notifier.payloads[0].TotalAmount)
}

func TestSubmitRejectsMissingEmail(t *testing.T) {
	carts := newMockCartStore()
	orders := &mockOrderWriter{}
	svc := NewService(carts, orders, &mockNotifier{}, testLogger())
	sessionID := sessionWithCart(carts)

	result, err := svc.Submit(context.Background(), sessionID, &Request{
		CustomerEmail:    "",
		CustomerWhatsApp: "+77011234567",
	})

	require.Error(t, err)
	var cerr *Error
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, KindValidation, cerr.Kind)
	assert.Equal(t, StateFailed, result.State)
	assert.Equal(t, StateValidating, result.FailedAt)

	// No order was written and the cart is intact.
	assert.Empty(t, orders.created)
	c, _ := carts.Get(context.Background(), sessionID)
	assert.Equal(t, 3, c.ItemCount())
}

func TestSubmitRejectsMalformedEmail(t *testing.T) {
	carts := newMockCartStore()
	svc := NewService(carts, &mockOrderWriter{}, &mockNotifier{}, testLogger())
	sessionID := sessionWithCart(carts)

	_, err := svc.Submit(context.Background(), sessionID, &Request{
		CustomerEmail:    "not-an-email",
		CustomerWhatsApp: "+77011234567",
	})

	var cerr *Error
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, KindValidation, cerr.Kind)
}

func TestSubmitRejectsMissingWhatsApp(t *testing.T) {
	carts := newMockCartStore()
	svc := NewService(carts, &mockOrderWriter{}, &mockNotifier{}, testLogger())
	sessionID := sessionWithCart(carts)

	_, err := svc.Submit(context.Background(), sessionID, &Request{
		CustomerEmail:    "shopper@example.com",
		CustomerWhatsApp: "   ",
	})

	var cerr *Error
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, KindValidation, cerr.Kind)
}

func TestSubmitRejectsEmptyCart(t *testing.T) {
	carts := newMockCartStore()
	orders := &mockOrderWriter{}
	svc := NewService(carts, orders, &mockNotifier{}, testLogger())

	result, err := svc.Submit(context.Background(), "empty-session", validRequest())

	require.Error(t, err)
	var cerr *Error
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, KindValidation, cerr.Kind)
	assert.Equal(t, StateValidating, result.FailedAt)
	assert.Empty(t, orders.created)
}

func TestSubmitCartLoadFailureMapsToCartPersistenceKind(t *testing.T) {
	carts := newMockCartStore()
	carts.getErr = errors.New("redis: connection refused")
	orders := &mockOrderWriter{}
	svc := NewService(carts, orders, &mockNotifier{}, testLogger())

	result, err := svc.Submit(context.Background(), "s1", validRequest())

	require.Error(t, err)
	var cerr *Error
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, KindCartPersistence, cerr.Kind)
	assert.Equal(t, StateValidating, result.FailedAt)
	assert.Empty(t, orders.created)
}

func TestSubmitOrderWriteFailureLeavesCartIntact(t *testing.T) {
	carts := newMockCartStore()
	orders := &mockOrderWriter{
		err: &order.PersistError{Stage: order.StageHeader, Err: errors.New("connection refused")},
	}
	notifier := &mockNotifier{}
	svc := NewService(carts, orders, notifier, testLogger())
	sessionID := sessionWithCart(carts)

	result, err := svc.Submit(context.Background(), sessionID, validRequest())

	require.Error(t, err)
	var cerr *Error
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, KindOrderPersistence, cerr.Kind)
	assert.Equal(t, StateSubmittingOrder, result.FailedAt)

	c, _ := carts.Get(context.Background(), sessionID)
	assert.Equal(t, 3, c.ItemCount(), "cart untouched after failed write")
	assert.Zero(t, carts.clears)
	assert.Empty(t, notifier.payloads, "no notification for a failed order")
}

func TestSubmitItemWriteFailureMapsToLineItemKind(t *testing.T) {
	carts := newMockCartStore()
	orders := &mockOrderWriter{
		err: &order.PersistError{Stage: order.StageItems, Err: errors.New("constraint violation")},
	}
	svc := NewService(carts, orders, &mockNotifier{}, testLogger())
	sessionID := sessionWithCart(carts)

	result, err := svc.Submit(context.Background(), sessionID, validRequest())

	var cerr *Error
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, KindLineItemPersistence, cerr.Kind)
	assert.Equal(t, StateSubmittingItems, result.FailedAt)

	c, _ := carts.Get(context.Background(), sessionID)
	assert.False(t, c.IsEmpty())
}

func TestSubmitNotificationFailureDoesNotFailCheckout(t *testing.T) {
	carts := newMockCartStore()
	orders := &mockOrderWriter{}
	notifier := &mockNotifier{err: errors.New("webhook responded with status 500")}
	svc := NewService(carts, orders, notifier, testLogger())
	sessionID := sessionWithCart(carts)

	result, err := svc.Submit(context.Background(), sessionID, validRequest())

	require.NoError(t, err)
	assert.Equal(t, StateComplete, result.State)
	require.Len(t, orders.created, 1)

	// The cart is still cleared.
	c, _ := carts.Get(context.Background(), sessionID)
	assert.True(t, c.IsEmpty())
}

func TestSubmitCartClearFailureDoesNotFailCheckout(t *testing.T) {
	carts := newMockCartStore()
	carts.clearErr = errors.New("redis: connection refused")
	orders := &mockOrderWriter{}
	svc := NewService(carts, orders, &mockNotifier{}, testLogger())
	sessionID := sessionWithCart(carts)

	result, err := svc.Submit(context.Background(), sessionID, validRequest())

	require.NoError(t, err)
	assert.Equal(t, StateComplete, result.State)
	assert.Equal(t, 1, carts.clears)
}

func TestSubmitWithoutNotifierConfigured(t *testing.T) {
	carts := newMockCartStore()
	svc := NewService(carts, &mockOrderWriter{}, nil, testLogger())
	sessionID := sessionWithCart(carts)

	result, err := svc.Submit(context.Background(), sessionID, validRequest())

	require.NoError(t, err)
	assert.Equal(t, StateComplete, result.State)
}

func TestSubmitAssignsIdempotencyKey(t *testing.T) {
	carts := newMockCartStore()
	orders := &mockOrderWriter{}
	svc := NewService(carts, orders, &mockNotifier{}, testLogger())
	sessionID := sessionWithCart(carts)

	_, err := svc.Submit(context.Background(), sessionID, validRequest())

	require.NoError(t, err)
	require.Len(t, orders.created, 1)
	assert.Len(t, orders.created[0].IdempotencyKey, 36)
}

func TestSubmitUsesClientIdempotencyKey(t *testing.T) {
	carts := newMockCartStore()
	orders := &mockOrderWriter{}
	svc := NewService(carts, orders, &mockNotifier{}, testLogger())
	sessionID := sessionWithCart(carts)

	req := validRequest()
	req.IdempotencyKey = "  retry-key-7f3a  "

	_, err := svc.Submit(context.Background(), sessionID, req)

	require.NoError(t, err)
	require.Len(t, orders.created, 1)
	assert.Equal(t, "retry-key-7f3a", orders.created[0].IdempotencyKey)
}

func TestSubmitRejectsOverlongIdempotencyKey(t *testing.T) {
	carts := newMockCartStore()
	orders := &mockOrderWriter{}
	svc := NewService(carts, orders, &mockNotifier{}, testLogger())
	sessionID := sessionWithCart(carts)

	req := validRequest()
	req.IdempotencyKey = strings.Repeat("a", 37)

	_, err := svc.Submit(context.Background(), sessionID, req)

	require.Error(t, err)
	var cerr *Error
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, KindValidation, cerr.Kind)
	assert.Empty(t, orders.created)
}
