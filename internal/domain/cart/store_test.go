package cart

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockStorage struct {
	carts   map[string]*Cart
	loadErr error
	saveErr error
	delErr  error
	saves   int
}

func newMockStorage() *mockStorage {
	return &mockStorage{carts: make(map[string]*Cart)}
}

func (m *mockStorage) Load(_ context.Context, sessionID string) (*Cart, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	c, ok := m.carts[sessionID]
	if !ok {
		return nil, ErrNotFound
	}
	return c, nil
}

func (m *mockStorage) Save(_ context.Context, c *Cart) error {
	m.saves++
	if m.saveErr != nil {
		return m.saveErr
	}
	m.carts[c.SessionID] = c
	return nil
}

func (m *mockStorage) Delete(_ context.Context, sessionID string) error {
	if m.delErr != nil {
		return m.delErr
	}
	delete(m.carts, sessionID)
	return nil
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestStoreGetCreatesEmptyCartOnFirstAccess(t *testing.T) {
	store := NewStore(newMockStorage(), nil, testLogger())

	c, err := store.Get(context.Background(), "fresh-session")
	require.NoError(t, err)
	assert.True(t, c.IsEmpty())
	assert.Equal(t, "fresh-session", c.SessionID)
}

func TestStoreGetRequiresSessionID(t *testing.T) {
	store := NewStore(newMockStorage(), nil, testLogger())

	_, err := store.Get(context.Background(), "")
	assert.Error(t, err)
}

func TestStoreMutationsPersistAcrossGets(t *testing.T) {
	storage := newMockStorage()
	store := NewStore(storage, nil, testLogger())
	ctx := context.Background()

	_, err := store.AddItem(ctx, "s1", paprika)
	require.NoError(t, err)
	_, err = store.AddItem(ctx, "s1", sumac)
	require.NoError(t, err)
	_, err = store.UpdateQuantity(ctx, "s1", paprika.ID, 3)
	require.NoError(t, err)

	c, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 4, c.ItemCount())
	assert.Equal(t, int64(35000), c.Total())
}

func TestStoreSaveFailureDoesNotBlockMutation(t *testing.T) {
	storage := newMockStorage()
	storage.saveErr = errors.New("redis: connection refused")
	store := NewStore(storage, nil, testLogger())

	c, err := store.AddItem(context.Background(), "s1", paprika)

	require.NoError(t, err, "persistence is best-effort")
	assert.Equal(t, 1, c.ItemCount())
	assert.Equal(t, 1, storage.saves, "save was attempted")
}

func TestStoreClearSurvivesStorageFailure(t *testing.T) {
	storage := newMockStorage()
	storage.delErr = errors.New("redis: connection refused")
	store := NewStore(storage, nil, testLogger())

	err := store.Clear(context.Background(), "s1")
	assert.NoError(t, err)
}

func TestStoreRemoveItemTwiceIsNoop(t *testing.T) {
	store := NewStore(newMockStorage(), nil, testLogger())
	ctx := context.Background()

	_, err := store.AddItem(ctx, "s1", paprika)
	require.NoError(t, err)

	c, err := store.RemoveItem(ctx, "s1", paprika.ID)
	require.NoError(t, err)
	assert.True(t, c.IsEmpty())

	c, err = store.RemoveItem(ctx, "s1", paprika.ID)
	require.NoError(t, err)
	assert.True(t, c.IsEmpty())
}
