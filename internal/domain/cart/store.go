// internal/domain/cart/store.go
package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/spicebazaar/marketplace-backend/internal/config"
)

// ErrNotFound is returned by a Storage when no cart exists for the session
var ErrNotFound = errors.New("cart not found")

// Storage persists session carts. Persistence is best-effort: the Store
// treats a failed save as non-fatal and keeps serving the in-memory cart.
type Storage interface {
	Load(ctx context.Context, sessionID string) (*Cart, error)
	Save(ctx context.Context, c *Cart) error
	Delete(ctx context.Context, sessionID string) error
}

// Store is the authoritative cart service. All cart mutations in the
// application go through it; nothing else touches the item sequence.
type Store struct {
	storage     Storage
	maxQuantity int
	logger      *logrus.Logger
}

// NewStore creates a cart store backed by the given storage
func NewStore(storage Storage, cfg *config.Config, logger *logrus.Logger) *Store {
	maxQuantity := DefaultMaxQuantity
	if cfg != nil && cfg.Cart.MaxQuantity > 0 {
		maxQuantity = cfg.Cart.MaxQuantity
	}
	return &Store{
		storage:     storage,
		maxQuantity: maxQuantity,
		logger:      logger,
	}
}

// Get retrieves the cart for a session, creating an empty one on first access
func (s *Store) Get(ctx context.Context, sessionID string) (*Cart, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("session ID required")
	}

	c, err := s.storage.Load(ctx, sessionID)
	if errors.Is(err, ErrNotFound) {
		return New(sessionID), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	return c, nil
}

// AddItem adds one unit of the product to the session cart
func (s *Store) AddItem(ctx context.Context, sessionID string, p Product) (*Cart, error) {
	c, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	c.AddItem(p, s.maxQuantity)
	s.persist(ctx, c)
	return c, nil
}

// UpdateQuantity sets the quantity of a line item in the session cart
func (s *Store) UpdateQuantity(ctx context.Context, sessionID string, productID uint, quantity int) (*Cart, error) {
	c, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	c.UpdateQuantity(productID, quantity, s.maxQuantity)
	s.persist(ctx, c)
	return c, nil
}

// RemoveItem deletes a line item from the session cart
func (s *Store) RemoveItem(ctx context.Context, sessionID string, productID uint) (*Cart, error) {
	c, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	c.RemoveItem(productID)
	s.persist(ctx, c)
	return c, nil
}

// Clear empties the session cart and removes it from storage
func (s *Store) Clear(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return fmt.Errorf("session ID required")
	}
	if err := s.storage.Delete(ctx, sessionID); err != nil {
		// In-memory state stays authoritative; a storage hiccup must not
		// surface as a cart failure.
		s.logger.WithError(err).WithField("session_id", sessionID).
			Warn("failed to clear persisted cart")
	}
	return nil
}

// persist writes the cart back to storage, logging failures instead of
// propagating them.
func (s *Store) persist(ctx context.Context, c *Cart) {
	if err := s.storage.Save(ctx, c); err != nil {
		s.logger.WithError(err).WithField("session_id", c.SessionID).
			Warn("failed to persist cart, serving in-memory state")
	}
}

// RedisStorage stores carts as JSON in Redis with a sliding TTL
type RedisStorage struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStorage creates a Redis-backed cart storage
func NewRedisStorage(client *redis.Client, cfg *config.Config) *RedisStorage {
	ttl := 24 * time.Hour
	if cfg != nil && cfg.Cart.SessionTTL > 0 {
		ttl = cfg.Cart.SessionTTL
	}
	return &RedisStorage{
		client: client,
		ttl:    ttl,
	}
}

func cartKey(sessionID string) string {
	return fmt.Sprintf("cart:session:%s", sessionID)
}

// Load reads and decodes the cart for a session
func (r *RedisStorage) Load(ctx context.Context, sessionID string) (*Cart, error) {
	data, err := r.client.Get(ctx, cartKey(sessionID)).Result()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var c Cart
	if err := json.Unmarshal([]byte(data), &c); err != nil {
		return nil, fmt.Errorf("failed to decode cart: %w", err)
	}
	return &c, nil
}

// Save encodes and writes the cart, refreshing the session TTL
func (r *RedisStorage) Save(ctx context.Context, c *Cart) error {
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode cart: %w", err)
	}
	return r.client.Set(ctx, cartKey(c.SessionID), data, r.ttl).Err()
}

// Delete removes the cart for a session
func (r *RedisStorage) Delete(ctx context.Context, sessionID string) error {
	return r.client.Del(ctx, cartKey(sessionID)).Err()
}
