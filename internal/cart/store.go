package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	pkgerrors "github.com/delispi/delispi-backend/pkg/errors"
	pkgredis "github.com/delispi/delispi-backend/pkg/redis"
	"github.com/google/uuid"
)

// SessionStore persists carts keyed by user.
type SessionStore interface {
	Get(ctx context.Context, userID uuid.UUID) (Cart, error)
	Save(ctx context.Context, userID uuid.UUID, cart Cart) error
	Clear(ctx context.Context, userID uuid.UUID) error
}

type kvStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	CartKey(sessionID string) string
}

type redisStore struct {
	kv  kvStore
	ttl time.Duration
}

// NewRedisStore builds a cart store backed by Redis. Each save refreshes
// the session TTL.
func NewRedisStore(kv kvStore, ttl time.Duration) (SessionStore, error) {
	if kv == nil {
		return nil, fmt.Errorf("redis client required")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("session ttl must be positive")
	}
	return &redisStore{kv: kv, ttl: ttl}, nil
}

// Get loads the user's cart. A missing key is an empty cart, not an error.
func (s *redisStore) Get(ctx context.Context, userID uuid.UUID) (Cart, error) {
	raw, err := s.kv.Get(ctx, s.kv.CartKey(userID.String()))
	if err != nil {
		if errors.Is(err, pkgredis.Nil) {
			return NewCart(), nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading cart session")
	}

	var cart Cart
	if err := json.Unmarshal([]byte(raw), &cart); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decoding cart session")
	}
	return cart, nil
}

func (s *redisStore) Save(ctx context.Context, userID uuid.UUID, cart Cart) error {
	if cart.Len() == 0 {
		return s.Clear(ctx, userID)
	}
	payload, err := json.Marshal(cart)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encoding cart session")
	}
	if err := s.kv.Set(ctx, s.kv.CartKey(userID.String()), string(payload), s.ttl); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "saving cart session")
	}
	return nil
}

func (s *redisStore) Clear(ctx context.Context, userID uuid.UUID) error {
	if err := s.kv.Del(ctx, s.kv.CartKey(userID.String())); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clearing cart session")
	}
	return nil
}
