package service

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) bool
}

type Claims struct {
	UserID uuid.UUID
	Email  string
	Role   string
	Exp    time.Time
}

type TokenProvider interface {
	SignAccess(ctx context.Context, sub uuid.UUID, email, role string, ttl time.Duration) (token string, exp time.Time, err error)
	ParseAndValidateAccess(ctx context.Context, token string) (*Claims, error)
}

type CacheClient interface {
	// Счётчик с окном: TTL выставляется при первом инкременте
	IncrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error)

	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
}

// OrderMetrics: счётчики бизнес-событий заказов.
type OrderMetrics interface {
	OrderCreated()
	OrderStatusChanged(status string)
}
