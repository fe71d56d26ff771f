package repository

import (
	"context"
	"time"
)

// CacheRepository - кеш сырых тайловых payload'ов
type CacheRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	GetTile(ctx context.Context, z, x, y int) ([]byte, error)
	SetTile(ctx context.Context, z, x, y int, data []byte, ttl time.Duration) error
}
