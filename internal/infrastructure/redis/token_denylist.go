// Package redis denylist de tokens revocados sobre Redis.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/vendofy-api/internal/domain/repository"
	"github.com/jhoicas/vendofy-api/pkg/config"
)

const revokedKeyPrefix = "vendofy:revoked:"

var _ repository.TokenDenylist = (*TokenDenylist)(nil)

// TokenDenylist guarda cada jti revocado con TTL = vida restante del token.
type TokenDenylist struct {
	rdb *redis.Client
}

// NewClient crea el cliente y verifica la conexión.
func NewClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("conectar a Redis: %w", err)
	}
	return rdb, nil
}

// NewTokenDenylist construye la denylist sobre un cliente existente.
func NewTokenDenylist(rdb *redis.Client) *TokenDenylist {
	return &TokenDenylist{rdb: rdb}
}

// Revoke marca el jti hasta expiresAt. Un token ya vencido no se guarda.
func (d *TokenDenylist) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	if err := d.rdb.Set(ctx, revokedKeyPrefix+jti, 1, ttl).Err(); err != nil {
		return fmt.Errorf("revocar token: %w", err)
	}
	return nil
}

// IsRevoked true si el jti sigue en la denylist.
func (d *TokenDenylist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	err := d.rdb.Get(ctx, revokedKeyPrefix+jti).Err()
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, redis.Nil):
		return false, nil
	}
	return false, fmt.Errorf("consultar token revocado: %w", err)
}
