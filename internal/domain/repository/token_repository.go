package repository

import (
	"context"
	"time"
)

// TokenDenylist almacén de tokens revocados (logout). Las entradas expiran
// solas al llegar a la expiración original del token.
type TokenDenylist interface {
	Revoke(ctx context.Context, jti string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}
