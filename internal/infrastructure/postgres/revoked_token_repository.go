package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/vendofy-api/internal/domain/repository"
)

var _ repository.TokenDenylist = (*RevokedTokenRepo)(nil)

// RevokedTokenRepo denylist en PostgreSQL, usada cuando no hay Redis configurado.
type RevokedTokenRepo struct {
	q Querier
}

// NewRevokedTokenRepository construye el adaptador.
func NewRevokedTokenRepository(q Querier) *RevokedTokenRepo {
	return &RevokedTokenRepo{q: q}
}

// Revoke registra el jti hasta expiresAt. Aprovecha para purgar entradas vencidas.
func (r *RevokedTokenRepo) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO revoked_tokens (jti, expires_at) VALUES ($1, $2)
		ON CONFLICT (jti) DO NOTHING`, jti, expiresAt.UTC())
	if err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	if _, err := r.q.Exec(ctx, `DELETE FROM revoked_tokens WHERE expires_at < now()`); err != nil {
		return fmt.Errorf("purge revoked tokens: %w", err)
	}
	return nil
}

// IsRevoked true si el jti está en la denylist y no ha expirado.
func (r *RevokedTokenRepo) IsRevoked(ctx context.Context, jti string) (bool, error) {
	var revoked bool
	err := r.q.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM revoked_tokens WHERE jti = $1 AND expires_at > now())`, jti).Scan(&revoked)
	if err != nil {
		return false, fmt.Errorf("check revoked token: %w", err)
	}
	return revoked, nil
}
