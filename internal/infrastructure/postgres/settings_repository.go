package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/vendofy-api/internal/domain"
	"github.com/jhoicas/vendofy-api/internal/domain/entity"
	"github.com/jhoicas/vendofy-api/internal/domain/repository"
)

var _ repository.SettingsRepository = (*SettingsRepo)(nil)

// SettingsRepo configuración global (fila única id=1) y solicitudes de cambio.
type SettingsRepo struct {
	q Querier
}

// NewSettingsRepository construye el adaptador.
func NewSettingsRepository(q Querier) *SettingsRepo {
	return &SettingsRepo{q: q}
}

// Get configuración vigente; (nil, nil) si nunca se guardó.
func (r *SettingsRepo) Get(ctx context.Context) (*entity.SystemSettings, error) {
	var s entity.SystemSettings
	err := r.q.QueryRow(ctx, `
		SELECT "values", COALESCE(updated_by, ''), updated_at FROM system_settings WHERE id = 1`,
	).Scan(&s.Values, &s.UpdatedBy, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get settings: %w", err)
	}
	return &s, nil
}

// Save reemplaza la configuración vigente.
func (r *SettingsRepo) Save(ctx context.Context, s *entity.SystemSettings) error {
	values := s.Values
	if values == nil {
		values = map[string]json.RawMessage{}
	}
	_, err := r.q.Exec(ctx, `
		INSERT INTO system_settings (id, "values", updated_by, updated_at) VALUES (1, $1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET "values" = EXCLUDED."values", updated_by = EXCLUDED.updated_by, updated_at = EXCLUDED.updated_at`,
		values, nullIfEmpty(s.UpdatedBy), s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}

const settingsChangeSelect = `
	SELECT id, requested_by, changes, status, COALESCE(reviewed_by, ''), reviewed_at, reason, created_at
	FROM settings_changes`

func scanSettingsChange(row pgx.Row) (*entity.SettingsChange, error) {
	var ch entity.SettingsChange
	if err := row.Scan(&ch.ID, &ch.RequestedBy, &ch.Changes, &ch.Status, &ch.ReviewedBy, &ch.ReviewedAt, &ch.Reason, &ch.CreatedAt); err != nil {
		return nil, err
	}
	return &ch, nil
}

// CreateChange registra una solicitud de cambio.
func (r *SettingsRepo) CreateChange(ctx context.Context, ch *entity.SettingsChange) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO settings_changes (id, requested_by, changes, status, reviewed_by, reviewed_at, reason, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		ch.ID, ch.RequestedBy, ch.Changes, ch.Status, nullIfEmpty(ch.ReviewedBy), utc(ch.ReviewedAt), ch.Reason, ch.CreatedAt)
	return writeError("insert settings change", err)
}

// GetChange solicitud por ID; (nil, nil) si no existe.
func (r *SettingsRepo) GetChange(ctx context.Context, id string) (*entity.SettingsChange, error) {
	ch, err := scanSettingsChange(r.q.QueryRow(ctx, settingsChangeSelect+` WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get settings change: %w", err)
	}
	return ch, nil
}

// UpdateChange persiste la revisión de una solicitud.
func (r *SettingsRepo) UpdateChange(ctx context.Context, ch *entity.SettingsChange) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE settings_changes SET status = $2, reviewed_by = $3, reviewed_at = $4, reason = $5 WHERE id = $1`,
		ch.ID, ch.Status, nullIfEmpty(ch.ReviewedBy), utc(ch.ReviewedAt), ch.Reason)
	if err != nil {
		return fmt.Errorf("update settings change: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListChanges solicitudes filtradas por estado (vacío = todas), más recientes primero.
func (r *SettingsRepo) ListChanges(ctx context.Context, status string) ([]*entity.SettingsChange, error) {
	rows, err := r.q.Query(ctx, settingsChangeSelect+`
		WHERE ($1 = '' OR status = $1) ORDER BY created_at DESC`, status)
	if err != nil {
		return nil, fmt.Errorf("list settings changes: %w", err)
	}
	defer rows.Close()
	var out []*entity.SettingsChange
	for rows.Next() {
		ch, err := scanSettingsChange(rows)
		if err != nil {
			return nil, fmt.Errorf("scan settings change: %w", err)
		}
		out = append(out, ch)
	}
	return out, rows.Err()
}
