package repository

import (
	"context"

	"github.com/jhoicas/vendofy-api/internal/domain/entity"
)

// SettingsRepository puerto para la configuración global y sus solicitudes de cambio.
type SettingsRepository interface {
	Get(ctx context.Context) (*entity.SystemSettings, error)
	Save(ctx context.Context, s *entity.SystemSettings) error
	CreateChange(ctx context.Context, ch *entity.SettingsChange) error
	GetChange(ctx context.Context, id string) (*entity.SettingsChange, error)
	UpdateChange(ctx context.Context, ch *entity.SettingsChange) error
	ListChanges(ctx context.Context, status string) ([]*entity.SettingsChange, error)
}
