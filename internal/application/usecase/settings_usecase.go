package usecase

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/vendofy-api/internal/application/access"
	"github.com/jhoicas/vendofy-api/internal/application/dto"
	"github.com/jhoicas/vendofy-api/internal/domain"
	"github.com/jhoicas/vendofy-api/internal/domain/entity"
	"github.com/jhoicas/vendofy-api/internal/domain/repository"
)

// SettingsUseCase configuración global con aprobación: los admins proponen, el super-admin decide.
type SettingsUseCase struct {
	repo repository.SettingsRepository
	now  func() time.Time
}

// NewSettingsUseCase construye el caso de uso.
func NewSettingsUseCase(repo repository.SettingsRepository) *SettingsUseCase {
	return &SettingsUseCase{repo: repo, now: time.Now}
}

// Get configuración vigente.
func (uc *SettingsUseCase) Get(ctx context.Context) (*dto.SettingsResponse, error) {
	s, err := uc.repo.Get(ctx)
	if err != nil {
		return nil, err
	}
	return toSettingsResponse(s), nil
}

// Update el super-admin aplica directamente; un admin crea una solicitud pendiente.
func (uc *SettingsUseCase) Update(ctx context.Context, caller access.Caller, in dto.UpdateSettingsRequest) (*dto.SettingsUpdateResponse, error) {
	if !caller.Is(entity.RoleAdmin) {
		return nil, domain.ErrForbidden
	}
	if len(in.Changes) == 0 {
		return nil, domain.Invalid("changes", "se requiere al menos un cambio")
	}
	for k, v := range in.Changes {
		if strings.TrimSpace(k) == "" {
			return nil, domain.Invalid("changes", "clave vacía")
		}
		if !json.Valid(v) {
			return nil, domain.Invalid("changes", "valor inválido para %q", k)
		}
	}
	if caller.IsSuperAdmin {
		s, err := uc.apply(ctx, caller.UserID, in.Changes)
		if err != nil {
			return nil, err
		}
		return &dto.SettingsUpdateResponse{Applied: true, Settings: toSettingsResponse(s)}, nil
	}
	ch := &entity.SettingsChange{
		ID:          uuid.New().String(),
		RequestedBy: caller.UserID,
		Changes:     in.Changes,
		Status:      entity.SettingsChangePending,
		CreatedAt:   uc.now(),
	}
	if err := uc.repo.CreateChange(ctx, ch); err != nil {
		return nil, err
	}
	return &dto.SettingsUpdateResponse{Applied: false, Change: toSettingsChangeResponse(ch)}, nil
}

// ListChanges solicitudes de cambio; un admin solo ve las suyas.
func (uc *SettingsUseCase) ListChanges(ctx context.Context, caller access.Caller, status string) ([]dto.SettingsChangeResponse, error) {
	if !caller.Is(entity.RoleAdmin) {
		return nil, domain.ErrForbidden
	}
	list, err := uc.repo.ListChanges(ctx, status)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SettingsChangeResponse, 0, len(list))
	for _, ch := range list {
		if !caller.IsSuperAdmin && ch.RequestedBy != caller.UserID {
			continue
		}
		out = append(out, *toSettingsChangeResponse(ch))
	}
	return out, nil
}

// Review el super-admin aprueba (se aplican los cambios) o rechaza una solicitud pendiente.
func (uc *SettingsUseCase) Review(ctx context.Context, caller access.Caller, id string, in dto.ReviewSettingsChangeRequest) (*dto.SettingsChangeResponse, error) {
	if !caller.IsSuperAdmin {
		return nil, domain.ErrForbidden
	}
	ch, err := uc.repo.GetChange(ctx, id)
	if err != nil {
		return nil, err
	}
	if ch == nil {
		return nil, domain.ErrNotFound
	}
	if ch.Status != entity.SettingsChangePending {
		return nil, domain.Invalid("status", "la solicitud ya fue revisada (%s)", ch.Status)
	}
	if in.Approve {
		if _, err := uc.apply(ctx, ch.RequestedBy, ch.Changes); err != nil {
			return nil, err
		}
		ch.Status = entity.SettingsChangeApproved
	} else {
		ch.Status = entity.SettingsChangeRejected
	}
	now := uc.now()
	ch.ReviewedBy = caller.UserID
	ch.ReviewedAt = &now
	ch.Reason = strings.TrimSpace(in.Reason)
	if err := uc.repo.UpdateChange(ctx, ch); err != nil {
		return nil, err
	}
	return toSettingsChangeResponse(ch), nil
}

func (uc *SettingsUseCase) apply(ctx context.Context, by string, changes map[string]json.RawMessage) (*entity.SystemSettings, error) {
	s, err := uc.repo.Get(ctx)
	if err != nil {
		return nil, err
	}
	if s == nil {
		s = &entity.SystemSettings{}
	}
	if s.Values == nil {
		s.Values = map[string]json.RawMessage{}
	}
	for k, v := range changes {
		s.Values[k] = v
	}
	s.UpdatedBy = by
	s.UpdatedAt = uc.now()
	if err := uc.repo.Save(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

func toSettingsResponse(s *entity.SystemSettings) *dto.SettingsResponse {
	if s == nil {
		return &dto.SettingsResponse{Values: map[string]json.RawMessage{}}
	}
	values := s.Values
	if values == nil {
		values = map[string]json.RawMessage{}
	}
	return &dto.SettingsResponse{Values: values, UpdatedBy: s.UpdatedBy, UpdatedAt: s.UpdatedAt}
}

func toSettingsChangeResponse(ch *entity.SettingsChange) *dto.SettingsChangeResponse {
	return &dto.SettingsChangeResponse{
		ID:          ch.ID,
		RequestedBy: ch.RequestedBy,
		Changes:     ch.Changes,
		Status:      ch.Status,
		ReviewedBy:  ch.ReviewedBy,
		ReviewedAt:  ch.ReviewedAt,
		Reason:      ch.Reason,
		CreatedAt:   ch.CreatedAt,
	}
}
