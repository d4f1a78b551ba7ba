package usecase_test

import (
	"context"

	"github.com/jhoicas/vendofy-api/internal/domain/entity"
	"github.com/jhoicas/vendofy-api/internal/domain/query"
)

type memUsers struct {
	byID     map[string]*entity.User
	lastList query.Expr
}

func newMemUsers(users ...*entity.User) *memUsers {
	m := &memUsers{byID: map[string]*entity.User{}}
	for _, u := range users {
		m.byID[u.ID] = u
	}
	return m
}

func (m *memUsers) Create(_ context.Context, u *entity.User) error { m.byID[u.ID] = u; return nil }
func (m *memUsers) GetByID(_ context.Context, id string) (*entity.User, error) {
	return m.byID[id], nil
}
func (m *memUsers) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, u := range m.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}
func (m *memUsers) GetByIDs(_ context.Context, ids []string) (map[string]*entity.User, error) {
	out := map[string]*entity.User{}
	for _, id := range ids {
		if u, ok := m.byID[id]; ok {
			out[id] = u
		}
	}
	return out, nil
}
func (m *memUsers) Update(_ context.Context, u *entity.User) error { m.byID[u.ID] = u; return nil }
func (m *memUsers) List(_ context.Context, filter query.Expr, _, _ int) ([]*entity.User, int, error) {
	m.lastList = filter
	return nil, 0, nil
}
func (m *memUsers) ListIDsByParent(_ context.Context, parentID, role string) ([]string, error) {
	var ids []string
	for _, u := range m.byID {
		if u.ParentID == parentID && u.Role == role {
			ids = append(ids, u.ID)
		}
	}
	return ids, nil
}

type memProducts struct {
	byID     map[string]*entity.Product
	lastList query.Expr
}

func (m *memProducts) Create(_ context.Context, p *entity.Product) error { m.byID[p.ID] = p; return nil }
func (m *memProducts) GetByID(_ context.Context, id string) (*entity.Product, error) {
	return m.byID[id], nil
}
func (m *memProducts) GetByIDs(context.Context, []string) (map[string]*entity.Product, error) {
	return m.byID, nil
}
func (m *memProducts) Update(_ context.Context, p *entity.Product) error { m.byID[p.ID] = p; return nil }
func (m *memProducts) List(_ context.Context, filter query.Expr, _, _ int) ([]*entity.Product, int, error) {
	m.lastList = filter
	return nil, 0, nil
}

type memSettings struct {
	current *entity.SystemSettings
	changes map[string]*entity.SettingsChange
}

func (m *memSettings) Get(context.Context) (*entity.SystemSettings, error) { return m.current, nil }
func (m *memSettings) Save(_ context.Context, s *entity.SystemSettings) error {
	m.current = s
	return nil
}
func (m *memSettings) CreateChange(_ context.Context, ch *entity.SettingsChange) error {
	m.changes[ch.ID] = ch
	return nil
}
func (m *memSettings) GetChange(_ context.Context, id string) (*entity.SettingsChange, error) {
	return m.changes[id], nil
}
func (m *memSettings) UpdateChange(_ context.Context, ch *entity.SettingsChange) error {
	m.changes[ch.ID] = ch
	return nil
}
func (m *memSettings) ListChanges(_ context.Context, status string) ([]*entity.SettingsChange, error) {
	var out []*entity.SettingsChange
	for _, ch := range m.changes {
		if status == "" || ch.Status == status {
			out = append(out, ch)
		}
	}
	return out, nil
}
