package http_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jhoicas/vendofy-api/internal/domain/entity"
	lifecycle "github.com/jhoicas/vendofy-api/internal/domain/ordering"
	"github.com/jhoicas/vendofy-api/internal/domain/query"
	"github.com/jhoicas/vendofy-api/internal/domain/repository"
)

type memDenylist struct {
	mu      sync.Mutex
	revoked map[string]time.Time
}

func newMemDenylist() *memDenylist { return &memDenylist{revoked: map[string]time.Time{}} }

func (d *memDenylist) Revoke(_ context.Context, jti string, exp time.Time) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.revoked[jti] = exp
	return nil
}

func (d *memDenylist) IsRevoked(_ context.Context, jti string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	exp, ok := d.revoked[jti]
	return ok && exp.After(time.Now()), nil
}

type memUsers struct{ byID map[string]*entity.User }

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
func (m *memUsers) List(context.Context, query.Expr, int, int) ([]*entity.User, int, error) {
	return nil, 0, nil
}
func (m *memUsers) ListIDsByParent(_ context.Context, parentID, role string) ([]string, error) {
	var ids []string
	for _, u := range m.byID {
		if u.ParentID == parentID && u.Role == role {
			ids = append(ids, u.ID)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

type memProducts struct{ byID map[string]*entity.Product }

func (m *memProducts) Create(_ context.Context, p *entity.Product) error { m.byID[p.ID] = p; return nil }
func (m *memProducts) GetByID(_ context.Context, id string) (*entity.Product, error) {
	return m.byID[id], nil
}
func (m *memProducts) GetByIDs(_ context.Context, ids []string) (map[string]*entity.Product, error) {
	out := map[string]*entity.Product{}
	for _, id := range ids {
		if p, ok := m.byID[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}
func (m *memProducts) Update(_ context.Context, p *entity.Product) error { m.byID[p.ID] = p; return nil }
func (m *memProducts) List(context.Context, query.Expr, int, int) ([]*entity.Product, int, error) {
	return nil, 0, nil
}

// noPricing sin overrides: siempre aplica el precio base.
type noPricing struct{}

func (noPricing) UpsertAdminPricing(context.Context, *entity.AdminProductPricing) error { return nil }
func (noPricing) GetAdminPricing(context.Context, string, string, string) (*entity.AdminProductPricing, error) {
	return nil, nil
}
func (noPricing) ListAdminPricing(context.Context, string, string) ([]*entity.AdminProductPricing, error) {
	return nil, nil
}
func (noPricing) UpsertCustomerPricing(context.Context, *entity.CustomerPricing) error { return nil }
func (noPricing) GetCustomerPricing(context.Context, string, string, string) (*entity.CustomerPricing, error) {
	return nil, nil
}
func (noPricing) ListCustomerPricing(context.Context, string, string) ([]*entity.CustomerPricing, error) {
	return nil, nil
}
func (noPricing) DeleteCustomerPricing(context.Context, string, string, string) error { return nil }

type memOrders struct {
	mu   sync.Mutex
	byID map[string]entity.Order
}

func (m *memOrders) Create(_ context.Context, o *entity.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byID[o.ID] = *o
	return nil
}
func (m *memOrders) GetByID(_ context.Context, id string) (*entity.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.byID[id]
	if !ok {
		return nil, nil
	}
	return &o, nil
}
func (m *memOrders) GetByIDs(_ context.Context, ids []string) ([]*entity.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*entity.Order
	for _, id := range ids {
		if o, ok := m.byID[id]; ok {
			cp := o
			out = append(out, &cp)
		}
	}
	return out, nil
}
func (m *memOrders) Update(_ context.Context, o *entity.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byID[o.ID] = *o
	return nil
}
func (m *memOrders) List(context.Context, query.Expr, int, int) ([]*entity.Order, int, error) {
	return nil, 0, nil
}
func (m *memOrders) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.byID)
}

// directTx ejecuta fn sin transacción real.
type directTx struct{ orders *memOrders }

func (t directTx) RunOrders(_ context.Context, fn func(repository.OrderRepository) error) error {
	return fn(t.orders)
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
func (m *memSettings) ListChanges(context.Context, string) ([]*entity.SettingsChange, error) {
	return nil, nil
}

type nopNotifier struct{}

func (nopNotifier) OrderPlaced(_, _ *entity.User, _ *entity.Order) {}
func (nopNotifier) DeliveryDateChanged(*entity.User, *entity.Order) {}
func (nopNotifier) QuantityRequest(_, _ *entity.User, _ lifecycle.Summary) {}
