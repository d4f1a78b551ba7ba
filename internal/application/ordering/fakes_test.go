package ordering_test

import (
	"context"
	"sync"

	"github.com/jhoicas/vendofy-api/internal/domain/entity"
	lifecycle "github.com/jhoicas/vendofy-api/internal/domain/ordering"
	"github.com/jhoicas/vendofy-api/internal/domain/query"
	"github.com/jhoicas/vendofy-api/internal/domain/repository"
)

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

type memPricing struct {
	admin    []*entity.AdminProductPricing
	customer []*entity.CustomerPricing
}

func (m *memPricing) UpsertAdminPricing(_ context.Context, p *entity.AdminProductPricing) error {
	m.admin = append(m.admin, p)
	return nil
}
func (m *memPricing) GetAdminPricing(_ context.Context, adminID, distributorID, productID string) (*entity.AdminProductPricing, error) {
	for _, p := range m.admin {
		if p.AdminID == adminID && p.DistributorID == distributorID && p.ProductID == productID {
			return p, nil
		}
	}
	return nil, nil
}
func (m *memPricing) ListAdminPricing(context.Context, string, string) ([]*entity.AdminProductPricing, error) {
	return m.admin, nil
}
func (m *memPricing) UpsertCustomerPricing(_ context.Context, p *entity.CustomerPricing) error {
	m.customer = append(m.customer, p)
	return nil
}
func (m *memPricing) GetCustomerPricing(_ context.Context, distributorID, customerID, productID string) (*entity.CustomerPricing, error) {
	for _, p := range m.customer {
		if p.DistributorID == distributorID && p.CustomerID == customerID && p.ProductID == productID {
			return p, nil
		}
	}
	return nil, nil
}
func (m *memPricing) ListCustomerPricing(context.Context, string, string) ([]*entity.CustomerPricing, error) {
	return m.customer, nil
}
func (m *memPricing) DeleteCustomerPricing(context.Context, string, string, string) error {
	return nil
}

// memOrders guarda copias para que las mutaciones solo lleguen al almacén vía Update.
type memOrders struct {
	mu   sync.Mutex
	byID map[string]entity.Order
	seq  []string
}

func newMemOrders() *memOrders { return &memOrders{byID: map[string]entity.Order{}} }

func (m *memOrders) Create(_ context.Context, o *entity.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byID[o.ID] = *o
	m.seq = append(m.seq, o.ID)
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
func (m *memOrders) List(_ context.Context, _ query.Expr, limit, offset int) ([]*entity.Order, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*entity.Order
	for _, id := range m.seq {
		o := m.byID[id]
		out = append(out, &o)
	}
	return out, len(out), nil
}
func (m *memOrders) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.byID)
}

// memTx restaura el estado previo si fn falla.
type memTx struct{ orders *memOrders }

func (t memTx) RunOrders(ctx context.Context, fn func(repository.OrderRepository) error) error {
	t.orders.mu.Lock()
	snapshot := make(map[string]entity.Order, len(t.orders.byID))
	for k, v := range t.orders.byID {
		snapshot[k] = v
	}
	t.orders.mu.Unlock()
	if err := fn(t.orders); err != nil {
		t.orders.mu.Lock()
		t.orders.byID = snapshot
		t.orders.mu.Unlock()
		return err
	}
	return nil
}

type recordingNotifier struct {
	mu          sync.Mutex
	placed      []string
	dateChanged []string
	quantityFor []string
	lastSummary lifecycle.Summary
}

func (n *recordingNotifier) OrderPlaced(distributor, _ *entity.User, o *entity.Order) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.placed = append(n.placed, distributor.Email+":"+o.OrderNumber)
}
func (n *recordingNotifier) DeliveryDateChanged(customer *entity.User, o *entity.Order) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.dateChanged = append(n.dateChanged, customer.Email+":"+o.OrderNumber)
}
func (n *recordingNotifier) QuantityRequest(admin, _ *entity.User, s lifecycle.Summary) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.quantityFor = append(n.quantityFor, admin.Email)
	n.lastSummary = s
}

type countingMetrics struct {
	mu          sync.Mutex
	transitions map[string]int
}

func (m *countingMetrics) OrderTransition(name string, n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.transitions == nil {
		m.transitions = map[string]int{}
	}
	m.transitions[name] += n
}
func (m *countingMetrics) Notification(string, string) {}
