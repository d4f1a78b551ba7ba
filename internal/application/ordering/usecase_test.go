package ordering_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/vendofy-api/internal/application/access"
	"github.com/jhoicas/vendofy-api/internal/application/dto"
	"github.com/jhoicas/vendofy-api/internal/application/ordering"
	apppricing "github.com/jhoicas/vendofy-api/internal/application/pricing"
	"github.com/jhoicas/vendofy-api/internal/domain"
	"github.com/jhoicas/vendofy-api/internal/domain/entity"
)

var fixedNow = time.Date(2026, 5, 4, 8, 30, 0, 0, time.UTC)

type fixture struct {
	uc       *ordering.UseCase
	users    *memUsers
	products *memProducts
	pricing  *memPricing
	orders   *memOrders
	notifier *recordingNotifier
	metrics  *countingMetrics
}

var (
	admin1   = access.Caller{UserID: "a1", Role: entity.RoleAdmin}
	admin2   = access.Caller{UserID: "a2", Role: entity.RoleAdmin}
	super    = access.Caller{UserID: "sa", Role: entity.RoleAdmin, IsSuperAdmin: true}
	dist1    = access.Caller{UserID: "d1", Role: entity.RoleDistributor}
	dist2    = access.Caller{UserID: "d2", Role: entity.RoleDistributor}
	cust1    = access.Caller{UserID: "c1", Role: entity.RoleCustomer}
	cust2    = access.Caller{UserID: "c2", Role: entity.RoleCustomer}
	tomorrow = fixedNow.Add(24 * time.Hour)
)

func newFixture(t *testing.T) *fixture {
	t.Helper()
	notifier := &recordingNotifier{}
	f := newFixtureWithNotifier(t, notifier)
	f.notifier = notifier
	return f
}

func newFixtureWithNotifier(t *testing.T, notifier ordering.Notifier) *fixture {
	t.Helper()
	users := &memUsers{byID: map[string]*entity.User{
		"sa": {ID: "sa", Name: "Super", Email: "root@vendofy.test", Role: entity.RoleAdmin, IsActive: true},
		"a1": {ID: "a1", Name: "Admin Uno", Email: "a1@vendofy.test", Role: entity.RoleAdmin, ParentID: "sa", IsActive: true},
		"a2": {ID: "a2", Name: "Admin Dos", Email: "a2@vendofy.test", Role: entity.RoleAdmin, ParentID: "sa", IsActive: true},
		"d1": {ID: "d1", Name: "Dist Uno", Email: "d1@vendofy.test", Role: entity.RoleDistributor, ParentID: "a1", IsActive: true},
		"d2": {ID: "d2", Name: "Dist Dos", Email: "d2@vendofy.test", Role: entity.RoleDistributor, ParentID: "a2", IsActive: true},
		"c1": {ID: "c1", Name: "Cliente Uno", Email: "c1@vendofy.test", Role: entity.RoleCustomer, ParentID: "d1", IsActive: true},
		"c2": {ID: "c2", Name: "Cliente Dos", Email: "c2@vendofy.test", Role: entity.RoleCustomer, ParentID: "d2", IsActive: true},
	}}
	products := &memProducts{byID: map[string]*entity.Product{
		"rice":  {ID: "rice", Name: "Arroz", Price: decimal.NewFromInt(10), Status: entity.ProductStatusApproved, IsActive: true},
		"beans": {ID: "beans", Name: "Frijol", Price: decimal.NewFromInt(20), Status: entity.ProductStatusApproved, IsActive: true},
		"new":   {ID: "new", Name: "Quinoa", Price: decimal.NewFromInt(30), Status: entity.ProductStatusPending, IsActive: true},
	}}
	pricing := &memPricing{}
	orders := newMemOrders()
	metrics := &countingMetrics{}
	prices := apppricing.NewService(users, products, pricing)
	uc := ordering.NewUseCase(memTx{orders: orders}, orders, users, products, prices, access.NewScoper(users), notifier, nil, metrics, nil)
	uc.SetClock(func() time.Time { return fixedNow })
	return &fixture{uc: uc, users: users, products: products, pricing: pricing, orders: orders, metrics: metrics}
}

func (f *fixture) place(t *testing.T, caller access.Caller, items ...dto.OrderItemRequest) *dto.OrderResponse {
	t.Helper()
	if len(items) == 0 {
		items = []dto.OrderItemRequest{{ProductID: "rice", Quantity: 2}}
	}
	out, err := f.uc.Create(context.Background(), caller, dto.CreateOrderRequest{Items: items, DesiredDeliveryDate: tomorrow})
	require.NoError(t, err)
	return out
}

func (f *fixture) stored(t *testing.T, id string) *entity.Order {
	t.Helper()
	o, err := f.orders.GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, o)
	return o
}

func TestCreate_UsaPrecioEfectivoYCalculaTotal(t *testing.T) {
	f := newFixture(t)
	f.pricing.admin = append(f.pricing.admin, &entity.AdminProductPricing{AdminID: "a1", DistributorID: "d1", ProductID: "beans", CustomPrice: decimal.NewFromInt(15), IsActive: true})
	f.pricing.customer = append(f.pricing.customer, &entity.CustomerPricing{DistributorID: "d1", CustomerID: "c1", ProductID: "rice", CustomPrice: decimal.NewFromInt(8)})

	out := f.place(t, cust1,
		dto.OrderItemRequest{ProductID: "rice", Quantity: 3},
		dto.OrderItemRequest{ProductID: "beans", Quantity: 2},
	)

	require.Len(t, out.Items, 2)
	assert.Equal(t, "8", out.Items[0].Price.String())
	assert.Equal(t, "15", out.Items[1].Price.String())
	assert.Equal(t, "54", out.TotalAmount.String())
	assert.Regexp(t, `^ORD-20260504-[0-9A-F]{6}$`, out.OrderNumber)
	assert.Equal(t, entity.OrderStatusPending, out.Status)
	assert.Equal(t, entity.PaymentStatusPending, out.PaymentStatus)
	assert.Equal(t, tomorrow, out.DesiredDeliveryDate)
	assert.Equal(t, tomorrow, out.CurrentDeliveryDate)
	assert.Equal(t, "Dist Uno", out.Distributor.Name)

	stored := f.stored(t, out.ID)
	assert.Equal(t, "d1", stored.DistributorID)
	assert.Equal(t, "a1", stored.AdminID)
	assert.Equal(t, []string{"d1@vendofy.test:" + out.OrderNumber}, f.notifier.placed)
	assert.Equal(t, 1, f.metrics.transitions[ordering.TransitionCreated])
}

func TestCreate_ProductoNoAprobado_NoCreaNada(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.Create(context.Background(), cust1, dto.CreateOrderRequest{
		Items: []dto.OrderItemRequest{
			{ProductID: "rice", Quantity: 1},
			{ProductID: "new", Quantity: 1},
		},
		DesiredDeliveryDate: tomorrow,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Contains(t, err.Error(), "Quinoa")
	assert.Equal(t, 0, f.orders.count())
	assert.Empty(t, f.notifier.placed)
}

func TestCreate_ValidaLineas(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.uc.Create(ctx, cust1, dto.CreateOrderRequest{DesiredDeliveryDate: tomorrow})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.uc.Create(ctx, cust1, dto.CreateOrderRequest{
		Items:               []dto.OrderItemRequest{{ProductID: "rice", Quantity: 0}},
		DesiredDeliveryDate: tomorrow,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.uc.Create(ctx, cust1, dto.CreateOrderRequest{
		Items:               []dto.OrderItemRequest{{ProductID: "missing", Quantity: 1}},
		DesiredDeliveryDate: tomorrow,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.uc.Create(ctx, dist1, dto.CreateOrderRequest{
		Items:               []dto.OrderItemRequest{{ProductID: "rice", Quantity: 1}},
		DesiredDeliveryDate: tomorrow,
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.Equal(t, 0, f.orders.count())
}

func TestMarcarTresYRecibirDos(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	o1, o2, o3 := f.place(t, cust1), f.place(t, cust1), f.place(t, cust1)

	marked, err := f.uc.MarkForToday(ctx, dist1, []string{o1.ID, o2.ID, o3.ID})
	require.NoError(t, err)
	assert.Equal(t, 3, marked.Updated)
	for _, o := range marked.Orders {
		assert.Equal(t, entity.OrderStatusInTransit, o.Status)
		assert.True(t, o.MarkedForToday)
		assert.Equal(t, fixedNow, o.CurrentDeliveryDate)
		assert.Equal(t, tomorrow, o.DesiredDeliveryDate)
	}

	received, err := f.uc.MarkReceived(ctx, dist1, []string{o1.ID, o2.ID})
	require.NoError(t, err)
	assert.Equal(t, 2, received.Updated)

	for _, id := range []string{o1.ID, o2.ID} {
		o := f.stored(t, id)
		assert.Equal(t, entity.OrderStatusDelivered, o.Status)
		require.NotNil(t, o.ReceivedAt)
		require.NotNil(t, o.AdminReceivedAt)
	}
	third := f.stored(t, o3.ID)
	assert.Equal(t, entity.OrderStatusInTransit, third.Status)
	assert.Nil(t, third.ReceivedAt)
	assert.Equal(t, 3, f.metrics.transitions[ordering.TransitionMarkedForToday])
	assert.Equal(t, 2, f.metrics.transitions[ordering.TransitionReceived])
}

func TestMarkReceived_LoteConPedidoNoMarcado_NoCambiaNinguno(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	o1, o2 := f.place(t, cust1), f.place(t, cust1)
	_, err := f.uc.MarkForToday(ctx, dist1, []string{o1.ID})
	require.NoError(t, err)

	_, err = f.uc.MarkReceived(ctx, dist1, []string{o1.ID, o2.ID})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Nil(t, f.stored(t, o1.ID).ReceivedAt)
	assert.Nil(t, f.stored(t, o2.ID).ReceivedAt)
	assert.Zero(t, f.metrics.transitions[ordering.TransitionReceived])
}

func TestLote_PedidoAjeno_Prohibido(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	mine, other := f.place(t, cust1), f.place(t, cust2)

	_, err := f.uc.MarkForToday(ctx, dist1, []string{mine.ID, other.ID})
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.False(t, f.stored(t, mine.ID).MarkedForToday)

	_, err = f.uc.MarkForToday(ctx, dist1, []string{mine.ID, "does-not-exist"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.uc.MarkForToday(ctx, cust1, []string{mine.ID})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestMarkReceived_AlcanceDelAdmin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	o1, o2 := f.place(t, cust1), f.place(t, cust2)
	_, err := f.uc.MarkForToday(ctx, dist1, []string{o1.ID})
	require.NoError(t, err)
	_, err = f.uc.MarkForToday(ctx, dist2, []string{o2.ID})
	require.NoError(t, err)

	_, err = f.uc.MarkReceived(ctx, admin2, []string{o1.ID})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = f.uc.MarkReceived(ctx, admin1, []string{o1.ID})
	require.NoError(t, err)

	_, err = f.uc.MarkReceived(ctx, super, []string{o2.ID})
	require.NoError(t, err)
	assert.NotNil(t, f.stored(t, o2.ID).ReceivedAt)
}

func TestCustomerMarkReceived_DobleRecepcionRechazada(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	o := f.place(t, cust1)

	first, err := f.uc.CustomerMarkReceived(ctx, cust1, o.ID)
	require.NoError(t, err)
	require.NotNil(t, first.ReceivedAt)

	f.uc.SetClock(func() time.Time { return fixedNow.Add(time.Hour) })
	_, err = f.uc.CustomerMarkReceived(ctx, cust1, o.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, fixedNow, *f.stored(t, o.ID).ReceivedAt)
}

func TestCustomerMarkReceived_PedidoAjenoEsNoEncontrado(t *testing.T) {
	f := newFixture(t)
	o := f.place(t, cust1)
	_, err := f.uc.CustomerMarkReceived(context.Background(), cust2, o.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdatePayment_MitadParcialLuegoPagado(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	o := f.place(t, cust1, dto.OrderItemRequest{ProductID: "beans", Quantity: 5}) // total 100

	_, err := f.uc.UpdatePayment(ctx, cust1, o.ID, dto.UpdatePaymentRequest{AmountPaid: decimal.NewFromInt(50)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "no se puede pagar antes de recibir")

	_, err = f.uc.CustomerMarkReceived(ctx, cust1, o.ID)
	require.NoError(t, err)

	half, err := f.uc.UpdatePayment(ctx, cust1, o.ID, dto.UpdatePaymentRequest{AmountPaid: decimal.NewFromInt(50)})
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentStatusPartial, half.PaymentStatus)

	full, err := f.uc.UpdatePayment(ctx, cust1, o.ID, dto.UpdatePaymentRequest{AmountPaid: decimal.NewFromInt(100)})
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentStatusPaid, full.PaymentStatus)
	assert.Equal(t, "100", full.AmountPaid.String())

	_, err = f.uc.UpdatePayment(ctx, cust2, o.ID, dto.UpdatePaymentRequest{AmountPaid: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdateDeliveryDate_NotificaYPreservaFechaDeseada(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	o := f.place(t, cust1)
	newDate := fixedNow.Add(72 * time.Hour)

	out, err := f.uc.UpdateDeliveryDate(ctx, dist1, o.ID, dto.UpdateDeliveryDateRequest{CurrentDeliveryDate: newDate})
	require.NoError(t, err)
	assert.Equal(t, newDate, out.CurrentDeliveryDate)
	assert.Equal(t, tomorrow, out.DesiredDeliveryDate)
	assert.Equal(t, []string{"c1@vendofy.test:" + o.OrderNumber}, f.notifier.dateChanged)

	_, err = f.uc.UpdateDeliveryDate(ctx, dist2, o.ID, dto.UpdateDeliveryDateRequest{CurrentDeliveryDate: newDate})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestSendToAdmin_ResumenYLimpiezaAlRecibir(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	o1 := f.place(t, cust1, dto.OrderItemRequest{ProductID: "rice", Quantity: 2}, dto.OrderItemRequest{ProductID: "beans", Quantity: 1})
	o2 := f.place(t, cust1, dto.OrderItemRequest{ProductID: "rice", Quantity: 3})

	out, err := f.uc.SendToAdmin(ctx, dist1, []string{o1.ID, o2.ID})
	require.NoError(t, err)
	assert.Equal(t, "a1", out.Admin.ID)
	assert.True(t, out.EmailQueued)
	assert.Equal(t, 6, out.TotalUnits)
	assert.Equal(t, "70", out.TotalAmount.String())
	require.Len(t, out.Products, 2)
	assert.Equal(t, "Arroz", out.Products[0].ProductName)
	assert.Equal(t, 5, out.Products[0].Quantity)
	assert.Equal(t, []string{"a1@vendofy.test"}, f.notifier.quantityFor)

	stored := f.stored(t, o1.ID)
	assert.True(t, stored.SentToAdmin)
	require.NotNil(t, stored.SentToAdminAt)

	_, err = f.uc.MarkForToday(ctx, dist1, []string{o1.ID})
	require.NoError(t, err)
	_, err = f.uc.MarkReceived(ctx, admin1, []string{o1.ID})
	require.NoError(t, err)
	assert.False(t, f.stored(t, o1.ID).SentToAdmin)
}

func TestGet_FueraDeAlcanceEsNoEncontrado(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	o := f.place(t, cust1)

	for _, c := range []access.Caller{cust1, dist1, admin1, super} {
		got, err := f.uc.Get(ctx, c, o.ID)
		require.NoError(t, err, c.UserID)
		assert.Equal(t, o.OrderNumber, got.OrderNumber)
	}
	for _, c := range []access.Caller{cust2, dist2, admin2} {
		_, err := f.uc.Get(ctx, c, o.ID)
		assert.ErrorIs(t, err, domain.ErrNotFound, c.UserID)
	}
}

func TestList_PoblaNombres(t *testing.T) {
	f := newFixture(t)
	f.place(t, cust1)
	out, err := f.uc.List(context.Background(), dist1, dto.ListOrdersRequest{})
	require.NoError(t, err)
	require.Len(t, out.Items, 1)
	assert.Equal(t, "Cliente Uno", out.Items[0].Customer.Name)
	assert.Equal(t, 20, out.Page.Limit)
}
