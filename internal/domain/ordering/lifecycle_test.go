package ordering_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/vendofy-api/internal/domain"
	"github.com/jhoicas/vendofy-api/internal/domain/entity"
	"github.com/jhoicas/vendofy-api/internal/domain/ordering"
)

var now = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

func newOrder() *entity.Order {
	desired := now.Add(48 * time.Hour)
	return &entity.Order{
		OrderNumber:         "ORD-1",
		Status:              entity.OrderStatusPending,
		TotalAmount:         decimal.NewFromInt(100),
		DesiredDeliveryDate: desired,
		CurrentDeliveryDate: desired,
		AmountPaid:          decimal.Zero,
		PaymentStatus:       entity.PaymentStatusPending,
	}
}

func TestMarkForToday_PasaATransito(t *testing.T) {
	o := newOrder()
	require.NoError(t, ordering.MarkForToday(o, now))
	assert.True(t, o.MarkedForToday)
	assert.True(t, o.InTransit())
	assert.Equal(t, entity.OrderStatusInTransit, o.Status)
	assert.Equal(t, now, o.CurrentDeliveryDate)
	assert.Equal(t, now.Add(48*time.Hour), o.DesiredDeliveryDate, "la fecha deseada es inmutable")
}

func TestUpdateDeliveryDate_PreservaFechaDeseada(t *testing.T) {
	o := newOrder()
	newDate := now.Add(72 * time.Hour)
	require.NoError(t, ordering.UpdateDeliveryDate(o, newDate, now))
	assert.Equal(t, newDate, o.CurrentDeliveryDate)
	assert.Equal(t, now.Add(48*time.Hour), o.DesiredDeliveryDate)
}

func TestMarkReceivedByStaff_RequiereMarcadoParaHoy(t *testing.T) {
	o := newOrder()
	err := ordering.MarkReceivedByStaff(o, now)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Nil(t, o.ReceivedAt)
}

func TestMarkReceivedByStaff_LimpiaEnvioAlAdmin(t *testing.T) {
	o := newOrder()
	require.NoError(t, ordering.MarkForToday(o, now))
	require.NoError(t, ordering.SendToAdmin(o, now))
	require.True(t, o.SentToAdmin)

	require.NoError(t, ordering.MarkReceivedByStaff(o, now))
	assert.Equal(t, entity.OrderStatusDelivered, o.Status)
	require.NotNil(t, o.ReceivedAt)
	require.NotNil(t, o.AdminReceivedAt)
	assert.False(t, o.SentToAdmin)
}

func TestRecibirDosVeces_EsRechazado(t *testing.T) {
	o := newOrder()
	require.NoError(t, ordering.MarkReceivedByCustomer(o, now))

	err := ordering.MarkReceivedByCustomer(o, now.Add(time.Hour))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Contains(t, err.Error(), "ya fue recibido")
	assert.Equal(t, now, *o.ReceivedAt)

	assert.ErrorIs(t, ordering.MarkReceivedByStaff(o, now), domain.ErrInvalidInput)
}

func TestPedidoRecibido_NoAdmiteCambiosOperativos(t *testing.T) {
	o := newOrder()
	require.NoError(t, ordering.MarkReceivedByCustomer(o, now))
	assert.ErrorIs(t, ordering.MarkForToday(o, now), domain.ErrInvalidInput)
	assert.ErrorIs(t, ordering.UpdateDeliveryDate(o, now, now), domain.ErrInvalidInput)
	assert.ErrorIs(t, ordering.SendToAdmin(o, now), domain.ErrInvalidInput)
}

func TestUpdatePayment_RequiereRecepcion(t *testing.T) {
	o := newOrder()
	err := ordering.UpdatePayment(o, decimal.NewFromInt(10), now)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.True(t, o.AmountPaid.IsZero())
}

func TestUpdatePayment_ParcialYLuegoPagado(t *testing.T) {
	o := newOrder()
	require.NoError(t, ordering.MarkReceivedByCustomer(o, now))

	half := o.TotalAmount.Div(decimal.NewFromInt(2))
	require.NoError(t, ordering.UpdatePayment(o, half, now))
	assert.Equal(t, entity.PaymentStatusPartial, o.PaymentStatus)

	require.NoError(t, ordering.UpdatePayment(o, half.Add(half), now))
	assert.Equal(t, entity.PaymentStatusPaid, o.PaymentStatus)
}

func TestUpdatePayment_NegativoRechazado(t *testing.T) {
	o := newOrder()
	require.NoError(t, ordering.MarkReceivedByCustomer(o, now))
	assert.ErrorIs(t, ordering.UpdatePayment(o, decimal.NewFromInt(-1), now), domain.ErrInvalidInput)
}

func TestPaymentStatus(t *testing.T) {
	total := decimal.NewFromInt(100)
	assert.Equal(t, entity.PaymentStatusPending, ordering.PaymentStatus(decimal.Zero, total))
	assert.Equal(t, entity.PaymentStatusPartial, ordering.PaymentStatus(decimal.NewFromInt(1), total))
	assert.Equal(t, entity.PaymentStatusPaid, ordering.PaymentStatus(total, total))
	assert.Equal(t, entity.PaymentStatusPaid, ordering.PaymentStatus(decimal.NewFromInt(150), total))
}

func TestAggregate_SumaPorProducto(t *testing.T) {
	orders := []*entity.Order{
		{OrderNumber: "A", Items: []entity.OrderItem{
			{ProductID: "p1", ProductName: "Arroz", Quantity: 2, Price: decimal.NewFromInt(3)},
			{ProductID: "p2", ProductName: "Frijol", Quantity: 1, Price: decimal.NewFromInt(5)},
		}},
		{OrderNumber: "B", Items: []entity.OrderItem{
			{ProductID: "p1", ProductName: "Arroz", Quantity: 4, Price: decimal.NewFromInt(2)},
		}},
	}
	s := ordering.Aggregate(orders)
	assert.Equal(t, []string{"A", "B"}, s.OrderNumbers)
	require.Len(t, s.Products, 2)
	assert.Equal(t, "Arroz", s.Products[0].ProductName)
	assert.Equal(t, 6, s.Products[0].Quantity)
	assert.Equal(t, "14", s.Products[0].Amount.String())
	assert.Equal(t, 7, s.TotalUnits)
	assert.Equal(t, "19", s.TotalAmount.String())
}
