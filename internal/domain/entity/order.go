package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados del pedido. in-transit equivale a MarkedForToday sin ReceivedAt.
const (
	OrderStatusPending   = "pending"
	OrderStatusInTransit = "in-transit"
	OrderStatusDelivered = "delivered"
)

// Estados de pago, derivados de AmountPaid frente a TotalAmount.
const (
	PaymentStatusPending = "pending"
	PaymentStatusPartial = "partial"
	PaymentStatusPaid    = "paid"
)

// Order cabecera de pedido. Items se persisten en order_items.
type Order struct {
	ID                  string
	OrderNumber         string
	CustomerID          string
	DistributorID       string
	AdminID             string
	Items               []OrderItem
	TotalAmount         decimal.Decimal
	Status              string
	DesiredDeliveryDate time.Time // intención del cliente, inmutable
	CurrentDeliveryDate time.Time // fecha operativa, la cambia el distribuidor
	MarkedForToday      bool
	SentToAdmin         bool
	SentToAdminAt       *time.Time
	AdminReceivedAt     *time.Time
	ReceivedAt          *time.Time
	AmountPaid          decimal.Decimal
	PaymentStatus       string
	Notes               string
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// OrderItem línea de pedido con el precio congelado al crear.
type OrderItem struct {
	ProductID   string
	ProductName string
	Quantity    int
	Price       decimal.Decimal
}

// Subtotal Price * Quantity.
func (i OrderItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Received true si el pedido ya fue recibido.
func (o *Order) Received() bool { return o.ReceivedAt != nil }

// InTransit marcado para hoy y aún sin recibir.
func (o *Order) InTransit() bool { return o.MarkedForToday && o.ReceivedAt == nil }
