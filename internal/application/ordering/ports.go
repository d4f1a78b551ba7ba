package ordering

import (
	"context"

	"github.com/shopspring/decimal"

	apppricing "github.com/jhoicas/vendofy-api/internal/application/pricing"
	"github.com/jhoicas/vendofy-api/internal/domain/entity"
	lifecycle "github.com/jhoicas/vendofy-api/internal/domain/ordering"
	dompricing "github.com/jhoicas/vendofy-api/internal/domain/pricing"
	"github.com/jhoicas/vendofy-api/internal/domain/repository"
)

// TxRunner ejecuta fn dentro de una transacción con el repositorio de pedidos atado a ella.
// Si fn devuelve error se hace rollback de todo el lote.
type TxRunner interface {
	RunOrders(ctx context.Context, fn func(orders repository.OrderRepository) error) error
}

// PriceResolver resuelve el precio efectivo de un producto para una jerarquía ya cargada.
type PriceResolver interface {
	Resolve(ctx context.Context, h *apppricing.Hierarchy, product *entity.Product) (decimal.Decimal, dompricing.Source, error)
}

// Notifier canal lateral de correo. Las implementaciones no bloquean ni devuelven error:
// un fallo de envío nunca revierte la transición que lo originó.
type Notifier interface {
	OrderPlaced(distributor, customer *entity.User, order *entity.Order)
	DeliveryDateChanged(customer *entity.User, order *entity.Order)
	QuantityRequest(admin, distributor *entity.User, summary lifecycle.Summary)
}
