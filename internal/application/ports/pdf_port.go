package ports

import (
	"context"

	"github.com/jhoicas/vendofy-api/internal/application/dto"
)

// OrderPDFGenerator genera la nota de entrega de un pedido.
type OrderPDFGenerator interface {
	GenerateDeliveryNote(ctx context.Context, order *dto.OrderResponse) ([]byte, error)
}
