package ordering

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/vendofy-api/internal/application/access"
	"github.com/jhoicas/vendofy-api/internal/application/dto"
	apppricing "github.com/jhoicas/vendofy-api/internal/application/pricing"
	"github.com/jhoicas/vendofy-api/internal/domain"
	"github.com/jhoicas/vendofy-api/internal/domain/entity"
	dompricing "github.com/jhoicas/vendofy-api/internal/domain/pricing"
)

const orderNumberAttempts = 5

// Create crea el pedido del cliente llamante. Cada línea toma el precio efectivo
// (cliente > admin > base); si algún producto no está aprobado o activo no se crea nada.
func (uc *UseCase) Create(ctx context.Context, caller access.Caller, in dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	if caller.Role != entity.RoleCustomer {
		return nil, domain.ErrForbidden
	}
	if len(in.Items) == 0 {
		return nil, domain.Invalid("items", "el pedido debe tener al menos un producto")
	}
	if in.DesiredDeliveryDate.IsZero() {
		return nil, domain.Invalid("desired_delivery_date", "es requerida")
	}
	ids := make([]string, 0, len(in.Items))
	for i, it := range in.Items {
		if strings.TrimSpace(it.ProductID) == "" {
			return nil, domain.Invalid("items", "la línea %d no tiene producto", i+1)
		}
		if it.Quantity < 1 {
			return nil, domain.Invalid("items", "la línea %d debe tener cantidad mayor a cero", i+1)
		}
		ids = append(ids, it.ProductID)
	}

	h, err := apppricing.ResolveHierarchy(ctx, uc.users, caller.UserID)
	if err != nil {
		return nil, err
	}
	products, err := uc.products.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("create order: productos: %w", err)
	}

	items := make([]entity.OrderItem, 0, len(in.Items))
	for _, it := range in.Items {
		product, ok := products[it.ProductID]
		if !ok {
			return nil, domain.Invalid("items", "el producto %s no existe", it.ProductID)
		}
		price, _, err := uc.prices.Resolve(ctx, h, product)
		if err != nil {
			return nil, err
		}
		items = append(items, entity.OrderItem{
			ProductID:   product.ID,
			ProductName: product.Name,
			Quantity:    it.Quantity,
			Price:       price,
		})
	}

	now := uc.now()
	order := &entity.Order{
		ID:                  uuid.New().String(),
		CustomerID:          h.Customer.ID,
		DistributorID:       h.Distributor.ID,
		AdminID:             h.Admin.ID,
		Items:               items,
		TotalAmount:         dompricing.OrderTotal(items),
		Status:              entity.OrderStatusPending,
		DesiredDeliveryDate: in.DesiredDeliveryDate,
		CurrentDeliveryDate: in.DesiredDeliveryDate,
		PaymentStatus:       entity.PaymentStatusPending,
		Notes:               strings.TrimSpace(in.Notes),
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	// El número es aleatorio; ante colisión con el índice único se reintenta.
	for attempt := 1; ; attempt++ {
		order.OrderNumber = newOrderNumber(now)
		err = uc.orders.Create(ctx, order)
		var dup *domain.DuplicateError
		if err == nil || !errors.As(err, &dup) || dup.Field != "order_number" || attempt == orderNumberAttempts {
			break
		}
	}
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	uc.metrics.OrderTransition(TransitionCreated, 1)
	uc.notifier.OrderPlaced(h.Distributor, h.Customer, order)

	users := map[string]*entity.User{h.Customer.ID: h.Customer, h.Distributor.ID: h.Distributor}
	resp := toOrderResponse(order, users)
	return &resp, nil
}

// newOrderNumber ORD-YYYYMMDD-XXXXXX con sufijo hexadecimal aleatorio.
func newOrderNumber(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:6])
	return "ORD-" + now.Format("20060102") + "-" + suffix
}
