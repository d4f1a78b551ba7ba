package ordering

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/vendofy-api/internal/application/access"
	"github.com/jhoicas/vendofy-api/internal/application/dto"
	"github.com/jhoicas/vendofy-api/internal/domain"
	"github.com/jhoicas/vendofy-api/internal/domain/entity"
	lifecycle "github.com/jhoicas/vendofy-api/internal/domain/ordering"
	"github.com/jhoicas/vendofy-api/internal/domain/repository"
)

// mutation describe una transición sobre un lote de pedidos.
type mutation struct {
	name string
	// check devuelve el error de acceso para un pedido ajeno (403 en lotes, 404 en pedidos propios).
	check func(o *entity.Order) error
	apply func(o *entity.Order, now time.Time) error
}

// mutate aplica m a todos los pedidos de ids en una única transacción: si un pedido falta,
// es ajeno o no admite la transición, no se modifica ninguno.
func (uc *UseCase) mutate(ctx context.Context, ids []string, m mutation) ([]*entity.Order, error) {
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return nil, domain.Invalid("order_ids", "se requiere al menos un pedido")
	}
	now := uc.now()
	var updated []*entity.Order
	err := uc.txRunner.RunOrders(ctx, func(orders repository.OrderRepository) error {
		list, err := orders.GetByIDs(ctx, ids)
		if err != nil {
			return fmt.Errorf("%s: cargar pedidos: %w", m.name, err)
		}
		if len(list) != len(ids) {
			return domain.ErrNotFound
		}
		for _, o := range list {
			if err := m.check(o); err != nil {
				return err
			}
		}
		for _, o := range list {
			if err := m.apply(o, now); err != nil {
				return err
			}
			if err := orders.Update(ctx, o); err != nil {
				return fmt.Errorf("%s: guardar %s: %w", m.name, o.OrderNumber, err)
			}
		}
		updated = list
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.metrics.OrderTransition(m.name, len(updated))
	return updated, nil
}

func ownedByDistributor(caller access.Caller) func(*entity.Order) error {
	return func(o *entity.Order) error {
		if o.DistributorID != caller.UserID {
			return domain.ErrForbidden
		}
		return nil
	}
}

func ownedByCustomer(caller access.Caller) func(*entity.Order) error {
	return func(o *entity.Order) error {
		if o.CustomerID != caller.UserID {
			return domain.ErrNotFound
		}
		return nil
	}
}

// MarkForToday el distribuidor pone en tránsito un lote de sus pedidos.
func (uc *UseCase) MarkForToday(ctx context.Context, caller access.Caller, ids []string) (*dto.BulkOrdersResponse, error) {
	if caller.Role != entity.RoleDistributor {
		return nil, domain.ErrForbidden
	}
	list, err := uc.mutate(ctx, ids, mutation{
		name:  TransitionMarkedForToday,
		check: ownedByDistributor(caller),
		apply: lifecycle.MarkForToday,
	})
	if err != nil {
		return nil, err
	}
	return uc.bulkResponse(ctx, list)
}

// UpdateDeliveryDate el distribuidor cambia la fecha operativa de un pedido y se avisa al cliente.
func (uc *UseCase) UpdateDeliveryDate(ctx context.Context, caller access.Caller, id string, in dto.UpdateDeliveryDateRequest) (*dto.OrderResponse, error) {
	if caller.Role != entity.RoleDistributor {
		return nil, domain.ErrForbidden
	}
	list, err := uc.mutate(ctx, []string{id}, mutation{
		name:  TransitionDeliveryDate,
		check: ownedByDistributor(caller),
		apply: func(o *entity.Order, now time.Time) error {
			return lifecycle.UpdateDeliveryDate(o, in.CurrentDeliveryDate, now)
		},
	})
	if err != nil {
		return nil, err
	}
	order := list[0]
	users, err := uc.usersFor(ctx, list)
	if err != nil {
		return nil, err
	}
	if customer := users[order.CustomerID]; customer != nil {
		uc.notifier.DeliveryDateChanged(customer, order)
	} else {
		uc.log.Warn().Str("order", order.OrderNumber).Msg("cliente del pedido no encontrado; no se notifica cambio de fecha")
	}
	resp := toOrderResponse(order, users)
	return &resp, nil
}

// SendToAdmin el distribuidor escala un lote al admin: se agregan cantidades por producto,
// se marca cada pedido como enviado y se envía el resumen por correo.
func (uc *UseCase) SendToAdmin(ctx context.Context, caller access.Caller, ids []string) (*dto.SendToAdminResponse, error) {
	if caller.Role != entity.RoleDistributor {
		return nil, domain.ErrForbidden
	}
	distributor, err := uc.users.GetByID(ctx, caller.UserID)
	if err != nil {
		return nil, err
	}
	if distributor == nil {
		return nil, domain.ErrUserNotFound
	}
	if distributor.ParentID == "" {
		return nil, domain.Invalid("distributor", "el distribuidor no tiene admin asignado")
	}
	admin, err := uc.users.GetByID(ctx, distributor.ParentID)
	if err != nil {
		return nil, err
	}
	if admin == nil {
		return nil, domain.Invalid("distributor", "el admin del distribuidor no existe")
	}

	list, err := uc.mutate(ctx, ids, mutation{
		name:  TransitionSentToAdmin,
		check: ownedByDistributor(caller),
		apply: lifecycle.SendToAdmin,
	})
	if err != nil {
		return nil, err
	}

	summary := lifecycle.Aggregate(list)
	queued := admin.Email != ""
	if queued {
		uc.notifier.QuantityRequest(admin, distributor, summary)
	} else {
		uc.log.Warn().Str("admin_id", admin.ID).Msg("admin sin email; resumen no enviado")
	}

	out := &dto.SendToAdminResponse{
		Admin:        dto.UserRef{ID: admin.ID, Name: admin.Name, Email: admin.Email},
		OrderNumbers: summary.OrderNumbers,
		Products:     make([]dto.ProductQuantityResponse, 0, len(summary.Products)),
		TotalUnits:   summary.TotalUnits,
		TotalAmount:  summary.TotalAmount,
		EmailQueued:  queued,
	}
	for _, p := range summary.Products {
		out.Products = append(out.Products, dto.ProductQuantityResponse{
			ProductID:   p.ProductID,
			ProductName: p.ProductName,
			Quantity:    p.Quantity,
			Amount:      p.Amount,
		})
	}
	return out, nil
}

// MarkReceived recepción registrada por el distribuidor (sus pedidos) o el admin
// (pedidos con admin_id propio; el super-admin, cualquiera). Exige marcado para hoy.
func (uc *UseCase) MarkReceived(ctx context.Context, caller access.Caller, ids []string) (*dto.BulkOrdersResponse, error) {
	if !caller.Is(entity.RoleDistributor, entity.RoleAdmin) {
		return nil, domain.ErrForbidden
	}
	list, err := uc.mutate(ctx, ids, mutation{
		name: TransitionReceived,
		check: func(o *entity.Order) error {
			if !access.CanSeeOrder(caller, o) {
				return domain.ErrForbidden
			}
			return nil
		},
		apply: lifecycle.MarkReceivedByStaff,
	})
	if err != nil {
		return nil, err
	}
	return uc.bulkResponse(ctx, list)
}

// CustomerMarkReceived el cliente confirma la recepción de su pedido.
func (uc *UseCase) CustomerMarkReceived(ctx context.Context, caller access.Caller, id string) (*dto.OrderResponse, error) {
	if caller.Role != entity.RoleCustomer {
		return nil, domain.ErrForbidden
	}
	list, err := uc.mutate(ctx, []string{id}, mutation{
		name:  TransitionCustomerReceipt,
		check: ownedByCustomer(caller),
		apply: lifecycle.MarkReceivedByCustomer,
	})
	if err != nil {
		return nil, err
	}
	return uc.singleResponse(ctx, list)
}

// UpdatePayment el cliente registra el monto pagado acumulado de un pedido recibido.
func (uc *UseCase) UpdatePayment(ctx context.Context, caller access.Caller, id string, in dto.UpdatePaymentRequest) (*dto.OrderResponse, error) {
	if caller.Role != entity.RoleCustomer {
		return nil, domain.ErrForbidden
	}
	amount := in.AmountPaid
	if amount.Exponent() < -2 {
		amount = amount.Round(2)
	}
	list, err := uc.mutate(ctx, []string{id}, mutation{
		name:  TransitionPayment,
		check: ownedByCustomer(caller),
		apply: func(o *entity.Order, now time.Time) error {
			return lifecycle.UpdatePayment(o, amount, now)
		},
	})
	if err != nil {
		return nil, err
	}
	return uc.singleResponse(ctx, list)
}

func (uc *UseCase) bulkResponse(ctx context.Context, list []*entity.Order) (*dto.BulkOrdersResponse, error) {
	users, err := uc.usersFor(ctx, list)
	if err != nil {
		return nil, err
	}
	out := &dto.BulkOrdersResponse{Updated: len(list), Orders: make([]dto.OrderResponse, 0, len(list))}
	for _, o := range list {
		out.Orders = append(out.Orders, toOrderResponse(o, users))
	}
	return out, nil
}

func (uc *UseCase) singleResponse(ctx context.Context, list []*entity.Order) (*dto.OrderResponse, error) {
	users, err := uc.usersFor(ctx, list)
	if err != nil {
		return nil, err
	}
	resp := toOrderResponse(list[0], users)
	return &resp, nil
}

func uniqueIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
