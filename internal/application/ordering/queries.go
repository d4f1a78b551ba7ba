package ordering

import (
	"context"
	"fmt"

	"github.com/jhoicas/vendofy-api/internal/application/access"
	"github.com/jhoicas/vendofy-api/internal/application/dto"
	"github.com/jhoicas/vendofy-api/internal/domain"
	"github.com/jhoicas/vendofy-api/internal/domain/entity"
	"github.com/jhoicas/vendofy-api/internal/domain/query"
)

// List pedidos visibles para el llamante. La búsqueda siempre se combina (AND) con el alcance del rol.
func (uc *UseCase) List(ctx context.Context, caller access.Caller, in dto.ListOrdersRequest) (*dto.OrderListResponse, error) {
	in.DefaultPage()
	filter := query.AllOf(
		uc.scoper.Orders(caller),
		query.FieldEq("status", in.Status),
		query.FieldEq("payment_status", in.PaymentStatus),
		markedFilter(in.MarkedForToday),
		query.TextSearch(in.Search, "order_number", "notes"),
	)
	list, total, err := uc.orders.List(ctx, filter, in.Limit, in.Offset)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	users, err := uc.usersFor(ctx, list)
	if err != nil {
		return nil, err
	}
	out := &dto.OrderListResponse{
		Items: make([]dto.OrderResponse, 0, len(list)),
		Page:  dto.PageResponse{Limit: in.Limit, Offset: in.Offset, Total: total},
	}
	for _, o := range list {
		out.Items = append(out.Items, toOrderResponse(o, users))
	}
	return out, nil
}

func markedFilter(v string) query.Expr {
	switch v {
	case "true":
		return query.Eq{Field: "marked_for_today", Value: true}
	case "false":
		return query.Eq{Field: "marked_for_today", Value: false}
	}
	return query.True{}
}

// Get un pedido visible para el llamante; fuera de su alcance es 404.
func (uc *UseCase) Get(ctx context.Context, caller access.Caller, id string) (*dto.OrderResponse, error) {
	order, err := uc.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil || !access.CanSeeOrder(caller, order) {
		return nil, domain.ErrNotFound
	}
	users, err := uc.usersFor(ctx, []*entity.Order{order})
	if err != nil {
		return nil, err
	}
	resp := toOrderResponse(order, users)
	return &resp, nil
}

// DeliveryNote PDF de la nota de entrega de un pedido visible para el llamante.
func (uc *UseCase) DeliveryNote(ctx context.Context, caller access.Caller, id string) ([]byte, string, error) {
	if uc.pdf == nil {
		return nil, "", fmt.Errorf("delivery note: generador PDF no configurado")
	}
	order, err := uc.Get(ctx, caller, id)
	if err != nil {
		return nil, "", err
	}
	pdf, err := uc.pdf.GenerateDeliveryNote(ctx, order)
	if err != nil {
		return nil, "", fmt.Errorf("delivery note %s: %w", order.OrderNumber, err)
	}
	return pdf, order.OrderNumber + ".pdf", nil
}

// usersFor carga en una sola consulta clientes y distribuidores de los pedidos.
func (uc *UseCase) usersFor(ctx context.Context, list []*entity.Order) (map[string]*entity.User, error) {
	if len(list) == 0 {
		return map[string]*entity.User{}, nil
	}
	ids := make([]string, 0, 2*len(list))
	for _, o := range list {
		ids = append(ids, o.CustomerID, o.DistributorID)
	}
	users, err := uc.users.GetByIDs(ctx, uniqueIDs(ids))
	if err != nil {
		return nil, fmt.Errorf("poblar usuarios: %w", err)
	}
	return users, nil
}
