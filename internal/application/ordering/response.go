package ordering

import (
	"github.com/jhoicas/vendofy-api/internal/application/dto"
	"github.com/jhoicas/vendofy-api/internal/domain/entity"
)

func userRef(id string, users map[string]*entity.User) dto.UserRef {
	if u, ok := users[id]; ok && u != nil {
		return dto.UserRef{ID: u.ID, Name: u.Name, Email: u.Email}
	}
	return dto.UserRef{ID: id}
}

func toOrderResponse(o *entity.Order, users map[string]*entity.User) dto.OrderResponse {
	items := make([]dto.OrderItemResponse, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, dto.OrderItemResponse{
			Product:  dto.ProductRef{ID: it.ProductID, Name: it.ProductName},
			Quantity: it.Quantity,
			Price:    it.Price,
			Subtotal: it.Subtotal(),
		})
	}
	return dto.OrderResponse{
		ID:                  o.ID,
		OrderNumber:         o.OrderNumber,
		Customer:            userRef(o.CustomerID, users),
		Distributor:         userRef(o.DistributorID, users),
		AdminID:             o.AdminID,
		Items:               items,
		TotalAmount:         o.TotalAmount,
		Status:              o.Status,
		DesiredDeliveryDate: o.DesiredDeliveryDate,
		CurrentDeliveryDate: o.CurrentDeliveryDate,
		MarkedForToday:      o.MarkedForToday,
		SentToAdmin:         o.SentToAdmin,
		SentToAdminAt:       o.SentToAdminAt,
		AdminReceivedAt:     o.AdminReceivedAt,
		ReceivedAt:          o.ReceivedAt,
		AmountPaid:          o.AmountPaid,
		PaymentStatus:       o.PaymentStatus,
		Notes:               o.Notes,
		CreatedAt:           o.CreatedAt,
		UpdatedAt:           o.UpdatedAt,
	}
}
