package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderItemRequest línea solicitada por el cliente. El precio lo resuelve el servidor.
type OrderItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,min=1,max=100000"`
}

// CreateOrderRequest entrada para crear un pedido (cliente).
type CreateOrderRequest struct {
	Items               []OrderItemRequest `json:"items" validate:"required,min=1,max=200,dive"`
	DesiredDeliveryDate time.Time          `json:"desired_delivery_date" validate:"required"`
	Notes               string             `json:"notes" validate:"max=1000"`
}

// UpdateDeliveryDateRequest nueva fecha operativa (distribuidor).
type UpdateDeliveryDateRequest struct {
	CurrentDeliveryDate time.Time `json:"current_delivery_date" validate:"required"`
}

// UpdatePaymentRequest monto pagado acumulado (cliente).
type UpdatePaymentRequest struct {
	AmountPaid decimal.Decimal `json:"amount_paid"`
}

// ListOrdersRequest filtros de listado.
type ListOrdersRequest struct {
	PageRequest
	Status         string `query:"status" validate:"omitempty,oneof=pending in-transit delivered"`
	PaymentStatus  string `query:"payment_status" validate:"omitempty,oneof=pending partial paid"`
	MarkedForToday string `query:"marked_for_today" validate:"omitempty,oneof=true false"`
}

// OrderItemResponse línea de pedido poblada.
type OrderItemResponse struct {
	Product  ProductRef      `json:"product"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

// OrderResponse salida de un pedido con asociaciones pobladas.
type OrderResponse struct {
	ID                  string              `json:"id"`
	OrderNumber         string              `json:"order_number"`
	Customer            UserRef             `json:"customer"`
	Distributor         UserRef             `json:"distributor"`
	AdminID             string              `json:"admin_id"`
	Items               []OrderItemResponse `json:"items"`
	TotalAmount         decimal.Decimal     `json:"total_amount"`
	Status              string              `json:"status"`
	DesiredDeliveryDate time.Time           `json:"desired_delivery_date"`
	CurrentDeliveryDate time.Time           `json:"current_delivery_date"`
	MarkedForToday      bool                `json:"marked_for_today"`
	SentToAdmin         bool                `json:"sent_to_admin"`
	SentToAdminAt       *time.Time          `json:"sent_to_admin_at,omitempty"`
	AdminReceivedAt     *time.Time          `json:"admin_received_at,omitempty"`
	ReceivedAt          *time.Time          `json:"received_at,omitempty"`
	AmountPaid          decimal.Decimal     `json:"amount_paid"`
	PaymentStatus       string              `json:"payment_status"`
	Notes               string              `json:"notes,omitempty"`
	CreatedAt           time.Time           `json:"created_at"`
	UpdatedAt           time.Time           `json:"updated_at"`
}

// OrderListResponse lista paginada de pedidos.
type OrderListResponse struct {
	Items []OrderResponse `json:"items"`
	Page  PageResponse    `json:"page"`
}

// BulkOrdersResponse resultado de una operación masiva.
type BulkOrdersResponse struct {
	Updated int             `json:"updated"`
	Orders  []OrderResponse `json:"orders"`
}

// ProductQuantityResponse cantidad agregada por producto.
type ProductQuantityResponse struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	Amount      decimal.Decimal `json:"amount"`
}

// SendToAdminResponse resumen enviado al admin.
type SendToAdminResponse struct {
	Admin        UserRef                   `json:"admin"`
	OrderNumbers []string                  `json:"order_numbers"`
	Products     []ProductQuantityResponse `json:"products"`
	TotalUnits   int                       `json:"total_units"`
	TotalAmount  decimal.Decimal           `json:"total_amount"`
	EmailQueued  bool                      `json:"email_queued"`
}
