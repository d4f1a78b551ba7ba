package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/vendofy-api/internal/application/dto"
	"github.com/jhoicas/vendofy-api/internal/application/ordering"
)

// OrderHandler ciclo de vida de pedidos.
type OrderHandler struct {
	uc *ordering.UseCase
}

// NewOrderHandler construye el handler.
func NewOrderHandler(uc *ordering.UseCase) *OrderHandler {
	return &OrderHandler{uc: uc}
}

// Create godoc
// @Summary      Crear pedido (cliente)
// @Description  Los precios se resuelven en servidor. Un producto no aprobado o inactivo rechaza el pedido completo.
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateOrderRequest  true  "Líneas y fecha deseada"
// @Success      201   {object}  dto.OrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/orders [post]
func (h *OrderHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateOrderRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.Create(c.UserContext(), GetCaller(c), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar pedidos visibles
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        status            query  string  false  "pending | in-transit | delivered"
// @Param        payment_status    query  string  false  "pending | partial | paid"
// @Param        marked_for_today  query  string  false  "true | false"
// @Param        search            query  string  false  "Número de pedido o notas"
// @Param        limit             query  int     false  "Límite"  default(20)
// @Param        offset            query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.OrderListResponse
// @Router       /api/orders [get]
func (h *OrderHandler) List(c *fiber.Ctx) error {
	in := dto.ListOrdersRequest{
		PageRequest:    pageFromQuery(c),
		Status:         c.Query("status"),
		PaymentStatus:  c.Query("payment_status"),
		MarkedForToday: c.Query("marked_for_today"),
	}
	if err := dto.Validate(in); err != nil {
		return err
	}
	out, err := h.uc.List(c.UserContext(), GetCaller(c), in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Get godoc
// @Summary      Obtener pedido
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del pedido"
// @Success      200  {object}  dto.OrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{id} [get]
func (h *OrderHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), GetCaller(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// DeliveryNote godoc
// @Summary      Nota de entrega en PDF
// @Tags         orders
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID del pedido"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/pdf [get]
func (h *OrderHandler) DeliveryNote(c *fiber.Ctx) error {
	pdf, filename, err := h.uc.DeliveryNote(c.UserContext(), GetCaller(c), c.Params("id"))
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("inline; filename=%q", filename))
	return c.Send(pdf)
}

// MarkForToday godoc
// @Summary      Marcar pedidos para entrega hoy (distribuidor)
// @Description  Todo o nada: si algún pedido es ajeno (403), no existe (404) o ya fue recibido (400), no se modifica ninguno.
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.BulkIDsRequest  true  "IDs de pedidos"
// @Success      200   {object}  dto.BulkOrdersResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/orders/mark-for-today [post]
func (h *OrderHandler) MarkForToday(c *fiber.Ctx) error {
	var in dto.BulkIDsRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.MarkForToday(c.UserContext(), GetCaller(c), in.OrderIDs)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// UpdateDeliveryDate godoc
// @Summary      Cambiar fecha de entrega (distribuidor)
// @Description  Solo cambia la fecha operativa; la fecha deseada del cliente no se toca. Notifica al cliente por correo.
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del pedido"
// @Param        body  body  dto.UpdateDeliveryDateRequest  true  "Nueva fecha"
// @Success      200   {object}  dto.OrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/delivery-date [patch]
func (h *OrderHandler) UpdateDeliveryDate(c *fiber.Ctx) error {
	var in dto.UpdateDeliveryDateRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.UpdateDeliveryDate(c.UserContext(), GetCaller(c), c.Params("id"), in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// SendToAdmin godoc
// @Summary      Solicitar cantidades al admin (distribuidor)
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.BulkIDsRequest  true  "IDs de pedidos"
// @Success      200   {object}  dto.SendToAdminResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/orders/send-to-admin [post]
func (h *OrderHandler) SendToAdmin(c *fiber.Ctx) error {
	var in dto.BulkIDsRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.SendToAdmin(c.UserContext(), GetCaller(c), in.OrderIDs)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// MarkReceived godoc
// @Summary      Confirmar recepción (distribuidor o admin)
// @Description  Requiere que los pedidos estén marcados para hoy y no recibidos. Todo o nada.
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.BulkIDsRequest  true  "IDs de pedidos"
// @Success      200   {object}  dto.BulkOrdersResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/orders/mark-received [post]
func (h *OrderHandler) MarkReceived(c *fiber.Ctx) error {
	var in dto.BulkIDsRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.MarkReceived(c.UserContext(), GetCaller(c), in.OrderIDs)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// MarkOneReceived godoc
// @Summary      Confirmar recepción de un pedido (distribuidor o admin)
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del pedido"
// @Success      200  {object}  dto.BulkOrdersResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/received [post]
func (h *OrderHandler) MarkOneReceived(c *fiber.Ctx) error {
	out, err := h.uc.MarkReceived(c.UserContext(), GetCaller(c), []string{c.Params("id")})
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// CustomerMarkReceived godoc
// @Summary      El cliente confirma que recibió su pedido
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del pedido"
// @Success      200  {object}  dto.OrderResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/customer-received [post]
func (h *OrderHandler) CustomerMarkReceived(c *fiber.Ctx) error {
	out, err := h.uc.CustomerMarkReceived(c.UserContext(), GetCaller(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// UpdatePayment godoc
// @Summary      Registrar monto pagado (cliente)
// @Description  amount_paid es el acumulado, no un incremento. Solo tras la recepción.
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del pedido"
// @Param        body  body  dto.UpdatePaymentRequest  true  "Monto"
// @Success      200   {object}  dto.OrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/payment [patch]
func (h *OrderHandler) UpdatePayment(c *fiber.Ctx) error {
	var in dto.UpdatePaymentRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.UpdatePayment(c.UserContext(), GetCaller(c), c.Params("id"), in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}
