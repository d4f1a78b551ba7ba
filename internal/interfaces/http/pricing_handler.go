package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/vendofy-api/internal/application/dto"
	"github.com/jhoicas/vendofy-api/internal/application/pricing"
)

// PricingHandler precios personalizados por distribuidor y por cliente.
type PricingHandler struct {
	svc *pricing.Service
}

// NewPricingHandler construye el handler.
func NewPricingHandler(svc *pricing.Service) *PricingHandler {
	return &PricingHandler{svc: svc}
}

// Resolve godoc
// @Summary      Precio efectivo de un producto para un cliente
// @Description  Cliente > admin-distribuidor (activo) > base. Un cliente puede omitir customer_id.
// @Tags         pricing
// @Security     Bearer
// @Produce      json
// @Param        product_id   query  string  true   "ID del producto"
// @Param        customer_id  query  string  false  "ID del cliente"
// @Success      200  {object}  dto.ResolvedPriceResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/pricing/resolve [get]
func (h *PricingHandler) Resolve(c *fiber.Ctx) error {
	productID := c.Query("product_id")
	if productID == "" {
		return fiber.NewError(fiber.StatusBadRequest, "product_id es requerido")
	}
	out, err := h.svc.ResolveForCustomer(c.UserContext(), GetCaller(c), c.Query("customer_id"), productID)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// SetAdminPricing godoc
// @Summary      Fijar precio de un producto para un distribuidor (admin)
// @Tags         pricing
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SetAdminPricingRequest  true  "Precio"
// @Success      200   {object}  dto.AdminPricingResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/pricing/admin [put]
func (h *PricingHandler) SetAdminPricing(c *fiber.Ctx) error {
	var in dto.SetAdminPricingRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	out, err := h.svc.SetAdminPricing(c.UserContext(), GetCaller(c), in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// ListAdminPricing godoc
// @Summary      Precios de un distribuidor
// @Tags         pricing
// @Security     Bearer
// @Produce      json
// @Param        distributor_id  query  string  false  "ID del distribuidor (vacío: todos los míos)"
// @Success      200  {array}   dto.AdminPricingResponse
// @Router       /api/pricing/admin [get]
func (h *PricingHandler) ListAdminPricing(c *fiber.Ctx) error {
	out, err := h.svc.ListAdminPricing(c.UserContext(), GetCaller(c), c.Query("distributor_id"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// SetCustomerPricing godoc
// @Summary      Fijar precio para uno de mis clientes (distribuidor)
// @Tags         pricing
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SetCustomerPricingRequest  true  "Precio"
// @Success      200   {object}  dto.CustomerPricingResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/pricing/customers [put]
func (h *PricingHandler) SetCustomerPricing(c *fiber.Ctx) error {
	var in dto.SetCustomerPricingRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	out, err := h.svc.SetCustomerPricing(c.UserContext(), GetCaller(c), in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// ListCustomerPricing godoc
// @Summary      Precios personalizados de un cliente
// @Tags         pricing
// @Security     Bearer
// @Produce      json
// @Param        customer_id  path  string  true  "ID del cliente"
// @Success      200  {array}   dto.CustomerPricingResponse
// @Router       /api/pricing/customers/{customer_id} [get]
func (h *PricingHandler) ListCustomerPricing(c *fiber.Ctx) error {
	out, err := h.svc.ListCustomerPricing(c.UserContext(), GetCaller(c), c.Params("customer_id"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// DeleteCustomerPricing godoc
// @Summary      Eliminar precio personalizado (vuelve al del admin o al base)
// @Tags         pricing
// @Security     Bearer
// @Param        customer_id  path  string  true  "ID del cliente"
// @Param        product_id   path  string  true  "ID del producto"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/pricing/customers/{customer_id}/{product_id} [delete]
func (h *PricingHandler) DeleteCustomerPricing(c *fiber.Ctx) error {
	if err := h.svc.DeleteCustomerPricing(c.UserContext(), GetCaller(c), c.Params("customer_id"), c.Params("product_id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
