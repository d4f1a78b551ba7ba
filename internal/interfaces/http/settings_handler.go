package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/vendofy-api/internal/application/dto"
	"github.com/jhoicas/vendofy-api/internal/application/usecase"
)

// SettingsHandler configuración del sistema con aprobación del super-admin.
type SettingsHandler struct {
	uc *usecase.SettingsUseCase
}

// NewSettingsHandler construye el handler.
func NewSettingsHandler(uc *usecase.SettingsUseCase) *SettingsHandler {
	return &SettingsHandler{uc: uc}
}

// Get godoc
// @Summary      Configuración vigente
// @Tags         settings
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.SettingsResponse
// @Router       /api/settings [get]
func (h *SettingsHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Cambiar configuración
// @Description  El super-admin aplica directamente; un admin crea una solicitud pendiente.
// @Tags         settings
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.UpdateSettingsRequest  true  "Cambios"
// @Success      200   {object}  dto.SettingsUpdateResponse
// @Success      202   {object}  dto.SettingsUpdateResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/settings [put]
func (h *SettingsHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateSettingsRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.Update(c.UserContext(), GetCaller(c), in)
	if err != nil {
		return err
	}
	if !out.Applied {
		return c.Status(fiber.StatusAccepted).JSON(out)
	}
	return c.JSON(out)
}

// ListChanges godoc
// @Summary      Solicitudes de cambio
// @Tags         settings
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "pending | approved | rejected"
// @Success      200  {array}  dto.SettingsChangeResponse
// @Router       /api/settings/changes [get]
func (h *SettingsHandler) ListChanges(c *fiber.Ctx) error {
	out, err := h.uc.ListChanges(c.UserContext(), GetCaller(c), c.Query("status"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Review godoc
// @Summary      Aprobar o rechazar un cambio (super-admin)
// @Tags         settings
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la solicitud"
// @Param        body  body  dto.ReviewSettingsChangeRequest  true  "Decisión"
// @Success      200   {object}  dto.SettingsChangeResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/settings/changes/{id}/review [post]
func (h *SettingsHandler) Review(c *fiber.Ctx) error {
	var in dto.ReviewSettingsChangeRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.Review(c.UserContext(), GetCaller(c), c.Params("id"), in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}
