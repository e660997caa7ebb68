package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Flota-api/internal/application/dto"
	"github.com/jhoicas/Flota-api/internal/application/usecase"
)

// GroupHandler maneja las peticiones HTTP de grupos de atributos.
type GroupHandler struct {
	uc *usecase.GroupUseCase
}

// NewGroupHandler construye el handler.
func NewGroupHandler(uc *usecase.GroupUseCase) *GroupHandler {
	return &GroupHandler{uc: uc}
}

// Create POST /api/grupos
func (h *GroupHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateGroupRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID GET /api/grupos/:id
func (h *GroupHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	if out == nil {
		return notFound(c, "grupo no encontrado")
	}
	return c.JSON(out)
}

// List GET /api/grupos?limit=&offset=
func (h *GroupHandler) List(c *fiber.Ctx) error {
	limit, offset := pageParams(c)
	out, err := h.uc.List(c.UserContext(), limit, offset)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Update PUT /api/grupos/:id?removeMissing=true
// Guarda el grupo y propaga su definición en la misma transacción.
func (h *GroupHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateGroupRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	removeMissing := c.QueryBool("removeMissing", false)
	out, err := h.uc.Update(c.UserContext(), c.Params("id"), in, removeMissing)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Subgroups GET /api/grupos/:id/subgrupos
func (h *GroupHandler) Subgroups(c *fiber.Ctx) error {
	out, err := h.uc.Subgroups(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete DELETE /api/grupos/:id
func (h *GroupHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
