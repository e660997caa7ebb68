package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Flota-api/internal/application/dto"
	"github.com/jhoicas/Flota-api/internal/application/usecase"
)

// ModelHandler maneja las peticiones HTTP de modelos.
type ModelHandler struct {
	uc *usecase.ModelUseCase
}

// NewModelHandler construye el handler.
func NewModelHandler(uc *usecase.ModelUseCase) *ModelHandler {
	return &ModelHandler{uc: uc}
}

// Create POST /api/modelos
func (h *ModelHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateModelRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID GET /api/modelos/:id
func (h *ModelHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	if out == nil {
		return notFound(c, "modelo no encontrado")
	}
	return c.JSON(out)
}

// List GET /api/modelos?categoriaId=
func (h *ModelHandler) List(c *fiber.Ctx) error {
	limit, offset := pageParams(c)
	out, err := h.uc.List(c.UserContext(), c.Query("categoriaId"), limit, offset)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Update PUT /api/modelos/:id
func (h *ModelHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateModelRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Update(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete DELETE /api/modelos/:id
func (h *ModelHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
