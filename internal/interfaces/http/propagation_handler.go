package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Flota-api/internal/application/dto"
	"github.com/jhoicas/Flota-api/internal/application/usecase"
)

// PropagationHandler expone la propagación directa.
type PropagationHandler struct {
	uc *usecase.PropagationUseCase
}

// NewPropagationHandler construye el handler.
func NewPropagationHandler(uc *usecase.PropagationUseCase) *PropagationHandler {
	return &PropagationHandler{uc: uc}
}

// Propagate POST /api/propagar/:nivel/:id con cuerpo {removeMissing, oldDef}. Cuerpo vacío = sin poda.
func (h *PropagationHandler) Propagate(c *fiber.Ctx) error {
	var in dto.PropagateRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return invalidBody(c)
		}
	}
	out, err := h.uc.Propagate(c.UserContext(), c.Params("nivel"), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
