package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Flota-api/internal/application/dto"
	"github.com/jhoicas/Flota-api/internal/application/propagation"
	"github.com/jhoicas/Flota-api/internal/domain"
	"github.com/jhoicas/Flota-api/internal/domain/entity"
)

// ModelUseCase casos de uso de modelos de fábrica.
type ModelUseCase struct {
	repos    propagation.Repos
	txRunner propagation.TxRunner
	prop     *propagation.Service
}

// NewModelUseCase construye el caso de uso.
func NewModelUseCase(repos propagation.Repos, txRunner propagation.TxRunner, prop *propagation.Service) *ModelUseCase {
	return &ModelUseCase{repos: repos, txRunner: txRunner, prop: prop}
}

// Create crea un modelo cuyo esquema parte de la definición de su categoría.
func (uc *ModelUseCase) Create(ctx context.Context, in dto.CreateModelRequest) (*dto.ModelResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" || in.CategoryID == "" {
		return nil, fmt.Errorf("%w: nombre y categoriaId son requeridos", domain.ErrInvalidInput)
	}
	if _, err := canonicalDefinition(in.Definition); err != nil {
		return nil, err
	}
	now := time.Now()
	model := &entity.Model{
		ID:           uuid.New().String(),
		CategoryID:   in.CategoryID,
		Name:         name,
		Manufacturer: strings.TrimSpace(in.Manufacturer),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	err := uc.txRunner.Run(ctx, func(repos propagation.Repos) error {
		c, err := loadCategory(ctx, repos, in.CategoryID)
		if err != nil {
			return err
		}
		if model.Definition, err = seededDefinition(in.Definition, c.Definition); err != nil {
			return err
		}
		return repos.Models.Create(ctx, model)
	})
	if err != nil {
		return nil, err
	}
	return toModelResponse(model), nil
}

// GetByID obtiene un modelo. Devuelve nil, nil si no existe.
func (uc *ModelUseCase) GetByID(ctx context.Context, id string) (*dto.ModelResponse, error) {
	m, err := uc.repos.Models.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toModelResponse(m), nil
}

// List lista modelos; si categoryID no está vacío filtra por esa categoría.
func (uc *ModelUseCase) List(ctx context.Context, categoryID string, limit, offset int) (*dto.ModelListResponse, error) {
	var (
		list []*entity.Model
		err  error
	)
	if categoryID != "" {
		list, err = uc.repos.Models.ListByCategories(ctx, []string{categoryID})
		list = pageOf(list, limit, offset)
	} else {
		list, err = uc.repos.Models.List(ctx, limit, offset)
	}
	if err != nil {
		return nil, err
	}
	items := make([]dto.ModelResponse, 0, len(list))
	for _, m := range list {
		items = append(items, *toModelResponse(m))
	}
	return &dto.ModelListResponse{Items: items, Page: dto.PageResponse{Limit: limit, Offset: offset}}, nil
}

// Update modifica el modelo y propaga su esquema a los activos. Si cambia de categoría, el esquema
// se completa con los defaults de la nueva categoría.
func (uc *ModelUseCase) Update(ctx context.Context, id string, in dto.UpdateModelRequest) (*dto.ModelUpdateResponse, error) {
	if len(in.Definition) > 0 {
		if _, err := canonicalDefinition(in.Definition); err != nil {
			return nil, err
		}
	}
	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		return nil, fmt.Errorf("%w: nombre vacío", domain.ErrInvalidInput)
	}

	res, err := uc.prop.ChangeAndPropagate(ctx, propagation.LevelModel, id, func(ctx context.Context, repos propagation.Repos) (propagation.Options, error) {
		m, err := repos.Models.GetByID(ctx, id)
		if err != nil {
			return propagation.Options{}, persistenceErr("cargar modelo", err)
		}
		if m == nil {
			return propagation.Options{}, fmt.Errorf("%w: modelo %s", domain.ErrNotFound, id)
		}
		field := m.SchemaField()
		current := m.Schema()
		if len(in.Definition) > 0 {
			current = in.Definition
		}
		if in.CategoryID != nil && *in.CategoryID != m.CategoryID {
			c, err := loadCategory(ctx, repos, *in.CategoryID)
			if err != nil {
				return propagation.Options{}, err
			}
			m.CategoryID = c.ID
			if current, err = seededDefinition(current, c.Definition); err != nil {
				return propagation.Options{}, err
			}
		} else if len(in.Definition) > 0 {
			if current, err = seededDefinition(current, nil); err != nil {
				return propagation.Options{}, err
			}
		}
		if field == entity.FieldSpecifications {
			m.Specifications = current
		} else {
			m.Definition = current
		}
		if in.Name != nil {
			m.Name = strings.TrimSpace(*in.Name)
		}
		if in.Manufacturer != nil {
			m.Manufacturer = strings.TrimSpace(*in.Manufacturer)
		}
		m.UpdatedAt = time.Now()
		return propagation.Options{}, repos.Models.Update(ctx, m)
	})
	if err != nil {
		return nil, err
	}
	m, err := uc.repos.Models.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, fmt.Errorf("%w: modelo %s", domain.ErrNotFound, id)
	}
	return &dto.ModelUpdateResponse{Model: *toModelResponse(m), Propagation: toPropagationResponse(res)}, nil
}

// Delete elimina un modelo sin activos.
func (uc *ModelUseCase) Delete(ctx context.Context, id string) error {
	return uc.repos.Models.Delete(ctx, id)
}

func toModelResponse(m *entity.Model) *dto.ModelResponse {
	if m == nil {
		return nil
	}
	return &dto.ModelResponse{
		ID:             m.ID,
		CategoryID:     m.CategoryID,
		Name:           m.Name,
		Manufacturer:   m.Manufacturer,
		Definition:     m.Definition,
		Specifications: m.Specifications,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}
