package usecase

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Flota-api/internal/application/dto"
	"github.com/jhoicas/Flota-api/internal/application/propagation"
	"github.com/jhoicas/Flota-api/internal/domain"
	"github.com/jhoicas/Flota-api/internal/domain/entity"
	"github.com/jhoicas/Flota-api/internal/domain/schema"
)

// CategoryUseCase casos de uso de categorías y de su composición con grupos.
type CategoryUseCase struct {
	repos    propagation.Repos
	txRunner propagation.TxRunner
	prop     *propagation.Service
}

// NewCategoryUseCase construye el caso de uso. repos se usan para lecturas fuera de transacción.
func NewCategoryUseCase(repos propagation.Repos, txRunner propagation.TxRunner, prop *propagation.Service) *CategoryUseCase {
	return &CategoryUseCase{repos: repos, txRunner: txRunner, prop: prop}
}

// Create crea la categoría y, si se indican grupos, los vincula y fusiona sus definiciones.
func (uc *CategoryUseCase) Create(ctx context.Context, in dto.CreateCategoryRequest) (*dto.CategoryResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: nombre requerido", domain.ErrInvalidInput)
	}
	def, err := canonicalDefinition(in.Definition)
	if err != nil {
		return nil, err
	}
	raw, err := encodeDefinition(def)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	category := &entity.Category{
		ID:         uuid.New().String(),
		Name:       name,
		Definition: raw,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	err = uc.txRunner.Run(ctx, func(repos propagation.Repos) error {
		if err := repos.Categories.Create(ctx, category); err != nil {
			return err
		}
		if len(in.GroupIDs) == 0 {
			return nil
		}
		return linkGroups(ctx, repos, category, in.GroupIDs)
	})
	if err != nil {
		return nil, err
	}
	return uc.GetByID(ctx, category.ID)
}

// GetByID obtiene una categoría con sus grupos. Devuelve nil, nil si no existe.
func (uc *CategoryUseCase) GetByID(ctx context.Context, id string) (*dto.CategoryResponse, error) {
	c, err := uc.repos.Categories.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, nil
	}
	links, err := uc.repos.Categories.FindGroupIDsForCategories(ctx, []string{id})
	if err != nil {
		return nil, err
	}
	return toCategoryResponse(c, links), nil
}

// List lista categorías con paginación.
func (uc *CategoryUseCase) List(ctx context.Context, limit, offset int) (*dto.CategoryListResponse, error) {
	list, err := uc.repos.Categories.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(list))
	for _, c := range list {
		ids = append(ids, c.ID)
	}
	links, err := uc.repos.Categories.FindGroupIDsForCategories(ctx, ids)
	if err != nil {
		return nil, err
	}
	items := make([]dto.CategoryResponse, 0, len(list))
	for _, c := range list {
		items = append(items, *toCategoryResponse(c, links))
	}
	return &dto.CategoryListResponse{Items: items, Page: dto.PageResponse{Limit: limit, Offset: offset}}, nil
}

// Update modifica la categoría y propaga su definición a modelos y activos.
func (uc *CategoryUseCase) Update(ctx context.Context, id string, in dto.UpdateCategoryRequest) (*dto.CategoryUpdateResponse, error) {
	var newDef []byte
	if len(in.Definition) > 0 {
		def, err := canonicalDefinition(in.Definition)
		if err != nil {
			return nil, err
		}
		if newDef, err = encodeDefinition(def); err != nil {
			return nil, err
		}
	}
	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		return nil, fmt.Errorf("%w: nombre vacío", domain.ErrInvalidInput)
	}

	res, err := uc.prop.ChangeAndPropagate(ctx, propagation.LevelCategory, id, func(ctx context.Context, repos propagation.Repos) (propagation.Options, error) {
		c, err := loadCategory(ctx, repos, id)
		if err != nil {
			return propagation.Options{}, err
		}
		if in.Name != nil {
			c.Name = strings.TrimSpace(*in.Name)
		}
		if newDef != nil {
			c.Definition = newDef
		}
		c.UpdatedAt = time.Now()
		return propagation.Options{}, repos.Categories.Update(ctx, c)
	})
	if err != nil {
		return nil, err
	}
	return uc.updateResponse(ctx, id, res)
}

// SetGroups reemplaza los grupos de la categoría, fusiona sus definiciones y propaga el resultado.
func (uc *CategoryUseCase) SetGroups(ctx context.Context, id string, in dto.SetCategoryGroupsRequest) (*dto.CategoryUpdateResponse, error) {
	res, err := uc.prop.ChangeAndPropagate(ctx, propagation.LevelCategory, id, func(ctx context.Context, repos propagation.Repos) (propagation.Options, error) {
		c, err := loadCategory(ctx, repos, id)
		if err != nil {
			return propagation.Options{}, err
		}
		return propagation.Options{}, linkGroups(ctx, repos, c, in.GroupIDs)
	})
	if err != nil {
		return nil, err
	}
	return uc.updateResponse(ctx, id, res)
}

// Delete elimina una categoría sin modelos.
func (uc *CategoryUseCase) Delete(ctx context.Context, id string) error {
	return uc.repos.Categories.Delete(ctx, id)
}

func (uc *CategoryUseCase) updateResponse(ctx context.Context, id string, res *propagation.Result) (*dto.CategoryUpdateResponse, error) {
	c, err := uc.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, fmt.Errorf("%w: categoría %s", domain.ErrNotFound, id)
	}
	return &dto.CategoryUpdateResponse{Category: *c, Propagation: toPropagationResponse(res)}, nil
}

func loadCategory(ctx context.Context, repos propagation.Repos, id string) (*entity.Category, error) {
	c, err := repos.Categories.GetByID(ctx, id)
	if err != nil {
		return nil, persistenceErr("cargar categoría", err)
	}
	if c == nil {
		return nil, fmt.Errorf("%w: categoría %s", domain.ErrNotFound, id)
	}
	return c, nil
}

// linkGroups vincula groupIDs a la categoría y fusiona las definiciones de esos grupos en la suya.
// Los valores ya presentes en la categoría se conservan; entre grupos gana el de menor ID.
func linkGroups(ctx context.Context, repos propagation.Repos, c *entity.Category, groupIDs []string) error {
	ids := slices.Clone(groupIDs)
	slices.Sort(ids)
	ids = slices.Compact(ids)

	groups, err := repos.Groups.ListByIDs(ctx, ids)
	if err != nil {
		return persistenceErr("cargar grupos", err)
	}
	if len(groups) != len(ids) {
		found := make(map[string]bool, len(groups))
		for _, g := range groups {
			found[g.ID] = true
		}
		for _, id := range ids {
			if !found[id] {
				return fmt.Errorf("%w: grupo %s", domain.ErrNotFound, id)
			}
		}
	}
	if err := repos.Categories.SetGroups(ctx, c.ID, ids); err != nil {
		return err
	}

	merged := schema.NormalizeJSON(c.Definition)
	for _, g := range groups {
		merged = schema.MergeDefinitions(merged, schema.NormalizeJSON(g.Definition))
	}
	raw, err := encodeDefinition(merged)
	if err != nil {
		return err
	}
	c.Definition = raw
	return repos.Categories.UpdateDefinition(ctx, c.ID, raw)
}

func toCategoryResponse(c *entity.Category, links []entity.CategoryGroup) *dto.CategoryResponse {
	groupIDs := []string{}
	for _, l := range links {
		if l.CategoryID == c.ID {
			groupIDs = append(groupIDs, l.GroupID)
		}
	}
	return &dto.CategoryResponse{
		ID:         c.ID,
		Name:       c.Name,
		Definition: c.Definition,
		GroupIDs:   groupIDs,
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
	}
}
