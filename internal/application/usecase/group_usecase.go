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
	"github.com/jhoicas/Flota-api/internal/domain/repository"
	"github.com/jhoicas/Flota-api/internal/domain/schema"
)

// GroupUseCase casos de uso de grupos de atributos. Las actualizaciones se propagan en la misma transacción.
type GroupUseCase struct {
	groups repository.GroupRepository
	prop   *propagation.Service
}

// NewGroupUseCase construye el caso de uso.
func NewGroupUseCase(groups repository.GroupRepository, prop *propagation.Service) *GroupUseCase {
	return &GroupUseCase{groups: groups, prop: prop}
}

// Create crea un grupo. La definición se guarda en forma canónica.
func (uc *GroupUseCase) Create(ctx context.Context, in dto.CreateGroupRequest) (*dto.GroupResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: nombre requerido", domain.ErrInvalidInput)
	}
	existing, err := uc.groups.GetByName(ctx, name)
	if err != nil {
		return nil, persistenceErr("buscar grupo", err)
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	if in.ParentID != "" {
		parent, err := uc.groups.GetByID(ctx, in.ParentID)
		if err != nil {
			return nil, persistenceErr("buscar grupo padre", err)
		}
		if parent == nil {
			return nil, fmt.Errorf("%w: grupo padre %s", domain.ErrNotFound, in.ParentID)
		}
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
	group := &entity.Group{
		ID:         uuid.New().String(),
		ParentID:   in.ParentID,
		Name:       name,
		Definition: raw,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := uc.groups.Create(ctx, group); err != nil {
		return nil, err
	}
	return toGroupResponse(group), nil
}

// GetByID obtiene un grupo. Devuelve nil, nil si no existe.
func (uc *GroupUseCase) GetByID(ctx context.Context, id string) (*dto.GroupResponse, error) {
	g, err := uc.groups.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toGroupResponse(g), nil
}

// List lista grupos con paginación.
func (uc *GroupUseCase) List(ctx context.Context, limit, offset int) (*dto.GroupListResponse, error) {
	list, err := uc.groups.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.GroupResponse, 0, len(list))
	for _, g := range list {
		items = append(items, *toGroupResponse(g))
	}
	return &dto.GroupListResponse{Items: items, Page: dto.PageResponse{Limit: limit, Offset: offset}}, nil
}

// Update modifica el grupo y propaga su definición a categorías, modelos y activos en la misma
// transacción. La definición previa (normalizada) se usa como oldDef de la poda cuando removeMissing.
func (uc *GroupUseCase) Update(ctx context.Context, id string, in dto.UpdateGroupRequest, removeMissing bool) (*dto.GroupUpdateResponse, error) {
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
	var name string
	if in.Name != nil {
		if name = strings.TrimSpace(*in.Name); name == "" {
			return nil, fmt.Errorf("%w: nombre vacío", domain.ErrInvalidInput)
		}
	}

	res, err := uc.prop.ChangeAndPropagate(ctx, propagation.LevelGroup, id, func(ctx context.Context, repos propagation.Repos) (propagation.Options, error) {
		g, err := repos.Groups.GetByID(ctx, id)
		if err != nil {
			return propagation.Options{}, persistenceErr("cargar grupo", err)
		}
		if g == nil {
			return propagation.Options{}, fmt.Errorf("%w: grupo %s", domain.ErrNotFound, id)
		}
		oldDef := schema.NormalizeJSON(g.Definition)

		if in.Name != nil && name != g.Name {
			other, err := repos.Groups.GetByName(ctx, name)
			if err != nil {
				return propagation.Options{}, persistenceErr("buscar grupo", err)
			}
			if other != nil && other.ID != id {
				return propagation.Options{}, domain.ErrDuplicate
			}
			g.Name = name
		}
		if in.ParentID != nil && *in.ParentID != g.ParentID {
			if err := checkGroupParent(ctx, repos.Groups, id, *in.ParentID); err != nil {
				return propagation.Options{}, err
			}
			g.ParentID = *in.ParentID
		}
		if newDef != nil {
			g.Definition = newDef
		}
		g.UpdatedAt = time.Now()
		if err := repos.Groups.Update(ctx, g); err != nil {
			return propagation.Options{}, err
		}
		return propagation.Options{RemoveMissing: removeMissing, OldDef: oldDef}, nil
	})
	if err != nil {
		return nil, err
	}

	g, err := uc.groups.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if g == nil {
		return nil, fmt.Errorf("%w: grupo %s", domain.ErrNotFound, id)
	}
	return &dto.GroupUpdateResponse{Group: *toGroupResponse(g), Propagation: toPropagationResponse(res)}, nil
}

// Subgroups devuelve el grupo y todos sus descendientes.
func (uc *GroupUseCase) Subgroups(ctx context.Context, id string) (*dto.SubtreeResponse, error) {
	g, err := uc.groups.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if g == nil {
		return nil, fmt.Errorf("%w: grupo %s", domain.ErrNotFound, id)
	}
	ids, err := propagation.SubGroupIDs(ctx, uc.groups, id)
	if err != nil {
		return nil, err
	}
	return &dto.SubtreeResponse{RootID: id, GroupIDs: ids}, nil
}

// Delete elimina un grupo; sus hijos pasan a ser raíz y sus vínculos con categorías se borran.
func (uc *GroupUseCase) Delete(ctx context.Context, id string) error {
	return uc.groups.Delete(ctx, id)
}

// checkGroupParent valida que parentID exista y no sea id ni uno de sus descendientes.
func checkGroupParent(ctx context.Context, groups repository.GroupRepository, id, parentID string) error {
	if parentID == "" {
		return nil
	}
	if parentID == id {
		return fmt.Errorf("%w: un grupo no puede ser su propio padre", domain.ErrConflict)
	}
	parent, err := groups.GetByID(ctx, parentID)
	if err != nil {
		return persistenceErr("buscar grupo padre", err)
	}
	if parent == nil {
		return fmt.Errorf("%w: grupo padre %s", domain.ErrNotFound, parentID)
	}
	descendants, err := propagation.SubGroupIDs(ctx, groups, id)
	if err != nil {
		return err
	}
	if slices.Contains(descendants, parentID) {
		return fmt.Errorf("%w: %s es descendiente de %s", domain.ErrConflict, parentID, id)
	}
	return nil
}

func toGroupResponse(g *entity.Group) *dto.GroupResponse {
	if g == nil {
		return nil
	}
	return &dto.GroupResponse{
		ID:         g.ID,
		ParentID:   g.ParentID,
		Name:       g.Name,
		Definition: g.Definition,
		CreatedAt:  g.CreatedAt,
		UpdatedAt:  g.UpdatedAt,
	}
}
