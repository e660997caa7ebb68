package propagation

import (
	"context"
	"fmt"

	"github.com/jhoicas/Flota-api/internal/domain"
	"github.com/jhoicas/Flota-api/internal/domain/repository"
	"github.com/jhoicas/Flota-api/internal/domain/schema"
)

// PruneOptions opciones de poda para un registro.
type PruneOptions struct {
	RemoveMissing        bool
	PropagateFromGroupID string
	CategoryID           string
	OldDef               schema.Definition
}

// Pruner decide qué claves perdieron toda procedencia tras un cambio de grupo.
// Guarda las claves de los grupos hermanos por categoría durante su vida útil (una propagación).
type Pruner struct {
	groups     repository.GroupRepository
	categories repository.CategoryRepository
	siblings   map[string]schema.KeySet
}

// NewPruner construye el podador sobre repositorios atados a la transacción en curso.
func NewPruner(groups repository.GroupRepository, categories repository.CategoryRepository) *Pruner {
	return &Pruner{groups: groups, categories: categories, siblings: make(map[string]schema.KeySet)}
}

// Prune devuelve merged sin las claves que aportaba solo el grupo propagador y que este ya no
// aporta, junto con las claves eliminadas. Sin RemoveMissing, o sin grupo, categoría u OldDef,
// devuelve merged intacto.
func (p *Pruner) Prune(ctx context.Context, merged, currentDefaults schema.Definition, opts PruneOptions) (schema.Definition, []string, error) {
	if !opts.RemoveMissing {
		return merged, nil, nil
	}
	if opts.PropagateFromGroupID == "" || opts.CategoryID == "" || opts.OldDef == nil {
		return merged, nil, nil
	}
	prevKeys := schema.Normalize(opts.OldDef).Keys()
	currKeys := currentDefaults.Keys()
	otherKeys, err := p.siblingKeys(ctx, opts.CategoryID, opts.PropagateFromGroupID)
	if err != nil {
		return nil, nil, err
	}
	dropped := schema.DroppedKeys(merged, prevKeys, currKeys, otherKeys)
	if len(dropped) == 0 {
		return merged, nil, nil
	}
	return schema.PruneKeys(merged, prevKeys, currKeys, otherKeys), dropped, nil
}

// siblingKeys une las claves de todos los grupos vinculados a la categoría excepto el propagador.
func (p *Pruner) siblingKeys(ctx context.Context, categoryID, groupID string) (schema.KeySet, error) {
	cacheKey := categoryID + "|" + groupID
	if keys, ok := p.siblings[cacheKey]; ok {
		return keys, nil
	}
	links, err := p.categories.FindGroupIDsForCategories(ctx, []string{categoryID})
	if err != nil {
		return nil, fmt.Errorf("%w: grupos de la categoría %s: %w", domain.ErrPersistence, categoryID, err)
	}
	var ids []string
	for _, l := range links {
		if l.GroupID != groupID {
			ids = append(ids, l.GroupID)
		}
	}
	keys := schema.KeySet{}
	if len(ids) > 0 {
		groups, err := p.groups.ListByIDs(ctx, ids)
		if err != nil {
			return nil, fmt.Errorf("%w: cargar grupos hermanos: %w", domain.ErrPersistence, err)
		}
		for _, g := range groups {
			keys.Add(schema.NormalizeJSON(g.Definition).Keys())
		}
	}
	p.siblings[cacheKey] = keys
	return keys, nil
}
