package propagation

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/jhoicas/Flota-api/internal/domain"
	"github.com/jhoicas/Flota-api/internal/domain/entity"
	"github.com/jhoicas/Flota-api/internal/domain/schema"
)

// Orchestrator recalcula categorías, modelos y activos dependientes de una definición fuente.
// No abre transacciones: trabaja sobre los repositorios que recibe, que deben estar atados a una.
type Orchestrator struct {
	log zerolog.Logger
}

// NewOrchestrator construye el orquestador.
func NewOrchestrator(log zerolog.Logger) *Orchestrator {
	return &Orchestrator{log: log}
}

// PropagateFrom carga la fuente (level, id), normaliza su definición como defaults y por cada
// categoría, modelo y activo afectado: normaliza, fusiona defaults, poda (si corresponde) y
// escribe solo si el resultado cambió. Cualquier error aborta; el llamador debe revertir la tx.
func (o *Orchestrator) PropagateFrom(ctx context.Context, repos Repos, level Level, id string, opts Options) (*Result, error) {
	source, err := o.loadSource(ctx, repos, level, id)
	if err != nil {
		return nil, err
	}
	defaults := schema.NormalizeJSON(source)
	pruner := NewPruner(repos.Groups, repos.Categories)
	base := PruneOptions{RemoveMissing: opts.RemoveMissing, OldDef: opts.OldDef}
	if level == LevelGroup {
		base.PropagateFromGroupID = id
	}

	res := &Result{OK: true, Level: level, SourceID: id, Categories: []string{}, Models: []string{}, Assets: []string{}}

	var categoryIDs []string
	switch level {
	case LevelGroup:
		groupIDs, err := SubGroupIDs(ctx, repos.Groups, id)
		if err != nil {
			return nil, err
		}
		links, err := repos.Categories.FindCategoryIDsForGroups(ctx, groupIDs)
		if err != nil {
			return nil, fmt.Errorf("%w: categorías de los grupos: %w", domain.ErrPersistence, err)
		}
		categoryIDs = uniqueCategoryIDs(links)
	case LevelCategory:
		categoryIDs = []string{id}
	}

	for _, categoryID := range categoryIDs {
		written, err := o.applyCategory(ctx, repos, pruner, categoryID, defaults, base)
		if err != nil {
			return nil, err
		}
		if written {
			res.Categories = append(res.Categories, categoryID)
		}
	}

	models, err := o.affectedModels(ctx, repos, level, id, categoryIDs)
	if err != nil {
		return nil, err
	}
	modelCategory := make(map[string]string, len(models))
	modelIDs := make([]string, 0, len(models))
	for _, m := range models {
		modelCategory[m.ID] = m.CategoryID
		modelIDs = append(modelIDs, m.ID)
		written, err := o.applyModel(ctx, repos, pruner, m, defaults, base)
		if err != nil {
			return nil, err
		}
		if written {
			res.Models = append(res.Models, m.ID)
		}
	}

	if len(modelIDs) > 0 {
		assets, err := repos.Assets.ListByModels(ctx, modelIDs)
		if err != nil {
			return nil, fmt.Errorf("%w: activos de los modelos: %w", domain.ErrPersistence, err)
		}
		for _, a := range assets {
			written, err := o.applyAsset(ctx, repos, pruner, a, modelCategory[a.ModelID], defaults, base)
			if err != nil {
				return nil, err
			}
			if written {
				res.Assets = append(res.Assets, a.ID)
			}
		}
	}
	return res, nil
}

func (o *Orchestrator) loadSource(ctx context.Context, repos Repos, level Level, id string) (json.RawMessage, error) {
	switch level {
	case LevelGroup:
		g, err := repos.Groups.GetByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("%w: cargar grupo %s: %w", domain.ErrPersistence, id, err)
		}
		if g == nil {
			return nil, fmt.Errorf("%w: grupo %s", domain.ErrNotFound, id)
		}
		return g.Definition, nil
	case LevelCategory:
		c, err := repos.Categories.GetByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("%w: cargar categoría %s: %w", domain.ErrPersistence, id, err)
		}
		if c == nil {
			return nil, fmt.Errorf("%w: categoría %s", domain.ErrNotFound, id)
		}
		return c.Definition, nil
	case LevelModel:
		m, err := repos.Models.GetByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("%w: cargar modelo %s: %w", domain.ErrPersistence, id, err)
		}
		if m == nil {
			return nil, fmt.Errorf("%w: modelo %s", domain.ErrNotFound, id)
		}
		return m.Schema(), nil
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidLevel, level)
	}
}

func (o *Orchestrator) affectedModels(ctx context.Context, repos Repos, level Level, id string, categoryIDs []string) ([]*entity.Model, error) {
	if level == LevelModel {
		m, err := repos.Models.GetByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("%w: cargar modelo %s: %w", domain.ErrPersistence, id, err)
		}
		if m == nil {
			return nil, nil
		}
		return []*entity.Model{m}, nil
	}
	if len(categoryIDs) == 0 {
		return nil, nil
	}
	models, err := repos.Models.ListByCategories(ctx, categoryIDs)
	if err != nil {
		return nil, fmt.Errorf("%w: modelos de las categorías: %w", domain.ErrPersistence, err)
	}
	return models, nil
}

func (o *Orchestrator) applyCategory(ctx context.Context, repos Repos, pruner *Pruner, categoryID string, defaults schema.Definition, base PruneOptions) (bool, error) {
	c, err := repos.Categories.GetByID(ctx, categoryID)
	if err != nil {
		return false, fmt.Errorf("%w: cargar categoría %s: %w", domain.ErrPersistence, categoryID, err)
	}
	if c == nil {
		// Fila huérfana en categoria_grupos.
		return false, nil
	}
	opts := base
	opts.CategoryID = categoryID
	next, changed, err := o.reconcile(ctx, pruner, c.Definition, defaults, opts)
	if err != nil || !changed {
		return false, err
	}
	raw, err := next.JSON()
	if err != nil {
		return false, fmt.Errorf("serializar categoría %s: %w", categoryID, err)
	}
	if err := repos.Categories.UpdateDefinition(ctx, categoryID, raw); err != nil {
		return false, fmt.Errorf("%w: actualizar categoría %s: %w", domain.ErrPersistence, categoryID, err)
	}
	o.log.Debug().Str("categoria", categoryID).Msg("definición de categoría actualizada")
	return true, nil
}

func (o *Orchestrator) applyModel(ctx context.Context, repos Repos, pruner *Pruner, m *entity.Model, defaults schema.Definition, base PruneOptions) (bool, error) {
	opts := base
	opts.CategoryID = m.CategoryID
	next, changed, err := o.reconcile(ctx, pruner, m.Schema(), defaults, opts)
	if err != nil || !changed {
		return false, err
	}
	raw, err := next.JSON()
	if err != nil {
		return false, fmt.Errorf("serializar modelo %s: %w", m.ID, err)
	}
	field := m.SchemaField()
	if err := repos.Models.UpdateSchema(ctx, m.ID, field, raw); err != nil {
		return false, fmt.Errorf("%w: actualizar modelo %s: %w", domain.ErrPersistence, m.ID, err)
	}
	o.log.Debug().Str("modelo", m.ID).Str("campo", string(field)).Msg("esquema de modelo actualizado")
	return true, nil
}

func (o *Orchestrator) applyAsset(ctx context.Context, repos Repos, pruner *Pruner, a *entity.Asset, categoryID string, defaults schema.Definition, base PruneOptions) (bool, error) {
	opts := base
	opts.CategoryID = categoryID
	next, changed, err := o.reconcile(ctx, pruner, a.Schema(), defaults, opts)
	if err != nil || !changed {
		return false, err
	}
	raw, err := next.JSON()
	if err != nil {
		return false, fmt.Errorf("serializar activo %s: %w", a.ID, err)
	}
	field := a.SchemaField()
	if err := repos.Assets.UpdateSchema(ctx, a.ID, field, raw); err != nil {
		return false, fmt.Errorf("%w: actualizar activo %s: %w", domain.ErrPersistence, a.ID, err)
	}
	o.log.Debug().Str("activo", a.ID).Str("campo", string(field)).Msg("esquema de activo actualizado")
	return true, nil
}

// reconcile normaliza el esquema almacenado, fusiona defaults, poda y compara con el estado actual.
func (o *Orchestrator) reconcile(ctx context.Context, pruner *Pruner, stored json.RawMessage, defaults schema.Definition, opts PruneOptions) (schema.Definition, bool, error) {
	current := schema.NormalizeJSON(stored)
	merged := schema.MergeDefinitions(current, defaults)
	next, dropped, err := pruner.Prune(ctx, merged, defaults, opts)
	if err != nil {
		return nil, false, err
	}
	if len(dropped) > 0 {
		o.log.Debug().Str("categoria", opts.CategoryID).Strs("claves", dropped).Msg("claves sin procedencia eliminadas")
	}
	return next, !schema.Equal(current, next), nil
}

func uniqueCategoryIDs(links []entity.CategoryGroup) []string {
	seen := make(map[string]bool, len(links))
	var ids []string
	for _, l := range links {
		if seen[l.CategoryID] {
			continue
		}
		seen[l.CategoryID] = true
		ids = append(ids, l.CategoryID)
	}
	return ids
}
