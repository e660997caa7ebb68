package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jhoicas/Flota-api/internal/domain"
	"github.com/jhoicas/Flota-api/internal/domain/entity"
	"github.com/jhoicas/Flota-api/internal/domain/repository"
)

var _ repository.ModelRepository = (*ModelRepo)(nil)

// ModelRepo implementación en memoria de ModelRepository.
type ModelRepo struct {
	a access
}

func cloneModel(m entity.Model) *entity.Model {
	m.Definition = cloneBytes(m.Definition)
	m.Specifications = cloneBytes(m.Specifications)
	return &m
}

func (r *ModelRepo) Create(_ context.Context, model *entity.Model) error {
	return r.a.write("modelo", model.ID, func(st *state) error {
		if _, exists := st.models[model.ID]; exists {
			return domain.ErrDuplicate
		}
		if _, ok := st.categories[model.CategoryID]; !ok {
			return domain.ErrNotFound
		}
		st.models[model.ID] = *cloneModel(*model)
		return nil
	})
}

func (r *ModelRepo) GetByID(_ context.Context, id string) (*entity.Model, error) {
	var out *entity.Model
	err := r.a.read(func(st *state) error {
		if m, ok := st.models[id]; ok {
			out = cloneModel(m)
		}
		return nil
	})
	return out, err
}

func (r *ModelRepo) Update(_ context.Context, model *entity.Model) error {
	return r.a.write("modelo", model.ID, func(st *state) error {
		if _, ok := st.models[model.ID]; !ok {
			return domain.ErrNotFound
		}
		st.models[model.ID] = *cloneModel(*model)
		return nil
	})
}

func (r *ModelRepo) UpdateSchema(_ context.Context, id string, field entity.SchemaField, def json.RawMessage) error {
	return r.a.write("modelo", id, func(st *state) error {
		m, ok := st.models[id]
		if !ok {
			return domain.ErrNotFound
		}
		switch field {
		case entity.FieldDefinition:
			m.Definition = cloneBytes(def)
		case entity.FieldSpecifications:
			m.Specifications = cloneBytes(def)
		default:
			return domain.ErrInvalidInput
		}
		m.UpdatedAt = time.Now()
		st.models[id] = m
		return nil
	})
}

func (r *ModelRepo) List(_ context.Context, limit, offset int) ([]*entity.Model, error) {
	var out []*entity.Model
	err := r.a.read(func(st *state) error {
		for _, id := range page(sortedKeys(st.models), limit, offset) {
			out = append(out, cloneModel(st.models[id]))
		}
		return nil
	})
	return out, err
}

func (r *ModelRepo) ListByCategories(_ context.Context, categoryIDs []string) ([]*entity.Model, error) {
	var out []*entity.Model
	err := r.a.read(func(st *state) error {
		want := idSet(categoryIDs)
		for _, id := range sortedKeys(st.models) {
			if m := st.models[id]; want[m.CategoryID] {
				out = append(out, cloneModel(m))
			}
		}
		return nil
	})
	return out, err
}

func (r *ModelRepo) Delete(_ context.Context, id string) error {
	return r.a.write("modelo", id, func(st *state) error {
		for _, a := range st.assets {
			if a.ModelID == id {
				return fmt.Errorf("%w: el modelo tiene activos", domain.ErrConflict)
			}
		}
		delete(st.models, id)
		return nil
	})
}
