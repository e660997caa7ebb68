package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/jhoicas/Flota-api/internal/domain"
	"github.com/jhoicas/Flota-api/internal/domain/entity"
	"github.com/jhoicas/Flota-api/internal/domain/repository"
)

var _ repository.CategoryRepository = (*CategoryRepo)(nil)

// CategoryRepo implementación en memoria de CategoryRepository.
type CategoryRepo struct {
	a access
}

func (r *CategoryRepo) Create(_ context.Context, category *entity.Category) error {
	return r.a.write("categoria", category.ID, func(st *state) error {
		if _, exists := st.categories[category.ID]; exists {
			return domain.ErrDuplicate
		}
		for _, other := range st.categories {
			if other.Name == category.Name {
				return fmt.Errorf("%w: categoría %s", domain.ErrDuplicate, category.Name)
			}
		}
		c := *category
		c.Definition = cloneBytes(category.Definition)
		st.categories[c.ID] = c
		return nil
	})
}

func (r *CategoryRepo) GetByID(_ context.Context, id string) (*entity.Category, error) {
	var out *entity.Category
	err := r.a.read(func(st *state) error {
		if c, ok := st.categories[id]; ok {
			c.Definition = cloneBytes(c.Definition)
			out = &c
		}
		return nil
	})
	return out, err
}

func (r *CategoryRepo) Update(_ context.Context, category *entity.Category) error {
	return r.a.write("categoria", category.ID, func(st *state) error {
		if _, ok := st.categories[category.ID]; !ok {
			return domain.ErrNotFound
		}
		for id, other := range st.categories {
			if id != category.ID && other.Name == category.Name {
				return fmt.Errorf("%w: categoría %s", domain.ErrDuplicate, category.Name)
			}
		}
		c := *category
		c.Definition = cloneBytes(category.Definition)
		st.categories[c.ID] = c
		return nil
	})
}

func (r *CategoryRepo) UpdateDefinition(_ context.Context, id string, def json.RawMessage) error {
	return r.a.write("categoria", id, func(st *state) error {
		c, ok := st.categories[id]
		if !ok {
			return domain.ErrNotFound
		}
		c.Definition = cloneBytes(def)
		c.UpdatedAt = time.Now()
		st.categories[id] = c
		return nil
	})
}

func (r *CategoryRepo) List(_ context.Context, limit, offset int) ([]*entity.Category, error) {
	var out []*entity.Category
	err := r.a.read(func(st *state) error {
		for _, id := range page(sortedKeys(st.categories), limit, offset) {
			c := st.categories[id]
			c.Definition = cloneBytes(c.Definition)
			out = append(out, &c)
		}
		return nil
	})
	return out, err
}

func (r *CategoryRepo) Delete(_ context.Context, id string) error {
	return r.a.write("categoria", id, func(st *state) error {
		for _, m := range st.models {
			if m.CategoryID == id {
				return fmt.Errorf("%w: la categoría tiene modelos", domain.ErrConflict)
			}
		}
		delete(st.categories, id)
		for link := range st.links {
			if link.CategoryID == id {
				delete(st.links, link)
			}
		}
		return nil
	})
}

func (r *CategoryRepo) SetGroups(_ context.Context, categoryID string, groupIDs []string) error {
	return r.a.write("categoria", categoryID, func(st *state) error {
		if _, ok := st.categories[categoryID]; !ok {
			return domain.ErrNotFound
		}
		for _, gid := range groupIDs {
			if _, ok := st.groups[gid]; !ok {
				return domain.ErrNotFound
			}
		}
		for link := range st.links {
			if link.CategoryID == categoryID {
				delete(st.links, link)
			}
		}
		for _, gid := range groupIDs {
			st.links[entity.CategoryGroup{CategoryID: categoryID, GroupID: gid}] = true
		}
		return nil
	})
}

func (r *CategoryRepo) FindGroupIDsForCategories(_ context.Context, categoryIDs []string) ([]entity.CategoryGroup, error) {
	return r.links(func(l entity.CategoryGroup, want map[string]bool) bool { return want[l.CategoryID] }, categoryIDs)
}

func (r *CategoryRepo) FindCategoryIDsForGroups(_ context.Context, groupIDs []string) ([]entity.CategoryGroup, error) {
	return r.links(func(l entity.CategoryGroup, want map[string]bool) bool { return want[l.GroupID] }, groupIDs)
}

func (r *CategoryRepo) links(match func(entity.CategoryGroup, map[string]bool) bool, ids []string) ([]entity.CategoryGroup, error) {
	var out []entity.CategoryGroup
	err := r.a.read(func(st *state) error {
		want := idSet(ids)
		for link := range st.links {
			if match(link, want) {
				out = append(out, link)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].CategoryID != out[j].CategoryID {
			return out[i].CategoryID < out[j].CategoryID
		}
		return out[i].GroupID < out[j].GroupID
	})
	return out, err
}
