package memory

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jhoicas/Flota-api/internal/domain"
	"github.com/jhoicas/Flota-api/internal/domain/entity"
	"github.com/jhoicas/Flota-api/internal/domain/repository"
)

var _ repository.GroupRepository = (*GroupRepo)(nil)

// GroupRepo implementación en memoria de GroupRepository.
type GroupRepo struct {
	a access
}

func (r *GroupRepo) Create(_ context.Context, group *entity.Group) error {
	return r.a.write("grupo", group.ID, func(st *state) error {
		if _, exists := st.groups[group.ID]; exists {
			return domain.ErrDuplicate
		}
		for _, g := range st.groups {
			if g.Name == group.Name {
				return domain.ErrDuplicate
			}
		}
		g := *group
		g.Definition = cloneBytes(group.Definition)
		st.groups[g.ID] = g
		return nil
	})
}

func (r *GroupRepo) GetByID(_ context.Context, id string) (*entity.Group, error) {
	var out *entity.Group
	err := r.a.read(func(st *state) error {
		if g, ok := st.groups[id]; ok {
			g.Definition = cloneBytes(g.Definition)
			out = &g
		}
		return nil
	})
	return out, err
}

func (r *GroupRepo) GetByName(_ context.Context, name string) (*entity.Group, error) {
	var out *entity.Group
	err := r.a.read(func(st *state) error {
		for _, g := range st.groups {
			if g.Name == name {
				g.Definition = cloneBytes(g.Definition)
				out = &g
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *GroupRepo) Update(_ context.Context, group *entity.Group) error {
	return r.a.write("grupo", group.ID, func(st *state) error {
		if _, ok := st.groups[group.ID]; !ok {
			return domain.ErrNotFound
		}
		g := *group
		g.Definition = cloneBytes(group.Definition)
		st.groups[g.ID] = g
		return nil
	})
}

func (r *GroupRepo) UpdateDefinition(_ context.Context, id string, def json.RawMessage) error {
	return r.a.write("grupo", id, func(st *state) error {
		g, ok := st.groups[id]
		if !ok {
			return domain.ErrNotFound
		}
		g.Definition = cloneBytes(def)
		g.UpdatedAt = time.Now()
		st.groups[id] = g
		return nil
	})
}

func (r *GroupRepo) List(_ context.Context, limit, offset int) ([]*entity.Group, error) {
	var out []*entity.Group
	err := r.a.read(func(st *state) error {
		for _, id := range page(sortedKeys(st.groups), limit, offset) {
			g := st.groups[id]
			g.Definition = cloneBytes(g.Definition)
			out = append(out, &g)
		}
		return nil
	})
	return out, err
}

func (r *GroupRepo) ListByIDs(_ context.Context, ids []string) ([]*entity.Group, error) {
	var out []*entity.Group
	err := r.a.read(func(st *state) error {
		want := idSet(ids)
		for _, id := range sortedKeys(st.groups) {
			if want[id] {
				g := st.groups[id]
				g.Definition = cloneBytes(g.Definition)
				out = append(out, &g)
			}
		}
		return nil
	})
	return out, err
}

func (r *GroupRepo) ListChildIDs(_ context.Context, parentIDs []string) ([]string, error) {
	var out []string
	err := r.a.read(func(st *state) error {
		parents := idSet(parentIDs)
		for _, id := range sortedKeys(st.groups) {
			if parents[st.groups[id].ParentID] {
				out = append(out, id)
			}
		}
		return nil
	})
	return out, err
}

func (r *GroupRepo) Delete(_ context.Context, id string) error {
	return r.a.write("grupo", id, func(st *state) error {
		delete(st.groups, id)
		for childID, g := range st.groups {
			if g.ParentID == id {
				g.ParentID = ""
				st.groups[childID] = g
			}
		}
		for link := range st.links {
			if link.GroupID == id {
				delete(st.links, link)
			}
		}
		return nil
	})
}
