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

var _ repository.AssetRepository = (*AssetRepo)(nil)

// AssetRepo implementación en memoria de AssetRepository.
type AssetRepo struct {
	a access
}

func cloneAsset(a entity.Asset) *entity.Asset {
	a.Definition = cloneBytes(a.Definition)
	a.CustomData = cloneBytes(a.CustomData)
	return &a
}

func (r *AssetRepo) Create(_ context.Context, asset *entity.Asset) error {
	return r.a.write("activo", asset.ID, func(st *state) error {
		if _, exists := st.assets[asset.ID]; exists {
			return domain.ErrDuplicate
		}
		if _, ok := st.models[asset.ModelID]; !ok {
			return domain.ErrNotFound
		}
		st.assets[asset.ID] = *cloneAsset(*asset)
		return nil
	})
}

func (r *AssetRepo) GetByID(_ context.Context, id string) (*entity.Asset, error) {
	var out *entity.Asset
	err := r.a.read(func(st *state) error {
		if a, ok := st.assets[id]; ok {
			out = cloneAsset(a)
		}
		return nil
	})
	return out, err
}

func (r *AssetRepo) Update(_ context.Context, asset *entity.Asset) error {
	return r.a.write("activo", asset.ID, func(st *state) error {
		if _, ok := st.assets[asset.ID]; !ok {
			return domain.ErrNotFound
		}
		st.assets[asset.ID] = *cloneAsset(*asset)
		return nil
	})
}

func (r *AssetRepo) UpdateSchema(_ context.Context, id string, field entity.SchemaField, def json.RawMessage) error {
	return r.a.write("activo", id, func(st *state) error {
		a, ok := st.assets[id]
		if !ok {
			return domain.ErrNotFound
		}
		switch field {
		case entity.FieldDefinition:
			a.Definition = cloneBytes(def)
		case entity.FieldCustomData:
			a.CustomData = cloneBytes(def)
		default:
			return domain.ErrInvalidInput
		}
		a.UpdatedAt = time.Now()
		st.assets[id] = a
		return nil
	})
}

func (r *AssetRepo) List(_ context.Context, limit, offset int) ([]*entity.Asset, error) {
	var out []*entity.Asset
	err := r.a.read(func(st *state) error {
		for _, id := range page(sortedKeys(st.assets), limit, offset) {
			out = append(out, cloneAsset(st.assets[id]))
		}
		return nil
	})
	return out, err
}

func (r *AssetRepo) ListByModels(_ context.Context, modelIDs []string) ([]*entity.Asset, error) {
	want := idSet(modelIDs)
	return r.filter(func(a entity.Asset) bool { return want[a.ModelID] })
}

func (r *AssetRepo) ListChildren(_ context.Context, parentID string) ([]*entity.Asset, error) {
	return r.filter(func(a entity.Asset) bool { return a.ParentID != "" && a.ParentID == parentID })
}

func (r *AssetRepo) filter(match func(entity.Asset) bool) ([]*entity.Asset, error) {
	var out []*entity.Asset
	err := r.a.read(func(st *state) error {
		for _, id := range sortedKeys(st.assets) {
			if a := st.assets[id]; match(a) {
				out = append(out, cloneAsset(a))
			}
		}
		return nil
	})
	return out, err
}

func (r *AssetRepo) Delete(_ context.Context, id string) error {
	return r.a.write("activo", id, func(st *state) error {
		for _, a := range st.assets {
			if a.ParentID == id {
				return fmt.Errorf("%w: el activo tiene componentes", domain.ErrConflict)
			}
		}
		delete(st.assets, id)
		return nil
	})
}
