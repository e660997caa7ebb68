package propagation_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Flota-api/internal/application/propagation"
	"github.com/jhoicas/Flota-api/internal/domain/entity"
	"github.com/jhoicas/Flota-api/internal/domain/repository"
	"github.com/jhoicas/Flota-api/internal/domain/schema"
	"github.com/jhoicas/Flota-api/internal/infrastructure/memory"
)

// fixture arma un almacén en memoria con datos de flota.
type fixture struct {
	t     *testing.T
	ctx   context.Context
	store *memory.Store
	repos propagation.Repos
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	return &fixture{t: t, ctx: context.Background(), store: store, repos: store.Repos()}
}

func raw(t *testing.T, v string) json.RawMessage {
	t.Helper()
	require.True(t, json.Valid([]byte(v)), "JSON inválido en fixture: %s", v)
	return json.RawMessage(v)
}

func (f *fixture) group(id, parentID, def string) {
	f.t.Helper()
	require.NoError(f.t, f.repos.Groups.Create(f.ctx, &entity.Group{ID: id, ParentID: parentID, Name: "grupo-" + id, Definition: raw(f.t, def)}))
}

func (f *fixture) category(id, def string, groupIDs ...string) {
	f.t.Helper()
	require.NoError(f.t, f.repos.Categories.Create(f.ctx, &entity.Category{ID: id, Name: "categoria-" + id, Definition: raw(f.t, def)}))
	if len(groupIDs) > 0 {
		require.NoError(f.t, f.repos.Categories.SetGroups(f.ctx, id, groupIDs))
	}
}

func (f *fixture) model(id, categoryID, def string) {
	f.t.Helper()
	require.NoError(f.t, f.repos.Models.Create(f.ctx, &entity.Model{ID: id, CategoryID: categoryID, Name: "modelo-" + id, Definition: raw(f.t, def)}))
}

func (f *fixture) modelWithSpecs(id, categoryID, specs string) {
	f.t.Helper()
	require.NoError(f.t, f.repos.Models.Create(f.ctx, &entity.Model{ID: id, CategoryID: categoryID, Name: "modelo-" + id, Specifications: raw(f.t, specs)}))
}

func (f *fixture) asset(id, modelID, def string) {
	f.t.Helper()
	require.NoError(f.t, f.repos.Assets.Create(f.ctx, &entity.Asset{ID: id, ModelID: modelID, Name: "activo-" + id, Definition: raw(f.t, def)}))
}

func (f *fixture) assetWithCustomData(id, modelID, data string) {
	f.t.Helper()
	require.NoError(f.t, f.repos.Assets.Create(f.ctx, &entity.Asset{ID: id, ModelID: modelID, Name: "activo-" + id, CustomData: raw(f.t, data)}))
}

func (f *fixture) categoryDef(id string) schema.Definition {
	f.t.Helper()
	c, err := f.repos.Categories.GetByID(f.ctx, id)
	require.NoError(f.t, err)
	require.NotNil(f.t, c)
	return schema.NormalizeJSON(c.Definition)
}

func (f *fixture) modelDef(id string) schema.Definition {
	f.t.Helper()
	m, err := f.repos.Models.GetByID(f.ctx, id)
	require.NoError(f.t, err)
	require.NotNil(f.t, m)
	return schema.NormalizeJSON(m.Schema())
}

func (f *fixture) assetDef(id string) schema.Definition {
	f.t.Helper()
	a, err := f.repos.Assets.GetByID(f.ctx, id)
	require.NoError(f.t, err)
	require.NotNil(f.t, a)
	return schema.NormalizeJSON(a.Schema())
}

// countWrites instala un hook que cuenta escrituras por entidad.
func (f *fixture) countWrites() map[string]int {
	counts := map[string]int{}
	f.store.SetWriteHook(func(entityName, _ string) error {
		counts[entityName]++
		return nil
	})
	return counts
}

// brokenGroupRepo falla al listar hijos.
type brokenGroupRepo struct {
	repository.GroupRepository
}

func (brokenGroupRepo) ListChildIDs(context.Context, []string) ([]string, error) {
	return nil, errors.New("conexión perdida")
}
