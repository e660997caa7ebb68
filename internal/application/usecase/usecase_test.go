package usecase_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Flota-api/internal/application/dto"
	"github.com/jhoicas/Flota-api/internal/application/propagation"
	"github.com/jhoicas/Flota-api/internal/application/usecase"
	"github.com/jhoicas/Flota-api/internal/domain"
	"github.com/jhoicas/Flota-api/internal/domain/schema"
	"github.com/jhoicas/Flota-api/internal/infrastructure/memory"
)

type app struct {
	ctx        context.Context
	groups     *usecase.GroupUseCase
	categories *usecase.CategoryUseCase
	models     *usecase.ModelUseCase
	assets     *usecase.AssetUseCase
	propagate  *usecase.PropagationUseCase
}

func newApp(t *testing.T) *app {
	t.Helper()
	store := memory.NewStore()
	repos := store.Repos()
	svc := propagation.NewService(store, nil, zerolog.Nop())
	return &app{
		ctx:        context.Background(),
		groups:     usecase.NewGroupUseCase(repos.Groups, svc),
		categories: usecase.NewCategoryUseCase(repos, store, svc),
		models:     usecase.NewModelUseCase(repos, store, svc),
		assets:     usecase.NewAssetUseCase(repos, store),
		propagate:  usecase.NewPropagationUseCase(svc),
	}
}

const motorDef = `[
	{"id":"potencia","label":"Potencia","dataType":"number","defaultValue":400,"tempKey":"t1"},
	{"id":"cilindrada","label":"Cilindrada","dataType":"number"}
]`

func keys(t *testing.T, raw json.RawMessage) []string {
	t.Helper()
	return schema.NormalizeJSON(raw).Keys().Sorted()
}

// flota crea grupo motor -> categoría camión -> modelo FH16 -> activo.
func (a *app) flota(t *testing.T) (group *dto.GroupResponse, category *dto.CategoryResponse, model *dto.ModelResponse, asset *dto.AssetResponse) {
	t.Helper()
	var err error
	group, err = a.groups.Create(a.ctx, dto.CreateGroupRequest{Name: "Motor", Definition: json.RawMessage(motorDef)})
	require.NoError(t, err)

	category, err = a.categories.Create(a.ctx, dto.CreateCategoryRequest{
		Name:       "Camión",
		Definition: json.RawMessage(`{"ejes":{"label":"Ejes","dataType":"number","defaultValue":2}}`),
		GroupIDs:   []string{group.ID},
	})
	require.NoError(t, err)

	model, err = a.models.Create(a.ctx, dto.CreateModelRequest{
		CategoryID: category.ID,
		Name:       "FH16",
		Definition: json.RawMessage(`{"potencia":{"label":"Potencia","dataType":"number","defaultValue":540}}`),
	})
	require.NoError(t, err)

	asset, err = a.assets.Create(a.ctx, dto.CreateAssetRequest{
		ModelID:         model.ID,
		Name:            "Camión 07",
		AcquisitionCost: decimal.NewFromInt(350000000),
		Definition:      json.RawMessage(`{"placa":"TSK-907"}`),
	})
	require.NoError(t, err)
	return group, category, model, asset
}

func TestGroupCreate_GuardaDefinicionCanonica(t *testing.T) {
	a := newApp(t)
	g, err := a.groups.Create(a.ctx, dto.CreateGroupRequest{Name: " Motor ", Definition: json.RawMessage(motorDef)})
	require.NoError(t, err)

	assert.Equal(t, "Motor", g.Name)
	assert.Equal(t, []string{"cilindrada", "potencia"}, keys(t, g.Definition))
	assert.NotContains(t, string(g.Definition), "tempKey")
}

func TestGroupCreate_Errores(t *testing.T) {
	a := newApp(t)
	_, err := a.groups.Create(a.ctx, dto.CreateGroupRequest{Name: "Motor"})
	require.NoError(t, err)

	_, err = a.groups.Create(a.ctx, dto.CreateGroupRequest{Name: "Motor"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	_, err = a.groups.Create(a.ctx, dto.CreateGroupRequest{Name: "  "})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = a.groups.Create(a.ctx, dto.CreateGroupRequest{Name: "Frenos", ParentID: "no-existe"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = a.groups.Create(a.ctx, dto.CreateGroupRequest{Name: "Frenos", Definition: json.RawMessage(`[1,2]`)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCreacion_SembradaDesdeElPadre(t *testing.T) {
	a := newApp(t)
	group, category, model, asset := a.flota(t)

	assert.Equal(t, []string{group.ID}, category.GroupIDs)
	assert.Equal(t, []string{"cilindrada", "ejes", "potencia"}, keys(t, category.Definition))
	assert.Equal(t, []string{"cilindrada", "ejes", "potencia"}, keys(t, model.Definition))
	assert.Equal(t, []string{"cilindrada", "ejes", "placa", "potencia"}, keys(t, asset.Definition))

	// El valor propio del modelo no se pisa con el default del grupo.
	potencia := schema.NormalizeJSON(asset.Definition)["potencia"].(map[string]any)
	assert.Equal(t, json.Number("540"), potencia["defaultValue"])
	assert.Equal(t, "TSK-907", schema.NormalizeJSON(asset.Definition)["placa"])
}

func TestGroupUpdate_PropagaYPodaConRemoveMissing(t *testing.T) {
	a := newApp(t)
	group, category, model, asset := a.flota(t)

	out, err := a.groups.Update(a.ctx, group.ID, dto.UpdateGroupRequest{
		Definition: json.RawMessage(`[{"id":"potencia","label":"Potencia","dataType":"number","defaultValue":400}]`),
	}, true)
	require.NoError(t, err)

	assert.Equal(t, []string{"potencia"}, keys(t, out.Group.Definition))
	assert.Equal(t, []string{category.ID}, out.Propagation.Categories)
	assert.Equal(t, []string{model.ID}, out.Propagation.Models)
	assert.Equal(t, []string{asset.ID}, out.Propagation.Assets)

	gotAsset, err := a.assets.GetByID(a.ctx, asset.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"ejes", "placa", "potencia"}, keys(t, gotAsset.Definition))

	gotCategory, err := a.categories.GetByID(a.ctx, category.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"ejes", "potencia"}, keys(t, gotCategory.Definition))
}

func TestGroupUpdate_SinRemoveMissingNoPoda(t *testing.T) {
	a := newApp(t)
	group, _, _, asset := a.flota(t)

	out, err := a.groups.Update(a.ctx, group.ID, dto.UpdateGroupRequest{
		Definition: json.RawMessage(`{"potencia":{"label":"Potencia","dataType":"number"},"torque":{"label":"Torque","dataType":"number"}}`),
	}, false)
	require.NoError(t, err)
	assert.Equal(t, []string{asset.ID}, out.Propagation.Assets)

	gotAsset, err := a.assets.GetByID(a.ctx, asset.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"cilindrada", "ejes", "placa", "potencia", "torque"}, keys(t, gotAsset.Definition))
}

func TestGroupUpdate_CicloDePadres(t *testing.T) {
	a := newApp(t)
	root, err := a.groups.Create(a.ctx, dto.CreateGroupRequest{Name: "Tren motriz"})
	require.NoError(t, err)
	child, err := a.groups.Create(a.ctx, dto.CreateGroupRequest{Name: "Motor", ParentID: root.ID})
	require.NoError(t, err)

	_, err = a.groups.Update(a.ctx, root.ID, dto.UpdateGroupRequest{ParentID: &child.ID}, false)
	assert.ErrorIs(t, err, domain.ErrConflict)

	self := root.ID
	_, err = a.groups.Update(a.ctx, root.ID, dto.UpdateGroupRequest{ParentID: &self}, false)
	assert.ErrorIs(t, err, domain.ErrConflict)

	got, err := a.groups.GetByID(a.ctx, root.ID)
	require.NoError(t, err)
	assert.Empty(t, got.ParentID)

	tree, err := a.groups.Subgroups(a.ctx, root.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{root.ID, child.ID}, tree.GroupIDs)
}

func TestGroupUpdate_NoExiste(t *testing.T) {
	a := newApp(t)
	_, err := a.groups.Update(a.ctx, "no-existe", dto.UpdateGroupRequest{}, false)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCategorySetGroups_GrupoInexistenteNoCambiaNada(t *testing.T) {
	a := newApp(t)
	group, category, _, _ := a.flota(t)

	_, err := a.categories.SetGroups(a.ctx, category.ID, dto.SetCategoryGroupsRequest{GroupIDs: []string{group.ID, "no-existe"}})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	got, err := a.categories.GetByID(a.ctx, category.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{group.ID}, got.GroupIDs)
}

func TestCategorySetGroups_FusionaYPropaga(t *testing.T) {
	a := newApp(t)
	group, category, model, asset := a.flota(t)
	frenos, err := a.groups.Create(a.ctx, dto.CreateGroupRequest{
		Name:       "Frenos",
		Definition: json.RawMessage(`[{"label":"Tipo de freno","dataType":"string","defaultValue":"aire"}]`),
	})
	require.NoError(t, err)

	out, err := a.categories.SetGroups(a.ctx, category.ID, dto.SetCategoryGroupsRequest{GroupIDs: []string{frenos.ID, group.ID, frenos.ID}})
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{group.ID, frenos.ID}, out.Category.GroupIDs)
	assert.Contains(t, keys(t, out.Category.Definition), "tipo_de_freno")
	assert.Equal(t, []string{model.ID}, out.Propagation.Models)
	assert.Equal(t, []string{asset.ID}, out.Propagation.Assets)
}

func TestModelUpdate_CambioDeCategoriaSiembraDefaults(t *testing.T) {
	a := newApp(t)
	_, _, model, asset := a.flota(t)
	bus, err := a.categories.Create(a.ctx, dto.CreateCategoryRequest{
		Name:       "Bus",
		Definition: json.RawMessage(`{"pasajeros":{"label":"Pasajeros","dataType":"number","defaultValue":40}}`),
	})
	require.NoError(t, err)

	out, err := a.models.Update(a.ctx, model.ID, dto.UpdateModelRequest{CategoryID: &bus.ID})
	require.NoError(t, err)

	assert.Equal(t, bus.ID, out.Model.CategoryID)
	assert.Contains(t, keys(t, out.Model.Definition), "pasajeros")
	assert.Equal(t, []string{asset.ID}, out.Propagation.Assets)

	gotAsset, err := a.assets.GetByID(a.ctx, asset.ID)
	require.NoError(t, err)
	assert.Contains(t, keys(t, gotAsset.Definition), "pasajeros")
}

func TestModelCreate_CategoriaInexistente(t *testing.T) {
	a := newApp(t)
	_, err := a.models.Create(a.ctx, dto.CreateModelRequest{CategoryID: "no-existe", Name: "FH16"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAsset_ComponentesYCiclos(t *testing.T) {
	a := newApp(t)
	_, _, model, truck := a.flota(t)

	engine, err := a.assets.Create(a.ctx, dto.CreateAssetRequest{ModelID: model.ID, ParentID: truck.ID, Name: "Motor D16"})
	require.NoError(t, err)

	components, err := a.assets.Components(a.ctx, truck.ID)
	require.NoError(t, err)
	require.Len(t, components.Items, 1)
	assert.Equal(t, engine.ID, components.Items[0].ID)

	// El camión no puede pasar a ser componente de su propio motor.
	_, err = a.assets.Update(a.ctx, truck.ID, dto.UpdateAssetRequest{ParentID: &engine.ID})
	assert.ErrorIs(t, err, domain.ErrConflict)

	assert.ErrorIs(t, a.assets.Delete(a.ctx, truck.ID), domain.ErrConflict)
	assert.ErrorIs(t, a.models.Delete(a.ctx, model.ID), domain.ErrConflict)

	neg := decimal.NewFromInt(-1)
	_, err = a.assets.Update(a.ctx, engine.ID, dto.UpdateAssetRequest{AcquisitionCost: &neg})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestPropagationUseCase(t *testing.T) {
	a := newApp(t)
	group, _, _, asset := a.flota(t)

	_, err := a.propagate.Propagate(a.ctx, "flota", group.ID, dto.PropagateRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidLevel)

	_, err = a.propagate.Propagate(a.ctx, "grupo", "no-existe", dto.PropagateRequest{})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// Sin cambios en la fuente la propagación no escribe nada.
	out, err := a.propagate.Propagate(a.ctx, "grupo", group.ID, dto.PropagateRequest{})
	require.NoError(t, err)
	assert.True(t, out.OK)
	assert.Empty(t, out.Assets)

	// oldDef con una clave que ya no está en el grupo: se poda.
	out, err = a.propagate.Propagate(a.ctx, "grupo", group.ID, dto.PropagateRequest{
		RemoveMissing: true,
		OldDef:        json.RawMessage(`{"placa":{"label":"Placa"}}`),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{asset.ID}, out.Assets)

	gotAsset, err := a.assets.GetByID(a.ctx, asset.ID)
	require.NoError(t, err)
	assert.NotContains(t, keys(t, gotAsset.Definition), "placa")
}
