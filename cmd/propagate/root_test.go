package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Flota-api/internal/application/dto"
	"github.com/jhoicas/Flota-api/internal/application/propagation"
	"github.com/jhoicas/Flota-api/internal/application/usecase"
	"github.com/jhoicas/Flota-api/internal/domain"
	"github.com/jhoicas/Flota-api/internal/domain/entity"
	"github.com/jhoicas/Flota-api/internal/domain/schema"
	"github.com/jhoicas/Flota-api/internal/infrastructure/memory"
)

type fakeHistory []propagation.Event

func (f fakeHistory) Recent(_ context.Context, limit int) ([]propagation.Event, error) {
	if limit < len(f) {
		return f[:limit], nil
	}
	return f, nil
}

func seededStore(t *testing.T) *memory.Store {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	r := store.Repos()
	require.NoError(t, r.Groups.Create(ctx, &entity.Group{ID: "g-motor", Name: "Motor", Definition: []byte(`{"potencia":{"label":"Potencia"}}`)}))
	require.NoError(t, r.Categories.Create(ctx, &entity.Category{ID: "c-camion", Name: "Camión", Definition: []byte(`{"potencia":{"label":"Potencia"},"cilindrada":{"label":"Cilindrada"}}`)}))
	require.NoError(t, r.Categories.SetGroups(ctx, "c-camion", []string{"g-motor"}))
	return store
}

func run(t *testing.T, store *memory.Store, hist history, args ...string) (string, error) {
	t.Helper()
	svc := propagation.NewService(store, nil, zerolog.Nop())
	open := func(context.Context) (*usecase.PropagationUseCase, history, func(), error) {
		return usecase.NewPropagationUseCase(svc), hist, func() {}, nil
	}
	cmd := newRootCmd(open)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestPropagate_ConOldDefPoda(t *testing.T) {
	store := seededStore(t)
	oldDef := filepath.Join(t.TempDir(), "motor.json")
	require.NoError(t, os.WriteFile(oldDef, []byte(`[{"id":"potencia","label":"Potencia"},{"id":"cilindrada","label":"Cilindrada"}]`), 0o600))

	out, err := run(t, store, nil, "grupo", "g-motor", "--remove-missing", "--old-def", oldDef)
	require.NoError(t, err)

	var res dto.PropagationResponse
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	want := dto.PropagationResponse{OK: true, Level: "grupo", SourceID: "g-motor", Categories: []string{"c-camion"}, Models: []string{}, Assets: []string{}}
	if diff := cmp.Diff(want, res); diff != "" {
		t.Fatalf("resultado (-want +got):\n%s", diff)
	}

	c, err := store.Repos().Categories.GetByID(context.Background(), "c-camion")
	require.NoError(t, err)
	assert.Equal(t, []string{"potencia"}, schema.NormalizeJSON(c.Definition).Keys().Sorted())
}

func TestPropagate_Errores(t *testing.T) {
	store := seededStore(t)

	_, err := run(t, store, nil, "grupo")
	assert.Error(t, err)

	_, err = run(t, store, nil, "flota", "g-motor")
	assert.ErrorIs(t, err, domain.ErrInvalidLevel)

	_, err = run(t, store, nil, "modelo", "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = run(t, store, nil, "grupo", "g-motor", "--old-def", filepath.Join(t.TempDir(), "no-existe.json"))
	assert.Error(t, err)
}

func TestHistorial(t *testing.T) {
	store := seededStore(t)
	hist := fakeHistory{
		{Level: propagation.LevelGroup, SourceID: "g-motor"},
		{Level: propagation.LevelModel, SourceID: "m-fh16"},
	}

	out, err := run(t, store, hist, "historial", "--limit", "1")
	require.NoError(t, err)
	var events []propagation.Event
	require.NoError(t, json.Unmarshal([]byte(out), &events))
	require.Len(t, events, 1)
	assert.Equal(t, "g-motor", events[0].SourceID)

	_, err = run(t, store, nil, "historial")
	assert.Error(t, err)
}
