package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Flota-api/internal/application/propagation"
	"github.com/jhoicas/Flota-api/internal/application/usecase"
	"github.com/jhoicas/Flota-api/internal/domain/schema"
	"github.com/jhoicas/Flota-api/internal/infrastructure/memory"
)

func newSeeder(store *memory.Store) *seeder {
	repos := store.Repos()
	svc := propagation.NewService(store, nil, zerolog.Nop())
	return &seeder{
		groups:     usecase.NewGroupUseCase(repos.Groups, svc),
		categories: usecase.NewCategoryUseCase(repos, store, svc),
		models:     usecase.NewModelUseCase(repos, store, svc),
	}
}

func runSeed(t *testing.T, store *memory.Store, args ...string) (summary, error) {
	t.Helper()
	cmd := newRootCmd(func(context.Context) (*seeder, func(), error) {
		return newSeeder(store), func() {}, nil
	})
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs(args)
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		return summary{}, err
	}
	var sum summary
	require.NoError(t, json.Unmarshal(out.Bytes(), &sum))
	return sum, nil
}

func TestSeed_CatalogoDemo(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	sum, err := runSeed(t, store)
	require.NoError(t, err)
	assert.Equal(t, summary{Groups: 3, Categories: 2, Models: 3}, sum)

	// el modelo hereda la definición de la categoría, que compone sus grupos
	models, err := store.Repos().Models.List(ctx, 10, 0)
	require.NoError(t, err)
	var citaro []byte
	for _, m := range models {
		if m.Name == "Citaro" {
			citaro = m.Schema()
		}
	}
	require.NotNil(t, citaro)
	assert.Equal(t,
		[]string{"capacidad_carga", "dimensiones", "ejes", "norma_emisiones", "pasajeros"},
		schema.NormalizeJSON(citaro).Keys().Sorted())

	again, err := runSeed(t, store)
	require.NoError(t, err)
	assert.Equal(t, summary{Skipped: 8}, again)
}

func TestSeed_Errores(t *testing.T) {
	store := memory.NewStore()
	dir := t.TempDir()

	bad := filepath.Join(dir, "huerfano.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"grupos":[{"nombre":"Hijo","parent":"Nadie"}]}`), 0o600))
	_, err := runSeed(t, store, bad)
	assert.ErrorContains(t, err, "Nadie")

	unknown := filepath.Join(dir, "categoria.json")
	require.NoError(t, os.WriteFile(unknown, []byte(`{"modelos":[{"nombre":"X","categoria":"Tractor"}]}`), 0o600))
	_, err = runSeed(t, store, unknown)
	assert.ErrorContains(t, err, "Tractor")

	broken := filepath.Join(dir, "roto.json")
	require.NoError(t, os.WriteFile(broken, []byte(`{`), 0o600))
	_, err = runSeed(t, store, broken)
	assert.Error(t, err)

	_, err = runSeed(t, store, filepath.Join(dir, "no-existe.json"))
	assert.Error(t, err)
}
