package bootstrap

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Flota-api/internal/application/propagation"
	"github.com/jhoicas/Flota-api/internal/domain/entity"
	"github.com/jhoicas/Flota-api/pkg/config"
)

func TestOpen_MemoriaConRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := &config.Config{
		Storage:     config.StorageConfig{Driver: "memory"},
		Redis:       config.RedisConfig{Addr: mr.Addr(), Channel: "flota.test"},
		Propagation: config.PropagationConfig{Isolation: "serializable"},
	}
	ctx := context.Background()
	d, err := Open(ctx, cfg, zerolog.Nop())
	require.NoError(t, err)
	defer d.Close()
	require.NotNil(t, d.Notifier)
	require.NotNil(t, d.Users)

	require.NoError(t, d.Repos.Groups.Create(ctx, &entity.Group{ID: "g1", Name: "Motor", Definition: []byte(`{"potencia":{"label":"Potencia"}}`)}))
	require.NoError(t, d.Repos.Categories.Create(ctx, &entity.Category{ID: "c1", Name: "Camión", Definition: []byte(`{}`)}))
	require.NoError(t, d.Repos.Categories.SetGroups(ctx, "c1", []string{"g1"}))

	res, err := d.Propagation.Propagate(ctx, propagation.LevelGroup, "g1", propagation.Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"c1"}, res.Categories)

	items, err := mr.List("flota.test:historial")
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestOpen_RedisInalcanzable(t *testing.T) {
	cfg := &config.Config{
		Storage: config.StorageConfig{Driver: "memory"},
		Redis:   config.RedisConfig{Addr: "127.0.0.1:1", Channel: "flota.test"},
	}
	_, err := Open(context.Background(), cfg, zerolog.Nop())
	assert.Error(t, err)
}
