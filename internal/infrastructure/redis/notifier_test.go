package redis_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Flota-api/internal/application/propagation"
	"github.com/jhoicas/Flota-api/internal/infrastructure/redis"
	"github.com/jhoicas/Flota-api/pkg/config"
)

func newNotifier(t *testing.T) (*redis.Notifier, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(config.RedisConfig{Addr: mr.Addr()})
	n := redis.NewNotifier(client, "flota.propagaciones")
	t.Cleanup(func() { _ = n.Close() })
	return n, mr
}

func TestNotifier_PublicaEnCanal(t *testing.T) {
	n, mr := newNotifier(t)
	ctx := context.Background()
	require.NoError(t, n.Ping(ctx))

	sub := goredis.NewClient(&goredis.Options{Addr: mr.Addr()}).Subscribe(ctx, "flota.propagaciones")
	defer sub.Close()
	_, err := sub.Receive(ctx) // confirmación de suscripción
	require.NoError(t, err)

	ev := propagation.Event{
		Level:      propagation.LevelGroup,
		SourceID:   "g-motor",
		Categories: []string{"c-camion"},
		Models:     []string{"m-fh16"},
		At:         time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	require.NoError(t, n.Publish(ctx, ev))

	select {
	case msg := <-sub.Channel():
		var got propagation.Event
		require.NoError(t, json.Unmarshal([]byte(msg.Payload), &got))
		assert.Equal(t, ev, got)
	case <-time.After(2 * time.Second):
		t.Fatal("no llegó el evento")
	}
}

func TestNotifier_HistorialAcotado(t *testing.T) {
	n, mr := newNotifier(t)
	ctx := context.Background()

	for i := 0; i < 105; i++ {
		require.NoError(t, n.Publish(ctx, propagation.Event{Level: propagation.LevelModel, SourceID: string(rune('a' + i%26))}))
	}
	items, err := mr.List(n.HistoryKey())
	require.NoError(t, err)
	assert.Len(t, items, 100)

	recent, err := n.Recent(ctx, 3)
	require.NoError(t, err)
	require.Len(t, recent, 3)
	// El último publicado (i=104 -> 'a'+0) va primero.
	assert.Equal(t, "a", recent[0].SourceID)
}

func TestNotifier_ErrorSiRedisFalla(t *testing.T) {
	n, mr := newNotifier(t)
	mr.SetError("ERR redis no disponible")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	done := make(chan error, 1)
	go func() {
		done <- n.Publish(ctx, propagation.Event{Level: propagation.LevelGroup, SourceID: "g"})
	}()

	select {
	case err := <-done:
		require.Error(t, err)
		assert.Contains(t, err.Error(), "redis no disponible")
	case <-time.After(6 * time.Second):
		t.Fatal("Publish no retornó con Redis respondiendo errores")
	}
}

func TestNotifier_ErrorSiRedisCaido(t *testing.T) {
	n, mr := newNotifier(t)
	mr.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	done := make(chan error, 1)
	go func() {
		done <- n.Publish(ctx, propagation.Event{Level: propagation.LevelGroup, SourceID: "g"})
	}()

	select {
	case err := <-done:
		assert.Error(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("Publish no retornó con Redis caído")
	}
}
