// Package redis publica los eventos de propagación confirmados en un canal de Redis.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/Flota-api/internal/application/propagation"
	"github.com/jhoicas/Flota-api/pkg/config"
)

var _ propagation.Notifier = (*Notifier)(nil)

// historyLimit cantidad de eventos recientes que se conservan en la lista de historial.
const historyLimit = 100

// Notifier publica cada propagación en Channel y la guarda en una lista acotada (Channel + ":historial").
type Notifier struct {
	client  *redis.Client
	channel string
}

// NewClient crea el cliente de Redis a partir de la configuración.
func NewClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
}

// NewNotifier construye el notifier sobre un cliente ya creado.
func NewNotifier(client *redis.Client, channel string) *Notifier {
	return &Notifier{client: client, channel: channel}
}

// Ping verifica la conexión.
func (n *Notifier) Ping(ctx context.Context) error {
	if err := n.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}

// Publish serializa el evento, lo publica y lo agrega al historial.
// Los tres comandos van en un pipeline simple: no requieren MULTI/EXEC.
func (n *Notifier) Publish(ctx context.Context, event propagation.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("serializar evento: %w", err)
	}
	pipe := n.client.Pipeline()
	pipe.Publish(ctx, n.channel, payload)
	pipe.LPush(ctx, n.HistoryKey(), payload)
	pipe.LTrim(ctx, n.HistoryKey(), 0, historyLimit-1)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("publicar evento en %s: %w", n.channel, err)
	}
	return nil
}

// Recent devuelve hasta limit eventos, del más reciente al más antiguo.
func (n *Notifier) Recent(ctx context.Context, limit int) ([]propagation.Event, error) {
	if limit <= 0 || limit > historyLimit {
		limit = historyLimit
	}
	raw, err := n.client.LRange(ctx, n.HistoryKey(), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("leer historial: %w", err)
	}
	out := make([]propagation.Event, 0, len(raw))
	for _, item := range raw {
		var ev propagation.Event
		if err := json.Unmarshal([]byte(item), &ev); err != nil {
			continue
		}
		out = append(out, ev)
	}
	return out, nil
}

// HistoryKey clave de la lista de historial.
func (n *Notifier) HistoryKey() string {
	return n.channel + ":historial"
}

// Close cierra el cliente.
func (n *Notifier) Close() error {
	return n.client.Close()
}
