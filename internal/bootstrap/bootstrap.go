// Package bootstrap arma la persistencia y el servicio de propagación según la configuración.
// Lo comparten el servidor HTTP y la CLI de propagación.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/jhoicas/Flota-api/internal/application/propagation"
	"github.com/jhoicas/Flota-api/internal/domain/repository"
	"github.com/jhoicas/Flota-api/internal/infrastructure/memory"
	"github.com/jhoicas/Flota-api/internal/infrastructure/postgres"
	infraredis "github.com/jhoicas/Flota-api/internal/infrastructure/redis"
	"github.com/jhoicas/Flota-api/pkg/config"
)

// Deps dependencias listas para construir casos de uso.
type Deps struct {
	// Repos repositorios fuera de transacción (lecturas y escrituras simples).
	Repos       propagation.Repos
	Users       repository.UserRepository
	TxRunner    propagation.TxRunner
	Propagation *propagation.Service
	// Notifier nil si Redis no está configurado.
	Notifier *infraredis.Notifier

	closers []func()
}

// Close libera conexiones en orden inverso de apertura.
func (d *Deps) Close() {
	for i := len(d.closers) - 1; i >= 0; i-- {
		d.closers[i]()
	}
}

// Open conecta la persistencia (postgres o memoria) y, si hay Redis configurado, el notifier.
func Open(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Deps, error) {
	d := &Deps{}

	switch cfg.Storage.Driver {
	case "memory":
		store := memory.NewStore()
		d.Repos = store.Repos()
		d.Users = store.UserRepository()
		d.TxRunner = store
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
		}
		d.closers = append(d.closers, pool.Close)
		d.Repos = propagation.Repos{
			Groups:     postgres.NewGroupRepository(pool),
			Categories: postgres.NewCategoryRepository(pool),
			Models:     postgres.NewModelRepository(pool),
			Assets:     postgres.NewAssetRepository(pool),
		}
		d.Users = postgres.NewUserRepository(pool)
		d.TxRunner = postgres.NewTxRunner(pool, postgres.ParseIsolation(cfg.Propagation.Isolation))
	}

	var notifier propagation.Notifier
	if cfg.Redis.Enabled() {
		n := infraredis.NewNotifier(infraredis.NewClient(cfg.Redis), cfg.Redis.Channel)
		if err := n.Ping(ctx); err != nil {
			d.Close()
			return nil, err
		}
		d.closers = append(d.closers, func() { _ = n.Close() })
		notifier = n
		d.Notifier = n
		log.Info().Str("canal", cfg.Redis.Channel).Msg("eventos de propagación en Redis")
	}

	d.Propagation = propagation.NewService(d.TxRunner, notifier, log.With().Str("componente", "propagacion").Logger())
	return d, nil
}
