package propagation

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/Flota-api/pkg/metrics"
)

// publishTimeout tope para publicar el evento tras el commit; la propagación ya está confirmada.
const publishTimeout = 3 * time.Second

// ChangeFunc modifica la fuente dentro de la misma transacción que la propagación y devuelve las
// opciones con las que propagar (típicamente con OldDef capturado antes de escribir).
type ChangeFunc func(ctx context.Context, repos Repos) (Options, error)

// Service punto de entrada público de la propagación: una llamada, una transacción.
type Service struct {
	txRunner TxRunner
	orch     *Orchestrator
	notifier Notifier
	log      zerolog.Logger
}

// NewService construye el servicio. notifier puede ser nil.
func NewService(txRunner TxRunner, notifier Notifier, log zerolog.Logger) *Service {
	return &Service{
		txRunner: txRunner,
		orch:     NewOrchestrator(log),
		notifier: notifier,
		log:      log,
	}
}

// Propagate recalcula todo lo que depende de (level, id) dentro de una transacción.
func (s *Service) Propagate(ctx context.Context, level Level, id string, opts Options) (*Result, error) {
	return s.ChangeAndPropagate(ctx, level, id, func(context.Context, Repos) (Options, error) {
		return opts, nil
	})
}

// ChangeAndPropagate ejecuta change y luego la propagación en la misma transacción; si cualquiera
// de los dos falla no se confirma nada. Tras el commit publica el evento en el notifier.
func (s *Service) ChangeAndPropagate(ctx context.Context, level Level, id string, change ChangeFunc) (*Result, error) {
	start := time.Now()
	var res *Result
	err := s.txRunner.Run(ctx, func(repos Repos) error {
		opts, err := change(ctx, repos)
		if err != nil {
			return err
		}
		res, err = s.orch.PropagateFrom(ctx, repos, level, id, opts)
		return err
	})
	metrics.PropagationDuration.WithLabelValues(string(level)).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.PropagationsTotal.WithLabelValues(string(level), "error").Inc()
		s.log.Error().Err(err).Str("nivel", string(level)).Str("id", id).Msg("propagación fallida, transacción revertida")
		return nil, err
	}
	metrics.PropagationsTotal.WithLabelValues(string(level), "ok").Inc()
	metrics.PropagationRecordsWritten.WithLabelValues("categoria").Add(float64(len(res.Categories)))
	metrics.PropagationRecordsWritten.WithLabelValues("modelo").Add(float64(len(res.Models)))
	metrics.PropagationRecordsWritten.WithLabelValues("activo").Add(float64(len(res.Assets)))

	s.log.Info().
		Str("nivel", string(level)).
		Str("id", id).
		Int("categorias", len(res.Categories)).
		Int("modelos", len(res.Models)).
		Int("activos", len(res.Assets)).
		Dur("duracion", time.Since(start)).
		Msg("propagación completada")

	if s.notifier != nil && res.Written() > 0 {
		event := Event{
			Level:      level,
			SourceID:   id,
			Categories: res.Categories,
			Models:     res.Models,
			Assets:     res.Assets,
			At:         time.Now().UTC(),
		}
		pubCtx, cancel := context.WithTimeout(ctx, publishTimeout)
		err := s.notifier.Publish(pubCtx, event)
		cancel()
		if err != nil {
			s.log.Warn().Err(err).Str("nivel", string(level)).Str("id", id).Msg("no se pudo publicar el evento de propagación")
		}
	}
	return res, nil
}
