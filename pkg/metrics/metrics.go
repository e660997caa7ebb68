package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	PropagationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "schema_propagations_total",
			Help: "Total de propagaciones de esquema por nivel y resultado",
		},
		[]string{"nivel", "resultado"},
	)

	PropagationRecordsWritten = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "schema_propagation_records_written_total",
			Help: "Registros reescritos por propagaciones confirmadas",
		},
		[]string{"entidad"},
	)

	PropagationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "schema_propagation_duration_seconds",
			Help:    "Duración de una propagación completa (incluye la transacción)",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"nivel"},
	)
)
