package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry — метрики загрузки данных. Отдельный реестр вместо глобального,
// чтобы тесты могли создавать независимые экземпляры.
type Registry struct {
	reg *prometheus.Registry

	RunsTotal            *prometheus.CounterVec
	RowsLoaded           *prometheus.CounterVec
	UnmatchedDescriptors *prometheus.CounterVec
	RunDuration          prometheus.Histogram
}

// NewRegistry создаёт реестр метрик ETL.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	runs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "etl_runs_total",
		Help: "Completed ETL runs by outcome.",
	}, []string{"status"})

	rows := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "etl_rows_loaded_total",
		Help: "Rows loaded into each target table.",
	}, []string{"table"})

	// Отброшенные при линковке записи нигде больше не видны: это
	// единственный сигнал о расхождении описателей между источниками.
	unmatched := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "etl_unmatched_descriptors_total",
		Help: "Document rows dropped because their product descriptor has no catalog match.",
	}, []string{"document"})

	duration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "etl_run_duration_seconds",
		Help:    "Wall time of a full ETL run.",
		Buckets: prometheus.DefBuckets,
	})

	reg.MustRegister(runs, rows, unmatched, duration)
	return &Registry{
		reg:                  reg,
		RunsTotal:            runs,
		RowsLoaded:           rows,
		UnmatchedDescriptors: unmatched,
		RunDuration:          duration,
	}
}

// Handler возвращает HTTP-обработчик выдачи метрик.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}
