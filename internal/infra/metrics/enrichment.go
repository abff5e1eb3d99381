package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(enrichmentTotal, enrichmentSkipped) }

var enrichmentTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "lesson_enrichment_total",
		Help: "Lesson video enrichment attempts, labeled by outcome.",
	},
	[]string{"outcome"}, // 'completed', 'failed'
)

var enrichmentSkipped = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "lesson_enrichment_skipped_total",
		Help: "Enrichment triggers skipped because a job was already in flight.",
	},
)

func IncEnrichment(outcome string) {
	enrichmentTotal.WithLabelValues(norm(outcome)).Inc()
}

func IncEnrichmentSkipped() {
	enrichmentSkipped.Inc()
}
