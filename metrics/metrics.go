package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	PutsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "diffbelt_puts_total",
		Help: "Number of records written, by collection",
	}, []string{"collection"})

	CommitsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "diffbelt_commits_total",
		Help: "Number of committed generations, by collection and kind (manual, auto)",
	}, []string{"collection", "kind"})

	AbortsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "diffbelt_aborts_total",
		Help: "Number of aborted generations, by collection",
	}, []string{"collection"})

	CursorPagesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "diffbelt_cursor_pages_total",
		Help: "Number of pages served, by cursor kind (query, diff)",
	}, []string{"kind"})

	OpenCursors = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "diffbelt_open_cursors",
		Help: "Cursors waiting to be read, by cursor kind",
	}, []string{"kind"})

	DumpDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "diffbelt_dump_duration_seconds",
		Help:    "Duration of full database dumps",
		Buckets: prometheus.ExponentialBuckets(0.001, 4, 10),
	})
)

// Forget drops the series of a deleted collection.
func Forget(collection string) {
	PutsTotal.DeleteLabelValues(collection)
	AbortsTotal.DeleteLabelValues(collection)
	CommitsTotal.DeletePartialMatch(prometheus.Labels{"collection": collection})
}
