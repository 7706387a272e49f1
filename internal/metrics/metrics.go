package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RendersTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "trackviz",
		Subsystem: "render",
		Name:      "total",
		Help:      "Render calls by renderer and outcome",
	}, []string{"renderer", "outcome"})

	LayersDrawn = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "trackviz",
		Subsystem: "render",
		Name:      "layers_total",
		Help:      "Layers added to drawing surfaces by kind",
	}, []string{"kind"})

	BasemapFetchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "trackviz",
		Subsystem: "basemap",
		Name:      "fetch_duration_seconds",
		Help:      "Street network fetch latency by source",
		Buckets:   []float64{0.01, 0.1, 0.5, 1, 2, 5, 10, 30, 60},
	}, []string{"source"})

	BasemapCache = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "trackviz",
		Subsystem: "basemap",
		Name:      "cache_total",
		Help:      "Basemap cache lookups by result",
	}, []string{"result"})
)

// ObserveRender counts one finished render call.
func ObserveRender(renderer string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	RendersTotal.WithLabelValues(renderer, outcome).Inc()
}

// ObserveFetch records a basemap fetch that started at start.
func ObserveFetch(source string, start time.Time) {
	BasemapFetchDuration.WithLabelValues(source).Observe(time.Since(start).Seconds())
}

// WriteTextfile dumps the default registry in the text exposition format,
// for the node_exporter textfile collector.
func WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, prometheus.DefaultGatherer)
}
