// Package metrics defines the Prometheus collectors shared by the library
// and the CLI.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Layer sources for LayerLoads.
const (
	SourceMemory  = "memory"
	SourceDisk    = "disk"
	SourceNetwork = "network"
)

var (
	// Rendering
	RendersTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "cartomap",
		Subsystem: "render",
		Name:      "renders_total",
		Help:      "Total map renders by projection and outcome",
	}, []string{"projection", "status"})

	RenderDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "cartomap",
		Subsystem: "render",
		Name:      "duration_seconds",
		Help:      "Map render latency in seconds",
		Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
	}, []string{"projection"})

	OverlaysDrawn = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "cartomap",
		Subsystem: "render",
		Name:      "overlays_drawn_total",
		Help:      "Total feature overlays drawn by category",
	}, []string{"category"})

	// Feature data
	LayerLoads = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "cartomap",
		Subsystem: "naturalearth",
		Name:      "layer_loads_total",
		Help:      "Layer lookups by the tier that served them",
	}, []string{"source"})

	DownloadBytes = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "cartomap",
		Subsystem: "naturalearth",
		Name:      "download_bytes_total",
		Help:      "Bytes downloaded from the Natural Earth mirror",
	})

	DownloadErrors = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "cartomap",
		Subsystem: "naturalearth",
		Name:      "download_errors_total",
		Help:      "Failed dataset downloads",
	})
)

// WriteTextfile writes every registered metric to path in the Prometheus
// text format, for node_exporter's textfile collector.
func WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, prometheus.DefaultGatherer)
}
