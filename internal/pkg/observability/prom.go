package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"poligrama.dev/backend/internal/constant"
)

const (
	ServiceName = constant.ServiceName
)

var (
	RenderDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    prometheus.BuildFQName(ServiceName, "chart", "render_duration_seconds"),
		Help:    "Duration of chart rendering in seconds, from data load to SVG",
		Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
	}, []string{"chart_type", "mode"})
	RenderTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: prometheus.BuildFQName(ServiceName, "chart", "render_total"),
		Help: "Rendered charts by outcome: ok, placeholder, cached or error",
	}, []string{"chart_type", "outcome"})
	GridLoadDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    prometheus.BuildFQName(ServiceName, "sheet", "grid_load_duration_seconds"),
		Help:    "Duration of loading a sheet grid from its workbook in seconds",
		Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
	}, []string{"cached"})
	QueueSize = promauto.NewGauge(prometheus.GaugeOpts{
		Name: prometheus.BuildFQName(ServiceName, "queue", "size"),
		Help: "Live charts in the export queue as of the last read",
	})
	ExportDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    prometheus.BuildFQName(ServiceName, "export", "duration_seconds"),
		Help:    "Duration of building and delivering an export archive in seconds",
		Buckets: prometheus.ExponentialBuckets(0.01, 2, 10),
	}, []string{"sink"})
)
