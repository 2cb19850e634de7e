package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HAAPICallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fishdash_ha_api_calls_total",
			Help: "Total Home Assistant REST API calls",
		},
		[]string{"entity", "status"},
	)

	HAAPILatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fishdash_ha_api_latency_seconds",
			Help:    "Home Assistant API call latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"entity"},
	)

	SnapshotsIngested = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fishdash_snapshots_ingested_total",
			Help: "Total entity snapshots successfully ingested",
		},
		[]string{"entity", "source"},
	)

	CardRenders = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fishdash_card_renders_total",
			Help: "Total card render invocations",
		},
		[]string{"card"},
	)

	RenderLatency = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "fishdash_card_render_seconds",
			Help:    "Card render latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	ForecastShapes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fishdash_forecast_shapes_total",
			Help: "Forecast payload shapes seen by the normalizer",
		},
		[]string{"shape"},
	)

	BannerGenerations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fishdash_banner_generations_total",
			Help: "Condition banner image generations",
		},
		[]string{"status"},
	)
)
