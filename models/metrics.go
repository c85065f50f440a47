package models

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	worldLabel = "world"
)

var (
	worldCount = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "world_count",
		Help: "The number of worlds.",
	}, []string{worldLabel})

	worldFrames = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "world_frames_total",
		Help: "The total number of executed frames.",
	}, []string{worldLabel})

	worldFrameDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "world_frame_duration_seconds",
		Help:    "The time spent executing a frame.",
		Buckets: prometheus.ExponentialBuckets(0.00005, 2, 14),
	}, []string{worldLabel})

	worldEntities = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "world_entities",
		Help: "The number of entities in a world at the end of the last frame.",
	}, []string{worldLabel})

	worldCollisionPairs = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "world_collision_pairs_total",
		Help: "The total number of colliding pairs reported to behaviors.",
	}, []string{worldLabel})

	worldDeadSwept = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "world_dead_swept_total",
		Help: "The total number of dead entities removed from worlds.",
	}, []string{worldLabel})

	worldInvariantViolations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "world_invariant_violations_total",
		Help: "The total number of frames that ended with an invalid spatial tree.",
	}, []string{worldLabel})
)

func instrumentIncreaseWorldGauge(world string) {
	worldCount.
		With(prometheus.Labels{worldLabel: world}).
		Inc()
}

func instrumentDecreaseWorldGauge(world string) {
	worldCount.
		With(prometheus.Labels{worldLabel: world}).
		Dec()
}

func instrumentFrame(world string, r FrameReport) {
	labels := prometheus.Labels{worldLabel: world}

	worldFrames.With(labels).Inc()
	worldFrameDuration.With(labels).Observe(r.Duration.Seconds())
	worldEntities.With(labels).Set(float64(r.Entities))
	worldCollisionPairs.With(labels).Add(float64(r.Pairs))
	worldDeadSwept.With(labels).Add(float64(r.Swept))
}

func instrumentInvariantViolation(world string) {
	worldInvariantViolations.
		With(prometheus.Labels{worldLabel: world}).
		Inc()
}
