package spatial

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	treeLabel = "tree"
)

var (
	splitCount = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "spatial_splits_total",
		Help: "The total number of spatial tree node splits.",
	}, []string{treeLabel})

	mergeCount = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "spatial_merges_total",
		Help: "The total number of spatial tree node merges.",
	}, []string{treeLabel})

	staleReferenceCount = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "spatial_stale_references_total",
		Help: "The total number of stale entity references recovered by a search.",
	}, []string{treeLabel})

	outOfBoundsCount = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "spatial_out_of_bounds_total",
		Help: "The total number of entities stored outside of the world bounds.",
	}, []string{treeLabel})
)

func instrumentSplit(tree string) {
	splitCount.
		With(prometheus.Labels{treeLabel: tree}).
		Inc()
}

func instrumentMerge(tree string) {
	mergeCount.
		With(prometheus.Labels{treeLabel: tree}).
		Inc()
}

func instrumentStaleReference(tree string) {
	staleReferenceCount.
		With(prometheus.Labels{treeLabel: tree}).
		Inc()
}

func instrumentOutOfBounds(tree string) {
	outOfBoundsCount.
		With(prometheus.Labels{treeLabel: tree}).
		Inc()
}
