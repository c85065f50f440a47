package modules

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var moduleEvents = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "module_events_total",
	Help: "The number of events produced by world modules.",
}, []string{"world", "module", "event"})

// InstrumentEvent counts an event produced by a module.
func InstrumentEvent(world, module, event string) {
	moduleEvents.WithLabelValues(world, module, event).Inc()
}
