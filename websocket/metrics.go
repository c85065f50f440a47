package websocket

import (
	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	worldLabel   = "world"
	errTypeLabel = "error_type"
)

var (
	wsConnectedClients = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "ws_connected_clients",
		Help: "The number of connected debug stream clients.",
	}, []string{worldLabel})

	wsSentSnapshots = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ws_sent_snapshots",
		Help: "The number of world snapshots sent to debug stream clients.",
	}, []string{worldLabel})

	wsDroppedSnapshots = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ws_dropped_snapshots",
		Help: "The number of world snapshots dropped because a client did not keep up.",
	}, []string{worldLabel})

	wsSendError = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ws_send_errors",
		Help: "The errors that occured while sending a websocket message.",
	}, []string{worldLabel, errTypeLabel})
)

func instrumentConnect(world string) {
	wsConnectedClients.WithLabelValues(world).Inc()
}

func instrumentDisconnect(world string) {
	wsConnectedClients.WithLabelValues(world).Dec()
}

func instrumentSentSnapshot(world string) {
	wsSentSnapshots.WithLabelValues(world).Inc()
}

func instrumentDroppedSnapshot(world string) {
	wsDroppedSnapshots.WithLabelValues(world).Inc()
}

func instrumentSendError(world string, err error) {
	wsSendError.With(prometheus.Labels{
		worldLabel:   world,
		errTypeLabel: errors.Type(err),
	}).Inc()
}
