package metrics

import (
	"github.com/ClipFinance/rwa-bridge/common/types"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Transfer lifecycle metrics, partitioned by route.

var (
	TransferEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "rwa_bridge",
		Subsystem: "transfers",
		Name:      "events_total",
		Help:      "Total transfer lifecycle events",
	}, []string{"event", "source", "target"})

	TransfersPending = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "rwa_bridge",
		Subsystem: "transfers",
		Name:      "pending",
		Help:      "Transfers initiated and not yet completed, failed or cancelled",
	}, []string{"source", "target"})

	TransferCompletionSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "rwa_bridge",
		Subsystem: "transfers",
		Name:      "completion_seconds",
		Help:      "Time from lock to mint for completed transfers",
		Buckets:   []float64{30, 60, 120, 180, 240, 300, 600, 900, 1200, 1800, 3600},
	}, []string{"source", "target"})
)

// Observe updates the transfer metrics. It is registered as an engine event listener.
func Observe(event types.Event) {
	t := event.Transfer
	source, target := t.SourceChainID.String(), t.TargetChainID.String()

	TransferEventsTotal.WithLabelValues(string(event.Type), source, target).Inc()

	switch event.Type {
	case types.EventBridgeInitiated:
		TransfersPending.WithLabelValues(source, target).Inc()
	case types.EventBridgeCompleted:
		TransfersPending.WithLabelValues(source, target).Dec()
		if t.CompletedAt != nil {
			TransferCompletionSeconds.WithLabelValues(source, target).Observe(t.CompletedAt.Sub(t.CreatedAt).Seconds())
		}
	case types.EventBridgeFailed, types.EventBridgeCancelled:
		TransfersPending.WithLabelValues(source, target).Dec()
	}
}
