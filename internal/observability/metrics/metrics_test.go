package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestConversationMetricsObserve(t *testing.T) {
	m := NewConversationMetrics(prometheus.NewRegistry())
	m.ObserveMessage("GREETING")
	m.ObserveFallback("success")
	m.ObserveLeadSave("created")
	m.ObserveTurnLatency("GREETING", 0.05)
}

func TestConversationMetricsCustomRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewConversationMetrics(reg)
	m.ObserveLeadSave("updated")
}

func TestConversationMetricsNilSafe(t *testing.T) {
	var m *ConversationMetrics
	m.ObserveMessage("UNKNOWN")
	m.ObserveFallback("error")
	m.ObserveLeadSave("failed")
	m.ObserveTurnLatency("UNKNOWN", 0.1)
}
