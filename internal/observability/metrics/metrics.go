package metrics

import "github.com/prometheus/client_golang/prometheus"

// ConversationMetrics exposes counters/histograms for the chat engine.
type ConversationMetrics struct {
	messagesTotal *prometheus.CounterVec
	fallbackTotal *prometheus.CounterVec
	leadSaves     *prometheus.CounterVec
	turnLatency   *prometheus.HistogramVec
}

func NewConversationMetrics(reg prometheus.Registerer) *ConversationMetrics {
	m := &ConversationMetrics{
		messagesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dental",
			Subsystem: "conversation",
			Name:      "messages_total",
			Help:      "Total visitor messages processed, by classified intent",
		}, []string{"intent"}),
		fallbackTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dental",
			Subsystem: "conversation",
			Name:      "fallback_total",
			Help:      "Generative fallback invocations, by outcome",
		}, []string{"outcome"}),
		leadSaves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dental",
			Subsystem: "leads",
			Name:      "saves_total",
			Help:      "Lead save attempts, by result",
		}, []string{"result"}),
		turnLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "dental",
			Subsystem: "conversation",
			Name:      "turn_latency_seconds",
			Help:      "Latency of a full message turn",
			Buckets:   prometheus.DefBuckets,
		}, []string{"intent"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.messagesTotal, m.fallbackTotal, m.leadSaves, m.turnLatency)
	return m
}

func (m *ConversationMetrics) ObserveMessage(intent string) {
	if m == nil {
		return
	}
	m.messagesTotal.WithLabelValues(intent).Inc()
}

func (m *ConversationMetrics) ObserveFallback(outcome string) {
	if m == nil {
		return
	}
	m.fallbackTotal.WithLabelValues(outcome).Inc()
}

func (m *ConversationMetrics) ObserveLeadSave(result string) {
	if m == nil {
		return
	}
	m.leadSaves.WithLabelValues(result).Inc()
}

func (m *ConversationMetrics) ObserveTurnLatency(intent string, seconds float64) {
	if m == nil {
		return
	}
	m.turnLatency.WithLabelValues(intent).Observe(seconds)
}
