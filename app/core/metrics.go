package core

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/knova-ai/knova/pkg/metrics"
)

type Metrics struct {
	apiResponseTime *prometheus.HistogramVec
	apiErrorCounter *prometheus.CounterVec
	turnDuration    *prometheus.HistogramVec
	turnCounter     *prometheus.CounterVec
	retrievalTime   *prometheus.HistogramVec
}

func NewMetrics(ns, system string) *Metrics {
	metrics.SetupMetricsManager(ns, system, prometheus.DefaultRegisterer.(*prometheus.Registry))

	m := &Metrics{
		apiResponseTime: metrics.NewHistogramVec("api_response_time", []string{"api"}),
		apiErrorCounter: metrics.NewCounterVec("api_error", []string{"method", "api", "status"}),
		turnDuration:    metrics.NewHistogramVec("chat_turn_duration", nil),
		turnCounter:     metrics.NewCounterVec("chat_turn_total", []string{"outcome"}),
		retrievalTime:   metrics.NewHistogramVec("retrieval_time", nil),
	}

	return m
}

func (m *Metrics) ApiErrorInc(method, api string, status int) {
	m.apiErrorCounter.WithLabelValues(method, api, strconv.Itoa(status)).Inc()
}

func (m *Metrics) ApiResponseTimer(api string) *prometheus.Timer {
	return prometheus.NewTimer(m.apiResponseTime.WithLabelValues(api))
}

func (m *Metrics) TurnTimer() *prometheus.Timer {
	return prometheus.NewTimer(m.turnDuration.WithLabelValues())
}

// TurnOutcomeInc labels: done, failed, abandoned.
func (m *Metrics) TurnOutcomeInc(outcome string) {
	m.turnCounter.WithLabelValues(outcome).Inc()
}

func (m *Metrics) RetrievalTimer() *prometheus.Timer {
	return prometheus.NewTimer(m.retrievalTime.WithLabelValues())
}
