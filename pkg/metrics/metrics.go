package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRegistry creates a registry with the Go runtime and process collectors
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
}

// Metrics holds the controller counters. A nil *Metrics is valid and records nothing.
type Metrics struct {
	BusTransactions *prometheus.CounterVec // labels: result=ok|empty|error
	BridgeRequests  *prometheus.CounterVec // labels: result
	TriggerEvents   *prometheus.CounterVec // labels: result=played|skipped|error
	WatchdogFeeds   *prometheus.CounterVec // labels: result=ok|error
	TaskSteps       *prometheus.CounterVec // labels: task, result=ok|error
}

func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		BusTransactions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "audio_bus_transactions_total",
			Help: "Send/receive transactions on the audio module bus.",
		}, []string{"result"}),
		BridgeRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "weight_bridge_requests_total",
			Help: "Inbound frames on the weight bridge by outcome.",
		}, []string{"result"}),
		TriggerEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "play_trigger_events_total",
			Help: "Handled play trigger edges by outcome.",
		}, []string{"result"}),
		WatchdogFeeds: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "watchdog_feeds_total",
			Help: "Hardware watchdog feeds.",
		}, []string{"result"}),
		TaskSteps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "scheduler_task_steps_total",
			Help: "Cooperative task steps by task and outcome.",
		}, []string{"task", "result"}),
	}
	reg.MustRegister(m.BusTransactions, m.BridgeRequests, m.TriggerEvents, m.WatchdogFeeds, m.TaskSteps)
	return m
}

func (m *Metrics) BusTransaction(result string) {
	if m == nil {
		return
	}
	m.BusTransactions.WithLabelValues(result).Inc()
}

func (m *Metrics) BridgeRequest(result string) {
	if m == nil {
		return
	}
	m.BridgeRequests.WithLabelValues(result).Inc()
}

func (m *Metrics) TriggerEvent(result string) {
	if m == nil {
		return
	}
	m.TriggerEvents.WithLabelValues(result).Inc()
}

func (m *Metrics) WatchdogFeed(err error) {
	if m == nil {
		return
	}
	m.WatchdogFeeds.WithLabelValues(resultOf(err)).Inc()
}

func (m *Metrics) TaskStep(task string, err error) {
	if m == nil {
		return
	}
	m.TaskSteps.WithLabelValues(task, resultOf(err)).Inc()
}

func resultOf(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
