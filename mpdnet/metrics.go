package mpdnet

import "github.com/prometheus/client_golang/prometheus"

// Metrics instruments a Connection's idle loop. It is entirely optional: a
// nil *Metrics is a documented no-op everywhere below, so callers who don't
// want Prometheus wiring can simply omit it from ConnectOptions.
type Metrics struct {
	commandsSent       prometheus.Counter
	ideCyclesEntered   prometheus.Counter
	subsystemChanges   *prometheus.CounterVec
	commandsCoalesced  prometheus.Counter
	parseErrors        prometheus.Counter
	replyLatencySecond prometheus.Histogram
}

// NewMetrics registers a Connection's counters and latency histogram on reg
// and returns a Metrics ready to pass to ConnectOptions. namespace/subsystem
// follow the client_golang convention of an underscore-joined metric family
// name, e.g.
// namespace="mpdc", subsystem="client" yields "mpdc_client_commands_sent_total".
func NewMetrics(reg prometheus.Registerer, namespace, subsystem string) *Metrics {
	m := &Metrics{
		commandsSent: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: subsystem,
			Name: "commands_sent_total",
			Help: "Total number of command lists sent to the server.",
		}),
		ideCyclesEntered: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: subsystem,
			Name: "idle_cycles_total",
			Help: "Total number of times the connection re-entered the idle state.",
		}),
		subsystemChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: subsystem,
			Name: "subsystem_changes_total",
			Help: "Subsystem change notifications emitted, labeled by subsystem.",
		}, []string{"subsystem"}),
		commandsCoalesced: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: subsystem,
			Name: "commands_coalesced_total",
			Help: "Commands sent during the post-reply grace period without a fresh idle/noidle round trip.",
		}),
		parseErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: subsystem,
			Name: "parse_errors_total",
			Help: "Fatal protocol parse errors encountered.",
		}),
		replyLatencySecond: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace, Subsystem: subsystem,
			Name:    "reply_latency_seconds",
			Help:    "Time from sending a command list to receiving its full response.",
			Buckets: prometheus.DefBuckets,
		}),
	}
	reg.MustRegister(
		m.commandsSent,
		m.ideCyclesEntered,
		m.subsystemChanges,
		m.commandsCoalesced,
		m.parseErrors,
		m.replyLatencySecond,
	)
	return m
}

func (m *Metrics) commandSent() {
	if m == nil {
		return
	}
	m.commandsSent.Inc()
}

func (m *Metrics) idleCycle() {
	if m == nil {
		return
	}
	m.ideCyclesEntered.Inc()
}

func (m *Metrics) subsystemChange(name string) {
	if m == nil {
		return
	}
	m.subsystemChanges.WithLabelValues(name).Inc()
}

func (m *Metrics) commandCoalesced() {
	if m == nil {
		return
	}
	m.commandsCoalesced.Inc()
}

func (m *Metrics) parseError() {
	if m == nil {
		return
	}
	m.parseErrors.Inc()
}

func (m *Metrics) observeReplyLatency(seconds float64) {
	if m == nil {
		return
	}
	m.replyLatencySecond.Observe(seconds)
}
