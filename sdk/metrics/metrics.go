package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "cfddns"

const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

// Metrics holds the updater's collectors. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	registry         *prometheus.Registry
	providerRequests *prometheus.CounterVec
	reconciles       *prometheus.CounterVec
	ipLookups        *prometheus.CounterVec
	purges           *prometheus.CounterVec
	lastSync         *prometheus.GaugeVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		providerRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "provider_requests_total",
			Help:      "DNS provider API requests by operation and result.",
		}, []string{"op", "result"}),
		reconciles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reconcile_total",
			Help:      "Reconciliation outcomes by record type and status.",
		}, []string{"type", "status"}),
		ipLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ip_lookups_total",
			Help:      "Public IP lookups by record type and result.",
		}, []string{"type", "result"}),
		purges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "purges_total",
			Help:      "Record purge attempts by record type and result.",
		}, []string{"type", "result"}),
		lastSync: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "record_last_sync_timestamp_seconds",
			Help:      "Unix time the record was last confirmed in sync with the public address.",
		}, []string{"domain", "type"}),
	}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.providerRequests,
		m.reconciles,
		m.ipLookups,
		m.purges,
		m.lastSync,
	)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) ProviderRequest(op string, err error) {
	if m == nil {
		return
	}
	m.providerRequests.WithLabelValues(op, result(err)).Inc()
}

func (m *Metrics) Reconcile(typ, status string) {
	if m == nil {
		return
	}
	m.reconciles.WithLabelValues(typ, status).Inc()
}

func (m *Metrics) IPLookup(typ string, err error) {
	if m == nil {
		return
	}
	m.ipLookups.WithLabelValues(typ, result(err)).Inc()
}

func (m *Metrics) Purge(typ string, err error) {
	if m == nil {
		return
	}
	m.purges.WithLabelValues(typ, result(err)).Inc()
}

func (m *Metrics) RecordSynced(domain, typ string) {
	if m == nil {
		return
	}
	m.lastSync.WithLabelValues(domain, typ).Set(float64(time.Now().Unix()))
}

func result(err error) string {
	if err != nil {
		return ResultFailure
	}
	return ResultSuccess
}
