package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounters(t *testing.T) {
	m := New()
	m.ProviderRequest("list", nil)
	m.ProviderRequest("list", errors.New("boom"))
	m.ProviderRequest("list", nil)
	m.Reconcile("A", "UnChanged")
	m.IPLookup("AAAA", errors.New("timeout"))
	m.Purge("AAAA", nil)
	m.RecordSynced("a.example.com", "A")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.providerRequests.WithLabelValues("list", ResultSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.providerRequests.WithLabelValues("list", ResultFailure)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.reconciles.WithLabelValues("A", "UnChanged")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ipLookups.WithLabelValues("AAAA", ResultFailure)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.purges.WithLabelValues("AAAA", ResultSuccess)))
	assert.Greater(t, testutil.ToFloat64(m.lastSync.WithLabelValues("a.example.com", "A")), 0.0)
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ProviderRequest("create", nil)
		m.Reconcile("A", "Success")
		m.IPLookup("A", nil)
		m.Purge("A", nil)
		m.RecordSynced("a.example.com", "A")
	})
	assert.Nil(t, m.Registry())
}

func TestHandler(t *testing.T) {
	m := New()
	m.Reconcile("A", "Created")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `cfddns_reconcile_total{status="Created",type="A"} 1`)
}
