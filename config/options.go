package config

import (
	"strings"
	"time"
)

const DefaultMetricsPath = "/metrics"

// HTTPSettings is HTTPConfig with durations parsed. Zero values mean the
// transport defaults.
type HTTPSettings struct {
	Timeout      time.Duration
	Retries      int
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration
}

func (h *HTTPConfig) Settings() (HTTPSettings, error) {
	var s HTTPSettings
	if h == nil {
		return s, nil
	}
	if h.Retries < 0 {
		return s, configErrorf("http.retries must not be negative, got %d", h.Retries)
	}
	s.Retries = h.Retries

	fields := []struct {
		name  string
		value string
		dst   *time.Duration
	}{
		{"http.timeout", h.Timeout, &s.Timeout},
		{"http.retryWaitMin", h.RetryWaitMin, &s.RetryWaitMin},
		{"http.retryWaitMax", h.RetryWaitMax, &s.RetryWaitMax},
	}
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			continue
		}
		d, err := time.ParseDuration(strings.TrimSpace(f.value))
		if err != nil || d < 0 {
			return s, configErrorf("invalid %s %q", f.name, f.value)
		}
		*f.dst = d
	}
	return s, nil
}

// MetricsPath returns the configured path, /metrics when unset.
func (m *MetricsConfig) MetricsPath() string {
	if m == nil || m.Path == "" {
		return DefaultMetricsPath
	}
	if !strings.HasPrefix(m.Path, "/") {
		return "/" + m.Path
	}
	return m.Path
}

// Enabled reports whether the metrics endpoint should be served.
func (m *MetricsConfig) Enabled() bool {
	return m != nil && strings.TrimSpace(m.Listen) != ""
}
