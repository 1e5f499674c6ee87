package resolver

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/netip"
	"testing"

	"github.com/jxo-me/cfddns/consts"
	"github.com/jxo-me/cfddns/core/ddns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serve(t *testing.T, status int, body string) *httptest.Server {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "no-cache", r.Header.Get("Cache-Control"))
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestWebResolverLookup(t *testing.T) {
	srv := serve(t, http.StatusOK, "192.168.2.1\n")

	addr, err := NewWebResolver(srv.URL, consts.RecordTypeA, nil).Resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, netip.MustParseAddr("192.168.2.1"), addr)
}

func TestWebResolverIPv6(t *testing.T) {
	srv := serve(t, http.StatusOK, "2001:DB8::1")

	addr, err := NewWebResolver(srv.URL, consts.RecordTypeAAAA, nil).Resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, netip.MustParseAddr("2001:db8::1"), addr)
}

func TestWebResolverWrongFamily(t *testing.T) {
	srv := serve(t, http.StatusOK, "2001:db8::1")

	_, err := NewWebResolver(srv.URL, consts.RecordTypeA, nil).Resolve(context.Background())
	assert.Error(t, err)

	srv4 := serve(t, http.StatusOK, "192.168.2.1")
	_, err = NewWebResolver(srv4.URL, consts.RecordTypeAAAA, nil).Resolve(context.Background())
	assert.Error(t, err)
}

func TestWebResolverBadStatus(t *testing.T) {
	srv := serve(t, http.StatusServiceUnavailable, "192.168.2.1")

	_, err := NewWebResolver(srv.URL, consts.RecordTypeA, nil).Resolve(context.Background())
	require.Error(t, err)
	assert.True(t, ddns.IsNetworkError(err))
}

func TestParseAddr(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		typ     consts.RecordType
		want    string
		wantErr bool
	}{
		{name: "plain", body: "203.0.113.7", typ: consts.RecordTypeA, want: "203.0.113.7"},
		{name: "embedded", body: "Current IP Address: 203.0.113.7<br>", typ: consts.RecordTypeA, want: "203.0.113.7"},
		{name: "mapped", body: "::ffff:203.0.113.7", typ: consts.RecordTypeA, want: "203.0.113.7"},
		{name: "mapped is not v6", body: "::ffff:203.0.113.7", typ: consts.RecordTypeAAAA, wantErr: true},
		{name: "v6 embedded", body: `{"ip":"2001:db8:85a3::8a2e:370:7334"}`, typ: consts.RecordTypeAAAA, want: "2001:db8:85a3::8a2e:370:7334"},
		{name: "garbage", body: "invalid ip", typ: consts.RecordTypeA, wantErr: true},
		{name: "empty", body: "", typ: consts.RecordTypeAAAA, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			addr, err := ParseAddr(tt.body, tt.typ)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, netip.MustParseAddr(tt.want), addr)
		})
	}
}

func TestNewPicksByScheme(t *testing.T) {
	r, err := New("https://api4.ipify.org?format=text", consts.RecordTypeA, nil)
	require.NoError(t, err)
	assert.IsType(t, &WebResolver{}, r)

	r, err = New("dns://resolver1.opendns.com/myip.opendns.com", consts.RecordTypeA, nil)
	require.NoError(t, err)
	assert.IsType(t, &DNSResolver{}, r)
	assert.Equal(t, "dns://resolver1.opendns.com:53/myip.opendns.com.", r.String())

	_, err = New("ftp://example.com/ip", consts.RecordTypeA, nil)
	assert.Error(t, err)

	_, err = New("dns://resolver1.opendns.com/", consts.RecordTypeA, nil)
	assert.Error(t, err)
}
