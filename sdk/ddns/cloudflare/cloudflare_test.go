package cloudflare

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jxo-me/cfddns/consts"
	"github.com/jxo-me/cfddns/core/ddns"
	xlogger "github.com/jxo-me/cfddns/sdk/logger"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testZone = "023e105f4ecef8ad9ca31a8372d0c353"
	testKey  = "token-123"
)

type capture struct {
	method string
	path   string
	query  string
	auth   string
	body   map[string]any
}

func newServer(t *testing.T, status int, reply string, got *capture) *httptest.Server {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got.method = r.Method
		got.path = r.URL.Path
		got.query = r.URL.RawQuery
		got.auth = r.Header.Get("Authorization")
		if r.Body != nil {
			byt, _ := io.ReadAll(r.Body)
			if len(byt) > 0 {
				require.NoError(t, json.Unmarshal(byt, &got.body))
			}
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, reply)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newClient(srv *httptest.Server) *Cloudflare {
	return New(testZone, testKey, WithEndpoint(srv.URL+"/"), WithLogger(xlogger.Nop()))
}

func TestListRecords(t *testing.T) {
	got := &capture{}
	srv := newServer(t, http.StatusOK, `{
		"success": true,
		"errors": [],
		"messages": [],
		"result": [
			{"id": "372e6795", "type": "A", "name": "home.example.com", "content": "198.51.100.4", "proxiable": true, "proxied": false, "ttl": 300}
		],
		"result_info": {"page": 1, "per_page": 100, "count": 1, "total_count": 1, "total_pages": 1}
	}`, got)

	records, err := newClient(srv).ListRecords(context.Background(), "home.example.com", consts.RecordTypeA)
	require.NoError(t, err)

	assert.Equal(t, http.MethodGet, got.method)
	assert.Equal(t, "/zones/"+testZone+"/dns_records", got.path)
	assert.Equal(t, "name=home.example.com&type=A", got.query)
	assert.Equal(t, "Bearer "+testKey, got.auth)
	require.Len(t, records, 1)
	assert.Equal(t, ddns.Record{
		ID:        "372e6795",
		Type:      "A",
		Name:      "home.example.com",
		Content:   "198.51.100.4",
		Proxiable: true,
		TTL:       300,
	}, records[0])
}

func TestListRecordsEmpty(t *testing.T) {
	srv := newServer(t, http.StatusOK, `{"success": true, "errors": [], "messages": [], "result": []}`, &capture{})

	records, err := newClient(srv).ListRecords(context.Background(), "home.example.com", consts.RecordTypeAAAA)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestCreateRecord(t *testing.T) {
	got := &capture{}
	srv := newServer(t, http.StatusOK, `{
		"success": true, "errors": [], "messages": [],
		"result": {"id": "9a7806061c88", "type": "AAAA", "name": "home.example.com", "content": "2001:db8::1", "proxiable": true, "proxied": true, "ttl": 1}
	}`, got)

	record, err := newClient(srv).CreateRecord(context.Background(), ddns.RecordRequest{
		Type:    consts.RecordTypeAAAA,
		Name:    "home.example.com",
		Content: "2001:db8::1",
		TTL:     120,
		Proxied: true,
		Comment: "managed by cfddns",
	})
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, got.method)
	assert.Equal(t, "/zones/"+testZone+"/dns_records", got.path)
	assert.Equal(t, map[string]any{
		"type":    "AAAA",
		"name":    "home.example.com",
		"content": "2001:db8::1",
		"ttl":     float64(120),
		"proxied": true,
		"comment": "managed by cfddns",
		"tags":    []any{},
	}, got.body)
	assert.Equal(t, "9a7806061c88", record.ID)
	assert.True(t, record.Proxied)
	assert.Equal(t, 1, record.TTL)
}

func TestUpdateRecord(t *testing.T) {
	got := &capture{}
	srv := newServer(t, http.StatusOK, `{
		"success": true, "errors": [], "messages": [],
		"result": {"id": "372e6795", "type": "A", "name": "home.example.com", "content": "198.51.100.9", "proxied": false, "ttl": 300}
	}`, got)

	record, err := newClient(srv).UpdateRecord(context.Background(), "372e6795", ddns.RecordRequest{
		Type:    consts.RecordTypeA,
		Name:    "home.example.com",
		Content: "198.51.100.9",
		TTL:     300,
	})
	require.NoError(t, err)

	assert.Equal(t, http.MethodPut, got.method)
	assert.Equal(t, "/zones/"+testZone+"/dns_records/372e6795", got.path)
	assert.Equal(t, "198.51.100.9", got.body["content"])
	assert.Equal(t, "198.51.100.9", record.Content)
}

func TestDeleteRecord(t *testing.T) {
	got := &capture{}
	srv := newServer(t, http.StatusOK, `{"success": true, "errors": [], "messages": [], "result": {"id": "372e6795"}}`, got)

	require.NoError(t, newClient(srv).DeleteRecord(context.Background(), "372e6795"))
	assert.Equal(t, http.MethodDelete, got.method)
	assert.Equal(t, "/zones/"+testZone+"/dns_records/372e6795", got.path)
	assert.Nil(t, got.body)
}

func TestProviderError(t *testing.T) {
	srv := newServer(t, http.StatusBadRequest, `{
		"success": false,
		"errors": [{"code": 9109, "message": "Invalid access token"}],
		"messages": [],
		"result": null
	}`, &capture{})

	_, err := newClient(srv).ListRecords(context.Background(), "home.example.com", consts.RecordTypeA)
	require.Error(t, err)

	var perr *ddns.ProviderError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, "list", perr.Op)
	assert.Equal(t, http.StatusBadRequest, perr.StatusCode)
	require.Len(t, perr.Errors, 1)
	assert.Equal(t, 9109, perr.Errors[0].Code)
}

func TestSuccessFalseOnOK(t *testing.T) {
	srv := newServer(t, http.StatusOK, `{"success": false, "errors": [{"code": 81044, "message": "Record does not exist."}], "messages": [], "result": null}`, &capture{})

	err := newClient(srv).DeleteRecord(context.Background(), "gone")
	assert.True(t, ddns.IsProviderError(err))
}

func TestServerErrorEnvelope(t *testing.T) {
	srv := newServer(t, http.StatusInternalServerError, `{"success": false, "errors": [{"code": 10000, "message": "Internal error"}], "messages": [], "result": null}`, &capture{})

	_, err := newClient(srv).CreateRecord(context.Background(), ddns.RecordRequest{Type: consts.RecordTypeA, Name: "home.example.com"})
	var perr *ddns.ProviderError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, http.StatusInternalServerError, perr.StatusCode)
}

func TestUndecodableBody(t *testing.T) {
	srv := newServer(t, http.StatusBadGateway, `<html>bad gateway</html>`, &capture{})

	_, err := newClient(srv).ListRecords(context.Background(), "home.example.com", consts.RecordTypeA)
	assert.True(t, ddns.IsNetworkError(err))
	assert.False(t, ddns.IsProviderError(err))
}

func TestNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	cf := newClient(srv)
	srv.Close()

	_, err := cf.ListRecords(context.Background(), "home.example.com", consts.RecordTypeA)
	var nerr *ddns.NetworkError
	require.True(t, errors.As(err, &nerr))
	assert.Equal(t, "list", nerr.Op)
}
