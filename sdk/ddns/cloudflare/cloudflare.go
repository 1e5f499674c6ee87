package cloudflare

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/jxo-me/cfddns/consts"
	"github.com/jxo-me/cfddns/core/ddns"
	"github.com/jxo-me/cfddns/core/logger"
	"github.com/jxo-me/cfddns/internal/util"
	"github.com/jxo-me/cfddns/sdk/metrics"
	"github.com/pkg/errors"
)

const (
	Endpoint string = "https://api.cloudflare.com/client/v4"
	Code     string = "cloudflare"
)

// Cloudflare is a dns_records client for a single zone.
type Cloudflare struct {
	zoneID   string
	authKey  string
	endpoint string
	client   *http.Client
	logger   logger.ILogger
	metrics  *metrics.Metrics
}

type Option func(cf *Cloudflare)

func WithEndpoint(endpoint string) Option {
	return func(cf *Cloudflare) {
		if endpoint != "" {
			cf.endpoint = strings.TrimRight(endpoint, "/")
		}
	}
}

func WithHTTPClient(client *http.Client) Option {
	return func(cf *Cloudflare) {
		if client != nil {
			cf.client = client
		}
	}
}

func WithLogger(log logger.ILogger) Option {
	return func(cf *Cloudflare) {
		if log != nil {
			cf.logger = log
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(cf *Cloudflare) {
		cf.metrics = m
	}
}

func New(zoneID, authKey string, opts ...Option) *Cloudflare {
	cf := &Cloudflare{
		zoneID:   zoneID,
		authKey:  authKey,
		endpoint: Endpoint,
		logger:   logger.Default(),
	}
	for _, opt := range opts {
		opt(cf)
	}
	if cf.client == nil {
		cf.client = util.CreateHTTPClient()
	}
	return cf
}

func (cf *Cloudflare) String() string {
	return Code
}

func (cf *Cloudflare) Endpoint() string {
	return cf.endpoint
}

// ListRecords 查询域名记录
func (cf *Cloudflare) ListRecords(ctx context.Context, name string, typ consts.RecordType) ([]ddns.Record, error) {
	query := url.Values{}
	query.Set("name", name)
	query.Set("type", string(typ))

	var records []dnsRecord
	if err := cf.request(ctx, "list", http.MethodGet, "", query, nil, &records); err != nil {
		return nil, err
	}
	result := make([]ddns.Record, 0, len(records))
	for _, r := range records {
		result = append(result, r.toRecord())
	}
	return result, nil
}

// CreateRecord 新增
func (cf *Cloudflare) CreateRecord(ctx context.Context, req ddns.RecordRequest) (*ddns.Record, error) {
	var record dnsRecord
	if err := cf.request(ctx, "create", http.MethodPost, "", nil, newRecordBody(req), &record); err != nil {
		return nil, err
	}
	r := record.toRecord()
	return &r, nil
}

// UpdateRecord 修改
func (cf *Cloudflare) UpdateRecord(ctx context.Context, id string, req ddns.RecordRequest) (*ddns.Record, error) {
	var record dnsRecord
	if err := cf.request(ctx, "update", http.MethodPut, id, nil, newRecordBody(req), &record); err != nil {
		return nil, err
	}
	r := record.toRecord()
	return &r, nil
}

// DeleteRecord 删除
func (cf *Cloudflare) DeleteRecord(ctx context.Context, id string) error {
	return cf.request(ctx, "delete", http.MethodDelete, id, nil, nil, nil)
}

// request 统一请求接口
func (cf *Cloudflare) request(ctx context.Context, op, method, id string, query url.Values, data interface{}, result interface{}) (err error) {
	defer func() {
		cf.metrics.ProviderRequest(op, err)
	}()

	u := fmt.Sprintf("%s/zones/%s/dns_records", cf.endpoint, url.PathEscape(cf.zoneID))
	if id != "" {
		u += "/" + url.PathEscape(id)
	}
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var body io.Reader
	if data != nil {
		byt, err := json.Marshal(data)
		if err != nil {
			return errors.Wrapf(err, "encode %s request", op)
		}
		body = bytes.NewReader(byt)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return errors.Wrapf(err, "build %s request", op)
	}
	req.Header.Set(consts.HeaderAuthorization, "Bearer "+cf.authKey)
	req.Header.Set(consts.HeaderContentType, consts.ContentTypeJSON)

	resp, err := cf.client.Do(req)
	if err != nil {
		return &ddns.NetworkError{Op: op, Err: err}
	}
	byt, err := util.ReadBody(resp)
	if err != nil {
		return &ddns.NetworkError{Op: op, Err: errors.Wrap(err, "read response")}
	}
	cf.logger.Debugf("%s %s %s -> %d %s", Code, method, u, resp.StatusCode, byt)

	var envelope response
	if err := json.Unmarshal(byt, &envelope); err != nil {
		return &ddns.NetworkError{Op: op, Err: errors.Wrapf(err, "decode response (http %d)", resp.StatusCode)}
	}
	if !envelope.Success {
		return &ddns.ProviderError{
			Provider:   Code,
			Op:         op,
			StatusCode: resp.StatusCode,
			Errors:     envelope.Errors,
		}
	}
	if result == nil || len(envelope.Result) == 0 || string(envelope.Result) == "null" {
		return nil
	}
	if err := json.Unmarshal(envelope.Result, result); err != nil {
		return &ddns.NetworkError{Op: op, Err: errors.Wrap(err, "decode result")}
	}
	return nil
}
