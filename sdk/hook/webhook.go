package hook

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/jxo-me/cfddns/consts"
	"github.com/jxo-me/cfddns/core/hook"
	"github.com/jxo-me/cfddns/core/logger"
	"github.com/jxo-me/cfddns/internal/util"
	"github.com/pkg/errors"
)

const (
	Code = "webhook"
)

// Webhook calls a user supplied url after records were written or a write
// failed. Url and body may carry #{type}, #{addr}, #{result}, #{domains} and
// the #{ipv4Addr}, #{ipv4Result}, #{ipv4Domains} (ipv6 likewise) placeholders.
type Webhook struct {
	url         string
	requestBody string
	headers     map[string]string
	client      *http.Client
	logger      logger.ILogger
}

// hasJSONPrefix returns true if the string starts with a JSON open brace.
func hasJSONPrefix(s string) bool {
	return strings.HasPrefix(s, "{") || strings.HasPrefix(s, "[")
}

func NewHook(url, requestBody, headers string, client *http.Client, log logger.ILogger) *Webhook {
	if client == nil {
		client = util.CreateHTTPClient()
	}
	if log == nil {
		log = logger.Default()
	}
	return &Webhook{
		url:         url,
		requestBody: requestBody,
		headers:     ParseHeaders(headers, log),
		client:      client,
		logger:      log,
	}
}

func (w *Webhook) String() string {
	return Code
}

// ExecHook 成功和失败都要触发webhook
func (w *Webhook) ExecHook(ctx context.Context, event hook.Event) error {
	if w.url == "" || event.Status == consts.UpdatedNothing {
		return nil
	}
	method := http.MethodGet
	var body string
	contentType := "application/x-www-form-urlencoded"
	if w.requestBody != "" {
		method = http.MethodPost
		body = replacePara(w.requestBody, event, false)
		if json.Valid([]byte(body)) {
			contentType = consts.ContentTypeJSON
		} else if hasJSONPrefix(body) {
			// 如果 RequestBody 的 JSON 无效但前缀为 JSON 括号则为 JSON
			w.logger.Warnf("webhook request body is not valid JSON: %s", body)
		}
	}

	requestURL := replacePara(w.url, event, true)
	if _, err := url.Parse(requestURL); err != nil {
		return errors.Wrapf(err, "webhook url %q", requestURL)
	}
	req, err := http.NewRequestWithContext(ctx, method, requestURL, strings.NewReader(body))
	if err != nil {
		return errors.Wrap(err, "build webhook request")
	}
	for key, value := range w.headers {
		req.Header.Add(key, value)
	}
	req.Header.Set(consts.HeaderContentType, contentType)

	resp, err := w.client.Do(req)
	if err != nil {
		return errors.Wrap(err, "call webhook")
	}
	respBody, err := util.ReadBody(resp)
	if err != nil {
		return errors.Wrap(err, "read webhook response")
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return errors.Errorf("webhook answered %s: %q", resp.Status, respBody)
	}
	w.logger.Infof("webhook called for %s %s, response: %q", event.Type, event.Status, respBody)
	return nil
}

// replacePara 替换参数, escape for placeholders inside a url
func replacePara(orgPara string, event hook.Event, escape bool) string {
	quote := func(s string) string {
		if escape {
			return url.QueryEscape(s)
		}
		return s
	}
	domains := strings.Join(event.Domains, ",")
	pairs := []string{
		"#{type}", quote(string(event.Type)),
		"#{addr}", quote(event.Addr),
		"#{result}", quote(string(event.Status)),
		"#{domains}", quote(domains),
	}
	for _, typ := range consts.RecordTypes {
		prefix := "#{ipv4"
		if typ == consts.RecordTypeAAAA {
			prefix = "#{ipv6"
		}
		addr, result, names := "", "", ""
		if typ == event.Type {
			addr, result, names = event.Addr, string(event.Status), domains
		}
		pairs = append(pairs,
			prefix+"Addr}", quote(addr),
			prefix+"Result}", quote(result),
			prefix+"Domains}", quote(names),
		)
	}
	return strings.NewReplacer(pairs...).Replace(orgPara)
}

// ParseHeaders reads one "Key: Value" header per line.
func ParseHeaders(headerStr string, log logger.ILogger) map[string]string {
	headers := make(map[string]string)
	for _, line := range strings.Split(strings.ReplaceAll(headerStr, "\r\n", "\n"), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		key, value, ok := strings.Cut(line, ":")
		if !ok || strings.TrimSpace(key) == "" {
			log.Warnf("webhook header %q is malformed", line)
			continue
		}
		headers[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	return headers
}
