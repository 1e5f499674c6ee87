package cloudflare

import (
	"encoding/json"

	"github.com/jxo-me/cfddns/core/ddns"
)

// response Cloudflare API envelope
type response struct {
	Success    bool            `json:"success"`
	Errors     []ddns.APIError `json:"errors"`
	Messages   json.RawMessage `json:"messages"`
	Result     json.RawMessage `json:"result"`
	ResultInfo *resultInfo     `json:"result_info,omitempty"`
}

type resultInfo struct {
	Page       int `json:"page"`
	PerPage    int `json:"per_page"`
	Count      int `json:"count"`
	TotalCount int `json:"total_count"`
	TotalPages int `json:"total_pages"`
}

type dnsRecord struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	Name      string `json:"name"`
	Content   string `json:"content"`
	Proxiable bool   `json:"proxiable"`
	Proxied   bool   `json:"proxied"`
	TTL       int    `json:"ttl"`
}

func (r dnsRecord) toRecord() ddns.Record {
	return ddns.Record{
		ID:        r.ID,
		Type:      r.Type,
		Name:      r.Name,
		Content:   r.Content,
		Proxiable: r.Proxiable,
		Proxied:   r.Proxied,
		TTL:       r.TTL,
	}
}

// recordBody create / update body
type recordBody struct {
	Type    string   `json:"type"`
	Name    string   `json:"name"`
	Content string   `json:"content"`
	TTL     int      `json:"ttl"`
	Proxied bool     `json:"proxied"`
	Comment string   `json:"comment"`
	Tags    []string `json:"tags"`
}

func newRecordBody(req ddns.RecordRequest) *recordBody {
	tags := req.Tags
	if tags == nil {
		tags = []string{}
	}
	return &recordBody{
		Type:    string(req.Type),
		Name:    req.Name,
		Content: req.Content,
		TTL:     req.TTL,
		Proxied: req.Proxied,
		Comment: req.Comment,
		Tags:    tags,
	}
}
