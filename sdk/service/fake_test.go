package service

import (
	"context"
	"fmt"
	"net/netip"
	"sync"

	"github.com/jxo-me/cfddns/config"
	"github.com/jxo-me/cfddns/consts"
	"github.com/jxo-me/cfddns/core/ddns"
	"github.com/pkg/errors"
)

type mockProvider struct {
	mu      sync.Mutex
	records []ddns.Record
	nextID  int
	calls   []string

	listErr   error
	createErr error
	updateErr error
	deleteErr error
	panicOn   string
	// answerName overrides the record name returned on writes
	answerName string
}

func (p *mockProvider) String() string   { return "mock" }
func (p *mockProvider) Endpoint() string { return "mock://" }

func (p *mockProvider) record(op string) {
	p.calls = append(p.calls, op)
	if p.panicOn == op {
		panic("boom in " + op)
	}
}

func (p *mockProvider) Calls() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.calls...)
}

func (p *mockProvider) count(op string) int {
	n := 0
	for _, c := range p.Calls() {
		if c == op {
			n++
		}
	}
	return n
}

func (p *mockProvider) writes() int {
	return p.count("create") + p.count("update") + p.count("delete")
}

func (p *mockProvider) reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = nil
}

func (p *mockProvider) add(rec ddns.Record) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.records = append(p.records, rec)
}

func (p *mockProvider) find(name string, typ consts.RecordType) []ddns.Record {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.findLocked(name, typ)
}

func (p *mockProvider) findLocked(name string, typ consts.RecordType) []ddns.Record {
	var out []ddns.Record
	for _, r := range p.records {
		if r.Name == name && r.Type == string(typ) {
			out = append(out, r)
		}
	}
	return out
}

func (p *mockProvider) ListRecords(_ context.Context, name string, typ consts.RecordType) ([]ddns.Record, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.record("list")
	if p.listErr != nil {
		return nil, p.listErr
	}
	return p.findLocked(name, typ), nil
}

func (p *mockProvider) CreateRecord(_ context.Context, req ddns.RecordRequest) (*ddns.Record, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.record("create")
	if p.createErr != nil {
		return nil, p.createErr
	}
	p.nextID++
	rec := ddns.Record{
		ID:      fmt.Sprintf("rec-%d", p.nextID),
		Type:    string(req.Type),
		Name:    req.Name,
		Content: req.Content,
		Proxied: req.Proxied,
		TTL:     req.TTL,
	}
	p.records = append(p.records, rec)
	if p.answerName != "" {
		rec.Name = p.answerName
	}
	return &rec, nil
}

func (p *mockProvider) UpdateRecord(_ context.Context, id string, req ddns.RecordRequest) (*ddns.Record, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.record("update")
	if p.updateErr != nil {
		return nil, p.updateErr
	}
	for i := range p.records {
		if p.records[i].ID == id {
			p.records[i].Content = req.Content
			p.records[i].Proxied = req.Proxied
			p.records[i].TTL = req.TTL
			rec := p.records[i]
			return &rec, nil
		}
	}
	return nil, &ddns.ProviderError{Provider: "mock", Op: "update", StatusCode: 404, Errors: []ddns.APIError{{Code: 81044, Message: "Record not found"}}}
}

func (p *mockProvider) DeleteRecord(_ context.Context, id string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.record("delete")
	if p.deleteErr != nil {
		return p.deleteErr
	}
	for i := range p.records {
		if p.records[i].ID == id {
			p.records = append(p.records[:i], p.records[i+1:]...)
			return nil
		}
	}
	return nil
}

type mockResolver struct {
	mu    sync.Mutex
	url   string
	addr  netip.Addr
	err   error
	calls int
}

func (r *mockResolver) String() string { return r.url }

func (r *mockResolver) Resolve(context.Context) (netip.Addr, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	return r.addr, r.err
}

func (r *mockResolver) Calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

var errDeleteFailed = &ddns.ProviderError{
	Provider:   "mock",
	Op:         "delete",
	StatusCode: 400,
	Errors:     []ddns.APIError{{Code: 1000, Message: "delete rejected"}},
}

var errNetwork = &ddns.NetworkError{Op: "resolve", Err: errors.New("connection refused")}

func setting(name string, mutate ...func(p *config.ResolvedProperties)) config.DomainSetting {
	d := config.DomainSetting{
		Name: name,
		Properties: config.ResolvedProperties{
			ZoneID:     "zone",
			AuthKey:    "key",
			CheckURLV4: consts.DefaultCheckURLV4,
			CheckURLV6: consts.DefaultCheckURLV6,
			V4:         true,
			TTL:        300,
			ReInit:     1,
		},
	}
	for _, m := range mutate {
		m(&d.Properties)
	}
	return d
}
