package ddns

import (
	"context"

	"github.com/jxo-me/cfddns/consts"
)

// Record is a DNS record as held by the provider.
type Record struct {
	ID        string
	Type      string
	Name      string
	Content   string
	Proxiable bool
	Proxied   bool
	TTL       int
}

// RecordRequest is the desired state sent on create and update.
type RecordRequest struct {
	Type    consts.RecordType
	Name    string
	Content string
	TTL     int
	Proxied bool
	Comment string
	Tags    []string
}

// IProvider is a DNS provider client scoped to one zone.
type IProvider interface {
	String() string
	// Endpoint GetEndpoint
	Endpoint() string
	ListRecords(ctx context.Context, name string, typ consts.RecordType) ([]Record, error)
	CreateRecord(ctx context.Context, req RecordRequest) (*Record, error)
	UpdateRecord(ctx context.Context, id string, req RecordRequest) (*Record, error)
	DeleteRecord(ctx context.Context, id string) error
}
