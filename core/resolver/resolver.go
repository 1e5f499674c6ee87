package resolver

import (
	"context"
	"net/netip"
)

// IResolver discovers the host's current public address for one record type.
type IResolver interface {
	String() string
	Resolve(ctx context.Context) (netip.Addr, error)
}
