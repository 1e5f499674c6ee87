package hook

import (
	"context"

	"github.com/jxo-me/cfddns/consts"
)

// Event summarises one group cycle that changed or failed to change records.
type Event struct {
	Type    consts.RecordType
	Addr    string
	Status  consts.UpdateStatusType
	Domains []string
}

type IHook interface {
	String() string
	ExecHook(ctx context.Context, event Event) error
}
