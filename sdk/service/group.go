package service

import (
	"context"
	"fmt"
	"net/netip"
	"runtime/debug"

	"github.com/jxo-me/cfddns/consts"
	iCache "github.com/jxo-me/cfddns/core/cache"
	"github.com/jxo-me/cfddns/core/hook"
	"github.com/jxo-me/cfddns/core/logger"
	iResolver "github.com/jxo-me/cfddns/core/resolver"
	"github.com/jxo-me/cfddns/sdk/cache"
	"github.com/jxo-me/cfddns/sdk/metrics"
	"github.com/pkg/errors"
)

const (
	ReasonLookupFailed = "IP lookup failed"
	ReasonTypeDisabled = "record type disabled"
	ReasonPurgeCommand = "purge command"
)

// Group items of one record type sharing a ttl and an IP check endpoint.
// One lookup serves every item of the group.
type Group struct {
	typ      consts.RecordType
	ttl      int
	checkURL string
	resolver iResolver.IResolver
	cache    iCache.IIpCache
	items    []*DdnsItem
	hook     hook.IHook
	logger   logger.ILogger
	metrics  *metrics.Metrics
}

func newGroup(typ consts.RecordType, ttl int, checkURL string, r iResolver.IResolver, log logger.ILogger, m *metrics.Metrics) *Group {
	return &Group{
		typ:      typ,
		ttl:      ttl,
		checkURL: checkURL,
		resolver: r,
		cache:    &cache.IpCache{},
		logger:   log,
		metrics:  m,
	}
}

func (g *Group) String() string {
	return fmt.Sprintf("%s/%ds/%s", g.typ, g.ttl, g.checkURL)
}

func (g *Group) Type() consts.RecordType { return g.typ }
func (g *Group) TTL() int                { return g.ttl }
func (g *Group) CheckURL() string        { return g.checkURL }
func (g *Group) Items() []*DdnsItem      { return g.items }

// RunCycle resolves the public address once and reconciles every item with
// it. Only the lookup error is returned, item failures are logged.
func (g *Group) RunCycle(ctx context.Context) error {
	addr, err := g.resolver.Resolve(ctx)
	g.metrics.IPLookup(string(g.typ), err)
	if err != nil {
		g.cache.IncreaseFailedTimes()
		g.logger.Errorf("%s lookup via %s failed (%d in a row): %v", g.typ, g.resolver, g.cache.GetFailedTimes(), err)
		for _, it := range g.items {
			if it.domain.Properties.AutoPurge {
				_ = safePurge(ctx, it, false, ReasonLookupFailed, g.logger)
			}
		}
		return err
	}

	g.cache.ResetFailedTimes()
	if g.cache.Check(addr.String()) {
		g.logger.Infof("public %s address is %s", g.typ, addr)
	}
	event := hook.Event{Type: g.typ, Addr: addr.String(), Status: consts.UpdatedNothing}
	for _, it := range g.items {
		if ctx.Err() != nil {
			return nil
		}
		status := g.reconcile(ctx, it, addr)
		if status != consts.UpdatedNothing {
			event.Domains = append(event.Domains, it.domain.Name)
		}
		event.Status = mergeStatus(event.Status, status)
	}
	if g.hook != nil && event.Status != consts.UpdatedNothing {
		if err := g.hook.ExecHook(ctx, event); err != nil {
			g.logger.Errorf("%s hook: %v", g.hook, err)
		}
	}
	return nil
}

func (g *Group) reconcile(ctx context.Context, it *DdnsItem, addr netip.Addr) (status consts.UpdateStatusType) {
	defer func() {
		if r := recover(); r != nil {
			it.Destroy()
			status = consts.UpdatedFailed
			g.logger.Errorf("%s: reconcile panicked: %v\n%s", it, r, debug.Stack())
		}
	}()

	status, err := it.Reconcile(ctx, addr)
	if err != nil {
		logError(g.logger, errors.Wrapf(err, "%s", status))
	}
	return status
}

// mergeStatus 一个失败则全部失败, 否则一个成功就成功
func mergeStatus(acc, status consts.UpdateStatusType) consts.UpdateStatusType {
	switch {
	case acc == consts.UpdatedFailed || status == consts.UpdatedFailed:
		return consts.UpdatedFailed
	case status == consts.UpdatedSuccess || status == consts.UpdatedCreated:
		return consts.UpdatedSuccess
	}
	return acc
}

// logError prints the stack trace only when debug logging is on.
func logError(log logger.ILogger, err error) {
	if log.IsLevelEnabled(logger.DebugLevel) {
		log.Errorf("%+v", err)
		return
	}
	log.Error(err.Error())
}
