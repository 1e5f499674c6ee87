package service

import (
	"context"
	"fmt"
	"net/netip"
	"strings"
	"time"

	"github.com/jxo-me/cfddns/config"
	"github.com/jxo-me/cfddns/consts"
	"github.com/jxo-me/cfddns/core/ddns"
	"github.com/jxo-me/cfddns/core/logger"
	"github.com/jxo-me/cfddns/sdk/metrics"
	"github.com/pkg/errors"
)

// DdnsItem 单个域名单个记录类型的同步状态
//
// An item is owned by exactly one goroutine, it is not safe for concurrent use.
type DdnsItem struct {
	domain   *config.DomainSetting
	typ      consts.RecordType
	provider ddns.IProvider
	logger   logger.ILogger
	metrics  *metrics.Metrics
	unit     time.Duration

	recordID      string
	ttl           int
	proxied       bool
	content       string
	initialized   bool
	exists        bool
	reinitCounter int
}

type ItemOption func(it *DdnsItem)

func WithItemLogger(log logger.ILogger) ItemOption {
	return func(it *DdnsItem) {
		if log != nil {
			it.logger = log
		}
	}
}

func WithItemMetrics(m *metrics.Metrics) ItemOption {
	return func(it *DdnsItem) {
		it.metrics = m
	}
}

// WithRetryUnit sets the duration of one ttl step between purge retries.
func WithRetryUnit(unit time.Duration) ItemOption {
	return func(it *DdnsItem) {
		if unit > 0 {
			it.unit = unit
		}
	}
}

func NewDdnsItem(domain *config.DomainSetting, typ consts.RecordType, provider ddns.IProvider, opts ...ItemOption) *DdnsItem {
	it := &DdnsItem{
		domain:   domain,
		typ:      typ,
		provider: provider,
		logger:   logger.Default(),
		unit:     time.Second,
	}
	for _, opt := range opts {
		opt(it)
	}
	it.logger = it.logger.WithFields(map[string]any{"domain": domain.Name, "type": string(typ)})
	return it
}

func (it *DdnsItem) String() string {
	return fmt.Sprintf("%s(%s)", it.domain.Name, it.typ)
}

func (it *DdnsItem) Domain() *config.DomainSetting { return it.domain }
func (it *DdnsItem) Type() consts.RecordType       { return it.typ }
func (it *DdnsItem) RecordID() string              { return it.recordID }
func (it *DdnsItem) Content() string               { return it.content }
func (it *DdnsItem) TTL() int                      { return it.ttl }
func (it *DdnsItem) Proxied() bool                 { return it.proxied }
func (it *DdnsItem) Initialized() bool             { return it.initialized }
func (it *DdnsItem) Exists() bool                  { return it.exists }
func (it *DdnsItem) ReinitCounter() int            { return it.reinitCounter }

// Init queries the provider for the current record.
func (it *DdnsItem) Init(ctx context.Context) error {
	records, err := it.provider.ListRecords(ctx, it.domain.Name, it.typ)
	if err != nil {
		it.Destroy()
		return errors.Wrapf(err, "init %s", it)
	}
	if len(records) == 0 {
		it.initialized, it.exists = true, false
		it.recordID, it.content, it.ttl, it.proxied = "", "", 0, false
		it.logger.Debugf("%s: no record at %s yet", it, it.provider)
		return nil
	}
	if len(records) > 1 {
		ids := make([]string, 0, len(records))
		for _, r := range records {
			ids = append(ids, r.ID)
		}
		it.logger.Warnf("%s: %d records found (%s), only %s is managed", it, len(records), strings.Join(ids, ", "), records[0].ID)
	}
	it.load(&records[0])
	it.logger.Debugf("%s: found record %s -> %s (ttl %d, proxied %t)", it, it.recordID, it.content, it.ttl, it.proxied)
	return nil
}

// Reconcile brings the record in line with ip and the configured properties,
// issuing at most one write.
func (it *DdnsItem) Reconcile(ctx context.Context, ip netip.Addr) (status consts.UpdateStatusType, err error) {
	defer func() {
		it.metrics.Reconcile(string(it.typ), string(status))
		if err == nil {
			it.metrics.RecordSynced(it.domain.Name, string(it.typ))
		}
	}()

	if !it.initialized {
		if err := it.Init(ctx); err != nil {
			return consts.UpdatedFailed, err
		}
	}
	if !it.exists {
		return it.create(ctx, ip)
	}
	if it.upToDate(ip) {
		it.reinitCounter++
		it.logger.Debugf("%s: %s is up to date (%d/%d)", it, it.content, it.reinitCounter, it.domain.Properties.ReInit)
		if reInit := it.domain.Properties.ReInit; reInit != 0 && it.reinitCounter >= reInit {
			it.Destroy()
		}
		return consts.UpdatedNothing, nil
	}
	return it.update(ctx, ip)
}

// Purge deletes the record. With loop set a failed attempt is retried every
// ttl until it succeeds or ctx is done.
func (it *DdnsItem) Purge(ctx context.Context, loop bool, reason string) error {
	for {
		err := it.purgeOnce(ctx, reason)
		it.metrics.Purge(string(it.typ), err)
		if err == nil || !loop {
			return err
		}
		wait := time.Duration(it.domain.Properties.TTL) * it.unit
		it.logger.Warnf("%s: purge failed, retry in %s: %v", it, wait, err)

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return errors.Wrapf(ctx.Err(), "purge %s abandoned", it)
		case <-timer.C:
		}
	}
}

func (it *DdnsItem) purgeOnce(ctx context.Context, reason string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			it.Destroy()
			err = errors.Errorf("purge %s panicked: %v", it, r)
		}
	}()

	if !it.initialized {
		if err := it.Init(ctx); err != nil {
			return err
		}
	}
	if !it.exists {
		it.logger.Infof("%s: nothing to purge (%s)", it, reason)
		return nil
	}
	id := it.recordID
	if err := it.provider.DeleteRecord(ctx, id); err != nil {
		it.Destroy()
		return errors.Wrapf(err, "delete %s record %s", it, id)
	}
	it.logger.Infof("%s: record %s deleted (%s)", it, id, reason)
	it.Destroy()
	return nil
}

// Destroy forgets everything known about the provider side, the next
// reconcile starts with a fresh list call.
func (it *DdnsItem) Destroy() {
	it.recordID = ""
	it.ttl = 0
	it.proxied = false
	it.content = ""
	it.initialized = false
	it.exists = false
	it.reinitCounter = 0
}

func (it *DdnsItem) create(ctx context.Context, ip netip.Addr) (consts.UpdateStatusType, error) {
	rec, err := it.provider.CreateRecord(ctx, it.request(ip))
	if err != nil {
		it.Destroy()
		return consts.UpdatedFailed, errors.Wrapf(err, "create %s", it)
	}
	it.accept(rec)
	it.logger.Infof("%s: record %s created -> %s", it, it.recordID, it.content)
	return consts.UpdatedCreated, nil
}

func (it *DdnsItem) update(ctx context.Context, ip netip.Addr) (consts.UpdateStatusType, error) {
	old := it.content
	rec, err := it.provider.UpdateRecord(ctx, it.recordID, it.request(ip))
	if err != nil {
		it.Destroy()
		return consts.UpdatedFailed, errors.Wrapf(err, "update %s", it)
	}
	it.accept(rec)
	it.logger.Infof("%s: record %s updated %s -> %s", it, it.recordID, old, it.content)
	return consts.UpdatedSuccess, nil
}

func (it *DdnsItem) upToDate(ip netip.Addr) bool {
	p := it.domain.Properties
	if !sameAddr(it.content, ip) || it.proxied != p.Proxied {
		return false
	}
	return !p.TTLCheck || it.ttl == p.TTL
}

func (it *DdnsItem) request(ip netip.Addr) ddns.RecordRequest {
	p := it.domain.Properties
	return ddns.RecordRequest{
		Type:    it.typ,
		Name:    it.domain.Name,
		Content: ip.String(),
		TTL:     p.TTL,
		Proxied: p.Proxied,
		Comment: p.Comment,
	}
}

func (it *DdnsItem) accept(rec *ddns.Record) {
	if rec == nil {
		// the write went through but nothing came back, re-read next cycle
		it.Destroy()
		return
	}
	if !strings.EqualFold(strings.TrimSuffix(rec.Name, "."), it.domain.Name) {
		it.logger.Warnf("%s: provider answered for %q, check zoneId", it, rec.Name)
	}
	it.load(rec)
}

func (it *DdnsItem) load(rec *ddns.Record) {
	it.recordID = rec.ID
	it.ttl = rec.TTL
	it.proxied = rec.Proxied
	it.content = rec.Content
	it.initialized = true
	it.exists = true
	it.reinitCounter = 0
}

func sameAddr(content string, ip netip.Addr) bool {
	addr, err := netip.ParseAddr(strings.TrimSpace(content))
	if err != nil {
		return false
	}
	return addr.Unmap() == ip.Unmap()
}
