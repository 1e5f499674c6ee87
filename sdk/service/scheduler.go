package service

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/jxo-me/cfddns/config"
	"github.com/jxo-me/cfddns/consts"
	"github.com/jxo-me/cfddns/core/ddns"
	"github.com/jxo-me/cfddns/core/hook"
	"github.com/jxo-me/cfddns/core/logger"
	iResolver "github.com/jxo-me/cfddns/core/resolver"
	"github.com/jxo-me/cfddns/sdk/metrics"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// ProviderFactory creates the provider client serving a domain.
type ProviderFactory func(setting config.DomainSetting) (ddns.IProvider, error)

// ResolverFactory creates the IP resolver for a check url.
type ResolverFactory func(checkURL string, typ consts.RecordType) (iResolver.IResolver, error)

// Scheduler drives one repeating task per group plus the auto purge tasks.
type Scheduler struct {
	settings  []config.DomainSetting
	newProv   ProviderFactory
	providers map[string]ddns.IProvider
	groups    []*Group
	purges    []*DdnsItem
	hook      hook.IHook
	logger    logger.ILogger
	metrics   *metrics.Metrics
	unit      time.Duration
	jitter    float64
}

type SchedulerOption func(s *Scheduler)

func WithLogger(log logger.ILogger) SchedulerOption {
	return func(s *Scheduler) {
		if log != nil {
			s.logger = log
		}
	}
}

func WithMetrics(m *metrics.Metrics) SchedulerOption {
	return func(s *Scheduler) {
		s.metrics = m
	}
}

// WithHook notifies h after every cycle that wrote or failed to write records.
func WithHook(h hook.IHook) SchedulerOption {
	return func(s *Scheduler) {
		s.hook = h
	}
}

// WithUnit sets the duration of one ttl step, time.Second by default.
func WithUnit(unit time.Duration) SchedulerOption {
	return func(s *Scheduler) {
		if unit > 0 {
			s.unit = unit
		}
	}
}

// WithJitter adds a random delay of up to jitter*ttl to every wait, 0..1.
func WithJitter(jitter float64) SchedulerOption {
	return func(s *Scheduler) {
		switch {
		case jitter < 0:
			s.jitter = 0
		case jitter > 1:
			s.jitter = 1
		default:
			s.jitter = jitter
		}
	}
}

// NewScheduler builds the groups for settings. The settings slice is kept
// and must not be modified afterwards.
func NewScheduler(settings []config.DomainSetting, providers ProviderFactory, resolvers ResolverFactory, opts ...SchedulerOption) (*Scheduler, error) {
	s := &Scheduler{
		settings:  settings,
		newProv:   providers,
		providers: make(map[string]ddns.IProvider),
		logger:    logger.Default(),
		unit:      time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.buildGroups(resolvers); err != nil {
		return nil, err
	}
	for i := range s.settings {
		d := &s.settings[i]
		if typ, ok := d.PurgeType(); ok {
			it, err := s.newItem(d, typ)
			if err != nil {
				return nil, err
			}
			s.purges = append(s.purges, it)
		}
	}
	return s, nil
}

func (s *Scheduler) Groups() []*Group       { return s.groups }
func (s *Scheduler) AutoPurges() []*DdnsItem { return s.purges }

// buildGroups orders groups by first appearance of the ttl, A before AAAA,
// then first appearance of the check url.
func (s *Scheduler) buildGroups(resolvers ResolverFactory) error {
	var ttls []int
	seen := make(map[int]bool)
	for _, d := range s.settings {
		if !seen[d.Properties.TTL] {
			seen[d.Properties.TTL] = true
			ttls = append(ttls, d.Properties.TTL)
		}
	}

	shared := make(map[string]iResolver.IResolver)
	for _, ttl := range ttls {
		for _, typ := range consts.RecordTypes {
			byURL := make(map[string]*Group)
			for i := range s.settings {
				d := &s.settings[i]
				if d.Properties.TTL != ttl || !d.Enabled(typ) {
					continue
				}
				checkURL := d.CheckURL(typ)
				g, ok := byURL[checkURL]
				if !ok {
					key := string(typ) + " " + checkURL
					r, ok := shared[key]
					if !ok {
						var err error
						if r, err = resolvers(checkURL, typ); err != nil {
							return errors.WithStack(&config.ConfigError{Msg: fmt.Sprintf("%s: %v", d.Name, err)})
						}
						shared[key] = r
					}
					g = newGroup(typ, ttl, checkURL, r, s.logger, s.metrics)
					g.hook = s.hook
					byURL[checkURL] = g
					s.groups = append(s.groups, g)
				}
				it, err := s.newItem(d, typ)
				if err != nil {
					return err
				}
				g.items = append(g.items, it)
			}
		}
	}
	return nil
}

func (s *Scheduler) newItem(d *config.DomainSetting, typ consts.RecordType) (*DdnsItem, error) {
	key := d.ProviderKey()
	p, ok := s.providers[key]
	if !ok {
		var err error
		if p, err = s.newProv(*d); err != nil {
			return nil, errors.Wrapf(err, "provider for %s", d.Name)
		}
		s.providers[key] = p
	}
	return NewDdnsItem(d, typ, p,
		WithItemLogger(s.logger),
		WithItemMetrics(s.metrics),
		WithRetryUnit(s.unit),
	), nil
}

// Run runs every group immediately and then once per ttl until ctx is done.
func (s *Scheduler) Run(ctx context.Context) error {
	if len(s.groups) == 0 && len(s.purges) == 0 {
		s.logger.Warn("no record type enabled for any domain, nothing to do")
	}
	eg, ctx := errgroup.WithContext(ctx)
	for _, g := range s.groups {
		g := g
		s.logger.Infof("scheduling %s for %d domain(s) every %ds", g.typ, len(g.items), g.ttl)
		eg.Go(func() error {
			s.loop(ctx, g)
			return nil
		})
	}
	s.autoPurge(ctx, eg, true)
	return eg.Wait()
}

// RunOnce runs a single pass of every group and auto purge, concurrently.
func (s *Scheduler) RunOnce(ctx context.Context) error {
	eg, ctx := errgroup.WithContext(ctx)
	for _, g := range s.groups {
		g := g
		eg.Go(func() error {
			_ = g.RunCycle(ctx)
			return nil
		})
	}
	s.autoPurge(ctx, eg, false)
	return eg.Wait()
}

func (s *Scheduler) loop(ctx context.Context, g *Group) {
	for {
		_ = g.RunCycle(ctx)

		timer := time.NewTimer(s.wait(g.ttl))
		select {
		case <-ctx.Done():
			timer.Stop()
			s.logger.Debugf("%s stopped", g)
			return
		case <-timer.C:
		}
	}
}

func (s *Scheduler) wait(ttl int) time.Duration {
	d := time.Duration(ttl) * s.unit
	if s.jitter > 0 {
		d += time.Duration(rand.Float64() * s.jitter * float64(d))
	}
	return d
}
