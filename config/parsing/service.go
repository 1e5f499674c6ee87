package parsing

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/jxo-me/cfddns/config"
	"github.com/jxo-me/cfddns/consts"
	"github.com/jxo-me/cfddns/core/ddns"
	"github.com/jxo-me/cfddns/core/logger"
	iResolver "github.com/jxo-me/cfddns/core/resolver"
	"github.com/jxo-me/cfddns/sdk/ddns/cloudflare"
	"github.com/jxo-me/cfddns/sdk/hook"
	"github.com/jxo-me/cfddns/sdk/metrics"
	"github.com/jxo-me/cfddns/sdk/resolver"
	xservice "github.com/jxo-me/cfddns/sdk/service"
	"github.com/pkg/errors"
)

// Options shared collaborators handed to every provider and resolver.
type Options struct {
	Client  *http.Client
	Logger  logger.ILogger
	Metrics *metrics.Metrics
}

// ProviderBuilder creates the client for one zone.
type ProviderBuilder func(setting config.DomainSetting, endpoint string, opts Options) ddns.IProvider

var (
	DDNS = map[string]ProviderBuilder{
		cloudflare.Code: func(setting config.DomainSetting, endpoint string, opts Options) ddns.IProvider {
			return cloudflare.New(setting.Properties.ZoneID, setting.Properties.AuthKey,
				cloudflare.WithEndpoint(endpoint),
				cloudflare.WithHTTPClient(opts.Client),
				cloudflare.WithLogger(opts.Logger),
				cloudflare.WithMetrics(opts.Metrics),
			)
		},
	}
)

// ProviderName returns the configured provider code, cloudflare when unset.
func ProviderName(cfg *config.ProviderConfig) string {
	if cfg == nil || strings.TrimSpace(cfg.Name) == "" {
		return consts.DefaultProvider
	}
	return strings.ToLower(strings.TrimSpace(cfg.Name))
}

// ParseProviderFactory looks the provider up by code and returns a factory
// building one client per zone credentials.
func ParseProviderFactory(cfg *config.ProviderConfig, opts Options) (xservice.ProviderFactory, error) {
	name := ProviderName(cfg)
	build, ok := DDNS[name]
	if !ok {
		return nil, errors.WithStack(&config.ConfigError{Msg: fmt.Sprintf("dns provider %q not supported", name)})
	}
	var endpoint string
	if cfg != nil {
		endpoint = cfg.Endpoint
	}
	return func(setting config.DomainSetting) (ddns.IProvider, error) {
		return build(setting, endpoint, opts), nil
	}, nil
}

// ParseResolverFactory builds IP resolvers sharing the given http client.
func ParseResolverFactory(opts Options) xservice.ResolverFactory {
	return func(checkURL string, typ consts.RecordType) (iResolver.IResolver, error) {
		return resolver.New(checkURL, typ, opts.Client)
	}
}

// ParseScheduler wires a scheduler for the resolved settings of root.
func ParseScheduler(root *config.Root, settings []config.DomainSetting, opts Options, schedOpts ...xservice.SchedulerOption) (*xservice.Scheduler, error) {
	providers, err := ParseProviderFactory(root.Provider, opts)
	if err != nil {
		return nil, err
	}
	schedOpts = append([]xservice.SchedulerOption{
		xservice.WithLogger(opts.Logger),
		xservice.WithMetrics(opts.Metrics),
	}, schedOpts...)
	if root.Schedule != nil {
		schedOpts = append(schedOpts, xservice.WithJitter(root.Schedule.Jitter))
	}
	if root.Webhook != nil && root.Webhook.URL != "" {
		h := hook.NewHook(root.Webhook.URL, root.Webhook.RequestBody, root.Webhook.Headers, opts.Client, opts.Logger)
		schedOpts = append(schedOpts, xservice.WithHook(h))
	}
	return xservice.NewScheduler(settings, providers, ParseResolverFactory(opts), schedOpts...)
}

// ParseService builds the long running service for root.
func ParseService(root *config.Root, settings []config.DomainSetting, opts Options, schedOpts ...xservice.SchedulerOption) (*xservice.DDNSService, error) {
	s, err := ParseScheduler(root, settings, opts, schedOpts...)
	if err != nil {
		return nil, err
	}
	return xservice.NewDDNS(consts.DefaultDDNSName, config.Hash(root, settings), s, opts.Logger), nil
}
