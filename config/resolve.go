package config

import (
	"os"
	"strings"

	"github.com/jxo-me/cfddns/consts"
	"github.com/jxo-me/cfddns/core/logger"
)

// Resolve materialises every domain: the domain value wins, then common,
// then the built-in default.
func (r *Root) Resolve(log logger.ILogger) ([]DomainSetting, error) {
	if log == nil {
		log = logger.Default()
	}
	if len(r.Domains) == 0 {
		return nil, configErrorf("no domains configured")
	}
	common := r.Common
	if common == nil {
		common = &Properties{}
	}

	seen := make(map[string]struct{}, len(r.Domains))
	settings := make([]DomainSetting, 0, len(r.Domains))
	for i, d := range r.Domains {
		name := strings.ToLower(strings.TrimSpace(d.Name))
		if name == "" {
			return nil, configErrorf("domain #%d has no name", i+1)
		}
		if _, ok := seen[name]; ok {
			log.Warnf("domain %s is configured more than once", name)
		}
		seen[name] = struct{}{}

		props, err := resolveProperties(name, d.Properties, common, log)
		if err != nil {
			return nil, err
		}
		settings = append(settings, DomainSetting{Name: name, Properties: props})
	}
	return settings, nil
}

func resolveProperties(name string, p, common *Properties, log logger.ILogger) (ResolvedProperties, error) {
	if p == nil {
		p = &Properties{}
	}
	var rp ResolvedProperties

	rp.ZoneID = os.ExpandEnv(pick(p.ZoneID, common.ZoneID, ""))
	if rp.ZoneID == "" {
		return rp, configErrorf("no zoneId specified for %s", name)
	}
	rp.AuthKey = os.ExpandEnv(pick(p.AuthKey, common.AuthKey, ""))
	if rp.AuthKey == "" {
		return rp, configErrorf("no authKey specified for %s", name)
	}

	rp.CheckURLV4 = pick(p.CheckURLV4, common.CheckURLV4, consts.DefaultCheckURLV4)
	rp.CheckURLV6 = pick(p.CheckURLV6, common.CheckURLV6, consts.DefaultCheckURLV6)
	rp.V4 = pick(p.V4, common.V4, true)
	rp.V6 = pick(p.V6, common.V6, false)
	rp.AutoPurge = pick(p.AutoPurge, common.AutoPurge, false)
	rp.Proxied = pick(p.Proxied, common.Proxied, false)
	rp.TTLCheck = pick(p.TTLCheck, common.TTLCheck, false)
	rp.Comment = pick(p.Comment, common.Comment, "")

	rp.TTL = pick(p.TTL, common.TTL, consts.DefaultTTL)
	if rp.TTL <= 0 {
		return rp, configErrorf("ttl of %s must be positive, got %d", name, rp.TTL)
	}
	rp.ReInit = pick(p.ReInit, common.ReInit, defaultReInit(rp.TTL))
	if rp.ReInit < 0 {
		return rp, configErrorf("reInit of %s must not be negative, got %d", name, rp.ReInit)
	}

	// proxied records always report the provider's automatic ttl
	if rp.Proxied && rp.TTLCheck {
		log.Warnf("ttlCheck is disabled for %s because the record is proxied", name)
		rp.TTLCheck = false
	}
	if !rp.V4 && !rp.V6 {
		log.Warnf("neither v4 nor v6 is enabled for %s", name)
	}
	return rp, nil
}

func defaultReInit(ttl int) int {
	if n := consts.ReInitWindow / ttl; n > 1 {
		return n
	}
	return 1
}

func pick[T any](v, common *T, def T) T {
	if v != nil {
		return *v
	}
	if common != nil {
		return *common
	}
	return def
}
