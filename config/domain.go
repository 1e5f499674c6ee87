package config

import (
	"fmt"

	"github.com/jxo-me/cfddns/consts"
)

// ResolvedProperties Properties with every field materialised
type ResolvedProperties struct {
	ZoneID     string `json:"zoneId"`
	AuthKey    string `json:"authKey"`
	CheckURLV4 string `json:"checkUrlV4"`
	CheckURLV6 string `json:"checkUrlV6"`
	V4         bool   `json:"v4"`
	V6         bool   `json:"v6"`
	TTL        int    `json:"ttl"`
	AutoPurge  bool   `json:"autoPurge"`
	Proxied    bool   `json:"proxied"`
	TTLCheck   bool   `json:"ttlCheck"`
	Comment    string `json:"comment"`
	ReInit     int    `json:"reInit"`
}

// DomainSetting 解析后的域名配置
type DomainSetting struct {
	Name       string             `json:"name"`
	Properties ResolvedProperties `json:"properties"`
}

func (d DomainSetting) String() string {
	return d.Name
}

// Enabled reports whether updates for typ are switched on.
func (d DomainSetting) Enabled(typ consts.RecordType) bool {
	switch typ {
	case consts.RecordTypeA:
		return d.Properties.V4
	case consts.RecordTypeAAAA:
		return d.Properties.V6
	}
	return false
}

// CheckURL returns the IP lookup endpoint for typ.
func (d DomainSetting) CheckURL(typ consts.RecordType) string {
	if typ == consts.RecordTypeAAAA {
		return d.Properties.CheckURLV6
	}
	return d.Properties.CheckURLV4
}

// PurgeType returns the record type to clean up when autoPurge is on and
// exactly one of A/AAAA is enabled.
func (d DomainSetting) PurgeType() (consts.RecordType, bool) {
	p := d.Properties
	if !p.AutoPurge || p.V4 == p.V6 {
		return "", false
	}
	if p.V4 {
		return consts.RecordTypeAAAA, true
	}
	return consts.RecordTypeA, true
}

// ProviderKey identifies the credentials a provider client is built from.
func (d DomainSetting) ProviderKey() string {
	return fmt.Sprintf("%s\x00%s", d.Properties.ZoneID, d.Properties.AuthKey)
}
