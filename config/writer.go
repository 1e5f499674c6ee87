package config

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Generate builds the single-domain configuration used by -gen.
func Generate(domain, zoneID, authKey string, v4, v6 bool) *Root {
	var (
		autoPurge = false
		proxied   = false
		ttlCheck  = true
		reInit    = 1
	)
	return &Root{
		Domains: []Domain{{Name: strings.ToLower(strings.TrimSpace(domain))}},
		Common: &Properties{
			ZoneID:    &zoneID,
			AuthKey:   &authKey,
			V4:        &v4,
			V6:        &v6,
			AutoPurge: &autoPurge,
			Proxied:   &proxied,
			TTLCheck:  &ttlCheck,
			ReInit:    &reInit,
		},
	}
}

// Write encodes the configuration in the given format (json, yaml or toml).
func (r *Root) Write(w io.Writer, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return errors.Wrap(enc.Encode(r), "encode json")
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return errors.Wrap(err, "encode yaml")
		}
		return errors.Wrap(enc.Close(), "encode yaml")
	case "toml":
		return errors.Wrap(toml.NewEncoder(w).Encode(r), "encode toml")
	default:
		return configErrorf("not supported file type: %s", format)
	}
}

// SaveConfig 保存配置, 格式由扩展名决定
func (r *Root) SaveConfig(path string) error {
	typ, err := FileType(path)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := r.Write(&buf, typ); err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return errors.Wrapf(err, "create %s", dir)
		}
	}
	return errors.Wrapf(os.WriteFile(path, buf.Bytes(), 0600), "write %s", path)
}
