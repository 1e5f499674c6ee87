package config

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"github.com/tailscale/hujson"
)

const ConfigFilePathENV = "DDNS_CONFIG_FILE_PATH"

// fileTypes maps a file extension to the viper decoder used for it.
var fileTypes = map[string]string{
	"json":  "json",
	"json5": "json",
	"yaml":  "yaml",
	"yml":   "yaml",
	"toml":  "toml",
}

// GetConfigFilePath 获得配置文件路径, 命令行优先, 其次环境变量
func GetConfigFilePath(path string) string {
	if path != "" {
		return path
	}
	return os.Getenv(ConfigFilePathENV)
}

// FileType returns the configuration format for path, judged by extension.
func FileType(path string) (string, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	if typ, ok := fileTypes[ext]; ok {
		return typ, nil
	}
	return "", configErrorf("not supported file type: %s", path)
}

// Load reads and decodes the configuration file at path.
func Load(path string) (*Root, error) {
	if path == "" {
		return nil, ErrNoConfigFile
	}
	v, err := newViper(path)
	if err != nil {
		return nil, err
	}
	if err := readConfig(v, path); err != nil {
		return nil, err
	}
	return decode(v)
}

// readConfig loads path into v. JSON files may carry comments and trailing
// commas, they are standardized before viper decodes them.
func readConfig(v *viper.Viper, path string) error {
	typ, err := FileType(path)
	if err != nil {
		return err
	}
	if typ != "json" {
		if err := v.ReadInConfig(); err != nil {
			return configErrorf("read configuration %s: %v", path, err)
		}
		return nil
	}
	byt, err := os.ReadFile(path)
	if err != nil {
		return configErrorf("read configuration %s: %v", path, err)
	}
	if byt, err = hujson.Standardize(byt); err != nil {
		return configErrorf("read configuration %s: %v", path, err)
	}
	if err := v.ReadConfig(bytes.NewReader(byt)); err != nil {
		return configErrorf("read configuration %s: %v", path, err)
	}
	return nil
}

func newViper(path string) (*viper.Viper, error) {
	typ, err := FileType(path)
	if err != nil {
		return nil, err
	}
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType(typ)
	return v, nil
}

func decode(v *viper.Viper) (*Root, error) {
	root := &Root{}
	if err := v.Unmarshal(root); err != nil {
		return nil, configErrorf("parse configuration %s: %v", v.ConfigFileUsed(), err)
	}
	return root, nil
}

// Hash fingerprints everything a running service is built from, so a reload
// only restarts it when something relevant changed.
func Hash(root *Root, settings []DomainSetting) string {
	byt, _ := json.Marshal(struct {
		Settings []DomainSetting `json:"settings"`
		Provider *ProviderConfig `json:"provider"`
		HTTP     *HTTPConfig     `json:"http"`
		Schedule *ScheduleConfig `json:"schedule"`
		Webhook  *WebhookConfig  `json:"webhook"`
	}{settings, root.Provider, root.HTTP, root.Schedule, root.Webhook})
	sum := sha256.Sum256(byt)
	return hex.EncodeToString(sum[:])
}
