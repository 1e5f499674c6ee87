package config

// Root is the base options to configure the service
type Root struct {
	Domains  []Domain        `mapstructure:"domains" json:"domains" yaml:"domains" toml:"domains"`
	Common   *Properties     `mapstructure:"common" json:"common,omitempty" yaml:"common,omitempty" toml:"common,omitempty"`
	Provider *ProviderConfig `mapstructure:"provider" json:"provider,omitempty" yaml:"provider,omitempty" toml:"provider,omitempty"`
	Log      *LogConfig      `mapstructure:"log" json:"log,omitempty" yaml:"log,omitempty" toml:"log,omitempty"`
	HTTP     *HTTPConfig     `mapstructure:"http" json:"http,omitempty" yaml:"http,omitempty" toml:"http,omitempty"`
	Metrics  *MetricsConfig  `mapstructure:"metrics" json:"metrics,omitempty" yaml:"metrics,omitempty" toml:"metrics,omitempty"`
	Schedule *ScheduleConfig `mapstructure:"schedule" json:"schedule,omitempty" yaml:"schedule,omitempty" toml:"schedule,omitempty"`
	Webhook  *WebhookConfig  `mapstructure:"webhook" json:"webhook,omitempty" yaml:"webhook,omitempty" toml:"webhook,omitempty"`
}

// Domain 域名实体
type Domain struct {
	Name       string      `mapstructure:"name" json:"name" yaml:"name" toml:"name"`
	Properties *Properties `mapstructure:"properties" json:"properties,omitempty" yaml:"properties,omitempty" toml:"properties,omitempty"`
}

// Properties every field is optional; unset fields fall back to common, then defaults.
type Properties struct {
	ZoneID     *string `mapstructure:"zoneId" json:"zoneId,omitempty" yaml:"zoneId,omitempty" toml:"zoneId,omitempty"`
	AuthKey    *string `mapstructure:"authKey" json:"authKey,omitempty" yaml:"authKey,omitempty" toml:"authKey,omitempty"`
	CheckURLV4 *string `mapstructure:"checkUrlV4" json:"checkUrlV4,omitempty" yaml:"checkUrlV4,omitempty" toml:"checkUrlV4,omitempty"`
	CheckURLV6 *string `mapstructure:"checkUrlV6" json:"checkUrlV6,omitempty" yaml:"checkUrlV6,omitempty" toml:"checkUrlV6,omitempty"`
	V4         *bool   `mapstructure:"v4" json:"v4,omitempty" yaml:"v4,omitempty" toml:"v4,omitempty"`
	V6         *bool   `mapstructure:"v6" json:"v6,omitempty" yaml:"v6,omitempty" toml:"v6,omitempty"`
	// TTL seconds
	TTL       *int    `mapstructure:"ttl" json:"ttl,omitempty" yaml:"ttl,omitempty" toml:"ttl,omitempty"`
	AutoPurge *bool   `mapstructure:"autoPurge" json:"autoPurge,omitempty" yaml:"autoPurge,omitempty" toml:"autoPurge,omitempty"`
	Proxied   *bool   `mapstructure:"proxied" json:"proxied,omitempty" yaml:"proxied,omitempty" toml:"proxied,omitempty"`
	TTLCheck  *bool   `mapstructure:"ttlCheck" json:"ttlCheck,omitempty" yaml:"ttlCheck,omitempty" toml:"ttlCheck,omitempty"`
	Comment   *string `mapstructure:"comment" json:"comment,omitempty" yaml:"comment,omitempty" toml:"comment,omitempty"`
	// ReInit 连续多少次未变化后重新向服务商查询记录, 0 表示不重新查询
	ReInit *int `mapstructure:"reInit" json:"reInit,omitempty" yaml:"reInit,omitempty" toml:"reInit,omitempty"`
}

type ProviderConfig struct {
	Name     string `mapstructure:"name" json:"name,omitempty" yaml:"name,omitempty" toml:"name,omitempty"`
	Endpoint string `mapstructure:"endpoint" json:"endpoint,omitempty" yaml:"endpoint,omitempty" toml:"endpoint,omitempty"`
}

type LogRotationConfig struct {
	// MaxSize is the maximum size in megabytes of the log file before it gets rotated.
	MaxSize int `mapstructure:"maxSize" json:"maxSize,omitempty" yaml:"maxSize,omitempty" toml:"maxSize,omitempty"`
	// MaxAge is the maximum number of days to retain old log files
	MaxAge int `mapstructure:"maxAge" json:"maxAge,omitempty" yaml:"maxAge,omitempty" toml:"maxAge,omitempty"`
	// MaxBackups is the maximum number of old log files to retain.
	MaxBackups int `mapstructure:"maxBackups" json:"maxBackups,omitempty" yaml:"maxBackups,omitempty" toml:"maxBackups,omitempty"`
	// LocalTime determines if the time used for formatting the timestamps in backup files is the computer's local time.
	LocalTime bool `mapstructure:"localTime" json:"localTime,omitempty" yaml:"localTime,omitempty" toml:"localTime,omitempty"`
	// Compress determines if the rotated log files should be compressed using gzip.
	Compress bool `mapstructure:"compress" json:"compress,omitempty" yaml:"compress,omitempty" toml:"compress,omitempty"`
}

type LogConfig struct {
	// stderr, stdout, /path/to/file
	Output   string             `mapstructure:"output" json:"output,omitempty" yaml:"output,omitempty" toml:"output,omitempty"`
	Level    string             `mapstructure:"level" json:"level,omitempty" yaml:"level,omitempty" toml:"level,omitempty"`
	Format   string             `mapstructure:"format" json:"format,omitempty" yaml:"format,omitempty" toml:"format,omitempty"`
	Rotation *LogRotationConfig `mapstructure:"rotation" json:"rotation,omitempty" yaml:"rotation,omitempty" toml:"rotation,omitempty"`
}

type HTTPConfig struct {
	Timeout      string `mapstructure:"timeout" json:"timeout,omitempty" yaml:"timeout,omitempty" toml:"timeout,omitempty"`
	Retries      int    `mapstructure:"retries" json:"retries,omitempty" yaml:"retries,omitempty" toml:"retries,omitempty"`
	RetryWaitMin string `mapstructure:"retryWaitMin" json:"retryWaitMin,omitempty" yaml:"retryWaitMin,omitempty" toml:"retryWaitMin,omitempty"`
	RetryWaitMax string `mapstructure:"retryWaitMax" json:"retryWaitMax,omitempty" yaml:"retryWaitMax,omitempty" toml:"retryWaitMax,omitempty"`
}

type MetricsConfig struct {
	Listen string `mapstructure:"listen" json:"listen,omitempty" yaml:"listen,omitempty" toml:"listen,omitempty"`
	Path   string `mapstructure:"path" json:"path,omitempty" yaml:"path,omitempty" toml:"path,omitempty"`
}

type ScheduleConfig struct {
	// Jitter adds up to jitter*ttl of random delay between cycles, 0..1
	Jitter float64 `mapstructure:"jitter" json:"jitter,omitempty" yaml:"jitter,omitempty" toml:"jitter,omitempty"`
}

// WebhookConfig Webhook
type WebhookConfig struct {
	URL         string `mapstructure:"url" json:"url,omitempty" yaml:"url,omitempty" toml:"url,omitempty"`
	RequestBody string `mapstructure:"requestBody" json:"requestBody,omitempty" yaml:"requestBody,omitempty" toml:"requestBody,omitempty"`
	// one "Key: Value" per line
	Headers string `mapstructure:"headers" json:"headers,omitempty" yaml:"headers,omitempty" toml:"headers,omitempty"`
}
