package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds the application configuration loaded from files and environment variables.
type Config struct {
	AppName  string `mapstructure:"app_name"`
	Env      string `mapstructure:"app_env"`
	LogLevel string `mapstructure:"log_level"`

	Endpoint              string        `mapstructure:"sdi_endpoint"`
	Username              string        `mapstructure:"sdi_username"`
	APIToken              string        `mapstructure:"sdi_api_token"`
	TimeoutSeconds        int64         `mapstructure:"sdi_timeout_seconds"`
	ConnectTimeoutSeconds int64         `mapstructure:"sdi_connect_timeout_seconds"`
	InsecureSkipVerify    bool          `mapstructure:"sdi_insecure_skip_verify"`
	Timeout               time.Duration `mapstructure:"-"`
	ConnectTimeout        time.Duration `mapstructure:"-"`

	PublishersFile      string        `mapstructure:"publishers_file"`
	PollIntervalSeconds int64         `mapstructure:"poll_interval"`
	PollInterval        time.Duration `mapstructure:"-"`

	StorageType            string        `mapstructure:"storage_type"`
	BBoltPath              string        `mapstructure:"bbolt_path"`
	StorageTTLSeconds      int64         `mapstructure:"storage_ttl_seconds"`
	StorageCleanupSeconds  int64         `mapstructure:"storage_cleanup_interval_seconds"`
	StorageTTL             time.Duration `mapstructure:"-"`
	StorageCleanupInterval time.Duration `mapstructure:"-"`
}

// Redacted returns a copy safe to log.
func (c Config) Redacted() Config {
	if c.APIToken != "" {
		c.APIToken = "***"
	}
	return c
}

// Load reads configuration from environment variables and config files.
func Load() (*Config, error) {
	_ = godotenv.Load("configs/.env")
	return load(viper.New())
}

// LoadWithFlags is Load with command-line flags layered over the
// environment. bindings maps config keys to flag names; flags absent from
// the set are ignored.
func LoadWithFlags(flags *pflag.FlagSet, bindings map[string]string) (*Config, error) {
	_ = godotenv.Load("configs/.env")
	v := viper.New()
	if flags != nil {
		for key, name := range bindings {
			flag := flags.Lookup(name)
			if flag == nil {
				continue
			}
			if err := v.BindPFlag(key, flag); err != nil {
				return nil, fmt.Errorf("bind flag %s: %w", name, err)
			}
		}
	}
	return load(v)
}

func load(v *viper.Viper) (*Config, error) {
	v.SetDefault("app_name", "sdi-client")
	v.SetDefault("app_env", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("sdi_endpoint", "")
	v.SetDefault("sdi_username", "")
	v.SetDefault("sdi_api_token", "")
	v.SetDefault("sdi_timeout_seconds", 3600)
	v.SetDefault("sdi_connect_timeout_seconds", 120)
	v.SetDefault("sdi_insecure_skip_verify", false)
	v.SetDefault("publishers_file", "./configs/publishers.yaml")
	v.SetDefault("poll_interval", 300) // seconds
	v.SetDefault("storage_type", "bbolt")
	v.SetDefault("bbolt_path", "./data/relay.db")
	v.SetDefault("storage_ttl_seconds", int64((90*24*time.Hour)/time.Second))
	v.SetDefault("storage_cleanup_interval_seconds", int64((12*time.Hour)/time.Second))

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.Endpoint = strings.TrimSpace(cfg.Endpoint)
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("sdi_endpoint is required")
	}
	if strings.TrimSpace(cfg.Username) == "" || strings.TrimSpace(cfg.APIToken) == "" {
		return nil, fmt.Errorf("sdi_username and sdi_api_token are required")
	}

	if cfg.TimeoutSeconds <= 0 {
		return nil, fmt.Errorf("invalid sdi_timeout_seconds (must be positive seconds)")
	}
	if cfg.ConnectTimeoutSeconds <= 0 {
		return nil, fmt.Errorf("invalid sdi_connect_timeout_seconds (must be positive seconds)")
	}
	cfg.Timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	cfg.ConnectTimeout = time.Duration(cfg.ConnectTimeoutSeconds) * time.Second

	if cfg.PollIntervalSeconds <= 0 {
		return nil, fmt.Errorf("invalid poll_interval (must be positive seconds)")
	}
	cfg.PollInterval = time.Duration(cfg.PollIntervalSeconds) * time.Second

	if cfg.StorageTTLSeconds <= 0 {
		return nil, fmt.Errorf("invalid storage_ttl_seconds (must be positive seconds)")
	}
	if cfg.StorageCleanupSeconds <= 0 {
		return nil, fmt.Errorf("invalid storage_cleanup_interval_seconds (must be positive seconds)")
	}
	cfg.StorageTTL = time.Duration(cfg.StorageTTLSeconds) * time.Second
	cfg.StorageCleanupInterval = time.Duration(cfg.StorageCleanupSeconds) * time.Second

	return &cfg, nil
}
