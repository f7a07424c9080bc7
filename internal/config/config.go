// internal/config/config.go
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Catalog sources.
const (
	CatalogFile     = "file"
	CatalogPostgres = "postgres"
)

// Config holds the server settings. Values come from defaults, an optional
// config file and SANCTUM_* environment variables, in increasing priority.
type Config struct {
	ListenAddr       string        `mapstructure:"listen_addr"`
	CatalogSource    string        `mapstructure:"catalog_source"`
	CatalogPath      string        `mapstructure:"catalog_path"`
	DatabaseURL      string        `mapstructure:"database_url"`
	RedisAddr        string        `mapstructure:"redis_addr"`
	RedisDB          int           `mapstructure:"redis_db"`
	JournalQueue     string        `mapstructure:"journal_queue"`
	HandshakeTimeout time.Duration `mapstructure:"handshake_timeout"`
	WriteTimeout     time.Duration `mapstructure:"write_timeout"`
	PingInterval     time.Duration `mapstructure:"ping_interval"`
	SendBuffer       int           `mapstructure:"send_buffer"`
	LogLevel         string        `mapstructure:"log_level"`

	// Historian settings.
	HistorianBatchSize  int           `mapstructure:"historian_batch_size"`
	HistorianFlushDelay time.Duration `mapstructure:"historian_flush_delay"`
	MatchInactivity     time.Duration `mapstructure:"match_inactivity"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("listen_addr", ":8080")
	v.SetDefault("catalog_source", CatalogFile)
	v.SetDefault("catalog_path", "assets/cards.json")
	v.SetDefault("database_url", "")
	v.SetDefault("redis_addr", "")
	v.SetDefault("redis_db", 0)
	v.SetDefault("journal_queue", "sanctum_actions")
	v.SetDefault("handshake_timeout", 10*time.Second)
	v.SetDefault("write_timeout", 5*time.Second)
	v.SetDefault("ping_interval", 15*time.Second)
	v.SetDefault("send_buffer", 64)
	v.SetDefault("log_level", "info")
	v.SetDefault("historian_batch_size", 20)
	v.SetDefault("historian_flush_delay", 500*time.Millisecond)
	v.SetDefault("match_inactivity", 10*time.Minute)
}

// Load reads the configuration. An empty path skips the config file.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("SANCTUM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the server cannot start with.
func (c *Config) Validate() error {
	switch c.CatalogSource {
	case CatalogFile:
		if c.CatalogPath == "" {
			return fmt.Errorf("catalog_path is required for the file catalog source")
		}
	case CatalogPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("database_url is required for the postgres catalog source")
		}
	default:
		return fmt.Errorf("unknown catalog_source %q", c.CatalogSource)
	}
	if c.HandshakeTimeout <= 0 {
		return fmt.Errorf("handshake_timeout must be positive")
	}
	return nil
}
