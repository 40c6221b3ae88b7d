package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port string `mapstructure:"port"`

	// Auth. Empty leaves /api open.
	APIKey string `mapstructure:"api_key"`

	// Input limits
	MaxUploadBytes int64 `mapstructure:"max_upload_bytes"`
	MaxTextBytes   int64 `mapstructure:"max_text_bytes"`

	// Annotation
	ParallelLineThreshold int `mapstructure:"parallel_line_threshold"`
	Workers               int `mapstructure:"workers"`

	// HTTP timeouts
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`

	// PDF uploads
	PDFFallbackPdftotext bool `mapstructure:"pdf_fallback_pdftotext"`

	// Page
	Title     string `mapstructure:"title"`
	Brand     string `mapstructure:"brand"`
	SourceURL string `mapstructure:"source_url"`
}

const (
	defaultMaxUploadBytes = 10 << 20
	defaultMaxTextBytes   = 2 << 20
)

// Load reads defaults, an optional TOML file named by PDBHL_CONFIG, and
// PDBHL_* environment overrides, in increasing priority.
func Load() (Config, error) {
	v := viper.New()

	v.SetDefault("port", "8090")
	v.SetDefault("api_key", "")
	v.SetDefault("max_upload_bytes", defaultMaxUploadBytes)
	v.SetDefault("max_text_bytes", defaultMaxTextBytes)
	v.SetDefault("parallel_line_threshold", 5000)
	v.SetDefault("workers", 4)
	v.SetDefault("read_timeout", 30*time.Second)
	v.SetDefault("write_timeout", 60*time.Second)
	v.SetDefault("idle_timeout", 60*time.Second)
	v.SetDefault("pdf_fallback_pdftotext", true)
	v.SetDefault("title", "PDB highlighting")
	v.SetDefault("brand", "PDB highlighter")
	v.SetDefault("source_url", "https://github.com/dgallion1/pdbhighlight")

	v.SetEnvPrefix("PDBHL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path := os.Getenv("PDBHL_CONFIG"); path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("toml")
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = defaultMaxUploadBytes
	}
	if cfg.MaxTextBytes <= 0 {
		cfg.MaxTextBytes = defaultMaxTextBytes
	}
	if cfg.ParallelLineThreshold <= 0 {
		cfg.ParallelLineThreshold = 5000
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = 30 * time.Second
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = 60 * time.Second
	}
	if cfg.IdleTimeout <= 0 {
		cfg.IdleTimeout = 60 * time.Second
	}

	return cfg, nil
}

func (c Config) Validate() error {
	if c.Port == "" {
		return errors.New("port is required")
	}
	if n, err := strconv.Atoi(c.Port); err != nil || n <= 0 || n > 65535 {
		return fmt.Errorf("invalid port %q", c.Port)
	}
	if c.MaxTextBytes > c.MaxUploadBytes {
		return fmt.Errorf("max_text_bytes (%d) exceeds max_upload_bytes (%d)", c.MaxTextBytes, c.MaxUploadBytes)
	}
	return nil
}
