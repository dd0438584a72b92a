// Package config loads fxreport settings from flags, environment, a .env
// file and an optional yaml config file, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/tsiemens/fxreport/app/outfmt"
	"github.com/tsiemens/fxreport/fx"
	"github.com/tsiemens/fxreport/log"
)

const (
	EnvPrefix = "FXREPORT"
	// Searched for in the working directory, then the home directory.
	ConfigName = ".fxreport"

	KeyProviders   = "providers"
	KeyOutDir      = "out_dir"
	KeyFormat      = "format"
	KeyTimeout     = "timeout"
	KeyParallel    = "parallel"
	KeyPreview     = "preview"
	KeyLogLevel    = "log_level"
	KeyLogFormat   = "log_format"
	KeyMetricsAddr = "metrics_addr"
	// Map of provider ID to API endpoint, overriding the built in ones.
	KeyBaseURLs = "base_urls"
)

// DefaultProviders is the column order used when none is configured.
var DefaultProviders = []string{
	string(fx.Instarem),
	string(fx.CurrencyFair),
	string(fx.TransferGo),
	string(fx.Xendpay),
	string(fx.Wise),
}

var ErrInvalidConfig = errors.New("invalid configuration")

type Config struct {
	Providers   []string
	OutDir      string
	Format      outfmt.Format
	Timeout     time.Duration
	Parallel    int
	Preview     bool
	LogLevel    string
	LogFormat   string
	MetricsAddr string
	BaseURLs    map[fx.ProviderID]string

	// File is the config file that was read, or "" if there was none.
	File string
}

// New returns a viper instance with defaults and environment lookup set
// up. Flags may be bound to it before calling Load.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault(KeyProviders, DefaultProviders)
	v.SetDefault(KeyOutDir, ".")
	v.SetDefault(KeyFormat, string(outfmt.XLSX))
	v.SetDefault(KeyTimeout, fx.DefaultTimeout)
	v.SetDefault(KeyParallel, 0)
	v.SetDefault(KeyPreview, false)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, log.FormatText)
	v.SetDefault(KeyMetricsAddr, "")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// LoadDotEnv adds the variables of the given .env files (default ".env")
// to the environment. Missing files are ignored and existing variables are
// not overridden.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

// Load reads cfgFile, or searches for ConfigName if it is empty, and builds
// a validated Config from v.
func Load(v *viper.Viper, cfgFile string) (*Config, error) {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(ConfigName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	format, err := outfmt.ParseFormat(v.GetString(KeyFormat))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	cfg := &Config{
		Providers:   splitList(v.GetStringSlice(KeyProviders)),
		OutDir:      v.GetString(KeyOutDir),
		Format:      format,
		Timeout:     v.GetDuration(KeyTimeout),
		Parallel:    v.GetInt(KeyParallel),
		Preview:     v.GetBool(KeyPreview),
		LogLevel:    v.GetString(KeyLogLevel),
		LogFormat:   strings.ToLower(v.GetString(KeyLogFormat)),
		MetricsAddr: v.GetString(KeyMetricsAddr),
		BaseURLs:    baseURLs(v.GetStringMapString(KeyBaseURLs)),
		File:        v.ConfigFileUsed(),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch {
	case len(c.Providers) == 0:
		return fmt.Errorf("%w: no providers selected", ErrInvalidConfig)
	case c.OutDir == "":
		return fmt.Errorf("%w: %s is empty", ErrInvalidConfig, KeyOutDir)
	case c.Timeout <= 0:
		return fmt.Errorf("%w: %s must be positive, got %s", ErrInvalidConfig, KeyTimeout, c.Timeout)
	case c.Parallel < 0:
		return fmt.Errorf("%w: %s must not be negative, got %d", ErrInvalidConfig, KeyParallel, c.Parallel)
	case c.LogFormat != log.FormatJSON && c.LogFormat != log.FormatText:
		return fmt.Errorf("%w: %s must be %s or %s, got %q",
			ErrInvalidConfig, KeyLogFormat, log.FormatJSON, log.FormatText, c.LogFormat)
	}
	return nil
}

// splitList flattens comma separated entries, as given through the
// environment, into one list.
func splitList(vals []string) []string {
	var out []string
	for _, v := range vals {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func baseURLs(raw map[string]string) map[fx.ProviderID]string {
	urls := make(map[fx.ProviderID]string, len(raw))
	for id, u := range raw {
		urls[fx.ProviderID(strings.ToLower(id))] = u
	}
	return urls
}
