package config

import (
	"errors"
	"fmt"
	"net/netip"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g. SITEAUDIT_PORT
const EnvPrefix = "SITEAUDIT"

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	Port      int     `mapstructure:"port"`       // HTTP server port
	RateLimit float64 `mapstructure:"rate_limit"` // Requests per second per client IP, 0 disables
	RateBurst int     `mapstructure:"rate_burst"`
	// Proxies (IPs or CIDRs) whose X-Forwarded-For is honored
	TrustedProxies []string `mapstructure:"trusted_proxies"`

	// Checker configuration
	RequestTimeout    time.Duration `mapstructure:"request_timeout"` // Page fetch timeout
	ProbeTimeout      time.Duration `mapstructure:"probe_timeout"`   // HEAD header probe timeout
	ReputationTimeout time.Duration `mapstructure:"reputation_timeout"`
	MaxRedirects      int           `mapstructure:"max_redirects"`
	MaxBodyBytes      int64         `mapstructure:"max_body_bytes"`
	UserAgent         string        `mapstructure:"user_agent"`

	LogLevel string `mapstructure:"log_level"`

	// Storage and admin
	RedisURL          string        `mapstructure:"redis_url"` // empty keeps sessions and events in memory
	AdminPasswordHash string        `mapstructure:"admin_password_hash"`
	SessionTTL        time.Duration `mapstructure:"session_ttl"`

	Reputation ReputationConfig `mapstructure:"reputation"`
}

// ReputationConfig selects the reputation sources consulted per analysis
type ReputationConfig struct {
	APIURL     string   `mapstructure:"api_url"`
	DNSBLZones []string `mapstructure:"dnsbl_zones"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", 8080)
	v.SetDefault("rate_limit", 2.0)
	v.SetDefault("rate_burst", 5)
	v.SetDefault("trusted_proxies", []string{})
	v.SetDefault("request_timeout", 15*time.Second)
	v.SetDefault("probe_timeout", 5*time.Second)
	v.SetDefault("reputation_timeout", 5*time.Second)
	v.SetDefault("max_redirects", 5)
	v.SetDefault("max_body_bytes", int64(5<<20))
	v.SetDefault("user_agent", "siteaudit/1.0")
	v.SetDefault("log_level", "info")
	v.SetDefault("redis_url", "")
	v.SetDefault("admin_password_hash", "")
	v.SetDefault("session_ttl", 12*time.Hour)
	v.SetDefault("reputation.api_url", "")
	v.SetDefault("reputation.dnsbl_zones", []string{})
}

// Load reads configuration from defaults, an optional YAML file and
// SITEAUDIT_* environment variables, in increasing precedence.
// Flags bound with BindFlags take precedence over all of them.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	if flags != nil {
		if err := BindFlags(v, flags); err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	// env values arrive as a single string
	cfg.Reputation.DNSBLZones = splitList(cfg.Reputation.DNSBLZones)
	cfg.TrustedProxies = splitList(cfg.TrustedProxies)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// BindFlags binds changed command-line flags whose names match config keys.
// Dashes in flag names map to underscores, e.g. --max-redirects.
func BindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	var bindErr error
	flags.VisitAll(func(f *pflag.Flag) {
		key := strings.ReplaceAll(f.Name, "-", "_")
		if !isKnownKey(key) || !f.Changed {
			return
		}
		if err := v.BindPFlag(key, f); err != nil && bindErr == nil {
			bindErr = fmt.Errorf("bind flag %s: %w", f.Name, err)
		}
	})
	return bindErr
}

var knownKeys = map[string]bool{
	"port": true, "rate_limit": true, "rate_burst": true, "trusted_proxies": true,
	"request_timeout": true, "probe_timeout": true, "reputation_timeout": true,
	"max_redirects": true, "max_body_bytes": true, "user_agent": true,
	"log_level": true, "redis_url": true, "admin_password_hash": true, "session_ttl": true,
}

func isKnownKey(key string) bool {
	return knownKeys[key]
}

// Validate rejects values the server cannot run with
func (c *Config) Validate() error {
	var errs []error
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("port %d out of range", c.Port))
	}
	if c.RequestTimeout <= 0 {
		errs = append(errs, errors.New("request_timeout must be positive"))
	}
	if c.MaxBodyBytes <= 0 {
		errs = append(errs, errors.New("max_body_bytes must be positive"))
	}
	if c.RateLimit < 0 || c.RateBurst < 0 {
		errs = append(errs, errors.New("rate_limit and rate_burst must not be negative"))
	}
	if _, err := c.TrustedProxyPrefixes(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// TrustedProxyPrefixes parses TrustedProxies. A bare IP becomes a single-host prefix.
func (c *Config) TrustedProxyPrefixes() ([]netip.Prefix, error) {
	prefixes := make([]netip.Prefix, 0, len(c.TrustedProxies))
	for _, entry := range c.TrustedProxies {
		if strings.Contains(entry, "/") {
			p, err := netip.ParsePrefix(entry)
			if err != nil {
				return nil, fmt.Errorf("trusted_proxies: %w", err)
			}
			prefixes = append(prefixes, p.Masked())
			continue
		}
		addr, err := netip.ParseAddr(entry)
		if err != nil {
			return nil, fmt.Errorf("trusted_proxies: %w", err)
		}
		addr = addr.Unmap()
		prefixes = append(prefixes, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return prefixes, nil
}

func splitList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, item := range in {
		for _, part := range strings.FieldsFunc(item, func(r rune) bool { return r == ',' || r == ' ' }) {
			out = append(out, part)
		}
	}
	return out
}
