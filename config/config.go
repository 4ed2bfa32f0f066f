package config

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/viper"

	"globalstack/types"
)

// EnvPrefix is prepended to every environment override, e.g. GLOBALSTACK_PROXY_80_PORT.
const EnvPrefix = "GLOBALSTACK"

// MetricsConfig controls the bootstrap outcome metrics
type MetricsConfig struct {
	Textfile string `mapstructure:"textfile"` // node-exporter textfile path, empty disables writing
}

// Config holds the application configuration
type Config struct {
	RootDir        string                 `mapstructure:"root_dir"`
	Proxy80Port    int                    `mapstructure:"proxy_80_port"`
	Proxy443Port   int                    `mapstructure:"proxy_443_port"`
	ProbeHost      string                 `mapstructure:"probe_host"`
	ProbeTimeout   time.Duration          `mapstructure:"probe_timeout"`
	ComposeCommand string                 `mapstructure:"compose_command"`
	Platform       string                 `mapstructure:"platform"`
	ImageVersions  map[string]string      `mapstructure:"image_versions"`
	Cloudflare     types.CloudflareConfig `mapstructure:"cloudflare"`
	Metrics        MetricsConfig          `mapstructure:"metrics"`
}

// DefaultImageVersions are the pinned tags used when the config file does not override them.
func DefaultImageVersions() map[string]string {
	return map[string]string{
		"easyengine/nginx-proxy": "v4.1.4",
		"easyengine/mariadb":     "v4.1.4",
		"easyengine/redis":       "v4.1.4",
	}
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		RootDir:        "/opt/easyengine",
		Proxy80Port:    80,
		Proxy443Port:   443,
		ProbeHost:      "localhost",
		ProbeTimeout:   time.Second,
		ComposeCommand: "docker compose",
		Platform:       runtime.GOOS,
		ImageVersions:  DefaultImageVersions(),
		Cloudflare: types.CloudflareConfig{
			Enabled: false,
			Proxied: true,
		},
	}
}

// setDefaults registers every default with viper so that env overrides and
// Unmarshal see all keys.
func setDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault("root_dir", d.RootDir)
	v.SetDefault("proxy_80_port", d.Proxy80Port)
	v.SetDefault("proxy_443_port", d.Proxy443Port)
	v.SetDefault("probe_host", d.ProbeHost)
	v.SetDefault("probe_timeout", d.ProbeTimeout)
	v.SetDefault("compose_command", d.ComposeCommand)
	v.SetDefault("platform", d.Platform)
	v.SetDefault("image_versions", d.ImageVersions)
	v.SetDefault("cloudflare.enabled", d.Cloudflare.Enabled)
	v.SetDefault("cloudflare.api_token", "")
	v.SetDefault("cloudflare.zone_id", "")
	v.SetDefault("cloudflare.base_domain", "")
	v.SetDefault("cloudflare.server_address", "")
	v.SetDefault("cloudflare.proxied", d.Cloudflare.Proxied)
	v.SetDefault("metrics.textfile", "")
}

// New returns a viper instance with defaults, search paths and env overrides wired.
func New() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("/opt/easyengine")
	v.AddConfigPath(".")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// LoadConfig loads configuration from a file (explicit path or the search paths)
// with environment variables taking precedence.
func LoadConfig(v *viper.Viper, configPath string) (Config, error) {
	if configPath != "" {
		v.SetConfigFile(configPath)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	// A partial image_versions map in the file replaces the default map wholesale;
	// fill the gaps so only genuinely unknown images fail later.
	for name, tag := range DefaultImageVersions() {
		if _, ok := cfg.ImageVersions[name]; !ok {
			if cfg.ImageVersions == nil {
				cfg.ImageVersions = map[string]string{}
			}
			cfg.ImageVersions[name] = tag
		}
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the values that the reconciler relies on.
func (c Config) Validate() error {
	if c.RootDir == "" {
		return fmt.Errorf("root_dir must not be empty")
	}
	if err := validPort("proxy_80_port", c.Proxy80Port); err != nil {
		return err
	}
	if err := validPort("proxy_443_port", c.Proxy443Port); err != nil {
		return err
	}
	if c.Proxy80Port == c.Proxy443Port {
		return fmt.Errorf("proxy_80_port and proxy_443_port must differ, both are %d", c.Proxy80Port)
	}
	if _, err := ParsePlatform(c.Platform); err != nil {
		return err
	}
	if c.Cloudflare.Enabled {
		if c.Cloudflare.APIToken == "" || c.Cloudflare.ZoneID == "" || c.Cloudflare.BaseDomain == "" || c.Cloudflare.ServerAddress == "" {
			return fmt.Errorf("cloudflare is enabled but api_token, zone_id, base_domain or server_address is missing")
		}
	}
	return nil
}

// HostPlatform returns the parsed platform. Validate has already rejected bad values.
func (c Config) HostPlatform() types.Platform {
	p, _ := ParsePlatform(c.Platform)
	return p
}

// ParsePlatform maps a GOOS-style name to a Platform.
func ParsePlatform(name string) (types.Platform, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "linux":
		return types.PlatformLinux, nil
	case "darwin":
		return types.PlatformDarwin, nil
	default:
		return "", fmt.Errorf("unsupported platform %q (expected linux or darwin)", name)
	}
}

func validPort(key string, port int) error {
	if port < 1 || port > 65535 {
		return fmt.Errorf("%s must be between 1 and 65535, got %d", key, port)
	}
	return nil
}
