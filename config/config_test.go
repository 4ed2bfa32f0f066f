package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"globalstack/types"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, "/opt/easyengine", config.RootDir)
	assert.Equal(t, 80, config.Proxy80Port)
	assert.Equal(t, 443, config.Proxy443Port)
	assert.Equal(t, "localhost", config.ProbeHost)
	assert.Equal(t, time.Second, config.ProbeTimeout)
	assert.Equal(t, "docker compose", config.ComposeCommand)
	assert.Contains(t, config.ImageVersions, "easyengine/nginx-proxy")

	// Cloudflare defaults
	assert.False(t, config.Cloudflare.Enabled, "Expected Cloudflare.Enabled to be false by default")
	assert.True(t, config.Cloudflare.Proxied)
}

func TestLoadConfigWithoutFile(t *testing.T) {

	cfg, err := LoadConfig(New(), "")
	require.NoError(t, err)
	assert.Equal(t, 80, cfg.Proxy80Port)
	assert.Equal(t, 443, cfg.Proxy443Port)
}

func TestLoadConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `root_dir: /srv/ee
proxy_80_port: 8080
proxy_443_port: 8443
platform: darwin
image_versions:
  easyengine/redis: v9.9.9
metrics:
  textfile: /var/lib/node_exporter/globalstack.prom
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadConfig(New(), path)
	require.NoError(t, err)

	assert.Equal(t, "/srv/ee", cfg.RootDir)
	assert.Equal(t, 8080, cfg.Proxy80Port)
	assert.Equal(t, 8443, cfg.Proxy443Port)
	assert.Equal(t, types.PlatformDarwin, cfg.HostPlatform())
	assert.Equal(t, "v9.9.9", cfg.ImageVersions["easyengine/redis"])
	// Images missing from the file keep their pinned default
	assert.Equal(t, DefaultImageVersions()["easyengine/mariadb"], cfg.ImageVersions["easyengine/mariadb"])
	assert.Equal(t, "/var/lib/node_exporter/globalstack.prom", cfg.Metrics.Textfile)
}

func TestLoadConfigMissingExplicitFile(t *testing.T) {
	_, err := LoadConfig(New(), filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestOverrideFromEnv(t *testing.T) {
	t.Setenv("GLOBALSTACK_PROXY_80_PORT", "8000")
	t.Setenv("GLOBALSTACK_PROXY_443_PORT", "8443")
	t.Setenv("GLOBALSTACK_ROOT_DIR", "/tmp/ee")
	t.Setenv("GLOBALSTACK_CLOUDFLARE_ENABLED", "true")
	t.Setenv("GLOBALSTACK_CLOUDFLARE_API_TOKEN", "token")
	t.Setenv("GLOBALSTACK_CLOUDFLARE_ZONE_ID", "zone")
	t.Setenv("GLOBALSTACK_CLOUDFLARE_BASE_DOMAIN", "example.com")
	t.Setenv("GLOBALSTACK_CLOUDFLARE_SERVER_ADDRESS", "203.0.113.10")

	cfg, err := LoadConfig(New(), "")
	require.NoError(t, err)

	assert.Equal(t, 8000, cfg.Proxy80Port)
	assert.Equal(t, 8443, cfg.Proxy443Port)
	assert.Equal(t, "/tmp/ee", cfg.RootDir)
	assert.True(t, cfg.Cloudflare.Enabled)
	assert.Equal(t, "example.com", cfg.Cloudflare.BaseDomain)
	assert.Equal(t, "203.0.113.10", cfg.Cloudflare.ServerAddress)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"defaults", func(c *Config) { c.Platform = "linux" }, true},
		{"empty root", func(c *Config) { c.RootDir = "" }, false},
		{"port zero", func(c *Config) { c.Proxy80Port = 0 }, false},
		{"port too large", func(c *Config) { c.Proxy443Port = 70000 }, false},
		{"same ports", func(c *Config) { c.Proxy443Port = 80 }, false},
		{"windows", func(c *Config) { c.Platform = "windows" }, false},
		{"cloudflare incomplete", func(c *Config) {
			c.Platform = "linux"
			c.Cloudflare.Enabled = true
			c.Cloudflare.APIToken = "t"
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Platform = "linux"
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestParsePlatform(t *testing.T) {
	p, err := ParsePlatform("Darwin")
	require.NoError(t, err)
	assert.Equal(t, types.PlatformDarwin, p)

	p, err = ParsePlatform(" linux ")
	require.NoError(t, err)
	assert.Equal(t, types.PlatformLinux, p)

	_, err = ParsePlatform("plan9")
	assert.Error(t, err)
}

func TestNewLayout(t *testing.T) {
	l := NewLayout("/opt/easyengine")

	assert.Equal(t, "/opt/easyengine/services", l.ServicesDir)
	assert.Equal(t, "/opt/easyengine/services/docker-compose.yml", l.DescriptorPath)
	assert.Equal(t, "/opt/easyengine/services/nginx-proxy", l.ProxyDir)
	assert.Equal(t, "/opt/easyengine/services/mariadb", l.DBDir)
	assert.Equal(t, "/opt/easyengine/services/redis", l.RedisDir)
	assert.Equal(t, []string{BackendNetwork, FrontendNetwork}, l.Networks())
}

func TestContainerFor(t *testing.T) {
	assert.Equal(t, ProxyContainer, ContainerFor(ProxyService))
	assert.Equal(t, DBContainer, ContainerFor(DBService))
	assert.Equal(t, RedisContainer, ContainerFor(RedisService))
	assert.Equal(t, "ee-global-custom", ContainerFor("global-custom"))
}
