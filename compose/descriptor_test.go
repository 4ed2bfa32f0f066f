package compose

import (
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"globalstack/config"
	"globalstack/types"
)

func TestRenderKeepsServiceOrder(t *testing.T) {
	b := newTestBuilder(afero.NewMemMapFs())
	d, err := b.Build(types.PlatformLinux)
	require.NoError(t, err)

	out, err := YAMLRenderer{}.Render(d)
	require.NoError(t, err)
	text := string(out)

	assert.True(t, strings.HasPrefix(text, "# Generated by globalstack"))
	proxyAt := strings.Index(text, config.ProxyService+":")
	dbAt := strings.Index(text, config.DBService+":")
	redisAt := strings.Index(text, config.RedisService+":")
	assert.True(t, proxyAt < dbAt && dbAt < redisAt, "services out of order:\n%s", text)
}

func TestRenderedDescriptorIsValidCompose(t *testing.T) {
	b := newTestBuilder(afero.NewMemMapFs())
	d, err := b.Build(types.PlatformLinux)
	require.NoError(t, err)

	out, err := YAMLRenderer{}.Render(d)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, yaml.Unmarshal(out, &raw))
	assert.Contains(t, raw, "services")
	assert.Contains(t, raw, "volumes")
	assert.Contains(t, raw, "networks")

	f, err := Parse(out)
	require.NoError(t, err)
	assert.Equal(t, "easyengine/redis:v3", f.Services[config.RedisService].Image)
	assert.Equal(t, config.ProxyContainer, f.Services[config.ProxyService].ContainerName)
	assert.Equal(t, []string{"80:80", "443:443"}, f.Services[config.ProxyService].Ports)

	certs := f.Volumes["certs"]
	assert.True(t, certs.External)
	assert.Equal(t, "global-nginx-proxy_certs", certs.Name)
}

func TestParseRejectsEmpty(t *testing.T) {
	_, err := Parse([]byte("services: {}\n"))
	assert.Error(t, err)

	_, err = Parse([]byte(":\n  - ["))
	assert.Error(t, err)
}
