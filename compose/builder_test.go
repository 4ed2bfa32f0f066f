package compose

import (
	"errors"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"globalstack/config"
	"globalstack/types"
)

type fixedSecret string

func (s fixedSecret) Password() (string, error) { return string(s), nil }

type failingRenderer struct{}

func (failingRenderer) Render(*Descriptor) ([]byte, error) { return nil, errors.New("template broken") }

func testVersions() MapVersions {
	return MapVersions{ProxyImage: "v1", DBImage: "v2", RedisImage: "v3"}
}

func newTestBuilder(fs afero.Fs) *Builder {
	b := NewBuilder(config.NewLayout("/opt/ee"), fs, testVersions(), 80, 443)
	b.Secrets = fixedSecret("s3cret")
	b.UID, b.GID = 1000, 1000
	return b
}

func TestBuildProxyService(t *testing.T) {
	b := newTestBuilder(afero.NewMemMapFs())

	d, err := b.Build(types.PlatformLinux)
	require.NoError(t, err)
	require.Len(t, d.Services, 3)

	proxy, ok := d.Service(config.ProxyService)
	require.True(t, ok)
	assert.Equal(t, config.ProxyContainer, proxy.ContainerName)
	assert.Equal(t, "easyengine/nginx-proxy:v1", proxy.Image)
	assert.Equal(t, []string{"80:80", "443:443"}, proxy.Ports)
	assert.Equal(t, []string{"LOCAL_USER_ID=1000", "LOCAL_GROUP_ID=1000"}, proxy.Environment)
	assert.Contains(t, proxy.Volumes, "/var/run/docker.sock:/tmp/docker.sock:ro")
	assert.Contains(t, proxy.Volumes, "certs:/etc/nginx/certs")
	assert.Equal(t, []string{config.FrontendNetwork}, proxy.Networks)
}

func TestBuildUsesConfiguredPorts(t *testing.T) {
	b := newTestBuilder(afero.NewMemMapFs())
	b.Proxy80Port, b.Proxy443Port = 8080, 8443

	d, err := b.Build(types.PlatformLinux)
	require.NoError(t, err)
	proxy, _ := d.Service(config.ProxyService)
	assert.Equal(t, []string{"8080:80", "8443:443"}, proxy.Ports)
}

func TestBuildDatabaseCredentialAndMounts(t *testing.T) {
	b := newTestBuilder(afero.NewMemMapFs())

	linux, err := b.Build(types.PlatformLinux)
	require.NoError(t, err)
	db, _ := linux.Service(config.DBService)
	assert.Equal(t, []string{"MYSQL_ROOT_PASSWORD=s3cret"}, db.Environment)
	assert.Equal(t, []string{"db_data:/var/lib/mysql", "db_conf:/etc/mysql", "db_logs:/var/log/mysql"}, db.Volumes)

	darwin, err := b.Build(types.PlatformDarwin)
	require.NoError(t, err)
	db, _ = darwin.Service(config.DBService)
	assert.Equal(t, []string{
		"db_logs:/var/log/mysql",
		"/opt/ee/services/mariadb/data:/var/lib/mysql",
		"/opt/ee/services/mariadb/conf/my.cnf:/etc/mysql/my.cnf",
	}, db.Volumes)
}

func TestBuildCreatedVolumesExcludeSkipAndBind(t *testing.T) {
	b := newTestBuilder(afero.NewMemMapFs())

	d, err := b.Build(types.PlatformDarwin)
	require.NoError(t, err)

	var names []string
	for _, v := range d.CreatedVolumes {
		names = append(names, v.DockerName())
	}
	assert.Contains(t, names, "global-nginx-proxy_certs")
	assert.Contains(t, names, "global-db_db_logs")
	assert.Contains(t, names, "global-redis_redis_data")
	assert.NotContains(t, names, "global-db_db_data")
	assert.NotContains(t, names, "global-nginx-proxy_docker_sock")
	assert.Len(t, names, 7+1+3)
}

func TestBuildUnknownImage(t *testing.T) {
	b := newTestBuilder(afero.NewMemMapFs())
	b.Versions = MapVersions{ProxyImage: "v1", DBImage: "v2"}

	_, err := b.Build(types.PlatformLinux)

	var berr *BuildError
	require.ErrorAs(t, err, &berr)
	assert.Equal(t, "resolve image", berr.Op)
	assert.ErrorIs(t, err, ErrUnknownImage)
	assert.Contains(t, err.Error(), RedisImage)
}

func TestEnsureDescriptorWritesOnlyWhenAbsent(t *testing.T) {
	fs := afero.NewMemMapFs()
	b := newTestBuilder(fs)

	created, err := b.EnsureDescriptor(types.PlatformLinux)
	require.NoError(t, err)
	assert.True(t, created)

	first, err := afero.ReadFile(fs, b.Layout.DescriptorPath)
	require.NoError(t, err)

	// A second run with a different credential must leave the file untouched.
	b.Secrets = fixedSecret("other")
	created, err = b.EnsureDescriptor(types.PlatformLinux)
	require.NoError(t, err)
	assert.False(t, created)

	second, err := afero.ReadFile(fs, b.Layout.DescriptorPath)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	for _, dir := range []string{b.Layout.ProxyDir, b.Layout.DBDir, b.Layout.RedisDir} {
		ok, err := afero.DirExists(fs, dir)
		require.NoError(t, err)
		assert.True(t, ok, dir)
	}
}

func TestBuildAndPersistRenderFailureWritesNothing(t *testing.T) {
	fs := afero.NewMemMapFs()
	b := newTestBuilder(fs)
	b.Renderer = failingRenderer{}

	err := b.BuildAndPersist(types.PlatformLinux)

	var berr *BuildError
	require.ErrorAs(t, err, &berr)
	assert.Equal(t, "render", berr.Op)
	exists, _ := afero.Exists(fs, b.Layout.DescriptorPath)
	assert.False(t, exists)
}

func TestWriteFileAtomicLeavesNoTempFiles(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/d", 0o755))

	require.NoError(t, WriteFileAtomic(fs, "/d/file.yml", []byte("a: 1\n"), 0o600))
	require.NoError(t, WriteFileAtomic(fs, "/d/file.yml", []byte("a: 2\n"), 0o600))

	data, err := afero.ReadFile(fs, "/d/file.yml")
	require.NoError(t, err)
	assert.Equal(t, "a: 2\n", string(data))

	entries, err := afero.ReadDir(fs, "/d")
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestRandomSecrets(t *testing.T) {
	p1, err := RandomSecrets{Length: 24}.Password()
	require.NoError(t, err)
	p2, err := RandomSecrets{}.Password()
	require.NoError(t, err)

	assert.Len(t, p1, 24)
	assert.Len(t, p2, 20)
	assert.Regexp(t, `^[a-zA-Z0-9]+$`, p1)
}

func TestMapVersions(t *testing.T) {
	v := MapVersions{"a": "1", "b": ""}

	tag, ok := v.Tag("a")
	assert.True(t, ok)
	assert.Equal(t, "1", tag)

	_, ok = v.Tag("b")
	assert.False(t, ok, "empty tags count as missing")
	_, ok = v.Tag("c")
	assert.False(t, ok)
}
