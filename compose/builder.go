package compose

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"

	"github.com/docker/go-connections/nat"
	"github.com/spf13/afero"

	"globalstack/config"
	"globalstack/types"
	"globalstack/volumes"
)

// Images referenced by the shared tier.
const (
	ProxyImage = "easyengine/nginx-proxy"
	DBImage    = "easyengine/mariadb"
	RedisImage = "easyengine/redis"
)

// Builder assembles and persists the shared-tier compose descriptor.
type Builder struct {
	Layout       config.Layout
	Fs           afero.Fs
	Versions     VersionSource
	Secrets      SecretSource
	Renderer     Renderer
	Proxy80Port  int
	Proxy443Port int
	UID, GID     int // exported to the proxy as LOCAL_USER_ID / LOCAL_GROUP_ID
}

// NewBuilder returns a Builder wired with the default renderer and secret source.
func NewBuilder(layout config.Layout, fs afero.Fs, versions VersionSource, port80, port443 int) *Builder {
	return &Builder{
		Layout:       layout,
		Fs:           fs,
		Versions:     versions,
		Secrets:      RandomSecrets{Length: 20},
		Renderer:     YAMLRenderer{},
		Proxy80Port:  port80,
		Proxy443Port: port443,
		UID:          os.Geteuid(),
		GID:          os.Getegid(),
	}
}

// Exists reports whether the descriptor file is present.
func (b *Builder) Exists() (bool, error) {
	ok, err := afero.Exists(b.Fs, b.Layout.DescriptorPath)
	if err != nil {
		return false, fmt.Errorf("failed to stat %s: %w", b.Layout.DescriptorPath, err)
	}
	return ok, nil
}

// EnsureDescriptor builds and writes the descriptor only when it is absent.
// An existing file is never compared with or regenerated from the current model.
func (b *Builder) EnsureDescriptor(platform types.Platform) (bool, error) {
	exists, err := b.Exists()
	if err != nil {
		return false, &BuildError{Op: "stat", Err: err}
	}
	if exists {
		return false, nil
	}
	if err := b.BuildAndPersist(platform); err != nil {
		return false, err
	}
	return true, nil
}

// BuildAndPersist builds the model for platform, renders it and writes it atomically.
func (b *Builder) BuildAndPersist(platform types.Platform) error {
	d, err := b.Build(platform)
	if err != nil {
		return err
	}

	data, err := b.Renderer.Render(d)
	if err != nil {
		return &BuildError{Op: "render", Err: err}
	}

	if err := b.prepareDirs(); err != nil {
		return &BuildError{Op: "write", Err: err}
	}
	if err := WriteFileAtomic(b.Fs, b.Layout.DescriptorPath, data, 0o644); err != nil {
		return &BuildError{Op: "write", Err: err}
	}
	log.Printf("ComposeBuilder: Wrote %s (%d services)", b.Layout.DescriptorPath, len(d.Services))
	return nil
}

// Build assembles the descriptor model without touching the filesystem.
func (b *Builder) Build(platform types.Platform) (*Descriptor, error) {
	proxyImage, err := b.image(ProxyImage)
	if err != nil {
		return nil, err
	}
	dbImage, err := b.image(DBImage)
	if err != nil {
		return nil, err
	}
	redisImage, err := b.image(RedisImage)
	if err != nil {
		return nil, err
	}

	ports := []string{
		fmt.Sprintf("%d:80", b.Proxy80Port),
		fmt.Sprintf("%d:443", b.Proxy443Port),
	}
	if _, _, err := nat.ParsePortSpecs(ports); err != nil {
		return nil, &BuildError{Op: "ports", Err: err}
	}

	password, err := b.Secrets.Password()
	if err != nil {
		return nil, &BuildError{Op: "credentials", Err: err}
	}

	proxyGroup := volumes.ProxyGroup(b.Layout)
	dbGroup := volumes.DBGroup(b.Layout, platform)
	redisGroup := volumes.RedisGroup(b.Layout)

	d := &Descriptor{
		Services: []types.ServiceSpec{
			{
				Name:          config.ProxyService,
				ContainerName: config.ProxyContainer,
				Image:         proxyImage,
				Restart:       "always",
				Ports:         ports,
				Environment: []string{
					"LOCAL_USER_ID=" + strconv.Itoa(b.UID),
					"LOCAL_GROUP_ID=" + strconv.Itoa(b.GID),
				},
				Volumes:  composeVolumes(proxyGroup, platform),
				Networks: []string{b.Layout.FrontendNetwork},
			},
			{
				Name:          config.DBService,
				ContainerName: config.DBContainer,
				Image:         dbImage,
				Restart:       "always",
				Environment:   []string{"MYSQL_ROOT_PASSWORD=" + password},
				Volumes:       composeVolumes(dbGroup, platform),
				Networks:      []string{b.Layout.BackendNetwork},
			},
			{
				Name:          config.RedisService,
				ContainerName: config.RedisContainer,
				Image:         redisImage,
				Restart:       "always",
				Command:       []string{"redis-server", "/usr/local/etc/redis/redis.conf"},
				Volumes:       composeVolumes(redisGroup, platform),
				Networks:      []string{b.Layout.BackendNetwork},
			},
		},
		Networks: []string{b.Layout.FrontendNetwork, b.Layout.BackendNetwork},
	}

	for _, g := range []types.VolumeGroup{proxyGroup, dbGroup, redisGroup} {
		for _, m := range volumes.NamedVolumes(g, platform) {
			d.CreatedVolumes = append(d.CreatedVolumes, types.ExternalVolume{Prefix: g.Label, Name: m.Name})
		}
	}
	return d, nil
}

func (b *Builder) image(name string) (string, error) {
	tag, ok := b.Versions.Tag(name)
	if !ok {
		return "", &BuildError{Op: "resolve image", Err: fmt.Errorf("%w: %s", ErrUnknownImage, name)}
	}
	return name + ":" + tag, nil
}

func (b *Builder) prepareDirs() error {
	for _, dir := range []string{b.Layout.ServicesDir, b.Layout.ProxyDir, b.Layout.DBDir, b.Layout.RedisDir} {
		if err := b.Fs.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	return nil
}

func composeVolumes(g types.VolumeGroup, platform types.Platform) []string {
	var out []string
	for _, m := range volumes.ResolveGroup(g, platform) {
		if entry := m.ComposeEntry(); entry != "" {
			out = append(out, entry)
		}
	}
	return out
}

// WriteFileAtomic writes data to a temporary file next to path and renames it
// into place, so readers never observe a partially written file.
func WriteFileAtomic(fs afero.Fs, path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	tmp, err := afero.TempFile(fs, dir, "."+filepath.Base(path)+"-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file in %s: %w", dir, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		fs.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", tmpName, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		fs.Remove(tmpName)
		return fmt.Errorf("failed to sync %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		fs.Remove(tmpName)
		return fmt.Errorf("failed to close %s: %w", tmpName, err)
	}
	if err := fs.Chmod(tmpName, perm); err != nil {
		fs.Remove(tmpName)
		return fmt.Errorf("failed to chmod %s: %w", tmpName, err)
	}
	if err := fs.Rename(tmpName, path); err != nil {
		fs.Remove(tmpName)
		return fmt.Errorf("failed to move %s into place: %w", path, err)
	}
	return nil
}
