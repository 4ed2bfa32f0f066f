package volumes

import (
	"path/filepath"

	"globalstack/config"
	"globalstack/types"
)

// DockerSocket is the host socket handed to the proxy for container discovery.
const DockerSocket = "/var/run/docker.sock"

// ProxyGroup returns the volumes of the nginx proxy.
func ProxyGroup(l config.Layout) types.VolumeGroup {
	dir := l.ProxyDir
	return types.VolumeGroup{
		Label: config.ProxyService,
		Volumes: []types.VolumeSpec{
			{Name: "certs", HostPath: filepath.Join(dir, "certs"), ContainerPath: "/etc/nginx/certs"},
			{Name: "dhparam", HostPath: filepath.Join(dir, "dhparam"), ContainerPath: "/etc/nginx/dhparam"},
			{Name: "confd", HostPath: filepath.Join(dir, "conf.d"), ContainerPath: "/etc/nginx/conf.d"},
			{Name: "htpasswd", HostPath: filepath.Join(dir, "htpasswd"), ContainerPath: "/etc/nginx/htpasswd"},
			{Name: "vhostd", HostPath: filepath.Join(dir, "vhost.d"), ContainerPath: "/etc/nginx/vhost.d"},
			{Name: "html", HostPath: filepath.Join(dir, "html"), ContainerPath: "/usr/share/nginx/html"},
			{Name: "nginx_proxy_logs", HostPath: filepath.Join(dir, "logs"), ContainerPath: "/var/log/nginx"},
			{Name: "docker_sock", HostPath: DockerSocket, ContainerPath: "/tmp/docker.sock", ReadOnly: true, SkipVolume: true},
		},
	}
}

// DBGroup returns the volumes of the database. On Darwin the data directory and
// the main config file are bind-mounted from the host instead of living in
// named volumes.
func DBGroup(l config.Layout, platform types.Platform) types.VolumeGroup {
	dir := l.DBDir
	g := types.VolumeGroup{
		Label: config.DBService,
		Volumes: []types.VolumeSpec{
			{Name: "db_data", HostPath: filepath.Join(dir, "data"), ContainerPath: "/var/lib/mysql", SkipOnDarwin: true},
			{Name: "db_conf", HostPath: filepath.Join(dir, "conf"), ContainerPath: "/etc/mysql", SkipOnDarwin: true},
			{Name: "db_logs", HostPath: filepath.Join(dir, "logs"), ContainerPath: "/var/log/mysql"},
		},
	}
	if platform == types.PlatformDarwin {
		g.Volumes = append(g.Volumes,
			types.VolumeSpec{Name: "db_data_host", HostPath: filepath.Join(dir, "data"), ContainerPath: "/var/lib/mysql", SkipOnLinux: true, SkipVolume: true},
			types.VolumeSpec{Name: "db_conf_host", HostPath: DBConfigFile(l), ContainerPath: "/etc/mysql/my.cnf", SkipOnLinux: true, SkipVolume: true},
		)
	}
	return g
}

// DBConfigFile is the host file seeded before the database first starts on Darwin.
func DBConfigFile(l config.Layout) string {
	return filepath.Join(l.DBDir, "conf", "my.cnf")
}

// RedisGroup returns the volumes of the cache.
func RedisGroup(l config.Layout) types.VolumeGroup {
	dir := l.RedisDir
	return types.VolumeGroup{
		Label: config.RedisService,
		Volumes: []types.VolumeSpec{
			{Name: "redis_data", HostPath: filepath.Join(dir, "data"), ContainerPath: "/data"},
			{Name: "redis_conf", HostPath: filepath.Join(dir, "conf"), ContainerPath: "/usr/local/etc/redis"},
			{Name: "redis_logs", HostPath: filepath.Join(dir, "logs"), ContainerPath: "/var/log/redis"},
		},
	}
}

// GlobalGroups returns the groups of all three shared services in a stable order.
func GlobalGroups(l config.Layout, platform types.Platform) []types.VolumeGroup {
	return []types.VolumeGroup{ProxyGroup(l), DBGroup(l, platform), RedisGroup(l)}
}

// GroupFor returns the group labeled service, if any.
func GroupFor(l config.Layout, platform types.Platform, service string) (types.VolumeGroup, bool) {
	for _, g := range GlobalGroups(l, platform) {
		if g.Label == service {
			return g, true
		}
	}
	return types.VolumeGroup{}, false
}
