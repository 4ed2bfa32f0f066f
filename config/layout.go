package config

import "path/filepath"

// Well-known identifiers of the shared tier.
const (
	FrontendNetwork = "ee-global-frontend-network"
	BackendNetwork  = "ee-global-backend-network"

	ProxyService   = "global-nginx-proxy"
	ProxyContainer = "ee-global-nginx-proxy"
	DBService      = "global-db"
	DBContainer    = "ee-global-db"
	RedisService   = "global-redis"
	RedisContainer = "ee-global-redis"

	// VolumeLabelKey is the docker label carrying the owning service of a volume.
	VolumeLabelKey = "org.label-schema.url"
)

// Layout is the set of names and paths the reconciler works with. It is built
// once from the root directory and passed around explicitly.
type Layout struct {
	RootDir         string
	ServicesDir     string // <root>/services, the compose project directory
	DescriptorPath  string // <root>/services/docker-compose.yml
	ProxyDir        string
	DBDir           string
	RedisDir        string
	FrontendNetwork string
	BackendNetwork  string
}

// NewLayout derives the layout from root.
func NewLayout(root string) Layout {
	services := filepath.Join(root, "services")
	return Layout{
		RootDir:         root,
		ServicesDir:     services,
		DescriptorPath:  filepath.Join(services, "docker-compose.yml"),
		ProxyDir:        filepath.Join(services, "nginx-proxy"),
		DBDir:           filepath.Join(services, "mariadb"),
		RedisDir:        filepath.Join(services, "redis"),
		FrontendNetwork: FrontendNetwork,
		BackendNetwork:  BackendNetwork,
	}
}

// Networks returns the two shared networks in creation order.
func (l Layout) Networks() []string {
	return []string{l.BackendNetwork, l.FrontendNetwork}
}

// ContainerFor maps a compose service name to its container name. Unknown
// services fall back to "ee-<service>".
func ContainerFor(service string) string {
	switch service {
	case ProxyService:
		return ProxyContainer
	case DBService:
		return DBContainer
	case RedisService:
		return RedisContainer
	default:
		return "ee-" + service
	}
}
