package bootstrap

import (
	"context"
	"embed"
	"fmt"
	"log"
	"path/filepath"

	"github.com/spf13/afero"

	"globalstack/config"
	"globalstack/manager"
	"globalstack/types"
	"globalstack/volumes"
)

//go:embed templates
var templates embed.FS

// PortProber reports whether a TCP port can be bound.
type PortProber interface {
	IsPortFree(host string, port int) bool
}

// DescriptorEnsurer creates the compose descriptor when it is missing.
type DescriptorEnsurer interface {
	EnsureDescriptor(platform types.Platform) (bool, error)
}

// DNSEnsurer makes sites behind the proxy resolvable; optional.
type DNSEnsurer interface {
	EnsureProxyRecord(ctx context.Context) error
}

// Reconciler brings the shared tier to its desired state, one service per call.
type Reconciler struct {
	Layout     config.Layout
	Platform   types.Platform
	Runtime    manager.Runtime
	Composer   manager.Composer
	Prober     PortProber
	Descriptor DescriptorEnsurer
	Fs         afero.Fs
	DNS        DNSEnsurer

	ProbeHost    string
	Proxy80Port  int
	Proxy443Port int
}

// ServiceStatus is one row of Status.
type ServiceStatus struct {
	Service   string
	Container string
	Status    types.ContainerStatus
}

// BootProxy starts the reverse proxy, or validates its port bindings if it is
// already running.
func (r *Reconciler) BootProxy(ctx context.Context) error {
	status, err := r.Runtime.ContainerStatus(ctx, config.ProxyContainer)
	if err != nil {
		return fmt.Errorf("failed to query %s: %w", config.ProxyContainer, err)
	}

	switch Decide(StateFromStatus(status), true) {
	case ActionValidateDrift:
		return r.validateProxyPorts(ctx)
	default:
		return r.provisionProxy(ctx)
	}
}

func (r *Reconciler) proxyBindings() []types.PortBinding {
	return []types.PortBinding{
		{ContainerPort: 80, Configured: r.Proxy80Port},
		{ContainerPort: 443, Configured: r.Proxy443Port},
	}
}

func (r *Reconciler) validateProxyPorts(ctx context.Context) error {
	var mismatches []types.PortBinding
	for _, b := range r.proxyBindings() {
		bound, err := r.Runtime.PublishedHostPort(ctx, config.ProxyContainer, b.ContainerPort)
		if err != nil {
			return fmt.Errorf("failed to read port bindings of %s: %w", config.ProxyContainer, err)
		}
		b.Bound = bound
		if !b.Matches() {
			mismatches = append(mismatches, b)
		}
	}
	if len(mismatches) > 0 {
		return &PortDriftError{Container: config.ProxyContainer, Mismatches: mismatches}
	}
	log.Printf("Reconciler: %s is running with the configured ports %d/%d", config.ProxyContainer, r.Proxy80Port, r.Proxy443Port)
	return nil
}

func (r *Reconciler) provisionProxy(ctx context.Context) error {
	var occupied []int
	for _, b := range r.proxyBindings() {
		if !r.Prober.IsPortFree(r.ProbeHost, b.Configured) {
			occupied = append(occupied, b.Configured)
		}
	}
	if len(occupied) > 0 {
		return &PortConflictError{Ports: occupied}
	}

	for _, g := range volumes.GlobalGroups(r.Layout, r.Platform) {
		if err := manager.EnsureVolumeGroup(ctx, r.Runtime, g, r.Platform); err != nil {
			return err
		}
	}
	if _, err := r.Descriptor.EnsureDescriptor(r.Platform); err != nil {
		return err
	}
	if err := manager.EnsureNetworks(ctx, r.Runtime, r.Layout.Networks()...); err != nil {
		return err
	}

	if err := r.Composer.Up(ctx, r.Layout.ServicesDir, config.ProxyService); err != nil {
		return &StartError{Service: config.ProxyService, Container: config.ProxyContainer, Err: err}
	}

	custom := filepath.Join(r.Layout.ProxyDir, "conf.d", "custom.conf")
	if err := r.seedFile("templates/custom.conf", custom, true); err != nil {
		return fmt.Errorf("proxy is up but its custom config could not be seeded: %w", err)
	}

	if r.DNS != nil {
		if err := r.DNS.EnsureProxyRecord(ctx); err != nil {
			return fmt.Errorf("proxy is up but the DNS record could not be ensured: %w", err)
		}
	}

	log.Printf("Reconciler: %s container is up.", config.ProxyContainer)
	return nil
}

// BootService starts a non-proxy shared service. An empty container name
// defaults to the well-known container of service.
func (r *Reconciler) BootService(ctx context.Context, service, container string) error {
	if container == "" {
		container = config.ContainerFor(service)
	}

	if err := manager.EnsureNetworks(ctx, r.Runtime, r.Layout.Networks()...); err != nil {
		return err
	}
	if _, err := r.Descriptor.EnsureDescriptor(r.Platform); err != nil {
		return err
	}

	status, err := r.Runtime.ContainerStatus(ctx, container)
	if err != nil {
		return fmt.Errorf("failed to query %s: %w", container, err)
	}

	if Decide(StateFromStatus(status), false) == ActionReportRunning {
		log.Printf("Reconciler: %s: Service already running", service)
		return nil
	}

	if g, ok := volumes.GroupFor(r.Layout, r.Platform, service); ok {
		if err := manager.EnsureVolumeGroup(ctx, r.Runtime, g, r.Platform); err != nil {
			return err
		}
	}
	if err := r.preStart(service); err != nil {
		return &StartError{Service: service, Container: container, Err: err}
	}

	if err := r.Composer.Up(ctx, r.Layout.ServicesDir, service); err != nil {
		return &StartError{Service: service, Container: container, Err: err}
	}
	log.Printf("Reconciler: %s container is up", container)
	return nil
}

// BootAll boots the proxy, database and cache in that order, stopping at the
// first failure.
func (r *Reconciler) BootAll(ctx context.Context) error {
	if err := r.BootProxy(ctx); err != nil {
		return err
	}
	for _, svc := range []string{config.DBService, config.RedisService} {
		if err := r.BootService(ctx, svc, ""); err != nil {
			return err
		}
	}
	return nil
}

// Status reports the runtime status of every shared container.
func (r *Reconciler) Status(ctx context.Context) ([]ServiceStatus, error) {
	services := []string{config.ProxyService, config.DBService, config.RedisService}
	out := make([]ServiceStatus, 0, len(services))
	for _, svc := range services {
		container := config.ContainerFor(svc)
		status, err := r.Runtime.ContainerStatus(ctx, container)
		if err != nil {
			return nil, fmt.Errorf("failed to query %s: %w", container, err)
		}
		out = append(out, ServiceStatus{Service: svc, Container: container, Status: status})
	}
	return out, nil
}

// preStart materializes host files a container expects to find already
// present. On Darwin the database config is a bind-mounted file.
func (r *Reconciler) preStart(service string) error {
	if service == config.DBService && r.Platform == types.PlatformDarwin {
		return r.seedFile("templates/my.cnf", volumes.DBConfigFile(r.Layout), false)
	}
	return nil
}

// seedFile copies an embedded template to dst. Existing files are kept unless overwrite is set.
func (r *Reconciler) seedFile(src, dst string, overwrite bool) error {
	if !overwrite {
		exists, err := afero.Exists(r.Fs, dst)
		if err != nil {
			return fmt.Errorf("failed to stat %s: %w", dst, err)
		}
		if exists {
			return nil
		}
	}
	data, err := templates.ReadFile(src)
	if err != nil {
		return fmt.Errorf("failed to read template %s: %w", src, err)
	}
	if err := r.Fs.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Dir(dst), err)
	}
	if err := afero.WriteFile(r.Fs, dst, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", dst, err)
	}
	return nil
}
