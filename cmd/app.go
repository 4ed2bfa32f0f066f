package cmd

import (
	"context"
	"log"

	"github.com/spf13/afero"

	"globalstack/bootstrap"
	"globalstack/cloudflare"
	"globalstack/compose"
	"globalstack/config"
	"globalstack/manager"
	"globalstack/metrics"
	"globalstack/netutil"
)

// app wires the reconciler's collaborators from cfg.
type app struct {
	reconciler *bootstrap.Reconciler
	runtime    *manager.DockerRuntime
	builder    *compose.Builder
	recorder   *metrics.Recorder
	metricsOut string
}

func newApp(cfg config.Config) (*app, error) {
	fs := afero.NewOsFs()
	platform := cfg.HostPlatform()
	layout := config.NewLayout(cfg.RootDir)

	rt, err := manager.NewDockerRuntime(fs, platform)
	if err != nil {
		return nil, err
	}

	builder := compose.NewBuilder(layout, fs, compose.MapVersions(cfg.ImageVersions), cfg.Proxy80Port, cfg.Proxy443Port)

	rec := &bootstrap.Reconciler{
		Layout:       layout,
		Platform:     platform,
		Runtime:      rt,
		Composer:     manager.NewComposeRunner(cfg.ComposeCommand),
		Prober:       netutil.NewProber(cfg.ProbeTimeout),
		Descriptor:   builder,
		Fs:           fs,
		ProbeHost:    cfg.ProbeHost,
		Proxy80Port:  cfg.Proxy80Port,
		Proxy443Port: cfg.Proxy443Port,
	}

	if cfg.Cloudflare.Enabled {
		dns, err := cloudflare.NewClient(cfg.Cloudflare)
		if err != nil {
			rt.Close()
			return nil, err
		}
		rec.DNS = dns
	}

	return &app{
		reconciler: rec,
		runtime:    rt,
		builder:    builder,
		recorder:   metrics.NewRecorder(),
		metricsOut: cfg.Metrics.Textfile,
	}, nil
}

// run executes fn for service, records its outcome and flushes metrics.
func (a *app) run(ctx context.Context, service string, fn func(context.Context) error) error {
	err := fn(ctx)
	a.recorder.Observe(service, err)
	if werr := a.recorder.WriteTextfile(a.metricsOut); werr != nil {
		log.Printf("Metrics: Warning: %v", werr)
	}
	return err
}

func (a *app) Close() {
	if err := a.runtime.Close(); err != nil {
		log.Printf("DockerRuntime: Warning: failed to close client: %v", err)
	}
}
