// Package managertest provides in-memory implementations of manager.Runtime and
// manager.Composer for tests.
package managertest

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"globalstack/types"
)

// Journal records the mutating calls made against fakes, in order.
type Journal struct {
	mu     sync.Mutex
	events []string
}

// Record appends an event.
func (j *Journal) Record(format string, args ...any) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.events = append(j.events, fmt.Sprintf(format, args...))
}

// Events returns a copy of the recorded events.
func (j *Journal) Events() []string {
	j.mu.Lock()
	defer j.mu.Unlock()
	return append([]string(nil), j.events...)
}

// Count returns how many events start with prefix.
func (j *Journal) Count(prefix string) int {
	n := 0
	for _, e := range j.Events() {
		if strings.HasPrefix(e, prefix) {
			n++
		}
	}
	return n
}

// Runtime is a fake container engine.
type Runtime struct {
	Journal *Journal

	Statuses map[string]types.ContainerStatus // container -> status, missing means absent
	Ports    map[string]map[int]string        // container -> container port -> host port
	Networks map[string]bool
	Volumes  map[string][]string // label -> volume names

	StatusErr        error
	NetworkCreateErr map[string]error
	VolumeCreateErr  error
}

// NewRuntime returns an empty fake host.
func NewRuntime(j *Journal) *Runtime {
	if j == nil {
		j = &Journal{}
	}
	return &Runtime{
		Journal:          j,
		Statuses:         map[string]types.ContainerStatus{},
		Ports:            map[string]map[int]string{},
		Networks:         map[string]bool{},
		Volumes:          map[string][]string{},
		NetworkCreateErr: map[string]error{},
	}
}

// Run marks container as running with the given container->host port bindings.
func (r *Runtime) Run(container string, ports map[int]string) {
	r.Statuses[container] = types.StatusRunning
	r.Ports[container] = ports
}

func (r *Runtime) ContainerStatus(_ context.Context, name string) (types.ContainerStatus, error) {
	if r.StatusErr != nil {
		return "", r.StatusErr
	}
	if s, ok := r.Statuses[name]; ok {
		return s, nil
	}
	return types.StatusAbsent, nil
}

func (r *Runtime) PublishedHostPort(_ context.Context, container string, containerPort int) (string, error) {
	if _, ok := r.Statuses[container]; !ok {
		return "", fmt.Errorf("no such container: %s", container)
	}
	return r.Ports[container][containerPort], nil
}

func (r *Runtime) NetworkExists(_ context.Context, name string) (bool, error) {
	return r.Networks[name], nil
}

func (r *Runtime) CreateNetwork(_ context.Context, name string) error {
	r.Journal.Record("network-create:%s", name)
	if err := r.NetworkCreateErr[name]; err != nil {
		return err
	}
	r.Networks[name] = true
	return nil
}

func (r *Runtime) VolumesByLabel(_ context.Context, label string) ([]string, error) {
	return r.Volumes[label], nil
}

func (r *Runtime) CreateVolumes(_ context.Context, label string, mounts []types.ResolvedMount) error {
	var names []string
	for _, m := range mounts {
		if m.Kind == types.MountNamedVolume {
			names = append(names, types.ExternalVolume{Prefix: label, Name: m.Name}.DockerName())
		}
	}
	r.Journal.Record("volume-create:%s:%s", label, strings.Join(names, ","))
	if r.VolumeCreateErr != nil {
		return r.VolumeCreateErr
	}
	r.Volumes[label] = append(r.Volumes[label], names...)
	return nil
}

// Composer is a fake compose CLI. Started services become running on the
// attached Runtime, if any.
type Composer struct {
	Journal *Journal
	Runtime *Runtime
	Err     error
	// OnUp, when set, runs before the fake reports success.
	OnUp func(dir string, services []string)
	// Containers maps service names to container names for Runtime updates.
	Containers map[string]string
}

func (c *Composer) Up(_ context.Context, dir string, services ...string) error {
	c.Journal.Record("compose-up:%s", strings.Join(services, ","))
	if c.OnUp != nil {
		c.OnUp(dir, services)
	}
	if c.Err != nil {
		return c.Err
	}
	if c.Runtime != nil {
		for _, svc := range services {
			if name, ok := c.Containers[svc]; ok {
				c.Runtime.Statuses[name] = types.StatusRunning
			}
		}
	}
	return nil
}
