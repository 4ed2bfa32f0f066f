package manager

import (
	"context"
	"fmt"

	"globalstack/types"
)

// Runtime is the subset of the container engine the reconciler needs.
type Runtime interface {
	// ContainerStatus reports whether the named container is running, exited or absent.
	ContainerStatus(ctx context.Context, name string) (types.ContainerStatus, error)
	// PublishedHostPort returns the host port bound to containerPort/tcp, or "" when unpublished.
	PublishedHostPort(ctx context.Context, container string, containerPort int) (string, error)
	NetworkExists(ctx context.Context, name string) (bool, error)
	CreateNetwork(ctx context.Context, name string) error
	// VolumesByLabel lists the names of volumes carrying label.
	VolumesByLabel(ctx context.Context, label string) ([]string, error)
	// CreateVolumes creates one named volume per mount, labeled with label.
	CreateVolumes(ctx context.Context, label string, mounts []types.ResolvedMount) error
}

// Composer brings compose services up.
type Composer interface {
	Up(ctx context.Context, dir string, services ...string) error
}

// Resource kinds reported by ProvisionError.
const (
	ResourceNetwork = "network"
	ResourceVolume  = "volume"
)

// ProvisionError reports a network or volume that could not be queried or created.
type ProvisionError struct {
	Resource string // ResourceNetwork or ResourceVolume
	Name     string // Network name or volume group label
	Err      error
}

func (e *ProvisionError) Error() string {
	return fmt.Sprintf("unable to create %s %s: %v", e.Resource, e.Name, e.Err)
}

func (e *ProvisionError) Unwrap() error {
	return e.Err
}
