package manager

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"strconv"

	"github.com/docker/docker/api/types/filters"
	"github.com/docker/docker/api/types/network"
	"github.com/docker/docker/api/types/volume"
	"github.com/docker/docker/client"
	"github.com/docker/go-connections/nat"
	"github.com/spf13/afero"

	"globalstack/config"
	"globalstack/types"
)

// DockerRuntime implements Runtime against the Docker daemon.
type DockerRuntime struct {
	dockerClient *client.Client
	fs           afero.Fs
	platform     types.Platform
}

// NewDockerRuntime creates a DockerRuntime from the environment (DOCKER_HOST etc.).
// fs is used to link named volumes to their host-side paths on Linux.
func NewDockerRuntime(fs afero.Fs, platform types.Platform) (*DockerRuntime, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("failed to create docker client: %w", err)
	}
	return &DockerRuntime{
		dockerClient: cli,
		fs:           fs,
		platform:     platform,
	}, nil
}

// Close releases the underlying client.
func (d *DockerRuntime) Close() error {
	return d.dockerClient.Close()
}

// ContainerStatus inspects name and maps the result to a ContainerStatus.
func (d *DockerRuntime) ContainerStatus(ctx context.Context, name string) (types.ContainerStatus, error) {
	inspect, err := d.dockerClient.ContainerInspect(ctx, name)
	if err != nil {
		if client.IsErrNotFound(err) {
			return types.StatusAbsent, nil
		}
		return "", fmt.Errorf("failed to inspect container %s: %w", name, err)
	}
	if inspect.State != nil && inspect.State.Running {
		return types.StatusRunning, nil
	}
	return types.StatusExited, nil
}

// PublishedHostPort returns the first host port bound to containerPort/tcp.
func (d *DockerRuntime) PublishedHostPort(ctx context.Context, name string, containerPort int) (string, error) {
	inspect, err := d.dockerClient.ContainerInspect(ctx, name)
	if err != nil {
		return "", fmt.Errorf("failed to inspect container %s: %w", name, err)
	}

	port, err := nat.NewPort("tcp", strconv.Itoa(containerPort))
	if err != nil {
		return "", fmt.Errorf("invalid container port %d: %w", containerPort, err)
	}

	if inspect.NetworkSettings == nil || inspect.NetworkSettings.Ports == nil {
		return "", nil
	}
	bindings, ok := inspect.NetworkSettings.Ports[port]
	if !ok || len(bindings) == 0 {
		return "", nil
	}
	return bindings[0].HostPort, nil
}

// NetworkExists reports whether a network called name exists.
func (d *DockerRuntime) NetworkExists(ctx context.Context, name string) (bool, error) {
	_, err := d.dockerClient.NetworkInspect(ctx, name, network.InspectOptions{})
	if err != nil {
		if client.IsErrNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to inspect network %s: %w", name, err)
	}
	return true, nil
}

// CreateNetwork creates a bridge network.
func (d *DockerRuntime) CreateNetwork(ctx context.Context, name string) error {
	resp, err := d.dockerClient.NetworkCreate(ctx, name, network.CreateOptions{Driver: "bridge"})
	if err != nil {
		return fmt.Errorf("failed to create network %s: %w", name, err)
	}
	log.Printf("DockerRuntime: Network '%s' created (ID: %s)", name, resp.ID)
	return nil
}

// VolumesByLabel lists volumes whose label key equals label.
func (d *DockerRuntime) VolumesByLabel(ctx context.Context, label string) ([]string, error) {
	resp, err := d.dockerClient.VolumeList(ctx, volume.ListOptions{
		Filters: filters.NewArgs(filters.Arg("label", config.VolumeLabelKey+"="+label)),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list volumes for label %s: %w", label, err)
	}
	names := make([]string, 0, len(resp.Volumes))
	for _, v := range resp.Volumes {
		names = append(names, v.Name)
	}
	return names, nil
}

// CreateVolumes creates "<label>_<name>" for every named mount. Skip and bind
// mounts are ignored. On Linux each volume's mountpoint is linked to the
// mount's host path so operators can reach the data under the root directory.
func (d *DockerRuntime) CreateVolumes(ctx context.Context, label string, mounts []types.ResolvedMount) error {
	for _, m := range mounts {
		if m.Kind != types.MountNamedVolume {
			continue
		}
		ext := types.ExternalVolume{Prefix: label, Name: m.Name}
		vol, err := d.dockerClient.VolumeCreate(ctx, volume.CreateOptions{
			Name:   ext.DockerName(),
			Labels: map[string]string{config.VolumeLabelKey: label},
		})
		if err != nil {
			return fmt.Errorf("failed to create volume %s: %w", ext.DockerName(), err)
		}
		log.Printf("DockerRuntime: Volume '%s' created", vol.Name)

		if d.platform == types.PlatformLinux && m.HostPath != "" && vol.Mountpoint != "" {
			if err := d.linkVolume(vol.Mountpoint, m.HostPath); err != nil {
				return err
			}
		}
	}
	return nil
}

func (d *DockerRuntime) linkVolume(mountpoint, hostPath string) error {
	linker, ok := d.fs.(afero.Linker)
	if !ok {
		log.Printf("DockerRuntime: Filesystem does not support symlinks, not linking '%s'", hostPath)
		return nil
	}
	if exists, err := afero.Exists(d.fs, hostPath); err == nil && exists {
		log.Printf("DockerRuntime: '%s' already exists, not linking it to %s", hostPath, mountpoint)
		return nil
	}
	if err := d.fs.MkdirAll(filepath.Dir(hostPath), 0o755); err != nil {
		return fmt.Errorf("failed to create parent of %s: %w", hostPath, err)
	}
	if err := linker.SymlinkIfPossible(mountpoint, hostPath); err != nil {
		return fmt.Errorf("failed to link %s to %s: %w", hostPath, mountpoint, err)
	}
	return nil
}
