package types

import "strconv"

// ContainerStatus represents the state of a shared-tier container as reported by the runtime
type ContainerStatus string

const (
	StatusAbsent  ContainerStatus = "absent"  // No container with that name exists
	StatusExited  ContainerStatus = "exited"  // Created but not running
	StatusRunning ContainerStatus = "running" // Running
)

// Platform identifies the host operating system family that drives mount strategy.
type Platform string

const (
	PlatformLinux  Platform = "linux"
	PlatformDarwin Platform = "darwin"
)

// PortBinding pairs a configured host port with the host port actually published
// by a running container. It is only used while checking for drift.
type PortBinding struct {
	ContainerPort int    // Port inside the container, e.g. 80
	Configured    int    // Host port taken from configuration
	Bound         string // Host port reported by the runtime, empty if unpublished
}

// Matches reports whether the observed binding equals the configured one.
func (b PortBinding) Matches() bool {
	return b.Bound == strconv.Itoa(b.Configured)
}
