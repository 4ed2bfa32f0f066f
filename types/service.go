package types

// ServiceSpec describes one shared-tier container as it appears in the compose descriptor.
type ServiceSpec struct {
	Name          string   `yaml:"-"`                     // Logical compose service name, e.g. "global-nginx-proxy"
	ContainerName string   `yaml:"container_name"`        // Globally unique container name
	Image         string   `yaml:"image"`                 // Image reference including tag
	Restart       string   `yaml:"restart,omitempty"`     // Restart policy
	Command       []string `yaml:"command,omitempty"`     // Optional command override
	Ports         []string `yaml:"ports,omitempty"`       // "host:container" pairs, in order
	Environment   []string `yaml:"environment,omitempty"` // KEY=value assignments, in order
	Volumes       []string `yaml:"volumes,omitempty"`     // Rendered mounts, in order
	Networks      []string `yaml:"networks,omitempty"`    // Networks to attach
}

// VolumeSpec is one logical volume of a labeled group.
type VolumeSpec struct {
	Name          string // Symbolic name, e.g. "db_data"
	HostPath      string // Host-side path used for symlinks or bind mounts
	ContainerPath string // Mount point inside the container
	ReadOnly      bool   // Mount read-only
	SkipOnDarwin  bool   // Not mounted at all on Darwin hosts
	SkipOnLinux   bool   // Not mounted at all on Linux hosts
	SkipVolume    bool   // Bind-mount HostPath directly instead of using a named volume
}

// VolumeGroup is the set of volumes owned by one shared service, identified by label.
type VolumeGroup struct {
	Label   string
	Volumes []VolumeSpec
}

// MountKind is the physical strategy chosen for a VolumeSpec on a given platform.
type MountKind int

const (
	MountSkip MountKind = iota
	MountNamedVolume
	MountBind
)

func (k MountKind) String() string {
	switch k {
	case MountNamedVolume:
		return "named-volume"
	case MountBind:
		return "bind"
	default:
		return "skip"
	}
}

// ResolvedMount is the outcome of planning a VolumeSpec for a platform.
// Name is set for named volumes, HostPath for bind mounts.
type ResolvedMount struct {
	Kind          MountKind
	Name          string
	HostPath      string
	ContainerPath string
	ReadOnly      bool
}

// Source returns the left-hand side of a compose volume entry.
func (m ResolvedMount) Source() string {
	if m.Kind == MountBind {
		return m.HostPath
	}
	return m.Name
}

// ComposeEntry renders the mount in compose short syntax. Skipped mounts render empty.
func (m ResolvedMount) ComposeEntry() string {
	if m.Kind == MountSkip {
		return ""
	}
	entry := m.Source() + ":" + m.ContainerPath
	if m.ReadOnly {
		entry += ":ro"
	}
	return entry
}

// ExternalVolume records a named volume created outside compose and referenced as external.
type ExternalVolume struct {
	Prefix string // Label of the owning group
	Name   string // Symbolic volume name
}

// DockerName is the runtime name of the volume, "<prefix>_<name>".
func (v ExternalVolume) DockerName() string {
	return v.Prefix + "_" + v.Name
}
