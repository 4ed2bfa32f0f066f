package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPortBindingMatches(t *testing.T) {
	assert.True(t, PortBinding{ContainerPort: 80, Configured: 80, Bound: "80"}.Matches())
	assert.False(t, PortBinding{ContainerPort: 80, Configured: 80, Bound: "8080"}.Matches())
	assert.False(t, PortBinding{ContainerPort: 443, Configured: 443, Bound: ""}.Matches())
}

func TestResolvedMountComposeEntry(t *testing.T) {
	named := ResolvedMount{Kind: MountNamedVolume, Name: "certs", HostPath: "/h/certs", ContainerPath: "/etc/nginx/certs"}
	assert.Equal(t, "certs:/etc/nginx/certs", named.ComposeEntry())

	bind := ResolvedMount{Kind: MountBind, HostPath: "/var/run/docker.sock", ContainerPath: "/tmp/docker.sock", ReadOnly: true}
	assert.Equal(t, "/var/run/docker.sock:/tmp/docker.sock:ro", bind.ComposeEntry())

	assert.Empty(t, ResolvedMount{Kind: MountSkip, Name: "db_data"}.ComposeEntry())
}

func TestMountKindString(t *testing.T) {
	assert.Equal(t, "skip", MountSkip.String())
	assert.Equal(t, "named-volume", MountNamedVolume.String())
	assert.Equal(t, "bind", MountBind.String())
}

func TestExternalVolumeDockerName(t *testing.T) {
	assert.Equal(t, "global-db_db_data", ExternalVolume{Prefix: "global-db", Name: "db_data"}.DockerName())
}
