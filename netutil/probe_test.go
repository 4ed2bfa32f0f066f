package netutil

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsPortFreeOccupied(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer l.Close()

	port := l.Addr().(*net.TCPAddr).Port
	assert.False(t, IsPortFree("127.0.0.1", port), "port %d has a listener", port)
}

func TestIsPortFreeAfterClose(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := l.Addr().(*net.TCPAddr).Port
	require.NoError(t, l.Close())

	p := NewProber(200 * time.Millisecond)
	assert.True(t, p.IsPortFree("127.0.0.1", port), "port %d was released", port)
}

func TestNewProberDefaultTimeout(t *testing.T) {
	assert.Equal(t, DefaultProbeTimeout, NewProber(0).Timeout)
	assert.Equal(t, 5*time.Second, NewProber(5*time.Second).Timeout)
}
