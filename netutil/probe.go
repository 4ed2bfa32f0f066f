package netutil

import (
	"net"
	"strconv"
	"time"
)

// DefaultProbeTimeout bounds a single connection attempt.
const DefaultProbeTimeout = time.Second

// Prober checks whether TCP ports are free on a host.
type Prober struct {
	Timeout time.Duration
}

// NewProber returns a Prober using timeout, or DefaultProbeTimeout when zero.
func NewProber(timeout time.Duration) *Prober {
	if timeout <= 0 {
		timeout = DefaultProbeTimeout
	}
	return &Prober{Timeout: timeout}
}

// IsPortFree reports whether nothing accepts connections on host:port.
// A single connection attempt is made; a refused or timed-out dial means free.
func (p *Prober) IsPortFree(host string, port int) bool {
	conn, err := net.DialTimeout("tcp", net.JoinHostPort(host, strconv.Itoa(port)), p.Timeout)
	if err != nil {
		return true
	}
	conn.Close()
	return false
}

// IsPortFree probes with the default timeout.
func IsPortFree(host string, port int) bool {
	return NewProber(DefaultProbeTimeout).IsPortFree(host, port)
}
