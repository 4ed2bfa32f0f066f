package bootstrap

import (
	"fmt"
	"strconv"
	"strings"

	"globalstack/types"
)

// PortConflictError means a required host port is taken before first start.
type PortConflictError struct {
	Ports []int
}

func (e *PortConflictError) Error() string {
	ports := make([]string, 0, len(e.Ports))
	for _, p := range e.Ports {
		ports = append(ports, strconv.Itoa(p))
	}
	return fmt.Sprintf("cannot create/start proxy container: port(s) %s already in use, make sure they are free", strings.Join(ports, ", "))
}

// PortDriftError means a running container publishes different host ports than configured.
type PortDriftError struct {
	Container  string
	Mismatches []types.PortBinding
}

func (e *PortDriftError) Error() string {
	parts := make([]string, 0, len(e.Mismatches))
	for _, m := range e.Mismatches {
		bound := m.Bound
		if bound == "" {
			bound = "unpublished"
		}
		parts = append(parts, fmt.Sprintf("container port %d: configured %d, bound %s", m.ContainerPort, m.Configured, bound))
	}
	return fmt.Sprintf("%s is running with different ports than configured (%s); recreate it to apply the configuration",
		e.Container, strings.Join(parts, "; "))
}

// StartError means compose could not bring a service up.
type StartError struct {
	Service   string
	Container string
	Err       error
}

func (e *StartError) Error() string {
	return fmt.Sprintf("there was some error in starting %s container, please check logs: %v", e.Container, e.Err)
}

func (e *StartError) Unwrap() error {
	return e.Err
}
