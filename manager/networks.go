package manager

import (
	"context"
	"log"
)

// EnsureNetworks creates each named network that does not exist yet. The first
// failure aborts with a *ProvisionError naming the network.
func EnsureNetworks(ctx context.Context, rt Runtime, names ...string) error {
	for _, name := range names {
		exists, err := rt.NetworkExists(ctx, name)
		if err != nil {
			return &ProvisionError{Resource: ResourceNetwork, Name: name, Err: err}
		}
		if exists {
			continue
		}
		log.Printf("Networks: Creating network '%s'", name)
		if err := rt.CreateNetwork(ctx, name); err != nil {
			return &ProvisionError{Resource: ResourceNetwork, Name: name, Err: err}
		}
	}
	return nil
}
