package manager

import (
	"context"
	"log"

	"globalstack/types"
	"globalstack/volumes"
)

// EnsureVolumeGroup creates the named volumes of group when no volume carrying
// its label exists. If at least one labeled volume is found the whole group is
// taken as present; members added to the group later are not created.
func EnsureVolumeGroup(ctx context.Context, rt Runtime, group types.VolumeGroup, platform types.Platform) error {
	existing, err := rt.VolumesByLabel(ctx, group.Label)
	if err != nil {
		return &ProvisionError{Resource: ResourceVolume, Name: group.Label, Err: err}
	}
	if len(existing) > 0 {
		log.Printf("Volumes: %d volume(s) labeled '%s' present, skipping creation", len(existing), group.Label)
		return nil
	}

	named := volumes.NamedVolumes(group, platform)
	if len(named) == 0 {
		return nil
	}

	log.Printf("Volumes: Creating %d volume(s) for '%s'", len(named), group.Label)
	if err := rt.CreateVolumes(ctx, group.Label, named); err != nil {
		return &ProvisionError{Resource: ResourceVolume, Name: group.Label, Err: err}
	}
	return nil
}
