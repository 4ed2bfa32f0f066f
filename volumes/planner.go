package volumes

import "globalstack/types"

// Resolve decides how spec is mounted on platform. It has no side effects.
//
// SkipVolume wins over the platform flags: a spec that names a host path to
// bind is bound on every platform.
func Resolve(spec types.VolumeSpec, platform types.Platform) types.ResolvedMount {
	switch {
	case spec.SkipVolume:
		return types.ResolvedMount{
			Kind:          types.MountBind,
			HostPath:      spec.HostPath,
			ContainerPath: spec.ContainerPath,
			ReadOnly:      spec.ReadOnly,
		}
	case platform == types.PlatformDarwin && spec.SkipOnDarwin:
		return types.ResolvedMount{Kind: types.MountSkip, Name: spec.Name}
	case platform == types.PlatformLinux && spec.SkipOnLinux:
		return types.ResolvedMount{Kind: types.MountSkip, Name: spec.Name}
	default:
		return types.ResolvedMount{
			Kind:          types.MountNamedVolume,
			Name:          spec.Name,
			HostPath:      spec.HostPath,
			ContainerPath: spec.ContainerPath,
			ReadOnly:      spec.ReadOnly,
		}
	}
}

// ResolveGroup resolves every volume of g, keeping order.
func ResolveGroup(g types.VolumeGroup, platform types.Platform) []types.ResolvedMount {
	mounts := make([]types.ResolvedMount, 0, len(g.Volumes))
	for _, spec := range g.Volumes {
		mounts = append(mounts, Resolve(spec, platform))
	}
	return mounts
}

// NamedVolumes filters the mounts of g down to runtime-managed volumes.
func NamedVolumes(g types.VolumeGroup, platform types.Platform) []types.ResolvedMount {
	var named []types.ResolvedMount
	for _, m := range ResolveGroup(g, platform) {
		if m.Kind == types.MountNamedVolume {
			named = append(named, m)
		}
	}
	return named
}
