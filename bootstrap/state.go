package bootstrap

import "globalstack/types"

// State is the reconciler's view of a shared container.
type State string

const (
	StateAbsentOrStopped State = "absent_or_stopped"
	StateRunning         State = "running"
)

// StateFromStatus collapses a runtime status into a State.
func StateFromStatus(s types.ContainerStatus) State {
	if s == types.StatusRunning {
		return StateRunning
	}
	return StateAbsentOrStopped
}

// Action is what the reconciler does for a State.
type Action string

const (
	// ActionValidateDrift compares configured ports with the running container's bindings.
	ActionValidateDrift Action = "validate_drift"
	// ActionReportRunning logs that the service is up and stops.
	ActionReportRunning Action = "report_running"
	// ActionProvision creates whatever is missing and starts the container.
	ActionProvision Action = "provision"
)

// Decide is total over State. Only services with operator-configurable ports
// (checkDrift) are validated when already running.
func Decide(state State, checkDrift bool) Action {
	switch state {
	case StateRunning:
		if checkDrift {
			return ActionValidateDrift
		}
		return ActionReportRunning
	default:
		return ActionProvision
	}
}
