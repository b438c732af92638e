package session

import "github.com/burin-project/burin-go/pkg/dialect"

// MachineStatus is the session's view of the machine state.
type MachineStatus int

const (
	// StatusDisconnected indicates no open transport.
	StatusDisconnected MachineStatus = iota

	// StatusIdle indicates a connected machine awaiting commands.
	StatusIdle

	// StatusHoming indicates a homing cycle in progress.
	StatusHoming

	// StatusRunning indicates a program is being executed.
	StatusRunning

	// StatusPaused indicates execution is held.
	StatusPaused

	// StatusAlarm indicates the machine locked itself out after a
	// fault or emergency stop. Cleared by a soft reset.
	StatusAlarm

	// StatusError indicates the device rejected a command.
	StatusError
)

// String returns the machine status name.
func (s MachineStatus) String() string {
	switch s {
	case StatusDisconnected:
		return "DISCONNECTED"
	case StatusIdle:
		return "IDLE"
	case StatusHoming:
		return "HOMING"
	case StatusRunning:
		return "RUNNING"
	case StatusPaused:
		return "PAUSED"
	case StatusAlarm:
		return "ALARM"
	case StatusError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// statusFromTelemetry maps a parsed status frame state to a machine
// status. Returns false when the frame carries no usable state.
func statusFromTelemetry(st dialect.State) (MachineStatus, bool) {
	switch st {
	case dialect.StateIdle:
		return StatusIdle, true
	case dialect.StateRun:
		return StatusRunning, true
	case dialect.StateHold:
		return StatusPaused, true
	case dialect.StateHome:
		return StatusHoming, true
	case dialect.StateAlarm:
		return StatusAlarm, true
	default:
		return StatusDisconnected, false
	}
}
