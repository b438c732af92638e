package dialect

import "strings"

// State is a machine state keyword extracted from a telemetry status frame.
type State int

const (
	// StateUnknown means the frame carried no recognizable marker.
	StateUnknown State = iota

	// StateIdle means the machine is ready for commands.
	StateIdle

	// StateRun means a job is executing.
	StateRun

	// StateHold means the job is paused (feed hold).
	StateHold

	// StateHome means a homing cycle is in progress.
	StateHome

	// StateAlarm means the machine is locked out by a fault.
	StateAlarm
)

// String returns the state keyword name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateRun:
		return "Run"
	case StateHold:
		return "Hold"
	case StateHome:
		return "Home"
	case StateAlarm:
		return "Alarm"
	default:
		return "Unknown"
	}
}

// statusMarkers maps frame keywords to states. Order matters: alarm is
// checked first so a frame carrying multiple markers resolves to the most
// severe state.
var statusMarkers = []struct {
	marker string
	state  State
}{
	{"Alarm", StateAlarm},
	{"Hold", StateHold},
	{"Home", StateHome},
	{"Run", StateRun},
	{"Idle", StateIdle},
}

// ParseStatusFrame pattern-matches a single-line status frame, e.g. the
// GRBL form "<Idle|MPos:0.000,0.000,0.000|FS:0,0>". It returns the
// extracted state and whether any marker was found.
func ParseStatusFrame(line string) (State, bool) {
	for _, m := range statusMarkers {
		if strings.Contains(line, m.marker) {
			return m.state, true
		}
	}
	return StateUnknown, false
}

// IsErrorReply reports whether a device reply line signals a rejected or
// failed command. A silent device is handled separately by the caller's
// reply timeout.
func IsErrorReply(line string) bool {
	lower := strings.ToLower(line)
	return strings.Contains(lower, "error") || strings.Contains(lower, "alarm:")
}

// IsAck reports whether a reply line is a plain acknowledgment.
func IsAck(line string) bool {
	return strings.TrimSpace(strings.ToLower(line)) == "ok"
}
