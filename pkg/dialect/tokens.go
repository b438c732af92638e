package dialect

// ControlTokens carries the short wire tokens driving one controller
// family. Full-line tokens are acknowledged with one reply line;
// single-byte realtime tokens are not (see IsRealtime).
type ControlTokens struct {
	// Home starts the homing cycle.
	Home string

	// Pause holds the running job (GRBL feed hold).
	Pause string

	// Resume continues a held job (GRBL cycle start).
	Resume string

	// Reset soft-resets the controller, clearing the job and alarms.
	Reset string

	// StatusQuery requests a single status frame.
	StatusQuery string
}

// grblTokens are the classic GRBL realtime/system commands.
var grblTokens = ControlTokens{
	Home:        "$H",
	Pause:       "!",
	Resume:      "~",
	Reset:       "\x18", // Ctrl-X soft reset
	StatusQuery: "?",
}

// marlinTokens use Marlin's G/M command equivalents.
var marlinTokens = ControlTokens{
	Home:        "G28",
	Pause:       "M25",
	Resume:      "M24",
	Reset:       "M112",
	StatusQuery: "M114",
}

// IsRealtime reports whether a control token is one of GRBL's
// single-byte realtime commands. The controller intercepts those out of
// band and sends no reply line; every full-line command answers with
// one reply, which the sender must consume to keep the wire aligned.
func IsRealtime(token string) bool {
	return len(token) == 1
}

// Tokens returns the control tokens for a dialect. Smoothieware accepts
// the GRBL token set; Ruida and unknown controllers get the GRBL set as
// the least-bad default.
func Tokens(d Dialect) ControlTokens {
	switch d {
	case Marlin:
		return marlinTokens
	default:
		return grblTokens
	}
}
