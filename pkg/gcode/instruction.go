package gcode

import "fmt"

// Power and feed rate limits.
const (
	// PowerMax is the maximum laser power (GRBL S parameter scale).
	PowerMax = 1000

	// DefaultFeedRate is the default cutting feed rate in mm/min.
	DefaultFeedRate = 1000
)

// Kind identifies the motion type of an instruction.
type Kind int

const (
	// KindRapid is a non-emitting positioning move (G0, beam off).
	KindRapid Kind = iota

	// KindLinear is a powered straight cut (G1).
	KindLinear

	// KindArc is a powered clockwise arc cut (G2).
	KindArc
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindRapid:
		return "RAPID"
	case KindLinear:
		return "LINEAR"
	case KindArc:
		return "ARC"
	default:
		return "UNKNOWN"
	}
}

// Instruction is one motion/power directive. Instructions are immutable
// value types; X and Y are absolute positions in millimeters, I and J are
// arc center offsets from the current position (arcs only), Power is the
// laser PWM value in [0, PowerMax], and FeedRate is in mm/min.
type Instruction struct {
	Kind     Kind
	X        float64
	Y        float64
	I        float64
	J        float64
	Power    int
	FeedRate int
}

// Emitting reports whether the instruction cuts (beam on).
// Rapid moves always travel with the beam off.
func (in Instruction) Emitting() bool {
	return in.Kind != KindRapid && in.Power > 0
}

// Render returns the single ASCII command line for the instruction.
// Coordinates are formatted to three decimals, matching common controller
// precision.
func (in Instruction) Render() string {
	switch in.Kind {
	case KindLinear:
		return fmt.Sprintf("G1 X%.3f Y%.3f S%d F%d", in.X, in.Y, in.Power, in.FeedRate)
	case KindArc:
		return fmt.Sprintf("G2 X%.3f Y%.3f I%.3f J%.3f S%d F%d", in.X, in.Y, in.I, in.J, in.Power, in.FeedRate)
	default:
		return fmt.Sprintf("G0 X%.3f Y%.3f S0", in.X, in.Y)
	}
}

// rapidTo returns a non-emitting positioning move.
func rapidTo(x, y float64) Instruction {
	return Instruction{Kind: KindRapid, X: x, Y: y}
}

// linearTo returns a powered straight cut.
func linearTo(x, y float64, power, feed int) Instruction {
	return Instruction{Kind: KindLinear, X: x, Y: y, Power: power, FeedRate: feed}
}

// arcTo returns a powered clockwise arc cut with center offset (i, j).
func arcTo(x, y, i, j float64, power, feed int) Instruction {
	return Instruction{Kind: KindArc, X: x, Y: y, I: i, J: j, Power: power, FeedRate: feed}
}
