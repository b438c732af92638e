// Package dialect models the command vocabularies spoken by laser
// engraver controllers.
//
// A dialect determines three things: how a candidate device is recognized
// during discovery (USB vendor/product IDs and description keywords), which
// single-byte or short control tokens drive the machine (home, pause,
// resume, reset, status query), and how the single-line status frames
// returned by the controller are pattern-matched into machine states.
//
// Identification is heuristic. A VID/PID match against the static vendor
// table is authoritative; keyword matching on the port description or
// device name is the fallback when no IDs are available.
package dialect

import "strings"

// Dialect identifies a controller command vocabulary.
type Dialect int

const (
	// Unknown is an unclassified controller.
	Unknown Dialect = iota

	// GRBL covers GRBL firmware, the most common DIY laser controller.
	GRBL

	// Marlin covers Marlin firmware (3D printers fitted with lasers).
	Marlin

	// Smoothie covers Smoothieware boards.
	Smoothie

	// Ruida covers Ruida controllers found in commercial CO2 lasers.
	Ruida
)

// Parse returns the dialect named by s, matching case-insensitively.
// The bool is false when s names no known dialect.
func Parse(s string) (Dialect, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "grbl":
		return GRBL, true
	case "marlin":
		return Marlin, true
	case "smoothie", "smoothieware":
		return Smoothie, true
	case "ruida":
		return Ruida, true
	default:
		return Unknown, false
	}
}

// String returns the dialect name.
func (d Dialect) String() string {
	switch d {
	case GRBL:
		return "GRBL"
	case Marlin:
		return "Marlin"
	case Smoothie:
		return "Smoothieware"
	case Ruida:
		return "Ruida"
	default:
		return "Unknown"
	}
}
