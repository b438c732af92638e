package gcode

import (
	"errors"
	"io"
	"strings"
)

// Encoder errors.
var (
	// ErrInvalidParameter indicates bad encoder inputs. It is a local,
	// caller-side error and is never retried.
	ErrInvalidParameter = errors.New("invalid parameter")
)

// Fixed program framing. Every program opens with absolute millimeter
// positioning and the beam off at the origin, and closes with the beam off
// back at the origin, so an aborted or completed job always leaves the
// laser dark.
var (
	headerLines = []string{
		"; G-code generated by burin",
		"; Units: mm",
		"G21  ; Set units to millimeters",
		"G90  ; Absolute positioning",
		"M3 S0  ; Laser on (PWM mode, power 0)",
		"G0 X0 Y0  ; Move to origin",
	}

	footerLines = []string{
		"M5  ; Laser off",
		"G0 X0 Y0  ; Return to origin",
		"; End of program",
	}
)

// Program is the full ordered instruction sequence produced for one job,
// wrapped in the mandatory header and footer. Programs are immutable once
// produced by an encoder.
type Program struct {
	// Instructions is the motion body, between header and footer.
	Instructions []Instruction

	// Warnings lists primitives or path commands the encoder skipped.
	// Lowering is best-effort: a skip degrades the output but never
	// aborts the rest of the document.
	Warnings []string
}

// newProgram wraps a motion body in the mandatory framing.
func newProgram(body []Instruction, warnings []string) *Program {
	return &Program{Instructions: body, Warnings: warnings}
}

// Lines returns every rendered line of the program in order: header lines,
// one line per instruction, then footer lines.
func (p *Program) Lines() []string {
	lines := make([]string, 0, len(headerLines)+len(p.Instructions)+len(footerLines))
	lines = append(lines, headerLines...)
	for _, in := range p.Instructions {
		lines = append(lines, in.Render())
	}
	lines = append(lines, footerLines...)
	return lines
}

// Render returns the program as newline-joined ASCII text, one command per
// line, consumable by any downstream controller or operator tool.
func (p *Program) Render() string {
	return strings.Join(p.Lines(), "\n") + "\n"
}

// WriteTo writes the rendered program to w.
func (p *Program) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, p.Render())
	return int64(n), err
}

// IsCommand reports whether a rendered line is an executable command.
// Blank lines and comment-only lines (";" or "(" prefixed) are annotations
// and must never be sent to a device.
func IsCommand(line string) bool {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return false
	}
	return trimmed[0] != ';' && trimmed[0] != '('
}
