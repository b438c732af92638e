package gcode

import (
	"strings"
	"testing"
)

// firstMotion returns the first executable motion line of a rendered
// program, skipping comments and modal setup commands.
func firstMotion(lines []string) string {
	for _, line := range lines {
		if !IsCommand(line) {
			continue
		}
		if strings.HasPrefix(line, "G0 ") || strings.HasPrefix(line, "G1 ") || strings.HasPrefix(line, "G2 ") {
			return line
		}
	}
	return ""
}

// lastMotion returns the last executable motion line.
func lastMotion(lines []string) string {
	last := ""
	for _, line := range lines {
		if !IsCommand(line) {
			continue
		}
		if strings.HasPrefix(line, "G0 ") || strings.HasPrefix(line, "G1 ") || strings.HasPrefix(line, "G2 ") {
			last = line
		}
	}
	return last
}

func TestProgramHeaderFooterInvariant(t *testing.T) {
	// Every program, raster or vector, must open and close with a
	// beam-off move to origin.
	rasterProg, err := EncodeRaster(grid(2, 2, 0, 128, 128, 0), RasterOptions{
		WorkWidth: 2, WorkHeight: 2, LineSpacing: 1, PowerMax: 1000,
	})
	if err != nil {
		t.Fatalf("EncodeRaster failed: %v", err)
	}

	vectorProg, err := EncodeVector(&Document{Primitives: []Primitive{
		{Kind: PrimitiveLine, Line: &Line{From: Point{X: 5, Y: 5}, To: Point{X: 9, Y: 9}}},
	}}, DefaultVectorOptions())
	if err != nil {
		t.Fatalf("EncodeVector failed: %v", err)
	}

	for _, tt := range []struct {
		name string
		prog *Program
	}{
		{"Raster", rasterProg},
		{"Vector", vectorProg},
	} {
		t.Run(tt.name, func(t *testing.T) {
			lines := tt.prog.Lines()

			first := firstMotion(lines)
			if !strings.HasPrefix(first, "G0 X0 Y0") {
				t.Errorf("first motion = %q, want beam-off move to origin", first)
			}

			last := lastMotion(lines)
			if !strings.HasPrefix(last, "G0 X0 Y0") {
				t.Errorf("last motion = %q, want beam-off return to origin", last)
			}

			// The beam must be explicitly off before the return move.
			joined := strings.Join(lines, "\n")
			if !strings.Contains(joined, "M5") {
				t.Error("footer missing beam-off command")
			}
			if !strings.Contains(joined, "G21") || !strings.Contains(joined, "G90") {
				t.Error("header missing unit/positioning setup")
			}
		})
	}
}

func TestProgramRender(t *testing.T) {
	prog, err := EncodeVector(&Document{}, DefaultVectorOptions())
	if err != nil {
		t.Fatalf("EncodeVector failed: %v", err)
	}

	text := prog.Render()
	if !strings.HasSuffix(text, "\n") {
		t.Error("rendered program does not end with a newline")
	}
	if got, want := len(strings.Split(strings.TrimSuffix(text, "\n"), "\n")), len(prog.Lines()); got != want {
		t.Errorf("rendered lines = %d, want %d", got, want)
	}
}

func TestIsCommand(t *testing.T) {
	tests := []struct {
		line string
		want bool
	}{
		{"G1 X1.000 Y2.000 S500 F1000", true},
		{"G21  ; Set units to millimeters", true},
		{"; End of program", false},
		{"( legacy comment )", false},
		{"", false},
		{"   ", false},
		{"  M5", true},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			if got := IsCommand(tt.line); got != tt.want {
				t.Errorf("IsCommand(%q) = %v, want %v", tt.line, got, tt.want)
			}
		})
	}
}

func TestInstructionRender(t *testing.T) {
	tests := []struct {
		name string
		in   Instruction
		want string
	}{
		{"Rapid", rapidTo(1.5, 2), "G0 X1.500 Y2.000 S0"},
		{"Linear", linearTo(3, 4, 800, 1000), "G1 X3.000 Y4.000 S800 F1000"},
		{"Arc", arcTo(-5, 0, -5, 0, 800, 1000), "G2 X-5.000 Y0.000 I-5.000 J0.000 S800 F1000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.in.Render(); got != tt.want {
				t.Errorf("Render() = %q, want %q", got, tt.want)
			}
		})
	}
}
