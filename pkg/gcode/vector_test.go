package gcode

import (
	"errors"
	"strings"
	"testing"
)

func TestEncodeVectorInvalidParameters(t *testing.T) {
	doc := &Document{}

	tests := []struct {
		name string
		doc  *Document
		opts VectorOptions
	}{
		{"NilDocument", nil, DefaultVectorOptions()},
		{"ZeroPower", doc, VectorOptions{Power: 0}},
		{"NegativePower", doc, VectorOptions{Power: -5}},
		{"PowerAboveScale", doc, VectorOptions{Power: PowerMax + 1}},
		{"NegativeFeed", doc, VectorOptions{Power: 500, FeedRate: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := EncodeVector(tt.doc, tt.opts)
			if !errors.Is(err, ErrInvalidParameter) {
				t.Errorf("EncodeVector error = %v, want ErrInvalidParameter", err)
			}
		})
	}
}

func TestEncodeVectorLine(t *testing.T) {
	doc := &Document{Primitives: []Primitive{
		{Kind: PrimitiveLine, Line: &Line{From: Point{X: 1, Y: 2}, To: Point{X: 3, Y: 4}}},
	}}

	prog, err := EncodeVector(doc, VectorOptions{Power: 800, FeedRate: 1200})
	if err != nil {
		t.Fatalf("EncodeVector failed: %v", err)
	}

	want := []Instruction{
		rapidTo(1, 2),
		linearTo(3, 4, 800, 1200),
	}
	if len(prog.Instructions) != len(want) {
		t.Fatalf("instructions = %d, want %d", len(prog.Instructions), len(want))
	}
	for i := range want {
		if prog.Instructions[i] != want[i] {
			t.Errorf("instruction %d = %+v, want %+v", i, prog.Instructions[i], want[i])
		}
	}
}

func TestEncodeVectorRectClockwise(t *testing.T) {
	doc := &Document{Primitives: []Primitive{
		{Kind: PrimitiveRect, Rect: &Rect{Corner: Point{X: 10, Y: 20}, Width: 30, Height: 40}},
	}}

	prog, err := EncodeVector(doc, VectorOptions{Power: 500, FeedRate: 1000})
	if err != nil {
		t.Fatalf("EncodeVector failed: %v", err)
	}

	want := []Instruction{
		rapidTo(10, 20),
		linearTo(40, 20, 500, 1000),
		linearTo(40, 60, 500, 1000),
		linearTo(10, 60, 500, 1000),
		linearTo(10, 20, 500, 1000),
	}
	if len(prog.Instructions) != len(want) {
		t.Fatalf("instructions = %d, want %d", len(prog.Instructions), len(want))
	}
	for i := range want {
		if prog.Instructions[i] != want[i] {
			t.Errorf("instruction %d = %+v, want %+v", i, prog.Instructions[i], want[i])
		}
	}
}

func TestEncodeVectorCircleDeterministic(t *testing.T) {
	// Circle lowering must start at (cx+r, cy) and trace exactly two arc
	// instructions, never a polygonal approximation.
	doc := &Document{Primitives: []Primitive{
		{Kind: PrimitiveCircle, Circle: &Circle{Center: Point{X: 0, Y: 0}, Radius: 5}},
	}}

	prog, err := EncodeVector(doc, VectorOptions{Power: 800, FeedRate: 1000})
	if err != nil {
		t.Fatalf("EncodeVector failed: %v", err)
	}

	if len(prog.Instructions) != 3 {
		t.Fatalf("instructions = %d, want 3 (rapid + two arcs)", len(prog.Instructions))
	}

	first := prog.Instructions[0]
	if first.Kind != KindRapid || first.X != 5 || first.Y != 0 {
		t.Errorf("first move = %+v, want rapid to (5, 0)", first)
	}

	wantArcs := []Instruction{
		arcTo(-5, 0, -5, 0, 800, 1000),
		arcTo(5, 0, 5, 0, 800, 1000),
	}
	for i, want := range wantArcs {
		got := prog.Instructions[i+1]
		if got != want {
			t.Errorf("arc %d = %+v, want %+v", i, got, want)
		}
	}
}

func TestEncodeVectorPathSkipsUnsupported(t *testing.T) {
	// Curve commands are skipped with a warning; the rest of the path
	// still lowers.
	doc := &Document{Primitives: []Primitive{
		{Kind: PrimitivePath, Path: &Path{Commands: []PathCommand{
			{Op: PathMove, To: Point{X: 0, Y: 0}},
			{Op: PathOp('C'), To: Point{X: 1, Y: 1}},
			{Op: PathLine, To: Point{X: 2, Y: 2}},
		}}},
	}}

	prog, err := EncodeVector(doc, VectorOptions{Power: 600, FeedRate: 1000})
	if err != nil {
		t.Fatalf("EncodeVector failed: %v", err)
	}

	if len(prog.Instructions) != 2 {
		t.Fatalf("instructions = %d, want 2", len(prog.Instructions))
	}
	if len(prog.Warnings) != 1 {
		t.Fatalf("warnings = %d, want 1", len(prog.Warnings))
	}
	if !strings.Contains(prog.Warnings[0], "C") {
		t.Errorf("warning %q does not name the skipped command", prog.Warnings[0])
	}
	if prog.Instructions[1] != linearTo(2, 2, 600, 1000) {
		t.Errorf("line after skip = %+v, want cut to (2, 2)", prog.Instructions[1])
	}
}

func TestEncodeVectorEmptyDocument(t *testing.T) {
	prog, err := EncodeVector(&Document{}, DefaultVectorOptions())
	if err != nil {
		t.Fatalf("EncodeVector failed: %v", err)
	}
	if len(prog.Instructions) != 0 {
		t.Errorf("instructions = %d, want 0", len(prog.Instructions))
	}
	// Even an empty program keeps the safety framing.
	lines := prog.Lines()
	if len(lines) == 0 {
		t.Fatal("empty program rendered no lines")
	}
}
