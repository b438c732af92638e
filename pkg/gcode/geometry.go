package gcode

// PixelGrid is a decoded grayscale image. Pixel values range from 0 (black)
// to 255 (white), stored row-major with the origin at the top-left corner.
type PixelGrid struct {
	Width  int
	Height int
	Pixels []uint8
}

// At returns the brightness of the pixel at (x, y).
// Callers must keep x and y inside the grid bounds.
func (g *PixelGrid) At(x, y int) uint8 {
	return g.Pixels[y*g.Width+x]
}

// Empty reports whether the grid has no pixels.
func (g *PixelGrid) Empty() bool {
	return g.Width <= 0 || g.Height <= 0 || len(g.Pixels) < g.Width*g.Height
}

// Point is a position in output units (millimeters).
type Point struct {
	X float64
	Y float64
}

// PathOp identifies a path command. Only move and line commands are
// supported; anything else is skipped during lowering and reported as a
// warning on the program.
type PathOp byte

const (
	// PathMove repositions without cutting.
	PathMove PathOp = 'M'

	// PathLine cuts a straight segment to the target point.
	PathLine PathOp = 'L'
)

// PathCommand is one step of a path primitive. Commands the decoder could
// not normalize keep their original opcode so lowering can report them.
type PathCommand struct {
	Op PathOp
	To Point
}

// Line is a straight cut between two points.
type Line struct {
	From Point
	To   Point
}

// Rect is an axis-aligned rectangle, cut clockwise from the given corner.
type Rect struct {
	Corner Point
	Width  float64
	Height float64
}

// Circle is a full circle, cut as two semicircular arcs starting at the
// rightmost point (Center.X+Radius, Center.Y).
type Circle struct {
	Center Point
	Radius float64
}

// Path is a sequence of move/line commands, typically flattened from an
// SVG path by the decoding layer.
type Path struct {
	Commands []PathCommand
}

// PrimitiveKind identifies which field of a Primitive is set.
type PrimitiveKind int

const (
	// PrimitiveLine is a straight segment.
	PrimitiveLine PrimitiveKind = iota

	// PrimitiveRect is an axis-aligned rectangle.
	PrimitiveRect

	// PrimitiveCircle is a full circle.
	PrimitiveCircle

	// PrimitivePath is a move/line command sequence.
	PrimitivePath
)

// String returns the primitive kind name.
func (k PrimitiveKind) String() string {
	switch k {
	case PrimitiveLine:
		return "line"
	case PrimitiveRect:
		return "rect"
	case PrimitiveCircle:
		return "circle"
	case PrimitivePath:
		return "path"
	default:
		return "unknown"
	}
}

// Primitive is a union of the supported vector shapes.
// Exactly one of the pointer fields is set, selected by Kind.
type Primitive struct {
	Kind PrimitiveKind

	Line   *Line
	Rect   *Rect
	Circle *Circle
	Path   *Path
}

// Document is a normalized list of vector primitives in drawing order.
// The decoding layer produces one Document per input file.
type Document struct {
	Primitives []Primitive
}

// Empty reports whether the document contains no primitives.
func (d *Document) Empty() bool {
	return len(d.Primitives) == 0
}
