package gcode

import "fmt"

// VectorOptions configures vector (cutting/line engraving) lowering.
type VectorOptions struct {
	// Power is the fixed laser power for every cut, in [1, PowerMax].
	Power int

	// FeedRate is the cutting feed rate in mm/min.
	// Zero selects DefaultFeedRate.
	FeedRate int
}

// DefaultVectorOptions returns vector options with a moderate cutting power.
func DefaultVectorOptions() VectorOptions {
	return VectorOptions{
		Power:    800,
		FeedRate: DefaultFeedRate,
	}
}

// validate checks option consistency.
func (o *VectorOptions) validate() error {
	if o.Power <= 0 || o.Power > PowerMax {
		return fmt.Errorf("%w: power %d outside (0, %d]", ErrInvalidParameter, o.Power, PowerMax)
	}
	if o.FeedRate < 0 {
		return fmt.Errorf("%w: negative feed rate %d", ErrInvalidParameter, o.FeedRate)
	}
	return nil
}

// EncodeVector lowers a normalized primitive list into a cutting program.
//
// Each primitive becomes one non-emitting rapid move to its start followed
// by one or more powered moves tracing the shape. Rectangles close as four
// linear segments in a fixed clockwise order from the given corner. Circles
// lower to two semicircular arcs from the rightmost point, forcing a
// deterministic cut direction. Path commands other than move and line are
// skipped and reported as warnings on the program; a skip never aborts the
// rest of the document.
func EncodeVector(doc *Document, opts VectorOptions) (*Program, error) {
	if doc == nil {
		return nil, fmt.Errorf("%w: nil document", ErrInvalidParameter)
	}
	if err := opts.validate(); err != nil {
		return nil, err
	}

	feed := opts.FeedRate
	if feed == 0 {
		feed = DefaultFeedRate
	}

	var (
		body     []Instruction
		warnings []string
	)

	for i, prim := range doc.Primitives {
		switch prim.Kind {
		case PrimitiveLine:
			body = lowerLine(body, prim.Line, opts.Power, feed)
		case PrimitiveRect:
			body = lowerRect(body, prim.Rect, opts.Power, feed)
		case PrimitiveCircle:
			body = lowerCircle(body, prim.Circle, opts.Power, feed)
		case PrimitivePath:
			var w []string
			body, w = lowerPath(body, prim.Path, opts.Power, feed)
			warnings = append(warnings, w...)
		default:
			warnings = append(warnings, fmt.Sprintf("primitive %d: unsupported kind %d", i, prim.Kind))
		}
	}

	return newProgram(body, warnings), nil
}

func lowerLine(body []Instruction, l *Line, power, feed int) []Instruction {
	body = append(body, rapidTo(l.From.X, l.From.Y))
	body = append(body, linearTo(l.To.X, l.To.Y, power, feed))
	return body
}

// lowerRect cuts clockwise from the given corner: right along the top edge,
// down, back left, then up to close.
func lowerRect(body []Instruction, r *Rect, power, feed int) []Instruction {
	x, y := r.Corner.X, r.Corner.Y
	body = append(body, rapidTo(x, y))
	body = append(body, linearTo(x+r.Width, y, power, feed))
	body = append(body, linearTo(x+r.Width, y+r.Height, power, feed))
	body = append(body, linearTo(x, y+r.Height, power, feed))
	body = append(body, linearTo(x, y, power, feed))
	return body
}

// lowerCircle starts at (cx+r, cy) and cuts two clockwise semicircles.
// The I/J offsets point from each arc's start to the circle center.
func lowerCircle(body []Instruction, c *Circle, power, feed int) []Instruction {
	startX := c.Center.X + c.Radius
	body = append(body, rapidTo(startX, c.Center.Y))
	body = append(body, arcTo(c.Center.X-c.Radius, c.Center.Y, -c.Radius, 0, power, feed))
	body = append(body, arcTo(startX, c.Center.Y, c.Radius, 0, power, feed))
	return body
}

// lowerPath walks move/line commands. Anything else is reported and
// skipped; the rest of the path still lowers.
func lowerPath(body []Instruction, p *Path, power, feed int) ([]Instruction, []string) {
	var warnings []string
	for _, cmd := range p.Commands {
		switch cmd.Op {
		case PathMove:
			body = append(body, rapidTo(cmd.To.X, cmd.To.Y))
		case PathLine:
			body = append(body, linearTo(cmd.To.X, cmd.To.Y, power, feed))
		default:
			warnings = append(warnings, fmt.Sprintf("path: unsupported command %q skipped", string(cmd.Op)))
		}
	}
	return body, warnings
}
