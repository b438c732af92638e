package gcode

import "fmt"

// RasterOptions configures raster (photo engraving) lowering.
type RasterOptions struct {
	// WorkWidth and WorkHeight are the machine work area in millimeters.
	WorkWidth  float64
	WorkHeight float64

	// LineSpacing is the distance between scan lines in millimeters.
	LineSpacing float64

	// PowerMin and PowerMax bound the laser power range. Samples whose
	// computed power lands at or below PowerMin travel with the beam off.
	PowerMin int
	PowerMax int

	// FeedRate is the engraving feed rate in mm/min.
	// Zero selects DefaultFeedRate.
	FeedRate int
}

// DefaultRasterOptions returns raster options for a 300x200 mm work area
// with 0.1 mm line spacing over the full power range.
func DefaultRasterOptions() RasterOptions {
	return RasterOptions{
		WorkWidth:   300,
		WorkHeight:  200,
		LineSpacing: 0.1,
		PowerMin:    0,
		PowerMax:    PowerMax,
		FeedRate:    DefaultFeedRate,
	}
}

// validate checks option consistency against the grid.
func (o *RasterOptions) validate(grid *PixelGrid) error {
	if grid == nil || grid.Empty() {
		return fmt.Errorf("%w: empty pixel grid", ErrInvalidParameter)
	}
	if o.WorkWidth <= 0 || o.WorkHeight <= 0 {
		return fmt.Errorf("%w: work area must be positive, got %gx%g",
			ErrInvalidParameter, o.WorkWidth, o.WorkHeight)
	}
	if o.LineSpacing <= 0 {
		return fmt.Errorf("%w: line spacing must be positive, got %g",
			ErrInvalidParameter, o.LineSpacing)
	}
	if o.PowerMin < 0 || o.PowerMax > PowerMax || o.PowerMin > o.PowerMax {
		return fmt.Errorf("%w: power bounds [%d, %d] outside [0, %d] or inverted",
			ErrInvalidParameter, o.PowerMin, o.PowerMax, PowerMax)
	}
	return nil
}

// EncodeRaster lowers a grayscale pixel grid into a scan-line engraving
// program.
//
// The grid is scaled uniformly to fit the work area, preserving aspect
// ratio. Scan lines advance by LineSpacing in output units and alternate
// horizontal direction (boustrophedon) to minimize non-productive travel.
// Each sampled pixel maps to a power value by inverted brightness: darker
// pixels burn harder. Runs of consecutive samples with identical power
// collapse into a single move; runs at or below PowerMin become
// non-emitting rapid moves, guaranteeing the beam is off while
// repositioning.
func EncodeRaster(grid *PixelGrid, opts RasterOptions) (*Program, error) {
	if err := opts.validate(grid); err != nil {
		return nil, err
	}

	feed := opts.FeedRate
	if feed == 0 {
		feed = DefaultFeedRate
	}

	// Uniform scale preserving aspect ratio.
	scale := opts.WorkWidth / float64(grid.Width)
	if s := opts.WorkHeight / float64(grid.Height); s < scale {
		scale = s
	}

	var body []Instruction

	// Position after the header's move to origin.
	cur := Point{X: 0, Y: 0}

	numLines := int(float64(grid.Height) * scale / opts.LineSpacing)
	for lineNum := 0; lineNum < numLines; lineNum++ {
		yPixel := int(float64(lineNum) * opts.LineSpacing / scale)
		if yPixel >= grid.Height {
			break
		}
		yPos := float64(lineNum) * opts.LineSpacing

		// Alternate direction each line.
		leftToRight := lineNum%2 == 0

		var run *sampleRun
		flush := func() {
			if run == nil {
				return
			}
			body = appendRun(body, &cur, run, yPos, opts.PowerMin, feed)
			run = nil
		}

		for i := 0; i < grid.Width; i++ {
			xPixel := i
			if !leftToRight {
				xPixel = grid.Width - 1 - i
			}
			xPos := float64(xPixel) * scale

			brightness := grid.At(xPixel, yPixel)
			power := samplePower(brightness, opts.PowerMin, opts.PowerMax)

			if run != nil && run.power == power {
				run.endX = xPos
				continue
			}
			flush()
			run = &sampleRun{power: power, startX: xPos, endX: xPos}
		}
		flush()
	}

	return newProgram(body, nil), nil
}

// samplePower maps brightness (0=black..255=white) to laser power by
// linear interpolation, inverted so darker pixels get more power.
func samplePower(brightness uint8, powerMin, powerMax int) int {
	return powerMax - int(float64(brightness)/255.0*float64(powerMax-powerMin))
}

// sampleRun is a maximal stretch of consecutive samples on one scan line
// sharing the same computed power.
type sampleRun struct {
	power  int
	startX float64
	endX   float64
}

// appendRun emits the instructions for one run and advances the tracked
// position. Powered runs may need a leading rapid to reach the run start;
// non-emitting runs just reposition to the run end with the beam off.
func appendRun(body []Instruction, cur *Point, run *sampleRun, yPos float64, powerMin, feed int) []Instruction {
	if run.power <= powerMin {
		body = append(body, rapidTo(run.endX, yPos))
		cur.X, cur.Y = run.endX, yPos
		return body
	}

	if cur.X != run.startX || cur.Y != yPos {
		body = append(body, rapidTo(run.startX, yPos))
	}
	body = append(body, linearTo(run.endX, yPos, run.power, feed))
	cur.X, cur.Y = run.endX, yPos
	return body
}
