package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/burin-project/burin-go/pkg/config"
	"github.com/burin-project/burin-go/pkg/gcode"
	"github.com/burin-project/burin-go/pkg/material"
)

// Job is the YAML job description consumed by burin-plan.
type Job struct {
	// Mode selects the encoder: "vector" or "raster".
	Mode string `yaml:"mode"`

	// Power overrides the profile's maximum power for vector jobs.
	Power int `yaml:"power,omitempty"`

	// FeedRate overrides the profile's feed rate.
	FeedRate int `yaml:"feed-rate,omitempty"`

	// Primitives holds the vector geometry (mode: vector).
	Primitives []JobPrimitive `yaml:"primitives,omitempty"`

	// Grid holds the raster samples (mode: raster).
	Grid *JobGrid `yaml:"grid,omitempty"`
}

// JobPrimitive is one vector shape. Exactly one field should be set.
type JobPrimitive struct {
	Line   *JobLine   `yaml:"line,omitempty"`
	Rect   *JobRect   `yaml:"rect,omitempty"`
	Circle *JobCircle `yaml:"circle,omitempty"`
	Path   string     `yaml:"path,omitempty"`
}

// JobLine is a straight cut.
type JobLine struct {
	X1 float64 `yaml:"x1"`
	Y1 float64 `yaml:"y1"`
	X2 float64 `yaml:"x2"`
	Y2 float64 `yaml:"y2"`
}

// JobRect is an axis-aligned rectangle.
type JobRect struct {
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// JobCircle is a full circle.
type JobCircle struct {
	CX float64 `yaml:"cx"`
	CY float64 `yaml:"cy"`
	R  float64 `yaml:"r"`
}

// JobGrid is a row-major grayscale sample grid.
type JobGrid struct {
	Width  int     `yaml:"width"`
	Height int     `yaml:"height"`
	Pixels []uint8 `yaml:"pixels"`
}

// LoadJob reads and validates a job file.
func LoadJob(path string) (*Job, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read job: %w", err)
	}

	var job Job
	if err := yaml.Unmarshal(data, &job); err != nil {
		return nil, fmt.Errorf("parse job: %w", err)
	}

	switch job.Mode {
	case "vector":
		if len(job.Primitives) == 0 {
			return nil, fmt.Errorf("vector job has no primitives")
		}
	case "raster":
		if job.Grid == nil {
			return nil, fmt.Errorf("raster job has no grid")
		}
	default:
		return nil, fmt.Errorf("unknown mode %q (want vector or raster)", job.Mode)
	}

	return &job, nil
}

// GeometryKind maps the job mode to a material table.
func (j *Job) GeometryKind() material.GeometryKind {
	if j.Mode == "raster" {
		return material.Raster
	}
	return material.Vector
}

// Encode runs the matching encoder with the machine profile applied.
func (j *Job) Encode(profile config.Profile) (*gcode.Program, error) {
	if j.Mode == "raster" {
		return j.encodeRaster(profile)
	}
	return j.encodeVector(profile)
}

func (j *Job) encodeRaster(profile config.Profile) (*gcode.Program, error) {
	grid := &gcode.PixelGrid{
		Width:  j.Grid.Width,
		Height: j.Grid.Height,
		Pixels: j.Grid.Pixels,
	}

	rasterOpts := gcode.RasterOptions{
		WorkWidth:   profile.WorkWidth,
		WorkHeight:  profile.WorkHeight,
		LineSpacing: profile.LineSpacing,
		PowerMin:    profile.PowerMin,
		PowerMax:    profile.PowerMax,
		FeedRate:    profile.FeedRate,
	}
	if j.FeedRate > 0 {
		rasterOpts.FeedRate = j.FeedRate
	}

	return gcode.EncodeRaster(grid, rasterOpts)
}

func (j *Job) encodeVector(profile config.Profile) (*gcode.Program, error) {
	doc := &gcode.Document{}
	for i, p := range j.Primitives {
		prim, err := p.toPrimitive()
		if err != nil {
			return nil, fmt.Errorf("primitive %d: %w", i, err)
		}
		doc.Primitives = append(doc.Primitives, prim)
	}

	vectorOpts := gcode.VectorOptions{
		Power:    profile.PowerMax,
		FeedRate: profile.FeedRate,
	}
	if j.Power > 0 {
		vectorOpts.Power = j.Power
	}
	if j.FeedRate > 0 {
		vectorOpts.FeedRate = j.FeedRate
	}

	return gcode.EncodeVector(doc, vectorOpts)
}

// toPrimitive converts one YAML shape to encoder geometry.
func (p JobPrimitive) toPrimitive() (gcode.Primitive, error) {
	switch {
	case p.Line != nil:
		return gcode.Primitive{
			Kind: gcode.PrimitiveLine,
			Line: &gcode.Line{
				From: gcode.Point{X: p.Line.X1, Y: p.Line.Y1},
				To:   gcode.Point{X: p.Line.X2, Y: p.Line.Y2},
			},
		}, nil

	case p.Rect != nil:
		return gcode.Primitive{
			Kind: gcode.PrimitiveRect,
			Rect: &gcode.Rect{
				Corner: gcode.Point{X: p.Rect.X, Y: p.Rect.Y},
				Width:  p.Rect.Width,
				Height: p.Rect.Height,
			},
		}, nil

	case p.Circle != nil:
		return gcode.Primitive{
			Kind: gcode.PrimitiveCircle,
			Circle: &gcode.Circle{
				Center: gcode.Point{X: p.Circle.CX, Y: p.Circle.CY},
				Radius: p.Circle.R,
			},
		}, nil

	case p.Path != "":
		path, err := parsePath(p.Path)
		if err != nil {
			return gcode.Primitive{}, err
		}
		return gcode.Primitive{Kind: gcode.PrimitivePath, Path: path}, nil

	default:
		return gcode.Primitive{}, fmt.Errorf("empty primitive")
	}
}

// parsePath parses a flattened path string of the form
// "M x y L x y L x y ...". Unsupported opcodes are preserved so the
// encoder can report them as lowering warnings.
func parsePath(s string) (*gcode.Path, error) {
	fields := strings.Fields(s)
	path := &gcode.Path{}

	i := 0
	for i < len(fields) {
		tok := fields[i]
		if len(tok) != 1 || tok[0] >= '0' && tok[0] <= '9' {
			return nil, fmt.Errorf("path: expected opcode at %q", tok)
		}
		op := gcode.PathOp(tok[0])
		i++

		// Opcodes we cannot lower are kept without coordinates.
		if op != gcode.PathMove && op != gcode.PathLine {
			path.Commands = append(path.Commands, gcode.PathCommand{Op: op})
			// Skip this opcode's numeric arguments.
			for i < len(fields) && isNumber(fields[i]) {
				i++
			}
			continue
		}

		if i+1 >= len(fields) {
			return nil, fmt.Errorf("path: %c needs x y coordinates", op)
		}
		x, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return nil, fmt.Errorf("path: bad x %q", fields[i])
		}
		y, err := strconv.ParseFloat(fields[i+1], 64)
		if err != nil {
			return nil, fmt.Errorf("path: bad y %q", fields[i+1])
		}
		i += 2

		path.Commands = append(path.Commands, gcode.PathCommand{
			Op: op,
			To: gcode.Point{X: x, Y: y},
		})
	}

	if len(path.Commands) == 0 {
		return nil, fmt.Errorf("path: empty")
	}
	return path, nil
}

// isNumber reports whether a token parses as a float.
func isNumber(s string) bool {
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}
