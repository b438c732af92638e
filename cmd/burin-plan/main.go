// Command burin-plan turns a job description into a G-code program.
//
// The job file is YAML: either a raster grid of brightness samples or a
// list of vector primitives, plus optional power/feed overrides. The
// geometry is expected to be already decoded and normalized; burin-plan
// performs no image or drawing file parsing.
//
// Usage:
//
//	burin-plan -job job.yaml [flags]
//
// Flags:
//
//	-job string        Job description file (YAML, required)
//	-out string        Output G-code file (default: stdout)
//	-profile string    Machine profile name from the config file
//	-config string     Config file path
//	-material string   Print a material suggestion for this use case
//	-practices         Print engraving best practices and exit
//
// Example job files:
//
//	mode: vector
//	power: 800
//	primitives:
//	  - circle: {cx: 50, cy: 50, r: 20}
//	  - rect: {x: 10, y: 10, width: 80, height: 80}
//
//	mode: raster
//	grid:
//	  width: 2
//	  height: 2
//	  pixels: [0, 0, 0, 0]
package main

import (
	"flag"
	"fmt"
	stdlog "log"
	"os"

	"github.com/burin-project/burin-go/pkg/config"
	"github.com/burin-project/burin-go/pkg/material"
)

// Options holds the command configuration.
type Options struct {
	Job        string
	Out        string
	Profile    string
	ConfigFile string
	Material   string
	Practices  bool
}

var opts Options

func init() {
	flag.StringVar(&opts.Job, "job", "", "Job description file (YAML)")
	flag.StringVar(&opts.Out, "out", "", "Output G-code file (default: stdout)")
	flag.StringVar(&opts.Profile, "profile", "", "Machine profile name from the config file")
	flag.StringVar(&opts.ConfigFile, "config", "", "Config file path")
	flag.StringVar(&opts.Material, "material", "", "Print a material suggestion for this use case")
	flag.BoolVar(&opts.Practices, "practices", false, "Print engraving best practices and exit")
}

func main() {
	flag.Parse()

	if opts.Practices {
		for _, p := range material.BestPractices() {
			fmt.Println("-", p)
		}
		return
	}

	if opts.Job == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := loadConfig(opts.ConfigFile)
	if err != nil {
		stdlog.Fatalf("Failed to load config: %v", err)
	}
	profile := cfg.Profile(opts.Profile)

	job, err := LoadJob(opts.Job)
	if err != nil {
		stdlog.Fatalf("Failed to load job: %v", err)
	}

	if opts.Material != "" {
		fmt.Fprintf(os.Stderr, "Material: %s\n", material.Suggest(job.GeometryKind(), opts.Material))
	}

	prog, err := job.Encode(profile)
	if err != nil {
		stdlog.Fatalf("Encoding failed: %v", err)
	}

	for _, w := range prog.Warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w)
	}

	if opts.Out == "" {
		fmt.Print(prog.Render())
		return
	}
	if err := os.WriteFile(opts.Out, []byte(prog.Render()), 0o644); err != nil {
		stdlog.Fatalf("Failed to write %s: %v", opts.Out, err)
	}
	stdlog.Printf("Wrote %d instructions to %s", len(prog.Instructions), opts.Out)
}

// loadConfig reads the config file, honoring an explicit -config path.
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFrom(path)
	}
	return config.Load()
}
