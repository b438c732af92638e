// Command burin-send connects to a laser engraver and streams G-code to it.
//
// Usage:
//
//	burin-send [flags]
//
// Flags:
//
//	-list               Scan for devices and exit
//	-connect string     Device address to connect to (serial port or host:port)
//	-dialect string     Override dialect detection: grbl, marlin, smoothie, ruida
//	-profile string     Machine profile name from the config file
//	-config string      Config file path (default: $XDG_CONFIG_HOME/burin/config.yaml)
//	-file string        G-code file to stream after connecting
//	-interactive        Enable interactive command mode
//	-log-level string   Log level: debug, info, warn, error (default "info")
//	-event-log string   Write wire events to a CBOR event log file
//
// Examples:
//
//	# List reachable engravers
//	burin-send -list
//
//	# Stream a job over serial
//	burin-send -connect /dev/ttyUSB0 -file part.gcode
//
//	# Drive a wireless machine interactively, capturing an event log
//	burin-send -connect 192.168.1.50:23 -interactive -event-log job.cborlog
//
// Interactive Commands:
//
//	scan                - Scan for devices
//	connect <n|addr>    - Connect to a scanned device or address
//	status              - Show machine status
//	send <gcode>        - Send one line and print the reply
//	stream <file>       - Stream a G-code file
//	home                - Start a homing cycle
//	pause / resume      - Hold and release execution
//	stop                - Soft-reset the controller
//	estop               - Emergency stop
//	quit                - Exit
package main

import (
	"context"
	"flag"
	"fmt"
	stdlog "log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/burin-project/burin-go/cmd/burin-send/interactive"
	"github.com/burin-project/burin-go/pkg/config"
	"github.com/burin-project/burin-go/pkg/dialect"
	"github.com/burin-project/burin-go/pkg/discovery"
	"github.com/burin-project/burin-go/pkg/log"
	"github.com/burin-project/burin-go/pkg/session"
)

// Options holds the command configuration.
type Options struct {
	List        bool
	Connect     string
	Dialect     string
	Profile     string
	ConfigFile  string
	File        string
	Interactive bool
	LogLevel    string
	EventLog    string
}

var opts Options

func init() {
	flag.BoolVar(&opts.List, "list", false, "Scan for devices and exit")
	flag.StringVar(&opts.Connect, "connect", "", "Device address to connect to")
	flag.StringVar(&opts.Dialect, "dialect", "", "Override dialect detection: grbl, marlin, smoothie, ruida")
	flag.StringVar(&opts.Profile, "profile", "", "Machine profile name from the config file")
	flag.StringVar(&opts.ConfigFile, "config", "", "Config file path")
	flag.StringVar(&opts.File, "file", "", "G-code file to stream after connecting")
	flag.BoolVar(&opts.Interactive, "interactive", false, "Enable interactive command mode")
	flag.StringVar(&opts.LogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	flag.StringVar(&opts.EventLog, "event-log", "", "Write wire events to a CBOR event log file")
}

func main() {
	flag.Parse()

	setupLogging(opts.LogLevel)

	cfg, err := loadConfig(opts.ConfigFile)
	if err != nil {
		stdlog.Fatalf("Failed to load config: %v", err)
	}
	profile := cfg.Profile(opts.Profile)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Shut down cleanly on interrupt.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		stdlog.Println("Shutting down...")
		cancel()
	}()

	registry := discovery.NewRegistry()

	if opts.List {
		if err := listDevices(ctx, registry); err != nil {
			stdlog.Fatalf("Scan failed: %v", err)
		}
		return
	}

	logger, closeLogger, err := buildLogger(opts.EventLog)
	if err != nil {
		stdlog.Fatalf("Failed to open event log: %v", err)
	}
	defer closeLogger()

	manager := session.NewManager(session.Config{
		PollInterval: profile.PollInterval.Std(),
		Logger:       logger,
	})
	defer manager.Close()

	if opts.Connect != "" {
		desc := descriptorFor(opts.Connect, cfg)
		stdlog.Printf("Connecting to %s (%s, %s)...", desc.Address, desc.Dialect, desc.Transport)

		s, err := manager.Open(ctx, desc)
		if err != nil {
			stdlog.Fatalf("Connect failed: %v", err)
		}
		stdlog.Printf("Connected, machine status: %s", s.Status())

		if opts.File != "" {
			if err := streamFile(ctx, s, opts.File); err != nil {
				stdlog.Fatalf("Stream failed: %v", err)
			}
		}
	}

	if opts.Interactive {
		console, err := interactive.New(manager, registry, cfg)
		if err != nil {
			stdlog.Fatalf("Failed to create console: %v", err)
		}
		console.Run(ctx, cancel)
		return
	}

	if opts.Connect == "" {
		flag.Usage()
		os.Exit(2)
	}
}

// setupLogging configures the standard logger level.
func setupLogging(level string) {
	var lv slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lv = slog.LevelDebug
	case "warn":
		lv = slog.LevelWarn
	case "error":
		lv = slog.LevelError
	default:
		lv = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lv})))
}

// loadConfig reads the config file, honoring an explicit -config path.
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFrom(path)
	}
	return config.Load()
}

// buildLogger assembles the session event logger: slog always, plus the
// CBOR event log file when requested.
func buildLogger(eventLogPath string) (log.Logger, func(), error) {
	slogAdapter := log.NewSlogAdapter(slog.Default())
	if eventLogPath == "" {
		return slogAdapter, func() {}, nil
	}

	fileLogger, err := log.NewFileLogger(eventLogPath)
	if err != nil {
		return nil, nil, err
	}
	multi := log.NewMultiLogger(slogAdapter, fileLogger)
	return multi, func() { fileLogger.Close() }, nil
}

// listDevices scans and prints every reachable engraver.
func listDevices(ctx context.Context, registry *discovery.Registry) error {
	fmt.Println("Scanning for devices...")
	devices, err := registry.Scan(ctx)
	if err != nil {
		return err
	}
	if len(devices) == 0 {
		fmt.Println("No devices found.")
		return nil
	}
	for i, d := range devices {
		fmt.Printf("%2d. %-24s %-12s %-8s %s\n", i+1, d.Address, d.Dialect, d.Transport, d.HumanName)
	}
	return nil
}

// descriptorFor builds a descriptor for a raw address, applying any
// configured dialect override and the -dialect flag.
func descriptorFor(address string, cfg *config.Config) discovery.DeviceDescriptor {
	kind := discovery.TransportWired
	if strings.Contains(address, ":") {
		kind = discovery.TransportWireless
	}

	d := dialect.GRBL
	if override, ok := cfg.DialectFor(address); ok {
		d = override
	}
	if opts.Dialect != "" {
		if parsed, ok := dialect.Parse(opts.Dialect); ok {
			d = parsed
		} else {
			stdlog.Fatalf("Unknown dialect %q", opts.Dialect)
		}
	}

	return discovery.DeviceDescriptor{
		Address:   address,
		HumanName: dialect.FriendlyName(d, ""),
		Dialect:   d,
		Transport: kind,
	}
}

// streamFile reads a G-code file and streams it through the session.
func streamFile(ctx context.Context, s *session.Session, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	lines := strings.Split(strings.ReplaceAll(string(data), "\r\n", "\n"), "\n")

	stdlog.Printf("Streaming %s...", path)
	err = s.StreamLines(ctx, lines, func(percent int) {
		fmt.Printf("\rProgress: %3d%%", percent)
	})
	fmt.Println()
	if err != nil {
		return err
	}
	stdlog.Println("Stream complete.")
	return nil
}
