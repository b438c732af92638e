// Package interactive provides the interactive command-line interface
// for burin-send.
package interactive

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/chzyer/readline"

	"github.com/burin-project/burin-go/pkg/config"
	"github.com/burin-project/burin-go/pkg/dialect"
	"github.com/burin-project/burin-go/pkg/discovery"
	"github.com/burin-project/burin-go/pkg/session"
)

// Console handles interactive mode for burin-send.
type Console struct {
	manager  *session.Manager
	registry *discovery.Registry
	config   *config.Config
	rl       *readline.Instance

	// Devices from the last scan, addressable by number in connect.
	devices []discovery.DeviceDescriptor
}

// New creates a new interactive console.
func New(manager *session.Manager, registry *discovery.Registry, cfg *config.Config) (*Console, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "burin> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}

	return &Console{
		manager:  manager,
		registry: registry,
		config:   cfg,
		rl:       rl,
	}, nil
}

// Run starts the interactive command loop.
func (c *Console) Run(ctx context.Context, cancel context.CancelFunc) {
	defer c.rl.Close()

	c.printHelp()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		line, err := c.rl.Readline()
		if err != nil {
			// EOF or interrupt
			if err == readline.ErrInterrupt {
				continue
			}
			fmt.Fprintln(c.rl.Stdout(), "Exiting...")
			cancel()
			return
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}

		parts := strings.Fields(input)
		cmd := strings.ToLower(parts[0])
		args := parts[1:]

		switch cmd {
		case "help", "?":
			c.printHelp()

		case "scan", "list", "ls":
			c.cmdScan(ctx)

		case "connect":
			c.cmdConnect(ctx, args)

		case "disconnect":
			c.cmdDisconnect()

		case "status", "s":
			c.cmdStatus()

		case "send":
			c.cmdSend(ctx, args)

		case "stream":
			c.cmdStream(ctx, args)

		case "home":
			c.cmdControl(ctx, "home")

		case "pause":
			c.cmdControl(ctx, "pause")

		case "resume":
			c.cmdControl(ctx, "resume")

		case "stop":
			c.cmdControl(ctx, "stop")

		case "estop":
			c.cmdControl(ctx, "estop")

		case "quit", "exit", "q":
			fmt.Fprintln(c.rl.Stdout(), "Exiting...")
			cancel()
			return

		default:
			fmt.Fprintf(c.rl.Stdout(), "Unknown command %q. Type 'help' for commands.\n", cmd)
		}
	}
}

func (c *Console) printHelp() {
	fmt.Fprintln(c.rl.Stdout(), `Commands:
  scan                - Scan for devices
  connect <n|addr>    - Connect to a scanned device or address
  disconnect          - Close the current session
  status              - Show machine status
  send <gcode>        - Send one line and print the reply
  stream <file>       - Stream a G-code file
  home                - Start a homing cycle
  pause / resume      - Hold and release execution
  stop                - Soft-reset the controller
  estop               - Emergency stop
  quit                - Exit`)
}

// active returns the open session, printing a hint when there is none.
func (c *Console) active() *session.Session {
	s := c.manager.Active()
	if s == nil {
		fmt.Fprintln(c.rl.Stdout(), "Not connected. Use 'scan' and 'connect' first.")
	}
	return s
}

func (c *Console) cmdScan(ctx context.Context) {
	fmt.Fprintln(c.rl.Stdout(), "Scanning...")
	devices, err := c.registry.Scan(ctx)
	if err != nil {
		fmt.Fprintf(c.rl.Stdout(), "Scan failed: %v\n", err)
		return
	}
	c.devices = devices

	if len(devices) == 0 {
		fmt.Fprintln(c.rl.Stdout(), "No devices found.")
		return
	}
	for i, d := range devices {
		fmt.Fprintf(c.rl.Stdout(), "%2d. %-24s %-12s %-8s %s\n",
			i+1, d.Address, d.Dialect, d.Transport, d.HumanName)
	}
}

func (c *Console) cmdConnect(ctx context.Context, args []string) {
	if len(args) != 1 {
		fmt.Fprintln(c.rl.Stdout(), "Usage: connect <n|address>")
		return
	}

	desc, ok := c.resolveTarget(args[0])
	if !ok {
		return
	}

	fmt.Fprintf(c.rl.Stdout(), "Connecting to %s (%s)...\n", desc.Address, desc.Dialect)
	s, err := c.manager.Open(ctx, desc)
	if err != nil {
		fmt.Fprintf(c.rl.Stdout(), "Connect failed: %v\n", err)
		return
	}
	fmt.Fprintf(c.rl.Stdout(), "Connected. Machine status: %s\n", s.Status())
}

// resolveTarget turns a connect argument into a descriptor: either an
// index into the last scan or a raw address.
func (c *Console) resolveTarget(arg string) (discovery.DeviceDescriptor, bool) {
	if n, err := strconv.Atoi(arg); err == nil {
		if n < 1 || n > len(c.devices) {
			fmt.Fprintf(c.rl.Stdout(), "No scanned device #%d. Run 'scan' first.\n", n)
			return discovery.DeviceDescriptor{}, false
		}
		return c.devices[n-1], true
	}

	kind := discovery.TransportWired
	if strings.Contains(arg, ":") {
		kind = discovery.TransportWireless
	}
	d := dialect.GRBL
	if override, ok := c.config.DialectFor(arg); ok {
		d = override
	}
	return discovery.DeviceDescriptor{
		Address:   arg,
		HumanName: dialect.FriendlyName(d, ""),
		Dialect:   d,
		Transport: kind,
	}, true
}

func (c *Console) cmdDisconnect() {
	if s := c.manager.Active(); s == nil {
		fmt.Fprintln(c.rl.Stdout(), "Not connected.")
		return
	}
	c.manager.Close()
	fmt.Fprintln(c.rl.Stdout(), "Disconnected.")
}

func (c *Console) cmdStatus() {
	s := c.active()
	if s == nil {
		return
	}
	desc := s.Descriptor()
	fmt.Fprintf(c.rl.Stdout(), "Device:  %s (%s, %s)\n", desc.Address, desc.Dialect, desc.Transport)
	fmt.Fprintf(c.rl.Stdout(), "Status:  %s\n", s.Status())
	if err := s.LastError(); err != nil {
		fmt.Fprintf(c.rl.Stdout(), "Last error: %v\n", err)
	}
}

func (c *Console) cmdSend(ctx context.Context, args []string) {
	s := c.active()
	if s == nil {
		return
	}
	if len(args) == 0 {
		fmt.Fprintln(c.rl.Stdout(), "Usage: send <gcode>")
		return
	}

	line := strings.Join(args, " ")
	reply, err := s.SendLine(ctx, line)
	if err != nil {
		fmt.Fprintf(c.rl.Stdout(), "Send failed: %v\n", err)
		return
	}
	fmt.Fprintf(c.rl.Stdout(), "< %s\n", reply)
}

func (c *Console) cmdStream(ctx context.Context, args []string) {
	s := c.active()
	if s == nil {
		return
	}
	if len(args) != 1 {
		fmt.Fprintln(c.rl.Stdout(), "Usage: stream <file>")
		return
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Fprintf(c.rl.Stdout(), "Read failed: %v\n", err)
		return
	}
	lines := strings.Split(strings.ReplaceAll(string(data), "\r\n", "\n"), "\n")

	err = s.StreamLines(ctx, lines, func(percent int) {
		fmt.Fprintf(c.rl.Stdout(), "\rProgress: %3d%%", percent)
	})
	fmt.Fprintln(c.rl.Stdout())
	if err != nil {
		fmt.Fprintf(c.rl.Stdout(), "Stream failed: %v\n", err)
		return
	}
	fmt.Fprintln(c.rl.Stdout(), "Stream complete.")
}

func (c *Console) cmdControl(ctx context.Context, name string) {
	s := c.active()
	if s == nil {
		return
	}

	var err error
	switch name {
	case "home":
		err = s.Home(ctx)
	case "pause":
		err = s.Pause(ctx)
	case "resume":
		err = s.Resume(ctx)
	case "stop":
		err = s.Stop(ctx)
	case "estop":
		err = s.EmergencyStop(ctx)
	}
	if err != nil {
		fmt.Fprintf(c.rl.Stdout(), "%s failed: %v\n", name, err)
		return
	}
	fmt.Fprintf(c.rl.Stdout(), "%s sent. Machine status: %s\n", name, s.Status())
}
