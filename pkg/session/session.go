package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/burin-project/burin-go/pkg/dialect"
	"github.com/burin-project/burin-go/pkg/discovery"
	"github.com/burin-project/burin-go/pkg/log"
	"github.com/burin-project/burin-go/pkg/transport"
)

// Config configures session behavior.
type Config struct {
	// PollInterval is the telemetry polling period (default: 1s).
	PollInterval time.Duration

	// ReplyTimeout bounds the wait for one device reply (default: 5s).
	ReplyTimeout time.Duration

	// ProbeTimeout bounds the initial liveness probe on connect
	// (default: 3s).
	ProbeTimeout time.Duration

	// CloseTimeout bounds the wait for the poller to exit on close
	// (default: 2s).
	CloseTimeout time.Duration

	// Logger receives session events. Nil disables logging.
	Logger log.Logger

	// Dial opens the transport for a descriptor. If nil, serial and
	// TCP transports are opened based on the descriptor's transport
	// kind. Set this in tests to inject a scripted device.
	Dial func(ctx context.Context, desc discovery.DeviceDescriptor) (transport.Transport, error)
}

// DefaultConfig returns the default session configuration.
func DefaultConfig() Config {
	return Config{
		PollInterval: time.Second,
		ReplyTimeout: 5 * time.Second,
		ProbeTimeout: 3 * time.Second,
		CloseTimeout: 2 * time.Second,
	}
}

// withDefaults fills zero fields with defaults.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.PollInterval <= 0 {
		c.PollInterval = d.PollInterval
	}
	if c.ReplyTimeout <= 0 {
		c.ReplyTimeout = d.ReplyTimeout
	}
	if c.ProbeTimeout <= 0 {
		c.ProbeTimeout = d.ProbeTimeout
	}
	if c.CloseTimeout <= 0 {
		c.CloseTimeout = d.CloseTimeout
	}
	c.Logger = log.OrNoop(c.Logger)
	return c
}

// Manager creates sessions and enforces single-session ownership.
// Opening a new session synchronously closes the previous one, so at
// most one transport is ever open through a given manager.
type Manager struct {
	config Config

	mu     sync.Mutex
	active *Session
}

// NewManager creates a session manager.
func NewManager(config Config) *Manager {
	return &Manager{config: config.withDefaults()}
}

// Open connects to the described device. Any previously open session is
// fully closed before the new transport opens. Returns ErrConnection if
// the transport cannot be opened or the device fails the liveness probe.
func (m *Manager) Open(ctx context.Context, desc discovery.DeviceDescriptor) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.active != nil {
		m.active.Close()
		m.active = nil
	}

	s, err := open(ctx, desc, m.config)
	if err != nil {
		return nil, err
	}

	m.active = s
	return s, nil
}

// Active returns the currently open session, or nil.
func (m *Manager) Active() *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active
}

// Close closes the active session, if any. Always succeeds.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.active != nil {
		m.active.Close()
		m.active = nil
	}
	return nil
}

// Session is one live connection to a machine. It owns the transport,
// the machine status, and the background telemetry poller.
type Session struct {
	id     string
	desc   discovery.DeviceDescriptor
	tokens dialect.ControlTokens
	config Config
	logger log.Logger

	tr transport.Transport

	// ioMu serializes command/reply exchanges on the half-duplex wire.
	ioMu sync.Mutex

	// mu guards status and lastErr.
	mu      sync.Mutex
	status  MachineStatus
	lastErr error

	// streaming guards against concurrent Stream calls.
	streaming atomic.Bool

	// Poller lifetime.
	pollCancel context.CancelFunc
	pollDone   chan struct{}

	closed atomic.Bool
}

// open dials the transport, probes the device, and starts the poller.
func open(ctx context.Context, desc discovery.DeviceDescriptor, config Config) (*Session, error) {
	dial := config.Dial
	if dial == nil {
		dial = dialTransport
	}

	tr, err := dial(ctx, desc)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", ErrConnection, desc.Address, err)
	}

	s := &Session{
		id:       uuid.NewString(),
		desc:     desc,
		tokens:   dialect.Tokens(desc.Dialect),
		config:   config,
		logger:   config.Logger,
		tr:       tr,
		status:   StatusDisconnected,
		pollDone: make(chan struct{}),
	}

	// Liveness probe: the device must answer one status query.
	probeCtx, cancel := context.WithTimeout(ctx, config.ProbeTimeout)
	defer cancel()

	reply, err := s.exchange(probeCtx, s.tokens.StatusQuery)
	if err != nil {
		tr.Close()
		return nil, fmt.Errorf("%w: liveness probe on %s: %v", ErrConnection, desc.Address, err)
	}

	initial := StatusIdle
	if st, ok := dialect.ParseStatusFrame(reply); ok {
		if mapped, ok := statusFromTelemetry(st); ok {
			initial = mapped
		}
	}
	s.setStatus(initial, "connect")

	pollCtx, pollCancel := context.WithCancel(context.Background())
	s.pollCancel = pollCancel
	go s.pollLoop(pollCtx)

	return s, nil
}

// dialTransport opens the real transport for a descriptor.
func dialTransport(ctx context.Context, desc discovery.DeviceDescriptor) (transport.Transport, error) {
	if desc.Transport == discovery.TransportWireless {
		return transport.OpenTCP(ctx, desc.Address)
	}
	return transport.OpenSerial(desc.Address, transport.DefaultSerialConfig())
}

// ID returns the session's unique identifier.
func (s *Session) ID() string {
	return s.id
}

// Descriptor returns the discovery-time device facts.
func (s *Session) Descriptor() discovery.DeviceDescriptor {
	return s.desc
}

// Status returns the current machine status.
func (s *Session) Status() MachineStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// LastError returns the most recent session error, if any.
func (s *Session) LastError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Close disconnects the session: the poller is cancelled and joined
// (bounded), then the transport is released. Idempotent, always legal.
func (s *Session) Close() error {
	if s.closed.Swap(true) {
		return nil
	}

	s.pollCancel()
	select {
	case <-s.pollDone:
	case <-time.After(s.config.CloseTimeout):
	}

	err := s.tr.Close()
	s.setStatus(StatusDisconnected, "disconnect")
	return err
}

// SendLine sends one command line and returns the device's reply.
func (s *Session) SendLine(ctx context.Context, line string) (string, error) {
	if s.closed.Load() {
		return "", ErrNotConnected
	}
	return s.exchange(ctx, line)
}

// Home starts a homing cycle.
func (s *Session) Home(ctx context.Context) error {
	return s.control(ctx, s.tokens.Home, StatusHoming, false)
}

// Pause holds program execution.
func (s *Session) Pause(ctx context.Context) error {
	return s.control(ctx, s.tokens.Pause, StatusPaused, false)
}

// Resume releases a feed hold.
func (s *Session) Resume(ctx context.Context) error {
	return s.control(ctx, s.tokens.Resume, StatusRunning, false)
}

// Stop soft-resets the controller. This is the only command that clears
// an alarm state.
func (s *Session) Stop(ctx context.Context) error {
	return s.control(ctx, s.tokens.Reset, StatusIdle, true)
}

// EmergencyStop halts the machine immediately and locks it out.
func (s *Session) EmergencyStop(ctx context.Context) error {
	return s.control(ctx, s.tokens.Reset, StatusAlarm, true)
}

// control sends one dialect token and optimistically sets the local
// status. Telemetry later corrects the status if the device disagrees.
//
// Full-line tokens are acknowledged by the controller, so their reply
// is consumed here; leaving it on the wire would shift every later
// exchange off by one. Realtime bytes produce no reply and reading one
// would steal the next command's ack.
func (s *Session) control(ctx context.Context, token string, optimistic MachineStatus, clearsAlarm bool) error {
	if s.closed.Load() {
		return ErrNotConnected
	}

	if dialect.IsRealtime(token) {
		s.ioMu.Lock()
		err := s.tr.SendLine(ctx, token)
		s.ioMu.Unlock()

		s.logLine(log.DirectionOut, log.LayerSession, token, -1)

		if err != nil {
			s.setError(err)
			return fmt.Errorf("send %q: %w", token, err)
		}

		s.setOptimistic(optimistic, token, clearsAlarm)
		return nil
	}

	replyCtx, cancel := context.WithTimeout(ctx, s.config.ReplyTimeout)
	defer cancel()

	reply, err := s.exchange(replyCtx, token)
	switch {
	case errors.Is(err, transport.ErrTimeout):
		// A slow ack (homing can run for a while) must not fail the
		// command; the status stands optimistically and telemetry
		// corrects it once the machine settles.
		s.logError(log.LayerSession, err, "control ack")
	case err != nil:
		s.setError(err)
		return fmt.Errorf("send %q: %w", token, err)
	case dialect.IsErrorReply(reply):
		err := fmt.Errorf("%q rejected: %s", token, reply)
		s.setError(err)
		return err
	}

	s.setOptimistic(optimistic, token, clearsAlarm)
	return nil
}

// exchange performs one command/reply round trip under the wire mutex.
func (s *Session) exchange(ctx context.Context, line string) (string, error) {
	s.ioMu.Lock()
	defer s.ioMu.Unlock()

	if err := s.tr.SendLine(ctx, line); err != nil {
		return "", err
	}
	s.logLine(log.DirectionOut, log.LayerSession, line, -1)

	reply, err := s.tr.ReadLine(ctx)
	if err != nil {
		return "", err
	}
	s.logLine(log.DirectionIn, log.LayerSession, reply, -1)

	return reply, nil
}

// pollLoop queries device status on a fixed interval until cancelled.
// Poll failures are swallowed; a missed poll must not tear down an
// otherwise healthy session.
func (s *Session) pollLoop(ctx context.Context) {
	defer close(s.pollDone)

	ticker := time.NewTicker(s.config.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.pollOnce(ctx)
		}
	}
}

// pollOnce performs one status query and applies the telemetry result.
func (s *Session) pollOnce(ctx context.Context) {
	pollCtx, cancel := context.WithTimeout(ctx, s.config.ReplyTimeout)
	defer cancel()

	reply, err := s.exchange(pollCtx, s.tokens.StatusQuery)
	if err != nil {
		s.logError(log.LayerSession, err, "status poll")
		return
	}

	st, ok := dialect.ParseStatusFrame(reply)
	if !ok {
		return
	}
	if mapped, ok := statusFromTelemetry(st); ok {
		s.setStatus(mapped, "telemetry")
	}
}

// setStatus applies a status transition. Telemetry writes are always
// applied; use setOptimistic for command-driven writes.
func (s *Session) setStatus(status MachineStatus, reason string) {
	s.mu.Lock()
	old := s.status
	s.status = status
	s.mu.Unlock()

	if old != status {
		s.logState(old, status, reason)
	}
}

// setOptimistic applies a command-driven status transition. Alarm is
// sticky for optimistic writes: once telemetry or an emergency stop has
// latched ALARM, only a soft reset may move the status off it.
func (s *Session) setOptimistic(status MachineStatus, reason string, clearsAlarm bool) {
	s.mu.Lock()
	if s.status == StatusAlarm && !clearsAlarm && status != StatusAlarm {
		s.mu.Unlock()
		return
	}
	old := s.status
	s.status = status
	s.mu.Unlock()

	if old != status {
		s.logState(old, status, reason)
	}
}

// setError records the session's last error.
func (s *Session) setError(err error) {
	s.mu.Lock()
	s.lastErr = err
	s.mu.Unlock()
}

// Event logging helpers.

func (s *Session) event(layer log.Layer, category log.Category) log.Event {
	return log.Event{
		Timestamp: time.Now(),
		SessionID: s.id,
		Layer:     layer,
		Category:  category,
		Address:   s.desc.Address,
		Dialect:   s.desc.Dialect.String(),
	}
}

func (s *Session) logLine(dir log.Direction, layer log.Layer, text string, lineIndex int) {
	ev := s.event(layer, log.CategoryLine)
	ev.Direction = dir
	ev.Line = &log.LineEvent{Text: text, LineIndex: lineIndex}
	s.logger.Log(ev)
}

func (s *Session) logState(old, now MachineStatus, reason string) {
	ev := s.event(log.LayerSession, log.CategoryState)
	ev.StateChange = &log.StateChangeEvent{
		OldState: old.String(),
		NewState: now.String(),
		Reason:   reason,
	}
	s.logger.Log(ev)
}

func (s *Session) logProgress(sent, total, percent int) {
	ev := s.event(log.LayerStream, log.CategoryProgress)
	ev.Progress = &log.ProgressEvent{
		LinesSent:  sent,
		TotalLines: total,
		Percent:    percent,
	}
	s.logger.Log(ev)
}

func (s *Session) logError(layer log.Layer, err error, context string) {
	ev := s.event(layer, log.CategoryError)
	ev.Error = &log.ErrorEventData{
		Layer:   layer,
		Message: err.Error(),
		Context: context,
	}
	s.logger.Log(ev)
}
