package log

// Logger is the sink for session, streamer, and poller events. A session
// logs every wire line and state transition through its Logger, so an
// implementation must be safe for concurrent use and should return
// quickly; a slow sink throttles streaming.
type Logger interface {
	Log(event Event)
}

// NoopLogger discards all events. Usable as a zero value.
type NoopLogger struct{}

// Log discards the event.
func (NoopLogger) Log(Event) {}

// Compile-time interface satisfaction check.
var _ Logger = NoopLogger{}

// OrNoop returns l, or NoopLogger when l is nil, so callers can log
// unconditionally.
func OrNoop(l Logger) Logger {
	if l == nil {
		return NoopLogger{}
	}
	return l
}

// MultiLogger fans each event out to every sink in order. burin-send
// uses it to feed the console (SlogAdapter) and the event file
// (FileLogger) from one session.
type MultiLogger []Logger

// NewMultiLogger combines several sinks into one.
func NewMultiLogger(loggers ...Logger) MultiLogger {
	return MultiLogger(loggers)
}

// Log hands the event to each sink in turn.
func (m MultiLogger) Log(event Event) {
	for _, l := range m {
		l.Log(event)
	}
}

// Compile-time interface satisfaction check.
var _ Logger = MultiLogger(nil)
