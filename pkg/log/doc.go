// Package log provides structured event logging for the device control
// stack.
//
// Every layer (transport lines, session state changes, stream progress)
// reports through the Logger interface rather than writing to a console
// directly. Applications choose the sink:
//
//   - NoopLogger discards everything (the default).
//   - SlogAdapter forwards events to a log/slog logger for console output.
//   - FileLogger appends CBOR-encoded events to a file for later analysis.
//   - MultiLogger fans out to several sinks at once.
//
// Reader decodes event files written by FileLogger, with optional
// filtering by session, layer, category, or time range.
package log
