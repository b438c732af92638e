// Package session manages the live connection to a laser engraver.
//
// A Manager owns at most one open Session process-wide. The Session
// wraps a line-oriented transport, drives the machine status state
// machine (from operator commands and polled telemetry), and streams
// instruction programs to the device in request/response lock-step.
//
// The wire protocol is strictly half-duplex at the application level:
// one command out, one reply in. Every exchange - control commands,
// status polling, program streaming - serializes on a single mutex so
// only one request is ever in flight.
package session
