// Package transport provides the physical line channels to engraving
// machines.
//
// The transport layer abstracts the link behind a single line-oriented
// interface so the session layer never knows whether it is talking over a
// USB serial adapter or a short-range wireless bridge:
//
//   - SerialTransport speaks 8N1 over a local serial port (the common
//     GRBL USB path).
//   - TCPTransport speaks newline-delimited ASCII over a TCP socket, the
//     form wireless serial bridges expose.
//   - Loopback provides an in-memory connected pair for tests and fake
//     devices.
//
// The application protocol above this layer is strictly half-duplex: one
// command line out, one reply line in. All blocking calls take a context
// and honor its deadline; there are no unbounded waits.
package transport
