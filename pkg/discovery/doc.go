// Package discovery locates laser engraver devices on serial ports and
// on the local network.
//
// Wired devices are found by enumerating USB serial ports and matching
// the adapter's vendor/product identity against known controller boards.
// Wireless devices announce themselves over mDNS; the registry browses
// for them and filters out unrelated peers by service name.
//
// Both probes feed a single Scan call that returns classified
// DeviceDescriptor entries ready to hand to a transport session.
package discovery
