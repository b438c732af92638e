package discovery

import (
	"strconv"

	"go.bug.st/serial/enumerator"

	"github.com/burin-project/burin-go/pkg/dialect"
)

// PortInfo describes one enumerated serial port.
type PortInfo struct {
	// Name is the port path, e.g. "/dev/ttyUSB0" or "COM3".
	Name string

	// IsUSB reports whether the port sits behind a USB adapter.
	IsUSB bool

	// VID and PID are the USB identifiers as hex strings, e.g. "1A86".
	VID string
	PID string

	// SerialNumber is the USB serial number, if reported.
	SerialNumber string

	// Product is the adapter's product description string.
	Product string
}

// PortLister enumerates serial ports.
// Set this in tests to inject fake port lists.
type PortLister interface {
	ListPorts() ([]PortInfo, error)
}

// SystemPortLister enumerates real serial ports via the OS.
type SystemPortLister struct{}

// Compile-time interface satisfaction check.
var _ PortLister = (*SystemPortLister)(nil)

// ListPorts returns the detailed serial port list from the OS.
func (SystemPortLister) ListPorts() ([]PortInfo, error) {
	details, err := enumerator.GetDetailedPortsList()
	if err != nil {
		return nil, err
	}

	ports := make([]PortInfo, 0, len(details))
	for _, d := range details {
		ports = append(ports, PortInfo{
			Name:         d.Name,
			IsUSB:        d.IsUSB,
			VID:          d.VID,
			PID:          d.PID,
			SerialNumber: d.SerialNumber,
			Product:      d.Product,
		})
	}
	return ports, nil
}

// classifyPort converts an enumerated port into a descriptor. Every
// enumerated port comes back, so the operator can still pick a board the
// tables don't know; ports that match no vendor and no keyword carry
// dialect.Unknown. Non-USB ports classify by description keywords alone.
func classifyPort(p PortInfo) DeviceDescriptor {
	var vid, pid uint16
	if p.IsUSB {
		vid = parseUSBID(p.VID)
		pid = parseUSBID(p.PID)
	}

	d := dialect.Classify(vid, pid, p.Product, p.Name)

	return DeviceDescriptor{
		Address:   p.Name,
		HumanName: dialect.FriendlyName(d, p.Product),
		Dialect:   d,
		Transport: TransportWired,
		VendorID:  vid,
		ProductID: pid,
		Serial:    p.SerialNumber,
	}
}

// parseUSBID parses a hex USB identifier string. Unparseable or absent
// identifiers map to zero, which never matches a known vendor.
func parseUSBID(s string) uint16 {
	if s == "" {
		return 0
	}
	v, err := strconv.ParseUint(s, 16, 16)
	if err != nil {
		return 0
	}
	return uint16(v)
}
