package discovery

import (
	"time"

	"github.com/burin-project/burin-go/pkg/dialect"
)

// Service type constants for mDNS.
const (
	// ServiceTypeLaser is the service type wireless engravers announce.
	ServiceTypeLaser = "_laser._tcp"

	// Domain is the mDNS domain.
	Domain = "local"
)

// Timing constants.
const (
	// BrowseTimeout is the default timeout for mDNS browsing.
	BrowseTimeout = 5 * time.Second
)

// TransportKind identifies how a discovered device is reached.
type TransportKind int

const (
	// TransportWired is a USB serial connection.
	TransportWired TransportKind = iota

	// TransportWireless is a network (TCP) connection.
	TransportWireless
)

// String returns a human-readable transport kind name.
func (k TransportKind) String() string {
	switch k {
	case TransportWired:
		return "wired"
	case TransportWireless:
		return "wireless"
	default:
		return "unknown"
	}
}

// DeviceDescriptor describes one discovered engraver.
type DeviceDescriptor struct {
	// Address is the connection endpoint: a serial port path for wired
	// devices, "host:port" for wireless ones.
	Address string

	// HumanName is a display name for device pickers.
	HumanName string

	// Dialect is the firmware command dialect inferred during scanning.
	Dialect dialect.Dialect

	// Transport indicates how the device is reached.
	Transport TransportKind

	// VendorID and ProductID are the USB identifiers of the serial
	// adapter. Zero for wireless devices.
	VendorID  uint16
	ProductID uint16

	// Serial is the USB serial number, when the adapter reports one.
	Serial string
}
