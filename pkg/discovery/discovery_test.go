package discovery

import (
	"context"
	"errors"
	"testing"

	"github.com/burin-project/burin-go/pkg/dialect"
)

// fakePortLister returns a scripted port list.
type fakePortLister struct {
	ports []PortInfo
	err   error
}

func (f fakePortLister) ListPorts() ([]PortInfo, error) {
	return f.ports, f.err
}

// fakeBrowser returns scripted wireless results.
type fakeBrowser struct {
	devices []DeviceDescriptor
	err     error
}

func (f fakeBrowser) Browse(ctx context.Context) ([]DeviceDescriptor, error) {
	return f.devices, f.err
}

func TestClassifyPort(t *testing.T) {
	tests := []struct {
		name        string
		port        PortInfo
		wantDialect dialect.Dialect
	}{
		{
			name: "CH340 GRBL board",
			port: PortInfo{
				Name: "/dev/ttyUSB0", IsUSB: true,
				VID: "1A86", PID: "7523",
				Product: "USB Serial",
			},
			wantDialect: dialect.GRBL,
		},
		{
			name: "Arduino Uno",
			port: PortInfo{
				Name: "/dev/ttyACM0", IsUSB: true,
				VID: "2341", PID: "0043",
				Product: "Arduino Uno",
			},
			wantDialect: dialect.GRBL,
		},
		{
			name: "Teensy Smoothieboard",
			port: PortInfo{
				Name: "/dev/ttyACM1", IsUSB: true,
				VID: "16C0", PID: "0483",
				Product: "Teensy USB Serial",
			},
			wantDialect: dialect.Smoothie,
		},
		{
			name: "unknown USB adapter with laser description",
			port: PortInfo{
				Name: "/dev/ttyUSB1", IsUSB: true,
				VID: "DEAD", PID: "BEEF",
				Product: "Laser Engraver Controller",
			},
			wantDialect: dialect.GRBL,
		},
		{
			name: "unrelated USB adapter stays listed as unknown",
			port: PortInfo{
				Name: "/dev/ttyUSB2", IsUSB: true,
				VID: "DEAD", PID: "BEEF",
				Product: "GPS Receiver",
			},
			wantDialect: dialect.Unknown,
		},
		{
			name:        "bare non-USB port stays listed as unknown",
			port:        PortInfo{Name: "/dev/ttyS0", IsUSB: false},
			wantDialect: dialect.Unknown,
		},
		{
			name: "non-USB port classifies by description keyword",
			port: PortInfo{
				Name: "/dev/ttyS1", IsUSB: false,
				Product: "Onboard GRBL Controller",
			},
			wantDialect: dialect.GRBL,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			desc := classifyPort(tt.port)
			if desc.Dialect != tt.wantDialect {
				t.Errorf("Dialect = %v, want %v", desc.Dialect, tt.wantDialect)
			}
			if desc.Address != tt.port.Name {
				t.Errorf("Address = %q, want %q", desc.Address, tt.port.Name)
			}
			if desc.Transport != TransportWired {
				t.Errorf("Transport = %v, want wired", desc.Transport)
			}
		})
	}
}

func TestParseUSBID(t *testing.T) {
	tests := []struct {
		in   string
		want uint16
	}{
		{"1A86", 0x1A86},
		{"2341", 0x2341},
		{"0043", 0x0043},
		{"", 0},
		{"not-hex", 0},
		{"123456", 0}, // overflows uint16
	}

	for _, tt := range tests {
		if got := parseUSBID(tt.in); got != tt.want {
			t.Errorf("parseUSBID(%q) = %#x, want %#x", tt.in, got, tt.want)
		}
	}
}

func TestRegistryScanCombinesProbes(t *testing.T) {
	reg := &Registry{
		Ports: fakePortLister{ports: []PortInfo{
			{Name: "/dev/ttyUSB0", IsUSB: true, VID: "1A86", PID: "7523", Product: "USB Serial"},
			{Name: "/dev/ttyS0", IsUSB: false},
		}},
		Wireless: fakeBrowser{devices: []DeviceDescriptor{
			{
				Address:   "192.168.1.50:23",
				HumanName: "Workshop Laser",
				Dialect:   dialect.GRBL,
				Transport: TransportWireless,
			},
		}},
	}

	found, err := reg.Scan(context.Background())
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if len(found) != 3 {
		t.Fatalf("found %d devices, want 3", len(found))
	}
	// Wired sorts before wireless, then by address.
	if found[0].Address != "/dev/ttyS0" || found[0].Dialect != dialect.Unknown {
		t.Errorf("found[0] = %q (%v), want /dev/ttyS0 unknown", found[0].Address, found[0].Dialect)
	}
	if found[1].Address != "/dev/ttyUSB0" || found[1].Dialect != dialect.GRBL {
		t.Errorf("found[1] = %q (%v), want /dev/ttyUSB0 grbl", found[1].Address, found[1].Dialect)
	}
	if found[2].Address != "192.168.1.50:23" {
		t.Errorf("found[2].Address = %q", found[2].Address)
	}
}

func TestRegistryScanKeepsUnclassifiedWiredPorts(t *testing.T) {
	reg := &Registry{
		Ports: fakePortLister{ports: []PortInfo{
			{Name: "/dev/ttyUSB3", IsUSB: true, VID: "DEAD", PID: "BEEF", Product: "Generic USB-Serial Adapter"},
		}},
	}

	found, err := reg.Scan(context.Background())
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if len(found) != 1 {
		t.Fatalf("found %d devices, want 1", len(found))
	}
	if found[0].Dialect != dialect.Unknown {
		t.Errorf("Dialect = %v, want unknown", found[0].Dialect)
	}
	if found[0].Address != "/dev/ttyUSB3" {
		t.Errorf("Address = %q", found[0].Address)
	}
}

func TestRegistryScanWiredFailureNonFatal(t *testing.T) {
	reg := &Registry{
		Ports: fakePortLister{err: errors.New("enumeration failed")},
		Wireless: fakeBrowser{devices: []DeviceDescriptor{
			{Address: "10.0.0.7:23", Transport: TransportWireless},
		}},
	}

	found, err := reg.Scan(context.Background())
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if len(found) != 1 {
		t.Fatalf("found %d devices, want 1", len(found))
	}
}

func TestRegistryScanAllProbesFail(t *testing.T) {
	wiredErr := errors.New("no ports")
	wirelessErr := errors.New("no network")
	reg := &Registry{
		Ports:    fakePortLister{err: wiredErr},
		Wireless: fakeBrowser{err: wirelessErr},
	}

	_, err := reg.Scan(context.Background())
	if !errors.Is(err, wiredErr) || !errors.Is(err, wirelessErr) {
		t.Errorf("Scan error = %v, want both probe errors", err)
	}
}

func TestRegistryScanNoDevices(t *testing.T) {
	reg := &Registry{
		Ports:    fakePortLister{},
		Wireless: fakeBrowser{},
	}

	found, err := reg.Scan(context.Background())
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if len(found) != 0 {
		t.Errorf("found %d devices, want 0", len(found))
	}
}

func TestMatchesKeyword(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"Workshop Laser", true},
		{"GRBL-ESP32", true},
		{"My Engraver", true},
		{"Living Room Printer", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := matchesKeyword(tt.name); got != tt.want {
			t.Errorf("matchesKeyword(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}
