package discovery

import (
	"context"
	"errors"
	"sort"
)

// Registry scans for engraver devices across all supported transports.
type Registry struct {
	// Ports enumerates serial ports. Defaults to the OS enumerator.
	Ports PortLister

	// Wireless browses for network engravers. Defaults to mDNS.
	// Set to nil to skip the wireless probe.
	Wireless WirelessBrowser
}

// NewRegistry creates a registry with the default probes.
func NewRegistry() *Registry {
	return &Registry{
		Ports:    SystemPortLister{},
		Wireless: &MDNSBrowser{},
	}
}

// Scan probes serial ports and the local network for engravers.
//
// A failing probe does not abort the scan: results from the other probe
// are still returned. An error is reported only when every probe fails.
func (r *Registry) Scan(ctx context.Context) ([]DeviceDescriptor, error) {
	var found []DeviceDescriptor
	var wiredErr, wirelessErr error

	if r.Ports != nil {
		ports, err := r.Ports.ListPorts()
		if err != nil {
			wiredErr = err
		} else {
			for _, p := range ports {
				found = append(found, classifyPort(p))
			}
		}
	}

	if r.Wireless != nil {
		devices, err := r.Wireless.Browse(ctx)
		if err != nil {
			wirelessErr = err
		} else {
			found = append(found, devices...)
		}
	}

	if len(found) == 0 && wiredErr != nil && r.Wireless != nil && wirelessErr != nil {
		return nil, errors.Join(wiredErr, wirelessErr)
	}
	if len(found) == 0 && wiredErr != nil && r.Wireless == nil {
		return nil, wiredErr
	}

	// Stable ordering: wired before wireless, then by address.
	sort.Slice(found, func(i, j int) bool {
		if found[i].Transport != found[j].Transport {
			return found[i].Transport < found[j].Transport
		}
		return found[i].Address < found[j].Address
	})

	return found, nil
}
