package discovery

import (
	"context"
	"net"
	"strconv"
	"strings"

	"github.com/enbility/zeroconf/v3"

	"github.com/burin-project/burin-go/pkg/dialect"
)

// wirelessKeywords mark an mDNS instance name as engraver-related.
// Peers whose names match none of these are dropped entirely.
var wirelessKeywords = []string{"laser", "engraver", "grbl"}

// WirelessBrowser finds wireless engravers.
// Set this in tests to inject scripted results.
type WirelessBrowser interface {
	Browse(ctx context.Context) ([]DeviceDescriptor, error)
}

// MDNSBrowser browses for engraver services using zeroconf.
type MDNSBrowser struct {
	// Interface specifies which network interface to browse on.
	// Empty string means all interfaces.
	Interface string
}

// Compile-time interface satisfaction check.
var _ WirelessBrowser = (*MDNSBrowser)(nil)

// Browse searches for wireless engravers until the context expires.
// Services are aggregated by instance name - announcements from multiple
// interfaces collapse into a single entry.
func (b *MDNSBrowser) Browse(ctx context.Context) ([]DeviceDescriptor, error) {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, BrowseTimeout)
		defer cancel()
	}

	entries := make(chan *zeroconf.ServiceEntry)
	removed := make(chan *zeroconf.ServiceEntry)

	opts := b.browserOptions()

	done := make(chan struct{})
	seen := make(map[string]DeviceDescriptor)

	// Collect entries until browsing stops.
	go func() {
		defer close(done)
		for {
			select {
			case entry, ok := <-entries:
				if !ok {
					return
				}
				desc := entryToDescriptor(entry)
				if desc == nil {
					continue
				}
				if _, found := seen[entry.Instance]; !found {
					seen[entry.Instance] = *desc
				}

			case entry, ok := <-removed:
				if !ok {
					continue
				}
				delete(seen, entry.Instance)

			case <-ctx.Done():
				return
			}
		}
	}()

	// Browse blocks until the context is cancelled.
	_ = zeroconf.Browse(ctx, ServiceTypeLaser, Domain, entries, removed, opts...)
	<-done

	out := make([]DeviceDescriptor, 0, len(seen))
	for _, desc := range seen {
		out = append(out, desc)
	}
	return out, nil
}

// browserOptions returns zeroconf client options based on config.
func (b *MDNSBrowser) browserOptions() []zeroconf.ClientOption {
	var opts []zeroconf.ClientOption

	if b.Interface != "" {
		iface, err := net.InterfaceByName(b.Interface)
		if err == nil {
			opts = append(opts, zeroconf.SelectIfaces([]net.Interface{*iface}))
		}
	}

	return opts
}

// entryToDescriptor converts a zeroconf entry to a DeviceDescriptor,
// or nil if the peer is not an engraver.
func entryToDescriptor(entry *zeroconf.ServiceEntry) *DeviceDescriptor {
	if !matchesKeyword(entry.Instance) {
		return nil
	}

	ip := firstAddress(entry)
	if ip == "" {
		return nil
	}

	d := dialect.Classify(0, 0, entry.Instance, entry.HostName)

	return &DeviceDescriptor{
		Address:   net.JoinHostPort(ip, strconv.Itoa(entry.Port)),
		HumanName: dialect.FriendlyName(d, entry.Instance),
		Dialect:   d,
		Transport: TransportWireless,
	}
}

// matchesKeyword reports whether an instance name looks engraver-related.
func matchesKeyword(name string) bool {
	lower := strings.ToLower(name)
	for _, kw := range wirelessKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// firstAddress picks the first announced address, preferring IPv4.
func firstAddress(entry *zeroconf.ServiceEntry) string {
	if len(entry.AddrIPv4) > 0 {
		return entry.AddrIPv4[0].String()
	}
	if len(entry.AddrIPv6) > 0 {
		return entry.AddrIPv6[0].String()
	}
	return ""
}
