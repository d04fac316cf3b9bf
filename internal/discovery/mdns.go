package discovery

import (
	"context"
	"fmt"
	"strings"

	"github.com/grandcat/zeroconf"
)

const (
	// ServiceType is the mDNS service browsed for candidates. netCommander
	// units do not advertise a service of their own, so every web server
	// found is a candidate until the probe confirms it.
	ServiceType = "_http._tcp"

	// ServiceDomain is the mDNS domain (typically "local.")
	ServiceDomain = "local."
)

// candidate is an address worth probing
type candidate struct {
	host     string
	hostname string
	port     int
	metadata map[string]string
	source   Source
}

// browseMDNS collects _http._tcp services until ctx is done
func browseMDNS(ctx context.Context, defaultPort int) ([]candidate, error) {
	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS resolver: %w", err)
	}

	entries := make(chan *zeroconf.ServiceEntry, 16)
	if err := resolver.Browse(ctx, ServiceType, ServiceDomain, entries); err != nil {
		return nil, fmt.Errorf("failed to browse for mDNS services: %w", err)
	}

	var candidates []candidate
	for {
		select {
		case <-ctx.Done():
			return candidates, nil
		case entry, ok := <-entries:
			if !ok {
				return candidates, nil
			}
			if c, ok := parseServiceEntry(entry, defaultPort); ok {
				candidates = append(candidates, c)
			}
		}
	}
}

// parseServiceEntry converts a zeroconf service entry to a candidate.
// Entries without an address are dropped.
func parseServiceEntry(entry *zeroconf.ServiceEntry, defaultPort int) (candidate, bool) {
	if entry == nil {
		return candidate{}, false
	}

	// Prefer IPv4
	var ip string
	if len(entry.AddrIPv4) > 0 {
		ip = entry.AddrIPv4[0].String()
	} else if len(entry.AddrIPv6) > 0 {
		ip = entry.AddrIPv6[0].String()
	}
	if ip == "" {
		return candidate{}, false
	}

	port := entry.Port
	if port == 0 {
		port = defaultPort
	}

	metadata := make(map[string]string, len(entry.Text))
	for _, txt := range entry.Text {
		key, value, _ := strings.Cut(txt, "=")
		metadata[key] = value
	}

	return candidate{
		host:     ip,
		hostname: strings.TrimSuffix(entry.HostName, "."),
		port:     port,
		metadata: metadata,
		source:   SourceMDNS,
	}, true
}
