package discovery

import (
	"fmt"
	"net/netip"
)

// MaxSweepPrefix is the widest subnet a sweep accepts (1024 addresses)
const MaxSweepPrefix = 22

// HostsInSubnet lists the host addresses of an IPv4 CIDR. The network and
// broadcast addresses are skipped for prefixes shorter than /31.
func HostsInSubnet(cidr string) ([]string, error) {
	prefix, err := netip.ParsePrefix(cidr)
	if err != nil {
		return nil, fmt.Errorf("invalid subnet %q: %w", cidr, err)
	}
	if !prefix.Addr().Is4() {
		return nil, fmt.Errorf("invalid subnet %q: only IPv4 is supported", cidr)
	}
	if prefix.Bits() < MaxSweepPrefix {
		return nil, fmt.Errorf("subnet %q is too large, use /%d or smaller", cidr, MaxSweepPrefix)
	}

	prefix = prefix.Masked()
	var hosts []string
	for addr := prefix.Addr(); prefix.Contains(addr); addr = addr.Next() {
		hosts = append(hosts, addr.String())
	}

	if prefix.Bits() < 31 {
		hosts = hosts[1 : len(hosts)-1]
	}
	return hosts, nil
}
