package discovery

import (
	"net"
	"testing"

	"github.com/grandcat/zeroconf"
)

func TestParseServiceEntry(t *testing.T) {
	tests := []struct {
		name         string
		entry        *zeroconf.ServiceEntry
		wantOK       bool
		wantHost     string
		wantHostname string
		wantPort     int
	}{
		{
			name: "ipv4 with trailing dot",
			entry: &zeroconf.ServiceEntry{
				HostName: "pdu-rack1.local.",
				Port:     80,
				AddrIPv4: []net.IP{net.ParseIP("192.168.4.16")},
				Text:     []string{"path=/"},
			},
			wantOK:       true,
			wantHost:     "192.168.4.16",
			wantHostname: "pdu-rack1.local",
			wantPort:     80,
		},
		{
			name: "custom port",
			entry: &zeroconf.ServiceEntry{
				HostName: "lab.local",
				Port:     8080,
				AddrIPv4: []net.IP{net.ParseIP("10.0.0.5")},
			},
			wantOK:       true,
			wantHost:     "10.0.0.5",
			wantHostname: "lab.local",
			wantPort:     8080,
		},
		{
			name: "no port uses default",
			entry: &zeroconf.ServiceEntry{
				HostName: "lab.local",
				AddrIPv4: []net.IP{net.ParseIP("172.16.0.1")},
			},
			wantOK:       true,
			wantHost:     "172.16.0.1",
			wantHostname: "lab.local",
			wantPort:     DefaultPort,
		},
		{
			name: "ipv6 fallback",
			entry: &zeroconf.ServiceEntry{
				HostName: "v6.local.",
				Port:     80,
				AddrIPv6: []net.IP{net.ParseIP("fe80::1")},
			},
			wantOK:       true,
			wantHost:     "fe80::1",
			wantHostname: "v6.local",
			wantPort:     80,
		},
		{
			name: "no address",
			entry: &zeroconf.ServiceEntry{
				HostName: "ghost.local.",
				Port:     80,
			},
			wantOK: false,
		},
		{
			name:   "nil entry",
			entry:  nil,
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, ok := parseServiceEntry(tt.entry, DefaultPort)
			if ok != tt.wantOK {
				t.Fatalf("parseServiceEntry() ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if c.host != tt.wantHost {
				t.Errorf("host = %q, want %q", c.host, tt.wantHost)
			}
			if c.hostname != tt.wantHostname {
				t.Errorf("hostname = %q, want %q", c.hostname, tt.wantHostname)
			}
			if c.port != tt.wantPort {
				t.Errorf("port = %d, want %d", c.port, tt.wantPort)
			}
			if c.source != SourceMDNS {
				t.Errorf("source = %q, want %q", c.source, SourceMDNS)
			}
		})
	}
}

func TestParseServiceEntry_Metadata(t *testing.T) {
	entry := &zeroconf.ServiceEntry{
		HostName: "lab.local.",
		AddrIPv4: []net.IP{net.ParseIP("10.0.0.5")},
		Text:     []string{"path=/", "flag", "k=v=w"},
	}

	c, ok := parseServiceEntry(entry, DefaultPort)
	if !ok {
		t.Fatal("parseServiceEntry() returned false")
	}

	want := map[string]string{"path": "/", "flag": "", "k": "v=w"}
	for key, value := range want {
		if c.metadata[key] != value {
			t.Errorf("metadata[%q] = %q, want %q", key, c.metadata[key], value)
		}
	}
}
