package discovery

import (
	"fmt"
	"net"
	"strconv"
	"time"
)

// Source records how a device was found
type Source string

const (
	SourceMDNS  Source = "mdns"
	SourceSweep Source = "sweep"
)

// Device is a confirmed netCommander unit on the network
type Device struct {
	// Host is the IP address the probe succeeded against
	Host string

	// Hostname is the mDNS hostname, empty for sweep results
	Hostname string

	// Port is the HTTP port (typically 80)
	Port int

	// Model and Firmware come from the $A8 probe. Both are empty when the
	// device refused the probe credentials.
	Model    string
	Firmware string

	// MAC is scraped from the web UI when reachable
	MAC string

	// AuthRequired is set when the unit answered 401 to the probe
	AuthRequired bool

	Source Source

	// Metadata contains mDNS TXT record data
	Metadata map[string]string

	DiscoveredAt time.Time
}

// String returns a human-readable string representation of the device
func (d *Device) String() string {
	name := d.Model
	if name == "" {
		name = "netCommander"
	}
	if d.AuthRequired {
		name += " (auth required)"
	}
	if d.Hostname != "" {
		return fmt.Sprintf("%s (%s) at %s", name, d.Hostname, d.Address())
	}
	return fmt.Sprintf("%s at %s", name, d.Address())
}

// Address returns host:port
func (d *Device) Address() string {
	return net.JoinHostPort(d.Host, strconv.Itoa(d.Port))
}

// BaseURL returns the HTTP base URL for the device
func (d *Device) BaseURL() string {
	return "http://" + d.Address()
}

// GetMetadata retrieves a metadata value by key, or returns empty string if not found
func (d *Device) GetMetadata(key string) string {
	if d.Metadata == nil {
		return ""
	}
	return d.Metadata[key]
}
