package config

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Registry represents the entire user configuration file.
// It stores known devices and application preferences.
type Registry struct {
	Version     int                `yaml:"version"`
	Devices     map[string]*Device `yaml:"devices,omitempty"` // Keyed by nickname
	Preferences *Preferences       `yaml:"preferences,omitempty"`
}

// Device is a saved netCommander unit, keyed by nickname in the Registry.
type Device struct {
	Host     string         `yaml:"host"`
	Port     int            `yaml:"port,omitempty"`
	Username string         `yaml:"username,omitempty"`
	Outlets  int            `yaml:"outlets,omitempty"` // Outlet count of the unit
	Labels   map[int]string `yaml:"labels,omitempty"`  // User labels keyed by outlet number
	LastSeen time.Time      `yaml:"last_seen,omitempty"`

	// Identity cached from the last info query
	Model    string `yaml:"model,omitempty"`
	Firmware string `yaml:"firmware,omitempty"`
	MAC      string `yaml:"mac,omitempty"`

	// Password is NEVER stored in the config file
}

// Preferences represents application-wide user preferences.
type Preferences struct {
	OutputFormat    string        `yaml:"output_format"`    // table, json or yaml
	PollInterval    time.Duration `yaml:"poll_interval"`    // monitor refresh interval
	CommandInterval time.Duration `yaml:"command_interval"` // spacing between batch writes, 0 = none
	RebootDelay     time.Duration `yaml:"reboot_delay"`     // off time during an outlet reboot
	DiscoverTimeout time.Duration `yaml:"discover_timeout"` // scan timeout
}

// Output formats accepted in Preferences.OutputFormat
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

// DefaultPreferences returns the preferences used when the file has none.
func DefaultPreferences() *Preferences {
	return &Preferences{
		OutputFormat:    FormatTable,
		PollInterval:    2 * time.Second,
		CommandInterval: 0,
		RebootDelay:     5 * time.Second,
		DiscoverTimeout: 10 * time.Second,
	}
}

// NewRegistry creates a new Registry with default values.
func NewRegistry() *Registry {
	return &Registry{
		Version:     1,
		Devices:     make(map[string]*Device),
		Preferences: DefaultPreferences(),
	}
}

// ValidFormat reports whether f is a known output format
func ValidFormat(f string) bool {
	switch f {
	case FormatTable, FormatJSON, FormatYAML:
		return true
	}
	return false
}

// GetDevice retrieves a device by nickname.
// Returns nil if the device doesn't exist in the registry.
func (r *Registry) GetDevice(nickname string) *Device {
	return r.Devices[nickname]
}

// EnsureDevice returns the device entry for nickname, creating it if needed.
func (r *Registry) EnsureDevice(nickname string) *Device {
	if r.Devices == nil {
		r.Devices = make(map[string]*Device)
	}

	if device, exists := r.Devices[nickname]; exists {
		return device
	}

	device := &Device{Labels: make(map[int]string)}
	r.Devices[nickname] = device
	return device
}

// AddDevice saves or updates a device under nickname. Zero port, username or
// outlet count leave the client defaults in charge.
func (r *Registry) AddDevice(nickname, host string, port int, username string, outlets int) (*Device, error) {
	nickname = strings.TrimSpace(nickname)
	if nickname == "" {
		return nil, fmt.Errorf("nickname is required")
	}
	if strings.ContainsAny(nickname, " \t") {
		return nil, fmt.Errorf("nickname %q must not contain whitespace", nickname)
	}
	if strings.TrimSpace(host) == "" {
		return nil, fmt.Errorf("host is required")
	}
	if port < 0 || port > 65535 {
		return nil, fmt.Errorf("port must be between 1 and 65535, got %d", port)
	}
	if outlets < 0 {
		return nil, fmt.Errorf("outlet count must not be negative, got %d", outlets)
	}

	device := r.EnsureDevice(nickname)
	device.Host = host
	device.Port = port
	device.Username = username
	device.Outlets = outlets
	return device, nil
}

// RemoveDevice deletes a device. It reports whether the device existed.
func (r *Registry) RemoveDevice(nickname string) bool {
	if _, exists := r.Devices[nickname]; !exists {
		return false
	}
	delete(r.Devices, nickname)
	return true
}

// DeviceNames returns the saved nicknames in alphabetical order.
func (r *Registry) DeviceNames() []string {
	names := make([]string, 0, len(r.Devices))
	for name := range r.Devices {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// FindByHost returns the nickname and entry saved for host, if any.
func (r *Registry) FindByHost(host string) (string, *Device) {
	for _, name := range r.DeviceNames() {
		if r.Devices[name].Host == host {
			return name, r.Devices[name]
		}
	}
	return "", nil
}

// SetOutletLabel sets the label of an outlet on a saved device. An empty
// label removes it.
func (r *Registry) SetOutletLabel(nickname string, outletNum int, label string) error {
	device := r.GetDevice(nickname)
	if device == nil {
		return fmt.Errorf("unknown device %q", nickname)
	}
	if outletNum < 1 || (device.Outlets > 0 && outletNum > device.Outlets) {
		return fmt.Errorf("invalid outlet number: %d", outletNum)
	}

	if device.Labels == nil {
		device.Labels = make(map[int]string)
	}
	if label == "" {
		delete(device.Labels, outletNum)
		return nil
	}
	device.Labels[outletNum] = label
	return nil
}

// OutletLabel returns the label of an outlet, or "" when none is set.
func (d *Device) OutletLabel(outletNum int) string {
	if d == nil || d.Labels == nil {
		return ""
	}
	return d.Labels[outletNum]
}

// UpdateDeviceSeen records a successful contact with a device and caches
// its identity. Empty values keep what was cached before.
func (r *Registry) UpdateDeviceSeen(nickname, model, firmware, mac string) {
	device := r.EnsureDevice(nickname)
	device.LastSeen = time.Now()
	if model != "" {
		device.Model = model
	}
	if firmware != "" {
		device.Firmware = firmware
	}
	if mac != "" {
		device.MAC = mac
	}
}
