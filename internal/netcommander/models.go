package netcommander

import (
	"sort"
)

// TemperatureUnavailable is the literal the device reports when it has no
// temperature sensor reading.
const TemperatureUnavailable = "XX"

// OutletState is the state of a single outlet as seen in one status read.
type OutletState struct {
	OutletNumber int  `json:"outlet_number" yaml:"outlet_number"` // 1..N
	IsOn         bool `json:"is_on" yaml:"is_on"`
}

// DeviceStatus is the result of one $A5 status query.
//
// Outlets always holds exactly the keys 1..N for the configured outlet count.
// A DeviceStatus is produced fresh for every query and is never cached by the
// client.
type DeviceStatus struct {
	Outlets          map[int]bool `json:"outlets" yaml:"outlets"`
	TotalCurrentAmps float64      `json:"total_current_amps" yaml:"total_current_amps"`
	// Temperature is nil when the field is absent and "XX" when the device
	// reports the sensor as unavailable. It is never coerced to a number.
	Temperature *string `json:"temperature" yaml:"temperature"`
	RawResponse string  `json:"raw_response,omitempty" yaml:"raw_response,omitempty"`
}

// DeviceInfo is the result of one $A8 identity query.
type DeviceInfo struct {
	Model             string  `json:"model" yaml:"model"`
	HardwareVersion   *string `json:"hardware_version,omitempty" yaml:"hardware_version,omitempty"`
	FirmwareVersion   *string `json:"firmware_version,omitempty" yaml:"firmware_version,omitempty"`
	BootloaderVersion *string `json:"bootloader_version,omitempty" yaml:"bootloader_version,omitempty"`
	MACAddress        *string `json:"mac_address,omitempty" yaml:"mac_address,omitempty"`
	RawResponse       string  `json:"raw_response,omitempty" yaml:"raw_response,omitempty"`
}

// OutletCount returns the number of outlets in the status.
func (s *DeviceStatus) OutletCount() int {
	return len(s.Outlets)
}

// State returns the state of one outlet.
func (s *DeviceStatus) State(outletNumber int) (bool, error) {
	on, ok := s.Outlets[outletNumber]
	if !ok {
		return false, NewInvalidOutletError(outletNumber, len(s.Outlets))
	}
	return on, nil
}

// OutletStates returns the per-outlet view ordered by outlet number.
func (s *DeviceStatus) OutletStates() []OutletState {
	states := make([]OutletState, 0, len(s.Outlets))
	for _, n := range s.sortedOutlets() {
		states = append(states, OutletState{OutletNumber: n, IsOn: s.Outlets[n]})
	}
	return states
}

// OutletsOn returns the numbers of the outlets that are on, ascending.
func (s *DeviceStatus) OutletsOn() []int {
	return s.filter(true)
}

// OutletsOff returns the numbers of the outlets that are off, ascending.
func (s *DeviceStatus) OutletsOff() []int {
	return s.filter(false)
}

// AllOn reports whether every outlet is on.
func (s *DeviceStatus) AllOn() bool {
	return len(s.OutletsOff()) == 0
}

// AllOff reports whether every outlet is off.
func (s *DeviceStatus) AllOff() bool {
	return len(s.OutletsOn()) == 0
}

// TemperatureAvailable reports whether the device returned a real reading.
func (s *DeviceStatus) TemperatureAvailable() bool {
	return s.Temperature != nil && *s.Temperature != TemperatureUnavailable && *s.Temperature != ""
}

func (s *DeviceStatus) filter(want bool) []int {
	outlets := []int{}
	for _, n := range s.sortedOutlets() {
		if s.Outlets[n] == want {
			outlets = append(outlets, n)
		}
	}
	return outlets
}

func (s *DeviceStatus) sortedOutlets() []int {
	numbers := make([]int, 0, len(s.Outlets))
	for n := range s.Outlets {
		numbers = append(numbers, n)
	}
	sort.Ints(numbers)
	return numbers
}

// withMAC returns a copy of the info with the MAC address set.
func (i DeviceInfo) withMAC(mac string) *DeviceInfo {
	i.MACAddress = &mac
	return &i
}

// StringValue dereferences an optional string, returning "" when absent.
func StringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func stringPtr(s string) *string {
	return &s
}
