package netcommander

import (
	"fmt"
	"sort"
	"strings"
)

// Summary returns a one-line summary of the status
func (s *DeviceStatus) Summary() string {
	return fmt.Sprintf("%d/%d outlets ON, %.2fA, temperature %s",
		len(s.OutletsOn()), s.OutletCount(), s.TotalCurrentAmps, s.TemperatureString())
}

// TemperatureString returns the temperature for display, "N/A" when the
// device has no reading.
func (s *DeviceStatus) TemperatureString() string {
	if !s.TemperatureAvailable() {
		return "N/A"
	}
	return *s.Temperature + "°C"
}

// FormatCompact renders the outlets on one line, e.g. "[1:ON] [2:OFF] ..."
func (s *DeviceStatus) FormatCompact() string {
	var parts []string
	for _, o := range s.OutletStates() {
		parts = append(parts, fmt.Sprintf("[%d:%s]", o.OutletNumber, onOff(o.IsOn)))
	}
	return strings.Join(parts, " ")
}

// FormatDetailed returns a multi-line report of the status
func (s *DeviceStatus) FormatDetailed() string {
	var b strings.Builder

	b.WriteString("=== Outlets ===\n")
	for _, o := range s.OutletStates() {
		b.WriteString(fmt.Sprintf("Outlet %d: %s\n", o.OutletNumber, onOff(o.IsOn)))
	}
	b.WriteString("\n=== Metrics ===\n")
	b.WriteString(fmt.Sprintf("Total Current: %.2fA\n", s.TotalCurrentAmps))
	b.WriteString(fmt.Sprintf("Temperature:   %s\n", s.TemperatureString()))

	return b.String()
}

// Summary returns a one-line summary of the device identity
func (i *DeviceInfo) Summary() string {
	summary := i.Model
	if i.FirmwareVersion != nil {
		summary += " (FW: " + *i.FirmwareVersion + ")"
	}
	return summary
}

// FormatDetailed returns a multi-line report of the device identity
func (i *DeviceInfo) FormatDetailed() string {
	var b strings.Builder

	b.WriteString("=== Device Information ===\n")
	b.WriteString(fmt.Sprintf("Model:       %s\n", i.Model))
	b.WriteString(fmt.Sprintf("Hardware:    %s\n", valueOrUnknown(i.HardwareVersion)))
	b.WriteString(fmt.Sprintf("Bootloader:  %s\n", valueOrUnknown(i.BootloaderVersion)))
	b.WriteString(fmt.Sprintf("Firmware:    %s\n", valueOrUnknown(i.FirmwareVersion)))
	b.WriteString(fmt.Sprintf("MAC Address: %s\n", valueOrUnknown(i.MACAddress)))

	return b.String()
}

// FailedOutlets returns the outlets that did not switch in a batch result, ascending.
func FailedOutlets(results map[int]bool) []int {
	failed := []int{}
	for outlet, ok := range results {
		if !ok {
			failed = append(failed, outlet)
		}
	}
	sort.Ints(failed)
	return failed
}

func valueOrUnknown(s *string) string {
	if s == nil || *s == "" {
		return "(unknown)"
	}
	return *s
}
