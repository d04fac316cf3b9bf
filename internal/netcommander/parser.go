package netcommander

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	hardwarePattern   = regexp.MustCompile(`HW\s*([0-9.]+)`)
	bootloaderPattern = regexp.MustCompile(`BL\s*([0-9.]+)`)
	firmwarePattern   = regexp.MustCompile(`BL\s*[0-9.]+\s+(.+)`)
	macPattern        = regexp.MustCompile(`([0-9A-Fa-f]{2}[:-]){5}[0-9A-Fa-f]{2}`)
)

// ParseStatus parses a $A5 reply of the form
//
//	$A0,<outletBits>,<current>[,<temperature>]
//
// The outlet bitstring must be exactly totalOutlets characters long and is
// read in reverse order (see StatusPosition).
func ParseStatus(response string, totalOutlets int) (*DeviceStatus, error) {
	parts := strings.Split(response, ",")
	if len(parts) < 3 {
		return nil, NewParseError(response, fmt.Sprintf("expected at least 3 fields, got %d", len(parts)))
	}

	if parts[0] != ResponseSuccess {
		return nil, NewParseError(response, fmt.Sprintf("expected %s, got %s", ResponseSuccess, parts[0]))
	}

	bits := parts[1]
	if len(bits) != totalOutlets {
		return nil, NewParseError(response, fmt.Sprintf("expected %d outlet bits, got %d", totalOutlets, len(bits)))
	}

	outlets := make(map[int]bool, totalOutlets)
	for outlet := 1; outlet <= totalOutlets; outlet++ {
		outlets[outlet] = bits[StatusPosition(outlet, totalOutlets)] == '1'
	}

	current, err := strconv.ParseFloat(strings.TrimSpace(parts[2]), 64)
	if err != nil || math.IsNaN(current) || math.IsInf(current, 0) {
		return nil, NewParseError(response, fmt.Sprintf("invalid current value: %s", parts[2]))
	}
	if current < 0 {
		return nil, NewParseError(response, fmt.Sprintf("negative current value: %s", parts[2]))
	}

	var temperature *string
	if len(parts) > 3 && parts[3] != "" {
		temperature = stringPtr(parts[3])
	}

	return &DeviceStatus{
		Outlets:          outlets,
		TotalCurrentAmps: current,
		Temperature:      temperature,
		RawResponse:      response,
	}, nil
}

// ParseDeviceInfo parses a $A8 reply of the form
//
//	$A0,<model>, HW<hw> BL<bootloader> <firmware>
//
// Everything after the model is optional. Each version is extracted
// independently and left nil when its marker is missing.
func ParseDeviceInfo(response string) (*DeviceInfo, error) {
	prefix := ResponseSuccess + ","
	if !strings.HasPrefix(response, prefix) {
		return nil, NewParseError(response, fmt.Sprintf("expected %s prefix", prefix))
	}

	model, details, hasDetails := strings.Cut(strings.TrimPrefix(response, prefix), ",")
	info := &DeviceInfo{
		Model:       strings.TrimSpace(model),
		RawResponse: response,
	}

	if !hasDetails {
		return info, nil
	}

	details = strings.TrimSpace(details)
	if m := hardwarePattern.FindStringSubmatch(details); m != nil {
		info.HardwareVersion = stringPtr(m[1])
	}
	if m := bootloaderPattern.FindStringSubmatch(details); m != nil {
		info.BootloaderVersion = stringPtr(m[1])
	}
	if m := firmwarePattern.FindStringSubmatch(details); m != nil {
		if fw := strings.TrimSpace(m[1]); fw != "" {
			info.FirmwareVersion = stringPtr(fw)
		}
	}

	return info, nil
}

// ExtractMACAddress finds the first MAC address in a page of the device web UI.
func ExtractMACAddress(page string) (string, bool) {
	mac := macPattern.FindString(page)
	return mac, mac != ""
}
