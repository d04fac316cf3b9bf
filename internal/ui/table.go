package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/muurk/netcommander/internal/discovery"
	"github.com/muurk/netcommander/internal/netcommander"
)

// LabelFunc returns the user label of an outlet, or ""
type LabelFunc func(outlet int) string

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(PrimaryColor)).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return TableHeaderStyle
			}
			return TableCellStyle
		}).
		Headers(headers...)
}

// RenderStatusTable renders one row per outlet followed by the metrics line
func RenderStatusTable(status *netcommander.DeviceStatus, labels LabelFunc) string {
	t := newTable("Outlet", "State", "Label")
	for _, o := range status.OutletStates() {
		label := ""
		if labels != nil {
			label = labels(o.OutletNumber)
		}
		t.Row(strconv.Itoa(o.OutletNumber), OutletStateText(o.IsOn), label)
	}

	metrics := fmt.Sprintf("  %d/%d on   Current: %.2fA   Temperature: %s",
		len(status.OutletsOn()), status.OutletCount(), status.TotalCurrentAmps, status.TemperatureString())

	return lipgloss.JoinVertical(lipgloss.Left, t.String(), StepNoteStyle.Render(metrics))
}

// RenderInfoTable renders the device identity as a two-column table
func RenderInfoTable(info *netcommander.DeviceInfo) string {
	t := newTable("Field", "Value")
	t.Row("Model", info.Model)
	t.Row("Hardware", orDash(info.HardwareVersion))
	t.Row("Bootloader", orDash(info.BootloaderVersion))
	t.Row("Firmware", orDash(info.FirmwareVersion))
	t.Row("MAC Address", orDash(info.MACAddress))
	return t.String()
}

// RenderBatchResults renders the outcome of an all on/off batch
func RenderBatchResults(results map[int]bool, on bool) string {
	t := newTable("Outlet", "Requested", "Result")
	for outlet := 1; outlet <= len(results); outlet++ {
		ok, present := results[outlet]
		if !present {
			continue
		}
		result := StepCompleteStyle.Render(SuccessMarker + " ok")
		if !ok {
			result = ErrorTitleStyle.Render(FailureMarker + " failed")
		}
		t.Row(strconv.Itoa(outlet), OutletStateText(on), result)
	}
	return t.String()
}

// RenderDiscoveredDevices renders scan results
func RenderDiscoveredDevices(devices []*discovery.Device) string {
	if len(devices) == 0 {
		return StepPendingStyle.Render("  No devices found")
	}

	t := newTable("Address", "Model", "Firmware", "MAC", "Found via")
	for _, d := range devices {
		model := d.Model
		if d.AuthRequired {
			model = WarningTitleStyle.Render("auth required")
		}
		source := string(d.Source)
		if d.Hostname != "" {
			source += " (" + d.Hostname + ")"
		}
		t.Row(d.Address(), model, dash(d.Firmware), dash(d.MAC), source)
	}
	return t.String()
}

// SavedDevice is one registry entry prepared for display
type SavedDevice struct {
	Nickname string
	Address  string
	Outlets  int
	Model    string
	LastSeen string
	Labels   []string
}

// RenderSavedDevices renders the device registry
func RenderSavedDevices(devices []SavedDevice) string {
	if len(devices) == 0 {
		return StepPendingStyle.Render("  No saved devices. Add one with: netcommander device add <nickname> <host>")
	}

	t := newTable("Nickname", "Address", "Outlets", "Model", "Last seen", "Labels")
	for _, d := range devices {
		t.Row(d.Nickname, d.Address, strconv.Itoa(d.Outlets), dash(d.Model), dash(d.LastSeen), dash(strings.Join(d.Labels, ", ")))
	}
	return t.String()
}

func orDash(s *string) string {
	return dash(netcommander.StringValue(s))
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
