package main

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/muurk/netcommander/internal/config"
	"github.com/muurk/netcommander/internal/netcommander"
	"github.com/muurk/netcommander/internal/ui"
)

// statusReport is the machine-readable form of `status -o json|yaml`
type statusReport struct {
	Host             string         `json:"host" yaml:"host"`
	Outlets          []outletReport `json:"outlets" yaml:"outlets"`
	TotalCurrentAmps float64        `json:"total_current_amps" yaml:"total_current_amps"`
	Temperature      *string        `json:"temperature" yaml:"temperature"`
}

type outletReport struct {
	Outlet int    `json:"outlet" yaml:"outlet"`
	On     bool   `json:"on" yaml:"on"`
	Label  string `json:"label,omitempty" yaml:"label,omitempty"`
}

func newStatusReport(host string, status *netcommander.DeviceStatus, labels ui.LabelFunc) statusReport {
	report := statusReport{
		Host:             host,
		Outlets:          make([]outletReport, 0, status.OutletCount()),
		TotalCurrentAmps: status.TotalCurrentAmps,
		Temperature:      status.Temperature,
	}
	for _, o := range status.OutletStates() {
		entry := outletReport{Outlet: o.OutletNumber, On: o.IsOn}
		if labels != nil {
			entry.Label = labels(o.OutletNumber)
		}
		report.Outlets = append(report.Outlets, entry)
	}
	return report
}

// writeStructured encodes v as JSON or YAML
func writeStructured(w io.Writer, format string, v any) error {
	switch format {
	case config.FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
	case config.FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to marshal YAML: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported structured format %q", format)
	}
	return nil
}
