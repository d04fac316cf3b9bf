package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/muurk/netcommander/internal/config"
	"github.com/muurk/netcommander/internal/coordinator"
	"github.com/muurk/netcommander/internal/monitor"
	"github.com/muurk/netcommander/internal/netcommander"
	"github.com/muurk/netcommander/internal/ui"
)

// statusCmd shows the state of every outlet
func (a *app) statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show outlet status, current draw and temperature",
		Example: `  # Status of a saved device
  netcommander status --device rack1

  # JSON for scripting
  netcommander status --host 192.168.1.100 -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := a.outputFormat()
			if err != nil {
				return err
			}

			t, client, err := a.client()
			if err != nil {
				return err
			}
			defer func() { _ = client.Close() }()

			status, err := client.GetStatus(cmd.Context())
			if err != nil {
				return err
			}

			if format != config.FormatTable {
				return writeStructured(cmd.OutOrStdout(), format, newStatusReport(t.config.Host, status, t.labels()))
			}

			p := ui.NewPrinter(cmd.OutOrStdout())
			p.PrintHeader("Outlet Status", "netcommander status", deviceParams(t)...)
			p.Println(ui.RenderStatusTable(status, t.labels()))
			return nil
		},
	}
}

// outletCmd switches or power-cycles a single outlet
func (a *app) outletCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "outlet <number> <on|off|toggle|reboot>",
		Short: "Switch or power-cycle one outlet",
		Long: `Switch one outlet on or off, flip it, or power-cycle it.

toggle reads the outlet first and sends the explicit opposite state.
reboot switches the outlet off, waits the configured reboot delay
(default 5s) and switches it back on.`,
		Example: `  netcommander outlet 3 on --device rack1
  netcommander outlet 2 reboot --host 192.168.1.100`,
		Args: cobra.ExactArgs(2),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			if len(args) == 1 {
				return []string{"on", "off", "toggle", "reboot"}, cobra.ShellCompDirectiveNoFileComp
			}
			return nil, cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			outlet, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid outlet number %q", args[0])
			}
			action := strings.ToLower(args[1])

			p := ui.NewPrinter(cmd.OutOrStdout())

			var progress *ui.Progress
			onStep := func(_ int, step coordinator.RebootStep) {
				n := int(step)
				if n > 1 {
					progress.CompleteStep(n-1, "")
				}
				progress.StartStep(n, "")
				p.Println(progress.RenderStepLine(progress.Steps[n-1]))
			}

			t, coord, err := a.coordinator(onStep)
			if err != nil {
				return err
			}
			defer func() { _ = coord.Close() }()

			if !netcommander.ValidOutlet(outlet, t.config.Outlets) {
				return netcommander.NewInvalidOutletError(outlet, t.config.Outlets)
			}

			ctx := cmd.Context()
			var ok bool
			switch action {
			case "on":
				ok, err = coord.TurnOn(ctx, outlet)
			case "off":
				ok, err = coord.TurnOff(ctx, outlet)
			case "toggle":
				ok, err = coord.ToggleOutlet(ctx, outlet)
			case "reboot":
				progress = ui.NewProgress(fmt.Sprintf("Power-cycling outlet %d", outlet),
					"Switch off", fmt.Sprintf("Wait %s", coord.RebootDelay()), "Switch on")
				p.Println(ui.ProgressLabelStyle.Render(progress.Label))
				ok, err = coord.RebootOutlet(ctx, outlet)
				if n := progress.Current(); n > 0 {
					if err == nil {
						progress.CompleteStep(n, "")
					} else {
						progress.FailStep(n, "")
					}
					p.Println(progress.RenderStepLine(progress.Steps[n-1]))
				}
				p.Newline()
			default:
				return fmt.Errorf("unknown action %q (use on, off, toggle or reboot)", args[1])
			}
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("outlet %d: device did not acknowledge the command", outlet)
			}

			title := fmt.Sprintf("Outlet %d", outlet)
			if label := t.saved.OutletLabel(outlet); label != "" {
				title += " (" + label + ")"
			}

			details := deviceParams(t)
			if status := coord.Status(); status != nil {
				if on, err := status.State(outlet); err == nil {
					title += " is now " + onOff(on)
				}
				details = append(details, ui.Param{Key: "Outlets", Value: status.FormatCompact()})
			} else {
				title += " " + actionDone(action)
			}

			p.PrintSuccess(title, details...)
			return nil
		},
	}
}

// allCmd switches every outlet at once
func (a *app) allCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "all <on|off>",
		Short: "Switch every outlet on or off",
		Long: `Switch every outlet on or off, one outlet at a time.

An outlet that fails does not stop the batch. Failed outlets are listed
and the command exits non-zero. Switching everything off asks for
confirmation unless --yes is given.`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"on", "off"},
		RunE: func(cmd *cobra.Command, args []string) error {
			var on bool
			switch strings.ToLower(args[0]) {
			case "on":
				on = true
			case "off":
			default:
				return fmt.Errorf("unknown state %q (use on or off)", args[0])
			}

			t, coord, err := a.coordinator(nil)
			if err != nil {
				return err
			}
			defer func() { _ = coord.Close() }()

			if !on && !yes {
				if !ui.IsTerminal() {
					return fmt.Errorf("refusing to switch every outlet off without --yes")
				}
				warnings := []string{
					fmt.Sprintf("All %d outlets on %s will lose power", t.config.Outlets, t.config.Host),
					"Equipment plugged into this unit shuts down immediately",
				}
				if !ui.Confirm(cmd.InOrStdin(), cmd.OutOrStdout(), "Switch every outlet OFF", warnings, "Continue?") {
					return nil
				}
			}

			var results map[int]bool
			if on {
				results = coord.TurnOnAll(cmd.Context())
			} else {
				results = coord.TurnOffAll(cmd.Context())
			}

			p := ui.NewPrinter(cmd.OutOrStdout())
			p.PrintHeader("All Outlets "+onOff(on), "netcommander all "+strings.ToLower(args[0]), deviceParams(t)...)
			p.Println(ui.RenderBatchResults(results, on))

			if failed := netcommander.FailedOutlets(results); len(failed) > 0 {
				p.PrintWarning(fmt.Sprintf("%d of %d outlets did not switch", len(failed), len(results)),
					ui.Param{Key: "Failed", Value: joinInts(failed)})
				return errBatchIncomplete
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")
	return cmd
}

// infoCmd shows the device identity and a status summary
func (a *app) infoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show model, firmware and MAC address",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			t, coord, err := a.coordinator(nil)
			if err != nil {
				return err
			}
			defer func() { _ = coord.Close() }()

			status, err := coord.Refresh(cmd.Context())
			if err != nil {
				return err
			}
			info := coord.DeviceInfo()
			a.recordSeen(t, info)

			params := append(deviceParams(t),
				ui.Param{Key: "Username", Value: t.config.Username},
				ui.Param{Key: "Timeout", Value: t.config.Timeout.String()},
				ui.Param{Key: "Outlets", Value: strconv.Itoa(t.config.Outlets)},
			)

			p := ui.NewPrinter(cmd.OutOrStdout())
			p.PrintHeader("Device Information", "netcommander info", params...)
			p.Println(ui.RenderInfoTable(info))
			p.Newline()
			p.Println(ui.StepNoteStyle.Render("  " + status.Summary()))
			return nil
		},
	}
}

// monitorCmd runs the live view
func (a *app) monitorCmd() *cobra.Command {
	var interval time.Duration

	cmd := &cobra.Command{
		Use:   "monitor",
		Short: "Watch and control outlets live",
		Long: `Open a live view of the outlets that refreshes every --interval.

Press 1..9 to switch an outlet, a for all on, o for all off,
r to refresh and q to quit.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !ui.IsTerminal() {
				return fmt.Errorf("monitor needs an interactive terminal")
			}

			t, coord, err := a.coordinator(nil)
			if err != nil {
				return err
			}
			defer func() { _ = coord.Close() }()

			if !cmd.Flags().Changed("interval") {
				interval = a.preferences().PollInterval
			}

			return monitor.Run(cmd.Context(), coord, monitor.Options{
				Interval: interval,
				Labels:   t.labels(),
			})
		},
	}

	cmd.Flags().DurationVar(&interval, "interval", monitor.DefaultInterval, "Refresh interval")
	return cmd
}

func onOff(on bool) string {
	if on {
		return "ON"
	}
	return "OFF"
}

func actionDone(action string) string {
	switch action {
	case "toggle":
		return "switched"
	case "reboot":
		return "power-cycled"
	default:
		return "switched " + strings.ToUpper(action)
	}
}

func joinInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ", ")
}
