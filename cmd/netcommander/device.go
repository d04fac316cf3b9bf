package main

import (
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/muurk/netcommander/internal/netcommander"
	"github.com/muurk/netcommander/internal/ui"
)

// deviceCmd manages the saved device registry
func (a *app) deviceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "device",
		Short: "Manage saved devices and outlet labels",
		Long: `Manage the saved device registry.

Saved devices are selected with --device <nickname>. Passwords are never
saved; give them with --password, NETCOMMANDER_PASSWORD or --ask-password.`,
	}

	cmd.AddCommand(a.deviceAddCmd(), a.deviceListCmd(), a.deviceRemoveCmd(), a.deviceLabelCmd())
	return cmd
}

func (a *app) deviceAddCmd() *cobra.Command {
	var (
		port     int
		username string
		outlets  int
	)

	cmd := &cobra.Command{
		Use:   "add <nickname> <host>",
		Short: "Save a device under a nickname",
		Example: `  netcommander device add rack1 192.168.1.100
  netcommander device add lab 10.0.0.5 --device-port 8080 --device-outlets 8`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			registry, err := a.loadRegistry()
			if err != nil {
				return err
			}

			nickname, host := args[0], args[1]
			if h, p, err := net.SplitHostPort(host); err == nil && !cmd.Flags().Changed("device-port") {
				if port, err = strconv.Atoi(p); err != nil {
					return fmt.Errorf("invalid port in %q", args[1])
				}
				host = h
			}

			if _, err := registry.AddDevice(nickname, host, port, username, outlets); err != nil {
				return err
			}
			if err := a.saveRegistry(); err != nil {
				return err
			}

			ui.NewPrinter(cmd.OutOrStdout()).PrintSuccess("Device saved",
				ui.Param{Key: "Nickname", Value: nickname},
				ui.Param{Key: "Address", Value: net.JoinHostPort(host, strconv.Itoa(port))},
				ui.Param{Key: "Outlets", Value: strconv.Itoa(outlets)},
				ui.Param{Key: "Config", Value: a.registryPath},
			)
			return nil
		},
	}

	cmd.Flags().IntVar(&port, "device-port", netcommander.DefaultPort, "HTTP port of the device")
	cmd.Flags().StringVar(&username, "device-username", netcommander.DefaultUsername, "HTTP Basic Auth username")
	cmd.Flags().IntVar(&outlets, "device-outlets", netcommander.DefaultOutlets, "Number of outlets on the unit")
	return cmd
}

func (a *app) deviceListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List saved devices",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			registry, err := a.loadRegistry()
			if err != nil {
				return err
			}

			var rows []ui.SavedDevice
			for _, name := range registry.DeviceNames() {
				d := registry.Devices[name]
				port := d.Port
				if port == 0 {
					port = netcommander.DefaultPort
				}
				outlets := d.Outlets
				if outlets == 0 {
					outlets = netcommander.DefaultOutlets
				}

				var labels []string
				for n := 1; n <= outlets; n++ {
					if label := d.OutletLabel(n); label != "" {
						labels = append(labels, fmt.Sprintf("%d=%s", n, label))
					}
				}

				rows = append(rows, ui.SavedDevice{
					Nickname: name,
					Address:  net.JoinHostPort(d.Host, strconv.Itoa(port)),
					Outlets:  outlets,
					Model:    d.Model,
					LastSeen: formatSeen(d.LastSeen),
					Labels:   labels,
				})
			}

			ui.NewPrinter(cmd.OutOrStdout()).Println(ui.RenderSavedDevices(rows))
			return nil
		},
	}
}

func (a *app) deviceRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "remove <nickname>",
		Aliases: []string{"rm"},
		Short:   "Forget a saved device",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			registry, err := a.loadRegistry()
			if err != nil {
				return err
			}
			if !registry.RemoveDevice(args[0]) {
				return fmt.Errorf("unknown device %q", args[0])
			}
			if err := a.saveRegistry(); err != nil {
				return err
			}
			ui.NewPrinter(cmd.OutOrStdout()).PrintSuccess("Device removed", ui.Param{Key: "Nickname", Value: args[0]})
			return nil
		},
	}
}

func (a *app) deviceLabelCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "label <nickname> <outlet> [label]",
		Short: "Name an outlet of a saved device",
		Long: `Name an outlet of a saved device. The label is shown by status and
monitor. Leaving the label out removes it.`,
		Example: `  netcommander device label rack1 3 "core switch"
  netcommander device label rack1 3`,
		Args: cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			registry, err := a.loadRegistry()
			if err != nil {
				return err
			}

			outlet, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid outlet number %q", args[1])
			}
			label := ""
			if len(args) == 3 {
				label = strings.TrimSpace(args[2])
			}

			if err := registry.SetOutletLabel(args[0], outlet, label); err != nil {
				return err
			}
			if err := a.saveRegistry(); err != nil {
				return err
			}

			title := fmt.Sprintf("Outlet %d label removed", outlet)
			if label != "" {
				title = fmt.Sprintf("Outlet %d labelled %q", outlet, label)
			}
			ui.NewPrinter(cmd.OutOrStdout()).PrintSuccess(title, ui.Param{Key: "Nickname", Value: args[0]})
			return nil
		},
	}
}
