package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/muurk/netcommander/internal/discovery"
	"github.com/muurk/netcommander/internal/ui"
)

// scanCmd discovers devices on the network
func (a *app) scanCmd() *cobra.Command {
	var (
		timeout time.Duration
		subnet  string
		noMDNS  bool
	)

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Find netCommander units on the network",
		Long: `Find netCommander units with an mDNS browse and an optional subnet sweep.

Every candidate is confirmed with an identity query before it is listed.
Units that reject the credentials are listed as "auth required".`,
		Example: `  # mDNS only
  netcommander scan

  # Also sweep a subnet
  netcommander scan --subnet 192.168.1.0/24 --timeout 20s`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("timeout") {
				timeout = a.preferences().DiscoverTimeout
			}

			scanner := discovery.NewScanner()
			scanner.Timeout = timeout
			scanner.Subnet = subnet
			scanner.MDNS = !noMDNS
			if a.v.IsSet("username") {
				scanner.Username = a.v.GetString("username")
			}
			if a.v.IsSet("password") {
				scanner.Password = a.v.GetString("password")
			}
			if a.v.IsSet("port") {
				scanner.Port = a.v.GetInt("port")
			}

			params := []ui.Param{{Key: "Timeout", Value: timeout.String()}}
			if !noMDNS {
				params = append(params, ui.Param{Key: "mDNS", Value: "_http._tcp"})
			}
			if subnet != "" {
				params = append(params, ui.Param{Key: "Subnet", Value: subnet})
			}

			p := ui.NewPrinter(cmd.OutOrStdout())
			p.PrintHeader("Device Scan", "netcommander scan", params...)

			devices, err := scanner.Scan(cmd.Context())
			if err != nil {
				return fmt.Errorf("scan failed: %w", err)
			}

			p.Println(ui.RenderDiscoveredDevices(devices))
			if len(devices) == 0 {
				p.Newline()
				p.Println(ui.TroubleshootingItemStyle.Render("  • Ensure the unit is powered and on the same network"))
				p.Println(ui.TroubleshootingItemStyle.Render("  • Many units do not announce themselves, try --subnet"))
				p.Println(ui.TroubleshootingItemStyle.Render("  • Try increasing --timeout for slower networks"))
				return nil
			}

			p.Newline()
			p.Println(ui.StepNoteStyle.Render("  Save one with: netcommander device add <nickname> <host>"))
			return nil
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", discovery.DefaultScanTimeout, "Scan timeout")
	cmd.Flags().StringVar(&subnet, "subnet", "", "IPv4 CIDR to sweep, at most /22 (e.g. 192.168.1.0/24)")
	cmd.Flags().BoolVar(&noMDNS, "no-mdns", false, "Skip the mDNS browse")
	return cmd
}
