// Netcommander controls Synaccess netCommander and netBooter power
// distribution units from the command line.
//
// It reads outlet status, switches and power-cycles outlets, shows a live
// monitor, finds units on the local network and keeps a registry of saved
// devices with outlet labels.
//
// Usage:
//
//	netcommander [command] [flags]
//
// Connection settings are resolved in this order: command-line flags,
// NETCOMMANDER_* environment variables, the saved device selected with
// --device, factory defaults. See 'netcommander --help' for available
// commands.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/muurk/netcommander/internal/logging"
	"github.com/muurk/netcommander/internal/netcommander"
	"github.com/muurk/netcommander/internal/ui"
	"github.com/muurk/netcommander/internal/version"
)

func main() {
	if err := logging.InitializeFromEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
	defer logging.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()

	if err != nil {
		printError(os.Stderr, err)
		logging.Sync()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := newApp()

	rootCmd := &cobra.Command{
		Use:   "netcommander",
		Short: "Synaccess netCommander/netBooter PDU control",
		Long: `Control Synaccess netCommander and netBooter power distribution units.

Read outlet status, switch and power-cycle outlets, watch the unit live,
and find units on the local network.`,
		Version:       version.Version,
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	// Disable automatic completion command generation
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.SetVersionTemplate("netcommander {{.Version}}\n")

	a.bindFlags(rootCmd)

	rootCmd.AddCommand(
		a.statusCmd(),
		a.outletCmd(),
		a.allCmd(),
		a.infoCmd(),
		a.monitorCmd(),
		a.scanCmd(),
		a.deviceCmd(),
		versionCmd(),
	)

	return rootCmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "netcommander %s\n", version.Full())
		},
	}
}

// errBatchIncomplete signals that a batch printed its own failure report
var errBatchIncomplete = errors.New("one or more outlets did not switch")

// printError renders a failure box with troubleshooting hints for device errors
func printError(w io.Writer, err error) {
	if errors.Is(err, errBatchIncomplete) {
		_, _ = fmt.Fprintf(w, "Error: %v\n", err)
		return
	}

	var devErr *netcommander.DeviceError
	if !errors.As(err, &devErr) {
		_, _ = fmt.Fprintf(w, "Error: %v\n", err)
		return
	}

	var hints []string
	for _, line := range strings.Split(netcommander.GetTroubleshootingHint(err), "\n") {
		line = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), "•"))
		if line == "" || line == "Troubleshooting:" {
			continue
		}
		hints = append(hints, line)
	}

	ui.NewPrinter(w).PrintError(netcommander.GetShortErrorMessage(err), err, hints)
}
