package netcommander

import (
	"fmt"
	"time"
)

const (
	// DefaultPort is the HTTP port the device listens on
	DefaultPort = 80

	// DefaultUsername is the factory HTTP Basic Auth username
	DefaultUsername = "admin"

	// DefaultPassword is the factory HTTP Basic Auth password
	DefaultPassword = "admin"

	// DefaultTimeout is the per-request timeout
	DefaultTimeout = 10 * time.Second

	// DefaultOutlets is the outlet count of the NP0501DU-class units
	DefaultOutlets = 5
)

// Wire protocol. Commands are appended verbatim after "?" on CommandPath.
const (
	// CommandPath is the CGI endpoint that accepts every command
	CommandPath = "/cmd.cgi"

	// CmdGetStatus returns outlet bits, total current and temperature
	CmdGetStatus = "$A5"

	// CmdGetInfo returns model and hardware/bootloader/firmware versions
	CmdGetInfo = "$A8"

	// CmdSetOutlet explicitly sets one outlet: "$A3 <outlet> <0|1>"
	CmdSetOutlet = "$A3"

	// CmdToggleOutlet flips one relay: "rly=<index>"
	CmdToggleOutlet = "rly"

	// ResponseSuccess prefixes every successful reply
	ResponseSuccess = "$A0"

	// ResponseFailure prefixes every rejected command
	ResponseFailure = "$AF"
)

// setOutletSeparator separates the tokens of the $A3 command. The firmware
// rejects the comma form, only a single space works.
const setOutletSeparator = " "

// StatusPosition returns the index of an outlet inside the status bitstring.
// The bitstring is reversed: the rightmost character is outlet 1.
func StatusPosition(outletNumber, totalOutlets int) int {
	return totalOutlets - outletNumber
}

// ToggleIndex returns the 0-based relay index used by the toggle command.
func ToggleIndex(outletNumber int) int {
	return outletNumber - 1
}

// ValidOutlet reports whether outletNumber lies in 1..totalOutlets.
func ValidOutlet(outletNumber, totalOutlets int) bool {
	return outletNumber >= 1 && outletNumber <= totalOutlets
}

// SetOutletCommand builds the explicit set command for a 1-based outlet.
func SetOutletCommand(outletNumber int, on bool) string {
	value := 0
	if on {
		value = 1
	}
	return fmt.Sprintf("%s%s%d%s%d", CmdSetOutlet, setOutletSeparator, outletNumber, setOutletSeparator, value)
}

// ToggleOutletCommand builds the toggle command for a 1-based outlet.
func ToggleOutletCommand(outletNumber int) string {
	return fmt.Sprintf("%s=%d", CmdToggleOutlet, ToggleIndex(outletNumber))
}
