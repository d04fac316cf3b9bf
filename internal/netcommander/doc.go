// Package netcommander provides a client for Synaccess netCommander and
// netBooter power distribution units (NP0501DU class).
//
// The device speaks an undocumented command language over HTTP. Every
// command is sent as the raw query string of GET /cmd.cgi with HTTP Basic
// Auth, and the reply body starts with $A0 on success or $AF on failure.
//
// # Commands
//
//	$A5          status: "$A0,<bits>,<amps>,<temperature|XX>"
//	$A8          identity: "$A0,<model>, HW<ver> BL<ver> <firmware>"
//	$A3 <n> <v>  explicitly set outlet n (1-based) to v (0 or 1)
//	rly=<i>      toggle relay i (0-based)
//
// # Outlet Numbering
//
// Callers always use outlet numbers 1..N. The device uses three schemes
// internally, and mixing them up is the classic bug with this unit:
//
//   - $A3 takes the 1-based outlet number, with SPACES between tokens
//   - rly takes the 0-based relay index (see ToggleIndex)
//   - the status bitstring is reversed: the rightmost character is outlet 1
//     (see StatusPosition)
//
// # Usage Example
//
//	client, err := netcommander.NewClient(netcommander.DefaultConfig("192.168.1.100"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	status, err := client.GetStatus(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(status.Summary())
//
//	if _, err := client.TurnOn(ctx, 3); err != nil {
//	    log.Fatal(err)
//	}
//
// # Error Handling
//
// All errors are *DeviceError values classified by ErrorType: connection,
// authentication, command ($AF), invalid outlet and parse errors. Use the
// IsXxxError helpers or errors.Is with the package sentinels. The client
// never retries; TurnOnAll and TurnOffAll are the only operations that
// absorb per-outlet failures, reporting them as false in the result map.
//
// # Thread Safety
//
// A Client is not safe for concurrent use. Serialize calls, or go through
// the coordinator package which does that for you.
package netcommander
