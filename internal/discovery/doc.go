// Package discovery finds Synaccess netCommander units on the local network.
//
// The units do not advertise a service of their own, so discovery works in
// two stages:
//  1. Collect candidates: web servers browsed over mDNS ("_http._tcp") and,
//     optionally, every host of an IPv4 subnet (at most /22)
//  2. Probe each candidate with the $A8 identity command, a bounded number
//     at a time
//
// A candidate is reported when the probe parses as device identity, or when
// /cmd.cgi answers 401, in which case the device is marked AuthRequired.
// Everything else is dropped silently.
//
// # Usage Example
//
//	scanner := discovery.NewScanner()
//	scanner.Subnet = "192.168.1.0/24"
//
//	devices, err := scanner.Scan(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, device := range devices {
//	    fmt.Println(device)
//	}
//
// # Network Requirements
//
// mDNS needs multicast on the local segment (UDP 5353). The subnet sweep only
// needs plain HTTP reachability of the device port.
package discovery
