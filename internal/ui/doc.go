// Package ui renders terminal output for the netcommander CLI.
//
// Components are "render once" strings built with Lipgloss:
//
//   - Header: command banner with the target device
//   - Result: success, failure and warning boxes
//   - Progress: step list with a bar, used for outlet reboots
//   - Tables: outlet status, device identity, batch results, scan results
//     and the saved device registry
//
// Confirm and PromptPassword are the only interactive pieces. The live
// monitor lives in the monitor package.
//
// # Logging Integration
//
// Logging is controlled via NETCOMMANDER_LOG_LEVEL and goes to stderr, so
// it never mixes with the output rendered here.
package ui
