package netcommander

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"strings"
	"syscall"
)

// ErrorType represents the category of error that occurred
type ErrorType int

const (
	// ErrTypeConnection indicates a transport failure, timeout or unexpected HTTP status
	ErrTypeConnection ErrorType = iota
	// ErrTypeAuth indicates the device rejected the credentials (HTTP 401)
	ErrTypeAuth
	// ErrTypeCommand indicates the device answered with the $AF failure sentinel
	ErrTypeCommand
	// ErrTypeInvalidOutlet indicates an outlet number outside 1..N, detected locally
	ErrTypeInvalidOutlet
	// ErrTypeParse indicates a response that does not match its fixed format
	ErrTypeParse
)

// NetworkErrorSubtype provides more specific classification of connection errors
type NetworkErrorSubtype int

const (
	NetworkErrorGeneral NetworkErrorSubtype = iota
	NetworkErrorTimeout
	NetworkErrorConnectionRefused
	NetworkErrorDNS
	NetworkErrorHostUnreachable
	NetworkErrorNetworkUnreachable
	NetworkErrorHTTPStatus
	NetworkErrorCanceled
)

// Sentinels for errors.Is matching against a *DeviceError of the same type.
var (
	ErrConnection     = errors.New("connection error")
	ErrAuthentication = errors.New("authentication error")
	ErrCommand        = errors.New("command error")
	ErrInvalidOutlet  = errors.New("invalid outlet")
	ErrParse          = errors.New("parse error")
)

// String returns a human-readable name for the error type
func (et ErrorType) String() string {
	switch et {
	case ErrTypeConnection:
		return "Connection Error"
	case ErrTypeAuth:
		return "Authentication Error"
	case ErrTypeCommand:
		return "Command Error"
	case ErrTypeInvalidOutlet:
		return "Invalid Outlet"
	case ErrTypeParse:
		return "Parse Error"
	default:
		return fmt.Sprintf("ErrorType(%d)", et)
	}
}

func (et ErrorType) sentinel() error {
	switch et {
	case ErrTypeConnection:
		return ErrConnection
	case ErrTypeAuth:
		return ErrAuthentication
	case ErrTypeCommand:
		return ErrCommand
	case ErrTypeInvalidOutlet:
		return ErrInvalidOutlet
	case ErrTypeParse:
		return ErrParse
	default:
		return nil
	}
}

// DeviceError is the single error type returned by this package
type DeviceError struct {
	Type           ErrorType           // Category of error
	Message        string              // Human-readable error message
	Host           string              // Device host (connection and auth errors)
	Command        string              // Command that was sent (command errors)
	Response       string              // Raw device response (command and parse errors)
	Reason         string              // Why a response was rejected (parse errors)
	StatusCode     int                 // HTTP status code (if applicable)
	Outlet         int                 // Offending outlet number (invalid outlet errors)
	MaxOutlets     int                 // Configured outlet count (invalid outlet errors)
	NetworkSubtype NetworkErrorSubtype // More specific connection error type
	Err            error               // Underlying error (if any)
}

// Error implements the error interface
func (e *DeviceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error for error chain inspection
func (e *DeviceError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is match the package sentinels by error type.
func (e *DeviceError) Is(target error) bool {
	return target != nil && target == e.Type.sentinel()
}

// ClassifyNetworkError turns a transport error into a connection DeviceError
// with the most specific subtype it can find.
func ClassifyNetworkError(err error, host string) *DeviceError {
	if err == nil {
		return nil
	}

	devErr := &DeviceError{
		Type:           ErrTypeConnection,
		Message:        fmt.Sprintf("cannot reach device %s", host),
		Host:           host,
		Err:            err,
		NetworkSubtype: NetworkErrorGeneral,
	}

	if errors.Is(err, context.Canceled) {
		devErr.Message = fmt.Sprintf("request to %s canceled", host)
		devErr.NetworkSubtype = NetworkErrorCanceled
		return devErr
	}

	if os.IsTimeout(err) || errors.Is(err, context.DeadlineExceeded) {
		devErr.Message = fmt.Sprintf("request to %s timed out", host)
		devErr.NetworkSubtype = NetworkErrorTimeout
		return devErr
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		devErr.Message = fmt.Sprintf("DNS resolution failed for %s", dnsErr.Name)
		devErr.NetworkSubtype = NetworkErrorDNS
		return devErr
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		switch {
		case errors.Is(opErr.Err, syscall.ECONNREFUSED):
			devErr.Message = fmt.Sprintf("device %s refused connection", host)
			devErr.NetworkSubtype = NetworkErrorConnectionRefused
		case errors.Is(opErr.Err, syscall.EHOSTUNREACH):
			devErr.Message = fmt.Sprintf("host %s unreachable", host)
			devErr.NetworkSubtype = NetworkErrorHostUnreachable
		case errors.Is(opErr.Err, syscall.ENETUNREACH):
			devErr.Message = fmt.Sprintf("network unreachable for %s", host)
			devErr.NetworkSubtype = NetworkErrorNetworkUnreachable
		}
	}

	return devErr
}

// NewConnectionError creates a connection error for a transport failure
func NewConnectionError(host, message string, err error) *DeviceError {
	if err != nil {
		classified := ClassifyNetworkError(err, host)
		classified.Message = message
		return classified
	}
	return &DeviceError{
		Type:    ErrTypeConnection,
		Message: message,
		Host:    host,
	}
}

// NewHTTPStatusError creates a connection error for a non-200, non-401 reply
func NewHTTPStatusError(host string, statusCode int, status string) *DeviceError {
	return &DeviceError{
		Type:           ErrTypeConnection,
		Message:        fmt.Sprintf("HTTP %s from %s", status, host),
		Host:           host,
		StatusCode:     statusCode,
		NetworkSubtype: NetworkErrorHTTPStatus,
	}
}

// NewAuthError creates an authentication error
func NewAuthError(host, username string) *DeviceError {
	return &DeviceError{
		Type:       ErrTypeAuth,
		Message:    fmt.Sprintf("authentication failed for %s@%s", username, host),
		Host:       host,
		StatusCode: 401,
	}
}

// NewCommandError creates an error for a $AF reply
func NewCommandError(command, response string) *DeviceError {
	return &DeviceError{
		Type:     ErrTypeCommand,
		Message:  fmt.Sprintf("command %q failed (response: %s)", command, response),
		Command:  command,
		Response: response,
	}
}

// NewInvalidOutletError creates an error for an out-of-range outlet number
func NewInvalidOutletError(outlet, maxOutlets int) *DeviceError {
	return &DeviceError{
		Type:       ErrTypeInvalidOutlet,
		Message:    fmt.Sprintf("invalid outlet number: %d (must be 1-%d)", outlet, maxOutlets),
		Outlet:     outlet,
		MaxOutlets: maxOutlets,
	}
}

// NewParseError creates a parse error carrying the offending response
func NewParseError(response, reason string) *DeviceError {
	return &DeviceError{
		Type:     ErrTypeParse,
		Message:  fmt.Sprintf("%s: %q", reason, response),
		Response: response,
		Reason:   reason,
	}
}

func isType(err error, t ErrorType) bool {
	var devErr *DeviceError
	if errors.As(err, &devErr) {
		return devErr.Type == t
	}
	return false
}

// IsConnectionError checks if an error is a connection error
func IsConnectionError(err error) bool {
	return isType(err, ErrTypeConnection)
}

// IsAuthError checks if an error is an authentication error
func IsAuthError(err error) bool {
	return isType(err, ErrTypeAuth)
}

// IsCommandError checks if an error is a command error
func IsCommandError(err error) bool {
	return isType(err, ErrTypeCommand)
}

// IsInvalidOutletError checks if an error is an invalid outlet error
func IsInvalidOutletError(err error) bool {
	return isType(err, ErrTypeInvalidOutlet)
}

// IsParseError checks if an error is a parse error
func IsParseError(err error) bool {
	return isType(err, ErrTypeParse)
}

// GetTroubleshootingHint returns user-friendly troubleshooting advice for an error
func GetTroubleshootingHint(err error) string {
	var devErr *DeviceError
	if !errors.As(err, &devErr) {
		return "An unexpected error occurred. Please try again."
	}

	switch devErr.Type {
	case ErrTypeAuth:
		return strings.Join([]string{
			"The device rejected the credentials.",
			"Troubleshooting:",
			"  • The factory credentials are admin:admin",
			"  • Check --username/--password or NETCOMMANDER_USER/NETCOMMANDER_PASSWORD",
			"  • A factory reset restores the default login",
		}, "\n")

	case ErrTypeConnection:
		hint := []string{"Could not talk to the device."}
		switch devErr.NetworkSubtype {
		case NetworkErrorTimeout:
			hint = append(hint, "Troubleshooting:",
				"  • The device did not answer in time, try a larger --timeout",
				"  • Check that the unit is powered and its link LED is lit")
		case NetworkErrorConnectionRefused:
			hint = append(hint, "Troubleshooting:",
				"  • The host answered but nothing listens on that port",
				"  • Verify --port (default 80)")
		case NetworkErrorDNS:
			hint = append(hint, "Troubleshooting:",
				"  • Use the IP address instead of the hostname")
		case NetworkErrorHTTPStatus:
			hint = append(hint, "Troubleshooting:",
				fmt.Sprintf("  • The web server replied HTTP %d", devErr.StatusCode),
				"  • Make sure the host is a netCommander/netBooter unit")
		default:
			hint = append(hint, "Troubleshooting:",
				"  • Verify the device IP address is correct",
				"  • Check that you're on the same network as the device",
				"  • Try pinging the device: ping "+devErr.Host)
		}
		return strings.Join(hint, "\n")

	case ErrTypeCommand:
		return strings.Join([]string{
			"The device refused the command ($AF).",
			"Troubleshooting:",
			"  • The outlet may be locked or scheduled from the web UI",
			"  • Retry with the explicit on/off form instead of toggle",
		}, "\n")

	case ErrTypeInvalidOutlet:
		return fmt.Sprintf("Outlets are numbered 1 to %d.", devErr.MaxOutlets)

	case ErrTypeParse:
		return strings.Join([]string{
			"The device reply did not match the expected format.",
			"Troubleshooting:",
			"  • Check --outlets matches the number of outlets on the unit",
			"  • Run with NETCOMMANDER_LOG_LEVEL=debug to see the raw reply",
		}, "\n")

	default:
		return "An error occurred. Please check the error message for details."
	}
}

// GetShortErrorMessage returns a concise, user-friendly error message
func GetShortErrorMessage(err error) string {
	var devErr *DeviceError
	if !errors.As(err, &devErr) {
		return err.Error()
	}

	switch devErr.Type {
	case ErrTypeAuth:
		return "Authentication failed - check credentials"
	case ErrTypeConnection:
		switch devErr.NetworkSubtype {
		case NetworkErrorTimeout:
			return "Device not responding (timeout)"
		case NetworkErrorConnectionRefused:
			return "Device refused connection"
		case NetworkErrorDNS:
			return "Cannot resolve device hostname"
		case NetworkErrorHTTPStatus:
			return fmt.Sprintf("Unexpected HTTP status %d", devErr.StatusCode)
		case NetworkErrorCanceled:
			return "Request canceled"
		default:
			return "Network error - check connection"
		}
	case ErrTypeCommand:
		return "Device rejected the command"
	case ErrTypeInvalidOutlet:
		return devErr.Message
	case ErrTypeParse:
		return "Failed to parse device response"
	default:
		return devErr.Message
	}
}
