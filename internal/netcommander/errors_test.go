package netcommander

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"strings"
	"syscall"
	"testing"
)

func TestDeviceError_Error(t *testing.T) {
	err := &DeviceError{
		Type:    ErrTypeConnection,
		Message: "cannot reach device",
	}
	if got := err.Error(); got != "Connection Error: cannot reach device" {
		t.Errorf("Error() = %q", got)
	}

	err.Err = errors.New("underlying")
	if got := err.Error(); !strings.Contains(got, "caused by: underlying") {
		t.Errorf("Error() = %q, want cause included", got)
	}
}

func TestDeviceError_Unwrap(t *testing.T) {
	cause := errors.New("underlying")
	err := &DeviceError{Type: ErrTypeConnection, Err: cause}

	if !errors.Is(err, cause) {
		t.Error("errors.Is should find the underlying error")
	}
}

func TestDeviceError_IsSentinel(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
	}{
		{"connection", NewConnectionError("h", "down", nil), ErrConnection},
		{"auth", NewAuthError("h", "admin"), ErrAuthentication},
		{"command", NewCommandError("$A5", "$AF"), ErrCommand},
		{"outlet", NewInvalidOutletError(9, 5), ErrInvalidOutlet},
		{"parse", NewParseError("x", "bad"), ErrParse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !errors.Is(tt.err, tt.sentinel) {
				t.Errorf("errors.Is(%v, %v) = false", tt.err, tt.sentinel)
			}
			wrapped := fmt.Errorf("outer: %w", tt.err)
			if !errors.Is(wrapped, tt.sentinel) {
				t.Error("sentinel should match through wrapping")
			}
			for _, other := range []error{ErrConnection, ErrAuthentication, ErrCommand, ErrInvalidOutlet, ErrParse} {
				if other != tt.sentinel && errors.Is(tt.err, other) {
					t.Errorf("error unexpectedly matches %v", other)
				}
			}
		})
	}
}

func TestErrorPredicates(t *testing.T) {
	authErr := fmt.Errorf("wrapped: %w", NewAuthError("192.168.1.100", "admin"))

	if !IsAuthError(authErr) {
		t.Error("IsAuthError should match a wrapped auth error")
	}
	if IsConnectionError(authErr) || IsCommandError(authErr) || IsParseError(authErr) || IsInvalidOutletError(authErr) {
		t.Error("auth error should not match other predicates")
	}
	if IsAuthError(errors.New("plain")) {
		t.Error("plain errors are not device errors")
	}
	if IsAuthError(nil) {
		t.Error("nil is not an auth error")
	}
}

func TestNewParseError(t *testing.T) {
	err := NewParseError("$A0,1", "expected at least 3 fields, got 2")

	if err.Response != "$A0,1" {
		t.Errorf("Response = %q", err.Response)
	}
	if err.Reason != "expected at least 3 fields, got 2" {
		t.Errorf("Reason = %q", err.Reason)
	}
	if !strings.Contains(err.Error(), `"$A0,1"`) {
		t.Errorf("Error() = %q, want quoted response", err.Error())
	}
}

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func TestClassifyNetworkError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want NetworkErrorSubtype
	}{
		{"canceled", fmt.Errorf("get: %w", context.Canceled), NetworkErrorCanceled},
		{"deadline", fmt.Errorf("get: %w", context.DeadlineExceeded), NetworkErrorTimeout},
		{"timeout", timeoutErr{}, NetworkErrorTimeout},
		{"dns", &net.DNSError{Name: "pdu.local", Err: "no such host"}, NetworkErrorDNS},
		{"refused", &net.OpError{Op: "dial", Err: os.NewSyscallError("connect", syscall.ECONNREFUSED)}, NetworkErrorConnectionRefused},
		{"host unreachable", &net.OpError{Op: "dial", Err: os.NewSyscallError("connect", syscall.EHOSTUNREACH)}, NetworkErrorHostUnreachable},
		{"network unreachable", &net.OpError{Op: "dial", Err: os.NewSyscallError("connect", syscall.ENETUNREACH)}, NetworkErrorNetworkUnreachable},
		{"other", errors.New("boom"), NetworkErrorGeneral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			devErr := ClassifyNetworkError(tt.err, "192.168.1.100")
			if devErr.Type != ErrTypeConnection {
				t.Errorf("Type = %v, want connection", devErr.Type)
			}
			if devErr.NetworkSubtype != tt.want {
				t.Errorf("NetworkSubtype = %v, want %v", devErr.NetworkSubtype, tt.want)
			}
			if !errors.Is(devErr, tt.err) {
				t.Error("classified error should wrap the cause")
			}
		})
	}

	if ClassifyNetworkError(nil, "h") != nil {
		t.Error("ClassifyNetworkError(nil) should be nil")
	}
}

func TestGetShortErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"auth", NewAuthError("h", "admin"), "Authentication failed - check credentials"},
		{"timeout", ClassifyNetworkError(context.DeadlineExceeded, "h"), "Device not responding (timeout)"},
		{"http status", NewHTTPStatusError("h", 500, "500 Internal Server Error"), "Unexpected HTTP status 500"},
		{"command", NewCommandError("$A5", "$AF"), "Device rejected the command"},
		{"outlet", NewInvalidOutletError(7, 5), "invalid outlet number: 7 (must be 1-5)"},
		{"parse", NewParseError("x", "bad"), "Failed to parse device response"},
		{"plain", errors.New("plain"), "plain"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetShortErrorMessage(tt.err); got != tt.want {
				t.Errorf("GetShortErrorMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGetTroubleshootingHint(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"auth", NewAuthError("h", "admin"), "admin:admin"},
		{"refused", ClassifyNetworkError(&net.OpError{Err: os.NewSyscallError("connect", syscall.ECONNREFUSED)}, "h"), "--port"},
		{"general", NewConnectionError("10.0.0.9", "down", nil), "ping 10.0.0.9"},
		{"command", NewCommandError("rly=0", "$AF"), "explicit on/off"},
		{"outlet", NewInvalidOutletError(7, 8), "1 to 8"},
		{"parse", NewParseError("x", "bad"), "--outlets"},
		{"plain", errors.New("plain"), "unexpected error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetTroubleshootingHint(tt.err); !strings.Contains(got, tt.want) {
				t.Errorf("GetTroubleshootingHint() = %q, want it to contain %q", got, tt.want)
			}
		})
	}
}

func TestErrorTypeString(t *testing.T) {
	if ErrTypeParse.String() != "Parse Error" {
		t.Errorf("ErrTypeParse.String() = %q", ErrTypeParse.String())
	}
	if ErrorType(42).String() != "ErrorType(42)" {
		t.Errorf("unknown type String() = %q", ErrorType(42).String())
	}
}
