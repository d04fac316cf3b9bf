package netcommander

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/muurk/netcommander/internal/logging"
)

// Config holds the connection settings for one device
type Config struct {
	// Host is the device IP address or hostname
	Host string

	// Port is the device HTTP port (default: 80)
	Port int

	// Username for HTTP Basic Auth (default: "admin")
	Username string

	// Password for HTTP Basic Auth (default: "admin")
	Password string

	// Timeout is the per-request timeout (default: 10s)
	Timeout time.Duration

	// Outlets is the number of outlets on the unit (default: 5)
	Outlets int

	// HTTPClient optionally replaces the client-owned HTTP client. It is
	// never closed by the Client.
	HTTPClient *http.Client
}

// DefaultConfig returns a Config for host with factory defaults
func DefaultConfig(host string) Config {
	return Config{
		Host:     host,
		Port:     DefaultPort,
		Username: DefaultUsername,
		Password: DefaultPassword,
		Timeout:  DefaultTimeout,
		Outlets:  DefaultOutlets,
	}
}

// Validate checks the configuration for values the client cannot work with
func (c Config) Validate() error {
	if strings.TrimSpace(c.Host) == "" {
		return fmt.Errorf("host is required")
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", c.Port)
	}
	if c.Outlets < 1 {
		return fmt.Errorf("outlet count must be at least 1, got %d", c.Outlets)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %v", c.Timeout)
	}
	return nil
}

// Client controls a Synaccess netCommander/netBooter PDU.
//
// The client starts closed and opens its connection lazily on the first
// request. Methods are not safe for concurrent use; callers that share a
// Client between goroutines must serialize calls themselves. Nothing is
// retried: every method makes at most one round trip per outlet and returns
// the first failure.
type Client struct {
	config    Config
	transport *Transport
}

// NewClient creates a client for the given configuration
func NewClient(config Config) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid client config: %w", err)
	}

	logging.Debug("Initialized netCommander client",
		zap.String("host", config.Host),
		zap.Int("port", config.Port),
		zap.Int("outlets", config.Outlets),
	)

	return &Client{
		config:    config,
		transport: NewTransport(config.Host, config.Port, config.Username, config.Password, config.Timeout, config.HTTPClient),
	}, nil
}

// Host returns the device host
func (c *Client) Host() string {
	return c.config.Host
}

// Outlets returns the configured outlet count
func (c *Client) Outlets() int {
	return c.config.Outlets
}

// BaseURL returns the device web UI URL
func (c *Client) BaseURL() string {
	return c.transport.BaseURL()
}

// Open opens the connection ahead of the first request
func (c *Client) Open() {
	c.transport.Open()
}

// Close releases the connection. Safe to call more than once.
func (c *Client) Close() error {
	c.transport.Close()
	return nil
}

// IsOpen reports whether the client currently holds a connection
func (c *Client) IsOpen() bool {
	return c.transport.IsOpen()
}

func (c *Client) checkOutlet(outletNumber int) error {
	if !ValidOutlet(outletNumber, c.config.Outlets) {
		return NewInvalidOutletError(outletNumber, c.config.Outlets)
	}
	return nil
}

// GetStatus reads the state of every outlet plus current and temperature
func (c *Client) GetStatus(ctx context.Context) (*DeviceStatus, error) {
	response, err := c.transport.SendRaw(ctx, CmdGetStatus)
	if err != nil {
		return nil, err
	}
	return ParseStatus(response, c.config.Outlets)
}

// GetDeviceInfo reads model and version information. The MAC address is
// scraped from the web UI on a best-effort basis; if that fails the info is
// still returned with MACAddress left nil.
func (c *Client) GetDeviceInfo(ctx context.Context) (*DeviceInfo, error) {
	response, err := c.transport.SendRaw(ctx, CmdGetInfo)
	if err != nil {
		return nil, err
	}

	info, err := ParseDeviceInfo(response)
	if err != nil {
		return nil, err
	}

	page, err := c.transport.FetchPage(ctx, "/")
	if err != nil {
		logging.Debug("Could not fetch web UI for MAC address", zap.String("host", c.config.Host), zap.Error(err))
		return info, nil
	}
	if mac, ok := ExtractMACAddress(page); ok {
		info = info.withMAC(mac)
	}

	return info, nil
}

// GetOutletState returns true when the outlet is on
func (c *Client) GetOutletState(ctx context.Context, outletNumber int) (bool, error) {
	if err := c.checkOutlet(outletNumber); err != nil {
		return false, err
	}

	status, err := c.GetStatus(ctx)
	if err != nil {
		return false, err
	}
	return status.State(outletNumber)
}

// SetOutlet explicitly switches an outlet on or off with the $A3 command.
// It returns true when the device acknowledged with $A0.
func (c *Client) SetOutlet(ctx context.Context, outletNumber int, on bool) (bool, error) {
	if err := c.checkOutlet(outletNumber); err != nil {
		return false, err
	}

	logging.Info("Setting outlet",
		zap.String("host", c.config.Host),
		zap.Int("outlet", outletNumber),
		zap.String("state", onOff(on)),
	)

	response, err := c.transport.SendRaw(ctx, SetOutletCommand(outletNumber, on))
	if err != nil {
		return false, err
	}
	return strings.HasPrefix(response, ResponseSuccess), nil
}

// TurnOn switches an outlet on
func (c *Client) TurnOn(ctx context.Context, outletNumber int) (bool, error) {
	return c.SetOutlet(ctx, outletNumber, true)
}

// TurnOff switches an outlet off
func (c *Client) TurnOff(ctx context.Context, outletNumber int) (bool, error) {
	return c.SetOutlet(ctx, outletNumber, false)
}

// ToggleOutlet flips an outlet with the rly command.
//
// Toggle cannot express the intended end state, so two toggles issued close
// together may act on a stale device-side state. Prefer SetOutlet.
func (c *Client) ToggleOutlet(ctx context.Context, outletNumber int) (bool, error) {
	if err := c.checkOutlet(outletNumber); err != nil {
		return false, err
	}

	logging.Info("Toggling outlet",
		zap.String("host", c.config.Host),
		zap.Int("outlet", outletNumber),
		zap.Int("relay_index", ToggleIndex(outletNumber)),
	)

	response, err := c.transport.SendRaw(ctx, ToggleOutletCommand(outletNumber))
	if err != nil {
		return false, err
	}
	return strings.HasPrefix(response, ResponseSuccess), nil
}

// TurnOnAll switches every outlet on, one at a time. See setAll.
func (c *Client) TurnOnAll(ctx context.Context) map[int]bool {
	return c.setAll(ctx, true)
}

// TurnOffAll switches every outlet off, one at a time. See setAll.
func (c *Client) TurnOffAll(ctx context.Context) map[int]bool {
	return c.setAll(ctx, false)
}

// setAll sends one explicit set command per outlet in order 1..N. A failing
// outlet is recorded as false and the batch carries on with the next one.
func (c *Client) setAll(ctx context.Context, on bool) map[int]bool {
	logging.Info("Switching all outlets", zap.String("host", c.config.Host), zap.String("state", onOff(on)))

	results := make(map[int]bool, c.config.Outlets)
	for outlet := 1; outlet <= c.config.Outlets; outlet++ {
		ok, err := c.SetOutlet(ctx, outlet, on)
		if err != nil {
			logging.Error("Failed to switch outlet",
				zap.String("host", c.config.Host),
				zap.Int("outlet", outlet),
				zap.String("state", onOff(on)),
				zap.Error(err),
			)
			ok = false
		}
		results[outlet] = ok
	}
	return results
}

func onOff(on bool) string {
	if on {
		return "ON"
	}
	return "OFF"
}
