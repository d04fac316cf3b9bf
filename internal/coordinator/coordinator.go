// Package coordinator keeps a netCommander client polled and serializes the
// commands issued against it.
//
// A Coordinator owns one client. It caches the device identity after the
// first successful refresh, refreshes status after every write, paces bursts
// of outlet commands and implements the power-cycle (reboot) sequence.
package coordinator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/muurk/netcommander/internal/logging"
	"github.com/muurk/netcommander/internal/netcommander"
)

const (
	// DefaultRebootDelay is how long an outlet stays off during a reboot
	DefaultRebootDelay = 5 * time.Second

	// DefaultPollInterval is the status polling interval used by Run callers
	DefaultPollInterval = 30 * time.Second

	infoKey = "device-info"
)

// DeviceClient is the subset of *netcommander.Client the coordinator drives.
type DeviceClient interface {
	Host() string
	Outlets() int
	GetStatus(ctx context.Context) (*netcommander.DeviceStatus, error)
	GetDeviceInfo(ctx context.Context) (*netcommander.DeviceInfo, error)
	SetOutlet(ctx context.Context, outletNumber int, on bool) (bool, error)
	TurnOnAll(ctx context.Context) map[int]bool
	TurnOffAll(ctx context.Context) map[int]bool
	Close() error
}

// Options tunes a Coordinator. The zero value is usable.
type Options struct {
	// RebootDelay is the off time during RebootOutlet (default: 5s)
	RebootDelay time.Duration

	// CommandInterval is the minimum spacing between outlet writes.
	// Zero sends writes back to back.
	CommandInterval time.Duration

	// InfoTTL expires the cached device identity. Zero caches it until Close.
	InfoTTL time.Duration

	// OnRebootStep is called as each stage of RebootOutlet begins
	OnRebootStep func(outletNumber int, step RebootStep)
}

// RebootStep is a stage of the power-cycle sequence
type RebootStep int

const (
	RebootStepOff RebootStep = iota + 1
	RebootStepWait
	RebootStepOn
)

func (s RebootStep) String() string {
	switch s {
	case RebootStepOff:
		return "off"
	case RebootStepWait:
		return "wait"
	case RebootStepOn:
		return "on"
	default:
		return "unknown"
	}
}

// Update is one polling result delivered by Run
type Update struct {
	Status *netcommander.DeviceStatus
	Err    error
	At     time.Time
}

// Coordinator serializes access to a single device client. All methods are
// safe for concurrent use.
type Coordinator struct {
	mu sync.Mutex

	client      DeviceClient
	info        *cache.Cache
	limiter     *rate.Limiter
	paced       bool
	rebootDelay time.Duration
	onStep      func(outletNumber int, step RebootStep)

	last *netcommander.DeviceStatus

	// sleep waits for d or until ctx is done. Replaced in tests.
	sleep func(ctx context.Context, d time.Duration) error
}

// New creates a coordinator around client
func New(client DeviceClient, opts Options) *Coordinator {
	if opts.RebootDelay <= 0 {
		opts.RebootDelay = DefaultRebootDelay
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if opts.CommandInterval > 0 {
		limiter = rate.NewLimiter(rate.Every(opts.CommandInterval), 1)
	}

	ttl := opts.InfoTTL
	if ttl <= 0 {
		ttl = cache.NoExpiration
	}

	return &Coordinator{
		client:      client,
		info:        cache.New(ttl, 0),
		limiter:     limiter,
		paced:       opts.CommandInterval > 0,
		rebootDelay: opts.RebootDelay,
		onStep:      opts.OnRebootStep,
		sleep:       sleepContext,
	}
}

// Host returns the device host
func (c *Coordinator) Host() string {
	return c.client.Host()
}

// Outlets returns the outlet count of the device
func (c *Coordinator) Outlets() int {
	return c.client.Outlets()
}

// Refresh fetches a fresh status. The device identity is fetched on the first
// refresh and cached afterwards.
func (c *Coordinator) Refresh(ctx context.Context) (*netcommander.DeviceStatus, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.refresh(ctx)
}

func (c *Coordinator) refresh(ctx context.Context) (*netcommander.DeviceStatus, error) {
	if _, found := c.info.Get(infoKey); !found {
		info, err := c.client.GetDeviceInfo(ctx)
		if err != nil {
			return nil, fmt.Errorf("error communicating with device: %w", err)
		}
		c.info.Set(infoKey, info, cache.DefaultExpiration)
		logging.Debug("Device info retrieved",
			zap.String("host", c.client.Host()),
			zap.String("model", info.Model),
			zap.String("firmware", netcommander.StringValue(info.FirmwareVersion)),
		)
	}

	status, err := c.client.GetStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("error communicating with device: %w", err)
	}
	c.last = status

	logging.Debug("Status updated",
		zap.String("host", c.client.Host()),
		zap.Int("outlets_on", len(status.OutletsOn())),
		zap.Float64("current_amps", status.TotalCurrentAmps),
	)
	return status, nil
}

// DeviceInfo returns the cached device identity, or nil before the first
// successful refresh.
func (c *Coordinator) DeviceInfo() *netcommander.DeviceInfo {
	if v, found := c.info.Get(infoKey); found {
		return v.(*netcommander.DeviceInfo)
	}
	return nil
}

// Status returns the status from the last successful refresh, or nil.
func (c *Coordinator) Status() *netcommander.DeviceStatus {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.last
}

// TurnOn switches an outlet on and refreshes status
func (c *Coordinator) TurnOn(ctx context.Context, outletNumber int) (bool, error) {
	return c.SetOutlet(ctx, outletNumber, true)
}

// TurnOff switches an outlet off and refreshes status
func (c *Coordinator) TurnOff(ctx context.Context, outletNumber int) (bool, error) {
	return c.SetOutlet(ctx, outletNumber, false)
}

// SetOutlet switches an outlet and refreshes status. A failed refresh is
// logged; the result reflects the write only.
func (c *Coordinator) SetOutlet(ctx context.Context, outletNumber int, on bool) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ok, err := c.set(ctx, outletNumber, on)
	if err != nil {
		return false, err
	}
	c.refreshAfterWrite(ctx)
	return ok, nil
}

// ToggleOutlet reads the outlet and sets it to the opposite state. The read
// happens immediately before the write, so the intended end state is explicit.
func (c *Coordinator) ToggleOutlet(ctx context.Context, outletNumber int) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	status, err := c.client.GetStatus(ctx)
	if err != nil {
		return false, err
	}
	on, err := status.State(outletNumber)
	if err != nil {
		return false, err
	}

	ok, err := c.set(ctx, outletNumber, !on)
	if err != nil {
		return false, err
	}
	c.refreshAfterWrite(ctx)
	return ok, nil
}

// RebootOutlet power-cycles an outlet: off, wait RebootDelay, on. The wait
// aborts when ctx is done, leaving the outlet off.
func (c *Coordinator) RebootOutlet(ctx context.Context, outletNumber int) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	logging.Info("Rebooting outlet",
		zap.String("host", c.client.Host()),
		zap.Int("outlet", outletNumber),
		zap.Duration("delay", c.rebootDelay),
	)

	c.step(outletNumber, RebootStepOff)
	if _, err := c.set(ctx, outletNumber, false); err != nil {
		return false, fmt.Errorf("reboot outlet %d: turn off: %w", outletNumber, err)
	}

	c.step(outletNumber, RebootStepWait)
	if err := c.sleep(ctx, c.rebootDelay); err != nil {
		return false, fmt.Errorf("reboot outlet %d: outlet left off: %w", outletNumber, err)
	}

	c.step(outletNumber, RebootStepOn)
	ok, err := c.set(ctx, outletNumber, true)
	if err != nil {
		return false, fmt.Errorf("reboot outlet %d: turn on: %w", outletNumber, err)
	}
	c.refreshAfterWrite(ctx)
	return ok, nil
}

func (c *Coordinator) step(outletNumber int, step RebootStep) {
	if c.onStep != nil {
		c.onStep(outletNumber, step)
	}
}

// RebootDelay returns the off time used by RebootOutlet
func (c *Coordinator) RebootDelay() time.Duration {
	return c.rebootDelay
}

// TurnOnAll switches every outlet on and refreshes status
func (c *Coordinator) TurnOnAll(ctx context.Context) map[int]bool {
	return c.setAll(ctx, true)
}

// TurnOffAll switches every outlet off and refreshes status
func (c *Coordinator) TurnOffAll(ctx context.Context) map[int]bool {
	return c.setAll(ctx, false)
}

func (c *Coordinator) setAll(ctx context.Context, on bool) map[int]bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	var results map[int]bool
	switch {
	case !c.paced && on:
		results = c.client.TurnOnAll(ctx)
	case !c.paced:
		results = c.client.TurnOffAll(ctx)
	default:
		results = make(map[int]bool, c.client.Outlets())
		for outlet := 1; outlet <= c.client.Outlets(); outlet++ {
			ok, err := c.set(ctx, outlet, on)
			if err != nil {
				logging.Error("Failed to switch outlet",
					zap.String("host", c.client.Host()),
					zap.Int("outlet", outlet),
					zap.Error(err),
				)
			}
			results[outlet] = ok && err == nil
		}
	}

	c.refreshAfterWrite(ctx)
	return results
}

// set waits for the command pacer and sends one explicit outlet write
func (c *Coordinator) set(ctx context.Context, outletNumber int, on bool) (bool, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return false, netcommander.NewConnectionError(c.client.Host(), "command canceled while waiting to send", err)
	}
	return c.client.SetOutlet(ctx, outletNumber, on)
}

func (c *Coordinator) refreshAfterWrite(ctx context.Context) {
	if _, err := c.refresh(ctx); err != nil {
		logging.Warn("Refresh after write failed", zap.String("host", c.client.Host()), zap.Error(err))
	}
}

// Run polls the device every interval until ctx is done, calling fn with
// each result. The first poll happens immediately. Run returns ctx.Err().
func (c *Coordinator) Run(ctx context.Context, interval time.Duration, fn func(Update)) error {
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		status, err := c.Refresh(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		fn(Update{Status: status, Err: err, At: time.Now()})

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// Close drops the cached identity and closes the client
func (c *Coordinator) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.info.Flush()
	c.last = nil
	return c.client.Close()
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
