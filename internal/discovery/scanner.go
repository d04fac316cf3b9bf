package discovery

import (
	"context"
	"fmt"
	"net"
	"net/netip"
	"sort"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/muurk/netcommander/internal/logging"
	"github.com/muurk/netcommander/internal/netcommander"
)

const (
	// DefaultScanTimeout bounds a whole scan
	DefaultScanTimeout = 10 * time.Second

	// DefaultBrowseTimeout is how long mDNS answers are collected
	DefaultBrowseTimeout = 3 * time.Second

	// DefaultProbeTimeout bounds a single $A8 probe
	DefaultProbeTimeout = 2 * time.Second

	// DefaultConcurrency is the number of probes in flight
	DefaultConcurrency = 32

	// DefaultPort is the HTTP port probed for sweep candidates
	DefaultPort = netcommander.DefaultPort
)

// Scanner finds netCommander units by browsing mDNS and sweeping a subnet,
// then confirming every candidate with an identity probe.
type Scanner struct {
	// Timeout is the maximum time for the whole scan
	Timeout time.Duration

	// BrowseTimeout is how long mDNS answers are collected
	BrowseTimeout time.Duration

	// ProbeTimeout bounds each probe request
	ProbeTimeout time.Duration

	// MDNS enables the mDNS browse
	MDNS bool

	// Subnet is an optional IPv4 CIDR to sweep, at most /22
	Subnet string

	// Port is probed on sweep candidates
	Port int

	// Credentials used by the probe
	Username string
	Password string

	// Concurrency limits probes in flight
	Concurrency int

	browse func(ctx context.Context, defaultPort int) ([]candidate, error)
}

// NewScanner creates a scanner with mDNS enabled and factory credentials
func NewScanner() *Scanner {
	return &Scanner{
		Timeout:       DefaultScanTimeout,
		BrowseTimeout: DefaultBrowseTimeout,
		ProbeTimeout:  DefaultProbeTimeout,
		MDNS:          true,
		Port:          DefaultPort,
		Username:      netcommander.DefaultUsername,
		Password:      netcommander.DefaultPassword,
		Concurrency:   DefaultConcurrency,
		browse:        browseMDNS,
	}
}

// Scan returns the confirmed devices sorted by IP address. Unreachable or
// foreign hosts are skipped silently; only setup problems (bad subnet, no
// mDNS with nothing else to scan) are returned as errors.
func (s *Scanner) Scan(ctx context.Context) ([]*Device, error) {
	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}

	candidates, err := s.candidates(ctx)
	if err != nil {
		return nil, err
	}

	logging.Debug("Probing discovery candidates", zap.Int("count", len(candidates)))

	var (
		mu      sync.Mutex
		devices []*Device
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency())
	for _, c := range candidates {
		c := c
		g.Go(func() error {
			device := s.probe(gctx, c)
			if device != nil {
				mu.Lock()
				devices = append(devices, device)
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	sortDevices(devices)
	return devices, nil
}

// candidates merges mDNS and sweep candidates, one per address. mDNS
// entries win because they carry a hostname.
func (s *Scanner) candidates(ctx context.Context) ([]candidate, error) {
	if !s.MDNS && s.Subnet == "" {
		return nil, fmt.Errorf("nothing to scan: enable mDNS or give a subnet")
	}

	var sweep []string
	if s.Subnet != "" {
		hosts, err := HostsInSubnet(s.Subnet)
		if err != nil {
			return nil, err
		}
		sweep = hosts
	}

	var found []candidate
	if s.MDNS {
		browse := s.browse
		if browse == nil {
			browse = browseMDNS
		}
		browseCtx, cancel := context.WithTimeout(ctx, s.browseTimeout())
		entries, err := browse(browseCtx, s.port())
		cancel()
		if err != nil {
			if sweep == nil {
				return nil, err
			}
			logging.Warn("mDNS browse failed, continuing with subnet sweep", zap.Error(err))
		}
		found = append(found, entries...)
	}

	seen := make(map[string]bool, len(found)+len(sweep))
	merged := make([]candidate, 0, len(found)+len(sweep))
	add := func(c candidate) {
		key := net.JoinHostPort(c.host, strconv.Itoa(c.port))
		if !seen[key] {
			seen[key] = true
			merged = append(merged, c)
		}
	}
	for _, c := range found {
		add(c)
	}
	for _, host := range sweep {
		add(candidate{host: host, port: s.port(), source: SourceSweep})
	}
	return merged, nil
}

// probe sends $A8 to a candidate. A parsed identity or a 401 confirms a
// netCommander; anything else rules the candidate out.
func (s *Scanner) probe(ctx context.Context, c candidate) *Device {
	cfg := netcommander.DefaultConfig(c.host)
	cfg.Port = c.port
	cfg.Username = s.Username
	cfg.Password = s.Password
	cfg.Timeout = s.probeTimeout()

	client, err := netcommander.NewClient(cfg)
	if err != nil {
		logging.Debug("Skipping candidate", zap.String("host", c.host), zap.Error(err))
		return nil
	}
	defer func() { _ = client.Close() }()

	device := &Device{
		Host:         c.host,
		Hostname:     c.hostname,
		Port:         c.port,
		Source:       c.source,
		Metadata:     c.metadata,
		DiscoveredAt: time.Now(),
	}

	info, err := client.GetDeviceInfo(ctx)
	switch {
	case err == nil:
		device.Model = info.Model
		device.Firmware = netcommander.StringValue(info.FirmwareVersion)
		device.MAC = netcommander.StringValue(info.MACAddress)
	case netcommander.IsAuthError(err):
		device.AuthRequired = true
	default:
		logging.Debug("Candidate is not a netCommander", zap.String("host", c.host), zap.Error(err))
		return nil
	}

	logging.Info("Found device", zap.String("host", c.host), zap.String("model", device.Model))
	return device
}

func (s *Scanner) concurrency() int {
	if s.Concurrency > 0 {
		return s.Concurrency
	}
	return DefaultConcurrency
}

func (s *Scanner) port() int {
	if s.Port > 0 {
		return s.Port
	}
	return DefaultPort
}

func (s *Scanner) browseTimeout() time.Duration {
	if s.BrowseTimeout > 0 {
		return s.BrowseTimeout
	}
	return DefaultBrowseTimeout
}

func (s *Scanner) probeTimeout() time.Duration {
	if s.ProbeTimeout > 0 {
		return s.ProbeTimeout
	}
	return DefaultProbeTimeout
}

// sortDevices orders devices by IP address, then port
func sortDevices(devices []*Device) {
	sort.Slice(devices, func(i, j int) bool {
		a, errA := netip.ParseAddr(devices[i].Host)
		b, errB := netip.ParseAddr(devices[j].Host)
		if errA == nil && errB == nil && a != b {
			return a.Less(b)
		}
		if devices[i].Host != devices[j].Host {
			return devices[i].Host < devices[j].Host
		}
		return devices[i].Port < devices[j].Port
	})
}

// Scan is a convenience function to run an mDNS scan with a custom timeout
func Scan(ctx context.Context, timeout time.Duration) ([]*Device, error) {
	scanner := NewScanner()
	scanner.Timeout = timeout
	return scanner.Scan(ctx)
}
