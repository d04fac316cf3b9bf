package netcommander

import (
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"
)

// buildStatus renders a $A5 reply for the outlets in onSet, placing outlet 1
// at the right-hand end of the bitstring the way the firmware does.
func buildStatus(onSet map[int]bool, totalOutlets int) string {
	bits := []byte(strings.Repeat("0", totalOutlets))
	for outlet, on := range onSet {
		if on {
			bits[totalOutlets-outlet] = '1'
		}
	}
	return fmt.Sprintf("%s,%s,0.50,25", ResponseSuccess, bits)
}

// fakeDevice emulates the netCommander CGI endpoint. It records every
// command exactly as decoded from the raw query string.
type fakeDevice struct {
	mu sync.Mutex

	outlets  int
	state    map[int]bool
	commands []string

	username string
	password string

	info       string
	indexPage  string
	failOutlet int // $A3 for this outlet answers $AF
	rejectNext int // answer 401 to this many requests regardless of credentials
	statusCode int // forced HTTP status for /cmd.cgi when non-zero
	delay      time.Duration

	server *httptest.Server
}

func newFakeDevice(t *testing.T, outlets int) *fakeDevice {
	t.Helper()

	d := &fakeDevice{
		outlets:  outlets,
		state:    make(map[int]bool, outlets),
		username: DefaultUsername,
		password: DefaultPassword,
		info:     "$A0,NP-0501DU, HW4.3 BL1.6 -7.72-8.5",
	}
	d.server = httptest.NewServer(http.HandlerFunc(d.handle))
	t.Cleanup(d.server.Close)
	return d
}

func (d *fakeDevice) handle(w http.ResponseWriter, r *http.Request) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.delay > 0 {
		time.Sleep(d.delay)
	}

	user, pass, ok := r.BasicAuth()
	if d.rejectNext > 0 || !ok || user != d.username || pass != d.password {
		if d.rejectNext > 0 {
			d.rejectNext--
		}
		w.Header().Set("WWW-Authenticate", `Basic realm="netCommander"`)
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	switch r.URL.Path {
	case "/":
		if d.indexPage == "" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(d.indexPage))
	case CommandPath:
		command, err := url.QueryUnescape(r.URL.RawQuery)
		if err != nil {
			command = r.URL.RawQuery
		}
		d.commands = append(d.commands, command)

		if d.statusCode != 0 {
			w.WriteHeader(d.statusCode)
			return
		}
		_, _ = w.Write([]byte(d.reply(command) + "\r\n"))
	default:
		http.NotFound(w, r)
	}
}

func (d *fakeDevice) reply(command string) string {
	switch {
	case command == CmdGetStatus:
		return buildStatus(d.state, d.outlets)
	case command == CmdGetInfo:
		return d.info
	case strings.HasPrefix(command, CmdSetOutlet+" "):
		fields := strings.Fields(command)
		if len(fields) != 3 {
			return ResponseFailure
		}
		outlet, err := strconv.Atoi(fields[1])
		if err != nil || outlet < 1 || outlet > d.outlets || outlet == d.failOutlet {
			return ResponseFailure
		}
		d.state[outlet] = fields[2] == "1"
		return ResponseSuccess
	case strings.HasPrefix(command, CmdToggleOutlet+"="):
		index, err := strconv.Atoi(strings.TrimPrefix(command, CmdToggleOutlet+"="))
		if err != nil || index < 0 || index >= d.outlets {
			return ResponseFailure
		}
		d.state[index+1] = !d.state[index+1]
		return ResponseSuccess
	default:
		// The firmware rejects anything else, including "$A3,1,1"
		return ResponseFailure
	}
}

func (d *fakeDevice) Commands() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.commands...)
}

func (d *fakeDevice) setState(outlet int, on bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.state[outlet] = on
}

func (d *fakeDevice) State(outlet int) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state[outlet]
}

// Config returns a client configuration pointing at the fake device.
func (d *fakeDevice) Config(t *testing.T) Config {
	t.Helper()

	host, port := serverHostPort(t, d.server)
	cfg := DefaultConfig(host)
	cfg.Port = port
	cfg.Outlets = d.outlets
	cfg.Timeout = 2 * time.Second
	return cfg
}

func serverHostPort(t *testing.T, server *httptest.Server) (string, int) {
	t.Helper()

	u, err := url.Parse(server.URL)
	if err != nil {
		t.Fatalf("parse server URL: %v", err)
	}
	host, portStr, err := net.SplitHostPort(u.Host)
	if err != nil {
		t.Fatalf("split host/port: %v", err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		t.Fatalf("parse port: %v", err)
	}
	return host, port
}

func (d *fakeDevice) Client(t *testing.T) *Client {
	t.Helper()

	client, err := NewClient(d.Config(t))
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return client
}
