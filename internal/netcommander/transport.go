package netcommander

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/muurk/netcommander/internal/logging"
	"github.com/muurk/netcommander/internal/version"
)

// maxBodySize caps how much of a reply is read. Command replies are a few
// dozen bytes, the web UI index page a few kilobytes.
const maxBodySize = 64 * 1024

// Transport owns the keep-alive HTTP connection to one device. Every request
// carries HTTP Basic Auth; there is no login step.
//
// A Transport is not safe for concurrent use.
type Transport struct {
	host     string
	port     int
	username string
	password string
	timeout  time.Duration

	// external is a caller-supplied client; it is used as-is and never closed
	external   *http.Client
	httpClient *http.Client
}

// NewTransport creates a closed transport. No connection is made until Open
// or the first request.
func NewTransport(host string, port int, username, password string, timeout time.Duration, external *http.Client) *Transport {
	return &Transport{
		host:     host,
		port:     port,
		username: username,
		password: password,
		timeout:  timeout,
		external: external,
	}
}

// Open prepares the HTTP connection. Calling Open on an open transport is a no-op.
func (t *Transport) Open() {
	if t.httpClient != nil {
		return
	}

	if t.external != nil {
		t.httpClient = t.external
		return
	}

	t.httpClient = &http.Client{
		Timeout: t.timeout,
		Transport: &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout:   t.timeout,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			MaxIdleConns:          1,
			MaxIdleConnsPerHost:   1,
			IdleConnTimeout:       90 * time.Second,
			ResponseHeaderTimeout: t.timeout,
		},
	}
	logging.Debug("Opened device connection", zap.String("host", t.host), zap.Int("port", t.port))
}

// Close releases the connection. It is safe to call repeatedly and on a
// transport that was never opened.
func (t *Transport) Close() {
	if t.httpClient == nil {
		return
	}
	if t.httpClient != t.external {
		t.httpClient.CloseIdleConnections()
	}
	t.httpClient = nil
	logging.Debug("Closed device connection", zap.String("host", t.host))
}

// IsOpen reports whether the transport currently holds a connection.
func (t *Transport) IsOpen() bool {
	return t.httpClient != nil
}

// BaseURL returns the device root URL, e.g. "http://192.168.1.100:80".
func (t *Transport) BaseURL() string {
	return "http://" + t.hostPort()
}

// CommandURL returns the URL a command is sent to. The command text becomes
// the raw query string; it is not form-encoded. Spaces are the only
// characters escaped, because they cannot appear in an HTTP request line.
func (t *Transport) CommandURL(command string) *url.URL {
	return &url.URL{
		Scheme:   "http",
		Host:     t.hostPort(),
		Path:     CommandPath,
		RawQuery: strings.ReplaceAll(command, " ", "%20"),
	}
}

// SendRaw issues one GET for the command and returns the trimmed reply body.
// Replies starting with $AF are returned as a command error. Nothing is retried.
func (t *Transport) SendRaw(ctx context.Context, command string) (string, error) {
	logging.LogCommand(t.host, command)

	status, body, err := t.get(ctx, t.CommandURL(command))
	if err != nil {
		return "", err
	}

	response := strings.TrimSpace(body)
	logging.LogResponse(t.host, command, status, response)

	if strings.HasPrefix(response, ResponseFailure) {
		return "", NewCommandError(command, response)
	}
	return response, nil
}

// FetchPage fetches a page of the device web UI with the same credentials.
func (t *Transport) FetchPage(ctx context.Context, path string) (string, error) {
	u := &url.URL{Scheme: "http", Host: t.hostPort(), Path: path}
	_, body, err := t.get(ctx, u)
	return body, err
}

func (t *Transport) get(ctx context.Context, u *url.URL) (int, string, error) {
	t.Open()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return 0, "", NewConnectionError(t.host, "failed to create request", err)
	}
	req.SetBasicAuth(t.username, t.password)
	req.Header.Set("User-Agent", version.UserAgent())

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return 0, "", NewConnectionError(t.host, fmt.Sprintf("request to %s failed", t.host), err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusUnauthorized {
		return resp.StatusCode, "", NewAuthError(t.host, t.username)
	}

	if resp.StatusCode != http.StatusOK {
		return resp.StatusCode, "", NewHTTPStatusError(t.host, resp.StatusCode, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return resp.StatusCode, "", NewConnectionError(t.host, "failed to read response body", err)
	}

	return resp.StatusCode, string(body), nil
}

func (t *Transport) hostPort() string {
	return net.JoinHostPort(t.host, strconv.Itoa(t.port))
}
