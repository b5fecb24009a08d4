package daemonctl

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"vidcat/internal/config"
	"vidcat/internal/daemonrun"
	"vidcat/internal/portal"
)

const requestTimeout = 60 * time.Second

// ErrUnreachable reports that no portal answered at the configured address.
var ErrUnreachable = errors.New("portal unreachable")

// Client talks to a running portal over its HTTP API.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// NewClient builds a client for the portal bound at paths.api_bind.
func NewClient(cfg *config.Config) *Client {
	bind := strings.TrimSpace(cfg.Paths.APIBind)
	host, port, err := net.SplitHostPort(bind)
	if err == nil && (host == "" || host == "0.0.0.0" || host == "::") {
		bind = net.JoinHostPort("127.0.0.1", port)
	}
	return NewClientForURL("http://"+bind, cfg.Paths.APIToken)
}

// NewClientForURL builds a client for an explicit base URL.
func NewClientForURL(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: requestTimeout},
	}
}

// Status fetches portal runtime information.
func (c *Client) Status(ctx context.Context) (portal.Status, error) {
	var status portal.Status
	err := c.do(ctx, http.MethodGet, "/api/status", &status)
	return status, err
}

// Reload asks the portal to rebuild its catalog from the source.
func (c *Client) Reload(ctx context.Context) (portal.ReloadResponse, error) {
	var resp portal.ReloadResponse
	err := c.do(ctx, http.MethodPost, "/api/reload", &resp)
	return resp, err
}

func (c *Client) do(ctx context.Context, method, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		var opErr *net.OpError
		if errors.As(err, &opErr) && opErr.Op == "dial" {
			return fmt.Errorf("%w at %s; start it with `vidcat serve` or vidcatd", ErrUnreachable, c.baseURL)
		}
		return fmt.Errorf("portal request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		var payload struct {
			Error string `json:"error"`
		}
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if json.Unmarshal(body, &payload) == nil && payload.Error != "" {
			return fmt.Errorf("portal returned %d: %s", resp.StatusCode, payload.Error)
		}
		return fmt.Errorf("portal returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode portal response: %w", err)
	}
	return nil
}

// ProcessInfo reports whether the pid file in the data directory names a
// live process, and that pid.
func ProcessInfo(cfg *config.Config) (bool, int, error) {
	path := filepath.Join(cfg.Paths.DataDir, daemonrun.PIDFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, 0, nil
		}
		return false, 0, fmt.Errorf("read pid file: %w", err)
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || pid <= 0 {
		return false, 0, fmt.Errorf("pid file %s is malformed", path)
	}
	if err := syscall.Kill(pid, 0); err != nil && !errors.Is(err, syscall.EPERM) {
		return false, pid, nil
	}
	return true, pid, nil
}
