package issues

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"vidcat/internal/config"
	"vidcat/internal/logging"
	"vidcat/internal/services"
)

const userAgent = "vidcat/1.0"

const acceptHeader = "application/vnd.github.v3+json"

// Issue is the created tracker entry.
type Issue struct {
	Number int    `json:"number"`
	URL    string `json:"url"`
	Title  string `json:"title"`
}

// Service files submissions on the issue tracker.
type Service interface {
	Submit(ctx context.Context, sub Submission) (Issue, error)
	Enabled() bool
}

// NewService builds a GitHub backed service when issue filing is enabled.
// Otherwise every submission fails with a configuration error.
func NewService(cfg *config.Config, logger *slog.Logger) Service {
	if cfg == nil || !cfg.Issues.Enabled {
		return noopService{}
	}
	timeout := time.Duration(cfg.Issues.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &githubService{
		baseURL:       strings.TrimRight(cfg.Issues.APIBaseURL, "/"),
		owner:         cfg.Issues.Owner,
		repo:          cfg.Issues.Repo,
		token:         cfg.Issues.Token,
		dispatchEvent: strings.TrimSpace(cfg.Issues.DispatchEvent),
		client:        &http.Client{Timeout: timeout},
		logger:        logging.NewComponentLogger(logger, "issues"),
		now:           time.Now,
	}
}

type githubService struct {
	baseURL       string
	owner         string
	repo          string
	token         string
	dispatchEvent string
	client        *http.Client
	logger        *slog.Logger
	now           func() time.Time
}

func (g *githubService) Enabled() bool { return true }

// Submit renders sub, creates the issue, and fires the dispatch event.
func (g *githubService) Submit(ctx context.Context, sub Submission) (Issue, error) {
	now := g.now()
	report, err := NewReport(sub, now)
	if err != nil {
		return Issue{}, err
	}
	logger := logging.WithContext(ctx, g.logger)

	var created struct {
		Number  int    `json:"number"`
		HTMLURL string `json:"html_url"`
		Title   string `json:"title"`
	}
	if err := g.send(ctx, "/repos/"+g.owner+"/"+g.repo+"/issues", report, &created); err != nil {
		logging.ErrorWithContext(logger, "issue creation failed", "issue_create_failed",
			logging.String("kind", string(sub.Kind)),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check the issue tracker token and repository"),
		)
		return Issue{}, err
	}
	issue := Issue{Number: created.Number, URL: created.HTMLURL, Title: created.Title}
	logger.Info("issue created",
		logging.String(logging.FieldEventType, "issue_created"),
		logging.String("kind", string(sub.Kind)),
		logging.Int("number", issue.Number),
		logging.String("url", issue.URL),
	)

	if g.dispatchEvent != "" {
		if err := g.dispatch(ctx, sub, now); err != nil {
			logging.WarnWithContext(logger, "repository dispatch failed", "issue_dispatch_failed",
				logging.Int("number", issue.Number),
				logging.Error(err),
				logging.String(logging.FieldImpact, "issue filed without automated investigation"),
			)
		}
	}
	return issue, nil
}

func (g *githubService) dispatch(ctx context.Context, sub Submission, now time.Time) error {
	payload := map[string]any{
		"event_type": g.dispatchEvent,
		"client_payload": map[string]string{
			"issue_type":  string(sub.Kind),
			"asset_url":   sub.AssetURL,
			"asset_title": sub.AssetTitle,
			"description": sub.Description,
			"timestamp":   now.UTC().Format(time.RFC3339),
		},
	}
	return g.send(ctx, "/repos/"+g.owner+"/"+g.repo+"/dispatches", payload, nil)
}

func (g *githubService) send(ctx context.Context, endpoint string, body any, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+endpoint, bytes.NewReader(data))
	if err != nil {
		return services.Wrap(services.ErrConfiguration, "issues", "build request", "invalid api_base_url", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", acceptHeader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.token)

	resp, err := g.client.Do(req)
	if err != nil {
		var netErr net.Error
		if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
			return services.Wrap(services.ErrTimeout, "issues", "post "+endpoint, "request timed out", err)
		}
		return services.Wrap(services.ErrTransient, "issues", "post "+endpoint, "network error", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		message := fmt.Sprintf("GitHub API error: %d %s", resp.StatusCode, strings.TrimSpace(string(detail)))
		return services.Wrap(services.ErrExternalTool, "issues", "post "+endpoint, message, nil)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return services.Wrap(services.ErrExternalTool, "issues", "decode response", "", err)
	}
	return nil
}

type noopService struct{}

func (noopService) Submit(context.Context, Submission) (Issue, error) {
	return Issue{}, services.Wrap(services.ErrConfiguration, "issues", "submit", "issue filing is disabled", nil)
}

func (noopService) Enabled() bool { return false }
