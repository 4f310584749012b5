// Package workflow implements the External Workflow Client (C2): it
// calls the third-party profile/organization workflow endpoints with
// retry-with-backoff and, for batches, a shared pacing limiter.
package workflow

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/jexpert/profile-enrichment/pkg/logger"
)

// Config configures the workflow client.
type Config struct {
	ProfileURL      string
	OrganizationURL string
	APIKey          string
	RequestTimeout  time.Duration
	MaxRetries      int
	PacingInterval  time.Duration
}

// Client issues fetch requests against the external workflow endpoints.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

func New(cfg Config) *Client {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 30 * time.Second
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if cfg.PacingInterval <= 0 {
		cfg.PacingInterval = 3 * time.Second
	}
	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: cfg.RequestTimeout,
		},
	}
}

// FetchProfile calls the profile workflow endpoint for url.
func (c *Client) FetchProfile(ctx context.Context, url string) (RawPayload, error) {
	return c.fetchWithRetry(ctx, c.cfg.ProfileURL, url)
}

// FetchOrganization calls the organization workflow endpoint for url.
func (c *Client) FetchOrganization(ctx context.Context, url string) (RawPayload, error) {
	return c.fetchWithRetry(ctx, c.cfg.OrganizationURL, url)
}

// BatchFetchOrganizations fetches each url in order, pacing successive
// calls by PacingInterval (§4.2). The result slice has the same length
// and order as urls; a failed slot is nil rather than aborting the
// batch (§4.5 step 6/7).
func (c *Client) BatchFetchOrganizations(ctx context.Context, urls []string) []RawPayload {
	results := make([]RawPayload, len(urls))
	limiter := rate.NewLimiter(rate.Every(c.cfg.PacingInterval), 1)

	for i, u := range urls {
		if err := limiter.Wait(ctx); err != nil {
			logger.Log.Warn("organization batch fetch aborted by context", "error", err)
			return results
		}
		payload, err := c.fetchWithRetry(ctx, c.cfg.OrganizationURL, u)
		if err != nil {
			logger.Log.Warn("organization fetch failed, leaving slot empty", "url", u, "error", err)
			continue
		}
		results[i] = payload
	}
	return results
}

func (c *Client) fetchWithRetry(ctx context.Context, endpoint, targetURL string) (RawPayload, error) {
	var lastErr error
	for attempt := 0; attempt <= c.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			delay := backoffDelay(attempt-1, 500*time.Millisecond, 10*time.Second)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		payload, err := c.doFetch(ctx, endpoint, targetURL)
		if err == nil {
			return payload, nil
		}
		lastErr = err
		if !isRetryable(err) {
			return nil, err
		}
	}
	return nil, fmt.Errorf("workflow fetch exhausted %d retries: %w", c.cfg.MaxRetries, lastErr)
}

func (c *Client) doFetch(ctx context.Context, endpoint, targetURL string) (RawPayload, error) {
	body, err := json.Marshal(fetchRequest{URL: targetURL})
	if err != nil {
		return nil, fmt.Errorf("encode workflow request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build workflow request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		var netErr net.Error
		if ctx.Err() != nil || (errors.As(err, &netErr) && netErr.Timeout()) {
			return nil, &TimeoutError{Err: err}
		}
		return nil, &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	respBody, readErr := io.ReadAll(io.LimitReader(resp.Body, 10<<20))

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, &RateLimitedError{Status: resp.StatusCode}
	case resp.StatusCode >= 500:
		return nil, &NetworkError{Err: fmt.Errorf("upstream status %d", resp.StatusCode)}
	case resp.StatusCode >= 400:
		excerpt := string(respBody)
		if len(excerpt) > 256 {
			excerpt = excerpt[:256]
		}
		return nil, &RemoteWorkflowError{Status: resp.StatusCode, BodyExcerpt: excerpt}
	}

	if readErr != nil {
		return nil, &InvalidPayloadError{Err: readErr}
	}

	var payload RawPayload
	if err := json.Unmarshal(respBody, &payload); err != nil {
		return nil, &InvalidPayloadError{Err: err}
	}
	return payload, nil
}
