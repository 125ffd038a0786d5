// Package classifier delivers text to the remote classification service,
// trying an ordered list of endpoints with a bounded wait per attempt.
package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"toxshield/internal/metrics"
	"toxshield/internal/models"
)

// DefaultTimeout bounds each individual attempt.
const DefaultTimeout = 8 * time.Second

// maxBodyBytes caps how much of a response body is read.
const maxBodyBytes = 1 << 20

// Analyzer turns text into a verdict record. Implementations never fail:
// every failure is folded into the returned record.
type Analyzer interface {
	Analyze(ctx context.Context, text string) models.AnalysisResult
}

// Client calls the classification service.
type Client struct {
	endpoints []string
	timeout   time.Duration
	http      *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// New creates a client that tries endpoints in order, each bounded by
// timeout. A non-positive timeout selects DefaultTimeout.
func New(endpoints []string, timeout time.Duration, opts ...Option) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	eps := make([]string, 0, len(endpoints))
	for _, ep := range endpoints {
		if ep = strings.TrimRight(strings.TrimSpace(ep), "/"); ep != "" {
			eps = append(eps, ep)
		}
	}
	c := &Client{
		endpoints: eps,
		timeout:   timeout,
		http:      &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Endpoints returns the configured endpoints in attempt order.
func (c *Client) Endpoints() []string {
	return append([]string(nil), c.endpoints...)
}

// Analyze submits text to each endpoint in turn until one succeeds. The next
// endpoint is tried only after the previous attempt has definitively failed.
func (c *Client) Analyze(ctx context.Context, text string) models.AnalysisResult {
	start := time.Now()

	lastErr := ErrNoEndpoints
	for i, endpoint := range c.endpoints {
		if err := ctx.Err(); err != nil {
			lastErr = err
			break
		}

		req := models.PendingRequest{
			ID:       uuid.New(),
			Endpoint: endpoint,
			Text:     text,
			Deadline: time.Now().Add(c.timeout),
		}
		result, err := c.attempt(ctx, req)
		metrics.RecordAttempt(endpoint, err == nil)
		if err == nil {
			metrics.RecordAnalysis(true, time.Since(start))
			return result
		}

		lastErr = err
		slog.Warn("classifier attempt failed", "request_id", req.ID, "endpoint", endpoint, "attempt", i+1, "error", err)
	}

	metrics.RecordAnalysis(false, time.Since(start))
	return models.FailedResult(lastErr.Error())
}

// attempt performs a single request with its own deadline. Cancelling it
// leaves the parent context untouched.
func (c *Client) attempt(parent context.Context, pr models.PendingRequest) (models.AnalysisResult, error) {
	ctx, cancel := context.WithDeadline(parent, pr.Deadline)
	defer cancel()

	body, err := json.Marshal(models.AnalyzePayload{Text: pr.Text})
	if err != nil {
		return models.AnalysisResult{}, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, pr.Endpoint+"/analyze", bytes.NewReader(body))
	if err != nil {
		return models.AnalysisResult{}, fmt.Errorf("build request for %s: %w", pr.Endpoint, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", pr.ID.String())

	resp, err := c.http.Do(req)
	if err != nil {
		if parentErr := parent.Err(); parentErr != nil {
			return models.AnalysisResult{}, fmt.Errorf("%s: %w", pr.Endpoint, parentErr)
		}
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return models.AnalysisResult{}, fmt.Errorf("%s: timed out after %s", pr.Endpoint, c.timeout)
		}
		return models.AnalysisResult{}, fmt.Errorf("%s: connection failed: %w", pr.Endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return models.AnalysisResult{}, fmt.Errorf("%w: %s: HTTP %d", ErrStatus, pr.Endpoint, resp.StatusCode)
	}

	return decode(io.LimitReader(resp.Body, maxBodyBytes), pr.Endpoint)
}

// decode parses a response body. label and scores are required; a body
// carrying an error field counts as a failure.
func decode(r io.Reader, endpoint string) (models.AnalysisResult, error) {
	var result models.AnalysisResult
	if err := json.NewDecoder(r).Decode(&result); err != nil {
		return models.AnalysisResult{}, fmt.Errorf("%w: %s: %v", ErrDecode, endpoint, err)
	}
	if result.Error != "" {
		return models.AnalysisResult{}, fmt.Errorf("%w: %s: %s", ErrRejected, endpoint, result.Error)
	}
	if result.Label == "" || result.Scores == nil {
		return models.AnalysisResult{}, fmt.Errorf("%w: %s: missing label or scores", ErrDecode, endpoint)
	}
	return result, nil
}
