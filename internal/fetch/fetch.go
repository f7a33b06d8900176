// Package fetch wraps outbound catalog requests with per-attempt timeouts,
// bounded exponential-backoff retries and failure classification. It is a
// pure resilience wrapper: no caching, no interpretation of payloads beyond
// JSON decoding.
package fetch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-retryablehttp"
)

// CorrelationHeader carries the correlation id on every attempt so upstream
// logs can be matched with ours.
const CorrelationHeader = "X-Correlation-ID"

const (
	defaultTimeout   = 30 * time.Second
	defaultBaseDelay = 500 * time.Millisecond
)

// Config tunes the retry behavior. A zero Timeout or BaseDelay falls back
// to its default.
type Config struct {
	// Timeout bounds each individual attempt, not the whole call.
	Timeout time.Duration
	// MaxRetries is the number of retries after the first attempt, so a
	// call makes at most MaxRetries+1 attempts. Zero disables retries.
	MaxRetries int
	// BaseDelay is the wait before the first retry; the wait doubles on
	// each subsequent retry.
	BaseDelay time.Duration
}

// Client issues GET requests with retry, backoff and error classification.
// Safe for concurrent use.
type Client struct {
	cfg Config
}

// Request describes one logical fetch. CorrelationID is generated when
// empty and attached to every attempt.
type Request struct {
	URL           string
	Header        http.Header
	CorrelationID string
}

func NewClient(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.BaseDelay <= 0 {
		cfg.BaseDelay = defaultBaseDelay
	}
	return &Client{cfg: cfg}
}

// GetJSON fetches req.URL and decodes the response body into out.
//
// 4xx responses are terminal and surface as *ClientError without a retry.
// 5xx responses, transport failures and per-attempt timeouts are retried
// with delay baseDelay*2^(k-1) before retry k; once the budget is spent the
// last classified failure is wrapped in *RetriesExhaustedError.
func (c *Client) GetJSON(ctx context.Context, req Request, out any) error {
	cid := req.CorrelationID
	if cid == "" {
		cid = uuid.NewString()
	}

	rc := &retryablehttp.Client{
		HTTPClient:   &http.Client{Timeout: c.cfg.Timeout},
		RetryMax:     c.cfg.MaxRetries,
		RetryWaitMin: c.cfg.BaseDelay,
		RetryWaitMax: c.cfg.BaseDelay << 10,
		CheckRetry:   checkRetry,
		Backoff:      exponentialBackoff(c.cfg.BaseDelay),
		ErrorHandler: exhaustedHandler(cid),
		RequestLogHook: func(_ retryablehttp.Logger, hr *http.Request, attempt int) {
			log.Printf("fetch: attempt=%d url=%s correlation=%s", attempt+1, hr.URL, cid)
		},
	}

	hreq, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, req.URL, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	for k, vs := range req.Header {
		for _, v := range vs {
			hreq.Header.Add(k, v)
		}
	}
	hreq.Header.Set(CorrelationHeader, cid)
	hreq.Header.Set("Accept", "application/json")

	resp, err := rc.Do(hreq)
	if err != nil {
		var exhausted *RetriesExhaustedError
		if errors.As(err, &exhausted) {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return classifyAttempt(err, cid)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	switch {
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return &ClientError{
			StatusCode:    resp.StatusCode,
			Code:          decodeErrorCode(resp.Body),
			CorrelationID: cid,
		}
	case resp.StatusCode >= 500:
		return &ServerError{StatusCode: resp.StatusCode, CorrelationID: cid}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// checkRetry classifies a finished attempt: transport errors and 5xx are
// retryable, anything else is terminal. Cancellation always wins.
func checkRetry(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if ctx.Err() != nil {
		return false, ctx.Err()
	}
	if err != nil {
		return true, nil
	}
	if resp != nil && resp.StatusCode >= 500 {
		return true, nil
	}
	return false, nil
}

// exponentialBackoff waits base*2^attemptNum, where attemptNum counts
// completed attempts starting at zero.
func exponentialBackoff(base time.Duration) retryablehttp.Backoff {
	return func(_, max time.Duration, attemptNum int, _ *http.Response) time.Duration {
		if attemptNum > 30 {
			attemptNum = 30
		}
		d := base << uint(attemptNum)
		if d > max {
			return max
		}
		return d
	}
}

// exhaustedHandler turns the final failed attempt into RetriesExhausted,
// keeping the last classified failure reachable via Unwrap.
func exhaustedHandler(cid string) retryablehttp.ErrorHandler {
	return func(resp *http.Response, err error, numTries int) (*http.Response, error) {
		last := classifyAttempt(err, cid)
		if err == nil && resp != nil {
			last = &ServerError{StatusCode: resp.StatusCode, CorrelationID: cid}
		}
		if resp != nil {
			_, _ = io.Copy(io.Discard, resp.Body)
			_ = resp.Body.Close()
		}
		return nil, &RetriesExhaustedError{Attempts: numTries, CorrelationID: cid, Err: last}
	}
}

func classifyAttempt(err error, cid string) error {
	if err == nil {
		return nil
	}
	var uerr *url.Error
	if errors.As(err, &uerr) && uerr.Timeout() {
		return &TimeoutError{CorrelationID: cid}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &TimeoutError{CorrelationID: cid}
	}
	return &NetworkError{CorrelationID: cid, Err: err}
}

// decodeErrorCode best-effort extracts error.code from a JSON error body.
// The upstream emits both numeric and string codes.
func decodeErrorCode(body io.Reader) string {
	var payload struct {
		Error struct {
			Code json.RawMessage `json:"code"`
		} `json:"error"`
	}
	if err := json.NewDecoder(body).Decode(&payload); err != nil {
		return ""
	}
	return strings.Trim(string(payload.Error.Code), `"`)
}
