// Package fetch downloads stored tables and query results over HTTP so the
// analysis engine receives rows already fetched.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"mime"
	"net"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"
)

// maxBody caps downloaded payloads.
const maxBody = 64 << 20

// Client fetches tables with retry and exponential backoff.
type Client struct {
	httpClient       *http.Client
	retryMaxAttempts int
	retryBaseDelay   time.Duration
	retryMaxDelay    time.Duration
}

// Result is a downloaded table.
type Result struct {
	// Name is a filename hint whose extension selects the parser.
	Name        string
	ContentType string
	Body        []byte
}

// NewClient allows customizing HTTP timeout and retry/backoff behavior.
func NewClient(httpTimeout time.Duration, retryMax int, baseDelay, maxDelay time.Duration) *Client {
	if httpTimeout <= 0 {
		httpTimeout = 30 * time.Second
	}
	if retryMax <= 0 {
		retryMax = 3
	}
	if baseDelay <= 0 {
		baseDelay = 500 * time.Millisecond
	}
	if maxDelay <= 0 {
		maxDelay = 4 * time.Second
	}
	return &Client{
		httpClient:       &http.Client{Timeout: httpTimeout},
		retryMaxAttempts: retryMax,
		retryBaseDelay:   baseDelay,
		retryMaxDelay:    maxDelay,
	}
}

// IsURL reports whether s looks like an http(s) URL rather than a path.
func IsURL(s string) bool {
	l := strings.ToLower(s)
	return strings.HasPrefix(l, "http://") || strings.HasPrefix(l, "https://")
}

// Get downloads rawURL. 429, 5xx and transient network errors are retried.
func (c *Client) Get(ctx context.Context, rawURL string) (*Result, error) {
	if _, err := url.ParseRequestURI(rawURL); err != nil {
		return nil, fmt.Errorf("invalid url: %w", err)
	}
	backoff := c.retryBaseDelay
	var lastErr error
	for attempt := 1; attempt <= c.retryMaxAttempts; attempt++ {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		res, retryAfter, err := c.do(ctx, rawURL)
		if err == nil {
			return res, nil
		}
		lastErr = err
		if !retryable(err) || attempt == c.retryMaxAttempts {
			break
		}
		sleep := withJitter(backoff)
		if retryAfter > 0 {
			sleep = retryAfter
		}
		if sleep > c.retryMaxDelay {
			sleep = c.retryMaxDelay
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(sleep):
		}
		backoff *= 2
	}
	var herr *HTTPError
	if errors.As(lastErr, &herr) {
		return nil, classify(herr)
	}
	return nil, lastErr
}

func (c *Client) do(ctx context.Context, rawURL string) (*Result, time.Duration, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "text/csv, application/json, application/vnd.openxmlformats-officedocument.spreadsheetml.sheet;q=0.9, */*;q=0.5")
	req.Header.Set("User-Agent", "datalens-cli")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, 0, ctx.Err()
		}
		return nil, 0, &UnreachableError{URL: rawURL, Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		herr := &HTTPError{
			StatusCode: resp.StatusCode,
			URL:        rawURL,
			Body:       strings.TrimSpace(string(body)),
			RequestID:  resp.Header.Get("X-Request-Id"),
		}
		var ra time.Duration
		if v := resp.Header.Get("Retry-After"); v != "" {
			if secs, err := parseRetryAfterSeconds(v); err == nil && secs > 0 {
				ra = time.Duration(secs) * time.Second
			}
		}
		return nil, ra, herr
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody+1))
	if err != nil {
		return nil, 0, fmt.Errorf("read body: %w", err)
	}
	if len(body) > maxBody {
		return nil, 0, fmt.Errorf("response exceeds %d bytes", maxBody)
	}
	ct := resp.Header.Get("Content-Type")
	return &Result{
		Name:        nameHint(rawURL, ct, resp.Header.Get("Content-Disposition")),
		ContentType: ct,
		Body:        body,
	}, 0, nil
}

func retryable(err error) bool {
	var herr *HTTPError
	if errors.As(err, &herr) {
		return herr.StatusCode == http.StatusTooManyRequests || (herr.StatusCode >= 500 && herr.StatusCode <= 599)
	}
	var uerr *UnreachableError
	if errors.As(err, &uerr) {
		var nerr net.Error
		if errors.As(uerr.Err, &nerr) && nerr.Timeout() {
			return true
		}
		return errors.Is(uerr.Err, io.EOF) || errors.Is(uerr.Err, io.ErrUnexpectedEOF)
	}
	return false
}

// nameHint picks a filename: Content-Disposition, then the URL path, then
// an extension derived from the content type.
func nameHint(rawURL, contentType, disposition string) string {
	if disposition != "" {
		if _, params, err := mime.ParseMediaType(disposition); err == nil && params["filename"] != "" {
			return path.Base(params["filename"])
		}
	}
	base := "download"
	if u, err := url.Parse(rawURL); err == nil {
		if b := path.Base(u.Path); b != "" && b != "/" && b != "." {
			base = b
		}
	}
	if path.Ext(base) != "" {
		return base
	}
	mt, _, _ := mime.ParseMediaType(contentType)
	switch mt {
	case "application/json":
		return base + ".json"
	case "text/tab-separated-values":
		return base + ".tsv"
	case "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet":
		return base + ".xlsx"
	default:
		return base + ".csv"
	}
}

// parseRetryAfterSeconds tries to interpret Retry-After header value as seconds or HTTP date.
func parseRetryAfterSeconds(v string) (int, error) {
	if s, err := strconv.Atoi(v); err == nil {
		return s, nil
	}
	if t, err := http.ParseTime(v); err == nil {
		d := time.Until(t)
		if d < 0 {
			d = 0
		}
		return int(d.Seconds()), nil
	}
	return 0, fmt.Errorf("invalid Retry-After: %q", v)
}

// withJitter returns a backoff duration with +/- 20% jitter applied.
func withJitter(d time.Duration) time.Duration {
	if d <= 0 {
		return 500 * time.Millisecond
	}
	f := 0.8 + rand.Float64()*0.4
	out := time.Duration(float64(d) * f)
	if out <= 0 {
		return d
	}
	return out
}
