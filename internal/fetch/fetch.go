// Package fetch retrieves CRX blobs over HTTP with retry.
package fetch

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"
)

// Fetch failures that retrying cannot fix.
var (
	// ErrNotAvailable: the store answered 204 or an HTML page instead of
	// a CRX blob; the extension cannot be downloaded this way.
	ErrNotAvailable = errors.New("fetch: extension not available for download")

	// ErrTooLarge: the response exceeds the configured size cap.
	ErrTooLarge = errors.New("fetch: response exceeds size limit")
)

// Options configure a Client.
type Options struct {
	Timeout       time.Duration
	RetryAttempts int           // total attempts, minimum 1
	RetryDelay    time.Duration // base delay, grows per attempt
	UserAgent     string
	MaxSize       int64 // bytes, 0 = unlimited
	SkipTLSVerify bool
}

// Client is a reusable HTTP fetcher. Safe for concurrent use.
type Client struct {
	http *http.Client
	opts Options
}

// New builds a Client from options.
func New(opts Options) *Client {
	if opts.RetryAttempts < 1 {
		opts.RetryAttempts = 1
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = 2 * time.Second
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if opts.SkipTLSVerify {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
		logrus.Warn("TLS verification disabled; not recommended outside debugging")
	}

	return &Client{
		http: &http.Client{
			Timeout:   opts.Timeout,
			Transport: transport,
		},
		opts: opts,
	}
}

// Fetch downloads url and returns the complete response body. Transient
// failures (network errors, 5xx) are retried up to the configured
// attempt count; ErrNotAvailable and ErrTooLarge are terminal.
func (c *Client) Fetch(ctx context.Context, url string) ([]byte, error) {
	var body []byte
	attempt := 0

	op := func() error {
		attempt++
		if attempt > 1 {
			logrus.WithFields(logrus.Fields{"attempt": attempt, "url": url}).Debug("retrying download")
		}

		data, err := c.fetchOnce(ctx, url)
		if err != nil {
			return err
		}
		body = data
		return nil
	}

	bo := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(c.opts.RetryDelay), uint64(c.opts.RetryAttempts-1)),
		ctx,
	)
	if err := backoff.Retry(op, bo); err != nil {
		return nil, err
	}
	return body, nil
}

func (c *Client) fetchOnce(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("fetch: build request: %w", err))
	}
	c.setHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNoContent:
		// The store answers 204 when no build matches the request
		// parameters (or the prodversion is considered too old).
		return nil, backoff.Permanent(fmt.Errorf("%w: HTTP 204", ErrNotAvailable))
	case resp.StatusCode >= 500:
		return nil, fmt.Errorf("fetch: HTTP %d", resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return nil, backoff.Permanent(fmt.Errorf("fetch: HTTP %d", resp.StatusCode))
	}

	if ct := resp.Header.Get("Content-Type"); strings.Contains(strings.ToLower(ct), "text/html") {
		// An HTML body is an error page, not a CRX.
		return nil, backoff.Permanent(fmt.Errorf("%w: got %s response", ErrNotAvailable, ct))
	}

	if c.opts.MaxSize > 0 && resp.ContentLength > c.opts.MaxSize {
		return nil, backoff.Permanent(fmt.Errorf("%w: %d bytes declared, limit %d", ErrTooLarge, resp.ContentLength, c.opts.MaxSize))
	}

	reader := io.Reader(resp.Body)
	if c.opts.MaxSize > 0 {
		reader = io.LimitReader(resp.Body, c.opts.MaxSize+1)
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("fetch: read body: %w", err)
	}
	if c.opts.MaxSize > 0 && int64(len(data)) > c.opts.MaxSize {
		return nil, backoff.Permanent(fmt.Errorf("%w: body larger than %d bytes", ErrTooLarge, c.opts.MaxSize))
	}

	logrus.WithFields(logrus.Fields{"bytes": len(data), "url": url}).Debug("download completed")
	return data, nil
}

// setHeaders applies the browser-like header set the store expects.
func (c *Client) setHeaders(req *http.Request) {
	if c.opts.UserAgent != "" {
		req.Header.Set("User-Agent", c.opts.UserAgent)
	}
	req.Header.Set("Referer", "https://chrome.google.com")
	req.Header.Set("Accept", "application/octet-stream,application/x-chrome-extension,*/*")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
}
