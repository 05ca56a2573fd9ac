// Package fetch downloads order photo attachments over HTTP.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"
)

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 60 * time.Second

// DefaultMaxBytes caps a single photo download at 50 MB.
const DefaultMaxBytes = 50 << 20

// DefaultUserAgent is the user agent string for HTTP requests.
const DefaultUserAgent = "StageVision/1.0"

// Error represents an error during a photo download.
type Error struct {
	URL     string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("fetch error for %s: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("fetch error for %s: %s", e.URL, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Options configures download behavior.
type Options struct {
	Timeout   time.Duration
	MaxBytes  int64
	UserAgent string
}

// DefaultOptions returns sensible defaults for photo downloads.
func DefaultOptions() *Options {
	return &Options{
		Timeout:   DefaultTimeout,
		MaxBytes:  DefaultMaxBytes,
		UserAgent: DefaultUserAgent,
	}
}

// Download retrieves a photo and writes it to destPath. The write
// goes through a temp file so destPath never holds a partial photo.
func Download(ctx context.Context, urlStr, destPath string, opts *Options) error {
	if opts == nil {
		opts = DefaultOptions()
	}

	// Validate URL
	parsedURL, err := url.Parse(urlStr)
	if err != nil || parsedURL.Scheme == "" || parsedURL.Host == "" {
		return &Error{URL: urlStr, Message: "invalid URL", Cause: err}
	}

	client := &http.Client{Timeout: opts.Timeout}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return &Error{URL: urlStr, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("User-Agent", opts.UserAgent)

	resp, err := client.Do(req)
	if err != nil {
		return &Error{URL: urlStr, Message: "HTTP request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return &Error{URL: urlStr, Message: fmt.Sprintf("HTTP status %d", resp.StatusCode)}
	}

	tmp, err := os.CreateTemp(filepath.Dir(destPath), ".download-*")
	if err != nil {
		return &Error{URL: urlStr, Message: "failed to create temp file", Cause: err}
	}
	tmpName := tmp.Name()

	limit := opts.MaxBytes
	if limit <= 0 {
		limit = DefaultMaxBytes
	}
	written, err := io.Copy(tmp, io.LimitReader(resp.Body, limit+1))
	if err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return &Error{URL: urlStr, Message: "failed to read response body", Cause: err}
	}
	if written > limit {
		tmp.Close()
		os.Remove(tmpName)
		return &Error{URL: urlStr, Message: fmt.Sprintf("photo exceeds %d byte limit", limit)}
	}
	if written == 0 {
		tmp.Close()
		os.Remove(tmpName)
		return &Error{URL: urlStr, Message: "empty response body"}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return &Error{URL: urlStr, Message: "failed to close temp file", Cause: err}
	}
	if err := os.Rename(tmpName, destPath); err != nil {
		os.Remove(tmpName)
		return &Error{URL: urlStr, Message: "failed to move download into place", Cause: err}
	}
	return nil
}
