package http

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/go-resty/resty/v2"
)

// DefaultUserAgent is sent when no user agent is configured.
const DefaultUserAgent = "hymnscan/1.0"

// StatusError is returned when the server answers with a non-2xx status.
type StatusError struct {
	URL    string
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d: %s (%s)", e.Code, e.Status, e.URL)
}

// Client wraps HTTP operations used to fetch hymn pages and recordings.
//
// Client provides:
//   - Configured User-Agent header
//   - Timeout handling
//   - File download with progress tracking
//   - File size retrieval via HEAD requests
//
// Requests are never retried here; callers that want retries wrap the call.
//
// Example usage:
//
//	client := NewClient(30*time.Second, "")
//
//	// Fetch a hymn page
//	page, err := client.GetString(ctx, "https://example.org/hymns/tlh-12/")
//
//	// Download a recording with progress
//	err = client.DownloadFile(ctx, mp3URL, "hymns/012.mp3", func(written, total int64) {
//	    fmt.Printf("%d / %d\n", written, total)
//	})
type Client struct {
	rest *resty.Client
}

// NewClient creates a new HTTP client.
//
// A zero timeout disables the timeout; an empty userAgent uses
// DefaultUserAgent.
func NewClient(timeout time.Duration, userAgent string) *Client {
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}

	rest := resty.New().
		SetHeader("User-Agent", userAgent).
		SetTimeout(timeout)

	return &Client{rest: rest}
}

// ProgressWriter wraps a writer to track download progress.
//
// Example:
//
//	pw := &ProgressWriter{
//	    Writer: file,
//	    Total:  contentLength,
//	    OnUpdate: func(written, total int64) {
//	        fmt.Printf("%d / %d bytes\n", written, total)
//	    },
//	}
//	io.Copy(pw, response.Body)
type ProgressWriter struct {
	// Writer is the underlying writer to write data to.
	Writer io.Writer

	// Total is the expected total bytes (from Content-Length header).
	Total int64

	// Written is the current number of bytes written.
	Written int64

	// OnUpdate is called after each Write with current progress.
	OnUpdate func(written, total int64)
}

// Write implements io.Writer, tracking progress and calling OnUpdate.
func (pw *ProgressWriter) Write(p []byte) (int, error) {
	n, err := pw.Writer.Write(p)
	pw.Written += int64(n)
	if pw.OnUpdate != nil {
		pw.OnUpdate(pw.Written, pw.Total)
	}
	return n, err
}

// Get performs a GET request and returns the response body as bytes.
//
// Returns a *StatusError if the response status is not 2xx.
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	resp, err := c.rest.R().SetContext(ctx).Get(url)
	if err != nil {
		return nil, err
	}

	if !resp.IsSuccess() {
		return nil, &StatusError{URL: url, Code: resp.StatusCode(), Status: resp.Status()}
	}

	return resp.Body(), nil
}

// GetString performs a GET request and returns the response body as a string.
func (c *Client) GetString(ctx context.Context, url string) (string, error) {
	body, err := c.Get(ctx, url)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// GetFileSize returns the size of a file at the given URL via HEAD request.
//
// Returns an error if the request fails or the server doesn't return a
// Content-Length header.
func (c *Client) GetFileSize(ctx context.Context, url string) (int64, error) {
	resp, err := c.rest.R().SetContext(ctx).Head(url)
	if err != nil {
		return 0, err
	}

	if !resp.IsSuccess() {
		return 0, &StatusError{URL: url, Code: resp.StatusCode(), Status: resp.Status()}
	}

	if resp.RawResponse == nil || resp.RawResponse.ContentLength < 0 {
		return 0, fmt.Errorf("no Content-Length header for %s", url)
	}

	return resp.RawResponse.ContentLength, nil
}

// DownloadFile streams a file to destPath with an optional progress callback.
//
// The file is created (or truncated if it exists). Pass nil as onProgress to
// disable progress tracking.
func (c *Client) DownloadFile(ctx context.Context, url, destPath string, onProgress func(written, total int64)) error {
	resp, err := c.rest.R().
		SetContext(ctx).
		SetDoNotParseResponse(true).
		Get(url)
	if err != nil {
		return err
	}

	body := resp.RawBody()
	defer body.Close()

	if !resp.IsSuccess() {
		return &StatusError{URL: url, Code: resp.StatusCode(), Status: resp.Status()}
	}

	file, err := os.Create(destPath)
	if err != nil {
		return err
	}
	defer file.Close()

	var writer io.Writer = file
	if onProgress != nil {
		writer = &ProgressWriter{
			Writer:   file,
			Total:    resp.RawResponse.ContentLength,
			OnUpdate: onProgress,
		}
	}

	if _, err := io.Copy(writer, body); err != nil {
		return err
	}

	return file.Close()
}
