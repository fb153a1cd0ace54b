// Package http provides the HTTP client used to fetch hymn pages, the songs
// listing page and audio recordings.
//
// The Client in this package handles:
//   - User-Agent headers
//   - Timeouts
//   - File downloads with progress tracking
//   - File size retrieval via HEAD requests
//
// Non-2xx answers are returned as *StatusError so callers can tell a missing
// page from a transport failure.
//
// # Basic Usage
//
//	client := http.NewClient(30*time.Second, "")
//
//	page, err := client.GetString(ctx, pageURL)
//
//	client.DownloadFile(ctx, mp3URL, "hymns/012.mp3", nil)
package http
