// Package http provides the HTTP implementation of sapfodl.Fetcher.
package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	sapfodl "github.com/nycz/sapfo-dl"
)

// Ensure Fetcher implements sapfodl.Fetcher at compile time.
var _ sapfodl.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves page text with plain GET requests. Responses are
// decoded as UTF-8 with invalid byte sequences replaced, never rejected.
type Fetcher struct {
	client  *http.Client
	timeout time.Duration
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the timeout for HTTP requests.
// The zero default means no timeout; a hung server hangs the download.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// NewFetcher creates a new HTTP Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{}
	for _, opt := range opts {
		opt(f)
	}

	f.client = &http.Client{
		Timeout: f.timeout,
	}

	return f
}

// Fetch performs a single GET and returns the decoded page text.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("HTTP %d for %s", resp.StatusCode, url)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	return decodeText(body), nil
}

// decodeText decodes bytes as UTF-8 with one U+FFFD per invalid byte.
// strings.ToValidUTF8 would collapse a whole run of invalid bytes into a
// single replacement char.
func decodeText(b []byte) string {
	if utf8.Valid(b) {
		return string(b)
	}

	var s strings.Builder
	s.Grow(len(b))
	for i := 0; i < len(b); {
		r, size := utf8.DecodeRune(b[i:])
		if r == utf8.RuneError && size == 1 {
			s.WriteRune(utf8.RuneError)
			i++
			continue
		}
		s.Write(b[i : i+size])
		i += size
	}
	return s.String()
}

// Close releases resources. For the HTTP fetcher this is a no-op since
// http.Client doesn't require explicit cleanup.
func (f *Fetcher) Close() error {
	return nil
}
