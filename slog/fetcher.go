// Package slog provides logging decorators around the domain interfaces.
package slog

import (
	"context"
	"log/slog"
	"time"

	sapfodl "github.com/nycz/sapfo-dl"
)

// Ensure LoggingFetcher implements sapfodl.Fetcher.
var _ sapfodl.Fetcher = (*LoggingFetcher)(nil)

// LoggingFetcher wraps a Fetcher with per-request logging.
type LoggingFetcher struct {
	next   sapfodl.Fetcher
	logger *slog.Logger
}

// NewLoggingFetcher creates a new LoggingFetcher.
func NewLoggingFetcher(next sapfodl.Fetcher, logger *slog.Logger) *LoggingFetcher {
	return &LoggingFetcher{next: next, logger: logger}
}

// Fetch delegates to the wrapped fetcher and logs the outcome.
func (f *LoggingFetcher) Fetch(ctx context.Context, url string) (string, error) {
	begin := time.Now()
	page, err := f.next.Fetch(ctx, url)
	if err != nil {
		f.logger.Error("fetch",
			"url", url,
			"duration", time.Since(begin),
			"err", err.Error(),
		)
		return "", err
	}
	f.logger.Info("fetch",
		"url", url,
		"bytes", len(page),
		"duration", time.Since(begin),
	)
	return page, nil
}

// Close delegates to the wrapped fetcher.
func (f *LoggingFetcher) Close() error {
	return f.next.Close()
}
