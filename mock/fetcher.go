// Package mock provides hand-rolled mocks for the domain interfaces.
package mock

import (
	"context"

	sapfodl "github.com/nycz/sapfo-dl"
)

var _ sapfodl.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of sapfodl.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) (string, error)
	CloseFn func() error
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	return f.FetchFn(ctx, url)
}

func (f *Fetcher) Close() error {
	if f.CloseFn == nil {
		return nil
	}
	return f.CloseFn()
}
