package mock

import (
	"context"

	sapfodl "github.com/nycz/sapfo-dl"
)

var _ sapfodl.DownloadStore = (*Store)(nil)

// Store is a mock implementation of sapfodl.DownloadStore.
type Store struct {
	SaveDownloadFn func(ctx context.Context, meta *sapfodl.Metadata, pages []*sapfodl.Page) (string, error)
}

func (s *Store) SaveDownload(ctx context.Context, meta *sapfodl.Metadata, pages []*sapfodl.Page) (string, error) {
	return s.SaveDownloadFn(ctx, meta, pages)
}
