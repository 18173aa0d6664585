package sapfodl

import "context"

// Page represents one fetched and extracted page of a download.
// Records are immutable once produced by the extractor.
type Page struct {
	URL         string `json:"url"`
	Title       string `json:"title"`
	Body        string `json:"body"`
	AuthorName  string `json:"author_name"`
	AuthorURL   string `json:"author_url"`
	Description string `json:"description"`
}

// FetchProgress reports progress while pages are downloaded.
type FetchProgress struct {
	URL       string
	Completed int
	Total     int
}

// FetchProgressFunc is called once per page as it is fetched.
type FetchProgressFunc func(FetchProgress)

// Fetcher retrieves raw page text from URLs.
type Fetcher interface {
	// Fetch performs a single GET and returns the decoded page text.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) (string, error)

	// Close releases any resources held by the fetcher.
	Close() error
}

// DownloadStore persists a completed download: one rendered HTML file per
// page plus a metadata sidecar, all inside a fresh directory.
// SaveDownload returns the path of the directory it created.
type DownloadStore interface {
	SaveDownload(ctx context.Context, meta *Metadata, pages []*Page) (string, error)
}
