package main

import (
	"fmt"

	sapfodl "github.com/nycz/sapfo-dl"
)

// Run executes the download command.
func (c *DownloadCmd) Run(deps *Dependencies) error {
	// Expand every URL pattern up front so the total is known.
	var urls []string
	for _, raw := range c.URLs {
		expanded, err := sapfodl.ExpandURL(raw)
		if err != nil {
			return err
		}
		urls = append(urls, expanded...)
	}

	progress := func(p sapfodl.FetchProgress) {
		fmt.Fprintf(deps.Stdout, "Downloading page %d/%d... done\n", p.Completed, p.Total)
	}

	pages, err := c.fetchPages(deps, urls, progress)
	if err != nil {
		return err
	}

	meta := sapfodl.NewMetadata(pages[0], c.Title, c.Description, c.Tags)

	dir, err := deps.Store.SaveDownload(deps.Ctx, meta, pages)
	if err != nil {
		return err
	}

	fmt.Fprintf(deps.Stdout, "Saved %d page(s) to %s\n", len(pages), dir)
	return nil
}

// fetchPages downloads and extracts one page per URL, in listed order,
// reporting each completed page through progress. Any failure abandons
// the whole download before anything hits disk.
func (c *DownloadCmd) fetchPages(deps *Dependencies, urls []string, progress sapfodl.FetchProgressFunc) ([]*sapfodl.Page, error) {
	pages := make([]*sapfodl.Page, 0, len(urls))
	for n, url := range urls {
		entry, err := deps.Config.EntryFor(url)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", sapfodl.ErrorMessage(err))
			return nil, err
		}

		text, err := deps.Fetcher.Fetch(deps.Ctx, url)
		if err != nil {
			return nil, fmt.Errorf("fetching %s: %w", url, err)
		}

		page, err := entry.ExtractPage(url, text)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", sapfodl.ErrorMessage(err))
			return nil, err
		}
		pages = append(pages, page)

		progress(sapfodl.FetchProgress{URL: url, Completed: n + 1, Total: len(urls)})
	}
	return pages, nil
}
