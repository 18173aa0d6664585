package sapfodl

import "regexp"

var tagSplitRe = regexp.MustCompile(`\s*,\s*`)

// Metadata is the sidecar record written once per download.
type Metadata struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
}

// NewMetadata builds the download metadata from the first fetched page.
// Non-empty title and description arguments override the extracted values;
// tags is a comma-separated list from the command line.
func NewMetadata(first *Page, title, description, tags string) *Metadata {
	if title == "" {
		title = first.Title
	}
	if description == "" {
		description = first.Description
	}
	return &Metadata{
		Title:       title,
		Description: description,
		Tags:        SplitTags(tags),
	}
}

// SplitTags splits a comma-separated tag list, trimming whitespace around
// each comma. An empty input yields an empty, non-nil slice so the sidecar
// serializes as [] rather than null.
func SplitTags(tags string) []string {
	if tags == "" {
		return []string{}
	}
	return tagSplitRe.Split(tags, -1)
}
