// Package sapfodl implements a small web serial downloader. It expands
// brace patterns in URLs, fetches each page, extracts title, body and
// author via per-site regex rules from the user's config, and writes the
// result as a set of linked HTML files with a metadata.json sidecar.
//
// This package contains domain types, interfaces and the pure extraction
// logic. Implementations live in subdirectories named after their primary
// dependency (e.g. http/, fs/).
package sapfodl
