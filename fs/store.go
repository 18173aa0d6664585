// Package fs provides file-based storage for downloads.
package fs

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	sapfodl "github.com/nycz/sapfo-dl"
)

// pageTemplate is the fixed page layout. text/template rather than
// html/template: the body is already HTML and must not be escaped.
const pageTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
</head>
<body>
{{.Controls}}
<h1>{{.Title}}</h1>
<p class="info">by <a href="{{.AuthorURL}}">{{.AuthorName}}</a> &ndash; <a href="{{.URL}}">source</a></p>
<p class="description">{{.Description}}</p>
<hr>
{{.Body}}
{{.Controls}}
</body>
</html>
`

var pageTmpl = template.Must(template.New("page").Parse(pageTemplate))

// Ensure Store implements sapfodl.DownloadStore at compile time.
var _ sapfodl.DownloadStore = (*Store)(nil)

// Store writes downloads below a base directory. Pages are rendered into a
// temporary directory first and renamed into place in one step, so a failed
// download never leaves a partial result behind.
type Store struct {
	baseDir string
}

// NewStore creates a new Store rooted at baseDir.
func NewStore(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

// SaveDownload renders every page plus the metadata sidecar into a new
// directory named after the title, disambiguated with a -2, -3, ... suffix
// when the name is taken. Returns the directory path.
func (s *Store) SaveDownload(ctx context.Context, meta *sapfodl.Metadata, pages []*sapfodl.Page) (string, error) {
	name, err := DirName(meta.Title)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(s.baseDir, 0o755); err != nil {
		return "", err
	}

	tmp := filepath.Join(s.baseDir, name+".tmp")
	if err := s.writeAll(tmp, name, meta, pages); err != nil {
		_ = os.RemoveAll(tmp)
		return "", err
	}

	final, err := s.commit(tmp, name)
	if err != nil {
		_ = os.RemoveAll(tmp)
		return "", err
	}
	return final, nil
}

func (s *Store) writeAll(tmp, name string, meta *sapfodl.Metadata, pages []*sapfodl.Page) error {
	if err := os.MkdirAll(tmp, 0o755); err != nil {
		return err
	}

	sidecar, err := json.MarshalIndent(meta, "", "    ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(tmp, "metadata.json"), append(sidecar, '\n'), 0o644); err != nil {
		return err
	}

	for n, page := range pages {
		out, err := renderPage(page, Controls(name, n, len(pages)))
		if err != nil {
			return err
		}
		fname := PageFileName(name, n, len(pages))
		if err := os.WriteFile(filepath.Join(tmp, fname), []byte(out), 0o644); err != nil {
			return err
		}
	}
	return nil
}

// commit renames the temp directory to the first free candidate name:
// name, name-2, name-3 and so on.
func (s *Store) commit(tmp, name string) (string, error) {
	candidate := filepath.Join(s.baseDir, name)
	for counter := 2; ; counter++ {
		if _, err := os.Stat(candidate); os.IsNotExist(err) {
			break
		}
		candidate = filepath.Join(s.baseDir, fmt.Sprintf("%s-%d", name, counter))
	}

	if err := os.Rename(tmp, candidate); err != nil {
		return "", err
	}
	return candidate, nil
}

func renderPage(page *sapfodl.Page, controls string) (string, error) {
	var b strings.Builder
	data := struct {
		*sapfodl.Page
		Controls string
	}{page, controls}
	if err := pageTmpl.Execute(&b, data); err != nil {
		return "", err
	}
	return b.String(), nil
}

// DirName sanitizes a download title into a directory name. Path
// separators and NUL bytes are replaced so the title cannot escape the
// download root.
func DirName(title string) (string, error) {
	name := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', 0:
			return '-'
		}
		return r
	}, title)

	if name == "" || name == "." || name == ".." {
		return "", sapfodl.Errorf(sapfodl.EINVALID, "title %q yields no usable directory name", title)
	}
	return name, nil
}

// PageFileName returns the file name for page n (zero-based) of total.
// Single-page downloads carry no page suffix.
func PageFileName(name string, n, total int) string {
	if total == 1 {
		return name + ".html"
	}
	return fmt.Sprintf("%s - Page %03d.html", name, n+1)
}

// Controls renders the pagination fragment for page n (zero-based) of
// total. A single-page download gets an empty fragment.
func Controls(name string, n, total int) string {
	if total == 1 {
		return `<div class="controls"></div>`
	}

	sibling := func(pageNum int) string {
		return fmt.Sprintf("%s - Page %03d.html", name, pageNum)
	}

	var b strings.Builder
	if n > 0 {
		fmt.Fprintf(&b, `<a href="%s">&lt;-- Prev</a> | `, sibling(n))
	}
	fmt.Fprintf(&b, "  <strong>Page %d/%d</strong>  ", n+1, total)
	if n < total-1 {
		fmt.Fprintf(&b, ` | <a href="%s">Next --&gt;</a>`, sibling(n+2))
	}
	return `<div class="controls">` + b.String() + `</div>`
}
