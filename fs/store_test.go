package fs_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	sapfodl "github.com/nycz/sapfo-dl"
	"github.com/nycz/sapfo-dl/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPage(url, title string) *sapfodl.Page {
	return &sapfodl.Page{
		URL:         url,
		Title:       title,
		Body:        `<p>Once upon a <em>time</em>.</p>`,
		AuthorName:  "nycz",
		AuthorURL:   "http://site.com/u/42",
		Description: "A short tale",
	}
}

func parseFile(t *testing.T, path string) *goquery.Document {
	t.Helper()

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	doc, err := goquery.NewDocumentFromReader(f)
	require.NoError(t, err)
	return doc
}

func TestStore_SaveDownload_SinglePage(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	store := fs.NewStore(base)
	meta := &sapfodl.Metadata{Title: "The Story", Description: "A short tale", Tags: []string{"x"}}

	dir, err := store.SaveDownload(context.Background(), meta, []*sapfodl.Page{
		testPage("http://site.com/story", "The Story"),
	})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(base, "The Story"), dir)

	// No page-number suffix on a single-page download.
	names, err := filepath.Glob(filepath.Join(dir, "*.html"))
	require.NoError(t, err)
	require.Len(t, names, 1)
	assert.Equal(t, filepath.Join(dir, "The Story.html"), names[0])

	doc := parseFile(t, names[0])
	assert.Equal(t, "The Story", doc.Find("h1").Text())
	assert.Equal(t, "time", doc.Find("em").Text())

	// Controls fragments are present but empty.
	controls := doc.Find("div.controls")
	assert.Equal(t, 2, controls.Length())
	assert.Empty(t, strings.TrimSpace(controls.First().Text()))
}

func TestStore_SaveDownload_WritesMetadataSidecar(t *testing.T) {
	t.Parallel()

	store := fs.NewStore(t.TempDir())
	meta := &sapfodl.Metadata{Title: "The Story", Description: "A short tale", Tags: []string{"fantasy", "wip"}}

	dir, err := store.SaveDownload(context.Background(), meta, []*sapfodl.Page{
		testPage("http://site.com/story", "The Story"),
	})
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "metadata.json"))
	require.NoError(t, err)

	var got sapfodl.Metadata
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, *meta, got)
}

func TestStore_SaveDownload_ThreePages(t *testing.T) {
	t.Parallel()

	store := fs.NewStore(t.TempDir())
	meta := &sapfodl.Metadata{Title: "The Story", Tags: []string{}}
	pages := []*sapfodl.Page{
		testPage("http://site.com/p1", "The Story"),
		testPage("http://site.com/p2", "The Story"),
		testPage("http://site.com/p3", "The Story"),
	}

	dir, err := store.SaveDownload(context.Background(), meta, pages)
	require.NoError(t, err)

	for _, name := range []string{
		"The Story - Page 001.html",
		"The Story - Page 002.html",
		"The Story - Page 003.html",
	} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err, name)
	}

	// Page 1: no prev link, one next link.
	doc := parseFile(t, filepath.Join(dir, "The Story - Page 001.html"))
	links := doc.Find("div.controls").First().Find("a")
	require.Equal(t, 1, links.Length())
	href, _ := links.Attr("href")
	assert.Equal(t, "The Story - Page 002.html", href)

	// Page 2: prev and next links plus the position label.
	doc = parseFile(t, filepath.Join(dir, "The Story - Page 002.html"))
	controls := doc.Find("div.controls").First()
	links = controls.Find("a")
	require.Equal(t, 2, links.Length())
	prev, _ := links.First().Attr("href")
	next, _ := links.Last().Attr("href")
	assert.Equal(t, "The Story - Page 001.html", prev)
	assert.Equal(t, "The Story - Page 003.html", next)
	assert.Equal(t, "Page 2/3", controls.Find("strong").Text())

	// Page 3: only a prev link.
	doc = parseFile(t, filepath.Join(dir, "The Story - Page 003.html"))
	links = doc.Find("div.controls").First().Find("a")
	require.Equal(t, 1, links.Length())
	href, _ = links.Attr("href")
	assert.Equal(t, "The Story - Page 002.html", href)
}

func TestStore_SaveDownload_DisambiguatesDirectory(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	store := fs.NewStore(base)
	meta := &sapfodl.Metadata{Title: "The Story", Tags: []string{}}
	pages := []*sapfodl.Page{testPage("http://site.com/story", "The Story")}

	ctx := context.Background()
	first, err := store.SaveDownload(ctx, meta, pages)
	require.NoError(t, err)
	second, err := store.SaveDownload(ctx, meta, pages)
	require.NoError(t, err)
	third, err := store.SaveDownload(ctx, meta, pages)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(base, "The Story"), first)
	assert.Equal(t, filepath.Join(base, "The Story-2"), second)
	assert.Equal(t, filepath.Join(base, "The Story-3"), third)
}

func TestStore_SaveDownload_CreatesBaseDir(t *testing.T) {
	t.Parallel()

	base := filepath.Join(t.TempDir(), "downloads", "sapfo")
	store := fs.NewStore(base)
	meta := &sapfodl.Metadata{Title: "T", Tags: []string{}}

	dir, err := store.SaveDownload(context.Background(), meta, []*sapfodl.Page{
		testPage("http://site.com/story", "T"),
	})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(base, "T"), dir)
}

func TestDirName(t *testing.T) {
	t.Parallel()

	t.Run("replaces path separators", func(t *testing.T) {
		t.Parallel()

		name, err := fs.DirName("a/b\\c")
		require.NoError(t, err)
		assert.Equal(t, "a-b-c", name)
	})

	t.Run("rejects unusable titles", func(t *testing.T) {
		t.Parallel()

		for _, title := range []string{"", ".", ".."} {
			_, err := fs.DirName(title)
			assert.Error(t, err, "title %q", title)
		}
	})
}

func TestPageFileName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "The Story.html", fs.PageFileName("The Story", 0, 1))
	assert.Equal(t, "The Story - Page 001.html", fs.PageFileName("The Story", 0, 3))
	assert.Equal(t, "The Story - Page 010.html", fs.PageFileName("The Story", 9, 12))
}

func TestControls(t *testing.T) {
	t.Parallel()

	t.Run("single page is empty", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, `<div class="controls"></div>`, fs.Controls("T", 0, 1))
	})

	t.Run("first page omits prev", func(t *testing.T) {
		t.Parallel()

		got := fs.Controls("T", 0, 3)
		assert.NotContains(t, got, "Prev")
		assert.Contains(t, got, "Page 1/3")
		assert.Contains(t, got, `href="T - Page 002.html"`)
	})

	t.Run("last page omits next", func(t *testing.T) {
		t.Parallel()

		got := fs.Controls("T", 2, 3)
		assert.NotContains(t, got, "Next")
		assert.Contains(t, got, "Page 3/3")
		assert.Contains(t, got, `href="T - Page 002.html"`)
	})
}
