package sapfodl

import (
	"regexp"
	"strings"
)

// EntryFor returns the first config entry whose prefix matches the URL.
// A URL no entry matches cannot be downloaded.
func (c *Config) EntryFor(url string) (*Entry, error) {
	for _, entry := range c.Entries {
		if entry.MatchesURL(url) {
			return entry, nil
		}
	}
	return nil, Errorf(ENOTFOUND, "no config entry matches %q", url)
}

// ExtractPage applies the entry's rules to raw page text and returns the
// page record. Title, body and author name are required; a rule that does
// not match fails the whole download. The body is sanitized for offline
// viewing before the record is returned.
func (e *Entry) ExtractPage(url, page string) (*Page, error) {
	title, err := e.findData(e.Title, "title", page)
	if err != nil {
		return nil, err
	}
	body, err := e.findData(e.Body, "body", page)
	if err != nil {
		return nil, err
	}

	authorName, authorURL, err := e.findAuthor(page)
	if err != nil {
		return nil, err
	}

	description := ""
	if e.Description != nil {
		description, err = e.findData(e.Description, "description", page)
		if err != nil {
			return nil, err
		}
	}

	return &Page{
		URL:         url,
		Title:       title,
		Body:        SanitizeBody(body, url),
		AuthorName:  authorName,
		AuthorURL:   authorURL,
		Description: description,
	}, nil
}

// findData runs a rule and returns its "data" capture group.
func (e *Entry) findData(re *regexp.Regexp, field, page string) (string, error) {
	m := re.FindStringSubmatch(page)
	if m == nil {
		return "", Errorf(ENOTFOUND, "entry %q: %s rule matched nothing", e.Prefix, field)
	}
	i := re.SubexpIndex("data")
	if i < 0 {
		return "", Errorf(EINVALID, "entry %q: %s rule has no data group", e.Prefix, field)
	}
	return m[i], nil
}

// findAuthor returns the author name and link. The url capture group is
// optional; rules without one link the author as "#".
func (e *Entry) findAuthor(page string) (name, url string, err error) {
	m := e.Author.FindStringSubmatch(page)
	if m == nil {
		return "", "", Errorf(ENOTFOUND, "entry %q: author rule matched nothing", e.Prefix)
	}
	i := e.Author.SubexpIndex("name")
	if i < 0 {
		return "", "", Errorf(EINVALID, "entry %q: author rule has no name group", e.Prefix)
	}

	url = "#"
	if ui := e.Author.SubexpIndex("url"); ui >= 0 {
		url = e.formatAuthorURL(m[ui])
	}
	return m[i], url, nil
}

func (e *Entry) formatAuthorURL(fragment string) string {
	if e.AuthorURLFormat == "" {
		return fragment
	}
	return strings.ReplaceAll(e.AuthorURLFormat, "{}", fragment)
}
