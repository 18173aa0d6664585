package sapfodl

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	dotExpRe   = regexp.MustCompile(`\{(0*)(\d+)\.\.(\d+)\}`)
	commaExpRe = regexp.MustCompile(`\{(.+?)\}`)
)

// ExpandURL expands a bash-like brace expression in a URL.
//
//	url{x,y,} -> urlx, urly and url
//	url{1..3} -> url1, url2 and url3
//
// Zero-padding of range expansions is inferred from leading zeros in the
// start number, so {01..03} yields 01, 02, 03. Descending ranges like
// {3..1} are not supported. Only the first brace expression is expanded;
// a URL without braces is returned unchanged as a single-element slice.
func ExpandURL(rawURL string) ([]string, error) {
	if m := dotExpRe.FindStringSubmatch(rawURL); m != nil {
		return expandRange(rawURL, m)
	}
	if m := commaExpRe.FindStringSubmatch(rawURL); m != nil {
		return expandList(rawURL, m), nil
	}
	return []string{rawURL}, nil
}

func expandRange(rawURL string, m []string) ([]string, error) {
	padding, start, end := m[1], m[2], m[3]

	// The numbers fit in an int by construction unless the pattern is
	// absurdly long; treat overflow as invalid input.
	first, err := strconv.Atoi(start)
	if err != nil {
		return nil, Errorf(EINVALID, "range start %q out of bounds", start)
	}
	last, err := strconv.Atoi(end)
	if err != nil {
		return nil, Errorf(EINVALID, "range end %q out of bounds", end)
	}
	if first > last {
		return nil, Errorf(EINVALID, "descending range {%s..%s} not supported", start, end)
	}

	width := len(padding) + 1
	urls := make([]string, 0, last-first+1)
	for n := first; n <= last; n++ {
		num := fmt.Sprintf("%0*d", width, n)
		urls = append(urls, strings.ReplaceAll(rawURL, m[0], num))
	}
	return urls, nil
}

func expandList(rawURL string, m []string) []string {
	parts := strings.Split(m[1], ",")
	urls := make([]string, 0, len(parts))
	for _, part := range parts {
		urls = append(urls, strings.ReplaceAll(rawURL, m[0], part))
	}
	return urls
}
