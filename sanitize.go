package sapfodl

import (
	"regexp"
	"strings"
)

var (
	anchorRe   = regexp.MustCompile(`(?i)<a href="`)
	fontFaceRe = regexp.MustCompile(`(?i)(<font\b[^>]*?)\s*face="[^"]*"`)
	fontSizeRe = regexp.MustCompile(`(?i)(<font\b[^>]*?)\s*size="[^"]*"`)
)

// SanitizeBody rewrites extracted body HTML for offline viewing: relative
// links are made absolute against the page URL, and font face/size styling
// is stripped while other <font> attributes are preserved.
func SanitizeBody(body, pageURL string) string {
	return stripFontStyling(absolutizeLinks(body, pageURL))
}

// BaseURL returns the page URL with its last path segment dropped and a
// trailing slash added, e.g. http://x.com/dir/page.html -> http://x.com/dir/.
func BaseURL(pageURL string) string {
	segments := strings.Split(pageURL, "/")
	return strings.Join(segments[:len(segments)-1], "/") + "/"
}

// absolutizeLinks prepends the page's base URL to every <a href="..."
// target that is not already absolute. Go's regexp has no lookahead, so
// the check for an absolute target inspects the text after each match.
func absolutizeLinks(body, pageURL string) string {
	base := BaseURL(pageURL)

	var b strings.Builder
	prev := 0
	for _, loc := range anchorRe.FindAllStringIndex(body, -1) {
		b.WriteString(body[prev:loc[1]])
		rest := body[loc[1]:]
		if !isAbsoluteTarget(rest) {
			if strings.HasPrefix(rest, "/") {
				// Root-relative target; keep a single slash.
				b.WriteString(strings.TrimSuffix(base, "/"))
			} else {
				b.WriteString(base)
			}
		}
		prev = loc[1]
	}
	b.WriteString(body[prev:])
	return b.String()
}

func isAbsoluteTarget(rest string) bool {
	if len(rest) > 7 {
		rest = rest[:7]
	}
	rest = strings.ToLower(rest)
	return strings.HasPrefix(rest, "http://") || strings.HasPrefix(rest, "www")
}

func stripFontStyling(body string) string {
	body = fontFaceRe.ReplaceAllString(body, "${1}")
	body = fontSizeRe.ReplaceAllString(body, "${1}")
	return body
}
