package sapfodl

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

//go:embed default_settings.json
var defaultSettings []byte

// Config holds the download root and the per-site extraction rules.
type Config struct {
	// RootPath is the directory downloads are created under.
	RootPath string

	// Entries are per-site rulesets in config-file order.
	// The first entry whose prefix matches a URL wins.
	Entries []*Entry
}

// Entry is one per-site ruleset, keyed by a URL prefix pattern.
type Entry struct {
	// Prefix is the original pattern as written in the config file.
	Prefix string

	Title       *regexp.Regexp
	Body        *regexp.Regexp
	Author      *regexp.Regexp
	Description *regexp.Regexp // nil when the site defines no rule

	// AuthorURLFormat turns a captured author url fragment into a full
	// URL; "{}" marks the insertion point.
	AuthorURLFormat string

	prefix *regexp.Regexp
}

// MatchesURL reports whether the entry's prefix pattern matches the start
// of the URL, ignoring case.
func (e *Entry) MatchesURL(url string) bool {
	return e.prefix.MatchString(url)
}

// entryRules mirrors the JSON shape of a single config entry.
type entryRules struct {
	Title           string `json:"title"`
	Body            string `json:"body"`
	Author          string `json:"author"`
	Description     string `json:"description"`
	AuthorURLFormat string `json:"author_url_format"`
}

// DefaultConfigPath returns the per-user settings file location,
// e.g. ~/.config/sapfo-dl/settings.json on Linux.
func DefaultConfigPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "sapfo-dl", "settings.json"), nil
}

// LoadConfig reads and parses the settings file at path. A missing file is
// first created from the bundled default settings.
func LoadConfig(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, err
		}
		if err := os.WriteFile(path, defaultSettings, 0o644); err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseConfig(data)
}

// ParseConfig parses settings JSON. The entries object is decoded with a
// token-level pass because entry order decides which ruleset a URL matches
// and encoding/json maps would randomize it.
func ParseConfig(data []byte) (*Config, error) {
	var raw struct {
		Default struct {
			Path string `json:"path"`
		} `json:"default"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, Errorf(EINVALID, "malformed settings file: %s", err)
	}

	entries, err := parseEntries(data)
	if err != nil {
		return nil, err
	}

	root, err := expandHome(raw.Default.Path)
	if err != nil {
		return nil, err
	}

	return &Config{RootPath: root, Entries: entries}, nil
}

func parseEntries(data []byte) ([]*Entry, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	// Walk the top-level object looking for the "entries" key.
	if err := expectDelim(dec, '{'); err != nil {
		return nil, err
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, Errorf(EINVALID, "malformed settings file: %s", err)
		}
		key, _ := tok.(string)
		if key != "entries" {
			var skip json.RawMessage
			if err := dec.Decode(&skip); err != nil {
				return nil, Errorf(EINVALID, "malformed settings file: %s", err)
			}
			continue
		}
		return parseEntriesObject(dec)
	}
	return nil, Errorf(EINVALID, "settings file has no entries")
}

func parseEntriesObject(dec *json.Decoder) ([]*Entry, error) {
	if err := expectDelim(dec, '{'); err != nil {
		return nil, err
	}

	var entries []*Entry
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, Errorf(EINVALID, "malformed settings file: %s", err)
		}
		prefix, _ := tok.(string)

		var rules entryRules
		if err := dec.Decode(&rules); err != nil {
			return nil, Errorf(EINVALID, "entry %q: %s", prefix, err)
		}

		entry, err := compileEntry(prefix, rules)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return Errorf(EINVALID, "malformed settings file: %s", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return Errorf(EINVALID, "malformed settings file: unexpected %v", tok)
	}
	return nil
}

func compileEntry(prefix string, rules entryRules) (*Entry, error) {
	// Anchored like a prefix match: the pattern must match at the start
	// of the URL, case-insensitively.
	prefixRe, err := regexp.Compile("(?i)^(?:" + prefix + ")")
	if err != nil {
		return nil, Errorf(EINVALID, "entry %q: bad prefix pattern: %s", prefix, err)
	}

	entry := &Entry{
		Prefix:          prefix,
		AuthorURLFormat: rules.AuthorURLFormat,
		prefix:          prefixRe,
	}

	required := []struct {
		name    string
		pattern string
		dst     **regexp.Regexp
	}{
		{"title", rules.Title, &entry.Title},
		{"body", rules.Body, &entry.Body},
		{"author", rules.Author, &entry.Author},
	}
	for _, field := range required {
		if field.pattern == "" {
			return nil, Errorf(EINVALID, "entry %q: missing %s rule", prefix, field.name)
		}
		re, err := compileRule(field.pattern)
		if err != nil {
			return nil, Errorf(EINVALID, "entry %q: bad %s rule: %s", prefix, field.name, err)
		}
		*field.dst = re
	}

	if rules.Description != "" {
		re, err := compileRule(rules.Description)
		if err != nil {
			return nil, Errorf(EINVALID, "entry %q: bad description rule: %s", prefix, err)
		}
		entry.Description = re
	}

	return entry, nil
}

// compileRule compiles a field rule with dot-matches-newline and
// case-insensitive matching, the flags every extraction rule runs under.
func compileRule(pattern string) (*regexp.Regexp, error) {
	return regexp.Compile("(?is)" + pattern)
}

func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving %q: %w", path, err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
