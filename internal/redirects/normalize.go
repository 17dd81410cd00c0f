package redirects

import (
	"net/url"
	"strings"
)

// NormalizeOldURL canonicalizes an exact-match source path: trimmed,
// lower-cased, with a guaranteed leading slash. Regex patterns are never
// passed through here; they are stored verbatim.
func NormalizeOldURL(oldURL string) string {
	return ensurePrefix(strings.ToLower(strings.TrimSpace(oldURL)), "/")
}

// NormalizeNewURL canonicalizes a redirect target. Absolute URIs are kept
// as-is because off-site paths may be case-sensitive; everything else is
// treated as a local path and normalized like a source path.
func NormalizeNewURL(newURL string) string {
	newURL = strings.TrimSpace(newURL)
	if isAbsoluteURL(newURL) {
		return newURL
	}
	return ensurePrefix(strings.ToLower(newURL), "/")
}

func isAbsoluteURL(s string) bool {
	u, err := url.Parse(s)
	return err == nil && u.IsAbs() && u.Host != ""
}

func ensurePrefix(s, prefix string) string {
	if s == "" {
		return ""
	}
	if strings.HasPrefix(s, prefix) {
		return s
	}
	return prefix + s
}
