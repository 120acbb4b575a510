package normalize

import (
	"html"
	"net/url"
	"regexp"
	"strings"
	"unicode"
)

var (
	reTags   = regexp.MustCompile(`<[^>]*>`)
	reBreaks = regexp.MustCompile(`(?i)<br\s*/?>|</p>|</li>`)
)

// StripHTML removes markup and entities from a retailer description blob.
// Block-level closers become spaces so words don't run together.
func StripHTML(s string) string {
	s = reBreaks.ReplaceAllString(s, " ")
	s = reTags.ReplaceAllString(s, "")
	return html.UnescapeString(s)
}

// CleanAndTruncate strips markup and control characters, collapses
// whitespace and truncates to max runes. Truncation is rune-based so a
// multi-byte character is never split mid-sequence.
func CleanAndTruncate(s string, max int) string {
	s = StripHTML(s)

	// Drop control and invisible formatting chars (‎ etc.)
	s = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) || unicode.Is(unicode.Cf, r) {
			return -1
		}
		return r
	}, s)

	s = strings.Join(strings.Fields(s), " ")

	if max <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return strings.TrimSpace(string(runes[:max]))
}

// DomainName extracts the bare host from a URL, without the www prefix.
// Malformed input yields an empty string.
func DomainName(rawURL string) string {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || u.Host == "" {
		// Maybe it was passed without a scheme
		u, err = url.Parse("https://" + strings.TrimSpace(rawURL))
		if err != nil || u.Host == "" {
			return ""
		}
	}
	host := strings.ToLower(u.Hostname())
	return strings.TrimPrefix(host, "www.")
}

// DedupeImages builds the alternate image list: the main image is excluded
// and duplicates are dropped, preserving first-seen order.
func DedupeImages(main string, images []string) []string {
	seen := map[string]bool{main: true, "": true}
	var alts []string
	for _, img := range images {
		if seen[img] {
			continue
		}
		seen[img] = true
		alts = append(alts, img)
	}
	return alts
}
