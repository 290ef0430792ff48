// Package compose builds platform messages from article metadata: text
// with the announced URL appended, headline-only truncation against the
// platform character limit, and platform-specific link annotations and
// preview attachments.
package compose

import "unicode/utf8"

// buildText joins headline and URL with a single space, cutting the
// headline (never the URL) so the result fits limit exactly when the
// untruncated pair would overflow. Limits count characters, not bytes.
// It returns the final text and the possibly-truncated headline.
func buildText(headline, url string, limit int) (string, string) {
	if utf8.RuneCountInString(headline)+1+utf8.RuneCountInString(url) <= limit {
		return headline + " " + url, headline
	}

	maxHeadline := limit - utf8.RuneCountInString(url) - 1
	if maxHeadline <= 0 {
		// The URL alone fills or exceeds the limit. The URL is never
		// cut, so the text is the bare URL with no separator.
		return url, ""
	}
	headline = truncateRunes(headline, maxHeadline)
	return headline + " " + url, headline
}

func truncateRunes(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	return string([]rune(s)[:limit])
}
