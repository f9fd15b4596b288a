// Package langtag parses BCP-47 tags and reduces them to base languages.
// Regional variants share translations, so most callers only ever compare bases
package langtag

import (
	"strings"

	perr "insightbff/internal/platform/errors"

	"golang.org/x/text/language"
)

// Base returns the primary language subtag of tag, lowercased ("de-CH" -> "de")
// Unparseable input falls back to the leading alpha run so legacy rows with
// odd tags still group with their siblings
func Base(tag string) string {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return ""
	}
	if t, err := language.Parse(tag); err == nil {
		b, _ := t.Base()
		if s := b.String(); s != "und" {
			return s
		}
	}
	return leadingAlpha(tag)
}

// SameBase reports whether a and b share a base language
func SameBase(a, b string) bool {
	ba, bb := Base(a), Base(b)
	return ba != "" && ba == bb
}

// Normalize canonicalizes tag ("en-us" -> "en-US") and rejects malformed input
func Normalize(tag string) (string, error) {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return "", perr.InvalidArgf("language tag is empty")
	}
	t, err := language.Parse(tag)
	if err != nil {
		return "", perr.Wrapf(err, perr.ErrorCodeInvalidArgument, "invalid language tag %q", tag)
	}
	return t.String(), nil
}

// OrDefault normalizes tag, returning def for empty input
func OrDefault(tag, def string) (string, error) {
	if strings.TrimSpace(tag) == "" {
		return def, nil
	}
	return Normalize(tag)
}

func leadingAlpha(s string) string {
	end := 0
	for end < len(s) {
		c := s[end]
		if (c < 'a' || c > 'z') && (c < 'A' || c > 'Z') {
			break
		}
		end++
	}
	if end < 2 || end > 8 {
		return ""
	}
	return strings.ToLower(s[:end])
}
