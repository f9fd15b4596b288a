// Package normalize produces the canonical form of text used for translation cache keys
// Pipeline order
// 1 UTF-8 repair drop invalid bytes
// 2 Drop control characters except newline and tab
// 3 Unicode NFC composition
// 4 Remove format characters (ZWSP, ZWJ, BOM)
// 5 Collapse whitespace runs and trim
// Case and punctuation are kept; they change what a translator returns
package normalize

import (
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// pool of fresh transformer chains; a chain carries state and is not goroutine safe
var chainPool = sync.Pool{
	New: func() any {
		return transform.Chain(
			norm.NFC,
			runes.Remove(runes.In(unicode.Cf)),
		)
	},
}

// Text returns the cache-key form of s
func Text(s string) string {
	if s == "" {
		return ""
	}

	s = strings.ToValidUTF8(s, "")
	s = dropControls(s)

	tr := chainPool.Get().(transform.Transformer)
	ns, _, err := transform.String(tr, s)
	tr.Reset()
	chainPool.Put(tr)
	if err != nil {
		ns = s
	}

	return collapseSpaces(ns)
}

// Equal reports whether a and b share a cache-key form
func Equal(a, b string) bool { return Text(a) == Text(b) }

// dropControls removes C0/C1 controls and DEL, keeping '\n', '\r' and '\t'
func dropControls(s string) string {
	clean := true
	for _, r := range s {
		if isDroppedControl(r) {
			clean = false
			break
		}
	}
	if clean {
		return s
	}
	return strings.Map(func(r rune) rune {
		if isDroppedControl(r) {
			return -1
		}
		return r
	}, s)
}

func isDroppedControl(r rune) bool {
	switch r {
	case '\n', '\r', '\t':
		return false
	}
	return r < 0x20 || r == 0x7F || (r >= 0x80 && r <= 0x9F)
}

// collapseSpaces turns each whitespace run into one space, or one newline when the run
// holds a line break, then trims the edges
func collapseSpaces(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	inWS, sawNL := false, false
	flush := func() {
		if !inWS {
			return
		}
		if sawNL {
			b.WriteByte('\n')
		} else {
			b.WriteByte(' ')
		}
		inWS, sawNL = false, false
	}
	for _, r := range s {
		if unicode.IsSpace(r) {
			if b.Len() == 0 {
				continue
			}
			inWS = true
			if r == '\n' || r == '\r' {
				sawNL = true
			}
			continue
		}
		flush()
		b.WriteRune(r)
	}
	return b.String()
}
