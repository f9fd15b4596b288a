// Package chunk splits long text into sentence-bounded pieces for translation
// Concatenating the pieces always reproduces the input byte for byte
package chunk

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Split cuts text into chunks of at most max runes, preferring sentence boundaries.
// Text that already fits (or max <= 0) comes back as a single chunk
func Split(text string, max int) []string {
	if text == "" {
		return nil
	}
	if max <= 0 || utf8.RuneCountInString(text) <= max {
		return []string{text}
	}

	var (
		out  []string
		cur  strings.Builder
		curN int
	)
	flush := func() {
		if curN == 0 {
			return
		}
		out = append(out, cur.String())
		cur.Reset()
		curN = 0
	}

	for _, s := range Sentences(text) {
		n := utf8.RuneCountInString(s)
		if n > max {
			flush()
			out = append(out, hardSplit(s, max)...)
			continue
		}
		if curN+n > max {
			flush()
		}
		cur.WriteString(s)
		curN += n
	}
	flush()
	return out
}

// Sentences segments text into sentences, each keeping its trailing whitespace
func Sentences(text string) []string {
	rs := []rune(text)
	var out []string
	start := 0
	for i := 0; i < len(rs); i++ {
		r := rs[i]
		if !isTerminator(r) {
			continue
		}
		j := i + 1
		if r != '\n' {
			// "?!" and closing quotes stay with the sentence
			for j < len(rs) && rs[j] != '\n' && (isTerminator(rs[j]) || isCloser(rs[j])) {
				j++
			}
			// "3.14" and "e.g.x" are not boundaries
			if j < len(rs) && !unicode.IsSpace(rs[j]) && !isWideTerminator(r) {
				i = j - 1
				continue
			}
		}
		for j < len(rs) && unicode.IsSpace(rs[j]) {
			j++
		}
		out = append(out, string(rs[start:j]))
		start = j
		i = j - 1
	}
	if start < len(rs) {
		out = append(out, string(rs[start:]))
	}
	return out
}

// TrimEdges separates leading and trailing whitespace from the core text
func TrimEdges(s string) (lead, core, trail string) {
	core = strings.TrimRightFunc(s, unicode.IsSpace)
	trail = s[len(core):]
	trimmed := strings.TrimLeftFunc(core, unicode.IsSpace)
	lead = core[:len(core)-len(trimmed)]
	return lead, trimmed, trail
}

// hardSplit cuts a run-on sentence, backing off to the last space in the
// second half of each window when there is one
func hardSplit(s string, max int) []string {
	rs := []rune(s)
	var out []string
	for len(rs) > max {
		cut := max
		for k := max - 1; k >= max/2; k-- {
			if unicode.IsSpace(rs[k]) {
				cut = k + 1
				break
			}
		}
		out = append(out, string(rs[:cut]))
		rs = rs[cut:]
	}
	if len(rs) > 0 {
		out = append(out, string(rs))
	}
	return out
}

func isTerminator(r rune) bool {
	switch r {
	case '.', '!', '?', '…', '\n':
		return true
	}
	return isWideTerminator(r)
}

func isWideTerminator(r rune) bool {
	switch r {
	case '。', '！', '？':
		return true
	}
	return false
}

func isCloser(r rune) bool {
	switch r {
	case '"', '\'', ')', ']', '»', '”', '’', '」':
		return true
	}
	return false
}
