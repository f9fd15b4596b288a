// Package htmltext flattens ingested HTML bodies into display text
package htmltext

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const blocks = "p,div,li,h1,h2,h3,h4,h5,h6,blockquote,pre,tr,section,article"

// ToText strips markup, keeping one line per block element. Input without
// markup is returned unchanged
func ToText(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return s
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return s
	}
	doc.Find("script,style,noscript,template").Remove()
	doc.Find("br").ReplaceWithHtml("\n")
	doc.Find(blocks).Each(func(_ int, sel *goquery.Selection) {
		sel.AppendHtml("\n")
	})
	return tidy(doc.Text())
}

// tidy collapses runs of spaces inside lines and drops blank lines
func tidy(s string) string {
	lines := strings.Split(s, "\n")
	out := lines[:0]
	for _, ln := range lines {
		if ln = strings.Join(strings.Fields(ln), " "); ln != "" {
			out = append(out, ln)
		}
	}
	return strings.Join(out, "\n")
}
