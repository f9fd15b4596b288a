// Package signature fingerprints pivot content so derived translations can be
// checked against the source they were produced from
package signature

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Len is the number of hex characters kept from the digest
const Len = 16

// tagKey marks the signature inside a provenance tag ("llm;sig=ab12...")
const tagKey = "sig="

// Of returns the content signature over title, summary and details
func Of(title, summary, details string) string {
	h := sha256.New()
	h.Write([]byte(title))
	h.Write([]byte{'\n'})
	h.Write([]byte(summary))
	h.Write([]byte{'\n'})
	h.Write([]byte(details))
	return hex.EncodeToString(h.Sum(nil))[:Len]
}

// Tag appends sig to a provenance tag
func Tag(model, sig string) string {
	model = strings.TrimSpace(model)
	if sig == "" {
		return model
	}
	if model == "" {
		return tagKey + sig
	}
	return model + ";" + tagKey + sig
}

// FromTag extracts a signature embedded in a provenance tag, "" when absent
func FromTag(model string) string {
	for _, part := range strings.Split(model, ";") {
		part = strings.TrimSpace(part)
		if strings.HasPrefix(part, tagKey) {
			return strings.TrimPrefix(part, tagKey)
		}
	}
	return ""
}
