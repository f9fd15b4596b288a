package service

import (
	"crypto/sha256"
	"encoding/hex"

	"insightbff/internal/core/langtag"
	"insightbff/internal/core/normalize"
)

// Key is the content address of a translation; regional variants of a language
// share a key
func Key(text, src, dst string) string {
	h := sha256.New()
	h.Write([]byte(normalize.Text(text)))
	h.Write([]byte{0x1f})
	h.Write([]byte(langtag.Base(src)))
	h.Write([]byte{0x1f})
	h.Write([]byte(langtag.Base(dst)))
	return hex.EncodeToString(h.Sum(nil))
}
