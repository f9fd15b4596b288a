package service

import (
	"strings"

	"insightbff/internal/core/langtag"
	"insightbff/internal/core/signature"
	"insightbff/internal/services/resolver/domain"
)

// State classifies a target row against its pivot
type State uint8

// States in evaluation order
const (
	StateMissing State = iota
	StateFresh
	StateStale
	StateLegacy
	StateStub
)

var stateNames = [...]string{"missing", "fresh", "stale", "legacy", "stub"}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "unknown"
}

// rowSig is the pivot signature a row was derived from, "" when it carries none
func rowSig(r domain.Row) string {
	if r.PivotHash != "" {
		return r.PivotHash
	}
	return signature.FromTag(r.Model)
}

// Classify decides whether target can be served as is. A stub marker or a field
// copied verbatim from a pivot in another language always forces a refresh. A row
// that carries a signature is fresh only when it matches pivotSig; rows without
// one fall back to comparing creation times
func Classify(target *domain.Row, pivot domain.Row, pivotSig, marker string) State {
	if target == nil {
		return StateMissing
	}
	if stubMarked(*target, marker) {
		return StateStub
	}
	if legacyCopy(*target, pivot) {
		return StateLegacy
	}
	if sig := rowSig(*target); sig != "" {
		if sig == pivotSig {
			return StateFresh
		}
		return StateStale
	}
	if !target.CreatedAt.Before(pivot.CreatedAt) {
		return StateFresh
	}
	return StateStale
}

func stubMarked(r domain.Row, marker string) bool {
	m := strings.TrimSpace(marker)
	if m == "" {
		return false
	}
	return strings.Contains(r.Title, m) || strings.Contains(r.Summary, m) || strings.Contains(r.Details, m)
}

func legacyCopy(r, pivot domain.Row) bool {
	if langtag.SameBase(r.Lang, pivot.Lang) {
		return false
	}
	same := func(a, b string) bool { return a != "" && a == b }
	return same(r.Title, pivot.Title) || same(r.Summary, pivot.Summary) || same(r.Details, pivot.Details)
}
