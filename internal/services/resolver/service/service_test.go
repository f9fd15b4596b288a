package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"insightbff/internal/core/signature"
	perr "insightbff/internal/platform/errors"
	"insightbff/internal/services/resolver/domain"
)

var t0 = time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)

func TestEnsure_NoPivot(t *testing.T) {
	t.Parallel()

	s, _ := newTestSvc(&memRepo{}, &fakeTranslator{}, Config{})
	res, err := s.Ensure(context.Background(), "c1", "de")
	if err != nil || res != nil {
		t.Fatalf("Ensure = (%v, %v), want (nil, nil)", res, err)
	}
}

func TestEnsure_RequiresIDAndLang(t *testing.T) {
	t.Parallel()

	s, _ := newTestSvc(&memRepo{}, &fakeTranslator{}, Config{})
	if _, err := s.Ensure(context.Background(), "", "de"); perr.CodeOf(err) != perr.ErrorCodeInvalidArgument {
		t.Fatalf("empty id err = %v", err)
	}
	if _, err := s.Ensure(context.Background(), "c1", ""); perr.CodeOf(err) != perr.ErrorCodeInvalidArgument {
		t.Fatalf("empty lang err = %v", err)
	}
}

func TestEnsure_SameBaseLanguageShortCircuits(t *testing.T) {
	t.Parallel()

	repo := &memRepo{}
	pivot := repo.add(pivotRow("c1", t0))
	tr := &fakeTranslator{}
	s, _ := newTestSvc(repo, tr, Config{})

	res, err := s.Ensure(context.Background(), "c1", "en-US")
	if err != nil {
		t.Fatalf("Ensure: %v", err)
	}
	if res.Title != pivot.Title || res.Details != pivot.Details || res.IsTranslated || res.TranslatedFrom != "" {
		t.Fatalf("res = %+v", res)
	}
	if tr.calls.Load() != 0 || repo.inserts != 0 {
		t.Fatalf("calls=%d inserts=%d, want 0/0", tr.calls.Load(), repo.inserts)
	}
}

func TestEnsure_IdempotentResolution(t *testing.T) {
	t.Parallel()

	repo := &memRepo{}
	repo.add(pivotRow("c1", t0))
	tr := &fakeTranslator{}
	s, _ := newTestSvc(repo, tr, Config{})
	ctx := context.Background()

	first, err := s.Ensure(ctx, "c1", "de")
	if err != nil || !hasPrefix(first, "[de] ") {
		t.Fatalf("first = (%+v, %v)", first, err)
	}
	if !first.IsTranslated || first.TranslatedFrom != "en" || first.Lang != "de" {
		t.Fatalf("first provenance = %+v", first)
	}
	second, err := s.Ensure(ctx, "c1", "de-AT")
	if err != nil {
		t.Fatalf("second: %v", err)
	}
	if tr.calls.Load() != 1 {
		t.Fatalf("translator calls = %d, want 1", tr.calls.Load())
	}
	if *second != *first {
		t.Fatalf("second = %+v, want %+v", second, first)
	}
	rows := repo.current("c1", "de")
	if len(rows) != 1 {
		t.Fatalf("current de rows = %d", len(rows))
	}
	sig := signature.Of("Storm hits coast", "A storm made landfall.", "Winds reached 150 km/h overnight.")
	if rows[0].PivotHash != sig || signature.FromTag(rows[0].Model) != sig {
		t.Fatalf("row provenance = %q / %q", rows[0].PivotHash, rows[0].Model)
	}
}

func TestEnsure_RefreshesOutdatedRows(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		row  domain.Row
	}{
		{"signature mismatch", domain.Row{Lang: "de", Title: "Alt", Summary: "Alt", Details: "Alt",
			CreatedAt: t0.Add(-time.Hour), PivotHash: "0000000000000000"}},
		{"older without signature", domain.Row{Lang: "de", Title: "Alt", Summary: "Alt", Details: "Alt",
			CreatedAt: t0.Add(-time.Hour)}},
		{"stub marker", domain.Row{Lang: "de", Title: "Storm hits coast [untranslated]", Summary: "x", Details: "y",
			CreatedAt: t0.Add(time.Hour)}},
		{"legacy copy", domain.Row{Lang: "de", Title: "Storm hits coast", Summary: "Sturm", Details: "Wind",
			CreatedAt: t0.Add(time.Hour)}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := &memRepo{}
			repo.add(pivotRow("c1", t0))
			tc.row.ClusterID = "c1"
			old := repo.add(tc.row)
			tr := &fakeTranslator{}
			s, db := newTestSvc(repo, tr, Config{LockTimeout: 2 * time.Second})

			res, err := s.Ensure(context.Background(), "c1", "de")
			if err != nil || !hasPrefix(res, "[de] ") {
				t.Fatalf("Ensure = (%+v, %v)", res, err)
			}
			if tr.calls.Load() != 1 {
				t.Fatalf("translator calls = %d", tr.calls.Load())
			}
			if repo.byID(old.ID).IsCurrent {
				t.Fatal("old row still current")
			}
			rows := repo.current("c1", "de")
			if len(rows) != 1 || rows[0].Title != res.Title {
				t.Fatalf("current rows = %+v", rows)
			}
			if db.txs.Load() != 1 || len(db.execs) != 1 {
				t.Fatalf("txs=%d execs=%v, want one tx with a lock timeout", db.txs.Load(), db.execs)
			}
		})
	}
}

func TestEnsure_FreshRowServedAsIs(t *testing.T) {
	t.Parallel()

	repo := &memRepo{}
	p := repo.add(pivotRow("c1", t0))
	sig := signature.Of(p.Title, p.Summary, p.Details)
	repo.add(domain.Row{ClusterID: "c1", Lang: "de", Title: "Sturm", Summary: "Ein Sturm.", Details: "Wind.",
		CreatedAt: t0.Add(-time.Hour), PivotHash: sig})
	tr := &fakeTranslator{}
	s, _ := newTestSvc(repo, tr, Config{})

	res, err := s.Ensure(context.Background(), "c1", "de")
	if err != nil || res.Title != "Sturm" || !res.IsTranslated {
		t.Fatalf("Ensure = (%+v, %v)", res, err)
	}
	if tr.calls.Load() != 0 {
		t.Fatalf("translator calls = %d", tr.calls.Load())
	}
}

func TestEnsureDedup_ConcurrentCallersShareOneResolution(t *testing.T) {
	t.Parallel()

	repo := &memRepo{}
	repo.add(pivotRow("c1", t0))
	tr := &fakeTranslator{gate: make(chan struct{})}
	s, _ := newTestSvc(repo, tr, Config{})

	const n = 10
	var wg sync.WaitGroup
	out := make([]*domain.Resolved, n)
	errs := make([]error, n)
	langs := []string{"de", "de-CH", "de-DE"}
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			out[i], errs[i] = s.EnsureDedup(context.Background(), "c1", langs[i%len(langs)])
		}(i)
	}
	// every caller either joins the running resolution or finds its row
	time.Sleep(50 * time.Millisecond)
	close(tr.gate)
	wg.Wait()

	if tr.calls.Load() != 1 {
		t.Fatalf("translator calls = %d, want 1", tr.calls.Load())
	}
	if repo.inserts != 1 {
		t.Fatalf("inserts = %d, want 1", repo.inserts)
	}
	for i := range out {
		if errs[i] != nil || out[i] == nil || *out[i] != *out[0] {
			t.Fatalf("caller %d = (%+v, %v)", i, out[i], errs[i])
		}
	}
}

func TestEnsure_WriteFailureStillReturnsText(t *testing.T) {
	t.Parallel()

	repo := &memRepo{insertErr: errBoom}
	repo.add(pivotRow("c1", t0))
	s, _ := newTestSvc(repo, &fakeTranslator{}, Config{})

	res, err := s.Ensure(context.Background(), "c1", "fr")
	if err != nil || !hasPrefix(res, "[fr] ") {
		t.Fatalf("Ensure = (%+v, %v)", res, err)
	}
}

func TestEnsure_RaceGuardReturnsConcurrentRow(t *testing.T) {
	t.Parallel()

	repo := &memRepo{}
	p := repo.add(pivotRow("c1", t0))
	sig := signature.Of(p.Title, p.Summary, p.Details)
	tr := &fakeTranslator{}
	tr.during = func() {
		repo.add(domain.Row{ClusterID: "c1", Lang: "fr", Title: "Tempête", Summary: "Une tempête.",
			Details: "Vent.", CreatedAt: t0.Add(time.Minute), PivotHash: sig})
	}
	s, _ := newTestSvc(repo, tr, Config{})

	res, err := s.Ensure(context.Background(), "c1", "fr")
	if err != nil || res.Title != "Tempête" {
		t.Fatalf("Ensure = (%+v, %v)", res, err)
	}
	if repo.inserts != 0 || len(repo.current("c1", "fr")) != 1 {
		t.Fatalf("inserts = %d", repo.inserts)
	}
}

func TestEnsure_DuplicateKeyIsBenign(t *testing.T) {
	t.Parallel()

	repo := &memRepo{}
	repo.add(pivotRow("c1", t0))
	tr := &fakeTranslator{}
	// a stale row lands after the race guard read, so the insert collides
	tr.during = func() {
		repo.add(domain.Row{ClusterID: "c1", Lang: "fr", Title: "Alt", Summary: "Alt", Details: "Alt",
			CreatedAt: t0.Add(-time.Hour), PivotHash: "ffffffffffffffff"})
	}
	s, _ := newTestSvc(repo, tr, Config{})

	res, err := s.Ensure(context.Background(), "c1", "fr")
	if err != nil || !hasPrefix(res, "[fr] ") {
		t.Fatalf("Ensure = (%+v, %v)", res, err)
	}
	if repo.inserts != 0 {
		t.Fatalf("inserts = %d, want the collision to be swallowed", repo.inserts)
	}
}

func TestEnsure_UnchangedTranslationNotPersisted(t *testing.T) {
	t.Parallel()

	repo := &memRepo{}
	repo.add(pivotRow("c1", t0))
	s, _ := newTestSvc(repo, &fakeTranslator{same: true}, Config{})

	res, err := s.Ensure(context.Background(), "c1", "it")
	if err != nil || res.Title != "Storm hits coast" || !res.IsTranslated {
		t.Fatalf("Ensure = (%+v, %v)", res, err)
	}
	if repo.inserts != 0 {
		t.Fatalf("inserts = %d", repo.inserts)
	}
}

func TestEnsure_PartlyVerbatimTranslationNotPersisted(t *testing.T) {
	t.Parallel()

	repo := &memRepo{}
	p := repo.add(pivotRow("c1", t0))
	tr := &fakeTranslator{keepTitle: true}
	s, _ := newTestSvc(repo, tr, Config{})
	ctx := context.Background()

	for i := range 3 {
		res, err := s.Ensure(ctx, "c1", "de")
		if err != nil || res.Title != p.Title || res.Summary != "[de] "+p.Summary || !res.IsTranslated {
			t.Fatalf("read %d: Ensure = (%+v, %v)", i, res, err)
		}
	}
	if repo.inserts != 0 || len(repo.current("c1", "de")) != 0 {
		t.Fatalf("inserts = %d, current de rows = %d, want none", repo.inserts, len(repo.current("c1", "de")))
	}
}

func TestEnsure_IngestedRowStaysGroundTruth(t *testing.T) {
	t.Parallel()

	repo := &memRepo{}
	de := repo.add(domain.Row{ClusterID: "c1", Lang: "de", Title: "Sturm", Summary: "Ein Sturm.", Details: "Wind.", CreatedAt: t0, Model: "ingest"})
	tr := &fakeTranslator{}
	s, _ := newTestSvc(repo, tr, Config{PivotLang: "en"})
	ctx := context.Background()

	en, err := s.Ensure(ctx, "c1", "en")
	if err != nil || en.Title != "[en] Sturm" || en.TranslatedFrom != "de" {
		t.Fatalf("Ensure(en) = (%+v, %v)", en, err)
	}
	if len(repo.current("c1", "en")) != 1 {
		t.Fatal("derived en row not stored")
	}

	got, err := s.Ensure(ctx, "c1", "de")
	if err != nil || got.Title != "Sturm" || got.IsTranslated {
		t.Fatalf("Ensure(de) = (%+v, %v)", got, err)
	}
	if !repo.byID(de.ID).IsCurrent {
		t.Fatal("ingested de row was retired")
	}

	// the stored en row is fresh against the ingested pivot
	if _, err := s.Ensure(ctx, "c1", "en"); err != nil || tr.calls.Load() != 1 || repo.inserts != 1 {
		t.Fatalf("err=%v calls=%d inserts=%d, want nil/1/1", err, tr.calls.Load(), repo.inserts)
	}
}

func TestEnsure_OriginalBodyPassesThroughProvider(t *testing.T) {
	t.Parallel()

	repo := &memRepo{}
	p := pivotRow("c1", t0)
	p.Model = "ingest;Original-Body"
	p.Details = "<p>Winds reached <b>150 km/h</b>.</p><script>x()</script>"
	repo.add(p)
	tr := &fakeTranslator{}
	s, _ := newTestSvc(repo, tr, Config{OriginalBodyTags: []string{" original-body "}})

	res, err := s.Ensure(context.Background(), "c1", "en")
	if err != nil || res.Details != "[norm] Winds reached 150 km/h." || res.IsTranslated {
		t.Fatalf("Ensure = (%+v, %v)", res, err)
	}
	if tr.calls.Load() != 1 || repo.inserts != 0 {
		t.Fatalf("calls=%d inserts=%d", tr.calls.Load(), repo.inserts)
	}
	if tr.got[0].Details != "Winds reached 150 km/h." {
		t.Fatalf("provider saw %q", tr.got[0].Details)
	}
}

func TestEnsure_ReadFailureSurfaces(t *testing.T) {
	t.Parallel()

	s, _ := newTestSvc(&memRepo{readErr: errBoom}, &fakeTranslator{}, Config{})
	if _, err := s.Ensure(context.Background(), "c1", "de"); !errors.Is(err, errBoom) {
		t.Fatalf("err = %v", err)
	}
}

func TestEnsure_PrefersPivotLanguage(t *testing.T) {
	t.Parallel()

	repo := &memRepo{}
	repo.add(domain.Row{ClusterID: "c1", Lang: "es", Title: "Tormenta", Summary: "s", Details: "d", CreatedAt: t0.Add(-time.Hour)})
	repo.add(pivotRow("c1", t0))
	tr := &fakeTranslator{}
	s, _ := newTestSvc(repo, tr, Config{PivotLang: "en-GB"})

	res, err := s.Ensure(context.Background(), "c1", "de")
	if err != nil || res.Title != "[de] Storm hits coast" || res.TranslatedFrom != "en" {
		t.Fatalf("Ensure = (%+v, %v)", res, err)
	}
}

func TestCurrent(t *testing.T) {
	t.Parallel()

	repo := &memRepo{}
	p := repo.add(pivotRow("c1", t0))
	sig := signature.Of(p.Title, p.Summary, p.Details)
	repo.add(domain.Row{ClusterID: "c1", Lang: "de", Title: "Sturm", Summary: "s", Details: "d", PivotHash: sig})
	tr := &fakeTranslator{}
	s, _ := newTestSvc(repo, tr, Config{})
	ctx := context.Background()

	res, pending, err := s.Current(ctx, "c1", "de-CH")
	if err != nil || pending || res.Title != "Sturm" {
		t.Fatalf("de = (%+v, %v, %v)", res, pending, err)
	}
	res, pending, err = s.Current(ctx, "c1", "fr")
	if err != nil || !pending || res.Title != p.Title || res.IsTranslated {
		t.Fatalf("fr = (%+v, %v, %v)", res, pending, err)
	}
	res, pending, err = s.Current(ctx, "c1", "en")
	if err != nil || pending || res.Title != p.Title {
		t.Fatalf("en = (%+v, %v, %v)", res, pending, err)
	}
	res, _, err = s.Current(ctx, "missing", "de")
	if err != nil || res != nil {
		t.Fatalf("missing = (%+v, %v)", res, err)
	}
	if tr.calls.Load() != 0 {
		t.Fatalf("Current translated %d times", tr.calls.Load())
	}
}

func TestPickPivot(t *testing.T) {
	t.Parallel()

	s, _ := newTestSvc(&memRepo{}, &fakeTranslator{}, Config{PivotLang: "en"})
	derivedEN := domain.Row{Lang: "en", Title: "derived", PivotHash: "abc"}
	taggedEN := domain.Row{Lang: "en-GB", Title: "tagged", Model: "llm;sig=abc"}
	ingestedDE := domain.Row{Lang: "de", Title: "de"}
	ingestedEN := domain.Row{Lang: "en-US", Title: "en"}
	derivedFR := domain.Row{Lang: "fr", Title: "fr", PivotHash: "abc"}

	cases := []struct {
		name string
		rows []domain.Row
		want string
	}{
		{"ingested pivot language", []domain.Row{ingestedDE, derivedEN, ingestedEN}, "en"},
		{"ingested over derived pivot language", []domain.Row{derivedEN, ingestedDE}, "de"},
		{"tag counts as derived", []domain.Row{taggedEN, ingestedDE}, "de"},
		{"derived pivot language", []domain.Row{derivedFR, derivedEN}, "derived"},
		{"oldest row", []domain.Row{derivedFR}, "fr"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := s.pickPivot(tc.rows)
			if !ok || got.Title != tc.want {
				t.Fatalf("pickPivot = (%q, %v), want %q", got.Title, ok, tc.want)
			}
		})
	}
	if _, ok := s.pickPivot(nil); ok {
		t.Fatal("pickPivot(nil) reported a pivot")
	}
}
