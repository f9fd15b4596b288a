package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"insightbff/internal/modkit/repokit"
	"insightbff/internal/platform/logger"
	"insightbff/internal/services/api/feed/domain"
	"insightbff/internal/services/api/feed/repo"
	pqdom "insightbff/internal/services/persistq/domain"
	rdom "insightbff/internal/services/resolver/domain"
)

type fakeRepo struct {
	cands    []domain.Candidate
	gotLimit int
	gotCat   string
	err      error
}

func (f *fakeRepo) Candidates(_ context.Context, limit int, category string) ([]domain.Candidate, error) {
	f.gotLimit, f.gotCat = limit, category
	if f.err != nil {
		return nil, f.err
	}
	return f.cands[:min(limit, len(f.cands))], nil
}

type fakeDB struct{ repokit.TxRunner }

type lookupResult struct {
	res     *rdom.Resolved
	pending bool
	err     error
}

type fakeLookup map[string]lookupResult

func (f fakeLookup) Current(_ context.Context, id, _ string) (*rdom.Resolved, bool, error) {
	r := f[id]
	return r.res, r.pending, r.err
}

// fakeEnsure resolves after delay[id] unless ctx ends first
type fakeEnsure struct {
	delay map[string]time.Duration
	mu    sync.Mutex
	calls int
}

func (f *fakeEnsure) EnsureDedup(ctx context.Context, id, lang string) (*rdom.Resolved, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	select {
	case <-time.After(f.delay[id]):
		return &rdom.Resolved{ClusterID: id, Lang: lang, Title: "T-" + id, IsTranslated: true, TranslatedFrom: "en"}, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

type fakeEnqueuer struct {
	mu   sync.Mutex
	jobs []string
}

func (f *fakeEnqueuer) Enqueue(pqdom.Job) bool { return true }
func (f *fakeEnqueuer) EnqueueResolve(id, lang string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.jobs = append(f.jobs, id+"/"+lang)
	return true
}

func cands(ids ...string) []domain.Candidate {
	out := make([]domain.Candidate, len(ids))
	for i, id := range ids {
		out[i] = domain.Candidate{ID: id, Category: "world", CreatedAt: time.Date(2026, 1, 1, 0, 0, i, 0, time.UTC)}
	}
	return out
}

func newSvc(r *fakeRepo, p Ports, cfg Config) *Svc {
	return New(fakeDB{}, repokit.BindFunc[repo.Repo](func(repokit.Queryer) repo.Repo { return r }), p, cfg, *logger.Nop())
}

func TestList_BestEffort(t *testing.T) {
	t.Parallel()

	r := &fakeRepo{cands: cands("c1", "c2", "c3", "c4")}
	lookup := fakeLookup{
		"c1": {res: &rdom.Resolved{ClusterID: "c1", Lang: "de", Title: "Sturm", IsTranslated: true}},
		"c2": {res: &rdom.Resolved{ClusterID: "c2", Lang: "en", Title: "Flood"}, pending: true},
		"c4": {err: errors.New("timeout")},
	}
	ens := &fakeEnsure{}
	enq := &fakeEnqueuer{}
	s := newSvc(r, Ports{Ensure: ens, Lookup: lookup, Enqueuer: enq}, Config{})

	page, err := s.List(context.Background(), domain.Input{Lang: "de", Category: "world"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if r.gotLimit != 20 || r.gotCat != "world" {
		t.Fatalf("repo got limit=%d cat=%q", r.gotLimit, r.gotCat)
	}
	if len(page.Items) != 3 || page.Items[0].ClusterID != "c1" || page.Items[1].ClusterID != "c2" || page.Items[2].ClusterID != "c4" {
		t.Fatalf("items = %+v", page.Items)
	}
	if page.Items[0].Status != domain.StatusReady || page.Items[1].Status != domain.StatusPending {
		t.Fatalf("statuses = %s, %s", page.Items[0].Status, page.Items[1].Status)
	}
	if page.Items[1].Title != "Flood" || page.Items[1].Category != "world" {
		t.Fatalf("placeholder = %+v", page.Items[1])
	}
	// a failed read still yields a pending card and background work
	if c4 := page.Items[2]; c4.Status != domain.StatusPending || c4.Lang != "de" || c4.Title != "" || c4.Category != "world" {
		t.Fatalf("failed-read placeholder = %+v", c4)
	}
	if len(page.PendingIDs) != 2 || page.PendingIDs[0] != "c2" || page.PendingIDs[1] != "c4" {
		t.Fatalf("pending = %v", page.PendingIDs)
	}
	if len(enq.jobs) != 2 || enq.jobs[0] != "c2/de" || enq.jobs[1] != "c4/de" {
		t.Fatalf("enqueued = %v", enq.jobs)
	}
	if ens.calls != 0 || page.Strict {
		t.Fatalf("best-effort resolved inline %d times", ens.calls)
	}
}

func TestList_StrictOmitsSlowItems(t *testing.T) {
	t.Parallel()

	r := &fakeRepo{cands: cands("c1", "c2", "c3")}
	ens := &fakeEnsure{delay: map[string]time.Duration{"c2": time.Second}}
	enq := &fakeEnqueuer{}
	s := newSvc(r, Ports{Ensure: ens, Lookup: fakeLookup{}, Enqueuer: enq}, Config{
		StrictItemTimeout: 30 * time.Millisecond,
		StrictBudget:      time.Second,
	})

	page, err := s.List(context.Background(), domain.Input{Lang: "de", Strict: true})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(page.Items) != 2 || page.Items[0].ClusterID != "c1" || page.Items[1].ClusterID != "c3" {
		t.Fatalf("items = %+v", page.Items)
	}
	for _, it := range page.Items {
		if it.Status != domain.StatusReady || !it.IsTranslated {
			t.Fatalf("item = %+v", it)
		}
	}
	if len(enq.jobs) != 0 || len(page.PendingIDs) != 0 || !page.Strict {
		t.Fatalf("strict page queued %v pending %v", enq.jobs, page.PendingIDs)
	}
}

func TestList_StrictRelaxedSecondPass(t *testing.T) {
	t.Parallel()

	r := &fakeRepo{cands: cands("c1", "c2")}
	ens := &fakeEnsure{delay: map[string]time.Duration{"c1": 60 * time.Millisecond, "c2": 60 * time.Millisecond}}
	s := newSvc(r, Ports{Ensure: ens, Lookup: fakeLookup{}, Enqueuer: &fakeEnqueuer{}}, Config{
		StrictItemTimeout:    10 * time.Millisecond,
		StrictRelaxedTimeout: 500 * time.Millisecond,
		StrictBudget:         2 * time.Second,
	})

	page, err := s.List(context.Background(), domain.Input{Lang: "fr", Strict: true})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(page.Items) != 2 {
		t.Fatalf("items = %+v", page.Items)
	}
	if ens.calls != 4 {
		t.Fatalf("ensure calls = %d, want two passes of two", ens.calls)
	}
}

func TestList_StrictBudgetCapsSecondPass(t *testing.T) {
	t.Parallel()

	r := &fakeRepo{cands: cands("c1")}
	ens := &fakeEnsure{delay: map[string]time.Duration{"c1": time.Second}}
	s := newSvc(r, Ports{Ensure: ens, Lookup: fakeLookup{}, Enqueuer: &fakeEnqueuer{}}, Config{
		StrictItemTimeout:    10 * time.Millisecond,
		StrictRelaxedTimeout: 5 * time.Second,
		StrictBudget:         80 * time.Millisecond,
	})

	start := time.Now()
	page, _ := s.List(context.Background(), domain.Input{Lang: "fr", Strict: true})
	if len(page.Items) != 0 {
		t.Fatalf("items = %+v", page.Items)
	}
	if el := time.Since(start); el > 500*time.Millisecond {
		t.Fatalf("strict page took %v, budget was 80ms", el)
	}
}

func TestList_LimitCaps(t *testing.T) {
	t.Parallel()

	r := &fakeRepo{}
	s := newSvc(r, Ports{Ensure: &fakeEnsure{}, Lookup: fakeLookup{}, Enqueuer: &fakeEnqueuer{}}, Config{MaxLimit: 30, StrictMaxLimit: 5})

	cases := []struct {
		in   domain.Input
		want int
	}{
		{domain.Input{Limit: 100}, 30},
		{domain.Input{Limit: 7}, 7},
		{domain.Input{Limit: 100, Strict: true}, 5},
		{domain.Input{Strict: true}, 5},
	}
	for _, tc := range cases {
		if _, err := s.List(context.Background(), tc.in); err != nil {
			t.Fatalf("List(%+v): %v", tc.in, err)
		}
		if r.gotLimit != tc.want {
			t.Fatalf("List(%+v) limit = %d, want %d", tc.in, r.gotLimit, tc.want)
		}
	}
}

func TestList_RepoErrorSurfaces(t *testing.T) {
	t.Parallel()

	boom := errors.New("db down")
	s := newSvc(&fakeRepo{err: boom}, Ports{Ensure: &fakeEnsure{}, Lookup: fakeLookup{}, Enqueuer: &fakeEnqueuer{}}, Config{})
	if _, err := s.List(context.Background(), domain.Input{Lang: "de"}); !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
}
