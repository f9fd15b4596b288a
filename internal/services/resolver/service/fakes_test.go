package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"insightbff/internal/core/langtag"
	"insightbff/internal/modkit/repokit"
	"insightbff/internal/services/resolver/domain"
	tcdom "insightbff/internal/services/textcache/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

var errBoom = errors.New("boom")

// memRepo keeps rows in memory and enforces one current row per (cluster, lang)
type memRepo struct {
	mu        sync.Mutex
	rows      []domain.Row
	inserts   int
	readErr   error
	insertErr error
}

func (m *memRepo) CurrentRows(_ context.Context, clusterID string) ([]domain.Row, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.readErr != nil {
		return nil, m.readErr
	}
	var out []domain.Row
	for _, r := range m.rows {
		if r.ClusterID == clusterID && r.IsCurrent {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memRepo) Insert(_ context.Context, row domain.Row) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.insertErr != nil {
		return m.insertErr
	}
	for _, r := range m.rows {
		if r.IsCurrent && r.ClusterID == row.ClusterID && r.Lang == row.Lang {
			return &pgconn.PgError{Code: "23505", Message: "duplicate key"}
		}
	}
	m.inserts++
	m.rows = append(m.rows, row)
	return nil
}

func (m *memRepo) Retire(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.rows {
		if m.rows[i].ID == id {
			m.rows[i].IsCurrent = false
		}
	}
	return nil
}

func (m *memRepo) add(r domain.Row) domain.Row {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	r.IsCurrent = true
	m.mu.Lock()
	m.rows = append(m.rows, r)
	m.mu.Unlock()
	return r
}

func (m *memRepo) current(clusterID, lang string) []domain.Row {
	rows, _ := m.CurrentRows(context.Background(), clusterID)
	var out []domain.Row
	for _, r := range rows {
		if r.Lang == lang {
			out = append(out, r)
		}
	}
	return out
}

func (m *memRepo) byID(id uuid.UUID) domain.Row {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.rows {
		if r.ID == id {
			return r
		}
	}
	return domain.Row{}
}

// fakeDB satisfies TxRunner; the repo ignores the bound Queryer
type fakeDB struct {
	execs []string
	txs   atomic.Int32
}

func (f *fakeDB) Exec(_ context.Context, sql string, _ ...any) (repokit.CommandTag, error) {
	f.execs = append(f.execs, sql)
	return nil, nil
}
func (f *fakeDB) Query(context.Context, string, ...any) (repokit.Rows, error) { return nil, nil }
func (f *fakeDB) QueryRow(context.Context, string, ...any) repokit.Row        { return nil }
func (f *fakeDB) Tx(_ context.Context, fn func(repokit.Queryer) error) error {
	f.txs.Add(1)
	return fn(f)
}

// fakeTranslator prefixes every field with the destination language
type fakeTranslator struct {
	calls atomic.Int32
	gate  chan struct{}
	// during runs while the call is in progress
	during func()
	same   bool
	// keepTitle leaves the title untranslated, like a brand name
	keepTitle bool
	got       []tcdom.Fields
	mu        sync.Mutex
}

func (f *fakeTranslator) TranslateFields(_ context.Context, in tcdom.Fields, src, dst string) tcdom.Fields {
	f.calls.Add(1)
	f.mu.Lock()
	f.got = append(f.got, in)
	f.mu.Unlock()
	if f.gate != nil {
		<-f.gate
	}
	if f.during != nil {
		f.during()
	}
	if f.same {
		return in
	}
	p := "[" + langtag.Base(dst) + "] "
	if src == dst {
		p = "[norm] "
	}
	out := tcdom.Fields{Title: p + in.Title, Summary: p + in.Summary, Details: p + in.Details}
	if f.keepTitle {
		out.Title = in.Title
	}
	return out
}

func (f *fakeTranslator) Marker() string { return " [untranslated]" }

func pivotRow(cluster string, at time.Time) domain.Row {
	return domain.Row{
		ClusterID: cluster,
		Lang:      "en",
		Title:     "Storm hits coast",
		Summary:   "A storm made landfall.",
		Details:   "Winds reached 150 km/h overnight.",
		CreatedAt: at,
		Model:     "ingest",
	}
}

func newTestSvc(repo *memRepo, tr *fakeTranslator, cfg Config) (*Svc, *fakeDB) {
	db := &fakeDB{}
	binder := repokit.BindFunc[domain.Repo](func(repokit.Queryer) domain.Repo { return repo })
	s := New(db, binder, tr, cfg)
	s.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }
	return s, db
}

func hasPrefix(res *domain.Resolved, p string) bool {
	return res != nil && strings.HasPrefix(res.Title, p) && strings.HasPrefix(res.Summary, p) && strings.HasPrefix(res.Details, p)
}
