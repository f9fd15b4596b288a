// Package service resolves cluster text into a requested language, deriving
// missing or outdated rows from the pivot through the text cache
package service

import (
	"context"
	"strings"
	"time"

	"insightbff/internal/core/htmltext"
	"insightbff/internal/core/inflight"
	"insightbff/internal/core/langtag"
	"insightbff/internal/core/signature"
	"insightbff/internal/modkit/repokit"
	perr "insightbff/internal/platform/errors"
	"insightbff/internal/platform/logger"
	pstrings "insightbff/internal/platform/strings"
	"insightbff/internal/services/resolver/domain"
	tcdom "insightbff/internal/services/textcache/domain"

	"github.com/google/uuid"
)

// Config tunes the resolver
type Config struct {
	PivotLang string
	// OriginalBodyTags are provenance substrings marking a pivot as raw ingested
	// text that goes through the provider even for its own language
	OriginalBodyTags []string
	// ModelTag is the provenance written on derived rows, before the signature
	ModelTag     string
	StoreTimeout time.Duration
	LockTimeout  time.Duration
}

func (c Config) withDefaults() Config {
	if c.PivotLang = langtag.Base(c.PivotLang); c.PivotLang == "" {
		c.PivotLang = "en"
	}
	if c.ModelTag == "" {
		c.ModelTag = "llm"
	}
	if c.StoreTimeout <= 0 {
		c.StoreTimeout = 5 * time.Second
	}
	tags := c.OriginalBodyTags[:0:0]
	for _, t := range c.OriginalBodyTags {
		if t = strings.ToLower(strings.TrimSpace(t)); t != "" {
			tags = append(tags, t)
		}
	}
	c.OriginalBodyTags = tags
	return c
}

// Svc is the cluster text resolver; safe for concurrent use
type Svc struct {
	cfg   Config
	db    repokit.TxRunner
	tx    repokit.TxRunner
	repo  repokit.Binder[domain.Repo]
	tr    domain.Translator
	group inflight.Group[*domain.Resolved]
	log   logger.Logger

	newID func() uuid.UUID
	now   func() time.Time
}

var (
	_ domain.EnsurePort = (*Svc)(nil)
	_ domain.LookupPort = (*Svc)(nil)
)

// Option customizes a Svc
type Option func(*Svc)

// WithLogger sets the logger
func WithLogger(l logger.Logger) Option { return func(s *Svc) { s.log = l } }

// New builds a resolver over db; row swaps run with the configured lock timeout
func New(db repokit.TxRunner, repo repokit.Binder[domain.Repo], tr domain.Translator, cfg Config, opts ...Option) *Svc {
	if db == nil || repo == nil || tr == nil {
		panic("resolver: db, repo and translator are required")
	}
	cfg = cfg.withDefaults()
	s := &Svc{
		cfg:   cfg,
		db:    db,
		tx:    repokit.WithBeginHooks(db, repokit.LockTimeout(cfg.LockTimeout)),
		repo:  repo,
		tr:    tr,
		log:   *logger.Nop(),
		newID: uuid.New,
		now:   time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// PivotLang returns the configured pivot base language
func (s *Svc) PivotLang() string { return s.cfg.PivotLang }

// InFlight returns how many resolutions are running
func (s *Svc) InFlight() int64 { return s.group.InFlight() }

// EnsureDedup is Ensure with concurrent callers for the same cluster and base
// language sharing one resolution
func (s *Svc) EnsureDedup(ctx context.Context, clusterID, lang string) (*domain.Resolved, error) {
	v, _, err := s.group.Do(ctx, inflight.Key(clusterID, lang), func(c context.Context) (*domain.Resolved, error) {
		return s.Ensure(c, clusterID, lang)
	})
	if err != nil || v == nil {
		return nil, err
	}
	cp := *v
	return &cp, nil
}

// Ensure returns the cluster's text in lang, translating from the pivot and
// persisting the result when the stored row is missing or outdated. It returns
// nil, nil when the cluster has no current row in any language. Persistence is
// best effort: write failures are logged and the computed text is still returned
func (s *Svc) Ensure(ctx context.Context, clusterID, lang string) (*domain.Resolved, error) {
	target := langtag.Base(lang)
	if strings.TrimSpace(clusterID) == "" || target == "" {
		return nil, perr.InvalidArgf("cluster id and language are required")
	}
	log := s.log.With().Str("cluster_id", clusterID).Str("lang", target).Logger()

	rows, err := s.currentRows(ctx, clusterID)
	if err != nil {
		return nil, err
	}
	pivot, ok := s.pickPivot(rows)
	if !ok {
		return nil, nil
	}

	if langtag.SameBase(pivot.Lang, target) {
		if !s.originalBody(pivot) {
			return view(pivot, pivot), nil
		}
		// normalized in place of the pivot, never persisted over it
		f := s.translate(ctx, pivot, target)
		return withFields(view(pivot, pivot), f), nil
	}

	sig := signature.Of(pivot.Title, pivot.Summary, pivot.Details)
	existing := pickLang(rows, target)
	state := Classify(existing, pivot, sig, s.tr.Marker())
	if state == StateFresh {
		return view(*existing, pivot), nil
	}
	log.Debug().Stringer("state", state).Str("pivot_lang", pivot.Lang).Msg("deriving cluster text")

	f := s.translate(ctx, pivot, target)
	row := domain.Row{
		ID:        s.newID(),
		ClusterID: clusterID,
		Lang:      target,
		Title:     f.Title,
		Summary:   f.Summary,
		Details:   f.Details,
		IsCurrent: true,
		CreatedAt: s.now().UTC(),
		Model:     signature.Tag(s.cfg.ModelTag, sig),
		PivotHash: sig,
	}

	if legacyCopy(row, pivot) {
		// a field the provider kept verbatim would read back as legacy and churn
		log.Debug().Msg("provider kept pivot text verbatim, not persisted")
		return view(row, pivot), nil
	}

	if existing != nil {
		s.report(log, "swap", s.swap(ctx, existing.ID, row))
		return view(row, pivot), nil
	}

	// another resolver may have written the row while this one translated
	if again, err := s.currentRows(ctx, clusterID); err == nil {
		if r := pickLang(again, target); Classify(r, pivot, sig, s.tr.Marker()) == StateFresh {
			return view(*r, pivot), nil
		}
	}
	s.report(log, "insert", s.insert(ctx, row))
	return view(row, pivot), nil
}

// Current returns what can be served without translating. A fresh row in lang
// is ready; otherwise the pivot content comes back with pending set. res is nil
// when the cluster has no pivot
func (s *Svc) Current(ctx context.Context, clusterID, lang string) (*domain.Resolved, bool, error) {
	target := langtag.Base(lang)
	rows, err := s.currentRows(ctx, clusterID)
	if err != nil {
		return nil, false, err
	}
	pivot, ok := s.pickPivot(rows)
	if !ok {
		return nil, false, nil
	}
	if langtag.SameBase(pivot.Lang, target) {
		res := view(pivot, pivot)
		if s.originalBody(pivot) {
			res = withFields(res, stripped(pivot.Fields()))
		}
		return res, false, nil
	}
	sig := signature.Of(pivot.Title, pivot.Summary, pivot.Details)
	if r := pickLang(rows, target); Classify(r, pivot, sig, s.tr.Marker()) == StateFresh {
		return view(*r, pivot), false, nil
	}
	return view(pivot, pivot), true, nil
}

func (s *Svc) translate(ctx context.Context, pivot domain.Row, target string) tcdom.Fields {
	f := pivot.Fields()
	if s.originalBody(pivot) {
		f = stripped(f)
	}
	return s.tr.TranslateFields(ctx, f, langtag.Base(pivot.Lang), target)
}

func (s *Svc) currentRows(ctx context.Context, clusterID string) ([]domain.Row, error) {
	return repokit.Bounded(ctx, s.cfg.StoreTimeout, func(c context.Context) ([]domain.Row, error) {
		return s.repo.Bind(s.db).CurrentRows(c, clusterID)
	})
}

func (s *Svc) insert(ctx context.Context, row domain.Row) error {
	_, err := repokit.Bounded(context.WithoutCancel(ctx), s.cfg.StoreTimeout, func(c context.Context) (struct{}, error) {
		return struct{}{}, s.repo.Bind(s.db).Insert(c, row)
	})
	return err
}

// swap retires old and inserts row as current in one transaction
func (s *Svc) swap(ctx context.Context, old uuid.UUID, row domain.Row) error {
	_, err := repokit.Bounded(context.WithoutCancel(ctx), s.cfg.StoreTimeout, func(c context.Context) (struct{}, error) {
		return struct{}{}, repokit.WithTx(c, s.tx, func(q repokit.Queryer) error {
			r := s.repo.Bind(q)
			if err := r.Retire(c, old); err != nil {
				return err
			}
			return r.Insert(c, row)
		})
	})
	return err
}

func (s *Svc) report(log logger.Logger, op string, err error) {
	switch {
	case err == nil:
	case perr.IsDuplicateKey(err):
		log.Debug().Str("op", op).Msg("concurrent writer stored the row first")
	default:
		log.Warn().Err(err).Str("op", op).Msg("persisting cluster text failed")
	}
}

// pickPivot picks the ground-truth row. Ingested rows (no derivation signature)
// win over rows this resolver wrote; within each group the oldest row in the
// pivot language wins, else the oldest row
func (s *Svc) pickPivot(rows []domain.Row) (domain.Row, bool) {
	var anyIngested, pivotDerived *domain.Row
	for i := range rows {
		r := &rows[i]
		ingested := rowSig(*r) == ""
		inPivot := langtag.SameBase(r.Lang, s.cfg.PivotLang)
		switch {
		case ingested && inPivot:
			return *r, true
		case ingested && anyIngested == nil:
			anyIngested = r
		case !ingested && inPivot && pivotDerived == nil:
			pivotDerived = r
		}
	}
	switch {
	case anyIngested != nil:
		return *anyIngested, true
	case pivotDerived != nil:
		return *pivotDerived, true
	case len(rows) > 0:
		return rows[0], true
	}
	return domain.Row{}, false
}

func (s *Svc) originalBody(pivot domain.Row) bool {
	return pstrings.ContainsAny(strings.ToLower(pivot.Model), s.cfg.OriginalBodyTags)
}

// pickLang returns the newest current row whose base language is target
func pickLang(rows []domain.Row, target string) *domain.Row {
	for i := len(rows) - 1; i >= 0; i-- {
		if langtag.SameBase(rows[i].Lang, target) {
			return &rows[i]
		}
	}
	return nil
}

func stripped(f tcdom.Fields) tcdom.Fields {
	return tcdom.Fields{
		Title:   htmltext.ToText(f.Title),
		Summary: htmltext.ToText(f.Summary),
		Details: htmltext.ToText(f.Details),
	}
}

func view(r, pivot domain.Row) *domain.Resolved {
	res := &domain.Resolved{
		ClusterID: r.ClusterID,
		Lang:      langtag.Base(r.Lang),
		Title:     r.Title,
		Summary:   r.Summary,
		Details:   r.Details,
	}
	if !langtag.SameBase(r.Lang, pivot.Lang) {
		res.IsTranslated = true
		res.TranslatedFrom = langtag.Base(pivot.Lang)
	}
	return res
}

func withFields(res *domain.Resolved, f tcdom.Fields) *domain.Resolved {
	res.Title, res.Summary, res.Details = f.Title, f.Summary, f.Details
	return res
}
