// Package service implements the two-tier text translation cache
package service

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"insightbff/internal/adapters/llm"
	"insightbff/internal/core/chunk"
	"insightbff/internal/core/langtag"
	"insightbff/internal/platform/logger"
	"insightbff/internal/services/textcache/domain"
)

// Config tunes the cache; zero fields take the defaults in withDefaults
type Config struct {
	ProviderTimeout time.Duration
	Retries         int
	RetryBackoff    time.Duration
	MinLen          int
	ChunkThreshold  int
	ChunkMax        int
	Capacity        int
	FallbackMarker  bool
	Marker          string
	StoreTimeout    time.Duration
	MaxTokens       int
}

func (c Config) withDefaults() Config {
	if c.ProviderTimeout <= 0 {
		c.ProviderTimeout = 20 * time.Second
	}
	if c.Retries < 0 {
		c.Retries = 0
	}
	if c.RetryBackoff <= 0 {
		c.RetryBackoff = 500 * time.Millisecond
	}
	if c.MinLen <= 0 {
		c.MinLen = 2
	}
	if c.ChunkThreshold <= 0 {
		c.ChunkThreshold = 1800
	}
	if c.ChunkMax <= 0 || c.ChunkMax > c.ChunkThreshold {
		c.ChunkMax = min(1200, c.ChunkThreshold)
	}
	if c.Marker == "" {
		c.Marker = " [untranslated]"
	}
	if c.StoreTimeout <= 0 {
		c.StoreTimeout = 3 * time.Second
	}
	return c
}

// Svc is the text cache; safe for concurrent use
type Svc struct {
	cfg      Config
	provider llm.Provider
	mem      *memory
	store    domain.PersistentStore
	sink     domain.EventSink
	m        metrics
	log      logger.Logger

	now   func() time.Time
	sleep func(context.Context, time.Duration) error
}

var _ domain.Translator = (*Svc)(nil)

// Option customizes a Svc
type Option func(*Svc)

// WithStore sets the persistent tier
func WithStore(s domain.PersistentStore) Option { return func(v *Svc) { v.store = s } }

// WithSink sets the provider event sink
func WithSink(s domain.EventSink) Option { return func(v *Svc) { v.sink = s } }

// WithLogger sets the logger
func WithLogger(l logger.Logger) Option { return func(v *Svc) { v.log = l } }

// New builds the cache around a provider
func New(p llm.Provider, cfg Config, opts ...Option) *Svc {
	cfg = cfg.withDefaults()
	s := &Svc{
		cfg:      cfg,
		provider: p,
		mem:      newMemory(cfg.Capacity),
		log:      *logger.Nop(),
		now:      time.Now,
		sleep:    sleepCtx,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Metrics returns the current counters
func (s *Svc) Metrics() domain.Snapshot { return s.m.snapshot(s.mem.len()) }

// Marker returns the suffix appended to untranslated fallbacks
func (s *Svc) Marker() string { return s.cfg.Marker }

// TranslateText returns text in dst. It never fails: on provider exhaustion it
// returns the input, suffixed with the marker when that is enabled
func (s *Svc) TranslateText(ctx context.Context, text, src, dst string) string {
	if s.trivial(text, dst) {
		return text
	}
	src, dst = langtag.Base(src), langtag.Base(dst)
	if dst == "" {
		return text
	}

	if utf8.RuneCountInString(text) <= s.cfg.ChunkThreshold {
		out, ok := s.translateOne(ctx, text, src, dst)
		if !ok {
			return s.fallback(text)
		}
		return out
	}

	var b strings.Builder
	failed := false
	for _, part := range chunk.Split(text, s.cfg.ChunkMax) {
		lead, core, trail := chunk.TrimEdges(part)
		out := core
		if core != "" {
			var ok bool
			if out, ok = s.translateOne(ctx, core, src, dst); !ok {
				failed = true
			}
		}
		b.WriteString(lead)
		b.WriteString(out)
		b.WriteString(trail)
	}
	if failed {
		return s.fallback(b.String())
	}
	return b.String()
}

// TranslateFields translates the three fields, preferring one combined provider call.
// Unparseable or failed combined output falls back to per-field TranslateText
func (s *Svc) TranslateFields(ctx context.Context, f domain.Fields, src, dst string) domain.Fields {
	srcB, dstB := langtag.Base(src), langtag.Base(dst)
	if dstB == "" {
		return f
	}

	cached, allHit := s.cachedFields(ctx, f, srcB, dstB)
	if allHit {
		return cached
	}

	if s.combinable(f) {
		if out, ok := s.combined(ctx, f, srcB, dstB); ok {
			return out
		}
	}
	return domain.Fields{
		Title:   s.TranslateText(ctx, f.Title, src, dst),
		Summary: s.TranslateText(ctx, f.Summary, src, dst),
		Details: s.TranslateText(ctx, f.Details, src, dst),
	}
}

func (s *Svc) trivial(text, dst string) bool {
	if text == "" || strings.TrimSpace(dst) == "" {
		return true
	}
	return utf8.RuneCountInString(strings.TrimSpace(text)) < s.cfg.MinLen
}

func (s *Svc) fallback(text string) string {
	if s.cfg.FallbackMarker {
		return text + s.cfg.Marker
	}
	return text
}

// combinable reports whether one provider call can carry all fields without chunking
func (s *Svc) combinable(f domain.Fields) bool {
	for _, v := range []string{f.Title, f.Summary, f.Details} {
		if utf8.RuneCountInString(v) > s.cfg.ChunkThreshold {
			return false
		}
	}
	return true
}

// cachedFields resolves each field from the tiers only; trivial fields count as hits
func (s *Svc) cachedFields(ctx context.Context, f domain.Fields, src, dst string) (domain.Fields, bool) {
	get := func(v string) (string, bool) {
		if s.trivial(v, dst) {
			return v, true
		}
		if utf8.RuneCountInString(v) > s.cfg.ChunkThreshold {
			return "", false
		}
		return s.lookup(ctx, Key(v, src, dst))
	}
	var out domain.Fields
	var ok1, ok2, ok3 bool
	out.Title, ok1 = get(f.Title)
	out.Summary, ok2 = get(f.Summary)
	out.Details, ok3 = get(f.Details)
	return out, ok1 && ok2 && ok3
}

func (s *Svc) combined(ctx context.Context, f domain.Fields, src, dst string) (domain.Fields, bool) {
	want := domain.Fields{}
	if !s.trivial(f.Title, dst) {
		want.Title = f.Title
	}
	if !s.trivial(f.Summary, dst) {
		want.Summary = f.Summary
	}
	if !s.trivial(f.Details, dst) {
		want.Details = f.Details
	}

	p, err := fieldsPrompt(want, src, dst, s.cfg.MaxTokens)
	if err != nil {
		return domain.Fields{}, false
	}
	raw, err := s.call(ctx, p, src, dst, true)
	if err != nil {
		s.log.Debug().Err(err).Str("dst", dst).Msg("combined translation failed")
		return domain.Fields{}, false
	}
	got, err := parseFields(raw, want)
	if err != nil {
		s.log.Debug().Err(err).Str("dst", dst).Msg("combined translation unparseable")
		return domain.Fields{}, false
	}

	out := f
	type slot struct {
		in, tr string
		dst    *string
	}
	for _, sl := range []slot{
		{want.Title, got.Title, &out.Title},
		{want.Summary, got.Summary, &out.Summary},
		{want.Details, got.Details, &out.Details},
	} {
		if sl.in == "" {
			continue
		}
		*sl.dst = sl.tr
		s.remember(ctx, Key(sl.in, src, dst), src, dst, sl.tr)
	}
	return out, true
}

// translateOne serves one piece of text through memory, the persistent tier and
// finally the provider; ok is false only when the provider was exhausted
func (s *Svc) translateOne(ctx context.Context, text, src, dst string) (string, bool) {
	key := Key(text, src, dst)
	if v, ok := s.lookup(ctx, key); ok {
		return v, true
	}

	var out string
	var err error
	for attempt := 0; attempt <= s.cfg.Retries; attempt++ {
		if attempt > 0 {
			if serr := s.sleep(ctx, time.Duration(attempt)*s.cfg.RetryBackoff); serr != nil {
				break
			}
		}
		out, err = s.call(ctx, textPrompt(text, src, dst, s.cfg.MaxTokens), src, dst, false)
		if err == nil {
			s.remember(ctx, key, src, dst, out)
			return out, true
		}
		s.log.Warn().Err(err).Int("attempt", attempt+1).Str("src", src).Str("dst", dst).Msg("translation attempt failed")
	}
	return text, false
}

// lookup checks memory then the persistent tier, promoting persistent hits
func (s *Svc) lookup(ctx context.Context, key string) (string, bool) {
	if v, ok := s.mem.get(key); ok {
		s.m.cacheHits.Add(1)
		return v, true
	}
	s.m.cacheMisses.Add(1)
	if s.store == nil {
		return "", false
	}
	cctx, cancel := context.WithTimeout(ctx, s.cfg.StoreTimeout)
	defer cancel()
	v, found, err := s.store.Get(cctx, key)
	if err != nil {
		s.log.Warn().Err(err).Msg("persistent cache read failed")
		return "", false
	}
	if !found {
		return "", false
	}
	s.m.persistentHits.Add(1)
	s.mem.put(key, v)
	return v, true
}

// remember writes both tiers; a persistent failure is logged and ignored
func (s *Svc) remember(ctx context.Context, key, src, dst, text string) {
	s.mem.put(key, text)
	if s.store == nil {
		return
	}
	cctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.StoreTimeout)
	defer cancel()
	if err := s.store.Put(cctx, domain.Entry{Key: key, Src: src, Dst: dst, Text: text}); err != nil {
		s.log.Warn().Err(err).Msg("persistent cache write failed")
		return
	}
	s.m.persistentWrites.Add(1)
}

// call runs one provider attempt under the provider timeout. The wait is abandoned
// at the deadline even if the provider ignores its context
func (s *Svc) call(ctx context.Context, p llm.Prompt, src, dst string, combined bool) (string, error) {
	cctx, cancel := context.WithTimeout(ctx, s.cfg.ProviderTimeout)
	defer cancel()

	type result struct {
		out string
		err error
	}
	ch := make(chan result, 1)
	start := s.now()
	go func() {
		out, err := s.provider.Complete(cctx, p)
		ch <- result{out, err}
	}()

	var res result
	select {
	case res = <-ch:
	case <-cctx.Done():
		res.err = cctx.Err()
	}
	if res.err == nil && strings.TrimSpace(res.out) == "" {
		res.err = errEmpty
	}

	elapsed := s.now().Sub(start)
	s.m.observe(elapsed, res.err == nil)
	if s.sink != nil {
		s.sink.Record(domain.Event{
			At:       start,
			Provider: s.provider.Name(),
			Src:      src,
			Dst:      dst,
			Chars:    utf8.RuneCountInString(p.Text),
			Elapsed:  elapsed,
			OK:       res.err == nil,
			Combined: combined,
		})
	}
	return strings.TrimSpace(res.out), res.err
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
