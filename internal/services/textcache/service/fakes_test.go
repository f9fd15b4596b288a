package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"insightbff/internal/adapters/llm"
	"insightbff/internal/services/textcache/domain"
)

// fakeProvider answers through fn and counts calls
type fakeProvider struct {
	calls atomic.Int32
	fn    func(ctx context.Context, p llm.Prompt) (string, error)
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) Complete(ctx context.Context, p llm.Prompt) (string, error) {
	f.calls.Add(1)
	return f.fn(ctx, p)
}

func upper(prefix string) func(context.Context, llm.Prompt) (string, error) {
	return func(_ context.Context, p llm.Prompt) (string, error) { return prefix + p.Text, nil }
}

type memStore struct {
	mu     sync.Mutex
	rows   map[string]domain.Entry
	putErr error
	getErr error
}

func newMemStore() *memStore { return &memStore{rows: map[string]domain.Entry{}} }

func (m *memStore) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return "", false, m.getErr
	}
	e, ok := m.rows[key]
	return e.Text, ok, nil
}

func (m *memStore) Put(_ context.Context, e domain.Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.putErr != nil {
		return m.putErr
	}
	m.rows[e.Key] = e
	return nil
}

type recSink struct {
	mu     sync.Mutex
	events []domain.Event
}

func (r *recSink) Record(e domain.Event) {
	r.mu.Lock()
	r.events = append(r.events, e)
	r.mu.Unlock()
}

var errBoom = errors.New("provider down")
