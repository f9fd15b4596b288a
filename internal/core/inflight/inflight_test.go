package inflight

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestKey_SharesRegionalVariants(t *testing.T) {
	t.Parallel()

	if Key("c1", "de-CH") != Key("c1", "de-DE") {
		t.Fatal("regional variants should share a key")
	}
	if Key("c1", "de") == Key("c2", "de") {
		t.Fatal("different clusters must not share a key")
	}
	if Key("c1", "de") == Key("c1", "fr") {
		t.Fatal("different languages must not share a key")
	}
}

func TestDo_ConcurrentCallersShareOneCall(t *testing.T) {
	t.Parallel()

	var g Group[string]
	var calls atomic.Int32
	started := make(chan struct{})
	release := make(chan struct{})

	fn := func(context.Context) (string, error) {
		if calls.Add(1) == 1 {
			close(started)
		}
		<-release
		return "done", nil
	}

	const n = 8
	var wg sync.WaitGroup
	results := make([]string, n)
	errs := make([]error, n)

	wg.Add(1)
	go func() {
		defer wg.Done()
		results[0], _, errs[0] = g.Do(context.Background(), "k", fn)
	}()
	<-started

	for i := 1; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _, errs[i] = g.Do(context.Background(), "k", fn)
		}(i)
	}
	// give joiners time to attach before the call settles
	time.Sleep(50 * time.Millisecond)
	if g.InFlight() != 1 {
		t.Fatalf("InFlight = %d, want 1", g.InFlight())
	}
	close(release)
	wg.Wait()

	if got := calls.Load(); got != 1 {
		t.Fatalf("fn ran %d times, want 1", got)
	}
	for i := 0; i < n; i++ {
		if errs[i] != nil || results[i] != "done" {
			t.Fatalf("caller %d got (%q, %v)", i, results[i], errs[i])
		}
	}
	if g.InFlight() != 0 {
		t.Fatalf("InFlight after settle = %d, want 0", g.InFlight())
	}
}

func TestDo_FailureIsNotRemembered(t *testing.T) {
	t.Parallel()

	var g Group[int]
	boom := errors.New("boom")

	_, _, err := g.Do(context.Background(), "k", func(context.Context) (int, error) { return 0, boom })
	if !errors.Is(err, boom) {
		t.Fatalf("first call err = %v, want boom", err)
	}

	v, _, err := g.Do(context.Background(), "k", func(context.Context) (int, error) { return 7, nil })
	if err != nil || v != 7 {
		t.Fatalf("second call = (%d, %v), want (7, nil)", v, err)
	}
}

func TestDo_CallerCancellationAbandonsWaitOnly(t *testing.T) {
	t.Parallel()

	var g Group[int]
	release := make(chan struct{})
	finished := make(chan struct{})

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, _, err := g.Do(ctx, "k", func(runCtx context.Context) (int, error) {
		defer close(finished)
		<-release
		if runCtx.Err() != nil {
			t.Errorf("run context was cancelled with the caller")
		}
		return 1, nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}

	close(release)
	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("underlying call never finished")
	}
}

func TestDo_PanicBecomesError(t *testing.T) {
	t.Parallel()

	var g Group[int]
	_, _, err := g.Do(context.Background(), "p", func(context.Context) (int, error) {
		panic("kaboom")
	})
	if err == nil {
		t.Fatal("expected error from panicking fn")
	}
}
