// Package inflight collapses concurrent work for the same key into one call.
// Entries live only while the call runs, so a failed attempt is retried fresh
// by the next caller instead of being remembered
package inflight

import (
	"context"
	"fmt"
	"sync/atomic"

	"insightbff/internal/core/langtag"

	"golang.org/x/sync/singleflight"
)

// Group deduplicates calls returning T
// zero value is ready to use
type Group[T any] struct {
	sf     singleflight.Group
	active atomic.Int64
}

// Key builds the (cluster, language) key; regional variants share a key
func Key(clusterID, lang string) string {
	return clusterID + "|" + langtag.Base(lang)
}

// Do runs fn once per key among concurrent callers and hands every caller the same
// outcome. shared reports whether the result was delivered to more than one caller.
// fn runs on a context that ignores the caller's cancellation; a caller whose ctx
// ends stops waiting but the call carries on for the others
func (g *Group[T]) Do(ctx context.Context, key string, fn func(context.Context) (T, error)) (v T, shared bool, err error) {
	run := context.WithoutCancel(ctx)
	ch := g.sf.DoChan(key, func() (out any, ferr error) {
		g.active.Add(1)
		defer g.active.Add(-1)
		defer func() {
			if p := recover(); p != nil {
				ferr = fmt.Errorf("inflight %s: panic: %v", key, p)
			}
		}()
		return fn(run)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return v, res.Shared, res.Err
		}
		out, _ := res.Val.(T)
		return out, res.Shared, nil
	case <-ctx.Done():
		return v, false, ctx.Err()
	}
}

// InFlight returns the number of calls currently running
func (g *Group[T]) InFlight() int64 { return g.active.Load() }
