// Package flight coalesces concurrent executions of a function keyed by string.
//
// Unlike golang.org/x/sync/singleflight, the leader runs the function on its
// own goroutine so that side effects (such as writing an HTTP response) happen
// in the caller's context, and the leadership of a call is reported to the
// caller.
package flight

import (
	"context"
	"sync"

	"github.com/sourcegraph/conc/panics"
)

type result[V any] struct {
	value V
	err   error
}

// Group coalesces concurrent calls to Do with the same key.
// The zero value is ready to use.
type Group[V any] struct {
	mu        sync.Mutex
	waitlists map[string][]chan result[V]
}

// Do executes fn once per key among concurrent callers.
// The first caller becomes the leader: it runs fn on its own goroutine and
// reports leader as true. Callers that arrive while the leader is running
// block until the leader finishes and receive the leader's value and error.
// The delivered value is shared between callers and must be treated as
// read-only.
//
// If fn panics, the panic is delivered to the waiting callers as an error and
// then propagated on the leader's goroutine. If the context of a waiting
// caller is canceled, Do returns the context error for that caller only.
func (g *Group[V]) Do(ctx context.Context, key string, fn func() (V, error)) (value V, leader bool, err error) {
	g.mu.Lock()
	if g.waitlists == nil {
		g.waitlists = map[string][]chan result[V]{}
	}
	if waitlist, inFlight := g.waitlists[key]; inFlight {
		ch := make(chan result[V], 1)
		g.waitlists[key] = append(waitlist, ch)
		g.mu.Unlock()

		select {
		case res := <-ch:
			return res.value, false, res.err
		case <-ctx.Done():
			return value, false, ctx.Err()
		}
	}
	g.waitlists[key] = []chan result[V]{}
	g.mu.Unlock()

	var catcher panics.Catcher
	catcher.Try(func() {
		value, err = fn()
	})
	if recovered := catcher.Recovered(); recovered != nil {
		g.deliver(key, result[V]{err: recovered.AsError()})
		catcher.Repanic()
	}

	g.deliver(key, result[V]{value: value, err: err})
	return value, true, err
}

// deliver sends the result to every waiting caller and clears the key.
// The channels are buffered, so delivery never blocks even if a waiter
// has already given up on a canceled context.
func (g *Group[V]) deliver(key string, res result[V]) {
	g.mu.Lock()
	waitlist := g.waitlists[key]
	delete(g.waitlists, key)
	g.mu.Unlock()

	for _, ch := range waitlist {
		ch <- res
		close(ch)
	}
}
