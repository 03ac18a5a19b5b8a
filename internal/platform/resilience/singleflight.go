package resilience

import "sync"

// SingleFlight collapses concurrent calls for the same key into one
// execution. The zero value is ready to use.
type SingleFlight struct {
	mu       sync.Mutex
	inflight map[string]*flightCall
}

type flightCall struct {
	done chan struct{}
	val  any
	err  error
}

// Do runs fn once per key. Callers that arrive while a call for the same key
// is in flight block until it finishes and receive its result; the bool
// reports whether the result was shared rather than computed.
func (g *SingleFlight) Do(key string, fn func() (any, error)) (any, error, bool) {
	g.mu.Lock()
	if g.inflight == nil {
		g.inflight = make(map[string]*flightCall)
	}
	if c, ok := g.inflight[key]; ok {
		g.mu.Unlock()
		<-c.done
		return c.val, c.err, true
	}

	c := &flightCall{done: make(chan struct{})}
	g.inflight[key] = c
	g.mu.Unlock()

	c.val, c.err = fn()

	g.mu.Lock()
	delete(g.inflight, key)
	g.mu.Unlock()

	// val and err must be set before the close; waiters read them after.
	close(c.done)

	return c.val, c.err, false
}
