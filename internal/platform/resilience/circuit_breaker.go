package resilience

import (
	"errors"
	"sync"
	"time"
)

// ErrBreakerOpen is returned by Allow while the breaker is rejecting calls.
var ErrBreakerOpen = errors.New("breaker is open")

// BreakerState is the observable phase of a Breaker.
type BreakerState string

const (
	BreakerClosed  BreakerState = "closed"
	BreakerOpen    BreakerState = "open"
	BreakerProbing BreakerState = "probing"
)

// BreakerSettings tune a Breaker. Zero-valued fields fall back to defaults,
// so callers only set what they care about.
type BreakerSettings struct {
	Enabled    bool
	TripAfter  int           // consecutive failures that open the breaker
	Cooldown   time.Duration // rejection window after the breaker opens
	ProbeQuota int           // calls admitted at a time while recovering
}

func (s BreakerSettings) withDefaults() BreakerSettings {
	if s.TripAfter < 1 {
		s.TripAfter = 5
	}
	if s.Cooldown <= 0 {
		s.Cooldown = 15 * time.Second
	}
	if s.ProbeQuota < 1 {
		s.ProbeQuota = 2
	}
	return s
}

// Breaker cuts an upstream off after a streak of failures and eases back in
// with a bounded number of probe calls once the cooldown has passed.
type Breaker struct {
	settings BreakerSettings
	clock    func() time.Time

	mu        sync.Mutex
	state     BreakerState
	streak    int       // consecutive failures while closed
	retryAt   time.Time // end of the rejection window while open
	probes    int       // probe calls currently in flight
	probeWins int       // successful probes this recovery round
}

func NewBreaker(settings BreakerSettings) *Breaker {
	return &Breaker{
		settings: settings.withDefaults(),
		clock:    time.Now,
		state:    BreakerClosed,
	}
}

// Allow reports whether a call may proceed. While open it rejects until the
// cooldown deadline, then admits up to ProbeQuota probes at a time.
func (b *Breaker) Allow() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == BreakerOpen {
		if b.clock().Before(b.retryAt) {
			return ErrBreakerOpen
		}
		b.state = BreakerProbing
		b.probes = 0
		b.probeWins = 0
	}

	if b.state == BreakerProbing {
		if b.probes >= b.settings.ProbeQuota {
			return ErrBreakerOpen
		}
		b.probes++
	}

	return nil
}

// Success records a completed call. A full round of successful probes closes
// the breaker again.
func (b *Breaker) Success() {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case BreakerClosed:
		b.streak = 0
	case BreakerProbing:
		if b.probes > 0 {
			b.probes--
		}
		b.probeWins++
		if b.probeWins >= b.settings.ProbeQuota && b.probes == 0 {
			b.state = BreakerClosed
			b.streak = 0
		}
	}
}

// Failure records a failed call. A failure during recovery reopens the
// breaker immediately; one that lands while already open pushes the retry
// deadline out.
func (b *Breaker) Failure() {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case BreakerClosed:
		b.streak++
		if b.streak >= b.settings.TripAfter {
			b.trip()
		}
	case BreakerProbing:
		if b.probes > 0 {
			b.probes--
		}
		b.trip()
	case BreakerOpen:
		b.retryAt = b.clock().Add(b.settings.Cooldown)
	}
}

// State reports the phase a call would meet right now: an open breaker whose
// cooldown has lapsed reads as probing.
func (b *Breaker) State() BreakerState {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == BreakerOpen && !b.clock().Before(b.retryAt) {
		return BreakerProbing
	}
	return b.state
}

func (b *Breaker) trip() {
	b.state = BreakerOpen
	b.retryAt = b.clock().Add(b.settings.Cooldown)
	b.streak = 0
	b.probes = 0
	b.probeWins = 0
}
