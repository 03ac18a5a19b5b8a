package cache

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/gridironlab/weekly-digest/internal/platform/resilience"
)

// sweepEvery is the write count between opportunistic scans for expired
// entries; reads already drop expired keys as they see them.
const sweepEvery = 256

type item struct {
	val      any
	deadline time.Time
}

func (it item) expired(now time.Time) bool {
	return !it.deadline.IsZero() && !it.deadline.After(now)
}

// Store is an in-process TTL cache. Concurrent loads for the same key
// collapse into a single loader call; a TTL of zero disables expiry.
type Store struct {
	ttl    time.Duration
	flight resilience.SingleFlight

	mu     sync.RWMutex
	items  map[string]item
	writes int
}

func NewStore(ttl time.Duration) *Store {
	return &Store{
		ttl:   ttl,
		items: make(map[string]item),
	}
}

func (s *Store) Get(_ context.Context, key string) (any, bool) {
	if key == "" {
		return nil, false
	}

	now := time.Now()
	s.mu.RLock()
	it, ok := s.items[key]
	s.mu.RUnlock()

	switch {
	case !ok:
		return nil, false
	case it.expired(now):
		s.dropExpired(key, now)
		return nil, false
	}
	return it.val, true
}

// dropExpired deletes key only while it is still expired; the key may have
// been rewritten between the read lock and this write lock.
func (s *Store) dropExpired(key string, now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if it, ok := s.items[key]; ok && it.expired(now) {
		delete(s.items, key)
	}
}

func (s *Store) Set(_ context.Context, key string, value any) {
	if key == "" {
		return
	}

	now := time.Now()
	it := item{val: value}
	if s.ttl > 0 {
		it.deadline = now.Add(s.ttl)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[key] = it
	if s.writes++; s.writes >= sweepEvery {
		s.writes = 0
		s.sweepLocked(now)
	}
}

func (s *Store) Delete(_ context.Context, key string) {
	if key == "" {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, key)
}

// DeletePrefix drops every key under prefix. Writers use it to invalidate a
// scope's read keys after saving a draft.
func (s *Store) DeletePrefix(_ context.Context, prefix string) {
	if prefix == "" {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for key := range s.items {
		if strings.HasPrefix(key, prefix) {
			delete(s.items, key)
		}
	}
}

// GetOrLoad returns the cached value for key, or runs loader once per key
// across concurrent callers and caches its result. An empty key bypasses the
// cache entirely.
func (s *Store) GetOrLoad(ctx context.Context, key string, loader func(context.Context) (any, error)) (any, error) {
	switch {
	case loader == nil:
		return nil, errors.New("cache: nil loader")
	case key == "":
		return loader(ctx)
	}

	if hit, ok := s.Get(ctx, key); ok {
		return hit, nil
	}

	value, err, _ := s.flight.Do(key, func() (any, error) {
		return s.loadAndFill(ctx, key, loader)
	})
	return value, err
}

// loadAndFill re-checks the cache before invoking the loader; a racing
// caller may have filled the key while this one queued behind the flight.
func (s *Store) loadAndFill(ctx context.Context, key string, loader func(context.Context) (any, error)) (any, error) {
	if hit, ok := s.Get(ctx, key); ok {
		return hit, nil
	}

	value, err := loader(ctx)
	if err != nil {
		return nil, err
	}
	s.Set(ctx, key, value)
	return value, nil
}

func (s *Store) sweepLocked(now time.Time) {
	for key, it := range s.items {
		if it.expired(now) {
			delete(s.items, key)
		}
	}
}
