package store

import (
	"context"
	"sync"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

// FlushObserver is notified when a post-mutation flush fails. Wired to a
// prometheus counter by the metrics package.
type FlushObserver interface {
	FlushFailed()
}

type Params struct {
	fx.In

	Log       *zap.Logger
	Persister Persister
	Observer  FlushObserver `optional:"true"`
}

// Store serializes all access to the entity graph: one exclusive writer at a
// time, shared readers otherwise. Every successful mutation is followed
// synchronously by a snapshot flush through the Persister before Update
// returns, so a loaded snapshot always reflects a prefix of committed
// operations.
type Store struct {
	mu        sync.RWMutex
	graph     *Graph
	persister Persister
	log       *zap.Logger
	observer  FlushObserver
}

// New loads the persisted snapshot and builds the store around it.
func New(p Params) (*Store, error) {
	snap, err := p.Persister.Load(context.Background())
	if err != nil {
		return nil, err
	}
	return &Store{
		graph:     fromSnapshot(snap),
		persister: p.Persister,
		log:       p.Log.Named("store"),
		observer:  p.Observer,
	}, nil
}

// Update runs fn under the exclusive lock. If fn succeeds the graph is
// flushed before returning. A flush failure does not fail the operation:
// the in-memory graph is the source of truth for the process lifetime, so
// the gap is logged and counted instead of surfaced as an error.
func (s *Store) Update(ctx context.Context, fn func(g *Graph) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := fn(s.graph); err != nil {
		return err
	}

	if err := s.persister.Save(ctx, s.graph.snapshot()); err != nil {
		s.log.Error("snapshot flush failed; in-memory state remains authoritative", zap.Error(err))
		if s.observer != nil {
			s.observer.FlushFailed()
		}
	}
	return nil
}

// View runs fn under the shared lock. fn must not mutate the graph.
func (s *Store) View(fn func(g *Graph) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(s.graph)
}

// Snapshot returns a consistent copy of the whole graph, used by the
// full-dump query endpoint.
func (s *Store) Snapshot() *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.graph.snapshot()
}

// Reset discards the whole graph, counters included, and persists the empty
// snapshot. Exposed for the development reset endpoint only.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.graph = NewGraph()
	if err := s.persister.Save(ctx, s.graph.snapshot()); err != nil {
		s.log.Error("snapshot flush failed; in-memory state remains authoritative", zap.Error(err))
		if s.observer != nil {
			s.observer.FlushFailed()
		}
	}
	return nil
}

// Module wires the store.
var Module = fx.Module("store",
	fx.Provide(New),
)
