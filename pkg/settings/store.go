package settings

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
)

// Snapshot is what subscribers see: the settings loaded so far and whether a
// load is still in flight. An empty Settings map with IsLoading false means
// the load finished and nothing is stored.
type Snapshot struct {
	Settings  map[string]string
	IsLoading bool
}

// Store keeps the site settings in memory and notifies subscribers whenever
// they change.
type Store struct {
	svc *Service

	mu          sync.RWMutex
	settings    map[string]string
	isLoading   bool
	nextID      int
	subscribers map[int]func(Snapshot)

	// publishMu serializes notifications so subscribers observe changes in
	// the order they were applied.
	publishMu sync.Mutex
}

func NewStore(svc *Service) *Store {
	return &Store{
		svc:         svc,
		settings:    map[string]string{},
		isLoading:   true,
		subscribers: map[int]func(Snapshot){},
	}
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() Snapshot {
	cp := make(map[string]string, len(s.settings))
	for k, v := range s.settings {
		cp[k] = v
	}
	return Snapshot{Settings: cp, IsLoading: s.isLoading}
}

// Subscribe registers fn to be called on every change. fn is called once
// immediately with the current snapshot. The returned function removes the
// subscription.
func (s *Store) Subscribe(fn func(Snapshot)) func() {
	s.publishMu.Lock()
	defer s.publishMu.Unlock()

	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subscribers[id] = fn
	snap := s.snapshotLocked()
	s.mu.Unlock()

	fn(snap)

	return func() {
		s.mu.Lock()
		delete(s.subscribers, id)
		s.mu.Unlock()
	}
}

// Load reads every setting from the database and publishes the result.
func (s *Store) Load(ctx context.Context) error {
	values, err := s.svc.All(ctx)
	if err != nil {
		s.mu.Lock()
		s.isLoading = false
		s.mu.Unlock()
		s.publish()
		return errors.WithStack(err)
	}

	s.mu.Lock()
	s.settings = values
	s.isLoading = false
	s.mu.Unlock()

	logger.FromContext(ctx).Info("site settings loaded", logger.Data{"count": len(values)})
	s.publish()
	return nil
}

// Update persists values and publishes the merged settings.
func (s *Store) Update(ctx context.Context, values map[string]string) error {
	if err := s.svc.Upsert(ctx, values); err != nil {
		return errors.WithStack(err)
	}

	s.mu.Lock()
	for k, v := range values {
		s.settings[k] = v
	}
	s.mu.Unlock()

	s.publish()
	return nil
}

func (s *Store) publish() {
	s.publishMu.Lock()
	defer s.publishMu.Unlock()

	s.mu.RLock()
	snap := s.snapshotLocked()
	subs := make([]func(Snapshot), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		subs = append(subs, fn)
	}
	s.mu.RUnlock()

	for _, fn := range subs {
		fn(snap)
	}
}
