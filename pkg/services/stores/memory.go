package stores

import (
	"context"
	"sync"
	"time"

	"github.com/liut/cryptopulse/pkg/models/pulse"
)

type memItem struct {
	data    []byte
	expires time.Time
}

type memoryStore struct {
	mu       sync.Mutex
	items    map[string]memItem
	lifetime time.Duration
	swept    time.Time
}

// NewMemoryStore keeps sessions inside the process, zero lifetime never expires
func NewMemoryStore(lifetime time.Duration) SessionStore {
	return &memoryStore{items: make(map[string]memItem), lifetime: lifetime}
}

func (s *memoryStore) Get(ctx context.Context, id string) (*pulse.Session, error) {
	if len(id) == 0 {
		return nil, ErrEmptyKey
	}
	s.mu.Lock()
	it, ok := s.items[id]
	if ok && s.expired(it) {
		delete(s.items, id)
		ok = false
	}
	s.mu.Unlock()
	if !ok {
		return nil, ErrNotFound
	}
	sess := new(pulse.Session)
	if err := sess.UnmarshalBinary(it.data); err != nil {
		return nil, err
	}
	return sess, nil
}

// Put stores a snapshot, later changes of sess need another Put
func (s *memoryStore) Put(ctx context.Context, sess *pulse.Session) error {
	if len(sess.ID) == 0 {
		return ErrEmptyKey
	}
	b, err := sess.MarshalBinary()
	if err != nil {
		return err
	}
	it := memItem{data: b}
	if s.lifetime > 0 {
		it.expires = time.Now().Add(s.lifetime)
	}
	s.mu.Lock()
	s.sweep()
	s.items[sess.ID] = it
	s.mu.Unlock()
	return nil
}

func (s *memoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	delete(s.items, id)
	s.mu.Unlock()
	return nil
}

// sweep drops expired items, at most once per lifetime. mu must be held
func (s *memoryStore) sweep() {
	if s.lifetime <= 0 || time.Since(s.swept) < s.lifetime {
		return
	}
	s.swept = time.Now()
	for id, it := range s.items {
		if s.expired(it) {
			delete(s.items, id)
		}
	}
}

func (s *memoryStore) expired(it memItem) bool {
	return !it.expires.IsZero() && time.Now().After(it.expires)
}
