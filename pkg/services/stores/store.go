package stores

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/liut/cryptopulse/pkg/models/pulse"
	"github.com/liut/cryptopulse/pkg/settings"
)

// vars
var (
	ErrNotFound = errors.New("session not found")
	ErrEmptyKey = errors.New("empty session id")

	stoOnce sync.Once
	stoS    SessionStore
)

// SessionStore keeps the state of live sessions
type SessionStore interface {
	Get(ctx context.Context, id string) (*pulse.Session, error)
	Put(ctx context.Context, sess *pulse.Session) error
	Delete(ctx context.Context, id string) error
}

// Sgt start and return a singleton instance of SessionStore
func Sgt() SessionStore {
	stoOnce.Do(func() {
		stoS = NewStore(settings.Current.SessionStore, settings.Current.SessionLifetime)
	})
	return stoS
}

// NewStore returns a store by kind: memory or redis
func NewStore(kind string, lifetime time.Duration) SessionStore {
	switch kind {
	case "redis":
		logger().Infow("use redis session store")
		return NewRedisStore(SgtRC(), lifetime)
	default:
		logger().Infow("use memory session store")
		return NewMemoryStore(lifetime)
	}
}

// Load returns the session of id, a new one when id is empty or unknown
func Load(ctx context.Context, sto SessionStore, id string) (*pulse.Session, error) {
	if len(id) > 0 {
		sess, err := sto.Get(ctx, id)
		if err == nil {
			return sess, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return nil, err
		}
		logger().Debugw("session not found, create", "id", id)
	}
	sess := pulse.NewSession(id)
	if err := sto.Put(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}
