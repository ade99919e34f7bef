package stores

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/liut/cryptopulse/pkg/models/pulse"
	"github.com/liut/cryptopulse/pkg/settings"
)

type RedisClient = redis.UniversalClient

var (
	rcOnce sync.Once
	rcu    RedisClient
)

// SgtRC start return a singleton instance of redis client
func SgtRC() RedisClient {
	rcOnce.Do(func() {
		redisURI := settings.Current.RedisURI
		opt, err := redis.ParseURL(redisURI)
		if err != nil {
			logger().Panicw("prase redisURI fail", "uri", redisURI, "err", err)
		}
		rcu = redis.NewClient(opt)
		pingStatus := rcu.Ping(context.Background())
		if err = pingStatus.Err(); err != nil {
			logger().Panicw("ping redis fail", "err", err)
		}
	})

	return rcu
}

type redisStore struct {
	rc       RedisClient
	lifetime time.Duration
}

// NewRedisStore keeps each session as one json value with a ttl
func NewRedisStore(rc RedisClient, lifetime time.Duration) SessionStore {
	return &redisStore{rc: rc, lifetime: lifetime}
}

func (s *redisStore) Get(ctx context.Context, id string) (*pulse.Session, error) {
	if len(id) == 0 {
		return nil, ErrEmptyKey
	}
	sess := new(pulse.Session)
	err := s.rc.Get(ctx, getKey(id)).Scan(sess)
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		logger().Infow("get session fail", "id", id, "err", err)
		return nil, fmt.Errorf("get session %s: %w", id, err)
	}
	return sess, nil
}

func (s *redisStore) Put(ctx context.Context, sess *pulse.Session) error {
	if len(sess.ID) == 0 {
		return ErrEmptyKey
	}
	err := s.rc.Set(ctx, getKey(sess.ID), sess, s.lifetime).Err()
	if err != nil {
		logger().Infow("put session fail", "id", sess.ID, "err", err)
		return fmt.Errorf("put session %s: %w", sess.ID, err)
	}
	logger().Debugw("put session ok", "id", sess.ID, "msgs", len(sess.Messages))
	return nil
}

func (s *redisStore) Delete(ctx context.Context, id string) error {
	return s.rc.Del(ctx, getKey(id)).Err()
}

func getKey(id string) string {
	return "pulse-sess-" + id
}
