package web

import (
	"context"
	"net/http"
	"sync"

	"github.com/google/uuid"

	"github.com/liut/cryptopulse/pkg/models/pulse"
	"github.com/liut/cryptopulse/pkg/services/stores"
)

type CookieConfig struct {
	Name   string
	Path   string
	Domain string
	MaxAge int
}

func (cc *CookieConfig) setDefaults() {
	if len(cc.Name) == 0 {
		cc.Name = "cpsid"
	}
	if len(cc.Path) == 0 {
		cc.Path = "/"
	}
}

type ctxSessKey struct{}

// sessionHolder carries the session of one request, dropped ones are not saved back
type sessionHolder struct {
	sess    *pulse.Session
	dropped bool
}

func sessionFromContext(ctx context.Context) (*sessionHolder, bool) {
	sh, ok := ctx.Value(ctxSessKey{}).(*sessionHolder)
	return sh, ok
}

// SessionFromContext returns the session bound by the session middleware
func SessionFromContext(ctx context.Context) (*pulse.Session, bool) {
	if sh, ok := sessionFromContext(ctx); ok {
		return sh.sess, true
	}
	return nil, false
}

// sessionMw loads the session of the cookie, creates it on first visit and
// saves it after the handler. Requests of one session run one at a time.
func (s *server) sessionMw(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var id string
		if c, err := r.Cookie(s.cfg.Cookie.Name); err == nil {
			id = c.Value
		}
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
			s.setCookie(w, id)
		}

		unlock := s.locks.Lock(id)
		defer unlock()

		ctx := r.Context()
		sess, err := stores.Load(ctx, s.sto, id)
		if err != nil {
			logger().Infow("load session fail", "id", id, "err", err)
			http.Error(w, "session unavailable", http.StatusServiceUnavailable)
			return
		}
		sh := &sessionHolder{sess: sess}
		next.ServeHTTP(w, r.WithContext(context.WithValue(ctx, ctxSessKey{}, sh)))

		if sh.dropped {
			return
		}
		// the request may be gone, the state must still be kept
		if err = s.sto.Put(context.WithoutCancel(ctx), sh.sess); err != nil {
			logger().Infow("save session fail", "id", id, "err", err)
		}
	})
}

// dropSession ends the session of the request
func (s *server) dropSession(w http.ResponseWriter, r *http.Request) {
	sh, ok := sessionFromContext(r.Context())
	if !ok {
		return
	}
	if err := s.sto.Delete(r.Context(), sh.sess.ID); err != nil {
		logger().Infow("delete session fail", "id", sh.sess.ID, "err", err)
	}
	sh.dropped = true
	http.SetCookie(w, &http.Cookie{
		Name:   s.cfg.Cookie.Name,
		Path:   s.cfg.Cookie.Path,
		Domain: s.cfg.Cookie.Domain,
		MaxAge: -1,
	})
	logger().Infow("session dropped", "id", sh.sess.ID, "msgs", len(sh.sess.Messages))
}

func (s *server) setCookie(w http.ResponseWriter, id string) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.cfg.Cookie.Name,
		Value:    id,
		Path:     s.cfg.Cookie.Path,
		Domain:   s.cfg.Cookie.Domain,
		MaxAge:   s.cfg.Cookie.MaxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// sessionLocks is a mutex per session id
type sessionLocks struct {
	mu sync.Mutex
	m  map[string]*sessionLock
}

type sessionLock struct {
	mu   sync.Mutex
	refs int
}

func newSessionLocks() *sessionLocks {
	return &sessionLocks{m: make(map[string]*sessionLock)}
}

func (l *sessionLocks) Lock(id string) (unlock func()) {
	l.mu.Lock()
	sl, ok := l.m[id]
	if !ok {
		sl = new(sessionLock)
		l.m[id] = sl
	}
	sl.refs++
	l.mu.Unlock()

	sl.mu.Lock()
	return func() {
		sl.mu.Unlock()
		l.mu.Lock()
		sl.refs--
		if sl.refs == 0 {
			delete(l.m, id)
		}
		l.mu.Unlock()
	}
}
