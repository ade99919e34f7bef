package web

import (
	"fmt"
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/ulule/limiter/v3"
	mhttp "github.com/ulule/limiter/v3/drivers/middleware/stdlib"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

type M = render.M

func (s *server) strapRouter() {
	rateMw := s.rateMw()

	s.ar.Get("/ping", handlerPing)

	if s.cfg.Docs != nil {
		if static, err := fs.Sub(s.cfg.Docs, "static"); err == nil {
			s.ar.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(static))))
		}
	}

	s.ar.Group(func(r chi.Router) {
		r.Use(s.sessionMw)
		r.Get("/", s.getDashboard)

		r.Group(func(r chi.Router) {
			r.Use(rateMw)
			r.Post("/chat", s.postChatForm)
			r.Post("/price", s.postPriceForm)
			r.Post("/news", s.postNewsForm)
			r.Post("/feedback", s.postFeedbackForm)
			r.Post("/reset", s.postReset)
		})
	})

	s.ar.Route("/api", func(r chi.Router) {
		r.Use(rateMw, s.sessionMw)
		r.Get("/session", s.getSession)
		r.Delete("/session", s.deleteSession)
		r.Post("/chat", s.postChat)
		r.Post("/chat-sse", s.postChat)
		r.Get("/price/{ticker}", s.getPrices)
		r.Get("/news/{ticker}", s.getNews)
		r.Post("/feedback", s.postFeedback)
	})
}

// rateMw limits requests per client ip, a bad rate disables it
func (s *server) rateMw() func(next http.Handler) http.Handler {
	if len(s.cfg.RateLimit) > 0 {
		rate, err := limiter.NewRateFromFormatted(s.cfg.RateLimit)
		if err == nil {
			return mhttp.NewMiddleware(limiter.New(memory.NewStore(), rate)).Handler
		}
		logger().Infow("invalid rate limit", "rate", s.cfg.RateLimit, "err", err)
	}
	return func(next http.Handler) http.Handler {
		return next
	}
}

func handlerPing(w http.ResponseWriter, r *http.Request) {
	render.Data(w, r, []byte("Pong\n"))
}

func apiFail(w http.ResponseWriter, r *http.Request, status int, err interface{}) {
	res := render.M{
		"status": status,
		"error":  err,
	}
	switch ret := err.(type) {
	case error:
		res["message"] = ret.Error()
	case fmt.Stringer:
		res["message"] = ret.String()
	case string, *string, []byte:
		res["message"] = ret
	}
	render.Status(r, status)
	render.JSON(w, r, res)
}

type RespDone struct {
	Status int `json:"status"`
	Data   any `json:"data,omitempty"`
	Count  int `json:"count,omitempty"`
}

func apiOk(w http.ResponseWriter, r *http.Request, args ...any) {
	res := &RespDone{}
	if len(args) > 0 && args[0] != nil {
		res.Data = args[0]
		if len(args) > 1 {
			if c, ok := args[1].(int); ok {
				res.Count = c
			}
		}
	}

	render.JSON(w, r, res)
}
