package web

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/jpillora/eventsource"
	"github.com/marcsv/go-binder/binder"

	"github.com/liut/cryptopulse/pkg/models/pulse"
)

const esDone = "[DONE]"

type chatParam struct {
	Message string `json:"message"`
}

type feedbackParam struct {
	Satisfaction string `json:"satisfaction"`
	Comments     string `json:"comments"`
}

// ChatMessage is the reply of one chat turn
type ChatMessage struct {
	Response string         `json:"response"`
	Messages pulse.Messages `json:"messages"`
}

type sessionView struct {
	ID       string                           `json:"id"`
	Ticker   string                           `json:"ticker"`
	Messages pulse.Messages                   `json:"messages"`
	Panels   map[pulse.PanelName]*pulse.Panel `json:"panels,omitempty"`
}

type priceView struct {
	Ticker string            `json:"ticker"`
	Points pulse.PriceSeries `json:"points"`
	Notice *pulse.Notice     `json:"notice,omitempty"`
}

type newsView struct {
	Ticker   string             `json:"ticker"`
	Articles pulse.NewsArticles `json:"articles"`
	Notice   *pulse.Notice      `json:"notice,omitempty"`
}

func (s *server) getSession(w http.ResponseWriter, r *http.Request) {
	sess, _ := SessionFromContext(r.Context())
	apiOk(w, r, &sessionView{
		ID:       sess.ID,
		Ticker:   sess.CurrentTicker(),
		Messages: sess.Messages,
		Panels:   sess.Panels,
	})
}

func (s *server) deleteSession(w http.ResponseWriter, r *http.Request) {
	s.dropSession(w, r)
	w.WriteHeader(http.StatusNoContent)
}

func (s *server) postChat(w http.ResponseWriter, r *http.Request) {
	var param chatParam
	if err := binder.BindBody(r, &param); err != nil {
		apiFail(w, r, 400, err)
		return
	}
	if len(strings.TrimSpace(param.Message)) == 0 {
		apiFail(w, r, 400, "empty message")
		return
	}
	sess, _ := SessionFromContext(r.Context())
	logger().Infow("chat", "sid", sess.ID, "prompt", param.Message, "ip", r.RemoteAddr)

	reply, notice := s.ctl.SubmitChat(r.Context(), sess, param.Message)
	if strings.HasSuffix(r.URL.Path, "-sse") {
		s.chatStreamResponse(w, reply, notice)
		return
	}
	if notice != nil {
		apiFail(w, r, http.StatusBadGateway, notice.Text)
		return
	}
	apiOk(w, r, &ChatMessage{Response: reply, Messages: sess.Messages})
}

// chatStreamResponse sends the reply or the failure as one event, then done
func (s *server) chatStreamResponse(w http.ResponseWriter, reply string, notice *pulse.Notice) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported!", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Content-Type", "text/event-stream")

	var m any = M{"response": reply}
	if notice != nil {
		m = M{"notice": notice}
	}
	if writeEvent(w, "1", m) {
		_ = writeEvent(w, "2", esDone)
	}
	flusher.Flush()
}

// writeEvent write and auto flush
func writeEvent(w io.Writer, id string, m any) bool {
	var b []byte
	var err error
	if s, ok := m.(string); ok {
		b = []byte(s)
	} else {
		b, err = json.Marshal(m)
		if err != nil {
			logger().Infow("json marshal fail", "m", m, "err", err)
			return false
		}
	}

	if err = eventsource.WriteEvent(w, eventsource.Event{
		ID:   id,
		Data: b,
	}); err != nil {
		logger().Infow("eventsource write fail", "err", err)
		return false
	}

	return true
}

func (s *server) getPrices(w http.ResponseWriter, r *http.Request) {
	sess, _ := SessionFromContext(r.Context())
	series, notice := s.ctl.FetchPrices(r.Context(), sess, chi.URLParam(r, "ticker"))
	if notice.IsFailure() {
		apiFail(w, r, http.StatusBadGateway, notice.Text)
		return
	}
	apiOk(w, r, &priceView{Ticker: sess.PriceTicker, Points: series, Notice: notice}, len(series))
}

func (s *server) getNews(w http.ResponseWriter, r *http.Request) {
	sess, _ := SessionFromContext(r.Context())
	articles, notice := s.ctl.FetchNews(r.Context(), sess, chi.URLParam(r, "ticker"))
	if notice.IsFailure() {
		apiFail(w, r, http.StatusBadGateway, notice.Text)
		return
	}
	apiOk(w, r, &newsView{Ticker: sess.Ticker, Articles: articles, Notice: notice}, len(articles))
}

func (s *server) postFeedback(w http.ResponseWriter, r *http.Request) {
	var param feedbackParam
	if err := binder.BindBody(r, &param); err != nil {
		apiFail(w, r, 400, err)
		return
	}
	if _, err := pulse.ParseSatisfaction(param.Satisfaction); err != nil {
		apiFail(w, r, 400, err)
		return
	}
	sess, _ := SessionFromContext(r.Context())
	notice := s.ctl.SubmitFeedback(r.Context(), sess, param.Satisfaction, param.Comments)
	if notice.IsFailure() {
		apiFail(w, r, http.StatusBadGateway, notice.Text)
		return
	}
	apiOk(w, r, M{"notice": notice})
}
