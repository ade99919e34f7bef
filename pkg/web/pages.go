package web

import (
	"net/http"

	"github.com/liut/cryptopulse/pkg/models/pulse"
)

func (s *server) getDashboard(w http.ResponseWriter, r *http.Request) {
	sess, _ := SessionFromContext(r.Context())
	s.renderPage(w, r, s.newPageData(sess))
}

// back redirects to the dashboard, at the anchor of the panel
func back(w http.ResponseWriter, r *http.Request, panel pulse.PanelName) {
	http.Redirect(w, r, "/#"+string(panel), http.StatusSeeOther)
}

func (s *server) postChatForm(w http.ResponseWriter, r *http.Request) {
	sess, _ := SessionFromContext(r.Context())
	_, _ = s.ctl.SubmitChat(r.Context(), sess, r.PostFormValue("prompt"))
	back(w, r, pulse.PanelChat)
}

func (s *server) postPriceForm(w http.ResponseWriter, r *http.Request) {
	sess, _ := SessionFromContext(r.Context())
	_, _ = s.ctl.FetchPrices(r.Context(), sess, r.PostFormValue("ticker"))
	back(w, r, pulse.PanelPrice)
}

func (s *server) postNewsForm(w http.ResponseWriter, r *http.Request) {
	sess, _ := SessionFromContext(r.Context())
	_, _ = s.ctl.FetchNews(r.Context(), sess, r.PostFormValue("ticker"))
	back(w, r, pulse.PanelNews)
}

func (s *server) postFeedbackForm(w http.ResponseWriter, r *http.Request) {
	sess, _ := SessionFromContext(r.Context())
	_ = s.ctl.SubmitFeedback(r.Context(), sess, r.PostFormValue("satisfaction"), r.PostFormValue("comments"))
	back(w, r, pulse.PanelFeedback)
}

func (s *server) postReset(w http.ResponseWriter, r *http.Request) {
	s.dropSession(w, r)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
