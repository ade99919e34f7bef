package web

import (
	"bytes"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/go-chi/render"

	"github.com/liut/cryptopulse/pkg/models/pulse"
)

const pageTemplate = "index.html"

var tplFuncs = template.FuncMap{
	"markdown": markdown,
	"ticker":   pulse.DisplayTicker,
}

func parseTemplates(docs fs.FS) (*template.Template, error) {
	if docs == nil {
		return template.New(pageTemplate).Funcs(tplFuncs).Parse(`{{.Preset.Title}}`)
	}
	return template.New(pageTemplate).Funcs(tplFuncs).ParseFS(docs, pageTemplate)
}

// pageData is the view model of the dashboard page
type pageData struct {
	Preset  pulse.Preset
	Version string
	Session *pulse.Session
	Ticker  string
	Levels  []pulse.Satisfaction
	Chart   *Chart

	Chat     *pulse.Panel
	Price    *pulse.Panel
	News     *pulse.Panel
	Feedback *pulse.Panel
}

func (s *server) newPageData(sess *pulse.Session) *pageData {
	ticker := sess.Ticker
	if len(ticker) == 0 {
		ticker = s.ctl.DefaultTicker()
	}
	pd := &pageData{
		Preset:  s.cfg.Preset,
		Version: s.cfg.Version,
		Session: sess,
		Ticker:  ticker,
		Levels:  pulse.SatisfactionLevels,

		Chat:     sess.Panel(pulse.PanelChat),
		Price:    sess.Panel(pulse.PanelPrice),
		News:     sess.Panel(pulse.PanelNews),
		Feedback: sess.Panel(pulse.PanelFeedback),
	}
	if pd.Price.State == pulse.StateRendered {
		pd.Chart = NewChart(sess.PriceTicker, sess.Prices)
	}
	return pd
}

func (s *server) renderPage(w http.ResponseWriter, r *http.Request, pd *pageData) {
	var buf bytes.Buffer
	if err := s.tpl.ExecuteTemplate(&buf, pageTemplate, pd); err != nil {
		logger().Infow("render page fail", "err", err)
		http.Error(w, "render page fail", http.StatusInternalServerError)
		return
	}
	render.HTML(w, r, buf.String())
}
