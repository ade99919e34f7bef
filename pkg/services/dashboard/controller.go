// Package dashboard forwards user actions to the analysis backend and keeps
// the resulting view state on the session.
package dashboard

import (
	"context"
	"fmt"
	"strings"

	"github.com/liut/cryptopulse/pkg/models/pulse"
	"github.com/liut/cryptopulse/pkg/services/backend"
)

// notice texts
const (
	msgNoPrices       = "No price data available"
	msgNoNews         = "No news found."
	msgFeedbackThanks = "Thank you for your feedback!"
	msgFeedbackRetry  = "Could not submit feedback. Please try again."
)

// Backend is the remote analysis service
type Backend interface {
	Chat(ctx context.Context, prompt string) backend.Result[string]
	Prices(ctx context.Context, ticker string) backend.Result[pulse.PriceSeries]
	News(ctx context.Context, ticker string) backend.Result[pulse.NewsArticles]
	Survey(ctx context.Context, sessionID, message string) backend.Result[struct{}]
}

var _ Backend = (*backend.Client)(nil)

// Controller runs the four dashboard operations, each on its own panel
type Controller struct {
	be            Backend
	defaultTicker string
}

func New(be Backend, defaultTicker string) *Controller {
	if len(defaultTicker) == 0 {
		defaultTicker = pulse.DefaultTicker
	}
	return &Controller{be: be, defaultTicker: defaultTicker}
}

// DefaultTicker ...
func (c *Controller) DefaultTicker() string {
	return c.defaultTicker
}

// SubmitChat appends the prompt and, on success, the assistant reply.
// A blank prompt is ignored.
func (c *Controller) SubmitChat(ctx context.Context, sess *pulse.Session, prompt string) (string, *pulse.Notice) {
	if len(strings.TrimSpace(prompt)) == 0 {
		return "", nil
	}
	pr := beginPanel(sess, pulse.PanelChat)
	sess.Append(pulse.RoleUser, prompt)

	res := c.be.Chat(ctx, prompt)
	logger().Infow("chat", "sid", sess.ID, "msgs", len(sess.Messages), "result", res.Kind)
	var notice *pulse.Notice
	switch res.Kind {
	case backend.KindOK:
		sess.Append(pulse.RoleAssistant, res.Payload)
	case backend.KindRejected:
		notice = pulse.ErrorNotice("API Error: " + res.Detail)
	default:
		notice = pulse.ErrorNotice("Connection error: " + res.Detail)
	}
	pr.finish(notice)
	return res.Payload, notice
}

// ResolveTicker returns the ticker as given, or the default one when blank
func (c *Controller) ResolveTicker(ticker string) string {
	if len(strings.TrimSpace(ticker)) == 0 {
		return c.defaultTicker
	}
	return ticker
}

// FetchPrices loads the price history of ticker, sorted ascending by date
func (c *Controller) FetchPrices(ctx context.Context, sess *pulse.Session, ticker string) (pulse.PriceSeries, *pulse.Notice) {
	ticker = c.ResolveTicker(ticker)
	sess.Ticker = ticker
	pr := beginPanel(sess, pulse.PanelPrice)
	sess.Prices = nil
	sess.PriceTicker = ticker

	res := c.be.Prices(ctx, ticker)
	logger().Infow("prices", "sid", sess.ID, "ticker", ticker, "result", res.Kind, "points", len(res.Payload))
	var notice *pulse.Notice
	switch res.Kind {
	case backend.KindOK:
		sess.Prices = res.Payload.Sorted()
	case backend.KindEmpty:
		notice = pulse.InfoNotice(msgNoPrices)
	default:
		notice = pulse.ErrorNotice("Error fetching prices: " + failureDetail(res.Kind, res.Status, res.Detail))
	}
	pr.finish(notice)
	return sess.Prices, notice
}

// FetchNews loads the latest articles of ticker in backend order
func (c *Controller) FetchNews(ctx context.Context, sess *pulse.Session, ticker string) (pulse.NewsArticles, *pulse.Notice) {
	ticker = c.ResolveTicker(ticker)
	sess.Ticker = ticker
	pr := beginPanel(sess, pulse.PanelNews)
	sess.News = nil

	res := c.be.News(ctx, ticker)
	logger().Infow("news", "sid", sess.ID, "ticker", ticker, "result", res.Kind, "articles", len(res.Payload))
	var notice *pulse.Notice
	switch res.Kind {
	case backend.KindOK:
		sess.News = res.Payload
	case backend.KindEmpty:
		notice = pulse.InfoNotice(msgNoNews)
	default:
		notice = pulse.ErrorNotice("Error fetching news: " + failureDetail(res.Kind, res.Status, res.Detail))
	}
	pr.finish(notice)
	return sess.News, notice
}

// SubmitFeedback sends satisfaction and comments with the survey id of the session
func (c *Controller) SubmitFeedback(ctx context.Context, sess *pulse.Session, satisfaction, comments string) *pulse.Notice {
	pr := beginPanel(sess, pulse.PanelFeedback)
	level, err := pulse.ParseSatisfaction(satisfaction)
	if err != nil {
		notice := pulse.WarningNotice(msgFeedbackRetry)
		pr.finish(notice)
		return notice
	}
	sid := sess.EnsureSurveyID()

	res := c.be.Survey(ctx, sid, pulse.ComposeFeedback(level, comments))
	logger().Infow("feedback", "sid", sess.ID, "survey", sid, "level", level, "result", res.Kind)
	var notice *pulse.Notice
	switch res.Kind {
	case backend.KindOK:
		notice = pulse.SuccessNotice(msgFeedbackThanks)
	case backend.KindRejected:
		notice = pulse.WarningNotice(msgFeedbackRetry)
	default:
		notice = pulse.ErrorNotice("Error submitting feedback: " + res.Detail)
	}
	pr.finish(notice)
	return notice
}

func failureDetail(kind backend.Kind, status int, detail string) string {
	if kind == backend.KindRejected {
		return fmt.Sprintf("status %d: %s", status, detail)
	}
	return detail
}
