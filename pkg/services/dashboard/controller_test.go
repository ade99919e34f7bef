package dashboard

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liut/cryptopulse/pkg/models/pulse"
	"github.com/liut/cryptopulse/pkg/services/backend"
)

// mockBackend answers with the configured funcs
type mockBackend struct {
	ChatFunc   func(ctx context.Context, prompt string) backend.Result[string]
	PricesFunc func(ctx context.Context, ticker string) backend.Result[pulse.PriceSeries]
	NewsFunc   func(ctx context.Context, ticker string) backend.Result[pulse.NewsArticles]
	SurveyFunc func(ctx context.Context, sessionID, message string) backend.Result[struct{}]

	surveyIDs []string
	messages  []string
	tickers   []string
}

func (m *mockBackend) Chat(ctx context.Context, prompt string) backend.Result[string] {
	if m.ChatFunc != nil {
		return m.ChatFunc(ctx, prompt)
	}
	return backend.Result[string]{Kind: backend.KindOK, Status: 200, Payload: "echo: " + prompt}
}

func (m *mockBackend) Prices(ctx context.Context, ticker string) backend.Result[pulse.PriceSeries] {
	m.tickers = append(m.tickers, ticker)
	if m.PricesFunc != nil {
		return m.PricesFunc(ctx, ticker)
	}
	return backend.Result[pulse.PriceSeries]{Kind: backend.KindEmpty, Status: 200}
}

func (m *mockBackend) News(ctx context.Context, ticker string) backend.Result[pulse.NewsArticles] {
	m.tickers = append(m.tickers, ticker)
	if m.NewsFunc != nil {
		return m.NewsFunc(ctx, ticker)
	}
	return backend.Result[pulse.NewsArticles]{Kind: backend.KindEmpty, Status: 200}
}

func (m *mockBackend) Survey(ctx context.Context, sessionID, message string) backend.Result[struct{}] {
	m.surveyIDs = append(m.surveyIDs, sessionID)
	m.messages = append(m.messages, message)
	if m.SurveyFunc != nil {
		return m.SurveyFunc(ctx, sessionID, message)
	}
	return backend.Result[struct{}]{Kind: backend.KindOK, Status: 200}
}

func TestSubmitChatSuccess(t *testing.T) {
	c := New(&mockBackend{}, "")
	sess := pulse.NewSession("")

	reply, notice := c.SubmitChat(context.Background(), sess, "price of BTC?")
	assert.Nil(t, notice)
	assert.Equal(t, "echo: price of BTC?", reply)
	require.Len(t, sess.Messages, 2)
	assert.Equal(t, pulse.Message{Role: pulse.RoleUser, Content: "price of BTC?"}, sess.Messages[0])
	assert.Equal(t, pulse.Message{Role: pulse.RoleAssistant, Content: "echo: price of BTC?"}, sess.Messages[1])
	assert.Equal(t, pulse.StateRendered, sess.Panel(pulse.PanelChat).State)

	_, _ = c.SubmitChat(context.Background(), sess, "and ETH?")
	require.Len(t, sess.Messages, 4)
	assert.Equal(t, "and ETH?", sess.Messages[2].Content)
}

func TestSubmitChatFailures(t *testing.T) {
	cases := []struct {
		res    backend.Result[string]
		prefix string
	}{
		{backend.Result[string]{Kind: backend.KindRejected, Status: 502, Detail: "bad gateway"}, "API Error: bad gateway"},
		{backend.Result[string]{Kind: backend.KindTransport, Detail: "connection refused"}, "Connection error: connection refused"},
	}
	for _, tc := range cases {
		be := &mockBackend{ChatFunc: func(ctx context.Context, prompt string) backend.Result[string] {
			return tc.res
		}}
		c := New(be, "")
		sess := pulse.NewSession("")

		_, notice := c.SubmitChat(context.Background(), sess, "hi")
		require.NotNil(t, notice)
		assert.Equal(t, pulse.NoticeError, notice.Level)
		assert.Equal(t, tc.prefix, notice.Text)
		require.Len(t, sess.Messages, 1)
		assert.Equal(t, 0, sess.Messages.Count(pulse.RoleAssistant))
		assert.Equal(t, pulse.StateFailed, sess.Panel(pulse.PanelChat).State)
	}
}

func TestSubmitChatBlank(t *testing.T) {
	called := false
	be := &mockBackend{ChatFunc: func(ctx context.Context, prompt string) backend.Result[string] {
		called = true
		return backend.Result[string]{}
	}}
	c := New(be, "")
	sess := pulse.NewSession("")
	_, notice := c.SubmitChat(context.Background(), sess, "   ")
	assert.Nil(t, notice)
	assert.False(t, called)
	assert.Empty(t, sess.Messages)
	assert.Equal(t, pulse.StateIdle, sess.Panel(pulse.PanelChat).State)
}

func TestFetchPricesSorted(t *testing.T) {
	feb := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	jan := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	be := &mockBackend{PricesFunc: func(ctx context.Context, ticker string) backend.Result[pulse.PriceSeries] {
		return backend.Result[pulse.PriceSeries]{Kind: backend.KindOK, Status: 200,
			Payload: pulse.PriceSeries{{Date: feb, Price: 50}, {Date: jan, Price: 40}}}
	}}
	c := New(be, "")
	sess := pulse.NewSession("")

	series, notice := c.FetchPrices(context.Background(), sess, "")
	assert.Nil(t, notice)
	assert.Equal(t, []string{"BTC"}, be.tickers)
	require.Len(t, series, 2)
	assert.Equal(t, jan, series[0].Date)
	assert.Equal(t, 40.0, series[0].Price)
	assert.Equal(t, feb, series[1].Date)
	assert.Equal(t, 50.0, series[1].Price)
	assert.Equal(t, series, sess.Prices)
	assert.Equal(t, pulse.StateRendered, sess.Panel(pulse.PanelPrice).State)
}

func TestFetchPricesEmptyAndFailure(t *testing.T) {
	be := &mockBackend{}
	c := New(be, "ETH")
	sess := pulse.NewSession("")

	series, notice := c.FetchPrices(context.Background(), sess, " ")
	assert.Empty(t, series)
	require.NotNil(t, notice)
	assert.Equal(t, pulse.NoticeInfo, notice.Level)
	assert.Equal(t, "No price data available", notice.Text)
	assert.Equal(t, []string{"ETH"}, be.tickers)
	assert.Equal(t, pulse.StateRendered, sess.Panel(pulse.PanelPrice).State)

	be.PricesFunc = func(ctx context.Context, ticker string) backend.Result[pulse.PriceSeries] {
		return backend.Result[pulse.PriceSeries]{Kind: backend.KindTransport, Detail: "timeout"}
	}
	sess.Prices = pulse.PriceSeries{{Price: 1}}
	series, notice = c.FetchPrices(context.Background(), sess, "sol")
	assert.Empty(t, series)
	assert.Empty(t, sess.Prices)
	require.NotNil(t, notice)
	assert.Equal(t, pulse.NoticeError, notice.Level)
	assert.Equal(t, "Error fetching prices: timeout", notice.Text)
	assert.Equal(t, "sol", sess.Ticker)
	assert.Equal(t, "sol", sess.PriceTicker)
	assert.Equal(t, pulse.StateFailed, sess.Panel(pulse.PanelPrice).State)
}

func TestResolveTicker(t *testing.T) {
	c := New(&mockBackend{}, "ETH")
	assert.Equal(t, "ETH", c.ResolveTicker(""))
	assert.Equal(t, "ETH", c.ResolveTicker(" \t"))
	assert.Equal(t, "btc", c.ResolveTicker("btc"))
	assert.Equal(t, " sol ", c.ResolveTicker(" sol "))
}

func TestTickerSentAsGiven(t *testing.T) {
	be := &mockBackend{}
	c := New(be, "")
	sess := pulse.NewSession("")

	_, _ = c.FetchPrices(context.Background(), sess, " sol ")
	_, _ = c.FetchNews(context.Background(), sess, "Eth")
	assert.Equal(t, []string{" sol ", "Eth"}, be.tickers)
	assert.Equal(t, " sol ", sess.PriceTicker)
	assert.Equal(t, "Eth", sess.Ticker)
}

func TestFetchNews(t *testing.T) {
	articles := pulse.NewsArticles{{Title: "Z"}, {Title: "A"}}
	be := &mockBackend{NewsFunc: func(ctx context.Context, ticker string) backend.Result[pulse.NewsArticles] {
		return backend.Result[pulse.NewsArticles]{Kind: backend.KindOK, Status: 200, Payload: articles}
	}}
	c := New(be, "")
	sess := pulse.NewSession("")

	got, notice := c.FetchNews(context.Background(), sess, "btc")
	assert.Nil(t, notice)
	assert.Equal(t, articles, got)
	assert.Equal(t, "btc", sess.Ticker)

	be.NewsFunc = nil
	got, notice = c.FetchNews(context.Background(), sess, "btc")
	assert.Empty(t, got)
	require.NotNil(t, notice)
	assert.Equal(t, "No news found.", notice.Text)

	be.NewsFunc = func(ctx context.Context, ticker string) backend.Result[pulse.NewsArticles] {
		return backend.Result[pulse.NewsArticles]{Kind: backend.KindRejected, Status: 404, Detail: "nope"}
	}
	_, notice = c.FetchNews(context.Background(), sess, "btc")
	require.NotNil(t, notice)
	assert.Equal(t, "Error fetching news: status 404: nope", notice.Text)
	assert.Equal(t, pulse.StateFailed, sess.Panel(pulse.PanelNews).State)
}

func TestSubmitFeedback(t *testing.T) {
	be := &mockBackend{}
	c := New(be, "")
	sess := pulse.NewSession("")

	notice := c.SubmitFeedback(context.Background(), sess, "Neutral", "ok")
	require.NotNil(t, notice)
	assert.Equal(t, pulse.NoticeSuccess, notice.Level)
	assert.Equal(t, "Thank you for your feedback!", notice.Text)

	notice = c.SubmitFeedback(context.Background(), sess, "", "")
	assert.Equal(t, pulse.NoticeSuccess, notice.Level)

	require.Len(t, be.surveyIDs, 2)
	assert.NotEmpty(t, be.surveyIDs[0])
	assert.Equal(t, be.surveyIDs[0], be.surveyIDs[1])
	assert.Equal(t, sess.SurveyID, be.surveyIDs[0])
	assert.Equal(t, "Satisfaction: Neutral. Comments: ok", be.messages[0])
	assert.Equal(t, "Satisfaction: Satisfied. Comments: ", be.messages[1])
	// feedback never touches the other panels
	assert.Empty(t, sess.Messages)
	assert.Equal(t, pulse.StateIdle, sess.Panel(pulse.PanelChat).State)
}

func TestSubmitFeedbackFailures(t *testing.T) {
	be := &mockBackend{SurveyFunc: func(ctx context.Context, sessionID, message string) backend.Result[struct{}] {
		return backend.Result[struct{}]{Kind: backend.KindRejected, Status: 500}
	}}
	c := New(be, "")
	sess := pulse.NewSession("")

	notice := c.SubmitFeedback(context.Background(), sess, "Dissatisfied", "slow")
	assert.Equal(t, pulse.NoticeWarning, notice.Level)
	assert.Equal(t, pulse.StateFailed, sess.Panel(pulse.PanelFeedback).State)
	sid := sess.SurveyID
	assert.NotEmpty(t, sid)

	be.SurveyFunc = func(ctx context.Context, sessionID, message string) backend.Result[struct{}] {
		return backend.Result[struct{}]{Kind: backend.KindTransport, Detail: "context deadline exceeded"}
	}
	notice = c.SubmitFeedback(context.Background(), sess, "Dissatisfied", "slow")
	assert.Equal(t, pulse.NoticeError, notice.Level)
	assert.Equal(t, "Error submitting feedback: context deadline exceeded", notice.Text)
	assert.Equal(t, sid, sess.SurveyID)

	notice = c.SubmitFeedback(context.Background(), sess, "Ecstatic", "")
	assert.Equal(t, pulse.NoticeWarning, notice.Level)
	assert.Len(t, be.surveyIDs, 2)
}

func TestRefusedBackendKeepsPanelsApart(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := New(backend.New(url), "")
	sess := pulse.NewSession("")
	ctx := context.Background()

	_, n1 := c.SubmitChat(ctx, sess, "hi")
	_, n2 := c.FetchPrices(ctx, sess, "BTC")
	_, n3 := c.FetchNews(ctx, sess, "BTC")
	n4 := c.SubmitFeedback(ctx, sess, "Neutral", "ok")

	for _, n := range []*pulse.Notice{n1, n2, n3, n4} {
		require.NotNil(t, n)
		assert.Equal(t, pulse.NoticeError, n.Level)
	}
	assert.Len(t, sess.Messages, 1)
	for _, name := range []pulse.PanelName{pulse.PanelChat, pulse.PanelPrice, pulse.PanelNews, pulse.PanelFeedback} {
		assert.Equal(t, pulse.StateFailed, sess.Panel(name).State, name)
	}
}

func TestPanelFSM(t *testing.T) {
	p := &pulse.Panel{}
	sm := newPanelFSM(p)
	require.NoError(t, sm.Fire(triggerSubmit))
	assert.Equal(t, pulse.StateAwaiting, p.State)
	require.NoError(t, sm.Fire(triggerFail))
	assert.Equal(t, pulse.StateFailed, p.State)
	require.NoError(t, sm.Fire(triggerSubmit))
	require.NoError(t, sm.Fire(triggerSucceed))
	assert.Equal(t, pulse.StateRendered, p.State)

	assert.Error(t, sm.Fire(triggerSucceed))
	require.NoError(t, sm.Fire(triggerSubmit))
	assert.Equal(t, pulse.StateAwaiting, p.State)
}
