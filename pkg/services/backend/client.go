package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/araddon/dateparse"
	"github.com/go-resty/resty/v2"
	"github.com/spf13/cast"

	"github.com/liut/cryptopulse/pkg/models/pulse"
)

const (
	dftSurveyTimeout = time.Second * 10
)

var (
	errNoResponse = errors.New("missing response field")
)

type chatReq struct {
	Message string `json:"message"`
}

type chatRes struct {
	Response *string `json:"response"`
}

type surveyReq struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

// priceEntry accepts numbers or strings for both fields
type priceEntry struct {
	Date  any `json:"date"`
	Price any `json:"price"`
}

// Client talks to the analysis backend, no auth and no retry
type Client struct {
	rc            *resty.Client
	timeout       time.Duration
	surveyTimeout time.Duration
}

type Option func(c *Client)

// WithTimeout sets the timeout of chat, price and news calls, survey keeps its own
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithSurveyTimeout sets the bounded wait of survey calls
func WithSurveyTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.surveyTimeout = d
		}
	}
}

func New(baseURL string, opts ...Option) *Client {
	rc := resty.New()
	rc.SetBaseURL(baseURL)
	rc.SetHeader("Accept", "application/json")
	c := &Client{rc: rc, surveyTimeout: dftSurveyTimeout}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) BaseURL() string {
	return c.rc.BaseURL
}

func (c *Client) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout > 0 {
		return context.WithTimeout(ctx, c.timeout)
	}
	return ctx, func() {}
}

// isFalsy reports a body of null, false, 0, "", [] or {}
func isFalsy(body []byte) bool {
	var v any
	if err := json.Unmarshal(body, &v); err != nil {
		return false
	}
	switch x := v.(type) {
	case nil:
		return true
	case bool:
		return !x
	case float64:
		return x == 0
	case string:
		return len(x) == 0
	case []any:
		return len(x) == 0
	case map[string]any:
		return len(x) == 0
	}
	return false
}

// Chat posts a prompt to /chat and returns the response text
func (c *Client) Chat(ctx context.Context, prompt string) Result[string] {
	ctx, cancel := c.callContext(ctx)
	defer cancel()
	resp, err := c.rc.R().SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(&chatReq{Message: prompt}).
		Post("/chat")
	if err != nil {
		logger().Infow("chat fail", "err", err)
		return transport[string](err)
	}
	if resp.StatusCode() != http.StatusOK {
		logger().Infow("chat rejected", "status", resp.StatusCode())
		return rejected[string](resp.StatusCode(), resp.String())
	}
	var res chatRes
	if err = json.Unmarshal(resp.Body(), &res); err != nil {
		return transport[string](fmt.Errorf("decode chat response: %w", err))
	}
	if res.Response == nil {
		return transport[string](errNoResponse)
	}
	return success(resp.StatusCode(), *res.Response)
}

// Prices gets /price/{ticker}, ticker goes into the path as is
func (c *Client) Prices(ctx context.Context, ticker string) Result[pulse.PriceSeries] {
	ctx, cancel := c.callContext(ctx)
	defer cancel()
	resp, err := c.rc.R().SetContext(ctx).Get("/price/" + ticker)
	if err != nil {
		logger().Infow("get prices fail", "ticker", ticker, "err", err)
		return transport[pulse.PriceSeries](err)
	}
	if resp.StatusCode() != http.StatusOK {
		return rejected[pulse.PriceSeries](resp.StatusCode(), resp.String())
	}
	if isFalsy(resp.Body()) {
		return empty[pulse.PriceSeries](resp.StatusCode())
	}
	var entries []priceEntry
	if err = json.Unmarshal(resp.Body(), &entries); err != nil {
		return transport[pulse.PriceSeries](fmt.Errorf("decode prices: %w", err))
	}
	if len(entries) == 0 {
		return empty[pulse.PriceSeries](resp.StatusCode())
	}
	series, err := parsePrices(entries)
	if err != nil {
		return transport[pulse.PriceSeries](err)
	}
	logger().Debugw("got prices", "ticker", ticker, "points", len(series))
	return success(resp.StatusCode(), series)
}

func parsePrices(entries []priceEntry) (pulse.PriceSeries, error) {
	out := make(pulse.PriceSeries, 0, len(entries))
	for i, e := range entries {
		ds, err := cast.ToStringE(e.Date)
		if err != nil || len(ds) == 0 {
			return nil, fmt.Errorf("entry %d: invalid date %v", i, e.Date)
		}
		date, err := dateparse.ParseAny(ds)
		if err != nil {
			return nil, fmt.Errorf("entry %d: parse date %q: %w", i, ds, err)
		}
		price, err := cast.ToFloat64E(e.Price)
		if err != nil {
			return nil, fmt.Errorf("entry %d: invalid price %v: %w", i, e.Price, err)
		}
		out = append(out, pulse.PricePoint{Date: date, Price: price})
	}
	return out, nil
}

// News gets /news/{ticker}, articles keep backend order
func (c *Client) News(ctx context.Context, ticker string) Result[pulse.NewsArticles] {
	ctx, cancel := c.callContext(ctx)
	defer cancel()
	resp, err := c.rc.R().SetContext(ctx).Get("/news/" + ticker)
	if err != nil {
		logger().Infow("get news fail", "ticker", ticker, "err", err)
		return transport[pulse.NewsArticles](err)
	}
	if resp.StatusCode() != http.StatusOK {
		return rejected[pulse.NewsArticles](resp.StatusCode(), resp.String())
	}
	if isFalsy(resp.Body()) {
		return empty[pulse.NewsArticles](resp.StatusCode())
	}
	var data pulse.NewsArticles
	if err = json.Unmarshal(resp.Body(), &data); err != nil {
		return transport[pulse.NewsArticles](fmt.Errorf("decode news: %w", err))
	}
	if len(data) == 0 {
		return empty[pulse.NewsArticles](resp.StatusCode())
	}
	return success(resp.StatusCode(), data)
}

// Survey posts a feedback message, waits at most the survey timeout
func (c *Client) Survey(ctx context.Context, sessionID, message string) Result[struct{}] {
	ctx, cancel := context.WithTimeout(ctx, c.surveyTimeout)
	defer cancel()
	resp, err := c.rc.R().SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(&surveyReq{SessionID: sessionID, Message: message}).
		Post("/survey")
	if err != nil {
		logger().Infow("survey fail", "sid", sessionID, "err", err)
		return transport[struct{}](err)
	}
	if resp.StatusCode() != http.StatusOK {
		return rejected[struct{}](resp.StatusCode(), resp.String())
	}
	return success(resp.StatusCode(), struct{}{})
}
