package pulse

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// PanelState of one panel: idle -> awaiting -> rendered|failed
type PanelState string

const (
	StateIdle     PanelState = "idle"
	StateAwaiting PanelState = "awaiting"
	StateRendered PanelState = "rendered"
	StateFailed   PanelState = "failed"
)

// PanelName ...
type PanelName string

const (
	PanelChat     PanelName = "chat"
	PanelPrice    PanelName = "price"
	PanelNews     PanelName = "news"
	PanelFeedback PanelName = "feedback"
)

// Panel is the view state of one interactive panel
type Panel struct {
	State  PanelState `json:"state"`
	Notice *Notice    `json:"notice,omitempty"`
}

// Session holds the transient state of one user, created on first access
// and dropped on teardown
type Session struct {
	ID          string               `json:"id"`
	Ticker      string               `json:"ticker,omitempty"`
	Messages    Messages             `json:"messages,omitempty"`
	SurveyID    string               `json:"surveyID,omitempty"`
	Prices      PriceSeries          `json:"prices,omitempty"`
	PriceTicker string               `json:"priceTicker,omitempty"` // ticker of Prices
	News        NewsArticles         `json:"news,omitempty"`
	Panels      map[PanelName]*Panel `json:"panels,omitempty"`
	CreatedAt   time.Time            `json:"created"`
}

func NewSession(id string) *Session {
	if len(id) == 0 {
		id = uuid.NewString()
	}
	return &Session{ID: id, CreatedAt: time.Now()}
}

// Append adds a message at the end of the conversation
func (s *Session) Append(role, content string) {
	s.Messages = append(s.Messages, Message{Role: role, Content: content})
}

// EnsureSurveyID returns the survey session id, generating it on first call
func (s *Session) EnsureSurveyID() string {
	if len(s.SurveyID) == 0 {
		s.SurveyID = uuid.NewString()
	}
	return s.SurveyID
}

// CurrentTicker returns the ticker or the default one
func (s *Session) CurrentTicker() string {
	if len(s.Ticker) == 0 {
		return DefaultTicker
	}
	return s.Ticker
}

// Panel returns the named panel, creating an idle one if absent
func (s *Session) Panel(name PanelName) *Panel {
	if s.Panels == nil {
		s.Panels = make(map[PanelName]*Panel)
	}
	p, ok := s.Panels[name]
	if !ok {
		p = &Panel{State: StateIdle}
		s.Panels[name] = p
	}
	return p
}

// MarshalBinary implements the encoding.BinaryMarshaler interface.
func (s *Session) MarshalBinary() (data []byte, err error) {
	data, err = json.Marshal(s)
	return
}

// UnmarshalBinary unmarshal a binary representation of itself. for redis result.Scan
func (s *Session) UnmarshalBinary(data []byte) error {
	var t Session
	err := json.Unmarshal(data, &t)
	if err == nil {
		*s = t
	}
	return err
}
