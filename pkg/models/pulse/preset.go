package pulse

// Preset texts of the dashboard, loaded from a yaml file
type Preset struct {
	Title           string `json:"title,omitempty" yaml:"title,omitempty"`
	Intro           string `json:"intro,omitempty" yaml:"intro,omitempty"`
	Caption         string `json:"caption,omitempty" yaml:"caption,omitempty"`
	DefaultTicker   string `json:"defaultTicker,omitempty" yaml:"defaultTicker,omitempty"`
	ChatPlaceholder string `json:"chatPlaceholder,omitempty" yaml:"chatPlaceholder,omitempty"`
}

// defaults of preset
const (
	dftTitle       = "Enterprise Crypto Analysis Platform"
	dftIntro       = "Analyze cryptocurrency trends, news, and insights powered by GenAI."
	dftCaption     = "Powered by GenAI"
	dftPlaceholder = "Ask about cryptocurrencies..."
)

// WithDefaults fills empty fields
func (p Preset) WithDefaults() Preset {
	if len(p.Title) == 0 {
		p.Title = dftTitle
	}
	if len(p.Intro) == 0 {
		p.Intro = dftIntro
	}
	if len(p.Caption) == 0 {
		p.Caption = dftCaption
	}
	if len(p.DefaultTicker) == 0 {
		p.DefaultTicker = DefaultTicker
	}
	if len(p.ChatPlaceholder) == 0 {
		p.ChatPlaceholder = dftPlaceholder
	}
	return p
}
