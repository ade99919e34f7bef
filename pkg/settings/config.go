package settings

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// consts
const (
	Name = "CryptoPulse"

	DefaultBackendURL = "https://cryptopulse-cryptocurrency-ai-analysis-dwee.onrender.com"
)

// Config ...
type Config struct {
	Name    string `ignored:"true"`
	Version string `ignored:"true"`
	Develop bool   `envconfig:"DEVELOP"`

	HTTPListen string `envconfig:"HTTP_LISTEN" default:":8501"`

	BackendURL     string        `envconfig:"BACKEND_URL" default:"https://cryptopulse-cryptocurrency-ai-analysis-dwee.onrender.com"`
	BackendTimeout time.Duration `envconfig:"BACKEND_TIMEOUT"` // 0 means no timeout
	SurveyTimeout  time.Duration `envconfig:"SURVEY_TIMEOUT" default:"10s"`

	SessionStore    string        `envconfig:"SESSION_STORE" default:"memory"` // memory | redis
	SessionLifetime time.Duration `envconfig:"SESSION_LIFETIME" default:"24h"`
	RedisURI        string        `envconfig:"redis_uri" default:"redis://localhost:6379/1"`

	CookieName   string `envconfig:"Cookie_Name" default:"cpsid"`
	CookiePath   string `envconfig:"Cookie_Path" default:"/"`
	CookieDomain string `envconfig:"Cookie_Domain"`
	CookieMaxAge int    `envconfig:"Cookie_MaxAge"`

	RateLimit  string `envconfig:"RATE_LIMIT" default:"120-M"` // limiter formatted rate
	PresetFile string `envconfig:"preset_file"`
}

var (
	// Current 当前配置
	Current = new(Config)
)

func init() {
	_ = godotenv.Load()
	if err := envconfig.Process(Name, Current); err != nil {
		log.Printf("envconfig process fail: %s", err)
	}

	Current.Name = Name
	Current.Version = version
}

// Usage 打印配置帮助
func Usage() error {
	log.Printf("ver: %s", Current.Version)
	return envconfig.Usage(Current.Name, Current)
}

// InDevelop ...
func InDevelop() bool {
	return Current.Develop
}
