package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	appenv "github.com/garrettladley/fitgate/internal/env"
	"github.com/garrettladley/fitgate/internal/redis"
	"github.com/garrettladley/fitgate/internal/xslog"
)

const DefaultFitBaseURL = "https://www.googleapis.com/fitness/v1"

type Config struct {
	Env         appenv.Environment `env:"ENV" envDefault:"development"`
	LogLevel    xslog.Level        `env:"LOG_LEVEL" envDefault:"info"`
	Port        string             `env:"PORT" envDefault:"8080"`
	AppName     string             `env:"APP_NAME" envDefault:"fitgate"`
	ConsentUI   ConsentUI          `env:"CONSENT_UI" envDefault:"browser"`
	Timezone    string             `env:"TIMEZONE"`
	DatabaseURL string             `env:"DATABASE_URL"`
	SQLitePath  string             `env:"SQLITE_PATH"`
	Google      Google             `envPrefix:"GOOGLE_"`
	Redis       redis.Config       `envPrefix:"REDIS_"`
}

type Google struct {
	ClientID     string `env:"CLIENT_ID,required"`
	ClientSecret string `env:"CLIENT_SECRET"`
	FitBaseURL   string `env:"FIT_BASE_URL" envDefault:"https://www.googleapis.com/fitness/v1"`
}

// ConsentUI selects how consent URLs reach the user.
type ConsentUI string

const (
	ConsentUIBrowser ConsentUI = "browser"
	ConsentUINone    ConsentUI = "none"
)

func (c *ConsentUI) UnmarshalText(text []byte) error {
	switch v := ConsentUI(text); v {
	case ConsentUIBrowser, ConsentUINone:
		*c = v
		return nil
	default:
		return fmt.Errorf("invalid consent ui %q (valid: browser, none)", text)
	}
}

// Location resolves Timezone, defaulting to the process's local zone.
func (c Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("failed to load timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

func Read() (Config, error) {
	return env.ParseAs[Config]()
}

// ReadFrom parses cfg from an explicit environment map.
func ReadFrom(environ map[string]string) (Config, error) {
	return env.ParseAsWithOptions[Config](env.Options{Environment: environ})
}
