package oauth

import (
	"golang.org/x/oauth2"

	"github.com/garrettladley/fitgate/internal/config"
)

const (
	authURL  = "https://accounts.google.com/o/oauth2/auth"
	tokenURL = "https://oauth2.googleapis.com/token" //nolint:gosec // not credentials, just endpoint URL
)

// NewConfig returns a config without scopes or a redirect URL. Both are
// filled in per consent flow.
func NewConfig(google config.Google) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     google.ClientID,
		ClientSecret: google.ClientSecret,
		Endpoint: oauth2.Endpoint{
			AuthURL:   authURL,
			TokenURL:  tokenURL,
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}
}
