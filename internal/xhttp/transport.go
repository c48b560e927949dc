package xhttp

import (
	"fmt"
	"net/http"

	"github.com/garrettladley/fitgate/internal/version"
)

type fitgateTransport struct {
	base http.RoundTripper
}

var _ http.RoundTripper = (*fitgateTransport)(nil)

func (t *fitgateTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("User-Agent", UserAgent())
	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, fmt.Errorf("failed to perform round trip: %w", err)
	}
	return resp, nil
}

// NewTransport returns an http.RoundTripper that stamps the fitgate User-Agent.
func NewTransport() http.RoundTripper {
	return &fitgateTransport{base: http.DefaultTransport}
}

func UserAgent() string {
	return "fitgate/" + version.Get()
}
