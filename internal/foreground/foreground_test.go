package foreground

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestBrowserPresent(t *testing.T) {
	t.Parallel()

	const consentURL = "https://accounts.google.com/o/oauth2/auth?state=abc"

	tests := []struct {
		name     string
		openErr  error
		wantNote bool
	}{
		{name: "browser opened"},
		{name: "browser unavailable", openErr: errors.New("exec: xdg-open not found"), wantNote: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var out bytes.Buffer
			var opened string
			b := NewBrowser(&out, WithOpener(func(url string) error {
				opened = url
				return tt.openErr
			}))

			fg, ok := b.Current()
			if !ok {
				t.Fatal("Current() reported no foreground")
			}
			if err := fg.Present(t.Context(), consentURL); err != nil {
				t.Fatalf("Present() unexpected error: %v", err)
			}

			if opened != consentURL {
				t.Errorf("opened %q, want %q", opened, consentURL)
			}
			if !strings.Contains(out.String(), consentURL) {
				t.Errorf("output %q lacks the consent url", out.String())
			}
			if got := strings.Contains(out.String(), "Could not open a browser"); got != tt.wantNote {
				t.Errorf("fallback note printed = %v, want %v", got, tt.wantNote)
			}
		})
	}
}

func TestNone(t *testing.T) {
	t.Parallel()

	if fg, ok := (None{}).Current(); ok || fg != nil {
		t.Errorf("None.Current() = %v, %v, want nil, false", fg, ok)
	}
}
