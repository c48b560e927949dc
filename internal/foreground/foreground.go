// Package foreground decides where a consent prompt can be shown.
package foreground

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"runtime"
	"sync"

	"github.com/garrettladley/fitgate/internal/gateway"
)

var (
	_ gateway.ForegroundSource = (*Browser)(nil)
	_ gateway.Foreground       = (*Browser)(nil)
	_ gateway.ForegroundSource = None{}
)

// Browser prints the consent URL and tries to open it in the system browser.
// The printed URL is enough on its own when no browser can be launched.
type Browser struct {
	out  io.Writer
	open func(url string) error

	mu sync.Mutex
}

type BrowserOption func(*Browser)

// WithOpener replaces the system browser launcher.
func WithOpener(open func(url string) error) BrowserOption {
	return func(b *Browser) { b.open = open }
}

func NewBrowser(out io.Writer, opts ...BrowserOption) *Browser {
	b := &Browser{out: out, open: openBrowser}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *Browser) Current() (gateway.Foreground, bool) {
	return b, true
}

func (b *Browser) Present(_ context.Context, consentURL string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, err := fmt.Fprintf(b.out, "Open this URL to grant access:\n\n  %s\n\n", consentURL); err != nil {
		return fmt.Errorf("failed to print consent url: %w", err)
	}

	if err := b.open(consentURL); err != nil {
		_, _ = fmt.Fprintf(b.out, "Could not open a browser (%v); use the URL above.\n", err)
	}
	return nil
}

// None never has a foreground, as on a headless server.
type None struct{}

func (None) Current() (gateway.Foreground, bool) {
	return nil, false
}

func openBrowser(url string) error {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "linux":
		cmd = exec.Command("xdg-open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}

	return cmd.Start()
}
