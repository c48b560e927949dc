package oauth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/garrettladley/fitgate/internal/storage"
	"github.com/garrettladley/fitgate/internal/xhttp"
	"github.com/garrettladley/fitgate/internal/xslog"
)

const (
	callbackPath = "/callback"
	shutdownTime = 5 * time.Second
)

// Presenter shows the consent URL to the user.
type Presenter interface {
	Present(ctx context.Context, consentURL string) error
}

type tokenResult struct {
	token *oauth2.Token
	err   error
}

type callbackHandler func(w http.ResponseWriter, r *http.Request) (*oauth2.Token, error)

// ConsentFlow runs the installed-app loopback flow with PKCE and stores the
// resulting token.
type ConsentFlow struct {
	config     *oauth2.Config
	store      storage.TokenStore
	listenHost string
	logger     *slog.Logger
}

type FlowOption func(*ConsentFlow)

func WithListenHost(host string) FlowOption {
	return func(f *ConsentFlow) { f.listenHost = host }
}

func WithFlowLogger(logger *slog.Logger) FlowOption {
	return func(f *ConsentFlow) { f.logger = logger }
}

func NewConsentFlow(config *oauth2.Config, store storage.TokenStore, opts ...FlowOption) *ConsentFlow {
	f := &ConsentFlow{
		config:     config,
		store:      store,
		listenHost: "127.0.0.1",
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Run asks for scopes, presents the consent URL and blocks until the
// callback arrives or ctx ends. The stored token records the scopes Google
// reports as granted.
func (f *ConsentFlow) Run(ctx context.Context, scopes []string, presenter Presenter) (storage.Token, error) {
	st, err := newState()
	if err != nil {
		return storage.Token{}, fmt.Errorf("failed to generate state: %w", err)
	}
	verifier := oauth2.GenerateVerifier()

	listener, err := net.Listen("tcp", net.JoinHostPort(f.listenHost, "0"))
	if err != nil {
		return storage.Token{}, fmt.Errorf("failed to start listener: %w", err)
	}
	_, port, _ := net.SplitHostPort(listener.Addr().String())

	cfg := *f.config
	cfg.Scopes = scopes
	cfg.RedirectURL = "http://" + net.JoinHostPort(f.listenHost, port) + callbackPath

	resultCh := make(chan tokenResult, 1)
	server := f.serveCallback(listener, func(w http.ResponseWriter, r *http.Request) (*oauth2.Token, error) {
		return exchange(w, r, &cfg, st, verifier)
	}, resultCh)
	defer f.shutdown(ctx, server)

	consentURL := cfg.AuthCodeURL(string(st),
		oauth2.AccessTypeOffline,
		oauth2.S256ChallengeOption(verifier),
		oauth2.SetAuthURLParam("include_granted_scopes", "true"),
		oauth2.SetAuthURLParam("prompt", "consent"),
	)

	if err := presenter.Present(ctx, consentURL); err != nil {
		return storage.Token{}, fmt.Errorf("failed to present consent url: %w", err)
	}

	select {
	case result := <-resultCh:
		if result.err != nil {
			return storage.Token{}, result.err
		}

		token := fromOAuth2(result.token, scopes)
		if err := f.store.UpsertToken(ctx, token); err != nil {
			return storage.Token{}, fmt.Errorf("failed to save token: %w", err)
		}
		f.logger.InfoContext(ctx, "consent granted", xslog.Scopes(token.Scopes))
		return token, nil

	case <-ctx.Done():
		return storage.Token{}, ctx.Err()
	}
}

func exchange(w http.ResponseWriter, r *http.Request, cfg *oauth2.Config, st state, verifier string) (*oauth2.Token, error) {
	query := r.URL.Query()

	if !st.matches(query.Get(ParamState)) {
		http.Error(w, "Invalid state parameter", http.StatusBadRequest)
		return nil, ErrInvalidState
	}

	if errParam := query.Get(ParamError); errParam != "" {
		errDesc := query.Get(ParamErrorDescription)
		http.Error(w, "Authorization was not granted", http.StatusBadRequest)
		if ErrorCode(errParam) == ErrorCodeAccessDenied {
			return nil, ErrConsentDenied
		}
		return nil, fmt.Errorf("oauth error: %s - %s", errParam, errDesc)
	}

	code := query.Get(ParamCode)
	if code == "" {
		http.Error(w, "Missing authorization code", http.StatusBadRequest)
		return nil, ErrMissingCode
	}

	token, err := cfg.Exchange(r.Context(), code, oauth2.VerifierOption(verifier))
	if err != nil {
		http.Error(w, "Failed to exchange authorization code", http.StatusInternalServerError)
		return nil, fmt.Errorf("failed to exchange code: %w", err)
	}

	return token, nil
}

func (f *ConsentFlow) serveCallback(listener net.Listener, handler callbackHandler, resultCh chan<- tokenResult) *http.Server {
	mux := http.NewServeMux()

	mux.HandleFunc("GET "+callbackPath, func(w http.ResponseWriter, r *http.Request) {
		token, err := handler(w, r)
		if err == nil {
			writeSuccessHTML(w)
		}
		// only the first callback counts
		select {
		case resultCh <- tokenResult{token: token, err: err}:
		default:
		}
	})

	server := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			select {
			case resultCh <- tokenResult{err: fmt.Errorf("server error: %w", err)}:
			default:
			}
		}
	}()

	return server
}

func (f *ConsentFlow) shutdown(ctx context.Context, server *http.Server) {
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTime)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		f.logger.WarnContext(ctx, "failed to shut down callback server", xslog.Error(err))
	}
}

// fromOAuth2 converts a token response. Google reports the granted scopes
// in the "scope" field; requested is the fallback when it is absent.
func fromOAuth2(token *oauth2.Token, requested []string) storage.Token {
	scopes := requested
	if granted, ok := token.Extra(ParamScope).(string); ok && granted != "" {
		scopes = strings.Fields(granted)
	}

	return storage.Token{
		AccessToken:  token.AccessToken,
		TokenType:    token.Type(),
		RefreshToken: token.RefreshToken,
		Expiry:       token.Expiry,
		Scopes:       Union(nil, scopes),
	}
}

func toOAuth2(token storage.Token) *oauth2.Token {
	return &oauth2.Token{
		AccessToken:  token.AccessToken,
		TokenType:    token.TokenType,
		RefreshToken: token.RefreshToken,
		Expiry:       token.Expiry,
	}
}

func writeSuccessHTML(w http.ResponseWriter) {
	xhttp.SetHeaderContentTypeTextHTML(w)
	_, _ = fmt.Fprint(w, `<!DOCTYPE html>
<html>
<head><title>fitgate authorized</title></head>
<body>
<h1>Authorization Successful</h1>
<p>You can close this window and return to fitgate.</p>
</body>
</html>`)
}
