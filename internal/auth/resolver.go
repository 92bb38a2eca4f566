package auth

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	ghauth "github.com/cli/go-gh/v2/pkg/auth"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"

	"github.com/wahlandcase/prdash/internal/config"
)

// ErrSignInUnavailable is returned when no OAuth app is configured
var ErrSignInUnavailable = errors.New("browser sign-in is not configured (set auth.client_id and auth.client_secret)")

// Resolver looks up a token from the config (including PRDASH_TOKEN), then
// from the GitHub CLI, and can run the OAuth web flow on request.
type Resolver struct {
	host  string
	token string
	oauth *oauth2.Config
	port  int
	log   *zap.Logger

	// tokenForHost is go-gh's lookup (GH_TOKEN, GITHUB_TOKEN, gh config)
	tokenForHost func(host string) (string, string)
}

// NewResolver creates a resolver from the loaded config
func NewResolver(cfg *config.Config, log *zap.Logger) *Resolver {
	if log == nil {
		log = zap.NewNop()
	}
	r := &Resolver{
		host:         cfg.GitHub.Host,
		token:        cfg.Auth.Token,
		port:         cfg.Auth.CallbackPort,
		log:          log.Named("auth"),
		tokenForHost: ghauth.TokenForHost,
	}
	if cfg.OAuthEnabled() {
		r.oauth = &oauth2.Config{
			ClientID:     cfg.Auth.ClientID,
			ClientSecret: cfg.Auth.ClientSecret,
			Scopes:       cfg.Auth.Scopes,
			Endpoint:     endpointFor(cfg.GitHub.Host),
		}
	}
	return r
}

func endpointFor(host string) oauth2.Endpoint {
	if host == "" || host == "github.com" {
		return github.Endpoint
	}
	base := "https://" + strings.TrimSuffix(host, "/")
	return oauth2.Endpoint{
		AuthURL:  base + "/login/oauth/authorize",
		TokenURL: base + "/login/oauth/access_token",
	}
}

func (r *Resolver) Resolve(ctx context.Context) (Session, error) {
	if r.token != "" {
		s := Session{Token: r.token, Source: SourceConfig}
		logSession(r.log, s)
		return s, nil
	}

	if r.tokenForHost != nil {
		if token, src := r.tokenForHost(r.host); token != "" {
			r.log.Debug("using gh credential", zap.String("gh_source", src))
			s := Session{Token: token, Source: SourceGH}
			logSession(r.log, s)
			return s, nil
		}
	}

	return Session{}, ErrNoCredential
}

func (r *Resolver) CanSignIn() bool {
	return r.oauth != nil
}

type callbackResult struct {
	code string
	err  error
}

// SignIn runs the OAuth authorization code flow through a loopback server
// on 127.0.0.1 and exchanges the code for a token.
func (r *Resolver) SignIn(ctx context.Context, open func(url string) error) (Session, error) {
	if r.oauth == nil {
		return Session{}, ErrSignInUnavailable
	}

	listener, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", r.port))
	if err != nil {
		return Session{}, fmt.Errorf("starting callback server: %w", err)
	}

	cfg := *r.oauth
	cfg.RedirectURL = fmt.Sprintf("http://%s/callback", listener.Addr().String())

	state := uuid.NewString()
	results := make(chan callbackResult, 1)

	srv := &http.Server{
		Handler:           newCallbackRouter(state, results, r.log),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			r.log.Error("callback server stopped", zap.Error(err))
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	authURL := cfg.AuthCodeURL(state, oauth2.AccessTypeOnline)
	if err := open(authURL); err != nil {
		r.log.Warn("could not open browser", zap.Error(err))
	}

	var res callbackResult
	select {
	case <-ctx.Done():
		return Session{}, ctx.Err()
	case res = <-results:
	}
	if res.err != nil {
		return Session{}, res.err
	}

	tok, err := cfg.Exchange(ctx, res.code)
	if err != nil {
		return Session{}, fmt.Errorf("exchanging code: %w", err)
	}

	s := Session{Token: tok.AccessToken, Source: SourceOAuth}
	logSession(r.log, s)
	return s, nil
}
