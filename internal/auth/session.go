// Package auth resolves the GitHub credential used for every API call.
package auth

import (
	"context"
	"errors"

	"go.uber.org/zap"
)

// ErrNoCredential means no token was found and the user has to sign in
var ErrNoCredential = errors.New("no GitHub credential found")

// Source records where a session token came from
type Source string

const (
	SourceConfig Source = "config"
	SourceGH     Source = "gh"
	SourceOAuth  Source = "oauth"
	SourceDryRun Source = "dry-run"
)

// Session is an authenticated identity. A zero Session is signed out.
type Session struct {
	Token  string
	Login  string
	Source Source
}

// Valid reports whether the session can be used for API calls
func (s Session) Valid() bool {
	return s.Token != ""
}

// Authenticator is what the app needs to obtain a session
type Authenticator interface {
	// Resolve finds an existing credential without user interaction
	Resolve(ctx context.Context) (Session, error)
	// CanSignIn reports whether SignIn is available
	CanSignIn() bool
	// SignIn runs an interactive flow; open is called with the URL the user
	// has to visit
	SignIn(ctx context.Context, open func(url string) error) (Session, error)
}

// Static always resolves to the same session. Used for --dry-run and tests.
type Static struct {
	Session Session
	// Err is returned by Resolve when set
	Err error
	// SignInSession is returned by SignIn; SignIn is unavailable when invalid
	SignInSession Session
}

func (s *Static) Resolve(ctx context.Context) (Session, error) {
	if s.Err != nil {
		return Session{}, s.Err
	}
	if !s.Session.Valid() {
		return Session{}, ErrNoCredential
	}
	return s.Session, nil
}

func (s *Static) CanSignIn() bool {
	return s.SignInSession.Valid()
}

func (s *Static) SignIn(ctx context.Context, open func(url string) error) (Session, error) {
	if !s.CanSignIn() {
		return Session{}, ErrSignInUnavailable
	}
	return s.SignInSession, nil
}

func logSession(log *zap.Logger, s Session) {
	log.Info("session resolved", zap.String("source", string(s.Source)))
}
