package client

import (
	"context"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/hirehub/internal/client/notify"
	"github.com/dmitrijs2005/hirehub/internal/client/session"
	"github.com/dmitrijs2005/hirehub/internal/logging"
)

// UnreachableMessage is the notice shown when the backend cannot be reached.
const UnreachableMessage = "Unable to connect to server. Please check if backend is running."

// Outcome describes how a request ended. Status is 0 when no response was
// received.
type Outcome struct {
	Method    string
	Path      string
	RequestID string
	Status    int
	Err       error
}

// Policy reacts to the outcome of every request, successful or not.
// Policies observe; they never change the error returned to the caller.
type Policy interface {
	Handle(ctx context.Context, out Outcome)
}

type PolicyFunc func(ctx context.Context, out Outcome)

func (f PolicyFunc) Handle(ctx context.Context, out Outcome) { f(ctx, out) }

// Navigator sends the user back to the login entry point.
type Navigator interface {
	ToLogin(ctx context.Context)
}

type NavigatorFunc func(ctx context.Context)

func (f NavigatorFunc) ToLogin(ctx context.Context) { f(ctx) }

// AuthFailurePolicy tears the active session down on 401 answers, unless
// the stored token is a demo token.
type AuthFailurePolicy struct {
	Store     session.Store
	Navigator Navigator
	Logger    logging.Logger
}

func (p *AuthFailurePolicy) Handle(ctx context.Context, out Outcome) {
	if out.Status != http.StatusUnauthorized {
		return
	}

	token, err := p.Store.ActiveToken(ctx)
	if err != nil {
		p.Logger.Warn(ctx, "reading token after 401 failed, treating as absent", "error", err)
		token = ""
	}
	if token.IsDemo() {
		p.Logger.Debug(ctx, "401 ignored for demo session", "path", out.Path)
		return
	}

	p.Logger.Info(ctx, "session rejected by backend, signing out", "path", out.Path, "request_id", out.RequestID)
	if err := p.Store.Clear(ctx, session.ScopeActive); err != nil {
		p.Logger.Error(ctx, "clearing session failed", "error", err)
	}
	if p.Navigator != nil {
		p.Navigator.ToLogin(ctx)
	}
}

// NetworkFailurePolicy surfaces an "unreachable" notice. It never touches
// the session.
type NetworkFailurePolicy struct {
	Notifier notify.Notifier
	Logger   logging.Logger
}

func (p *NetworkFailurePolicy) Handle(ctx context.Context, out Outcome) {
	if !errors.Is(out.Err, ErrUnavailable) {
		return
	}
	p.Logger.Error(ctx, "backend connection failed", "path", out.Path, "error", out.Err)
	p.Notifier.Error(UnreachableMessage)
}
