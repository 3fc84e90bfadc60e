// Package services contains the application services of the HireHub client.
// This file defines the session manager: startup restore, login, two-phase
// registration, logout, profile and password changes.
package services

import (
	"context"
	"errors"
	"sync"

	"github.com/dmitrijs2005/hirehub/internal/client/client"
	"github.com/dmitrijs2005/hirehub/internal/client/models"
	"github.com/dmitrijs2005/hirehub/internal/client/notify"
	"github.com/dmitrijs2005/hirehub/internal/client/session"
	"github.com/dmitrijs2005/hirehub/internal/logging"
)

type State int

const (
	StateUninitialized State = iota
	StateRestoring
	StateAnonymous
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateRestoring:
		return "restoring"
	case StateAnonymous:
		return "anonymous"
	case StateAuthenticated:
		return "authenticated"
	}
	return "unknown"
}

const (
	MsgRegisterOK      = "Registration successful! Please check your email for verification."
	MsgRegisterFailed  = "Registration failed"
	MsgLoginOK         = "Login successful!"
	MsgLoginFailed     = "Login failed"
	MsgLogoutOK        = "Logged out successfully"
	MsgProfileOK       = "Profile updated successfully!"
	MsgProfileFailed   = "Profile update failed"
	MsgPasswordOK      = "Password changed successfully!"
	MsgPasswordFailed  = "Password change failed"
	MsgVerifyOK        = "Email verified. You are now signed in."
	MsgNothingToVerify = "No pending registration to verify"
	MsgVerifyFailed    = "Email verification failed"
	MsgNoVerifiedUser  = "Verified account not found"
)

// AuthService owns the in-memory current user and keeps it in step with the
// session store. Fallible operations report through models.Result and a
// notice; they never return an error.
type AuthService struct {
	api    client.API
	store  session.Store
	notice notify.Notifier
	log    logging.Logger

	mu    sync.Mutex
	state State
	user  *models.User

	// gen is bumped by every operation that replaces the session, so a
	// restore validation that finishes late cannot undo a newer login.
	gen            uint64
	restoreStarted bool
	ready          chan struct{}
	readyOnce      sync.Once
	subs           map[int]func(*models.User)
	nextSub        int
}

func NewAuthService(api client.API, store session.Store, n notify.Notifier, log logging.Logger) *AuthService {
	if n == nil {
		n = notify.Nop()
	}
	if log == nil {
		log = logging.Nop()
	}
	return &AuthService{
		api:    api,
		store:  store,
		notice: n,
		log:    log,
		ready:  make(chan struct{}),
		subs:   make(map[int]func(*models.User)),
	}
}

func (a *AuthService) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// CurrentUser returns a copy of the signed-in user, or nil.
func (a *AuthService) CurrentUser() *models.User {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.user.Clone()
}

// Ready is closed once Restore has resolved.
func (a *AuthService) Ready() <-chan struct{} { return a.ready }

func (a *AuthService) WaitReady(ctx context.Context) error {
	select {
	case <-a.ready:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Subscribe registers fn to be called with every change of the current
// user. fn receives its own copy. The returned func unsubscribes.
func (a *AuthService) Subscribe(fn func(*models.User)) (unsubscribe func()) {
	a.mu.Lock()
	id := a.nextSub
	a.nextSub++
	a.subs[id] = fn
	a.mu.Unlock()

	return func() {
		a.mu.Lock()
		delete(a.subs, id)
		a.mu.Unlock()
	}
}

// setUser must be called with mu held. It returns the callbacks to run
// once the lock is released.
func (a *AuthService) setUser(u *models.User, state State) []func() {
	a.user = u
	a.state = state

	calls := make([]func(), 0, len(a.subs))
	for _, fn := range a.subs {
		fn, snapshot := fn, u.Clone()
		calls = append(calls, func() { fn(snapshot) })
	}
	return calls
}

func run(calls []func()) {
	for _, c := range calls {
		c()
	}
}

func (a *AuthService) markReady() {
	a.readyOnce.Do(func() { close(a.ready) })
}

// Restore loads the session saved by a previous run. The cached user is
// published right away; a normal token is then checked with a profile
// request and the session is dropped if the backend rejects it. Demo
// tokens are trusted as is. Restore runs once; later calls wait for the
// first one.
func (a *AuthService) Restore(ctx context.Context) {
	a.mu.Lock()
	if a.restoreStarted {
		a.mu.Unlock()
		_ = a.WaitReady(ctx)
		return
	}
	a.restoreStarted = true
	gen := a.gen
	a.mu.Unlock()
	defer a.markReady()

	token, user, err := a.loadActive(ctx)
	if err != nil {
		a.log.Warn(ctx, "cached session unreadable, discarding", "error", err)
		if err := a.store.Clear(ctx, session.ScopeActive); err != nil {
			a.log.Error(ctx, "clearing session failed", "error", err)
		}
	}

	if token.IsZero() || user == nil {
		a.finishRestore(gen, nil, StateAnonymous)
		return
	}

	a.mu.Lock()
	if a.gen != gen {
		a.mu.Unlock()
		return
	}
	calls := a.setUser(user, StateRestoring)
	a.mu.Unlock()
	run(calls)

	if token.IsDemo() {
		a.log.Info(ctx, "demo session restored, validation skipped", "user", user.Name)
		a.finishRestore(gen, user, StateAuthenticated)
		return
	}

	_, err = a.api.Profile(ctx)
	switch {
	case err == nil:
		a.log.Info(ctx, "session restored", "user", user.Name)
		a.finishRestore(gen, user, StateAuthenticated)
		return
	case errors.Is(err, client.ErrUnavailable), errors.Is(err, client.ErrTimeout), errors.Is(err, context.Canceled):
		// The backend could not answer; that says nothing about the token.
		a.log.Warn(ctx, "session validation inconclusive, keeping cached user", "error", err)
		a.finishRestore(gen, user, StateAuthenticated)
		return
	}

	a.log.Info(ctx, "stored session rejected", "error", err)

	a.mu.Lock()
	if a.gen != gen {
		a.mu.Unlock()
		return
	}
	if err := a.store.Clear(ctx, session.ScopeActive); err != nil {
		a.log.Error(ctx, "clearing session failed", "error", err)
	}
	calls = a.setUser(nil, StateAnonymous)
	a.mu.Unlock()
	run(calls)
}

// finishRestore publishes the outcome of Restore unless another operation
// has replaced the session meanwhile.
func (a *AuthService) finishRestore(gen uint64, user *models.User, state State) {
	a.mu.Lock()
	if a.gen != gen {
		a.mu.Unlock()
		return
	}
	if a.state == state && a.user == user {
		a.mu.Unlock()
		return
	}
	var calls []func()
	if a.user == user {
		a.state = state
	} else {
		calls = a.setUser(user, state)
	}
	a.mu.Unlock()
	run(calls)
}

func (a *AuthService) loadActive(ctx context.Context) (models.Token, *models.User, error) {
	token, err := a.store.Token(ctx, session.ScopeActive)
	if err != nil {
		return "", nil, err
	}
	user, err := a.store.User(ctx, session.ScopeActive)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// failure turns err into a failed Result carrying the backend message, or
// fallback when there is none.
func (a *AuthService) failure(ctx context.Context, op string, err error, fallback string) models.Result {
	msg := client.MessageOf(err)
	if msg == "" {
		msg = fallback
	}
	a.log.Warn(ctx, op+" failed", "error", err, "status", client.StatusOf(err))
	a.notice.Error(msg)
	return models.Fail(msg)
}

// Register creates an account. The returned credentials are parked in the
// pending scope; the caller stays signed out until the email is verified.
func (a *AuthService) Register(ctx context.Context, data models.Registration) models.Result {
	resp, err := a.api.Register(ctx, data)
	if err != nil {
		return a.failure(ctx, "register", err, MsgRegisterFailed)
	}

	if !resp.Success {
		msg := resp.Message
		if msg == "" {
			msg = MsgRegisterFailed
		}
		a.log.Info(ctx, "registration declined", "message", resp.Message)
		a.notice.Error(msg)
		return models.Fail(msg)
	}

	if err := a.store.Save(ctx, session.ScopePending, resp.Token, resp.User); err != nil {
		return a.failure(ctx, "saving pending registration", err, MsgRegisterFailed)
	}

	msg := resp.Message
	if msg == "" {
		msg = MsgRegisterOK
	}
	a.log.Info(ctx, "registered, awaiting email verification", "email", data.Email)
	a.notice.Success(msg)
	return models.Ok(msg)
}

func (a *AuthService) Login(ctx context.Context, creds models.Credentials) models.Result {
	resp, err := a.api.Login(ctx, creds)
	if err != nil {
		return a.failure(ctx, "login", err, MsgLoginFailed)
	}
	if resp == nil || resp.Token.IsZero() || resp.User == nil {
		return a.failure(ctx, "login", client.ErrMalformedResponse, MsgLoginFailed)
	}

	a.mu.Lock()
	a.gen++
	a.mu.Unlock()

	if err := a.store.Save(ctx, session.ScopeActive, resp.Token, resp.User); err != nil {
		return a.failure(ctx, "saving session", err, MsgLoginFailed)
	}

	a.mu.Lock()
	calls := a.setUser(resp.User.Clone(), StateAuthenticated)
	a.mu.Unlock()
	run(calls)

	a.log.Info(ctx, "logged in", "email", creds.Email)
	a.notice.Success(MsgLoginOK)
	return models.Ok(MsgLoginOK)
}

// Logout drops the active session locally. It does not call the backend.
func (a *AuthService) Logout(ctx context.Context) models.Result {
	if err := a.store.Clear(ctx, session.ScopeActive); err != nil {
		a.log.Error(ctx, "clearing session failed", "error", err)
	}
	a.signOut()

	a.log.Info(ctx, "logged out")
	a.notice.Success(MsgLogoutOK)
	return models.Ok(MsgLogoutOK)
}

// SessionExpired is called after the backend rejected the stored token and
// the store has already been cleared. It reports whether a user was signed
// in at that moment.
func (a *AuthService) SessionExpired(ctx context.Context) bool {
	wasSignedIn := a.signOut()
	if wasSignedIn {
		a.log.Info(ctx, "session expired")
	}
	return wasSignedIn
}

func (a *AuthService) signOut() bool {
	a.mu.Lock()
	was := a.user != nil
	a.gen++
	calls := a.setUser(nil, StateAnonymous)
	a.mu.Unlock()
	run(calls)
	return was
}

// UpdateProfile sends the changed fields and replaces the cached user with
// the backend's answer.
func (a *AuthService) UpdateProfile(ctx context.Context, data models.ProfileUpdate) models.Result {
	user, err := a.api.UpdateProfile(ctx, data)
	if err != nil {
		return a.failure(ctx, "profile update", err, MsgProfileFailed)
	}

	if err := a.store.SetUser(ctx, session.ScopeActive, user); err != nil {
		return a.failure(ctx, "saving profile", err, MsgProfileFailed)
	}

	a.mu.Lock()
	calls := a.setUser(user.Clone(), StateAuthenticated)
	a.mu.Unlock()
	run(calls)

	a.notice.Success(MsgProfileOK)
	return models.Ok(MsgProfileOK)
}

func (a *AuthService) ChangePassword(ctx context.Context, data models.PasswordChange) models.Result {
	if err := a.api.ChangePassword(ctx, data); err != nil {
		return a.failure(ctx, "password change", err, MsgPasswordFailed)
	}
	a.notice.Success(MsgPasswordOK)
	return models.Ok(MsgPasswordOK)
}

// CompleteEmailVerification publishes the user cached in the active scope
// and returns it. Moving a verified registration into the active scope is
// someone else's job (see VerifyEmail); when nothing is there this is a
// no-op returning nil.
func (a *AuthService) CompleteEmailVerification(ctx context.Context) *models.User {
	user, err := a.store.User(ctx, session.ScopeActive)
	if err != nil {
		a.log.Warn(ctx, "reading verified user failed", "error", err)
		return nil
	}
	if user == nil {
		return nil
	}

	a.mu.Lock()
	a.gen++
	calls := a.setUser(user, StateAuthenticated)
	a.mu.Unlock()
	run(calls)

	return user.Clone()
}

// VerifyEmail confirms a pending registration: it promotes the pending
// credentials to the active session and signs the user in.
func (a *AuthService) VerifyEmail(ctx context.Context) models.Result {
	if err := a.store.Promote(ctx); err != nil {
		if errors.Is(err, session.ErrNothingPending) {
			a.notice.Error(MsgNothingToVerify)
			return models.Fail(MsgNothingToVerify)
		}
		return a.failure(ctx, "promoting registration", err, MsgVerifyFailed)
	}

	if a.CompleteEmailVerification(ctx) == nil {
		a.notice.Error(MsgNoVerifiedUser)
		return models.Fail(MsgNoVerifiedUser)
	}

	a.notice.Success(MsgVerifyOK)
	return models.Ok(MsgVerifyOK)
}
