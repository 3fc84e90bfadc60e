// Package session implements the persistent client-side session store.
//
// The store keeps two named scopes: ScopeActive holds the credential and
// cached profile of the signed-in user; ScopePending holds a registered but
// not yet verified account. Nothing moves from pending to active except an
// explicit call to Promote.
package session

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/hirehub/internal/client/models"
)

type Scope string

const (
	ScopeActive  Scope = "active"
	ScopePending Scope = "pending"
)

const (
	keyToken = "token"
	keyUser  = "user"
)

var (
	ErrNothingPending = errors.New("no pending registration")
	ErrCorruptUser    = errors.New("cached user is not valid JSON")
)

// Store is the key/value session storage. Missing values are reported as
// zero values with a nil error.
type Store interface {
	Token(ctx context.Context, scope Scope) (models.Token, error)
	User(ctx context.Context, scope Scope) (*models.User, error)
	Save(ctx context.Context, scope Scope, token models.Token, user *models.User) error
	SetUser(ctx context.Context, scope Scope, user *models.User) error
	Clear(ctx context.Context, scope Scope) error
	Promote(ctx context.Context) error

	// ActiveToken is Token(ctx, ScopeActive); it lets the store act as the
	// HTTP client's token source.
	ActiveToken(ctx context.Context) (models.Token, error)
}
