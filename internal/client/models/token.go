package models

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DemoTokenPrefix marks tokens of demo accounts. The backend has no record
// for them, so they are never validated and never force a logout.
const DemoTokenPrefix = "demo-token"

// Token is an opaque bearer credential.
type Token string

func (t Token) IsZero() bool { return t == "" }

func (t Token) IsDemo() bool { return strings.HasPrefix(string(t), DemoTokenPrefix) }

// Claims decodes the registered JWT claims without verifying the signature.
// The result is informational only; the backend stays the authority.
func (t Token) Claims() (*jwt.RegisteredClaims, error) {
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(string(t), claims); err != nil {
		return nil, err
	}
	return claims, nil
}

// ExpiresAt reports the token expiry when the token is a JWT carrying one.
func (t Token) ExpiresAt() (time.Time, bool) {
	if t.IsZero() || t.IsDemo() {
		return time.Time{}, false
	}
	claims, err := t.Claims()
	if err != nil || claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}
