// Package models defines the client-side data records exchanged with the
// PetAlert API and held by the session store.
package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionUser is the signed-in user as returned by the API.
//
// A SessionUser is either complete (see Valid) or not installed at all;
// the session store never holds a partially filled record.
type SessionUser struct {
	ID          string `json:"_id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Phone       string `json:"phone,omitempty"`
	Viber       string `json:"viber,omitempty"`
	Address     string `json:"address,omitempty"`
	AccessToken string `json:"access_token"`
}

// Valid reports whether all required fields are present.
func (u *SessionUser) Valid() bool {
	return u != nil && u.ID != "" && u.Email != "" && u.AccessToken != ""
}

// Clone returns a copy that can be handed out without exposing the
// store's own record.
func (u *SessionUser) Clone() *SessionUser {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}

// TokenExpiry returns the "exp" claim of the access token when the token is
// a JWT carrying one. The signature is not verified: the value is for
// display only and never used to decide whether the session is valid.
func (u *SessionUser) TokenExpiry() (time.Time, bool) {
	if u == nil || u.AccessToken == "" {
		return time.Time{}, false
	}
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(u.AccessToken, &claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}
