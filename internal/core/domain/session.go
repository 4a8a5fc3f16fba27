package domain

import "errors"

// ErrAuthInFlight is returned when a login or signup is attempted while a
// previous one is still running.
var ErrAuthInFlight = errors.New("authentication already in progress")

// Session holds the authenticated identity and credential for the current
// user. The zero value is the canonical logged-out state.
//
// Invariant: IsLoggedIn is true iff AccessToken is non-empty and was set by a
// successful login or signup. The struct is always replaced wholesale, never
// mutated field by field. JSON field names match the durable copy written by
// earlier versions of the client, so a stored session survives upgrades.
type Session struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	AccessToken string `json:"accessToken"`
	Image       string `json:"image"`
	IsLoggedIn  bool   `json:"isLoggedIn"`
}

// EmptySession returns the canonical logged-out session.
func EmptySession() Session {
	return Session{}
}
