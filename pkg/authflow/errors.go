package authflow

import "errors"

var (
	// ErrInvalidCredentials means the identity provider rejected the
	// email/password pair outright.
	ErrInvalidCredentials = errors.New("authflow: invalid credentials")

	// ErrSessionNotReady means session-availability polling exhausted its
	// attempt budget without the provider hydrating a session.
	ErrSessionNotReady = errors.New("authflow: session not initialized yet")

	// ErrEmailUnverified means the identity exists but its email is not
	// confirmed. The acquirer signs the session back out before returning
	// this, so no live session survives the check.
	ErrEmailUnverified = errors.New("authflow: email not verified")

	// ErrRoleLookupFailed means the user-record lookup itself failed.
	// A record that simply does not exist yet is not an error and is
	// reported as an absent role instead.
	ErrRoleLookupFailed = errors.New("authflow: role lookup failed")
)
