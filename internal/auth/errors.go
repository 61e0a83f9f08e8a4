package auth

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks malformed or missing input.
	ErrValidation = errors.New("validation failed")
	// ErrInvalidRole marks a login role other than citizen or manager. It
	// also matches ErrValidation.
	ErrInvalidRole = fmt.Errorf("%w: invalid role", ErrValidation)
	// ErrForbiddenRole is returned when a manager code is requested for a
	// phone that is not a manager or admin.
	ErrForbiddenRole = errors.New("user not authorized as manager")
	// ErrInvalidCode covers wrong, expired and already used codes alike.
	ErrInvalidCode = errors.New("invalid or expired code")
	// ErrUserNotFound is returned when a manager code resolves to no account.
	ErrUserNotFound = errors.New("user not found")
	// ErrDelivery is returned when the code could not be sent.
	ErrDelivery = errors.New("code delivery failed")

	// ErrTokenNotFound is returned by token stores when nothing was redeemed.
	ErrTokenNotFound = errors.New("auth token not found")

	// ErrTokenMalformed, ErrTokenSignature and ErrTokenExpired are session
	// token verification failures.
	ErrTokenMalformed = errors.New("malformed session token")
	ErrTokenSignature = errors.New("session token signature mismatch")
	ErrTokenExpired   = errors.New("session token expired")
)
