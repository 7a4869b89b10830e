package service

import "errors"

// ErrForbidden is returned when a user tries to access another user's resource.
var ErrForbidden = errors.New("forbidden")

// ErrUnauthenticated is returned when an operation that requires an identity
// is attempted without one. It is checked before any repository call.
var ErrUnauthenticated = errors.New("authentication required")
