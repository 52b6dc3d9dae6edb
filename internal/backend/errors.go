package backend

import "errors"

// ErrUnauthorized is returned when the backend rejects the request's
// credentials (bad login, missing or expired token).
var ErrUnauthorized = errors.New("unauthorized")
