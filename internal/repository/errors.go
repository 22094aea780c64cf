package repository

import "errors"

// ErrNotFound is returned when a query matches no rows. Services translate it
// into their own not-found error; any other repository error is an
// infrastructure failure and stays wrapped.
var ErrNotFound = errors.New("not found")
