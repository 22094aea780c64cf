package services

import (
	"errors"
	"fmt"

	"crewlink-backend/internal/repository"
)

// Sentinel errors for engine validation failures. All are deterministic
// outcomes of the supplied records; transient store failures are wrapped
// separately and never match these.
var (
	// ErrInvalidTarget is returned when a user targets themselves with a
	// connection request.
	ErrInvalidTarget = errors.New("cannot send request to yourself")

	// ErrAlreadyConnected is returned when a connection already exists
	// between the pair.
	ErrAlreadyConnected = errors.New("users are already connected")

	// ErrRequestAlreadyPending is returned when a pending request already
	// exists between the pair, in either direction.
	ErrRequestAlreadyPending = errors.New("request already pending between users")

	// ErrNotAuthorized is returned when the acting user is not the party
	// allowed to perform the operation.
	ErrNotAuthorized = errors.New("not authorized to perform this action")

	// ErrInvalidState is returned when operating on a request that is no
	// longer pending.
	ErrInvalidState = errors.New("request is not pending")

	// ErrInvalidDeclaration is returned when a docking declaration names a
	// missing ship or links a ship to itself.
	ErrInvalidDeclaration = errors.New("invalid docking declaration")

	// ErrInvalidDateRange is returned when an assignment's start date is
	// after its end date.
	ErrInvalidDateRange = errors.New("start date must not be after end date")

	// ErrNotFound is returned when a referenced record does not exist.
	ErrNotFound = errors.New("record not found")
)

// lookupErr translates a store read error. Missing rows become ErrNotFound;
// anything else is an infrastructure failure the caller may retry, so it stays
// wrapped and never matches a sentinel.
func lookupErr(err error, what string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFound
	}
	return fmt.Errorf("failed to get %s: %w", what, err)
}
