package services

import "errors"

// Error kinds surfaced by the coordinator. All of them are recoverable:
// a rejected intent leaves session state exactly as it was, and the caller
// decides what to show the user.
var (
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrInvalidTransition = errors.New("invalid transition")
	ErrMissingPayload    = errors.New("missing payload")
	ErrNotFound          = errors.New("not found")
)
