package errors

import "errors"

// Sentinels shared by repos, modules and services. Services translate them into
// apierr statuses at the HTTP boundary.
var (
	ErrNotFound        = errors.New("not found")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrUnavailable marks an optional collaborator (LLM provider, outcome bus) that is missing or down.
	ErrUnavailable = errors.New("unavailable")
)
