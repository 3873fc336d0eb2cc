// internal/errors/errors.go
package errors

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned by the store when a row does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when a unique key is already taken.
	ErrConflict = errors.New("already exists")
	// ErrValidation marks bad caller input. Wrap it with the reason.
	ErrValidation = errors.New("invalid input")
	// ErrUnauthorized is returned for missing or bad credentials.
	ErrUnauthorized = errors.New("unauthorized")

	ErrUpstreamNotFound     = errors.New("upstream: not found")
	ErrUpstreamUnauthorized = errors.New("upstream: unauthorized")
	ErrUpstreamRateLimited  = errors.New("upstream: rate limited")
	ErrUpstreamGeneric      = errors.New("upstream: request failed")
)

// ErrInvalidRepoFormat is returned when a repository string is not in 'owner/name' format.
type ErrInvalidRepoFormat struct {
	Repo string
}

func (e *ErrInvalidRepoFormat) Error() string {
	return fmt.Sprintf("invalid repository format: %q, expected 'owner/name'", e.Repo)
}

// ErrMissingConfig is returned when a value needed for an operation was not configured.
type ErrMissingConfig struct {
	Key     string
	Message string
}

func (e *ErrMissingConfig) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("%s is not configured", e.Key)
}

type UpstreamKind int

const (
	UpstreamGeneric UpstreamKind = iota
	UpstreamNotFound
	UpstreamUnauthorized
	UpstreamRateLimited
)

func (k UpstreamKind) String() string {
	switch k {
	case UpstreamNotFound:
		return "not_found"
	case UpstreamUnauthorized:
		return "unauthorized"
	case UpstreamRateLimited:
		return "rate_limited"
	default:
		return "generic"
	}
}

// UpstreamError classifies a failed call against the GitHub API. Repo is set
// when the call targeted a single repository rather than an owner's list.
type UpstreamError struct {
	Kind  UpstreamKind
	Owner string
	Repo  string
	Err   error
}

func (e *UpstreamError) Error() string {
	switch e.Kind {
	case UpstreamNotFound:
		if e.Repo != "" {
			return fmt.Sprintf("GitHub repository \"%s/%s\" not found", e.Owner, e.Repo)
		}
		return fmt.Sprintf("GitHub user %q not found. Check GITHUB_USERNAME", e.Owner)
	case UpstreamUnauthorized:
		return "GitHub authentication failed. GITHUB_TOKEN may be invalid or expired"
	case UpstreamRateLimited:
		return "GitHub API rate limit exceeded. Set GITHUB_TOKEN for a higher limit"
	default:
		if e.Err != nil {
			return fmt.Sprintf("GitHub API error: %v", e.Err)
		}
		return "GitHub API error"
	}
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// Is lets callers match on the kind sentinels, e.g. errors.Is(err, ErrUpstreamRateLimited).
func (e *UpstreamError) Is(target error) bool {
	switch target {
	case ErrUpstreamNotFound:
		return e.Kind == UpstreamNotFound
	case ErrUpstreamUnauthorized:
		return e.Kind == UpstreamUnauthorized
	case ErrUpstreamRateLimited:
		return e.Kind == UpstreamRateLimited
	case ErrUpstreamGeneric:
		return e.Kind == UpstreamGeneric
	}
	return false
}

// PersistenceError wraps a failed read or write against the store.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("failed to %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// Persistence wraps err as a PersistenceError unless it is nil or a not-found/conflict sentinel.
func Persistence(op string, err error) error {
	if err == nil || errors.Is(err, ErrNotFound) || errors.Is(err, ErrConflict) {
		return err
	}
	return &PersistenceError{Op: op, Err: err}
}
