// Package remotelist abstracts the remotely hosted, version-controlled
// number list. The remote copy is the only source of truth: callers fetch
// on every read and conditional-write guarded by the current version on
// every mutation.
package remotelist

import (
	"context"
	"errors"
)

// ErrUnavailable is returned when the remote store cannot be reached or
// its contents cannot be parsed. A fetch failure is never reported as an
// empty list, so callers must not mutate on this error.
var ErrUnavailable = errors.New("remote list unavailable")

// ErrConflict is returned when a conditional write loses the race: the
// document changed between the version read and the write.
var ErrConflict = errors.New("remote list version conflict")

// List is a versioned remote document holding the ordered number list.
type List interface {
	// Fetch returns the current items. Failure is an error, never an
	// empty result.
	Fetch(ctx context.Context) ([]string, error)

	// Put replaces the document with items, guarded by the version
	// current at call time. Returns ErrConflict if the guard fails.
	Put(ctx context.Context, items []string) error
}
