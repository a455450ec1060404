package services

import (
	"context"
	"errors"
	"slices"

	"github.com/numpanel/apiserver/internal/remotelist"
)

// Validation failures for number-list mutations.
var (
	ErrInvalidNumber  = errors.New("invalid number")
	ErrNumberExists   = errors.New("number already exists")
	ErrNumberNotFound = errors.New("number not found")
)

// putAttempts bounds the read-modify-write retries on a version conflict
// before the conflict is surfaced to the caller.
const putAttempts = 3

// NumberService performs list operations against the remote store. No
// copy of the list is kept between calls; each operation round-trips.
type NumberService struct {
	remote remotelist.List
}

func NewNumberService(remote remotelist.List) *NumberService {
	return &NumberService{remote: remote}
}

// List fetches the current number list.
func (s *NumberService) List(ctx context.Context) ([]string, error) {
	return s.remote.Fetch(ctx)
}

// Add appends a number. The argument must be decimal digits only and not
// already present. A lost conditional write is retried against a fresh
// read; after putAttempts conflicts the ErrConflict surfaces as-is.
func (s *NumberService) Add(ctx context.Context, number string) error {
	if !digitsOnly(number) {
		return ErrInvalidNumber
	}
	return s.update(ctx, func(items []string) ([]string, error) {
		if slices.Contains(items, number) {
			return nil, ErrNumberExists
		}
		return append(items, number), nil
	})
}

// Remove deletes a number, failing with ErrNumberNotFound if absent.
func (s *NumberService) Remove(ctx context.Context, number string) error {
	return s.update(ctx, func(items []string) ([]string, error) {
		idx := slices.Index(items, number)
		if idx == -1 {
			return nil, ErrNumberNotFound
		}
		return slices.Delete(items, idx, idx+1), nil
	})
}

// update runs one read-modify-write cycle per attempt. A failed fetch
// aborts immediately: writing a list derived from a failed read could
// silently truncate the remote document.
func (s *NumberService) update(ctx context.Context, mutate func([]string) ([]string, error)) error {
	var err error
	for attempt := 0; attempt < putAttempts; attempt++ {
		var items []string
		items, err = s.remote.Fetch(ctx)
		if err != nil {
			return err
		}
		items, err = mutate(items)
		if err != nil {
			return err
		}
		err = s.remote.Put(ctx, items)
		if err == nil || !errors.Is(err, remotelist.ErrConflict) {
			return err
		}
	}
	return err
}

func digitsOnly(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
