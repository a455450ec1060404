package services

import (
	"context"
	"slices"
	"testing"

	"github.com/numpanel/apiserver/internal/remotelist"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRemote is an in-memory remotelist.List with switchable failures.
type fakeRemote struct {
	items     []string
	fetchErr  error
	putErr    error
	conflicts int // number of Put calls to reject with ErrConflict
	fetches   int
	puts      int
}

func (f *fakeRemote) Fetch(ctx context.Context) ([]string, error) {
	f.fetches++
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return slices.Clone(f.items), nil
}

func (f *fakeRemote) Put(ctx context.Context, items []string) error {
	f.puts++
	if f.conflicts > 0 {
		f.conflicts--
		return remotelist.ErrConflict
	}
	if f.putErr != nil {
		return f.putErr
	}
	f.items = slices.Clone(items)
	return nil
}

func TestAddNumber(t *testing.T) {
	remote := &fakeRemote{items: []string{"111"}}
	svc := NewNumberService(remote)

	require.NoError(t, svc.Add(context.Background(), "555"))
	assert.Equal(t, []string{"111", "555"}, remote.items)
}

func TestAddNumberValidation(t *testing.T) {
	tests := []struct {
		name   string
		number string
	}{
		{"empty", ""},
		{"letters", "12a4"},
		{"negative", "-15"},
		{"spaces", "1 2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			remote := &fakeRemote{}
			svc := NewNumberService(remote)

			assert.ErrorIs(t, svc.Add(context.Background(), tt.number), ErrInvalidNumber)
			assert.Zero(t, remote.puts, "invalid input must not reach the remote store")
		})
	}
}

func TestAddNumberIdempotentSafe(t *testing.T) {
	remote := &fakeRemote{}
	svc := NewNumberService(remote)

	require.NoError(t, svc.Add(context.Background(), "555"))
	err := svc.Add(context.Background(), "555")
	assert.ErrorIs(t, err, ErrNumberExists)

	// the list grew by exactly one, never two
	assert.Equal(t, []string{"555"}, remote.items)
}

func TestAddNumberRefusesWriteAfterFetchFailure(t *testing.T) {
	remote := &fakeRemote{fetchErr: remotelist.ErrUnavailable}
	svc := NewNumberService(remote)

	err := svc.Add(context.Background(), "555")
	assert.ErrorIs(t, err, remotelist.ErrUnavailable)
	assert.Zero(t, remote.puts, "a failed fetch must never be followed by a write")
}

func TestAddNumberRetriesOnConflict(t *testing.T) {
	remote := &fakeRemote{items: []string{"111"}, conflicts: 1}
	svc := NewNumberService(remote)

	require.NoError(t, svc.Add(context.Background(), "555"))
	assert.Equal(t, 2, remote.puts)
	assert.Equal(t, []string{"111", "555"}, remote.items)
}

func TestAddNumberSurfacesConflictAfterRetries(t *testing.T) {
	remote := &fakeRemote{conflicts: putAttempts}
	svc := NewNumberService(remote)

	err := svc.Add(context.Background(), "555")
	assert.ErrorIs(t, err, remotelist.ErrConflict)
	assert.Equal(t, putAttempts, remote.puts)
}

func TestRemoveNumber(t *testing.T) {
	remote := &fakeRemote{items: []string{"111", "555", "999"}}
	svc := NewNumberService(remote)

	require.NoError(t, svc.Remove(context.Background(), "555"))
	assert.Equal(t, []string{"111", "999"}, remote.items)
}

func TestRemoveNumberNotFound(t *testing.T) {
	remote := &fakeRemote{items: []string{"111"}}
	svc := NewNumberService(remote)

	err := svc.Remove(context.Background(), "555")
	assert.ErrorIs(t, err, ErrNumberNotFound)
	assert.Zero(t, remote.puts)
	assert.Equal(t, []string{"111"}, remote.items, "remote list unchanged")
}

func TestRemoveNumberRefusesWriteAfterFetchFailure(t *testing.T) {
	remote := &fakeRemote{fetchErr: remotelist.ErrUnavailable}
	svc := NewNumberService(remote)

	err := svc.Remove(context.Background(), "555")
	assert.ErrorIs(t, err, remotelist.ErrUnavailable)
	assert.Zero(t, remote.puts)
}

func TestListPassesThrough(t *testing.T) {
	remote := &fakeRemote{items: []string{"111", "222"}}
	svc := NewNumberService(remote)

	items, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"111", "222"}, items)
}
