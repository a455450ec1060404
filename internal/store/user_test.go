package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/numpanel/apiserver/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestUserRepositoryCreateAndGet(t *testing.T) {
	repo := NewUserRepository(openTestStore(t))

	created, err := repo.Create(types.User{
		Username:     "alice",
		PasswordHash: "hash",
		Role:         types.RoleReseller,
	})
	require.NoError(t, err)
	assert.False(t, created.CreatedAt.IsZero())

	got, err := repo.GetByUsername("alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Username)
	assert.Equal(t, "hash", got.PasswordHash)
	assert.Equal(t, types.RoleReseller, got.Role)
}

func TestUserRepositoryDuplicate(t *testing.T) {
	repo := NewUserRepository(openTestStore(t))

	_, err := repo.Create(types.User{Username: "alice", PasswordHash: "h", Role: types.RoleUser})
	require.NoError(t, err)

	_, err = repo.Create(types.User{Username: "alice", PasswordHash: "h2", Role: types.RoleAdmin})
	assert.ErrorIs(t, err, ErrExists)

	// the original record is untouched
	got, err := repo.GetByUsername("alice")
	require.NoError(t, err)
	assert.Equal(t, "h", got.PasswordHash)
}

func TestUserRepositoryGetMissing(t *testing.T) {
	repo := NewUserRepository(openTestStore(t))

	_, err := repo.GetByUsername("ghost")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserRepositoryDelete(t *testing.T) {
	repo := NewUserRepository(openTestStore(t))

	_, err := repo.Create(types.User{Username: "alice", PasswordHash: "h", Role: types.RoleUser})
	require.NoError(t, err)

	require.NoError(t, repo.Delete("alice"))
	_, err = repo.GetByUsername("alice")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, repo.Delete("alice"), ErrNotFound)
}

func TestUserRepositoryUpdate(t *testing.T) {
	repo := NewUserRepository(openTestStore(t))

	_, err := repo.Create(types.User{Username: "admin", PasswordHash: "old", Role: types.RoleAdmin})
	require.NoError(t, err)

	got, err := repo.GetByUsername("admin")
	require.NoError(t, err)
	got.PasswordHash = "rotated"
	require.NoError(t, repo.Update(got))

	got, err = repo.GetByUsername("admin")
	require.NoError(t, err)
	assert.Equal(t, "rotated", got.PasswordHash)

	assert.ErrorIs(t, repo.Update(types.User{Username: "ghost"}), ErrNotFound)
}

func TestUserRepositoryListAndCount(t *testing.T) {
	repo := NewUserRepository(openTestStore(t))

	count, err := repo.Count()
	require.NoError(t, err)
	assert.Zero(t, count)

	for _, name := range []string{"alice", "bob", "carol"} {
		_, err := repo.Create(types.User{Username: name, PasswordHash: "h", Role: types.RoleUser})
		require.NoError(t, err)
	}

	users, err := repo.List()
	require.NoError(t, err)
	assert.Len(t, users, 3)

	count, err = repo.Count()
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestFailedLoginAppend(t *testing.T) {
	repo := NewFailedLoginRepository(openTestStore(t))

	for i := 0; i < 3; i++ {
		err := repo.Append(types.FailedLogin{
			Username: "alice",
			Source:   "203.0.113.7",
			Time:     time.Now(),
		})
		require.NoError(t, err)
	}

	records, err := repo.List()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "alice", records[0].Username)
	assert.Equal(t, "203.0.113.7", records[0].Source)
}
