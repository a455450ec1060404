package session

import (
	"testing"

	"github.com/numpanel/apiserver/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateWebIssuesUniqueTokens(t *testing.T) {
	r := NewRegistry()

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		token, err := r.CreateWeb("alice", types.RoleUser)
		require.NoError(t, err)
		assert.Len(t, token, 64, "32 random bytes hex encoded")
		assert.False(t, seen[token], "token issued twice")
		seen[token] = true
	}
}

func TestResolveWeb(t *testing.T) {
	r := NewRegistry()

	token, err := r.CreateWeb("alice", types.RoleAdmin)
	require.NoError(t, err)

	sess, ok := r.ResolveWeb(token)
	require.True(t, ok)
	assert.Equal(t, "alice", sess.Username)
	assert.Equal(t, types.RoleAdmin, sess.Role)
	assert.False(t, sess.CreatedAt.IsZero())

	_, ok = r.ResolveWeb("no-such-token")
	assert.False(t, ok)
}

func TestChatSessionOverwrite(t *testing.T) {
	r := NewRegistry()

	r.CreateChat(42, "alice", types.RoleUser)
	r.CreateChat(42, "bob", types.RoleAdmin)

	sess, ok := r.ResolveChat(42)
	require.True(t, ok)
	assert.Equal(t, "bob", sess.Username)
	assert.Equal(t, types.RoleAdmin, sess.Role)
}

func TestDeleteChat(t *testing.T) {
	r := NewRegistry()

	r.CreateChat(42, "alice", types.RoleUser)
	r.DeleteChat(42)

	_, ok := r.ResolveChat(42)
	assert.False(t, ok)

	// deleting an absent session is a no-op
	r.DeleteChat(7)
}
