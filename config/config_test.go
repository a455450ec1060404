package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg := LoadConfig()

	assert.Equal(t, 3000, cfg.ServerPort)
	assert.Equal(t, "numpanel.db", cfg.DBPath)
	assert.Equal(t, "https://api.telegram.org", cfg.Telegram.APIBase)
	assert.Equal(t, "numbers.json", cfg.GitHub.FilePath)
	assert.Equal(t, "main", cfg.GitHub.Branch)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("SERVER_PORT", "8088")
	t.Setenv("ADMIN_CHAT_IDS", "100, 200,not-a-number,300")
	t.Setenv("GITHUB_REPO", "acme/numbers")

	cfg := LoadConfig()

	assert.Equal(t, 8088, cfg.ServerPort)
	assert.Equal(t, []int64{100, 200, 300}, cfg.Telegram.AdminChatIDs)

	owner, name, err := cfg.GitHub.SplitRepo()
	require.NoError(t, err)
	assert.Equal(t, "acme", owner)
	assert.Equal(t, "numbers", name)
}

func TestSplitRepoInvalid(t *testing.T) {
	for _, repo := range []string{"", "acme", "acme/", "/numbers"} {
		_, _, err := GitHubConfig{Repo: repo}.SplitRepo()
		assert.Error(t, err, repo)
	}
}
