package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort int
	DBPath     string
	Telegram   TelegramConfig
	GitHub     GitHubConfig
}

type TelegramConfig struct {
	BotToken string
	// APIBase overrides the Telegram API endpoint, mainly for tests.
	APIBase string
	// AdminChatIDs receive audit notifications for every mutation.
	AdminChatIDs []int64
}

type GitHubConfig struct {
	// Repo is the "owner/name" of the repository holding the number list.
	Repo     string
	FilePath string
	Branch   string
	Token    string
}

func LoadConfig() Config {
	if os.Getenv("ENV") == "dev" {
		godotenv.Load()
	}

	return Config{
		ServerPort: getEnvInt("SERVER_PORT", 3000),
		DBPath:     getEnv("DB_PATH", "numpanel.db"),
		Telegram: TelegramConfig{
			BotToken:     getEnv("TELEGRAM_BOT_TOKEN", ""),
			APIBase:      getEnv("TELEGRAM_API_BASE", "https://api.telegram.org"),
			AdminChatIDs: getEnvInt64List("ADMIN_CHAT_IDS"),
		},
		GitHub: GitHubConfig{
			Repo:     getEnv("GITHUB_REPO", ""),
			FilePath: getEnv("GITHUB_FILE_PATH", "numbers.json"),
			Branch:   getEnv("GITHUB_BRANCH", "main"),
			Token:    getEnv("GITHUB_TOKEN", ""),
		},
	}
}

// SplitRepo splits the "owner/name" repository coordinate.
func (c GitHubConfig) SplitRepo() (owner, name string, err error) {
	parts := strings.SplitN(c.Repo, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("GITHUB_REPO must be owner/name, got %q", c.Repo)
	}
	return parts[0], parts[1], nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if valueStr, exists := os.LookupEnv(key); exists {
		var value int
		fmt.Sscanf(valueStr, "%d", &value)
		return value
	}
	return defaultValue
}

func getEnvInt64List(key string) []int64 {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return nil
	}
	var values []int64
	for _, part := range strings.Split(valueStr, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		value, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			continue
		}
		values = append(values, value)
	}
	return values
}
