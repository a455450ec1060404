// Package session keeps the in-memory session tables for both channels.
// The registry is an explicit object wired into the handlers and the bot
// rather than package-level state, so tests can run with their own copy.
package session

import (
	"crypto/rand"
	"encoding/hex"
	"sync"
	"time"

	"github.com/numpanel/apiserver/types"
)

const tokenBytes = 32

// Registry maps web tokens and chat identities to authenticated sessions.
// Sessions live for the process lifetime; there is no expiry.
type Registry struct {
	mu   sync.RWMutex
	web  map[string]types.Session
	chat map[int64]types.Session
}

func NewRegistry() *Registry {
	return &Registry{
		web:  make(map[string]types.Session),
		chat: make(map[int64]types.Session),
	}
}

// CreateWeb stores a new web session and returns its bearer token.
// The token is 32 bytes from crypto/rand, hex encoded.
func (r *Registry) CreateWeb(username, role string) (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	token := hex.EncodeToString(buf)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.web[token] = types.Session{
		Username:  username,
		Role:      role,
		CreatedAt: time.Now(),
	}
	return token, nil
}

// ResolveWeb looks up the session for a bearer token.
func (r *Registry) ResolveWeb(token string) (types.Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.web[token]
	return s, ok
}

// CreateChat stores a session for a chat identity, replacing any
// previous session for that identity.
func (r *Registry) CreateChat(chatID int64, username, role string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.chat[chatID] = types.Session{
		Username:  username,
		Role:      role,
		CreatedAt: time.Now(),
	}
}

// ResolveChat looks up the session for a chat identity.
func (r *Registry) ResolveChat(chatID int64) (types.Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.chat[chatID]
	return s, ok
}

// DeleteChat removes the session for a chat identity, if any.
func (r *Registry) DeleteChat(chatID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.chat, chatID)
}
