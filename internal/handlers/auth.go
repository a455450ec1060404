package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/numpanel/apiserver/internal/services"
	"github.com/numpanel/apiserver/internal/session"
)

// AuthHandler issues web sessions against the credential store.
type AuthHandler struct {
	userService *services.UserService
	sessions    *session.Registry
}

func NewAuthHandler(userService *services.UserService, sessions *session.Registry) *AuthHandler {
	return &AuthHandler{userService: userService, sessions: sessions}
}

// RequireSession resolves the x-session header against the registry and
// injects the session into the request context.
func RequireSession(sessions *session.Registry) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := strings.TrimSpace(r.Header.Get(SessionHeader))
			if token == "" {
				writeError(w, http.StatusUnauthorized, "not authorized")
				return
			}
			sess, ok := sessions.ResolveWeb(token)
			if !ok {
				writeError(w, http.StatusUnauthorized, "not authorized")
				return
			}
			ctx := context.WithValue(r.Context(), contextSessionKey, sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole rejects sessions whose role is not in allowed. It must run
// after RequireSession.
func RequireRole(allowed ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, err := sessionFromContext(r.Context())
			if err != nil {
				writeError(w, http.StatusUnauthorized, "not authorized")
				return
			}
			for _, role := range allowed {
				if sess.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			writeError(w, http.StatusForbidden, "admin only")
		})
	}
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Success  bool   `json:"success"`
	Token    string `json:"token"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// Login verifies credentials and issues a session token. Unknown users
// and wrong passwords get the same response, and both append a
// failed-login record with the caller's network origin.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "missing credentials")
		return
	}

	user, err := h.userService.Authenticate(req.Username, req.Password, r.RemoteAddr)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "invalid username or password")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to authenticate")
		return
	}

	token, err := h.sessions.CreateWeb(user.Username, user.Role)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create session")
		return
	}

	writeJSON(w, http.StatusOK, LoginResponse{
		Success:  true,
		Token:    token,
		Username: user.Username,
		Role:     user.Role,
	})
}
