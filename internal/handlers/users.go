package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/numpanel/apiserver/internal/notify"
	"github.com/numpanel/apiserver/internal/services"
	"github.com/numpanel/apiserver/internal/store"
)

// UsersHandler exposes admin-only account management.
type UsersHandler struct {
	userService *services.UserService
	notifier    notify.Notifier
}

func NewUsersHandler(userService *services.UserService, notifier notify.Notifier) *UsersHandler {
	return &UsersHandler{userService: userService, notifier: notifier}
}

type AddUserRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type DeleteUserRequest struct {
	Username string `json:"username"`
}

type UserInfo struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}

// Add creates a new account.
func (h *UsersHandler) Add(w http.ResponseWriter, r *http.Request) {
	sess, err := sessionFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "not authorized")
		return
	}
	var req AddUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "missing")
		return
	}

	user, err := h.userService.Create(req.Username, req.Password, req.Role)
	if err != nil {
		if errors.Is(err, store.ErrExists) {
			writeError(w, http.StatusBadRequest, "exists")
			return
		}
		writeError(w, http.StatusBadRequest, "invalid user")
		return
	}

	h.notifier.Notify(r.Context(), fmt.Sprintf("[WEB] Admin %s added user %s (%s)", sess.Username, user.Username, user.Role))
	writeJSON(w, http.StatusOK, OKResponse{OK: true})
}

// Delete removes an account.
func (h *UsersHandler) Delete(w http.ResponseWriter, r *http.Request) {
	sess, err := sessionFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "not authorized")
		return
	}
	var req DeleteUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	if err := h.userService.Delete(req.Username); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusBadRequest, "not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to delete user")
		return
	}

	h.notifier.Notify(r.Context(), fmt.Sprintf("[WEB] Admin %s deleted user %s", sess.Username, req.Username))
	writeJSON(w, http.StatusOK, OKResponse{OK: true})
}

// List returns usernames and roles, never hashes.
func (h *UsersHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.userService.List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list users")
		return
	}
	infos := make([]UserInfo, 0, len(users))
	for _, u := range users {
		infos = append(infos, UserInfo{Username: u.Username, Role: u.Role})
	}
	writeJSON(w, http.StatusOK, infos)
}
