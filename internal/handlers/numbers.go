package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/numpanel/apiserver/internal/notify"
	"github.com/numpanel/apiserver/internal/remotelist"
	"github.com/numpanel/apiserver/internal/services"
)

// NumbersHandler exposes the remote number list over the web channel.
type NumbersHandler struct {
	numbers  *services.NumberService
	notifier notify.Notifier
}

func NewNumbersHandler(numbers *services.NumberService, notifier notify.Notifier) *NumbersHandler {
	return &NumbersHandler{numbers: numbers, notifier: notifier}
}

type NumberRequest struct {
	Number string `json:"number"`
}

type OKResponse struct {
	OK bool `json:"ok"`
}

// List returns the current number list. The endpoint is public.
func (h *NumbersHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.numbers.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to fetch list")
		return
	}
	if items == nil {
		items = []string{}
	}
	writeJSON(w, http.StatusOK, items)
}

// Add appends a number to the remote list.
func (h *NumbersHandler) Add(w http.ResponseWriter, r *http.Request) {
	sess, err := sessionFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "not authorized")
		return
	}
	var req NumberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	if err := h.numbers.Add(r.Context(), req.Number); err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidNumber):
			writeError(w, http.StatusBadRequest, "invalid number")
		case errors.Is(err, services.ErrNumberExists):
			writeError(w, http.StatusBadRequest, "already exists")
		case errors.Is(err, remotelist.ErrConflict):
			writeError(w, http.StatusConflict, "concurrent update, retry")
		default:
			writeError(w, http.StatusInternalServerError, "failed update")
		}
		return
	}

	h.notifier.Notify(r.Context(), fmt.Sprintf("[WEB] %s added number: %s", sess.Username, req.Number))
	writeJSON(w, http.StatusOK, OKResponse{OK: true})
}

// Delete removes a number from the remote list.
func (h *NumbersHandler) Delete(w http.ResponseWriter, r *http.Request) {
	sess, err := sessionFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "not authorized")
		return
	}
	var req NumberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	if err := h.numbers.Remove(r.Context(), req.Number); err != nil {
		switch {
		case errors.Is(err, services.ErrNumberNotFound):
			writeError(w, http.StatusBadRequest, "not found")
		case errors.Is(err, remotelist.ErrConflict):
			writeError(w, http.StatusConflict, "concurrent update, retry")
		default:
			writeError(w, http.StatusInternalServerError, "failed update")
		}
		return
	}

	h.notifier.Notify(r.Context(), fmt.Sprintf("[WEB] %s deleted number: %s", sess.Username, req.Number))
	writeJSON(w, http.StatusOK, OKResponse{OK: true})
}
