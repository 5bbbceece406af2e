package http

import (
	"context"
	"net/http"

	"github.com/Anand-247/FE-VF/internal/domain"
	"github.com/Anand-247/FE-VF/internal/profile"
)

type ProfileStore interface {
	Current() (domain.UserProfile, bool)
	SaveUser(ctx context.Context, user domain.UserProfile) error
	ClearUser(ctx context.Context) error
}

type ProfileHandler struct {
	clients ClientResolver
}

func NewProfileHandler(clients ClientResolver) *ProfileHandler {
	return &ProfileHandler{clients: clients}
}

func (h *ProfileHandler) store(r *http.Request) ProfileStore {
	return resolveClient(r, h.clients).Profile
}

func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, ok := h.store(r).Current()
	if !ok {
		respondError(w, http.StatusNotFound, "not_found", "no saved profile")
		return
	}
	respondJSON(w, http.StatusOK, user)
}

func (h *ProfileHandler) Put(w http.ResponseWriter, r *http.Request) {
	var user domain.UserProfile
	if err := decodeBody(r, &user, false); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	user = profile.Normalize(user)
	if err := profile.Validate(user); err != nil {
		handleError(w, err)
		return
	}
	if err := h.store(r).SaveUser(r.Context(), user); err != nil {
		handleError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, user)
}

func (h *ProfileHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.store(r).ClearUser(r.Context()); err != nil {
		handleError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
