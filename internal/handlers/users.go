package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"scrawl/internal/game"
)

const maxNameLength = 20

// UserHandler registers players and looks them up by id. The id returned
// from registration is the caller's credential for everything else.
type UserHandler struct {
	users *game.Users
}

func NewUserHandler(users *game.Users) *UserHandler {
	return &UserHandler{users: users}
}

func (h *UserHandler) RegisterRoutes(r chi.Router) {
	r.Post("/api/users", h.register)
	r.Get("/api/users/{id}", h.get)
}

func (h *UserHandler) register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		http.Error(w, "name required", http.StatusBadRequest)
		return
	}
	if len(name) > maxNameLength {
		name = name[:maxNameLength]
	}
	respondJSON(w, http.StatusCreated, h.users.Register(name))
}

func (h *UserHandler) get(w http.ResponseWriter, r *http.Request) {
	u, ok := h.users.Get(chi.URLParam(r, "id"))
	if !ok {
		http.NotFound(w, r)
		return
	}
	respondJSON(w, http.StatusOK, u)
}
