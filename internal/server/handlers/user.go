// internal/server/handlers/user.go

package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"w3intel/internal/domain/community"
	"w3intel/internal/domain/insight"
)

// UserExplorer resolves user profile and engagement views
type UserExplorer interface {
	UserProfile(userID string) (insight.UserProfile, bool)
	Engagement(userID string) (insight.EngagementSummary, bool)
}

// UserHandler handles user-related HTTP requests
type UserHandler struct {
	responder

	store    community.Store
	explorer UserExplorer
}

// NewUserHandler creates a new user handler
func NewUserHandler(store community.Store, explorer UserExplorer, logger logrus.FieldLogger) *UserHandler {
	return &UserHandler{
		responder: newResponder(logger),

		store:    store,
		explorer: explorer,
	}
}

// ListUsers returns every community member
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	h.respondWithJSON(w, http.StatusOK, h.store.Users())
}

// GetUser returns a user profile
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	profile, ok := h.explorer.UserProfile(id)
	if !ok {
		h.respondWithError(w, http.StatusNotFound, "User not found", community.ErrNotFound)
		return
	}

	h.respondWithJSON(w, http.StatusOK, profile)
}

// GetConversations returns the conversations of a user; unknown users yield an empty list
func (h *UserHandler) GetConversations(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	h.respondWithJSON(w, http.StatusOK, h.store.ConversationsByUserID(id))
}

// GetTopics returns the topics a user participates in
func (h *UserHandler) GetTopics(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	h.respondWithJSON(w, http.StatusOK, h.store.TopicsByUserID(id))
}

// GetEngagement returns the engagement summary of a user
func (h *UserHandler) GetEngagement(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	summary, ok := h.explorer.Engagement(id)
	if !ok {
		h.respondWithError(w, http.StatusNotFound, "User not found", community.ErrNotFound)
		return
	}

	h.respondWithJSON(w, http.StatusOK, summary)
}
