// internal/server/handlers/topic.go

package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"w3intel/internal/domain/community"
	"w3intel/internal/domain/insight"
)

// TopicExplorer resolves topic detail views
type TopicExplorer interface {
	TopicDetail(topicID string) (insight.TopicDetail, bool)
}

// TopicHandler handles topic-related HTTP requests
type TopicHandler struct {
	responder

	store    community.Store
	explorer TopicExplorer
}

// NewTopicHandler creates a new topic handler
func NewTopicHandler(store community.Store, explorer TopicExplorer, logger logrus.FieldLogger) *TopicHandler {
	return &TopicHandler{
		responder: newResponder(logger),

		store:    store,
		explorer: explorer,
	}
}

// ListTopics returns the topics inside the requested time frame (24h by default)
func (h *TopicHandler) ListTopics(w http.ResponseWriter, r *http.Request) {
	tf := community.ParseTimeFrame(r.URL.Query().Get("timeframe"))

	h.respondWithJSON(w, http.StatusOK, h.store.TopicsByTimeFrame(tf))
}

// GetTopic returns a topic with its participants
func (h *TopicHandler) GetTopic(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	detail, ok := h.explorer.TopicDetail(id)
	if !ok {
		h.respondWithError(w, http.StatusNotFound, "Topic not found", community.ErrNotFound)
		return
	}

	h.respondWithJSON(w, http.StatusOK, detail)
}

// GetTopicUsers returns the users discussing a topic; unknown topics yield an empty list
func (h *TopicHandler) GetTopicUsers(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	h.respondWithJSON(w, http.StatusOK, h.store.UsersDiscussingTopic(id))
}
