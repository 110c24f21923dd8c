// internal/server/handlers/session.go

package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"w3intel/internal/domain/community"
	"w3intel/internal/domain/dashboard"
)

// Session actions
const (
	ActionSelectTopic       = "select_topic"
	ActionSelectUser        = "select_user"
	ActionOpenTopicFromUser = "open_topic_from_user"
	ActionSetPanel          = "set_panel"
	ActionSetTimeFrame      = "set_timeframe"
)

var errInvalidAction = errors.New("invalid action")

// ActionRequest is a single view state transition sent by a client
type ActionRequest struct {
	Type      string `json:"type"`
	TopicID   string `json:"topicId,omitempty"`
	UserID    string `json:"userId,omitempty"`
	Panel     string `json:"panel,omitempty"`
	Open      *bool  `json:"open,omitempty"`
	TimeFrame string `json:"timeframe,omitempty"`
}

// SessionHandler handles dashboard view session requests
type SessionHandler struct {
	responder

	manager dashboard.Manager
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(manager dashboard.Manager, logger logrus.FieldLogger) *SessionHandler {
	return &SessionHandler{
		responder: newResponder(logger),

		manager: manager,
	}
}

// CreateSession starts a new view session
func (h *SessionHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	state, err := h.manager.NewSession(r.Context())
	if err != nil {
		h.respondWithError(w, http.StatusInternalServerError, "Failed to create session", err)
		return
	}

	h.respondWithJSON(w, http.StatusCreated, state)
}

// GetSession returns the view state of a session
func (h *SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	h.respondWithJSON(w, http.StatusOK, h.manager.State(r.Context(), id))
}

// ApplyAction applies a view transition to a session
func (h *SessionHandler) ApplyAction(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req ActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondWithError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	state, err := applyAction(r.Context(), h.manager, id, req)
	if err != nil {
		if errors.Is(err, errInvalidAction) || errors.Is(err, dashboard.ErrUnknownPanel) {
			h.respondWithError(w, http.StatusBadRequest, err.Error(), err)
			return
		}
		h.respondWithError(w, http.StatusInternalServerError, "Failed to apply action", err)
		return
	}

	h.respondWithJSON(w, http.StatusOK, state)
}

// applyAction routes an action to the matching manager transition
func applyAction(ctx context.Context, m dashboard.Manager, sessionID string, req ActionRequest) (dashboard.ViewState, error) {
	switch req.Type {
	case ActionSelectTopic:
		if req.TopicID == "" {
			return dashboard.ViewState{}, fmt.Errorf("%w: topicId is required", errInvalidAction)
		}
		return m.SelectTopic(ctx, sessionID, req.TopicID)

	case ActionSelectUser:
		if req.UserID == "" {
			return dashboard.ViewState{}, fmt.Errorf("%w: userId is required", errInvalidAction)
		}
		return m.SelectUser(ctx, sessionID, req.UserID)

	case ActionOpenTopicFromUser:
		if req.TopicID == "" {
			return dashboard.ViewState{}, fmt.Errorf("%w: topicId is required", errInvalidAction)
		}
		return m.OpenTopicFromUser(ctx, sessionID, req.TopicID)

	case ActionSetPanel:
		if req.Open == nil {
			return dashboard.ViewState{}, fmt.Errorf("%w: open is required", errInvalidAction)
		}
		return m.SetPanel(ctx, sessionID, dashboard.Panel(req.Panel), *req.Open)

	case ActionSetTimeFrame:
		return m.SetTimeFrame(ctx, sessionID, community.TimeFrame(req.TimeFrame))

	default:
		return dashboard.ViewState{}, fmt.Errorf("%w: unknown type %q", errInvalidAction, req.Type)
	}
}
