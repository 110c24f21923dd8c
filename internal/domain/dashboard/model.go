package dashboard

import (
	"errors"
	"time"

	"w3intel/internal/domain/community"
)

// Panel identifies a collapsible dashboard column
type Panel string

const (
	PanelTopics Panel = "topics"
	PanelUsers  Panel = "users"
)

// ErrUnknownPanel is returned for panels other than topics and users
var ErrUnknownPanel = errors.New("unknown panel")

// ViewState is the per-session dashboard view model. Selecting a topic clears
// the selected user and vice versa, so at most one detail panel is open.
type ViewState struct {
	SessionID       string              `json:"sessionId"`
	TimeFrame       community.TimeFrame `json:"timeframe"`
	TopicsOpen      bool                `json:"topicsOpen"`
	UsersOpen       bool                `json:"usersOpen"`
	SelectedTopicID string              `json:"selectedTopicId,omitempty"`
	SelectedUserID  string              `json:"selectedUserId,omitempty"`
	Version         int64               `json:"version"`
	UpdatedAt       time.Time           `json:"updatedAt"`
}

// DefaultViewState returns the initial state of a session
func DefaultViewState(sessionID string, now time.Time) ViewState {
	return ViewState{
		SessionID:  sessionID,
		TimeFrame:  community.TimeFrameDay,
		TopicsOpen: true,
		UsersOpen:  true,
		UpdatedAt:  now,
	}
}

// EventKind names a view state transition
type EventKind string

const (
	EventSessionStarted   EventKind = "session_started"
	EventTopicSelected    EventKind = "topic_selected"
	EventUserSelected     EventKind = "user_selected"
	EventSelectionCleared EventKind = "selection_cleared"
	EventPanelToggled     EventKind = "panel_toggled"
	EventTimeFrameChanged EventKind = "timeframe_changed"
)

// ViewEvent is emitted after every view state transition
type ViewEvent struct {
	ID    string    `json:"id"`
	Kind  EventKind `json:"kind"`
	State ViewState `json:"state"`
	At    time.Time `json:"at"`
}
