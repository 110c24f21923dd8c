// internal/domain/dashboard/manager.go

package dashboard

import (
	"context"

	"w3intel/internal/domain/community"
)

// Manager defines the interface for the shared dashboard view state
type Manager interface {
	// NewSession allocates a session with the default view state
	NewSession(ctx context.Context) (ViewState, error)

	// State returns the view state of a session, or the default state when unknown
	State(ctx context.Context, sessionID string) ViewState

	// SelectTopic toggles the selected topic and clears the selected user
	SelectTopic(ctx context.Context, sessionID, topicID string) (ViewState, error)

	// SelectUser toggles the selected user and clears the selected topic
	SelectUser(ctx context.Context, sessionID, userID string) (ViewState, error)

	// OpenTopicFromUser closes the user panel and opens the given topic
	OpenTopicFromUser(ctx context.Context, sessionID, topicID string) (ViewState, error)

	// SetPanel opens or collapses a dashboard column
	SetPanel(ctx context.Context, sessionID string, panel Panel, open bool) (ViewState, error)

	// SetTimeFrame changes the trending topics window
	SetTimeFrame(ctx context.Context, sessionID string, tf community.TimeFrame) (ViewState, error)

	// Subscribe streams the events of a session until cancel is called
	Subscribe(sessionID string) (events <-chan ViewEvent, cancel func())
}

// Publisher forwards view events outside the process
type Publisher interface {
	Publish(ctx context.Context, event ViewEvent) error
}
