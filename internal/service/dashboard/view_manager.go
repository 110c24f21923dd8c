// internal/service/dashboard/view_manager.go

package dashboard

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"w3intel/internal/domain/community"
	"w3intel/internal/domain/dashboard"
)

// subscriberBuffer is the per-subscriber event backlog before events are dropped
const subscriberBuffer = 16

// ViewManagerConfig contains configuration for the view manager
type ViewManagerConfig struct {
	SessionTTL    time.Duration
	SweepInterval time.Duration
}

// SubscriberGauge tracks the number of live subscribers
type SubscriberGauge interface {
	Inc()
	Dec()
}

// ViewManager implements the dashboard.Manager interface with an in-memory
// session map. Every transition is fanned out to local subscribers and to the
// optional publisher.
type ViewManager struct {
	config    ViewManagerConfig
	publisher dashboard.Publisher
	gauge     SubscriberGauge
	logger    logrus.FieldLogger
	now       func() time.Time

	mu          sync.RWMutex
	sessions    map[string]*dashboard.ViewState
	subscribers map[string]map[int]chan dashboard.ViewEvent
	nextSubID   int

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// ViewManagerOption configures a ViewManager
type ViewManagerOption func(*ViewManager)

// WithPublisher forwards every event to p
func WithPublisher(p dashboard.Publisher) ViewManagerOption {
	return func(vm *ViewManager) {
		vm.publisher = p
	}
}

// WithSubscriberGauge reports subscriber counts to g
func WithSubscriberGauge(g SubscriberGauge) ViewManagerOption {
	return func(vm *ViewManager) {
		vm.gauge = g
	}
}

// WithLogger sets the logger
func WithLogger(logger logrus.FieldLogger) ViewManagerOption {
	return func(vm *ViewManager) {
		vm.logger = logger
	}
}

// WithClock overrides the clock used for timestamps and expiry
func WithClock(now func() time.Time) ViewManagerOption {
	return func(vm *ViewManager) {
		vm.now = now
	}
}

// NewViewManager creates a new view manager
func NewViewManager(config ViewManagerConfig, opts ...ViewManagerOption) *ViewManager {
	ctx, cancel := context.WithCancel(context.Background())

	vm := &ViewManager{
		config:      config,
		logger:      logrus.StandardLogger(),
		now:         time.Now,
		sessions:    make(map[string]*dashboard.ViewState),
		subscribers: make(map[string]map[int]chan dashboard.ViewEvent),
		ctx:         ctx,
		cancel:      cancel,
	}
	for _, opt := range opts {
		opt(vm)
	}
	return vm
}

// Start begins expiring idle sessions
func (vm *ViewManager) Start() {
	if vm.config.SessionTTL <= 0 || vm.config.SweepInterval <= 0 {
		return
	}

	vm.wg.Add(1)
	go vm.sweepIdleSessions()
}

// Stop halts the sweeper and closes every subscription
func (vm *ViewManager) Stop(ctx context.Context) error {
	vm.cancel()

	done := make(chan struct{})
	go func() {
		vm.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		return fmt.Errorf("timed out waiting for view manager: %w", ctx.Err())
	}

	vm.mu.Lock()
	defer vm.mu.Unlock()

	for sessionID, subs := range vm.subscribers {
		for id, ch := range subs {
			close(ch)
			delete(subs, id)
			vm.decGauge()
		}
		delete(vm.subscribers, sessionID)
	}

	return nil
}

// NewSession allocates a session with the default view state
func (vm *ViewManager) NewSession(ctx context.Context) (dashboard.ViewState, error) {
	sessionID := uuid.New().String()
	state := dashboard.DefaultViewState(sessionID, vm.now())

	vm.mu.Lock()
	vm.sessions[sessionID] = &state
	event := vm.deliverLocked(dashboard.EventSessionStarted, state)
	vm.mu.Unlock()

	vm.publish(ctx, event)
	return state, nil
}

// State returns the view state of a session, or the default state when unknown
func (vm *ViewManager) State(ctx context.Context, sessionID string) dashboard.ViewState {
	vm.mu.RLock()
	defer vm.mu.RUnlock()

	if s, ok := vm.sessions[sessionID]; ok {
		return *s
	}
	return dashboard.DefaultViewState(sessionID, vm.now())
}

// SelectTopic toggles the selected topic and clears the selected user
func (vm *ViewManager) SelectTopic(ctx context.Context, sessionID, topicID string) (dashboard.ViewState, error) {
	return vm.transition(ctx, sessionID, func(s *dashboard.ViewState) (dashboard.EventKind, error) {
		s.SelectedUserID = ""
		if s.SelectedTopicID == topicID {
			s.SelectedTopicID = ""
			return dashboard.EventSelectionCleared, nil
		}
		s.SelectedTopicID = topicID
		return dashboard.EventTopicSelected, nil
	})
}

// SelectUser toggles the selected user and clears the selected topic
func (vm *ViewManager) SelectUser(ctx context.Context, sessionID, userID string) (dashboard.ViewState, error) {
	return vm.transition(ctx, sessionID, func(s *dashboard.ViewState) (dashboard.EventKind, error) {
		s.SelectedTopicID = ""
		if s.SelectedUserID == userID {
			s.SelectedUserID = ""
			return dashboard.EventSelectionCleared, nil
		}
		s.SelectedUserID = userID
		return dashboard.EventUserSelected, nil
	})
}

// OpenTopicFromUser closes the user panel and opens the given topic in one step
func (vm *ViewManager) OpenTopicFromUser(ctx context.Context, sessionID, topicID string) (dashboard.ViewState, error) {
	return vm.transition(ctx, sessionID, func(s *dashboard.ViewState) (dashboard.EventKind, error) {
		s.SelectedUserID = ""
		s.SelectedTopicID = topicID
		s.TopicsOpen = true
		return dashboard.EventTopicSelected, nil
	})
}

// SetPanel opens or collapses a dashboard column
func (vm *ViewManager) SetPanel(ctx context.Context, sessionID string, panel dashboard.Panel, open bool) (dashboard.ViewState, error) {
	return vm.transition(ctx, sessionID, func(s *dashboard.ViewState) (dashboard.EventKind, error) {
		switch panel {
		case dashboard.PanelTopics:
			s.TopicsOpen = open
		case dashboard.PanelUsers:
			s.UsersOpen = open
		default:
			return "", fmt.Errorf("%w: %q", dashboard.ErrUnknownPanel, panel)
		}
		return dashboard.EventPanelToggled, nil
	})
}

// SetTimeFrame changes the trending topics window. Unknown values become 24h.
func (vm *ViewManager) SetTimeFrame(ctx context.Context, sessionID string, tf community.TimeFrame) (dashboard.ViewState, error) {
	return vm.transition(ctx, sessionID, func(s *dashboard.ViewState) (dashboard.EventKind, error) {
		s.TimeFrame = community.ParseTimeFrame(string(tf))
		return dashboard.EventTimeFrameChanged, nil
	})
}

// Subscribe streams the events of a session until cancel is called
func (vm *ViewManager) Subscribe(sessionID string) (<-chan dashboard.ViewEvent, func()) {
	ch := make(chan dashboard.ViewEvent, subscriberBuffer)

	vm.mu.Lock()
	id := vm.nextSubID
	vm.nextSubID++
	if vm.subscribers[sessionID] == nil {
		vm.subscribers[sessionID] = make(map[int]chan dashboard.ViewEvent)
	}
	vm.subscribers[sessionID][id] = ch
	vm.mu.Unlock()

	if vm.gauge != nil {
		vm.gauge.Inc()
	}

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			vm.mu.Lock()
			defer vm.mu.Unlock()

			subs := vm.subscribers[sessionID]
			if c, ok := subs[id]; ok {
				close(c)
				delete(subs, id)
				vm.decGauge()
			}
			if len(subs) == 0 {
				delete(vm.subscribers, sessionID)
			}
		})
	}

	return ch, cancel
}

// transition applies fn to the session state under lock and emits the resulting event.
// Unknown sessions are created on first use.
func (vm *ViewManager) transition(
	ctx context.Context,
	sessionID string,
	fn func(*dashboard.ViewState) (dashboard.EventKind, error),
) (dashboard.ViewState, error) {
	if sessionID == "" {
		return dashboard.ViewState{}, fmt.Errorf("session id is required")
	}

	vm.mu.Lock()
	s, ok := vm.sessions[sessionID]
	if !ok {
		state := dashboard.DefaultViewState(sessionID, vm.now())
		s = &state
	}

	next := *s
	kind, err := fn(&next)
	if err != nil {
		vm.mu.Unlock()
		return *s, err
	}

	next.Version++
	next.UpdatedAt = vm.now()
	vm.sessions[sessionID] = &next
	// Fan out under the write lock so subscribers see versions in commit order
	event := vm.deliverLocked(kind, next)
	vm.mu.Unlock()

	vm.publish(ctx, event)
	return next, nil
}

// deliverLocked builds the event for a committed state and hands it to local
// subscribers without blocking. vm.mu must be held for writing.
func (vm *ViewManager) deliverLocked(kind dashboard.EventKind, state dashboard.ViewState) dashboard.ViewEvent {
	event := dashboard.ViewEvent{
		ID:    uuid.New().String(),
		Kind:  kind,
		State: state,
		At:    state.UpdatedAt,
	}

	for _, ch := range vm.subscribers[state.SessionID] {
		select {
		case ch <- event:
		default:
			vm.logger.WithFields(logrus.Fields{
				"session_id": state.SessionID,
				"event":      kind,
			}).Warn("Dropping view event for slow subscriber")
		}
	}

	return event
}

// publish forwards an event to the publisher, if any
func (vm *ViewManager) publish(ctx context.Context, event dashboard.ViewEvent) {
	if vm.publisher == nil {
		return
	}
	if err := vm.publisher.Publish(ctx, event); err != nil {
		vm.logger.WithError(err).WithField("session_id", event.State.SessionID).Error("Failed to publish view event")
	}
}

// sweepIdleSessions periodically drops sessions idle for longer than the TTL
func (vm *ViewManager) sweepIdleSessions() {
	defer vm.wg.Done()

	ticker := time.NewTicker(vm.config.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-vm.ctx.Done():
			return
		case <-ticker.C:
			if n := vm.ExpireIdle(); n > 0 {
				vm.logger.WithField("expired", n).Debug("Expired idle view sessions")
			}
		}
	}
}

// ExpireIdle removes sessions without subscribers that have been idle longer
// than the TTL and returns how many were removed
func (vm *ViewManager) ExpireIdle() int {
	cutoff := vm.now().Add(-vm.config.SessionTTL)

	vm.mu.Lock()
	defer vm.mu.Unlock()

	expired := 0
	for id, s := range vm.sessions {
		if len(vm.subscribers[id]) > 0 {
			continue
		}
		if s.UpdatedAt.Before(cutoff) {
			delete(vm.sessions, id)
			expired++
		}
	}
	return expired
}

func (vm *ViewManager) decGauge() {
	if vm.gauge != nil {
		vm.gauge.Dec()
	}
}

var _ dashboard.Manager = (*ViewManager)(nil)
