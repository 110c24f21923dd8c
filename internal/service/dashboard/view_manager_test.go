package dashboard

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"w3intel/internal/domain/community"
	"w3intel/internal/domain/dashboard"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type capturePublisher struct {
	mu     sync.Mutex
	events []dashboard.ViewEvent
	err    error
}

func (p *capturePublisher) Publish(ctx context.Context, event dashboard.ViewEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

type countingGauge struct {
	mu    sync.Mutex
	value int
}

func (g *countingGauge) Inc() { g.mu.Lock(); g.value++; g.mu.Unlock() }
func (g *countingGauge) Dec() { g.mu.Lock(); g.value--; g.mu.Unlock() }

func (g *countingGauge) Value() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.value
}

func newTestManager(t *testing.T, opts ...ViewManagerOption) (*ViewManager, *fakeClock) {
	t.Helper()

	clock := &fakeClock{now: time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)}
	opts = append([]ViewManagerOption{WithClock(clock.Now)}, opts...)
	vm := NewViewManager(ViewManagerConfig{SessionTTL: time.Hour}, opts...)
	t.Cleanup(func() { _ = vm.Stop(context.Background()) })

	return vm, clock
}

func TestViewManager_NewSession(t *testing.T) {
	vm, _ := newTestManager(t)
	ctx := context.Background()

	state, err := vm.NewSession(ctx)
	require.NoError(t, err)

	assert.NotEmpty(t, state.SessionID)
	assert.Equal(t, community.TimeFrameDay, state.TimeFrame)
	assert.True(t, state.TopicsOpen)
	assert.True(t, state.UsersOpen)
	assert.Empty(t, state.SelectedTopicID)
	assert.Empty(t, state.SelectedUserID)
	assert.Equal(t, state, vm.State(ctx, state.SessionID))
}

func TestViewManager_StateOfUnknownSession(t *testing.T) {
	vm, _ := newTestManager(t)

	state := vm.State(context.Background(), "unknown")

	assert.Equal(t, "unknown", state.SessionID)
	assert.Equal(t, community.TimeFrameDay, state.TimeFrame)
	assert.True(t, state.TopicsOpen)
	assert.Zero(t, state.Version)
}

func TestViewManager_SelectTopic(t *testing.T) {
	vm, _ := newTestManager(t)
	ctx := context.Background()

	state, err := vm.SelectUser(ctx, "s", "u1")
	require.NoError(t, err)
	assert.Equal(t, "u1", state.SelectedUserID)

	state, err = vm.SelectTopic(ctx, "s", "t1")
	require.NoError(t, err)
	assert.Equal(t, "t1", state.SelectedTopicID)
	assert.Empty(t, state.SelectedUserID, "selecting a topic closes the user panel")

	state, err = vm.SelectTopic(ctx, "s", "t2")
	require.NoError(t, err)
	assert.Equal(t, "t2", state.SelectedTopicID)

	state, err = vm.SelectTopic(ctx, "s", "t2")
	require.NoError(t, err)
	assert.Empty(t, state.SelectedTopicID, "selecting the open topic toggles it off")
	assert.Equal(t, int64(4), state.Version)
}

func TestViewManager_SelectUser(t *testing.T) {
	vm, _ := newTestManager(t)
	ctx := context.Background()

	_, err := vm.SelectTopic(ctx, "s", "t1")
	require.NoError(t, err)

	state, err := vm.SelectUser(ctx, "s", "u1")
	require.NoError(t, err)
	assert.Equal(t, "u1", state.SelectedUserID)
	assert.Empty(t, state.SelectedTopicID)

	state, err = vm.SelectUser(ctx, "s", "u1")
	require.NoError(t, err)
	assert.Empty(t, state.SelectedUserID)
}

func TestViewManager_OpenTopicFromUser(t *testing.T) {
	vm, _ := newTestManager(t)
	ctx := context.Background()

	_, err := vm.SetPanel(ctx, "s", dashboard.PanelTopics, false)
	require.NoError(t, err)
	_, err = vm.SelectUser(ctx, "s", "u1")
	require.NoError(t, err)
	_, err = vm.SelectTopic(ctx, "s", "t1")
	require.NoError(t, err)
	_, err = vm.SelectUser(ctx, "s", "u1")
	require.NoError(t, err)

	state, err := vm.OpenTopicFromUser(ctx, "s", "t1")
	require.NoError(t, err)
	assert.Equal(t, "t1", state.SelectedTopicID, "opening from a user never toggles the topic off")
	assert.Empty(t, state.SelectedUserID)
	assert.True(t, state.TopicsOpen)
}

func TestViewManager_SetPanel(t *testing.T) {
	vm, _ := newTestManager(t)
	ctx := context.Background()

	state, err := vm.SetPanel(ctx, "s", dashboard.PanelUsers, false)
	require.NoError(t, err)
	assert.False(t, state.UsersOpen)
	assert.True(t, state.TopicsOpen)

	before := vm.State(ctx, "s")
	state, err = vm.SetPanel(ctx, "s", dashboard.Panel("sidebar"), false)
	require.Error(t, err)
	assert.True(t, errors.Is(err, dashboard.ErrUnknownPanel))
	assert.Equal(t, before, state)
	assert.Equal(t, before, vm.State(ctx, "s"), "failed transitions leave the state untouched")
}

func TestViewManager_SetTimeFrame(t *testing.T) {
	vm, _ := newTestManager(t)
	ctx := context.Background()

	state, err := vm.SetTimeFrame(ctx, "s", community.TimeFrameMonth)
	require.NoError(t, err)
	assert.Equal(t, community.TimeFrameMonth, state.TimeFrame)

	state, err = vm.SetTimeFrame(ctx, "s", community.TimeFrame("fortnight"))
	require.NoError(t, err)
	assert.Equal(t, community.TimeFrameDay, state.TimeFrame)
}

func TestViewManager_RequiresSessionID(t *testing.T) {
	vm, _ := newTestManager(t)

	_, err := vm.SelectTopic(context.Background(), "", "t1")
	require.Error(t, err)
}

func TestViewManager_Subscribe(t *testing.T) {
	gauge := &countingGauge{}
	publisher := &capturePublisher{err: errors.New("bus down")}
	vm, _ := newTestManager(t, WithSubscriberGauge(gauge), WithPublisher(publisher))
	ctx := context.Background()

	events, cancel := vm.Subscribe("s")
	other, cancelOther := vm.Subscribe("other")
	defer cancelOther()
	assert.Equal(t, 2, gauge.Value())

	_, err := vm.SelectTopic(ctx, "s", "t1")
	require.NoError(t, err, "publisher failures do not fail the transition")

	select {
	case ev := <-events:
		assert.Equal(t, dashboard.EventTopicSelected, ev.Kind)
		assert.Equal(t, "t1", ev.State.SelectedTopicID)
		assert.NotEmpty(t, ev.ID)
	case <-time.After(time.Second):
		t.Fatal("expected a view event")
	}

	select {
	case ev := <-other:
		t.Fatalf("unexpected event for other session: %+v", ev)
	default:
	}

	require.Len(t, publisher.events, 1)
	assert.Equal(t, "s", publisher.events[0].State.SessionID)

	cancel()
	cancel()
	_, ok := <-events
	assert.False(t, ok, "cancel closes the channel")
	assert.Equal(t, 1, gauge.Value())
}

func TestViewManager_SlowSubscriberDoesNotBlock(t *testing.T) {
	vm, _ := newTestManager(t)
	ctx := context.Background()

	events, cancel := vm.Subscribe("s")
	defer cancel()

	for i := 0; i < subscriberBuffer+5; i++ {
		_, err := vm.SetPanel(ctx, "s", dashboard.PanelUsers, i%2 == 0)
		require.NoError(t, err)
	}

	assert.Len(t, events, subscriberBuffer)
}

func TestViewManager_ConcurrentTransitionsDeliverInOrder(t *testing.T) {
	vm, _ := newTestManager(t)
	ctx := context.Background()

	for round := 0; round < 200; round++ {
		events, cancel := vm.Subscribe("s")

		var wg sync.WaitGroup
		for i := 0; i < subscriberBuffer; i++ {
			wg.Add(1)
			go func(open bool) {
				defer wg.Done()
				_, err := vm.SetPanel(ctx, "s", dashboard.PanelUsers, open)
				assert.NoError(t, err)
			}(i%2 == 0)
		}
		wg.Wait()
		cancel()

		var versions []int64
		for ev := range events {
			versions = append(versions, ev.State.Version)
		}

		require.Len(t, versions, subscriberBuffer)
		for i := 1; i < len(versions); i++ {
			require.Greater(t, versions[i], versions[i-1], "round %d: versions %v", round, versions)
		}
		require.Equal(t, vm.State(ctx, "s").Version, versions[len(versions)-1])
	}
}

func TestViewManager_ExpireIdle(t *testing.T) {
	vm, clock := newTestManager(t)
	ctx := context.Background()

	_, err := vm.SelectTopic(ctx, "idle", "t1")
	require.NoError(t, err)
	_, err = vm.SelectTopic(ctx, "watched", "t1")
	require.NoError(t, err)
	_, cancel := vm.Subscribe("watched")
	defer cancel()

	clock.Advance(30 * time.Minute)
	_, err = vm.SelectTopic(ctx, "fresh", "t1")
	require.NoError(t, err)

	clock.Advance(45 * time.Minute)
	assert.Equal(t, 1, vm.ExpireIdle())

	assert.Zero(t, vm.State(ctx, "idle").Version)
	assert.Equal(t, int64(1), vm.State(ctx, "watched").Version)
	assert.Equal(t, int64(1), vm.State(ctx, "fresh").Version)
}

func TestViewManager_StopClosesSubscriptions(t *testing.T) {
	vm := NewViewManager(ViewManagerConfig{SessionTTL: time.Minute, SweepInterval: time.Millisecond})
	vm.Start()

	events, cancel := vm.Subscribe("s")
	require.NoError(t, vm.Stop(context.Background()))

	_, ok := <-events
	assert.False(t, ok)
	cancel()
}
