package insight

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"w3intel/internal/adapter/storage"
	"w3intel/internal/domain/community"
)

var testNow = time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

// seqRand replays fixed values, wrapping around
type seqRand struct {
	values []int
	calls  int
}

func (r *seqRand) Intn(n int) int {
	v := r.values[r.calls%len(r.values)]
	r.calls++
	return v % n
}

func newFixtureStore(t *testing.T) *storage.MemoryStore {
	t.Helper()

	ds, err := storage.DefaultFixtures(testNow)
	require.NoError(t, err)

	return storage.NewMemoryStore(ds, storage.WithClock(func() time.Time { return testNow }))
}

func topicsWithSentiment(scores ...float64) []community.Topic {
	topics := make([]community.Topic, 0, len(scores))
	for _, s := range scores {
		topics = append(topics, community.Topic{Sentiment: s})
	}
	return topics
}
