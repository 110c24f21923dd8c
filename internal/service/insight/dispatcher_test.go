package insight

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"w3intel/internal/domain/insight"
)

type recordingObserver struct {
	intents []insight.Intent
}

func (o *recordingObserver) ObserveIntent(intent insight.Intent) {
	o.intents = append(o.intents, intent)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  insight.Intent
	}{
		{name: "top topics", query: "Show me the top topics", want: insight.IntentTopTopics},
		{name: "trending uppercase", query: "WHAT IS TRENDING", want: insight.IntentTopTopics},
		{name: "user", query: "which users are loudest", want: insight.IntentTopContributors},
		{name: "contributor", query: "best contributor", want: insight.IntentTopContributors},
		{name: "sentiment", query: "overall sentiment", want: insight.IntentSentiment},
		{name: "feeling", query: "how is the community feeling", want: insight.IntentSentiment},
		{name: "topic distribution", query: "topic distribution please", want: insight.IntentCategories},
		{name: "categories", query: "list categories", want: insight.IntentCategories},
		{name: "engagement", query: "engagement this week", want: insight.IntentEngagement},
		{name: "activity", query: "recent activity", want: insight.IntentEngagement},
		{name: "user wins over sentiment", query: "user sentiment", want: insight.IntentTopContributors},
		{name: "trending wins over user", query: "trending users", want: insight.IntentTopTopics},
		{name: "sentiment wins over engagement", query: "sentiment of engagement", want: insight.IntentSentiment},
		{name: "topic alone is not a match", query: "topic", want: insight.IntentFallback},
		{name: "empty", query: "", want: insight.IntentFallback},
		{name: "whitespace", query: "   ", want: insight.IntentFallback},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.query))
		})
	}
}

func TestDispatcher_Generate(t *testing.T) {
	store := newFixtureStore(t)
	observer := &recordingObserver{}
	d := NewDispatcher(store,
		WithRand(&seqRand{values: []int{1}}),
		WithNow(func() time.Time { return testNow }),
		WithObserver(observer),
	)

	t.Run("top topics", func(t *testing.T) {
		payload := d.Generate("Top Topics today")
		assert.Equal(t, insight.ChartBar, payload.Type)
		assert.Equal(t, "Top Trending Topics", payload.Title)
		require.Len(t, payload.ChartData, 5)
		for i := 1; i < len(payload.ChartData); i++ {
			assert.GreaterOrEqual(t, payload.ChartData[i-1].Value, payload.ChartData[i].Value)
		}
	})

	t.Run("contributors", func(t *testing.T) {
		payload := d.Generate("top contributors")
		assert.Equal(t, "Top Community Contributors", payload.Title)
	})

	t.Run("sentiment sums to topic count", func(t *testing.T) {
		payload := d.Generate("community feeling")
		assert.Equal(t, insight.ChartPie, payload.Type)
		require.Len(t, payload.ChartData, 3)
		assert.Equal(t, len(store.Topics()), insight.Total(payload.ChartData))
	})

	t.Run("categories", func(t *testing.T) {
		payload := d.Generate("categories")
		assert.Equal(t, "Topic Category Distribution", payload.Title)
		assert.Equal(t, len(store.Topics()), insight.Total(payload.ChartData))
	})

	t.Run("engagement uses injected sources", func(t *testing.T) {
		payload := d.Generate("activity")
		require.Len(t, payload.ChartData, 7)
		assert.Equal(t, "Mon", payload.ChartData[6].Name)
		for _, p := range payload.ChartData {
			assert.Equal(t, 51, p.Value)
		}
	})

	assert.Equal(t, []insight.Intent{
		insight.IntentTopTopics,
		insight.IntentTopContributors,
		insight.IntentSentiment,
		insight.IntentCategories,
		insight.IntentEngagement,
	}, observer.intents)
}

func TestDispatcher_Fallback(t *testing.T) {
	d := NewDispatcher(newFixtureStore(t))

	for _, query := range []string{"", "What's the weather?", "Tell me about \"ZK\""} {
		t.Run(query, func(t *testing.T) {
			var payload insight.Payload
			require.NotPanics(t, func() { payload = d.Generate(query) })

			assert.Equal(t, insight.ChartText, payload.Type)
			assert.Equal(t, "Query Analysis", payload.Title)
			assert.Empty(t, payload.ChartData)
			assert.Contains(t, payload.TextContent, "Your query: \""+query+"\"")
			assert.Contains(t, payload.TextContent, "- Community engagement metrics")
		})
	}
}

func TestDispatcher_DefaultRandStaysInRange(t *testing.T) {
	d := NewDispatcher(newFixtureStore(t))

	payload := d.Generate("engagement")

	require.Len(t, payload.ChartData, 7)
	for _, p := range payload.ChartData {
		assert.GreaterOrEqual(t, p.Value, 50)
		assert.Less(t, p.Value, 100)
	}
}
