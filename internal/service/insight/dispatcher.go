// internal/service/insight/dispatcher.go

package insight

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"w3intel/internal/domain/community"
	"w3intel/internal/domain/insight"
)

// keywordGroups are tested in order; the first group with a matching keyword wins.
// Groups overlap ("user sentiment" matches two), so the order is observable.
var keywordGroups = []struct {
	intent   insight.Intent
	keywords []string
}{
	{insight.IntentTopTopics, []string{"top topics", "trending"}},
	{insight.IntentTopContributors, []string{"user", "contributor"}},
	{insight.IntentSentiment, []string{"sentiment", "feeling"}},
	{insight.IntentCategories, []string{"topic distribution", "categories"}},
	{insight.IntentEngagement, []string{"engagement", "activity"}},
}

// IntentObserver is notified of every dispatched query
type IntentObserver interface {
	ObserveIntent(intent insight.Intent)
}

// DispatcherOption configures a Dispatcher
type DispatcherOption func(*Dispatcher)

// WithRand overrides the randomness source of the engagement series
func WithRand(rng RandSource) DispatcherOption {
	return func(d *Dispatcher) {
		d.rng = rng
	}
}

// WithNow overrides the clock used to label the engagement series
func WithNow(now func() time.Time) DispatcherOption {
	return func(d *Dispatcher) {
		d.now = now
	}
}

// WithObserver registers an observer of dispatched intents
func WithObserver(observer IntentObserver) DispatcherOption {
	return func(d *Dispatcher) {
		d.observer = observer
	}
}

// WithLogger sets the logger
func WithLogger(logger logrus.FieldLogger) DispatcherOption {
	return func(d *Dispatcher) {
		d.logger = logger
	}
}

// Dispatcher turns free-text queries into visualization payloads
type Dispatcher struct {
	store    community.Store
	rng      RandSource
	now      func() time.Time
	observer IntentObserver
	logger   logrus.FieldLogger
}

// globalRand uses the goroutine-safe package-level source
type globalRand struct{}

func (globalRand) Intn(n int) int { return rand.Intn(n) }

// NewDispatcher creates a new query dispatcher over store
func NewDispatcher(store community.Store, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		store:  store,
		rng:    globalRand{},
		now:    time.Now,
		logger: logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Classify resolves a query to the intent of its first matching keyword group
func Classify(query string) insight.Intent {
	normalized := strings.ToLower(query)
	for _, group := range keywordGroups {
		for _, keyword := range group.keywords {
			if strings.Contains(normalized, keyword) {
				return group.intent
			}
		}
	}
	return insight.IntentFallback
}

// Generate produces the payload for query. It never fails; unmatched queries
// get the informational fallback payload.
func (d *Dispatcher) Generate(query string) insight.Payload {
	intent := Classify(query)

	if d.observer != nil {
		d.observer.ObserveIntent(intent)
	}
	d.logger.WithFields(logrus.Fields{
		"intent":    intent,
		"query_len": len(query),
	}).Debug("Dispatching query")

	switch intent {
	case insight.IntentTopTopics:
		return TopTopicsChart(d.store.Topics())
	case insight.IntentTopContributors:
		return TopContributorsChart(d.store.Users(), d.store.Participants())
	case insight.IntentSentiment:
		return SentimentChart(d.store.Topics())
	case insight.IntentCategories:
		return CategoryChart(d.store.Topics())
	case insight.IntentEngagement:
		return EngagementChart(d.now(), d.rng)
	default:
		return FallbackPayload(query)
	}
}

// FallbackPayload echoes query back with suggestions
func FallbackPayload(query string) insight.Payload {
	return insight.Payload{
		Type:        insight.ChartText,
		Title:       "Query Analysis",
		Description: "I analyzed your query but need more specific information",
		TextContent: fmt.Sprintf("Your query: \"%s\"\n\nTry asking about specific aspects like:\n"+
			"- Top trending topics\n"+
			"- Most active contributors\n"+
			"- Sentiment analysis\n"+
			"- Topic distribution\n"+
			"- Community engagement metrics", query),
	}
}
