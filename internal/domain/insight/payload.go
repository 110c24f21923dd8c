package insight

// ChartType tags the shape of a visualization payload
type ChartType string

const (
	ChartBar  ChartType = "bar"
	ChartPie  ChartType = "pie"
	ChartText ChartType = "text"
)

// ChartPoint is a single named value in a chart series
type ChartPoint struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
	// ID links the point back to its entity when there is one
	ID string `json:"id,omitempty"`
}

// Payload is the tagged result of a natural-language query.
// Bar and pie payloads carry ChartData; text payloads carry TextContent.
type Payload struct {
	Type        ChartType    `json:"type"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	ChartData   []ChartPoint `json:"chartData,omitempty"`
	TextContent string       `json:"textContent,omitempty"`
}

// Intent names the keyword group a query resolved to
type Intent string

const (
	IntentTopTopics       Intent = "top_topics"
	IntentTopContributors Intent = "top_contributors"
	IntentSentiment       Intent = "sentiment"
	IntentCategories      Intent = "categories"
	IntentEngagement      Intent = "engagement"
	IntentFallback        Intent = "fallback"
)

// Total sums the values of a chart series
func Total(points []ChartPoint) int {
	total := 0
	for _, p := range points {
		total += p.Value
	}
	return total
}

// EngagementSummary aggregates the reactions and replies a user's conversations received
type EngagementSummary struct {
	UserID            string       `json:"userId"`
	ConversationCount int          `json:"conversationCount"`
	TotalReactions    int          `json:"totalReactions"`
	TotalReplies      int          `json:"totalReplies"`
	AverageReactions  float64      `json:"averageReactions"`
	AverageReplies    float64      `json:"averageReplies"`
	TopicDistribution []ChartPoint `json:"topicDistribution"`
}

// TrendDirection is the sign of a topic's trend
type TrendDirection string

const (
	TrendUp   TrendDirection = "up"
	TrendDown TrendDirection = "down"
)
