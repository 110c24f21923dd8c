// internal/service/insight/generators.go

package insight

import (
	"sort"
	"strings"
	"time"

	"w3intel/internal/domain/community"
	"w3intel/internal/domain/insight"
)

// topN bounds the ranked bar charts
const topN = 5

// Sentiment buckets
const (
	SentimentPositive = "Positive"
	SentimentNeutral  = "Neutral"
	SentimentNegative = "Negative"
)

// Topic categories
const (
	CategoryDeFi           = "DeFi"
	CategoryNFT            = "NFT"
	CategoryGovernance     = "Governance"
	CategoryInfrastructure = "Infrastructure"
	CategoryGeneral        = "General"
)

// categoryRules are checked in order against the topic title; first match wins
var categoryRules = []struct {
	keyword  string
	category string
}{
	{"DeFi", CategoryDeFi},
	{"NFT", CategoryNFT},
	{"DAO", CategoryGovernance},
	{"Layer", CategoryInfrastructure},
}

// engagementDays is the length of the synthetic engagement series
const engagementDays = 7

// RandSource supplies the randomness for synthetic series
type RandSource interface {
	Intn(n int) int
}

// TopTopicsChart ranks topics by mentions
func TopTopicsChart(topics []community.Topic) insight.Payload {
	ranked := append([]community.Topic(nil), topics...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Mentions > ranked[j].Mentions
	})
	if len(ranked) > topN {
		ranked = ranked[:topN]
	}

	data := make([]insight.ChartPoint, 0, len(ranked))
	for _, t := range ranked {
		data = append(data, insight.ChartPoint{Name: t.Title, Value: t.Mentions})
	}

	return insight.Payload{
		Type:        insight.ChartBar,
		Title:       "Top Trending Topics",
		Description: "The most discussed topics in the community based on mention count",
		ChartData:   data,
	}
}

// ParticipationCounts counts how many topics each user id participates in
func ParticipationCounts(participants map[string][]string) map[string]int {
	counts := make(map[string]int)
	for _, userIDs := range participants {
		for _, id := range userIDs {
			counts[id]++
		}
	}
	return counts
}

// TopContributorsChart ranks users by topic participation
func TopContributorsChart(users []community.User, participants map[string][]string) insight.Payload {
	counts := ParticipationCounts(participants)

	data := make([]insight.ChartPoint, 0, len(users))
	for _, u := range users {
		data = append(data, insight.ChartPoint{ID: u.ID, Name: u.Username, Value: counts[u.ID]})
	}
	sort.SliceStable(data, func(i, j int) bool {
		return data[i].Value > data[j].Value
	})
	if len(data) > topN {
		data = data[:topN]
	}

	return insight.Payload{
		Type:        insight.ChartBar,
		Title:       "Top Community Contributors",
		Description: "Users with the highest participation across discussion topics",
		ChartData:   data,
	}
}

// SentimentBucket classifies a sentiment score. 0 and 0.5 are both neutral.
func SentimentBucket(score float64) string {
	switch {
	case score > 0.5:
		return SentimentPositive
	case score < 0:
		return SentimentNegative
	default:
		return SentimentNeutral
	}
}

// SentimentChart counts topics per sentiment bucket
func SentimentChart(topics []community.Topic) insight.Payload {
	counts := map[string]int{}
	for _, t := range topics {
		counts[SentimentBucket(t.Sentiment)]++
	}

	return insight.Payload{
		Type:        insight.ChartPie,
		Title:       "Topic Sentiment Distribution",
		Description: "Distribution of positive, neutral, and negative sentiment across topics",
		ChartData: []insight.ChartPoint{
			{Name: SentimentPositive, Value: counts[SentimentPositive]},
			{Name: SentimentNeutral, Value: counts[SentimentNeutral]},
			{Name: SentimentNegative, Value: counts[SentimentNegative]},
		},
	}
}

// Categorize assigns a topic title to exactly one category
func Categorize(title string) string {
	for _, rule := range categoryRules {
		if strings.Contains(title, rule.keyword) {
			return rule.category
		}
	}
	return CategoryGeneral
}

// CategoryChart counts topics per category in first-seen order
func CategoryChart(topics []community.Topic) insight.Payload {
	var data []insight.ChartPoint
	index := make(map[string]int)

	for _, t := range topics {
		category := Categorize(t.Title)
		i, ok := index[category]
		if !ok {
			i = len(data)
			index[category] = i
			data = append(data, insight.ChartPoint{Name: category})
		}
		data[i].Value++
	}

	return insight.Payload{
		Type:        insight.ChartPie,
		Title:       "Topic Category Distribution",
		Description: "Distribution of discussions across main Web3 categories",
		ChartData:   data,
	}
}

// EngagementChart builds a synthetic daily series for the week ending at now,
// oldest day first, with values in [50, 100)
func EngagementChart(now time.Time, rng RandSource) insight.Payload {
	data := make([]insight.ChartPoint, 0, engagementDays)
	for i := engagementDays - 1; i >= 0; i-- {
		day := now.AddDate(0, 0, -i)
		data = append(data, insight.ChartPoint{
			Name:  day.Format("Mon"),
			Value: rng.Intn(50) + 50,
		})
	}

	return insight.Payload{
		Type:        insight.ChartBar,
		Title:       "Daily Community Engagement",
		Description: "Message volume and participation trends over the past week",
		ChartData:   data,
	}
}
