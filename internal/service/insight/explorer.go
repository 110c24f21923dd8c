// internal/service/insight/explorer.go

package insight

import (
	"fmt"
	"math"
	"strings"

	"w3intel/internal/domain/community"
	"w3intel/internal/domain/insight"
)

// Explorer answers the detail views of the dashboard: topic panels, user
// profiles and per-user engagement
type Explorer struct {
	store community.Store
}

// NewExplorer creates a new explorer over store
func NewExplorer(store community.Store) *Explorer {
	return &Explorer{
		store: store,
	}
}

// TopicDetail returns a topic with its participants. The boolean is false for unknown topics.
func (e *Explorer) TopicDetail(topicID string) (insight.TopicDetail, bool) {
	topic, ok := e.store.Topic(topicID)
	if !ok {
		return insight.TopicDetail{}, false
	}

	direction := insight.TrendDown
	if topic.Trend > 0 {
		direction = insight.TrendUp
	}

	return insight.TopicDetail{
		Topic:          topic,
		Users:          e.store.UsersDiscussingTopic(topicID),
		Direction:      direction,
		TrendMagnitude: math.Abs(topic.Trend),
		Category:       Categorize(topic.Title),
		SentimentLabel: SentimentBucket(topic.Sentiment),
	}, true
}

// UserProfile returns a user with their value statement and topics
func (e *Explorer) UserProfile(userID string) (insight.UserProfile, bool) {
	user, ok := e.store.UserByID(userID)
	if !ok {
		return insight.UserProfile{}, false
	}

	return insight.UserProfile{
		User:           user,
		ValueStatement: ValueStatement(user),
		Topics:         e.store.TopicsByUserID(userID),
	}, true
}

// Engagement summarizes the conversations of a known user
func (e *Explorer) Engagement(userID string) (insight.EngagementSummary, bool) {
	if _, ok := e.store.UserByID(userID); !ok {
		return insight.EngagementSummary{}, false
	}
	return Summarize(userID, e.store.ConversationsByUserID(userID)), true
}

// Summarize totals and averages reactions and replies over conversations and
// counts conversations per topic title in first-seen order
func Summarize(userID string, conversations []community.Conversation) insight.EngagementSummary {
	summary := insight.EngagementSummary{
		UserID:            userID,
		ConversationCount: len(conversations),
		TopicDistribution: []insight.ChartPoint{},
	}

	index := make(map[string]int)
	for _, c := range conversations {
		summary.TotalReactions += c.Reactions
		summary.TotalReplies += c.Replies

		i, ok := index[c.TopicTitle]
		if !ok {
			i = len(summary.TopicDistribution)
			index[c.TopicTitle] = i
			summary.TopicDistribution = append(summary.TopicDistribution, insight.ChartPoint{
				ID:   c.TopicID,
				Name: c.TopicTitle,
			})
		}
		summary.TopicDistribution[i].Value++
	}

	if n := len(conversations); n > 0 {
		summary.AverageReactions = float64(summary.TotalReactions) / float64(n)
		summary.AverageReplies = float64(summary.TotalReplies) / float64(n)
	}

	return summary
}

// ValueStatement describes a user's standing in the community
func ValueStatement(u community.User) string {
	var statements []string

	if u.Contributions > 300 {
		statements = append(statements, fmt.Sprintf("Made %d valuable contributions to the community.", u.Contributions))
	}

	switch {
	case u.Reputation > 95:
		statements = append(statements, "Highly respected member with excellent reputation.")
	case u.Reputation > 90:
		statements = append(statements, "Well-respected community contributor.")
	}

	if u.Topics > 35 {
		statements = append(statements, fmt.Sprintf("Active in %d different discussion topics.", u.Topics))
	}

	if u.Sentiment > 0.8 {
		statements = append(statements, "Known for positive and constructive feedback.")
	}

	if len(u.TopTopics) > 0 {
		statements = append(statements, fmt.Sprintf("Expert in %s.", strings.Join(u.TopTopics, ", ")))
	}

	if len(statements) == 0 {
		return fmt.Sprintf("Active community member since %s.", u.JoinedAt.Format("Jan 2, 2006"))
	}
	return strings.Join(statements, " ")
}
