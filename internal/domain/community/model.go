package community

import (
	"sort"
	"time"
)

// TimeFrame is a fixed lookback window used to filter time-stamped entities
type TimeFrame string

const (
	TimeFrameDay   TimeFrame = "24h"
	TimeFrameWeek  TimeFrame = "week"
	TimeFrameMonth TimeFrame = "month"
)

// Window returns the lookback duration for the time frame. Unknown values
// behave as the 24h window.
func (tf TimeFrame) Window() time.Duration {
	switch tf {
	case TimeFrameWeek:
		return 7 * 24 * time.Hour
	case TimeFrameMonth:
		return 30 * 24 * time.Hour
	default:
		return 24 * time.Hour
	}
}

// Valid reports whether tf is one of the known time frames
func (tf TimeFrame) Valid() bool {
	switch tf {
	case TimeFrameDay, TimeFrameWeek, TimeFrameMonth:
		return true
	}
	return false
}

// ParseTimeFrame converts s to a TimeFrame, falling back to 24h
func ParseTimeFrame(s string) TimeFrame {
	tf := TimeFrame(s)
	if !tf.Valid() {
		return TimeFrameDay
	}
	return tf
}

// Topic represents a discussion subject tracked with mention, sentiment and trend metrics
type Topic struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Mentions     int       `json:"mentions"`
	Sentiment    float64   `json:"sentiment"`
	Trend        float64   `json:"trend"`
	Participants int       `json:"participants"`
	Timestamp    time.Time `json:"timestamp"`
	Tags         []string  `json:"tags"`
	Description  string    `json:"description,omitempty"`
}

// User represents a community member
type User struct {
	ID            string    `json:"id"`
	Username      string    `json:"username"`
	Address       string    `json:"address"`
	Avatar        string    `json:"avatar"`
	JoinedAt      time.Time `json:"joinedAt"`
	Reputation    int       `json:"reputation"`
	Contributions int       `json:"contributions"`
	Topics        int       `json:"topics"`
	TopTopics     []string  `json:"topTopics"`
	Sentiment     float64   `json:"sentiment"`
}

// Conversation is a single post made by a user about a topic
type Conversation struct {
	ID         string    `json:"id"`
	TopicID    string    `json:"topicId"`
	TopicTitle string    `json:"topicTitle"`
	Content    string    `json:"content"`
	Timestamp  time.Time `json:"timestamp"`
	Reactions  int       `json:"reactions"`
	Replies    int       `json:"replies"`
}

// Dataset is the full set of community entities held by a store
type Dataset struct {
	Topics []Topic
	Users  []User
	// Conversations is keyed by the id of the authoring user
	Conversations map[string][]Conversation
	// Participants maps a topic id to the ids of users discussing it
	Participants map[string][]string
}

// DanglingReferences lists conversation and participant references that do not
// resolve to a topic or user in the dataset
func (d Dataset) DanglingReferences() []string {
	topics := make(map[string]struct{}, len(d.Topics))
	for _, t := range d.Topics {
		topics[t.ID] = struct{}{}
	}
	users := make(map[string]struct{}, len(d.Users))
	for _, u := range d.Users {
		users[u.ID] = struct{}{}
	}

	var dangling []string
	for _, u := range sortedKeys(d.Conversations) {
		if _, ok := users[u]; !ok {
			dangling = append(dangling, "conversations: unknown user "+u)
		}
		for _, c := range d.Conversations[u] {
			if _, ok := topics[c.TopicID]; !ok {
				dangling = append(dangling, "conversation "+c.ID+": unknown topic "+c.TopicID)
			}
		}
	}
	for _, t := range sortedKeys(d.Participants) {
		if _, ok := topics[t]; !ok {
			dangling = append(dangling, "participants: unknown topic "+t)
		}
		for _, u := range d.Participants[t] {
			if _, ok := users[u]; !ok {
				dangling = append(dangling, "participants of topic "+t+": unknown user "+u)
			}
		}
	}
	return dangling
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
