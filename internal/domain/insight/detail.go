package insight

import "w3intel/internal/domain/community"

// TopicDetail is a topic together with the users discussing it
type TopicDetail struct {
	Topic          community.Topic  `json:"topic"`
	Users          []community.User `json:"users"`
	Direction      TrendDirection   `json:"direction"`
	TrendMagnitude float64          `json:"trendMagnitude"`
	Category       string           `json:"category"`
	SentimentLabel string           `json:"sentimentLabel"`
}

// UserProfile is a user with a generated summary of their standing
type UserProfile struct {
	User           community.User    `json:"user"`
	ValueStatement string            `json:"valueStatement"`
	Topics         []community.Topic `json:"topics"`
}
