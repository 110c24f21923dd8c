// internal/adapter/storage/fixtures.go

package storage

import (
	"bytes"
	"embed"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"w3intel/internal/domain/community"
)

//go:embed fixtures/community.yaml
var fixtureFS embed.FS

const defaultFixturePath = "fixtures/community.yaml"

// fixtureFile mirrors the YAML fixture layout. Topic and conversation
// timestamps are stored as ages relative to load time.
type fixtureFile struct {
	Topics        []topicRecord                   `yaml:"topics"`
	Users         []userRecord                    `yaml:"users"`
	Conversations map[string][]conversationRecord `yaml:"conversations"`
	Participants  map[string][]string             `yaml:"participants"`
}

type topicRecord struct {
	ID           string        `yaml:"id"`
	Title        string        `yaml:"title"`
	Mentions     int           `yaml:"mentions"`
	Sentiment    float64       `yaml:"sentiment"`
	Trend        float64       `yaml:"trend"`
	Participants int           `yaml:"participants"`
	Age          time.Duration `yaml:"age"`
	Tags         []string      `yaml:"tags"`
	Description  string        `yaml:"description"`
}

type userRecord struct {
	ID            string    `yaml:"id"`
	Username      string    `yaml:"username"`
	Address       string    `yaml:"address"`
	Avatar        string    `yaml:"avatar"`
	JoinedAt      time.Time `yaml:"joinedAt"`
	Reputation    int       `yaml:"reputation"`
	Contributions int       `yaml:"contributions"`
	Topics        int       `yaml:"topics"`
	TopTopics     []string  `yaml:"topTopics"`
	Sentiment     float64   `yaml:"sentiment"`
}

type conversationRecord struct {
	ID         string        `yaml:"id"`
	TopicID    string        `yaml:"topicId"`
	TopicTitle string        `yaml:"topicTitle"`
	Content    string        `yaml:"content"`
	Age        time.Duration `yaml:"age"`
	Reactions  int           `yaml:"reactions"`
	Replies    int           `yaml:"replies"`
}

// DefaultFixtures decodes the embedded community fixtures relative to now
func DefaultFixtures(now time.Time) (community.Dataset, error) {
	data, err := fixtureFS.ReadFile(defaultFixturePath)
	if err != nil {
		return community.Dataset{}, fmt.Errorf("error reading embedded fixtures: %w", err)
	}
	return DecodeFixtures(bytes.NewReader(data), now)
}

// LoadFixtureFile decodes a fixture file from disk relative to now
func LoadFixtureFile(path string, now time.Time) (community.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return community.Dataset{}, fmt.Errorf("error opening fixture file: %w", err)
	}
	defer f.Close()

	return DecodeFixtures(f, now)
}

// DecodeFixtures reads YAML fixtures from r, resolving ages against now
func DecodeFixtures(r io.Reader, now time.Time) (community.Dataset, error) {
	var file fixtureFile
	if err := yaml.NewDecoder(r).Decode(&file); err != nil {
		return community.Dataset{}, fmt.Errorf("error decoding fixtures: %w", err)
	}

	ds := community.Dataset{
		Topics:        make([]community.Topic, 0, len(file.Topics)),
		Users:         make([]community.User, 0, len(file.Users)),
		Conversations: make(map[string][]community.Conversation, len(file.Conversations)),
		Participants:  make(map[string][]string, len(file.Participants)),
	}

	for _, t := range file.Topics {
		if t.ID == "" {
			return community.Dataset{}, fmt.Errorf("topic %q has no id", t.Title)
		}
		ds.Topics = append(ds.Topics, community.Topic{
			ID:           t.ID,
			Title:        t.Title,
			Mentions:     t.Mentions,
			Sentiment:    t.Sentiment,
			Trend:        t.Trend,
			Participants: t.Participants,
			Timestamp:    now.Add(-t.Age),
			Tags:         t.Tags,
			Description:  t.Description,
		})
	}

	for _, u := range file.Users {
		if u.ID == "" {
			return community.Dataset{}, fmt.Errorf("user %q has no id", u.Username)
		}
		ds.Users = append(ds.Users, community.User{
			ID:            u.ID,
			Username:      u.Username,
			Address:       u.Address,
			Avatar:        u.Avatar,
			JoinedAt:      u.JoinedAt,
			Reputation:    u.Reputation,
			Contributions: u.Contributions,
			Topics:        u.Topics,
			TopTopics:     u.TopTopics,
			Sentiment:     u.Sentiment,
		})
	}

	for userID, records := range file.Conversations {
		convs := make([]community.Conversation, 0, len(records))
		for _, c := range records {
			convs = append(convs, community.Conversation{
				ID:         c.ID,
				TopicID:    c.TopicID,
				TopicTitle: c.TopicTitle,
				Content:    c.Content,
				Timestamp:  now.Add(-c.Age),
				Reactions:  c.Reactions,
				Replies:    c.Replies,
			})
		}
		ds.Conversations[userID] = convs
	}

	for topicID, userIDs := range file.Participants {
		ds.Participants[topicID] = append([]string(nil), userIDs...)
	}

	return ds, nil
}
