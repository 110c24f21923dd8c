// internal/adapter/storage/memory_store.go

package storage

import (
	"time"

	"w3intel/internal/domain/community"
)

// MemoryStore serves community entities from an immutable in-memory dataset
type MemoryStore struct {
	topics        []community.Topic
	users         []community.User
	conversations map[string][]community.Conversation
	participants  map[string][]string

	topicIndex map[string]int
	userIndex  map[string]int

	now func() time.Time
}

// MemoryStoreOption configures a MemoryStore
type MemoryStoreOption func(*MemoryStore)

// WithClock overrides the clock used for time frame filtering
func WithClock(now func() time.Time) MemoryStoreOption {
	return func(s *MemoryStore) {
		s.now = now
	}
}

// NewMemoryStore creates a store over ds. The dataset must not be modified afterwards.
func NewMemoryStore(ds community.Dataset, opts ...MemoryStoreOption) *MemoryStore {
	s := &MemoryStore{
		topics:        ds.Topics,
		users:         ds.Users,
		conversations: ds.Conversations,
		participants:  ds.Participants,
		topicIndex:    make(map[string]int, len(ds.Topics)),
		userIndex:     make(map[string]int, len(ds.Users)),
		now:           time.Now,
	}
	if s.conversations == nil {
		s.conversations = map[string][]community.Conversation{}
	}
	if s.participants == nil {
		s.participants = map[string][]string{}
	}

	// First occurrence wins on duplicate ids
	for i, t := range s.topics {
		if _, ok := s.topicIndex[t.ID]; !ok {
			s.topicIndex[t.ID] = i
		}
	}
	for i, u := range s.users {
		if _, ok := s.userIndex[u.ID]; !ok {
			s.userIndex[u.ID] = i
		}
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Topics returns every topic in fixture order
func (s *MemoryStore) Topics() []community.Topic {
	return append([]community.Topic(nil), s.topics...)
}

// Users returns every user in fixture order
func (s *MemoryStore) Users() []community.User {
	return append([]community.User(nil), s.users...)
}

// Participants returns a copy of the topic participation relation
func (s *MemoryStore) Participants() map[string][]string {
	out := make(map[string][]string, len(s.participants))
	for topicID, userIDs := range s.participants {
		out[topicID] = append([]string(nil), userIDs...)
	}
	return out
}

// TopicsByTimeFrame returns topics newer than now minus the time frame window
func (s *MemoryStore) TopicsByTimeFrame(tf community.TimeFrame) []community.Topic {
	cutoff := s.now().Add(-tf.Window())

	topics := make([]community.Topic, 0, len(s.topics))
	for _, t := range s.topics {
		if t.Timestamp.After(cutoff) {
			topics = append(topics, t)
		}
	}
	return topics
}

// Topic returns a topic by ID
func (s *MemoryStore) Topic(id string) (community.Topic, bool) {
	i, ok := s.topicIndex[id]
	if !ok {
		return community.Topic{}, false
	}
	return s.topics[i], true
}

// UserByID returns a user by ID
func (s *MemoryStore) UserByID(id string) (community.User, bool) {
	i, ok := s.userIndex[id]
	if !ok {
		return community.User{}, false
	}
	return s.users[i], true
}

// ConversationsByUserID returns the conversations authored by a user
func (s *MemoryStore) ConversationsByUserID(userID string) []community.Conversation {
	return append([]community.Conversation{}, s.conversations[userID]...)
}

// UsersDiscussingTopic returns participating users in relation order, skipping unknown ids
func (s *MemoryStore) UsersDiscussingTopic(topicID string) []community.User {
	userIDs := s.participants[topicID]

	users := make([]community.User, 0, len(userIDs))
	for _, id := range userIDs {
		if u, ok := s.UserByID(id); ok {
			users = append(users, u)
		}
	}
	return users
}

// TopicsByUserID returns the topics a user participates in, in topic fixture order
func (s *MemoryStore) TopicsByUserID(userID string) []community.Topic {
	topics := make([]community.Topic, 0)
	for _, t := range s.topics {
		for _, id := range s.participants[t.ID] {
			if id == userID {
				topics = append(topics, t)
				break
			}
		}
	}
	return topics
}

var _ community.Store = (*MemoryStore)(nil)
