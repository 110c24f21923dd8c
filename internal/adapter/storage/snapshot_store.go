// internal/adapter/storage/snapshot_store.go

package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"w3intel/internal/domain/community"
)

// Querier is the subset of pgxpool.Pool used to read a snapshot
type Querier interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
}

// SnapshotStore reads a community dataset out of Postgres once at startup.
// The result is served from a MemoryStore; nothing is written back.
type SnapshotStore struct {
	db Querier
}

// NewSnapshotStore creates a new snapshot store
func NewSnapshotStore(db *pgxpool.Pool) *SnapshotStore {
	return &SnapshotStore{
		db: db,
	}
}

// Load reads topics, users, conversations and the participation relation
func (s *SnapshotStore) Load(ctx context.Context) (community.Dataset, error) {
	topics, err := s.loadTopics(ctx)
	if err != nil {
		return community.Dataset{}, err
	}

	users, err := s.loadUsers(ctx)
	if err != nil {
		return community.Dataset{}, err
	}

	conversations, err := s.loadConversations(ctx)
	if err != nil {
		return community.Dataset{}, err
	}

	participants, err := s.loadParticipants(ctx)
	if err != nil {
		return community.Dataset{}, err
	}

	return community.Dataset{
		Topics:        topics,
		Users:         users,
		Conversations: conversations,
		Participants:  participants,
	}, nil
}

func (s *SnapshotStore) loadTopics(ctx context.Context) ([]community.Topic, error) {
	query := `
		SELECT
			id, title, mentions, sentiment, trend, participants,
			observed_at, tags, description
		FROM topics
		ORDER BY position ASC, id ASC
	`

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error querying topics: %w", err)
	}
	defer rows.Close()

	var topics []community.Topic
	for rows.Next() {
		var t community.Topic
		var description *string

		err := rows.Scan(
			&t.ID,
			&t.Title,
			&t.Mentions,
			&t.Sentiment,
			&t.Trend,
			&t.Participants,
			&t.Timestamp,
			&t.Tags,
			&description,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning topic: %w", err)
		}

		if description != nil {
			t.Description = *description
		}

		topics = append(topics, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating topics: %w", err)
	}

	return topics, nil
}

func (s *SnapshotStore) loadUsers(ctx context.Context) ([]community.User, error) {
	query := `
		SELECT
			id, username, address, avatar, joined_at, reputation,
			contributions, topics, top_topics, sentiment
		FROM users
		ORDER BY position ASC, id ASC
	`

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error querying users: %w", err)
	}
	defer rows.Close()

	var users []community.User
	for rows.Next() {
		var u community.User

		err := rows.Scan(
			&u.ID,
			&u.Username,
			&u.Address,
			&u.Avatar,
			&u.JoinedAt,
			&u.Reputation,
			&u.Contributions,
			&u.Topics,
			&u.TopTopics,
			&u.Sentiment,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning user: %w", err)
		}

		users = append(users, u)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}

	return users, nil
}

func (s *SnapshotStore) loadConversations(ctx context.Context) (map[string][]community.Conversation, error) {
	query := `
		SELECT
			user_id, id, topic_id, topic_title, content,
			posted_at, reactions, replies
		FROM conversations
		ORDER BY user_id ASC, position ASC
	`

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error querying conversations: %w", err)
	}
	defer rows.Close()

	conversations := make(map[string][]community.Conversation)
	for rows.Next() {
		var c community.Conversation
		var userID string
		var postedAt time.Time

		err := rows.Scan(
			&userID,
			&c.ID,
			&c.TopicID,
			&c.TopicTitle,
			&c.Content,
			&postedAt,
			&c.Reactions,
			&c.Replies,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning conversation: %w", err)
		}

		c.Timestamp = postedAt
		conversations[userID] = append(conversations[userID], c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating conversations: %w", err)
	}

	return conversations, nil
}

func (s *SnapshotStore) loadParticipants(ctx context.Context) (map[string][]string, error) {
	query := `
		SELECT topic_id, user_id
		FROM topic_participants
		ORDER BY topic_id ASC, position ASC
	`

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error querying topic participants: %w", err)
	}
	defer rows.Close()

	participants := make(map[string][]string)
	for rows.Next() {
		var topicID, userID string
		if err := rows.Scan(&topicID, &userID); err != nil {
			return nil, fmt.Errorf("error scanning topic participant: %w", err)
		}
		participants[topicID] = append(participants[topicID], userID)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating topic participants: %w", err)
	}

	return participants, nil
}
