// internal/domain/community/store.go

package community

import "errors"

// ErrNotFound is returned at service boundaries when a looked up entity is absent.
// Store lookups themselves never return it.
var ErrNotFound = errors.New("not found")

// Store defines read access to community entities.
//
// Lookups for unknown ids report absence through the boolean result or an
// empty slice; "not found" is a valid outcome, not an error.
type Store interface {
	// Topics returns every topic in fixture order
	Topics() []Topic

	// Users returns every user in fixture order
	Users() []User

	// Participants returns the topic id to user ids relation
	Participants() map[string][]string

	// TopicsByTimeFrame returns topics whose timestamp falls strictly after now minus the window
	TopicsByTimeFrame(tf TimeFrame) []Topic

	// Topic returns a topic by ID
	Topic(id string) (Topic, bool)

	// UserByID returns a user by ID
	UserByID(id string) (User, bool)

	// ConversationsByUserID returns the conversations authored by a user
	ConversationsByUserID(userID string) []Conversation

	// UsersDiscussingTopic returns the users participating in a topic
	UsersDiscussingTopic(topicID string) []User

	// TopicsByUserID returns the topics a user participates in
	TopicsByUserID(userID string) []Topic
}
