// Package store presents one conversation-store interface with two
// mutually exclusive backends: durable per-user storage for authenticated
// callers and ephemeral per-session memory for anonymous ones. The backend
// is chosen once per request from the caller's credential; the two never
// mix, and logging in does not migrate an anonymous conversation.
package store

import (
	"context"
	"errors"

	"mystic-backend/models"
)

// ErrNotFound reports a conversation that does not exist or is not owned
// by the caller.
var ErrNotFound = errors.New("conversation not found")

// DefaultTitle is the title given to newly created conversations.
const DefaultTitle = "New Conversation"

// Store maps a logical conversation to its ordered message list.
type Store interface {
	ListConversations(ctx context.Context, owner, serviceSlug string) ([]models.Conversation, error)
	CreateConversation(ctx context.Context, owner, serviceSlug string) (*models.Conversation, error)
	LoadMessages(ctx context.Context, owner, conversationID string) ([]models.Message, error)
	AppendMessage(ctx context.Context, owner, conversationID, role, content string) (*models.Message, error)
}
