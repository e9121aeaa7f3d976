package message

import (
	"context"

	"github.com/quetzal-chat/quetzal/internal/domain"
)

// MessageRepository handles message data operations. Existence of the
// parent conversation is enforced one level up, in the conversation
// service, so an insert can never orphan a message.
type MessageRepository interface {
	Create(ctx context.Context, msg *domain.Message) (*domain.Message, error)
	// FindByConversationID returns messages ordered by creation time
	// ascending, ties broken by insertion order.
	FindByConversationID(ctx context.Context, conversationID uint) ([]domain.Message, error)
	CountByConversationID(ctx context.Context, conversationID uint) (int64, error)
}
