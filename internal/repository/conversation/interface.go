package conversation

import (
	"context"

	"github.com/quetzal-chat/quetzal/internal/domain"
)

// ConversationRepository handles conversation data operations.
type ConversationRepository interface {
	Create(ctx context.Context, conv *domain.Conversation) (*domain.Conversation, error)
	FindByID(ctx context.Context, id uint) (*domain.Conversation, error)
	// FindByUserID returns the user's conversations newest first. A user
	// with no conversations gets an empty slice, not an error.
	FindByUserID(ctx context.Context, userID uint) ([]domain.Conversation, error)
	// DeleteCascade removes the conversation and all its messages as one
	// transaction, so a partial failure never leaves an orphaned empty
	// conversation behind.
	DeleteCascade(ctx context.Context, id uint) error
	ExistsByID(ctx context.Context, id uint) (bool, error)
}
