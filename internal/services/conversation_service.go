package services

import (
	"context"
	"errors"
	"strings"

	"github.com/quetzal-chat/quetzal/internal/domain"
	"github.com/quetzal-chat/quetzal/internal/repository/conversation"
	"github.com/quetzal-chat/quetzal/internal/repository/message"
	"github.com/quetzal-chat/quetzal/internal/repository/user"
)

// ConversationService owns the durable conversation state: creation, list,
// cascade delete, and message append/list with orphan protection.
type ConversationService struct {
	convRepo    conversation.ConversationRepository
	messageRepo message.MessageRepository
	userRepo    user.UserRepository
	logger      Logger
}

func NewConversationService(
	convRepo conversation.ConversationRepository,
	messageRepo message.MessageRepository,
	userRepo user.UserRepository,
	logger Logger,
) *ConversationService {
	return &ConversationService{
		convRepo:    convRepo,
		messageRepo: messageRepo,
		userRepo:    userRepo,
		logger:      logger,
	}
}

func (s *ConversationService) CreateConversation(ctx context.Context, userID uint, title string) (*domain.Conversation, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, NewValidationError("create_conversation", "title is required")
	}
	if userID == 0 {
		return nil, NewValidationError("create_conversation", "user ID is required")
	}

	if _, err := s.userRepo.FindByID(ctx, userID); err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, NewNotFoundError("create_conversation", "user does not exist")
		}
		return nil, NewStorageError("create_conversation", "could not verify user", err)
	}

	conv, err := s.convRepo.Create(ctx, &domain.Conversation{UserID: userID, Title: title})
	if err != nil {
		return nil, NewStorageError("create_conversation", "could not create conversation", err)
	}
	return conv, nil
}

func (s *ConversationService) ListConversations(ctx context.Context, userID uint) ([]domain.Conversation, error) {
	if userID == 0 {
		return nil, NewValidationError("list_conversations", "user ID is required")
	}

	convs, err := s.convRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, NewStorageError("list_conversations", "could not list conversations", err)
	}
	return convs, nil
}

func (s *ConversationService) DeleteConversation(ctx context.Context, id uint) error {
	if id == 0 {
		return NewValidationError("delete_conversation", "conversation ID is required")
	}

	err := s.convRepo.DeleteCascade(ctx, id)
	if err != nil {
		if errors.Is(err, conversation.ErrConversationNotFound) {
			return NewNotFoundError("delete_conversation", "conversation does not exist")
		}
		return NewStorageError("delete_conversation", "could not delete conversation", err)
	}
	return nil
}

// AppendMessage verifies the parent conversation exists before inserting,
// so a message can never reference a conversation that is not there.
func (s *ConversationService) AppendMessage(ctx context.Context, conversationID uint, role, text string) (*domain.Message, error) {
	if conversationID == 0 {
		return nil, NewValidationError("append_message", "conversation ID is required")
	}
	if !domain.IsValidRole(role) {
		return nil, NewValidationError("append_message", "role must be user or bot")
	}
	if strings.TrimSpace(text) == "" {
		return nil, NewValidationError("append_message", "text is required")
	}

	exists, err := s.convRepo.ExistsByID(ctx, conversationID)
	if err != nil {
		return nil, NewStorageError("append_message", "could not verify conversation", err)
	}
	if !exists {
		return nil, NewNotFoundError("append_message", "conversation does not exist")
	}

	msg, err := s.messageRepo.Create(ctx, &domain.Message{
		ConversationID: conversationID,
		Role:           role,
		Text:           text,
	})
	if err != nil {
		return nil, NewStorageError("append_message", "could not save message", err)
	}
	return msg, nil
}

// ListMessages reports not-found for unknown or deleted conversations
// instead of an empty list, so callers can tell the two apart.
func (s *ConversationService) ListMessages(ctx context.Context, conversationID uint) ([]domain.Message, error) {
	if conversationID == 0 {
		return nil, NewValidationError("list_messages", "conversation ID is required")
	}

	exists, err := s.convRepo.ExistsByID(ctx, conversationID)
	if err != nil {
		return nil, NewStorageError("list_messages", "could not verify conversation", err)
	}
	if !exists {
		return nil, NewNotFoundError("list_messages", "conversation does not exist")
	}

	messages, err := s.messageRepo.FindByConversationID(ctx, conversationID)
	if err != nil {
		return nil, NewStorageError("list_messages", "could not list messages", err)
	}
	return messages, nil
}
