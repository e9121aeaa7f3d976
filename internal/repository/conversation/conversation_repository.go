package conversation

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/quetzal-chat/quetzal/internal/domain"
	"gorm.io/gorm"
)

var ErrConversationNotFound = errors.New("conversation not found")

type gormConversationRepository struct {
	db *gorm.DB
}

func NewConversationRepository(db *gorm.DB) ConversationRepository {
	return &gormConversationRepository{db: db}
}

func (r *gormConversationRepository) Create(ctx context.Context, conv *domain.Conversation) (*domain.Conversation, error) {
	if err := r.validateInput(conv); err != nil {
		log.Printf("[ConversationRepository] Validation failed: %v", err)
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if err := r.db.WithContext(ctx).Create(conv).Error; err != nil {
		log.Printf("[ConversationRepository] Database error during creation for user ID %d: %v", conv.UserID, err)
		return nil, errors.New("database error creating conversation")
	}

	log.Printf("[ConversationRepository] Conversation created with ID: %d for user: %d", conv.ID, conv.UserID)
	return conv, nil
}

func (r *gormConversationRepository) FindByID(ctx context.Context, id uint) (*domain.Conversation, error) {
	if id == 0 {
		return nil, errors.New("invalid conversation ID")
	}

	var conv domain.Conversation
	err := r.db.WithContext(ctx).First(&conv, id).Error
	if err == nil {
		return &conv, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrConversationNotFound
	}
	log.Printf("[ConversationRepository] FindByID database error: %v", err)
	return nil, errors.New("database query failed")
}

func (r *gormConversationRepository) FindByUserID(ctx context.Context, userID uint) ([]domain.Conversation, error) {
	if userID == 0 {
		return nil, errors.New("invalid user ID")
	}

	var convs []domain.Conversation
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&convs).Error
	if err != nil {
		log.Printf("[ConversationRepository] Database error finding conversations for user ID %d: %v", userID, err)
		return nil, errors.New("database error fetching conversations")
	}

	return convs, nil
}

// DeleteCascade deletes messages before the conversation inside a single
// transaction, so a failure partway through cannot leave an orphaned empty
// conversation behind.
func (r *gormConversationRepository) DeleteCascade(ctx context.Context, id uint) error {
	if id == 0 {
		return errors.New("invalid conversation ID")
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("conversation_id = ?", id).Delete(&domain.Message{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&domain.Conversation{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrConversationNotFound
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrConversationNotFound) {
			return ErrConversationNotFound
		}
		log.Printf("[ConversationRepository] Database error in cascade delete for conversation ID %d: %v", id, err)
		return errors.New("database error deleting conversation")
	}

	log.Printf("[ConversationRepository] Conversation deleted with its messages: ID %d", id)
	return nil
}

func (r *gormConversationRepository) ExistsByID(ctx context.Context, id uint) (bool, error) {
	if id == 0 {
		return false, errors.New("invalid conversation ID")
	}

	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Conversation{}).Where("id = ?", id).Count(&count).Error
	if err != nil {
		log.Printf("[ConversationRepository] Database error checking existence for ID %d: %v", id, err)
		return false, errors.New("database error checking conversation existence")
	}

	return count > 0, nil
}

func (r *gormConversationRepository) validateInput(conv *domain.Conversation) error {
	if conv == nil {
		return errors.New("conversation cannot be nil")
	}
	if conv.UserID == 0 {
		return errors.New("user ID is required")
	}
	if conv.Title == "" {
		return errors.New("title is required")
	}
	return nil
}
