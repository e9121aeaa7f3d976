package user

import (
	"context"

	"github.com/quetzal-chat/quetzal/internal/domain"
)

// UserRepository handles user data operations.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id uint) (*domain.User, error)
	FindByNameAndEmail(ctx context.Context, name, email string) (*domain.User, error)
}
