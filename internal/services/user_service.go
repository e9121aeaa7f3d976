package services

import (
	"context"
	"errors"
	"strings"

	"github.com/quetzal-chat/quetzal/internal/domain"
	"github.com/quetzal-chat/quetzal/internal/repository/user"
)

// UserService handles registration and login. Identity is the (name, email)
// pair; there are no passwords or tokens in this design.
type UserService struct {
	userRepo user.UserRepository
	logger   Logger
}

func NewUserService(userRepo user.UserRepository, logger Logger) *UserService {
	return &UserService{userRepo: userRepo, logger: logger}
}

func (s *UserService) Register(ctx context.Context, name, email string) (*domain.User, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)

	candidate := &domain.User{Name: name, Email: email}
	if err := candidate.IsValid(); err != nil {
		return nil, NewValidationError("register", err.Error())
	}

	existing, err := s.userRepo.FindByNameAndEmail(ctx, name, email)
	if err != nil && !errors.Is(err, user.ErrUserNotFound) {
		return nil, NewStorageError("register", "could not check existing user", err)
	}
	if existing != nil {
		return nil, NewConflictError("register", "user already registered")
	}

	created, err := s.userRepo.Create(ctx, candidate)
	if err != nil {
		return nil, NewStorageError("register", "could not create user", err)
	}

	s.logger.Info("user registered", "user_id", created.ID)
	return created, nil
}

func (s *UserService) Login(ctx context.Context, name, email string) (*domain.User, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" || email == "" {
		return nil, NewValidationError("login", "name and email are required")
	}

	found, err := s.userRepo.FindByNameAndEmail(ctx, name, email)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, NewNotFoundError("login", "user not found")
		}
		return nil, NewStorageError("login", "could not look up user", err)
	}
	return found, nil
}
