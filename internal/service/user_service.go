package service

import (
	"context"
	"strings"

	"github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/api/request"
	"github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/model"
	"github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/repository"
)

// UserService handles user registration and lookup.
type UserService struct {
	userRepo *repository.UserRepository
}

// NewUserService creates a new UserService.
func NewUserService(userRepo *repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// CreateUser registers a user. Returns ErrDuplicateEntry if username or email is taken.
func (s *UserService) CreateUser(ctx context.Context, req request.CreateUserRequest) (model.User, error) {
	u := model.User{
		Username: strings.TrimSpace(req.Username),
		Email:    strings.ToLower(strings.TrimSpace(req.Email)),
	}
	if err := s.userRepo.InsertUser(ctx, &u); err != nil {
		return model.User{}, err
	}
	return u, nil
}

// GetUsers lists all users.
func (s *UserService) GetUsers(ctx context.Context) ([]model.User, error) {
	return s.userRepo.GetUsers(ctx)
}

// GetUser retrieves a user by ID.
func (s *UserService) GetUser(ctx context.Context, id string) (model.User, error) {
	return s.userRepo.GetUser(ctx, id)
}
