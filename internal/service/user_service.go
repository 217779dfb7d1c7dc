package service

import (
	"context"

	"techweave_backend/internal/domain"
)

// UserService exposes read operations over users.
type UserService struct {
	users domain.UserRepository
}

func NewUserService(users domain.UserRepository) *UserService {
	return &UserService{users: users}
}

func (s *UserService) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return s.users.GetByID(ctx, id)
}

// ListVerified returns all verified users, mentors before students.
func (s *UserService) ListVerified(ctx context.Context) ([]*domain.User, error) {
	return s.users.ListVerified(ctx)
}

func (s *UserService) ListMentors(ctx context.Context) ([]*domain.User, error) {
	return s.users.ListMentors(ctx)
}
