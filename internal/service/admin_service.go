package service

import (
	"context"
	"fmt"
	"log"

	"techweave_backend/internal/domain"
)

// AdminService carries the admin utilities: role promotion and aggregate
// platform statistics.
type AdminService struct {
	users    domain.UserRepository
	messages domain.MessageRepository
	groups   domain.GroupRepository
}

func NewAdminService(users domain.UserRepository, messages domain.MessageRepository, groups domain.GroupRepository) *AdminService {
	return &AdminService{
		users:    users,
		messages: messages,
		groups:   groups,
	}
}

func (s *AdminService) PromoteToMentor(ctx context.Context, userID int64) error {
	if err := s.users.UpdateRole(ctx, userID, domain.RoleMentor); err != nil {
		return fmt.Errorf("promote user %d: %w", userID, err)
	}
	log.Printf("admin: user %d promoted to mentor", userID)
	return nil
}

func (s *AdminService) Stats(ctx context.Context) (*domain.Stats, error) {
	totalUsers, err := s.users.Count(ctx)
	if err != nil {
		return nil, err
	}
	totalMentors, err := s.users.CountByRole(ctx, domain.RoleMentor)
	if err != nil {
		return nil, err
	}
	privateMessages, err := s.messages.Count(ctx)
	if err != nil {
		return nil, err
	}
	groupMessages, err := s.groups.CountMessages(ctx)
	if err != nil {
		return nil, err
	}
	return &domain.Stats{
		TotalUsers:      totalUsers,
		TotalMentors:    totalMentors,
		PrivateMessages: privateMessages,
		GroupMessages:   groupMessages,
	}, nil
}
