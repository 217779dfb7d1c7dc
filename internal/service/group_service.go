package service

import (
	"context"
	"errors"
	"fmt"

	"techweave_backend/internal/domain"
)

// GroupService exposes group chats and their memberships.
type GroupService struct {
	groups domain.GroupRepository
}

func NewGroupService(groups domain.GroupRepository) *GroupService {
	return &GroupService{groups: groups}
}

// List returns all group chats with creator name and member count.
func (s *GroupService) List(ctx context.Context) ([]*domain.Group, error) {
	return s.groups.List(ctx)
}

// ListMembers returns a group's members, mentors before students.
func (s *GroupService) ListMembers(ctx context.Context, groupID int64) ([]*domain.GroupMember, error) {
	if _, err := s.groups.GetByID(ctx, groupID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: group not found", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get group: %w", err)
	}
	return s.groups.ListMembers(ctx, groupID)
}

// Join adds a user to a group. Adding an existing member is a no-op.
func (s *GroupService) Join(ctx context.Context, groupID, userID int64) error {
	return s.groups.AddMember(ctx, groupID, userID)
}
