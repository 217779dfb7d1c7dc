package domain

import (
	"context"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	ListVerified(ctx context.Context) ([]*User, error)
	ListMentors(ctx context.Context) ([]*User, error)
	UpdatePassword(ctx context.Context, email, hashedPassword string) error
	UpdateRole(ctx context.Context, id int64, role string) error
	CreateMentorProfile(ctx context.Context, p *MentorProfile) error
	Count(ctx context.Context) (int, error)
	CountByRole(ctx context.Context, role string) (int, error)
}

// MessageRepository defines persistence operations for private messages.
type MessageRepository interface {
	Create(ctx context.Context, m *PrivateMessage) error
	GetEnriched(ctx context.Context, id int64) (*PrivateMessage, error)
	ListForUser(ctx context.Context, userID int64) ([]*PrivateMessage, error)
	Count(ctx context.Context) (int, error)
}

// GroupRepository defines persistence operations for groups, their
// memberships, and group messages.
type GroupRepository interface {
	EnsureGeneralChat(ctx context.Context) error
	GetByID(ctx context.Context, id int64) (*Group, error)
	List(ctx context.Context) ([]*Group, error)
	AddMember(ctx context.Context, groupID, userID int64) error
	ListMembers(ctx context.Context, groupID int64) ([]*GroupMember, error)
	CreateMessage(ctx context.Context, m *GroupMessage) error
	GetEnrichedMessage(ctx context.Context, id int64) (*GroupMessage, error)
	ListMessages(ctx context.Context, groupID int64) ([]*GroupMessage, error)
	CountMessages(ctx context.Context) (int, error)
}
