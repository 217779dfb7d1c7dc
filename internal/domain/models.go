package domain

import "time"

// Roles assignable to a user.
const (
	RoleStudent = "student"
	RoleMentor  = "mentor"
	RoleAdmin   = "admin"
)

// GeneralChatGroupID is the distinguished default group every verified user
// joins automatically. It is provisioned at startup before the server accepts
// traffic.
const GeneralChatGroupID int64 = 1

// User represents an application user.
type User struct {
	ID             int64     `db:"id" json:"id"`
	Username       string    `db:"username" json:"username"`
	Email          string    `db:"email" json:"email"`
	HashedPassword string    `db:"hashed_password" json:"-"`
	Role           string    `db:"role" json:"role"`
	Verified       bool      `db:"verified" json:"verified"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

// MentorProfile holds the extra details a mentor supplies at signup.
type MentorProfile struct {
	UserID     int64  `db:"user_id" json:"user_id"`
	Expertise  string `db:"expertise" json:"expertise"`
	Experience string `db:"experience" json:"experience"`
}

// PrivateMessage is a direct message between two users. RoomID is derived from
// the participant pair, never chosen independently. SenderName and SenderRole
// are filled in by the store when the row is read back joined with the sender.
type PrivateMessage struct {
	ID         int64     `db:"id" json:"id"`
	SenderID   int64     `db:"sender_id" json:"sender_id"`
	ReceiverID int64     `db:"receiver_id" json:"receiver_id"`
	Body       string    `db:"body" json:"message"`
	RoomID     string    `db:"room_id" json:"room_id"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	SenderName string    `db:"sender_name" json:"sender_name,omitempty"`
	SenderRole string    `db:"sender_role" json:"sender_role,omitempty"`
}

// GroupMessage is a message posted to a group chat.
type GroupMessage struct {
	ID         int64     `db:"id" json:"id"`
	GroupID    int64     `db:"group_id" json:"group_id"`
	SenderID   int64     `db:"sender_id" json:"sender_id"`
	Body       string    `db:"body" json:"message"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	SenderName string    `db:"sender_name" json:"sender_name,omitempty"`
	SenderRole string    `db:"sender_role" json:"sender_role,omitempty"`
}

// Group represents a group chat. CreatorName and MemberCount are read-model
// fields populated by list queries.
type Group struct {
	ID          int64     `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	CreatedBy   int64     `db:"created_by" json:"created_by"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	CreatorName string    `db:"creator_name" json:"creator_name,omitempty"`
	MemberCount int       `db:"member_count" json:"member_count"`
}

// GroupMember is a user's membership in a group.
type GroupMember struct {
	UserID   int64     `db:"id" json:"id"`
	Username string    `db:"username" json:"username"`
	Email    string    `db:"email" json:"email"`
	Role     string    `db:"role" json:"role"`
	JoinedAt time.Time `db:"joined_at" json:"joined_at"`
}

// Stats are the aggregate counters exposed on the admin surface.
type Stats struct {
	TotalUsers      int `json:"totalUsers"`
	TotalMentors    int `json:"totalMentors"`
	PrivateMessages int `json:"privateMessages"`
	GroupMessages   int `json:"groupMessages"`
}
