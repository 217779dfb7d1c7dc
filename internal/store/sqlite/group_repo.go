package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"techweave_backend/internal/domain"
)

type GroupRepo struct {
	db *sql.DB
}

func NewGroupRepo(db *sql.DB) *GroupRepo {
	return &GroupRepo{db: db}
}

var _ domain.GroupRepository = (*GroupRepo)(nil)

// EnsureGeneralChat provisions the default all-members group. Called at
// startup before the server accepts traffic.
func (r *GroupRepo) EnsureGeneralChat(ctx context.Context) error {
	query := `INSERT OR IGNORE INTO group_chats (id, name, created_by) VALUES (?, 'General Chat', 0)`
	if _, err := r.db.ExecContext(ctx, query, domain.GeneralChatGroupID); err != nil {
		return fmt.Errorf("ensure general chat: %w", err)
	}
	return nil
}

func (r *GroupRepo) GetByID(ctx context.Context, id int64) (*domain.Group, error) {
	query := `SELECT id, name, created_by, created_at FROM group_chats WHERE id = ?`
	g := &domain.Group{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&g.ID, &g.Name, &g.CreatedBy, &g.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get group: %w", err)
	}
	return g, nil
}

func (r *GroupRepo) List(ctx context.Context) ([]*domain.Group, error) {
	query := `
		SELECT gc.id, gc.name, gc.created_by, gc.created_at,
		       COALESCE(u.username, '') AS creator_name,
		       (SELECT COUNT(*) FROM group_chat_users WHERE group_id = gc.id) AS member_count
		FROM group_chats gc
		LEFT JOIN users u ON gc.created_by = u.id
		ORDER BY gc.created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}
	defer rows.Close()

	var res []*domain.Group
	for rows.Next() {
		g := &domain.Group{}
		if err := rows.Scan(&g.ID, &g.Name, &g.CreatedBy, &g.CreatedAt, &g.CreatorName, &g.MemberCount); err != nil {
			return nil, fmt.Errorf("scan group: %w", err)
		}
		res = append(res, g)
	}
	return res, rows.Err()
}

func (r *GroupRepo) AddMember(ctx context.Context, groupID, userID int64) error {
	query := `INSERT OR IGNORE INTO group_chat_users (group_id, user_id, joined_at) VALUES (?, ?, CURRENT_TIMESTAMP)`
	if _, err := r.db.ExecContext(ctx, query, groupID, userID); err != nil {
		return fmt.Errorf("add group member: %w", err)
	}
	return nil
}

func (r *GroupRepo) ListMembers(ctx context.Context, groupID int64) ([]*domain.GroupMember, error) {
	query := `
		SELECT u.id, u.username, u.email, u.role, gcu.joined_at
		FROM group_chat_users gcu
		JOIN users u ON gcu.user_id = u.id
		WHERE gcu.group_id = ?
		ORDER BY u.role DESC, u.username ASC
	`
	rows, err := r.db.QueryContext(ctx, query, groupID)
	if err != nil {
		return nil, fmt.Errorf("list group members: %w", err)
	}
	defer rows.Close()

	var res []*domain.GroupMember
	for rows.Next() {
		m := &domain.GroupMember{}
		if err := rows.Scan(&m.UserID, &m.Username, &m.Email, &m.Role, &m.JoinedAt); err != nil {
			return nil, fmt.Errorf("scan group member: %w", err)
		}
		res = append(res, m)
	}
	return res, rows.Err()
}

func (r *GroupRepo) CreateMessage(ctx context.Context, m *domain.GroupMessage) error {
	query := `
		INSERT INTO group_messages (group_id, sender_id, body, created_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP)
	`
	res, err := r.db.ExecContext(ctx, query, m.GroupID, m.SenderID, m.Body)
	if err != nil {
		return fmt.Errorf("insert group message: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("last insert id: %w", err)
	}
	m.ID = id
	return nil
}

func (r *GroupRepo) GetEnrichedMessage(ctx context.Context, id int64) (*domain.GroupMessage, error) {
	query := `
		SELECT gm.id, gm.group_id, gm.sender_id, gm.body, gm.created_at,
		       u.username AS sender_name, u.role AS sender_role
		FROM group_messages gm
		JOIN users u ON gm.sender_id = u.id
		WHERE gm.id = ?
	`
	m := &domain.GroupMessage{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&m.ID,
		&m.GroupID,
		&m.SenderID,
		&m.Body,
		&m.CreatedAt,
		&m.SenderName,
		&m.SenderRole,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get enriched group message: %w", err)
	}
	return m, nil
}

func (r *GroupRepo) ListMessages(ctx context.Context, groupID int64) ([]*domain.GroupMessage, error) {
	query := `
		SELECT gm.id, gm.group_id, gm.sender_id, gm.body, gm.created_at,
		       u.username AS sender_name, u.role AS sender_role
		FROM group_messages gm
		JOIN users u ON gm.sender_id = u.id
		WHERE gm.group_id = ?
		ORDER BY gm.created_at ASC, gm.id ASC
	`
	rows, err := r.db.QueryContext(ctx, query, groupID)
	if err != nil {
		return nil, fmt.Errorf("list group messages: %w", err)
	}
	defer rows.Close()

	var res []*domain.GroupMessage
	for rows.Next() {
		m := &domain.GroupMessage{}
		if err := rows.Scan(
			&m.ID,
			&m.GroupID,
			&m.SenderID,
			&m.Body,
			&m.CreatedAt,
			&m.SenderName,
			&m.SenderRole,
		); err != nil {
			return nil, fmt.Errorf("scan group message: %w", err)
		}
		res = append(res, m)
	}
	return res, rows.Err()
}

func (r *GroupRepo) CountMessages(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM group_messages`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count group messages: %w", err)
	}
	return count, nil
}
