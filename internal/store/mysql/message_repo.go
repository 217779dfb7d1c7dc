package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"techweave_backend/internal/domain"
)

type MessageRepo struct {
	db *sql.DB
}

func NewMessageRepo(db *sql.DB) *MessageRepo {
	return &MessageRepo{db: db}
}

var _ domain.MessageRepository = (*MessageRepo)(nil)

func (r *MessageRepo) Create(ctx context.Context, m *domain.PrivateMessage) error {
	query := `
		INSERT INTO messages (sender_id, receiver_id, body, room_id, created_at)
		VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)
	`
	res, err := r.db.ExecContext(ctx, query, m.SenderID, m.ReceiverID, m.Body, m.RoomID)
	if err != nil {
		return fmt.Errorf("insert private message: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("last insert id: %w", err)
	}
	m.ID = id
	return nil
}

// GetEnriched re-reads a message by id joined with the sender's identity, so
// the caller gets exactly what was stored including server-assigned defaults.
func (r *MessageRepo) GetEnriched(ctx context.Context, id int64) (*domain.PrivateMessage, error) {
	query := `
		SELECT m.id, m.sender_id, m.receiver_id, m.body, m.room_id, m.created_at,
		       u.username AS sender_name, u.role AS sender_role
		FROM messages m
		JOIN users u ON m.sender_id = u.id
		WHERE m.id = ?
	`
	m := &domain.PrivateMessage{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&m.ID,
		&m.SenderID,
		&m.ReceiverID,
		&m.Body,
		&m.RoomID,
		&m.CreatedAt,
		&m.SenderName,
		&m.SenderRole,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get enriched message: %w", err)
	}
	return m, nil
}

// ListForUser returns every private message where the user is sender or
// receiver, across all of their conversations, ascending by creation time.
func (r *MessageRepo) ListForUser(ctx context.Context, userID int64) ([]*domain.PrivateMessage, error) {
	query := `
		SELECT m.id, m.sender_id, m.receiver_id, m.body, m.room_id, m.created_at,
		       u.username AS sender_name, u.role AS sender_role
		FROM messages m
		JOIN users u ON m.sender_id = u.id
		WHERE m.sender_id = ? OR m.receiver_id = ?
		ORDER BY m.created_at ASC, m.id ASC
	`
	rows, err := r.db.QueryContext(ctx, query, userID, userID)
	if err != nil {
		return nil, fmt.Errorf("list private messages: %w", err)
	}
	defer rows.Close()

	var res []*domain.PrivateMessage
	for rows.Next() {
		m := &domain.PrivateMessage{}
		if err := rows.Scan(
			&m.ID,
			&m.SenderID,
			&m.ReceiverID,
			&m.Body,
			&m.RoomID,
			&m.CreatedAt,
			&m.SenderName,
			&m.SenderRole,
		); err != nil {
			return nil, fmt.Errorf("scan private message: %w", err)
		}
		res = append(res, m)
	}
	return res, rows.Err()
}

func (r *MessageRepo) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM messages`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count private messages: %w", err)
	}
	return count, nil
}
