package service

import (
	"context"
	"fmt"

	"techweave_backend/internal/domain"
)

const maxMessageRunes = 5000

// MessageService persists private and group messages and serves chat history.
// Every persist is two sequential storage operations: an insert, then a
// re-read of the generated row joined with the sender's identity. The
// returned record therefore reflects exactly what was stored, including
// server-assigned id and timestamp.
type MessageService struct {
	messages domain.MessageRepository
	groups   domain.GroupRepository
}

func NewMessageService(messages domain.MessageRepository, groups domain.GroupRepository) *MessageService {
	return &MessageService{
		messages: messages,
		groups:   groups,
	}
}

// SendPrivate stores a direct message and returns the enriched record. The
// room id is derived from the participant pair, never taken from the caller.
func (s *MessageService) SendPrivate(ctx context.Context, senderID, receiverID int64, body string) (*domain.PrivateMessage, error) {
	if err := validateBody(body); err != nil {
		return nil, err
	}
	if senderID == 0 || receiverID == 0 {
		return nil, fmt.Errorf("%w: sender and receiver are required", domain.ErrInvalidInput)
	}

	msg := &domain.PrivateMessage{
		SenderID:   senderID,
		ReceiverID: receiverID,
		Body:       body,
		RoomID:     domain.PrivateRoomID(senderID, receiverID),
	}
	if err := s.messages.Create(ctx, msg); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrPersistence, err)
	}

	enriched, err := s.messages.GetEnriched(ctx, msg.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrPersistence, err)
	}
	return enriched, nil
}

// SendGroup stores a group message and returns the enriched record.
func (s *MessageService) SendGroup(ctx context.Context, groupID, senderID int64, body string) (*domain.GroupMessage, error) {
	if err := validateBody(body); err != nil {
		return nil, err
	}
	if groupID == 0 || senderID == 0 {
		return nil, fmt.Errorf("%w: group and sender are required", domain.ErrInvalidInput)
	}

	msg := &domain.GroupMessage{
		GroupID:  groupID,
		SenderID: senderID,
		Body:     body,
	}
	if err := s.groups.CreateMessage(ctx, msg); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrPersistence, err)
	}

	enriched, err := s.groups.GetEnrichedMessage(ctx, msg.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrPersistence, err)
	}
	return enriched, nil
}

// PrivateHistory returns every private message the user sent or received,
// across all counterparts, ascending by creation time. Grouping a single
// conversation out of the result is the client's job.
func (s *MessageService) PrivateHistory(ctx context.Context, userID int64) ([]*domain.PrivateMessage, error) {
	msgs, err := s.messages.ListForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("private history: %w", err)
	}
	return msgs, nil
}

// GroupHistory returns a group's messages ascending by creation time.
func (s *MessageService) GroupHistory(ctx context.Context, groupID int64) ([]*domain.GroupMessage, error) {
	msgs, err := s.groups.ListMessages(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("group history: %w", err)
	}
	return msgs, nil
}

func validateBody(body string) error {
	if body == "" {
		return fmt.Errorf("%w: message body cannot be empty", domain.ErrInvalidInput)
	}
	if len([]rune(body)) > maxMessageRunes {
		return fmt.Errorf("%w: message body exceeds %d characters", domain.ErrInvalidInput, maxMessageRunes)
	}
	return nil
}
