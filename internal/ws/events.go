package ws

import (
	"encoding/json"
	"fmt"
)

// Client-to-server event names.
const (
	EventUserConnected    = "user_connected"
	EventJoinRoom         = "join_room"
	EventJoinGroup        = "join_group"
	EventSendMessage      = "send_message"
	EventSendGroupMessage = "send_group_message"
	EventTyping           = "typing"
	EventStopTyping       = "stop_typing"
	EventGroupTyping      = "group_typing"
	EventGroupStopTyping  = "group_stop_typing"
)

// Server-to-client event names.
const (
	EventReceiveMessage      = "receive_message"
	EventReceiveGroupMessage = "receive_group_message"
	EventUserOnline          = "user_online"
	EventUserOffline         = "user_offline"
	EventUserTyping          = "user_typing"
	EventUserStopTyping      = "user_stop_typing"
	EventGroupUserTyping     = "group_user_typing"
	EventGroupUserStopTyping = "group_user_stop_typing"
	EventMessageError        = "message_error"
)

// Frame is the JSON envelope for server-to-client events.
type Frame struct {
	Event string `json:"event"`
	Data  any    `json:"data,omitempty"`
}

// inboundFrame defers payload decoding until the event type is known, so each
// handler unmarshals into its own typed payload and validates it at the
// boundary.
type inboundFrame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

type joinRoomPayload struct {
	RoomID string `json:"roomId"`
	UserID int64  `json:"userId"`
}

func (p joinRoomPayload) validate() error {
	if p.RoomID == "" {
		return fmt.Errorf("join_room requires roomId")
	}
	return nil
}

type joinGroupPayload struct {
	GroupID int64 `json:"groupId"`
	UserID  int64 `json:"userId"`
}

func (p joinGroupPayload) validate() error {
	if p.GroupID == 0 {
		return fmt.Errorf("join_group requires groupId")
	}
	return nil
}

type sendMessagePayload struct {
	SenderID   int64  `json:"senderId"`
	ReceiverID int64  `json:"receiverId"`
	Message    string `json:"message"`
	RoomID     string `json:"roomId"`
	SenderName string `json:"senderName"`
}

func (p sendMessagePayload) validate() error {
	if p.SenderID == 0 || p.ReceiverID == 0 {
		return fmt.Errorf("send_message requires senderId and receiverId")
	}
	if p.Message == "" {
		return fmt.Errorf("send_message requires a non-empty message")
	}
	return nil
}

type sendGroupMessagePayload struct {
	GroupID    int64  `json:"groupId"`
	SenderID   int64  `json:"senderId"`
	Message    string `json:"message"`
	SenderName string `json:"senderName"`
}

func (p sendGroupMessagePayload) validate() error {
	if p.GroupID == 0 || p.SenderID == 0 {
		return fmt.Errorf("send_group_message requires groupId and senderId")
	}
	if p.Message == "" {
		return fmt.Errorf("send_group_message requires a non-empty message")
	}
	return nil
}

type typingPayload struct {
	UserID   int64  `json:"userId"`
	UserName string `json:"userName"`
	RoomID   string `json:"roomId"`
}

func (p typingPayload) validate() error {
	if p.RoomID == "" {
		return fmt.Errorf("typing events require roomId")
	}
	return nil
}

type groupTypingPayload struct {
	UserID   int64  `json:"userId"`
	UserName string `json:"userName"`
	GroupID  int64  `json:"groupId"`
}

func (p groupTypingPayload) validate() error {
	if p.GroupID == 0 {
		return fmt.Errorf("group typing events require groupId")
	}
	return nil
}

// typingBroadcast is the payload fanned out to a room when someone types.
type typingBroadcast struct {
	UserID   int64  `json:"userId"`
	UserName string `json:"userName,omitempty"`
}

type errorPayload struct {
	Error string `json:"error"`
}
