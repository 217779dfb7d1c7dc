package ws

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"

	"github.com/gorilla/websocket"

	"techweave_backend/internal/domain"
	"techweave_backend/internal/service"
)

func normalizeAllowedOrigins(origins []string) map[string]struct{} {
	res := make(map[string]struct{}, len(origins))
	for _, origin := range origins {
		o := strings.TrimSpace(strings.ToLower(origin))
		if o != "" {
			res[o] = struct{}{}
		}
	}
	return res
}

func makeCheckOrigin(allowedOrigins []string) func(r *http.Request) bool {
	allowed := normalizeAllowedOrigins(allowedOrigins)
	if len(allowed) == 0 {
		return func(r *http.Request) bool {
			return false
		}
	}

	return func(r *http.Request) bool {
		origin := strings.TrimSpace(strings.ToLower(r.Header.Get("Origin")))
		if origin == "" {
			return false
		}
		if _, ok := allowed[origin]; ok {
			return true
		}

		u, err := url.Parse(origin)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return false
		}
		normalized := strings.ToLower(fmt.Sprintf("%s://%s", u.Scheme, u.Host))
		_, ok := allowed[normalized]
		return ok
	}
}

// session holds the per-connection state. A connection starts anonymous,
// becomes identified when the client sends user_connected, and accumulates
// room memberships from join events. Events on one connection are handled
// serially by its read loop; shared state lives in the hub.
type session struct {
	hub      *Hub
	messages *service.MessageService
	client   *Client
	userID   int64
}

// handle dispatches one client event. Every failure is contained here: bad
// payloads and persistence errors turn into a message_error frame on this
// connection only, and nothing is broadcast for a message that was not first
// stored.
func (s *session) handle(ctx context.Context, event string, data json.RawMessage) {
	switch event {

	case EventUserConnected:
		var userID int64
		if err := json.Unmarshal(data, &userID); err != nil || userID == 0 {
			log.Printf("ws: invalid user_connected payload from %s", s.client.ID)
			return
		}
		s.userID = userID
		s.hub.Register(userID, s.client)
		log.Printf("ws: user %d connected on %s", userID, s.client.ID)

	case EventJoinRoom:
		var p joinRoomPayload
		if err := unmarshalPayload(data, &p); err != nil {
			log.Printf("ws: %v", err)
			return
		}
		s.hub.Join(s.client, p.RoomID)
		log.Printf("ws: user %d joined room %s", p.UserID, p.RoomID)

	case EventJoinGroup:
		var p joinGroupPayload
		if err := unmarshalPayload(data, &p); err != nil {
			log.Printf("ws: %v", err)
			return
		}
		s.hub.Join(s.client, domain.GroupRoomID(p.GroupID))
		log.Printf("ws: user %d joined group %d", p.UserID, p.GroupID)

	case EventSendMessage:
		var p sendMessagePayload
		if err := unmarshalPayload(data, &p); err != nil {
			s.sendError(err.Error())
			return
		}
		msg, err := s.messages.SendPrivate(ctx, p.SenderID, p.ReceiverID, p.Message)
		if err != nil {
			log.Printf("ws: send private message: %v", err)
			s.sendError("Failed to send message")
			return
		}
		// The room id broadcast to is the derived one, which equals the
		// client-supplied roomId for well-behaved clients.
		s.hub.BroadcastToRoom(msg.RoomID, Frame{Event: EventReceiveMessage, Data: msg})

	case EventSendGroupMessage:
		var p sendGroupMessagePayload
		if err := unmarshalPayload(data, &p); err != nil {
			s.sendError(err.Error())
			return
		}
		msg, err := s.messages.SendGroup(ctx, p.GroupID, p.SenderID, p.Message)
		if err != nil {
			log.Printf("ws: send group message: %v", err)
			s.sendError("Failed to send group message")
			return
		}
		s.hub.BroadcastToRoom(domain.GroupRoomID(msg.GroupID), Frame{Event: EventReceiveGroupMessage, Data: msg})

	case EventTyping:
		var p typingPayload
		if err := unmarshalPayload(data, &p); err != nil {
			return
		}
		s.hub.BroadcastToRoomExcept(p.RoomID, s.client, Frame{
			Event: EventUserTyping,
			Data:  typingBroadcast{UserID: p.UserID, UserName: p.UserName},
		})

	case EventStopTyping:
		var p typingPayload
		if err := unmarshalPayload(data, &p); err != nil {
			return
		}
		s.hub.BroadcastToRoomExcept(p.RoomID, s.client, Frame{Event: EventUserStopTyping})

	case EventGroupTyping:
		var p groupTypingPayload
		if err := unmarshalPayload(data, &p); err != nil {
			return
		}
		s.hub.BroadcastToRoomExcept(domain.GroupRoomID(p.GroupID), s.client, Frame{
			Event: EventGroupUserTyping,
			Data:  typingBroadcast{UserID: p.UserID, UserName: p.UserName},
		})

	case EventGroupStopTyping:
		var p groupTypingPayload
		if err := unmarshalPayload(data, &p); err != nil {
			return
		}
		s.hub.BroadcastToRoomExcept(domain.GroupRoomID(p.GroupID), s.client, Frame{Event: EventGroupUserStopTyping})

	default:
		log.Printf("ws: unknown event %q from %s", event, s.client.ID)
	}
}

func (s *session) sendError(msg string) {
	_ = s.client.send(Frame{Event: EventMessageError, Data: errorPayload{Error: msg}})
}

type validator interface {
	validate() error
}

func unmarshalPayload(data json.RawMessage, p validator) error {
	if err := json.Unmarshal(data, p); err != nil {
		return fmt.Errorf("malformed payload: %w", err)
	}
	return p.validate()
}

// MakeHandler returns the HTTP handler for the /ws endpoint. It upgrades the
// connection and runs the per-connection event loop:
//   - user_connected                        -> presence register + user_online
//   - join_room / join_group                -> room membership
//   - send_message / send_group_message     -> persist, then broadcast to room
//   - typing / stop_typing (+ group forms)  -> ephemeral room broadcast, sender excluded
//
// On disconnect the hub drops the connection's rooms and presence entry and
// announces user_offline.
func MakeHandler(hub *Hub, msgSvc *service.MessageService, allowedOrigins []string) http.HandlerFunc {
	checkOrigin := makeCheckOrigin(allowedOrigins)
	upgrader := websocket.Upgrader{
		CheckOrigin: checkOrigin,
	}

	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}

		client := newClient(conn)
		hub.Add(client)
		log.Printf("ws: client %s connected", client.ID)

		sess := &session{
			hub:      hub,
			messages: msgSvc,
			client:   client,
		}
		defer func() {
			hub.Remove(client)
			conn.Close()
			if sess.userID != 0 {
				log.Printf("ws: user %d disconnected", sess.userID)
			} else {
				log.Printf("ws: client %s disconnected", client.ID)
			}
		}()

		for {
			var frame inboundFrame
			if err := conn.ReadJSON(&frame); err != nil {
				break
			}
			sess.handle(r.Context(), frame.Event, frame.Data)
		}
	}
}
