package ws

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"techweave_backend/internal/domain"
	"techweave_backend/internal/service"
	"techweave_backend/internal/store/sqlite"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sqlite.Open(":memory:")
	require.NoError(t, err)
	// A single pooled connection keeps the in-memory database alive and the
	// foreign_keys pragma effective.
	db.SetMaxOpenConns(1)
	_, err = db.Exec(`PRAGMA foreign_keys = ON`)
	require.NoError(t, err)
	require.NoError(t, sqlite.Migrate(db))
	t.Cleanup(func() { db.Close() })
	return db
}

func mustCreateUser(t *testing.T, db *sql.DB, id int64, username, role string) {
	t.Helper()
	_, err := db.Exec(
		`INSERT INTO users (id, username, email, hashed_password, role, verified) VALUES (?, ?, ?, 'x', ?, 1)`,
		id, username, fmt.Sprintf("%s@test.local", username), role,
	)
	require.NoError(t, err)
}

func mustRaw(t *testing.T, v any) json.RawMessage {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return b
}

func newGatewayFixture(t *testing.T) (*Hub, *service.MessageService, *sql.DB) {
	t.Helper()
	db := newTestDB(t)
	groups := sqlite.NewGroupRepo(db)
	require.NoError(t, groups.EnsureGeneralChat(context.Background()))
	msgSvc := service.NewMessageService(sqlite.NewMessageRepo(db), groups)
	return NewHub(), msgSvc, db
}

func newSession(h *Hub, msgSvc *service.MessageService) (*session, *fakeConn) {
	fc := &fakeConn{}
	c := newClient(fc)
	h.Add(c)
	return &session{hub: h, messages: msgSvc, client: c}, fc
}

// User 5 sends "hi" to user 9: the message is stored under room 5_9 and both
// joined connections receive it.
func TestPrivateMessageDeliveredToBothParticipants(t *testing.T) {
	hub, msgSvc, db := newGatewayFixture(t)
	mustCreateUser(t, db, 5, "eve", domain.RoleStudent)
	mustCreateUser(t, db, 9, "mallory", domain.RoleMentor)

	sender, senderConn := newSession(hub, msgSvc)
	receiver, receiverConn := newSession(hub, msgSvc)

	ctx := context.Background()
	sender.handle(ctx, EventUserConnected, mustRaw(t, 5))
	receiver.handle(ctx, EventUserConnected, mustRaw(t, 9))
	sender.handle(ctx, EventJoinRoom, mustRaw(t, joinRoomPayload{RoomID: "5_9", UserID: 5}))
	receiver.handle(ctx, EventJoinRoom, mustRaw(t, joinRoomPayload{RoomID: "5_9", UserID: 9}))

	sender.handle(ctx, EventSendMessage, mustRaw(t, sendMessagePayload{
		SenderID: 5, ReceiverID: 9, Message: "hi", RoomID: "5_9", SenderName: "eve",
	}))

	require.Equal(t, 1, senderConn.count(EventReceiveMessage))
	require.Equal(t, 1, receiverConn.count(EventReceiveMessage))

	var got *domain.PrivateMessage
	for _, fr := range receiverConn.frames {
		if fr.Event == EventReceiveMessage {
			got = fr.Data.(*domain.PrivateMessage)
		}
	}
	require.NotNil(t, got)
	assert.Equal(t, "hi", got.Body)
	assert.Equal(t, "5_9", got.RoomID)
	assert.Equal(t, "eve", got.SenderName)
	assert.NotZero(t, got.ID)
}

// Persistence failure on a group message: the sender gets message_error and
// nothing is broadcast to the group.
func TestGroupPersistFailureIsScopedToSender(t *testing.T) {
	hub, msgSvc, db := newGatewayFixture(t)
	mustCreateUser(t, db, 1, "alice", domain.RoleStudent)
	mustCreateUser(t, db, 2, "bob", domain.RoleStudent)

	sender, senderConn := newSession(hub, msgSvc)
	member, memberConn := newSession(hub, msgSvc)

	ctx := context.Background()
	sender.handle(ctx, EventJoinGroup, mustRaw(t, joinGroupPayload{GroupID: 1, UserID: 1}))
	member.handle(ctx, EventJoinGroup, mustRaw(t, joinGroupPayload{GroupID: 1, UserID: 2}))

	// Simulated storage outage.
	_, err := db.Exec(`DROP TABLE group_messages`)
	require.NoError(t, err)

	sender.handle(ctx, EventSendGroupMessage, mustRaw(t, sendGroupMessagePayload{
		GroupID: 1, SenderID: 1, Message: "hello all", SenderName: "alice",
	}))

	require.Equal(t, 1, senderConn.count(EventMessageError))
	errFrame := senderConn.frames[len(senderConn.frames)-1]
	assert.NotEmpty(t, errFrame.Data.(errorPayload).Error)

	assert.Equal(t, 0, memberConn.count(EventReceiveGroupMessage))
	assert.Equal(t, 0, senderConn.count(EventReceiveGroupMessage))
}

// Connect, identify, disconnect without joining any room: online then offline
// broadcasts, no room events.
func TestPresenceOnlyLifecycle(t *testing.T) {
	hub, msgSvc, _ := newGatewayFixture(t)

	sess, _ := newSession(hub, msgSvc)
	_, observerConn := newSession(hub, msgSvc)

	sess.handle(context.Background(), EventUserConnected, mustRaw(t, 3))
	hub.Remove(sess.client)

	assert.Equal(t, []string{EventUserOnline, EventUserOffline}, observerConn.events())
}

// Two concurrent sends in the same room: each is broadcast exactly once,
// each after its own persist completed.
func TestConcurrentSendsDeliveredExactlyOnce(t *testing.T) {
	hub, msgSvc, db := newGatewayFixture(t)
	mustCreateUser(t, db, 1, "alice", domain.RoleStudent)
	mustCreateUser(t, db, 2, "bob", domain.RoleStudent)

	alice, aliceConn := newSession(hub, msgSvc)
	bob, bobConn := newSession(hub, msgSvc)

	ctx := context.Background()
	alice.handle(ctx, EventJoinRoom, mustRaw(t, joinRoomPayload{RoomID: "1_2", UserID: 1}))
	bob.handle(ctx, EventJoinRoom, mustRaw(t, joinRoomPayload{RoomID: "1_2", UserID: 2}))

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		alice.handle(ctx, EventSendMessage, mustRaw(t, sendMessagePayload{
			SenderID: 1, ReceiverID: 2, Message: "first", RoomID: "1_2",
		}))
	}()
	go func() {
		defer wg.Done()
		bob.handle(ctx, EventSendMessage, mustRaw(t, sendMessagePayload{
			SenderID: 2, ReceiverID: 1, Message: "second", RoomID: "1_2",
		}))
	}()
	wg.Wait()

	assert.Equal(t, 2, aliceConn.count(EventReceiveMessage))
	assert.Equal(t, 2, bobConn.count(EventReceiveMessage))

	// Both messages were durably stored before any broadcast.
	msgs, err := msgSvc.PrivateHistory(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, msgs, 2)
}

// A malformed send is rejected locally: error to the sender, no broadcast.
func TestInvalidSendMessageRejectedLocally(t *testing.T) {
	hub, msgSvc, db := newGatewayFixture(t)
	mustCreateUser(t, db, 1, "alice", domain.RoleStudent)
	mustCreateUser(t, db, 2, "bob", domain.RoleStudent)

	sender, senderConn := newSession(hub, msgSvc)
	_, peerConn := newSession(hub, msgSvc)

	ctx := context.Background()
	sender.handle(ctx, EventSendMessage, mustRaw(t, sendMessagePayload{
		SenderID: 1, Message: "no receiver", RoomID: "1_2",
	}))

	assert.Equal(t, 1, senderConn.count(EventMessageError))
	assert.Equal(t, 0, peerConn.count(EventReceiveMessage))
}

// Typing indicators reach the room but never echo back to the typist.
func TestTypingExcludesSender(t *testing.T) {
	hub, msgSvc, _ := newGatewayFixture(t)

	typist, typistConn := newSession(hub, msgSvc)
	peer, peerConn := newSession(hub, msgSvc)

	ctx := context.Background()
	typist.handle(ctx, EventJoinRoom, mustRaw(t, joinRoomPayload{RoomID: "1_2", UserID: 1}))
	peer.handle(ctx, EventJoinRoom, mustRaw(t, joinRoomPayload{RoomID: "1_2", UserID: 2}))

	typist.handle(ctx, EventTyping, mustRaw(t, typingPayload{UserID: 1, UserName: "alice", RoomID: "1_2"}))
	typist.handle(ctx, EventStopTyping, mustRaw(t, typingPayload{RoomID: "1_2"}))

	assert.Equal(t, 1, peerConn.count(EventUserTyping))
	assert.Equal(t, 1, peerConn.count(EventUserStopTyping))
	assert.Equal(t, 0, typistConn.count(EventUserTyping))
}
