package ws

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeConn records every frame written to it.
type fakeConn struct {
	mu     sync.Mutex
	frames []Frame
	closed bool
}

func (f *fakeConn) WriteJSON(v any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.frames = append(f.frames, v.(Frame))
	return nil
}

func (f *fakeConn) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeConn) events() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	res := make([]string, len(f.frames))
	for i, fr := range f.frames {
		res[i] = fr.Event
	}
	return res
}

func (f *fakeConn) count(event string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, fr := range f.frames {
		if fr.Event == event {
			n++
		}
	}
	return n
}

func addClient(h *Hub) (*Client, *fakeConn) {
	fc := &fakeConn{}
	c := newClient(fc)
	h.Add(c)
	return c, fc
}

func TestRegisterBroadcastsOnlineToOthers(t *testing.T) {
	h := NewHub()
	a, aConn := addClient(h)
	_, bConn := addClient(h)
	_, cConn := addClient(h)

	h.Register(5, a)

	assert.True(t, h.Online(5))
	assert.Equal(t, 1, bConn.count(EventUserOnline))
	assert.Equal(t, 1, cConn.count(EventUserOnline))
	assert.Equal(t, 0, aConn.count(EventUserOnline))
}

func TestRegisterLastWriteWins(t *testing.T) {
	h := NewHub()
	a, _ := addClient(h)
	b, _ := addClient(h)
	_, observer := addClient(h)

	h.Register(7, a)
	h.Register(7, b)
	require.True(t, h.Online(7))

	// The supplanted connection going away must not mark the user offline,
	// since connection b still holds the presence entry.
	h.Remove(a)
	assert.True(t, h.Online(7))
	assert.Equal(t, 0, observer.count(EventUserOffline))

	h.Remove(b)
	assert.False(t, h.Online(7))
	assert.Equal(t, 1, observer.count(EventUserOffline))
}

func TestRemoveUnknownConnectionIsNoOp(t *testing.T) {
	h := NewHub()
	_, observer := addClient(h)

	stray := newClient(&fakeConn{})
	h.Remove(stray)
	// Removing again must also be safe.
	h.Remove(stray)

	assert.Equal(t, 0, observer.count(EventUserOffline))
}

func TestJoinIsIdempotent(t *testing.T) {
	h := NewHub()
	a, aConn := addClient(h)

	h.Join(a, "2_10")
	h.Join(a, "2_10")

	h.BroadcastToRoom("2_10", Frame{Event: EventReceiveMessage})
	assert.Equal(t, 1, aConn.count(EventReceiveMessage), "double join must not double-deliver")
}

func TestBroadcastToRoomExceptSkipsSender(t *testing.T) {
	h := NewHub()
	a, aConn := addClient(h)
	b, bConn := addClient(h)
	h.Join(a, "1_2")
	h.Join(b, "1_2")

	h.BroadcastToRoomExcept("1_2", a, Frame{Event: EventUserTyping})

	assert.Equal(t, 0, aConn.count(EventUserTyping))
	assert.Equal(t, 1, bConn.count(EventUserTyping))
}

func TestBroadcastScopedToRoom(t *testing.T) {
	h := NewHub()
	a, aConn := addClient(h)
	b, bConn := addClient(h)
	h.Join(a, "1_2")
	h.Join(b, "group_1")

	h.BroadcastToRoom("group_1", Frame{Event: EventReceiveGroupMessage})

	assert.Equal(t, 0, aConn.count(EventReceiveGroupMessage))
	assert.Equal(t, 1, bConn.count(EventReceiveGroupMessage))
}
