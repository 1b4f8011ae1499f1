package websocket

import (
	"testing"
	"time"

	"backend/internal/app/board"
	"backend/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeConn struct {
	written chan interface{}
	failing bool
	closed  bool
}

func newFakeConn() *fakeConn {
	return &fakeConn{written: make(chan interface{}, 16)}
}

func (c *fakeConn) ReadMessage() (int, []byte, error) {
	select {} // tests never read
}

func (c *fakeConn) WriteJSON(v interface{}) error {
	if c.failing {
		return assert.AnError
	}
	c.written <- v
	return nil
}

func (c *fakeConn) Close() error {
	c.closed = true
	return nil
}

func startHub(t *testing.T) (*Hub, *utils.EventBus) {
	t.Helper()
	bus := utils.NewEventBus()
	hub := NewHub(zap.NewNop(), bus)
	go hub.Run()
	return hub, bus
}

func registerClient(t *testing.T, hub *Hub, boardID string, failing bool) *fakeConn {
	t.Helper()
	conn := newFakeConn()
	conn.failing = failing
	client := &Client{
		hub:     hub,
		conn:    conn,
		ID:      generateClientID(),
		BoardID: boardID,
	}
	select {
	case hub.register <- client:
	case <-time.After(time.Second):
		t.Fatal("hub did not accept registration")
	}
	return conn
}

func TestHubFansOutToBoardSubscribersOnly(t *testing.T) {
	hub, bus := startHub(t)

	sprint := registerClient(t, hub, "b-sprint", false)
	other := registerClient(t, hub, "b-other", false)

	bus.Publish(board.EventTicketCreate, board.TicketEvent{
		BoardID: "b-sprint",
		User:    "u1",
		Tickets: []board.Ticket{{ID: "t1", Heading: "A"}},
	})

	select {
	case msg := <-sprint.written:
		event, ok := msg.(utils.Event)
		require.True(t, ok)
		assert.Equal(t, board.EventTicketCreate, event.Event)
		payload, ok := event.Data.(board.TicketEvent)
		require.True(t, ok)
		assert.Equal(t, "b-sprint", payload.BoardID)
		require.Len(t, payload.Tickets, 1)
	case <-time.After(time.Second):
		t.Fatal("subscriber did not receive the event")
	}

	select {
	case <-other.written:
		t.Fatal("event leaked to a different board channel")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHubDropsClientAfterFailedWrite(t *testing.T) {
	hub, bus := startHub(t)

	broken := registerClient(t, hub, "b1", true)
	healthy := registerClient(t, hub, "b1", false)

	bus.Publish(board.EventTicketRemove, board.TicketEvent{BoardID: "b1", User: "u1"})

	select {
	case <-healthy.written:
	case <-time.After(time.Second):
		t.Fatal("healthy subscriber did not receive the event")
	}

	// the broken client was evicted: the next event reaches one subscriber
	bus.Publish(board.EventTicketRemove, board.TicketEvent{BoardID: "b1", User: "u1"})
	select {
	case <-healthy.written:
	case <-time.After(time.Second):
		t.Fatal("healthy subscriber did not receive the second event")
	}
	assert.True(t, broken.closed)
}

func TestHubIgnoresForeignEvents(t *testing.T) {
	hub, bus := startHub(t)
	conn := registerClient(t, hub, "b1", false)

	bus.Publish("something:else", "not a ticket event")

	select {
	case <-conn.written:
		t.Fatal("non-ticket event must not be fanned out")
	case <-time.After(50 * time.Millisecond):
	}
}
