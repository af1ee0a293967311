package ws

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parlor/internal/app/session"
)

// recordingDispatcher captures the lifecycle and frame events the hub feeds it.
type recordingDispatcher struct {
	connected    []string
	dispatched   []string
	disconnected []string
	lastAck      session.Ack
}

func (d *recordingDispatcher) Connected(connID string) {
	d.connected = append(d.connected, connID)
}

func (d *recordingDispatcher) Dispatch(connID, event string, args []json.RawMessage, ack session.Ack) {
	d.dispatched = append(d.dispatched, connID+"/"+event)
	d.lastAck = ack
}

func (d *recordingDispatcher) Disconnecting(connID string) {
	d.disconnected = append(d.disconnected, connID)
}

// drainFrame pops one queued frame from a connection, failing when none is
// pending.
func drainFrame(t *testing.T, c *Conn) []byte {
	t.Helper()

	select {
	case frame := <-c.send:
		return frame
	default:
		t.Fatal("expected a queued frame")
		return nil
	}
}

func assertNoFrame(t *testing.T, c *Conn) {
	t.Helper()

	select {
	case frame := <-c.send:
		t.Fatalf("unexpected queued frame: %s", frame)
	default:
	}
}

func newTestHub(t *testing.T) (*Hub, *recordingDispatcher) {
	t.Helper()

	h := NewHub()
	d := &recordingDispatcher{}
	h.Bind(d)
	return h, d
}

// addConn registers a connection directly through the dispatch path.
func addConn(h *Hub) *Conn {
	c := newConn(h, nil)
	h.handle(inbound{kind: inboundConnect, conn: c})
	return c
}

func TestHub_GroupBookkeeping(t *testing.T) {
	h, _ := newTestHub(t)

	a := addConn(h)
	b := addConn(h)

	h.Subscribe(a.ID(), "AbC12")
	h.Subscribe(b.ID(), "AbC12")
	require.Len(t, h.groups["AbC12"], 2)

	h.Unsubscribe(a.ID(), "AbC12")
	assert.NotContains(t, h.groups["AbC12"], a.ID())

	// The empty group disappears entirely.
	h.Unsubscribe(b.ID(), "AbC12")
	assert.NotContains(t, h.groups, "AbC12")

	// Unsubscribing from a group that never existed is harmless.
	h.Unsubscribe(a.ID(), "ZZZZZ")
}

func TestHub_BroadcastExcept(t *testing.T) {
	h, _ := newTestHub(t)

	a := addConn(h)
	b := addConn(h)
	c := addConn(h)

	for _, conn := range []*Conn{a, b, c} {
		h.Subscribe(conn.ID(), "AbC12")
	}

	h.BroadcastExcept("AbC12", a.ID(), "new chat", map[string]string{"code": "AbC12"})

	assertNoFrame(t, a)

	for _, receiver := range []*Conn{b, c} {
		var frame struct {
			Event string            `json:"event"`
			Args  []json.RawMessage `json:"args"`
		}
		require.NoError(t, json.Unmarshal(drainFrame(t, receiver), &frame))
		assert.Equal(t, "new chat", frame.Event)
		require.Len(t, frame.Args, 1)
	}

	t.Run("unknown group is a no-op", func(t *testing.T) {
		h.BroadcastExcept("ZZZZZ", a.ID(), "new chat")
		assertNoFrame(t, b)
	})
}

func TestHub_SendTo(t *testing.T) {
	h, _ := newTestHub(t)
	a := addConn(h)

	h.SendTo(a.ID(), "kicked", "AbC12")

	var frame struct {
		Event string   `json:"event"`
		Args  []string `json:"args"`
	}
	require.NoError(t, json.Unmarshal(drainFrame(t, a), &frame))
	assert.Equal(t, "kicked", frame.Event)
	assert.Equal(t, []string{"AbC12"}, frame.Args)

	// Directed sends to unknown connections vanish quietly.
	h.SendTo("nobody", "kicked", "AbC12")
}

func TestHub_AckFrames(t *testing.T) {
	h, _ := newTestHub(t)
	a := addConn(h)

	t.Run("correlated frame gets an ack", func(t *testing.T) {
		ack := h.ackFor(a, 7)
		ack("success")

		var frame struct {
			Ack  uint64   `json:"ack"`
			Args []string `json:"args"`
		}
		require.NoError(t, json.Unmarshal(drainFrame(t, a), &frame))
		assert.Equal(t, uint64(7), frame.Ack)
		assert.Equal(t, []string{"success"}, frame.Args)
	})

	t.Run("uncorrelated frame acks go nowhere", func(t *testing.T) {
		ack := h.ackFor(a, 0)
		ack("success")
		assertNoFrame(t, a)
	})

	t.Run("empty args marshal as an empty list", func(t *testing.T) {
		ack := h.ackFor(a, 8)
		ack()

		assert.JSONEq(t, `{"ack":8,"args":[]}`, string(drainFrame(t, a)))
	})
}

func TestHub_DispatchFlow(t *testing.T) {
	h, d := newTestHub(t)

	c := addConn(h)
	require.Equal(t, []string{c.ID()}, d.connected)

	h.handle(inbound{kind: inboundFrame, conn: c, env: Envelope{ID: 1, Event: "create room"}})
	assert.Equal(t, []string{c.ID() + "/create room"}, d.dispatched)
	require.NotNil(t, d.lastAck)

	h.Subscribe(c.ID(), "AbC12")
	h.handle(inbound{kind: inboundDisconnect, conn: c})

	assert.Equal(t, []string{c.ID()}, d.disconnected)
	assert.NotContains(t, h.conns, c.ID())
	assert.NotContains(t, h.groups, "AbC12")

	// The send channel is closed so the write loop can exit.
	_, open := <-c.send
	assert.False(t, open)
}
