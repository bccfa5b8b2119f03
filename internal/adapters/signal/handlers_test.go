package signal

import (
	"encoding/json"
	"testing"

	"github.com/avask/greenroom/internal/app"
	"github.com/avask/greenroom/internal/config"
	"github.com/avask/greenroom/internal/core"
	"github.com/avask/greenroom/internal/store"
)

func newTestController() *EventWSController {
	coord := app.NewCoordinator(
		app.NewRegistry(),
		app.NewRoomManager(),
		app.SimplePolicy{},
		store.NoopGateway{},
		store.NewAsyncWriter(8),
	)
	return NewEventWSController(coord, &config.Config{})
}

// newLoopbackConn builds a connection whose outbound frames land in the
// send channel instead of a socket, so a test can inspect exactly what
// the handlers emitted.
func newLoopbackConn() *wsSignalConn {
	return &wsSignalConn{send: make(chan core.Frame, 8)}
}

func sentEvents(c *wsSignalConn) []map[string]any {
	out := []map[string]any{}
	for {
		select {
		case f := <-c.send:
			var m map[string]any
			if json.Unmarshal(f, &m) == nil {
				out = append(out, m)
			}
		default:
			return out
		}
	}
}

func TestRoomlessEventYieldsErrorFrameOnly(t *testing.T) {
	events := []string{
		`{"type":"join","username":"alice"}`,
		`{"type":"leave"}`,
		`{"type":"request-join","username":"carol"}`,
		`{"type":"approve-join"}`,
		`{"type":"reject-join"}`,
		`{"type":"offer","sdp":"v=0..."}`,
		`{"type":"answer"}`,
		`{"type":"ice-candidate"}`,
		`{"type":"code-change","code":"x = 1"}`,
		`{"type":"chat-message","message":"hi"}`,
	}
	for _, raw := range events {
		ctl := newTestController()
		conn := newLoopbackConn()

		ctl.handleEvent("sid-1", conn, []byte(raw))

		got := sentEvents(conn)
		if len(got) != 1 || got[0]["type"] != "error" {
			t.Errorf("%s: expected exactly one error frame, got %v", raw, got)
			continue
		}
		if ctl.Coord.Registry.Len() != 0 {
			t.Errorf("%s: registry mutated by a room-less event", raw)
		}
		if len(ctl.Coord.Rooms.List()) != 0 {
			t.Errorf("%s: room created by a room-less event", raw)
		}
	}
}

func TestMalformedJSONYieldsErrorFrame(t *testing.T) {
	ctl := newTestController()
	conn := newLoopbackConn()

	ctl.handleEvent("sid-1", conn, []byte(`{"type":"join",`))

	got := sentEvents(conn)
	if len(got) != 1 || got[0]["type"] != "error" {
		t.Fatalf("expected exactly one error frame, got %v", got)
	}
}

func TestUnknownEventTypeIsIgnored(t *testing.T) {
	ctl := newTestController()
	conn := newLoopbackConn()

	ctl.handleEvent("sid-1", conn, []byte(`{"type":"dance","room":"abc"}`))

	if got := sentEvents(conn); len(got) != 0 {
		t.Errorf("unknown event produced frames: %v", got)
	}
}

func TestPingAnswersPong(t *testing.T) {
	ctl := newTestController()
	conn := newLoopbackConn()

	ctl.handleEvent("sid-1", conn, []byte(`{"type":"ping"}`))

	got := sentEvents(conn)
	if len(got) != 1 || got[0]["type"] != "pong" {
		t.Fatalf("expected a single pong, got %v", got)
	}
}
