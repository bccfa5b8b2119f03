package app

import (
	"context"

	"github.com/avask/greenroom/internal/core"
	"github.com/avask/greenroom/internal/domain"
)

// RelaySignal forwards a peer-negotiation frame (offer, answer,
// ice-candidate) verbatim to every other active member of the room. The
// payload body is opaque here; the negotiation protocol belongs to the
// peers.
func (c *Coordinator) RelaySignal(sid core.SessionID, room domain.RoomKey, raw core.Frame) {
	c.mu.Lock()
	defer c.mu.Unlock()

	r, ok := c.Rooms.Get(room)
	if !ok {
		return
	}
	res := r.Broadcast(sid, raw)
	c.handleDropped(r, res)
}

// CodeChange fans the new code text out to the other members and persists
// it as the room's latest snapshot, last write wins. The broadcast never
// waits on the store.
func (c *Coordinator) CodeChange(sid core.SessionID, room domain.RoomKey, code string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if r, ok := c.Rooms.Get(room); ok {
		c.publish(r, sid, struct {
			Type string `json:"type"`
			Code string `json:"code"`
		}{"code-update", code})
	}

	c.Writer.Dispatch("save code snapshot", func(ctx context.Context) error {
		return c.Gateway.SaveCodeSnapshot(ctx, room, code)
	})
}

// Chat echoes the message to the other members and appends it to the
// room's transcript. Persistence is history only; live delivery does not
// depend on it.
func (c *Coordinator) Chat(sid core.SessionID, msg domain.ChatMessage) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if r, ok := c.Rooms.Get(msg.Room); ok {
		c.publish(r, sid, struct {
			Type      string `json:"type"`
			Message   string `json:"message"`
			Username  string `json:"username"`
			Timestamp string `json:"timestamp"`
		}{"chat-message", msg.Text, msg.Sender, msg.SentAt})
	}

	c.Writer.Dispatch("append chat message", func(ctx context.Context) error {
		return c.Gateway.AppendChatMessage(ctx, msg)
	})
}
