package app

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/avask/greenroom/internal/core"
	"github.com/avask/greenroom/internal/domain"
	"github.com/avask/greenroom/internal/store"
)

// Coordinator owns the live session state: which connection sits in which
// room and under which admission state. Every event workflow runs under
// one mutex so membership checks, mutations and the broadcast snapshot
// they produce form a single critical section; a connection that has fully
// left can never receive a later frame. Broadcast sends are non-blocking,
// so holding the mutex never waits on a peer, and persistence goes through
// the async writer, never inline.
type Coordinator struct {
	mu       sync.Mutex
	Registry *Registry
	Rooms    core.RoomManager
	Policy   Policy
	Gateway  store.Gateway
	Writer   *store.AsyncWriter
}

func NewCoordinator(reg *Registry, rooms core.RoomManager, policy Policy, gw store.Gateway, w *store.AsyncWriter) *Coordinator {
	return &Coordinator{
		Registry: reg,
		Rooms:    rooms,
		Policy:   policy,
		Gateway:  gw,
		Writer:   w,
	}
}

// Connect registers a fresh transport session.
func (c *Coordinator) Connect(sid core.SessionID, sess core.MemberSession) {
	c.Registry.Register(sid, sess)
}

// Join makes the connection an active member of the room. If the
// connection was parked in the room's waiting area (admission flow), it is
// moved out of there in the same critical section.
func (c *Coordinator) Join(sid core.SessionID, room domain.RoomKey, name string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	sess, ok := c.Registry.Session(sid)
	if !ok {
		log.Warn().Str("module", "app.coordinator").Str("sid", string(sid)).Msg("join from unknown connection")
		return
	}

	rec, _ := c.Registry.Lookup(sid)
	if name == "" {
		name = rec.Name
	}
	name = domain.SanitizeDisplayName(name)

	// A connection sits in at most one membership set. Joining while
	// active or waiting somewhere else first detaches it there, so the
	// old room stops delivering to it from this point on.
	if rec.Room != "" && rec.Room != room && rec.Room != room.WaitingKey() {
		c.detach(rec.Room, sid, rec.Name)
	}

	main := c.Rooms.GetOrCreate(room)
	main.AddMember(sid, sess)

	if rec.State == domain.StateWaiting && rec.Room == room.WaitingKey() {
		// Promotion out of this room's own waiting area is silent.
		if waiting, ok := c.Rooms.Get(room.WaitingKey()); ok {
			waiting.RemoveMember(sid)
			c.stopIfEmpty(room.WaitingKey(), waiting)
		}
	}

	c.Registry.Update(sid, room, name, domain.StateActive)

	c.publish(main, sid, struct {
		Type     string `json:"type"`
		Username string `json:"username"`
	}{"user-joined", name})

	// The generic joined signal lets an already-present peer start the
	// outbound negotiation toward the newcomer.
	c.publish(main, sid, struct {
		Type string `json:"type"`
	}{"joined"})

	c.sendSnapshotTo(sid, room, sess)
}

// sendSnapshotTo delivers the room's last persisted code snapshot to a
// joining connection, off the critical path.
func (c *Coordinator) sendSnapshotTo(sid core.SessionID, room domain.RoomKey, sess core.MemberSession) {
	c.Writer.Dispatch("load code snapshot", func(ctx context.Context) error {
		code, err := c.Gateway.LoadCodeSnapshot(ctx, room)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return nil
			}
			return err
		}
		if code == "" {
			return nil
		}
		f, ok := encode(struct {
			Type string `json:"type"`
			Code string `json:"code"`
		}{"code-update", code})
		if !ok {
			return nil
		}
		if err := sess.Signal().TrySend(f); err != nil {
			log.Debug().Str("module", "app.coordinator").Str("sid", string(sid)).Msg("snapshot catch-up dropped")
		}
		return nil
	})
}

// Leave removes the connection from the room and tells the remainder.
// Leaving a room one is not in is a no-op beyond registry cleanup.
func (c *Coordinator) Leave(sid core.SessionID, room domain.RoomKey, name string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	rec, ok := c.Registry.Lookup(sid)
	if ok && name == "" {
		name = rec.Name
	}
	c.Registry.Remove(sid)

	c.detach(room, sid, name)
	// A waiting candidate leaves with the main key; the registry knows
	// the set it actually sits in.
	if ok && rec.Room != "" && rec.Room != room {
		c.detach(rec.Room, sid, name)
	}
}

// Disconnect is the transport-level cleanup. The client supplies nothing;
// the last known room and name come from the registry. Unknown connections
// (already cleaned up by an explicit leave, or never joined) are a silent
// no-op.
func (c *Coordinator) Disconnect(sid core.SessionID) {
	c.mu.Lock()
	defer c.mu.Unlock()

	rec, ok := c.Registry.Lookup(sid)
	c.Registry.Remove(sid)
	if !ok || rec.Room == "" {
		return
	}

	c.detach(rec.Room, sid, rec.Name)
	log.Info().Str("module", "app.coordinator").Str("sid", string(sid)).Str("room", string(rec.Room)).Msg("disconnected")
}

// detach removes the connection from one membership set, tells the
// remainder and retires the room once nobody is left. A no-op when the
// connection is not a member, so no stray user-left reaches rooms the
// connection never sat in.
func (c *Coordinator) detach(key domain.RoomKey, sid core.SessionID, name string) {
	r, ok := c.Rooms.Get(key)
	if !ok || !r.HasMember(sid) {
		return
	}
	r.RemoveMember(sid)
	c.publish(r, sid, struct {
		Type     string `json:"type"`
		Username string `json:"username"`
	}{"user-left", name})
	c.stopIfEmpty(key, r)
}

func (c *Coordinator) stopIfEmpty(key domain.RoomKey, r core.RoomService) {
	if r.MemberCount() > 0 {
		return
	}
	c.Rooms.StopRoom(key)
	log.Info().Str("module", "app.coordinator").Str("room", string(key)).Msg("room retired")
}

// publish marshals v and fans it out to the room, then applies the
// backpressure policy to recipients that rejected the frame.
func (c *Coordinator) publish(room core.RoomService, from core.SessionID, v any) {
	f, ok := encode(v)
	if !ok {
		return
	}
	res := room.Broadcast(from, f)
	c.handleDropped(room, res)
}

func (c *Coordinator) handleDropped(room core.RoomService, res core.PublishResult) {
	if c.Policy == nil {
		return
	}
	for _, sid := range res.Dropped {
		if c.Policy.OnBackpressure(room, sid) != KickMember {
			continue
		}
		rec, ok := c.Registry.Lookup(sid)
		room.RemoveMember(sid)
		c.Registry.Remove(sid)
		log.Warn().Str("module", "app.coordinator").Str("sid", string(sid)).Msg("kicked on backpressure")
		if !ok {
			continue
		}
		f, fok := encode(struct {
			Type     string `json:"type"`
			Username string `json:"username"`
		}{"user-left", rec.Name})
		if fok {
			// Drops here are only logged; no recursive kicking.
			room.Broadcast(sid, f)
		}
	}
	if len(res.Dropped) > 0 {
		c.stopIfEmpty(room.Room().Key, room)
	}
}

func encode(v any) (core.Frame, bool) {
	b, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "app.coordinator").Msg("encode frame")
		return nil, false
	}
	return b, true
}
