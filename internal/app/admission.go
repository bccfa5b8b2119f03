package app

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/avask/greenroom/internal/core"
	"github.com/avask/greenroom/internal/domain"
)

// Admission workflow: none -> requested -> approved/rejected. Approved and
// rejected are terminal for one request only; a later request-join starts
// a fresh cycle. There is no timeout: an unanswered request stays pending
// until the candidate disconnects.

// RequestJoin parks the candidate in the room's waiting area, persists the
// requested status and tells the main room that someone is at the door.
func (c *Coordinator) RequestJoin(sid core.SessionID, room domain.RoomKey, name string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	sess, ok := c.Registry.Session(sid)
	if !ok {
		log.Warn().Str("module", "app.admission").Str("sid", string(sid)).Msg("request-join from unknown connection")
		return
	}
	name = domain.SanitizeDisplayName(name)

	waitingKey := room.WaitingKey()
	// Knocking on a door while sitting in another room (or another
	// room's waiting area) first detaches the connection there.
	if rec, found := c.Registry.Lookup(sid); found && rec.Room != "" && rec.Room != waitingKey {
		c.detach(rec.Room, sid, rec.Name)
	}
	waiting := c.Rooms.GetOrCreate(waitingKey)
	waiting.AddMember(sid, sess)
	c.Registry.Update(sid, waitingKey, name, domain.StateWaiting)

	c.persistAdmission(room, domain.AdmissionRequested)

	// No GetOrCreate here: a knock on a room nobody occupies must not
	// materialize the room.
	if main, found := c.Rooms.Get(room); found {
		c.publish(main, sid, struct {
			Type     string `json:"type"`
			Username string `json:"username"`
		}{"join-request", name})
	}
	log.Info().Str("module", "app.admission").Str("sid", string(sid)).Str("room", string(room)).Msg("join requested")
}

// Approve persists the decision and notifies both sides: the waiting area
// learns it may now send a normal join, the main room gets an
// informational note.
func (c *Coordinator) Approve(actor core.SessionID, room domain.RoomKey) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.persistAdmission(room, domain.AdmissionApproved)

	if waiting, ok := c.Rooms.Get(room.WaitingKey()); ok {
		c.publish(waiting, "", struct {
			Type string `json:"type"`
			Room string `json:"room"`
		}{"join-approved", string(room)})
	}
	if main, ok := c.Rooms.Get(room); ok {
		c.publish(main, "", struct {
			Type    string `json:"type"`
			Message string `json:"message"`
		}{"candidate-approved", "Candidate has been approved to join"})
	}
	log.Info().Str("module", "app.admission").Str("actor", string(actor)).Str("room", string(room)).Msg("join approved")
}

// Reject persists the decision and notifies the waiting area only.
func (c *Coordinator) Reject(actor core.SessionID, room domain.RoomKey) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.persistAdmission(room, domain.AdmissionRejected)

	if waiting, ok := c.Rooms.Get(room.WaitingKey()); ok {
		c.publish(waiting, "", struct {
			Type    string `json:"type"`
			Message string `json:"message"`
		}{"join-rejected", "Your request to join was rejected"})
	}
	log.Info().Str("module", "app.admission").Str("actor", string(actor)).Str("room", string(room)).Msg("join rejected")
}

func (c *Coordinator) persistAdmission(room domain.RoomKey, status domain.AdmissionStatus) {
	c.Writer.Dispatch("set admission status", func(ctx context.Context) error {
		return c.Gateway.SetAdmissionStatus(ctx, room, status)
	})
}
