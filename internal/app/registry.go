package app

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/avask/greenroom/internal/core"
	"github.com/avask/greenroom/internal/domain"
)

// Record is the registry's view of one live connection: where it is and
// under which admission state. The zero Room means the connection has not
// joined anything yet.
type Record struct {
	Room  domain.RoomKey
	Name  string
	State domain.AdmissionState
}

type regEntry struct {
	rec     Record
	session core.MemberSession
}

// Registry maps each live connection to its session and current room.
// It is an injected, lock-protected instance; tests create as many
// isolated registries as they need.
type Registry struct {
	mu      sync.RWMutex
	entries map[core.SessionID]*regEntry
}

func NewRegistry() *Registry {
	return &Registry{entries: make(map[core.SessionID]*regEntry)}
}

// Register creates the entry for a freshly connected session. Re-register
// of a live id replaces the session binding.
func (r *Registry) Register(sid core.SessionID, sess core.MemberSession) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[sid] = &regEntry{session: sess}
	log.Info().Str("module", "app.registry").Str("sid", string(sid)).Msg("registered connection")
}

// Update rebinds the connection's room, display name and admission state.
// Returns false when the connection is unknown.
func (r *Registry) Update(sid core.SessionID, room domain.RoomKey, name string, state domain.AdmissionState) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[sid]
	if !ok {
		return false
	}
	e.rec = Record{Room: room, Name: name, State: state}
	if meta := e.session.Meta(); meta != nil {
		meta.Name = name
		meta.State = state
	}
	log.Info().Str("module", "app.registry").Str("sid", string(sid)).Str("room", string(room)).Str("state", state.String()).Msg("updated connection")
	return true
}

func (r *Registry) Lookup(sid core.SessionID) (Record, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if e, ok := r.entries[sid]; ok {
		return e.rec, true
	}
	return Record{}, false
}

func (r *Registry) Session(sid core.SessionID) (core.MemberSession, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if e, ok := r.entries[sid]; ok {
		return e.session, true
	}
	return nil, false
}

// Remove deletes the entry. Removing an unknown id is a no-op, which is
// what makes leave and disconnect order-independent.
func (r *Registry) Remove(sid core.SessionID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[sid]; !ok {
		return
	}
	delete(r.entries, sid)
	log.Info().Str("module", "app.registry").Str("sid", string(sid)).Msg("removed connection")
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}
