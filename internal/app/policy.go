package app

import "github.com/avask/greenroom/internal/core"

type BackpressureAction int

const (
	NoAction BackpressureAction = iota
	KickMember
)

// Policy decides what happens to a member whose send buffer rejected a
// broadcast frame.
type Policy interface {
	OnBackpressure(room core.RoomService, sid core.SessionID) BackpressureAction
}

// SimplePolicy evicts slow or dead members. Their transport-level
// disconnect, whenever it arrives, is then a harmless no-op.
type SimplePolicy struct{}

func (SimplePolicy) OnBackpressure(room core.RoomService, sid core.SessionID) BackpressureAction {
	return KickMember
}
