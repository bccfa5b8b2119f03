package core

import (
	"github.com/avask/greenroom/internal/domain"
)

// PublishResult reports delivery stats/backpressure to the coordinator.
// Dropped recipients did not get the frame; everyone else still did.
type PublishResult struct {
	SentTo  int
	Dropped []SessionID
}

// MemberDTO is a read-only view for APIs (no transport fields).
type MemberDTO struct {
	Name string `json:"name"`
}

// RoomService is the core-facing API of a room.
// It owns the membership set but never touches transport resources.
type RoomService interface {
	Room() *domain.Room
	MemberCount() int
	MembersSnapshot() []MemberDTO

	AddMember(sid SessionID, ms MemberSession)
	RemoveMember(sid SessionID)
	HasMember(sid SessionID) bool
	Broadcast(from SessionID, data Frame) PublishResult
}

type RoomInfo struct {
	Key         domain.RoomKey `json:"key"`
	MemberCount int            `json:"member_count"`
}

type RoomManager interface {
	GetOrCreate(key domain.RoomKey) RoomService
	Get(key domain.RoomKey) (RoomService, bool)
	List() []RoomInfo
	StopRoom(key domain.RoomKey)
}
