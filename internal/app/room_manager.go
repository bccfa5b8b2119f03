package app

import (
	"sync"

	"github.com/avask/greenroom/internal/core"
	"github.com/avask/greenroom/internal/domain"
)

type RoomManagerImpl struct {
	mu    sync.RWMutex
	rooms map[domain.RoomKey]core.RoomService
}

func NewRoomManager() core.RoomManager {
	return &RoomManagerImpl{rooms: make(map[domain.RoomKey]core.RoomService)}
}

func (f *RoomManagerImpl) GetOrCreate(key domain.RoomKey) core.RoomService {
	f.mu.RLock()
	room, ok := f.rooms[key]
	f.mu.RUnlock()
	if ok {
		return room
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if room, ok = f.rooms[key]; ok {
		return room
	}
	room = core.NewRoomService(&domain.Room{Key: key})
	f.rooms[key] = room
	return room
}

func (f *RoomManagerImpl) Get(key domain.RoomKey) (core.RoomService, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	room, ok := f.rooms[key]
	return room, ok
}

// List reports main rooms only; waiting areas are an implementation detail
// of the admission workflow.
func (f *RoomManagerImpl) List() []core.RoomInfo {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]core.RoomInfo, 0, len(f.rooms))
	for key, r := range f.rooms {
		if key.IsWaiting() {
			continue
		}
		out = append(out, core.RoomInfo{Key: key, MemberCount: r.MemberCount()})
	}
	return out
}

func (f *RoomManagerImpl) StopRoom(key domain.RoomKey) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.rooms, key)
}
