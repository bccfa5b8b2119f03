// Package domain contains entities without logic, just meta-data.
package domain

import "strings"

type RoomKey string

// waitingSuffix derives the waiting-area key from a room's external key.
// The waiting area is an ordinary room as far as membership and broadcast
// are concerned; only the key differs.
const waitingSuffix = "-wait"

// WaitingKey returns the key of the room's waiting area.
func (k RoomKey) WaitingKey() RoomKey {
	return k + waitingSuffix
}

// IsWaiting reports whether k names a waiting area rather than a main room.
func (k RoomKey) IsWaiting() bool {
	return strings.HasSuffix(string(k), waitingSuffix)
}

// Main strips the waiting suffix, returning the main room key.
func (k RoomKey) Main() RoomKey {
	return RoomKey(strings.TrimSuffix(string(k), waitingSuffix))
}

type Room struct {
	Key RoomKey
}
