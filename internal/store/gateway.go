// Package store is the persistence gateway boundary. Everything here is
// best-effort relative to the live relay path: callers dispatch writes
// through AsyncWriter and failures surface only in logs.
package store

import (
	"context"
	"errors"

	"github.com/avask/greenroom/internal/domain"
)

var ErrNotFound = errors.New("store: not found")

// Gateway is the durable store for code snapshots, chat history and
// admission status, keyed by the room's external key (the interview's
// shareable link).
type Gateway interface {
	SaveCodeSnapshot(ctx context.Context, room domain.RoomKey, code string) error
	LoadCodeSnapshot(ctx context.Context, room domain.RoomKey) (string, error)
	AppendChatMessage(ctx context.Context, msg domain.ChatMessage) error
	SetAdmissionStatus(ctx context.Context, room domain.RoomKey, status domain.AdmissionStatus) error
	Close() error
}
