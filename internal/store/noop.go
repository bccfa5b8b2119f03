package store

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/avask/greenroom/internal/domain"
)

// NoopGateway runs the coordinator without a durable store. Writes are
// acknowledged and dropped; snapshot loads report nothing saved.
type NoopGateway struct{}

func (NoopGateway) SaveCodeSnapshot(_ context.Context, room domain.RoomKey, _ string) error {
	log.Debug().Str("module", "store.noop").Str("room", string(room)).Msg("code snapshot dropped")
	return nil
}

func (NoopGateway) LoadCodeSnapshot(context.Context, domain.RoomKey) (string, error) {
	return "", ErrNotFound
}

func (NoopGateway) AppendChatMessage(_ context.Context, msg domain.ChatMessage) error {
	log.Debug().Str("module", "store.noop").Str("room", string(msg.Room)).Msg("chat message dropped")
	return nil
}

func (NoopGateway) SetAdmissionStatus(_ context.Context, room domain.RoomKey, status domain.AdmissionStatus) error {
	log.Debug().Str("module", "store.noop").Str("room", string(room)).Str("status", string(status)).Msg("admission status dropped")
	return nil
}

func (NoopGateway) Close() error { return nil }
