package signal

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/avask/greenroom/internal/core"
	"github.com/avask/greenroom/internal/domain"
)

func (ctl *EventWSController) handleJoin(
	sid core.SessionID,
	conn *wsSignalConn,
	data []byte,
) {
	type joinPayload struct {
		Type     string `json:"type"`
		Room     string `json:"room"`
		Username string `json:"username,omitempty"`
	}
	var p joinPayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad join payload")
		ctl.sendError(conn, "bad_payload")
		return
	}
	if p.Room == "" {
		ctl.sendError(conn, "missing room")
		return
	}

	log.Info().Str("module", "signal").Str("sid", string(sid)).Str("room", p.Room).Str("username", p.Username).Msg("join")
	ctl.Coord.Join(sid, domain.RoomKey(p.Room), p.Username)
}

func (ctl *EventWSController) handleLeave(
	sid core.SessionID,
	conn *wsSignalConn,
	data []byte,
) {
	type leavePayload struct {
		Type     string `json:"type"`
		Room     string `json:"room"`
		Username string `json:"username,omitempty"`
	}
	var p leavePayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad leave payload")
		ctl.sendError(conn, "bad_payload")
		return
	}
	if p.Room == "" {
		ctl.sendError(conn, "missing room")
		return
	}

	log.Info().Str("module", "signal").Str("sid", string(sid)).Str("room", p.Room).Msg("leave")
	ctl.Coord.Leave(sid, domain.RoomKey(p.Room), p.Username)
}
