package signal

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/avask/greenroom/internal/core"
	"github.com/avask/greenroom/internal/domain"
)

func (ctl *EventWSController) handleRequestJoin(
	sid core.SessionID,
	conn *wsSignalConn,
	data []byte,
) {
	type requestPayload struct {
		Type     string `json:"type"`
		Room     string `json:"room"`
		Username string `json:"username,omitempty"`
	}
	var p requestPayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad request-join payload")
		ctl.sendError(conn, "bad_payload")
		return
	}
	if p.Room == "" {
		ctl.sendError(conn, "missing room")
		return
	}
	if !ctl.limiter.Allow(sid) {
		ctl.sendError(conn, "too many join requests")
		return
	}

	log.Info().Str("module", "signal").Str("sid", string(sid)).Str("room", p.Room).Str("username", p.Username).Msg("request-join")
	ctl.Coord.RequestJoin(sid, domain.RoomKey(p.Room), p.Username)
}

func (ctl *EventWSController) handleApproveJoin(
	sid core.SessionID,
	conn *wsSignalConn,
	data []byte,
) {
	type approvePayload struct {
		Type string `json:"type"`
		Room string `json:"room"`
	}
	var p approvePayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad approve-join payload")
		ctl.sendError(conn, "bad_payload")
		return
	}
	if p.Room == "" {
		ctl.sendError(conn, "missing room")
		return
	}

	log.Info().Str("module", "signal").Str("sid", string(sid)).Str("room", p.Room).Msg("approve-join")
	ctl.Coord.Approve(sid, domain.RoomKey(p.Room))
}

func (ctl *EventWSController) handleRejectJoin(
	sid core.SessionID,
	conn *wsSignalConn,
	data []byte,
) {
	type rejectPayload struct {
		Type string `json:"type"`
		Room string `json:"room"`
	}
	var p rejectPayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad reject-join payload")
		ctl.sendError(conn, "bad_payload")
		return
	}
	if p.Room == "" {
		ctl.sendError(conn, "missing room")
		return
	}

	log.Info().Str("module", "signal").Str("sid", string(sid)).Str("room", p.Room).Msg("reject-join")
	ctl.Coord.Reject(sid, domain.RoomKey(p.Room))
}
