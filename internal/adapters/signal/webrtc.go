package signal

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/avask/greenroom/internal/core"
	"github.com/avask/greenroom/internal/domain"
)

// handleNegotiation covers offer, answer and ice-candidate. The frame is
// relayed verbatim to the rest of the room; only the room field is
// inspected. Garbage in, garbage out: the peers own the negotiation
// protocol, the coordinator owns neither SDP nor ICE.
func (ctl *EventWSController) handleNegotiation(
	sid core.SessionID,
	conn *wsSignalConn,
	data []byte,
) {
	var env struct {
		Type string `json:"type"`
		Room string `json:"room"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad negotiation payload")
		ctl.sendError(conn, "bad_payload")
		return
	}
	if env.Room == "" {
		ctl.sendError(conn, "missing room")
		return
	}

	log.Debug().Str("module", "signal").Str("sid", string(sid)).Str("room", env.Room).Str("type", env.Type).Msg("relay")
	ctl.Coord.RelaySignal(sid, domain.RoomKey(env.Room), core.Frame(data))
}
