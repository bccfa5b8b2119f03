package signal

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/avask/greenroom/internal/core"
	"github.com/avask/greenroom/internal/domain"
)

func (ctl *EventWSController) handleCodeChange(
	sid core.SessionID,
	conn *wsSignalConn,
	data []byte,
) {
	type codePayload struct {
		Type string `json:"type"`
		Room string `json:"room"`
		Code string `json:"code"`
	}
	var p codePayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad code-change payload")
		ctl.sendError(conn, "bad_payload")
		return
	}
	if p.Room == "" {
		ctl.sendError(conn, "missing room")
		return
	}

	ctl.Coord.CodeChange(sid, domain.RoomKey(p.Room), p.Code)
}

func (ctl *EventWSController) handleChatMessage(
	sid core.SessionID,
	conn *wsSignalConn,
	data []byte,
) {
	type chatPayload struct {
		Type      string `json:"type"`
		Room      string `json:"room"`
		Message   string `json:"message"`
		Username  string `json:"username"`
		Timestamp string `json:"timestamp"`
	}
	var p chatPayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad chat payload")
		ctl.sendError(conn, "bad_payload")
		return
	}
	if p.Room == "" {
		ctl.sendError(conn, "missing room")
		return
	}

	ctl.Coord.Chat(sid, domain.ChatMessage{
		Room:   domain.RoomKey(p.Room),
		Sender: p.Username,
		Text:   p.Message,
		SentAt: p.Timestamp,
	})
}
