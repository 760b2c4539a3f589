package signal

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"jamroom/internal/domain"
)

func (ctl *Controller) handleJoin(
	sess *session,
	conn *WsConn,
	data []byte,
) {
	type joinPayload struct {
		Type string `json:"type"`
		Room string `json:"room"`
	}
	var p joinPayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad join payload")
		ctl.sendError(conn, "bad_payload")
		return
	}
	svc, ok := ctl.Rooms.Get(domain.RoomID(p.Room))
	if !ok {
		log.Warn().Str("module", "signal").Str("room", p.Room).Msg("join to unknown room")
		ctl.sendError(conn, "room_not_found")
		return
	}

	log.Info().Str("module", "signal").Str("sid", string(sess.id)).Str("room", p.Room).Msg("join")
	// Snapshot after subscribing: the session may briefly see a delta it
	// already holds, but never a gap between snapshot and first delta.
	ctl.Hub.Subscribe(svc.ID(), sess.id, conn)
	ctl.sendJSON(conn, svc.Snapshot())
}
