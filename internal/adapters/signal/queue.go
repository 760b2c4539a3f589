package signal

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"jamroom/internal/domain"
)

// songPayload is the client-supplied description of a track. All of it is
// opaque display data; the server never interprets these fields.
type songPayload struct {
	ID        domain.EntryID `json:"id"`
	VideoID   string         `json:"video_id"`
	Title     string         `json:"title"`
	Thumbnail string         `json:"thumbnail"`
	Channel   string         `json:"channel"`
	Duration  string         `json:"duration"`
}

func (ctl *Controller) handleEnqueue(
	sess *session,
	conn *WsConn,
	data []byte,
) {
	type enqueuePayload struct {
		Type      string      `json:"type"`
		Room      string      `json:"room"`
		Song      songPayload `json:"song"`
		Submitter string      `json:"submitter"`
	}
	var p enqueuePayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad enqueue payload")
		ctl.sendError(conn, "bad_payload")
		return
	}
	svc, ok := ctl.Rooms.Get(domain.RoomID(p.Room))
	if !ok {
		return
	}
	if ctl.limiter != nil && !ctl.limiter.Allow(sess.limitKey) {
		log.Warn().Str("module", "signal").Str("sid", string(sess.id)).Msg("enqueue rate limited")
		ctl.sendError(conn, "rate_limited")
		return
	}
	song, err := domain.NewSong(p.Song.VideoID, p.Song.Title, p.Song.Thumbnail,
		p.Song.Channel, p.Song.Duration, p.Submitter)
	if err != nil {
		ctl.sendError(conn, "bad_payload")
		return
	}
	svc.Enqueue(song)
}

// adminPayload covers every privileged single-entry mutation.
type adminPayload struct {
	Type  string         `json:"type"`
	Room  string         `json:"room"`
	Token string         `json:"token"`
	ID    domain.EntryID `json:"id"`
}

type reorderPayload struct {
	Type  string           `json:"type"`
	Room  string           `json:"room"`
	Token string           `json:"token"`
	Order []domain.EntryID `json:"order"`
}

type songAdminPayload struct {
	Type  string      `json:"type"`
	Room  string      `json:"room"`
	Token string      `json:"token"`
	Song  songPayload `json:"song"`
}

// dropDenied is the transport policy for privileged mutations: not-found,
// bad token and rejected reorders all end here without a reply.
func dropDenied(kind string, err error) {
	if err != nil {
		log.Debug().Err(err).Str("module", "signal").Str("event", kind).Msg("privileged event dropped")
	}
}

func (ctl *Controller) handleQueueRemove(data []byte) {
	var p adminPayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad queue_remove payload")
		return
	}
	svc, ok := ctl.Rooms.Get(domain.RoomID(p.Room))
	if !ok {
		return
	}
	dropDenied(p.Type, svc.RemoveFromQueue(p.Token, p.ID))
}

func (ctl *Controller) handleQueueReorder(data []byte) {
	var p reorderPayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad queue_reorder payload")
		return
	}
	svc, ok := ctl.Rooms.Get(domain.RoomID(p.Room))
	if !ok {
		return
	}
	dropDenied(p.Type, svc.ReorderQueue(p.Token, p.Order))
}

func (ctl *Controller) handleFallbackAdd(data []byte) {
	var p songAdminPayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad fallback_add payload")
		return
	}
	svc, ok := ctl.Rooms.Get(domain.RoomID(p.Room))
	if !ok {
		return
	}
	song := domain.Song{
		VideoID:   p.Song.VideoID,
		Title:     p.Song.Title,
		Thumbnail: p.Song.Thumbnail,
		Channel:   p.Song.Channel,
		Duration:  p.Song.Duration,
	}
	dropDenied(p.Type, svc.AddToFallback(p.Token, song))
}

func (ctl *Controller) handleFallbackRemove(data []byte) {
	var p adminPayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad fallback_remove payload")
		return
	}
	svc, ok := ctl.Rooms.Get(domain.RoomID(p.Room))
	if !ok {
		return
	}
	dropDenied(p.Type, svc.RemoveFromFallback(p.Token, p.ID))
}

func (ctl *Controller) handleFallbackReorder(data []byte) {
	var p reorderPayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad fallback_reorder payload")
		return
	}
	svc, ok := ctl.Rooms.Get(domain.RoomID(p.Room))
	if !ok {
		return
	}
	dropDenied(p.Type, svc.ReorderFallback(p.Token, p.Order))
}
