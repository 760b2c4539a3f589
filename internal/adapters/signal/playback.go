package signal

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"jamroom/internal/domain"
)

func (ctl *Controller) handlePlaySong(data []byte) {
	var p songAdminPayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad play_song payload")
		return
	}
	svc, ok := ctl.Rooms.Get(domain.RoomID(p.Room))
	if !ok {
		return
	}
	song := domain.Song{
		ID:        p.Song.ID,
		VideoID:   p.Song.VideoID,
		Title:     p.Song.Title,
		Thumbnail: p.Song.Thumbnail,
		Channel:   p.Song.Channel,
		Duration:  p.Song.Duration,
	}
	dropDenied(p.Type, svc.SetCurrent(p.Token, song))
}

func (ctl *Controller) handleTogglePlay(data []byte) {
	type togglePayload struct {
		Type    string `json:"type"`
		Room    string `json:"room"`
		Token   string `json:"token"`
		Playing bool   `json:"playing"`
	}
	var p togglePayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad toggle_play payload")
		return
	}
	svc, ok := ctl.Rooms.Get(domain.RoomID(p.Room))
	if !ok {
		return
	}
	dropDenied(p.Type, svc.TogglePlay(p.Token, p.Playing))
}

func (ctl *Controller) handleAdvance(sess *session, trigger string, data []byte) {
	type advancePayload struct {
		Type  string `json:"type"`
		Room  string `json:"room"`
		Token string `json:"token"`
	}
	var p advancePayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad advance payload")
		return
	}
	svc, ok := ctl.Rooms.Get(domain.RoomID(p.Room))
	if !ok {
		return
	}
	log.Debug().Str("module", "signal").Str("sid", string(sess.id)).
		Str("trigger", trigger).Str("room", p.Room).Msg("advance")
	dropDenied(trigger, svc.Advance(p.Token))
}
