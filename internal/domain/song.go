package domain

import (
	"errors"
	"time"
)

const MaxSubmitterLen = 36

var (
	ErrVideoIDEmpty   = errors.New("video id empty")
	ErrSubmitterEmpty = errors.New("submitter empty")
)

// EntryID is unique within one room, assigned at insertion. It is not
// global: two rooms reuse the same numbers.
type EntryID int64

// Song is one queue or fallback entry. Everything a guest supplies here is
// opaque display data; nothing in these fields grants any capability.
type Song struct {
	ID          EntryID   `json:"id"`
	VideoID     string    `json:"video_id"`
	Title       string    `json:"title"`
	Thumbnail   string    `json:"thumbnail"`
	Channel     string    `json:"channel"`
	Duration    string    `json:"duration"`
	SubmittedAt time.Time `json:"submitted_at"`
	SubmittedBy string    `json:"submitted_by"`
}

// NewSong validates the only two fields the server actually relies on.
func NewSong(videoID, title, thumbnail, channel, duration, submitter string) (Song, error) {
	if videoID == "" {
		return Song{}, ErrVideoIDEmpty
	}
	if submitter == "" {
		return Song{}, ErrSubmitterEmpty
	}
	if len(submitter) > MaxSubmitterLen {
		submitter = submitter[:MaxSubmitterLen]
	}
	return Song{
		VideoID:     videoID,
		Title:       title,
		Thumbnail:   thumbnail,
		Channel:     channel,
		Duration:    duration,
		SubmittedAt: time.Now().UTC(),
		SubmittedBy: submitter,
	}, nil
}
