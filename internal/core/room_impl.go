package core

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"jamroom/internal/domain"
)

// roomImpl is a threadsafe in-memory room. All mutations run under one
// mutex and publish their events before releasing it, so subscribers of a
// room observe deltas in exactly the order the mutations committed.
type roomImpl struct {
	mu       sync.Mutex
	room     *domain.Room
	bc       Broadcaster
	nextID   domain.EntryID
	lastSeen time.Time
}

func NewRoomService(room *domain.Room, bc Broadcaster) RoomService {
	return &roomImpl{
		room:     room,
		bc:       bc,
		lastSeen: time.Now().UTC(),
	}
}

func (r *roomImpl) ID() domain.RoomID { return r.room.ID }

func (r *roomImpl) CreatedAt() time.Time { return r.room.CreatedAt }

func (r *roomImpl) LastActive() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastSeen
}

// touch marks the room active. Callers hold r.mu.
func (r *roomImpl) touch() { r.lastSeen = time.Now().UTC() }

func (r *roomImpl) Snapshot() RoomStateEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.touch()
	return RoomStateEvent{
		Type:         TypeRoomState,
		RoomID:       r.room.ID,
		HostName:     r.room.HostName,
		Current:      copySong(r.room.Current),
		StartedAt:    r.startedAtLocked(),
		Playing:      r.room.Playing,
		FromFallback: r.room.FromFallback,
		Queue:        copySongs(r.room.Queue),
	}
}

func (r *roomImpl) AdminSnapshot(token string) (AdminView, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := Authorize(r.room, token); err != nil {
		return AdminView{}, err
	}
	return AdminView{
		RoomID:       r.room.ID,
		HostName:     r.room.HostName,
		AdminToken:   r.room.AdminToken,
		Current:      copySong(r.room.Current),
		StartedAt:    r.startedAtLocked(),
		Playing:      r.room.Playing,
		FromFallback: r.room.FromFallback,
		Queue:        copySongs(r.room.Queue),
		Fallback:     copySongs(r.room.Fallback),
		FallbackIdx:  r.room.FallbackIdx,
		CreatedAt:    r.room.CreatedAt,
	}, nil
}

// Enqueue appends to the tail of the guest queue. No token: any guest may
// submit. Returns the entry with its freshly assigned id.
func (r *roomImpl) Enqueue(song domain.Song) domain.Song {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.touch()
	r.nextID++
	song.ID = r.nextID
	r.room.Queue = append(r.room.Queue, song)
	log.Debug().Str("module", "core.room").Str("room", string(r.room.ID)).
		Int64("entry", int64(song.ID)).Str("by", song.SubmittedBy).Msg("enqueued")
	r.publishQueueLocked()
	return song
}

func (r *roomImpl) RemoveFromQueue(token string, id domain.EntryID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := Authorize(r.room, token); err != nil {
		return err
	}
	r.touch()
	r.room.Queue = removeByID(r.room.Queue, id)
	r.publishQueueLocked()
	return nil
}

func (r *roomImpl) ReorderQueue(token string, order []domain.EntryID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := Authorize(r.room, token); err != nil {
		return err
	}
	reordered, ok := applyOrder(r.room.Queue, order)
	if !ok {
		return ErrInvalidInput
	}
	r.touch()
	r.room.Queue = reordered
	r.publishQueueLocked()
	return nil
}

func (r *roomImpl) AddToFallback(token string, song domain.Song) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := Authorize(r.room, token); err != nil {
		return err
	}
	r.touch()
	r.nextID++
	song.ID = r.nextID
	r.room.Fallback = append(r.room.Fallback, song)
	r.publishFallbackLocked()
	return nil
}

func (r *roomImpl) RemoveFromFallback(token string, id domain.EntryID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := Authorize(r.room, token); err != nil {
		return err
	}
	r.touch()
	removed := -1
	for i, s := range r.room.Fallback {
		if s.ID == id {
			removed = i
			break
		}
	}
	if removed >= 0 {
		r.room.Fallback = append(r.room.Fallback[:removed], r.room.Fallback[removed+1:]...)
	}
	r.publishFallbackLocked()
	// Entries before the cursor shift the list left, so the cursor follows
	// them down to keep pointing at the same upcoming song. It must also stay
	// a valid index; on an empty list it rests at 0.
	cursor := r.room.FallbackIdx
	if removed >= 0 && removed < cursor {
		cursor--
	}
	if n := len(r.room.Fallback); n == 0 {
		cursor = 0
	} else if cursor >= n {
		cursor %= n
	}
	if cursor != r.room.FallbackIdx {
		r.room.FallbackIdx = cursor
		r.bc.Publish(r.room.ID, FallbackCursorEvent{Type: TypeFallbackCursor, Cursor: cursor})
	}
	return nil
}

func (r *roomImpl) ReorderFallback(token string, order []domain.EntryID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := Authorize(r.room, token); err != nil {
		return err
	}
	reordered, ok := applyOrder(r.room.Fallback, order)
	if !ok {
		return ErrInvalidInput
	}
	r.touch()
	r.room.Fallback = reordered
	r.publishFallbackLocked()
	return nil
}

// SetCurrent promotes an arbitrary song to "now playing". The room keeps a
// copy; the song's queue or fallback entry, if any, is untouched.
func (r *roomImpl) SetCurrent(token string, song domain.Song) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := Authorize(r.room, token); err != nil {
		return err
	}
	r.touch()
	r.room.Current = &song
	r.room.StartedAt = time.Now().UTC()
	r.room.Playing = true
	r.room.FromFallback = false
	log.Info().Str("module", "core.room").Str("room", string(r.room.ID)).
		Str("video", song.VideoID).Msg("current song set")
	r.publishNowPlayingLocked()
	return nil
}

func (r *roomImpl) TogglePlay(token string, playing bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := Authorize(r.room, token); err != nil {
		return err
	}
	if r.room.Current == nil {
		// An idle room has nothing to pause or resume.
		return nil
	}
	r.touch()
	r.room.Playing = playing
	r.bc.Publish(r.room.ID, PlayStateEvent{Type: TypePlayState, Playing: playing})
	return nil
}

// Advance is the single selection step behind "play next", "skip" and
// "song ended". Guest queue strictly before fallback; with both empty the
// room goes idle.
func (r *roomImpl) Advance(token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := Authorize(r.room, token); err != nil {
		return err
	}
	r.touch()
	switch {
	case len(r.room.Queue) > 0:
		next := r.room.Queue[0]
		r.room.Queue = r.room.Queue[1:]
		r.room.Current = &next
		r.room.StartedAt = time.Now().UTC()
		r.room.Playing = true
		r.room.FromFallback = false
		r.publishNowPlayingLocked()
		r.publishQueueLocked()
	case len(r.room.Fallback) > 0:
		next := r.room.Fallback[r.room.FallbackIdx]
		r.room.Current = &next
		r.room.StartedAt = time.Now().UTC()
		r.room.Playing = true
		r.room.FromFallback = true
		r.room.FallbackIdx = (r.room.FallbackIdx + 1) % len(r.room.Fallback)
		r.publishNowPlayingLocked()
		r.bc.Publish(r.room.ID, FallbackCursorEvent{Type: TypeFallbackCursor, Cursor: r.room.FallbackIdx})
	default:
		r.room.Current = nil
		r.room.StartedAt = time.Time{}
		r.room.Playing = false
		r.room.FromFallback = false
		log.Debug().Str("module", "core.room").Str("room", string(r.room.ID)).Msg("both sources empty, going idle")
		r.publishNowPlayingLocked()
	}
	return nil
}

func (r *roomImpl) publishQueueLocked() {
	r.bc.Publish(r.room.ID, QueueEvent{Type: TypeQueue, Queue: copySongs(r.room.Queue)})
}

func (r *roomImpl) publishFallbackLocked() {
	r.bc.Publish(r.room.ID, FallbackEvent{Type: TypeFallback, Fallback: copySongs(r.room.Fallback)})
}

func (r *roomImpl) publishNowPlayingLocked() {
	r.bc.Publish(r.room.ID, NowPlayingEvent{
		Type:         TypeNowPlaying,
		Current:      copySong(r.room.Current),
		StartedAt:    r.startedAtLocked(),
		Playing:      r.room.Playing,
		FromFallback: r.room.FromFallback,
	})
}

func (r *roomImpl) startedAtLocked() *time.Time {
	if r.room.Current == nil {
		return nil
	}
	t := r.room.StartedAt
	return &t
}

func copySongs(in []domain.Song) []domain.Song {
	out := make([]domain.Song, len(in))
	copy(out, in)
	return out
}

func copySong(s *domain.Song) *domain.Song {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}

func removeByID(list []domain.Song, id domain.EntryID) []domain.Song {
	out := list[:0]
	for _, s := range list {
		if s.ID != id {
			out = append(out, s)
		}
	}
	return out
}

// applyOrder rebuilds list in the submitted order. It refuses anything that
// is not a permutation of the current entry ids.
func applyOrder(list []domain.Song, order []domain.EntryID) ([]domain.Song, bool) {
	if len(order) != len(list) {
		return nil, false
	}
	byID := make(map[domain.EntryID]domain.Song, len(list))
	for _, s := range list {
		byID[s.ID] = s
	}
	out := make([]domain.Song, 0, len(order))
	for _, id := range order {
		s, ok := byID[id]
		if !ok {
			return nil, false
		}
		delete(byID, id)
		out = append(out, s)
	}
	return out, true
}
