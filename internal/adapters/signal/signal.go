package signal

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"jamroom/internal/app"
	"jamroom/internal/config"
	"jamroom/internal/core"
)

var ErrBackpressure = errors.New("backpressure")

// Controller is the session gateway: it owns the websocket lifecycle and
// maps each connection to at most one room subscription in the hub.
type Controller struct {
	Rooms *app.RoomManager
	Hub   *app.Hub

	limiter    *SubmitRateLimiter
	readLimit  int64
	pingPeriod time.Duration
}

func NewController(rooms *app.RoomManager, hub *app.Hub, cfg *config.Config) *Controller {
	ctl := &Controller{
		Rooms:      rooms,
		Hub:        hub,
		readLimit:  cfg.ReadLimit,
		pingPeriod: cfg.PingPeriod,
	}
	if cfg.EnqueueLimit > 0 {
		ctl.limiter = NewSubmitRateLimiter(cfg.EnqueueLimit, cfg.EnqueueInterval)
	}
	return ctl
}

type WsConn struct {
	conn *websocket.Conn
	send chan core.Frame

	mu     sync.RWMutex
	closed bool
}

func (c *WsConn) TrySend(f core.Frame) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return errors.New("connection closed")
	}
	select {
	case c.send <- f:
	default:
		return ErrBackpressure
	}
	return nil
}

func (c *WsConn) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.send)
	_ = c.conn.Close()
	c.mu.Unlock()
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// session identifies one live connection. The id is minted per connection,
// never taken from the browser cookie: two tabs of one browser are two
// sessions, and closing one must not detach the other. The browser token
// only keys the enqueue rate limiter.
type session struct {
	id       core.SessionID
	limitKey string
}

func (ctl *Controller) HandleWS(ctx context.Context, c *gin.Context) {
	sess := &session{
		id:       core.SessionID(uuid.NewString()),
		limitKey: c.GetString("client_token"),
	}
	if sess.limitKey == "" {
		sess.limitKey = string(sess.id)
	}
	log.Info().Str("module", "signal").Str("sid", string(sess.id)).Msg("new WS connection")

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Msg("ws upgrade")
		return
	}
	if ctl.readLimit > 0 {
		ws.SetReadLimit(ctl.readLimit)
	}

	conn := &WsConn{
		conn: ws,
		send: make(chan core.Frame, 32),
	}

	ctx, cancel := context.WithCancel(ctx)
	go ctl.writePump(ctx, conn)
	go func() {
		defer cancel()
		ctl.readPump(ctx, sess, conn)
	}()
}
