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

	"github.com/avask/greenroom/internal/app"
	"github.com/avask/greenroom/internal/config"
	"github.com/avask/greenroom/internal/core"
	"github.com/avask/greenroom/internal/domain"
)

var ErrBackpressure = errors.New("backpressure")

type EventWSController struct {
	Coord   *app.Coordinator
	Cfg     *config.Config
	limiter *RequestLimiter
}

func NewEventWSController(coord *app.Coordinator, cfg *config.Config) *EventWSController {
	return &EventWSController{
		Coord:   coord,
		Cfg:     cfg,
		limiter: NewRequestLimiter(5, 30*time.Second),
	}
}

func (ctl *EventWSController) pingPeriod() time.Duration {
	if ctl.Cfg.PingPeriod > 0 {
		return ctl.Cfg.PingPeriod
	}
	return 54 * time.Second
}

type wsSignalConn struct {
	conn *websocket.Conn
	send chan core.Frame

	mu     sync.RWMutex
	closed bool
}

func (c *wsSignalConn) TrySend(f core.Frame) error {
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

func (c *wsSignalConn) Close() {
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

// HandleEvents upgrades the request and hands the connection to the
// coordinator. Each upgrade gets a fresh session id; ids are never reused
// while the process runs, so a stale disconnect can never clean up a
// newer connection.
func (ctl *EventWSController) HandleEvents(ctx context.Context, c *gin.Context) {
	sid := core.SessionID(uuid.NewString())
	log.Info().Str("module", "signal").Str("sid", string(sid)).Str("client", c.GetString("client_token")).Msg("new WS connection")

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Msg("ws upgrade")
		return
	}
	if ctl.Cfg.ReadLimit > 0 {
		ws.SetReadLimit(ctl.Cfg.ReadLimit)
	}

	// A peer that stops answering protocol pings is considered gone.
	pongWait := ctl.pingPeriod() + 10*time.Second
	_ = ws.SetReadDeadline(time.Now().Add(pongWait))
	ws.SetPongHandler(func(string) error {
		return ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	conn := &wsSignalConn{
		conn: ws,
		send: make(chan core.Frame, 32),
	}

	sess := core.NewMemberSession(domain.NewMember(""), conn)
	ctx, cancel := context.WithCancel(ctx)
	ctl.Coord.Connect(sid, sess)

	go ctl.writePump(ctx, conn)
	go func() {
		defer cancel()
		ctl.readPump(ctx, sid, conn)
		ctl.Coord.Disconnect(sid)
	}()
}
