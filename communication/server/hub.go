package server

import (
	"net/http"
	"sync"
	"time"

	"torres/communication"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// writeWait bounds a single write, so a stalled client can not hold up a
// broadcast for long.
const writeWait = 5 * time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Browser clients are served from elsewhere
	},
}

// conn is one WebSocket client. Writes are serialized per connection.
type conn struct {
	ws      *websocket.Conn
	session string
	mu      sync.Mutex
}

func (c *conn) send(typ string, data any) {
	env, err := communication.NewEnvelope(typ, data)
	if err != nil {
		log.Error().Err(err).Msgf("failed to encode %s message", typ)
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
	if err := c.ws.WriteJSON(env); err != nil {
		log.Debug().Err(err).Str("session", c.session).Msg("failed to send message")
	}
}

func (c *conn) sendError(message string) {
	c.send(communication.TypeError, communication.ErrorMessage{Message: message})
}

type hub struct {
	mu    sync.RWMutex
	conns map[*conn]struct{}
}

func newHub() *hub {
	return &hub{conns: make(map[*conn]struct{})}
}

func (h *hub) add(c *conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conns[c] = struct{}{}
}

func (h *hub) remove(c *conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.conns, c)
}

// broadcast sends to every connection registered at the time of the call.
// The registry is not locked while writing.
func (h *hub) broadcast(typ string, data any) {
	h.mu.RLock()
	conns := make([]*conn, 0, len(h.conns))
	for c := range h.conns {
		conns = append(conns, c)
	}
	h.mu.RUnlock()

	log.Debug().Msgf("broadcast: %s to %d connections", typ, len(conns))
	for _, c := range conns {
		c.send(typ, data)
	}
}
