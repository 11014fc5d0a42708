package server

import (
	"encoding/json"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/matzehuels/slidecraft/pkg/deck"
	"github.com/matzehuels/slidecraft/pkg/preview"
)

// Websocket message types.
const (
	MsgSelect        = "select"
	MsgSlideSelected = "slide-selected"
	MsgUpdated       = "presentation-updated"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
	sendBuffer = 16
)

// Message is the websocket envelope in both directions.
type Message struct {
	Type   string `json:"type"`
	Index  int    `json:"index"`
	Slides int    `json:"slides,omitempty"`
}

// Hub fans selection events out to every client watching a session. Each
// session has one [preview.Navigator] so all clients agree on the current
// slide.
type Hub struct {
	logger   *log.Logger
	upgrader websocket.Upgrader

	mu     sync.Mutex
	rooms  map[string]*room
	closed bool
}

type room struct {
	nav     *preview.Navigator
	clients map[*client]struct{}
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// NewHub returns an empty hub.
func NewHub(logger *log.Logger) *Hub {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Hub{logger: logger, rooms: map[string]*room{}}
}

// roomLocked returns the room for id, creating it around p. h.mu is held.
func (h *Hub) roomLocked(id string, p *deck.Presentation) *room {
	rm, ok := h.rooms[id]
	if ok {
		return rm
	}
	rm = &room{nav: preview.New(p), clients: map[*client]struct{}{}}
	rm.nav.OnSelect(func(i int) {
		h.broadcastLocked(rm, Message{Type: MsgSlideSelected, Index: i})
	})
	h.rooms[id] = rm
	return rm
}

// broadcastLocked queues msg for every client of rm. Slow clients drop
// messages rather than block the hub.
func (h *Hub) broadcastLocked(rm *room, msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	for c := range rm.clients {
		select {
		case c.send <- data:
		default:
			h.logger.Debug("websocket client too slow, dropping message", "type", msg.Type)
		}
	}
}

// Select moves the session's current slide and notifies its clients when
// the index changes. Out of range indexes are clamped.
func (h *Hub) Select(id string, index int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if rm, ok := h.rooms[id]; ok {
		rm.nav.Select(index)
	}
}

// Current returns the session's current slide, 0 when nobody watches it.
func (h *Hub) Current(id string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	if rm, ok := h.rooms[id]; ok {
		return rm.nav.Index()
	}
	return 0
}

// Update swaps in a new deck for a watched session and tells its clients.
func (h *Hub) Update(id string, p *deck.Presentation) {
	h.mu.Lock()
	defer h.mu.Unlock()
	rm, ok := h.rooms[id]
	if !ok {
		return
	}
	rm.nav.SetPresentation(p)
	h.broadcastLocked(rm, Message{Type: MsgUpdated, Index: rm.nav.Index(), Slides: p.Len()})
}

// Clients returns the number of connections watching a session.
func (h *Hub) Clients(id string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	if rm, ok := h.rooms[id]; ok {
		return len(rm.clients)
	}
	return 0
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for id, rm := range h.rooms {
		for c := range rm.clients {
			close(c.send)
		}
		delete(h.rooms, id)
	}
}

func (h *Hub) join(id string, p *deck.Presentation, c *client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	rm := h.roomLocked(id, p)
	rm.clients[c] = struct{}{}
	return true
}

func (h *Hub) leave(id string, c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	rm, ok := h.rooms[id]
	if !ok {
		return
	}
	if _, ok := rm.clients[c]; !ok {
		return
	}
	delete(rm.clients, c)
	close(c.send)
	if len(rm.clients) == 0 {
		delete(h.rooms, id)
	}
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	sess, err := s.Sessions.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	conn, err := s.hub.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already replied.
		s.Logger.Debug("websocket upgrade failed", "err", err)
		return
	}
	c := &client{conn: conn, send: make(chan []byte, sendBuffer)}
	if !s.hub.join(id, sess.Presentation, c) {
		conn.Close()
		return
	}
	s.Logger.Debug("websocket joined", "session", id, "clients", s.hub.Clients(id))

	go s.hub.writeLoop(c)
	s.hub.readLoop(id, c)
}

func (h *Hub) readLoop(id string, c *client) {
	defer func() {
		h.leave(id, c)
		c.conn.Close()
	}()
	c.conn.SetReadLimit(4096)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		var msg Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Debug("websocket read failed", "session", id, "err", err)
			}
			return
		}
		if msg.Type == MsgSelect {
			h.Select(id, msg.Index)
		}
	}
}

func (h *Hub) writeLoop(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case data, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
