package api

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"sports-arena/internal/game"

	"github.com/gorilla/websocket"
)

const (
	// MaxWSConnectionsTotal is the maximum number of WebSocket connections allowed
	MaxWSConnectionsTotal = 500

	// MaxWSConnectionsPerIP is the maximum WebSocket connections per IP
	MaxWSConnectionsPerIP = 10

	// StateBroadcastInterval paces arena:state messages
	StateBroadcastInterval = 100 * time.Millisecond

	wsWriteTimeout = 2 * time.Second
	wsMaxMessage   = 4 << 10
)

// StateSource is what the hub streams to clients.
type StateSource interface {
	Snapshot() *game.ArenaSnapshot
	Subscribe(fn func(game.GameEvent)) (cancel func())
}

// wsMessage is the envelope every broadcast uses
type wsMessage struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

type wsClient struct {
	conn *websocket.Conn
	ip   string
}

// WebSocketHub fans arena state and events out to spectators.
type WebSocketHub struct {
	clients    map[*websocket.Conn]*wsClient
	broadcast  chan []byte
	register   chan *wsClient
	unregister chan *websocket.Conn
	stop       chan struct{}
	stopOnce   sync.Once
	mu         sync.RWMutex

	upgrader  websocket.Upgrader
	wsLimiter *WebSocketRateLimiter
}

// NewWebSocketHub creates a hub accepting the given origins
func NewWebSocketHub(origins *OriginChecker) *WebSocketHub {
	h := &WebSocketHub{
		clients:    make(map[*websocket.Conn]*wsClient),
		broadcast:  make(chan []byte, 256),
		register:   make(chan *wsClient),
		unregister: make(chan *websocket.Conn),
		stop:       make(chan struct{}),
		wsLimiter:  NewWebSocketRateLimiter(MaxWSConnectionsPerIP),
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origins.Allowed(origin) {
				return true
			}
			log.Printf("⚠️ WebSocket connection rejected from origin: %s", origin)
			RecordConnectionRejected("origin")
			return false
		},
	}
	return h
}

// Run owns the client set until Stop is called
func (h *WebSocketHub) Run() {
	for {
		select {
		case <-h.stop:
			h.mu.Lock()
			for conn, c := range h.clients {
				h.wsLimiter.Release(c.ip)
				conn.Close()
				delete(h.clients, conn)
			}
			h.mu.Unlock()
			UpdateWSConnections(0)
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.conn] = client
			count := len(h.clients)
			h.mu.Unlock()

			log.Printf("📱 Spectator connected from %s (%d total)", client.ip, count)
			UpdateWSConnections(count)

		case conn := <-h.unregister:
			h.drop(conn)

		case message := <-h.broadcast:
			h.mu.RLock()
			var failed []*websocket.Conn
			for conn := range h.clients {
				conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
				if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
					failed = append(failed, conn)
				}
			}
			h.mu.RUnlock()
			for _, conn := range failed {
				h.drop(conn)
			}
			IncrementWSMessages()
		}
	}
}

func (h *WebSocketHub) drop(conn *websocket.Conn) {
	h.mu.Lock()
	client, ok := h.clients[conn]
	if ok {
		h.wsLimiter.Release(client.ip)
		delete(h.clients, conn)
		conn.Close()
	}
	count := len(h.clients)
	h.mu.Unlock()

	if ok {
		log.Printf("📱 Spectator disconnected (%d remaining)", count)
		UpdateWSConnections(count)
	}
}

// Stop closes every connection and ends Run and the broadcast loop
func (h *WebSocketHub) Stop() {
	h.stopOnce.Do(func() { close(h.stop) })
}

// Broadcast queues a message for all clients, dropping it when the queue is full
func (h *WebSocketHub) Broadcast(event string, data any) {
	b, err := json.Marshal(wsMessage{Event: event, Data: data})
	if err != nil {
		return
	}
	select {
	case h.broadcast <- b:
	default:
	}
}

// ClientCount returns the number of connected clients
func (h *WebSocketHub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// StartBroadcastLoop streams arena:state on a ticker and arena:event as
// events are emitted.
func (h *WebSocketHub) StartBroadcastLoop(src StateSource) {
	cancel := src.Subscribe(func(e game.GameEvent) {
		if h.ClientCount() > 0 {
			h.Broadcast("arena:event", e)
		}
	})

	go func() {
		ticker := time.NewTicker(StateBroadcastInterval)
		defer ticker.Stop()
		defer cancel()

		var lastSeq uint64
		for {
			select {
			case <-h.stop:
				return
			case <-ticker.C:
			}
			if h.ClientCount() == 0 {
				continue
			}
			snap := src.Snapshot()
			if snap == nil || snap.Sequence == lastSeq {
				continue
			}
			lastSeq = snap.Sequence
			h.Broadcast("arena:state", snap)
		}
	}()
}

// HandleWebSocket upgrades a spectator connection. Clients only listen;
// anything they send is discarded.
func (h *WebSocketHub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	ip := GetClientIP(r)

	if total := h.ClientCount(); total >= MaxWSConnectionsTotal {
		log.Printf("⚠️ WebSocket connection rejected: total limit reached (%d)", total)
		RecordConnectionRejected("ws_total_limit")
		http.Error(w, "Too many connections", http.StatusServiceUnavailable)
		return
	}

	if !h.wsLimiter.Allow(ip) {
		log.Printf("⚠️ WebSocket connection rejected from %s: per-IP limit reached", ip)
		RecordConnectionRejected("ws_ip_limit")
		http.Error(w, "Too many connections from your IP", http.StatusTooManyRequests)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		h.wsLimiter.Release(ip)
		return
	}
	conn.SetReadLimit(wsMaxMessage)

	select {
	case h.register <- &wsClient{conn: conn, ip: ip}:
	case <-h.stop:
		h.wsLimiter.Release(ip)
		conn.Close()
		return
	}

	go func() {
		defer func() {
			select {
			case h.unregister <- conn:
			case <-h.stop:
			}
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
