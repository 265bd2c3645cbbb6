package api

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/nickagee13/pantry-path/internal/store"
)

// WebSocket upgrader configuration
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for development
	},
}

// wsConnection maintains one change-feed connection with a client.
type wsConnection struct {
	conn *websocket.Conn
	send chan []byte
	mu   sync.Mutex

	unsubscribe []func()
}

// changeEvent is the opaque something-changed signal pushed to clients.
// It carries no diff; clients refetch the named collection.
type changeEvent struct {
	Collection string `json:"collection"`
}

// handleWebSocket upgrades the request and streams collection-changed
// signals for the session principal.
func (s *Server) handleWebSocket(c *gin.Context) {
	p := s.provider.Current()
	if p == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("Failed to upgrade connection: %v", err)
		return
	}

	ws := &wsConnection{
		conn: conn,
		send: make(chan []byte, 256),
	}

	for _, collection := range []store.Collection{store.CollectionGrocery, store.CollectionInventory, store.CollectionStores} {
		collection := collection
		unsub := s.remote.Changes.Subscribe(*p, collection, func() {
			ws.sendEvent(changeEvent{Collection: string(collection)})
		})
		ws.unsubscribe = append(ws.unsubscribe, unsub)
	}

	go ws.writePump()
	go ws.readPump()
}

// readPump discards inbound messages and tears the connection down on
// close.
func (ws *wsConnection) readPump() {
	defer func() {
		for _, unsub := range ws.unsubscribe {
			unsub()
		}
		ws.conn.Close()
	}()

	ws.conn.SetReadLimit(4 * 1024)
	ws.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	ws.conn.SetPongHandler(func(string) error {
		ws.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		if _, _, err := ws.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}
	}
}

// writePump pumps queued events to the connection and keeps it alive with
// pings.
func (ws *wsConnection) writePump() {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		ws.conn.Close()
	}()

	for {
		select {
		case message, ok := <-ws.send:
			ws.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				ws.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := ws.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			ws.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := ws.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// sendEvent queues an event, dropping it if the client can't keep up. A
// dropped signal is recovered by the next one for the same collection.
func (ws *wsConnection) sendEvent(event changeEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("Error marshaling change event: %v", err)
		return
	}

	ws.mu.Lock()
	defer ws.mu.Unlock()

	select {
	case ws.send <- data:
	default:
		log.Println("WebSocket buffer full, dropping change event")
	}
}
