package websocket

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"slices"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/iamasit07/connect4-solo/backend/internal/domain"
	"github.com/iamasit07/connect4-solo/backend/internal/service/game"
)

const (
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
)

// Handler manages WebSocket dependencies
type Handler struct {
	ConnManager    *ConnectionManager
	SessionManager *game.SessionManager
	Upgrader       websocket.Upgrader
}

// NewHandler creates a new WebSocket handler. An empty allowedOrigins list
// accepts any origin.
func NewHandler(cm *ConnectionManager, sm *game.SessionManager, allowedOrigins []string) *Handler {
	return &Handler{
		ConnManager:    cm,
		SessionManager: sm,
		Upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || len(allowedOrigins) == 0 || slices.Contains(allowedOrigins, origin)
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// HandleWebSocket upgrades GET /ws?gameId=... and attaches the socket to that game.
func (h *Handler) HandleWebSocket(c *gin.Context) {
	gameID := c.Query("gameId")
	session, err := h.SessionManager.GetSession(gameID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	conn, err := h.Upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("[WS] Upgrade error: %v", err)
		return
	}

	h.handleConnection(conn, session)
}

// handleConnection manages the lifecycle of a single WebSocket connection
func (h *Handler) handleConnection(conn *websocket.Conn, session *game.GameSession) {
	ctx, cancel := context.WithCancel(context.Background())
	gameID := session.GameID

	// 1. Register and send the current state
	h.ConnManager.Subscribe(gameID, conn)
	log.Printf("[WS] Connection attached to game %s", gameID)

	// 2. Cleanup on exit
	defer func() {
		cancel()
		if current, ok := h.ConnManager.GameOf(conn); ok {
			gameID = current
		}
		h.ConnManager.Unsubscribe(gameID, conn)
		conn.Close()
		log.Printf("[WS] Connection closed for game %s", gameID)
	}()

	if err := h.ConnManager.SendTo(gameID, conn, session.StateMessage()); err != nil {
		return
	}

	// Set read deadline to detect stale connections
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	// Keep-alive pinger; control frames may be written concurrently with data
	go func() {
		ticker := time.NewTicker(pingPeriod)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
					return
				}
			}
		}
	}()

	// 3. Main Message Loop
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[WS] Game %s: client disconnected unexpectedly: %v", gameID, err)
			}
			return
		}
		conn.SetReadDeadline(time.Now().Add(pongWait))
		if current, ok := h.ConnManager.GameOf(conn); ok {
			gameID = current
		}

		var message domain.ClientMessage
		if err := json.Unmarshal(data, &message); err != nil {
			h.sendError(gameID, conn, "invalid message format")
			continue
		}

		switch message.Type {
		case "move":
			current, err := h.SessionManager.GetSession(gameID)
			if err != nil {
				h.sendError(gameID, conn, err.Error())
				continue
			}
			// results reach this socket through Broadcast
			if _, err := current.HandleMove(ctx, message.Column); err != nil {
				h.sendError(gameID, conn, err.Error())
			}

		case "restart":
			fresh, err := h.SessionManager.Restart(ctx, gameID, message.BotFirst)
			if err != nil {
				h.sendError(gameID, conn, err.Error())
				continue
			}
			// the session manager has already moved every watcher and sent the new state
			gameID = fresh.GameID

		case "ping":
			_ = h.ConnManager.SendTo(gameID, conn, domain.ServerMessage{Type: "pong"})

		default:
			h.sendError(gameID, conn, "unknown message type")
		}
	}
}

func (h *Handler) sendError(gameID string, conn *websocket.Conn, msg string) {
	_ = h.ConnManager.SendTo(gameID, conn, domain.ErrorMessage{Type: "error", Message: msg})
}
