package websocket

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/iamasit07/connect4-solo/backend/internal/domain"
)

const writeWait = 10 * time.Second

// connection pairs a socket with its write lock; gorilla connections allow
// one concurrent writer only.
type connection struct {
	conn    *websocket.Conn
	writeMu sync.Mutex
}

func (c *connection) send(message any) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteJSON(message)
}

// ConnectionManager tracks which sockets are watching which game.
type ConnectionManager struct {
	games    map[string]map[*websocket.Conn]*connection // gameID → watchers
	watching map[*websocket.Conn]string                 // socket → gameID
	mu       sync.RWMutex
}

func NewConnectionManager() *ConnectionManager {
	return &ConnectionManager{
		games:    make(map[string]map[*websocket.Conn]*connection),
		watching: make(map[*websocket.Conn]string),
	}
}

func (cm *ConnectionManager) Subscribe(gameID string, conn *websocket.Conn) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	watchers, ok := cm.games[gameID]
	if !ok {
		watchers = make(map[*websocket.Conn]*connection)
		cm.games[gameID] = watchers
	}
	if _, exists := watchers[conn]; !exists {
		watchers[conn] = &connection{conn: conn}
	}
	cm.watching[conn] = gameID
}

func (cm *ConnectionManager) Unsubscribe(gameID string, conn *websocket.Conn) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	watchers, ok := cm.games[gameID]
	if !ok {
		return
	}
	delete(watchers, conn)
	if cm.watching[conn] == gameID {
		delete(cm.watching, conn)
	}
	if len(watchers) == 0 {
		delete(cm.games, gameID)
	}
}

// Rename moves every watcher of oldID over to newID, used when a game restarts.
func (cm *ConnectionManager) Rename(oldID, newID string) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	watchers, ok := cm.games[oldID]
	if !ok {
		return
	}
	delete(cm.games, oldID)
	for conn := range watchers {
		cm.watching[conn] = newID
	}
	target, ok := cm.games[newID]
	if !ok {
		cm.games[newID] = watchers
		return
	}
	for conn, c := range watchers {
		target[conn] = c
	}
}

// GameOf reports the game a socket currently follows. It changes when the
// game is restarted from another socket or over HTTP.
func (cm *ConnectionManager) GameOf(conn *websocket.Conn) (string, bool) {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	gameID, ok := cm.watching[conn]
	return gameID, ok
}

func (cm *ConnectionManager) WatcherCount(gameID string) int {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return len(cm.games[gameID])
}

// SendTo writes to one watcher of a game. Unknown sockets are ignored.
func (cm *ConnectionManager) SendTo(gameID string, conn *websocket.Conn, message any) error {
	cm.mu.RLock()
	c, ok := cm.games[gameID][conn]
	cm.mu.RUnlock()
	if !ok {
		return nil
	}
	return c.send(message)
}

// Broadcast sends message to every watcher of gameID in order, so a
// move_made always reaches clients before the game_over that follows it.
func (cm *ConnectionManager) Broadcast(gameID string, message domain.ServerMessage) {
	cm.mu.RLock()
	targets := make([]*connection, 0, len(cm.games[gameID]))
	for _, c := range cm.games[gameID] {
		targets = append(targets, c)
	}
	cm.mu.RUnlock()

	for _, c := range targets {
		// a failed write means the reader side will close and unsubscribe
		_ = c.send(message)
	}
}
