// order_web_socket.go
package orderControllers

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/dineflow/ordering-api/models"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Feed broadcasts committed order transitions to connected staff clients.
// Wire its Broadcast method as the lifecycle notifier.
type Feed struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]bool
}

func NewFeed() *Feed {
	return &Feed{clients: make(map[*websocket.Conn]bool)}
}

// GET /staff/orders/ws
func (f *Feed) Handler(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	f.mu.Lock()
	f.clients[conn] = true
	f.mu.Unlock()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			f.mu.Lock()
			delete(f.clients, conn)
			f.mu.Unlock()
			break
		}
	}
}

// Broadcast pushes the order to every connected client. Dead connections
// are dropped on their next read, not here.
func (f *Feed) Broadcast(order models.Order) {
	data, err := json.Marshal(order)
	if err != nil {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for client := range f.clients {
		client.WriteMessage(websocket.TextMessage, data)
	}
}
