// cart_web_socket.go
package cartControllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/dineflow/ordering-api/auth"
	"github.com/dineflow/ordering-api/cart"
	"github.com/dineflow/ordering-api/models"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// GET /user/cart/ws
// Streams the customer's cart snapshots: one message per committed mutation,
// in mutation order, starting with the current state.
func CartWebSocketHandler(carts *cart.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := auth.CurrentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		store := carts.ForUser(user.ID)

		// Store notifications run under the store lock, so the callback
		// only enqueues; a full buffer drops the oldest snapshot since a
		// later one always supersedes it.
		updates := make(chan models.CartSnapshot, 16)
		unsubscribe := store.Subscribe(func(snap models.CartSnapshot) {
			for {
				select {
				case updates <- snap:
					return
				default:
					select {
					case <-updates:
					default:
					}
				}
			}
		})
		defer unsubscribe()

		if err := conn.WriteJSON(store.Snapshot()); err != nil {
			return
		}

		done := make(chan struct{})
		go func() {
			defer close(done)
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()

		for {
			select {
			case snap := <-updates:
				if err := conn.WriteJSON(snap); err != nil {
					return
				}
			case <-done:
				return
			}
		}
	}
}
