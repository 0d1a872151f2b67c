package routes

import (
	"github.com/gin-gonic/gin"

	cartControllers "github.com/dineflow/ordering-api/controllers/cart"
	checkoutControllers "github.com/dineflow/ordering-api/controllers/checkout"
	orderControllers "github.com/dineflow/ordering-api/controllers/order"
	userControllers "github.com/dineflow/ordering-api/controllers/user"
	"github.com/dineflow/ordering-api/middleware"
)

// SetupUserRoutes registers all "/user/*" endpoints. Requires JWT middleware.
func SetupUserRoutes(r *gin.Engine, d Deps) {
	userGroup := r.Group("/user")
	userGroup.Use(middleware.ValidateToken(d.Cfg.JWTSecret))
	{
		// ──────────────── Shopping Cart ────────────────
		cartGroup := userGroup.Group("/cart")
		{
			cartGroup.GET("", cartControllers.GetCart(d.Carts))
			cartGroup.GET("/ws", cartControllers.CartWebSocketHandler(d.Carts))
			cartGroup.POST("/items", cartControllers.AddItem(d.Carts, d.Menu))
			cartGroup.PATCH("/items/:lineID", cartControllers.UpdateQuantity(d.Carts))
			cartGroup.DELETE("/items/:lineID", cartControllers.RemoveItem(d.Carts))
			cartGroup.DELETE("", cartControllers.ClearCart(d.Carts))
		}

		// ──────────────── Checkout ────────────────
		userGroup.POST("/checkout", checkoutControllers.ProceedToCheckout(d.Assembler))

		// ──────────────── Orders ────────────────
		userGroup.GET("/orders", orderControllers.GetUserOrders(d.Backend, d.Lifecycle))
		userGroup.GET("/orders/:orderID", orderControllers.GetUserOrder(d.Backend, d.Lifecycle))
		userGroup.POST("/orders/:orderID/cancel", orderControllers.CancelOrder(d.Lifecycle))

		// ──────────────── Saved Addresses & Cards ────────────────
		userGroup.GET("/addresses", userControllers.GetAddresses(d.KV))
		userGroup.POST("/addresses", userControllers.SaveAddress(d.KV))
		userGroup.DELETE("/addresses/:label", userControllers.DeleteAddress(d.KV))
		userGroup.GET("/cards", userControllers.GetCards(d.KV))
		userGroup.POST("/cards", userControllers.SaveCard(d.KV))
	}
}
