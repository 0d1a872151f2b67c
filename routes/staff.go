package routes

import (
	"github.com/gin-gonic/gin"

	orderControllers "github.com/dineflow/ordering-api/controllers/order"
	"github.com/dineflow/ordering-api/middleware"
)

// Feed is the shared staff order feed; main wires its Broadcast into the
// lifecycle service so every committed transition is pushed.
var Feed = orderControllers.NewFeed()

func SetupStaffRoutes(r *gin.Engine, d Deps) {
	staff := r.Group("/staff")
	staff.Use(middleware.ValidateStaffKey(d.Cfg.StaffAPIKey))
	{
		staff.GET("/orders", orderControllers.GetAllOrders(d.Backend, d.Lifecycle))
		staff.GET("/orders/ws", Feed.Handler)
		staff.GET("/orders/export", orderControllers.ExportOrdersToExcel(d.Backend))
		staff.PUT("/orders/:orderID/status", orderControllers.AdvanceOrderStatus(d.Lifecycle))
	}
}
