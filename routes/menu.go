package routes

import (
	"github.com/gin-gonic/gin"

	menuControllers "github.com/dineflow/ordering-api/controllers/menu"
)

func SetupMenuRoutes(r *gin.Engine, d Deps) {
	menu := r.Group("/menu")
	{
		menu.GET("/products", menuControllers.GetProducts(d.Menu))
		menu.GET("/products/:id", menuControllers.GetProductByID(d.Menu))
		menu.GET("/products/:id/addons", menuControllers.GetProductAddOns(d.Menu, d.AddOns))
		menu.GET("/categories", menuControllers.GetCategories(d.Menu))
	}
}
