package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/dineflow/ordering-api/backend"
	"github.com/dineflow/ordering-api/cart"
	"github.com/dineflow/ordering-api/catalog"
	"github.com/dineflow/ordering-api/checkout"
	"github.com/dineflow/ordering-api/config"
	"github.com/dineflow/ordering-api/kvstore"
	"github.com/dineflow/ordering-api/lifecycle"
)

// Deps bundles the wired components handed to the route groups.
type Deps struct {
	DB        *gorm.DB
	Cfg       config.Config
	Carts     *cart.Manager
	Menu      catalog.MenuCatalog
	AddOns    catalog.AddOnCatalog
	Backend   backend.OrderBackend
	KV        kvstore.Store
	Assembler *checkout.Assembler
	Lifecycle *lifecycle.Service
}

// SetupRoutes is the single entry-point that wires up the Auth, Menu, User
// and Staff route groups.
func SetupRoutes(r *gin.Engine, d Deps) {
	// Public auth routes (no middleware)
	SetupAuthRoutes(r, d)

	// Public menu browsing
	SetupMenuRoutes(r, d)

	// Customer routes (JWT-protected): cart, checkout, orders, profile
	SetupUserRoutes(r, d)

	// Staff routes (API-key-protected): fulfillment flow
	SetupStaffRoutes(r, d)
}
