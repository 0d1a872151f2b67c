package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/dineflow/ordering-api/auth"
)

func SetupAuthRoutes(r *gin.Engine, d Deps) {
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/token", auth.IssueTokenHandler(d.DB, d.Cfg.JWTSecret))
	}
}
