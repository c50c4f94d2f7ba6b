package app

import (
	"github.com/atcnagpur/contentadmin/internal/middleware/compress"
	ginLogger "github.com/atcnagpur/contentadmin/internal/middleware/logger"
	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
)

const (
	pingPath = "/ping"
)

func (a *App) SetupRouter() *gin.Engine {
	r := gin.New()
	if a.config.ProfileMode {
		pprof.Register(r)
	}

	r.Use(gin.Recovery())
	r.Use(ginLogger.Logger(a.logger.Named("middleware")))
	r.Use(compress.Compress())

	r.GET(pingPath, a.Ping)

	api := r.Group("/api")
	{
		resourcesAPI := api.Group("/resources")
		{
			resourcesAPI.GET("", a.GetSummary)
			resourcesAPI.GET("/:name", a.GetRecords)
			resourcesAPI.POST("/:name", a.CreateRecord)
			resourcesAPI.POST("/:name/load", a.LoadRecords)
			resourcesAPI.PUT("/:name/:id", a.UpdateRecord)
			resourcesAPI.DELETE("/:name/:id", a.RequestDelete)
		}

		deletionsAPI := api.Group("/deletions")
		{
			deletionsAPI.POST("/:token", a.ConfirmDelete)
			deletionsAPI.DELETE("/:token", a.CancelDelete)
		}
	}

	return r
}
