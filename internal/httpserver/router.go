package httpserver

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type Router struct {
	Engine *gin.Engine
}

// NewRouter builds the HTTP surface: health probes, metrics, and the thin
// API handlers delegating into the services.
func NewRouter(h *Handler, db *pgxpool.Pool, logger *zap.Logger) *Router {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.GET("/readyz", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c, 1*time.Second)
		defer cancel()

		if err := db.Ping(ctx); err != nil {
			c.JSON(500, gin.H{"status": "db_not_ready", "error": err.Error()})
			return
		}
		c.JSON(200, gin.H{"status": "ready"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api/v1")
	{
		api.POST("/messages", h.SendMessage)
		api.GET("/messages/:id", h.GetMessage)

		admin := api.Group("/admin")
		{
			admin.PUT("/templates/:key", h.PutTemplate)
			admin.GET("/templates/:key", h.GetTemplate)
			admin.PUT("/layouts/:key", h.PutLayout)
			admin.GET("/layouts/:key", h.GetLayout)
			admin.GET("/localization-data", h.ExportLocalizationData)
			admin.PUT("/localization-data", h.ImportLocalizationData)
		}
	}

	return &Router{Engine: r}
}
