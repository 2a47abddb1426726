package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/filecanvas/filecanvas-backend/internal/http/handlers"
	httpMW "github.com/filecanvas/filecanvas-backend/internal/http/middleware"
	"github.com/filecanvas/filecanvas-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log *logger.Logger

	HealthHandler   *httpH.HealthHandler
	ProjectHandler  *httpH.ProjectHandler
	NodeHandler     *httpH.NodeHandler
	SearchHandler   *httpH.SearchHandler
	StatsHandler    *httpH.StatsHandler
	RealtimeHandler *httpH.RealtimeHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware("filecanvas-backend"))
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.CORS())

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api")
	{
		// Projects
		if cfg.ProjectHandler != nil {
			api.POST("/projects", cfg.ProjectHandler.Create)
			api.GET("/projects", cfg.ProjectHandler.List)
			api.GET("/projects/:projectId", cfg.ProjectHandler.Get)
			api.PATCH("/projects/:projectId", cfg.ProjectHandler.Update)
			api.DELETE("/projects/:projectId", cfg.ProjectHandler.Delete)
		}

		// Nodes (project-scoped collection + node-scoped operations)
		if cfg.NodeHandler != nil {
			api.GET("/projects/:projectId/nodes", cfg.NodeHandler.List)
			api.POST("/projects/:projectId/nodes", cfg.NodeHandler.Create)
			api.PUT("/projects/:projectId/tree", cfg.NodeHandler.ReplaceTree)

			api.DELETE("/nodes/:nodeId", cfg.NodeHandler.Delete)
			api.PATCH("/nodes/:nodeId/position", cfg.NodeHandler.UpdatePosition)
			api.PATCH("/nodes/:nodeId/expanded", cfg.NodeHandler.UpdateExpanded)
			api.GET("/nodes/:nodeId/content", cfg.NodeHandler.GetContent)
			api.PUT("/nodes/:nodeId/content", cfg.NodeHandler.SaveContent)
		}

		// Search + stats
		if cfg.SearchHandler != nil {
			api.GET("/search", cfg.SearchHandler.Search)
		}
		if cfg.StatsHandler != nil {
			api.GET("/stats", cfg.StatsHandler.Get)
		}

		// Realtime (SSE)
		if cfg.RealtimeHandler != nil {
			api.GET("/realtime/sse", cfg.RealtimeHandler.SSEStream)
		}
	}

	return r
}
