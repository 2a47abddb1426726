package app

import (
	"github.com/filecanvas/filecanvas-backend/internal/http/handlers"
	"github.com/filecanvas/filecanvas-backend/internal/platform/logger"
	"github.com/filecanvas/filecanvas-backend/internal/realtime"
)

type Handlers struct {
	Health   *handlers.HealthHandler
	Project  *handlers.ProjectHandler
	Node     *handlers.NodeHandler
	Search   *handlers.SearchHandler
	Stats    *handlers.StatsHandler
	Realtime *handlers.RealtimeHandler
}

func wireHandlers(log *logger.Logger, svcs Services, sseHub *realtime.SSEHub) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:   handlers.NewHealthHandler(),
		Project:  handlers.NewProjectHandler(log, svcs.Project),
		Node:     handlers.NewNodeHandler(log, svcs.Tree),
		Search:   handlers.NewSearchHandler(log, svcs.Search),
		Stats:    handlers.NewStatsHandler(log, svcs.Stats),
		Realtime: handlers.NewRealtimeHandler(log, sseHub),
	}
}
