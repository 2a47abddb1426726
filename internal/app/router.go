package app

import (
	apphttp "github.com/filecanvas/filecanvas-backend/internal/http"
	"github.com/filecanvas/filecanvas-backend/internal/platform/logger"
)

func wireServer(log *logger.Logger, h Handlers) *apphttp.Server {
	return apphttp.NewServer(apphttp.RouterConfig{
		Log:             log,
		HealthHandler:   h.Health,
		ProjectHandler:  h.Project,
		NodeHandler:     h.Node,
		SearchHandler:   h.Search,
		StatsHandler:    h.Stats,
		RealtimeHandler: h.Realtime,
	})
}
