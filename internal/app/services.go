package app

import (
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/filecanvas/filecanvas-backend/internal/platform/logger"
	"github.com/filecanvas/filecanvas-backend/internal/realtime"
	"github.com/filecanvas/filecanvas-backend/internal/realtime/bus"
	"github.com/filecanvas/filecanvas-backend/internal/services"
)

type Services struct {
	Tree    services.TreeService
	Project services.ProjectService
	Search  services.SearchService
	Stats   services.StatsService

	TreeNotifier    services.TreeNotifier
	ProjectNotifier services.ProjectNotifier

	// SSEBus is non-nil only when REDIS_ADDR is configured.
	SSEBus bus.Bus
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, reposet Repos, sseHub *realtime.SSEHub) (Services, error) {
	log.Info("Wiring services...")

	var (
		emitter services.SSEEmitter
		sseBus  bus.Bus
	)
	if strings.TrimSpace(cfg.RedisAddr) != "" {
		// Multi-instance: publish to Redis and let every instance's forwarder
		// fan out to its own hub, this one included.
		b, err := bus.NewRedisBus(log)
		if err != nil {
			return Services{}, fmt.Errorf("init redis SSE bus: %w", err)
		}
		sseBus = b
		emitter = &services.RedisEmitter{Bus: b}
	} else {
		emitter = &services.HubEmitter{Hub: sseHub}
	}

	treeNotifier := services.NewTreeNotifier(emitter)
	projectNotifier := services.NewProjectNotifier(emitter)

	return Services{
		Tree:            services.NewTreeService(db, log, reposet.Project, reposet.Node, treeNotifier),
		Project:         services.NewProjectService(db, log, reposet.Project, reposet.Node, projectNotifier),
		Search:          services.NewSearchService(db, log, reposet.Node, cfg.SearchMaxResults),
		Stats:           services.NewStatsService(db, log, reposet.Project, reposet.Node),
		TreeNotifier:    treeNotifier,
		ProjectNotifier: projectNotifier,
		SSEBus:          sseBus,
	}, nil
}
