// Package app wires the whole backend together: config, logger, postgres,
// the SSE hub, repos, services, handlers, and the gin router.
package app

import (
	"context"
	"fmt"
	"os"
	"time"

	"gorm.io/gorm"

	"github.com/filecanvas/filecanvas-backend/internal/data/db"
	apphttp "github.com/filecanvas/filecanvas-backend/internal/http"
	"github.com/filecanvas/filecanvas-backend/internal/observability"
	"github.com/filecanvas/filecanvas-backend/internal/platform/logger"
	"github.com/filecanvas/filecanvas-backend/internal/realtime"
)

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Server   *apphttp.Server
	Cfg      Config
	Repos    Repos
	Services Services
	SSEHub   *realtime.SSEHub

	otelShutdown func(context.Context) error
	cancel       context.CancelFunc
}

func New() (*App, error) {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	log.Info("Loading environment variables...")
	cfg := LoadConfig(log)

	otelShutdown := observability.InitOTel(context.Background(), log, observability.OtelConfig{
		ServiceName: cfg.OtelServiceName,
		Environment: cfg.OtelEnvironment,
		Version:     cfg.OtelVersion,
	})

	pg, err := db.NewPostgresService(log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init postgres: %w", err)
	}
	if err := pg.AutoMigrateAll(); err != nil {
		log.Sync()
		return nil, fmt.Errorf("postgres automigrate: %w", err)
	}

	sseHub := realtime.NewSSEHub(log)

	reposet := wireRepos(pg.DB(), log)
	svcs, err := wireServices(pg.DB(), log, cfg, reposet, sseHub)
	if err != nil {
		log.Sync()
		return nil, err
	}
	h := wireHandlers(log, svcs, sseHub)
	srv := wireServer(log, h)

	return &App{
		Log:          log,
		DB:           pg.DB(),
		Server:       srv,
		Cfg:          cfg,
		Repos:        reposet,
		Services:     svcs,
		SSEHub:       sseHub,
		otelShutdown: otelShutdown,
	}, nil
}

// Start launches the background pieces that outlive a single request. Today
// that is only the Redis forwarder, and only when a bus is configured.
func (a *App) Start() error {
	if a.cancel != nil {
		return nil
	}
	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel

	if a.Services.SSEBus != nil {
		if err := a.Services.SSEBus.StartForwarder(ctx, a.SSEHub.Broadcast); err != nil {
			cancel()
			a.cancel = nil
			return fmt.Errorf("start SSE forwarder: %w", err)
		}
	}
	return nil
}

func (a *App) Run(address string) error {
	if a.Server == nil {
		return fmt.Errorf("app not initialized")
	}
	return a.Server.Run(address)
}

func (a *App) Close() {
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	if a.Services.SSEBus != nil {
		if err := a.Services.SSEBus.Close(); err != nil {
			a.Log.Warn("Failed to close SSE bus", "error", err)
		}
	}
	if a.otelShutdown != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.otelShutdown(ctx); err != nil {
			a.Log.Warn("Failed to shut down otel", "error", err)
		}
	}
	a.Log.Sync()
}
