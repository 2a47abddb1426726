package services

import (
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/filecanvas/filecanvas-backend/internal/data/repos"
	types "github.com/filecanvas/filecanvas-backend/internal/domain"
	"github.com/filecanvas/filecanvas-backend/internal/platform/dbctx"
	"github.com/filecanvas/filecanvas-backend/internal/platform/logger"
)

type Stats struct {
	Projects     int64 `json:"projects"`
	Nodes        int64 `json:"nodes"`
	Files        int64 `json:"files"`
	Folders      int64 `json:"folders"`
	ContentBytes int64 `json:"content_bytes"`
}

type StatsService interface {
	Stats(dbc dbctx.Context) (*Stats, error)
}

type statsService struct {
	db          *gorm.DB
	log         *logger.Logger
	projectRepo repos.ProjectRepo
	nodeRepo    repos.NodeRepo
}

func NewStatsService(db *gorm.DB, log *logger.Logger, projectRepo repos.ProjectRepo, nodeRepo repos.NodeRepo) StatsService {
	return &statsService{
		db:          db,
		log:         log.With("service", "StatsService"),
		projectRepo: projectRepo,
		nodeRepo:    nodeRepo,
	}
}

// Stats fans the five count queries out in parallel. A transaction handle is
// not goroutine-safe, so the queries always run on the base pool even when
// dbc carries one.
func (s *statsService) Stats(dbc dbctx.Context) (*Stats, error) {
	g, ctx := errgroup.WithContext(dbc.Ctx)
	read := dbctx.Context{Ctx: ctx}

	out := &Stats{}
	g.Go(func() error {
		n, err := s.projectRepo.Count(read)
		out.Projects = n
		return err
	})
	g.Go(func() error {
		n, err := s.nodeRepo.CountAll(read)
		out.Nodes = n
		return err
	})
	g.Go(func() error {
		n, err := s.nodeRepo.CountByKind(read, types.NodeKindFile)
		out.Files = n
		return err
	})
	g.Go(func() error {
		n, err := s.nodeRepo.CountByKind(read, types.NodeKindFolder)
		out.Folders = n
		return err
	})
	g.Go(func() error {
		n, err := s.nodeRepo.SumFileSizes(read)
		out.ContentBytes = n
		return err
	})
	if err := g.Wait(); err != nil {
		s.log.Warn("Stats query error", "error", err)
		return nil, classifyStorageErr(err)
	}
	return out, nil
}
