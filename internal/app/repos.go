package app

import (
	"gorm.io/gorm"

	"github.com/filecanvas/filecanvas-backend/internal/data/repos"
	"github.com/filecanvas/filecanvas-backend/internal/platform/logger"
)

type Repos struct {
	Project repos.ProjectRepo
	Node    repos.NodeRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Project: repos.NewProjectRepo(db, log),
		Node:    repos.NewNodeRepo(db, log),
	}
}
