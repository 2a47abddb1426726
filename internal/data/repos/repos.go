package repos

import (
	"gorm.io/gorm"

	"github.com/filecanvas/filecanvas-backend/internal/data/repos/canvas"
	"github.com/filecanvas/filecanvas-backend/internal/platform/logger"
)

type ProjectRepo = canvas.ProjectRepo
type NodeRepo = canvas.NodeRepo

func NewProjectRepo(db *gorm.DB, baseLog *logger.Logger) ProjectRepo {
	return canvas.NewProjectRepo(db, baseLog)
}

func NewNodeRepo(db *gorm.DB, baseLog *logger.Logger) NodeRepo {
	return canvas.NewNodeRepo(db, baseLog)
}
