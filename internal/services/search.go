package services

import (
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/filecanvas/filecanvas-backend/internal/data/repos"
	types "github.com/filecanvas/filecanvas-backend/internal/domain"
	"github.com/filecanvas/filecanvas-backend/internal/platform/apierr"
	"github.com/filecanvas/filecanvas-backend/internal/platform/dbctx"
	"github.com/filecanvas/filecanvas-backend/internal/platform/logger"
)

const (
	defaultSearchLimit = 20
	maxSearchLimit     = 100
)

type SearchService interface {
	SearchNodes(dbc dbctx.Context, query string, projectID *uuid.UUID, limit int) ([]*types.FileSystemNode, error)
}

type searchService struct {
	db       *gorm.DB
	log      *logger.Logger
	nodeRepo repos.NodeRepo
	maxLimit int
}

// NewSearchService caps result sets at maxLimit; zero means the built-in cap.
func NewSearchService(db *gorm.DB, log *logger.Logger, nodeRepo repos.NodeRepo, maxLimit int) SearchService {
	if maxLimit <= 0 {
		maxLimit = maxSearchLimit
	}
	return &searchService{
		db:       db,
		log:      log.With("service", "SearchService"),
		nodeRepo: nodeRepo,
		maxLimit: maxLimit,
	}
}

func (s *searchService) SearchNodes(dbc dbctx.Context, query string, projectID *uuid.UUID, limit int) ([]*types.FileSystemNode, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, apierr.New(http.StatusBadRequest, "validation_error", errors.New("query is required"))
	}
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	if limit > s.maxLimit {
		limit = s.maxLimit
	}

	rows, err := s.nodeRepo.Search(dbc, query, projectID, limit)
	if err != nil {
		s.log.Warn("SearchNodes query error", "error", err)
		return nil, classifyStorageErr(err)
	}
	if rows == nil {
		rows = []*types.FileSystemNode{}
	}
	return rows, nil
}
