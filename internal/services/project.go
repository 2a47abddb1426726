package services

import (
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/filecanvas/filecanvas-backend/internal/data/repos"
	types "github.com/filecanvas/filecanvas-backend/internal/domain"
	"github.com/filecanvas/filecanvas-backend/internal/platform/apierr"
	"github.com/filecanvas/filecanvas-backend/internal/platform/dbctx"
	"github.com/filecanvas/filecanvas-backend/internal/platform/logger"
)

type CreateProjectInput struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Owner       string         `json:"owner"`
	Settings    datatypes.JSON `json:"settings"`
}

// UpdateProjectInput is a patch: nil fields stay untouched. Settings replace
// wholesale when present; the server never merges into the stored blob.
type UpdateProjectInput struct {
	Name        *string        `json:"name"`
	Description *string        `json:"description"`
	IsActive    *bool          `json:"is_active"`
	Settings    datatypes.JSON `json:"settings"`
}

type DeleteProjectResult struct {
	ID   uuid.UUID `json:"id"`
	Hard bool      `json:"hard"`
}

type ProjectService interface {
	CreateProject(dbc dbctx.Context, input CreateProjectInput) (*types.Project, error)
	GetProject(dbc dbctx.Context, id uuid.UUID) (*types.Project, error)
	ListProjects(dbc dbctx.Context) ([]*types.Project, error)
	UpdateProject(dbc dbctx.Context, id uuid.UUID, patch UpdateProjectInput) (*types.Project, error)
	DeleteProject(dbc dbctx.Context, id uuid.UUID, hard bool) (*DeleteProjectResult, error)
}

type projectService struct {
	db          *gorm.DB
	log         *logger.Logger
	projectRepo repos.ProjectRepo
	nodeRepo    repos.NodeRepo
	notifier    ProjectNotifier
}

func NewProjectService(db *gorm.DB, log *logger.Logger, projectRepo repos.ProjectRepo, nodeRepo repos.NodeRepo, notifier ProjectNotifier) ProjectService {
	return &projectService{
		db:          db,
		log:         log.With("service", "ProjectService"),
		projectRepo: projectRepo,
		nodeRepo:    nodeRepo,
		notifier:    notifier,
	}
}

func (s *projectService) CreateProject(dbc dbctx.Context, input CreateProjectInput) (*types.Project, error) {
	owned := dbc.Tx == nil

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apierr.New(http.StatusBadRequest, "validation_error", errors.New("name is required"))
	}

	var out *types.Project
	err := inTx(s.db, dbc, func(dbc dbctx.Context) error {
		project := &types.Project{
			ID:          uuid.New(),
			Name:        name,
			Description: strings.TrimSpace(input.Description),
			Owner:       strings.TrimSpace(input.Owner),
			IsActive:    true,
			Settings:    input.Settings,
		}
		created, err := s.projectRepo.Create(dbc, []*types.Project{project})
		if err != nil {
			return err
		}
		out = created[0]
		return nil
	})
	if err != nil {
		s.log.Warn("CreateProject transaction error", "error", err)
		return nil, classifyStorageErr(err)
	}
	if owned {
		s.notifier.ProjectCreated(out)
	}
	return out, nil
}

func (s *projectService) GetProject(dbc dbctx.Context, id uuid.UUID) (*types.Project, error) {
	project, err := s.projectRepo.GetByID(dbc, id)
	if err != nil {
		s.log.Warn("GetProject query error", "project_id", id, "error", err)
		return nil, classifyStorageErr(err)
	}
	if project == nil {
		return nil, apierr.New(http.StatusNotFound, "project_not_found", errors.New("project does not exist"))
	}
	return project, nil
}

func (s *projectService) ListProjects(dbc dbctx.Context) ([]*types.Project, error) {
	rows, err := s.projectRepo.List(dbc)
	if err != nil {
		s.log.Warn("ListProjects query error", "error", err)
		return nil, classifyStorageErr(err)
	}
	if rows == nil {
		rows = []*types.Project{}
	}
	return rows, nil
}

func (s *projectService) UpdateProject(dbc dbctx.Context, id uuid.UUID, patch UpdateProjectInput) (*types.Project, error) {
	owned := dbc.Tx == nil

	updates := map[string]interface{}{}
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return nil, apierr.New(http.StatusBadRequest, "validation_error", errors.New("name cannot be empty"))
		}
		updates["name"] = name
	}
	if patch.Description != nil {
		updates["description"] = strings.TrimSpace(*patch.Description)
	}
	if patch.IsActive != nil {
		updates["is_active"] = *patch.IsActive
	}
	if patch.Settings != nil {
		updates["settings"] = patch.Settings
	}
	if len(updates) == 0 {
		return nil, apierr.New(http.StatusBadRequest, "validation_error", errors.New("no fields to update"))
	}

	var out *types.Project
	err := inTx(s.db, dbc, func(dbc dbctx.Context) error {
		project, err := s.projectRepo.GetByID(dbc, id)
		if err != nil {
			return err
		}
		if project == nil {
			return apierr.New(http.StatusNotFound, "project_not_found", errors.New("project does not exist"))
		}
		if err := s.projectRepo.UpdateFields(dbc, id, updates); err != nil {
			return err
		}
		updated, err := s.projectRepo.GetByID(dbc, id)
		if err != nil {
			return err
		}
		out = updated
		return nil
	})
	if err != nil {
		s.log.Warn("UpdateProject transaction error", "project_id", id, "error", err)
		return nil, classifyStorageErr(err)
	}
	if owned {
		s.notifier.ProjectUpdated(out)
	}
	return out, nil
}

// DeleteProject removes the project and every node it owns in one
// transaction. Soft by default so the cascade stays recoverable; hard uses
// the Unscoped variants and leaves nothing behind.
func (s *projectService) DeleteProject(dbc dbctx.Context, id uuid.UUID, hard bool) (*DeleteProjectResult, error) {
	owned := dbc.Tx == nil

	var out *DeleteProjectResult
	err := inTx(s.db, dbc, func(dbc dbctx.Context) error {
		project, err := s.projectRepo.GetByID(dbc, id)
		if err != nil {
			return err
		}
		if project == nil {
			return apierr.New(http.StatusNotFound, "project_not_found", errors.New("project does not exist"))
		}

		if hard {
			if err := s.nodeRepo.FullDeleteByProject(dbc, id); err != nil {
				return err
			}
			if err := s.projectRepo.FullDeleteByIDs(dbc, []uuid.UUID{id}); err != nil {
				return err
			}
		} else {
			if err := s.nodeRepo.SoftDeleteByProject(dbc, id); err != nil {
				return err
			}
			if err := s.projectRepo.SoftDeleteByIDs(dbc, []uuid.UUID{id}); err != nil {
				return err
			}
		}
		out = &DeleteProjectResult{ID: id, Hard: hard}
		return nil
	})
	if err != nil {
		s.log.Warn("DeleteProject transaction error", "project_id", id, "error", err)
		return nil, classifyStorageErr(err)
	}
	if owned {
		s.notifier.ProjectDeleted(id, hard)
	}
	return out, nil
}
