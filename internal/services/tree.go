package services

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/filecanvas/filecanvas-backend/internal/data/repos"
	types "github.com/filecanvas/filecanvas-backend/internal/domain"
	"github.com/filecanvas/filecanvas-backend/internal/platform/apierr"
	"github.com/filecanvas/filecanvas-backend/internal/platform/dbctx"
	"github.com/filecanvas/filecanvas-backend/internal/platform/logger"
	"github.com/filecanvas/filecanvas-backend/internal/tree"
)

// Node list views.
const (
	ViewFlat = "flat"
	ViewTree = "tree"
)

// Default canvas placement for new nodes. Files land below-right of their
// parent, folders directly below; both get a small random jitter so stacked
// siblings stay distinguishable. Roots start near the canvas origin.
const (
	positionJitter = 40.0

	fileOffsetX = 80.0
	fileOffsetY = 60.0

	folderOffsetY = 100.0

	rootBaseX = 100.0
	rootBaseY = 100.0
)

type CreateNodeInput struct {
	ParentID *uuid.UUID `json:"parent_id"`
	Kind     string     `json:"kind"`
	Name     string     `json:"name"`
	X        *float64   `json:"x"`
	Y        *float64   `json:"y"`
	Content  string     `json:"content"`
}

type DeleteNodeResult struct {
	ID            uuid.UUID   `json:"id"`
	ProjectID     uuid.UUID   `json:"project_id"`
	DescendantIDs []uuid.UUID `json:"descendant_ids"`
}

type ReplaceTreeResult struct {
	ProjectID uuid.UUID `json:"project_id"`
	Total     int       `json:"total"`
	Files     int       `json:"files"`
	Folders   int       `json:"folders"`
}

// TreeService owns every mutation of a project's node set. Each operation is
// one transaction; events go out only after the transaction commits, and only
// when the operation owned the transaction.
type TreeService interface {
	ListNodes(dbc dbctx.Context, projectID uuid.UUID, view string) ([]*types.FileSystemNode, error)
	CreateNode(dbc dbctx.Context, projectID uuid.UUID, input CreateNodeInput) (*types.FileSystemNode, error)
	DeleteNode(dbc dbctx.Context, nodeID uuid.UUID) (*DeleteNodeResult, error)
	UpdateNodePosition(dbc dbctx.Context, nodeID uuid.UUID, x, y float64) (*types.FileSystemNode, error)
	ToggleFolderExpanded(dbc dbctx.Context, nodeID uuid.UUID) (*types.FileSystemNode, error)
	SetFolderExpanded(dbc dbctx.Context, nodeID uuid.UUID, expanded bool) (*types.FileSystemNode, error)
	GetFileContent(dbc dbctx.Context, nodeID uuid.UUID) (*types.FileSystemNode, error)
	SaveFileContent(dbc dbctx.Context, nodeID uuid.UUID, content string) (*types.FileSystemNode, error)
	ReplaceProjectTree(dbc dbctx.Context, projectID uuid.UUID, hierarchy []*types.FileSystemNode) (*ReplaceTreeResult, error)
}

type treeService struct {
	db          *gorm.DB
	log         *logger.Logger
	projectRepo repos.ProjectRepo
	nodeRepo    repos.NodeRepo
	notifier    TreeNotifier
}

func NewTreeService(db *gorm.DB, log *logger.Logger, projectRepo repos.ProjectRepo, nodeRepo repos.NodeRepo, notifier TreeNotifier) TreeService {
	return &treeService{
		db:          db,
		log:         log.With("service", "TreeService"),
		projectRepo: projectRepo,
		nodeRepo:    nodeRepo,
		notifier:    notifier,
	}
}

func (s *treeService) ListNodes(dbc dbctx.Context, projectID uuid.UUID, view string) ([]*types.FileSystemNode, error) {
	view = strings.ToLower(strings.TrimSpace(view))
	if view == "" {
		view = ViewFlat
	}
	if view != ViewFlat && view != ViewTree {
		return nil, apierr.New(http.StatusBadRequest, "validation_error", fmt.Errorf("unknown view %q", view))
	}

	var out []*types.FileSystemNode
	err := inTx(s.db, dbc, func(dbc dbctx.Context) error {
		project, err := s.projectRepo.GetByID(dbc, projectID)
		if err != nil {
			return err
		}
		if project == nil {
			return apierr.New(http.StatusNotFound, "project_not_found", errors.New("project does not exist"))
		}
		rows, err := s.nodeRepo.ListByProject(dbc, projectID)
		if err != nil {
			return err
		}
		if rows == nil {
			rows = []*types.FileSystemNode{}
		}
		out = rows
		if view == ViewTree {
			out = tree.Assemble(rows)
		}
		return nil
	})
	if err != nil {
		s.log.Warn("ListNodes transaction error", "project_id", projectID, "error", err)
		return nil, classifyStorageErr(err)
	}
	return out, nil
}

func (s *treeService) CreateNode(dbc dbctx.Context, projectID uuid.UUID, input CreateNodeInput) (*types.FileSystemNode, error) {
	owned := dbc.Tx == nil

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apierr.New(http.StatusBadRequest, "validation_error", errors.New("name is required"))
	}
	if !types.ValidNodeKind(input.Kind) {
		return nil, apierr.New(http.StatusBadRequest, "validation_error", fmt.Errorf("unknown node kind %q", input.Kind))
	}
	if !finitePtr(input.X) || !finitePtr(input.Y) {
		return nil, apierr.New(http.StatusBadRequest, "validation_error", errors.New("position must be finite"))
	}
	if projectID == uuid.Nil {
		return nil, apierr.New(http.StatusBadRequest, "validation_error", errors.New("project id is required"))
	}

	var out *types.FileSystemNode
	err := inTx(s.db, dbc, func(dbc dbctx.Context) error {
		project, err := s.projectRepo.GetByID(dbc, projectID)
		if err != nil {
			return err
		}
		if project == nil {
			return apierr.New(http.StatusNotFound, "project_not_found", errors.New("project does not exist"))
		}

		var parent *types.FileSystemNode
		if input.ParentID != nil {
			parent, err = s.nodeRepo.GetByID(dbc, *input.ParentID)
			if err != nil {
				return err
			}
			if parent == nil {
				return apierr.New(http.StatusNotFound, "node_not_found", errors.New("parent node does not exist"))
			}
			if parent.ProjectID != projectID {
				return apierr.New(http.StatusBadRequest, "validation_error", errors.New("parent belongs to a different project"))
			}
			if parent.IsFile() {
				return apierr.New(http.StatusBadRequest, "invalid_node_kind", errors.New("files cannot contain children"))
			}
		}

		sibling, err := s.nodeRepo.FindSibling(dbc, projectID, input.ParentID, name)
		if err != nil {
			return err
		}
		if sibling != nil {
			return apierr.New(http.StatusConflict, "duplicate_node_name", fmt.Errorf("sibling named %q already exists", name))
		}

		x, y := defaultNodePosition(parent, input.Kind)
		if input.X != nil {
			x = *input.X
		}
		if input.Y != nil {
			y = *input.Y
		}

		node := &types.FileSystemNode{
			ID:           uuid.New(),
			ProjectID:    projectID,
			ParentID:     input.ParentID,
			Kind:         input.Kind,
			Name:         name,
			Content:      input.Content,
			PositionX:    x,
			PositionY:    y,
			LastModified: time.Now().UTC(),
		}
		tree.Normalize(node)

		created, err := s.nodeRepo.Create(dbc, []*types.FileSystemNode{node})
		if err != nil {
			return err
		}
		out = created[0]
		return nil
	})
	if err != nil {
		s.log.Warn("CreateNode transaction error", "project_id", projectID, "error", err)
		return nil, classifyStorageErr(err)
	}
	if owned {
		s.notifier.NodeCreated(projectID, out)
	}
	return out, nil
}

func (s *treeService) DeleteNode(dbc dbctx.Context, nodeID uuid.UUID) (*DeleteNodeResult, error) {
	owned := dbc.Tx == nil

	var out *DeleteNodeResult
	err := inTx(s.db, dbc, func(dbc dbctx.Context) error {
		node, err := s.nodeRepo.GetByID(dbc, nodeID)
		if err != nil {
			return err
		}
		if node == nil {
			return apierr.New(http.StatusNotFound, "node_not_found", errors.New("node does not exist"))
		}
		if node.IsRoot() {
			return apierr.New(http.StatusForbidden, "root_delete_forbidden", errors.New("project roots cannot be deleted"))
		}

		flat, err := s.nodeRepo.ListByProject(dbc, node.ProjectID)
		if err != nil {
			return err
		}
		descendantIDs := tree.CollectDescendantIDs(flat, nodeID)

		if err := s.nodeRepo.SoftDeleteByIDs(dbc, append([]uuid.UUID{nodeID}, descendantIDs...)); err != nil {
			return err
		}
		out = &DeleteNodeResult{ID: nodeID, ProjectID: node.ProjectID, DescendantIDs: descendantIDs}
		return nil
	})
	if err != nil {
		s.log.Warn("DeleteNode transaction error", "node_id", nodeID, "error", err)
		return nil, classifyStorageErr(err)
	}
	if owned {
		s.notifier.NodeDeleted(out.ProjectID, out.ID, out.DescendantIDs)
	}
	return out, nil
}

func (s *treeService) UpdateNodePosition(dbc dbctx.Context, nodeID uuid.UUID, x, y float64) (*types.FileSystemNode, error) {
	owned := dbc.Tx == nil

	if !finite(x) || !finite(y) {
		return nil, apierr.New(http.StatusBadRequest, "validation_error", errors.New("position must be finite"))
	}

	var out *types.FileSystemNode
	err := inTx(s.db, dbc, func(dbc dbctx.Context) error {
		node, err := s.nodeRepo.GetByID(dbc, nodeID)
		if err != nil {
			return err
		}
		if node == nil {
			return apierr.New(http.StatusNotFound, "node_not_found", errors.New("node does not exist"))
		}

		now := time.Now().UTC()
		if err := s.nodeRepo.UpdateFields(dbc, nodeID, map[string]interface{}{
			"position_x":    x,
			"position_y":    y,
			"last_modified": now,
		}); err != nil {
			return err
		}
		node.PositionX = x
		node.PositionY = y
		node.LastModified = now
		out = node
		return nil
	})
	if err != nil {
		s.log.Warn("UpdateNodePosition transaction error", "node_id", nodeID, "error", err)
		return nil, classifyStorageErr(err)
	}
	if owned {
		s.notifier.NodeMoved(out.ProjectID, out)
	}
	return out, nil
}

func (s *treeService) ToggleFolderExpanded(dbc dbctx.Context, nodeID uuid.UUID) (*types.FileSystemNode, error) {
	return s.updateExpanded(dbc, nodeID, nil)
}

func (s *treeService) SetFolderExpanded(dbc dbctx.Context, nodeID uuid.UUID, expanded bool) (*types.FileSystemNode, error) {
	return s.updateExpanded(dbc, nodeID, &expanded)
}

// updateExpanded flips the folder's expansion state when next is nil and sets
// it otherwise. Expansion is view state, so last_modified stays untouched.
func (s *treeService) updateExpanded(dbc dbctx.Context, nodeID uuid.UUID, next *bool) (*types.FileSystemNode, error) {
	owned := dbc.Tx == nil

	var out *types.FileSystemNode
	err := inTx(s.db, dbc, func(dbc dbctx.Context) error {
		node, err := s.nodeRepo.GetByID(dbc, nodeID)
		if err != nil {
			return err
		}
		if node == nil {
			return apierr.New(http.StatusNotFound, "node_not_found", errors.New("node does not exist"))
		}
		if !node.IsFolder() {
			return apierr.New(http.StatusBadRequest, "invalid_node_kind", errors.New("expansion applies to folders"))
		}

		expanded := !node.Expanded
		if next != nil {
			expanded = *next
		}
		if err := s.nodeRepo.UpdateFields(dbc, nodeID, map[string]interface{}{
			"expanded": expanded,
		}); err != nil {
			return err
		}
		node.Expanded = expanded
		out = node
		return nil
	})
	if err != nil {
		s.log.Warn("SetFolderExpanded transaction error", "node_id", nodeID, "error", err)
		return nil, classifyStorageErr(err)
	}
	if owned {
		s.notifier.FolderToggled(out.ProjectID, out)
	}
	return out, nil
}

func (s *treeService) GetFileContent(dbc dbctx.Context, nodeID uuid.UUID) (*types.FileSystemNode, error) {
	node, err := s.nodeRepo.GetByID(dbc, nodeID)
	if err != nil {
		s.log.Warn("GetFileContent query error", "node_id", nodeID, "error", err)
		return nil, classifyStorageErr(err)
	}
	if node == nil {
		return nil, apierr.New(http.StatusNotFound, "node_not_found", errors.New("node does not exist"))
	}
	if !node.IsFile() {
		return nil, apierr.New(http.StatusBadRequest, "invalid_node_kind", errors.New("content applies to files"))
	}
	return node, nil
}

func (s *treeService) SaveFileContent(dbc dbctx.Context, nodeID uuid.UUID, content string) (*types.FileSystemNode, error) {
	owned := dbc.Tx == nil

	var out *types.FileSystemNode
	err := inTx(s.db, dbc, func(dbc dbctx.Context) error {
		node, err := s.nodeRepo.GetByID(dbc, nodeID)
		if err != nil {
			return err
		}
		if node == nil {
			return apierr.New(http.StatusNotFound, "node_not_found", errors.New("node does not exist"))
		}
		if !node.IsFile() {
			return apierr.New(http.StatusBadRequest, "invalid_node_kind", errors.New("content applies to files"))
		}

		node.Content = content
		tree.ApplyFileMetadata(node)
		node.LastModified = time.Now().UTC()

		if err := s.nodeRepo.UpdateFields(dbc, nodeID, map[string]interface{}{
			"content":       node.Content,
			"size_bytes":    node.SizeBytes,
			"line_count":    node.Metadata.LineCount,
			"language":      node.Metadata.Language,
			"last_modified": node.LastModified,
		}); err != nil {
			return err
		}
		out = node
		return nil
	})
	if err != nil {
		s.log.Warn("SaveFileContent transaction error", "node_id", nodeID, "error", err)
		return nil, classifyStorageErr(err)
	}
	if owned {
		s.notifier.FileSaved(out.ProjectID, out)
	}
	return out, nil
}

func (s *treeService) ReplaceProjectTree(dbc dbctx.Context, projectID uuid.UUID, hierarchy []*types.FileSystemNode) (*ReplaceTreeResult, error) {
	owned := dbc.Tx == nil

	if projectID == uuid.Nil {
		return nil, apierr.New(http.StatusBadRequest, "validation_error", errors.New("project id is required"))
	}
	if err := validateTreePayload(hierarchy); err != nil {
		return nil, err
	}

	var out *ReplaceTreeResult
	err := inTx(s.db, dbc, func(dbc dbctx.Context) error {
		project, err := s.projectRepo.GetByID(dbc, projectID)
		if err != nil {
			return err
		}
		if project == nil {
			return apierr.New(http.StatusNotFound, "project_not_found", errors.New("project does not exist"))
		}

		// Incoming ids are untrusted and can collide with soft-deleted rows
		// that still hold their primary keys, so every node gets a server id
		// before flattening stamps the parent pointers.
		assignFreshIDs(hierarchy)
		flat := tree.Flatten(hierarchy)

		base := time.Now().UTC()
		files, folders := 0, 0
		for i, n := range flat {
			n.ProjectID = projectID
			n.Name = strings.TrimSpace(n.Name)
			tree.Normalize(n)
			n.LastModified = base
			// Staggered created_at keeps pre-order as the creation order the
			// flat listing sorts by.
			n.CreatedAt = base.Add(time.Duration(i) * time.Microsecond)
			n.UpdatedAt = n.CreatedAt
			if n.IsFile() {
				files++
			} else {
				folders++
			}
		}

		if err := s.nodeRepo.SoftDeleteByProject(dbc, projectID); err != nil {
			return err
		}
		if _, err := s.nodeRepo.Create(dbc, flat); err != nil {
			return err
		}
		out = &ReplaceTreeResult{ProjectID: projectID, Total: len(flat), Files: files, Folders: folders}
		return nil
	})
	if err != nil {
		s.log.Warn("ReplaceProjectTree transaction error", "project_id", projectID, "error", err)
		return nil, classifyStorageErr(err)
	}
	s.log.Info("project tree replaced", "project_id", projectID, "total", out.Total, "files", out.Files, "folders", out.Folders)
	if owned {
		s.notifier.TreeReplaced(projectID, out.Total, out.Files, out.Folders)
	}
	return out, nil
}

// validateTreePayload walks the nested input before anything touches storage:
// names present, kinds known, files childless, sibling names unique per level.
func validateTreePayload(nodes []*types.FileSystemNode) error {
	seen := make(map[*types.FileSystemNode]bool)

	var walk func(level []*types.FileSystemNode) error
	walk = func(level []*types.FileSystemNode) error {
		names := make(map[string]bool, len(level))
		for _, n := range level {
			if n == nil {
				return apierr.New(http.StatusBadRequest, "validation_error", errors.New("tree contains a null node"))
			}
			if seen[n] {
				return apierr.New(http.StatusBadRequest, "validation_error", errors.New("tree contains a repeated node"))
			}
			seen[n] = true

			name := strings.TrimSpace(n.Name)
			if name == "" {
				return apierr.New(http.StatusBadRequest, "validation_error", errors.New("every node needs a non-empty name"))
			}
			if !types.ValidNodeKind(n.Kind) {
				return apierr.New(http.StatusBadRequest, "validation_error", fmt.Errorf("unknown node kind %q", n.Kind))
			}
			if n.IsFile() && len(n.Children) > 0 {
				return apierr.New(http.StatusBadRequest, "invalid_node_kind", errors.New("files cannot contain children"))
			}
			if names[name] {
				return apierr.New(http.StatusConflict, "duplicate_node_name", fmt.Errorf("duplicate sibling name %q", name))
			}
			names[name] = true

			if err := walk(n.Children); err != nil {
				return err
			}
		}
		return nil
	}
	return walk(nodes)
}

func assignFreshIDs(nodes []*types.FileSystemNode) {
	seen := make(map[*types.FileSystemNode]bool)

	var walk func(level []*types.FileSystemNode)
	walk = func(level []*types.FileSystemNode) {
		for _, n := range level {
			if n == nil || seen[n] {
				continue
			}
			seen[n] = true
			n.ID = uuid.New()
			walk(n.Children)
		}
	}
	walk(nodes)
}

func defaultNodePosition(parent *types.FileSystemNode, kind string) (float64, float64) {
	jx := rand.Float64() * positionJitter
	jy := rand.Float64() * positionJitter
	if parent == nil {
		return rootBaseX + jx, rootBaseY + jy
	}
	if kind == types.NodeKindFile {
		return parent.PositionX + fileOffsetX + jx, parent.PositionY + fileOffsetY + jy
	}
	return parent.PositionX + jx, parent.PositionY + folderOffsetY + jy
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func finitePtr(v *float64) bool {
	return v == nil || finite(*v)
}
