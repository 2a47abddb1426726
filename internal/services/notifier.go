package services

import (
	"context"

	"github.com/google/uuid"

	types "github.com/filecanvas/filecanvas-backend/internal/domain"
	"github.com/filecanvas/filecanvas-backend/internal/realtime"
)

// =========================
// Tree notifier
// =========================

// TreeNotifier pushes node-level events onto the owning project's channel.
// Every method is fire-and-forget: nil receivers and emitters are no-ops,
// and delivery failure never reaches the write path that triggered it.
type TreeNotifier interface {
	NodeCreated(projectID uuid.UUID, node *types.FileSystemNode)
	NodeDeleted(projectID uuid.UUID, nodeID uuid.UUID, descendantIDs []uuid.UUID)
	NodeMoved(projectID uuid.UUID, node *types.FileSystemNode)
	FolderToggled(projectID uuid.UUID, node *types.FileSystemNode)
	FileSaved(projectID uuid.UUID, node *types.FileSystemNode)
	TreeReplaced(projectID uuid.UUID, total, files, folders int)
}

type treeNotifier struct {
	emit SSEEmitter
}

func NewTreeNotifier(emit SSEEmitter) TreeNotifier {
	return &treeNotifier{emit: emit}
}

func (n *treeNotifier) NodeCreated(projectID uuid.UUID, node *types.FileSystemNode) {
	if n == nil || n.emit == nil || projectID == uuid.Nil {
		return
	}
	n.emit.Emit(context.Background(), realtime.SSEMessage{
		Channel: realtime.ProjectChannel(projectID),
		Event:   realtime.SSEEventNodeCreated,
		Data: map[string]any{
			"node":      node,
			"parent_id": safeParentID(node),
		},
	})
}

func (n *treeNotifier) NodeDeleted(projectID uuid.UUID, nodeID uuid.UUID, descendantIDs []uuid.UUID) {
	if n == nil || n.emit == nil || projectID == uuid.Nil {
		return
	}
	if descendantIDs == nil {
		descendantIDs = []uuid.UUID{}
	}
	n.emit.Emit(context.Background(), realtime.SSEMessage{
		Channel: realtime.ProjectChannel(projectID),
		Event:   realtime.SSEEventNodeDeleted,
		Data: map[string]any{
			"id":             nodeID,
			"descendant_ids": descendantIDs,
			"project_id":     projectID,
		},
	})
}

func (n *treeNotifier) NodeMoved(projectID uuid.UUID, node *types.FileSystemNode) {
	if n == nil || n.emit == nil || projectID == uuid.Nil || node == nil {
		return
	}
	n.emit.Emit(context.Background(), realtime.SSEMessage{
		Channel: realtime.ProjectChannel(projectID),
		Event:   realtime.SSEEventNodeMoved,
		Data: map[string]any{
			"id": node.ID,
			"x":  node.PositionX,
			"y":  node.PositionY,
		},
	})
}

func (n *treeNotifier) FolderToggled(projectID uuid.UUID, node *types.FileSystemNode) {
	if n == nil || n.emit == nil || projectID == uuid.Nil || node == nil {
		return
	}
	n.emit.Emit(context.Background(), realtime.SSEMessage{
		Channel: realtime.ProjectChannel(projectID),
		Event:   realtime.SSEEventFolderToggled,
		Data: map[string]any{
			"id":       node.ID,
			"expanded": node.Expanded,
		},
	})
}

func (n *treeNotifier) FileSaved(projectID uuid.UUID, node *types.FileSystemNode) {
	if n == nil || n.emit == nil || projectID == uuid.Nil || node == nil {
		return
	}
	n.emit.Emit(context.Background(), realtime.SSEMessage{
		Channel: realtime.ProjectChannel(projectID),
		Event:   realtime.SSEEventFileSaved,
		Data: map[string]any{
			"id":         node.ID,
			"size":       node.SizeBytes,
			"line_count": node.Metadata.LineCount,
			"language":   node.Metadata.Language,
		},
	})
}

func (n *treeNotifier) TreeReplaced(projectID uuid.UUID, total, files, folders int) {
	if n == nil || n.emit == nil || projectID == uuid.Nil {
		return
	}
	n.emit.Emit(context.Background(), realtime.SSEMessage{
		Channel: realtime.ProjectChannel(projectID),
		Event:   realtime.SSEEventTreeReplaced,
		Data: map[string]any{
			"project_id": projectID,
			"total":      total,
			"files":      files,
			"folders":    folders,
		},
	})
}

// =========================
// Project notifier
// =========================

// ProjectNotifier announces project lifecycle on the global channel, which
// is what project-list views subscribe to.
type ProjectNotifier interface {
	ProjectCreated(project *types.Project)
	ProjectUpdated(project *types.Project)
	ProjectDeleted(projectID uuid.UUID, hard bool)
}

type projectNotifier struct {
	emit SSEEmitter
}

func NewProjectNotifier(emit SSEEmitter) ProjectNotifier {
	return &projectNotifier{emit: emit}
}

func (n *projectNotifier) ProjectCreated(project *types.Project) {
	if n == nil || n.emit == nil || project == nil {
		return
	}
	n.emit.Emit(context.Background(), realtime.SSEMessage{
		Channel: realtime.GlobalChannel,
		Event:   realtime.SSEEventProjectCreated,
		Data:    map[string]any{"project": project},
	})
}

func (n *projectNotifier) ProjectUpdated(project *types.Project) {
	if n == nil || n.emit == nil || project == nil {
		return
	}
	n.emit.Emit(context.Background(), realtime.SSEMessage{
		Channel: realtime.GlobalChannel,
		Event:   realtime.SSEEventProjectUpdated,
		Data:    map[string]any{"project": project},
	})
}

func (n *projectNotifier) ProjectDeleted(projectID uuid.UUID, hard bool) {
	if n == nil || n.emit == nil || projectID == uuid.Nil {
		return
	}
	n.emit.Emit(context.Background(), realtime.SSEMessage{
		Channel: realtime.GlobalChannel,
		Event:   realtime.SSEEventProjectDeleted,
		Data: map[string]any{
			"id":   projectID,
			"hard": hard,
		},
	})
}

// =========================
// helpers
// =========================

func safeParentID(node *types.FileSystemNode) *uuid.UUID {
	if node == nil {
		return nil
	}
	return node.ParentID
}
