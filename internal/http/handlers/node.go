package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	types "github.com/filecanvas/filecanvas-backend/internal/domain"
	"github.com/filecanvas/filecanvas-backend/internal/http/response"
	"github.com/filecanvas/filecanvas-backend/internal/platform/apierr"
	"github.com/filecanvas/filecanvas-backend/internal/platform/dbctx"
	"github.com/filecanvas/filecanvas-backend/internal/platform/logger"
	"github.com/filecanvas/filecanvas-backend/internal/services"
)

type NodeHandler struct {
	log  *logger.Logger
	tree services.TreeService
}

func NewNodeHandler(log *logger.Logger, tree services.TreeService) *NodeHandler {
	return &NodeHandler{
		log:  log.With("handler", "NodeHandler"),
		tree: tree,
	}
}

// GET /api/projects/:projectId/nodes?view=flat|tree
func (h *NodeHandler) List(c *gin.Context) {
	projectID, err := uuid.Parse(c.Param("projectId"))
	if err != nil || projectID == uuid.Nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_project_id", err)
		return
	}

	dbc := dbctx.Context{Ctx: c.Request.Context()}
	nodes, err := h.tree.ListNodes(dbc, projectID, c.Query("view"))
	if err != nil {
		var ae *apierr.Error
		if errors.As(err, &ae) {
			response.RespondError(c, ae.Status, ae.Code, ae.Err)
			return
		}
		response.RespondError(c, http.StatusInternalServerError, "list_nodes_failed", err)
		return
	}

	response.RespondOK(c, gin.H{"nodes": nodes})
}

// POST /api/projects/:projectId/nodes
func (h *NodeHandler) Create(c *gin.Context) {
	projectID, err := uuid.Parse(c.Param("projectId"))
	if err != nil || projectID == uuid.Nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_project_id", err)
		return
	}
	var req services.CreateNodeInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	dbc := dbctx.Context{Ctx: c.Request.Context()}
	node, err := h.tree.CreateNode(dbc, projectID, req)
	if err != nil {
		var ae *apierr.Error
		if errors.As(err, &ae) {
			response.RespondError(c, ae.Status, ae.Code, ae.Err)
			return
		}
		response.RespondError(c, http.StatusInternalServerError, "create_node_failed", err)
		return
	}

	response.RespondOK(c, gin.H{"node": node})
}

// PUT /api/projects/:projectId/tree
func (h *NodeHandler) ReplaceTree(c *gin.Context) {
	projectID, err := uuid.Parse(c.Param("projectId"))
	if err != nil || projectID == uuid.Nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_project_id", err)
		return
	}
	var req struct {
		Tree []*types.FileSystemNode `json:"tree"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	dbc := dbctx.Context{Ctx: c.Request.Context()}
	res, err := h.tree.ReplaceProjectTree(dbc, projectID, req.Tree)
	if err != nil {
		var ae *apierr.Error
		if errors.As(err, &ae) {
			response.RespondError(c, ae.Status, ae.Code, ae.Err)
			return
		}
		response.RespondError(c, http.StatusInternalServerError, "replace_tree_failed", err)
		return
	}

	response.RespondOK(c, res)
}

// DELETE /api/nodes/:nodeId
func (h *NodeHandler) Delete(c *gin.Context) {
	nodeID, err := uuid.Parse(c.Param("nodeId"))
	if err != nil || nodeID == uuid.Nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_node_id", err)
		return
	}

	dbc := dbctx.Context{Ctx: c.Request.Context()}
	res, err := h.tree.DeleteNode(dbc, nodeID)
	if err != nil {
		var ae *apierr.Error
		if errors.As(err, &ae) {
			response.RespondError(c, ae.Status, ae.Code, ae.Err)
			return
		}
		response.RespondError(c, http.StatusInternalServerError, "delete_node_failed", err)
		return
	}

	response.RespondOK(c, res)
}

// PATCH /api/nodes/:nodeId/position
func (h *NodeHandler) UpdatePosition(c *gin.Context) {
	nodeID, err := uuid.Parse(c.Param("nodeId"))
	if err != nil || nodeID == uuid.Nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_node_id", err)
		return
	}
	var req struct {
		X *float64 `json:"x"`
		Y *float64 `json:"y"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	if req.X == nil || req.Y == nil {
		response.RespondError(c, http.StatusBadRequest, "validation_error", errors.New("x and y are required"))
		return
	}

	dbc := dbctx.Context{Ctx: c.Request.Context()}
	node, err := h.tree.UpdateNodePosition(dbc, nodeID, *req.X, *req.Y)
	if err != nil {
		var ae *apierr.Error
		if errors.As(err, &ae) {
			response.RespondError(c, ae.Status, ae.Code, ae.Err)
			return
		}
		response.RespondError(c, http.StatusInternalServerError, "update_position_failed", err)
		return
	}

	response.RespondOK(c, gin.H{"node": node})
}

// PATCH /api/nodes/:nodeId/expanded
//
// Body {"expanded": bool} pins the state; an absent field toggles.
func (h *NodeHandler) UpdateExpanded(c *gin.Context) {
	nodeID, err := uuid.Parse(c.Param("nodeId"))
	if err != nil || nodeID == uuid.Nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_node_id", err)
		return
	}
	var req struct {
		Expanded *bool `json:"expanded"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	dbc := dbctx.Context{Ctx: c.Request.Context()}
	var (
		node    *types.FileSystemNode
		callErr error
	)
	if req.Expanded == nil {
		node, callErr = h.tree.ToggleFolderExpanded(dbc, nodeID)
	} else {
		node, callErr = h.tree.SetFolderExpanded(dbc, nodeID, *req.Expanded)
	}
	if callErr != nil {
		var ae *apierr.Error
		if errors.As(callErr, &ae) {
			response.RespondError(c, ae.Status, ae.Code, ae.Err)
			return
		}
		response.RespondError(c, http.StatusInternalServerError, "update_expanded_failed", callErr)
		return
	}

	response.RespondOK(c, gin.H{"node": node})
}

// GET /api/nodes/:nodeId/content
func (h *NodeHandler) GetContent(c *gin.Context) {
	nodeID, err := uuid.Parse(c.Param("nodeId"))
	if err != nil || nodeID == uuid.Nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_node_id", err)
		return
	}

	dbc := dbctx.Context{Ctx: c.Request.Context()}
	node, err := h.tree.GetFileContent(dbc, nodeID)
	if err != nil {
		var ae *apierr.Error
		if errors.As(err, &ae) {
			response.RespondError(c, ae.Status, ae.Code, ae.Err)
			return
		}
		response.RespondError(c, http.StatusInternalServerError, "get_content_failed", err)
		return
	}

	response.RespondOK(c, gin.H{"node": node})
}

// PUT /api/nodes/:nodeId/content
func (h *NodeHandler) SaveContent(c *gin.Context) {
	nodeID, err := uuid.Parse(c.Param("nodeId"))
	if err != nil || nodeID == uuid.Nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_node_id", err)
		return
	}
	var req struct {
		Content *string `json:"content"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	if req.Content == nil {
		response.RespondError(c, http.StatusBadRequest, "validation_error", errors.New("content is required"))
		return
	}

	dbc := dbctx.Context{Ctx: c.Request.Context()}
	node, err := h.tree.SaveFileContent(dbc, nodeID, *req.Content)
	if err != nil {
		var ae *apierr.Error
		if errors.As(err, &ae) {
			response.RespondError(c, ae.Status, ae.Code, ae.Err)
			return
		}
		response.RespondError(c, http.StatusInternalServerError, "save_content_failed", err)
		return
	}

	response.RespondOK(c, gin.H{"node": node})
}
