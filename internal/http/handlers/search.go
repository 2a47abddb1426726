package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/filecanvas/filecanvas-backend/internal/http/response"
	"github.com/filecanvas/filecanvas-backend/internal/platform/apierr"
	"github.com/filecanvas/filecanvas-backend/internal/platform/dbctx"
	"github.com/filecanvas/filecanvas-backend/internal/platform/logger"
	"github.com/filecanvas/filecanvas-backend/internal/services"
)

type SearchHandler struct {
	log    *logger.Logger
	search services.SearchService
}

func NewSearchHandler(log *logger.Logger, search services.SearchService) *SearchHandler {
	return &SearchHandler{
		log:    log.With("handler", "SearchHandler"),
		search: search,
	}
}

// GET /api/search?q=&project_id=&limit=
func (h *SearchHandler) Search(c *gin.Context) {
	query := c.Query("q")

	var projectID *uuid.UUID
	if raw := strings.TrimSpace(c.Query("project_id")); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil || id == uuid.Nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_project_id", err)
			return
		}
		projectID = &id
	}

	limit := 0
	if raw := strings.TrimSpace(c.Query("limit")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_limit", err)
			return
		}
		limit = n
	}

	dbc := dbctx.Context{Ctx: c.Request.Context()}
	results, err := h.search.SearchNodes(dbc, query, projectID, limit)
	if err != nil {
		var ae *apierr.Error
		if errors.As(err, &ae) {
			response.RespondError(c, ae.Status, ae.Code, ae.Err)
			return
		}
		response.RespondError(c, http.StatusInternalServerError, "search_failed", err)
		return
	}

	response.RespondOK(c, gin.H{"results": results, "total": len(results)})
}
