package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/filecanvas/filecanvas-backend/internal/http/response"
	"github.com/filecanvas/filecanvas-backend/internal/platform/logger"
	"github.com/filecanvas/filecanvas-backend/internal/realtime"
)

type RealtimeHandler struct {
	log *logger.Logger
	hub *realtime.SSEHub
}

func NewRealtimeHandler(log *logger.Logger, hub *realtime.SSEHub) *RealtimeHandler {
	return &RealtimeHandler{
		log: log.With("handler", "RealtimeHandler"),
		hub: hub,
	}
}

// GET /api/realtime/sse?channels=project:<uuid>,global
//
// The connection subscribes to every requested channel up front; an empty or
// absent list falls back to the global channel. The stream stays open until
// the client disconnects.
func (h *RealtimeHandler) SSEStream(c *gin.Context) {
	channels, err := parseChannels(c.Query("channels"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_channel", err)
		return
	}

	client := h.hub.NewSSEClient()
	for _, ch := range channels {
		h.hub.AddChannel(client, ch)
	}
	h.log.Info("SSE stream open", "client_id", client.ID, "channels", strings.Join(channels, ","))

	h.hub.ServeHTTP(c.Writer, c.Request, client)

	h.hub.CloseClient(client)
	h.log.Info("SSE stream closed", "client_id", client.ID)
}

// parseChannels validates and normalizes a comma-separated channel list.
// Valid entries are "global" and "project:<uuid>"; duplicates collapse.
func parseChannels(raw string) ([]string, error) {
	var out []string
	seen := make(map[string]bool)
	for _, part := range strings.Split(raw, ",") {
		ch := strings.TrimSpace(part)
		if ch == "" {
			continue
		}
		if ch != realtime.GlobalChannel {
			idPart := strings.TrimPrefix(ch, "project:")
			if idPart == ch {
				return nil, fmt.Errorf("unknown channel %q", ch)
			}
			projectID, err := uuid.Parse(idPart)
			if err != nil || projectID == uuid.Nil {
				return nil, fmt.Errorf("invalid project channel %q", ch)
			}
			ch = realtime.ProjectChannel(projectID)
		}
		if !seen[ch] {
			seen[ch] = true
			out = append(out, ch)
		}
	}
	if len(out) == 0 {
		out = []string{realtime.GlobalChannel}
	}
	return out, nil
}
