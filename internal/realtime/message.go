package realtime

import "github.com/google/uuid"

type SSEEvent string

const (
	SSEEventNodeCreated   SSEEvent = "node-created"
	SSEEventNodeDeleted   SSEEvent = "node-deleted"
	SSEEventNodeMoved     SSEEvent = "node-moved"
	SSEEventFolderToggled SSEEvent = "folder-toggled"
	SSEEventFileSaved     SSEEvent = "file-saved"
	SSEEventTreeReplaced  SSEEvent = "tree-replaced"

	SSEEventProjectCreated SSEEvent = "project-created"
	SSEEventProjectUpdated SSEEvent = "project-updated"
	SSEEventProjectDeleted SSEEvent = "project-deleted"
)

type SSEMessage struct {
	Channel string   `json:"channel"`
	Event   SSEEvent `json:"event"`
	Data    any      `json:"data,omitempty"`
}

// GlobalChannel carries project lifecycle events; node-level events go out
// on the owning project's channel.
const GlobalChannel = "global"

func ProjectChannel(projectID uuid.UUID) string {
	return "project:" + projectID.String()
}
