package tree

import (
	"strings"

	types "github.com/filecanvas/filecanvas-backend/internal/domain"
)

const (
	// DefaultEncoding is stamped on every node's metadata.
	DefaultEncoding = "utf-8"

	// FilePermissions and FolderPermissions are the display permission
	// strings for the two node kinds.
	FilePermissions   = "rw-r--r--"
	FolderPermissions = "rwxr-xr-x"
)

// SizeBytes is the derived size of file content: its exact byte length.
func SizeBytes(content string) int64 {
	return int64(len(content))
}

// CountLines counts newline separators plus one, so empty content is a
// single line and a trailing newline adds one.
func CountLines(content string) int {
	return strings.Count(content, "\n") + 1
}

// ApplyFileMetadata recomputes every derived field of a file node from its
// current name and content. Callers never set these fields themselves.
func ApplyFileMetadata(n *types.FileSystemNode) {
	n.SizeBytes = SizeBytes(n.Content)
	n.Metadata.LineCount = CountLines(n.Content)
	n.Metadata.Language = LanguageForName(n.Name)
	n.Metadata.Encoding = DefaultEncoding
	n.Metadata.Permissions = FilePermissions
}

// Normalize enforces the kind invariants on a node before it is persisted:
// folders carry no content or content-derived metadata, files carry no
// expansion state, and neither carries the transient Children slice.
func Normalize(n *types.FileSystemNode) {
	n.Children = nil
	switch n.Kind {
	case types.NodeKindFolder:
		n.Content = ""
		n.SizeBytes = 0
		n.Metadata.LineCount = 0
		n.Metadata.Language = ""
		n.Metadata.Encoding = DefaultEncoding
		n.Metadata.Permissions = FolderPermissions
	case types.NodeKindFile:
		n.Expanded = false
		ApplyFileMetadata(n)
	}
}
