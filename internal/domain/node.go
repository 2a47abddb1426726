package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	NodeKindFile   = "file"
	NodeKindFolder = "folder"
)

// ValidNodeKind reports whether kind is one of the two node kinds.
func ValidNodeKind(kind string) bool {
	return kind == NodeKindFile || kind == NodeKindFolder
}

// NodeMetadata holds the derived, decorative attributes of a file node.
// All fields are recomputed server-side on every content write.
type NodeMetadata struct {
	Language    string `gorm:"type:text;not null;default:''" json:"language,omitempty"`
	Encoding    string `gorm:"type:text;not null;default:'utf-8'" json:"encoding,omitempty"`
	LineCount   int    `gorm:"not null;default:0" json:"line_count,omitempty"`
	Permissions string `gorm:"type:text;not null;default:''" json:"permissions,omitempty"`
}

// FileSystemNode is one canvas node in a project's tree. Canonical storage
// is flat: ParentID is the only hierarchy information persisted. Children is
// populated exclusively by tree.Assemble for the derived hierarchical view
// and is never written to the database.
//
// Kind invariants, normalized on every write path:
//   - a file never carries Expanded or Children
//   - a folder never carries Content, SizeBytes, or LineCount
type FileSystemNode struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	ProjectID uuid.UUID  `gorm:"type:uuid;not null;index" json:"project_id"`
	ParentID  *uuid.UUID `gorm:"type:uuid;index" json:"parent_id"`

	Kind string `gorm:"type:text;not null;index" json:"kind"`
	Name string `gorm:"type:text;not null" json:"name"`

	// Content is meaningful for files only; folders keep it empty.
	Content   string `gorm:"type:text;not null;default:''" json:"content,omitempty"`
	SizeBytes int64  `gorm:"not null;default:0" json:"size_bytes,omitempty"`

	PositionX float64 `gorm:"column:position_x;not null;default:0" json:"x"`
	PositionY float64 `gorm:"column:position_y;not null;default:0" json:"y"`

	// Expanded is meaningful for folders only; initial state is collapsed.
	Expanded bool `gorm:"not null;default:false" json:"expanded,omitempty"`

	Metadata NodeMetadata `gorm:"embedded" json:"metadata"`

	LastModified time.Time      `gorm:"not null" json:"last_modified"`
	CreatedAt    time.Time      `gorm:"not null;index" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	Children []*FileSystemNode `gorm:"-" json:"children,omitempty"`
}

func (FileSystemNode) TableName() string { return "file_system_node" }

// IsRoot reports whether the node is a project root (no parent).
func (n *FileSystemNode) IsRoot() bool { return n.ParentID == nil }

func (n *FileSystemNode) IsFile() bool { return n.Kind == NodeKindFile }

func (n *FileSystemNode) IsFolder() bool { return n.Kind == NodeKindFolder }
