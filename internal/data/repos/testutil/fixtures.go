package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	types "github.com/filecanvas/filecanvas-backend/internal/domain"
)

func SeedProject(tb testing.TB, ctx context.Context, tx *gorm.DB, name string) *types.Project {
	tb.Helper()
	p := &types.Project{
		ID:       uuid.New(),
		Name:     name,
		Owner:    "tester",
		IsActive: true,
		Settings: datatypes.JSON([]byte(`{}`)),
	}
	if err := tx.WithContext(ctx).Create(p).Error; err != nil {
		tb.Fatalf("seed project: %v", err)
	}
	return p
}

func SeedFolder(tb testing.TB, ctx context.Context, tx *gorm.DB, projectID uuid.UUID, parentID *uuid.UUID, name string) *types.FileSystemNode {
	tb.Helper()
	n := &types.FileSystemNode{
		ID:        uuid.New(),
		ProjectID: projectID,
		ParentID:  parentID,
		Kind:      types.NodeKindFolder,
		Name:      name,
		Metadata: types.NodeMetadata{
			Encoding:    "utf-8",
			Permissions: "rwxr-xr-x",
		},
		LastModified: time.Now().UTC(),
	}
	if err := tx.WithContext(ctx).Create(n).Error; err != nil {
		tb.Fatalf("seed folder: %v", err)
	}
	return n
}

func SeedFile(tb testing.TB, ctx context.Context, tx *gorm.DB, projectID uuid.UUID, parentID *uuid.UUID, name, content string) *types.FileSystemNode {
	tb.Helper()
	n := &types.FileSystemNode{
		ID:        uuid.New(),
		ProjectID: projectID,
		ParentID:  parentID,
		Kind:      types.NodeKindFile,
		Name:      name,
		Content:   content,
		SizeBytes: int64(len(content)),
		Metadata: types.NodeMetadata{
			Encoding:    "utf-8",
			Permissions: "rw-r--r--",
		},
		LastModified: time.Now().UTC(),
	}
	if err := tx.WithContext(ctx).Create(n).Error; err != nil {
		tb.Fatalf("seed file: %v", err)
	}
	return n
}

func PtrUUID(v uuid.UUID) *uuid.UUID { return &v }

func PtrString(v string) *string { return &v }

func PtrFloat64(v float64) *float64 { return &v }
