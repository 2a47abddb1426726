package canvas

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/filecanvas/filecanvas-backend/internal/data/repos/testutil"
	types "github.com/filecanvas/filecanvas-backend/internal/domain"
	"github.com/filecanvas/filecanvas-backend/internal/platform/dbctx"
)

func TestNodeRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewNodeRepo(db, testutil.Logger(t))

	p := testutil.SeedProject(t, ctx, tx, "node repo project")

	root := &types.FileSystemNode{
		ID:        uuid.New(),
		ProjectID: p.ID,
		Kind:      types.NodeKindFolder,
		Name:      "src",
	}
	child := &types.FileSystemNode{
		ID:        uuid.New(),
		ProjectID: p.ID,
		ParentID:  &root.ID,
		Kind:      types.NodeKindFile,
		Name:      "main.go",
		Content:   "package main\n",
		SizeBytes: 13,
	}
	if _, err := repo.Create(dbc, []*types.FileSystemNode{root, child}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if rows, err := repo.GetByIDs(dbc, []uuid.UUID{root.ID, child.ID}); err != nil || len(rows) != 2 {
		t.Fatalf("GetByIDs: err=%v len=%d", err, len(rows))
	}
	got, err := repo.GetByID(dbc, child.ID)
	if err != nil || got == nil {
		t.Fatalf("GetByID: err=%v row=%v", err, got)
	}
	if got.Content != "package main\n" || got.SizeBytes != 13 {
		t.Fatalf("GetByID returned wrong row: %q/%d", got.Content, got.SizeBytes)
	}
	if missing, err := repo.GetByID(dbc, uuid.New()); err != nil || missing != nil {
		t.Fatalf("GetByID missing: err=%v row=%v", err, missing)
	}

	if rows, err := repo.ListByProject(dbc, p.ID); err != nil || len(rows) != 2 {
		t.Fatalf("ListByProject: err=%v len=%d", err, len(rows))
	} else if rows[0].ID != root.ID {
		t.Fatalf("ListByProject: expected creation order, got %s first", rows[0].Name)
	}

	if rows, err := repo.ListChildren(dbc, p.ID, nil); err != nil || len(rows) != 1 || rows[0].ID != root.ID {
		t.Fatalf("ListChildren roots: err=%v len=%d", err, len(rows))
	}
	if rows, err := repo.ListChildren(dbc, p.ID, &root.ID); err != nil || len(rows) != 1 || rows[0].ID != child.ID {
		t.Fatalf("ListChildren under root: err=%v len=%d", err, len(rows))
	}

	if sib, err := repo.FindSibling(dbc, p.ID, &root.ID, "main.go"); err != nil || sib == nil || sib.ID != child.ID {
		t.Fatalf("FindSibling hit: err=%v row=%v", err, sib)
	}
	if sib, err := repo.FindSibling(dbc, p.ID, &root.ID, "other.go"); err != nil || sib != nil {
		t.Fatalf("FindSibling miss: err=%v row=%v", err, sib)
	}
	if sib, err := repo.FindSibling(dbc, p.ID, nil, "src"); err != nil || sib == nil || sib.ID != root.ID {
		t.Fatalf("FindSibling root level: err=%v row=%v", err, sib)
	}

	if err := repo.UpdateFields(dbc, child.ID, map[string]interface{}{"name": "app.go"}); err != nil {
		t.Fatalf("UpdateFields: %v", err)
	}
	if got, err := repo.GetByID(dbc, child.ID); err != nil || got == nil || got.Name != "app.go" {
		t.Fatalf("after UpdateFields: err=%v row=%v", err, got)
	}

	if n, err := repo.CountAll(dbc); err != nil || n != 2 {
		t.Fatalf("CountAll: err=%v n=%d", err, n)
	}
	if n, err := repo.CountByProject(dbc, p.ID); err != nil || n != 2 {
		t.Fatalf("CountByProject: err=%v n=%d", err, n)
	}
	if n, err := repo.CountByKind(dbc, types.NodeKindFile); err != nil || n != 1 {
		t.Fatalf("CountByKind file: err=%v n=%d", err, n)
	}
	if n, err := repo.CountByKind(dbc, types.NodeKindFolder); err != nil || n != 1 {
		t.Fatalf("CountByKind folder: err=%v n=%d", err, n)
	}
	if total, err := repo.SumFileSizes(dbc); err != nil || total != 13 {
		t.Fatalf("SumFileSizes: err=%v total=%d", err, total)
	}

	if err := repo.SoftDeleteByIDs(dbc, []uuid.UUID{child.ID}); err != nil {
		t.Fatalf("SoftDeleteByIDs: %v", err)
	}
	if rows, err := repo.GetByIDs(dbc, []uuid.UUID{child.ID}); err != nil || len(rows) != 0 {
		t.Fatalf("after SoftDeleteByIDs GetByIDs: err=%v len=%d", err, len(rows))
	}
	if n, err := repo.CountByProject(dbc, p.ID); err != nil || n != 1 {
		t.Fatalf("count after soft delete: err=%v n=%d", err, n)
	}

	if err := repo.SoftDeleteByProject(dbc, p.ID); err != nil {
		t.Fatalf("SoftDeleteByProject: %v", err)
	}
	if rows, err := repo.ListByProject(dbc, p.ID); err != nil || len(rows) != 0 {
		t.Fatalf("after SoftDeleteByProject: err=%v len=%d", err, len(rows))
	}

	n3 := testutil.SeedFile(t, ctx, tx, p.ID, nil, "later.txt", "x")
	if err := repo.FullDeleteByIDs(dbc, []uuid.UUID{n3.ID}); err != nil {
		t.Fatalf("FullDeleteByIDs: %v", err)
	}
	testutil.SeedFile(t, ctx, tx, p.ID, nil, "last.txt", "y")
	if err := repo.FullDeleteByProject(dbc, p.ID); err != nil {
		t.Fatalf("FullDeleteByProject: %v", err)
	}
	var remaining int64
	if err := tx.WithContext(ctx).Unscoped().
		Model(&types.FileSystemNode{}).
		Where("project_id = ? AND name IN ?", p.ID, []string{"later.txt", "last.txt"}).
		Count(&remaining).Error; err != nil || remaining != 0 {
		t.Fatalf("after FullDeleteByProject: err=%v remaining=%d", err, remaining)
	}
}

func TestNodeRepoSearch(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewNodeRepo(db, testutil.Logger(t))

	p1 := testutil.SeedProject(t, ctx, tx, "search one")
	p2 := testutil.SeedProject(t, ctx, tx, "search two")

	testutil.SeedFile(t, ctx, tx, p1.ID, nil, "main.go", "")
	testutil.SeedFile(t, ctx, tx, p1.ID, nil, "Main.ts", "")
	testutil.SeedFile(t, ctx, tx, p1.ID, nil, "readme.md", "hello world")
	testutil.SeedFile(t, ctx, tx, p2.ID, nil, "main.py", "")
	testutil.SeedFile(t, ctx, tx, p1.ID, nil, "100%.txt", "")

	if rows, err := repo.Search(dbc, "main", nil, 0); err != nil || len(rows) != 3 {
		t.Fatalf("Search all projects: err=%v len=%d", err, len(rows))
	}
	if rows, err := repo.Search(dbc, "MAIN", nil, 0); err != nil || len(rows) != 3 {
		t.Fatalf("Search case-insensitive: err=%v len=%d", err, len(rows))
	}
	if rows, err := repo.Search(dbc, "main", &p2.ID, 0); err != nil || len(rows) != 1 {
		t.Fatalf("Search scoped to project: err=%v len=%d", err, len(rows))
	}
	if rows, err := repo.Search(dbc, "main", nil, 2); err != nil || len(rows) != 2 {
		t.Fatalf("Search with limit: err=%v len=%d", err, len(rows))
	}
	if rows, err := repo.Search(dbc, "WORLD", nil, 0); err != nil || len(rows) != 1 || rows[0].Name != "readme.md" {
		t.Fatalf("Search matches file content: err=%v len=%d", err, len(rows))
	}
	if rows, err := repo.Search(dbc, "0%", nil, 0); err != nil || len(rows) != 1 || rows[0].Name != "100%.txt" {
		t.Fatalf("Search escapes wildcards: err=%v len=%d", err, len(rows))
	}
	if rows, err := repo.Search(dbc, "   ", nil, 0); err != nil || len(rows) != 0 {
		t.Fatalf("Search blank query: err=%v len=%d", err, len(rows))
	}
}

func TestNodeRepoSiblingUniqueIndex(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewNodeRepo(db, testutil.Logger(t))

	p := testutil.SeedProject(t, ctx, tx, "unique siblings")
	folder := testutil.SeedFolder(t, ctx, tx, p.ID, nil, "src")
	testutil.SeedFile(t, ctx, tx, p.ID, &folder.ID, "main.go", "")

	dup := &types.FileSystemNode{
		ID:        uuid.New(),
		ProjectID: p.ID,
		ParentID:  &folder.ID,
		Kind:      types.NodeKindFile,
		Name:      "main.go",
	}
	if _, err := repo.Create(dbc, []*types.FileSystemNode{dup}); err == nil {
		t.Fatalf("expected unique index violation for duplicate sibling name")
	}
}
