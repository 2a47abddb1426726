package canvas

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/filecanvas/filecanvas-backend/internal/data/repos/testutil"
	types "github.com/filecanvas/filecanvas-backend/internal/domain"
	"github.com/filecanvas/filecanvas-backend/internal/platform/dbctx"
)

func TestProjectRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewProjectRepo(db, testutil.Logger(t))

	p := &types.Project{
		ID:       uuid.New(),
		Name:     "demo",
		Owner:    "tester",
		IsActive: true,
	}
	if _, err := repo.Create(dbc, []*types.Project{p}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := repo.GetByID(dbc, p.ID)
	if err != nil || got == nil || got.Name != "demo" {
		t.Fatalf("GetByID: err=%v row=%v", err, got)
	}
	if missing, err := repo.GetByID(dbc, uuid.New()); err != nil || missing != nil {
		t.Fatalf("GetByID missing: err=%v row=%v", err, missing)
	}
	if none, err := repo.GetByID(dbc, uuid.Nil); err != nil || none != nil {
		t.Fatalf("GetByID nil id: err=%v row=%v", err, none)
	}

	p2 := testutil.SeedProject(t, ctx, tx, "second")
	if rows, err := repo.List(dbc); err != nil || len(rows) != 2 {
		t.Fatalf("List: err=%v len=%d", err, len(rows))
	} else if rows[0].ID != p.ID || rows[1].ID != p2.ID {
		t.Fatalf("List: expected creation order, got %s first", rows[0].Name)
	}

	if n, err := repo.Count(dbc); err != nil || n != 2 {
		t.Fatalf("Count: err=%v n=%d", err, n)
	}

	if err := repo.UpdateFields(dbc, p2.ID, map[string]interface{}{"is_active": false}); err != nil {
		t.Fatalf("archive project: %v", err)
	}
	if rows, err := repo.List(dbc); err != nil || len(rows) != 1 || rows[0].ID != p.ID {
		t.Fatalf("List should hide archived projects: err=%v len=%d", err, len(rows))
	}
	if got, err := repo.GetByID(dbc, p2.ID); err != nil || got == nil || got.IsActive {
		t.Fatalf("archived project should stay reachable by id: err=%v row=%v", err, got)
	}
	if err := repo.UpdateFields(dbc, p2.ID, map[string]interface{}{"is_active": true}); err != nil {
		t.Fatalf("unarchive project: %v", err)
	}

	if err := repo.UpdateFields(dbc, p.ID, map[string]interface{}{
		"name":        "renamed",
		"description": "now with text",
	}); err != nil {
		t.Fatalf("UpdateFields: %v", err)
	}
	if got, err := repo.GetByID(dbc, p.ID); err != nil || got == nil || got.Name != "renamed" || got.Description != "now with text" {
		t.Fatalf("after UpdateFields: err=%v row=%v", err, got)
	}

	if err := repo.SoftDeleteByIDs(dbc, []uuid.UUID{p.ID}); err != nil {
		t.Fatalf("SoftDeleteByIDs: %v", err)
	}
	if got, err := repo.GetByID(dbc, p.ID); err != nil || got != nil {
		t.Fatalf("after SoftDeleteByIDs GetByID: err=%v row=%v", err, got)
	}
	if n, err := repo.Count(dbc); err != nil || n != 1 {
		t.Fatalf("Count after soft delete: err=%v n=%d", err, n)
	}

	if err := repo.FullDeleteByIDs(dbc, []uuid.UUID{p2.ID}); err != nil {
		t.Fatalf("FullDeleteByIDs: %v", err)
	}
	var remaining int64
	if err := tx.WithContext(ctx).Unscoped().
		Model(&types.Project{}).
		Where("id = ?", p2.ID).
		Count(&remaining).Error; err != nil || remaining != 0 {
		t.Fatalf("after FullDeleteByIDs: err=%v remaining=%d", err, remaining)
	}
}
