package services

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/filecanvas/filecanvas-backend/internal/data/repos/testutil"
	types "github.com/filecanvas/filecanvas-backend/internal/domain"
	"github.com/filecanvas/filecanvas-backend/internal/realtime"
)

func TestCreateProject(t *testing.T) {
	env := newServiceEnv(t)

	_, err := env.projects.CreateProject(bg(), CreateProjectInput{Name: "   "})
	wantClass(t, err, http.StatusBadRequest, "validation_error")

	created, err := env.projects.CreateProject(bg(), CreateProjectInput{
		Name:        "  Canvas One  ",
		Description: "first",
		Owner:       "alice",
		Settings:    datatypes.JSON([]byte(`{"theme":"dark"}`)),
	})
	if err != nil {
		t.Fatalf("CreateProject: %v", err)
	}
	if created.Name != "Canvas One" {
		t.Fatalf("name: want=%q got=%q", "Canvas One", created.Name)
	}
	if !created.IsActive {
		t.Fatalf("new projects start active")
	}
	if created.ID == uuid.Nil {
		t.Fatalf("id not assigned")
	}

	msg := takeOne(t, env.rec, realtime.SSEEventProjectCreated)
	if msg.Channel != realtime.GlobalChannel {
		t.Fatalf("channel: want=%s got=%s", realtime.GlobalChannel, msg.Channel)
	}
}

func TestGetAndListProjects(t *testing.T) {
	env := newServiceEnv(t)

	_, err := env.projects.GetProject(bg(), uuid.New())
	wantClass(t, err, http.StatusNotFound, "project_not_found")

	a, err := env.projects.CreateProject(bg(), CreateProjectInput{Name: "list-a"})
	if err != nil {
		t.Fatalf("create a: %v", err)
	}
	b, err := env.projects.CreateProject(bg(), CreateProjectInput{Name: "list-b"})
	if err != nil {
		t.Fatalf("create b: %v", err)
	}
	env.rec.take()

	listed, err := env.projects.ListProjects(bg())
	if err != nil {
		t.Fatalf("ListProjects: %v", err)
	}
	if !containsProject(listed, a.ID) || !containsProject(listed, b.ID) {
		t.Fatalf("list missing created projects")
	}

	// Archiving hides a project from the list but keeps it reachable by id.
	inactive := false
	if _, err := env.projects.UpdateProject(bg(), b.ID, UpdateProjectInput{IsActive: &inactive}); err != nil {
		t.Fatalf("archive: %v", err)
	}
	takeOne(t, env.rec, realtime.SSEEventProjectUpdated)

	listed, err = env.projects.ListProjects(bg())
	if err != nil {
		t.Fatalf("ListProjects: %v", err)
	}
	if containsProject(listed, b.ID) {
		t.Fatalf("archived project still listed")
	}
	got, err := env.projects.GetProject(bg(), b.ID)
	if err != nil {
		t.Fatalf("GetProject archived: %v", err)
	}
	if got.IsActive {
		t.Fatalf("archived project still active")
	}
}

func TestUpdateProject(t *testing.T) {
	env := newServiceEnv(t)
	project := testutil.SeedProject(t, context.Background(), env.db, "update-me")

	_, err := env.projects.UpdateProject(bg(), project.ID, UpdateProjectInput{})
	wantClass(t, err, http.StatusBadRequest, "validation_error")

	empty := "  "
	_, err = env.projects.UpdateProject(bg(), project.ID, UpdateProjectInput{Name: &empty})
	wantClass(t, err, http.StatusBadRequest, "validation_error")

	_, err = env.projects.UpdateProject(bg(), uuid.New(), UpdateProjectInput{Name: testutil.PtrString("x")})
	wantClass(t, err, http.StatusNotFound, "project_not_found")

	updated, err := env.projects.UpdateProject(bg(), project.ID, UpdateProjectInput{
		Name:        testutil.PtrString("  renamed  "),
		Description: testutil.PtrString("now described"),
		Settings:    datatypes.JSON([]byte(`{"layout":"grid"}`)),
	})
	if err != nil {
		t.Fatalf("UpdateProject: %v", err)
	}
	if updated.Name != "renamed" || updated.Description != "now described" {
		t.Fatalf("patched fields: %+v", updated)
	}
	if !strings.Contains(string(updated.Settings), "grid") {
		t.Fatalf("settings not replaced: %s", updated.Settings)
	}
	takeOne(t, env.rec, realtime.SSEEventProjectUpdated)
}

func TestDeleteProjectSoftCascade(t *testing.T) {
	env := newServiceEnv(t)
	ctx := context.Background()
	project := testutil.SeedProject(t, ctx, env.db, "delete-soft")
	root := testutil.SeedFolder(t, ctx, env.db, project.ID, nil, "root")
	testutil.SeedFile(t, ctx, env.db, project.ID, testutil.PtrUUID(root.ID), "a.txt", "a")

	res, err := env.projects.DeleteProject(bg(), project.ID, false)
	if err != nil {
		t.Fatalf("DeleteProject: %v", err)
	}
	if res.ID != project.ID || res.Hard {
		t.Fatalf("result: %+v", res)
	}

	_, err = env.projects.GetProject(bg(), project.ID)
	wantClass(t, err, http.StatusNotFound, "project_not_found")

	live, err := env.nodeRepo.ListByProject(bg(), project.ID)
	if err != nil {
		t.Fatalf("ListByProject: %v", err)
	}
	if len(live) != 0 {
		t.Fatalf("live nodes after soft delete: %d", len(live))
	}

	// Soft delete keeps the rows for recovery.
	var kept int64
	if err := env.db.Unscoped().Model(&types.FileSystemNode{}).
		Where("project_id = ?", project.ID).Count(&kept).Error; err != nil {
		t.Fatalf("unscoped count: %v", err)
	}
	if kept != 2 {
		t.Fatalf("unscoped nodes: want=2 got=%d", kept)
	}

	data := payload(t, takeOne(t, env.rec, realtime.SSEEventProjectDeleted))
	if data["hard"].(bool) != false {
		t.Fatalf("event hard: %v", data["hard"])
	}
}

func TestDeleteProjectHardCascade(t *testing.T) {
	env := newServiceEnv(t)
	ctx := context.Background()
	project := testutil.SeedProject(t, ctx, env.db, "delete-hard")
	root := testutil.SeedFolder(t, ctx, env.db, project.ID, nil, "root")
	testutil.SeedFile(t, ctx, env.db, project.ID, testutil.PtrUUID(root.ID), "a.txt", "a")

	res, err := env.projects.DeleteProject(bg(), project.ID, true)
	if err != nil {
		t.Fatalf("DeleteProject: %v", err)
	}
	if !res.Hard {
		t.Fatalf("result: %+v", res)
	}

	var nodes int64
	if err := env.db.Unscoped().Model(&types.FileSystemNode{}).
		Where("project_id = ?", project.ID).Count(&nodes).Error; err != nil {
		t.Fatalf("unscoped node count: %v", err)
	}
	if nodes != 0 {
		t.Fatalf("hard delete left %d node rows", nodes)
	}
	var projects int64
	if err := env.db.Unscoped().Model(&types.Project{}).
		Where("id = ?", project.ID).Count(&projects).Error; err != nil {
		t.Fatalf("unscoped project count: %v", err)
	}
	if projects != 0 {
		t.Fatalf("hard delete left the project row")
	}

	data := payload(t, takeOne(t, env.rec, realtime.SSEEventProjectDeleted))
	if data["hard"].(bool) != true {
		t.Fatalf("event hard: %v", data["hard"])
	}
}

func TestDeleteProjectMissing(t *testing.T) {
	env := newServiceEnv(t)
	_, err := env.projects.DeleteProject(bg(), uuid.New(), false)
	wantClass(t, err, http.StatusNotFound, "project_not_found")
}

func containsProject(list []*types.Project, id uuid.UUID) bool {
	for _, p := range list {
		if p.ID == id {
			return true
		}
	}
	return false
}
