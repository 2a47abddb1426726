package tree

import (
	"testing"

	"github.com/google/uuid"

	types "github.com/filecanvas/filecanvas-backend/internal/domain"
)

func folderNode(name string, parentID *uuid.UUID) *types.FileSystemNode {
	return &types.FileSystemNode{
		ID:       uuid.New(),
		Kind:     types.NodeKindFolder,
		Name:     name,
		ParentID: parentID,
	}
}

func fileNode(name string, parentID *uuid.UUID) *types.FileSystemNode {
	return &types.FileSystemNode{
		ID:       uuid.New(),
		Kind:     types.NodeKindFile,
		Name:     name,
		ParentID: parentID,
	}
}

func TestAssembleEmpty(t *testing.T) {
	roots := Assemble(nil)
	if roots == nil {
		t.Fatalf("expected non-nil slice for empty input")
	}
	if len(roots) != 0 {
		t.Fatalf("expected 0 roots, got %d", len(roots))
	}
}

func TestAssembleGroupsByParent(t *testing.T) {
	root := folderNode("src", nil)
	sub := folderNode("pkg", &root.ID)
	f1 := fileNode("main.go", &root.ID)
	f2 := fileNode("util.go", &sub.ID)
	loose := fileNode("README.md", nil)

	roots := Assemble([]*types.FileSystemNode{root, sub, f1, f2, loose})

	if len(roots) != 2 {
		t.Fatalf("expected 2 roots, got %d", len(roots))
	}
	if roots[0].ID != root.ID || roots[1].ID != loose.ID {
		t.Fatalf("expected input-ordered roots, got %s then %s", roots[0].Name, roots[1].Name)
	}
	if len(roots[0].Children) != 2 {
		t.Fatalf("expected 2 children under %s, got %d", root.Name, len(roots[0].Children))
	}
	if roots[0].Children[0].ID != sub.ID || roots[0].Children[1].ID != f1.ID {
		t.Fatalf("expected input-ordered children, got %s then %s",
			roots[0].Children[0].Name, roots[0].Children[1].Name)
	}
	if len(roots[0].Children[0].Children) != 1 || roots[0].Children[0].Children[0].ID != f2.ID {
		t.Fatalf("expected %s nested under %s", f2.Name, sub.Name)
	}
}

func TestAssembleChildrenSlices(t *testing.T) {
	emptyFolder := folderNode("empty", nil)
	f := fileNode("notes.txt", nil)

	roots := Assemble([]*types.FileSystemNode{emptyFolder, f})

	if roots[0].Children == nil {
		t.Fatalf("expected empty folder to carry a non-nil children slice")
	}
	if len(roots[0].Children) != 0 {
		t.Fatalf("expected no children, got %d", len(roots[0].Children))
	}
	if roots[1].Children != nil {
		t.Fatalf("expected file to carry no children slice")
	}
}

func TestAssembleDoesNotMutateInput(t *testing.T) {
	root := folderNode("src", nil)
	child := fileNode("main.go", &root.ID)
	flat := []*types.FileSystemNode{root, child}

	Assemble(flat)

	if root.Children != nil {
		t.Fatalf("input root gained children")
	}
	if child.ParentID == nil || *child.ParentID != root.ID {
		t.Fatalf("input child parent changed")
	}
}

func TestAssembleDanglingParentBecomesRoot(t *testing.T) {
	missing := uuid.New()
	orphan := fileNode("orphan.txt", &missing)

	roots := Assemble([]*types.FileSystemNode{orphan})

	if len(roots) != 1 || roots[0].ID != orphan.ID {
		t.Fatalf("expected orphan surfaced as root, got %d roots", len(roots))
	}
}

func TestAssembleSelfParentBecomesRoot(t *testing.T) {
	n := folderNode("loop", nil)
	n.ParentID = &n.ID

	roots := Assemble([]*types.FileSystemNode{n})

	if len(roots) != 1 || roots[0].ID != n.ID {
		t.Fatalf("expected self-parented node surfaced as root, got %d roots", len(roots))
	}
}

func TestAssembleFileParentBecomesRoot(t *testing.T) {
	f := fileNode("main.go", nil)
	child := fileNode("under-file.txt", &f.ID)

	roots := Assemble([]*types.FileSystemNode{f, child})

	if len(roots) != 2 {
		t.Fatalf("expected node under a file surfaced as root, got %d roots", len(roots))
	}
	if roots[0].Children != nil {
		t.Fatalf("file gained children")
	}
}

func TestFlattenStampsParentsPreOrder(t *testing.T) {
	root := folderNode("src", nil)
	sub := folderNode("pkg", nil)
	leaf := fileNode("util.go", nil)
	sibling := fileNode("main.go", nil)

	sub.Children = []*types.FileSystemNode{leaf}
	root.Children = []*types.FileSystemNode{sub, sibling}

	flat := Flatten([]*types.FileSystemNode{root})

	if len(flat) != 4 {
		t.Fatalf("expected 4 nodes, got %d", len(flat))
	}
	order := []uuid.UUID{root.ID, sub.ID, leaf.ID, sibling.ID}
	for i, want := range order {
		if flat[i].ID != want {
			t.Fatalf("expected pre-order position %d to be %s", i, want)
		}
	}
	if flat[0].ParentID != nil {
		t.Fatalf("expected root to have nil parent")
	}
	if flat[1].ParentID == nil || *flat[1].ParentID != root.ID {
		t.Fatalf("expected %s parented to %s", sub.Name, root.Name)
	}
	if flat[2].ParentID == nil || *flat[2].ParentID != sub.ID {
		t.Fatalf("expected %s parented to %s", leaf.Name, sub.Name)
	}
	for _, n := range flat {
		if n.Children != nil {
			t.Fatalf("expected flattened node %s to carry no children", n.Name)
		}
	}
}

func TestFlattenOverridesStaleParentPointers(t *testing.T) {
	stale := uuid.New()
	root := folderNode("src", nil)
	child := fileNode("main.go", &stale)
	root.Children = []*types.FileSystemNode{child}

	flat := Flatten([]*types.FileSystemNode{root})

	if flat[1].ParentID == nil || *flat[1].ParentID != root.ID {
		t.Fatalf("expected nesting to win over the stale parent pointer")
	}
}

func TestFlattenCyclicInputTerminates(t *testing.T) {
	a := folderNode("a", nil)
	b := folderNode("b", nil)
	a.Children = []*types.FileSystemNode{b}
	b.Children = []*types.FileSystemNode{a}

	flat := Flatten([]*types.FileSystemNode{a})

	if len(flat) != 2 {
		t.Fatalf("expected each node emitted once, got %d", len(flat))
	}
}

func TestFlattenDoesNotMutateInput(t *testing.T) {
	root := folderNode("src", nil)
	child := fileNode("main.go", nil)
	root.Children = []*types.FileSystemNode{child}

	Flatten([]*types.FileSystemNode{root})

	if len(root.Children) != 1 {
		t.Fatalf("input root lost its children")
	}
	if child.ParentID != nil {
		t.Fatalf("input child gained a parent pointer")
	}
}

func TestAssembleFlattenRoundTrip(t *testing.T) {
	root := folderNode("src", nil)
	sub := folderNode("pkg", &root.ID)
	f1 := fileNode("main.go", &root.ID)
	f2 := fileNode("util.go", &sub.ID)
	flat := []*types.FileSystemNode{root, sub, f1, f2}

	again := Flatten(Assemble(flat))

	if len(again) != len(flat) {
		t.Fatalf("expected %d nodes after round trip, got %d", len(flat), len(again))
	}
	parents := make(map[uuid.UUID]*uuid.UUID, len(flat))
	for _, n := range flat {
		parents[n.ID] = n.ParentID
	}
	for _, n := range again {
		want, ok := parents[n.ID]
		if !ok {
			t.Fatalf("round trip invented node %s", n.ID)
		}
		switch {
		case want == nil && n.ParentID != nil:
			t.Fatalf("node %s gained a parent", n.Name)
		case want != nil && (n.ParentID == nil || *n.ParentID != *want):
			t.Fatalf("node %s changed parent", n.Name)
		}
	}
}

func TestCollectDescendantIDs(t *testing.T) {
	root := folderNode("src", nil)
	sub := folderNode("pkg", &root.ID)
	f1 := fileNode("main.go", &root.ID)
	f2 := fileNode("util.go", &sub.ID)
	other := fileNode("README.md", nil)
	flat := []*types.FileSystemNode{root, sub, f1, f2, other}

	ids := CollectDescendantIDs(flat, root.ID)

	if len(ids) != 3 {
		t.Fatalf("expected 3 descendants, got %d", len(ids))
	}
	got := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		if id == root.ID {
			t.Fatalf("descendants must exclude the root itself")
		}
		got[id] = true
	}
	for _, want := range []uuid.UUID{sub.ID, f1.ID, f2.ID} {
		if !got[want] {
			t.Fatalf("missing descendant %s", want)
		}
	}
	if got[other.ID] {
		t.Fatalf("unrelated node collected as descendant")
	}
}

func TestCollectDescendantIDsLeaf(t *testing.T) {
	f := fileNode("main.go", nil)

	ids := CollectDescendantIDs([]*types.FileSystemNode{f}, f.ID)

	if len(ids) != 0 {
		t.Fatalf("expected no descendants for a leaf, got %d", len(ids))
	}
}

func TestCollectDescendantIDsCycleTerminates(t *testing.T) {
	a := folderNode("a", nil)
	b := folderNode("b", nil)
	a.ParentID = &b.ID
	b.ParentID = &a.ID

	ids := CollectDescendantIDs([]*types.FileSystemNode{a, b}, a.ID)

	if len(ids) != 1 || ids[0] != b.ID {
		t.Fatalf("expected the cycle partner once, got %d ids", len(ids))
	}
}
