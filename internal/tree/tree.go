// Package tree holds the pure hierarchy logic for file system nodes.
//
// The canonical representation of a project's nodes is always the flat,
// parent-pointer form owned by the node repo. Everything here derives
// disposable views from that form (Assemble), converts nested input back to
// it (Flatten), or walks it (CollectDescendantIDs). Nothing in this package
// touches storage.
package tree

import (
	"github.com/google/uuid"

	types "github.com/filecanvas/filecanvas-backend/internal/domain"
)

// Assemble builds the nested hierarchical view from a flat node set by
// grouping on ParentID. The input is never mutated: every returned node is a
// shallow copy. Folders always get a non-nil (possibly empty) Children slice,
// files never get one. Returned roots are the nodes with no parent; a node
// whose parent is absent from the set, is itself, or is a file also surfaces
// as a root rather than being dropped. Child order follows input order, so a
// creation-ordered input yields creation-ordered children.
func Assemble(flat []*types.FileSystemNode) []*types.FileSystemNode {
	copies := make([]*types.FileSystemNode, 0, len(flat))
	byID := make(map[uuid.UUID]*types.FileSystemNode, len(flat))
	for _, n := range flat {
		if n == nil {
			continue
		}
		c := *n
		c.Children = nil
		if c.IsFolder() {
			c.Children = make([]*types.FileSystemNode, 0)
		}
		copies = append(copies, &c)
		byID[c.ID] = &c
	}

	roots := make([]*types.FileSystemNode, 0)
	for _, c := range copies {
		if c.ParentID == nil {
			roots = append(roots, c)
			continue
		}
		parent, ok := byID[*c.ParentID]
		if !ok || parent.ID == c.ID || !parent.IsFolder() {
			roots = append(roots, c)
			continue
		}
		parent.Children = append(parent.Children, c)
	}
	return roots
}

// Flatten is the inverse of Assemble: it walks a nested structure depth-first
// in pre-order, stamps each node's ParentID from its structural position
// (roots get nil), strips Children, and returns the flat sequence that is
// written to storage. Input nodes are copied, not mutated. The walk keeps a
// visited set so cyclic or aliased input terminates.
func Flatten(hierarchy []*types.FileSystemNode) []*types.FileSystemNode {
	out := make([]*types.FileSystemNode, 0, len(hierarchy))
	seen := make(map[*types.FileSystemNode]bool)

	var walk func(nodes []*types.FileSystemNode, parentID *uuid.UUID)
	walk = func(nodes []*types.FileSystemNode, parentID *uuid.UUID) {
		for _, n := range nodes {
			if n == nil || seen[n] {
				continue
			}
			seen[n] = true

			c := *n
			c.ParentID = parentID
			c.Children = nil
			out = append(out, &c)

			if len(n.Children) > 0 {
				pid := n.ID
				walk(n.Children, &pid)
			}
		}
	}
	walk(hierarchy, nil)
	return out
}

// CollectDescendantIDs returns the ids of every transitive descendant of
// rootID within the flat set, breadth-first, excluding rootID itself. The
// visited set makes it safe on corrupt input containing parent cycles.
func CollectDescendantIDs(flat []*types.FileSystemNode, rootID uuid.UUID) []uuid.UUID {
	childrenOf := make(map[uuid.UUID][]uuid.UUID, len(flat))
	for _, n := range flat {
		if n == nil || n.ParentID == nil {
			continue
		}
		childrenOf[*n.ParentID] = append(childrenOf[*n.ParentID], n.ID)
	}

	out := make([]uuid.UUID, 0)
	visited := map[uuid.UUID]bool{rootID: true}
	queue := append([]uuid.UUID(nil), childrenOf[rootID]...)
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		if visited[id] {
			continue
		}
		visited[id] = true
		out = append(out, id)
		queue = append(queue, childrenOf[id]...)
	}
	return out
}
