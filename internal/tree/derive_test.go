package tree

import (
	"testing"

	types "github.com/filecanvas/filecanvas-backend/internal/domain"
)

func TestSizeBytes(t *testing.T) {
	if got := SizeBytes(""); got != 0 {
		t.Fatalf("expected 0 bytes for empty content, got %d", got)
	}
	if got := SizeBytes("a\nb\nc"); got != 5 {
		t.Fatalf("expected 5 bytes, got %d", got)
	}
	if got := SizeBytes("héllo"); got != 6 {
		t.Fatalf("expected byte length not rune length, got %d", got)
	}
}

func TestCountLines(t *testing.T) {
	cases := []struct {
		content string
		want    int
	}{
		{"", 1},
		{"one line", 1},
		{"a\nb\nc", 3},
		{"trailing\n", 2},
	}
	for _, tc := range cases {
		if got := CountLines(tc.content); got != tc.want {
			t.Fatalf("CountLines(%q) = %d, want %d", tc.content, got, tc.want)
		}
	}
}

func TestApplyFileMetadata(t *testing.T) {
	n := &types.FileSystemNode{
		Kind:    types.NodeKindFile,
		Name:    "index.js",
		Content: "a\nb\nc",
	}

	ApplyFileMetadata(n)

	if n.SizeBytes != 5 {
		t.Fatalf("expected size 5, got %d", n.SizeBytes)
	}
	if n.Metadata.LineCount != 3 {
		t.Fatalf("expected 3 lines, got %d", n.Metadata.LineCount)
	}
	if n.Metadata.Language != "javascript" {
		t.Fatalf("expected javascript, got %q", n.Metadata.Language)
	}
	if n.Metadata.Encoding != DefaultEncoding {
		t.Fatalf("expected %q encoding, got %q", DefaultEncoding, n.Metadata.Encoding)
	}
	if n.Metadata.Permissions != FilePermissions {
		t.Fatalf("expected file permissions, got %q", n.Metadata.Permissions)
	}
}

func TestNormalizeFolderStripsContent(t *testing.T) {
	n := &types.FileSystemNode{
		Kind:    types.NodeKindFolder,
		Name:    "src",
		Content: "should not persist",
		Children: []*types.FileSystemNode{
			{Kind: types.NodeKindFile, Name: "main.go"},
		},
	}
	n.SizeBytes = 99
	n.Metadata.LineCount = 7
	n.Metadata.Language = "go"

	Normalize(n)

	if n.Content != "" || n.SizeBytes != 0 {
		t.Fatalf("expected folder content cleared, got %q/%d", n.Content, n.SizeBytes)
	}
	if n.Metadata.LineCount != 0 || n.Metadata.Language != "" {
		t.Fatalf("expected folder metadata cleared, got %d/%q", n.Metadata.LineCount, n.Metadata.Language)
	}
	if n.Metadata.Permissions != FolderPermissions {
		t.Fatalf("expected folder permissions, got %q", n.Metadata.Permissions)
	}
	if n.Children != nil {
		t.Fatalf("expected children stripped before persistence")
	}
}

func TestNormalizeFileClearsExpansion(t *testing.T) {
	n := &types.FileSystemNode{
		Kind:     types.NodeKindFile,
		Name:     "notes.md",
		Content:  "hello",
		Expanded: true,
	}

	Normalize(n)

	if n.Expanded {
		t.Fatalf("expected file expansion cleared")
	}
	if n.SizeBytes != 5 || n.Metadata.Language != "markdown" {
		t.Fatalf("expected derived metadata applied, got %d/%q", n.SizeBytes, n.Metadata.Language)
	}
}
