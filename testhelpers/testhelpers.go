// Package testhelpers provides workspace fixtures for pipeline tests.
package testhelpers

import (
	"os"
	"path/filepath"
	"testing"

	"lightmto/workspace"
)

// NewWorkspace creates a fully provisioned workspace in a temporary
// directory. The directory is cleaned up when the test finishes.
func NewWorkspace(t *testing.T) *workspace.Workspace {
	t.Helper()

	ws := workspace.New(t.TempDir())
	if err := ws.EnsureDirs(); err != nil {
		t.Fatalf("failed to provision workspace: %v", err)
	}
	return ws
}

// WriteFile writes raw content to a path inside the workspace, creating
// parent directories as needed.
func WriteFile(t *testing.T, path, content string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create dir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

// TouchDrawings creates empty .dwg files in the workspace drawing dir.
func TouchDrawings(t *testing.T, ws *workspace.Workspace, names ...string) {
	t.Helper()

	if err := os.MkdirAll(ws.DwgDir, 0o755); err != nil {
		t.Fatalf("failed to create dwg dir: %v", err)
	}
	for _, name := range names {
		if err := os.WriteFile(filepath.Join(ws.DwgDir, name), nil, 0o644); err != nil {
			t.Fatalf("failed to touch %s: %v", name, err)
		}
	}
}

// ReadFile returns the content of a workspace file, failing the test on
// error.
func ReadFile(t *testing.T, path string) string {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read %s: %v", path, err)
	}
	return string(data)
}
