package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeProjectFile(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, ProjectFileName)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing project file: %v", err)
	}
	return path
}

func TestLoadProjectFileMissingIsNotAnError(t *testing.T) {
	c := NewConfig()
	if err := c.LoadProjectFile(filepath.Join(t.TempDir(), "viro.yaml")); err != nil {
		t.Fatalf("LoadProjectFile on missing file: %v", err)
	}
}

func TestLoadProjectFileSetsUnsetFields(t *testing.T) {
	dir := t.TempDir()
	path := writeProjectFile(t, dir, "prompt: \"proj> \"\nhistory_file: proj_history\ntrace: true\n")

	c := NewConfig()
	if err := c.LoadProjectFile(path); err != nil {
		t.Fatalf("LoadProjectFile: %v", err)
	}
	if c.Prompt != "proj> " {
		t.Errorf("Prompt = %q, want %q", c.Prompt, "proj> ")
	}
	if c.HistoryFile != "proj_history" {
		t.Errorf("HistoryFile = %q, want %q", c.HistoryFile, "proj_history")
	}
	if !c.TraceOn {
		t.Errorf("TraceOn = false, want true")
	}
}

func TestLoadProjectFileDoesNotOverrideAlreadySetFields(t *testing.T) {
	dir := t.TempDir()
	path := writeProjectFile(t, dir, "prompt: \"proj> \"\n")

	c := NewConfig()
	c.Prompt = "cli> "
	if err := c.LoadProjectFile(path); err != nil {
		t.Fatalf("LoadProjectFile: %v", err)
	}
	if c.Prompt != "cli> " {
		t.Errorf("Prompt = %q, want cli flag to win: %q", c.Prompt, "cli> ")
	}
}

func TestLoadProjectFileRejectsMalformedYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeProjectFile(t, dir, "prompt: [unterminated\n")

	c := NewConfig()
	if err := c.LoadProjectFile(path); err == nil {
		t.Fatal("expected an error parsing malformed yaml")
	}
}

func TestFindProjectFileWalksUpToAncestor(t *testing.T) {
	root := t.TempDir()
	writeProjectFile(t, root, "quiet: true\n")

	nested := filepath.Join(root, "a", "b", "c")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}

	found, err := FindProjectFile(nested)
	if err != nil {
		t.Fatalf("FindProjectFile: %v", err)
	}
	want := filepath.Join(root, ProjectFileName)
	if found != want {
		t.Errorf("FindProjectFile = %q, want %q", found, want)
	}
}

func TestFindProjectFileReturnsEmptyWhenNoneExists(t *testing.T) {
	dir := t.TempDir()
	found, err := FindProjectFile(dir)
	if err != nil {
		t.Fatalf("FindProjectFile: %v", err)
	}
	if found != "" {
		t.Errorf("FindProjectFile = %q, want empty", found)
	}
}
