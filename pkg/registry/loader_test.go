package registry

import (
	"os"
	"path/filepath"
	"testing"
)

// fixturePath returns the path to the shared registry fixture in the
// repo-root testdata directory.
func fixturePath(t *testing.T) string {
	t.Helper()
	dir, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return filepath.Join(dir, "testdata", "registry.xml")
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatal("could not find repo root (no go.mod)")
		}
		dir = parent
	}
}

func TestLoadFixture(t *testing.T) {
	reg, err := Load(fixturePath(t))
	if err != nil {
		t.Fatal(err)
	}

	types := make(map[string]TypeDecl)
	for _, d := range reg.Types {
		types[d.Name] = d
	}

	// Names declared as <name> children must be picked up.
	if d, ok := types["XrSwapchainCreateFlags"]; !ok || d.Category != "bitmask" {
		t.Errorf("XrSwapchainCreateFlags: got %+v", d)
	}
	if d, ok := types["XrInstance"]; !ok || d.Category != "handle" {
		t.Errorf("XrInstance: got %+v", d)
	}
	// Names declared as attributes too.
	if d, ok := types["XrResult"]; !ok || d.Category != "enum" {
		t.Errorf("XrResult: got %+v", d)
	}
	if d, ok := types["XrBool32"]; !ok || d.Category != "basetype" || d.Requires != "openxr_platform_defines" {
		t.Errorf("XrBool32: got %+v", d)
	}
	// Struct member <name> elements must not leak into the type name.
	if _, ok := types["XrApplicationInfo"]; !ok {
		t.Error("XrApplicationInfo not found")
	}
	if _, ok := types["applicationName"]; ok {
		t.Error("struct member name leaked into type declarations")
	}

	groups := make(map[string]EnumGroup)
	for _, g := range reg.Enums {
		groups[g.Name] = g
	}
	if g := groups["XrResult"]; g.Type != "enum" || len(g.Values) != 2 {
		t.Errorf("XrResult group: got %+v", g)
	}
	if g := groups["XrSwapchainCreateFlagBits"]; g.Type != "bitmask" || len(g.Values) != 2 {
		t.Errorf("XrSwapchainCreateFlagBits group: got %+v", g)
	}

	cmds := make(map[string]bool)
	for _, c := range reg.Commands {
		cmds[c.Name] = true
	}
	if !cmds["xrCreateInstance"] || !cmds["xrDestroyInstance"] {
		t.Errorf("commands: got %v", cmds)
	}
}

func TestParseErrors(t *testing.T) {
	if _, err := Parse([]byte("<registry><types><type name='X'></registry>")); err == nil {
		t.Error("expected error for malformed XML")
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.xml")); err == nil {
		t.Error("expected error for missing file")
	}
}
