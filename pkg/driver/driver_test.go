package driver

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KhronosGroup/OpenXR-CTS/pkg/report"
)

func registryPath(t *testing.T) string {
	t.Helper()
	dir, err := os.Getwd()
	require.NoError(t, err)
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return filepath.Join(dir, "testdata", "registry.xml")
		}
		parent := filepath.Dir(dir)
		require.NotEqual(t, dir, parent, "could not find repo root (no go.mod)")
		dir = parent
	}
}

func writeDoc(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestRunCleanAndFailing(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "clean.adoc", "flink:xrCreateInstance is documented.\n")
	writeDoc(t, dir, "broken.adoc", "flink:xrDoesNotExist is not.\n")
	writeDoc(t, dir, "skipme.adoc", "flink:xrAlsoMissing\n")

	cfg := &Config{
		Registry:  registryPath(t),
		Documents: []string{filepath.Join(dir, "*.adoc")},
		Exclude:   []string{filepath.Join(dir, "skip*.adoc")},
	}

	r, err := Run(context.Background(), cfg)
	require.NoError(t, err)
	require.Len(t, r.Messages, 1)
	assert.Equal(t, report.BadEntity, r.Messages[0].ID)
	assert.Contains(t, r.Messages[0].Location.Document, "broken.adoc")
	assert.False(t, r.IsClean())

	// Disabling the only failing kind makes the run pass.
	cfg.Disable = []string{"BAD_ENTITY"}
	r, err = Run(context.Background(), cfg)
	require.NoError(t, err)
	assert.True(t, r.IsClean())
	assert.Equal(t, 1, r.SuppressedCount())
}

func TestRunDeterministicOrder(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "a.adoc", "flink:xrMissingA\n")
	writeDoc(t, dir, "b.adoc", "flink:xrMissingB\n")
	writeDoc(t, dir, "c.adoc", "flink:xrMissingC\n")

	cfg := &Config{
		Registry:  registryPath(t),
		Documents: []string{filepath.Join(dir, "*.adoc")},
		Jobs:      3,
	}

	for i := 0; i < 3; i++ {
		r, err := Run(context.Background(), cfg)
		require.NoError(t, err)
		require.Len(t, r.Messages, 3)
		assert.Contains(t, r.Messages[0].Location.Document, "a.adoc")
		assert.Contains(t, r.Messages[1].Location.Document, "b.adoc")
		assert.Contains(t, r.Messages[2].Location.Document, "c.adoc")
	}
}

func TestRunFatalStartup(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "a.adoc", "prose\n")

	// Missing registry aborts before any scanning.
	cfg := &Config{
		Registry:  filepath.Join(dir, "nope.xml"),
		Documents: []string{filepath.Join(dir, "*.adoc")},
	}
	_, err := Run(context.Background(), cfg)
	assert.Error(t, err)

	// Empty document set is fatal too.
	cfg = &Config{
		Registry:  registryPath(t),
		Documents: []string{filepath.Join(dir, "*.nothing")},
	}
	_, err = Run(context.Background(), cfg)
	assert.Error(t, err)
}

func TestConfigEnabledIDs(t *testing.T) {
	cfg := &Config{
		Enable:  []string{"REFPAGE_MISSING"},
		Disable: []string{"MISSING_MACRO"},
	}
	enabled, err := cfg.EnabledIDs()
	require.NoError(t, err)
	assert.True(t, enabled[report.RefPageMissing])
	assert.False(t, enabled[report.MissingMacro])
	assert.True(t, enabled[report.BadEntity])

	cfg = &Config{Enable: []string{"LEGACY"}}
	_, err = cfg.EnabledIDs()
	assert.Error(t, err, "LEGACY is not applicable to openxr")

	cfg = &Config{Enable: []string{"BOGUS"}}
	_, err = cfg.EnabledIDs()
	assert.Error(t, err)
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "speclinks.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`registry: specification/registry/xr.xml
documents:
  - "specification/sources/**/*.adoc"
exclude:
  - "**/styleguide/**"
disable:
  - MISSING_MACRO
jobs: 4
`), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "specification/registry/xr.xml", cfg.Registry)
	assert.Len(t, cfg.Documents, 1)
	assert.Equal(t, 4, cfg.Jobs)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
