package entity

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KhronosGroup/OpenXR-CTS/pkg/registry"
)

func fixtureDB(t *testing.T) *Database {
	t.Helper()
	dir, err := os.Getwd()
	require.NoError(t, err)
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			break
		}
		parent := filepath.Dir(dir)
		require.NotEqual(t, dir, parent, "could not find repo root (no go.mod)")
		dir = parent
	}
	reg, err := registry.Load(filepath.Join(dir, "testdata", "registry.xml"))
	require.NoError(t, err)
	return NewDatabase(reg, OpenXR{})
}

func TestLikelyRecognized(t *testing.T) {
	db := fixtureDB(t)
	assert.True(t, db.LikelyRecognizedEntity("xrBla"))
	assert.True(t, db.LikelyRecognizedEntity("XrBla"))
	assert.True(t, db.LikelyRecognizedEntity("XR_BLA"))
	assert.True(t, db.LikelyRecognizedEntity("PFN_xrVoidFunction"))
	assert.True(t, db.LikelyRecognizedEntity("XRAPI_CALL"))
	assert.False(t, db.LikelyRecognizedEntity("GL_BLA"))
	assert.False(t, db.LikelyRecognizedEntity("uint32_t"))
}

func TestFindEntity(t *testing.T) {
	db := fixtureDB(t)

	e, ok := db.FindEntity("xrCreateInstance")
	require.True(t, ok)
	assert.Equal(t, "flink", e.MacroKind)
	assert.Equal(t, "protos", e.Category)
	assert.True(t, e.Generates)

	// Extra defines come from the family, not the registry.
	e, ok = db.FindEntity("XRAPI_CALL")
	require.True(t, ok)
	assert.Equal(t, "dlink", e.MacroKind)
	assert.Equal(t, "configdefines", e.Category)
	assert.False(t, e.Generates)

	_, ok = db.FindEntity("xrNoSuchCommand")
	assert.False(t, ok)
}

func TestBitmaskRegisteredAsFlags(t *testing.T) {
	db := fixtureDB(t)

	// Bitmask-category types are redirected: flags category, elink
	// macro, never the default tlink.
	e, ok := db.FindEntity("XrSwapchainCreateFlags")
	require.True(t, ok)
	assert.Equal(t, "flags", e.Category)
	assert.Equal(t, "elink", e.MacroKind)

	// The corresponding FlagBits value set is a plain enums entity.
	e, ok = db.FindEntity("XrSwapchainCreateFlagBits")
	require.True(t, ok)
	assert.Equal(t, "enums", e.Category)
	assert.Equal(t, "elink", e.MacroKind)
}

func TestCategories(t *testing.T) {
	db := fixtureDB(t)

	for name, want := range map[string]struct{ macro, category string }{
		"XrInstance":           {"slink", "handles"},
		"XrApplicationInfo":    {"slink", "structs"},
		"XrResult":             {"elink", "enums"},
		"XrBool32":             {"basetype", "basetypes"},
		"PFN_xrVoidFunction":   {"tlink", "funcpointers"},
		"XR_CURRENT_API_VERSION": {"dlink", "defines"},
		"XR_SUCCESS":           {"ename", "enumvalues"},
		"XR_TRUE":              {"ename", "constants"},
	} {
		e, ok := db.FindEntity(name)
		require.True(t, ok, name)
		assert.Equal(t, want.macro, e.MacroKind, name)
		assert.Equal(t, want.category, e.Category, name)
	}

	// Platform types resolve for code: only and are marked platform.
	e, ok := db.FindEntity("Display")
	require.True(t, ok)
	assert.Equal(t, "code", e.MacroKind)
	assert.True(t, e.Platform)

	// Platform-defines scaffolding is not registered at all; the
	// system type set covers it.
	_, ok = db.FindEntity("uint32_t")
	assert.False(t, ok)
	assert.True(t, db.IsSystemType("uint32_t"))
}

func TestMacroRegistration(t *testing.T) {
	db := fixtureDB(t)

	assert.True(t, db.MacroAllowsCategory("elink", "flags"))
	assert.False(t, db.MacroAllowsCategory("tlink", "flags"))
	assert.True(t, db.IsLinkMacro("flink"))
	assert.False(t, db.IsLinkMacro("fname"))
	assert.True(t, db.IsLinkMacro("basetype"))
	assert.Contains(t, db.MacroKinds(), "pname")
}

func TestDuplicateRegistrationKeepsFirst(t *testing.T) {
	db := fixtureDB(t)
	db.AddEntity("xrCreateInstance", "slink", "structs", true)

	e, ok := db.FindEntity("xrCreateInstance")
	require.True(t, ok)
	assert.Equal(t, "protos", e.Category)
}

func TestJSONRoundTrip(t *testing.T) {
	db := fixtureDB(t)
	data, err := db.JSON()
	require.NoError(t, err)
	assert.Contains(t, string(data), `"xrCreateInstance"`)
}
