package entity

import "github.com/KhronosGroup/OpenXR-CTS/pkg/registry"

// Family captures the registry-family-specific conventions that vary
// between APIs sharing this markup style: name prefixes, system types,
// extra macros and entities, and type-category redirections. A single
// Family is selected at startup and consulted by both the database
// build and the per-document checker.
type Family interface {
	// Name identifies the family, e.g. "openxr".
	Name() string

	// NamePrefix is the lowercase API prefix ("xr"). It is used to
	// recognize likely entity names mentioned in prose without macros.
	NamePrefix() string

	// PlatformRequires is the registry requires-clause sentinel meaning
	// "defined by the platform headers", not a real external header.
	PlatformRequires() string

	// SystemTypes lists primitive type names referenced with the code:
	// macro that never resolve to a documented entity.
	SystemTypes() map[string]bool

	// PopulateMacros registers family-specific macro/category pairs on
	// top of the defaults.
	PopulateMacros(db *Database)

	// PopulateEntities adds entities that are not present in the
	// registry at all (compiler and calling-convention defines).
	PopulateEntities(db *Database)

	// HandleType maps one registry type declaration to an entity.
	// Returning false defers to the default mapping.
	HandleType(db *Database, decl registry.TypeDecl) bool

	// ExpectedRefPageFromInclude maps an included entity name to the
	// ref page expected to contain that include. The base policy is
	// identity: an entity's generated include belongs on its own page.
	ExpectedRefPageFromInclude(name string) string
}

// BaseFamily provides the default behavior for every Family hook.
// Concrete families embed it and override what differs.
type BaseFamily struct{}

func (BaseFamily) PopulateMacros(db *Database)   {}
func (BaseFamily) PopulateEntities(db *Database) {}

func (BaseFamily) HandleType(db *Database, decl registry.TypeDecl) bool {
	return false
}

func (BaseFamily) ExpectedRefPageFromInclude(name string) string {
	return name
}
