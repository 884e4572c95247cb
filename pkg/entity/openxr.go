package entity

import (
	"fmt"

	"github.com/KhronosGroup/OpenXR-CTS/pkg/registry"
)

// extraDefines are referenced throughout the spec sources but never
// declared in the registry XML. They get no ref page of their own.
var extraDefines = []string{"XRAPI_ATTR", "XRAPI_CALL", "XRAPI_PTR", "XR_NO_STDINT_H"}

// systemTypes are marked with the code: macro and never need to
// resolve to a documented entity.
var systemTypes = map[string]bool{
	"void": true, "char": true, "float": true, "size_t": true,
	"intptr_t": true, "uintptr_t": true,
	"int8_t": true, "uint8_t": true,
	"int16_t": true, "uint16_t": true,
	"int32_t": true, "uint32_t": true,
	"int64_t": true, "uint64_t": true,
}

// OpenXR is the registry family for the OpenXR specification.
type OpenXR struct{ BaseFamily }

func (OpenXR) Name() string             { return "openxr" }
func (OpenXR) NamePrefix() string       { return "xr" }
func (OpenXR) PlatformRequires() string { return "openxr_platform_defines" }

func (OpenXR) SystemTypes() map[string]bool { return systemTypes }

func (OpenXR) PopulateMacros(db *Database) {
	// OpenXR links flags with elink, not tlink: the FlagBits meaning of
	// a flags type is documented alongside the backing integer type.
	db.AddMacro("elink", []string{"enums", "flags"}, true)
	db.AddMacro("basetype", []string{"basetypes"}, true)
}

func (OpenXR) PopulateEntities(db *Database) {
	for _, name := range extraDefines {
		db.AddEntity(name, "dlink", "configdefines", false)
	}
}

func (OpenXR) HandleType(db *Database, decl registry.TypeDecl) bool {
	if decl.Category == "bitmask" {
		db.AddEntity(decl.Name, "elink", "flags", true)
		return true
	}
	return false
}

// FamilyByName returns the registry family selected by configuration.
func FamilyByName(name string) (Family, error) {
	switch name {
	case "", "openxr":
		return OpenXR{}, nil
	default:
		return nil, fmt.Errorf("unknown registry family %q", name)
	}
}
