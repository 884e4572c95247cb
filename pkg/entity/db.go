package entity

import (
	"encoding/json"
	"log"
	"sort"
	"strings"

	"github.com/KhronosGroup/OpenXR-CTS/pkg/registry"
)

// macroReg records which entity categories a macro kind may reference,
// and whether a successful resolution implies a documented target.
type macroReg struct {
	categories map[string]bool
	link       bool
}

// Database maps entity names to categories and macro kinds. It is
// built once from the registry and is read-only afterwards, so it may
// be shared across concurrent document scans without locking.
type Database struct {
	family   Family
	macros   map[string]*macroReg
	entities map[string]*Entity
}

// NewDatabase builds the entity database from registry declarations,
// applying the family's macro registrations, extra entities, and
// type-category overrides.
func NewDatabase(reg *registry.Registry, fam Family) *Database {
	db := &Database{
		family:   fam,
		macros:   make(map[string]*macroReg),
		entities: make(map[string]*Entity),
	}

	db.registerDefaultMacros()
	fam.PopulateMacros(db)
	fam.PopulateEntities(db)

	for _, decl := range reg.Types {
		if decl.Category == "include" {
			continue
		}
		if !fam.HandleType(db, decl) {
			db.handleType(decl)
		}
	}

	for _, g := range reg.Enums {
		if strings.ContainsRune(g.Name, ' ') {
			// The loose API-constants group is not itself an entity.
			for _, v := range g.Values {
				db.AddEntity(v.Name, "ename", "constants", false)
			}
			continue
		}
		db.AddEntity(g.Name, "elink", "enums", true)
		for _, v := range g.Values {
			db.AddEntity(v.Name, "ename", "enumvalues", false)
		}
	}

	for _, c := range reg.Commands {
		db.AddEntity(c.Name, "flink", "protos", true)
	}

	return db
}

// registerDefaultMacros sets up the macro vocabulary common to every
// registry family. Families that keep the default bitmask handling
// must register tlink for the flags category themselves.
func (db *Database) registerDefaultMacros() {
	db.AddMacro("flink", []string{"protos"}, true)
	db.AddMacro("fname", []string{"protos"}, false)
	db.AddMacro("ftext", []string{"protos"}, false)
	db.AddMacro("slink", []string{"structs", "handles"}, true)
	db.AddMacro("sname", []string{"structs", "handles"}, false)
	db.AddMacro("stext", []string{"structs", "handles"}, false)
	db.AddMacro("elink", []string{"enums"}, true)
	db.AddMacro("ename", []string{"enumvalues", "constants"}, false)
	db.AddMacro("etext", []string{"enumvalues", "constants"}, false)
	db.AddMacro("tlink", []string{"funcpointers", "basetypes", "externtypes"}, true)
	db.AddMacro("tname", []string{"funcpointers", "basetypes", "externtypes"}, false)
	db.AddMacro("dlink", []string{"defines", "configdefines"}, true)
	db.AddMacro("dname", []string{"defines", "configdefines"}, false)
	db.AddMacro("basetype", []string{"basetypes"}, false)
	db.AddMacro("code", []string{"externtypes"}, false)
	db.AddMacro("pname", nil, false)
}

// handleType is the default mapping from a registry type declaration
// to an entity. Families intercept declarations in HandleType before
// this runs.
func (db *Database) handleType(decl registry.TypeDecl) {
	switch decl.Category {
	case "basetype":
		db.AddEntity(decl.Name, "basetype", "basetypes", true)
	case "handle":
		db.AddEntity(decl.Name, "slink", "handles", true)
	case "struct":
		db.AddEntity(decl.Name, "slink", "structs", true)
	case "enum":
		db.AddEntity(decl.Name, "elink", "enums", true)
	case "bitmask":
		db.AddEntity(decl.Name, "tlink", "flags", true)
	case "funcpointer":
		db.AddEntity(decl.Name, "tlink", "funcpointers", true)
	case "define":
		db.AddEntity(decl.Name, "dlink", "defines", false)
	case "":
		if decl.Requires == "" || decl.Requires == db.family.PlatformRequires() {
			// Scaffolding from the platform-defines header; the system
			// type set covers anything referenced from documents.
			return
		}
		// Externally-defined platform type (e.g. Display from Xlib).
		db.addEntity(&Entity{
			Name:      decl.Name,
			MacroKind: "code",
			Category:  "externtypes",
			Platform:  true,
		})
	}
}

// AddMacro registers macroKind as the valid way to reference entities
// in the given categories. Repeated registration extends the category
// set and updates the link flag.
func (db *Database) AddMacro(macroKind string, categories []string, link bool) {
	reg, ok := db.macros[macroKind]
	if !ok {
		reg = &macroReg{categories: make(map[string]bool)}
		db.macros[macroKind] = reg
	}
	for _, c := range categories {
		reg.categories[c] = true
	}
	reg.link = link
}

// AddEntity registers an entity. A name already registered under a
// different category is a registry anomaly: it is logged and the first
// registration wins.
func (db *Database) AddEntity(name, macroKind, category string, generates bool) {
	db.addEntity(&Entity{
		Name:      name,
		MacroKind: macroKind,
		Category:  category,
		Generates: generates,
	})
}

func (db *Database) addEntity(e *Entity) {
	if reg, ok := db.macros[e.MacroKind]; !ok || !reg.categories[e.Category] {
		log.Printf("entity database: macro %s is not registered for category %s (entity %s)",
			e.MacroKind, e.Category, e.Name)
	}
	if prev, ok := db.entities[e.Name]; ok {
		if prev.Category != e.Category {
			log.Printf("entity database: %s already registered as %s, ignoring re-registration as %s",
				e.Name, prev.Category, e.Category)
		}
		return
	}
	db.entities[e.Name] = e
}

// FindEntity looks up an entity by name.
func (db *Database) FindEntity(name string) (*Entity, bool) {
	e, ok := db.entities[name]
	return e, ok
}

// IsSystemType reports whether name is a built-in type referenced with
// the code: macro and exempt from entity resolution.
func (db *Database) IsSystemType(name string) bool {
	return db.family.SystemTypes()[name]
}

// LikelyRecognizedEntity reports whether name looks like an API symbol
// of this family, based on its name prefix. Used to flag bare mentions
// in prose and to soften diagnostics for clearly foreign names.
func (db *Database) LikelyRecognizedEntity(name string) bool {
	prefix := db.family.NamePrefix()
	if strings.HasPrefix(name, prefix) || strings.HasPrefix(name, "PFN_"+prefix) {
		return true
	}
	upper := strings.ToUpper(prefix)
	if strings.HasPrefix(name, upper+"_") || strings.HasPrefix(name, upper+"API_") {
		return true
	}
	title := strings.ToUpper(prefix[:1]) + prefix[1:]
	return strings.HasPrefix(name, title)
}

// MacroAllowsCategory reports whether macroKind is registered for
// entities of the given category.
func (db *Database) MacroAllowsCategory(macroKind, category string) bool {
	reg, ok := db.macros[macroKind]
	return ok && reg.categories[category]
}

// IsLinkMacro reports whether macroKind implies a documented target.
func (db *Database) IsLinkMacro(macroKind string) bool {
	reg, ok := db.macros[macroKind]
	return ok && reg.link
}

// MacroKinds returns the registered macro vocabulary, sorted.
func (db *Database) MacroKinds() []string {
	kinds := make([]string, 0, len(db.macros))
	for k := range db.macros {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}

// Entities returns all registered entities sorted by name.
func (db *Database) Entities() []*Entity {
	out := make([]*Entity, 0, len(db.entities))
	for _, e := range db.entities {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Family returns the registry family this database was built for.
func (db *Database) Family() Family { return db.family }

// JSON renders the database as indented JSON, for debugging.
func (db *Database) JSON() ([]byte, error) {
	return json.MarshalIndent(db.Entities(), "", "  ")
}
