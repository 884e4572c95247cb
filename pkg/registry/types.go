package registry

// TypeDecl is a single <type> declaration from the registry.
type TypeDecl struct {
	Name     string
	Category string // "basetype", "handle", "enum", "bitmask", "struct", "funcpointer", "define", or ""
	Requires string
	Alias    string
}

// Enumerant is one <enum> value inside an <enums> group.
type Enumerant struct {
	Name  string
	Value string
	Alias string
}

// EnumGroup is an <enums> block: an enumerated type, a bitmask value
// set, or the loose API-constants group.
type EnumGroup struct {
	Name   string
	Type   string // "enum", "bitmask", or "" for API constants
	Values []Enumerant
}

// Command is a <command> declaration (the proto name only; parameters
// are not needed for link checking).
type Command struct {
	Name  string
	Alias string
}

// Registry holds the declarations read from an API registry file.
type Registry struct {
	Types    []TypeDecl
	Enums    []EnumGroup
	Commands []Command
}
