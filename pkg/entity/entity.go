package entity

// Entity is a named API symbol known to the database.
type Entity struct {
	// Name is the symbol name, unique within the database.
	Name string `json:"name"`

	// MacroKind is the markup macro used to link this entity,
	// e.g. "flink" for commands or "slink" for structs and handles.
	MacroKind string `json:"macro"`

	// Category groups entities sharing reference rules: "protos",
	// "structs", "handles", "enums", "enumvalues", "flags",
	// "basetypes", "funcpointers", "defines", "configdefines",
	// "constants", "externtypes".
	Category string `json:"category"`

	// Generates reports whether this entity is expected to appear as
	// the subject of a dedicated reference page.
	Generates bool `json:"generates"`

	// Platform marks entities backed by platform-specific headers.
	Platform bool `json:"platform,omitempty"`
}
