package report

import (
	"fmt"
	"sort"
	"strings"
)

// MessageID enumerates the kinds of findings the checker can emit.
type MessageID int

const (
	// BadEntity: a macro references a name absent from the database.
	BadEntity MessageID = iota
	// WrongMacro: the entity exists but was referenced with a macro
	// not registered for its category.
	WrongMacro
	// MissingMacro: a likely entity name appears in prose without a macro.
	MissingMacro
	// Legacy: a macro form retained only for the Vulkan spec sources.
	Legacy
	// RefPageTag: a ref page tag line is malformed or lacks the
	// refpage attribute.
	RefPageTag
	// RefPageName: a ref page tag names an unknown entity.
	RefPageName
	// RefPageType: the tag's type attribute does not match the named
	// entity's category.
	RefPageType
	// RefPageUnknownAttrib: a tag carries an unrecognized attribute.
	RefPageUnknownAttrib
	// RefPageWhitespace: the tag's xrefs attribute has stray whitespace.
	RefPageWhitespace
	// RefPageSelfXref: the tag's xrefs list names the page itself.
	RefPageSelfXref
	// RefPageDuplicateXref: the tag's xrefs list repeats a name.
	RefPageDuplicateXref
	// RefPageBlock: ref page block structure is broken (no tag before
	// the delimiter, no delimiter after a tag, or a tag inside an
	// open ref page block).
	RefPageBlock
	// RefPageMismatch: a generated API include appears inside the
	// ref page of a different entity.
	RefPageMismatch
	// RefPageMissing: an entity's generated include was seen but no
	// ref page documents it anywhere in the run.
	RefPageMissing
	// UnknownInclude: a generated API include names an unknown entity.
	UnknownInclude
	// IncludeDir: an include's directory does not match the entity's
	// category.
	IncludeDir
	// DuplicateInclude: the same entity's include appears twice in one
	// document.
	DuplicateInclude
	// BlockNest: a close-like delimiter matches an open block that is
	// not innermost.
	BlockNest

	numMessageIDs
)

type idInfo struct {
	name      string
	severity  Severity
	defaultOn bool
	families  []string // nil means applicable to every family
}

var idTable = [numMessageIDs]idInfo{
	BadEntity:            {"BAD_ENTITY", Error, true, nil},
	WrongMacro:           {"WRONG_MACRO", Error, true, nil},
	MissingMacro:         {"MISSING_MACRO", Warning, true, nil},
	Legacy:               {"LEGACY", Warning, true, []string{"vulkan"}},
	RefPageTag:           {"REFPAGE_TAG", Error, true, nil},
	RefPageName:          {"REFPAGE_NAME", Error, true, nil},
	RefPageType:          {"REFPAGE_TYPE", Error, true, nil},
	RefPageUnknownAttrib: {"REFPAGE_UNKNOWN_ATTRIB", Warning, true, nil},
	RefPageWhitespace:    {"REFPAGE_WHITESPACE", Warning, true, nil},
	RefPageSelfXref:      {"REFPAGE_SELF_XREF", Warning, true, nil},
	RefPageDuplicateXref: {"REFPAGE_DUPLICATE_XREF", Warning, true, nil},
	RefPageBlock:         {"REFPAGE_BLOCK", Error, true, nil},
	RefPageMismatch:      {"REFPAGE_MISMATCH", Error, true, nil},
	RefPageMissing:       {"REFPAGE_MISSING", Warning, false, nil},
	UnknownInclude:       {"UNKNOWN_INCLUDE", Error, true, nil},
	IncludeDir:           {"INCLUDE_DIR", Warning, true, nil},
	DuplicateInclude:     {"DUPLICATE_INCLUDE", Warning, true, nil},
	BlockNest:            {"BLOCK_NEST", Error, true, nil},
}

func (id MessageID) String() string {
	if id < 0 || id >= numMessageIDs {
		return fmt.Sprintf("MessageID(%d)", int(id))
	}
	return idTable[id].name
}

// DefaultSeverity returns the severity findings of this kind carry.
func (id MessageID) DefaultSeverity() Severity { return idTable[id].severity }

// EnabledByDefault reports whether this kind is part of the default
// run configuration. Noisy kinds ship disabled.
func (id MessageID) EnabledByDefault() bool { return idTable[id].defaultOn }

// AppliesTo reports whether this kind is meaningful for the given
// registry family.
func (id MessageID) AppliesTo(family string) bool {
	if idTable[id].families == nil {
		return true
	}
	for _, f := range idTable[id].families {
		if f == family {
			return true
		}
	}
	return false
}

// MarshalText renders the ID by name for JSON output.
func (id MessageID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// ParseMessageID resolves a name like "REFPAGE_BLOCK" (case
// insensitive) to its MessageID.
func ParseMessageID(name string) (MessageID, error) {
	want := strings.ToUpper(strings.ReplaceAll(name, "-", "_"))
	for id := MessageID(0); id < numMessageIDs; id++ {
		if idTable[id].name == want {
			return id, nil
		}
	}
	return 0, fmt.Errorf("unknown message id %q", name)
}

// AvailableIDs returns every message kind applicable to family, sorted
// by name.
func AvailableIDs(family string) []MessageID {
	var ids []MessageID
	for id := MessageID(0); id < numMessageIDs; id++ {
		if id.AppliesTo(family) {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })
	return ids
}

// DefaultEnabled computes the default enabled set for family: all
// applicable kinds minus the default-disabled ones.
func DefaultEnabled(family string) map[MessageID]bool {
	enabled := make(map[MessageID]bool)
	for _, id := range AvailableIDs(family) {
		if id.EnabledByDefault() {
			enabled[id] = true
		}
	}
	return enabled
}
