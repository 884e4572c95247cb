package checker

// BlockType classifies a document block by its delimiter.
type BlockType int

const (
	// BlockGeneric is a sidebar, example, or quote block.
	BlockGeneric BlockType = iota
	// BlockCode is a listing or literal block; its contents are not
	// scanned for macros.
	BlockCode
	// BlockRefPage is the ref-page-like block ("--"), which must be
	// preceded by a ref page tag.
	BlockRefPage
	// BlockTable is a table block.
	BlockTable
)

func (t BlockType) String() string {
	switch t {
	case BlockCode:
		return "code block"
	case BlockRefPage:
		return "refpage block"
	case BlockTable:
		return "table block"
	default:
		return "block"
	}
}

// Block is one open block on the scan stack. Only ref-page-like
// blocks carry a RefPage value.
type Block struct {
	Type      BlockType
	Delimiter string
	Context   string
	RefPage   string
}

// classifyDelimiter reports whether a trimmed line is a block
// delimiter, and of which type. The set of block types is fixed by the
// specification markup convention.
func classifyDelimiter(trimmed string) (BlockType, bool) {
	if trimmed == "--" {
		return BlockRefPage, true
	}
	if trimmed == "|===" {
		return BlockTable, true
	}
	if len(trimmed) < 4 {
		return 0, false
	}
	switch {
	case runOf(trimmed, '-'), runOf(trimmed, '`'), runOf(trimmed, '.'):
		return BlockCode, true
	case runOf(trimmed, '*'), runOf(trimmed, '='), runOf(trimmed, '_'):
		return BlockGeneric, true
	}
	return 0, false
}

func runOf(s string, c byte) bool {
	for i := 0; i < len(s); i++ {
		if s[i] != c {
			return false
		}
	}
	return true
}
