package checker

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/KhronosGroup/OpenXR-CTS/pkg/report"
)

var (
	tagLineRe = regexp.MustCompile(`^\[open(,(?P<attribs>.*))?\]$`)
	attribRe  = regexp.MustCompile(`(\w+)='([^']*)'`)
	includeRe = regexp.MustCompile(`^include::(?:\{generated\}|[.\w/{}-]*)/api/(\w+)/([\w]+)\.(?:adoc|txt)\[\]$`)

	multiSpaceRe = regexp.MustCompile(`\s\s+`)
)

// categoryDir maps an entity category to the generated-include
// directory its api includes live in. Categories without generated
// includes are absent.
var categoryDir = map[string]string{
	"protos":       "protos",
	"structs":      "structs",
	"handles":      "handles",
	"enums":        "enums",
	"flags":        "flags",
	"basetypes":    "basetypes",
	"funcpointers": "funcpointers",
	"defines":      "defines",
}

// refPageTag is the parsed form of an "[open,...]" tag line.
type refPageTag struct {
	Name   string
	Type   string
	Desc   string
	Xrefs  string
	Anchor string
}

// documentChecker holds the scan state for a single document: the
// block stack, the ref page context, and the previous-line tag. It is
// created fresh per document and never shared.
type documentChecker struct {
	checker *MacroChecker
	doc     string
	rep     *report.Report

	stack          []Block
	lineNum        int
	prevTag        *refPageTag
	inRefPage      bool
	currentRefPage string

	includes map[string]int
}

func (dc *documentChecker) top() *Block {
	if len(dc.stack) == 0 {
		return nil
	}
	return &dc.stack[len(dc.stack)-1]
}

func (dc *documentChecker) loc() report.Location {
	ctx := ""
	if t := dc.top(); t != nil {
		ctx = t.Context
	}
	return report.Location{Document: dc.doc, Line: dc.lineNum, Context: ctx}
}

// processLine advances the block-state machine by one line and scans
// the line's content. Structural problems are reported and recovered
// from; scanning never aborts.
func (dc *documentChecker) processLine(raw string) {
	dc.lineNum++
	trimmed := strings.TrimSpace(raw)

	// Inside a code block only the matching close delimiter matters;
	// contents are literal.
	if t := dc.top(); t != nil && t.Type == BlockCode {
		if trimmed == t.Delimiter {
			dc.closeBlock()
		}
		return
	}

	prevTag := dc.prevTag
	dc.prevTag = nil

	if m := tagLineRe.FindStringSubmatch(trimmed); m != nil {
		if prevTag != nil {
			dc.openImpliedRefPage(prevTag)
		}
		if dc.inRefPage {
			dc.rep.Add(report.RefPageBlock, dc.loc(),
				"Found a reference page tag while we are already in a refpage block;",
				"closing the current refpage block implicitly before handling the new tag.")
			dc.closeRefPageBlock()
		}
		dc.prevTag = dc.parseTag(m[2])
		return
	}

	if bt, ok := classifyDelimiter(trimmed); ok {
		dc.processBlockDelimiter(trimmed, bt, prevTag)
		return
	}

	if prevTag != nil {
		dc.openImpliedRefPage(prevTag)
	}

	if m := includeRe.FindStringSubmatch(trimmed); m != nil {
		dc.checkInclude(m[1], m[2])
		return
	}

	dc.checkMacros(raw)
}

// processBlockDelimiter runs the open/close/mismatch transition for a
// delimiter line.
func (dc *documentChecker) processBlockDelimiter(delim string, bt BlockType, prevTag *refPageTag) {
	// Close wins when the innermost open block used this delimiter.
	if t := dc.top(); t != nil && t.Delimiter == delim {
		dc.closeBlock()
		return
	}

	// A delimiter matching a non-innermost open block is a structural
	// error; the stack is left untouched so scanning can continue.
	for i := len(dc.stack) - 2; i >= 0; i-- {
		if dc.stack[i].Delimiter == delim {
			dc.rep.Add(report.BlockNest, dc.loc(),
				fmt.Sprintf("Found a closing delimiter %q that matches an enclosing %s, not the innermost open block;", delim, dc.stack[i].Type),
				"ignoring it and leaving the block stack unchanged.")
			return
		}
	}

	if bt != BlockRefPage {
		if prevTag != nil {
			dc.openImpliedRefPage(prevTag)
		}
		dc.pushBlock(Block{Type: bt, Delimiter: delim, Context: bt.String()})
		return
	}

	dc.processBlockOpen(delim, prevTag)
}

// processBlockOpen opens a ref-page-like block. A missing preceding
// tag is recovered from by pretending one was present for an unknown
// entity: aborting here would cascade into spurious diagnostics for
// the rest of the block.
func (dc *documentChecker) processBlockOpen(delim string, prevTag *refPageTag) {
	name := PlaceholderRefPage
	if prevTag != nil {
		if prevTag.Name != "" {
			name = prevTag.Name
		}
	} else {
		dc.rep.Add(report.RefPageBlock, dc.loc(),
			"Found a line containing only -- outside of a reference page block, not preceded by a reference page tag,",
			"pretending there was one and opening a refpage block for an unknown entity anyway, for more readable messages.")
	}

	dc.pushBlock(Block{
		Type:      BlockRefPage,
		Delimiter: delim,
		Context:   "refpage block for " + name,
		RefPage:   name,
	})
	dc.inRefPage = true
	dc.currentRefPage = name
}

// openImpliedRefPage handles a ref page tag whose next line is not the
// ref page delimiter: the block is reported and opened anyway, as if
// the delimiter were present, so the following lines are checked in
// the context the author intended.
func (dc *documentChecker) openImpliedRefPage(tag *refPageTag) {
	dc.rep.Add(report.RefPageBlock, dc.loc(),
		"Expected, but did not find, a line containing only -- following a reference page tag;",
		"opening the refpage block implicitly.")
	dc.processBlockOpen("--", tag)
}

func (dc *documentChecker) pushBlock(b Block) {
	dc.stack = append(dc.stack, b)
}

func (dc *documentChecker) closeBlock() {
	popped := dc.stack[len(dc.stack)-1]
	dc.stack = dc.stack[:len(dc.stack)-1]
	if popped.Type == BlockRefPage {
		dc.inRefPage = false
		dc.currentRefPage = ""
	}
}

// closeRefPageBlock pops up to and including the innermost ref page
// block, if one is open.
func (dc *documentChecker) closeRefPageBlock() {
	for len(dc.stack) > 0 {
		wasRefPage := dc.top().Type == BlockRefPage
		dc.closeBlock()
		if wasRefPage {
			return
		}
	}
}

// parseTag parses and checks a tag line's attributes. The tag is
// returned even when malformed so the block-state machine can keep
// tracking the structure the author intended.
func (dc *documentChecker) parseTag(attribs string) *refPageTag {
	tag := &refPageTag{}
	for _, m := range attribRe.FindAllStringSubmatch(attribs, -1) {
		key, value := m[1], m[2]
		switch key {
		case "refpage":
			tag.Name = value
		case "type":
			tag.Type = value
		case "desc":
			tag.Desc = value
		case "xrefs":
			tag.Xrefs = value
		case "anchor":
			tag.Anchor = value
		default:
			dc.rep.Add(report.RefPageUnknownAttrib, dc.loc(),
				fmt.Sprintf("Unknown attribute %q in reference page tag.", key))
		}
	}

	if tag.Name == "" {
		dc.rep.Add(report.RefPageTag, dc.loc(),
			"Reference page tag is missing the refpage attribute naming the documented entity.")
	} else {
		dc.checker.recordRefPage(tag.Name)
		if e, ok := dc.checker.db.FindEntity(tag.Name); !ok {
			dc.rep.Add(report.RefPageName, dc.loc(),
				fmt.Sprintf("Reference page tag names unknown entity %s.", tag.Name))
		} else if tag.Type != "" && tag.Type != e.Category {
			dc.rep.Add(report.RefPageType, dc.loc(),
				fmt.Sprintf("Reference page tag for %s has type %q, but the entity's category is %q.",
					tag.Name, tag.Type, e.Category))
		}
	}

	dc.checkXrefs(tag)
	return tag
}

func (dc *documentChecker) checkXrefs(tag *refPageTag) {
	if tag.Xrefs == "" {
		return
	}
	if tag.Xrefs != strings.TrimSpace(tag.Xrefs) || multiSpaceRe.MatchString(tag.Xrefs) {
		dc.rep.Add(report.RefPageWhitespace, dc.loc(),
			"The xrefs attribute contains leading, trailing, or repeated whitespace.")
	}
	seen := make(map[string]bool)
	for _, x := range strings.Fields(tag.Xrefs) {
		if x == tag.Name {
			dc.rep.Add(report.RefPageSelfXref, dc.loc(),
				fmt.Sprintf("The xrefs attribute lists the page's own entity %s.", x))
		}
		if seen[x] {
			dc.rep.Add(report.RefPageDuplicateXref, dc.loc(),
				fmt.Sprintf("The xrefs attribute lists %s more than once.", x))
		}
		seen[x] = true
	}
}

// checkInclude resolves a generated API include line against the
// database and the enclosing ref page.
func (dc *documentChecker) checkInclude(dir, name string) {
	c := dc.checker
	c.recordInclude(name, dc.loc())

	dc.includes[name]++
	if dc.includes[name] == 2 {
		dc.rep.Add(report.DuplicateInclude, dc.loc(),
			fmt.Sprintf("Generated include for %s appears more than once in this document.", name))
	}

	e, ok := c.db.FindEntity(name)
	if !ok {
		dc.rep.Add(report.UnknownInclude, dc.loc(),
			fmt.Sprintf("Generated include references unknown entity %s.", name))
		return
	}

	if want, ok := categoryDir[e.Category]; ok && want != dir {
		dc.rep.Add(report.IncludeDir, dc.loc(),
			fmt.Sprintf("Include for %s is under api/%s/, but its category %q generates into api/%s/.",
				name, dir, e.Category, want))
	}

	// A generated include belongs on the ref page computed from its
	// entity name. The synthesized placeholder page is excluded: its
	// root cause is already reported, and every include would
	// otherwise mismatch.
	if dc.inRefPage && dc.currentRefPage != PlaceholderRefPage {
		expected := c.db.Family().ExpectedRefPageFromInclude(e.Name)
		if expected != dc.currentRefPage {
			dc.rep.Add(report.RefPageMismatch, dc.loc(),
				fmt.Sprintf("Generated include for %s found inside the refpage block for %s; expected it in the refpage block for %s.",
					name, dc.currentRefPage, expected))
		}
	}
}

// checkMacros scans one content line for macro invocations and bare
// entity mentions.
func (dc *documentChecker) checkMacros(line string) {
	c := dc.checker

	macroSpans := c.macroRe.FindAllStringSubmatchIndex(line, -1)
	for _, span := range macroSpans {
		kind := submatch(line, span, 1)
		if kind == "" {
			kind = submatch(line, span, 2)
		}
		name := submatch(line, span, 3)
		dc.checkInvocation(kind, name)
	}

	// Bare mentions: likely entity names outside any macro invocation.
	for _, span := range c.bareRe.FindAllStringIndex(line, -1) {
		if insideAny(span, macroSpans) {
			continue
		}
		name := line[span[0]:span[1]]
		if e, ok := c.db.FindEntity(name); ok {
			dc.rep.Add(report.MissingMacro, dc.loc(),
				fmt.Sprintf("Entity %s is mentioned without a macro; use %s:%s.", name, e.MacroKind, name))
		}
	}
}

// checkInvocation resolves one macro invocation.
func (dc *documentChecker) checkInvocation(kind, name string) {
	c := dc.checker

	// pname references members and parameters, which are not entities;
	// code is purely descriptive. Wildcard references are not checked.
	if kind == "pname" || kind == "code" || strings.ContainsRune(name, '*') {
		return
	}

	if c.db.IsSystemType(name) {
		// System types are accepted unconditionally; they are
		// language built-ins with no documented target.
		return
	}

	e, ok := c.db.FindEntity(name)
	if !ok {
		lines := []string{fmt.Sprintf("Unknown entity %s referenced with %s:.", name, kind)}
		if !c.db.LikelyRecognizedEntity(name) {
			lines = append(lines, "The name does not look like it belongs to this API.")
		}
		dc.rep.Add(report.BadEntity, dc.loc(), lines...)
		return
	}

	if !c.db.MacroAllowsCategory(kind, e.Category) {
		dc.rep.Add(report.WrongMacro, dc.loc(),
			fmt.Sprintf("Entity %s has category %q and should be referenced with %s:, not %s:.",
				name, e.Category, e.MacroKind, kind))
	}
}

func submatch(s string, span []int, n int) string {
	if span[2*n] < 0 {
		return ""
	}
	return s[span[2*n]:span[2*n+1]]
}

func insideAny(span []int, spans [][]int) bool {
	for _, s := range spans {
		if span[0] >= s[0] && span[1] <= s[1] {
			return true
		}
	}
	return false
}
