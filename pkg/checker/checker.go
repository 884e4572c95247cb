package checker

import (
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/KhronosGroup/OpenXR-CTS/pkg/entity"
	"github.com/KhronosGroup/OpenXR-CTS/pkg/report"
)

// PlaceholderRefPage is the entity name synthesized when a ref page
// block opens without a preceding tag. It is distinct from any real
// entity name, and each occurrence is an independent, locally scoped
// value: diagnostics referencing it carry their own location.
const PlaceholderRefPage = "?missing-refpage-tag?"

// MacroChecker checks a set of documents against a shared read-only
// entity database. Per-document scan state lives in documentChecker;
// the only shared mutable state is the cross-document ref-page and
// include tracking, which is mutex-guarded so documents may be
// scanned concurrently.
type MacroChecker struct {
	db      *entity.Database
	enabled map[report.MessageID]bool

	macroRe *regexp.Regexp
	bareRe  *regexp.Regexp

	mu       sync.Mutex
	refPages map[string]bool            // entities with a seen ref page tag
	includes map[string]report.Location // first include location per entity
}

// New creates a checker for the given database and enabled message set.
func New(db *entity.Database, enabled map[report.MessageID]bool) *MacroChecker {
	kinds := db.MacroKinds()
	alt := strings.Join(kinds, "|")

	prefix := db.Family().NamePrefix()
	upper := strings.ToUpper(prefix)
	title := strings.ToUpper(prefix[:1]) + prefix[1:]
	bare := fmt.Sprintf(`\b(?:%s[A-Z]\w+|%s[A-Z]\w+|%s[A-Z_]\w+|PFN_%s\w+)\b`, prefix, title, upper, prefix)

	return &MacroChecker{
		db:      db,
		enabled: enabled,
		// Macros take either the attribute form {elink}Name or the
		// inline form elink:Name.
		macroRe:  regexp.MustCompile(`(?:\{(` + alt + `)\}|\b(` + alt + `):)([\w*]+)`),
		bareRe:   regexp.MustCompile(bare),
		refPages: make(map[string]bool),
		includes: make(map[string]report.Location),
	}
}

// CheckDocument scans one document's lines and returns its report.
func (c *MacroChecker) CheckDocument(doc string, lines []string) *report.Report {
	dc := &documentChecker{
		checker:  c,
		doc:      doc,
		rep:      report.NewReport(c.enabled),
		includes: make(map[string]int),
	}
	for _, line := range lines {
		dc.processLine(line)
	}
	if dc.prevTag != nil {
		dc.openImpliedRefPage(dc.prevTag)
		dc.prevTag = nil
	}
	return dc.rep
}

// CheckText scans a document given as a single string. Used by tests
// and by single-snippet checking.
func (c *MacroChecker) CheckText(doc, text string) *report.Report {
	return c.CheckDocument(doc, strings.Split(text, "\n"))
}

// CheckFile reads and scans one document file.
func (c *MacroChecker) CheckFile(path string) (*report.Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading document: %w", err)
	}
	text := strings.ReplaceAll(string(data), "\r\n", "\n")
	return c.CheckText(path, text), nil
}

// Finish runs the whole-run checks after every document has been
// scanned: entities whose generated include was seen but that no ref
// page anywhere documents.
func (c *MacroChecker) Finish() *report.Report {
	rep := report.NewReport(c.enabled)

	c.mu.Lock()
	defer c.mu.Unlock()

	names := make([]string, 0, len(c.includes))
	for name := range c.includes {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		e, ok := c.db.FindEntity(name)
		if !ok || !e.Generates || c.refPages[name] {
			continue
		}
		rep.Add(report.RefPageMissing, c.includes[name],
			fmt.Sprintf("No ref page found for included entity %s.", name))
	}
	return rep
}

func (c *MacroChecker) recordRefPage(name string) {
	c.mu.Lock()
	c.refPages[name] = true
	c.mu.Unlock()
}

func (c *MacroChecker) recordInclude(name string, loc report.Location) {
	c.mu.Lock()
	if _, ok := c.includes[name]; !ok {
		c.includes[name] = loc
	}
	c.mu.Unlock()
}
