package driver

import (
	"context"
	"fmt"
	"runtime"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/sync/errgroup"

	"github.com/KhronosGroup/OpenXR-CTS/pkg/checker"
	"github.com/KhronosGroup/OpenXR-CTS/pkg/entity"
	"github.com/KhronosGroup/OpenXR-CTS/pkg/registry"
	"github.com/KhronosGroup/OpenXR-CTS/pkg/report"
)

// Run loads the registry, discovers the document set, scans every
// document, and returns the aggregate report. A registry or document
// discovery failure is fatal; per-document findings never are.
func Run(ctx context.Context, cfg *Config) (*report.Report, error) {
	fam, err := entity.FamilyByName(cfg.Family)
	if err != nil {
		return nil, err
	}

	enabled, err := cfg.EnabledIDs()
	if err != nil {
		return nil, err
	}

	reg, err := registry.Load(cfg.Registry)
	if err != nil {
		return nil, err
	}
	db := entity.NewDatabase(reg, fam)

	docs, err := Discover(cfg.Documents, cfg.Exclude)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, fmt.Errorf("no documents matched %v", cfg.Documents)
	}

	c := checker.New(db, enabled)

	// Each document is scanned independently against the shared
	// read-only database; reports are merged in document order after
	// all scans complete.
	jobs := cfg.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	results := make([]*report.Report, len(docs))
	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i, doc := range docs {
		i, doc := i, doc
		g.Go(func() error {
			r, err := c.CheckFile(doc)
			if err != nil {
				return err
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	total := report.NewReport(enabled)
	for _, r := range results {
		total.Merge(r)
	}
	total.Merge(c.Finish())
	return total, nil
}

// Discover expands the document glob patterns and applies excludes,
// returning a sorted, de-duplicated path list.
func Discover(patterns, exclude []string) ([]string, error) {
	seen := make(map[string]bool)
	var docs []string
	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return nil, fmt.Errorf("bad document pattern %q: %w", pattern, err)
		}
	matches:
		for _, m := range matches {
			if seen[m] {
				continue
			}
			for _, ex := range exclude {
				skip, err := doublestar.PathMatch(ex, m)
				if err != nil {
					return nil, fmt.Errorf("bad exclude pattern %q: %w", ex, err)
				}
				if skip {
					continue matches
				}
			}
			seen[m] = true
			docs = append(docs, m)
		}
	}
	sort.Strings(docs)
	return docs, nil
}
