// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package catalog drives regeneration of a benchmark results repository:
// it scans the results tree, pairs every run with its applicable base
// runs, regenerates only the comparison artifacts that are missing or
// forced, prunes artifacts whose base set changed, and emits the
// repository and per-directory index documents.
package catalog

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/benchwatch/benchwatch/benchcompare"
	"github.com/benchwatch/benchwatch/config"
	"github.com/benchwatch/benchwatch/result"
)

// ErrNoBases means the configuration names no base versions; with
// nothing to compare against a refresh is meaningless, so this aborts
// the whole run.
var ErrNoBases = errors.New("no base versions configured")

// A Comparison pairs a head run with one of its base runs. The
// statistical summary is computed lazily and memoized for the life of
// the process; the durable memoization of the headline scalar lives in
// resultindex.
type Comparison struct {
	Ref  *result.Result
	Head *result.Result
	// Base is the label the comparison is filed under: a configured
	// base version, or "base" for the merge-base comparison.
	Base string

	summary *benchcompare.Summary
	err     error
	done    bool
}

// Summary aggregates the pairwise comparison, computing it on first use.
func (c *Comparison) Summary() (*benchcompare.Summary, error) {
	if !c.done {
		c.summary, c.err = benchcompare.Aggregate(c.Ref.Samples(), c.Head.Samples(), nil)
		c.done = true
	}
	return c.summary, c.err
}

// Valid reports whether the comparison compares two distinct runs.
func (c *Comparison) Valid() bool {
	return c.Ref != nil && c.Ref.Path != c.Head.Path
}

// Stem is the artifact file stem: "<head stem>-vs-<base>".
func (c *Comparison) Stem() string {
	return c.Head.Stem() + "-vs-" + c.Base
}

// An Entry is a result record plus the base comparisons it owns.
type Entry struct {
	*result.Result

	// Bases maps base label to comparison.
	Bases map[string]*Comparison
}

// BaseLabels returns the entry's base labels, sorted.
func (e *Entry) BaseLabels() []string {
	labels := make([]string, 0, len(e.Bases))
	for label := range e.Bases {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels
}

// A Catalog is a loaded results repository.
type Catalog struct {
	// Root is the repository directory; the results tree lives in
	// Root/results.
	Root string

	Config *config.Config

	// Results holds every record, most recent first.
	Results []*Entry

	// Warn reports non-fatal problems. Status reports one-character
	// progress marks ("." generated, "/" skipped, "x" pruned).
	Warn   func(format string, args ...interface{})
	Status func(mark string)
}

// Load scans the repository at root and attaches each record's
// applicable bases: every configured base version with a matching run
// on the same runner, plus the merge-base run under the "base" label
// when the tree has one.
func Load(root string, cfg *config.Config, warn func(format string, args ...interface{})) (*Catalog, error) {
	if len(cfg.Bases) == 0 {
		return nil, ErrNoBases
	}
	if warn == nil {
		warn = func(format string, args ...interface{}) { fmt.Fprintf(os.Stderr, format, args...) }
	}
	results, err := result.LoadAll(root, "results")
	if err != nil {
		return nil, err
	}

	cat := &Catalog{
		Root:   root,
		Config: cfg,
		Warn:   warn,
		Status: func(string) {},
	}

	// The newest run of each (runner, version, kind) serves as the
	// reference for that version. LoadAll returns most recent first,
	// so first write wins.
	type refKey struct {
		runner, version string
		kind            result.Kind
	}
	refs := make(map[refKey]*result.Result)
	for _, r := range results {
		k := refKey{r.Runner, r.Version, r.Kind}
		if _, ok := refs[k]; !ok {
			refs[k] = r
		}
	}

	for _, r := range results {
		e := &Entry{Result: r, Bases: make(map[string]*Comparison)}
		for _, base := range cfg.Bases {
			if base == r.Version {
				continue
			}
			ref, ok := refs[refKey{r.Runner, base, r.Kind}]
			if !ok {
				continue
			}
			e.Bases[base] = &Comparison{Ref: ref, Head: r, Base: base}
		}
		if r.MergeBase != "" {
			if ref := findByHash(results, r.Runner, r.Kind, r.MergeBase); ref != nil && ref.Path != r.Path {
				e.Bases["base"] = &Comparison{Ref: ref, Head: r, Base: "base"}
			}
		}
		cat.Results = append(cat.Results, e)
	}
	return cat, nil
}

func findByHash(results []*result.Result, runner string, kind result.Kind, hash string) *result.Result {
	for _, r := range results {
		if r.Runner == runner && r.Kind == kind && strings.HasPrefix(hash, r.CommitHash) {
			return r
		}
	}
	return nil
}

// Benchmarking returns the entries that hold raw benchmarking results.
func (cat *Catalog) Benchmarking() []*Entry {
	var out []*Entry
	for _, e := range cat.Results {
		if e.Kind == result.KindRaw {
			out = append(out, e)
		}
	}
	return out
}
