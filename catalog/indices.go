// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/benchwatch/benchwatch/reportindex"
	"github.com/benchwatch/benchwatch/result"
)

// runnerOrder is the canonical display order for runner platforms.
// Linux first: it is the most reliable runner, so its numbers lead
// every report. This ordering is meaningful, not alphabetic, and
// consumers must preserve it.
var runnerOrder = []string{"linux", "windows", "darwin"}

// SortRunnerNames sorts runner names into the canonical order. Runners
// share a rank by platform prefix (the first word of the name); unknown
// platforms sort after the known ones, lexically.
func SortRunnerNames(names []string) []string {
	rank := func(name string) int {
		prefix := name
		if i := strings.IndexAny(name, " _"); i >= 0 {
			prefix = name[:i]
		}
		for i, o := range runnerOrder {
			if prefix == o {
				return i
			}
		}
		return len(runnerOrder)
	}
	out := append([]string(nil), names...)
	sort.SliceStable(out, func(i, j int) bool {
		ri, rj := rank(out[i]), rank(out[j])
		if ri != rj {
			return ri < rj
		}
		return out[i] < out[j]
	})
	return out
}

// A RunnerGroup is the benchmarking entries of one runner.
type RunnerGroup struct {
	Runner  string
	Entries []*Entry
}

// ByRunner groups benchmarking entries by runner, in canonical runner
// order. Entry order within a group is preserved (most recent first).
func ByRunner(entries []*Entry) []*RunnerGroup {
	byRunner := make(map[string][]*Entry)
	var names []string
	for _, e := range entries {
		if e.Kind != result.KindRaw {
			continue
		}
		if _, ok := byRunner[e.Runner]; !ok {
			names = append(names, e.Runner)
		}
		byRunner[e.Runner] = append(byRunner[e.Runner], e)
	}
	var groups []*RunnerGroup
	for _, name := range SortRunnerNames(names) {
		groups = append(groups, &RunnerGroup{Runner: name, Entries: byRunner[name]})
	}
	return groups
}

// Summarize trims entries (assumed most recent first) for the summary
// index view: the nRecent most recent, anything run within days days of
// now, and anything whose version is a configured base. Base rows stay
// visible however old they get; they are what everything else is
// compared against.
func Summarize(entries []*Entry, bases []string, nRecent, days int, now time.Time) []*Entry {
	earliest := now.AddDate(0, 0, -days)
	isBase := make(map[string]bool, len(bases))
	for _, b := range bases {
		isBase[b] = true
	}
	var out []*Entry
	for i, e := range entries {
		if i < nRecent || !e.RunTime.Before(earliest) || isBase[e.Version] {
			out = append(out, e)
		}
	}
	return out
}

func mdLink(text, target string) string {
	return fmt.Sprintf("[%s](%s)", text, target)
}

// GenerateIndices writes the two repository-level index documents: the
// trimmed summary view in README.md and the full view in RESULTS.md.
// Both fold the same entry stream at different filtering granularities.
func (cat *Catalog) GenerateIndices(now time.Time) error {
	bench := cat.Benchmarking()
	if err := cat.writeIndex(filepath.Join(cat.Root, "README.md"), bench, true, now); err != nil {
		return err
	}
	return cat.writeIndex(filepath.Join(cat.Root, "RESULTS.md"), bench, false, now)
}

func (cat *Catalog) writeIndex(path string, entries []*Entry, summarize bool, now time.Time) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.WriteString("# Benchmark results\n\n"); err != nil {
		return err
	}
	bases := append(append([]string(nil), cat.Config.Bases...), "base")
	for _, g := range ByRunner(entries) {
		rows := g.Entries
		if summarize {
			rows = Summarize(rows, cat.Config.Bases, cat.Config.Summary.Recent, cat.Config.Summary.Days, now)
		}
		if _, err := fmt.Fprintf(f, "## %s\n\n", g.Runner); err != nil {
			return err
		}
		tw := table.NewWriter()
		head := table.Row{"date", "fork", "ref", "version", "hash"}
		for _, b := range bases {
			head = append(head, "vs. "+b+":")
		}
		tw.AppendHeader(head)
		for _, e := range rows {
			row := table.Row{
				mdLink(e.RunTime.Format("2006-01-02"), e.Dir()),
				e.Fork,
				shortRef(e.Ref),
				e.Version,
				e.HashAndFlags(),
			}
			for _, b := range bases {
				row = append(row, cat.indexCell(e, b))
			}
			tw.AppendRow(row)
		}
		if _, err := f.WriteString(tw.RenderMarkdown()); err != nil {
			return err
		}
		if _, err := f.WriteString("\n\n"); err != nil {
			return err
		}
	}
	return nil
}

// indexCell renders one "vs. base" table cell: a short summary linking
// to the comparison report, or empty when the comparison doesn't apply.
func (cat *Catalog) indexCell(e *Entry, base string) string {
	c, ok := e.Bases[base]
	if !ok || !c.Valid() {
		return ""
	}
	s, err := c.Summary()
	if err != nil {
		cat.Warn("summarizing %s: %v\n", c.Stem(), err)
		return ""
	}
	return mdLink(s.ShortSummary(), e.Dir()+"/"+c.Stem()+".md")
}

func shortRef(ref string) string {
	if len(ref) > 10 {
		return ref[:10]
	}
	return ref
}

// GenerateDirectoryIndices writes a README.md (and an index.html twin)
// into every results directory, grouping entries by runner and then
// base. The entry stream is flat; reportindex folds it.
func (cat *Catalog) GenerateDirectoryIndices() error {
	b := reportindex.NewBuilder(3)
	add := func(loc, runner, base, text string) error {
		return b.Add([]string{loc, runner, base}, text)
	}

	for _, e := range cat.Benchmarking() {
		loc := e.Dir()
		meta := []string{
			"fork: " + e.Fork,
			"ref: " + e.Ref,
			"version: " + e.Version,
			"commit hash: " + e.ShortHash(),
			"commit date: " + e.CommitDate,
		}
		if e.MergeBase != "" {
			meta = append(meta, "commit merge base: "+e.MergeBase)
		}
		for _, m := range meta {
			if err := add(loc, "", "", m); err != nil {
				return err
			}
		}
		if e.CPUModel != "" {
			if err := add(loc, e.Runner, "", "cpu model: "+e.CPUModel); err != nil {
				return err
			}
		}
		if e.Platform != "" {
			if err := add(loc, e.Runner, "", "platform: "+e.Platform); err != nil {
				return err
			}
		}
		for _, base := range e.BaseLabels() {
			c := e.Bases[base]
			if !c.Valid() {
				continue
			}
			s, err := c.Summary()
			if err != nil {
				cat.Warn("summarizing %s: %v\n", c.Stem(), err)
				continue
			}
			if err := add(loc, e.Runner, base, s.LongSummary()); err != nil {
				return err
			}
			if len(s.Missing) > 0 {
				if err := add(loc, e.Runner, base, "missing benchmarks: "+strings.Join(s.Missing, ", ")); err != nil {
					return err
				}
			}
			if len(s.New) > 0 {
				if err := add(loc, e.Runner, base, "new benchmarks: "+strings.Join(s.New, ", ")); err != nil {
					return err
				}
			}
			if err := add(loc, e.Runner, base, mdLink("comparison report", c.Stem()+".md")); err != nil {
				return err
			}
		}
	}

	root := b.Root()
	for _, loc := range root.Keys() {
		node := root.Child(loc)
		dir := filepath.Join(cat.Root, filepath.FromSlash(loc))

		md, err := os.Create(filepath.Join(dir, "README.md"))
		if err != nil {
			return err
		}
		err = reportindex.WriteDirectoryMarkdown(md, node, SortRunnerNames)
		if cerr := md.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return err
		}

		html, err := os.Create(filepath.Join(dir, "index.html"))
		if err != nil {
			return err
		}
		err = reportindex.WriteDirectoryHTML(html, node, SortRunnerNames)
		if cerr := html.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return err
		}
		cat.Status(".")
	}
	return nil
}
