// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/benchwatch/benchwatch/benchchart"
	"github.com/benchwatch/benchwatch/result"
)

// An artifactWriter generates one comparison artifact at path.
type artifactWriter func(cat *Catalog, path string, c *Comparison) error

// artifactKinds maps a record kind to the artifact suffixes it owns.
var artifactKinds = map[result.Kind]map[string]artifactWriter{
	result.KindRaw: {
		".md":  writeComparisonReport,
		".png": writeComparisonPlot,
	},
	result.KindStats: {
		".md": writeStatsDiff,
	},
}

// Refresh regenerates each result's comparison artifacts. An artifact
// is written only if it does not exist on disk or force is set; the
// whole pass is therefore idempotent and safe to rerun after a crash.
// After generating, stale artifacts are pruned.
func (cat *Catalog) Refresh(force bool) error {
	for _, e := range cat.Results {
		writers := artifactKinds[e.Kind]
		for _, base := range e.BaseLabels() {
			c := e.Bases[base]
			if !c.Valid() {
				continue
			}
			suffixes := make([]string, 0, len(writers))
			for sfx := range writers {
				suffixes = append(suffixes, sfx)
			}
			sort.Strings(suffixes)
			for _, sfx := range suffixes {
				path := filepath.Join(cat.Root, filepath.FromSlash(e.Dir()), c.Stem()+sfx)
				if _, err := os.Stat(path); err == nil && !force {
					cat.Status("/")
					continue
				}
				if err := writers[sfx](cat, path, c); err != nil {
					return fmt.Errorf("generating %s: %w", path, err)
				}
				cat.Status(".")
			}
		}
		if err := cat.prune(e); err != nil {
			return err
		}
	}
	return nil
}

var vsPattern = regexp.MustCompile(`^(.*)-vs-(.*)$`)

// prune removes previously generated comparison artifacts whose base is
// no longer in the entry's base set, or whose primary record is gone.
// Without this, reports for retired bases accumulate forever as the
// configured base list changes.
func (cat *Catalog) prune(e *Entry) error {
	dir := filepath.Join(cat.Root, filepath.FromSlash(e.Dir()))
	files, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	for _, f := range files {
		if f.IsDir() {
			continue
		}
		stem := strings.TrimSuffix(f.Name(), filepath.Ext(f.Name()))
		m := vsPattern.FindStringSubmatch(stem)
		if m == nil {
			continue
		}
		root, base := m[1], m[2]
		stale := false
		if root == e.Stem() {
			if _, ok := e.Bases[base]; !ok {
				stale = true
			}
		}
		if _, err := os.Stat(filepath.Join(dir, root+".json")); os.IsNotExist(err) {
			stale = true
		}
		if stale {
			if err := os.Remove(filepath.Join(dir, f.Name())); err != nil {
				return err
			}
			cat.Status("x")
		}
	}
	return nil
}

func writeComparisonReport(cat *Catalog, path string, c *Comparison) error {
	s, err := c.Summary()
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	fmt.Fprintf(f, "# Results vs. %s\n\n", c.Base)
	fmt.Fprintf(f, "- fork: %s\n", c.Head.Fork)
	fmt.Fprintf(f, "- ref: %s\n", c.Head.Ref)
	fmt.Fprintf(f, "- runner: %s\n", c.Head.Runner)
	fmt.Fprintf(f, "- commit hash: %s\n", c.Head.ShortHash())
	fmt.Fprintf(f, "- commit date: %s\n", c.Head.CommitDate)
	fmt.Fprintf(f, "- overall geometric mean: %s\n", s.ShortSummary())
	fmt.Fprintf(f, "- HPT 90th percentile: %s\n", formatHPT(s.HPTPercentile(90)))
	fmt.Fprintf(f, "- HPT 99th percentile: %s\n\n", formatHPT(s.HPTPercentile(99)))

	return s.WriteMarkdown(f)
}

func writeComparisonPlot(cat *Catalog, path string, c *Comparison) error {
	s, err := c.Summary()
	if err != nil {
		return err
	}
	title := fmt.Sprintf("%s-%s-%s vs. %s", c.Head.Fork, c.Head.Ref, c.Head.ShortHash(), c.Ref.Version)
	return benchchart.DiffPlot(s, title, path)
}

// writeStatsDiff emits a per-counter mean diff table for interpreter
// statistics records, which have no timing distribution worth a ratio
// plot.
func writeStatsDiff(cat *Catalog, path string, c *Comparison) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	refSamples := c.Ref.Samples()
	headSamples := c.Head.Samples()

	tw := table.NewWriter()
	tw.AppendHeader(table.Row{"Stat", "Ref", "Head", "Change"})
	for _, name := range c.Head.BenchmarkNames() {
		hs := headSamples[name]
		rs, ok := refSamples[name]
		if !ok {
			continue
		}
		rm, hm := sampleMean(rs.Values), sampleMean(hs.Values)
		change := ""
		if rm != 0 {
			change = fmt.Sprintf("%+.1f%%", (hm/rm-1)*100)
		}
		tw.AppendRow(table.Row{name, fmt.Sprintf("%.0f", rm), fmt.Sprintf("%.0f", hm), change})
	}
	fmt.Fprintf(f, "# Stats vs. %s\n\n", c.Base)
	if _, err := f.WriteString(tw.RenderMarkdown()); err != nil {
		return err
	}
	_, err = f.WriteString("\n")
	return err
}

func sampleMean(vs []float64) float64 {
	if len(vs) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range vs {
		sum += v
	}
	return sum / float64(len(vs))
}

func formatHPT(v float64) string {
	return fmt.Sprintf("%.3fx", v)
}
