// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchcompare

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
)

// FormatRatio renders a speed ratio the way the reports show it:
// "1.23x faster" / "1.23x slower", or "not significant" for the
// no-measurable-change sentinel.
func FormatRatio(c Ratio) string {
	if !c.Significant {
		return "not significant"
	}
	if c.Value >= 1 {
		return fmt.Sprintf("%.3fx faster", c.Value)
	}
	return fmt.Sprintf("%.3fx slower", 1/c.Value)
}

// A Ratio is a display-ready speed ratio.
type Ratio struct {
	Value       float64
	Significant bool
}

// ShortSummary is the one-cell description of this summary used in
// index tables: the geometric mean as a ratio string.
func (s *Summary) ShortSummary() string {
	return FormatRatio(Ratio{Value: s.GeoMean, Significant: s.GeoMean != 1})
}

// LongSummary is the one-line description used in directory indices.
func (s *Summary) LongSummary() string {
	return fmt.Sprintf("Geometric mean: %s (HPT: 99th percentile %s)",
		s.ShortSummary(),
		FormatRatio(Ratio{Value: s.HPTPercentile(99), Significant: true}))
}

// WriteMarkdown writes the comparison table contents: one row per
// benchmark in display order, a pooled ALL row last, then the missing
// and new benchmark lists.
func (s *Summary) WriteMarkdown(w io.Writer) error {
	tw := table.NewWriter()
	tw.AppendHeader(table.Row{"Benchmark", "Speed ratio"})
	for _, name := range s.Order {
		c := s.PerBenchmark[name]
		tw.AppendRow(table.Row{name, FormatRatio(Ratio{Value: c.MeanRatio, Significant: c.Significant})})
	}
	tw.AppendRow(table.Row{"ALL", FormatRatio(Ratio{Value: mean(s.pooled), Significant: len(s.pooled) > 0})})
	if _, err := io.WriteString(w, tw.RenderMarkdown()); err != nil {
		return err
	}
	if _, err := io.WriteString(w, "\n"); err != nil {
		return err
	}

	if len(s.Missing) > 0 {
		if _, err := fmt.Fprintf(w, "\n- missing benchmarks: %s\n", strings.Join(s.Missing, ", ")); err != nil {
			return err
		}
	}
	if len(s.New) > 0 {
		if _, err := fmt.Fprintf(w, "- new benchmarks: %s\n", strings.Join(s.New, ", ")); err != nil {
			return err
		}
	}
	return nil
}
