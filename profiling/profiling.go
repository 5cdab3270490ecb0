// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package profiling

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/benchwatch/benchwatch/benchchart"
)

// reportThreshold is the smallest fraction of samples a symbol needs to
// appear in the markdown tables.
const reportThreshold = 0.005

// orchestrator is the Python running pyperformance itself, not the
// interpreter under test. Its samples are noise and are dropped.
const orchestrator = "python3.8"

type sample struct {
	obj, sym string
	fraction float64
}

// A profile is one benchmark's parsed samples, in descending self-time
// order as perf emits them.
type profile struct {
	stem    string
	samples []sample
}

func readProfile(path string) (*profile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	stem := filepath.Base(path)
	stem = strings.SplitN(strings.TrimSuffix(stem, ".csv"), ".", 2)[0]
	p := &profile{stem: stem}

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	header := true
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		if header {
			header = false
			continue
		}
		if len(row) < 4 {
			continue
		}
		if row[2] == orchestrator {
			continue
		}
		pct, err := strconv.ParseFloat(row[0], 64)
		if err != nil {
			return nil, fmt.Errorf("reading %s: bad self time %q", path, row[0])
		}
		fraction := pct / 100
		// Rows are sorted by self time; the remainder is noise.
		if fraction <= 0 {
			break
		}
		p.samples = append(p.samples, sample{obj: row[2], sym: row[3], fraction: fraction})
	}
	return p, nil
}

// catTotal is one category's mean fraction across all profiles.
type catTotal struct {
	name string
	mean float64
}

// Generate reads every perf CSV in inputDir and writes three files
// under outputPrefix: a markdown summary (.md), a stacked
// per-benchmark bar chart (.png), and a category pie (.pie.png). With
// no profiling data it warns and succeeds; profiling runs are optional.
func Generate(inputDir, outputPrefix string, warn func(format string, args ...interface{})) error {
	paths, err := filepath.Glob(filepath.Join(inputDir, "*.csv"))
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		warn("no profiling data in %s, skipping\n", inputDir)
		return nil
	}
	sort.Strings(paths)

	m := NewMatcher()
	var profiles []*profile
	perBench := make(map[string]map[string]float64)
	bySymbol := make(map[string]map[objSym]float64)
	for _, path := range paths {
		p, err := readProfile(path)
		if err != nil {
			return err
		}
		profiles = append(profiles, p)
		perBench[p.stem] = make(map[string]float64)
		for _, s := range p.samples {
			cat := m.Category(s.obj, s.sym)
			perBench[p.stem][cat] += s.fraction
			if bySymbol[cat] == nil {
				bySymbol[cat] = make(map[objSym]float64)
			}
			bySymbol[cat][objSym{s.obj, s.sym}] += s.fraction
		}
	}

	n := float64(len(profiles))
	var totals []catTotal
	for name, syms := range bySymbol {
		sum := 0.0
		for _, v := range syms {
			sum += v
		}
		totals = append(totals, catTotal{name: name, mean: sum / n})
	}
	sort.Slice(totals, func(i, j int) bool {
		if totals[i].mean != totals[j].mean {
			return totals[i].mean > totals[j].mean
		}
		return totals[i].name < totals[j].name
	})

	if err := writeMarkdown(outputPrefix+".md", profiles, m, totals, bySymbol, n); err != nil {
		return err
	}
	if err := writeBars(outputPrefix+".png", profiles, perBench, totals); err != nil {
		return err
	}
	return writePie(outputPrefix+".pie.png", totals)
}

func writeMarkdown(path string, profiles []*profile, m *Matcher, totals []catTotal, bySymbol map[string]map[objSym]float64, n float64) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	for _, p := range profiles {
		fmt.Fprintf(f, "\n## %s\n\n", p.stem)
		tw := table.NewWriter()
		tw.AppendHeader(table.Row{"percentage", "object", "symbol", "category"})
		for _, s := range p.samples {
			if s.fraction < reportThreshold {
				continue
			}
			tw.AppendRow(table.Row{
				fmt.Sprintf("%.2f%%", s.fraction*100),
				"`" + s.obj + "`",
				"`" + s.sym + "`",
				m.Category(s.obj, s.sym),
			})
		}
		if _, err := f.WriteString(tw.RenderMarkdown()); err != nil {
			return err
		}
		if _, err := f.WriteString("\n"); err != nil {
			return err
		}
	}

	fmt.Fprintf(f, "\n\n## Categories\n")
	for _, ct := range totals {
		fmt.Fprintf(f, "\n### %s\n\n%.2f%% total\n\n", ct.name, ct.mean*100)

		syms := bySymbol[ct.name]
		type symTotal struct {
			key objSym
			sum float64
		}
		rows := make([]symTotal, 0, len(syms))
		for key, sum := range syms {
			rows = append(rows, symTotal{key, sum})
		}
		sort.Slice(rows, func(i, j int) bool {
			if rows[i].sum != rows[j].sum {
				return rows[i].sum > rows[j].sum
			}
			return rows[i].key.sym < rows[j].key.sym
		})
		tw := table.NewWriter()
		tw.AppendHeader(table.Row{"percentage", "object", "symbol"})
		for _, r := range rows {
			if r.sum/n < reportThreshold {
				break
			}
			tw.AppendRow(table.Row{
				fmt.Sprintf("%.2f%%", r.sum/n*100),
				r.key.obj,
				r.key.sym,
			})
		}
		if _, err := f.WriteString(tw.RenderMarkdown()); err != nil {
			return err
		}
		if _, err := f.WriteString("\n"); err != nil {
			return err
		}
	}
	return nil
}

// writeBars draws one stacked bar per benchmark, categories in overall
// significance order, with the unattributed remainder as a final
// "(other functions)" segment.
func writeBars(path string, profiles []*profile, perBench map[string]map[string]float64, totals []catTotal) error {
	var names []string
	for _, ct := range totals {
		if ct.name == "unknown" {
			continue
		}
		names = append(names, fmt.Sprintf("%s %.2f%%", ct.name, ct.mean*100))
	}
	names = append(names, "(other functions)")

	rows := make([]benchchart.BarRow, len(profiles))
	// Benchmarks read top to bottom; horizontal bars stack bottom up.
	for i, p := range profiles {
		row := benchchart.BarRow{Label: p.stem}
		covered := 0.0
		for _, ct := range totals {
			if ct.name == "unknown" {
				continue
			}
			v := perBench[p.stem][ct.name]
			row.Values = append(row.Values, v)
			covered += v
		}
		row.Values = append(row.Values, 1-covered)
		rows[len(profiles)-1-i] = row
	}
	return benchchart.ProfilingBars("profiling", names, rows, path)
}

func writePie(path string, totals []catTotal) error {
	var slices []benchchart.PieSlice
	covered := 0.0
	for _, ct := range totals {
		slices = append(slices, benchchart.PieSlice{
			Label: fmt.Sprintf("%s %.2f%%", ct.name, ct.mean*100),
			Value: ct.mean,
		})
		covered += ct.mean
	}
	if covered < 1 {
		slices = append(slices, benchchart.PieSlice{Label: "(other functions)", Value: 1 - covered})
	}
	return benchchart.Pie("profiling categories", slices, path)
}
