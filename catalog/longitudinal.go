// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package catalog

import (
	"fmt"
	"sort"
	"strings"

	"github.com/benchwatch/benchwatch/benchchart"
	"github.com/benchwatch/benchwatch/benchcompare"
	"github.com/benchwatch/benchwatch/result"
	"github.com/benchwatch/benchwatch/resultindex"
)

// LongitudinalSeries assembles the trend chart data: for each configured
// series, one line per runner tracking the HPT 99th percentile of every
// matching run against that series' base release, in commit order.
//
// The headline scalar of each (ref, head) pair is memoized in ix, so
// across repeated refreshes only runs new to the repository cost a full
// pairwise comparison.
func (cat *Catalog) LongitudinalSeries(ix *resultindex.Index) []benchchart.TrendGroup {
	var groups []benchchart.TrendGroup
	for _, series := range cat.Config.Longitudinal {
		g := benchchart.TrendGroup{
			Title: fmt.Sprintf("%s vs. %s", series.Version, series.Base),
		}
		byRunner := make(map[string][]*result.Result)
		refs := make(map[string]*result.Result)
		for _, e := range cat.Results {
			if e.Kind != result.KindRaw {
				continue
			}
			if e.Version == series.Base {
				// Results are most recent first; keep the newest
				// run of the base release per runner.
				if _, ok := refs[e.Runner]; !ok {
					refs[e.Runner] = e.Result
				}
				continue
			}
			if e.Fork != cat.Config.Fork || !strings.HasPrefix(e.Version, series.Version) {
				continue
			}
			byRunner[e.Runner] = append(byRunner[e.Runner], e.Result)
		}

		runners := make([]string, 0, len(byRunner))
		for runner := range byRunner {
			runners = append(runners, runner)
		}
		for _, runner := range SortRunnerNames(runners) {
			ref, ok := refs[runner]
			if !ok {
				cat.Warn("longitudinal %s: no %s run on %s\n", series.Version, series.Base, runner)
				continue
			}
			heads := byRunner[runner]
			sort.Slice(heads, func(i, j int) bool {
				return heads[i].CommitTime.Before(heads[j].CommitTime)
			})
			line := benchchart.TrendSeries{Name: runner}
			for _, head := range heads {
				key := resultindex.Key(ref.Path, head.Path, series.Base)
				v, err := ix.GetOrCompute(key, func() (float64, error) {
					s, err := benchcompare.Aggregate(ref.Samples(), head.Samples(), nil)
					if err != nil {
						return 0, err
					}
					return s.HPTPercentile(99), nil
				})
				if err != nil {
					cat.Warn("longitudinal %s: %s: %v\n", series.Version, head.Path, err)
					continue
				}
				line.Times = append(line.Times, head.CommitTime)
				line.Values = append(line.Values, v)
			}
			if len(line.Values) > 0 {
				g.Series = append(g.Series, line)
			}
		}
		if len(g.Series) > 0 {
			groups = append(groups, g)
		}
	}
	return groups
}
