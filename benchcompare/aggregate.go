// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package benchcompare aggregates per-benchmark sample comparisons for a
// whole pair of benchmark runs into a summary: a display ordering, a
// geometric-mean headline, and a pooled "highest percentile of
// regression/improvement" (HPT) scalar.
package benchcompare

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/benchwatch/benchwatch/benchstats"
)

// A Summary is the aggregate comparison of two benchmark runs.
type Summary struct {
	// PerBenchmark maps benchmark name to its pairwise comparison.
	// Only benchmarks present in both runs appear here.
	PerBenchmark map[string]benchstats.Comparison

	// Order lists the benchmarks in display order: ascending by mean
	// ratio, with non-significant benchmarks treated as a neutral 1.0,
	// so regressions and improvements cluster at the extremes.
	Order []string

	// GeoMean is the geometric mean of the mean ratios of the
	// significant comparisons, with non-significant benchmarks
	// contributing a ratio of 1.0. It is exactly 1.0 when nothing
	// changed measurably.
	GeoMean float64

	// Missing and New are the benchmarks present in only the
	// reference or only the head run. They are reported but never
	// enter the numeric aggregates.
	Missing, New []string

	// pooled is the union of all ratio distributions, ascending, with
	// a single neutral 1.0 entry standing in for each non-significant
	// benchmark.
	pooled []float64
}

// Aggregate compares every benchmark present in both the reference and
// head sample sets. Benchmarks present in only one side are recorded in
// Missing/New; a benchmark suite change must not silently skew the
// headline numbers.
func Aggregate(ref, head map[string]*benchstats.Sample, opts *benchstats.Options) (*Summary, error) {
	s := &Summary{PerBenchmark: make(map[string]benchstats.Comparison)}

	for name, rs := range ref {
		hs, ok := head[name]
		if !ok {
			s.Missing = append(s.Missing, name)
			continue
		}
		c, err := benchstats.CompareSamples(rs, hs, opts)
		if err != nil {
			return nil, err
		}
		s.PerBenchmark[name] = c
	}
	for name := range head {
		if _, ok := ref[name]; !ok {
			s.New = append(s.New, name)
		}
	}
	sort.Strings(s.Missing)
	sort.Strings(s.New)

	ratios := make([]float64, 0, len(s.PerBenchmark))
	for name, c := range s.PerBenchmark {
		s.Order = append(s.Order, name)
		if c.Significant {
			ratios = append(ratios, c.MeanRatio)
			s.pooled = append(s.pooled, c.Ratios...)
		} else {
			ratios = append(ratios, 1)
			s.pooled = append(s.pooled, 1)
		}
	}
	sort.Slice(s.Order, func(i, j int) bool {
		ri := displayRatio(s.PerBenchmark[s.Order[i]])
		rj := displayRatio(s.PerBenchmark[s.Order[j]])
		if ri != rj {
			return ri < rj
		}
		return s.Order[i] < s.Order[j]
	})
	sort.Float64s(s.pooled)

	if len(ratios) == 0 {
		s.GeoMean = 1
	} else {
		s.GeoMean = stat.GeometricMean(ratios, nil)
	}
	return s, nil
}

func displayRatio(c benchstats.Comparison) float64 {
	if !c.Significant {
		return 1
	}
	return c.MeanRatio
}

// HPTPercentile returns the pct-th percentile (0–100) of the pooled
// ratio distribution. This is the headline scalar: it summarizes how bad
// the worst meaningfully-affected fraction of the suite is, which a mean
// would hide.
//
// It returns NaN when there is nothing pooled.
func (s *Summary) HPTPercentile(pct float64) float64 {
	return percentile(s.pooled, pct/100)
}

// Pooled returns the pooled ratio distribution, ascending.
func (s *Summary) Pooled() []float64 {
	return s.pooled
}

func mean(a []float64) float64 {
	if len(a) == 0 {
		return math.NaN()
	}
	sum := 0.0
	for _, v := range a {
		sum += v
	}
	return sum / float64(len(a))
}

// percentile interpolates the p-th quantile (0–1) of a sorted slice.
func percentile(a []float64, p float64) float64 {
	if len(a) == 0 {
		return math.NaN()
	}
	if p == 0 {
		return a[0]
	}
	n := len(a)
	if p == 1 {
		return a[n-1]
	}
	f := float64(float64(n) * p) // Suppress fused-multiply-add
	i := int(f)
	x := f - float64(i)
	r := a[i]
	if x > 0 && i+1 < len(a) {
		r = float64(r*(1-x)) + float64(a[i+1]*x) // Suppress fused-multiply-add
	}
	return r
}
