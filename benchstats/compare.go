// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchstats

import (
	"sort"

	"github.com/aclements/go-moremath/stats"
)

// A Comparison is the result of comparing the measurements of one
// benchmark under two conditions.
//
// When Significant is false, Ratios is nil and MeanRatio is 0. That is a
// sentinel meaning "insufficient evidence of a real difference", which is
// distinct from a measured ratio of exactly 1.
type Comparison struct {
	// Name is the benchmark both samples measured.
	Name string

	// Ratios is the empirical distribution of speed ratios: every
	// reference measurement divided by every head measurement,
	// in ascending order.
	Ratios []float64

	// MeanRatio is the mean of Ratios.
	MeanRatio float64

	// Significant reports whether the difference between the two
	// samples passed the significance test.
	Significant bool

	// Warnings is a list of warnings about this comparison that
	// should be reported to the user.
	Warnings []error
}

// Options configures CompareSamples.
type Options struct {
	// OutlierRejection discards measurements more than
	// Thresholds.OutlierSigmas standard deviations from their own
	// sample's mean before ratios are computed. It has no effect
	// when the significance test accepts the null hypothesis.
	OutlierRejection bool

	// Thresholds are the statistical thresholds to apply.
	// If nil, DefaultThresholds is used.
	Thresholds *Thresholds
}

// DefaultOptions enables outlier rejection with DefaultThresholds.
var DefaultOptions = Options{OutlierRejection: true}

// CompareSamples compares the reference and head measurements of a single
// benchmark. It applies a two-sided Mann–Whitney U test at
// Thresholds.CompareAlpha; if the test rejects the null hypothesis, it
// computes the full pairwise ratio distribution ref/head, optionally
// after outlier rejection on each side independently.
//
// The test is rank-based, so for fixed inputs the result is
// bit-reproducible.
//
// CompareSamples returns ErrInsufficientData if either sample is empty.
func CompareSamples(ref, head *Sample, opts *Options) (Comparison, error) {
	if opts == nil {
		opts = &DefaultOptions
	}
	t := opts.Thresholds
	if t == nil {
		t = &DefaultThresholds
	}
	if len(ref.Values) == 0 || len(head.Values) == 0 {
		return Comparison{}, ErrInsufficientData
	}

	c := Comparison{Name: ref.Name}

	res, err := stats.MannWhitneyUTest(ref.Values, head.Values, stats.LocationDiffers)
	if err != nil {
		// The U-test couldn't produce a p-value (e.g., all
		// observations are equal). Report no significant
		// difference, along with the error.
		c.Warnings = append(c.Warnings, err)
		return c, nil
	}
	if res.P > t.CompareAlpha {
		return c, nil
	}
	c.Significant = true

	rvs, hvs := ref.Values, head.Values
	if opts.OutlierRejection {
		rvs = rejectOutliers(rvs, t.OutlierSigmas)
		hvs = rejectOutliers(hvs, t.OutlierSigmas)
	}

	// The full outer product of ref measurements against the
	// reciprocals of head measurements. Downstream percentile and
	// violin reporting needs the whole empirical distribution, not a
	// point estimate.
	ratios := make([]float64, 0, len(rvs)*len(hvs))
	for _, rv := range rvs {
		for _, hv := range hvs {
			ratios = append(ratios, rv/hv)
		}
	}
	sort.Float64s(ratios)
	c.Ratios = ratios
	c.MeanRatio = stats.Sample{Xs: ratios, Sorted: true}.Mean()
	return c, nil
}
