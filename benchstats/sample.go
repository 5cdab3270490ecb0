// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package benchstats provides statistics over distributions of repeated
// benchmark timing measurements.
//
// This package is opinionated. It implements one comparison policy: a
// Mann–Whitney U significance test at a fixed alpha, two-sigma outlier
// rejection, and a full pairwise ratio distribution. Callers that need a
// different policy need a different package.
package benchstats

import (
	"errors"
	"sort"

	"github.com/aclements/go-moremath/stats"
)

// A Sample is a set of repeated measurements of a given benchmark under
// one configuration. It is immutable once constructed.
type Sample struct {
	// Name is the benchmark the measurements belong to.
	Name string

	// Values are the measured values, in ascending order.
	Values []float64
}

// NewSample constructs a Sample from a set of measurements. The input
// slice is copied; values are sorted for fast order statistics.
func NewSample(name string, values []float64) *Sample {
	vs := make([]float64, len(values))
	copy(vs, values)
	sort.Float64s(vs)
	return &Sample{Name: name, Values: vs}
}

func (s *Sample) sample() stats.Sample {
	return stats.Sample{Xs: s.Values, Sorted: true}
}

// ErrInsufficientData indicates that a sample has no measurements, so a
// significance test over it would be meaningless.
var ErrInsufficientData = errors.New("sample contains no measurements")

// A Thresholds configures the statistical thresholds used by comparisons.
//
// This should be initialized to DefaultThresholds because it may be
// extended with other fields in the future.
type Thresholds struct {
	// CompareAlpha is the alpha level below which CompareSamples
	// rejects the null hypothesis that two samples come from the
	// same distribution.
	//
	// This is typically 0.05.
	CompareAlpha float64

	// OutlierSigmas is the number of standard deviations from a
	// sample's own mean beyond which a measurement is discarded
	// before ratios are computed.
	//
	// This is typically 2.
	OutlierSigmas float64
}

// DefaultThresholds contains a reasonable set of defaults for Thresholds.
var DefaultThresholds = Thresholds{
	CompareAlpha:  0.05,
	OutlierSigmas: 2,
}

// rejectOutliers returns vs without the measurements more than sigmas
// standard deviations from the mean of vs. The result stays sorted.
func rejectOutliers(vs []float64, sigmas float64) []float64 {
	s := stats.Sample{Xs: vs, Sorted: true}
	mean, dev := s.Mean(), s.StdDev()
	kept := make([]float64, 0, len(vs))
	for _, v := range vs {
		if v-mean <= sigmas*dev && mean-v <= sigmas*dev {
			kept = append(kept, v)
		}
	}
	return kept
}
