// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchstats

import (
	"math"
	"reflect"
	"testing"
)

func repeat(v float64, n int) []float64 {
	vs := make([]float64, n)
	for i := range vs {
		vs[i] = v
	}
	return vs
}

func TestCompareSamplesEqual(t *testing.T) {
	// Identical multisets must never report a significant
	// difference, whether the values are all equal or not.
	cases := [][]float64{
		repeat(10, 10),
		{1, 2, 3, 4, 5, 6, 7, 8, 9, 10},
	}
	for _, vs := range cases {
		ref := NewSample("fannkuch", vs)
		head := NewSample("fannkuch", vs)
		c, err := CompareSamples(ref, head, nil)
		if err != nil {
			t.Fatalf("CompareSamples got err %v, want nil", err)
		}
		if c.Significant {
			t.Errorf("values %v: got significant, want insignificant", vs)
		}
		if c.Ratios != nil {
			t.Errorf("values %v: Ratios got %v, want nil", vs, c.Ratios)
		}
		if c.MeanRatio != 0 {
			t.Errorf("values %v: MeanRatio got %v, want 0", vs, c.MeanRatio)
		}
	}
}

func TestCompareSamplesUniformSpeedup(t *testing.T) {
	ref := NewSample("nbody", repeat(10, 5))
	head := NewSample("nbody", repeat(5, 5))
	c, err := CompareSamples(ref, head, nil)
	if err != nil {
		t.Fatalf("CompareSamples got err %v, want nil", err)
	}
	if !c.Significant {
		t.Fatal("got insignificant, want significant")
	}
	if len(c.Ratios) != 25 {
		t.Errorf("len(Ratios) got %d, want 25", len(c.Ratios))
	}
	for _, r := range c.Ratios {
		if r != 2 {
			t.Errorf("ratio got %v, want 2", r)
		}
	}
	if c.MeanRatio != 2 {
		t.Errorf("MeanRatio got %v, want 2", c.MeanRatio)
	}
}

func TestCompareSamplesConvergesToScale(t *testing.T) {
	// head = ref/k with mild jitter: the mean ratio converges to k
	// as the sample count grows.
	const k = 2.0
	var ref, head []float64
	for i := 0; i < 50; i++ {
		jitter := float64(i%7) * 1e-3
		ref = append(ref, 1.0+jitter)
		head = append(head, (1.0+jitter)/k)
	}
	c, err := CompareSamples(NewSample("spectral", ref), NewSample("spectral", head), nil)
	if err != nil {
		t.Fatalf("CompareSamples got err %v, want nil", err)
	}
	if !c.Significant {
		t.Fatal("got insignificant, want significant")
	}
	if math.Abs(c.MeanRatio-k) > 0.01 {
		t.Errorf("MeanRatio got %v, want ≈%v", c.MeanRatio, k)
	}
}

func TestCompareSamplesEmpty(t *testing.T) {
	ref := NewSample("deltablue", nil)
	head := NewSample("deltablue", []float64{1, 2, 3})
	if _, err := CompareSamples(ref, head, nil); err != ErrInsufficientData {
		t.Errorf("empty ref: err got %v, want ErrInsufficientData", err)
	}
	if _, err := CompareSamples(head, ref, nil); err != ErrInsufficientData {
		t.Errorf("empty head: err got %v, want ErrInsufficientData", err)
	}
}

func TestCompareSamplesNoRejection(t *testing.T) {
	ref := NewSample("go", repeat(10, 5))
	head := NewSample("go", repeat(5, 5))
	opts := &Options{OutlierRejection: false}
	c, err := CompareSamples(ref, head, opts)
	if err != nil {
		t.Fatalf("CompareSamples got err %v, want nil", err)
	}
	if !c.Significant || c.MeanRatio != 2 {
		t.Errorf("got (significant=%v, mean=%v), want (true, 2)", c.Significant, c.MeanRatio)
	}
}

func TestRejectOutliersIdempotent(t *testing.T) {
	vs := []float64{10, 10, 10, 10, 10, 100}
	once := rejectOutliers(vs, 2)
	want := repeat(10, 5)
	if !reflect.DeepEqual(once, want) {
		t.Fatalf("rejectOutliers got %v, want %v", once, want)
	}
	twice := rejectOutliers(once, 2)
	if !reflect.DeepEqual(twice, once) {
		t.Errorf("second rejection got %v, want %v", twice, once)
	}
}

func TestNewSampleSortsCopy(t *testing.T) {
	in := []float64{3, 1, 2}
	s := NewSample("richards", in)
	if want := []float64{1, 2, 3}; !reflect.DeepEqual(s.Values, want) {
		t.Errorf("Values got %v, want %v", s.Values, want)
	}
	if want := []float64{3, 1, 2}; !reflect.DeepEqual(in, want) {
		t.Errorf("input mutated: got %v, want %v", in, want)
	}
}
