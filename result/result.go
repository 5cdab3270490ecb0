// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package result models one immutable benchmark-run record: the raw
// per-iteration timing values of every benchmark in a run, plus the
// identity metadata (fork, ref, version, runner, commit hash, flags)
// that names the run.
//
// A record is a JSON file in a results tree. Identity is the record's
// repository-relative path plus the embedded commit hash; records are
// never modified after they are written.
package result

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/benchwatch/benchwatch/benchstats"
)

// A Kind classifies what a record holds and therefore which comparison
// artifacts it owns.
type Kind string

const (
	// KindRaw is a normal benchmarking run: timing samples per
	// benchmark. Owns a markdown comparison report and a ratio plot.
	KindRaw Kind = "raw results"

	// KindStats is an interpreter-statistics run. Owns only a
	// markdown diff.
	KindStats Kind = "stats raw"
)

// Metadata is the identity and provenance block embedded in a record.
type Metadata struct {
	Fork       string   `json:"fork"`
	Ref        string   `json:"ref"`
	Version    string   `json:"version"`
	Runner     string   `json:"runner"`
	CommitHash string   `json:"commit_hash"`
	CommitDate string   `json:"commit_date"` // RFC 3339
	RunDate    string   `json:"run_date"`    // RFC 3339
	Flags      []string `json:"flags,omitempty"`
	MergeBase  string   `json:"commit_merge_base,omitempty"`
	CPUModel   string   `json:"cpu_model_name,omitempty"`
	Platform   string   `json:"platform,omitempty"`
	Kind       Kind     `json:"kind"`
}

type benchmarkJSON struct {
	Metadata struct {
		Name string `json:"name"`
	} `json:"metadata"`
	Runs []struct {
		Values []float64 `json:"values"`
	} `json:"runs"`
}

type recordJSON struct {
	Metadata   Metadata        `json:"metadata"`
	Benchmarks []benchmarkJSON `json:"benchmarks"`
}

// A Result is one loaded record.
type Result struct {
	// Path is the record's path relative to the repository root,
	// with forward slashes. Together with the commit hash it is the
	// record's content-stable identity.
	Path string

	Metadata

	CommitTime time.Time
	RunTime    time.Time

	samples map[string]*benchstats.Sample
}

// Load reads the record at the path dir/rel, where rel is
// repository-relative.
func Load(root, rel string) (*Result, error) {
	data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
	if err != nil {
		return nil, err
	}
	var rec recordJSON
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", rel, err)
	}
	r := &Result{Path: rel, Metadata: rec.Metadata}
	if r.Kind == "" {
		r.Metadata.Kind = KindRaw
	}
	if r.CommitDate != "" {
		if r.CommitTime, err = time.Parse(time.RFC3339, r.CommitDate); err != nil {
			return nil, fmt.Errorf("%s: bad commit_date: %w", rel, err)
		}
	}
	if r.RunDate != "" {
		if r.RunTime, err = time.Parse(time.RFC3339, r.RunDate); err != nil {
			return nil, fmt.Errorf("%s: bad run_date: %w", rel, err)
		}
	}

	// Flatten each benchmark's runs into one sample set per name.
	r.samples = make(map[string]*benchstats.Sample, len(rec.Benchmarks))
	for _, b := range rec.Benchmarks {
		var values []float64
		for _, run := range b.Runs {
			values = append(values, run.Values...)
		}
		r.samples[b.Metadata.Name] = benchstats.NewSample(b.Metadata.Name, values)
	}
	return r, nil
}

// Samples returns the per-benchmark sample sets.
func (r *Result) Samples() map[string]*benchstats.Sample {
	return r.samples
}

// BenchmarkNames returns the sorted benchmark names in this record.
func (r *Result) BenchmarkNames() []string {
	names := make([]string, 0, len(r.samples))
	for name := range r.samples {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Stem is the record's file name without directory or extension;
// comparison artifacts derive their names from it.
func (r *Result) Stem() string {
	base := r.Path[strings.LastIndexByte(r.Path, '/')+1:]
	return strings.TrimSuffix(base, ".json")
}

// Dir is the record's directory, repository-relative.
func (r *Result) Dir() string {
	if i := strings.LastIndexByte(r.Path, '/'); i >= 0 {
		return r.Path[:i]
	}
	return "."
}

// ShortHash is the abbreviated commit hash used in tables.
func (r *Result) ShortHash() string {
	if len(r.CommitHash) > 12 {
		return r.CommitHash[:12]
	}
	return r.CommitHash
}

// HashAndFlags renders the hash cell of index tables, with any build
// flags appended.
func (r *Result) HashAndFlags() string {
	if len(r.Flags) == 0 {
		return r.ShortHash()
	}
	return r.ShortHash() + " (" + strings.Join(r.Flags, ",") + ")"
}

// LoadAll scans the results tree under root/dir for records and returns
// them sorted by run date, most recent first. Comparison artifacts
// living alongside records are skipped by name shape: a record file
// never contains "-vs-".
func LoadAll(root, dir string) ([]*Result, error) {
	var results []*Result
	base := filepath.Join(root, filepath.FromSlash(dir))
	err := filepath.Walk(base, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || !strings.HasSuffix(path, ".json") {
			return nil
		}
		name := filepath.Base(path)
		if strings.Contains(name, "-vs-") {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		r, lerr := Load(root, filepath.ToSlash(rel))
		if lerr != nil {
			return lerr
		}
		results = append(results, r)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(results, func(i, j int) bool {
		if !results[i].RunTime.Equal(results[j].RunTime) {
			return results[i].RunTime.After(results[j].RunTime)
		}
		return results[i].Path < results[j].Path
	})
	return results, nil
}
