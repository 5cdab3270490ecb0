// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package resultindex memoizes the scalar outcome of benchmark-run
// comparisons across process runs.
//
// The statistical pipeline is deterministic but expensive; a longitudinal
// chart over hundreds of historical result pairs would otherwise recompute
// every (reference, head, base) ratio on each regeneration. Keys must be
// derived from content-stable identities (file path plus commit hash), so
// a cached value never goes stale and entries are never invalidated.
package resultindex

import "fmt"

// A Store persists the whole key→value mapping. It is loaded wholesale
// at process start and rewritten wholesale at the end; mid-run crashes
// lose only the current run's new entries.
type Store interface {
	// Load reads the persisted mapping. A missing store returns an
	// empty mapping and no error.
	Load() (map[string]float64, error)

	// Save replaces the persisted mapping.
	Save(entries map[string]float64) error
}

// An Index is a process-wide memoization cache backed by a Store.
type Index struct {
	store   Store
	entries map[string]float64
	dirty   bool
}

// Key builds the canonical cache key for a comparison. The identities
// must be content-stable: repository-relative paths, not object
// identities.
func Key(refID, headID, base string) string {
	return fmt.Sprintf("%s,%s,%s", refID, headID, base)
}

// Load opens an Index over store. A corrupt or missing persisted mapping
// is treated as an empty cache: every value simply gets recomputed.
func Load(store Store, warn func(format string, args ...interface{})) *Index {
	entries, err := store.Load()
	if err != nil {
		if warn != nil {
			warn("discarding comparison cache: %v\n", err)
		}
		entries = nil
	}
	if entries == nil {
		entries = make(map[string]float64)
	}
	return &Index{store: store, entries: entries}
}

// GetOrCompute returns the cached value for key, invoking compute exactly
// once on a miss and remembering its result.
func (ix *Index) GetOrCompute(key string, compute func() (float64, error)) (float64, error) {
	if v, ok := ix.entries[key]; ok {
		return v, nil
	}
	v, err := compute()
	if err != nil {
		return 0, err
	}
	ix.entries[key] = v
	ix.dirty = true
	return v, nil
}

// Len reports the number of cached entries.
func (ix *Index) Len() int {
	return len(ix.entries)
}

// Flush rewrites the persisted mapping if anything was added since Load.
func (ix *Index) Flush() error {
	if !ix.dirty {
		return nil
	}
	if err := ix.store.Save(ix.entries); err != nil {
		return fmt.Errorf("persisting comparison cache: %w", err)
	}
	ix.dirty = false
	return nil
}
