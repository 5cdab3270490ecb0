// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package resultindex

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestGetOrComputeOnce(t *testing.T) {
	ix := Load(&MemStore{}, nil)
	calls := 0
	compute := func() (float64, error) {
		calls++
		return 1.25, nil
	}
	key := Key("results/ref.json", "results/head.json", "3.12.0")
	for i := 0; i < 3; i++ {
		v, err := ix.GetOrCompute(key, compute)
		if err != nil {
			t.Fatalf("GetOrCompute got err %v, want nil", err)
		}
		if v != 1.25 {
			t.Errorf("GetOrCompute got %v, want 1.25", v)
		}
	}
	if calls != 1 {
		t.Errorf("compute called %d times, want 1", calls)
	}
}

func TestGetOrComputeError(t *testing.T) {
	ix := Load(&MemStore{}, nil)
	wantErr := errors.New("boom")
	if _, err := ix.GetOrCompute("k", func() (float64, error) { return 0, wantErr }); err != wantErr {
		t.Fatalf("err got %v, want %v", err, wantErr)
	}
	// A failed compute must not be cached.
	v, err := ix.GetOrCompute("k", func() (float64, error) { return 2, nil })
	if err != nil || v != 2 {
		t.Errorf("retry got (%v, %v), want (2, nil)", v, err)
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "longitudinal.json")
	store := &FileStore{Path: path}

	ix := Load(store, nil)
	if _, err := ix.GetOrCompute("a,b,base", func() (float64, error) { return 1.5, nil }); err != nil {
		t.Fatal(err)
	}
	if err := ix.Flush(); err != nil {
		t.Fatalf("Flush got err %v, want nil", err)
	}

	reloaded, err := store.Load()
	if err != nil {
		t.Fatalf("Load got err %v, want nil", err)
	}
	if want := map[string]float64{"a,b,base": 1.5}; !reflect.DeepEqual(reloaded, want) {
		t.Errorf("reloaded got %v, want %v", reloaded, want)
	}
}

func TestFileStoreMissing(t *testing.T) {
	store := &FileStore{Path: filepath.Join(t.TempDir(), "nope.json")}
	entries, err := store.Load()
	if err != nil {
		t.Fatalf("Load got err %v, want nil", err)
	}
	if len(entries) != 0 {
		t.Errorf("entries got %v, want empty", entries)
	}
}

func TestLoadCorruptCache(t *testing.T) {
	path := filepath.Join(t.TempDir(), "longitudinal.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o666); err != nil {
		t.Fatal(err)
	}
	var warned bool
	ix := Load(&FileStore{Path: path}, func(format string, args ...interface{}) { warned = true })
	if !warned {
		t.Error("corrupt cache produced no warning")
	}
	if ix.Len() != 0 {
		t.Errorf("Len got %d, want 0", ix.Len())
	}
	// The cache still works and can be re-persisted.
	if _, err := ix.GetOrCompute("k", func() (float64, error) { return 3, nil }); err != nil {
		t.Fatal(err)
	}
	if err := ix.Flush(); err != nil {
		t.Fatalf("Flush got err %v, want nil", err)
	}
}

func TestFlushClean(t *testing.T) {
	// Flushing an unmodified index must not touch the store.
	store := &failSaveStore{}
	ix := Load(store, nil)
	if err := ix.Flush(); err != nil {
		t.Errorf("Flush of clean index got err %v, want nil", err)
	}
}

type failSaveStore struct{}

func (failSaveStore) Load() (map[string]float64, error) { return nil, nil }
func (failSaveStore) Save(map[string]float64) error     { return errors.New("must not save") }
