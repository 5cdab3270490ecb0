// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package resultindex

import (
	"path/filepath"
	"reflect"
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

func TestSQLStoreRoundTrip(t *testing.T) {
	store, err := OpenSQL("sqlite3", filepath.Join(t.TempDir(), "cache.db"), "comparisons")
	if err != nil {
		t.Fatalf("OpenSQL got err %v, want nil", err)
	}
	defer store.Close()

	want := map[string]float64{
		"a,b,base":   1.5,
		"a,c,3.12.0": 0.97,
	}
	if err := store.Save(want); err != nil {
		t.Fatalf("Save got err %v, want nil", err)
	}
	got, err := store.Load()
	if err != nil {
		t.Fatalf("Load got err %v, want nil", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Load got %v, want %v", got, want)
	}

	// Save replaces wholesale, not append-in-place.
	want = map[string]float64{"a,b,base": 2.5}
	if err := store.Save(want); err != nil {
		t.Fatal(err)
	}
	got, err = store.Load()
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("after replace, Load got %v, want %v", got, want)
	}
}
