// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func write(t *testing.T, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bases.yaml")
	if err := os.WriteFile(path, []byte(data), 0666); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	cfg, err := Load(write(t, `
bases:
  - "3.11.0"
  - "3.12.0"
fork: cpython
summary:
  recent: 5
  days: 7
longitudinal:
  - version: "3.13"
    base: "3.12.0"
`))
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"3.11.0", "3.12.0"}; !reflect.DeepEqual(cfg.Bases, want) {
		t.Errorf("bases = %v, want %v", cfg.Bases, want)
	}
	if cfg.Fork != "cpython" {
		t.Errorf("fork = %q", cfg.Fork)
	}
	if cfg.Summary.Recent != 5 || cfg.Summary.Days != 7 {
		t.Errorf("summary = %+v", cfg.Summary)
	}
	want := []Series{{Version: "3.13", Base: "3.12.0"}}
	if !reflect.DeepEqual(cfg.Longitudinal, want) {
		t.Errorf("longitudinal = %+v", cfg.Longitudinal)
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(write(t, `bases: ["3.12.0"]`))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Fork != "python" {
		t.Errorf("fork = %q, want python", cfg.Fork)
	}
	if cfg.Summary.Recent != 3 || cfg.Summary.Days != 3 {
		t.Errorf("summary = %+v, want {3 3}", cfg.Summary)
	}
}

func TestLoadMissing(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadMalformed(t *testing.T) {
	if _, err := Load(write(t, "bases: [unterminated")); err == nil {
		t.Fatal("expected error for malformed yaml")
	}
}
