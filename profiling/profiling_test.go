// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package profiling

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestMatcherCategories(t *testing.T) {
	m := NewMatcher()
	tests := []struct {
		obj, sym, want string
	}{
		{"[kernel.kallsyms]", "page_fault", "kernel"},
		{"libc-2.31.so", "memcpy", "libc"},
		{"libssl.so.1.1", "SSL_read", "library"},
		{"python", "_PyEval_EvalFrameDefault", "interpreter"},
		{"python", "_PyEval_EvalFrameDefault (inlined)", "interpreter"},
		{"python", "lookdict_unicode_nodummy", "lookup"},
		{"python", "gc_collect_main", "gc"},
		{"python", "_PyObject_Malloc", "memory"},
		{"python", "insertdict", "dict"},
		{"python", "long_add", "int"},
		{"python", "take_gil", "gil"},
		{"python", "completely_unheard_of", "unknown"},
		{"someotherbinary", "whatever", "unknown"},
	}
	for _, tt := range tests {
		if got := m.Category(tt.obj, tt.sym); got != tt.want {
			t.Errorf("Category(%q, %q) = %q, want %q", tt.obj, tt.sym, got, tt.want)
		}
	}
}

// The pattern table is ordered: a symbol matching both the memory and
// dict buckets must land in whichever comes first.
func TestMatcherFirstMatchWins(t *testing.T) {
	m := NewMatcher()
	// ".+_alloc" (memory) precedes "dict_.+" (dict).
	if got := m.Category("python", "dict_alloc"); got != "memory" {
		t.Errorf("dict_alloc categorized as %q, want memory", got)
	}
}

func TestMatcherMemoized(t *testing.T) {
	m := NewMatcher()
	m.Category("python", "_PyEval_EvalFrameDefault")
	if len(m.memo) != 1 {
		t.Fatalf("memo has %d entries, want 1", len(m.memo))
	}
	m.Category("python", "_PyEval_EvalFrameDefault")
	if len(m.memo) != 1 {
		t.Fatalf("memo has %d entries after repeat, want 1", len(m.memo))
	}
}

const sampleCSV = `self,children,object,symbol
40.00,40.00,python,_PyEval_EvalFrameDefault
20.00,20.00,[kernel.kallsyms],page_fault
10.00,10.00,python3.8,orchestrator_overhead
5.00,5.00,python,insertdict
0.00,0.00,python,below_the_fold
3.00,3.00,python,never_reached
`

func TestGenerate(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "nbody.0.csv"), []byte(sampleCSV), 0666); err != nil {
		t.Fatal(err)
	}
	prefix := filepath.Join(t.TempDir(), "profiling")
	if err := Generate(dir, prefix, func(string, ...interface{}) {}); err != nil {
		t.Fatal(err)
	}

	md, err := os.ReadFile(prefix + ".md")
	if err != nil {
		t.Fatal(err)
	}
	text := string(md)
	for _, want := range []string{"## nbody", "## Categories", "### interpreter", "40.00%", "_PyEval_EvalFrameDefault"} {
		if !strings.Contains(text, want) {
			t.Errorf("markdown missing %q", want)
		}
	}
	// The orchestrator python and everything after the zero row are
	// dropped.
	for _, reject := range []string{"orchestrator_overhead", "below_the_fold", "never_reached"} {
		if strings.Contains(text, reject) {
			t.Errorf("markdown should not contain %q", reject)
		}
	}

	for _, sfx := range []string{".png", ".pie.png"} {
		fi, err := os.Stat(prefix + sfx)
		if err != nil {
			t.Fatalf("stat %s: %v", prefix+sfx, err)
		}
		if fi.Size() == 0 {
			t.Errorf("%s is empty", prefix+sfx)
		}
	}
}

func TestGenerateNoData(t *testing.T) {
	warned := false
	err := Generate(t.TempDir(), filepath.Join(t.TempDir(), "out"), func(string, ...interface{}) { warned = true })
	if err != nil {
		t.Fatal(err)
	}
	if !warned {
		t.Error("expected a warning for missing profiling data")
	}
}
