// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package reportindex

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestBuilderDedupesLeaf(t *testing.T) {
	b := NewBuilder(3)
	for i := 0; i < 2; i++ {
		if err := b.Add([]string{"a", "", ""}, "x"); err != nil {
			t.Fatalf("Add got err %v, want nil", err)
		}
	}
	leaf := b.Root().Child("a").Child("").Child("")
	if want := []string{"x"}; !reflect.DeepEqual(leaf.Texts, want) {
		t.Errorf("leaf texts got %v, want %v", leaf.Texts, want)
	}
}

func TestBuilderArityMismatch(t *testing.T) {
	b := NewBuilder(3)
	if err := b.Add([]string{"a", "b", "c"}, "x"); err != nil {
		t.Fatalf("Add got err %v, want nil", err)
	}
	err := b.Add([]string{"a", "b"}, "y")
	if !errors.Is(err, ErrArity) {
		t.Errorf("mixed arity: err got %v, want ErrArity", err)
	}
}

func TestBuilderInsertionOrder(t *testing.T) {
	b := NewBuilder(2)
	entries := []struct {
		path []string
		text string
	}{
		{[]string{"loc", "windows"}, "w1"},
		{[]string{"loc", "linux"}, "l1"},
		{[]string{"loc", "windows"}, "w2"},
		{[]string{"loc", "linux"}, "l2"},
	}
	for _, e := range entries {
		if err := b.Add(e.path, e.text); err != nil {
			t.Fatal(err)
		}
	}
	loc := b.Root().Child("loc")
	if want := []string{"windows", "linux"}; !reflect.DeepEqual(loc.Keys(), want) {
		t.Errorf("keys got %v, want %v", loc.Keys(), want)
	}
	if want := []string{"l1", "l2"}; !reflect.DeepEqual(loc.Child("linux").Texts, want) {
		t.Errorf("linux texts got %v, want %v", loc.Child("linux").Texts, want)
	}
}

func buildDirectoryNode(t *testing.T) *Node {
	t.Helper()
	b := NewBuilder(3)
	add := func(loc, runner, base, text string) {
		t.Helper()
		if err := b.Add([]string{loc, runner, base}, text); err != nil {
			t.Fatal(err)
		}
	}
	add("results/bm-20240101", "", "", "fork: python")
	add("results/bm-20240101", "", "", "version: 3.13.0a3")
	add("results/bm-20240101", "linux", "", "cpu model: Xeon")
	add("results/bm-20240101", "linux", "3.12.0", "Geometric mean: 1.02x faster")
	add("results/bm-20240101", "darwin", "", "cpu model: M1")
	return b.Root().Child("results/bm-20240101")
}

func identityOrder(keys []string) []string { return keys }

func TestWriteDirectoryMarkdown(t *testing.T) {
	node := buildDirectoryNode(t)
	var sb strings.Builder
	if err := WriteDirectoryMarkdown(&sb, node, identityOrder); err != nil {
		t.Fatalf("WriteDirectoryMarkdown got err %v, want nil", err)
	}
	out := sb.String()
	for _, want := range []string{
		"# Results",
		"- fork: python",
		"## linux",
		"- cpu model: Xeon",
		"### vs. 3.12.0",
		"- Geometric mean: 1.02x faster",
		"## darwin",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("markdown missing %q:\n%s", want, out)
		}
	}
	if strings.Index(out, "## linux") > strings.Index(out, "## darwin") {
		t.Error("runner sections not in supplied order")
	}
}

func TestWriteDirectoryHTML(t *testing.T) {
	node := buildDirectoryNode(t)
	var sb strings.Builder
	if err := WriteDirectoryHTML(&sb, node, identityOrder); err != nil {
		t.Fatalf("WriteDirectoryHTML got err %v, want nil", err)
	}
	out := sb.String()
	for _, want := range []string{"<h2>linux</h2>", "<h3>vs. 3.12.0</h3>", "<li>fork: python</li>"} {
		if !strings.Contains(out, want) {
			t.Errorf("html missing %q:\n%s", want, out)
		}
	}
}
