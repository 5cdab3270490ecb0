// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package profiling summarizes Linux perf profiling results: it buckets
// sampled symbols into interpreter subsystem categories and renders
// per-benchmark tables and charts of where the time went.
package profiling

import (
	"regexp"
	"strings"
)

// A Category buckets interpreter symbols by subsystem. Patterns match
// the full symbol name.
type Category struct {
	Name     string
	patterns []*regexp.Regexp
}

func compile(patterns ...string) []*regexp.Regexp {
	res := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		res[i] = regexp.MustCompile("^(?:" + p + ")$")
	}
	return res
}

// categories is matched in order and the first match wins, so broad
// patterns near the end (e.g. "type_.+" under dynamic) must not be
// moved ahead of the specific buckets.
var categories = []Category{
	{"interpreter", compile(
		`_PyEval.+`,
		`_PyCode_Quicken`,
		`_PyFrame_ClearExceptCode`,
		`_PyFrame_New_NoTrack`,
		`_PyPegen_.+`,
		`_PyThreadState_PopFrame`,
		`advance`,
		`initialize_locals`,
		`PyAST_.+`,
		`PyEval_.+`,
	)},
	{"lookup", compile(
		`_Py_dict_lookup`,
		`_Py_type_getattro`,
		`_PyType_Lookup`,
		`builtin_getattr`,
		`find_name_in_mro`,
		`lookdict_split`,
		`lookdict_unicode(_nodummy)?`,
		`PyMember_.*`,
		`unicodekeys_lookup_unicode`,
	)},
	{"gc", compile(
		`_?PyObject_GC_.+`,
		`_PyObject_Visit.+`,
		`_PyTrash_.+`,
		`.+_traverse`,
		`gc_collect_main`,
		`type_is_gc`,
		`visit_.+`,
	)},
	{"memory", compile(
		`_?PyMem_.+`,
		`_Py_NewReference`,
		`_PyObject_Free`,
		`_PyObject_Malloc`,
		`.+_alloc`,
		`.+[Nn]ew.*`,
		`.+[AC]lloc`,
		`.+[Dd]ealloc`,
		`.+Realloc`,
	)},
	{"dynamic", compile(
		`_?PyMapping_.+`,
		`_?PyNumber_.+`,
		`_?PyObject_.+`,
		`_?PySequence_.+`,
		`_PySuper_Lookup`,
		`do_super_lookup`,
		`getset_get`,
		`method_get`,
		`object_.+`,
		`PyDescr_.+`,
		`PyIter_.+`,
		`PyType_IsSubtype`,
		`slot_tp_richcompare`,
		`type_.+`,
	)},
	{"library", compile(`_?sre_.+`, `pattern_.+`)},
	{"int", compile(`_?PyLong_.+`, `k_.+`, `l_.+`, `long_.+`, `x_.+`)},
	{"tuple", compile(`_?PyTuple_.+`, `tuple.+`)},
	{"dict", compile(
		`_?PyDict_.+`,
		`build_indices_unicode`,
		`dict_.+`,
		`dictiter_.+`,
		`dictresize`,
		`find_empty_slot`,
		`insertdict`,
		`insert_to_emptydict`,
		`new_keys_object`,
		`OrderedDict_.+`,
	)},
	{"list", compile(`_?PyList_.+`, `list_.+`, `listiter_.+`)},
	{"float", compile(`_?PyFloat_.+`, `float_.+`)},
	{"str", compile(
		`_?PyUnicode.+`,
		`ascii_decode`,
		`bytes_.+`,
		`PyBytes_.+`,
		`replace`,
		`resize_compact`,
		`siphash13`,
		`split`,
		`stringlib_.+`,
		`unicode_.+`,
	)},
	{"miscobj", compile(
		`_?PySlice_.+`,
		`bytearray_.+`,
		`deque_.+`,
		`enum_.+`,
		`PyBool_.+`,
		`PyBuffer_.+`,
		`set_.+`,
		`setiter_.+`,
	)},
	{"exceptions", compile(
		`_?PyErr_.*`,
		`.+Error_init`,
		`BaseException.*`,
		`PyCode_Addr2Line`,
		`PyException_.*`,
		`PyFrame_.*`,
		`PyTraceBack_.+`,
	)},
	{"gil", compile(`drop_gil`, `take_gil`, `PyGILState_.*`)},
	{"calls", compile(
		`_?PyArg_.+`,
		`_Py_CheckFunctionResult`,
		`_PyFunction_Vectorcall`,
		`cfunction_call.*`,
		`cfunction_vectorcall.+`,
		`method_vectorcall.+`,
		`vectorcall_method`,
		`vgetargs1_impl`,
	)},
	{"import", compile(`PyImport.+`, `r_.+`)},
}

var sharedObject = regexp.MustCompile(`.+\.so(\..+)?$`)

type objSym struct {
	obj, sym string
}

// A Matcher assigns (object, symbol) pairs to categories. Lookups are
// memoized: profiles repeat the same hot symbols across benchmarks, so
// each pair runs the pattern table at most once.
type Matcher struct {
	memo map[objSym]string
}

func NewMatcher() *Matcher {
	return &Matcher{memo: make(map[objSym]string)}
}

// Category returns the category name for one profile sample. Samples
// outside the interpreter binary short-circuit on the object name;
// interpreter symbols run the ordered pattern table, matching on the
// symbol's first field only (perf appends offsets and annotations).
func (m *Matcher) Category(obj, sym string) string {
	key := objSym{obj, sym}
	if c, ok := m.memo[key]; ok {
		return c
	}
	c := m.categorize(obj, sym)
	m.memo[key] = c
	return c
}

func (m *Matcher) categorize(obj, sym string) string {
	switch {
	case obj == "[kernel.kallsyms]":
		return "kernel"
	case strings.HasPrefix(obj, "libc"):
		return "libc"
	case sharedObject.MatchString(obj):
		return "library"
	case obj == "python":
		name := sym
		if i := strings.IndexByte(sym, ' '); i >= 0 {
			name = sym[:i]
		}
		for _, cat := range categories {
			for _, p := range cat.patterns {
				if p.MatchString(name) {
					return cat.Name
				}
			}
		}
	}
	return "unknown"
}
