// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Profilingplot summarizes Linux perf profiling results.
//
// Usage:
//
//	profilingplot input-dir output-prefix
//
// It reads every perf report CSV in input-dir and writes a markdown
// summary to output-prefix.md, a stacked per-benchmark bar chart to
// output-prefix.png, and a category pie to output-prefix.pie.png.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/benchwatch/benchwatch/profiling"
)

func usage() {
	fmt.Fprintf(os.Stderr, "usage: profilingplot input-dir output-prefix\n")
	flag.PrintDefaults()
	os.Exit(2)
}

func warn(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "warning: "+format, args...)
}

func main() {
	flag.Usage = usage
	flag.Parse()
	if flag.NArg() != 2 {
		usage()
	}
	if err := profiling.Generate(flag.Arg(0), flag.Arg(1), warn); err != nil {
		fmt.Fprintf(os.Stderr, "profilingplot: %v\n", err)
		os.Exit(1)
	}
}
