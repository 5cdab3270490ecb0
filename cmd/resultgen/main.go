// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Resultgen regenerates the derived artifacts of a benchmark results
// repository.
//
// Usage:
//
//	resultgen [flags] [repo-dir]
//
// The repository directory (default ".") holds a results tree under
// results/, a bases.yaml naming the base versions, and the generated
// artifacts: per-comparison reports and plots next to each result,
// README.md and RESULTS.md indices at the root, per-directory indices,
// and the longitudinal trend chart.
//
// Artifacts that already exist are skipped unless -force is given, so
// routine runs only pay for results that are new since the last run.
// Progress is reported one mark per artifact: "." generated, "/"
// skipped, "x" pruned.
//
// Headline comparison scalars are memoized in longitudinal.json (or,
// with -cache-db, a SQLite database), keyed by the result paths and
// base, so the trend chart does not recompare runs it has already seen.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fatih/color"
	_ "github.com/mattn/go-sqlite3"

	"github.com/benchwatch/benchwatch/benchchart"
	"github.com/benchwatch/benchwatch/catalog"
	"github.com/benchwatch/benchwatch/config"
	"github.com/benchwatch/benchwatch/profiling"
	"github.com/benchwatch/benchwatch/resultindex"
)

var (
	flagForce      = flag.Bool("force", false, "regenerate artifacts even when they exist")
	flagConfig     = flag.String("config", "", "configuration file (default <repo>/bases.yaml)")
	flagCache      = flag.String("cache", "", "comparison cache file (default <repo>/longitudinal.json)")
	flagCacheDB    = flag.String("cache-db", "", "keep the comparison cache in this SQLite database instead of a file")
	flagTrendOut  = flag.String("trend", "", "longitudinal chart output (default <repo>/longitudinal.png)")
	flagProfiling = flag.String("profiling", "", "directory of perf profiling CSVs to summarize")
)

func usage() {
	fmt.Fprintf(os.Stderr, "usage: resultgen [flags] [repo-dir]\n")
	flag.PrintDefaults()
	os.Exit(2)
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "resultgen: %v\n", err)
	os.Exit(1)
}

func warn(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "warning: "+format, args...)
}

var (
	markGen   = color.New(color.FgGreen)
	markSkip  = color.New(color.Faint)
	markPrune = color.New(color.FgRed)
)

func status(mark string) {
	switch mark {
	case ".":
		markGen.Print(mark)
	case "x":
		markPrune.Print(mark)
	default:
		markSkip.Print(mark)
	}
}

func main() {
	flag.Usage = usage
	flag.Parse()
	if flag.NArg() > 1 {
		usage()
	}
	root := "."
	if flag.NArg() == 1 {
		root = flag.Arg(0)
	}

	cfgPath := *flagConfig
	if cfgPath == "" {
		cfgPath = filepath.Join(root, "bases.yaml")
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		fail(err)
	}

	cat, err := catalog.Load(root, cfg, warn)
	if err != nil {
		fail(err)
	}
	cat.Status = status

	if err := cat.Refresh(*flagForce); err != nil {
		fail(err)
	}
	if err := cat.GenerateIndices(time.Now()); err != nil {
		fail(err)
	}
	if err := cat.GenerateDirectoryIndices(); err != nil {
		fail(err)
	}
	fmt.Println()

	store, closeStore, err := openStore(root)
	if err != nil {
		fail(err)
	}
	defer closeStore()
	ix := resultindex.Load(store, warn)
	if groups := cat.LongitudinalSeries(ix); len(groups) > 0 {
		out := *flagTrendOut
		if out == "" {
			out = filepath.Join(root, "longitudinal.png")
		}
		if err := benchchart.Longitudinal(groups, out); err != nil {
			fail(err)
		}
	}
	if err := ix.Flush(); err != nil {
		fail(err)
	}

	if *flagProfiling != "" {
		if err := generateProfiling(root, *flagProfiling); err != nil {
			fail(err)
		}
	}
}

func openStore(root string) (resultindex.Store, func(), error) {
	if *flagCacheDB != "" {
		s, err := resultindex.OpenSQL("sqlite3", *flagCacheDB, "comparisons")
		if err != nil {
			return nil, nil, err
		}
		return s, func() {
			if err := s.Close(); err != nil {
				warn("closing cache: %v\n", err)
			}
		}, nil
	}
	path := *flagCache
	if path == "" {
		path = filepath.Join(root, "longitudinal.json")
	}
	return &resultindex.FileStore{Path: path}, func() {}, nil
}

func generateProfiling(root, inputDir string) error {
	return profiling.Generate(inputDir, filepath.Join(root, "profiling"), warn)
}
