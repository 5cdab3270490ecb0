// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package reportindex folds flat streams of index entries into nested,
// ordered structures used to emit grouped human-readable indices.
//
// An entry is a path of grouping keys (for directory indices:
// location, runner, base) plus a leaf text. Levels other than the first
// may be empty, meaning the text belongs to the enclosing group rather
// than any subgroup; the empty segment is an ordinary child key, so
// directory-level and runner-level texts coexist with base subgroups.
package reportindex

import (
	"errors"
	"fmt"
)

// ErrArity reports an Add whose path length does not match the arity the
// Builder was created with. Heterogeneous entry streams must be
// normalized by the caller before folding; the Builder never guesses.
var ErrArity = errors.New("entry path does not match builder arity")

// A Node is one level of the folded structure. Children and Texts keep
// insertion order; consumers apply any canonical key ordering (such as
// linux-first runner order) themselves when rendering.
type Node struct {
	keys     []string
	children map[string]*Node

	// Texts are the leaf entries attached directly to this node,
	// in insertion order, deduplicated.
	Texts []string

	texts map[string]struct{}
}

func newNode() *Node {
	return &Node{children: make(map[string]*Node), texts: make(map[string]struct{})}
}

// Keys returns this node's child keys in insertion order.
func (n *Node) Keys() []string {
	return n.keys
}

// Child returns the child node for key, or nil.
func (n *Node) Child(key string) *Node {
	return n.children[key]
}

func (n *Node) child(key string) *Node {
	c, ok := n.children[key]
	if !ok {
		c = newNode()
		n.children[key] = c
		n.keys = append(n.keys, key)
	}
	return c
}

// append adds text to the node's leaf list if it isn't already there.
// Idempotent re-insertion makes re-runs that re-derive existing entries
// safe.
func (n *Node) append(text string) {
	if _, ok := n.texts[text]; ok {
		return
	}
	n.texts[text] = struct{}{}
	n.Texts = append(n.Texts, text)
}

// A Builder folds entries of a fixed arity into a tree of Nodes.
type Builder struct {
	arity int
	root  *Node
}

// NewBuilder returns a Builder for entries whose paths have exactly
// arity segments.
func NewBuilder(arity int) *Builder {
	if arity < 1 {
		panic(fmt.Sprintf("reportindex: arity %d < 1", arity))
	}
	return &Builder{arity: arity, root: newNode()}
}

// Add folds one entry. The path is walked segment by segment, creating
// intermediate nodes on demand, and text is appended at the leaf.
func (b *Builder) Add(path []string, text string) error {
	if len(path) != b.arity {
		return fmt.Errorf("%w: got %d segments, want %d", ErrArity, len(path), b.arity)
	}
	n := b.root
	for _, seg := range path {
		n = n.child(seg)
	}
	n.append(text)
	return nil
}

// Root returns the folded structure.
func (b *Builder) Root() *Node {
	return b.root
}
