// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package reportindex

import (
	"fmt"
	"io"

	"github.com/google/safehtml/template"
)

// WriteMarkdownList writes items as a markdown bullet list followed by a
// blank line.
func WriteMarkdownList(w io.Writer, items []string) error {
	for _, item := range items {
		if _, err := fmt.Fprintf(w, "- %s\n", item); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "\n")
	return err
}

// WriteDirectoryMarkdown renders one results directory's index: the
// directory-level entries, then a section per runner with its
// runner-level entries, then a subsection per base.
//
// node is the location-level node of a 3-ary fold (runner, base
// segments; "" marks level-agnostic entries). runnerOrder gives the
// canonical runner ordering for the keys present.
func WriteDirectoryMarkdown(w io.Writer, node *Node, runnerOrder func([]string) []string) error {
	if _, err := io.WriteString(w, "# Results\n\n"); err != nil {
		return err
	}
	if top := node.Child(""); top != nil {
		if tt := top.Child(""); tt != nil {
			if err := WriteMarkdownList(w, tt.Texts); err != nil {
				return err
			}
		}
	}
	for _, runner := range runnerOrder(node.Keys()) {
		if runner == "" {
			continue
		}
		rn := node.Child(runner)
		if _, err := fmt.Fprintf(w, "## %s\n\n", runner); err != nil {
			return err
		}
		if agnostic := rn.Child(""); agnostic != nil {
			if err := WriteMarkdownList(w, agnostic.Texts); err != nil {
				return err
			}
		}
		for _, base := range rn.Keys() {
			if base == "" {
				continue
			}
			if _, err := fmt.Fprintf(w, "### vs. %s\n\n", base); err != nil {
				return err
			}
			if err := WriteMarkdownList(w, rn.Child(base).Texts); err != nil {
				return err
			}
		}
	}
	return nil
}

var htmlIndexTemplate = template.Must(template.New("index").ParseFromTrustedTemplate(template.MakeTrustedTemplate(`<!DOCTYPE html>
<html>
<head><title>Results</title></head>
<body>
<h1>Results</h1>
<ul>
{{- range .Top}}
<li>{{.}}</li>
{{- end}}
</ul>
{{- range .Runners}}
<h2>{{.Name}}</h2>
<ul>
{{- range .Texts}}
<li>{{.}}</li>
{{- end}}
</ul>
{{- range .Bases}}
<h3>vs. {{.Name}}</h3>
<ul>
{{- range .Texts}}
<li>{{.}}</li>
{{- end}}
</ul>
{{- end}}
{{- end}}
</body>
</html>
`)))

type htmlBase struct {
	Name  string
	Texts []string
}

type htmlRunner struct {
	Name  string
	Texts []string
	Bases []htmlBase
}

type htmlIndex struct {
	Top     []string
	Runners []htmlRunner
}

// WriteDirectoryHTML renders the same directory index as
// WriteDirectoryMarkdown as a standalone HTML page. Entry texts are
// treated as plain text; contextual escaping is the template's job.
func WriteDirectoryHTML(w io.Writer, node *Node, runnerOrder func([]string) []string) error {
	var data htmlIndex
	if top := node.Child(""); top != nil {
		if tt := top.Child(""); tt != nil {
			data.Top = tt.Texts
		}
	}
	for _, runner := range runnerOrder(node.Keys()) {
		if runner == "" {
			continue
		}
		rn := node.Child(runner)
		hr := htmlRunner{Name: runner}
		if agnostic := rn.Child(""); agnostic != nil {
			hr.Texts = agnostic.Texts
		}
		for _, base := range rn.Keys() {
			if base == "" {
				continue
			}
			hr.Bases = append(hr.Bases, htmlBase{Name: base, Texts: rn.Child(base).Texts})
		}
		data.Runners = append(data.Runners, hr)
	}
	return htmlIndexTemplate.Execute(w, data)
}
