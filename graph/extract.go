/*
Copyright © 2026 Benny Powers <web@bennypowers.com>

This program is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with this program. If not, see <http://www.gnu.org/licenses/>.
*/

package graph

import (
	"embed"
	"fmt"
	"regexp"
	"sync"

	ts "github.com/tree-sitter/go-tree-sitter"
	tsTypescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"
)

//go:embed queries/*/*.scm
var queryFiles embed.FS

var tsxLanguage = ts.NewLanguage(tsTypescript.LanguageTSX())

var parserPool = sync.Pool{
	New: func() any {
		p := ts.NewParser()
		if err := p.SetLanguage(tsxLanguage); err != nil {
			panic("graph: failed to set tree-sitter TSX language: " + err.Error())
		}
		return p
	},
}

// importsQuery is parsed once; tree-sitter queries are immutable and safe
// for concurrent Matches() calls against distinct cursors.
var (
	importsQueryOnce sync.Once
	importsQuery     *ts.Query
	importsQueryErr  error
)

func getImportsQuery() (*ts.Query, error) {
	importsQueryOnce.Do(func() {
		data, err := queryFiles.ReadFile("queries/typescript/imports.scm")
		if err != nil {
			importsQueryErr = err
			return
		}
		importsQuery, importsQueryErr = ts.NewQuery(tsxLanguage, string(data))
	})
	return importsQuery, importsQueryErr
}

// tripleSlashRef matches a TypeScript triple-slash reference directive,
// which tree-sitter's grammar has no dedicated node for since it's
// syntax living inside a comment (§4.E "type-references").
var tripleSlashRef = regexp.MustCompile(`^/// ?<reference\s+(?:path|types)\s*=\s*"([^"]+)"`)

// ExtractDeps parses content (already known to be JS/TS/JSX/TSX source, not
// yet transpiled) and returns every statically discoverable DepEdge, in
// source order, per §4.E step 3.
func ExtractDeps(content []byte) ([]DepEdge, error) {
	query, err := getImportsQuery()
	if err != nil {
		return nil, fmt.Errorf("graph: load imports query: %w", err)
	}

	parser := parserPool.Get().(*ts.Parser)
	defer func() {
		parser.Reset()
		parserPool.Put(parser)
	}()

	tree := parser.Parse(content, nil)
	if tree == nil {
		return nil, fmt.Errorf("graph: failed to parse module source")
	}
	defer tree.Close()

	cursor := ts.NewQueryCursor()
	defer cursor.Close()

	captureNames := query.CaptureNames()
	var deps []DepEdge
	matches := cursor.Matches(query, tree.RootNode(), content)
	for {
		match := matches.Next()
		if match == nil {
			break
		}
		for _, capture := range match.Captures {
			name := captureNames[capture.Index]
			line := int(capture.Node.StartPosition().Row) + 1
			switch name {
			case "import.spec":
				deps = append(deps, DepEdge{Raw: capture.Node.Utf8Text(content), Kind: Static, Line: line})
			case "dynamicImport.spec":
				deps = append(deps, DepEdge{Raw: capture.Node.Utf8Text(content), Kind: Dynamic, Line: line})
			case "reexport.spec":
				deps = append(deps, DepEdge{Raw: capture.Node.Utf8Text(content), Kind: Reexport, Line: line})
			case "require.spec":
				deps = append(deps, DepEdge{Raw: capture.Node.Utf8Text(content), Kind: Require, Line: line})
			}
		}
	}

	deps = append(extractTripleSlashRefs(content), deps...)
	return deps, nil
}

// extractTripleSlashRefs scans leading comment lines for
// `/// <reference path="..."/>` and `/// <reference types="..."/>`
// directives. These only have meaning at the very top of a file in
// TypeScript, so scanning stops at the first non-comment, non-blank line.
func extractTripleSlashRefs(content []byte) []DepEdge {
	var deps []DepEdge
	line := 1
	start := 0
	for i := 0; i <= len(content); i++ {
		if i < len(content) && content[i] != '\n' {
			continue
		}
		text := string(content[start:i])
		trimmed := trimLeadingSpace(text)
		if trimmed == "" {
			start, line = i+1, line+1
			continue
		}
		if !hasPrefix(trimmed, "//") {
			break
		}
		if m := tripleSlashRef.FindStringSubmatch(trimmed); m != nil {
			deps = append(deps, DepEdge{Raw: m[1], Kind: TypeReference, Line: line})
		}
		start, line = i+1, line+1
	}
	return deps
}

func trimLeadingSpace(s string) string {
	i := 0
	for i < len(s) && (s[i] == ' ' || s[i] == '\t' || s[i] == '\r') {
		i++
	}
	return s[i:]
}

func hasPrefix(s, prefix string) bool {
	return len(s) >= len(prefix) && s[:len(prefix)] == prefix
}
