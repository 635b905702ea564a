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

package transpile

import (
	"fmt"
	"regexp"
	"strings"
)

// reClassDecorators matches one or more bare decorator lines immediately
// preceding a class declaration, e.g.
//
//	@customElement("my-widget")
//	@logged
//	class MyWidget extends HTMLElement {
var reClassDecorators = regexp.MustCompile(`(?m)^((?:@[\w.$]+(?:\([^\n]*\))?\s*\n)+)class\s+(\w+)`)

// lowerDecorators implements §4.D pass 2 ("decorator lowering") for
// TypeScript's legacy experimentalDecorators form: a decorated class's
// decorators become ordinary function calls applied to the class after
// its declaration, in reverse syntactic order (closest to the class
// applies first), matching tsc's __decorate lowering. It only handles
// class decorators — member/parameter decorators are left for a later
// iteration of the pipeline (§ OPEN QUESTION DECISIONS).
func lowerDecorators(code string, emitMetadata bool) string {
	return reClassDecorators.ReplaceAllStringFunc(code, func(m string) string {
		g := reClassDecorators.FindStringSubmatch(m)
		decorators := parseDecoratorLines(g[1])
		name := g[2]

		start := strings.Index(code, m)
		classHeaderEnd := start + len(m)
		bodyEnd := findMatchingBrace(code, classHeaderEnd)
		if bodyEnd < 0 {
			return m // malformed input; leave untouched rather than corrupt it
		}

		var tail strings.Builder
		for i := len(decorators) - 1; i >= 0; i-- {
			fmt.Fprintf(&tail, "\n%s = %s(%s) || %s;", name, decorators[i], name, name)
		}
		if emitMetadata {
			fmt.Fprintf(&tail, "\nReflect.metadata && Reflect.metadata(\"design:type\", Function)(%s);", name)
		}

		rest := code[classHeaderEnd:bodyEnd]
		return "class " + name + rest + tail.String()
	})
}

// parseDecoratorLines extracts each "@expr" decorator's call expression
// from a block of decorator lines.
func parseDecoratorLines(block string) []string {
	var out []string
	for _, line := range strings.Split(strings.TrimRight(block, "\n"), "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimPrefix(line, "@")
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}

// findMatchingBrace returns the index just past the closing brace that
// matches the first "{" found at or after from.
func findMatchingBrace(code string, from int) int {
	i := strings.IndexByte(code[from:], '{')
	if i < 0 {
		return -1
	}
	i += from
	depth := 0
	for ; i < len(code); i++ {
		switch code[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i + 1
			}
		}
	}
	return -1
}
