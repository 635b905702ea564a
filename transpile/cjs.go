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

// reDynamicImport matches a dynamic import() call so it can be redirected
// to the loader's own __dynamicImport__ hook; esbuild's Format:FormatCommonJS
// lowers every static import/export statement but leaves this syntax as-is
// (it's already valid in its output), so it's the one piece of "module
// syntax fixing" left for this package to do by hand.
var reDynamicImport = regexp.MustCompile(`\bimport\s*\(`)

// rewriteDynamicImports redirects code's dynamic import() call sites to
// __dynamicImport__(spec, referrer), appending referrer as the second
// argument to every call site (§4.J, §4.I step 4) — a plain regex
// substitution can't thread that second argument in across the specifier
// expression's own (possibly nested) parentheses, hence the scan below.
func rewriteDynamicImports(code, referrer string) string {
	code = reDynamicImport.ReplaceAllString(code, `__dynamicImport__(`)
	return rewriteDynamicImportArgs(code, referrer)
}

// rewriteDynamicImportArgs appends referrer as the second argument to
// every __dynamicImport__( call site the previous pass produced, since a
// plain regex substitution can't thread in a second argument across the
// specifier expression's own (possibly nested) parentheses.
func rewriteDynamicImportArgs(code, referrer string) string {
	const marker = "__dynamicImport__("
	var b strings.Builder
	i := 0
	for {
		idx := strings.Index(code[i:], marker)
		if idx < 0 {
			b.WriteString(code[i:])
			break
		}
		start := i + idx + len(marker)
		b.WriteString(code[i:start])
		depth := 1
		j := start
		for j < len(code) && depth > 0 {
			switch code[j] {
			case '(':
				depth++
			case ')':
				depth--
			}
			if depth == 0 {
				break
			}
			j++
		}
		b.WriteString(code[start:j])
		fmt.Fprintf(&b, ", %q)", referrer)
		i = j + 1
	}
	return b.String()
}
