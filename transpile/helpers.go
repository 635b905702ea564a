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

import "strings"

// injectHelpers implements §4.D pass 3 ("helper injection"): it marks the
// module as an ES-module-shaped CommonJS export so interop code checking
// for a "default" export (e.g. require("x").default vs require("x")
// itself) behaves the way tsc/Babel output does.
func injectHelpers(code string) string {
	return `Object.defineProperty(exports, "__esModule", { value: true });` + "\n" + code
}

// fixSyntax implements the remaining "syntactic fixer"/"identifier
// hygiene" passes that don't belong to module-syntax rewriting: strip a
// leading shebang line (common on scripts invoked as `dnrt run ./cli.ts`,
// since "#" is not a valid token at the start of a goja program) and a
// leading UTF-8 byte-order mark, both of which are legal source-file
// prefixes V8 tolerates but a bare script host must handle explicitly.
func fixSyntax(source string) string {
	source = strings.TrimPrefix(source, "﻿")
	if strings.HasPrefix(source, "#!") {
		source = "//" + source[2:]
	}
	return source
}
