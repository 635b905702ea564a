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
	"strings"

	"github.com/evanw/esbuild/pkg/api"
)

// Diagnostic is one parse/transform message, classified fatal or not.
type Diagnostic struct {
	Text   string
	File   string
	Line   int
	Column int
	Fatal  bool
}

func (d Diagnostic) String() string {
	if d.File == "" {
		return d.Text
	}
	return fmt.Sprintf("%s:%d:%d: %s", d.File, d.Line, d.Column, d.Text)
}

// classifyDiagnostics converts esbuild messages to Diagnostics. Every
// esbuild-reported error is fatal (it already means the parser gave up);
// warnings are not (§4.D "non-fatal diagnostics").
func classifyDiagnostics(errs, warnings []api.Message) []Diagnostic {
	out := make([]Diagnostic, 0, len(errs)+len(warnings))
	for _, m := range errs {
		out = append(out, messageToDiagnostic(m, true))
	}
	for _, m := range warnings {
		out = append(out, messageToDiagnostic(m, false))
	}
	return out
}

func messageToDiagnostic(m api.Message, fatal bool) Diagnostic {
	d := Diagnostic{Text: m.Text, Fatal: fatal}
	if m.Location != nil {
		d.File = m.Location.File
		d.Line = m.Location.Line
		d.Column = m.Location.Column
	}
	return d
}

// firstFatal returns the text of every fatal diagnostic, joined by
// newlines, for use as a transpile error; ok is false when there is none.
func firstFatal(diags []Diagnostic) (string, bool) {
	var lines []string
	for _, d := range diags {
		if d.Fatal {
			lines = append(lines, d.String())
		}
	}
	if len(lines) == 0 {
		return "", false
	}
	return strings.Join(lines, "\n"), true
}
