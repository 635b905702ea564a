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

// Package media classifies module content so the loader and transpiler agree
// on how to parse and emit a given source file (§3 MediaType).
package media

import "strings"

// Type is the closed classification of module content. An explicit
// Content-Type header always wins over the extension-derived guess (§3).
type Type int

const (
	Unknown Type = iota
	JavaScript
	Jsx
	TypeScript
	Tsx
	Dts
	Json
	Wasm
)

func (t Type) String() string {
	switch t {
	case JavaScript:
		return "JavaScript"
	case Jsx:
		return "Jsx"
	case TypeScript:
		return "TypeScript"
	case Tsx:
		return "Tsx"
	case Dts:
		return "Dts"
	case Json:
		return "Json"
	case Wasm:
		return "Wasm"
	default:
		return "Unknown"
	}
}

// IsTypeScript reports whether the transpiler must erase types for t.
func (t Type) IsTypeScript() bool {
	return t == TypeScript || t == Tsx || t == Dts
}

// IsJsx reports whether t carries JSX syntax.
func (t Type) IsJsx() bool {
	return t == Jsx || t == Tsx
}

var extensions = map[string]Type{
	".js":   JavaScript,
	".mjs":  JavaScript,
	".cjs":  JavaScript,
	".jsx":  Jsx,
	".ts":   TypeScript,
	".mts":  TypeScript,
	".cts":  TypeScript,
	".tsx":  Tsx,
	".d.ts": Dts,
	".json": Json,
	".wasm": Wasm,
}

// FromExtension classifies a specifier path by its file extension.
func FromExtension(path string) Type {
	if strings.HasSuffix(path, ".d.ts") {
		return Dts
	}
	for ext, t := range extensions {
		if ext == ".d.ts" {
			continue
		}
		if strings.HasSuffix(path, ext) {
			return t
		}
	}
	return Unknown
}

// contentTypes maps a normalized (no charset/params) HTTP Content-Type to a
// MediaType. Unrecognized content types fall back to extension sniffing.
var contentTypes = map[string]Type{
	"application/javascript":    JavaScript,
	"application/ecmascript":    JavaScript,
	"text/javascript":           JavaScript,
	"text/ecmascript":           JavaScript,
	"application/x-javascript":  JavaScript,
	"application/typescript":    TypeScript,
	"text/tsx":                  Tsx,
	"application/jsx":           Jsx,
	"text/jsx":                  Jsx,
	"application/json":          Json,
	"text/json":                 Json,
	"application/wasm":          Wasm,
}

// Detect classifies a fetched file. An explicit contentType (already
// stripped of parameters such as "; charset=utf-8") wins over the path's
// extension; an empty or unrecognized contentType falls back to the
// extension (§3 MediaType).
func Detect(path, contentType string) Type {
	if contentType != "" {
		norm := strings.ToLower(strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0]))
		if t, ok := contentTypes[norm]; ok {
			return t
		}
	}
	return FromExtension(path)
}
