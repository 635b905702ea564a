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
	"encoding/json"
	"fmt"
)

// wrapJSON implements §4.D's JSON media-type wrapping: the module's default
// export is the parsed value, produced by round-tripping through
// encoding/json rather than string-escaping the source directly, so a
// JSON document containing "</script>"-style content or literal backslash
// sequences can never break out of the generated JS string literal.
func wrapJSON(source []byte) (string, error) {
	var v any
	if err := json.Unmarshal(source, &v); err != nil {
		return "", fmt.Errorf("invalid JSON module: %w", err)
	}
	reencoded, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("re-encoding JSON module: %w", err)
	}
	literal, err := json.Marshal(string(reencoded))
	if err != nil {
		return "", err
	}
	return "exports.__esModule = true;\nexports.default = JSON.parse(" + string(literal) + ");\n", nil
}
