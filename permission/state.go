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

package permission

// State is the outcome of evaluating a Descriptor against the engine's
// allow/deny/prompt configuration (§3 PermissionState).
type State int

const (
	Denied State = iota
	Granted
	Prompt
	GrantedPartial
)

func (s State) String() string {
	switch s {
	case Granted:
		return "granted"
	case Denied:
		return "denied"
	case Prompt:
		return "prompt"
	case GrantedPartial:
		return "granted-partial"
	default:
		return "unknown"
	}
}

// Policy governs what happens when neither an allow nor a deny rule matches
// a descriptor (§4.B step 4).
type Policy int

const (
	PolicyPrompt Policy = iota
	PolicyAllowAll
	PolicyDenyAll
)

// Prompter answers an interactive permission prompt. Its answer mutates the
// engine's allow/deny sets atomically (§4.B step 4). Embedders that pass
// --no-prompt never construct one; the engine then treats PolicyPrompt as
// PolicyDenyAll.
type Prompter interface {
	Prompt(d Descriptor, api string) (allow bool, persist bool)
}
