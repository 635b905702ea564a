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

package packages

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// exportsNode is a package.json "exports" or "imports" value decoded with
// its object key order intact. Node's conditional-exports algorithm (§4.F
// step 3) walks a condition object in the order its keys were declared,
// picking the first one also present in the active condition set — the
// reverse of walking the active conditions and picking the first key
// present in the object. encoding/json's ordinary map[string]any decode
// loses that order (Go maps don't have one), so this type walks the
// token stream itself to keep it.
type exportsNode struct {
	present bool
	isStr   bool
	str     string
	isArr   bool
	arr     []exportsNode
	isObj   bool
	obj     []exportsField

	// patternMatch carries a "*" capture down from an enclosing pattern
	// key (e.g. "./feature/*") to whichever string target resolveTarget
	// eventually settles on, set only by lookupExportsKey — never present
	// on a freshly decoded node.
	patternMatch *string
}

// exportsField is one key/value pair of an exportsNode object, in
// declaration order.
type exportsField struct {
	key   string
	value exportsNode
}

// get returns the value keyed by k, walking obj in declaration order, and
// whether it was found. Used both for exact subpath lookups and for
// condition-object resolution, so the order callers iterate obj (not the
// order they call get) is what determines which key wins.
func (n exportsNode) get(k string) (exportsNode, bool) {
	for _, f := range n.obj {
		if f.key == k {
			return f.value, true
		}
	}
	return exportsNode{}, false
}

// keys returns the object's field names in declaration order.
func (n exportsNode) keys() []string {
	out := make([]string, len(n.obj))
	for i, f := range n.obj {
		out[i] = f.key
	}
	return out
}

func (n *exportsNode) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	v, err := decodeExportsNode(dec)
	if err != nil {
		return err
	}
	v.present = true
	*n = v
	return nil
}

// decodeExportsNode reads exactly one JSON value from dec, preserving
// object field order via json.Decoder.Token rather than unmarshaling into
// a map.
func decodeExportsNode(dec *json.Decoder) (exportsNode, error) {
	tok, err := dec.Token()
	if err != nil {
		return exportsNode{}, err
	}
	switch t := tok.(type) {
	case string:
		return exportsNode{isStr: true, str: t}, nil
	case nil:
		return exportsNode{}, nil
	case json.Delim:
		switch t {
		case '[':
			var arr []exportsNode
			for dec.More() {
				v, err := decodeExportsNode(dec)
				if err != nil {
					return exportsNode{}, err
				}
				arr = append(arr, v)
			}
			if _, err := dec.Token(); err != nil {
				return exportsNode{}, err
			}
			return exportsNode{isArr: true, arr: arr}, nil
		case '{':
			var obj []exportsField
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return exportsNode{}, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return exportsNode{}, fmt.Errorf("exports: non-string object key %v", keyTok)
				}
				v, err := decodeExportsNode(dec)
				if err != nil {
					return exportsNode{}, err
				}
				obj = append(obj, exportsField{key: key, value: v})
			}
			if _, err := dec.Token(); err != nil {
				return exportsNode{}, err
			}
			return exportsNode{isObj: true, obj: obj}, nil
		}
	}
	// Numbers and booleans aren't valid export/import target shapes;
	// resolveTarget's default case rejects the resulting empty node.
	return exportsNode{}, nil
}
