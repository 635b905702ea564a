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

import (
	"sync"

	"github.com/dnrt/dnrt/rterr"
)

// Engine evaluates (descriptor, action) pairs against configured
// allow/deny sets and a prompt policy, caching decisions for the process
// lifetime (§4.B). It is safe for concurrent use — the module graph,
// fetcher, and op dispatch all consult the same Engine instance across
// goroutines (§5 "Shared state").
type Engine struct {
	mu       sync.RWMutex
	allow    map[Kind][]Descriptor
	deny     map[Kind][]Descriptor
	cache    map[string]State
	policy   Policy
	prompter Prompter
}

// New constructs an Engine from explicit allow/deny lists (as parsed from
// --allow-<kind>/--deny-<kind> flags) and a policy governing descriptors
// that match neither list.
func New(allow, deny []Descriptor, policy Policy, prompter Prompter) *Engine {
	e := &Engine{
		allow:  make(map[Kind][]Descriptor),
		deny:   make(map[Kind][]Descriptor),
		cache:  make(map[string]State),
		policy: policy,
	}
	if policy == PolicyPrompt {
		e.prompter = prompter
	}
	for _, d := range allow {
		e.allow[d.Kind] = append(e.allow[d.Kind], d)
	}
	for _, d := range deny {
		e.deny[d.Kind] = append(e.deny[d.Kind], d)
	}
	return e
}

// Query reports the descriptor's current state without mutating anything or
// prompting.
func (e *Engine) Query(d Descriptor) State {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if s, ok := e.cache[d.String()]; ok {
		return s
	}
	return e.resolveLocked(d)
}

// Request evaluates d, prompting the user if the outcome is Prompt (§4.B
// step 4). The answer is cached and, if the user chose to persist it,
// folded into the allow/deny sets atomically.
func (e *Engine) Request(d Descriptor) State {
	e.mu.Lock()
	defer e.mu.Unlock()
	if s, ok := e.cache[d.String()]; ok {
		return s
	}
	return e.decideLocked(d)
}

// Revoke removes a previously granted descriptor from the allow set and
// clears its cached decision. Revoking a descriptor that was never granted
// is a no-op. Revoking does not un-deny a Denied descriptor — §3 states a
// deny decision is terminal for the process lifetime.
func (e *Engine) Revoke(d Descriptor) State {
	e.mu.Lock()
	defer e.mu.Unlock()
	if cached, ok := e.cache[d.String()]; ok && cached == Denied {
		return Denied
	}
	list := e.allow[d.Kind]
	filtered := list[:0]
	for _, a := range list {
		if a.String() != d.String() {
			filtered = append(filtered, a)
		}
	}
	e.allow[d.Kind] = filtered
	delete(e.cache, d.String())
	return e.resolveLocked(d)
}

// Check evaluates d for an op named api, returning a *rterr.Error
// (Kind PermissionDenied) rather than a State when access is not granted,
// matching §4.B's check contract.
func (e *Engine) Check(d Descriptor, api string) error {
	state := e.Request(d)
	if state == Granted || state == GrantedPartial {
		return nil
	}
	return rterr.Denied(api, d.String())
}

// resolveLocked implements §4.B steps 2–3 without caching or prompting:
// deny wins over allow, consulted under e.mu held for at least reading.
func (e *Engine) resolveLocked(d Descriptor) State {
	for _, deny := range e.deny[d.Kind] {
		if deny.Subsumes(d) {
			return Denied
		}
	}
	for _, allow := range e.allow[d.Kind] {
		if allow.Subsumes(d) {
			return Granted
		}
	}
	switch e.policy {
	case PolicyAllowAll:
		return Granted
	case PolicyDenyAll:
		return Denied
	default:
		return Prompt
	}
}

// decideLocked runs the full §4.B resolution including the prompt branch,
// caching and (for deny) making the decision terminal. Must be called with
// e.mu held for writing.
func (e *Engine) decideLocked(d Descriptor) State {
	state := e.resolveLocked(d)
	switch state {
	case Prompt:
		if e.prompter == nil {
			state = Denied
			break
		}
		allow, persist := e.prompter.Prompt(d, "")
		if allow {
			state = Granted
			if persist {
				e.allow[d.Kind] = append(e.allow[d.Kind], d)
			}
		} else {
			state = Denied
			if persist {
				e.deny[d.Kind] = append(e.deny[d.Kind], d)
			}
		}
	}
	e.cache[d.String()] = state
	return state
}
