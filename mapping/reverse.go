// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mapping

import "fmt"

// A Reverse maps generated names back to originals.
type Reverse struct {
	Methods Table
	Params  map[ScopeKey]Table
	Locals  map[ScopeKey]Table
	Fields  map[ScopeKey]Table
}

// A Collision is a generated name that more than one original maps to
// within a single scope. Kept is the original the reverse table retains.
type Collision struct {
	Kind      Kind
	Scope     ScopeKey
	Generated string
	Kept      string
	Dropped   []string
}

func (c Collision) String() string {
	return fmt.Sprintf("%s %s in %s: %s kept, %v dropped", c.Kind, c.Generated, c.Scope, c.Kept, c.Dropped)
}

// Reverse inverts m. Where two originals in a scope share a generated name,
// the lexically first original wins and the collision is reported.
func (m *Mapping) Reverse() (*Reverse, []Collision) {
	var collisions []Collision
	invert := func(kind Kind, scope ScopeKey, t Table) Table {
		inv := make(Table, len(t))
		byGen := make(map[string]*Collision)
		var order []string
		for _, orig := range t.Keys() {
			gen := t[orig]
			if kept, ok := inv[gen]; ok {
				c := byGen[gen]
				if c == nil {
					c = &Collision{Kind: kind, Scope: scope, Generated: gen, Kept: kept}
					byGen[gen] = c
					order = append(order, gen)
				}
				c.Dropped = append(c.Dropped, orig)
				continue
			}
			inv[gen] = orig
		}
		for _, gen := range order {
			collisions = append(collisions, *byGen[gen])
		}
		return inv
	}
	invertPart := func(kind Kind, part map[ScopeKey]Table) map[ScopeKey]Table {
		out := make(map[ScopeKey]Table, len(part))
		for _, scope := range sortedScopes(part) {
			out[scope] = invert(kind, scope, part[scope])
		}
		return out
	}

	r := &Reverse{
		Methods: invert(Method, Global, m.Methods),
		Params:  invertPart(Parameter, m.Params),
		Locals:  invertPart(Local, m.Locals),
		Fields:  invertPart(Field, m.Fields),
	}
	return r, collisions
}

// Method returns the original method name for gen.
func (r *Reverse) Method(gen string) (string, bool) {
	orig, ok := r.Methods[gen]
	return orig, ok
}

// Field returns the original field name for gen when exactly one declaring
// type knows gen. Field references in a parsed-only file carry no type, so a
// generated name shared between types cannot be attributed.
func (r *Reverse) Field(gen string) (string, bool) {
	found := ""
	for _, t := range r.Fields {
		orig, ok := t[gen]
		if !ok {
			continue
		}
		if found != "" && found != orig {
			return "", false
		}
		found = orig
	}
	return found, found != ""
}

// FieldIn returns the original field name for gen within one declaring type.
func (r *Reverse) FieldIn(scope ScopeKey, gen string) (string, bool) {
	orig, ok := r.Fields[scope][gen]
	return orig, ok
}
