// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package mapping holds the reversible record of renamed identifiers.
//
// A Mapping has four partitions. Methods live in a single global table;
// parameters and locals are tabled per enclosing function signature; fields
// are tabled per declaring type. Entries are created on first use and never
// replaced, so resolving the same symbol twice always yields the same name.
package mapping

import (
	"bufio"
	"fmt"
	"go/token"
	"io"
	"sort"
	"unicode"
	"unicode/utf8"
)

// A Kind identifies the partition a symbol belongs to.
type Kind int

const (
	Method Kind = iota
	Parameter
	Local
	Field
)

var kindNames = [...]string{
	Method:    "method",
	Parameter: "param",
	Local:     "local",
	Field:     "field",
}

func (k Kind) String() string {
	if 0 <= k && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "kind?"
}

// Prefix returns the letter that starts every generated name of kind k.
func (k Kind) Prefix() byte {
	switch k {
	case Method:
		return 'm'
	case Parameter:
		return 'p'
	case Local:
		return 'l'
	case Field:
		return 'f'
	}
	panic("mapping: unknown kind")
}

// A ScopeKey names the scope a symbol is tabled under.
// Signature scopes look like "(*example.com/shop.Cart).Total(int) int";
// type scopes look like "example.com/shop.Cart".
type ScopeKey string

// Global is the scope of every method.
const Global ScopeKey = "*"

// A Table maps names within a single scope.
type Table map[string]string

// Keys returns the table's keys in sorted order.
func (t Table) Keys() []string {
	keys := make([]string, 0, len(t))
	for k := range t {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// A Mapping records original -> generated names for one program.
type Mapping struct {
	Methods Table
	Params  map[ScopeKey]Table
	Locals  map[ScopeKey]Table
	Fields  map[ScopeKey]Table

	gen Generator
}

// New returns an empty mapping that draws fresh names from gen.
// If gen is nil, a RandomGenerator is used.
func New(gen Generator) *Mapping {
	if gen == nil {
		gen = NewRandomGenerator()
	}
	return &Mapping{
		Methods: make(Table),
		Params:  make(map[ScopeKey]Table),
		Locals:  make(map[ScopeKey]Table),
		Fields:  make(map[ScopeKey]Table),
		gen:     gen,
	}
}

// SetGenerator replaces the generator used for names created from now on.
// Existing entries are unaffected.
func (m *Mapping) SetGenerator(gen Generator) {
	m.gen = gen
}

func (m *Mapping) table(kind Kind, scope ScopeKey, create bool) Table {
	var part map[ScopeKey]Table
	switch kind {
	case Method:
		if m.Methods == nil && create {
			m.Methods = make(Table)
		}
		return m.Methods
	case Parameter:
		if m.Params == nil {
			m.Params = make(map[ScopeKey]Table)
		}
		part = m.Params
	case Local:
		if m.Locals == nil {
			m.Locals = make(map[ScopeKey]Table)
		}
		part = m.Locals
	case Field:
		if m.Fields == nil {
			m.Fields = make(map[ScopeKey]Table)
		}
		part = m.Fields
	default:
		panic("mapping: unknown kind")
	}
	t := part[scope]
	if t == nil && create {
		t = make(Table)
		part[scope] = t
	}
	return t
}

// Resolve returns the generated name for original in the given scope,
// creating one if none exists yet. The scope of a Method is always Global;
// any other value passed for a method is ignored.
//
// Generated names keep the export status of the original: the prefix letter
// is upper case when original is exported.
func (m *Mapping) Resolve(kind Kind, scope ScopeKey, original string) string {
	t := m.table(kind, scope, true)
	if name, ok := t[original]; ok {
		return name
	}
	if m.gen == nil {
		m.gen = NewRandomGenerator()
	}
	name := m.gen.Generate(kind)
	if token.IsExported(original) {
		name = Capitalize(name)
	}
	t[original] = name
	return name
}

// Lookup reports the generated name for original without creating one.
func (m *Mapping) Lookup(kind Kind, scope ScopeKey, original string) (string, bool) {
	t := m.table(kind, scope, false)
	name, ok := t[original]
	return name, ok
}

// Len returns the total number of entries across all partitions.
func (m *Mapping) Len() int {
	n := 0
	for _, c := range m.Counts() {
		n += c
	}
	return n
}

// Counts returns the number of entries per kind.
func (m *Mapping) Counts() map[Kind]int {
	count := func(part map[ScopeKey]Table) int {
		n := 0
		for _, t := range part {
			n += len(t)
		}
		return n
	}
	return map[Kind]int{
		Method:    len(m.Methods),
		Parameter: count(m.Params),
		Local:     count(m.Locals),
		Field:     count(m.Fields),
	}
}

// Scopes returns the sorted scope keys of the partition for kind.
func (m *Mapping) Scopes(kind Kind) []ScopeKey {
	var part map[ScopeKey]Table
	switch kind {
	case Method:
		return []ScopeKey{Global}
	case Parameter:
		part = m.Params
	case Local:
		part = m.Locals
	case Field:
		part = m.Fields
	}
	return sortedScopes(part)
}

// Table returns the table for kind and scope, or nil.
func (m *Mapping) Table(kind Kind, scope ScopeKey) Table {
	return m.table(kind, scope, false)
}

func sortedScopes(part map[ScopeKey]Table) []ScopeKey {
	keys := make([]ScopeKey, 0, len(part))
	for k := range part {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// WriteText prints every entry of m on its own line: kind, scope,
// original name and generated name, in kind, scope and name order.
func (m *Mapping) WriteText(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for _, kind := range []Kind{Method, Parameter, Local, Field} {
		for _, scope := range m.Scopes(kind) {
			t := m.Table(kind, scope)
			for _, orig := range t.Keys() {
				fmt.Fprintf(bw, "%s %s %s %s\n", kind, scope, orig, t[orig])
			}
		}
	}
	return bw.Flush()
}

// Capitalize returns s with its first letter upper-cased.
func Capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError || unicode.IsUpper(r) {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
