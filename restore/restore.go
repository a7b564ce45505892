// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package restore puts original names back into source files written
// against a scrambled module, typically tests.
//
// The files are parsed but not type-checked: they refer to a module
// that no longer exists under these names. Identifiers are therefore
// matched by spelling. Call sites, method references and function
// declarations whose names are generated method names get the original
// back. Declarations whose names merely contain a generated name, such
// as TestMabcdef, are rewritten too: a test prefix followed by a
// generated name becomes the prefix followed by the capitalized original,
// and any other embedded generated name is replaced in place.
package restore

import (
	"go/ast"
	"go/token"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"go.uber.org/zap"
	"rsc.io/scramble/mapping"
	"rsc.io/scramble/refactor"
)

// DefaultTestPrefixes are the function name prefixes the testing
// package gives meaning to.
var DefaultTestPrefixes = []string{"Test", "Benchmark", "Fuzz", "Example"}

// Options control a Restorer.
type Options struct {
	// TestPrefixes overrides DefaultTestPrefixes.
	TestPrefixes []string

	// Fields enables restoring field selectors and composite literal
	// keys whose generated name belongs to a single declaring type.
	Fields bool

	Log *zap.Logger
}

// An Ambiguity records a declaration name in which more than one
// generated name matched at the same place. The longest one was used.
type Ambiguity struct {
	Pos        token.Pos
	Name       string
	Used       string
	Candidates []string
}

// A Result counts the rewrites made in one file.
type Result struct {
	Calls     int
	Refs      int
	Decls     int
	Fields    int
	Ambiguous []Ambiguity
}

// Changed reports whether any identifier was rewritten.
func (r *Result) Changed() bool {
	return r.Calls+r.Refs+r.Decls+r.Fields > 0
}

// A Restorer rewrites files using one reverse mapping.
type Restorer struct {
	rev      *mapping.Reverse
	opts     Options
	log      *zap.Logger
	prefixes []string
	gens     []string // generated method names, longest first
}

// New returns a Restorer for rev.
func New(rev *mapping.Reverse, opts Options) *Restorer {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	prefixes := opts.TestPrefixes
	if prefixes == nil {
		prefixes = DefaultTestPrefixes
	}
	gens := make([]string, 0, len(rev.Methods))
	for gen := range rev.Methods {
		gens = append(gens, gen)
	}
	sort.Slice(gens, func(i, j int) bool {
		if len(gens[i]) != len(gens[j]) {
			return len(gens[i]) > len(gens[j])
		}
		return gens[i] < gens[j]
	})
	return &Restorer{rev: rev, opts: opts, log: log, prefixes: prefixes, gens: gens}
}

// File rewrites file in place.
func (r *Restorer) File(file *ast.File) *Result {
	res := new(Result)
	refactor.Walk(file, func(stack []ast.Node) {
		id, ok := stack[0].(*ast.Ident)
		if !ok {
			return
		}
		switch classify(stack) {
		case declName:
			r.decl(id, res)
		case callSite:
			if orig, ok := r.rev.Method(id.Name); ok {
				r.debug("call", id, orig)
				id.Name = orig
				res.Calls++
			}
		case selector:
			if orig, ok := r.rev.Method(id.Name); ok {
				r.debug("ref", id, orig)
				id.Name = orig
				res.Refs++
				return
			}
			r.field(id, res)
		case compositeKey:
			r.field(id, res)
		case reference:
			if orig, ok := r.rev.Method(id.Name); ok {
				r.debug("ref", id, orig)
				id.Name = orig
				res.Refs++
			}
		}
	})
	return res
}

func (r *Restorer) field(id *ast.Ident, res *Result) {
	if !r.opts.Fields {
		return
	}
	if orig, ok := r.rev.Field(id.Name); ok {
		r.debug("field", id, orig)
		id.Name = orig
		res.Fields++
	}
}

// decl restores a declared function or method name.
func (r *Restorer) decl(id *ast.Ident, res *Result) {
	name, amb := r.restoreName(id.Name)
	if amb != nil {
		amb.Pos = id.Pos()
		res.Ambiguous = append(res.Ambiguous, *amb)
		r.log.Warn("ambiguous generated name",
			zap.String("name", id.Name),
			zap.String("used", amb.Used),
			zap.Strings("candidates", amb.Candidates))
	}
	if name != id.Name {
		r.debug("decl", id, name)
		id.Name = name
		res.Decls++
	}
}

// restoreName returns the original spelling of a declared name.
func (r *Restorer) restoreName(name string) (string, *Ambiguity) {
	if orig, ok := r.rev.Method(name); ok {
		return orig, nil
	}
	for _, prefix := range r.prefixes {
		rest, ok := strings.CutPrefix(name, prefix)
		if !ok || rest == "" {
			continue
		}
		if orig, ok := r.rev.Method(rest); ok {
			return prefix + mapping.Capitalize(orig), nil
		}
		if orig, ok := r.rev.Method(uncapitalize(rest)); ok && rest != uncapitalize(rest) {
			return prefix + mapping.Capitalize(orig), nil
		}
	}
	return r.replaceEmbedded(name)
}

// replaceEmbedded replaces every generated name inside name, scanning
// left to right and taking the longest match at each position.
// A capitalized generated name is replaced by the capitalized original.
func (r *Restorer) replaceEmbedded(name string) (string, *Ambiguity) {
	var b strings.Builder
	var amb *Ambiguity
	for i := 0; i < len(name); {
		var matches []string
		for _, gen := range r.gens {
			if strings.HasPrefix(name[i:], gen) || strings.HasPrefix(name[i:], mapping.Capitalize(gen)) {
				matches = append(matches, gen)
			}
		}
		if len(matches) == 0 {
			b.WriteByte(name[i])
			i++
			continue
		}
		gen := matches[0]
		orig := r.rev.Methods[gen]
		if !strings.HasPrefix(name[i:], gen) {
			orig = mapping.Capitalize(orig)
		}
		b.WriteString(orig)
		i += len(gen)
		if len(matches) > 1 && amb == nil {
			amb = &Ambiguity{Name: name, Used: gen, Candidates: matches}
		}
	}
	return b.String(), amb
}

func (r *Restorer) debug(what string, id *ast.Ident, orig string) {
	r.log.Debug("restore", zap.String("kind", what), zap.String("from", id.Name), zap.String("to", orig))
}

func uncapitalize(s string) string {
	c, size := utf8.DecodeRuneInString(s)
	if c == utf8.RuneError || unicode.IsLower(c) {
		return s
	}
	return string(unicode.ToLower(c)) + s[size:]
}
