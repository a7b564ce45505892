// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package obfuscate rewrites a loaded module so that its functions,
// methods, parameters, local variables and struct fields carry generated
// names, and optionally strips comments and function bodies.
//
// Renaming follows type-checker object identity: every identifier that
// refers to a renamed object is rewritten along with its declaration.
// Names are recorded in a mapping.Mapping so the rewrite can be reversed.
//
// Some names are never changed:
//
//   - main and init, and the parameters of main;
//   - methods whose names appear in an interface declared outside the
//     module, or in the predeclared error interface, or in Options.Keep;
//   - functions pinned by //export or //go:linkname directives;
//   - embedded fields, fields with struct tags, and fields of
//     anonymous struct types;
//   - package-level variables, constants and types.
package obfuscate

import (
	"fmt"
	"go/ast"
	"go/types"
	"path"
	"strings"

	"go.uber.org/zap"
	"rsc.io/scramble/mapping"
	"rsc.io/scramble/refactor"
)

// DefaultKeep lists method names that library code finds by
// dynamic interface checks rather than declared interfaces.
var DefaultKeep = []string{"Error", "String", "GoString", "Format", "Unwrap", "Is", "As"}

// Options control a rewrite.
type Options struct {
	Mode Mode

	// Keep lists method names that are never renamed.
	Keep []string

	// Foreign lists import path prefixes treated as library code even
	// inside the module. Their packages are not rewritten and references
	// into them are not renamed.
	Foreign []string

	// KeepComments disables comment stripping in names mode.
	KeepComments bool

	// KeepDocs retains doc comments on function declarations
	// when comments are stripped.
	KeepDocs bool

	Log *zap.Logger
}

// Stats counts the work done by a rewrite.
type Stats struct {
	Renamed map[mapping.Kind]int
	Skipped int
	Bodies  int
	Imports int
}

func (st *Stats) String() string {
	return fmt.Sprintf("%d methods, %d params, %d locals, %d fields renamed; %d skipped; %d bodies removed",
		st.Renamed[mapping.Method], st.Renamed[mapping.Parameter], st.Renamed[mapping.Local],
		st.Renamed[mapping.Field], st.Skipped, st.Bodies)
}

// Run applies opts.Mode to the snapshot, recording names in m.
// In All mode names are changed and comments stripped before
// bodies are removed.
func Run(s *refactor.Snapshot, m *mapping.Mapping, opts Options) *Stats {
	st := &Stats{Renamed: make(map[mapping.Kind]int)}
	if opts.Mode.renames() {
		e := newEngine(s, m, opts, st)
		e.rename()
		if !opts.KeepComments {
			s.ForEachFile(func(_ *refactor.Package, f *refactor.File) {
				StripComments(f.Syntax, opts.KeepDocs)
			})
		}
	}
	if opts.Mode.removesBodies() {
		removeBodies(s, opts, st)
	}
	return st
}

// Rename renames the snapshot's identifiers without touching comments
// or bodies.
func Rename(s *refactor.Snapshot, m *mapping.Mapping, opts Options) *Stats {
	st := &Stats{Renamed: make(map[mapping.Kind]int)}
	newEngine(s, m, opts, st).rename()
	return st
}

type engine struct {
	snap    *refactor.Snapshot
	m       *mapping.Mapping
	opts    Options
	log     *zap.Logger
	stats   *Stats
	surface map[string]bool
	occs    []occurrence
	renamed map[types.Object]string
	pinned  map[*types.Func]bool
}

func newEngine(s *refactor.Snapshot, m *mapping.Mapping, opts Options, st *Stats) *engine {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	e := &engine{
		snap:    s,
		m:       m,
		opts:    opts,
		log:     log,
		stats:   st,
		renamed: make(map[types.Object]string),
		pinned:  make(map[*types.Func]bool),
	}
	e.surface = e.librarySurface()
	return e
}

type stage int

const (
	stageMethodDecls stage = iota
	stageMethodUses
	stageParams
	stageLocals
	stageFields
	numStages
)

func (e *engine) rename() {
	e.collect()
	for st := stage(0); st < numStages; st++ {
		for _, o := range e.occs {
			e.apply(st, o, false)
		}
		// Uses follow their declarations.
		for _, o := range e.occs {
			e.apply(st, o, true)
		}
	}
}

// apply performs stage st on o. Declarations are handled in the first
// pass over the occurrences and references in the second.
func (e *engine) apply(st stage, o occurrence, uses bool) {
	switch o := o.(type) {
	case *methodDecl:
		if st == stageMethodDecls && !uses {
			e.set(mapping.Method, mapping.Global, o.id, o.name, nil)
		}
	case *methodUse:
		if st == stageMethodUses && uses {
			e.renameMethodUse(o)
		}
	case *varDecl:
		if !uses && (st == stageParams && o.kind == mapping.Parameter || st == stageLocals && o.kind == mapping.Local) {
			e.set(o.kind, o.scope, o.id, o.name, o.objs)
		}
	case *varUse:
		if uses && (st == stageParams || st == stageLocals) {
			e.follow(o.id, o.obj)
		}
	case *fieldDecl:
		if st == stageFields && !uses {
			e.set(mapping.Field, o.scope, o.id, o.name, []types.Object{o.obj})
		}
	case *fieldUse:
		if st == stageFields && uses {
			e.follow(o.id, o.obj)
		}
	default:
		panic(fmt.Sprintf("obfuscate: unexpected occurrence %T", o))
	}
}

// set renames a declaration and records the objects it declares.
func (e *engine) set(kind mapping.Kind, scope mapping.ScopeKey, id *ast.Ident, name string, objs []types.Object) {
	gen := e.m.Resolve(kind, scope, name)
	id.Name = gen
	for _, obj := range objs {
		e.renamed[obj] = gen
	}
	e.stats.Renamed[kind]++
	if ce := e.log.Check(zap.DebugLevel, "rename"); ce != nil {
		ce.Write(
			zap.Stringer("kind", kind),
			zap.String("scope", string(scope)),
			zap.String("from", name),
			zap.String("to", gen),
			zap.String("at", e.snap.Addr(id.Pos())),
		)
	}
}

// follow renames a reference to an already renamed object.
func (e *engine) follow(id *ast.Ident, obj types.Object) {
	if gen, ok := e.renamed[obj]; ok {
		id.Name = gen
	}
}

func (e *engine) renameMethodUse(o *methodUse) {
	gen, ok := e.m.Lookup(mapping.Method, mapping.Global, o.name)
	if !ok {
		return
	}
	switch {
	case o.obj != nil && o.obj.Pkg() == nil:
		return
	case o.obj != nil && e.foreignPath(o.obj.Pkg().Path()):
		e.skip(o.id, "library call")
		return
	case o.obj != nil && e.pinned[o.obj]:
		return
	case o.obj == nil && o.foreign:
		e.skip(o.id, "unresolved library call")
		return
	}
	o.id.Name = gen
}

func (e *engine) debug(msg string, id *ast.Ident, why string) {
	if ce := e.log.Check(zap.DebugLevel, msg); ce != nil {
		ce.Write(zap.String("name", id.Name), zap.String("why", why), zap.String("at", e.snap.Addr(id.Pos())))
	}
}

// foreignPath reports whether code in the package is library code.
func (e *engine) foreignPath(pkgPath string) bool {
	if !e.snap.InProgram(pkgPath) {
		return true
	}
	for _, prefix := range e.opts.Foreign {
		if pkgPath == prefix || strings.HasPrefix(pkgPath, strings.TrimSuffix(prefix, "/")+"/") {
			return true
		}
	}
	return false
}

// foreignName reports whether an unresolved qualifier
// matches the last element of a configured foreign prefix.
func (e *engine) foreignName(name string) bool {
	for _, prefix := range e.opts.Foreign {
		if path.Base(strings.TrimSuffix(prefix, "/")) == name {
			return true
		}
	}
	return false
}

// librarySurface returns the method names that must keep their spelling
// for values of module types to keep satisfying library interfaces.
func (e *engine) librarySurface() map[string]bool {
	surface := make(map[string]bool)
	keep := e.opts.Keep
	if keep == nil {
		keep = DefaultKeep
	}
	for _, name := range keep {
		surface[name] = true
	}
	addScope := func(scope *types.Scope) {
		for _, name := range scope.Names() {
			tn, ok := scope.Lookup(name).(*types.TypeName)
			if !ok {
				continue
			}
			if it, ok := tn.Type().Underlying().(*types.Interface); ok {
				for i := 0; i < it.NumMethods(); i++ {
					surface[it.Method(i).Name()] = true
				}
			}
		}
	}
	addScope(types.Universe)
	for _, p := range e.snap.ForeignPackages() {
		addScope(p.Scope())
	}
	for _, p := range e.snap.Packages() {
		if e.foreignPath(p.PkgPath) && p.Types != nil {
			addScope(p.Types.Scope())
		}
	}
	e.addLibraryImplemented(surface)
	return surface
}

// addLibraryImplemented adds to surface the methods of every module
// interface that a library type satisfies, either directly or through
// a library method promoted from an embedded field. Values of that
// type may be stored in the interface, so its method names are fixed.
func (e *engine) addLibraryImplemented(surface map[string]bool) {
	var ifaces []*types.Interface
	seen := make(map[*types.Interface]bool)
	for _, p := range e.snap.Packages() {
		if p.TypesInfo == nil || e.foreignPath(p.PkgPath) {
			continue
		}
		for _, tv := range p.TypesInfo.Types {
			if !tv.IsType() {
				continue
			}
			it, ok := tv.Type.Underlying().(*types.Interface)
			if !ok || seen[it] || it.NumMethods() == 0 || !it.IsMethodSet() {
				continue
			}
			seen[it] = true
			ifaces = append(ifaces, it)
		}
	}
	if len(ifaces) == 0 {
		return
	}

	var named []*types.Named
	addNamed := func(scope *types.Scope) {
		for _, name := range scope.Names() {
			tn, ok := scope.Lookup(name).(*types.TypeName)
			if !ok || tn.IsAlias() {
				continue
			}
			t, ok := tn.Type().(*types.Named)
			if !ok || t.TypeParams().Len() > 0 || types.IsInterface(t) {
				continue
			}
			named = append(named, t)
		}
	}
	for _, p := range e.snap.ForeignPackages() {
		addNamed(p.Scope())
	}
	for _, p := range e.snap.Packages() {
		if p.Types != nil {
			addNamed(p.Types.Scope())
		}
	}

Ifaces:
	for _, it := range ifaces {
		covered := true
		for i := 0; i < it.NumMethods(); i++ {
			covered = covered && surface[it.Method(i).Name()]
		}
		if covered {
			continue
		}
		for _, t := range named {
			if e.libraryImplements(t, it) {
				for i := 0; i < it.NumMethods(); i++ {
					surface[it.Method(i).Name()] = true
				}
				continue Ifaces
			}
		}
	}
}

// libraryImplements reports whether t or *t implements it
// using at least one method declared in library code.
func (e *engine) libraryImplements(t *types.Named, it *types.Interface) bool {
	var recv types.Type = t
	if !types.Implements(recv, it) {
		if _, ok := t.Underlying().(*types.Pointer); ok {
			return false
		}
		recv = types.NewPointer(t)
		if !types.Implements(recv, it) {
			return false
		}
	}
	for i := 0; i < it.NumMethods(); i++ {
		m := it.Method(i)
		obj, _, _ := types.LookupFieldOrMethod(recv, false, m.Pkg(), m.Name())
		if fn, ok := obj.(*types.Func); ok && fn.Pkg() != nil && e.foreignPath(fn.Pkg().Path()) {
			return true
		}
	}
	return false
}
