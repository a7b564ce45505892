// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package obfuscate

import (
	"go/ast"
	"go/types"
	"strings"

	"rsc.io/scramble/mapping"
	"rsc.io/scramble/refactor"
)

// An occurrence is one identifier the engine may rename.
// The set of implementations is closed; stages switch over all of them.
type occurrence interface {
	ident() *ast.Ident
	occurrence()
}

// methodDecl is the name of a function or method declaration,
// or of a method in an interface type.
type methodDecl struct {
	id   *ast.Ident
	name string
	obj  *types.Func
}

// methodUse is a call of, or reference to, a function or method.
// obj is nil when type checking could not resolve the reference;
// then foreign reports whether its qualifier names library code.
type methodUse struct {
	id      *ast.Ident
	name    string
	obj     *types.Func
	foreign bool
}

// varDecl declares a parameter or local variable.
// A type switch guard declares one object per case clause.
type varDecl struct {
	id    *ast.Ident
	name  string
	kind  mapping.Kind
	scope mapping.ScopeKey
	objs  []types.Object
}

// varUse refers to a parameter or local variable.
type varUse struct {
	id  *ast.Ident
	obj types.Object
}

// fieldDecl declares a named struct field of a declared type.
type fieldDecl struct {
	id    *ast.Ident
	name  string
	scope mapping.ScopeKey
	obj   *types.Var
}

// fieldUse is a selector or composite literal key naming a field.
type fieldUse struct {
	id  *ast.Ident
	obj *types.Var
}

func (o *methodDecl) ident() *ast.Ident { return o.id }
func (o *methodUse) ident() *ast.Ident  { return o.id }
func (o *varDecl) ident() *ast.Ident    { return o.id }
func (o *varUse) ident() *ast.Ident     { return o.id }
func (o *fieldDecl) ident() *ast.Ident  { return o.id }
func (o *fieldUse) ident() *ast.Ident   { return o.id }

func (*methodDecl) occurrence() {}
func (*methodUse) occurrence()  {}
func (*varDecl) occurrence()    {}
func (*varUse) occurrence()     {}
func (*fieldDecl) occurrence()  {}
func (*fieldUse) occurrence()   {}

// collect records every occurrence in the module, in file order.
func (e *engine) collect() {
	e.snap.ForEachFile(func(pkg *refactor.Package, file *refactor.File) {
		if e.foreignPath(pkg.PkgPath) {
			return
		}
		e.collectFile(pkg, file.Syntax)
	})
}

func (e *engine) collectFile(pkg *refactor.Package, file *ast.File) {
	info := pkg.TypesInfo
	refactor.Walk(file, func(stack []ast.Node) {
		switch n := stack[0].(type) {
		case *ast.FuncDecl:
			if pinned(n) {
				if fn, ok := info.Defs[n.Name].(*types.Func); ok {
					e.pinned[fn] = true
				}
			}
			return
		case *ast.TypeSwitchStmt:
			e.collectGuard(info, stack, n)
			return
		case *ast.Ident:
			if n.Name == "_" {
				return
			}
			if stack[1] == file {
				// package clause
				return
			}
			if obj, ok := info.Defs[n]; ok {
				if obj != nil {
					e.collectDef(info, stack, n, obj)
				}
				return
			}
			if obj, ok := info.Uses[n]; ok {
				e.collectUse(n, obj)
				return
			}
			e.collectUnresolved(info, stack, n)
		}
	})
}

func (e *engine) add(o occurrence) {
	e.occs = append(e.occs, o)
}

func (e *engine) skip(id *ast.Ident, why string) {
	e.stats.Skipped++
	e.debug("skip", id, why)
}

func (e *engine) collectDef(info *types.Info, stack []ast.Node, id *ast.Ident, obj types.Object) {
	switch obj := obj.(type) {
	case *types.Func:
		// Methods share one table with functions, and calls
		// to main and init must keep resolving.
		if id.Name == "main" || id.Name == "init" {
			if d, ok := stack[1].(*ast.FuncDecl); !ok || d.Recv != nil {
				e.skip(id, "entry point name")
			}
			return
		}
		if d, ok := stack[1].(*ast.FuncDecl); ok && d.Name == id {
			if e.pinned[obj] {
				e.skip(id, "directive")
				return
			}
		}
		if e.surface[id.Name] {
			e.skip(id, "library method")
			return
		}
		e.add(&methodDecl{id: id, name: id.Name, obj: obj})

	case *types.Var:
		if obj.IsField() {
			e.collectField(info, stack, id, obj)
			return
		}
		fd := enclosingFunc(stack)
		if fd == nil {
			// Package-level variable, or one declared in a
			// package-level function literal. Neither has a scope.
			return
		}
		kind := mapping.Local
		switch paramContext(stack) {
		case notParam:
		case funcParam:
			kind = mapping.Parameter
			if fd.Recv == nil && fd.Name.Name == "main" {
				return
			}
		case typeParam:
			// Parameter of an interface method or function type.
			return
		}
		fn, ok := info.Defs[fd.Name].(*types.Func)
		if !ok {
			e.skip(id, "unresolved function")
			return
		}
		e.add(&varDecl{id: id, name: id.Name, kind: kind, scope: signatureKey(fn), objs: []types.Object{obj}})
	}
}

func (e *engine) collectField(info *types.Info, stack []ast.Node, id *ast.Ident, obj *types.Var) {
	if obj.Embedded() {
		return
	}
	field, _ := stack[1].(*ast.Field)
	if field != nil && field.Tag != nil {
		e.skip(id, "tagged field")
		return
	}
	var spec *ast.TypeSpec
	if len(stack) > 4 {
		_, isStruct := stack[3].(*ast.StructType)
		if ts, ok := stack[4].(*ast.TypeSpec); ok && isStruct && ts.Type == stack[3] {
			spec = ts
		}
	}
	if spec == nil {
		// Field of an anonymous struct type.
		return
	}
	tn, ok := info.Defs[spec.Name].(*types.TypeName)
	if !ok {
		e.skip(id, "unresolved type")
		return
	}
	e.add(&fieldDecl{id: id, name: id.Name, scope: typeKey(tn), obj: obj})
}

func (e *engine) collectUse(id *ast.Ident, obj types.Object) {
	switch obj := obj.(type) {
	case *types.Func:
		obj = obj.Origin()
		e.add(&methodUse{id: id, name: id.Name, obj: obj})
	case *types.Var:
		obj = obj.Origin()
		if obj.IsField() {
			e.add(&fieldUse{id: id, obj: obj})
		} else {
			e.add(&varUse{id: id, obj: obj})
		}
	}
}

// collectGuard handles switch x := y.(type). The guard x has no object of
// its own; each case clause declares an implicit x.
func (e *engine) collectGuard(info *types.Info, stack []ast.Node, sw *ast.TypeSwitchStmt) {
	as, ok := sw.Assign.(*ast.AssignStmt)
	if !ok || len(as.Lhs) != 1 {
		return
	}
	id, ok := as.Lhs[0].(*ast.Ident)
	if !ok || id.Name == "_" {
		return
	}
	fd := enclosingFunc(stack)
	if fd == nil {
		return
	}
	fn, ok := info.Defs[fd.Name].(*types.Func)
	if !ok {
		return
	}
	var objs []types.Object
	for _, stmt := range sw.Body.List {
		if obj := info.Implicits[stmt]; obj != nil {
			objs = append(objs, obj)
		}
	}
	e.add(&varDecl{id: id, name: id.Name, kind: mapping.Local, scope: signatureKey(fn), objs: objs})
}

// collectUnresolved handles identifiers type checking did not resolve.
// Only call sites and selectors can be methods; the rest are left alone.
func (e *engine) collectUnresolved(info *types.Info, stack []ast.Node, id *ast.Ident) {
	if len(stack) < 2 {
		return
	}
	switch parent := stack[1].(type) {
	case *ast.SelectorExpr:
		if parent.Sel != id {
			return
		}
		foreign := false
		if x, ok := parent.X.(*ast.Ident); ok {
			if pn, ok := info.Uses[x].(*types.PkgName); ok {
				foreign = e.foreignPath(pn.Imported().Path())
			} else if info.Uses[x] == nil && info.Defs[x] == nil && e.foreignName(x.Name) {
				foreign = true
			}
		}
		e.add(&methodUse{id: id, name: id.Name, foreign: foreign})
	case *ast.CallExpr:
		if parent.Fun == id {
			e.add(&methodUse{id: id, name: id.Name})
		}
	}
}

type paramKind int

const (
	notParam paramKind = iota
	funcParam
	typeParam
)

// paramContext reports whether the identifier at stack[0] is declared in a
// parameter, result or receiver list, and whose list it is.
func paramContext(stack []ast.Node) paramKind {
	if len(stack) < 4 {
		return notParam
	}
	if _, ok := stack[1].(*ast.Field); !ok {
		return notParam
	}
	list, ok := stack[2].(*ast.FieldList)
	if !ok {
		return notParam
	}
	switch n := stack[3].(type) {
	case *ast.FuncDecl:
		if n.Recv == list {
			return funcParam
		}
	case *ast.FuncType:
		if len(stack) > 4 {
			switch p := stack[4].(type) {
			case *ast.FuncDecl:
				if p.Type == n {
					return funcParam
				}
			case *ast.FuncLit:
				if p.Type == n {
					return funcParam
				}
			}
		}
		return typeParam
	}
	return notParam
}

func enclosingFunc(stack []ast.Node) *ast.FuncDecl {
	for _, n := range stack[1:] {
		if fd, ok := n.(*ast.FuncDecl); ok {
			return fd
		}
	}
	return nil
}

// pinned reports whether a declaration's name is fixed by a directive.
func pinned(fd *ast.FuncDecl) bool {
	if fd.Doc == nil {
		return false
	}
	for _, c := range fd.Doc.List {
		if strings.HasPrefix(c.Text, "//export ") || strings.HasPrefix(c.Text, "//go:linkname ") {
			return true
		}
	}
	return false
}
