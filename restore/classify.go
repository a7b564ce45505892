// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package restore

import (
	"go/ast"
	"go/token"
)

type role int

const (
	other        role = iota
	declName          // name of a function, method, or interface method
	callSite          // f(...) or x.f(...)
	selector          // x.f not called
	compositeKey      // T{f: v}
	reference         // f used as a value
)

// classify determines the role of the identifier at stack[0]
// from its syntactic position alone.
func classify(stack []ast.Node) role {
	id := stack[0].(*ast.Ident)
	if len(stack) < 2 {
		return other
	}
	switch p := stack[1].(type) {
	case *ast.FuncDecl:
		if p.Name == id {
			return declName
		}
		return other
	case *ast.Field:
		// A named method in an interface type.
		if len(stack) > 3 {
			if _, ok := stack[3].(*ast.InterfaceType); ok && isName(p.Names, id) {
				return declName
			}
		}
		return other
	case *ast.SelectorExpr:
		if p.Sel != id {
			return other
		}
		if len(stack) > 2 {
			if call, ok := stack[2].(*ast.CallExpr); ok && call.Fun == p {
				return callSite
			}
		}
		return selector
	case *ast.CallExpr:
		if p.Fun == id {
			return callSite
		}
		return reference
	case *ast.KeyValueExpr:
		if p.Key == id {
			if len(stack) > 2 {
				if _, ok := stack[2].(*ast.CompositeLit); ok {
					return compositeKey
				}
			}
			return other
		}
		return reference
	case *ast.ValueSpec:
		if isName(p.Names, id) {
			return other
		}
		return reference
	case *ast.File, *ast.ImportSpec, *ast.TypeSpec, *ast.LabeledStmt, *ast.BranchStmt:
		return other
	case *ast.AssignStmt:
		if p.Tok == token.DEFINE && isExpr(p.Lhs, id) {
			return other
		}
		return reference
	case *ast.RangeStmt:
		if p.Tok == token.DEFINE && (p.Key == id || p.Value == id) {
			return other
		}
		return reference
	}
	return reference
}

func isName(names []*ast.Ident, id *ast.Ident) bool {
	for _, n := range names {
		if n == id {
			return true
		}
	}
	return false
}

func isExpr(list []ast.Expr, id *ast.Ident) bool {
	for _, x := range list {
		if x == id {
			return true
		}
	}
	return false
}
