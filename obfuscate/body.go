// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package obfuscate

import (
	"go/ast"
	"go/token"
	"go/types"

	"go.uber.org/zap"
	"rsc.io/scramble/refactor"
)

// RemoveBodies replaces the body of every function declaration except
// main and init with a single return of zero values. Comments inside the
// removed bodies go with them, as do imports left unused.
func RemoveBodies(s *refactor.Snapshot, opts Options) *Stats {
	st := &Stats{}
	removeBodies(s, opts, st)
	return st
}

func removeBodies(s *refactor.Snapshot, opts Options, st *Stats) {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	s.ForEachFile(func(pkg *refactor.Package, f *refactor.File) {
		file := f.Syntax
		var removed []*ast.BlockStmt
		for _, d := range file.Decls {
			fd, ok := d.(*ast.FuncDecl)
			if !ok || fd.Body == nil {
				continue
			}
			if fd.Recv == nil && (fd.Name.Name == "main" || fd.Name.Name == "init") {
				continue
			}
			removed = append(removed, fd.Body)
			fd.Body = stubBody(pkg.TypesInfo, fd)
			st.Bodies++
		}
		if len(removed) == 0 {
			return
		}
		file.Comments = commentsOutside(file.Comments, removed)
		deleted := refactor.DeleteUnusedImports(s.Fset(), file, pkg.TypesInfo)
		st.Imports += len(deleted)
		log.Debug("bodies removed",
			zap.String("file", s.Addr(file.Package)),
			zap.Int("count", len(removed)),
			zap.Strings("imports", deleted))
	})
}

// stubBody returns a body for fd that returns zero values.
// It occupies a single line at the old body's opening brace.
func stubBody(info *types.Info, fd *ast.FuncDecl) *ast.BlockStmt {
	lbrace := fd.Body.Lbrace
	body := &ast.BlockStmt{Lbrace: lbrace, Rbrace: lbrace + 1}
	if fd.Type.Results == nil || len(fd.Type.Results.List) == 0 {
		return body
	}
	ret := &ast.ReturnStmt{}
	for _, field := range fd.Type.Results.List {
		n := len(field.Names)
		if n == 0 {
			n = 1
		}
		for i := 0; i < n; i++ {
			ret.Results = append(ret.Results, zeroValue(field.Type, info.TypeOf(field.Type)))
		}
	}
	body.List = []ast.Stmt{ret}
	return body
}

// zeroValue returns an expression for the zero value of type t,
// spelled as expr in the source.
func zeroValue(expr ast.Expr, t types.Type) ast.Expr {
	if id, ok := expr.(*ast.Ident); ok && id.Name == "rune" {
		if b, ok := t.(*types.Basic); t == nil || ok && b.Kind() == types.Int32 {
			return &ast.BasicLit{Kind: token.CHAR, Value: `'\x00'`}
		}
	}
	if t == nil {
		return newZero(expr)
	}
	if _, ok := t.(*types.TypeParam); ok {
		return newZero(expr)
	}
	switch u := t.Underlying().(type) {
	case *types.Basic:
		info := u.Info()
		switch {
		case info&types.IsBoolean != 0:
			return ast.NewIdent("false")
		case info&types.IsFloat != 0:
			return &ast.BasicLit{Kind: token.FLOAT, Value: "0.0"}
		case info&(types.IsInteger|types.IsComplex) != 0:
			return &ast.BasicLit{Kind: token.INT, Value: "0"}
		case info&types.IsString != 0:
			return &ast.BasicLit{Kind: token.STRING, Value: `""`}
		case u.Kind() == types.UnsafePointer:
			return ast.NewIdent("nil")
		}
	case *types.Pointer, *types.Slice, *types.Map, *types.Chan, *types.Signature, *types.Interface:
		return ast.NewIdent("nil")
	case *types.Struct, *types.Array:
		if typ := cloneType(expr); typ != nil {
			return &ast.CompositeLit{Type: typ}
		}
	}
	return newZero(expr)
}

// newZero returns *new(T), the zero value of any type T.
func newZero(expr ast.Expr) ast.Expr {
	typ := cloneType(expr)
	if typ == nil {
		typ = expr
	}
	return &ast.StarExpr{X: &ast.CallExpr{Fun: ast.NewIdent("new"), Args: []ast.Expr{typ}}}
}

// cloneType copies a type expression without position information,
// so that the copy can be printed anywhere. It returns nil for forms
// it does not know.
func cloneType(expr ast.Expr) ast.Expr {
	switch x := expr.(type) {
	case *ast.Ident:
		return ast.NewIdent(x.Name)
	case *ast.SelectorExpr:
		X := cloneType(x.X)
		if X == nil {
			return nil
		}
		return &ast.SelectorExpr{X: X, Sel: ast.NewIdent(x.Sel.Name)}
	case *ast.StarExpr:
		X := cloneType(x.X)
		if X == nil {
			return nil
		}
		return &ast.StarExpr{X: X}
	case *ast.ParenExpr:
		return cloneType(x.X)
	case *ast.ArrayType:
		elt := cloneType(x.Elt)
		if elt == nil {
			return nil
		}
		var n ast.Expr
		if x.Len != nil {
			if n = cloneType(x.Len); n == nil {
				return nil
			}
		}
		return &ast.ArrayType{Len: n, Elt: elt}
	case *ast.BasicLit:
		return &ast.BasicLit{Kind: x.Kind, Value: x.Value}
	case *ast.Ellipsis:
		return &ast.Ellipsis{}
	case *ast.MapType:
		k, v := cloneType(x.Key), cloneType(x.Value)
		if k == nil || v == nil {
			return nil
		}
		return &ast.MapType{Key: k, Value: v}
	case *ast.ChanType:
		v := cloneType(x.Value)
		if v == nil {
			return nil
		}
		return &ast.ChanType{Dir: x.Dir, Value: v}
	case *ast.IndexExpr:
		X, i := cloneType(x.X), cloneType(x.Index)
		if X == nil || i == nil {
			return nil
		}
		return &ast.IndexExpr{X: X, Index: i}
	case *ast.IndexListExpr:
		X := cloneType(x.X)
		if X == nil {
			return nil
		}
		list := make([]ast.Expr, len(x.Indices))
		for i, index := range x.Indices {
			if list[i] = cloneType(index); list[i] == nil {
				return nil
			}
		}
		return &ast.IndexListExpr{X: X, Indices: list}
	}
	return nil
}

// commentsOutside returns the comment groups that do not lie
// within any of the removed blocks.
func commentsOutside(list []*ast.CommentGroup, removed []*ast.BlockStmt) []*ast.CommentGroup {
	var out []*ast.CommentGroup
Groups:
	for _, cg := range list {
		for _, b := range removed {
			if b.Lbrace <= cg.Pos() && cg.End() <= b.Rbrace+1 {
				continue Groups
			}
		}
		out = append(out, cg)
	}
	return out
}
