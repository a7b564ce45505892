// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package obfuscate

import (
	"go/ast"
	"strings"
)

// StripComments removes every comment from file except build constraints
// and compiler directives. If keepDocs is set, doc comments of function
// declarations are kept whole.
func StripComments(file *ast.File, keepDocs bool) {
	docs := make(map[*ast.CommentGroup]bool)
	if keepDocs {
		for _, d := range file.Decls {
			if fd, ok := d.(*ast.FuncDecl); ok && fd.Doc != nil {
				docs[fd.Doc] = true
			}
		}
	}

	dropped := make(map[*ast.CommentGroup]bool)
	var kept []*ast.CommentGroup
	for _, cg := range file.Comments {
		if docs[cg] {
			kept = append(kept, cg)
			continue
		}
		var list []*ast.Comment
		for _, c := range cg.List {
			if isDirective(c.Text) {
				list = append(list, c)
			}
		}
		if len(list) == 0 {
			dropped[cg] = true
			continue
		}
		cg.List = list
		kept = append(kept, cg)
	}
	file.Comments = kept

	drop := func(cg **ast.CommentGroup) {
		if *cg != nil && dropped[*cg] {
			*cg = nil
		}
	}
	ast.Inspect(file, func(n ast.Node) bool {
		switch n := n.(type) {
		case *ast.File:
			drop(&n.Doc)
		case *ast.FuncDecl:
			drop(&n.Doc)
		case *ast.GenDecl:
			drop(&n.Doc)
		case *ast.ImportSpec:
			drop(&n.Doc)
			drop(&n.Comment)
		case *ast.ValueSpec:
			drop(&n.Doc)
			drop(&n.Comment)
		case *ast.TypeSpec:
			drop(&n.Doc)
			drop(&n.Comment)
		case *ast.Field:
			drop(&n.Doc)
			drop(&n.Comment)
		}
		return true
	})
}

func isDirective(text string) bool {
	for _, prefix := range []string{"//go:", "//line ", "//export ", "//extern ", "// +build"} {
		if strings.HasPrefix(text, prefix) {
			return true
		}
	}
	return false
}
