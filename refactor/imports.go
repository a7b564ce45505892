// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package refactor

import (
	"go/ast"
	"go/token"
	"go/types"
	"strconv"

	"golang.org/x/tools/go/ast/astutil"
)

// DeleteUnusedImports removes the imports of file that no identifier
// in the current tree refers to. Blank and dot imports are kept.
// info must be the type information the tree was checked with;
// it is consulted for identifiers still present in the tree only.
func DeleteUnusedImports(fset *token.FileSet, file *ast.File, info *types.Info) []string {
	used := make(map[*types.PkgName]bool)
	ast.Inspect(file, func(n ast.Node) bool {
		if id, ok := n.(*ast.Ident); ok {
			if pn, ok := info.Uses[id].(*types.PkgName); ok {
				used[pn] = true
			}
		}
		return true
	})

	var deleted []string
	specs := append([]*ast.ImportSpec(nil), file.Imports...)
	for _, spec := range specs {
		name := importName(spec)
		if name == "_" || name == "." {
			continue
		}
		var obj types.Object
		if spec.Name != nil {
			obj = info.Defs[spec.Name]
		} else {
			obj = info.Implicits[spec]
		}
		pn, ok := obj.(*types.PkgName)
		if !ok || used[pn] {
			continue
		}
		path := importPath(spec)
		if astutil.DeleteNamedImport(fset, file, name, path) {
			deleted = append(deleted, path)
		}
	}
	return deleted
}

func importName(s *ast.ImportSpec) string {
	if s.Name == nil {
		return ""
	}
	return s.Name.Name
}

func importPath(s *ast.ImportSpec) string {
	t, err := strconv.Unquote(s.Path.Value)
	if err == nil {
		return t
	}
	return ""
}
