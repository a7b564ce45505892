// Copyright 2020 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package refactor

import (
	"go/ast"
	"go/token"
)

func (s *Snapshot) Position(pos token.Pos) token.Position {
	return s.fset.Position(pos)
}

// Addr returns pos formatted as file:line:col,
// with the file name relative to the working directory when shorter.
func (s *Snapshot) Addr(pos token.Pos) string {
	p := s.Position(pos)
	p.Filename = s.r.shortPath(p.Filename)
	return p.String()
}

// Text returns the original source of the named file.
func (s *Snapshot) Text(name string) []byte {
	return s.files.cacheRead(name, nil)
}

// Walk calls f for every node in the tree rooted at n.
// The stack passed to f starts with the node itself,
// followed by its parent, grandparent, and so on.
func Walk(n ast.Node, f func(stack []ast.Node)) {
	WalkRange(n, 0, token.Pos(^uint(0)>>1), f)
}

func WalkRange(n ast.Node, lo, hi token.Pos, f func(stack []ast.Node)) {
	var stack []ast.Node
	var stackPos int

	ast.Inspect(n, func(n ast.Node) bool {
		if n == nil {
			stackPos++
			return true
		}
		if n.End() < lo || hi <= n.Pos() {
			return false
		}
		if stackPos == 0 {
			old := len(stack)
			stack = append(stack, nil)
			stack = stack[:cap(stack)]
			copy(stack[len(stack)-old:], stack[:old])
			stackPos = len(stack) - old
		}
		stackPos--
		stack[stackPos] = n
		f(stack[stackPos:])
		return true
	})

	if stackPos != len(stack) {
		panic("internal stack error")
	}
}

// ForEachFile calls f for each file of the module,
// in package path order and then file name order.
func (s *Snapshot) ForEachFile(f func(pkg *Package, file *File)) {
	seen := make(map[string]bool)
	for _, p := range s.pkgs {
		for _, file := range p.Files {
			if seen[file.Name] {
				continue
			}
			seen[file.Name] = true
			f(p, file)
		}
	}
}
