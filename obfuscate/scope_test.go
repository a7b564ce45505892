// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package obfuscate

import (
	"go/ast"
	"go/importer"
	"go/parser"
	"go/token"
	"go/types"
	"testing"

	"rsc.io/scramble/mapping"
)

const scopeSrc = `package p

import "io"

type T struct{ A int }

type List[E any] struct{ head E }

func F(a int, rest ...string) {}

func (t *T) M(r io.Reader) (int, error) { return 0, nil }

func (t T) V() bool { return false }

func (l *List[E]) Push(e E) {}
`

func checkSource(t *testing.T, src string) (*token.FileSet, *ast.File, *types.Package, *types.Info) {
	t.Helper()
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, "p.go", src, parser.ParseComments)
	if err != nil {
		t.Fatal(err)
	}
	info := &types.Info{
		Defs:      make(map[*ast.Ident]types.Object),
		Uses:      make(map[*ast.Ident]types.Object),
		Types:     make(map[ast.Expr]types.TypeAndValue),
		Implicits: make(map[ast.Node]types.Object),
	}
	conf := types.Config{Importer: importer.ForCompiler(fset, "source", nil)}
	pkg, err := conf.Check("example.com/p", fset, []*ast.File{file}, info)
	if err != nil {
		t.Fatal(err)
	}
	return fset, file, pkg, info
}

func TestSignatureKey(t *testing.T) {
	_, _, pkg, _ := checkSource(t, scopeSrc)
	lookup := func(recv, name string) *types.Func {
		if recv == "" {
			return pkg.Scope().Lookup(name).(*types.Func)
		}
		named := pkg.Scope().Lookup(recv).Type().(*types.Named)
		for i := 0; i < named.NumMethods(); i++ {
			if m := named.Method(i); m.Name() == name {
				return m
			}
		}
		t.Fatalf("no method %s.%s", recv, name)
		return nil
	}

	tests := []struct {
		recv, name string
		want       mapping.ScopeKey
	}{
		{"", "F", "example.com/p.F(int, ...string)"},
		{"T", "M", "(*example.com/p.T).M(io.Reader) (int, error)"},
		{"T", "V", "(example.com/p.T).V() bool"},
		{"List", "Push", "(*example.com/p.List[E]).Push(E)"},
	}
	for _, tt := range tests {
		if got := signatureKey(lookup(tt.recv, tt.name)); got != tt.want {
			t.Errorf("signatureKey(%s.%s) = %q, want %q", tt.recv, tt.name, got, tt.want)
		}
	}

	tn := pkg.Scope().Lookup("T").(*types.TypeName)
	if got := typeKey(tn); got != "example.com/p.T" {
		t.Errorf("typeKey(T) = %q", got)
	}
}
