// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package refactor

import (
	"go/ast"
	"go/importer"
	"go/token"
	"go/types"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/tools/go/packages"
	"golang.org/x/xerrors"
)

func writeModule(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, text := range files {
		targ := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(targ), 0o777))
		require.NoError(t, os.WriteFile(targ, []byte(text), 0o666))
	}
	return dir
}

func TestNewFindsModuleRoot(t *testing.T) {
	dir := writeModule(t, map[string]string{
		"go.mod":       "module example.com/shop\n",
		"cart/cart.go": "package cart\n",
	})
	r, err := New(filepath.Join(dir, "cart"))
	require.NoError(t, err)
	assert.Equal(t, "example.com/shop", r.ModPath())
	root, _ := filepath.EvalSymlinks(dir)
	assert.Equal(t, root, r.ModRoot())

	assert.True(t, r.InProgram("example.com/shop"))
	assert.True(t, r.InProgram("example.com/shop/cart"))
	assert.False(t, r.InProgram("example.com/shopping"))
	assert.False(t, r.InProgram("strings"))
}

func TestNewNoModule(t *testing.T) {
	_, err := New(t.TempDir())
	require.Error(t, err)
}

func TestLoad(t *testing.T) {
	dir := writeModule(t, map[string]string{
		"go.mod": "module m\n",
		"b/b.go": "package b\n\nimport \"strings\"\n\nfunc Up(s string) string { return strings.ToUpper(s) }\n",
		"a.go":   "package m\n\nimport \"m/b\"\n\nfunc F() string { return b.Up(\"x\") }\n",
	})
	r, err := New(dir)
	require.NoError(t, err)
	s, err := r.Load()
	require.NoError(t, err)
	require.NoError(t, s.Warnings())

	var paths []string
	for _, p := range s.Packages() {
		paths = append(paths, p.PkgPath)
	}
	assert.Equal(t, []string{"m", "m/b"}, paths)

	var foreign []string
	for _, p := range s.ForeignPackages() {
		foreign = append(foreign, p.Path())
	}
	assert.Contains(t, foreign, "strings")
	assert.NotContains(t, foreign, "m/b")

	fs := afero.NewMemMapFs()
	require.NoError(t, s.WriteTo(fs, "/out"))
	for _, name := range []string{"/out/go.mod", "/out/a.go", "/out/b/b.go"} {
		ok, err := afero.Exists(fs, name)
		require.NoError(t, err)
		assert.True(t, ok, name)
	}
	ok, _ := afero.Exists(fs, "/out/go.sum")
	assert.False(t, ok)

	d, err := s.Diff()
	require.NoError(t, err)
	assert.Empty(t, d, "unmodified module produced a diff")
}

func TestLoadTypeErrorsAreWarnings(t *testing.T) {
	dir := writeModule(t, map[string]string{
		"go.mod": "module m\n",
		"a.go":   "package m\n\nfunc F() int { return undefined() }\n",
	})
	r, err := New(dir)
	require.NoError(t, err)
	s, err := r.Load()
	require.NoError(t, err)
	require.Error(t, s.Warnings())
	assert.Contains(t, s.Warnings().Error(), "undefined")
}

func TestLoadSyntaxErrorIsFatal(t *testing.T) {
	dir := writeModule(t, map[string]string{
		"go.mod": "module m\n",
		"a.go":   "package m\n\nfunc F( {\n",
	})
	r, err := New(dir)
	require.NoError(t, err)
	_, err = r.Load()
	require.Error(t, err)
	_, ok := err.(*ErrorList)
	assert.True(t, ok, "err = %T", err)
}

func TestPackageError(t *testing.T) {
	e := packageError(packages.Error{Pos: "/x/a.go:3:7", Msg: "expected ')'"})
	assert.Equal(t, "/x/a.go", e.Pos.Filename)
	assert.Equal(t, 3, e.Pos.Line)
	assert.Equal(t, 7, e.Pos.Column)
	assert.Equal(t, "/x/a.go:3:7: expected ')'", e.Error())

	e = packageError(packages.Error{Pos: "/x/a.go:3", Msg: "bad"})
	assert.Equal(t, 3, e.Pos.Line)
	assert.Equal(t, 0, e.Pos.Column)

	e = packageError(packages.Error{Msg: "no Go files"})
	assert.False(t, e.Pos.IsValid())
	assert.Equal(t, "no Go files", e.Error())
}

func TestDeleteUnusedImports(t *testing.T) {
	const src = `package p

import (
	"fmt"
	str "strings"
	_ "embed"
)

func F() string {
	fmt.Println()
	return str.ToUpper("x")
}
`
	fset := token.NewFileSet()
	file, err := ParseFile(fset, "p.go", []byte(src))
	require.NoError(t, err)
	info := &types.Info{
		Defs:      make(map[*ast.Ident]types.Object),
		Uses:      make(map[*ast.Ident]types.Object),
		Implicits: make(map[ast.Node]types.Object),
	}
	conf := types.Config{Importer: importer.ForCompiler(fset, "source", nil)}
	_, err = conf.Check("p", fset, []*ast.File{file}, info)
	require.NoError(t, err)

	// Drop the body, leaving fmt and strings unused.
	fn := file.Decls[1].(*ast.FuncDecl)
	fn.Body.List = []ast.Stmt{&ast.ReturnStmt{Results: []ast.Expr{&ast.BasicLit{Kind: token.STRING, Value: `""`}}}}

	deleted := DeleteUnusedImports(fset, file, info)
	assert.Equal(t, []string{"fmt", "strings"}, deleted)

	out, err := Format(fset, file)
	require.NoError(t, err)
	assert.NotContains(t, string(out), `"fmt"`)
	assert.NotContains(t, string(out), `"strings"`)
	assert.True(t, strings.Contains(string(out), `_ "embed"`))
}

func TestParseFileError(t *testing.T) {
	_, err := ParseFile(token.NewFileSet(), "bad.go", []byte("package p\nfunc {"))
	require.Error(t, err)
	_, ok := err.(*ErrorList)
	assert.True(t, ok, "err = %T", err)
	assert.True(t, strings.HasPrefix(err.Error(), "bad.go:2:"), err.Error())
}

func TestErrorList(t *testing.T) {
	var l ErrorList
	require.NoError(t, l.Err())
	at := func(line int) token.Position {
		return token.Position{Filename: "a.go", Offset: line * 10, Line: line, Column: 1}
	}
	for line := 4; line >= 1; line-- {
		l.Add(&Error{Pos: at(line), Msg: "undefined: x"})
	}
	l.Add(&Error{Pos: at(1), Msg: "undefined: x"})
	l.Add(&Error{Pos: at(9), Msg: "missing return"})
	l.Add(xerrors.New("no position"))

	fset := token.NewFileSet()
	f := fset.AddFile("b.go", -1, 100)
	l.Add(types.Error{Fset: fset, Pos: f.Pos(0), Msg: "x redeclared in this block"})
	l.Add(types.Error{Fset: fset, Pos: f.Pos(0), Msg: "\tother declaration of x"})

	require.Equal(t, 7, l.Len())
	assert.Equal(t, "no position\n"+
		"a.go:1:1: undefined: x [× 4]\n"+
		"a.go:9:1: missing return\n"+
		"b.go:1:1: x redeclared in this block\n"+
		"b.go:1:1: \tother declaration of x", l.Error())

	// Three repeats are still listed one by one.
	var short ErrorList
	for line := 1; line <= 3; line++ {
		short.Add(&Error{Pos: at(line), Msg: "undefined: y"})
	}
	var merged ErrorList
	merged.Add(&short)
	assert.Equal(t, "a.go:1:1: undefined: y\na.go:2:1: undefined: y\na.go:3:1: undefined: y", merged.Err().Error())
}
