// Copyright 2020 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package refactor

import (
	"bytes"
	"go/ast"
	"go/format"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"golang.org/x/xerrors"
	"rsc.io/scramble/diff"
)

// Format prints file in gofmt style.
func Format(fset *token.FileSet, file *ast.File) ([]byte, error) {
	var buf bytes.Buffer
	if err := format.Node(&buf, fset, file); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ParseFile parses a single source file without type checking.
// Syntax errors are returned as an *ErrorList.
func ParseFile(fset *token.FileSet, filename string, src []byte) (*ast.File, error) {
	f, err := parser.ParseFile(fset, filename, src, parser.ParseComments)
	if err != nil {
		var l ErrorList
		l.Add(err)
		return nil, l.Err()
	}
	return f, nil
}

// Output returns the current text of every module file, keyed by the path
// relative to the module root.
func (s *Snapshot) Output() (map[string][]byte, []string, error) {
	out := make(map[string][]byte)
	var names []string
	var errs ErrorList
	s.ForEachFile(func(_ *Package, f *File) {
		rel, err := filepath.Rel(s.r.modRoot, f.Name)
		if err != nil {
			errs.Add(err)
			return
		}
		text, err := Format(s.fset, f.Syntax)
		if err != nil {
			errs.Add(&Error{Pos: s.Position(f.Syntax.Package), Msg: "formatting: " + err.Error()})
			return
		}
		out[rel] = text
		names = append(names, rel)
	})
	if err := errs.Err(); err != nil {
		return nil, nil, err
	}
	return out, names, nil
}

// Diff returns a unified diff between the loaded sources
// and their current contents.
func (s *Snapshot) Diff() ([]byte, error) {
	out, names, err := s.Output()
	if err != nil {
		return nil, err
	}
	var diffs []byte
	for _, rel := range names {
		old := s.Text(filepath.Join(s.r.modRoot, rel))
		if bytes.Equal(old, out[rel]) {
			continue
		}
		d, err := diff.Diff("old/"+filepath.ToSlash(rel), old, "new/"+filepath.ToSlash(rel), out[rel])
		if err != nil {
			return nil, err
		}
		diffs = append(diffs, d...)
	}
	return diffs, nil
}

// WriteTo writes the module to dir in fs: go.mod, go.sum if present,
// and every loaded source file at its path relative to the module root.
// Nothing is written if any file fails to format.
func (s *Snapshot) WriteTo(fs afero.Fs, dir string) error {
	out, names, err := s.Output()
	if err != nil {
		return err
	}
	for _, name := range []string{"go.mod", "go.sum"} {
		data, err := os.ReadFile(filepath.Join(s.r.modRoot, name))
		if err != nil {
			if name == "go.sum" && os.IsNotExist(err) {
				continue
			}
			return xerrors.Errorf("copying %s: %w", name, err)
		}
		out[name] = data
		names = append(names, name)
	}

	created := make(map[string]bool)
	for _, rel := range names {
		targ := filepath.Join(dir, rel)
		if d := filepath.Dir(targ); !created[d] {
			if err := fs.MkdirAll(d, 0o777); err != nil {
				return xerrors.Errorf("writing output: %w", err)
			}
			created[d] = true
		}
		if err := afero.WriteFile(fs, targ, out[rel], 0o666); err != nil {
			return xerrors.Errorf("writing output: %w", err)
		}
	}
	return nil
}
