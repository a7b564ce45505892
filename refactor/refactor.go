// Copyright 2020 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package refactor loads a Go module with full type information
// and writes the (possibly rewritten) syntax trees back out.
package refactor

import (
	"go/ast"
	"go/parser"
	"go/token"
	"go/types"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"golang.org/x/mod/modfile"
	"golang.org/x/tools/go/packages"
	"golang.org/x/xerrors"
)

// A Refactor holds the state for one module being rewritten.
type Refactor struct {
	dir     string
	modRoot string
	modPath string
}

// New returns a refactoring of the module containing dir.
func New(dir string) (*Refactor, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	if d, err := filepath.EvalSymlinks(dir); err == nil {
		dir = d
	}
	dir = filepath.Clean(dir)

	modRoot := dir
	for {
		data, err := os.ReadFile(filepath.Join(modRoot, "go.mod"))
		if err == nil {
			modPath := modfile.ModulePath(data)
			if modPath == "" {
				return nil, xerrors.Errorf("%s: no module directive", filepath.Join(modRoot, "go.mod"))
			}
			return &Refactor{dir: dir, modRoot: modRoot, modPath: modPath}, nil
		}
		if !os.IsNotExist(err) {
			return nil, xerrors.Errorf("loading module: %w", err)
		}
		parent := filepath.Dir(modRoot)
		if parent == modRoot {
			return nil, xerrors.Errorf("no module found for %s", dir)
		}
		modRoot = parent
	}
}

func (r *Refactor) ModPath() string { return r.modPath }
func (r *Refactor) ModRoot() string { return r.modRoot }

// InProgram reports whether the package path belongs to the module.
func (r *Refactor) InProgram(pkgPath string) bool {
	return pkgPath == r.modPath || strings.HasPrefix(pkgPath, r.modPath+"/")
}

// shortPath returns an absolute or relative name for path, whatever is shorter.
func (r *Refactor) shortPath(path string) string {
	if rel, err := filepath.Rel(r.dir, path); err == nil && len(rel) < len(path) {
		return rel
	}
	return path
}

// A Snapshot is the loaded, type-checked module.
// The syntax trees it holds are rewritten in place.
type Snapshot struct {
	r        *Refactor
	fset     *token.FileSet
	files    fileCache
	pkgs     []*Package
	warnings ErrorList
}

// A Package is one type-checked package of the module.
type Package struct {
	ID        string
	PkgPath   string
	Name      string
	Files     []*File
	Types     *types.Package
	TypesInfo *types.Info
}

func (p *Package) String() string { return p.PkgPath }

// A File is a source file of a Package.
type File struct {
	Name   string // absolute path
	Syntax *ast.File
}

type fileCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func (fc *fileCache) cacheRead(name string, src []byte) []byte {
	fc.mu.Lock()
	if fc.data[name] == nil {
		if fc.data == nil {
			fc.data = make(map[string][]byte)
		}
		fc.data[name] = src
	} else {
		src = fc.data[name]
	}
	fc.mu.Unlock()
	return src
}

func (fc *fileCache) ParseFile(fset *token.FileSet, filename string, src []byte) (*ast.File, error) {
	const mode = parser.AllErrors | parser.ParseComments
	return parser.ParseFile(fset, filename, fc.cacheRead(filename, src), mode)
}

const loadMode = packages.NeedName | packages.NeedFiles | packages.NeedCompiledGoFiles |
	packages.NeedImports | packages.NeedSyntax | packages.NeedTypes | packages.NeedTypesInfo

// Load loads and type-checks every non-test package of the module.
// Errors listing or parsing packages are returned as an *ErrorList.
// Type errors are not fatal; they are recorded in Warnings.
func (r *Refactor) Load() (*Snapshot, error) {
	s := &Snapshot{r: r, fset: token.NewFileSet()}
	cfg := &packages.Config{
		Mode:      loadMode,
		Dir:       r.modRoot,
		Tests:     false,
		Fset:      s.fset,
		ParseFile: s.files.ParseFile,
	}
	pkgs, err := packages.Load(cfg, "./...")
	if err != nil {
		return nil, xerrors.Errorf("loading packages: %w", err)
	}

	var fatal ErrorList
	for _, p := range pkgs {
		for _, e := range p.Errors {
			switch e.Kind {
			case packages.TypeError:
				// Reported through p.TypeErrors below.
			default:
				fatal.Add(packageError(e))
			}
		}
		for _, e := range p.TypeErrors {
			s.warnings.Add(e)
		}
		if !r.InProgram(p.PkgPath) || len(p.Syntax) == 0 {
			continue
		}
		rp := &Package{
			ID:        p.ID,
			PkgPath:   p.PkgPath,
			Name:      p.Name,
			Types:     p.Types,
			TypesInfo: p.TypesInfo,
		}
		for _, f := range p.Syntax {
			rp.Files = append(rp.Files, &File{Name: s.fset.Position(f.Package).Filename, Syntax: f})
		}
		sort.Slice(rp.Files, func(i, j int) bool { return rp.Files[i].Name < rp.Files[j].Name })
		s.pkgs = append(s.pkgs, rp)
	}
	if err := fatal.Err(); err != nil {
		return nil, err
	}
	if len(s.pkgs) == 0 {
		return nil, xerrors.Errorf("no packages found in %s", r.modRoot)
	}
	sort.Slice(s.pkgs, func(i, j int) bool { return s.pkgs[i].PkgPath < s.pkgs[j].PkgPath })
	return s, nil
}

func (s *Snapshot) Refactor() *Refactor  { return s.r }
func (s *Snapshot) Fset() *token.FileSet { return s.fset }
func (s *Snapshot) Packages() []*Package { return s.pkgs }

// InProgram reports whether the package path belongs to the module.
func (s *Snapshot) InProgram(pkgPath string) bool {
	return s.r.InProgram(pkgPath)
}

// Warnings returns the type errors found while loading, or nil.
func (s *Snapshot) Warnings() error { return s.warnings.Err() }

// ForeignPackages returns every package reachable through imports
// that does not belong to the module, sorted by path.
func (s *Snapshot) ForeignPackages() []*types.Package {
	seen := make(map[string]bool)
	var out []*types.Package
	var visit func(p *types.Package)
	visit = func(p *types.Package) {
		if p == nil || seen[p.Path()] {
			return
		}
		seen[p.Path()] = true
		if !s.InProgram(p.Path()) {
			out = append(out, p)
		}
		for _, imp := range p.Imports() {
			visit(imp)
		}
	}
	for _, p := range s.pkgs {
		visit(p.Types)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path() < out[j].Path() })
	return out
}

// packageError converts a go/packages error into an *Error,
// recovering the position from its "file:line:col" prefix.
func packageError(e packages.Error) *Error {
	var pos token.Position
	rest := e.Pos
	for i := 0; i < 2; i++ {
		j := strings.LastIndex(rest, ":")
		if j < 0 {
			break
		}
		n := 0
		for _, c := range rest[j+1:] {
			if c < '0' || c > '9' {
				n = -1
				break
			}
			n = n*10 + int(c-'0')
		}
		if n < 0 {
			break
		}
		pos.Column, pos.Line = pos.Line, n
		rest = rest[:j]
	}
	if pos.Line == 0 {
		return &Error{Msg: strings.TrimPrefix(e.Pos+": "+e.Msg, ": ")}
	}
	pos.Filename = rest
	return &Error{Pos: pos, Msg: e.Msg}
}
