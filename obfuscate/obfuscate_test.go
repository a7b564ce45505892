// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package obfuscate

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/tools/txtar"
	"rsc.io/scramble/mapping"
	"rsc.io/scramble/refactor"
)

func TestRun(t *testing.T) {
	files, err := filepath.Glob("testdata/*.txt")
	if err != nil {
		t.Fatal(err)
	}
	if len(files) == 0 {
		t.Fatal("no test cases")
	}

	for _, file := range files {
		t.Run(filepath.Base(file), func(t *testing.T) {
			ar, err := txtar.ParseFile(file)
			if err != nil {
				t.Fatal(err)
			}
			opts := parseOptions(t, ar.Comment)
			dir := writeArchive(t, ar)

			r, err := refactor.New(dir)
			if err != nil {
				t.Fatal(err)
			}
			s, err := r.Load()
			if err != nil {
				t.Fatal(err)
			}
			m := mapping.New(&mapping.Sequence{})
			Run(s, m, opts)

			out, _, err := s.Output()
			if err != nil {
				t.Fatal(err)
			}
			for _, f := range ar.Files {
				switch {
				case strings.HasPrefix(f.Name, "want/"):
					name := filepath.FromSlash(strings.TrimPrefix(f.Name, "want/"))
					have, ok := out[name]
					if !ok {
						t.Errorf("no output for %s", name)
						continue
					}
					cmp(t, name, have, f.Data)
				case f.Name == "mapping":
					cmp(t, "mapping", dump(m), f.Data)
				}
			}
		})
	}
}

// writeArchive writes the archive's input files to a new module directory.
func writeArchive(t *testing.T, ar *txtar.Archive) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "go.mod"), []byte("module m\n\ngo 1.22\n"), 0o666); err != nil {
		t.Fatal(err)
	}
	for _, f := range ar.Files {
		if strings.HasPrefix(f.Name, "want/") || f.Name == "mapping" {
			continue
		}
		targ := filepath.Join(dir, filepath.FromSlash(f.Name))
		if err := os.MkdirAll(filepath.Dir(targ), 0o777); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(targ, f.Data, 0o666); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

// parseOptions reads the last non-empty line of the archive comment,
// a list of words such as "mode=all keepdocs".
func parseOptions(t *testing.T, comment []byte) Options {
	t.Helper()
	lines := strings.Split(strings.TrimSpace(string(comment)), "\n")
	var opts Options
	for _, word := range strings.Fields(lines[len(lines)-1]) {
		switch {
		case strings.HasPrefix(word, "mode="):
			mode, err := ParseMode(strings.TrimPrefix(word, "mode="))
			if err != nil {
				t.Fatal(err)
			}
			opts.Mode = mode
		case word == "keepdocs":
			opts.KeepDocs = true
		case word == "keepcomments":
			opts.KeepComments = true
		default:
			t.Fatalf("unknown option %q", word)
		}
	}
	return opts
}

func dump(m *mapping.Mapping) []byte {
	var buf bytes.Buffer
	m.WriteText(&buf)
	return buf.Bytes()
}

func cmp(t *testing.T, name string, have, want []byte) {
	t.Helper()
	if h, w := normalize(have), normalize(want); h != w {
		t.Errorf("%s:\n%s", name, have)
		t.Errorf("want:\n%s", want)
	}
}

// normalize drops blank lines and collapses runs of white space,
// so that comparisons ignore gofmt alignment.
func normalize(data []byte) string {
	var lines []string
	for _, line := range strings.Split(string(data), "\n") {
		if f := strings.Fields(line); len(f) > 0 {
			lines = append(lines, strings.Join(f, " "))
		}
	}
	return strings.Join(lines, "\n")
}

func TestRenameReusesMapping(t *testing.T) {
	ar := txtar.Parse([]byte(`
-- a.go --
package m

func area(w, h int) int { return w * h }

func Perimeter(w, h int) int { return 2 * (w + h) }
`))
	m := mapping.New(nil)
	var outs []string
	for i := 0; i < 2; i++ {
		r, err := refactor.New(writeArchive(t, ar))
		require.NoError(t, err)
		s, err := r.Load()
		require.NoError(t, err)
		Rename(s, m, Options{})
		out, _, err := s.Output()
		require.NoError(t, err)
		outs = append(outs, string(out["a.go"]))
	}
	require.Equal(t, outs[0], outs[1])
	require.Equal(t, 2, len(m.Methods))
	require.NotContains(t, outs[0], "area")
	require.NotContains(t, outs[0], "Perimeter")
}

func TestRunNeverMapsEntryPoints(t *testing.T) {
	ar := txtar.Parse([]byte(`
-- main.go --
package main

func init() { setup(1) }

func setup(n int) {}

func main() { setup(2) }
`))
	r, err := refactor.New(writeArchive(t, ar))
	require.NoError(t, err)
	s, err := r.Load()
	require.NoError(t, err)
	m := mapping.New(nil)
	st := Run(s, m, Options{Mode: All})

	require.NotContains(t, m.Methods, "main")
	require.NotContains(t, m.Methods, "init")
	require.Contains(t, m.Methods, "setup")
	require.Equal(t, 1, st.Bodies)

	out, _, err := s.Output()
	require.NoError(t, err)
	text := string(out["main.go"])
	require.Contains(t, text, "func main() { "+m.Methods["setup"]+"(2) }")
	require.Contains(t, text, "func init() { "+m.Methods["setup"]+"(1) }")
}

func TestRunNeverMapsEntryPointMethods(t *testing.T) {
	ar := txtar.Parse([]byte(`
-- main.go --
package main

type T struct{}

func (T) main() {}

func (t T) run() { t.main() }

func again() { main() }

func main() { again() }
`))
	r, err := refactor.New(writeArchive(t, ar))
	require.NoError(t, err)
	s, err := r.Load()
	require.NoError(t, err)
	m := mapping.New(nil)
	Run(s, m, Options{Mode: Names})

	require.NotContains(t, m.Methods, "main")
	require.Contains(t, m.Methods, "run")
	require.Contains(t, m.Methods, "again")

	out, _, err := s.Output()
	require.NoError(t, err)
	text := string(out["main.go"])
	require.Contains(t, text, "func (T) main() {}")
	require.Contains(t, text, ".main() }")
	require.Contains(t, text, "func "+m.Methods["again"]+"() { main() }")
	require.Contains(t, text, "func main() { "+m.Methods["again"]+"() }")
}

func TestRunForeignPrefix(t *testing.T) {
	ar := txtar.Parse([]byte(`
-- gen/gen.go --
package gen

func Build(n int) int { return n }
-- main.go --
package main

import "m/gen"

func Build(n int) int { return gen.Build(n) }

func main() { Build(1) }
`))
	r, err := refactor.New(writeArchive(t, ar))
	require.NoError(t, err)
	s, err := r.Load()
	require.NoError(t, err)
	m := mapping.New(&mapping.Sequence{})
	Rename(s, m, Options{Foreign: []string{"m/gen"}})

	out, _, err := s.Output()
	require.NoError(t, err)
	require.Contains(t, string(out["main.go"]), "func Maaaaa(paaaaa int) int { return gen.Build(paaaaa) }")
	require.Contains(t, string(out[filepath.Join("gen", "gen.go")]), "func Build(n int) int { return n }")
}
