// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"path/filepath"
	"runtime"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/xerrors"
	"rsc.io/scramble/diff"
	"rsc.io/scramble/mapping"
	"rsc.io/scramble/restore"
)

func (a *app) restoreCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "restore file.go...",
		Short: "Put original names back into files written against a scrambled module",
		Long: `Restore rewrites the named files, usually tests written against the
scrambled module, replacing generated method names with the originals
recorded in the mapping file. Files are rewritten in place unless --diff
is given.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			showDiff, _ := cmd.Flags().GetBool("diff")
			return a.restore(args, showDiff)
		},
	}
	f := cmd.Flags()
	f.Bool("diff", false, "print a diff instead of rewriting files")
	f.Bool("fields", false, "also restore field names that belong to a single type")
	f.StringSlice("test-prefixes", restore.DefaultTestPrefixes, "function name `prefixes` that precede a method name")
	return cmd
}

// loadMapping reads the saved mapping, turning a missing file
// into a precondition error that says what to do about it.
func (a *app) loadMapping() (*mapping.Mapping, error) {
	store := a.store()
	m, info, err := store.Load()
	if err != nil {
		if xerrors.Is(err, mapping.ErrNotFound) {
			return nil, newErrPrecondition("no mapping at %s; run scramble obfuscate first", store.Path())
		}
		return nil, err
	}
	a.log.Info("loaded mapping",
		zap.String("module", info.Module),
		zap.String("run", info.Run.String()),
		zap.Time("created", info.Created),
		zap.Int("names", m.Len()))
	return m, nil
}

func (a *app) restore(files []string, showDiff bool) error {
	m, err := a.loadMapping()
	if err != nil {
		return err
	}
	rev, collisions := m.Reverse()
	for _, c := range collisions {
		a.log.Warn("generated name shared by several originals", zap.Stringer("collision", c))
	}

	r := restore.New(rev, restore.Options{
		TestPrefixes: a.v.GetStringSlice("testPrefixes"),
		Fields:       a.v.GetBool("fields"),
		Log:          a.log,
	})
	// Files are parsed and rewritten concurrently
	// but reported and written in command line order.
	type restored struct {
		src, out []byte
		res      *restore.Result
	}
	results := make([]restored, len(files))
	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, file := range files {
		g.Go(func() error {
			src, err := afero.ReadFile(a.fs, file)
			if err != nil {
				return err
			}
			out, res, err := r.Source(file, src)
			if err != nil {
				return err
			}
			results[i] = restored{src, out, res}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for i, file := range files {
		src, out, res := results[i].src, results[i].out, results[i].res
		if !res.Changed() {
			a.log.Debug("nothing to restore", zap.String("file", file))
			continue
		}
		a.log.Info("restored",
			zap.String("file", file),
			zap.Int("calls", res.Calls),
			zap.Int("refs", res.Refs),
			zap.Int("decls", res.Decls),
			zap.Int("fields", res.Fields),
			zap.Int("ambiguous", len(res.Ambiguous)))

		if showDiff {
			name := filepath.ToSlash(file)
			d, err := diff.Diff("old/"+name, src, "new/"+name, out)
			if err != nil {
				return err
			}
			if _, err := a.stdout.Write(d); err != nil {
				return err
			}
			continue
		}
		fi, err := a.fs.Stat(file)
		if err != nil {
			return err
		}
		if err := afero.WriteFile(a.fs, file, out, fi.Mode().Perm()); err != nil {
			return err
		}
	}
	return nil
}
