// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/xerrors"
	"rsc.io/scramble/mapping"
	"rsc.io/scramble/obfuscate"
	"rsc.io/scramble/refactor"
)

func (a *app) obfuscateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "obfuscate [dir]",
		Short: "Write a scrambled copy of the module containing dir",
		Long: `Obfuscate loads the module containing dir (default ".") and writes a copy
with generated names to the output directory. The names it chose are saved
in the mapping file so that restore can undo them later.

With --diff, nothing is written: the changes are printed as a diff and
the mapping is not saved.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			showDiff, _ := cmd.Flags().GetBool("diff")
			extend, _ := cmd.Flags().GetBool("append")
			return a.obfuscate(dir, showDiff, extend)
		},
	}
	f := cmd.Flags()
	f.String("mode", obfuscate.Names.String(), "what to change: names, bodies or all")
	f.StringP("out", "o", "build/scrambled", "write the scrambled module to `dir`")
	f.Bool("diff", false, "print a diff instead of writing files")
	f.Bool("append", false, "extend the saved mapping instead of starting a new one")
	f.Bool("keep-comments", false, "do not strip comments when renaming")
	f.Bool("keep-docs", false, "keep doc comments on functions when stripping comments")
	f.StringSlice("keep", obfuscate.DefaultKeep, "method `names` never to rename")
	f.StringSlice("foreign", nil, "import path `prefixes` to treat as library code")
	f.Uint64("seed", 0, "seed for generated names; 0 picks a random one")
	return cmd
}

func (a *app) obfuscate(dir string, showDiff, extend bool) error {
	mode, err := obfuscate.ParseMode(a.v.GetString("mode"))
	if err != nil {
		return newErrUsage("%v", err)
	}

	r, err := refactor.New(dir)
	if err != nil {
		return err
	}
	s, err := r.Load()
	if err != nil {
		return err
	}
	a.logWarnings(s)

	gen := a.newGenerator(a.v.GetUint64("seed"))
	store := a.store()
	m := mapping.New(gen)
	if extend {
		old, info, err := store.Load()
		switch {
		case err == nil:
			if info.Module != r.ModPath() {
				a.log.Warn("extending the mapping of another module",
					zap.String("mapping", info.Module), zap.String("module", r.ModPath()))
			}
			old.SetGenerator(gen)
			m = old
		case xerrors.Is(err, mapping.ErrNotFound):
			a.log.Info("no mapping to extend, starting a new one", zap.String("mapping", store.Path()))
		default:
			return err
		}
	}

	stats := obfuscate.Run(s, m, obfuscate.Options{
		Mode:         mode,
		Keep:         a.v.GetStringSlice("keep"),
		Foreign:      a.v.GetStringSlice("foreign"),
		KeepComments: a.v.GetBool("keepComments"),
		KeepDocs:     a.v.GetBool("keepDocs"),
		Log:          a.log,
	})
	a.log.Info("scrambled", zap.String("module", r.ModPath()), zap.String("mode", mode.String()), zap.Stringer("stats", stats))

	if showDiff {
		d, err := s.Diff()
		if err != nil {
			return err
		}
		_, err = a.stdout.Write(d)
		return err
	}

	out := a.v.GetString("out")
	if err := s.WriteTo(a.fs, out); err != nil {
		return err
	}
	if mode == obfuscate.Bodies && !extend {
		a.log.Info("wrote module", zap.String("out", out))
		return nil
	}
	if err := store.Save(m, mapping.NewInfo(r.ModPath())); err != nil {
		return err
	}
	a.log.Info("wrote module", zap.String("out", out), zap.String("mapping", store.Path()), zap.Int("names", m.Len()))
	return nil
}

// logWarnings reports type errors found while loading.
// They do not stop the rewrite.
func (a *app) logWarnings(s *refactor.Snapshot) {
	w := s.Warnings()
	if w == nil {
		return
	}
	var list *refactor.ErrorList
	if !xerrors.As(w, &list) {
		a.log.Warn(w.Error())
		return
	}
	for _, e := range list.Errors() {
		a.log.Warn("type error", zap.String("pos", e.Pos.String()), zap.String("msg", e.Msg))
	}
}
