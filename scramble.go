// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/xerrors"
	"rsc.io/scramble/mapping"
)

func main() {
	a := newApp(os.Stdout, os.Stderr, afero.NewOsFs())
	if err := a.root().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "scramble: %v\n", err)
		var u *errUsage
		if xerrors.As(err, &u) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

// An app is one invocation of the command.
type app struct {
	stdout io.Writer
	stderr io.Writer
	fs     afero.Fs // mapping, output tree and files to restore

	v     *viper.Viper
	level zap.AtomicLevel
	log   *zap.Logger

	// newGenerator returns the source of fresh names.
	// seed is the configured seed, zero if none.
	newGenerator func(seed uint64) mapping.Generator
}

func newApp(stdout, stderr io.Writer, fs afero.Fs) *app {
	return &app{
		stdout:       stdout,
		stderr:       stderr,
		fs:           fs,
		v:            viper.New(),
		level:        zap.NewAtomicLevelAt(zap.InfoLevel),
		newGenerator: defaultGenerator,
	}
}

func defaultGenerator(seed uint64) mapping.Generator {
	if seed != 0 {
		return mapping.NewSeededGenerator(seed)
	}
	return mapping.NewRandomGenerator()
}

func (a *app) root() *cobra.Command {
	var verbose bool
	cmd := &cobra.Command{
		Use:   "scramble",
		Short: "Reversibly rename the identifiers of a Go module",
		Long: `Scramble replaces the names of functions, methods, parameters, local
variables and struct fields in a Go module with generated names, and
records what it did so that code written against the scrambled module
can have its names restored.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if verbose {
				a.level.SetLevel(zap.DebugLevel)
			}
			a.log = a.newLogger()
			return a.readConfig(cmd)
		},
	}
	pf := cmd.PersistentFlags()
	pf.String("config", "", "read configuration from `file`")
	pf.String("mapping", mapping.DefaultPath, "mapping artifact `file`")
	pf.BoolVarP(&verbose, "verbose", "v", false, "log every rename")

	cmd.AddCommand(a.obfuscateCmd(), a.restoreCmd(), a.showCmd())
	return cmd
}

// newLogger returns a console logger writing to a.stderr.
// Levels are colored when stderr is a terminal.
func (a *app) newLogger() *zap.Logger {
	ec := zap.NewDevelopmentEncoderConfig()
	ec.TimeKey = ""
	ec.CallerKey = ""
	if f, ok := a.stderr.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		ec.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	return zap.New(zapcore.NewCore(zapcore.NewConsoleEncoder(ec), zapcore.Lock(zapcore.AddSync(a.stderr)), a.level))
}

func (a *app) store() *mapping.Store {
	return mapping.NewStore(a.fs, a.v.GetString("mapping"))
}
