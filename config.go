// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"golang.org/x/xerrors"
	"rsc.io/scramble/obfuscate"
	"rsc.io/scramble/restore"
)

// configFlags maps configuration keys to the flags that set them.
// A flag given on the command line wins over the environment
// (SCRAMBLE_KEEPDOCS and so on), which wins over the config file.
var configFlags = map[string]string{
	"mode":         "mode",
	"out":          "out",
	"mapping":      "mapping",
	"keepComments": "keep-comments",
	"keepDocs":     "keep-docs",
	"keep":         "keep",
	"foreign":      "foreign",
	"seed":         "seed",
	"fields":       "fields",
	"testPrefixes": "test-prefixes",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("mode", obfuscate.Names.String())
	v.SetDefault("out", "build/scrambled")
	v.SetDefault("keep", obfuscate.DefaultKeep)
	v.SetDefault("testPrefixes", restore.DefaultTestPrefixes)
}

// readConfig loads .scramble.{yaml,toml,json} from the current directory,
// or the file named by --config, and binds the flags of cmd.
func (a *app) readConfig(cmd *cobra.Command) error {
	v := a.v
	v.SetFs(a.fs)
	setDefaults(v)
	v.SetEnvPrefix("SCRAMBLE")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	for key, name := range configFlags {
		if f := cmd.Flags().Lookup(name); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return err
			}
		}
	}

	if file, _ := cmd.Flags().GetString("config"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return xerrors.Errorf("reading config: %w", err)
		}
	} else {
		v.SetConfigName(".scramble")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return xerrors.Errorf("reading config: %w", err)
			}
		}
	}
	if used := v.ConfigFileUsed(); used != "" {
		a.log.Debug("config", zap.String("file", used))
	}
	return nil
}
