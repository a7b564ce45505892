// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
	"rsc.io/scramble/mapping"
)

func (a *app) showCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the saved mapping",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, _ := cmd.Flags().GetString("format")
			return a.show(format)
		},
	}
	cmd.Flags().String("format", "yaml", "output `format`: yaml or text")
	return cmd
}

// A mappingDoc is the YAML form of a mapping.
type mappingDoc struct {
	Methods mapping.Table                      `yaml:"methods,omitempty"`
	Params  map[mapping.ScopeKey]mapping.Table `yaml:"params,omitempty"`
	Locals  map[mapping.ScopeKey]mapping.Table `yaml:"locals,omitempty"`
	Fields  map[mapping.ScopeKey]mapping.Table `yaml:"fields,omitempty"`
}

func (a *app) show(format string) error {
	if format != "yaml" && format != "text" {
		return newErrUsage("unknown format %q", format)
	}
	m, err := a.loadMapping()
	if err != nil {
		return err
	}
	if format == "text" {
		return m.WriteText(a.stdout)
	}
	enc := yaml.NewEncoder(a.stdout)
	enc.SetIndent(2)
	if err := enc.Encode(&mappingDoc{Methods: m.Methods, Params: m.Params, Locals: m.Locals, Fields: m.Fields}); err != nil {
		return err
	}
	return enc.Close()
}
