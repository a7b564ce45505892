// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package obfuscate

import "golang.org/x/xerrors"

// A Mode selects which rewrites Run performs.
type Mode int

const (
	// Names renames identifiers and strips comments.
	Names Mode = iota
	// Bodies replaces function bodies with zero-value returns.
	Bodies
	// All does both: names first, then bodies.
	All
)

var modeNames = [...]string{
	Names:  "names",
	Bodies: "bodies",
	All:    "all",
}

func (m Mode) String() string {
	if 0 <= m && int(m) < len(modeNames) {
		return modeNames[m]
	}
	return "mode?"
}

// ParseMode returns the mode with the given name.
func ParseMode(s string) (Mode, error) {
	for i, name := range modeNames {
		if s == name {
			return Mode(i), nil
		}
	}
	return 0, xerrors.Errorf("unknown mode %q (want names, bodies, or all)", s)
}

func (m Mode) renames() bool       { return m == Names || m == All }
func (m Mode) removesBodies() bool { return m == Bodies || m == All }
