// Copyright 2020 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Scramble reversibly renames the identifiers of a Go module.
//
// Usage:
//
//	scramble obfuscate [--mode names|bodies|all] [-o dir] [--diff] [--append] [dir]
//	scramble restore [--diff] [--fields] file.go...
//	scramble show [--format yaml|text]
//
// Obfuscate loads the module containing dir and writes a copy of it,
// by default to build/scrambled, in which functions, methods, parameters,
// local variables and struct fields have generated names:
//
//	func (c *Cart) calculateTotal(discount int) int
//
// becomes
//
//	func (pzrbtlo *Cart) mxqkvtrb(pwhzmeag int) int
//
// Every generated name starts with a letter saying what it names
// (m for functions and methods, p for parameters, l for locals, f for
// fields) and is capitalized exactly when the original was, so exported
// names stay exported. The names chosen are saved to the mapping file,
// build/scramble-mapping.bin by default.
//
// Names that the program does not own are left alone: main and init,
// methods that implement interfaces declared outside the module (such as
// Error or String), functions named by //export or //go:linkname,
// embedded and tagged struct fields, and anything reached through an
// imported package.
//
// The --mode flag selects what is changed. In names mode, identifiers are
// renamed and comments other than directives are removed (--keep-comments
// and --keep-docs retain some). In bodies mode, every function body is
// replaced by a return of zero values. All mode does both.
//
// Restore takes files written against the scrambled module, typically
// tests, and puts the original method names back in them. A test named
// for a generated name, such as TestMxqkvtrb, becomes TestCalculateTotal.
// With --fields, field selectors are restored too when the generated
// name belongs to a single type.
//
// Show prints the saved mapping.
//
// # Configuration
//
// Every flag may also be set in a .scramble.yaml, .scramble.toml or
// .scramble.json file in the current directory (or the file named by
// --config), or in the environment as SCRAMBLE_<KEY>. The keys are mode,
// out, mapping, keepComments, keepDocs, keep, foreign, seed, fields and
// testPrefixes. Flags override the environment, which overrides the file.
package main
