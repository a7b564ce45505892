// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package obfuscate

import (
	"go/types"
	"strings"

	"rsc.io/scramble/mapping"
)

func qualifyByPath(p *types.Package) string { return p.Path() }

// signatureKey returns the scope key for variables declared in fn:
// its full name followed by its parameter and result types,
// as in "(*example.com/shop.Cart).Total(int, ...string) (int, error)".
func signatureKey(fn *types.Func) mapping.ScopeKey {
	sig := fn.Type().(*types.Signature)
	var b strings.Builder
	b.WriteString(fn.FullName())
	b.WriteByte('(')
	params := sig.Params()
	for i := 0; i < params.Len(); i++ {
		if i > 0 {
			b.WriteString(", ")
		}
		t := params.At(i).Type()
		if sig.Variadic() && i == params.Len()-1 {
			if s, ok := t.(*types.Slice); ok {
				b.WriteString("...")
				t = s.Elem()
			}
		}
		b.WriteString(types.TypeString(t, qualifyByPath))
	}
	b.WriteByte(')')

	results := sig.Results()
	switch results.Len() {
	case 0:
	case 1:
		b.WriteByte(' ')
		b.WriteString(types.TypeString(results.At(0).Type(), qualifyByPath))
	default:
		b.WriteString(" (")
		for i := 0; i < results.Len(); i++ {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(types.TypeString(results.At(i).Type(), qualifyByPath))
		}
		b.WriteByte(')')
	}
	return mapping.ScopeKey(b.String())
}

// typeKey returns the scope key for fields declared by tn.
func typeKey(tn *types.TypeName) mapping.ScopeKey {
	if tn.Pkg() == nil {
		return mapping.ScopeKey(tn.Name())
	}
	return mapping.ScopeKey(tn.Pkg().Path() + "." + tn.Name())
}
