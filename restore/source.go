// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package restore

import (
	"go/token"

	"rsc.io/scramble/refactor"
)

// Source parses src, restores it, and returns the formatted result.
// Parse errors are returned as a *refactor.ErrorList.
func (r *Restorer) Source(filename string, src []byte) ([]byte, *Result, error) {
	fset := token.NewFileSet()
	file, err := refactor.ParseFile(fset, filename, src)
	if err != nil {
		return nil, nil, err
	}
	res := r.File(file)
	for i := range res.Ambiguous {
		if res.Ambiguous[i].Pos.IsValid() {
			r.log.Sugar().Debugf("%s: ambiguous name %s", fset.Position(res.Ambiguous[i].Pos), res.Ambiguous[i].Name)
		}
	}
	out, err := refactor.Format(fset, file)
	if err != nil {
		return nil, nil, err
	}
	return out, res, nil
}
