// Copyright 2019 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package diff produces unified diffs of source files.
package diff

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// Diff returns a unified diff of old and new, labeled with the given names,
// with three lines of context. It returns nil if the inputs are identical.
func Diff(oldName string, old []byte, newName string, new []byte) ([]byte, error) {
	if bytes.Equal(old, new) {
		return nil, nil
	}
	text, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        lines(old),
		B:        lines(new),
		FromFile: oldName,
		ToFile:   newName,
		Context:  3,
	})
	if err != nil {
		return nil, err
	}
	if text == "" {
		return nil, nil
	}
	return []byte(fmt.Sprintf("diff %s %s\n", oldName, newName) + text), nil
}

// lines splits data after each newline. A final line
// without one gets one, so that hunks print cleanly.
func lines(data []byte) []string {
	if len(data) == 0 {
		return nil
	}
	list := strings.SplitAfter(string(data), "\n")
	if list[len(list)-1] == "" {
		list = list[:len(list)-1]
	}
	if last := list[len(list)-1]; !strings.HasSuffix(last, "\n") {
		list[len(list)-1] = last + "\n"
	}
	return list
}
