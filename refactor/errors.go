// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package refactor

import (
	"cmp"
	"fmt"
	"go/scanner"
	"go/token"
	"go/types"
	"slices"
	"strings"
)

// An Error is a problem found at a source position.
// Errors without a valid position print only their message.
type Error struct {
	Pos token.Position
	Msg string
}

func (e *Error) Error() string {
	if e.Pos.IsValid() {
		return e.Pos.String() + ": " + e.Msg
	}
	return e.Msg
}

// An ErrorList collects the problems found while loading, parsing or
// formatting a module, dropping exact repeats. The zero value is ready to use.
type ErrorList struct {
	errs []*Error
	seen map[Error]bool
}

// Add records err in l. Positions are taken from Error, scanner.Error and
// types.Error values, and lists are merged. A types.Error continuing the
// previous one (its message starts with a tab) is appended to it.
func (l *ErrorList) Add(err error) {
	var e *Error
	switch err := err.(type) {
	case nil:
		return
	case *ErrorList:
		for _, e := range err.errs {
			l.Add(e)
		}
		return
	case scanner.ErrorList:
		for _, e := range err {
			l.Add(e)
		}
		return
	case *Error:
		e = err
	case *scanner.Error:
		e = &Error{Pos: err.Pos, Msg: err.Msg}
	case types.Error:
		e = &Error{Pos: err.Fset.Position(err.Pos), Msg: err.Msg}
		if strings.HasPrefix(err.Msg, "\t") && len(l.errs) > 0 {
			last := l.errs[len(l.errs)-1]
			last.Msg += "\n" + e.Error()
			return
		}
	default:
		e = &Error{Msg: err.Error()}
	}

	if l.seen[*e] {
		return
	}
	if l.seen == nil {
		l.seen = make(map[Error]bool)
	}
	l.seen[*e] = true
	l.errs = append(l.errs, e)
}

// Error returns the errors one per line, ordered by file and offset.
// A message reported at more than three positions is printed once, at its
// first position, followed by its count.
func (l *ErrorList) Error() string {
	if len(l.errs) == 0 {
		return "no errors"
	}
	slices.SortStableFunc(l.errs, func(x, y *Error) int {
		return cmp.Or(
			strings.Compare(x.Pos.Filename, y.Pos.Filename),
			cmp.Compare(x.Pos.Offset, y.Pos.Offset))
	})

	count := make(map[string]int)
	for _, e := range l.errs {
		count[e.Msg]++
	}
	var lines []string
	for _, e := range l.errs {
		n := count[e.Msg]
		switch {
		case n < 0:
			continue
		case n > 3:
			count[e.Msg] = -1
			lines = append(lines, fmt.Sprintf("%s [× %d]", e, n))
		default:
			lines = append(lines, e.Error())
		}
	}
	return strings.Join(lines, "\n")
}

// Len returns the number of distinct errors in l.
func (l *ErrorList) Len() int { return len(l.errs) }

// Errors returns the errors in l.
func (l *ErrorList) Errors() []*Error { return l.errs }

// Err returns l, or nil if l is empty.
func (l *ErrorList) Err() error {
	if len(l.errs) == 0 {
		return nil
	}
	return l
}
