// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mapping

import (
	"go/token"
	"go/types"
	"math/rand/v2"
	"strings"
)

// A Generator produces fresh identifiers. Uniqueness is not promised;
// the mapping only asks for a name when it has none for a symbol.
type Generator interface {
	Generate(kind Kind) string
}

const (
	minLetters = 5
	maxLetters = 14
)

// A RandomGenerator returns the kind prefix followed by
// 5 to 14 random lower-case letters.
type RandomGenerator struct {
	rand *rand.Rand
}

// NewRandomGenerator returns a generator seeded from the runtime's source.
func NewRandomGenerator() *RandomGenerator {
	return &RandomGenerator{rand: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))}
}

// NewSeededGenerator returns a generator with a fixed seed,
// so that repeated runs yield the same names.
func NewSeededGenerator(seed uint64) *RandomGenerator {
	return &RandomGenerator{rand: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (g *RandomGenerator) Generate(kind Kind) string {
	for {
		n := minLetters + g.rand.IntN(maxLetters-minLetters+1)
		var b strings.Builder
		b.Grow(n + 1)
		b.WriteByte(kind.Prefix())
		for i := 0; i < n; i++ {
			b.WriteByte(byte('a' + g.rand.IntN(26)))
		}
		if name := b.String(); usable(name) {
			return name
		}
	}
}

// usable reports whether name can stand in for an identifier
// without colliding with the language itself.
func usable(name string) bool {
	return !token.IsKeyword(name) && types.Universe.Lookup(name) == nil
}

// A Sequence generates names from a per-kind counter:
// maaaaa, maaaab, and so on. It never repeats within a kind.
type Sequence struct {
	next [len(kindNames)]int
}

func (s *Sequence) Generate(kind Kind) string {
	for {
		n := s.next[kind]
		s.next[kind]++
		var buf [minLetters]byte
		for i := len(buf) - 1; i >= 0; i-- {
			buf[i] = byte('a' + n%26)
			n /= 26
		}
		if name := string(kind.Prefix()) + string(buf[:]); usable(name) {
			return name
		}
	}
}
