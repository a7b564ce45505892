// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mapping

import (
	"bytes"
	"os"
	"path/filepath"
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"
	"github.com/spf13/afero"
	"golang.org/x/xerrors"
)

// DefaultPath is where the mapping lives, relative to the current directory.
const DefaultPath = "build/scramble-mapping.bin"

const (
	magic   = "SCRM"
	version = 1
)

// ErrNotFound is returned by Load when no mapping has been saved.
var ErrNotFound = xerrors.New("mapping not found")

// A FormatError reports a mapping file that exists but cannot be decoded.
type FormatError struct {
	Path string
	Err  error
}

func (e *FormatError) Error() string {
	return "malformed mapping " + e.Path + ": " + e.Err.Error()
}

func (e *FormatError) Unwrap() error { return e.Err }

// Info describes the run that produced a saved mapping.
type Info struct {
	Run     uuid.UUID
	Created time.Time
	Module  string
}

// NewInfo returns an Info for a fresh run over module.
func NewInfo(module string) Info {
	return Info{Run: uuid.New(), Created: time.Now().UTC(), Module: module}
}

type artifact struct {
	Version int                `cbor:"1,keyasint"`
	Run     string             `cbor:"2,keyasint"`
	Created int64              `cbor:"3,keyasint"`
	Module  string             `cbor:"4,keyasint"`
	Methods Table              `cbor:"5,keyasint"`
	Params  map[ScopeKey]Table `cbor:"6,keyasint"`
	Locals  map[ScopeKey]Table `cbor:"7,keyasint"`
	Fields  map[ScopeKey]Table `cbor:"8,keyasint"`
}

// A Store reads and writes the mapping artifact at a single path.
type Store struct {
	fs   afero.Fs
	path string
}

// NewStore returns a store for the artifact at file within fs.
func NewStore(fs afero.Fs, file string) *Store {
	return &Store{fs: fs, path: file}
}

func (s *Store) Path() string { return s.path }

// Save writes m, replacing any previous artifact.
// The file is written beside its final name and renamed into place.
func (s *Store) Save(m *Mapping, info Info) error {
	em, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		return err
	}
	raw, err := em.Marshal(&artifact{
		Version: version,
		Run:     info.Run.String(),
		Created: info.Created.Unix(),
		Module:  info.Module,
		Methods: m.Methods,
		Params:  m.Params,
		Locals:  m.Locals,
		Fields:  m.Fields,
	})
	if err != nil {
		return xerrors.Errorf("encoding mapping: %w", err)
	}

	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	buf.WriteString(magic)
	buf.WriteByte(version)
	buf.Write(enc.EncodeAll(raw, nil))
	enc.Close()

	if dir := filepath.Dir(s.path); dir != "." {
		if err := s.fs.MkdirAll(dir, 0o777); err != nil {
			return xerrors.Errorf("saving mapping: %w", err)
		}
	}
	tmp := s.path + ".tmp"
	if err := afero.WriteFile(s.fs, tmp, buf.Bytes(), 0o666); err != nil {
		return xerrors.Errorf("saving mapping: %w", err)
	}
	if err := s.fs.Rename(tmp, s.path); err != nil {
		s.fs.Remove(tmp)
		return xerrors.Errorf("saving mapping: %w", err)
	}
	return nil
}

// Load reads the artifact. It returns an error wrapping ErrNotFound if there
// is none, and a *FormatError if the file cannot be decoded.
func (s *Store) Load() (*Mapping, Info, error) {
	data, err := afero.ReadFile(s.fs, s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, Info{}, xerrors.Errorf("%s: %w", s.path, ErrNotFound)
		}
		return nil, Info{}, xerrors.Errorf("loading mapping: %w", err)
	}
	bad := func(err error) (*Mapping, Info, error) {
		return nil, Info{}, &FormatError{Path: s.path, Err: err}
	}

	if len(data) < len(magic)+1 || string(data[:len(magic)]) != magic {
		return bad(xerrors.New("missing header"))
	}
	if v := data[len(magic)]; v != version {
		return bad(xerrors.Errorf("unsupported version %d", v))
	}

	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, Info{}, err
	}
	defer dec.Close()
	raw, err := dec.DecodeAll(data[len(magic)+1:], nil)
	if err != nil {
		return bad(err)
	}

	var a artifact
	if err := cbor.Unmarshal(raw, &a); err != nil {
		return bad(err)
	}
	if a.Version != version {
		return bad(xerrors.Errorf("record version %d does not match header", a.Version))
	}
	run, err := uuid.Parse(a.Run)
	if err != nil {
		return bad(err)
	}

	m := New(nil)
	if a.Methods != nil {
		m.Methods = a.Methods
	}
	if a.Params != nil {
		m.Params = a.Params
	}
	if a.Locals != nil {
		m.Locals = a.Locals
	}
	if a.Fields != nil {
		m.Fields = a.Fields
	}
	info := Info{Run: run, Created: time.Unix(a.Created, 0).UTC(), Module: a.Module}
	return m, info, nil
}
