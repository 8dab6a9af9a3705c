// Copyright ©2024 The simplexlp Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package warmstart encodes and decodes basis-head files for warm-starting
// a solve (§6): a textual BAS format and a fixed-layout binary PBF format.
// Both formats are part of the core's external interface — unlike MPS
// parsing, presolve, or scaling, the byte/line layout of a basis file is
// specified here rather than left to an external collaborator.
package warmstart

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// NonbasicMark is the pinned state of a nonbasic variable as recorded in a
// basis file.
type NonbasicMark byte

const (
	MarkLB NonbasicMark = iota
	MarkUB
	MarkFX
	MarkFR
)

func (m NonbasicMark) String() string {
	switch m {
	case MarkLB:
		return "LB"
	case MarkUB:
		return "UB"
	case MarkFX:
		return "FX"
	case MarkFR:
		return "FR"
	default:
		return "?"
	}
}

// markFromByte validates a decoded PBF state byte against the four known
// NonbasicMark values, mirroring parseMark's validation of the textual
// format so a corrupt or unrecognized byte raises ErrBasisLoad instead of
// being cast through silently.
func markFromByte(b byte) (NonbasicMark, error) {
	switch NonbasicMark(b) {
	case MarkLB, MarkUB, MarkFX, MarkFR:
		return NonbasicMark(b), nil
	default:
		return 0, errors.Wrapf(ErrBasisLoad, "unknown nonbasic mark byte %d", b)
	}
}

func parseMark(s string) (NonbasicMark, error) {
	switch s {
	case "LB":
		return MarkLB, nil
	case "UB":
		return MarkUB, nil
	case "FX":
		return MarkFX, nil
	case "FR":
		return MarkFR, nil
	default:
		return 0, errors.Wrapf(ErrBasisLoad, "unknown nonbasic mark %q", s)
	}
}

// NonbasicPin is one nonbasic variable's pinned value as recorded in a
// basis file.
type NonbasicPin struct {
	VarIndex int
	Mark     NonbasicMark
	Value    float64
}

// Snapshot is the decoded/encoded content of a basis-head file: which
// variable is basic in each row, plus the pin of every nonbasic variable.
type Snapshot struct {
	BasisHead []int // length m; BasisHead[i] is the variable basic in row i
	Nonbasic  []NonbasicPin
}

// ErrBasisLoad is raised when a basis file references an unknown variable
// or encodes an inconsistent partition (§7's BasisLoadError).
var ErrBasisLoad = errors.New("warmstart: basis load error")

// Validate checks internal consistency: no duplicate basic indices, every
// referenced variable index within [0, n+m).
func (s Snapshot) Validate(numVars int) error {
	seen := make(map[int]bool, len(s.BasisHead))
	for _, v := range s.BasisHead {
		if v < 0 || v >= numVars {
			return errors.Wrapf(ErrBasisLoad, "basic variable index %d out of range", v)
		}
		if seen[v] {
			return errors.Wrapf(ErrBasisLoad, "duplicate basic variable index %d", v)
		}
		seen[v] = true
	}
	for _, nb := range s.Nonbasic {
		if nb.VarIndex < 0 || nb.VarIndex >= numVars {
			return errors.Wrapf(ErrBasisLoad, "nonbasic variable index %d out of range", nb.VarIndex)
		}
		if seen[nb.VarIndex] {
			return errors.Wrapf(ErrBasisLoad, "variable %d is both basic and nonbasic", nb.VarIndex)
		}
	}
	return nil
}

// EncodeBAS writes the textual basis-head format: one line per basic row
// "<row_index> <variable_index>", then one line per nonbasic pinned
// variable "<variable_index> LB|UB|FX|FR <value>".
func EncodeBAS(w io.Writer, s Snapshot) error {
	bw := bufio.NewWriter(w)
	for row, v := range s.BasisHead {
		if _, err := fmt.Fprintf(bw, "%d %d\n", row, v); err != nil {
			return err
		}
	}
	for _, nb := range s.Nonbasic {
		if _, err := fmt.Fprintf(bw, "%d %s %g\n", nb.VarIndex, nb.Mark, nb.Value); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// DecodeBAS reads the textual format back into a Snapshot, validating
// against numVars (n+m).
func DecodeBAS(r io.Reader, numVars int) (Snapshot, error) {
	var s Snapshot
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		switch len(fields) {
		case 2:
			row, err := strconv.Atoi(fields[0])
			if err != nil {
				return Snapshot{}, errors.Wrap(ErrBasisLoad, err.Error())
			}
			v, err := strconv.Atoi(fields[1])
			if err != nil {
				return Snapshot{}, errors.Wrap(ErrBasisLoad, err.Error())
			}
			for len(s.BasisHead) <= row {
				s.BasisHead = append(s.BasisHead, -1)
			}
			s.BasisHead[row] = v
		case 3:
			v, err := strconv.Atoi(fields[0])
			if err != nil {
				return Snapshot{}, errors.Wrap(ErrBasisLoad, err.Error())
			}
			mark, err := parseMark(fields[1])
			if err != nil {
				return Snapshot{}, err
			}
			val, err := strconv.ParseFloat(fields[2], 64)
			if err != nil {
				return Snapshot{}, errors.Wrap(ErrBasisLoad, err.Error())
			}
			s.Nonbasic = append(s.Nonbasic, NonbasicPin{VarIndex: v, Mark: mark, Value: val})
		default:
			return Snapshot{}, errors.Wrapf(ErrBasisLoad, "malformed line %q", line)
		}
	}
	if err := sc.Err(); err != nil {
		return Snapshot{}, err
	}
	for _, v := range s.BasisHead {
		if v == -1 {
			return Snapshot{}, errors.Wrap(ErrBasisLoad, "basis head has a missing row")
		}
	}
	if err := s.Validate(numVars); err != nil {
		return Snapshot{}, err
	}
	return s, nil
}

// pbfMagic identifies the binary format; version 1 is the only version
// this package emits or accepts.
const (
	pbfMagic   uint32 = 0x50424631 // "PBF1"
	pbfVersion uint32 = 1
)

// EncodePBF writes the fixed binary header (magic, version, m, n+m,
// objective sense) followed by the m-long basic-index array and, per
// nonbasic variable, a state byte and its float64 value, all little-endian. No
// endianness conversion is performed on read — both directions of this
// package agree on little-endian, so that is not a concern for a reader
// using this package, only for an external tool reading the raw bytes.
func EncodePBF(w io.Writer, s Snapshot, numVars int, maximize bool) error {
	var sense uint32
	if maximize {
		sense = 1
	}
	hdr := []uint32{pbfMagic, pbfVersion, uint32(len(s.BasisHead)), uint32(numVars), sense}
	for _, h := range hdr {
		if err := binary.Write(w, binary.LittleEndian, h); err != nil {
			return err
		}
	}
	for _, v := range s.BasisHead {
		if err := binary.Write(w, binary.LittleEndian, int32(v)); err != nil {
			return err
		}
	}
	stateOf := make(map[int]NonbasicMark, len(s.Nonbasic))
	valueOf := make(map[int]float64, len(s.Nonbasic))
	for _, nb := range s.Nonbasic {
		stateOf[nb.VarIndex] = nb.Mark
		valueOf[nb.VarIndex] = nb.Value
	}
	basic := make(map[int]bool, len(s.BasisHead))
	for _, v := range s.BasisHead {
		basic[v] = true
	}
	for v := 0; v < numVars; v++ {
		if basic[v] {
			continue
		}
		if err := binary.Write(w, binary.LittleEndian, byte(stateOf[v])); err != nil {
			return err
		}
		if err := binary.Write(w, binary.LittleEndian, valueOf[v]); err != nil {
			return err
		}
	}
	return nil
}

// DecodePBF reads the binary format back into a Snapshot.
func DecodePBF(r io.Reader) (Snapshot, int, bool, error) {
	var magic, version, m, numVars, sense uint32
	for _, p := range []*uint32{&magic, &version, &m, &numVars, &sense} {
		if err := binary.Read(r, binary.LittleEndian, p); err != nil {
			return Snapshot{}, 0, false, errors.Wrap(ErrBasisLoad, err.Error())
		}
	}
	if magic != pbfMagic {
		return Snapshot{}, 0, false, errors.Wrap(ErrBasisLoad, "bad PBF magic")
	}
	if version != pbfVersion {
		return Snapshot{}, 0, false, errors.Wrapf(ErrBasisLoad, "unsupported PBF version %d", version)
	}

	s := Snapshot{BasisHead: make([]int, m)}
	basic := make(map[int]bool, m)
	for i := range s.BasisHead {
		var v int32
		if err := binary.Read(r, binary.LittleEndian, &v); err != nil {
			return Snapshot{}, 0, false, errors.Wrap(ErrBasisLoad, err.Error())
		}
		s.BasisHead[i] = int(v)
		basic[int(v)] = true
	}
	for v := 0; v < int(numVars); v++ {
		if basic[v] {
			continue
		}
		var mark byte
		var val float64
		if err := binary.Read(r, binary.LittleEndian, &mark); err != nil {
			return Snapshot{}, 0, false, errors.Wrap(ErrBasisLoad, err.Error())
		}
		if err := binary.Read(r, binary.LittleEndian, &val); err != nil {
			return Snapshot{}, 0, false, errors.Wrap(ErrBasisLoad, err.Error())
		}
		markVal, err := markFromByte(mark)
		if err != nil {
			return Snapshot{}, 0, false, err
		}
		s.Nonbasic = append(s.Nonbasic, NonbasicPin{VarIndex: v, Mark: markVal, Value: val})
	}
	if err := s.Validate(int(numVars)); err != nil {
		return Snapshot{}, 0, false, err
	}
	return s, int(numVars), sense == 1, nil
}
