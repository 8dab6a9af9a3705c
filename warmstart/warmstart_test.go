// Copyright ©2024 The simplexlp Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package warmstart

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample() Snapshot {
	return Snapshot{
		BasisHead: []int{2, 3},
		Nonbasic: []NonbasicPin{
			{VarIndex: 0, Mark: MarkLB, Value: 0},
			{VarIndex: 1, Mark: MarkUB, Value: 5},
		},
	}
}

func TestBASRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, EncodeBAS(&buf, sample()))
	got, err := DecodeBAS(&buf, 4)
	require.NoError(t, err)
	assert.Equal(t, sample(), got)
}

func TestPBFRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, EncodePBF(&buf, sample(), 4, false))
	got, numVars, maximize, err := DecodePBF(&buf)
	require.NoError(t, err)
	assert.Equal(t, 4, numVars)
	assert.False(t, maximize)
	assert.Equal(t, sample().BasisHead, got.BasisHead)
	assert.ElementsMatch(t, sample().Nonbasic, got.Nonbasic)
}

func TestDecodeBASRejectsDuplicateBasicIndex(t *testing.T) {
	doc := "0 2\n1 2\n"
	_, err := DecodeBAS(bytes.NewBufferString(doc), 4)
	assert.ErrorIs(t, err, ErrBasisLoad)
}

func TestDecodeBASRejectsOutOfRangeIndex(t *testing.T) {
	doc := "0 9\n"
	_, err := DecodeBAS(bytes.NewBufferString(doc), 4)
	assert.ErrorIs(t, err, ErrBasisLoad)
}

func TestDecodePBFRejectsBadMagic(t *testing.T) {
	_, _, _, err := DecodePBF(bytes.NewReader(make([]byte, 40)))
	assert.ErrorIs(t, err, ErrBasisLoad)
}

func TestDecodeBASRejectsUnknownMark(t *testing.T) {
	doc := "0 XX 1.0\n"
	_, err := DecodeBAS(bytes.NewBufferString(doc), 4)
	assert.ErrorIs(t, err, ErrBasisLoad)
}

func TestDecodePBFRejectsUnknownMarkByte(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, EncodePBF(&buf, sample(), 4, false))
	raw := buf.Bytes()

	// Header (5 uint32) + basis head (2 int32) precede the first nonbasic
	// variable's mark byte.
	markOffset := 5*4 + 2*4
	raw[markOffset] = 0xFF

	_, _, _, err := DecodePBF(bytes.NewReader(raw))
	assert.ErrorIs(t, err, ErrBasisLoad)
}
