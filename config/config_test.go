// Copyright ©2024 The simplexlp Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultMatchesSpecDefaults(t *testing.T) {
	p := Default()
	assert.Equal(t, 30, p.ReinversionFrequency)
	assert.Equal(t, AlgorithmPrimal, p.Algorithm)
	assert.Equal(t, FactorizationPFI, p.FactorizationType)
	assert.True(t, p.ExpandEnabled)
}

func TestValidateRejectsUnknownAlgorithm(t *testing.T) {
	p := Default()
	p.Algorithm = "BOGUS"
	assert.ErrorIs(t, p.Validate(), ErrInvalidConfiguration)
}

func TestFromMapOverlaysDefaults(t *testing.T) {
	p, err := FromMap(map[string]float64{"reinversion_frequency": 50, "e_pivot": 1e-6})
	assert.NoError(t, err)
	assert.Equal(t, 50, p.ReinversionFrequency)
	assert.Equal(t, 1e-6, p.EPivot)
	assert.Equal(t, Default().SparsityRatio, p.SparsityRatio)
}

func TestFromMapRejectsUnknownKey(t *testing.T) {
	_, err := FromMap(map[string]float64{"not_a_real_key": 1})
	assert.ErrorIs(t, err, ErrInvalidConfiguration)
}

func TestFromYAMLParsesEnumsAndValidates(t *testing.T) {
	yamlDoc := []byte(`
nontriangular_method: BLOCK_TRIANGULAR
reinversion_frequency: 40
`)
	p, err := FromYAML(yamlDoc)
	assert.NoError(t, err)
	assert.Equal(t, MethodBlockTriangular, p.NontriangularMethod)
	assert.Equal(t, 40, p.ReinversionFrequency)
}

func TestFromYAMLRejectsUnknownEnum(t *testing.T) {
	yamlDoc := []byte(`nontriangular_method: NOT_A_METHOD`)
	_, err := FromYAML(yamlDoc)
	assert.ErrorIs(t, err, ErrInvalidConfiguration)
}
