// Copyright ©2024 The simplexlp Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config parses the core's flat key->scalar configuration table
// (§6) into a typed Params struct, either from a map[string]float64 or
// from a YAML fixture (used by the CLI and by tests).
package config

import (
	"bytes"
	"fmt"
	"io"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// NontriMethod mirrors basis.NontriMethod without importing it, so this
// package stays a leaf the engine's other packages can all depend on.
type NontriMethod string

const (
	MethodSearch                 NontriMethod = "SEARCH"
	MethodBlockTriangular        NontriMethod = "BLOCK_TRIANGULAR"
	MethodBlockOrderedTriangular NontriMethod = "BLOCK_ORDERED_TRIANGULAR"
)

// PivotRule is the nontriangular_pivot_rule enum.
type PivotRule string

const (
	PivotRuleNone      PivotRule = "NONE"
	PivotRuleThreshold PivotRule = "THRESHOLD"
)

// Algorithm selects which simplex variant the control loop runs (spec.md
// §1: "the revised simplex method in both a primal and a dual variant").
// PRIMAL prices a nonbasic column then ratio-tests rows for the outgoing
// variable; DUAL selects an infeasible basic row then ratio-tests nonbasic
// columns for the incoming variable.
type Algorithm string

const (
	AlgorithmPrimal Algorithm = "PRIMAL"
	AlgorithmDual   Algorithm = "DUAL"
)

// FactorizationType selects the basis factorization kind.
type FactorizationType string

const (
	FactorizationPFI FactorizationType = "PFI"
	FactorizationLU  FactorizationType = "LU"
)

// PricingType selects the pricing strategy.
type PricingType string

const (
	PricingDantzig PricingType = "DANTZIG"
)

// DualPhaseFunction selects the dual ratio-test walk (nonlinear_dual_*).
type DualPhaseFunction int

const (
	DualDantzig DualPhaseFunction = iota
	DualPiecewise
	DualPiecewiseGuarded
)

// Params is the typed configuration table of §6.
type Params struct {
	EPivot       float64 `yaml:"e_pivot"`
	EFeasibility float64 `yaml:"e_feasibility"`
	EOptimality  float64 `yaml:"e_optimality"`
	EAbsolute    float64 `yaml:"e_absolute"`
	ERelative    float64 `yaml:"e_relative"`

	PivotThreshold float64 `yaml:"pivot_threshold"`
	SparsityRatio  float64 `yaml:"sparsity_ratio"`
	Elbowroom      int     `yaml:"elbowroom"`

	Algorithm              Algorithm         `yaml:"algorithm"`
	FactorizationType      FactorizationType `yaml:"factorization_type"`
	NontriangularMethod    NontriMethod      `yaml:"nontriangular_method"`
	NontriangularPivotRule PivotRule         `yaml:"nontriangular_pivot_rule"`
	ReinversionFrequency   int               `yaml:"reinversion_frequency"`

	PricingType PricingType `yaml:"pricing_type"`

	DualPhaseIFunction  DualPhaseFunction `yaml:"nonlinear_dual_phaseI_function"`
	DualPhaseIIFunction DualPhaseFunction `yaml:"nonlinear_dual_phaseII_function"`

	ExpandMultiplierDphI float64 `yaml:"expand_multiplier_dphI"`
	ExpandDividerDphI    float64 `yaml:"expand_divider_dphI"`
	ExpandEnabled        bool    `yaml:"expand_enabled"`

	IterationLimit int     `yaml:"iteration_limit"`
	TimeLimit      float64 `yaml:"time_limit"`
}

// Default returns the spec's documented defaults.
func Default() Params {
	return Params{
		EPivot:                 1e-7,
		EFeasibility:           1e-8,
		EOptimality:            1e-8,
		EAbsolute:              1e-12,
		ERelative:              1e-10,
		PivotThreshold:         1e-2,
		SparsityRatio:          0.25,
		Elbowroom:              16,
		Algorithm:              AlgorithmPrimal,
		FactorizationType:      FactorizationPFI,
		NontriangularMethod:    MethodSearch,
		NontriangularPivotRule: PivotRuleNone,
		ReinversionFrequency:   30,
		PricingType:            PricingDantzig,
		DualPhaseIFunction:     DualDantzig,
		DualPhaseIIFunction:    DualDantzig,
		ExpandMultiplierDphI:   1,
		ExpandDividerDphI:      10000,
		ExpandEnabled:          true,
		IterationLimit:         1 << 20,
		TimeLimit:              0, // 0 == no limit
	}
}

// FromMap builds Params by overlaying entries of a flat key->scalar table
// onto Default(). Only the numeric keys are accepted; any other key,
// including an enum-valued one, is rejected with ErrInvalidConfiguration,
// so enum fields are set through FromYAML.
func FromMap(table map[string]float64) (Params, error) {
	p := Default()
	for k, v := range table {
		if err := setNumeric(&p, k, v); err != nil {
			return Params{}, err
		}
	}
	return p, nil
}

func setNumeric(p *Params, key string, v float64) error {
	switch key {
	case "e_pivot":
		p.EPivot = v
	case "e_feasibility":
		p.EFeasibility = v
	case "e_optimality":
		p.EOptimality = v
	case "e_absolute":
		p.EAbsolute = v
	case "e_relative":
		p.ERelative = v
	case "pivot_threshold":
		p.PivotThreshold = v
	case "sparsity_ratio":
		p.SparsityRatio = v
	case "elbowroom":
		p.Elbowroom = int(v)
	case "reinversion_frequency":
		p.ReinversionFrequency = int(v)
	case "expand_multiplier_dphI":
		p.ExpandMultiplierDphI = v
	case "expand_divider_dphI":
		p.ExpandDividerDphI = v
	case "iteration_limit":
		p.IterationLimit = int(v)
	case "time_limit":
		p.TimeLimit = v
	default:
		return errors.Wrapf(ErrInvalidConfiguration, "unknown numeric key %q", key)
	}
	return nil
}

// ErrInvalidConfiguration is raised for an unknown key or an unparseable
// enum value (§7's InvalidConfiguration kind): the core refuses to start.
var ErrInvalidConfiguration = fmt.Errorf("config: invalid configuration")

// FromYAML parses a full Params record (including enum fields) from YAML,
// for the CLI's --config flag and for test fixtures. Unknown keys are
// rejected with ErrInvalidConfiguration.
func FromYAML(data []byte) (Params, error) {
	p := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil && err != io.EOF {
		return Params{}, errors.Wrap(ErrInvalidConfiguration, err.Error())
	}
	if err := p.Validate(); err != nil {
		return Params{}, err
	}
	return p, nil
}

// Validate rejects unknown enum values.
func (p Params) Validate() error {
	switch p.Algorithm {
	case AlgorithmPrimal, AlgorithmDual:
	default:
		return errors.Wrapf(ErrInvalidConfiguration, "algorithm %q", p.Algorithm)
	}
	switch p.FactorizationType {
	case FactorizationPFI, FactorizationLU:
	default:
		return errors.Wrapf(ErrInvalidConfiguration, "factorization_type %q", p.FactorizationType)
	}
	switch p.NontriangularMethod {
	case MethodSearch, MethodBlockTriangular, MethodBlockOrderedTriangular:
	default:
		return errors.Wrapf(ErrInvalidConfiguration, "nontriangular_method %q", p.NontriangularMethod)
	}
	switch p.NontriangularPivotRule {
	case PivotRuleNone, PivotRuleThreshold:
	default:
		return errors.Wrapf(ErrInvalidConfiguration, "nontriangular_pivot_rule %q", p.NontriangularPivotRule)
	}
	switch p.PricingType {
	case PricingDantzig:
	default:
		return errors.Wrapf(ErrInvalidConfiguration, "pricing_type %q", p.PricingType)
	}
	if p.DualPhaseIFunction < DualDantzig || p.DualPhaseIFunction > DualPiecewiseGuarded {
		return errors.Wrapf(ErrInvalidConfiguration, "nonlinear_dual_phaseI_function %d", p.DualPhaseIFunction)
	}
	if p.DualPhaseIIFunction < DualDantzig || p.DualPhaseIIFunction > DualPiecewiseGuarded {
		return errors.Wrapf(ErrInvalidConfiguration, "nonlinear_dual_phaseII_function %d", p.DualPhaseIIFunction)
	}
	return nil
}
