// Copyright ©2024 The simplexlp Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package basis

import "github.com/pkg/errors"

// ErrZeroPivot is raised by Append when the FTRAN'd entering column has a
// zero entry at the chosen pivot row.
var ErrZeroPivot = errors.New("basis: zero pivot on append")

// ErrBasisSingular is raised by Reinvert when one or more rows could not be
// assigned a stable column and had to be filled with their logical
// variable; the caller inspects Singularity() to see how many.
var ErrBasisSingular = errors.New("basis: basis is singular beyond repair")

// ErrUnknownMethod is raised by Reinvert when its NontriMethod value is not
// one of the recognized enum members (InvalidConfiguration, §7).
var ErrUnknownMethod = errors.New("basis: unknown non-triangular method")
