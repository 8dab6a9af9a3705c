// Copyright ©2024 The simplexlp Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package obslog builds the zerolog.Logger instances the CLI and test
// fixtures inject into a simplex.Engine, following the pack's own
// logger-construction convention (a console writer over stderr with a
// timestamp attached) rather than the package-level global that convention
// otherwise defaults to — an Engine receives its logger through
// Engine.SetLogger, so this package only ever returns values, never stores one.
package obslog

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// New builds a human-readable console logger at the given level, writing
// to w. Passing a nil w defaults to os.Stderr.
func New(w io.Writer, level zerolog.Level) zerolog.Logger {
	if w == nil {
		w = os.Stderr
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05"}).
		Level(level).
		With().
		Timestamp().
		Logger()
}

// Nop returns a logger that performs no I/O, the default a simplex.Engine
// uses when the caller never configures one.
func Nop() zerolog.Logger {
	return zerolog.Nop()
}
