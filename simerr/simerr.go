// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package simerr defines the error kinds the solver can raise (spec §7):
// ConfigError, StateError, NumericalError, and IOError. Each is a
// distinct type so callers can tell them apart with errors.As, while the
// message itself is built the way the teacher's fem package builds
// errors, through gosl/chk.Err.
package simerr

import "github.com/cpmech/gosl/chk"

// ConfigError reports a non-positive h, a zero-extent grid, or a
// non-positive particle mass.
type ConfigError struct{ msg string }

func (e *ConfigError) Error() string { return e.msg }

// NewConfigError builds a ConfigError with a printf-style message.
func NewConfigError(format string, args ...interface{}) *ConfigError {
	return &ConfigError{msg: chk.Err(format, args...).Error()}
}

// StateError reports a tick_index that skips 0, or volume0 referenced
// before the n==0 initialization tick has run.
type StateError struct{ msg string }

func (e *StateError) Error() string { return e.msg }

// NewStateError builds a StateError with a printf-style message.
func NewStateError(format string, args ...interface{}) *StateError {
	return &StateError{msg: chk.Err(format, args...).Error()}
}

// NumericalError reports non-finite entries in F_E/F_P or det(F_E) <= 0.
type NumericalError struct{ msg string }

func (e *NumericalError) Error() string { return e.msg }

// NewNumericalError builds a NumericalError with a printf-style message.
func NewNumericalError(format string, args ...interface{}) *NumericalError {
	return &NumericalError{msg: chk.Err(format, args...).Error()}
}

// IOError reports a snapshot read/write failure or version mismatch.
type IOError struct{ msg string }

func (e *IOError) Error() string { return e.msg }

// NewIOError builds an IOError with a printf-style message.
func NewIOError(format string, args ...interface{}) *IOError {
	return &IOError{msg: chk.Err(format, args...).Error()}
}
