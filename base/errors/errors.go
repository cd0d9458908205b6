// Copyright (c) 2024, Painty Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package errors provides the error taxonomy shared by every painty
// package, plus a small set of logging helpers modeled on
// cogentcore.org/core/base/errors.
package errors

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"strconv"
)

// Sentinel errors forming the taxonomy of section 7 of the spec.
var (
	// ErrInvalidInput reports a failed numeric precondition, e.g. a
	// malformed (K, S) pair or an out-of-order black/white reflectance.
	ErrInvalidInput = errors.New("invalid input")
	// ErrInvalidFormat reports a persisted file that failed to parse.
	ErrInvalidFormat = errors.New("invalid format")
	// ErrNotFound reports a missing file or resource.
	ErrNotFound = errors.New("not found")
	// ErrBounds reports an out-of-range index or size.
	ErrBounds = errors.New("index out of bounds")
	// ErrSolverFailed reports a non-linear solver that did not converge.
	// It is not fatal: callers fall back to the last iterate.
	ErrSolverFailed = errors.New("solver failed to converge")
)

// Invalid wraps err with ErrInvalidInput and the given context message.
func Invalid(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrInvalidInput)
}

// Format wraps a parse failure with ErrInvalidFormat.
func Format(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrInvalidFormat)
}

// NotFound wraps a missing-resource failure with ErrNotFound.
func NotFound(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrNotFound)
}

// Bounds wraps an out-of-range access with ErrBounds.
func Bounds(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrBounds)
}

// SolverFailed wraps a non-convergence with ErrSolverFailed.
func SolverFailed(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrSolverFailed)
}

// Log logs err, if non-nil, with its caller location, and returns it
// unchanged. The intended usage is:
//
//	return errors.Log(MyFunc(v))
func Log(err error) error {
	if err != nil {
		slog.Error(err.Error() + " | " + CallerInfo())
	}
	return err
}

// Log1 logs err if non-nil and returns v regardless. The intended usage
// is:
//
//	a := errors.Log1(MyFunc(v))
func Log1[T any](v T, err error) T {
	if err != nil {
		slog.Error(err.Error() + " | " + CallerInfo())
	}
	return v
}

// CallerInfo returns the file:line of the caller of the function that
// called CallerInfo, for inclusion in log messages.
func CallerInfo() string {
	_, file, line, ok := runtime.Caller(2)
	if !ok {
		return "unknown"
	}
	return file + ":" + strconv.Itoa(line)
}
