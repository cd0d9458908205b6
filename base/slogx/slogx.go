// Copyright (c) 2024, Painty Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package slogx provides Setup, which installs the process-wide log/slog
// default logger. The painty packages log through the slog default; no
// package or cmd/ binary in this module calls Setup.
package slogx

import (
	"log/slog"
	"os"
)

// Setup installs a text-handler slog.Logger at the given level as the
// default logger. verbose selects slog.LevelDebug; otherwise
// slog.LevelInfo.
func Setup(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(h))
}
