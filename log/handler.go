// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package log

import (
	"context"
	"io"
	"log/slog"

	gethlog "github.com/ethereum/go-ethereum/log"
)

// Legacy verbosity levels accepted on the command line.
const (
	LegacyLevelCrit = iota
	LegacyLevelError
	LegacyLevelWarn
	LegacyLevelInfo
	LegacyLevelDebug
	LegacyLevelTrace
)

type discardHandler struct{}

// DiscardHandler returns a no-op handler
func DiscardHandler() slog.Handler {
	return &discardHandler{}
}

func (h *discardHandler) Handle(_ context.Context, _ slog.Record) error {
	return nil
}

func (h *discardHandler) Enabled(_ context.Context, _ slog.Level) bool {
	return false
}

func (h *discardHandler) WithGroup(_ string) slog.Handler {
	return h
}

func (h *discardHandler) WithAttrs(_ []slog.Attr) slog.Handler {
	return h
}

// FromVerbosity converts a 0-9 verbosity into a slog level. Values above trace are clamped.
func FromVerbosity(verbosity uint64) slog.Level {
	if verbosity > LegacyLevelTrace {
		verbosity = LegacyLevelTrace
	}
	return gethlog.FromLegacyLevel(int(verbosity))
}

// NewHandler builds the node's log handler.
// JSON output wins over the terminal format; color is only honored by the terminal format.
func NewHandler(wr io.Writer, verbosity uint64, json bool, useColor bool) slog.Handler {
	level := FromVerbosity(verbosity)
	if json {
		return gethlog.JSONHandlerWithLevel(wr, level)
	}
	return gethlog.NewTerminalHandlerWithLevel(wr, level, useColor)
}
