// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package log

import (
	"context"
	"log/slog"
	"sync/atomic"

	gethlog "github.com/ethereum/go-ethereum/log"
)

// Logger writes key/value pairs to the root handler.
type Logger interface {
	Trace(msg string, ctx ...any)
	Debug(msg string, ctx ...any)
	Info(msg string, ctx ...any)
	Warn(msg string, ctx ...any)
	Error(msg string, ctx ...any)
	Crit(msg string, ctx ...any)
	New(ctx ...any) Logger
	Enabled(ctx context.Context, level slog.Level) bool
}

// SetDefault replaces the root logger. Loggers created by WithContext follow the change.
func SetDefault(h slog.Handler) {
	gethlog.SetDefault(gethlog.NewLogger(h))
}

// Root returns the root logger.
func Root() Logger {
	return &contextLogger{}
}

// WithContext returns a logger carrying ctx, usually `"pkg", name`.
// It is safe to create package level loggers before SetDefault is called.
func WithContext(ctx ...any) Logger {
	return &contextLogger{ctx: ctx}
}

type boundLogger struct {
	root   gethlog.Logger
	logger gethlog.Logger
}

type contextLogger struct {
	ctx   []any
	bound atomic.Pointer[boundLogger]
}

func (l *contextLogger) get() gethlog.Logger {
	root := gethlog.Root()
	if b := l.bound.Load(); b != nil && b.root == root {
		return b.logger
	}
	logger := root
	if len(l.ctx) > 0 {
		logger = root.New(l.ctx...)
	}
	l.bound.Store(&boundLogger{root, logger})
	return logger
}

func (l *contextLogger) Trace(msg string, ctx ...any) { l.get().Trace(msg, ctx...) }
func (l *contextLogger) Debug(msg string, ctx ...any) { l.get().Debug(msg, ctx...) }
func (l *contextLogger) Info(msg string, ctx ...any)  { l.get().Info(msg, ctx...) }
func (l *contextLogger) Warn(msg string, ctx ...any)  { l.get().Warn(msg, ctx...) }
func (l *contextLogger) Error(msg string, ctx ...any) { l.get().Error(msg, ctx...) }

// Crit logs at the highest level. Unlike go-ethereum it does not exit the process.
func (l *contextLogger) Crit(msg string, ctx ...any) {
	l.get().Write(gethlog.LevelCrit, msg, ctx...)
}

func (l *contextLogger) New(ctx ...any) Logger {
	merged := make([]any, 0, len(l.ctx)+len(ctx))
	merged = append(merged, l.ctx...)
	return &contextLogger{ctx: append(merged, ctx...)}
}

func (l *contextLogger) Enabled(ctx context.Context, level slog.Level) bool {
	return l.get().Enabled(ctx, level)
}
