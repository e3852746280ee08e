package scheduler

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// PassRunner is implemented by the Engine and by test doubles.
type PassRunner interface {
	RunPass(ctx context.Context) (PassResult, error)
}

// Loop drives the assignment engine on a fixed interval. A failing or
// panicking pass is logged and swallowed; the loop only stops when its
// context is cancelled.
type Loop struct {
	engine   PassRunner
	interval time.Duration
	logger   *zap.Logger
}

// NewLoop creates a loop. A non-positive interval defaults to one minute.
func NewLoop(engine PassRunner, interval time.Duration, logger *zap.Logger) *Loop {
	if interval <= 0 {
		interval = time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loop{engine: engine, interval: interval, logger: logger}
}

// Run blocks until ctx is cancelled, executing one pass per tick. It is
// started once at system initialization, as a single background goroutine.
func (l *Loop) Run(ctx context.Context) {
	l.logger.Info("assignment scheduler started", zap.Duration("interval", l.interval))

	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			l.logger.Info("assignment scheduler stopped")
			return
		case <-ticker.C:
			l.tick(ctx)
		}
	}
}

// tick runs one pass, containing errors and panics to this iteration.
func (l *Loop) tick(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("assignment pass panicked", zap.Any("panic", r))
		}
	}()

	result, err := l.engine.RunPass(ctx)
	if err != nil {
		l.logger.Error("assignment pass failed", zap.Error(err))
		return
	}
	if result.Assigned > 0 || result.Failed > 0 || result.Skipped > 0 {
		l.logger.Info("assignment pass finished",
			zap.Int("assigned", result.Assigned),
			zap.Int("failed", result.Failed),
			zap.Int("skipped", result.Skipped))
	}
}
