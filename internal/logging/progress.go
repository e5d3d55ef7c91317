package logging

import "go.uber.org/zap"

// ProgressLogger logs search progress through a zap logger.
type ProgressLogger struct {
	z *zap.Logger
}

// NewProgressLogger creates a ProgressLogger that writes to logger at info
// level, tagging every entry with the given search label.
func NewProgressLogger(logger *Logger, search string) *ProgressLogger {
	return &ProgressLogger{
		z: NewZapLogger(logger).With(zap.String("search", search)),
	}
}

// Progress logs the evaluation count and the best score reached so far.
func (p *ProgressLogger) Progress(evaluations int64, bestScore float64) {
	p.z.Info("Search progress",
		zap.Int64("evaluation", evaluations),
		zap.Float64("best_score", bestScore),
	)
}
