package scheduler

import (
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// cronLogger routes cron's own messages (recovered panics, skipped runs)
// through zap.
type cronLogger struct {
	log *zap.SugaredLogger
}

var _ cron.Logger = cronLogger{}

func newCronLogger(log *zap.Logger) cronLogger {
	return cronLogger{log: log.Named("cron").Sugar()}
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Errorw(msg, append(keysAndValues, "error", err)...)
}
