package events

import (
	"context"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/dmitrijs2005/mymoment/internal/logging"
)

// watermillLogger routes watermill's own logs into logging.Logger. Trace
// goes to Debug.
type watermillLogger struct {
	l logging.Logger
}

func newWatermillLogger(l logging.Logger) watermill.LoggerAdapter {
	return watermillLogger{l: l}
}

func pairs(fields watermill.LogFields) []any {
	args := make([]any, 0, len(fields)*2)
	for k, v := range fields {
		args = append(args, k, v)
	}
	return args
}

func (w watermillLogger) Error(msg string, err error, fields watermill.LogFields) {
	w.l.Error(context.Background(), msg, append(pairs(fields), "error", err)...)
}

func (w watermillLogger) Info(msg string, fields watermill.LogFields) {
	w.l.Info(context.Background(), msg, pairs(fields)...)
}

func (w watermillLogger) Debug(msg string, fields watermill.LogFields) {
	w.l.Debug(context.Background(), msg, pairs(fields)...)
}

func (w watermillLogger) Trace(msg string, fields watermill.LogFields) {
	w.l.Debug(context.Background(), msg, pairs(fields)...)
}

func (w watermillLogger) With(fields watermill.LogFields) watermill.LoggerAdapter {
	return watermillLogger{l: w.l.With(pairs(fields)...)}
}
