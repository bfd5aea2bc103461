// Package logging adapts zerolog to the evaluator logger of the assembler
// package.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	assembler "github.com/goliatone/go-assembler"
)

// Options describes logger configuration supplied at creation time.
type Options struct {
	Level         string
	HumanReadable bool
	Writer        io.Writer
}

// New creates a zerolog logger from opts.
func New(opts Options) (zerolog.Logger, error) {
	writer := opts.Writer
	if writer == nil {
		writer = os.Stderr
	}

	level := zerolog.WarnLevel
	if opts.Level != "" {
		parsed, err := zerolog.ParseLevel(strings.ToLower(opts.Level))
		if err != nil {
			return zerolog.Nop(), err
		}
		level = parsed
	}

	var output io.Writer = writer
	if opts.HumanReadable {
		console := zerolog.NewConsoleWriter()
		console.Out = writer
		console.TimeFormat = time.RFC3339
		output = console
	}

	return zerolog.New(output).Level(level).With().Timestamp().Logger(), nil
}

// EvaluatorLogger writes evaluator events to a zerolog logger. Failures are
// logged at warn level, successful evaluations at debug level.
type EvaluatorLogger struct {
	logger zerolog.Logger
}

var _ assembler.EvaluatorLogger = EvaluatorLogger{}

// NewEvaluatorLogger wraps logger.
func NewEvaluatorLogger(logger zerolog.Logger) EvaluatorLogger {
	return EvaluatorLogger{logger: logger}
}

// LogEvaluation implements assembler.EvaluatorLogger.
func (l EvaluatorLogger) LogEvaluation(event assembler.EvaluatorLogEvent) {
	entry := l.logger.Debug()
	if event.Err != nil {
		entry = l.logger.Warn().Err(event.Err).Str("phase", string(event.Phase()))
	} else {
		entry = entry.Interface("value", event.Value)
	}
	entry.
		Str("engine", event.Engine).
		Str("expr", event.Expr).
		Str("component", event.Component).
		Str("group", event.Group).
		Dur("duration", event.Duration).
		Msg("class expression evaluated")
}

// Option returns the assembler option that installs the logger.
func (l EvaluatorLogger) Option() assembler.Option {
	return assembler.WithEvaluatorLogger(l)
}
