package assembler

import (
	"errors"
	"time"
)

// EvaluatorLogEvent is reported once per Expr evaluated during resolution.
type EvaluatorLogEvent struct {
	Engine    string
	Component string
	Group     string
	Expr      string
	// Value is the raw engine result, nil when Err is set.
	Value    any
	Duration time.Duration
	Err      error
}

// Phase reports where a failed evaluation stopped, empty on success.
func (e EvaluatorLogEvent) Phase() Phase {
	var evalErr *EvaluationError
	if errors.As(e.Err, &evalErr) {
		return evalErr.Phase
	}
	return ""
}

// EvaluatorLogger receives evaluation events. Implementations must be safe
// for concurrent use; resolution may run on many goroutines.
type EvaluatorLogger interface {
	LogEvaluation(EvaluatorLogEvent)
}

type EvaluatorLoggerFunc func(EvaluatorLogEvent)

func (f EvaluatorLoggerFunc) LogEvaluation(event EvaluatorLogEvent) {
	if f != nil {
		f(event)
	}
}

type discardEvaluations struct{}

func (discardEvaluations) LogEvaluation(EvaluatorLogEvent) {}

// WithEvaluatorLogger reports every expression evaluation to logger. A nil
// logger discards them, which is the default.
func WithEvaluatorLogger(logger EvaluatorLogger) Option {
	return func(cfg *assemblerConfig) {
		cfg.logger = logger
		if logger == nil {
			cfg.logger = discardEvaluations{}
		}
	}
}
