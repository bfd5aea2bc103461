package assembler

import (
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyExpression reports an Expr with no source text.
var ErrEmptyExpression = errors.New("assembler: expression must not be empty")

// Phase tells whether an expression failed to compile or to run.
type Phase string

const (
	PhaseCompile  Phase = "compile"
	PhaseEvaluate Phase = "evaluate"
)

// EvaluationError describes a failed class expression.
type EvaluationError struct {
	Engine    string
	Phase     Phase
	Expr      string
	Component string
	Group     string
	Err       error
}

func (e *EvaluationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	var b strings.Builder
	b.WriteString("assembler: ")
	if e.Engine != "" {
		b.WriteString(e.Engine + " ")
	}
	if e.Phase != "" {
		b.WriteString(string(e.Phase) + " ")
	}
	b.WriteString("failed")
	if location := e.location(); location != "" {
		b.WriteString(" in " + location)
	}
	if e.Expr != "" {
		fmt.Fprintf(&b, " expr=%q", e.Expr)
	}
	if e.Err != nil {
		b.WriteString(": " + e.Err.Error())
	}
	return b.String()
}

func (e *EvaluationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// location renders component.group, omitting empty parts.
func (e *EvaluationError) location() string {
	switch {
	case e.Component != "" && e.Group != "":
		return e.Component + "." + e.Group
	case e.Component != "":
		return e.Component
	default:
		return e.Group
	}
}

// annotate attaches meta to err. Fields already set on an EvaluationError
// in the chain are kept.
func annotate(err error, meta EvaluationError) error {
	if err == nil {
		return nil
	}
	var evalErr *EvaluationError
	if !errors.As(err, &evalErr) {
		meta.Err = err
		return &meta
	}
	if evalErr.Engine == "" {
		evalErr.Engine = meta.Engine
	}
	if evalErr.Phase == "" {
		evalErr.Phase = meta.Phase
	}
	if evalErr.Expr == "" {
		evalErr.Expr = meta.Expr
	}
	if evalErr.Component == "" {
		evalErr.Component = meta.Component
	}
	if evalErr.Group == "" {
		evalErr.Group = meta.Group
	}
	return evalErr
}

func compileError(engine, expr string, err error) error {
	return annotate(err, EvaluationError{Engine: engine, Phase: PhaseCompile, Expr: expr})
}

func evaluateError(engine, expr string, ctx RuleContext, err error) error {
	return annotate(err, EvaluationError{
		Engine:    engine,
		Phase:     PhaseEvaluate,
		Expr:      expr,
		Component: ctx.Component,
		Group:     ctx.Group,
	})
}
