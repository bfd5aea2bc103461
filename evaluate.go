package assembler

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

var ErrNoEvaluator = errors.New("assembler: evaluator not configured")

var (
	sharedEvaluatorOnce sync.Once
	sharedEvaluator     Evaluator
)

// defaultEvaluator backs Compile when no Assembler is involved.
func defaultEvaluator() Evaluator {
	sharedEvaluatorOnce.Do(func() {
		sharedEvaluator = NewExprEvaluator(ExprWithProgramCache(NewMemoryCache()))
	})
	return sharedEvaluator
}

// evaluateLogged runs expr and reports the attempt to logger.
func evaluateLogged(evaluator Evaluator, logger EvaluatorLogger, ctx RuleContext, expr string) (any, error) {
	if evaluator == nil {
		return nil, ErrNoEvaluator
	}
	if ctx.Selections == nil {
		ctx.Selections = map[string]any{}
	}
	engine := evaluatorEngineName(evaluator)
	start := time.Now()
	value, evalErr := evaluator.Evaluate(ctx, expr)
	duration := time.Since(start)
	evalErr = evaluateError(engine, expr, ctx, evalErr)
	logger.LogEvaluation(EvaluatorLogEvent{
		Engine:    engine,
		Expr:      expr,
		Component: ctx.Component,
		Group:     ctx.Group,
		Value:     value,
		Duration:  duration,
		Err:       evalErr,
	})
	if evalErr != nil {
		return nil, evalErr
	}
	return value, nil
}

func evaluatorEngineName(e Evaluator) string {
	if e == nil {
		return "unknown"
	}
	switch fmt.Sprintf("%T", e) {
	case "*assembler.exprEvaluator":
		return "expr"
	case "*assembler.celEvaluator":
		return "cel"
	case "*assembler.jsEvaluator":
		return "js"
	default:
		return "custom"
	}
}

// expressionEnv builds the variables visible to an expression: every
// selection by group name, then selections, component and group, which take
// precedence over a group of the same name.
func expressionEnv(ctx RuleContext) map[string]any {
	env := make(map[string]any, len(ctx.Selections)+3)
	for group, value := range ctx.Selections {
		env[group] = value
	}
	selections := ctx.Selections
	if selections == nil {
		selections = map[string]any{}
	}
	env["selections"] = selections
	env["component"] = ctx.Component
	env["group"] = ctx.Group
	return env
}

// reservedVariable reports names that expressionEnv always sets.
func reservedVariable(name string) bool {
	switch name {
	case "selections", "component", "group":
		return true
	}
	return false
}
