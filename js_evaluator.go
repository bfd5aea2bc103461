//go:build js_eval

package assembler

import (
	"github.com/dop251/goja"
)

type jsEvaluator struct {
	cache     ProgramCache
	functions map[string]Function
}

// NewJSEvaluator returns an Evaluator backed by goja. The expression is the
// body of a return statement.
func NewJSEvaluator(opts ...JSEvaluatorOption) Evaluator {
	s := newJSSettings(opts)
	return &jsEvaluator{
		cache:     s.cache,
		functions: functionTable(s.registry),
	}
}

func (e *jsEvaluator) Evaluate(ctx RuleContext, expression string) (any, error) {
	rule, err := e.Compile(expression)
	if err != nil {
		return nil, err
	}
	return rule.Evaluate(ctx)
}

func (e *jsEvaluator) Compile(expression string, _ ...CompileOption) (CompiledRule, error) {
	script, err := e.script(expression)
	if err != nil {
		return nil, compileError("js", expression, err)
	}
	return jsRule{evaluator: e, source: expression, script: script}, nil
}

func (e *jsEvaluator) script(expression string) (*goja.Program, error) {
	if expression == "" {
		return nil, ErrEmptyExpression
	}
	key := "js:" + expression
	if e.cache != nil {
		if cached, ok := e.cache.Get(key); ok {
			if script, ok := cached.(*goja.Program); ok {
				return script, nil
			}
		}
	}
	script, err := goja.Compile("class-expression", "(function(){ return ("+expression+"); })()", true)
	if err != nil {
		return nil, err
	}
	if e.cache != nil {
		e.cache.Set(key, script)
	}
	return script, nil
}

type jsRule struct {
	evaluator *jsEvaluator
	source    string
	script    *goja.Program
}

// Evaluate runs on a fresh runtime; a goja.Runtime is not safe for
// concurrent use.
func (r jsRule) Evaluate(ctx RuleContext) (any, error) {
	vm := goja.New()
	for name, value := range expressionEnv(ctx) {
		if err := vm.Set(name, value); err != nil {
			return nil, evaluateError("js", r.source, ctx, err)
		}
	}
	for name, fn := range r.evaluator.functions {
		if err := vm.Set(name, fn); err != nil {
			return nil, evaluateError("js", r.source, ctx, err)
		}
	}
	out, err := vm.RunProgram(r.script)
	if err != nil {
		return nil, evaluateError("js", r.source, ctx, err)
	}
	return out.Export(), nil
}

func jsEvaluatorAvailable() bool {
	return true
}
