package assembler

import (
	"sort"
	"strings"

	celgo "github.com/google/cel-go/cel"
	functions "github.com/google/cel-go/common/functions"
	"github.com/google/cel-go/common/types"
	"github.com/google/cel-go/common/types/ref"
	"github.com/google/cel-go/common/types/traits"
)

// CELEvaluatorOption configures NewCELEvaluator.
type CELEvaluatorOption func(*celEvaluator)

// CELWithProgramCache stores checked programs in cache, keyed by the declared
// variables and the source.
func CELWithProgramCache(cache ProgramCache) CELEvaluatorOption {
	return func(e *celEvaluator) {
		e.cache = cache
	}
}

// CELWithFunctionRegistry exposes the functions of registry. CEL has no
// variadic calls, so each one takes a single list: shade(["500"]) or
// call("shade", ["500"]).
func CELWithFunctionRegistry(registry *FunctionRegistry) CELEvaluatorOption {
	return func(e *celEvaluator) {
		e.registry = registry.Clone()
	}
}

type celEvaluator struct {
	cache    ProgramCache
	registry *FunctionRegistry
	base     *celgo.Env
	baseErr  error
}

type celProgram struct {
	program celgo.Program
}

// NewCELEvaluator returns an Evaluator backed by cel-go. Group variables are
// typed dyn and must be declared before type checking, either through
// CompileWithVariables or by the selections passed to Evaluate.
func NewCELEvaluator(opts ...CELEvaluatorOption) Evaluator {
	e := &celEvaluator{}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	e.base, e.baseErr = celgo.NewEnv(e.declarations()...)
	return e
}

func (e *celEvaluator) Evaluate(ctx RuleContext, expression string) (any, error) {
	return celRule{evaluator: e, source: expression}.Evaluate(ctx)
}

func (e *celEvaluator) Compile(expression string, opts ...CompileOption) (CompiledRule, error) {
	cfg := applyCompileOptions(opts)
	if _, err := e.program(expression, variableNames(cfg.variables)); err != nil {
		return nil, compileError("cel", expression, err)
	}
	return celRule{evaluator: e, source: expression}, nil
}

func (e *celEvaluator) program(expression string, variables []string) (*celProgram, error) {
	if expression == "" {
		return nil, ErrEmptyExpression
	}
	if e.baseErr != nil {
		return nil, e.baseErr
	}
	key := "cel:" + strings.Join(variables, ",") + ":" + expression
	if e.cache != nil {
		if cached, ok := e.cache.Get(key); ok {
			if program, ok := cached.(*celProgram); ok {
				return program, nil
			}
		}
	}

	declared := make([]celgo.EnvOption, 0, len(variables))
	for _, name := range variables {
		declared = append(declared, celgo.Variable(name, celgo.DynType))
	}
	env, err := e.base.Extend(declared...)
	if err != nil {
		return nil, err
	}
	ast, issues := env.Compile(expression)
	if issues != nil && issues.Err() != nil {
		return nil, issues.Err()
	}
	prg, err := env.Program(ast)
	if err != nil {
		return nil, err
	}

	program := &celProgram{program: prg}
	if e.cache != nil {
		e.cache.Set(key, program)
	}
	return program, nil
}

// declarations lists the variables and functions shared by every program.
func (e *celEvaluator) declarations() []celgo.EnvOption {
	table := functionTable(e.registry)
	opts := []celgo.EnvOption{
		celgo.Variable("selections", celgo.MapType(celgo.StringType, celgo.DynType)),
		celgo.Variable("component", celgo.StringType),
		celgo.Variable("group", celgo.StringType),
		celgo.Function(fnClassNames, celgo.Overload("cx_list",
			[]*celgo.Type{celgo.ListType(celgo.DynType)}, celgo.StringType,
			celgo.UnaryBinding(func(values ref.Val) ref.Val {
				out, _ := classNames(celNative(values))
				return types.String(out.(string))
			}),
		)),
		celgo.Function(fnWhen,
			celgo.Overload("when_bool_dyn",
				[]*celgo.Type{celgo.BoolType, celgo.DynType}, celgo.DynType,
				celgo.BinaryBinding(func(cond, classes ref.Val) ref.Val {
					if cond == types.True {
						return classes
					}
					return types.NullValue
				}),
			),
			celgo.Overload("when_bool_dyn_dyn",
				[]*celgo.Type{celgo.BoolType, celgo.DynType, celgo.DynType}, celgo.DynType,
				celgo.FunctionBinding(functions.FunctionOp(func(values ...ref.Val) ref.Val {
					if values[0] == types.True {
						return values[1]
					}
					return values[2]
				})),
			),
		),
		celgo.Function(fnCall, celgo.Overload("call_string_list",
			[]*celgo.Type{celgo.StringType, celgo.ListType(celgo.DynType)}, celgo.DynType,
			celgo.BinaryBinding(func(name, args ref.Val) ref.Val {
				fn, ok := name.Value().(string)
				if !ok {
					return types.NewErr("assembler: call name must be string, got %s", name.Type().TypeName())
				}
				return celCall(table[fnCall], append([]any{fn}, celArgs(args)...))
			}),
		)),
	}
	for _, name := range e.registry.Names() {
		fn := table[name]
		opts = append(opts, celgo.Function(name, celgo.Overload(name+"_list",
			[]*celgo.Type{celgo.ListType(celgo.DynType)}, celgo.DynType,
			celgo.UnaryBinding(func(args ref.Val) ref.Val {
				return celCall(fn, celArgs(args))
			}),
		)))
	}
	return opts
}

func celArgs(list ref.Val) []any {
	args, _ := celNative(list).([]any)
	return args
}

func celCall(fn Function, args []any) ref.Val {
	out, err := fn(args...)
	if err != nil {
		return types.NewErr("%s", err.Error())
	}
	if out == nil {
		return types.NullValue
	}
	return types.DefaultTypeAdapter.NativeToValue(out)
}

type celRule struct {
	evaluator *celEvaluator
	source    string
}

// Evaluate type-checks again when the selections declare a different set of
// variables than the cached program.
func (r celRule) Evaluate(ctx RuleContext) (any, error) {
	program, err := r.evaluator.program(r.source, variableNames(mapKeys(ctx.Selections)))
	if err != nil {
		return nil, evaluateError("cel", r.source, ctx, err)
	}
	out, _, err := program.program.Eval(expressionEnv(ctx))
	if err != nil {
		return nil, evaluateError("cel", r.source, ctx, err)
	}
	return celNative(out), nil
}

func mapKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	return keys
}

// variableNames sorts and dedupes names, dropping empty and reserved ones.
func variableNames(names []string) []string {
	out := make([]string, 0, len(names))
	for _, name := range names {
		if name == "" || reservedVariable(name) {
			continue
		}
		out = append(out, name)
	}
	sort.Strings(out)
	deduped := out[:0]
	for i, name := range out {
		if i == 0 || name != out[i-1] {
			deduped = append(deduped, name)
		}
	}
	return deduped
}

// celNative turns CEL values into plain Go values FromAny understands. Lists
// and maps convert element by element so null stays nil.
func celNative(out ref.Val) any {
	if out == nil || out == types.NullValue {
		return nil
	}
	switch v := out.(type) {
	case traits.Lister:
		size, _ := v.Size().(types.Int)
		items := make([]any, 0, int(size))
		for i := types.Int(0); i < size; i++ {
			items = append(items, celNative(v.Get(i)))
		}
		return items
	case traits.Mapper:
		entries := make(map[string]any)
		for it := v.Iterator(); it.HasNext() == types.True; {
			key := it.Next()
			if name, ok := key.Value().(string); ok {
				entries[name] = celNative(v.Get(key))
			}
		}
		return entries
	}
	return out.Value()
}
