package assembler

import (
	"fmt"
	"sort"
)

// Every engine exposes two class helpers:
//
//	cx(values...)                  joins values with the Compile rules
//	when(cond, classes[, otherwise]) picks classes by the truthiness of cond
//
// and call(name, args...) for dynamic dispatch.
const (
	fnClassNames = "cx"
	fnWhen       = "when"
	fnCall       = "call"
)

func builtinFunctions() map[string]Function {
	return map[string]Function{
		fnClassNames: classNames,
		fnWhen:       when,
	}
}

func isBuiltinFunction(name string) bool {
	switch name {
	case fnClassNames, fnWhen, fnCall:
		return true
	}
	return false
}

// classNames flattens args without evaluating nested expressions.
func classNames(args ...any) (any, error) {
	return normalizer{}.compile(FromAny(args), nil), nil
}

func when(args ...any) (any, error) {
	switch len(args) {
	case 2:
		if truthy(args[0]) {
			return args[1], nil
		}
		return nil, nil
	case 3:
		if truthy(args[0]) {
			return args[1], nil
		}
		return args[2], nil
	default:
		return nil, fmt.Errorf("assembler: when expects 2 or 3 arguments, got %d", len(args))
	}
}

// functionTable merges the builtins with the functions of registry and adds
// call, which dispatches over the same table.
func functionTable(registry *FunctionRegistry) map[string]Function {
	table := builtinFunctions()
	if registry != nil {
		registry.mu.RLock()
		for name, fn := range registry.functions {
			table[name] = fn
		}
		registry.mu.RUnlock()
	}
	table[fnCall] = func(args ...any) (any, error) {
		if len(args) == 0 {
			return nil, fmt.Errorf("assembler: call requires a function name")
		}
		name, ok := args[0].(string)
		if !ok {
			return nil, fmt.Errorf("assembler: call name must be string, got %T", args[0])
		}
		fn, ok := table[normalizeFunctionName(name)]
		if !ok || name == fnCall {
			return nil, fmt.Errorf("assembler: function %q not registered", name)
		}
		return fn(args[1:]...)
	}
	return table
}

func sortedFunctionNames(table map[string]Function) []string {
	names := make([]string, 0, len(table))
	for name := range table {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
