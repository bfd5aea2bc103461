package assembler

import (
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"
)

// ClassValue describes something that can become class names. The set of
// implementations is closed: Class, List, Flags, Func and Expr.
type ClassValue interface {
	classValue()
}

// Class is a literal class string, passed through unchanged.
type Class string

// List is an ordered sequence of class values, possibly nested.
type List []ClassValue

// Flags includes every key whose value is true.
type Flags map[string]bool

// Func computes a class value from the selections of the current call.
type Func func(Selections) ClassValue

// Expr is an expression evaluated against the selections of the current call.
// The result is converted with FromAny.
type Expr string

func (Class) classValue() {}
func (List) classValue()  {}
func (Flags) classValue() {}
func (Func) classValue()  {}
func (Expr) classValue()  {}

// ExprKey marks a decoded mapping as an expression: {"$expr": "..."}.
const ExprKey = "$expr"

// maxDepth bounds nested or self-referencing values.
const maxDepth = 64

// Compile flattens value into a space separated class string. Expressions run
// on the default expr engine; use an Assembler to pick another evaluator.
func Compile(value ClassValue, selections Selections) string {
	n := normalizer{evaluator: defaultEvaluator(), logger: discardEvaluations{}}
	return n.compile(value, selections)
}

// normalizer carries the collaborators needed to flatten expression values.
type normalizer struct {
	evaluator Evaluator
	logger    EvaluatorLogger
	component string
	groups    []string
}

func (n normalizer) compile(value ClassValue, selections Selections) string {
	return n.walk(value, selections, "", 0)
}

func (n normalizer) walk(value ClassValue, selections Selections, group string, depth int) string {
	if value == nil || depth > maxDepth {
		return ""
	}
	switch v := value.(type) {
	case Class:
		return string(v)
	case List:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			if out := n.walk(item, selections, group, depth+1); out != "" {
				parts = append(parts, out)
			}
		}
		return strings.Join(parts, " ")
	case Flags:
		keys := make([]string, 0, len(v))
		for key, on := range v {
			if on && key != "" {
				keys = append(keys, key)
			}
		}
		sort.Strings(keys)
		return strings.Join(keys, " ")
	case Func:
		if v == nil {
			return ""
		}
		return n.walk(v(selections.Clone()), selections, group, depth+1)
	case Expr:
		return n.walk(n.evaluate(v, selections, group), selections, group, depth+1)
	default:
		return ""
	}
}

func (n normalizer) evaluate(expr Expr, selections Selections, group string) ClassValue {
	if expr == "" || n.evaluator == nil {
		return nil
	}
	ctx := RuleContext{
		Selections: selections.binding(n.groups),
		Group:      group,
		Component:  n.component,
	}
	out, err := evaluateLogged(n.evaluator, n.logger, ctx, string(expr))
	if err != nil {
		return nil
	}
	return FromAny(out)
}

// FromAny converts a dynamic value into a ClassValue using classnames
// truthiness. Unsupported values convert to nil.
func FromAny(value any) ClassValue {
	switch v := value.(type) {
	case nil:
		return nil
	case ClassValue:
		return v
	case string:
		if v == "" {
			return nil
		}
		return Class(v)
	case bool:
		return nil
	case []string:
		list := make(List, 0, len(v))
		for _, item := range v {
			list = append(list, Class(item))
		}
		return list
	case []any:
		list := make(List, 0, len(v))
		for _, item := range v {
			if cv := FromAny(item); cv != nil {
				list = append(list, cv)
			}
		}
		return list
	case map[string]bool:
		flags := make(Flags, len(v))
		for key, on := range v {
			flags[key] = on
		}
		return flags
	case map[string]any:
		if raw, ok := v[ExprKey]; ok && len(v) == 1 {
			if source, ok := raw.(string); ok {
				return Expr(source)
			}
		}
		flags := make(Flags, len(v))
		for key, item := range v {
			flags[key] = truthy(item)
		}
		return flags
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if rv.Int() == 0 {
			return nil
		}
		return Class(strconv.FormatInt(rv.Int(), 10))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if rv.Uint() == 0 {
			return nil
		}
		return Class(strconv.FormatUint(rv.Uint(), 10))
	case reflect.Float32, reflect.Float64:
		if rv.Float() == 0 || math.IsNaN(rv.Float()) {
			return nil
		}
		return Class(strconv.FormatFloat(rv.Float(), 'f', -1, 64))
	case reflect.Slice, reflect.Array:
		list := make(List, 0, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			if cv := FromAny(rv.Index(i).Interface()); cv != nil {
				list = append(list, cv)
			}
		}
		return list
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil
		}
		flags := make(Flags, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			flags[iter.Key().String()] = truthy(iter.Value().Interface())
		}
		return flags
	}
	if s, ok := value.(fmt.Stringer); ok {
		return FromAny(s.String())
	}
	return nil
}

func truthy(value any) bool {
	switch v := value.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		return v != ""
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() != 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return rv.Uint() != 0
	case reflect.Float32, reflect.Float64:
		return rv.Float() != 0 && !math.IsNaN(rv.Float())
	case reflect.Pointer, reflect.Interface:
		return !rv.IsNil()
	}
	return true
}

func cloneClassValue(value ClassValue) ClassValue {
	switch v := value.(type) {
	case List:
		if v == nil {
			return List(nil)
		}
		out := make(List, len(v))
		for i, item := range v {
			out[i] = cloneClassValue(item)
		}
		return out
	case Flags:
		if v == nil {
			return Flags(nil)
		}
		out := make(Flags, len(v))
		for key, on := range v {
			out[key] = on
		}
		return out
	default:
		return value
	}
}

// mergeClassValue follows deepmerge rules: lists concatenate, flag sets
// merge key-wise and anything else is replaced by the stronger value.
func mergeClassValue(weak, strong ClassValue) ClassValue {
	if strong == nil {
		return cloneClassValue(weak)
	}
	switch s := strong.(type) {
	case List:
		if w, ok := weak.(List); ok {
			out := make(List, 0, len(w)+len(s))
			out = append(out, cloneClassValue(w).(List)...)
			out = append(out, cloneClassValue(s).(List)...)
			return out
		}
	case Flags:
		if w, ok := weak.(Flags); ok {
			out := make(Flags, len(w)+len(s))
			for key, on := range w {
				out[key] = on
			}
			for key, on := range s {
				out[key] = on
			}
			return out
		}
	}
	return cloneClassValue(strong)
}
