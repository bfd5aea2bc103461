package assembler

import (
	"strings"
	"testing"
)

func TestClassNamesFlattensValues(t *testing.T) {
	out, err := classNames("btn", []any{"p-1", nil, false}, map[string]any{"ring": true, "shadow": false}, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "btn p-1 ring" {
		t.Fatalf("unexpected output %q", out)
	}

	out, _ = classNames(map[string]any{ExprKey: "size"})
	if out != "" {
		t.Fatalf("nested expressions should not be evaluated, got %q", out)
	}
}

func TestWhen(t *testing.T) {
	cases := []struct {
		args []any
		want any
	}{
		{[]any{true, "a"}, "a"},
		{[]any{false, "a"}, nil},
		{[]any{"", "a", "b"}, "b"},
		{[]any{"yes", "a", "b"}, "a"},
	}
	for _, tc := range cases {
		got, err := when(tc.args...)
		if err != nil {
			t.Fatalf("when(%v) failed: %v", tc.args, err)
		}
		if got != tc.want {
			t.Fatalf("when(%v) = %v, want %v", tc.args, got, tc.want)
		}
	}
	if _, err := when(true); err == nil {
		t.Fatalf("expected arity error")
	}
}

func TestRegistryRejectsBuiltinNames(t *testing.T) {
	registry := NewFunctionRegistry()
	for _, name := range []string{"cx", "When", " call "} {
		err := registry.Register(name, classNames)
		if err == nil || !strings.Contains(err.Error(), "shadows a builtin") {
			t.Fatalf("expected %q to be rejected, got %v", name, err)
		}
	}
}

func TestFunctionTableCall(t *testing.T) {
	registry := NewFunctionRegistry().MustRegister("tone", func(args ...any) (any, error) {
		return "text-" + args[0].(string), nil
	})
	table := functionTable(registry)

	if got, err := table["call"]("TONE", "red"); err != nil || got != "text-red" {
		t.Fatalf("unexpected call result %v, %v", got, err)
	}
	if got, err := table["call"]("when", true, "x"); err != nil || got != "x" {
		t.Fatalf("call should reach builtins, got %v, %v", got, err)
	}
	if _, err := table["call"]("call", "tone"); err == nil {
		t.Fatalf("call should not dispatch to itself")
	}
	if _, err := table["call"](); err == nil {
		t.Fatalf("expected missing name to fail")
	}
	if names := sortedFunctionNames(functionTable(nil)); strings.Join(names, ",") != "call,cx,when" {
		t.Fatalf("unexpected builtin names %v", names)
	}
}

func TestClassHelpersInExpressions(t *testing.T) {
	ctx := RuleContext{
		Selections: map[string]any{"size": "large", "disabled": true},
		Component:  "button",
	}
	cases := []struct {
		engine    string
		evaluator Evaluator
		expr      string
	}{
		{"expr", NewExprEvaluator(), `cx("p-4", when(disabled, "opacity-50"), when(size == "small", "text-sm"))`},
		{"cel", NewCELEvaluator(), `cx(["p-4", when(disabled, "opacity-50"), when(size == "small", "text-sm")])`},
	}
	for _, tc := range cases {
		t.Run(tc.engine, func(t *testing.T) {
			out, err := tc.evaluator.Evaluate(ctx, tc.expr)
			if err != nil {
				t.Fatalf("evaluate failed: %v", err)
			}
			if out != "p-4 opacity-50" {
				t.Fatalf("unexpected output %v", out)
			}
		})
	}
}

func TestWhenWithFallbackResolves(t *testing.T) {
	cfg := buttonConfig()
	cfg.CSS = List{Class("btn"), Expr(`when(disabled, "cursor-not-allowed", "cursor-pointer")`)}
	a, err := Load(cfg)
	if err != nil {
		t.Fatalf("unexpected Load error: %v", err)
	}
	if got := a.Resolve(); got != "btn cursor-pointer p-1 " {
		t.Fatalf("unexpected output %q", got)
	}
	if got := a.Resolve(Select("disabled", true)); got != "btn cursor-not-allowed p-1 opacity-50" {
		t.Fatalf("unexpected output %q", got)
	}
}
