//go:build js_eval

package assembler

import "testing"

func TestJSEvaluatorClassValues(t *testing.T) {
	if !JSEvaluatorAvailable() {
		t.Fatalf("js evaluator should be available with the js_eval tag")
	}
	cfg := buttonConfig()
	cfg.CSS = List{Class("btn"), Expr(`disabled ? ["cursor-not-allowed", "select-none"] : ""`)}
	a, err := Load(cfg, WithEvaluator(NewJSEvaluator(JSWithProgramCache(NewMemoryCache()))))
	if err != nil {
		t.Fatalf("unexpected Load error: %v", err)
	}

	if got := a.Resolve(Select("disabled", true)); got != "btn cursor-not-allowed select-none p-1 opacity-50" {
		t.Fatalf("unexpected output %q", got)
	}
	if got := a.Resolve(); got != "btn p-1 " {
		t.Fatalf("unexpected output %q", got)
	}
}
