package assembler

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Function is a helper callable from class expressions.
type Function func(args ...any) (any, error)

// FunctionRegistry holds the helpers that expressions may call besides the
// builtins cx, when and call. Names are case-insensitive. Safe for concurrent
// use.
type FunctionRegistry struct {
	mu        sync.RWMutex
	functions map[string]Function
}

// NewFunctionRegistry constructs an empty registry.
func NewFunctionRegistry() *FunctionRegistry {
	return &FunctionRegistry{functions: make(map[string]Function)}
}

func normalizeFunctionName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Register adds fn under name. Builtin names and duplicates are rejected.
func (r *FunctionRegistry) Register(name string, fn Function) error {
	key := normalizeFunctionName(name)
	switch {
	case fn == nil:
		return fmt.Errorf("assembler: function %q is nil", name)
	case key == "":
		return fmt.Errorf("assembler: function name must not be empty")
	case isBuiltinFunction(key):
		return fmt.Errorf("assembler: function %q shadows a builtin", name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.functions == nil {
		r.functions = make(map[string]Function)
	}
	if _, exists := r.functions[key]; exists {
		return fmt.Errorf("assembler: function %q already registered", name)
	}
	r.functions[key] = fn
	return nil
}

// MustRegister is Register that panics on error, for package-level setup.
func (r *FunctionRegistry) MustRegister(name string, fn Function) *FunctionRegistry {
	if err := r.Register(name, fn); err != nil {
		panic(err)
	}
	return r
}

// Clone returns a copy that no longer shares storage with r.
func (r *FunctionRegistry) Clone() *FunctionRegistry {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	clone := NewFunctionRegistry()
	for name, fn := range r.functions {
		clone.functions[name] = fn
	}
	return clone
}

// Call runs the registered function name. Builtins are not reachable here.
func (r *FunctionRegistry) Call(name string, args ...any) (any, error) {
	if r == nil {
		return nil, fmt.Errorf("assembler: function registry is nil")
	}
	r.mu.RLock()
	fn := r.functions[normalizeFunctionName(name)]
	r.mu.RUnlock()
	if fn == nil {
		return nil, fmt.Errorf("assembler: function %q not registered", name)
	}
	return fn(args...)
}

// Names returns the registered names in ascending order.
func (r *FunctionRegistry) Names() []string {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.functions))
	for name := range r.functions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// WithFunctionRegistry exposes the functions of registry to the default
// evaluator. The registry is copied.
func WithFunctionRegistry(registry *FunctionRegistry) Option {
	return func(cfg *assemblerConfig) {
		if registry == nil {
			return
		}
		cfg.functions = registry.Clone()
	}
}

// WithCustomFunction registers fn under name for the default evaluator.
// Invalid registrations are ignored; use a FunctionRegistry to see the error.
func WithCustomFunction(name string, fn Function) Option {
	return func(cfg *assemblerConfig) {
		if cfg.functions == nil {
			cfg.functions = NewFunctionRegistry()
		}
		_ = cfg.functions.Register(name, fn)
	}
}
