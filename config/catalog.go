package config

import (
	"errors"
	"fmt"
	"sort"

	assembler "github.com/goliatone/go-assembler"
)

var (
	// ErrUnknownComponent reports a lookup for a component the catalog does
	// not define.
	ErrUnknownComponent = errors.New("config: unknown component")
	// ErrEngineUnavailable reports an engine that was not compiled in.
	ErrEngineUnavailable = errors.New("config: evaluator engine unavailable")
)

// Catalog holds one Assembler per component.
type Catalog struct {
	assemblers map[string]*assembler.Assembler
}

// CatalogOption configures catalog construction.
type CatalogOption func(*catalogConfig)

type catalogConfig struct {
	cache    assembler.ProgramCache
	registry *assembler.FunctionRegistry
	options  []assembler.Option
}

// WithProgramCache shares cache between every evaluator of the catalog.
func WithProgramCache(cache assembler.ProgramCache) CatalogOption {
	return func(cfg *catalogConfig) {
		cfg.cache = cache
	}
}

// WithFunctionRegistry exposes registry to every evaluator of the catalog.
func WithFunctionRegistry(registry *assembler.FunctionRegistry) CatalogOption {
	return func(cfg *catalogConfig) {
		cfg.registry = registry
	}
}

// WithAssemblerOptions appends opts to every assembler of the catalog. They
// apply after the options derived from the definition.
func WithAssemblerOptions(opts ...assembler.Option) CatalogOption {
	return func(cfg *catalogConfig) {
		cfg.options = append(cfg.options, opts...)
	}
}

// NewCatalog builds an Assembler for every component of file. Expressions
// are compiled eagerly; all failures are returned together.
func NewCatalog(file File, opts ...CatalogOption) (*Catalog, error) {
	cfg := catalogConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.cache == nil {
		cfg.cache = assembler.NewMemoryCache()
	}

	catalog := &Catalog{assemblers: make(map[string]*assembler.Assembler, len(file.Components))}
	var errs []error
	for _, name := range sortedNames(file.Components) {
		def := file.Components[name]
		evaluator, err := cfg.evaluator(def.Engine)
		if err != nil {
			errs = append(errs, fmt.Errorf("config: component %q: %w", name, err))
			continue
		}
		mode, _ := assembler.ParseWhitespace(def.Whitespace)
		options := []assembler.Option{
			assembler.WithName(name),
			assembler.WithEvaluator(evaluator),
			assembler.WithWhitespace(mode),
		}
		options = append(options, cfg.options...)
		a, err := assembler.Load(def.Config(), options...)
		if err != nil {
			errs = append(errs, fmt.Errorf("config: component %q: %w", name, err))
			continue
		}
		catalog.assemblers[name] = a
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return catalog, nil
}

// LoadCatalog reads and layers paths, then builds the catalog.
func LoadCatalog(paths []string, opts ...CatalogOption) (*Catalog, error) {
	file, err := LoadFiles(paths...)
	if err != nil {
		return nil, err
	}
	return NewCatalog(file, opts...)
}

func (cfg catalogConfig) evaluator(engine string) (assembler.Evaluator, error) {
	switch engine {
	case "", "expr":
		return assembler.NewExprEvaluator(
			assembler.ExprWithProgramCache(cfg.cache),
			assembler.ExprWithFunctionRegistry(cfg.registry),
		), nil
	case "cel":
		return assembler.NewCELEvaluator(
			assembler.CELWithProgramCache(cfg.cache),
			assembler.CELWithFunctionRegistry(cfg.registry),
		), nil
	case "js":
		if !assembler.JSEvaluatorAvailable() {
			return nil, fmt.Errorf("%w: js (build with -tags js_eval)", ErrEngineUnavailable)
		}
		return assembler.NewJSEvaluator(
			assembler.JSWithProgramCache(cfg.cache),
			assembler.JSWithFunctionRegistry(cfg.registry),
		), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrEngineUnavailable, engine)
	}
}

// Get returns the assembler for name.
func (c *Catalog) Get(name string) (*assembler.Assembler, bool) {
	if c == nil {
		return nil, false
	}
	a, ok := c.assemblers[name]
	return a, ok
}

// Names returns the component names in ascending order.
func (c *Catalog) Names() []string {
	if c == nil {
		return nil
	}
	return sortedNames(c.assemblers)
}

// Resolve composes the class string of component name.
func (c *Catalog) Resolve(name string, selections ...assembler.Selection) (string, error) {
	a, ok := c.Get(name)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownComponent, name)
	}
	return a.Resolve(selections...), nil
}

// ResolveWithTrace composes the class string of component name and reports
// how it was built.
func (c *Catalog) ResolveWithTrace(name string, selections ...assembler.Selection) (string, assembler.Trace, error) {
	a, ok := c.Get(name)
	if !ok {
		return "", assembler.Trace{}, fmt.Errorf("%w: %q", ErrUnknownComponent, name)
	}
	out, trace := a.ResolveWithTrace(selections...)
	return out, trace, nil
}

// Describe returns the schema of component name.
func (c *Catalog) Describe(name string) (assembler.Schema, error) {
	a, ok := c.Get(name)
	if !ok {
		return assembler.Schema{}, fmt.Errorf("%w: %q", ErrUnknownComponent, name)
	}
	return a.Describe(), nil
}

func sortedNames[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
