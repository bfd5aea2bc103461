package assembler

// Whitespace selects how the joined class string is collapsed.
type Whitespace int

const (
	// WhitespaceFirstRun collapses only the first run of whitespace to a
	// single space. Later runs are left as they are.
	WhitespaceFirstRun Whitespace = iota
	// WhitespaceAll collapses every run of whitespace to a single space.
	WhitespaceAll
)

// String implements fmt.Stringer.
func (w Whitespace) String() string {
	switch w {
	case WhitespaceAll:
		return "all"
	default:
		return "first"
	}
}

// ParseWhitespace maps "first" and "all" to their Whitespace mode. Anything
// else yields WhitespaceFirstRun and false.
func ParseWhitespace(name string) (Whitespace, bool) {
	switch name {
	case "", "first":
		return WhitespaceFirstRun, true
	case "all":
		return WhitespaceAll, true
	default:
		return WhitespaceFirstRun, false
	}
}

// Option configures an Assembler.
type Option func(*assemblerConfig)

type assemblerConfig struct {
	name         string
	evaluator    Evaluator
	programCache ProgramCache
	functions    *FunctionRegistry
	logger       EvaluatorLogger
	whitespace   Whitespace
}

func applyOptions(opts []Option) assemblerConfig {
	cfg := assemblerConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// WithName labels the assembler. The name shows up in traces, schemas and
// evaluator log events.
func WithName(name string) Option {
	return func(cfg *assemblerConfig) {
		cfg.name = name
	}
}

// WithEvaluator configures the evaluator used for Expr class values.
func WithEvaluator(e Evaluator) Option {
	return func(cfg *assemblerConfig) {
		cfg.evaluator = e
	}
}

// WithWhitespace selects the whitespace collapse mode.
func WithWhitespace(mode Whitespace) Option {
	return func(cfg *assemblerConfig) {
		cfg.whitespace = mode
	}
}

func (cfg assemblerConfig) evaluatorLogger() EvaluatorLogger {
	if cfg.logger != nil {
		return cfg.logger
	}
	return discardEvaluations{}
}

// resolveEvaluator returns the configured evaluator, building the default
// expr engine with the configured cache and registry otherwise.
func (cfg assemblerConfig) resolveEvaluator() Evaluator {
	if cfg.evaluator != nil {
		return cfg.evaluator
	}
	var exprOpts []ExprEvaluatorOption
	if cfg.programCache != nil {
		exprOpts = append(exprOpts, ExprWithProgramCache(cfg.programCache))
	}
	if cfg.functions != nil {
		exprOpts = append(exprOpts, ExprWithFunctionRegistry(cfg.functions))
	}
	return NewExprEvaluator(exprOpts...)
}
