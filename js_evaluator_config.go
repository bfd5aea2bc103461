package assembler

// JSEvaluatorOption configures NewJSEvaluator.
type JSEvaluatorOption func(*jsSettings)

type jsSettings struct {
	cache    ProgramCache
	registry *FunctionRegistry
}

// JSWithProgramCache stores compiled scripts in cache under "js:<source>".
func JSWithProgramCache(cache ProgramCache) JSEvaluatorOption {
	return func(s *jsSettings) {
		s.cache = cache
	}
}

// JSWithFunctionRegistry binds the functions of registry as globals.
func JSWithFunctionRegistry(registry *FunctionRegistry) JSEvaluatorOption {
	return func(s *jsSettings) {
		s.registry = registry.Clone()
	}
}

func newJSSettings(opts []JSEvaluatorOption) jsSettings {
	var s jsSettings
	for _, opt := range opts {
		if opt != nil {
			opt(&s)
		}
	}
	return s
}

// JSEvaluatorAvailable reports whether NewJSEvaluator returns an engine,
// which needs the js_eval build tag.
func JSEvaluatorAvailable() bool {
	return jsEvaluatorAvailable()
}
