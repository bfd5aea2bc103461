package assembler

// Options maps an option value of a variant group to its class value. Boolean
// groups use the keys "true" and "false".
type Options map[string]ClassValue

// Variants maps a variant group name to its option table.
type Variants map[string]Options

// Config declares the base classes, the variant schema and the default
// selections of a component.
type Config struct {
	CSS      ClassValue
	Variants Variants
	Defaults Selections
}

func defaultConfig() Config {
	return Config{
		CSS:      Class(""),
		Variants: Variants{},
		Defaults: Selections{},
	}
}

// MergeConfig deep merges override over base and returns a detached copy.
// Option tables merge per group and per option; lists concatenate; flag sets
// merge key-wise; any other class value is replaced. Defaults from override
// win, keeping the order of base first.
func MergeConfig(base, override Config) Config {
	merged := Config{
		CSS:      mergeClassValue(base.CSS, override.CSS),
		Variants: make(Variants, len(base.Variants)+len(override.Variants)),
		Defaults: NewSelections(base.Defaults...),
	}
	for group, options := range base.Variants {
		merged.Variants[group] = cloneOptions(options)
	}
	for group, options := range override.Variants {
		existing, ok := merged.Variants[group]
		if !ok || existing == nil {
			merged.Variants[group] = cloneOptions(options)
			continue
		}
		for key, value := range options {
			if current, ok := existing[key]; ok {
				existing[key] = mergeClassValue(current, value)
				continue
			}
			existing[key] = cloneClassValue(value)
		}
	}
	for _, entry := range override.Defaults {
		merged.Defaults = merged.Defaults.With(entry.Group, entry.Value)
	}
	return merged
}

func cloneOptions(options Options) Options {
	if options == nil {
		return nil
	}
	out := make(Options, len(options))
	for key, value := range options {
		out[key] = cloneClassValue(value)
	}
	return out
}

// walkClassValues visits every class value reachable from cfg without
// evaluating functions or expressions.
func walkClassValues(cfg Config, visit func(group, option string, value ClassValue)) {
	var walk func(group, option string, value ClassValue, depth int)
	walk = func(group, option string, value ClassValue, depth int) {
		if value == nil || depth > maxDepth {
			return
		}
		visit(group, option, value)
		if list, ok := value.(List); ok {
			for _, item := range list {
				walk(group, option, item, depth+1)
			}
		}
	}
	walk("", "", cfg.CSS, 0)
	for group, options := range cfg.Variants {
		for option, value := range options {
			walk(group, option, value, 0)
		}
	}
}
