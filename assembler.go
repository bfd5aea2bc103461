package assembler

import (
	"errors"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Resolver composes the class string for one set of call-site selections.
type Resolver func(selections ...Selection) string

// Assembler holds a component configuration and resolves class strings from
// it. It is immutable after construction and safe for concurrent use.
type Assembler struct {
	cfg    Config
	opts   []Option
	config assemblerConfig
	norm   normalizer
	groups []string
}

// New merges cfg over the empty configuration and returns an Assembler that
// owns a private copy of it. The schema is not validated; malformed entries
// contribute nothing at resolution time.
func New(cfg Config, opts ...Option) *Assembler {
	config := applyOptions(opts)
	merged := MergeConfig(defaultConfig(), cfg)
	groups := make([]string, 0, len(merged.Variants))
	for group := range merged.Variants {
		groups = append(groups, group)
	}
	sort.Strings(groups)
	return &Assembler{
		cfg:    merged,
		opts:   append([]Option(nil), opts...),
		config: config,
		groups: groups,
		norm: normalizer{
			evaluator: config.resolveEvaluator(),
			logger:    config.evaluatorLogger(),
			component: config.name,
			groups:    groups,
		},
	}
}

// Assemble builds an Assembler and returns its Resolver.
func Assemble(cfg Config, opts ...Option) Resolver {
	return New(cfg, opts...).Resolver()
}

// Load builds an Assembler and compiles every expression of the
// configuration, returning the joined compile errors.
func Load(cfg Config, opts ...Option) (*Assembler, error) {
	a := New(cfg, opts...)
	if err := a.Validate(); err != nil {
		return nil, err
	}
	return a, nil
}

// Validate compiles every Expr reachable from the configuration.
func (a *Assembler) Validate() error {
	if a == nil {
		return nil
	}
	var errs []error
	walkClassValues(a.cfg, func(group, option string, value ClassValue) {
		expr, ok := value.(Expr)
		if !ok {
			return
		}
		if a.norm.evaluator == nil {
			errs = append(errs, ErrNoEvaluator)
			return
		}
		_, err := a.norm.evaluator.Compile(string(expr), CompileWithVariables(a.groups...))
		if err != nil {
			errs = append(errs, annotate(err, EvaluationError{
				Engine:    evaluatorEngineName(a.norm.evaluator),
				Phase:     PhaseCompile,
				Expr:      string(expr),
				Component: a.Name(),
				Group:     group,
			}))
		}
	})
	return errors.Join(errs...)
}

// Name returns the name configured with WithName.
func (a *Assembler) Name() string {
	if a == nil {
		return ""
	}
	return a.config.name
}

// Config returns a copy of the merged configuration.
func (a *Assembler) Config() Config {
	if a == nil {
		return defaultConfig()
	}
	return MergeConfig(Config{}, a.cfg)
}

// Extend returns a new Assembler whose configuration is cfg deep merged over
// the current one. Options are carried over; extra opts apply last.
func (a *Assembler) Extend(cfg Config, opts ...Option) *Assembler {
	if a == nil {
		return New(cfg, opts...)
	}
	combined := append(append([]Option(nil), a.opts...), opts...)
	return New(MergeConfig(a.cfg, cfg), combined...)
}

// Resolver returns the resolve function of a.
func (a *Assembler) Resolver() Resolver {
	return a.Resolve
}

// Resolve composes the class string for the given call-site selections.
func (a *Assembler) Resolve(selections ...Selection) string {
	return a.ResolveSelections(Selections(selections))
}

// ResolveSelections composes the class string for selections.
func (a *Assembler) ResolveSelections(selections Selections) string {
	out, _ := a.resolve(selections, false)
	return out
}

type contribution struct {
	group   string
	option  string
	value   ClassValue
	matched bool
	classes string
}

func (a *Assembler) resolve(selections Selections, trace bool) (string, []contribution) {
	if a == nil {
		return "", nil
	}
	merged := a.merge(selections)

	composers := []contribution{{value: a.cfg.CSS, matched: true}}
	for _, entry := range merged {
		if entry.Value == nil {
			continue
		}
		key, ok := OptionKey(entry.Value)
		c := contribution{group: entry.Group, option: key}
		if ok {
			if options, found := a.cfg.Variants[entry.Group]; found {
				if value, found := options[key]; found {
					c.value = value
					c.matched = true
				}
			}
		}
		if c.matched || trace {
			composers = append(composers, c)
		}
	}

	parts := make([]string, 0, len(composers))
	for i := range composers {
		if !composers[i].matched {
			continue
		}
		composers[i].classes = a.norm.walk(composers[i].value, merged, composers[i].group, 0)
		parts = append(parts, composers[i].classes)
	}
	return collapseWhitespace(strings.Join(parts, " "), a.config.whitespace), composers
}

// merge layers the call-site selections for known groups over the defaults.
func (a *Assembler) merge(selections Selections) Selections {
	return a.cfg.Defaults.Merge(selections.Pick(a.cfg.Variants))
}

// collapseWhitespace replaces runs of unicode whitespace with a single space.
// WhitespaceFirstRun only touches the first run.
func collapseWhitespace(s string, mode Whitespace) string {
	var b strings.Builder
	b.Grow(len(s))
	collapsed := false
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if !unicode.IsSpace(r) || (collapsed && mode == WhitespaceFirstRun) {
			b.WriteString(s[i : i+size])
			i += size
			continue
		}
		j := i + size
		for j < len(s) {
			next, n := utf8.DecodeRuneInString(s[j:])
			if !unicode.IsSpace(next) {
				break
			}
			j += n
		}
		b.WriteByte(' ')
		collapsed = true
		i = j
	}
	return b.String()
}
