package config

import (
	"sort"

	assembler "github.com/goliatone/go-assembler"
)

// File is the decoded form of a catalog document.
type File struct {
	Components map[string]Definition `json:"components" validate:"required,dive,keys,required,endkeys"`
}

// Definition declares one component. Class values follow the rules of
// assembler.FromAny; a mapping with the single key "$expr" is an expression.
type Definition struct {
	CSS             any                       `json:"css"`
	Variants        map[string]map[string]any `json:"variants" validate:"omitempty,dive,keys,required,endkeys"`
	DefaultVariants map[string]any            `json:"defaultVariants"`
	// Order lists the groups of DefaultVariants in resolution order. Groups
	// left out follow in ascending name order.
	Order      []string `json:"order" validate:"omitempty,dive,required"`
	Engine     string   `json:"engine" validate:"omitempty,oneof=expr cel js"`
	Whitespace string   `json:"whitespace" validate:"omitempty,oneof=first all"`
}

// Config converts the definition into an assembler.Config.
func (d Definition) Config() assembler.Config {
	cfg := assembler.Config{
		CSS:      assembler.FromAny(d.CSS),
		Variants: make(assembler.Variants, len(d.Variants)),
		Defaults: d.defaults(),
	}
	for group, options := range d.Variants {
		table := make(assembler.Options, len(options))
		for key, value := range options {
			table[key] = optionValue(value)
		}
		cfg.Variants[group] = table
	}
	return cfg
}

// optionValue keeps empty strings as an explicit empty class so that an
// option declared as "" still counts as declared.
func optionValue(value any) assembler.ClassValue {
	if s, ok := value.(string); ok {
		return assembler.Class(s)
	}
	return assembler.FromAny(value)
}

func (d Definition) defaults() assembler.Selections {
	var out assembler.Selections
	for _, group := range d.Order {
		if value, ok := d.DefaultVariants[group]; ok {
			out = out.With(group, value)
		}
	}
	rest := make([]string, 0, len(d.DefaultVariants))
	for group := range d.DefaultVariants {
		if _, ok := out.Get(group); !ok {
			rest = append(rest, group)
		}
	}
	sort.Strings(rest)
	for _, group := range rest {
		out = out.With(group, d.DefaultVariants[group])
	}
	return out
}
