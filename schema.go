package assembler

import "sort"

// Schema describes the variant groups of an Assembler.
type Schema struct {
	Component string            `json:"component,omitempty"`
	Groups    []GroupDescriptor `json:"groups"`
}

// GroupDescriptor describes one variant group.
type GroupDescriptor struct {
	Name    string   `json:"name"`
	Options []string `json:"options"`
	Default any      `json:"default,omitempty"`
	Boolean bool     `json:"boolean,omitempty"`
}

// Group returns the descriptor for name.
func (s Schema) Group(name string) (GroupDescriptor, bool) {
	for _, group := range s.Groups {
		if group.Name == name {
			return group, true
		}
	}
	return GroupDescriptor{}, false
}

// Describe lists the variant groups in ascending name order. A group is
// boolean when it declares a "true" or "false" option.
func (a *Assembler) Describe() Schema {
	if a == nil {
		return Schema{Groups: []GroupDescriptor{}}
	}
	schema := Schema{
		Component: a.Name(),
		Groups:    make([]GroupDescriptor, 0, len(a.groups)),
	}
	for _, name := range a.groups {
		options := a.cfg.Variants[name]
		descriptor := GroupDescriptor{
			Name:    name,
			Options: make([]string, 0, len(options)),
		}
		for key := range options {
			descriptor.Options = append(descriptor.Options, key)
			if key == "true" || key == "false" {
				descriptor.Boolean = true
			}
		}
		sort.Strings(descriptor.Options)
		if value, ok := a.cfg.Defaults.Get(name); ok {
			descriptor.Default = value
		}
		schema.Groups = append(schema.Groups, descriptor)
	}
	return schema
}
