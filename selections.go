package assembler

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
)

// Selection chooses Value for the variant group Group. A nil Value counts as
// no selection.
type Selection struct {
	Group string
	Value any
}

// Select builds a Selection.
func Select(group string, value any) Selection {
	return Selection{Group: group, Value: value}
}

// Selections is an ordered set of selections keyed by group. Each group
// appears at most once; iteration follows insertion order.
type Selections []Selection

// NewSelections builds Selections from entries, later entries replacing
// earlier ones for the same group while keeping the first position.
func NewSelections(entries ...Selection) Selections {
	var out Selections
	for _, entry := range entries {
		out = out.With(entry.Group, entry.Value)
	}
	return out
}

// SelectionsFromMap builds Selections from m in ascending group order.
func SelectionsFromMap(m map[string]any) Selections {
	if len(m) == 0 {
		return nil
	}
	groups := make([]string, 0, len(m))
	for group := range m {
		groups = append(groups, group)
	}
	sort.Strings(groups)
	out := make(Selections, 0, len(groups))
	for _, group := range groups {
		out = append(out, Selection{Group: group, Value: m[group]})
	}
	return out
}

// Get returns the value selected for group.
func (s Selections) Get(group string) (any, bool) {
	for _, entry := range s {
		if entry.Group == group {
			return entry.Value, true
		}
	}
	return nil, false
}

// With returns a copy of s with group set to value. Existing groups keep their
// position.
func (s Selections) With(group string, value any) Selections {
	out := s.Clone()
	for i := range out {
		if out[i].Group == group {
			out[i].Value = value
			return out
		}
	}
	return append(out, Selection{Group: group, Value: value})
}

// Groups returns the group names in order.
func (s Selections) Groups() []string {
	if len(s) == 0 {
		return nil
	}
	groups := make([]string, len(s))
	for i, entry := range s {
		groups[i] = entry.Group
	}
	return groups
}

// Map returns the selections as a plain map.
func (s Selections) Map() map[string]any {
	out := make(map[string]any, len(s))
	for _, entry := range s {
		out[entry.Group] = entry.Value
	}
	return out
}

// Clone returns a detached copy of s.
func (s Selections) Clone() Selections {
	if s == nil {
		return nil
	}
	out := make(Selections, len(s))
	copy(out, s)
	return out
}

// Pick keeps the entries whose group is in groups and whose value is set.
func (s Selections) Pick(groups map[string]Options) Selections {
	var out Selections
	for _, entry := range s {
		if entry.Value == nil {
			continue
		}
		if _, ok := groups[entry.Group]; !ok {
			continue
		}
		out = out.With(entry.Group, entry.Value)
	}
	return out
}

// Merge layers strong over s. Values from strong win; groups of s keep their
// position and groups only present in strong are appended.
func (s Selections) Merge(strong Selections) Selections {
	out := NewSelections(s...)
	for _, entry := range strong {
		if entry.Value == nil {
			continue
		}
		out = out.With(entry.Group, entry.Value)
	}
	return out
}

// binding exposes the selections to expression engines. Groups without a
// selection are bound to nil so expressions can reference every group.
func (s Selections) binding(groups []string) map[string]any {
	out := make(map[string]any, len(s)+len(groups))
	for _, group := range groups {
		out[group] = nil
	}
	for _, entry := range s {
		out[entry.Group] = entry.Value
	}
	return out
}

// OptionKey converts a selected value into the option key it looks up.
// Booleans map to "true" and "false", so boolean groups declare those keys.
func OptionKey(value any) (string, bool) {
	switch v := value.(type) {
	case nil:
		return "", false
	case string:
		return v, true
	case bool:
		return strconv.FormatBool(v), true
	case fmt.Stringer:
		return v.String(), true
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.String:
		return rv.String(), true
	case reflect.Bool:
		return strconv.FormatBool(rv.Bool()), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(rv.Uint(), 10), true
	case reflect.Float32, reflect.Float64:
		return strconv.FormatFloat(rv.Float(), 'f', -1, 64), true
	}
	return "", false
}
