package assembler

import (
	"encoding/json"

	"github.com/google/uuid"
)

// Source tells where a traced selection came from.
type Source string

const (
	SourceDefault Source = "default"
	SourceCall    Source = "call"
)

// Trace records how a class string was composed.
type Trace struct {
	ID            string            `json:"id"`
	Component     string            `json:"component,omitempty"`
	Selections    []TracedSelection `json:"selections"`
	Contributions []Contribution    `json:"contributions"`
	Result        string            `json:"result"`
}

// TracedSelection is one entry of the merged selections.
type TracedSelection struct {
	Group  string `json:"group"`
	Value  any    `json:"value,omitempty"`
	Source Source `json:"source"`
}

// Contribution is one element of the accumulator. The base classes have an
// empty Group. Unmatched selections are listed with Matched false.
type Contribution struct {
	Group   string `json:"group,omitempty"`
	Option  string `json:"option,omitempty"`
	Matched bool   `json:"matched"`
	Classes string `json:"classes"`
}

// ResolveWithTrace behaves like Resolve and also reports how the result was
// composed.
func (a *Assembler) ResolveWithTrace(selections ...Selection) (string, Trace) {
	trace := Trace{ID: uuid.NewString()}
	if a == nil {
		return "", trace
	}
	trace.Component = a.Name()

	filtered := Selections(selections).Pick(a.cfg.Variants)
	for _, entry := range a.merge(selections) {
		source := SourceDefault
		if _, ok := filtered.Get(entry.Group); ok {
			source = SourceCall
		}
		trace.Selections = append(trace.Selections, TracedSelection{
			Group:  entry.Group,
			Value:  entry.Value,
			Source: source,
		})
	}

	out, composers := a.resolve(selections, true)
	trace.Contributions = make([]Contribution, 0, len(composers))
	for _, c := range composers {
		trace.Contributions = append(trace.Contributions, Contribution{
			Group:   c.group,
			Option:  c.option,
			Matched: c.matched,
			Classes: c.classes,
		})
	}
	trace.Result = out
	return out, trace
}

// ToJSON serialises the trace into JSON for logging or transport helpers.
func (t Trace) ToJSON() ([]byte, error) {
	type alias Trace
	return json.Marshal(alias(t))
}

// TraceFromJSON deserialises a JSON payload that was previously generated via
// ToJSON.
func TraceFromJSON(payload []byte) (Trace, error) {
	type alias Trace
	var trace alias
	if err := json.Unmarshal(payload, &trace); err != nil {
		return Trace{}, err
	}
	return Trace(trace), nil
}
