package assembler

import (
	"testing"

	"github.com/google/uuid"
)

func TestResolveWithTrace(t *testing.T) {
	a := New(buttonConfig(), WithName("button"))

	out, trace := a.ResolveWithTrace(Select("size", "medium"), Select("color", "red"))
	if out != "btn " || trace.Result != out {
		t.Fatalf("unexpected result %q (trace %q)", out, trace.Result)
	}
	if _, err := uuid.Parse(trace.ID); err != nil {
		t.Fatalf("trace id should be a uuid: %v", err)
	}
	if trace.Component != "button" {
		t.Fatalf("expected component button, got %q", trace.Component)
	}

	wantSelections := []TracedSelection{
		{Group: "size", Value: "medium", Source: SourceCall},
		{Group: "disabled", Value: false, Source: SourceDefault},
	}
	if len(trace.Selections) != len(wantSelections) {
		t.Fatalf("unexpected selections %+v", trace.Selections)
	}
	for i, want := range wantSelections {
		if trace.Selections[i] != want {
			t.Fatalf("selection %d: want %+v, got %+v", i, want, trace.Selections[i])
		}
	}

	wantContributions := []Contribution{
		{Matched: true, Classes: "btn"},
		{Group: "size", Option: "medium", Matched: false},
		{Group: "disabled", Option: "false", Matched: true, Classes: ""},
	}
	if len(trace.Contributions) != len(wantContributions) {
		t.Fatalf("unexpected contributions %+v", trace.Contributions)
	}
	for i, want := range wantContributions {
		if trace.Contributions[i] != want {
			t.Fatalf("contribution %d: want %+v, got %+v", i, want, trace.Contributions[i])
		}
	}
}

func TestResolveWithTraceMatchesResolve(t *testing.T) {
	a := New(buttonConfig())
	for _, selections := range [][]Selection{
		nil,
		{Select("size", "large")},
		{Select("disabled", true), Select("size", "large")},
	} {
		out, trace := a.ResolveWithTrace(selections...)
		if want := a.Resolve(selections...); out != want || trace.Result != want {
			t.Fatalf("trace result %q differs from Resolve %q", out, want)
		}
	}
}

func TestTraceJSONRoundTrip(t *testing.T) {
	_, trace := New(buttonConfig(), WithName("button")).ResolveWithTrace(Select("disabled", true))

	payload, err := trace.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON failed: %v", err)
	}
	decoded, err := TraceFromJSON(payload)
	if err != nil {
		t.Fatalf("TraceFromJSON failed: %v", err)
	}
	if decoded.ID != trace.ID || decoded.Result != "btn p-1 opacity-50" {
		t.Fatalf("unexpected decoded trace %+v", decoded)
	}
	if len(decoded.Contributions) != len(trace.Contributions) {
		t.Fatalf("contributions lost in round trip: %+v", decoded.Contributions)
	}
	if _, err := TraceFromJSON([]byte("{")); err == nil {
		t.Fatalf("expected error for malformed payload")
	}
}
