package assembler

import (
	"reflect"
	"testing"
)

type tone string

type level int

func TestSelectionsWithKeepsPosition(t *testing.T) {
	s := NewSelections(Select("size", "small"), Select("disabled", false))
	updated := s.With("size", "large").With("tone", "info")

	if got := updated.Groups(); !reflect.DeepEqual(got, []string{"size", "disabled", "tone"}) {
		t.Fatalf("unexpected group order %v", got)
	}
	if v, _ := s.Get("size"); v != "small" {
		t.Fatalf("With mutated the receiver: %v", v)
	}
	if v, _ := updated.Get("size"); v != "large" {
		t.Fatalf("expected large, got %v", v)
	}
}

func TestNewSelectionsLaterEntriesWin(t *testing.T) {
	s := NewSelections(Select("size", "small"), Select("tone", "info"), Select("size", "large"))
	if len(s) != 2 {
		t.Fatalf("expected two groups, got %v", s)
	}
	if v, _ := s.Get("size"); v != "large" {
		t.Fatalf("expected later entry to win, got %v", v)
	}
}

func TestSelectionsMerge(t *testing.T) {
	defaults := NewSelections(Select("size", "small"), Select("disabled", false))
	merged := defaults.Merge(NewSelections(Select("tone", "info"), Select("disabled", true), Select("size", nil)))

	want := Selections{
		{Group: "size", Value: "small"},
		{Group: "disabled", Value: true},
		{Group: "tone", Value: "info"},
	}
	if !reflect.DeepEqual(merged, want) {
		t.Fatalf("unexpected merge result %v", merged)
	}
}

func TestSelectionsPick(t *testing.T) {
	groups := map[string]Options{"size": {}, "disabled": {}}
	picked := NewSelections(
		Select("color", "red"),
		Select("size", "large"),
		Select("disabled", nil),
	).Pick(groups)

	if !reflect.DeepEqual(picked, Selections{{Group: "size", Value: "large"}}) {
		t.Fatalf("unexpected pick result %v", picked)
	}
}

func TestSelectionsFromMapIsSorted(t *testing.T) {
	s := SelectionsFromMap(map[string]any{"b": 1, "a": 2, "c": 3})
	if got := s.Groups(); !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Fatalf("unexpected order %v", got)
	}
	if SelectionsFromMap(nil) != nil {
		t.Fatalf("empty map should produce nil selections")
	}
	if m := s.Map(); m["a"] != 2 || len(m) != 3 {
		t.Fatalf("unexpected map %v", m)
	}
}

func TestSelectionsBindingIncludesUnselectedGroups(t *testing.T) {
	binding := NewSelections(Select("size", "large")).binding([]string{"disabled", "size"})
	if len(binding) != 2 {
		t.Fatalf("unexpected binding %v", binding)
	}
	if v, ok := binding["disabled"]; !ok || v != nil {
		t.Fatalf("expected disabled bound to nil, got %v (%v)", v, ok)
	}
	if binding["size"] != "large" {
		t.Fatalf("expected size large, got %v", binding["size"])
	}
}

func TestOptionKey(t *testing.T) {
	cases := []struct {
		value any
		want  string
		ok    bool
	}{
		{value: "large", want: "large", ok: true},
		{value: true, want: "true", ok: true},
		{value: false, want: "false", ok: true},
		{value: tone("info"), want: "info", ok: true},
		{value: level(2), want: "2", ok: true},
		{value: uint8(7), want: "7", ok: true},
		{value: 1.5, want: "1.5", ok: true},
		{value: WhitespaceAll, want: "all", ok: true},
		{value: nil, ok: false},
		{value: []string{"x"}, ok: false},
	}
	for _, tc := range cases {
		got, ok := OptionKey(tc.value)
		if ok != tc.ok || got != tc.want {
			t.Fatalf("OptionKey(%#v) = %q, %v; want %q, %v", tc.value, got, ok, tc.want, tc.ok)
		}
	}
}
