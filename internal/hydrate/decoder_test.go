package hydrate

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestDecoderFromFixtures(t *testing.T) {
	fx := loadFixture(t, "hydrate_definitions.json")

	for _, tc := range fx.Cases {
		t.Run(tc.Name, func(t *testing.T) {
			decoder := NewDecoder[definition](buildOptions(tc)...)
			ctx := Context{
				Source:    tc.Source,
				Component: tc.Component,
			}

			result, err := decoder.Decode(ctx, tc.Input)

			if tc.ExpectErr != "" {
				if err == nil {
					t.Fatalf("expected error %q, got nil", tc.ExpectErr)
				}
				if !strings.Contains(err.Error(), tc.ExpectErr) {
					t.Fatalf("expected error containing %q, got %v", tc.ExpectErr, err)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected decode error: %v", err)
			}
			if !reflect.DeepEqual(tc.Expect, result) {
				t.Fatalf("decoded definition mismatch:\nwant: %#v\n got: %#v", tc.Expect, result)
			}
		})
	}
}

func TestDecoderNilPayload(t *testing.T) {
	_, err := NewDecoder[definition]().Decode(Context{Component: "button"}, nil)
	if err == nil || !strings.Contains(err.Error(), `payload is nil for "button"`) {
		t.Fatalf("expected nil payload error, got %v", err)
	}
}

func TestDecoderPreHookErrorIsWrapped(t *testing.T) {
	sentinel := errors.New("boom")
	decoder := NewDecoder[definition](WithPreHook[definition](func(Context, map[string]any) (map[string]any, error) {
		return nil, sentinel
	}))

	_, err := decoder.Decode(Context{Source: "a.yaml"}, map[string]any{})
	if !errors.Is(err, sentinel) {
		t.Fatalf("expected sentinel error, got %v", err)
	}
}

func TestDecoderNormalizesNonStringKeys(t *testing.T) {
	payload := map[string]any{
		"variants": map[any]any{
			"disabled": map[any]any{true: "opacity-50", false: ""},
		},
	}
	result, err := NewDecoder[definition]().Decode(Context{}, payload)
	if err != nil {
		t.Fatalf("unexpected decode error: %v", err)
	}
	want := map[string]map[string]any{"disabled": {"true": "opacity-50", "false": ""}}
	if !reflect.DeepEqual(want, result.Variants) {
		t.Fatalf("unexpected variants %#v", result.Variants)
	}
}

type definition struct {
	CSS             any                       `json:"css,omitempty"`
	Variants        map[string]map[string]any `json:"variants,omitempty"`
	DefaultVariants map[string]any            `json:"defaultVariants,omitempty"`
	Engine          string                    `json:"engine,omitempty"`
}

type fixture struct {
	Description string        `json:"description"`
	Cases       []fixtureCase `json:"cases"`
}

type fixtureCase struct {
	Name          string         `json:"name"`
	Source        string         `json:"source"`
	Component     string         `json:"component"`
	DefaultEngine string         `json:"defaultEngine"`
	Strict        bool           `json:"strict"`
	RequireCSS    bool           `json:"requireCSS"`
	Input         map[string]any `json:"input"`
	Expect        definition     `json:"expect"`
	ExpectErr     string         `json:"expectErr"`
}

func buildOptions(tc fixtureCase) []DecoderOption[definition] {
	var opts []DecoderOption[definition]
	if tc.DefaultEngine != "" {
		engine := tc.DefaultEngine
		opts = append(opts, WithPreHook[definition](func(_ Context, payload map[string]any) (map[string]any, error) {
			if _, ok := payload["engine"]; !ok {
				payload["engine"] = engine
			}
			return payload, nil
		}))
	}
	if tc.Strict {
		opts = append(opts, WithDisallowUnknownFields[definition]())
	}
	if tc.RequireCSS {
		opts = append(opts, WithPostHook[definition](func(_ Context, def *definition) error {
			if def.CSS == nil {
				return errors.New("css is required")
			}
			return nil
		}))
	}
	return opts
}

func loadFixture(t *testing.T, name string) fixture {
	t.Helper()
	path := filepath.Join("testdata", name)
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read fixture %q: %v", name, err)
	}
	var fx fixture
	if err := json.Unmarshal(raw, &fx); err != nil {
		t.Fatalf("failed to unmarshal fixture %q: %v", name, err)
	}
	return fx
}
