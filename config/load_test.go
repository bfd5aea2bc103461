package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	assembler "github.com/goliatone/go-assembler"
)

const buttonYAML = `
components:
  button:
    css: btn
    order: [size, disabled]
    variants:
      size:
        small: p-1
        large: p-4
      disabled:
        true: opacity-50
        false: ""
    defaultVariants:
      size: small
      disabled: false
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFilesYAML(t *testing.T) {
	path := writeFile(t, t.TempDir(), "components.yaml", buttonYAML)

	file, err := LoadFiles(path)
	require.NoError(t, err)
	require.Contains(t, file.Components, "button")

	def := file.Components["button"]
	require.Equal(t, "btn", def.CSS)
	require.Equal(t, []string{"size", "disabled"}, def.Order)
	require.Equal(t, map[string]any{"true": "opacity-50", "false": ""}, def.Variants["disabled"])

	cfg := def.Config()
	require.Equal(t, assembler.Selections{
		{Group: "size", Value: "small"},
		{Group: "disabled", Value: false},
	}, cfg.Defaults)
	require.Equal(t, assembler.Class(""), cfg.Variants["disabled"]["false"])
}

func TestDecodeDocumentTOML(t *testing.T) {
	doc, err := DecodeDocument(".toml", []byte(`
[components.badge]
css = ["badge", "rounded"]

[components.badge.variants.tone]
info = "bg-blue"
warn = "bg-amber"

[components.badge.defaultVariants]
tone = "info"
`))
	require.NoError(t, err)

	file, err := Decode("badge.toml", doc)
	require.NoError(t, err)
	require.Equal(t, []any{"badge", "rounded"}, file.Components["badge"].CSS)
}

func TestDecodeDocumentErrors(t *testing.T) {
	_, err := DecodeDocument(".ini", []byte("a=b"))
	require.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = DecodeDocument(".json", []byte(`["not", "a", "mapping"]`))
	require.Error(t, err)

	_, err = DecodeDocument(".yaml", []byte("components: [unterminated"))
	require.Error(t, err)

	doc, err := DecodeDocument(".yml", nil)
	require.NoError(t, err)
	require.Empty(t, doc)
}

func TestReadDocumentWrapsSingleComponent(t *testing.T) {
	path := writeFile(t, t.TempDir(), "chip.json", `{"css": "chip", "variants": {"tone": {"info": "bg-blue"}}}`)

	doc, err := ReadDocument(path)
	require.NoError(t, err)

	components, ok := doc["components"].(map[string]any)
	require.True(t, ok)
	require.Contains(t, components, "chip")
}

func TestLoadFilesLayersLaterFilesOverEarlier(t *testing.T) {
	dir := t.TempDir()
	base := writeFile(t, dir, "base.yaml", buttonYAML)
	override := writeFile(t, dir, "override.json", `{
  "components": {
    "button": {
      "variants": {"size": {"xl": "p-8", "large": "p-6"}},
      "defaultVariants": {"size": "large"}
    }
  }
}`)

	file, err := LoadFiles(base, override)
	require.NoError(t, err)

	cfg := file.Components["button"].Config()
	a := assembler.New(cfg)
	require.Equal(t, "btn p-6 ", a.Resolve())
	require.Equal(t, "btn p-8 ", a.Resolve(assembler.Select("size", "xl")))
	require.Equal(t, "btn p-1 opacity-50", a.Resolve(assembler.Select("size", "small"), assembler.Select("disabled", true)))
}

func TestLoadFilesErrors(t *testing.T) {
	_, err := LoadFiles()
	require.ErrorIs(t, err, ErrNoFiles)

	_, err = LoadFiles(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestDecodeRejectsUnknownFields(t *testing.T) {
	_, err := Decode("inline", map[string]any{
		"components": map[string]any{
			"button": map[string]any{"css": "btn", "colour": "red"},
		},
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), `unknown field "colour"`)
}

func TestDecodeValidation(t *testing.T) {
	cases := []struct {
		name  string
		doc   map[string]any
		field string
		tag   string
	}{
		{
			name:  "missing components",
			doc:   map[string]any{},
			field: "components",
			tag:   "required",
		},
		{
			name: "unknown engine",
			doc: map[string]any{"components": map[string]any{
				"button": map[string]any{"css": "btn", "engine": "lua"},
			}},
			field: "components[button].engine",
			tag:   "oneof",
		},
		{
			name: "unknown whitespace mode",
			doc: map[string]any{"components": map[string]any{
				"button": map[string]any{"css": "btn", "whitespace": "none"},
			}},
			field: "components[button].whitespace",
			tag:   "oneof",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Decode("inline", tc.doc)
			require.Error(t, err)

			var validationErr *ValidationError
			require.True(t, errors.As(err, &validationErr), "expected ValidationError, got %v", err)
			require.Equal(t, tc.field, validationErr.Field)
			require.Equal(t, tc.tag, validationErr.Tag)
		})
	}
}

func TestDefinitionDefaultsOrder(t *testing.T) {
	def := Definition{
		DefaultVariants: map[string]any{"tone": "info", "size": "small", "disabled": false},
		Order:           []string{"size", "missing"},
	}
	require.Equal(t, []string{"size", "disabled", "tone"}, def.defaults().Groups())
}
