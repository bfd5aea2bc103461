package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-assembler/internal/hydrate"
	"github.com/goliatone/go-assembler/layering"
)

var (
	// ErrUnsupportedFormat reports a file extension with no decoder.
	ErrUnsupportedFormat = errors.New("config: unsupported file format")
	// ErrNoFiles reports a load call without paths.
	ErrNoFiles = errors.New("config: at least one file is required")
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// ReadDocument decodes the file at path into a document. The format follows
// the extension: .yaml, .yml, .toml or .json. A document without a
// "components" key declares a single component named after the file.
func ReadDocument(path string) (map[string]any, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	doc, err := DecodeDocument(filepath.Ext(path), raw)
	if err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	if _, ok := doc["components"]; !ok {
		name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		doc = map[string]any{"components": map[string]any{name: doc}}
	}
	return doc, nil
}

// DecodeDocument decodes raw bytes for the given extension.
func DecodeDocument(ext string, raw []byte) (map[string]any, error) {
	var doc any
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("decode yaml: %w", err)
		}
	case ".toml":
		var table map[string]any
		if err := toml.Unmarshal(raw, &table); err != nil {
			return nil, fmt.Errorf("decode toml: %w", err)
		}
		doc = table
	case ".json":
		decoder := json.NewDecoder(bytes.NewReader(raw))
		if err := decoder.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode json: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if doc == nil {
		return map[string]any{}, nil
	}
	normalized, ok := layering.Normalize(doc).(map[string]any)
	if !ok {
		return nil, fmt.Errorf("document root must be a mapping, got %T", doc)
	}
	return normalized, nil
}

// LoadFiles reads every path and layers later files over earlier ones.
// Mappings merge, lists concatenate and scalars from later files win.
func LoadFiles(paths ...string) (File, error) {
	if len(paths) == 0 {
		return File{}, ErrNoFiles
	}
	layers := make([]any, 0, len(paths))
	for i := len(paths) - 1; i >= 0; i-- {
		doc, err := ReadDocument(paths[i])
		if err != nil {
			return File{}, err
		}
		layers = append(layers, doc)
	}
	merged, _ := layering.MergeLayers(layers...).(map[string]any)
	return Decode(strings.Join(paths, ","), merged)
}

// Decode hydrates and validates a merged document.
func Decode(source string, doc map[string]any) (File, error) {
	decoder := hydrate.NewDecoder[File](
		hydrate.WithDisallowUnknownFields[File](),
		hydrate.WithPostHook[File](validateFile),
	)
	return decoder.Decode(hydrate.Context{Source: source}, doc)
}

func validateFile(_ hydrate.Context, file *File) error {
	return convertValidationError(validate.Struct(file))
}

// ValidationError describes one failed validation rule.
type ValidationError struct {
	Field string
	Tag   string
	Value any
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config: %s failed validation for tag '%s'", e.Field, e.Tag)
}

func convertValidationError(err error) error {
	if err == nil {
		return nil
	}
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return fmt.Errorf("config: validate: %w", err)
	}
	errs := make([]error, 0, len(ves))
	for _, fe := range ves {
		errs = append(errs, &ValidationError{
			Field: fieldName(fe),
			Tag:   fe.Tag(),
			Value: fe.Value(),
		})
	}
	return errors.Join(errs...)
}

func fieldName(fe validator.FieldError) string {
	parts := strings.Split(fe.Namespace(), ".")
	if len(parts) > 1 {
		parts = parts[1:]
	}
	for i, part := range parts {
		parts[i] = lowerFirst(part)
	}
	return strings.Join(parts, ".")
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
