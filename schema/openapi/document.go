// Package openapi publishes component variant schemas as an OpenAPI
// document. Every component gets a resolve operation whose request body lists
// its variant groups.
package openapi

import (
	"fmt"
	"regexp"
	"sort"

	assembler "github.com/goliatone/go-assembler"
)

const resultComponent = "ResolveResult"

// Generate builds an OpenAPI document for schemas.
func Generate(schemas []assembler.Schema, opts ...GeneratorOption) (map[string]any, error) {
	config := defaultGeneratorConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&config)
		}
	}

	names := newNameRegistry()
	components := map[string]any{
		resultComponent: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"class": map[string]any{"type": "string"},
			},
			"required": []string{"class"},
		},
	}
	names.reserve(resultComponent)

	paths := make(map[string]any, len(schemas))
	for _, schema := range schemas {
		if schema.Component == "" {
			return nil, fmt.Errorf("openapi: schema without component name")
		}
		name := names.unique(schema.Component + "_variants")
		components[name] = variantSchema(schema)
		paths[config.basePath+"/"+schema.Component+"/resolve"] = map[string]any{
			"post": map[string]any{
				"operationId": "resolve:" + schema.Component,
				"summary":     fmt.Sprintf("Resolve the class string of %s", schema.Component),
				"requestBody": map[string]any{
					"required": false,
					"content": map[string]any{
						config.contentType: map[string]any{
							"schema": map[string]any{"$ref": reference(name)},
						},
					},
				},
				"responses": map[string]any{
					"200": map[string]any{
						"description": "Resolved class string",
						"content": map[string]any{
							config.contentType: map[string]any{
								"schema": map[string]any{"$ref": reference(resultComponent)},
							},
						},
					},
				},
			},
		}
	}

	info := map[string]any{
		"title":   config.info.Title,
		"version": config.info.Version,
	}
	if config.info.Description != "" {
		info["description"] = config.info.Description
	}
	document := map[string]any{
		"openapi": config.openAPIVersion,
		"info":    info,
		"paths":   paths,
		"components": map[string]any{
			"schemas": components,
		},
	}
	if err := validateDocument(document); err != nil {
		return nil, err
	}
	return document, nil
}

// variantSchema describes the selections a component accepts. Groups whose
// options are only "true" and "false" are booleans; others enumerate their
// option keys.
func variantSchema(schema assembler.Schema) map[string]any {
	properties := make(map[string]any, len(schema.Groups))
	for _, group := range schema.Groups {
		property := map[string]any{}
		if onlyBooleanOptions(group.Options) {
			property["type"] = "boolean"
		} else {
			property["type"] = "string"
			enum := append([]string(nil), group.Options...)
			sort.Strings(enum)
			property["enum"] = enum
		}
		if group.Default != nil {
			property["default"] = group.Default
		}
		properties[group.Name] = property
	}
	return map[string]any{
		"type":                 "object",
		"properties":           properties,
		"additionalProperties": true,
	}
}

func onlyBooleanOptions(options []string) bool {
	if len(options) == 0 {
		return false
	}
	for _, option := range options {
		if option != "true" && option != "false" {
			return false
		}
	}
	return true
}

func reference(name string) string {
	return "#/components/schemas/" + name
}

type nameRegistry struct {
	used map[string]struct{}
}

func newNameRegistry() *nameRegistry {
	return &nameRegistry{used: map[string]struct{}{}}
}

func (r *nameRegistry) reserve(name string) {
	r.used[name] = struct{}{}
}

func (r *nameRegistry) unique(name string) string {
	safe := sanitizeComponentName(name)
	if safe == "" {
		safe = "Schema"
	}
	if _, exists := r.used[safe]; !exists {
		r.used[safe] = struct{}{}
		return safe
	}
	suffix := 1
	for {
		candidate := fmt.Sprintf("%s%d", safe, suffix)
		if _, exists := r.used[candidate]; !exists {
			r.used[candidate] = struct{}{}
			return candidate
		}
		suffix++
	}
}

var componentNameRegexp = regexp.MustCompile(`[^a-zA-Z0-9_]+`)

func sanitizeComponentName(name string) string {
	name = componentNameRegexp.ReplaceAllString(name, "_")
	name = trimUnderscores(name)
	if name == "" {
		return ""
	}
	if name[0] >= '0' && name[0] <= '9' {
		name = "_" + name
	}
	return name
}

func trimUnderscores(input string) string {
	start := 0
	for start < len(input) && input[start] == '_' {
		start++
	}
	end := len(input)
	for end > start && input[end-1] == '_' {
		end--
	}
	return input[start:end]
}

func validateDocument(document map[string]any) error {
	if document == nil {
		return fmt.Errorf("openapi: document cannot be nil")
	}
	openapi, _ := document["openapi"].(string)
	if openapi == "" {
		return fmt.Errorf("openapi: document missing version string")
	}
	info, _ := document["info"].(map[string]any)
	if info == nil {
		return fmt.Errorf("openapi: document missing info section")
	}
	if title, _ := info["title"].(string); title == "" {
		return fmt.Errorf("openapi: info.title must be set")
	}
	if version, _ := info["version"].(string); version == "" {
		return fmt.Errorf("openapi: info.version must be set")
	}
	paths, _ := document["paths"].(map[string]any)
	if len(paths) == 0 {
		return fmt.Errorf("openapi: document must define at least one path")
	}
	return nil
}
