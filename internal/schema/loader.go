package schema

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// modelHeaderRe matches the opening line of a model block in a Prisma-style
// schema file.
var modelHeaderRe = regexp.MustCompile(`^\s*model\s+(\w+)\s*\{`)

// Load reads a schema from path. The format is chosen by extension:
// .json and .yaml/.yml documents carry the parsed model list directly,
// anything else is treated as a Prisma-style schema file. A missing or
// unparsable schema is a fatal configuration error.
func Load(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema %s: %w", path, err)
	}

	var models []*Model
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		if err := json.Unmarshal(data, &models); err != nil {
			return nil, fmt.Errorf("failed to parse schema %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &models); err != nil {
			return nil, fmt.Errorf("failed to parse schema %s: %w", path, err)
		}
	default:
		models = parsePrisma(string(data))
	}

	if len(models) == 0 {
		return nil, fmt.Errorf("schema %s: %w", path, ErrNoModels)
	}
	return NewTable(models)
}

// parsePrisma extracts model declarations from a Prisma-style schema.
// This is a line-oriented heuristic read, not a grammar: it collects
// `model Name { ... }` blocks and their `name Type` field lines.
// Relationships are derived in a second pass, where a field whose base
// type names another declared model becomes a relationship entry.
func parsePrisma(src string) []*Model {
	var models []*Model
	var current *Model

	for _, line := range strings.Split(src, "\n") {
		trimmed := strings.TrimSpace(line)

		if m := modelHeaderRe.FindStringSubmatch(line); m != nil {
			current = &Model{Name: m[1]}
			continue
		}
		if current == nil {
			continue
		}
		if strings.HasPrefix(trimmed, "}") {
			models = append(models, current)
			current = nil
			continue
		}
		if trimmed == "" || strings.HasPrefix(trimmed, "//") || strings.HasPrefix(trimmed, "@@") {
			continue
		}

		parts := strings.Fields(trimmed)
		if len(parts) < 2 {
			continue
		}
		current.Fields = append(current.Fields, Field{Name: parts[0], Type: parts[1]})
	}

	declared := make(map[string]bool, len(models))
	for _, m := range models {
		declared[m.Name] = true
	}

	for _, m := range models {
		for _, f := range m.Fields {
			base, isArray := baseType(f.Type)
			if base != m.Name && declared[base] {
				m.Relationships = append(m.Relationships, Relationship{
					Field:   f.Name,
					Model:   base,
					IsArray: isArray,
				})
			}
		}
	}
	return models
}

// baseType strips optional and list markers from a declared field type.
func baseType(t string) (base string, isArray bool) {
	base = strings.TrimSuffix(t, "?")
	if strings.HasSuffix(base, "[]") {
		return strings.TrimSuffix(base, "[]"), true
	}
	return base, false
}
