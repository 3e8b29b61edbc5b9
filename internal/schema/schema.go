// Package schema holds the declared data-model table that an analysis run
// operates on. Models are loaded once at startup and are immutable afterward;
// the table preserves schema declaration order.
package schema

import (
	"errors"
	"fmt"
)

// ErrNoModels is returned when a schema source parses but declares no models.
var ErrNoModels = errors.New("schema declares no models")

// Field is a declared model field.
type Field struct {
	Name string `json:"name" yaml:"name"`
	Type string `json:"type" yaml:"type"`
}

// Relationship is a declared relation from one model to another.
type Relationship struct {
	Field   string `json:"field" yaml:"field"`
	Model   string `json:"model" yaml:"model"`
	IsArray bool   `json:"isArray" yaml:"isArray"`
}

// Model is a declared schema entity. Name is case-sensitive and unique
// within a table.
type Model struct {
	Name          string         `json:"name" yaml:"name"`
	Fields        []Field        `json:"fields" yaml:"fields"`
	Relationships []Relationship `json:"relationships" yaml:"relationships"`
}

// Table is an insertion-ordered collection of models keyed by name.
type Table struct {
	order  []string
	byName map[string]*Model
}

// NewTable builds a table from models in declaration order.
// Duplicate names are rejected.
func NewTable(models []*Model) (*Table, error) {
	t := &Table{byName: make(map[string]*Model, len(models))}
	for _, m := range models {
		if m.Name == "" {
			return nil, fmt.Errorf("model with empty name")
		}
		if _, dup := t.byName[m.Name]; dup {
			return nil, fmt.Errorf("duplicate model %q", m.Name)
		}
		t.order = append(t.order, m.Name)
		t.byName[m.Name] = m
	}
	return t, nil
}

// Names returns model names in declaration order.
func (t *Table) Names() []string {
	out := make([]string, len(t.order))
	copy(out, t.order)
	return out
}

// Get returns the model with the given name.
func (t *Table) Get(name string) (*Model, bool) {
	m, ok := t.byName[name]
	return m, ok
}

// Len returns the number of declared models.
func (t *Table) Len() int {
	return len(t.order)
}

// Models returns all models in declaration order.
func (t *Table) Models() []*Model {
	out := make([]*Model, 0, len(t.order))
	for _, name := range t.order {
		out = append(out, t.byName[name])
	}
	return out
}

// ReferencedBy returns the names of models that declare a relationship
// targeting the given model, in declaration order.
func (t *Table) ReferencedBy(name string) []string {
	var refs []string
	for _, other := range t.order {
		if other == name {
			continue
		}
		for _, rel := range t.byName[other].Relationships {
			if rel.Model == name {
				refs = append(refs, other)
				break
			}
		}
	}
	return refs
}
