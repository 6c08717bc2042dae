// Package tool exposes deposit operations as named, schema-described tools that a
// conversational agent can call with JSON arguments and relay the string result.
package tool

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
)

var ErrToolNotFound = errors.New("tool not found")

// Tool represents a function that can be called by an agent
type Tool struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Parameters  *JSONSchema `json:"parameters"`
	Handler     Handler     `json:"-"`
}

// Handler executes a tool call and returns a string result
type Handler func(ctx context.Context, args json.RawMessage) (string, error)

// JSONSchema is the subset of JSON Schema used to declare tool parameters
type JSONSchema struct {
	Type                 string                 `json:"type"`
	Description          string                 `json:"description,omitempty"`
	Properties           map[string]*JSONSchema `json:"properties,omitempty"`
	Required             []string               `json:"required,omitempty"`
	Enum                 []string               `json:"enum,omitempty"`
	Minimum              *float64               `json:"minimum,omitempty"`
	AdditionalProperties *bool                  `json:"additionalProperties,omitempty"`
}

// ObjectSchema creates a schema for an object that allows no undeclared properties
func ObjectSchema(desc string, props map[string]*JSONSchema, required ...string) *JSONSchema {
	closed := false
	return &JSONSchema{
		Type:                 "object",
		Description:          desc,
		Properties:           props,
		Required:             required,
		AdditionalProperties: &closed,
	}
}

// IntProp creates a schema for a non-negative integer property
func IntProp(desc string) *JSONSchema {
	zero := 0.0
	return &JSONSchema{Type: "integer", Description: desc, Minimum: &zero}
}

// BoolProp creates a schema for a boolean property
func BoolProp(desc string) *JSONSchema {
	return &JSONSchema{Type: "boolean", Description: desc}
}

// EnumProp creates a schema for a string restricted to values
func EnumProp(desc string, values ...string) *JSONSchema {
	return &JSONSchema{Type: "string", Description: desc, Enum: values}
}

// Registry holds the tools available to an agent
type Registry struct {
	mu    sync.RWMutex
	tools map[string]Tool
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]Tool)}
}

// Register adds a tool, replacing any tool with the same name
func (r *Registry) Register(t Tool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tools[t.Name] = t
}

// Get looks a tool up by name
func (r *Registry) Get(name string) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tools[name]
	return t, ok
}

// List returns the registered tools sorted by name
func (r *Registry) List() []Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Tool, 0, len(r.tools))
	for _, t := range r.tools {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Execute runs the named tool with JSON arguments
func (r *Registry) Execute(ctx context.Context, name string, args json.RawMessage) (string, error) {
	t, ok := r.Get(name)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrToolNotFound, name)
	}
	if t.Handler == nil {
		return "", fmt.Errorf("tool %q has no handler", name)
	}
	return t.Handler(ctx, args)
}
