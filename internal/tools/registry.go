package tools

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

// Tool represents a function that can be called by the model
type Tool interface {
	Name() string
	Description() string
	Parameters() map[string]interface{} // JSON schema properties
	RequiredParameters() []string       // List of required parameter names
	Execute(ctx context.Context, args map[string]interface{}) (Result, error)
}

// Result is the outcome of a tool execution: either a value or a suspension.
type Result struct {
	Value   interface{}
	Suspend *Suspension
}

// Suspension asks the caller to pause the turn until an external actor answers.
type Suspension struct {
	Payload map[string]interface{}
}

// Value wraps a completed tool output
func Value(v interface{}) Result {
	return Result{Value: v}
}

// Suspend wraps a request for external input
func Suspend(payload map[string]interface{}) Result {
	return Result{Suspend: &Suspension{Payload: payload}}
}

// Suspended reports whether the tool paused instead of completing
func (r Result) Suspended() bool {
	return r.Suspend != nil
}

// Query returns the "query" field of the payload, if any
func (s *Suspension) Query() string {
	if s == nil {
		return ""
	}
	q, _ := s.Payload["query"].(string)
	return q
}

// Spec describes a tool to the model client
type Spec struct {
	Name        string
	Description string
	Parameters  map[string]interface{} // full JSON schema object
}

type entry struct {
	tool   Tool
	schema *gojsonschema.Schema
}

// Registry manages available tools
type Registry struct {
	tools map[string]entry
	mu    sync.RWMutex
}

// NewRegistry creates a new tool registry
func NewRegistry() *Registry {
	return &Registry{
		tools: make(map[string]entry),
	}
}

// Register adds a tool to the registry and compiles its argument schema
func (r *Registry) Register(tool Tool) error {
	if tool == nil {
		return fmt.Errorf("tool is nil")
	}
	name := strings.TrimSpace(tool.Name())
	if name == "" {
		return fmt.Errorf("tool name is empty")
	}

	schema, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(schemaFor(tool)))
	if err != nil {
		return fmt.Errorf("tool %s has an invalid schema: %w", name, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.tools[name]; exists {
		return fmt.Errorf("tool %s already registered", name)
	}
	r.tools[name] = entry{tool: tool, schema: schema}
	return nil
}

// Resolve retrieves a tool by name
func (r *Registry) Resolve(name string) (Tool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, exists := r.tools[name]
	if !exists {
		return nil, &UnknownToolError{Name: name}
	}
	return e.tool, nil
}

// ListTools returns all registered tools ordered by name
func (r *Registry) ListTools() []Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tools := make([]Tool, 0, len(r.tools))
	for _, e := range r.tools {
		tools = append(tools, e.tool)
	}
	sort.Slice(tools, func(i, j int) bool { return tools[i].Name() < tools[j].Name() })
	return tools
}

// Specs returns the tool catalog in the form handed to the model client
func (r *Registry) Specs() []Spec {
	tools := r.ListTools()
	specs := make([]Spec, len(tools))
	for i, tool := range tools {
		specs[i] = Spec{
			Name:        tool.Name(),
			Description: tool.Description(),
			Parameters:  schemaFor(tool),
		}
	}
	return specs
}

// Validate checks arguments against the tool's schema
func (r *Registry) Validate(name string, args map[string]interface{}) error {
	r.mu.RLock()
	e, exists := r.tools[name]
	r.mu.RUnlock()
	if !exists {
		return &UnknownToolError{Name: name}
	}
	if args == nil {
		args = map[string]interface{}{}
	}

	result, err := e.schema.Validate(gojsonschema.NewGoLoader(args))
	if err != nil {
		return fmt.Errorf("validate arguments: %w", err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			msgs = append(msgs, desc.String())
		}
		return fmt.Errorf("invalid arguments: %s", strings.Join(msgs, "; "))
	}
	return nil
}

func schemaFor(tool Tool) map[string]interface{} {
	schema := map[string]interface{}{
		"type":       "object",
		"properties": tool.Parameters(),
	}
	// draft-04 rejects an empty "required" array
	if required := tool.RequiredParameters(); len(required) > 0 {
		schema["required"] = required
	}
	return schema
}
