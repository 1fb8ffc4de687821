// Package router decides which graph node runs after a model turn.
//
// The decision is a pure function of the conversation: a trailing message
// with tool calls routes to the tools node, anything else ends the turn.
package router

import (
	"errors"
	"fmt"

	"github.com/Rorical/RoriAgent/internal/models"
	"github.com/Rorical/RoriAgent/internal/tools"
)

// Route is the closed set of routing outcomes
type Route int

const (
	RouteEnd Route = iota
	RouteTools
)

func (r Route) String() string {
	switch r {
	case RouteTools:
		return "tools"
	case RouteEnd:
		return "__end__"
	default:
		return fmt.Sprintf("Route(%d)", int(r))
	}
}

var (
	ErrEmptyState        = errors.New("no messages found in state")
	ErrParallelToolCalls = errors.New("parallel tool calls are not supported")
)

// ToolsCondition routes to the tools node when the last message carries tool calls
func ToolsCondition(messages []models.Message) (Route, error) {
	if len(messages) == 0 {
		return RouteEnd, ErrEmptyState
	}
	if messages[len(messages)-1].HasToolCalls() {
		return RouteTools, nil
	}
	return RouteEnd, nil
}

// Resolver looks up tools by name
type Resolver interface {
	Resolve(name string) (tools.Tool, error)
}

// Router applies ToolsCondition and rejects turns the tools node cannot serve:
// more than one call, or a call to an unregistered tool.
type Router struct {
	tools Resolver
}

func New(resolver Resolver) *Router {
	return &Router{tools: resolver}
}

// Route returns the next node. On error the route is meaningless and the
// caller must not change state.
func (r *Router) Route(messages []models.Message) (Route, error) {
	route, err := ToolsCondition(messages)
	if err != nil || route == RouteEnd {
		return route, err
	}

	calls := messages[len(messages)-1].ToolCalls
	if len(calls) > 1 {
		return RouteEnd, fmt.Errorf("%w: got %d calls", ErrParallelToolCalls, len(calls))
	}
	if r.tools != nil {
		if _, err := r.tools.Resolve(calls[0].Name); err != nil {
			return RouteEnd, err
		}
	}
	return RouteTools, nil
}
