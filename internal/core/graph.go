package core

import (
	"fmt"
	"strings"

	"github.com/Rorical/RoriAgent/internal/router"
)

// Node names of the agent topology
const (
	NodeStart   = "__start__"
	NodeChatbot = "chatbot"
	NodeTools   = "tools"
	NodeEnd     = "__end__"
)

// Edge connects two nodes. Conditional edges are taken on a router decision.
type Edge struct {
	From        string
	To          string
	Conditional bool
	Label       string
}

// Graph describes the agent topology
type Graph struct {
	Nodes []string
	Edges []Edge
}

// AgentGraph returns the fixed chatbot/tools loop
func AgentGraph() Graph {
	return Graph{
		Nodes: []string{NodeStart, NodeChatbot, NodeTools, NodeEnd},
		Edges: []Edge{
			{From: NodeStart, To: NodeChatbot},
			{From: NodeChatbot, To: NodeTools, Conditional: true, Label: router.RouteTools.String()},
			{From: NodeChatbot, To: NodeEnd, Conditional: true, Label: router.RouteEnd.String()},
			{From: NodeTools, To: NodeChatbot},
		},
	}
}

// Mermaid renders the graph as a mermaid flowchart
func (g Graph) Mermaid() string {
	var b strings.Builder
	b.WriteString("graph TD;\n")
	for _, node := range g.Nodes {
		switch node {
		case NodeStart:
			fmt.Fprintf(&b, "\t%s([<p>%s</p>]):::first\n", node, node)
		case NodeEnd:
			fmt.Fprintf(&b, "\t%s([<p>%s</p>]):::last\n", node, node)
		default:
			fmt.Fprintf(&b, "\t%s(%s)\n", node, node)
		}
	}
	for _, edge := range g.Edges {
		if edge.Conditional {
			fmt.Fprintf(&b, "\t%s -.-> %s;\n", edge.From, edge.To)
		} else {
			fmt.Fprintf(&b, "\t%s --> %s;\n", edge.From, edge.To)
		}
	}
	b.WriteString("\tclassDef default fill:#f2f0ff,line-height:1.2\n")
	b.WriteString("\tclassDef first fill:#ffdfba\n")
	b.WriteString("\tclassDef last fill:#baffc9\n")
	return b.String()
}

// next returns the nodes that run after a session in phase p
func next(p Phase) []string {
	switch p {
	case PhaseAwaitingModel:
		return []string{NodeChatbot}
	case PhaseAwaitingTool, PhaseSuspended:
		return []string{NodeTools}
	default:
		return nil
	}
}
