package render

import (
	"github.com/versegraph/versegraph/pkg/graph"
	"github.com/versegraph/versegraph/pkg/layout"
)

// NodeStyle is the resolved visual treatment for a node kind.
type NodeStyle struct {
	Radius float64
	Fill   string
}

// EdgeStyle is the resolved visual treatment for an edge kind. Mention and
// commentary edges read as quiet structure; contradiction and harmony edges
// carry the analytical signal and get heavier, distinctly colored strokes.
type EdgeStyle struct {
	Stroke string
	Weight float64
}

// Closed kind→style tables, resolved once per scene build. Unknown kinds
// fall back to the default category rather than failing.
var (
	nodeStyles = map[string]NodeStyle{
		graph.NodeKindVerse:      {Radius: layout.RadiusVerse, Fill: "#b45309"},
		graph.NodeKindMention:    {Radius: layout.RadiusDefault, Fill: "#1d4ed8"},
		graph.NodeKindCommentary: {Radius: layout.RadiusCommentary, Fill: "#047857"},
	}
	nodeStyleDefault = NodeStyle{Radius: layout.RadiusDefault, Fill: "#64748b"}

	edgeStyles = map[string]EdgeStyle{
		graph.EdgeKindMention:       {Stroke: "#94a3b8", Weight: 1.5},
		graph.EdgeKindCommentary:    {Stroke: "#34d399", Weight: 1.5},
		graph.EdgeKindContradiction: {Stroke: "#f87171", Weight: 2.5},
		graph.EdgeKindHarmony:       {Stroke: "#60a5fa", Weight: 2.5},
	}
	edgeStyleDefault = EdgeStyle{Stroke: "#94a3b8", Weight: 1.5}
)

// StyleForNode resolves the style for a node kind.
func StyleForNode(kind string) NodeStyle {
	if s, ok := nodeStyles[kind]; ok {
		return s
	}
	return nodeStyleDefault
}

// StyleForEdge resolves the style for an edge kind.
func StyleForEdge(kind string) EdgeStyle {
	if s, ok := edgeStyles[kind]; ok {
		return s
	}
	return edgeStyleDefault
}
