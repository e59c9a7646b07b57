// Package render defines the render contract: the plain positioned-and-styled
// data shape the graph engine exposes to any rendering surface.
//
// A Scene carries everything a renderer needs - coordinates, radii, colors,
// stroke weights, deep links, edge counters - and nothing about how to draw.
// The SVG and DOT sinks in this package are consumers of the contract, not
// part of it; a canvas, terminal, or native surface could consume the same
// Scene without the core depending on it.
package render

import (
	"github.com/versegraph/versegraph/pkg/graph"
	"github.com/versegraph/versegraph/pkg/layout"
	"github.com/versegraph/versegraph/pkg/view"
)

// SceneNode is a visible node ready to draw.
type SceneNode struct {
	ID     string  `json:"id"`
	Kind   string  `json:"kind"`
	Label  string  `json:"label"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Radius float64 `json:"radius"`
	Fill   string  `json:"fill"`

	// DeepLink is the navigation target for mention nodes whose backing
	// data carries a document/passage pair; nil means the node has no
	// navigation action.
	DeepLink *graph.DeepLink `json:"deep_link,omitempty"`
}

// SceneEdge is a visible edge ready to draw, with both endpoint coordinates
// resolved so renderers need no node lookup.
type SceneEdge struct {
	ID      string  `json:"id"`
	Kind    string  `json:"kind"`
	Source  string  `json:"source"`
	Target  string  `json:"target"`
	X1      float64 `json:"x1"`
	Y1      float64 `json:"y1"`
	X2      float64 `json:"x2"`
	Y2      float64 `json:"y2"`
	Stroke  string  `json:"stroke"`
	Weight  float64 `json:"weight"`
	Summary string  `json:"summary,omitempty"`
}

// Scene is the full render contract for one filtered view of a positioned
// graph.
type Scene struct {
	OSIS   string  `json:"osis"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`

	Nodes []SceneNode `json:"nodes"`
	Edges []SceneEdge `json:"edges"`

	// VisibleEdgeCount and TotalEdgeCount support UI status messaging.
	VisibleEdgeCount int `json:"visible_edge_count"`
	TotalEdgeCount   int `json:"total_edge_count"`
}

// BuildScene styles a filtered view of a positioned graph. Styles resolve
// through the closed kind→style tables; endpoint coordinates come from the
// positioned arena, so hidden nodes keep their settled positions and a later
// wider view re-styles them in place.
func BuildScene(p *layout.Positioned, v view.View) Scene {
	s := Scene{
		OSIS:             p.OSIS,
		Width:            p.Width,
		Height:           p.Height,
		Nodes:            make([]SceneNode, 0, len(v.Nodes)),
		Edges:            make([]SceneEdge, 0, len(v.Edges)),
		VisibleEdgeCount: v.VisibleEdgeCount,
		TotalEdgeCount:   v.TotalEdgeCount,
	}

	for _, n := range v.Nodes {
		style := StyleForNode(n.Kind)
		sn := SceneNode{
			ID:     n.ID,
			Kind:   n.Kind,
			Label:  n.DisplayLabel(),
			X:      n.X,
			Y:      n.Y,
			Radius: style.Radius,
			Fill:   style.Fill,
		}
		if link, ok := n.DeepLink(); ok {
			sn.DeepLink = &link
		}
		s.Nodes = append(s.Nodes, sn)
	}

	for _, e := range v.Edges {
		style := StyleForEdge(e.Kind)
		src, tgt := p.Nodes[e.Source], p.Nodes[e.Target]
		s.Edges = append(s.Edges, SceneEdge{
			ID:      e.ID,
			Kind:    e.Kind,
			Source:  src.ID,
			Target:  tgt.ID,
			X1:      src.X,
			Y1:      src.Y,
			X2:      tgt.X,
			Y2:      tgt.Y,
			Stroke:  style.Stroke,
			Weight:  style.Weight,
			Summary: e.Summary,
		})
	}

	return s
}
