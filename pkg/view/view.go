// Package view implements the visibility filter: given an already-positioned
// graph and the user's facet selection, it computes the subset of nodes and
// edges to display.
//
// Filtering is the cheap half of the layout/visibility split. The structural
// layout is computed once per distinct graph; this package recomputes the
// visible view on every facet toggle in a single linear pass over the edges,
// and it never moves a node or re-enters the layout engine. A node hidden by
// the current selection keeps its settled coordinates and reappears in place
// when the selection widens again.
package view

import (
	"github.com/versegraph/versegraph/pkg/layout"
	"github.com/versegraph/versegraph/pkg/model"
)

// Selection is the user's currently chosen subset of each facet dimension's
// available values. A nil slice means "everything selected" on that axis.
type Selection struct {
	Perspectives []string
	SourceTypes  []string
}

// View is the displayable subset of a positioned graph. Nodes and Edges are
// value copies out of the positioned arenas, in arena order, so downstream
// consumers cannot disturb the settled layout.
type View struct {
	Nodes []model.Node
	Edges []model.Edge

	// VisibleEdgeCount and TotalEdgeCount feed UI status messaging
	// ("showing 4 of 9 connections").
	VisibleEdgeCount int
	TotalEdgeCount   int
}

// Compute filters the positioned graph against a facet selection.
//
// Mention edges filter on source type, relationship edges on perspective. A
// dimension only filters when it is actively narrowed: when the selection is
// a strict subset of the dimension's available values. Selecting every
// available value is equivalent to no filtering on that axis, which keeps
// edges that carry no value for the facet (a contradiction edge with no
// assigned perspective) visible until the user intentionally narrows.
//
// Visible nodes are the base node plus the endpoints of every visible edge;
// a node with no visible incident edge is excluded from the view but keeps
// its coordinates in the positioned graph. A selection that excludes every
// edge resolves to a view of just the base node.
func Compute(p *layout.Positioned, sel Selection) View {
	v := View{TotalEdgeCount: len(p.Edges)}
	if len(p.Nodes) == 0 {
		return v
	}

	narrowType, typeSet := narrowed(sel.SourceTypes, p.Facets.SourceTypes)
	narrowPersp, perspSet := narrowed(sel.Perspectives, p.Facets.Perspectives)

	keep := make(map[int]struct{}, len(p.Nodes))
	if p.Base >= 0 {
		keep[p.Base] = struct{}{}
	}

	v.Edges = make([]model.Edge, 0, len(p.Edges))
	for _, e := range p.Edges {
		var visible bool
		if e.IsMention() {
			visible = !narrowType || typeSet[e.SourceType]
		} else {
			visible = !narrowPersp || perspSet[e.Perspective]
		}
		if !visible {
			continue
		}
		v.Edges = append(v.Edges, e)
		keep[e.Source] = struct{}{}
		keep[e.Target] = struct{}{}
	}
	v.VisibleEdgeCount = len(v.Edges)

	v.Nodes = make([]model.Node, 0, len(keep))
	for i, n := range p.Nodes {
		if _, ok := keep[i]; ok {
			v.Nodes = append(v.Nodes, n)
		}
	}

	return v
}

// narrowed reports whether a facet dimension is actively narrowed, and
// returns the selected-value set for membership tests. A dimension is
// narrowed only when some available value is missing from the selection: a
// nil selection means everything is selected, and an empty available list
// can never narrow.
func narrowed(selected, available []string) (bool, map[string]bool) {
	if selected == nil {
		return false, nil
	}
	set := make(map[string]bool, len(selected))
	for _, s := range selected {
		set[s] = true
	}
	for _, a := range available {
		if !set[a] {
			return true, set
		}
	}
	return false, set
}
