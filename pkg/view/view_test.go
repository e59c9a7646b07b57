package view

import (
	"testing"

	"github.com/versegraph/versegraph/pkg/graph"
	"github.com/versegraph/versegraph/pkg/layout"
	"github.com/versegraph/versegraph/pkg/model"
)

// positioned builds a graph with two mention edges (sermon, commentary), one
// contradiction with a perspective, and one without.
func positioned(t *testing.T) *layout.Positioned {
	t.Helper()
	p := graph.Payload{
		OSIS: "John.3.16",
		Nodes: []graph.Node{
			{ID: "v1", Kind: graph.NodeKindVerse},
			{ID: "m1", Kind: graph.NodeKindMention},
			{ID: "m2", Kind: graph.NodeKindMention},
			{ID: "m3", Kind: graph.NodeKindMention},
		},
		Edges: []graph.Edge{
			{ID: "e1", SourceID: "v1", TargetID: "m1", Kind: graph.EdgeKindMention, SourceType: "sermon"},
			{ID: "e2", SourceID: "v1", TargetID: "m2", Kind: graph.EdgeKindMention, SourceType: "commentary"},
			{ID: "e3", SourceID: "m1", TargetID: "m2", Kind: graph.EdgeKindContradiction, Perspective: "reformed"},
			{ID: "e4", SourceID: "m1", TargetID: "m3", Kind: graph.EdgeKindHarmony},
		},
		Facets: graph.Facets{
			Perspectives: []string{"reformed", "lutheran"},
			SourceTypes:  []string{"sermon", "commentary"},
		},
	}
	return layout.Compute(model.Build(p, model.Options{}))
}

func edgeIDs(v View) map[string]bool {
	ids := make(map[string]bool, len(v.Edges))
	for _, e := range v.Edges {
		ids[e.ID] = true
	}
	return ids
}

func TestComputeNilSelectionShowsEverything(t *testing.T) {
	p := positioned(t)
	v := Compute(p, Selection{})

	if v.VisibleEdgeCount != 4 || v.TotalEdgeCount != 4 {
		t.Errorf("counters = %d/%d, want 4/4", v.VisibleEdgeCount, v.TotalEdgeCount)
	}
	if len(v.Nodes) != 4 {
		t.Errorf("nodes = %d, want 4", len(v.Nodes))
	}
}

func TestComputeFullSelectionIsNeutral(t *testing.T) {
	p := positioned(t)
	// Selecting every available value must behave exactly like no selection:
	// the harmony edge has no perspective yet stays visible.
	v := Compute(p, Selection{
		Perspectives: []string{"reformed", "lutheran"},
		SourceTypes:  []string{"sermon", "commentary"},
	})

	if v.VisibleEdgeCount != 4 {
		t.Errorf("visible = %d, want 4 (full selection does not narrow)", v.VisibleEdgeCount)
	}
}

func TestComputeNarrowSourceType(t *testing.T) {
	p := positioned(t)
	v := Compute(p, Selection{SourceTypes: []string{"sermon"}})

	ids := edgeIDs(v)
	if !ids["e1"] || ids["e2"] {
		t.Errorf("visible edges = %v, want e1 kept and e2 hidden", ids)
	}
	// Relationship edges are untouched by the source-type axis.
	if !ids["e3"] || !ids["e4"] {
		t.Errorf("visible edges = %v, relationship edges should survive", ids)
	}
}

func TestComputeNarrowPerspective(t *testing.T) {
	p := positioned(t)
	v := Compute(p, Selection{Perspectives: []string{"lutheran"}})

	ids := edgeIDs(v)
	// e3 carries "reformed" and is hidden; e4 carries no perspective and is
	// hidden too once the axis is narrowed. Mention edges are untouched.
	if ids["e3"] || ids["e4"] {
		t.Errorf("visible edges = %v, want both relationship edges hidden", ids)
	}
	if !ids["e1"] || !ids["e2"] {
		t.Errorf("visible edges = %v, mention edges should survive", ids)
	}

	// m3's only incident edge is hidden, so m3 drops out of the view.
	for _, n := range v.Nodes {
		if n.ID == "m3" {
			t.Error("m3 should not be visible with its only edge hidden")
		}
	}
}

func TestComputeEmptySelectionShowsBaseOnly(t *testing.T) {
	p := positioned(t)
	v := Compute(p, Selection{
		Perspectives: []string{},
		SourceTypes:  []string{},
	})

	if v.VisibleEdgeCount != 0 {
		t.Errorf("visible edges = %d, want 0", v.VisibleEdgeCount)
	}
	if len(v.Nodes) != 1 || !v.Nodes[0].IsVerse() {
		t.Fatalf("nodes = %d, want just the base verse", len(v.Nodes))
	}
}

func TestComputeNeverMovesNodes(t *testing.T) {
	p := positioned(t)
	full := Compute(p, Selection{})
	narrowed := Compute(p, Selection{SourceTypes: []string{"sermon"}})

	pos := make(map[string][2]float64)
	for _, n := range full.Nodes {
		pos[n.ID] = [2]float64{n.X, n.Y}
	}
	for _, n := range narrowed.Nodes {
		if pos[n.ID] != [2]float64{n.X, n.Y} {
			t.Errorf("node %s moved under filtering", n.ID)
		}
	}
}

func TestComputeEmptyGraph(t *testing.T) {
	p := layout.Compute(model.Build(graph.Payload{OSIS: "Gen.1.1"}, model.Options{}))
	v := Compute(p, Selection{})
	if len(v.Nodes) != 0 || v.VisibleEdgeCount != 0 {
		t.Errorf("empty graph view = %d nodes / %d edges", len(v.Nodes), v.VisibleEdgeCount)
	}
}

func TestComputeUnknownSelectionValue(t *testing.T) {
	p := positioned(t)
	// A selection naming only an unknown value narrows the axis to nothing.
	v := Compute(p, Selection{SourceTypes: []string{"podcast"}})

	ids := edgeIDs(v)
	if ids["e1"] || ids["e2"] {
		t.Errorf("visible edges = %v, want all mention edges hidden", ids)
	}
}
