package render

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-graphviz"
)

// RenderDOT returns a Graphviz DOT representation of a scene.
//
// The exporter preserves the scene's styling (fills, stroke colors, pen
// widths) but hands positioning to Graphviz via neato-style pos pins, so the
// settled force layout survives the round trip. The output renders with any
// Graphviz tool or programmatically with RenderPNG.
func RenderDOT(s Scene) string {
	var buf bytes.Buffer
	buf.WriteString("graph versegraph {\n")
	fmt.Fprintf(&buf, "  label=%q;\n", s.OSIS)
	buf.WriteString("  bgcolor=\"#0f172a\";\n")
	buf.WriteString("  fontcolor=\"#94a3b8\";\n")
	buf.WriteString("  node [fontname=\"Helvetica\", fontsize=11, fontcolor=white, style=filled, shape=circle, fixedsize=true];\n")
	buf.WriteString("  edge [arrowhead=none];\n\n")

	// Graphviz points run bottom-up; flip y so the scene reads the same as
	// the SVG output.
	for _, n := range s.Nodes {
		fmt.Fprintf(&buf, "  %q [label=%q, fillcolor=%q, width=%.2f, pos=\"%.1f,%.1f!\"];\n",
			n.ID, n.Label, n.Fill, n.Radius/36, n.X, s.Height-n.Y)
	}
	buf.WriteString("\n")
	for _, e := range s.Edges {
		fmt.Fprintf(&buf, "  %q -- %q [color=%q, penwidth=%.1f", e.Source, e.Target, e.Stroke, e.Weight)
		if e.Summary != "" {
			fmt.Fprintf(&buf, ", tooltip=%q", e.Summary)
		}
		buf.WriteString("];\n")
	}

	buf.WriteString("}\n")
	return buf.String()
}

// RenderPNG rasterizes a scene by generating DOT via RenderDOT and rendering
// it with Graphviz.
//
// RenderPNG requires the Graphviz library (github.com/goccy/go-graphviz).
// Errors are returned if Graphviz cannot initialize, the DOT is malformed, or
// rendering fails; all are wrapped with %w for errors.Is/Unwrap.
func RenderPNG(ctx context.Context, s Scene) ([]byte, error) {
	dot := RenderDOT(s)

	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
