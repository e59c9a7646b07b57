package render

import (
	"bytes"
	"encoding/xml"
	"fmt"
)

const sceneBackground = "#0f172a"

// RenderSVG draws a scene as a standalone SVG document: edges underneath,
// nodes on top, labels beneath each circle, and a status line with the
// visible/total edge counters. Mention nodes with a deep link are wrapped in
// an anchor to their document passage.
//
// RenderSVG does not modify the scene and is safe to call concurrently.
func RenderSVG(s Scene) []byte {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		s.Width, s.Height, s.Width, s.Height)
	fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="%s"/>`+"\n", sceneBackground)

	for _, e := range s.Edges {
		fmt.Fprintf(&buf, `  <line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s" stroke-width="%.1f"`,
			e.X1, e.Y1, e.X2, e.Y2, e.Stroke, e.Weight)
		if e.Summary != "" {
			fmt.Fprintf(&buf, `><title>%s</title></line>`+"\n", escape(e.Summary))
		} else {
			buf.WriteString("/>\n")
		}
	}

	for _, n := range s.Nodes {
		linked := n.DeepLink != nil
		if linked {
			fmt.Fprintf(&buf, `  <a href="app://document/%s/passage/%s">`+"\n",
				escape(n.DeepLink.DocumentID), escape(n.DeepLink.PassageID))
		}
		fmt.Fprintf(&buf, `  <circle cx="%.2f" cy="%.2f" r="%.1f" fill="%s"/>`+"\n",
			n.X, n.Y, n.Radius, n.Fill)
		fmt.Fprintf(&buf, `  <text x="%.2f" y="%.2f" text-anchor="middle" font-size="11" fill="#e2e8f0">%s</text>`+"\n",
			n.X, n.Y+n.Radius+14, escape(n.Label))
		if linked {
			buf.WriteString("  </a>\n")
		}
	}

	fmt.Fprintf(&buf, `  <text x="12" y="%.1f" font-size="11" fill="#94a3b8">%s · %d of %d connections</text>`+"\n",
		s.Height-12, escape(s.OSIS), s.VisibleEdgeCount, s.TotalEdgeCount)

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

// escape makes a string safe for SVG text and attribute contexts.
func escape(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
