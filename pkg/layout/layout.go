// Package layout implements the force-directed layout engine for the verse
// research graph.
//
// The engine assigns stable 2D coordinates by running an explicit physics
// simulation over the built node arena: a link force pulls connected pairs
// toward a kind-dependent target distance, a charge force repels every node
// pair, a center force keeps the aggregate centroid on the canvas midpoint,
// and a collision force separates overlapping circles. The focal verse node
// is anchored at the midpoint.
//
// The simulation is synchronous and runs for a fixed number of steps
// (Steps), which makes layouts deterministic and reproducible: equal built
// graphs (same payload, same jitter seed) settle to equal coordinates.
// Structural layout is computed once per distinct graph; facet filtering
// never re-enters this package.
package layout

import (
	"math"
	"slices"

	"github.com/versegraph/versegraph/pkg/graph"
	"github.com/versegraph/versegraph/pkg/model"
)

// Positioned is a built graph with settled coordinates. It is immutable for
// the lifetime of a graph instance: filter-selection changes read from it but
// never move a node.
type Positioned struct {
	OSIS   string
	Nodes  []model.Node
	Edges  []model.Edge
	Base   int
	Facets graph.Facets
	Width  float64
	Height float64
}

// Compute runs the fixed-step simulation and returns the positioned graph.
//
// The input is not mutated. For zero or one node the simulation is skipped
// entirely and the sole node (if any) is placed at the canvas midpoint.
// Compute never fails on well-formed input: the builder guarantees every
// edge endpoint resolves, and the integrator keeps every coordinate finite.
func Compute(b *model.Built) *Positioned {
	p := &Positioned{
		OSIS:   b.OSIS,
		Nodes:  slices.Clone(b.Nodes),
		Edges:  slices.Clone(b.Edges),
		Base:   b.Base,
		Facets: b.Facets,
		Width:  b.Width,
		Height: b.Height,
	}

	cx, cy := b.Width/2, b.Height/2

	if len(p.Nodes) <= 1 {
		if len(p.Nodes) == 1 {
			p.Nodes[0].X, p.Nodes[0].Y = cx, cy
		}
		return p
	}

	sim := newSimulation(p.Nodes, p.Edges, p.Base, cx, cy)
	for range Steps {
		sim.step()
	}
	sim.writeBack(p.Nodes)

	return p
}

// simulation holds the mutable per-node physics state, kept in parallel
// slices so the node arena itself stays untouched until writeBack.
type simulation struct {
	x, y, vx, vy []float64
	radius       []float64
	edges        []model.Edge
	dist         []float64 // target distance per edge
	base         int
	cx, cy       float64
	alpha        float64
	alphaDecay   float64
}

func newSimulation(nodes []model.Node, edges []model.Edge, base int, cx, cy float64) *simulation {
	n := len(nodes)
	s := &simulation{
		x:      make([]float64, n),
		y:      make([]float64, n),
		vx:     make([]float64, n),
		vy:     make([]float64, n),
		radius: make([]float64, n),
		edges:  edges,
		dist:   make([]float64, len(edges)),
		base:   base,
		cx:     cx,
		cy:     cy,
		alpha:  alphaInitial,
		// Anneal so that alpha reaches alphaMin exactly at the step budget.
		alphaDecay: 1 - math.Pow(alphaMin, 1/float64(Steps)),
	}
	for i, node := range nodes {
		s.x[i], s.y[i] = node.X, node.Y
		s.radius[i] = collideRadius(node.Kind)
	}
	for i, e := range edges {
		s.dist[i] = linkDistance(e.Kind)
	}
	if base >= 0 {
		s.x[base], s.y[base] = cx, cy
	}
	return s
}

// step advances the simulation by one integration step: accumulate forces
// into velocities, integrate, decay, then re-anchor the base node.
func (s *simulation) step() {
	s.alpha += (0 - s.alpha) * s.alphaDecay

	s.applyLinks()
	s.applyCharge()
	s.applyCenter()
	s.applyCollide()

	for i := range s.x {
		s.vx[i] *= velocityDecay
		s.vy[i] *= velocityDecay
		s.x[i] += s.vx[i]
		s.y[i] += s.vy[i]
	}

	if s.base >= 0 {
		s.x[s.base], s.y[s.base] = s.cx, s.cy
		s.vx[s.base], s.vy[s.base] = 0, 0
	}
}

// applyLinks pulls each connected pair toward its target distance.
func (s *simulation) applyLinks() {
	for i, e := range s.edges {
		src, tgt := e.Source, e.Target
		dx := s.x[tgt] + s.vx[tgt] - s.x[src] - s.vx[src]
		dy := s.y[tgt] + s.vy[tgt] - s.y[src] - s.vy[src]
		dx, dy = jiggle(dx, dy, i)
		l := math.Hypot(dx, dy)
		f := (l - s.dist[i]) / l * s.alpha * LinkStrength
		dx, dy = dx*f, dy*f
		s.vx[tgt] -= dx / 2
		s.vy[tgt] -= dy / 2
		s.vx[src] += dx / 2
		s.vy[src] += dy / 2
	}
}

// applyCharge repels every node pair. O(n²), which is fine for the graphs
// this view handles (tens of nodes).
func (s *simulation) applyCharge() {
	n := len(s.x)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			dx := s.x[j] - s.x[i]
			dy := s.y[j] - s.y[i]
			dx, dy = jiggle(dx, dy, i*n+j)
			l2 := dx*dx + dy*dy
			f := ChargeStrength * s.alpha / l2
			s.vx[i] += dx * f
			s.vy[i] += dy * f
			s.vx[j] -= dx * f
			s.vy[j] -= dy * f
		}
	}
}

// applyCenter translates all nodes so the centroid sits on the canvas
// midpoint. This is a direct positional correction, not a velocity force.
func (s *simulation) applyCenter() {
	var sx, sy float64
	for i := range s.x {
		sx += s.x[i]
		sy += s.y[i]
	}
	n := float64(len(s.x))
	sx, sy = sx/n-s.cx, sy/n-s.cy
	for i := range s.x {
		s.x[i] -= sx
		s.y[i] -= sy
	}
}

// applyCollide separates overlapping circles, splitting the correction
// between both nodes.
func (s *simulation) applyCollide() {
	n := len(s.x)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			minDist := s.radius[i] + s.radius[j]
			dx := s.x[j] - s.x[i]
			dy := s.y[j] - s.y[i]
			dx, dy = jiggle(dx, dy, i*n+j)
			l2 := dx*dx + dy*dy
			if l2 >= minDist*minDist {
				continue
			}
			l := math.Sqrt(l2)
			overlap := (minDist - l) / l / 2
			dx, dy = dx*overlap, dy*overlap
			s.x[i] -= dx
			s.y[i] -= dy
			s.x[j] += dx
			s.y[j] += dy
		}
	}
}

func (s *simulation) writeBack(nodes []model.Node) {
	for i := range nodes {
		nodes[i].X = finite(s.x[i], s.cx)
		nodes[i].Y = finite(s.y[i], s.cy)
	}
}

// jiggle replaces a zero-length separation vector with a tiny deterministic
// offset derived from the pair index, so coincident nodes never divide by
// zero and repeated runs stay identical.
func jiggle(dx, dy float64, salt int) (float64, float64) {
	if dx != 0 || dy != 0 {
		return dx, dy
	}
	angle := float64(salt%360) * math.Pi / 180
	return 1e-6 * math.Cos(angle), 1e-6 * math.Sin(angle)
}

// finite clamps non-finite values back to a fallback coordinate.
func finite(v, fallback float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fallback
	}
	return v
}
