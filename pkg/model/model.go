// Package model implements the graph model builder: it normalizes a raw
// backend payload into layout-ready structures.
//
// The builder is the only stage allowed to drop data. Edges referencing
// unknown node IDs are filtered out silently (a data-quality concern, logged
// by the upstream assembler, never a fatal error here), and duplicate node
// IDs keep their first occurrence. Everything downstream - the force layout
// engine and the visibility filter - can therefore assume every edge
// endpoint resolves.
//
// Nodes and edges live in flat arenas and reference each other by index,
// not by pointer. Relationship edges can form cycles (mutual contradiction
// links); id-and-index references make those cycles inert.
package model

import (
	"fmt"
	"math/rand/v2"

	"github.com/versegraph/versegraph/pkg/graph"
)

// DefaultSeed is the default jitter seed, shared with the layout engine so a
// build-and-layout run is reproducible end to end.
const DefaultSeed = uint64(42)

// Default canvas dimensions in layout units.
const (
	DefaultWidth  = 800.0
	DefaultHeight = 600.0
)

// jitterRadius bounds the initial random offset from the canvas midpoint.
// Seeding all nodes at exactly one point would leave the charge force with
// zero-length separation vectors, so every node starts slightly apart.
const jitterRadius = 16.0

// Options configures a build.
type Options struct {
	// Width and Height are the canvas dimensions in layout units.
	// Seed positions jitter around the canvas midpoint.
	Width  float64
	Height float64

	// Seed drives the jitter RNG. Equal payloads built with equal seeds
	// produce identical seed positions.
	Seed uint64
}

// withDefaults fills zero-valued options.
func (o Options) withDefaults() Options {
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.Seed == 0 {
		o.Seed = DefaultSeed
	}
	return o
}

// Node is an arena entry: the wire node plus its 2D position. The builder
// assigns the seed position; the layout engine overwrites it with the
// settled one.
type Node struct {
	graph.Node
	X float64
	Y float64
}

// Edge is an arena entry: the wire edge plus resolved endpoint indexes into
// the node arena.
type Edge struct {
	graph.Edge
	Source int
	Target int
}

// Built is the layout-ready graph for one focal passage. Node identity is
// preserved by ID, so repeated builds of the same logical payload are
// comparable in tests.
type Built struct {
	OSIS   string
	Nodes  []Node
	Edges  []Edge
	Facets graph.Facets

	// Base is the index of the focal verse node, or -1 when the payload
	// carries none (a malformed payload; downstream stages tolerate it).
	Base int

	// Dropped counts edges discarded for referencing unknown node IDs.
	Dropped int

	// Width and Height echo the canvas the seed positions were placed on.
	Width  float64
	Height float64

	index map[string]int
}

// Empty reports whether the payload contained no nodes. An empty build is a
// terminal state: the layout engine is never invoked for it.
func (b *Built) Empty() bool { return len(b.Nodes) == 0 }

// NodeIndex returns the arena index for a node ID.
func (b *Built) NodeIndex(id string) (int, bool) {
	i, ok := b.index[id]
	return i, ok
}

// Build normalizes a payload into a layout-ready graph.
//
// Each node is assigned an initial position jittered near the canvas
// midpoint to avoid degenerate overlap at simulation start. Edges referencing
// unknown node IDs are dropped and counted. Edges without an ID get a
// deterministic composite fallback so render output stays stable across
// rebuilds.
//
// A zero-node payload short-circuits to an empty result.
func Build(p graph.Payload, opts Options) *Built {
	opts = opts.withDefaults()

	b := &Built{
		OSIS:   p.OSIS,
		Facets: p.Facets,
		Base:   -1,
		Width:  opts.Width,
		Height: opts.Height,
		index:  make(map[string]int, len(p.Nodes)),
	}

	if len(p.Nodes) == 0 {
		return b
	}

	rng := rand.New(rand.NewPCG(opts.Seed, opts.Seed^0xdeadbeef))
	cx, cy := opts.Width/2, opts.Height/2

	b.Nodes = make([]Node, 0, len(p.Nodes))
	for _, n := range p.Nodes {
		if n.ID == "" {
			b.Dropped++ // unreferenceable, same posture as a dangling edge
			continue
		}
		if _, dup := b.index[n.ID]; dup {
			continue // first occurrence wins
		}
		b.index[n.ID] = len(b.Nodes)
		b.Nodes = append(b.Nodes, Node{
			Node: n,
			X:    cx + (rng.Float64()*2-1)*jitterRadius,
			Y:    cy + (rng.Float64()*2-1)*jitterRadius,
		})
	}

	for i := range b.Nodes {
		if b.Nodes[i].IsVerse() {
			b.Base = i
			break
		}
	}

	b.Edges = make([]Edge, 0, len(p.Edges))
	for _, e := range p.Edges {
		src, okS := b.index[e.SourceID]
		tgt, okT := b.index[e.TargetID]
		if !okS || !okT {
			b.Dropped++
			continue
		}
		if e.ID == "" {
			e.ID = fmt.Sprintf("%s~%s:%s", e.SourceID, e.TargetID, e.Kind)
		}
		b.Edges = append(b.Edges, Edge{Edge: e, Source: src, Target: tgt})
	}

	return b
}
