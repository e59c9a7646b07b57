package layout

import "github.com/versegraph/versegraph/pkg/graph"

// Force parameters. These values are part of the engine's behavioral
// contract: changing any of them changes every settled layout.
const (
	// Steps is the fixed number of integration steps. The simulation runs
	// synchronously for exactly this many steps and stops; there is no
	// animated physics loop.
	Steps = 320

	// LinkDistanceMention is the target distance for mention edges.
	LinkDistanceMention = 140.0

	// LinkDistanceDefault is the target distance for all other edge kinds.
	LinkDistanceDefault = 180.0

	// LinkStrength scales the attraction toward the target distance.
	LinkStrength = 0.45

	// ChargeStrength is the pairwise node repulsion coefficient.
	// Negative denotes repulsion.
	ChargeStrength = -220.0

	// CollidePadding is added to every node's base radius when resolving
	// overlap, keeping labels legible between adjacent circles.
	CollidePadding = 12.0
)

// Base radii by node kind, shared between the collision force and the render
// contract's style table.
const (
	RadiusVerse      = 36.0
	RadiusCommentary = 24.0
	RadiusDefault    = 28.0
)

// Integration tuning. Velocity decays each step, and force application is
// scaled by a temperature that anneals geometrically toward zero influence
// over the fixed step budget.
const (
	velocityDecay = 0.6
	alphaInitial  = 1.0
	alphaMin      = 0.001
)

// linkDistance returns the target length for an edge kind.
func linkDistance(kind string) float64 {
	if kind == graph.EdgeKindMention {
		return LinkDistanceMention
	}
	return LinkDistanceDefault
}

// collideRadius returns the collision radius (base + padding) for a node kind.
func collideRadius(kind string) float64 {
	return BaseRadius(kind) + CollidePadding
}

// BaseRadius returns the visual base radius for a node kind.
func BaseRadius(kind string) float64 {
	switch kind {
	case graph.NodeKindVerse:
		return RadiusVerse
	case graph.NodeKindCommentary:
		return RadiusCommentary
	default:
		return RadiusDefault
	}
}
