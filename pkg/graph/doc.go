// Package graph defines the wire types for the verse research graph: the
// payload a backend assembles for one focal passage (nodes, edges, available
// facets), plus JSON serialization helpers.
//
// These are pure data types shared by every stage of the pipeline - the model
// builder, the force layout engine, the visibility filter, and the render
// contract all consume or reference them. BSON tags exist so the same types
// serve as the MongoDB payload store schema.
package graph
